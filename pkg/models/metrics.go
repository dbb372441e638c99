package models

// ChangeMetrics is the per-(pair, file, measurement_type) aggregate the
// aggregator (C9) produces: LOC for the file plus raw, clone-detected, and
// post-clone-detection added/deleted counts, each in comment-inclusive and
// comment-exclusive variants. LOC fields are signed to allow negation on
// deletion.
type ChangeMetrics struct {
	PairID      string
	Path        string
	Measurement MeasurementType

	LocFileGross      int
	LocFileNoComments int

	LinesAdded              int
	LinesDeleted            int
	LinesAddedNoComments    int
	LinesDeletedNoComments  int
	PostCloneAdded          int
	PostCloneDeleted        int
	PostCloneAddedNoComments   int
	PostCloneDeletedNoComments int
	ClonedLinesAdded           int
	ClonedLinesDeleted         int
	ClonedLinesAddedNoComments   int
	ClonedLinesDeletedNoComments int
}

// Add accumulates another metrics record's counters into m.
func (m *ChangeMetrics) Add(o ChangeMetrics) {
	m.LinesAdded += o.LinesAdded
	m.LinesDeleted += o.LinesDeleted
	m.LinesAddedNoComments += o.LinesAddedNoComments
	m.LinesDeletedNoComments += o.LinesDeletedNoComments
	m.PostCloneAdded += o.PostCloneAdded
	m.PostCloneDeleted += o.PostCloneDeleted
	m.PostCloneAddedNoComments += o.PostCloneAddedNoComments
	m.PostCloneDeletedNoComments += o.PostCloneDeletedNoComments
	m.ClonedLinesAdded += o.ClonedLinesAdded
	m.ClonedLinesDeleted += o.ClonedLinesDeleted
	m.ClonedLinesAddedNoComments += o.ClonedLinesAddedNoComments
	m.ClonedLinesDeletedNoComments += o.ClonedLinesDeletedNoComments
}
