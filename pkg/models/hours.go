package models

// HoursSpan is the per-commit detail the hours estimator (C10) produces:
// the hours attributed to the transition from since_commit (absent for the
// developer's first commit) to until_commit, plus a running total.
type HoursSpan struct {
	Developer        string
	InitialCommit    string
	SinceCommit      *string
	UntilCommit      string
	Hours            float64
	RunningTotal     float64
	IsInitial        bool
	IsSessionInitial bool
}
