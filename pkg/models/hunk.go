package models

// Hunk is one parsed region of a unified diff for a single file: an old/new
// line-range header plus the raw body between it and the next header (or
// end of text).
type Hunk struct {
	OldStart int
	OldCount int
	NewStart int
	NewCount int
	Body     string

	// RepresentsNewEmptyFile flags the three "empty hunk" special cases: a
	// new empty file, a pure rename with no content change, or a
	// whole-file deletion. All four numeric fields are zero and Body is
	// empty whenever this is true.
	RepresentsNewEmptyFile bool
}

// IsEmpty reports whether every numeric field is zero and the body is
// empty, the canonical shape of an empty-file hunk.
func (h Hunk) IsEmpty() bool {
	return h.OldStart == 0 && h.OldCount == 0 && h.NewStart == 0 && h.NewCount == 0 && h.Body == ""
}
