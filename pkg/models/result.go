package models

import (
	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/stats"
)

// Result is the rooted output object produced by one analysis run.
type Result struct {
	RepositoryPath string
	Developers     []*DeveloperIdentity
	Commits        []vcs.Commit
	CommitPairs    []*CommitPairResult
	Hours          []HoursSpan
	DeveloperGaps  []DeveloperGapSummary
}

// DeveloperGapSummary reports one developer's inter-commit gap distribution
// (in minutes) alongside their hours estimate, for spotting irregular
// commit cadence the session-segmented totals alone don't surface.
type DeveloperGapSummary struct {
	Developer string
	Gaps      stats.GapStats
}

// CommitPairResult is one CommitPair's contribution to the result tree.
type CommitPairResult struct {
	PairID           string
	Child            vcs.Commit
	Parent           *vcs.Commit
	TreeEntryChanges []TreeEntryContribution
}

// TreeEntryContribution is a single changed file's contribution within a
// pair: the blocks the file decomposed into, and one ChangeMetrics per
// enabled measurement type (including the implicit None sentinel).
type TreeEntryContribution struct {
	Change     vcs.TreeEntryChange
	FileBlocks []FileBlock
	Metrics    []ChangeMetrics
}

// FileBlock pairs one TextBlock with the similarity records computed for
// it, one per enabled measurement.
type FileBlock struct {
	Block        TextBlock
	Similarities []SimilarityRecord
}
