package clone

import (
	"testing"

	"github.com/mrshoenel/git-density/internal/clonerunner"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFilter_KeepsOnlyExactlyTwoBlockMatches(t *testing.T) {
	records := []clonerunner.Record{
		{Blocks: []clonerunner.Block{
			{Path: "OLD.go", StartLine: 1, EndLine: 5},
			{Path: "new.go", StartLine: 10, EndLine: 14},
		}},
		{Blocks: []clonerunner.Block{
			{Path: "old.go", StartLine: 1, EndLine: 5},
		}},
		{Blocks: []clonerunner.Block{
			{Path: "old.go", StartLine: 1, EndLine: 5},
			{Path: "new.go", StartLine: 10, EndLine: 14},
			{Path: "third.go", StartLine: 1, EndLine: 2},
		}},
		{Blocks: []clonerunner.Block{
			{Path: "unrelated.go", StartLine: 1, EndLine: 5},
			{Path: "other.go", StartLine: 1, EndLine: 5},
		}},
	}

	pairs, discarded := Filter(records, "old.go", "new.go")
	require.Len(t, pairs, 1)
	assert.Equal(t, 3, discarded)
	assert.Equal(t, "OLD.go", pairs[0].OldPath)
	assert.Equal(t, 10, pairs[0].NewStart)
}

func TestFilter_OrderIndependent(t *testing.T) {
	records := []clonerunner.Record{
		{Blocks: []clonerunner.Block{
			{Path: "new.go", StartLine: 10, EndLine: 14},
			{Path: "old.go", StartLine: 1, EndLine: 5},
		}},
	}
	pairs, discarded := Filter(records, "old.go", "new.go")
	require.Len(t, pairs, 1)
	assert.Equal(t, 0, discarded)
}

func TestOverlay_CountsLinesWithinBlocks(t *testing.T) {
	pairs := []Pair{{OldStart: 1, OldEnd: 5, NewStart: 10, NewEnd: 14}}
	assert.Equal(t, 3, Overlay(pairs, []int{1, 3, 5, 6, 20}, OldSide))
	assert.Equal(t, 2, Overlay(pairs, []int{9, 10, 14, 15}, NewSide))
}

func TestOverlay_EmptyPairsCountsNothing(t *testing.T) {
	assert.Equal(t, 0, Overlay(nil, []int{1, 2, 3}, OldSide))
}
