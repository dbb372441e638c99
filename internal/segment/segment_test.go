package segment

import (
	"testing"

	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLines_NumbersAdvanceCorrectly(t *testing.T) {
	h := models.Hunk{OldStart: 12, OldCount: 5, NewStart: 20, NewCount: 7,
		Body: "- old\n+ new1\n+ new2\n context\n"}
	lines := Lines(h)
	require.Len(t, lines, 4)

	assert.Equal(t, models.LineDeleted, lines[0].Type)
	assert.Equal(t, 12, lines[0].Number)

	assert.Equal(t, models.LineAdded, lines[1].Type)
	assert.Equal(t, 20, lines[1].Number)

	assert.Equal(t, models.LineAdded, lines[2].Type)
	assert.Equal(t, 21, lines[2].Number)

	assert.Equal(t, models.LineUntouched, lines[3].Type)
	assert.Equal(t, 22, lines[3].Number)
}

func TestBlocks_ReplacedBlockExample(t *testing.T) {
	// Literal scenario 3: a context block, a replaced (3-line) block, a
	// trailing context block.
	h := models.Hunk{OldStart: 1, OldCount: 3, NewStart: 1, NewCount: 3,
		Body: " ctx1\n-old1\n-old2\n+new1\n ctx2\n"}
	blocks := Segment(h)
	require.Len(t, blocks, 3)

	assert.Equal(t, models.Context, blocks[0].Nature)
	assert.Equal(t, 1, blocks[0].LinesUntouched())

	replaced := blocks[1]
	assert.Equal(t, models.Replaced, replaced.Nature)
	assert.Equal(t, 2, replaced.LinesDeleted())
	assert.Equal(t, 1, replaced.LinesAdded())
	// Deleted lines precede Added lines within the replaced block.
	require.Len(t, replaced.Lines, 3)
	assert.Equal(t, models.LineDeleted, replaced.Lines[0].Type)
	assert.Equal(t, models.LineDeleted, replaced.Lines[1].Type)
	assert.Equal(t, models.LineAdded, replaced.Lines[2].Type)

	assert.Equal(t, models.Context, blocks[2].Nature)
}

func TestBlocks_PureAddedBlock(t *testing.T) {
	h := models.Hunk{OldStart: 1, OldCount: 0, NewStart: 1, NewCount: 2, Body: "+a\n+b\n"}
	blocks := Segment(h)
	require.Len(t, blocks, 1)
	assert.Equal(t, models.BlockAdded, blocks[0].Nature)
	assert.Equal(t, 2, blocks[0].LinesAdded())
}

func TestBlocks_PureDeletedBlock(t *testing.T) {
	h := models.Hunk{OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 0, Body: "-a\n-b\n"}
	blocks := Segment(h)
	require.Len(t, blocks, 1)
	assert.Equal(t, models.BlockDeleted, blocks[0].Nature)
	assert.Equal(t, 2, blocks[0].LinesDeleted())
}

func TestSegment_EmptyHunkYieldsNoBlocks(t *testing.T) {
	h := models.Hunk{RepresentsNewEmptyFile: true}
	blocks := Segment(h)
	assert.Nil(t, blocks)
}

// TestHunkLineCountsSum verifies the testable property that a hunk's
// declared OldCount/NewCount equal the number of old-side/new-side lines
// actually produced.
func TestHunkLineCountsSum(t *testing.T) {
	h := models.Hunk{OldStart: 1, OldCount: 2, NewStart: 1, NewCount: 3,
		Body: "-a\n+b\n+c\n context\n"}
	lines := Lines(h)

	oldSide, newSide := 0, 0
	for _, l := range lines {
		switch l.Type {
		case models.LineDeleted:
			oldSide++
		case models.LineAdded:
			newSide++
		case models.LineUntouched:
			oldSide++
			newSide++
		}
	}
	assert.Equal(t, h.OldCount, oldSide)
	assert.Equal(t, h.NewCount, newSide)
}

// TestLineNumberReconstruction verifies that re-deriving old/new line
// numbers from the produced Lines reconstructs a contiguous run starting
// at OldStart/NewStart, per the §8 quantified property.
func TestLineNumberReconstruction(t *testing.T) {
	h := models.Hunk{OldStart: 100, OldCount: 2, NewStart: 200, NewCount: 2,
		Body: " ctx\n-old\n+new\n"}
	lines := Lines(h)

	wantOld, wantNew := h.OldStart, h.NewStart
	for _, l := range lines {
		switch l.Type {
		case models.LineDeleted:
			assert.Equal(t, wantOld, l.Number)
			wantOld++
		case models.LineAdded:
			assert.Equal(t, wantNew, l.Number)
			wantNew++
		default:
			assert.Equal(t, wantNew, l.Number)
			wantOld++
			wantNew++
		}
	}
}

// TestBlockNatureInvariant checks DeriveNature consistency: every block's
// Nature matches what DeriveNature would compute from its own line counts.
func TestBlockNatureInvariant(t *testing.T) {
	h := models.Hunk{OldStart: 1, OldCount: 3, NewStart: 1, NewCount: 3,
		Body: " ctx1\n-old1\n-old2\n+new1\n ctx2\n"}
	for _, b := range Segment(h) {
		assert.Equal(t, models.DeriveNature(b.LinesAdded(), b.LinesDeleted(), b.LinesUntouched()), b.Nature)
	}
}
