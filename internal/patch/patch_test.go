package patch

import (
	"testing"

	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse_SingleEmptyAddedHunk(t *testing.T) {
	hunks, err := Parse("", NewEmptyFile)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.True(t, h.RepresentsNewEmptyFile)
	assert.Zero(t, h.OldStart)
	assert.Zero(t, h.OldCount)
	assert.Zero(t, h.NewStart)
	assert.Zero(t, h.NewCount)
	assert.Empty(t, h.Body)
}

func TestParse_PureRenameAndWholeFileDeletion(t *testing.T) {
	for _, shape := range []EmptyFileShape{PureRename, WholeFileDeletion} {
		hunks, err := Parse("anything", shape)
		require.NoError(t, err)
		require.Len(t, hunks, 1)
		assert.True(t, hunks[0].RepresentsNewEmptyFile)
	}
}

func TestParse_HeaderWalkthrough(t *testing.T) {
	text := "@@ -12,5 +20,7 @@ func foo() {\n- old\n+ new1\n+ new2\n context\n"
	hunks, err := Parse(text, NotEmpty)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	h := hunks[0]
	assert.Equal(t, 12, h.OldStart)
	assert.Equal(t, 5, h.OldCount)
	assert.Equal(t, 20, h.NewStart)
	assert.Equal(t, 7, h.NewCount)
	assert.Equal(t, "- old\n+ new1\n+ new2\n context\n", h.Body)
}

func TestParse_ExplicitStartOfOne(t *testing.T) {
	text := "@@ -1,3 +1,3 @@\n context\n-x\n+y\n"
	hunks, err := Parse(text, NotEmpty)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	assert.Equal(t, 1, hunks[0].OldStart)
	assert.Equal(t, 1, hunks[0].NewStart)
}

func TestParse_BareLineNumberIsCountNotStart(t *testing.T) {
	// Flags the retained OldStart/OldAmount field-meaning quirk: a bare
	// number with no comma binds to the *count* group, not the start
	// group, even though conventional unified-diff readers would take a
	// lone number as "start, count=1". This mismatch is intentionally
	// retained rather than normalized away.
	text := "@@ -5 +5 @@\n-old\n+new\n"
	hunks, err := Parse(text, NotEmpty)
	require.NoError(t, err)
	require.Len(t, hunks, 1)
	assert.Equal(t, 0, hunks[0].OldStart)
	assert.Equal(t, 5, hunks[0].OldCount)
	assert.Equal(t, 0, hunks[0].NewStart)
	assert.Equal(t, 5, hunks[0].NewCount)
}

func TestParse_MultipleHunks(t *testing.T) {
	text := "@@ -1,2 +1,2 @@\n-a\n+b\n@@ -10,1 +10,1 @@\n-c\n+d\n"
	hunks, err := Parse(text, NotEmpty)
	require.NoError(t, err)
	require.Len(t, hunks, 2)
	assert.Equal(t, 1, hunks[0].OldStart)
	assert.Equal(t, 10, hunks[1].OldStart)
}

func TestParse_NoHunks(t *testing.T) {
	hunks, err := Parse("", NotEmpty)
	require.NoError(t, err)
	assert.Nil(t, hunks)
}

func TestParse_MalformedHeader(t *testing.T) {
	_, err := Parse("@@ garbage @@\nsomething\n", NotEmpty)
	require.Error(t, err)
	assert.Equal(t, models.PatchMalformed, models.KindOf(err))
}
