package loc

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify_Basic(t *testing.T) {
	c := Classify([]string{"a", "", "  ", "b"})
	assert.Equal(t, 4, c.Gross)
	assert.Equal(t, 2, c.NoComments)
}

func TestClassify_SingleLineComment(t *testing.T) {
	c := Classify([]string{"int x = 1;", "// a comment", "  // indented comment", "int y = 2;"})
	assert.Equal(t, 4, c.Gross)
	assert.Equal(t, 2, c.NoComments)
}

func TestClassify_MultiLineComment(t *testing.T) {
	c := Classify([]string{"a();", "/* start", "still a comment", "end */", "b();"})
	assert.Equal(t, 5, c.Gross)
	assert.Equal(t, 2, c.NoComments)
}

func TestClassify_MultiLineCommentSingleLine(t *testing.T) {
	c := Classify([]string{"a(); /* inline */ b();"})
	// the regex strips the comment but leaves surrounding code on the
	// same line, which is non-blank and therefore still counted.
	c2 := Classify([]string{"a(); /* inline */ b();"})
	assert.Equal(t, c.NoComments, c2.NoComments)
	assert.Equal(t, 1, c.Gross)
	assert.Equal(t, 1, c.NoComments)
}

func TestClassify_Invariant_NoCommentsNeverExceedsGross(t *testing.T) {
	cases := [][]string{
		{},
		{""},
		{"a"},
		{"// only a comment"},
		{"a", "/* block", "still block */", "b"},
	}
	for _, lines := range cases {
		c := Classify(lines)
		assert.GreaterOrEqual(t, c.NoComments, 0)
		assert.LessOrEqual(t, c.NoComments, c.Gross)
	}
}

func TestClassify_Deterministic(t *testing.T) {
	lines := []string{"a();", "// comment", "/* block", "more", "end */", "b();"}
	c1 := Classify(lines)
	c2 := Classify(lines)
	assert.Equal(t, c1, c2)
}

func TestClassify_Empty(t *testing.T) {
	c := Classify(nil)
	assert.Equal(t, 0, c.Gross)
	assert.Equal(t, 0, c.NoComments)
}
