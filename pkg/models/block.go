package models

// BlockNature classifies a TextBlock by its line-type mix.
type BlockNature int

const (
	Context BlockNature = iota
	BlockAdded
	BlockDeleted
	Replaced
)

func (n BlockNature) String() string {
	switch n {
	case BlockAdded:
		return "Added"
	case BlockDeleted:
		return "Deleted"
	case Replaced:
		return "Replaced"
	default:
		return "Context"
	}
}

// TextBlock is a non-empty, maximal contiguous run of diff lines whose
// change-kind mix is homogeneous: context blocks contain only untouched
// lines; change blocks contain zero or more deleted lines followed by zero
// or more added lines, with at least one of either present.
type TextBlock struct {
	Nature BlockNature
	Lines  []Line
}

// LinesAdded counts the block's Added lines.
func (b TextBlock) LinesAdded() int { return b.count(LineAdded) }

// LinesDeleted counts the block's Deleted lines.
func (b TextBlock) LinesDeleted() int { return b.count(LineDeleted) }

// LinesUntouched counts the block's Untouched lines.
func (b TextBlock) LinesUntouched() int { return b.count(LineUntouched) }

func (b TextBlock) count(t LineType) int {
	n := 0
	for _, l := range b.Lines {
		if l.Type == t {
			n++
		}
	}
	return n
}

// AddedText concatenates the text of the block's Added lines, each
// terminated by a newline.
func (b TextBlock) AddedText() string { return b.textOf(LineAdded) }

// DeletedText concatenates the text of the block's Deleted lines, each
// terminated by a newline.
func (b TextBlock) DeletedText() string { return b.textOf(LineDeleted) }

func (b TextBlock) textOf(t LineType) string {
	var out []byte
	for _, l := range b.Lines {
		if l.Type != t {
			continue
		}
		out = append(out, l.Content()...)
		out = append(out, '\n')
	}
	return string(out)
}

// ContentsOf returns the Content (marker-stripped) text of every line of
// type t, in line order, without joining.
func (b TextBlock) ContentsOf(t LineType) []string {
	var out []string
	for _, l := range b.Lines {
		if l.Type == t {
			out = append(out, l.Content())
		}
	}
	return out
}

// DeriveNature computes the BlockNature implied by a line mix, per the
// invariant in the data model: Replaced iff both added and deleted counts
// are nonzero, else Added/Deleted/Context accordingly.
func DeriveNature(added, deleted, untouched int) BlockNature {
	switch {
	case added > 0 && deleted > 0:
		return Replaced
	case added > 0:
		return BlockAdded
	case deleted > 0:
		return BlockDeleted
	default:
		return Context
	}
}
