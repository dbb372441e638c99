// Package segment turns a Hunk's raw body into ordered Lines grouped into
// maximal homogeneous TextBlocks (C5). Segment is a pure function: same
// input always yields the same output.
package segment

import (
	"strings"

	"github.com/mrshoenel/git-density/pkg/models"
)

// Lines walks a hunk body line by line, producing one models.Line per
// body line. idxOld/idxNew start at the hunk's OldStart/NewStart and
// advance per §4.5: a "-" line consumes an old-side number, a "+" line
// consumes a new-side number, anything else (context) consumes both.
func Lines(h models.Hunk) []models.Line {
	if h.Body == "" {
		return nil
	}

	rawLines := splitBodyLines(h.Body)
	idxOld := h.OldStart
	idxNew := h.NewStart

	lines := make([]models.Line, 0, len(rawLines))
	for _, raw := range rawLines {
		switch {
		case strings.HasPrefix(raw, "-"):
			lines = append(lines, models.Line{Type: models.LineDeleted, Number: idxOld, Text: raw})
			idxOld++
		case strings.HasPrefix(raw, "+"):
			lines = append(lines, models.Line{Type: models.LineAdded, Number: idxNew, Text: raw})
			idxNew++
		default:
			lines = append(lines, models.Line{Type: models.LineUntouched, Number: idxNew, Text: raw})
			idxOld++
			idxNew++
		}
	}
	return lines
}

// splitBodyLines splits on "\n", dropping one trailing empty element that
// results from a body ending in a newline (the common case), since that
// does not correspond to an actual diff line.
func splitBodyLines(body string) []string {
	parts := strings.Split(body, "\n")
	if len(parts) > 0 && parts[len(parts)-1] == "" {
		parts = parts[:len(parts)-1]
	}
	return parts
}

// isChange reports whether t is a change line-type (Added/Deleted) as
// opposed to Untouched, the distinction blocks are cut on.
func isChange(t models.LineType) bool {
	return t == models.LineAdded || t == models.LineDeleted
}

// Blocks groups lines into maximal contiguous runs whose change-ness
// (Added/Deleted vs Untouched) is constant, per §4.5. A new block starts
// whenever change-ness flips relative to the previous line.
func Blocks(lines []models.Line) []models.TextBlock {
	if len(lines) == 0 {
		return nil
	}

	var blocks []models.TextBlock
	start := 0
	curChange := isChange(lines[0].Type)

	flush := func(end int) {
		seg := lines[start:end]
		added, deleted, untouched := 0, 0, 0
		for _, l := range seg {
			switch l.Type {
			case models.LineAdded:
				added++
			case models.LineDeleted:
				deleted++
			default:
				untouched++
			}
		}
		blocks = append(blocks, models.TextBlock{
			Nature: models.DeriveNature(added, deleted, untouched),
			Lines:  append([]models.Line(nil), seg...),
		})
	}

	for i := 1; i < len(lines); i++ {
		if isChange(lines[i].Type) != curChange {
			flush(i)
			start = i
			curChange = isChange(lines[i].Type)
		}
	}
	flush(len(lines))
	return blocks
}

// Segment runs Lines then Blocks over a hunk in one call.
func Segment(h models.Hunk) []models.TextBlock {
	return Blocks(Lines(h))
}
