// Package clone implements the clone-set overlay (C8): filtering raw
// clone-detection records down to usable 2-block pairs and intersecting
// them against a file's changed line numbers.
package clone

import (
	"strings"

	"github.com/mrshoenel/git-density/internal/clonerunner"
)

// Pair is a usable clone record: exactly two blocks, matched to the
// old-side and new-side of the same tree change by case-insensitive path.
type Pair struct {
	OldPath      string
	OldStart     int
	OldEnd       int
	NewPath      string
	NewStart     int
	NewEnd       int
}

// Filter keeps only records with exactly two blocks whose paths match the
// given old/new tree-change paths (case-insensitively), one block per
// side. DiscardedCount reports how many records were dropped, either for
// not having exactly two blocks or for not matching this tree change, per
// §9 Open Question (3): non-2-block records are silently unusable for
// overlay purposes but the count stays observable rather than vanishing.
func Filter(records []clonerunner.Record, oldPath, newPath string) (pairs []Pair, discardedCount int) {
	for _, r := range records {
		if len(r.Blocks) != 2 {
			discardedCount++
			continue
		}

		b0, b1 := r.Blocks[0], r.Blocks[1]
		pair, ok := matchPair(b0, b1, oldPath, newPath)
		if !ok {
			discardedCount++
			continue
		}
		pairs = append(pairs, pair)
	}
	return pairs, discardedCount
}

func matchPair(b0, b1 clonerunner.Block, oldPath, newPath string) (Pair, bool) {
	if samePath(b0.Path, oldPath) && samePath(b1.Path, newPath) {
		return Pair{
			OldPath: b0.Path, OldStart: b0.StartLine, OldEnd: b0.EndLine,
			NewPath: b1.Path, NewStart: b1.StartLine, NewEnd: b1.EndLine,
		}, true
	}
	if samePath(b1.Path, oldPath) && samePath(b0.Path, newPath) {
		return Pair{
			OldPath: b1.Path, OldStart: b1.StartLine, OldEnd: b1.EndLine,
			NewPath: b0.Path, NewStart: b0.StartLine, NewEnd: b0.EndLine,
		}, true
	}
	return Pair{}, false
}

func samePath(a, b string) bool {
	return strings.EqualFold(a, b)
}

// Overlay counts how many of the given line numbers (old-side or
// new-side, selected by side) fall within any of
// pairs' matching-side block range.
func Overlay(pairs []Pair, lineNumbers []int, side Side) int {
	n := 0
	for _, ln := range lineNumbers {
		if inAnyBlock(pairs, ln, side) {
			n++
		}
	}
	return n
}

// Side selects which half of a Pair (old or new) to test a line number
// against.
type Side int

const (
	OldSide Side = iota
	NewSide
)

func inAnyBlock(pairs []Pair, ln int, side Side) bool {
	for _, p := range pairs {
		start, end := p.OldStart, p.OldEnd
		if side == NewSide {
			start, end = p.NewStart, p.NewEnd
		}
		if ln >= start && ln <= end {
			return true
		}
	}
	return false
}
