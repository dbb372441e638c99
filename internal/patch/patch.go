// Package patch parses unified-diff text into hunks with line-range
// headers and raw bodies (C4).
package patch

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/mrshoenel/git-density/pkg/models"
)

// headerPattern implements the permissive dialect of the hunk-header
// regex, per Open Question (2): newStart is optional on both sides.
var headerPattern = regexp.MustCompile(`(?m)^@@\s+-(?:(\d+),)?(\d+)\s+\+(?:(\d+),)?(\d+)\s+@@.*$`)

// EmptyFileShape names which of the three "empty hunk" special cases a
// caller has detected from tree-entry metadata.
type EmptyFileShape int

const (
	// NotEmpty means the caller should parse the unified-diff text
	// normally.
	NotEmpty EmptyFileShape = iota
	// NewEmptyFile is a mode transition Nonexistent→Regular with zero
	// lines added.
	NewEmptyFile
	// PureRename is a rename with no content change.
	PureRename
	// WholeFileDeletion is a mode transition to Nonexistent.
	WholeFileDeletion
)

// emptyHunk is the canonical all-zero, empty-body hunk shared by every
// empty-file special case.
func emptyHunk() models.Hunk {
	return models.Hunk{RepresentsNewEmptyFile: true}
}

// Parse parses unified-diff text for one file into its Hunks. shape lets
// the caller short-circuit to the empty-hunk special cases described in
// §4.4 without relying on header parsing, since those three shapes often
// carry no "@@" header at all (or none with meaningful content).
func Parse(unifiedText string, shape EmptyFileShape) ([]models.Hunk, error) {
	if shape != NotEmpty {
		return []models.Hunk{emptyHunk()}, nil
	}
	if strings.TrimSpace(unifiedText) == "" {
		return nil, nil
	}

	locs := headerPattern.FindAllStringSubmatchIndex(unifiedText, -1)
	if locs == nil {
		if strings.Contains(unifiedText, "@@") {
			return nil, models.NewError(models.PatchMalformed, "Parse",
				errMalformedHeader("no hunk header matched the permissive @@ pattern"))
		}
		return nil, nil
	}

	hunks := make([]models.Hunk, 0, len(locs))
	for i, loc := range locs {
		h, err := parseHeader(unifiedText, loc)
		if err != nil {
			return nil, err
		}

		bodyStart := loc[1]
		bodyEnd := len(unifiedText)
		if i+1 < len(locs) {
			bodyEnd = locs[i+1][0]
		}
		body := unifiedText[bodyStart:bodyEnd]
		body = strings.TrimPrefix(body, "\r\n")
		body = strings.TrimPrefix(body, "\n")
		h.Body = body
		hunks = append(hunks, h)
	}
	return hunks, nil
}

// parseHeader extracts the four header fields. Field-meaning is retained
// as originally specified: a bare number with no leading "N," binds to
// the count group, not the start group, so "@@ -5 +5 @@" yields
// OldStart=0, OldCount=5 rather than OldStart=5, OldCount=1. This
// mismatches conventional unified-diff readers by design; see the
// corresponding test.
func parseHeader(text string, loc []int) (models.Hunk, error) {
	// loc layout: [fullStart, fullEnd, oldStartStart, oldStartEnd,
	// oldNumStart, oldNumEnd, newStartStart, newStartEnd, newNumStart, newNumEnd]
	oldStart := groupOrZero(text, loc, 2)
	oldNum := groupOrZero(text, loc, 4)
	newStart := groupOrZero(text, loc, 6)
	newNum := groupOrZero(text, loc, 8)

	os, err := atoiOrError(oldStart)
	if err != nil {
		return models.Hunk{}, err
	}
	on, err := atoiOrError(oldNum)
	if err != nil {
		return models.Hunk{}, err
	}
	ns, err := atoiOrError(newStart)
	if err != nil {
		return models.Hunk{}, err
	}
	nn, err := atoiOrError(newNum)
	if err != nil {
		return models.Hunk{}, err
	}

	return models.Hunk{OldStart: os, OldCount: on, NewStart: ns, NewCount: nn}, nil
}

func groupOrZero(text string, loc []int, groupIdx int) string {
	start, end := loc[groupIdx], loc[groupIdx+1]
	if start < 0 || end < 0 {
		return "0"
	}
	return text[start:end]
}

func atoiOrError(s string) (int, error) {
	if s == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, models.NewError(models.PatchMalformed, "parseHeader", err)
	}
	return n, nil
}

type errMalformedHeader string

func (e errMalformedHeader) Error() string { return string(e) }
