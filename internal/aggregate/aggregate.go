// Package aggregate combines parsed hunks, blocks, similarity records, and
// clone overlays into the per-file, per-measurement ChangeMetrics the
// result tree exposes (C9).
package aggregate

import (
	"github.com/mrshoenel/git-density/internal/clone"
	"github.com/mrshoenel/git-density/internal/loc"
	"github.com/mrshoenel/git-density/internal/segment"
	"github.com/mrshoenel/git-density/internal/similarity"
	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
)

// FileInput is everything the aggregator needs to build one file's
// TreeEntryContribution.
type FileInput struct {
	Change       vcs.TreeEntryChange
	Hunks        []models.Hunk
	OldFileLines []string
	NewFileLines []string
	ClonePairs   []clone.Pair
	Measurements []models.MeasurementType // enabled, excluding the implicit None
}

// Build produces the FileBlocks and per-measurement ChangeMetrics for one
// changed file, per §4.9.
func Build(in FileInput) models.TreeEntryContribution {
	gross, noComments := fileLOC(in)

	isPureAddOrDelete := in.Change.Kind == vcs.Added || in.Change.Kind == vcs.Deleted

	var blocks []models.FileBlock
	byMeasurement := make(map[models.MeasurementType]*models.ChangeMetrics)
	get := func(mt models.MeasurementType) *models.ChangeMetrics {
		if m, ok := byMeasurement[mt]; ok {
			return m
		}
		m := &models.ChangeMetrics{Measurement: mt, LocFileGross: gross, LocFileNoComments: noComments}
		byMeasurement[mt] = m
		return m
	}
	get(models.NoneType)
	for _, mt := range in.Measurements {
		get(mt)
	}

	for _, h := range in.Hunks {
		for _, b := range segment.Segment(h) {
			fb := models.FileBlock{Block: b}

			addedLines := lineNumbers(b, models.LineAdded)
			deletedLines := lineNumbers(b, models.LineDeleted)
			clonedAdded := clone.Overlay(in.ClonePairs, addedLines, clone.NewSide)
			clonedDeleted := clone.Overlay(in.ClonePairs, deletedLines, clone.OldSide)

			addedText := b.AddedText()
			deletedText := b.DeletedText()
			noCommentAdded := noCommentText(b.ContentsOf(models.LineAdded))
			noCommentDeleted := noCommentText(b.ContentsOf(models.LineDeleted))
			locAdded := loc.Classify(b.ContentsOf(models.LineAdded))
			locDeleted := loc.Classify(b.ContentsOf(models.LineDeleted))

			skipSimilarity := isPureAddOrDelete
			if !skipSimilarity {
				fb.Similarities = similarity.Catalog(in.Measurements, addedText, deletedText)
			}

			for mt, m := range byMeasurement {
				weight := 1.0
				if !skipSimilarity && mt != models.NoneType {
					weight = 1 - similarity.Measure(mt, addedText, deletedText)
				}

				m.LinesAdded += weightedInt(len(addedLines), weight)
				m.LinesDeleted += weightedInt(len(deletedLines), weight)
				m.LinesAddedNoComments += weightedInt(locAdded.NoComments, weight)
				m.LinesDeletedNoComments += weightedInt(locDeleted.NoComments, weight)

				m.ClonedLinesAdded += clonedAdded
				m.ClonedLinesDeleted += clonedDeleted
				m.PostCloneAdded += len(addedLines) - clonedAdded
				m.PostCloneDeleted += len(deletedLines) - clonedDeleted

				noCommentClonedAdded := overlayNoComment(addedLines, b.ContentsOf(models.LineAdded), in.ClonePairs, clone.NewSide)
				noCommentClonedDeleted := overlayNoComment(deletedLines, b.ContentsOf(models.LineDeleted), in.ClonePairs, clone.OldSide)
				m.ClonedLinesAddedNoComments += noCommentClonedAdded
				m.ClonedLinesDeletedNoComments += noCommentClonedDeleted
				m.PostCloneAddedNoComments += len(noCommentAdded) - noCommentClonedAdded
				m.PostCloneDeletedNoComments += len(noCommentDeleted) - noCommentClonedDeleted
			}

			blocks = append(blocks, fb)
		}
	}

	metrics := make([]models.ChangeMetrics, 0, len(byMeasurement))
	metrics = append(metrics, *byMeasurement[models.NoneType])
	for _, mt := range in.Measurements {
		metrics = append(metrics, *byMeasurement[mt])
	}

	return models.TreeEntryContribution{
		Change:     in.Change,
		FileBlocks: blocks,
		Metrics:    metrics,
	}
}

func lineNumbers(b models.TextBlock, t models.LineType) []int {
	var out []int
	for _, l := range b.Lines {
		if l.Type == t {
			out = append(out, l.Number)
		}
	}
	return out
}

func noCommentText(lines []string) []string {
	var out []string
	for _, l := range lines {
		if isBlankOrComment(l) {
			continue
		}
		out = append(out, l)
	}
	return out
}

func isBlankOrComment(line string) bool {
	trimmed := line
	for len(trimmed) > 0 && (trimmed[0] == ' ' || trimmed[0] == '\t') {
		trimmed = trimmed[1:]
	}
	if trimmed == "" {
		return true
	}
	return len(trimmed) >= 2 && trimmed[0] == '/' && trimmed[1] == '/'
}

func overlayNoComment(allLineNumbers []int, contents []string, pairs []clone.Pair, side clone.Side) int {
	n := 0
	for i, ln := range allLineNumbers {
		if i >= len(contents) || isBlankOrComment(contents[i]) {
			continue
		}
		if clone.Overlay(pairs, []int{ln}, side) == 1 {
			n++
		}
	}
	return n
}

func weightedInt(n int, weight float64) int {
	return int(float64(n)*weight + 0.5)
}

// fileLOC computes the file-level LOC fields per §4.9: the new file's
// counts for Added/Modified/Renamed, the negated old file's counts for
// Deleted.
func fileLOC(in FileInput) (gross, noComments int) {
	if in.Change.Kind == vcs.Deleted {
		c := loc.Classify(in.OldFileLines)
		return -c.Gross, -c.NoComments
	}
	c := loc.Classify(in.NewFileLines)
	return c.Gross, c.NoComments
}
