// Package stats provides statistical utility functions for analyzers,
// including the descriptive statistics the hours estimator reports
// alongside its session-segmented totals.
package stats

import "gonum.org/v1/gonum/stat"

// Percentile calculates the p-th percentile of a sorted slice.
// The slice must already be sorted in ascending order.
// Returns 0 if the slice is empty.
func Percentile(sorted []float64, p int) float64 {
	if len(sorted) == 0 {
		return 0
	}
	idx := (p * len(sorted)) / 100
	if idx >= len(sorted) {
		idx = len(sorted) - 1
	}
	return sorted[idx]
}

// GapStats summarizes a developer's inter-commit gap distribution, in
// minutes, for observability alongside the hours estimate.
type GapStats struct {
	Mean   float64
	StdDev float64
	Min    float64
	Max    float64
}

// DescribeGaps computes mean/standard-deviation/min/max over a non-empty
// slice of minute gaps using gonum's descriptive statistics. Returns the
// zero value for an empty input.
func DescribeGaps(gapsMinutes []float64) GapStats {
	if len(gapsMinutes) == 0 {
		return GapStats{}
	}
	mean, variance := stat.MeanVariance(gapsMinutes, nil)
	min, max := gapsMinutes[0], gapsMinutes[0]
	for _, g := range gapsMinutes {
		if g < min {
			min = g
		}
		if g > max {
			max = g
		}
	}
	stdDev := 0.0
	if variance > 0 {
		stdDev = stat.StdDev(gapsMinutes, nil)
	}
	return GapStats{Mean: mean, StdDev: stdDev, Min: min, Max: max}
}
