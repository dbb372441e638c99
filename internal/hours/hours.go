// Package hours implements the session-segmented effort-hours estimator
// (C10): a gap in commit timestamps beyond a configured threshold starts a
// new working session instead of accumulating continuously.
package hours

import (
	"context"
	"sort"
	"time"

	"github.com/mrshoenel/git-density/internal/pool"
	"github.com/mrshoenel/git-density/pkg/config"
	"github.com/mrshoenel/git-density/pkg/models"
	"github.com/mrshoenel/git-density/pkg/stats"
)

// Commit is the minimal per-commit input the estimator needs: a SHA plus
// its UTC timestamp.
type Commit struct {
	SHA  string
	When time.Time
}

// Estimate runs the session-segmented algorithm over one developer's
// commits (in any order; Estimate sorts them ascending) per §4.10. An
// empty input yields no spans.
func Estimate(developer string, commits []Commit, cfg config.HoursConfig) []models.HoursSpan {
	if len(commits) == 0 {
		return nil
	}

	ordered := append([]Commit(nil), commits...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].When.Before(ordered[j].When) })

	maxDiff := time.Duration(cfg.MaxDiff) * time.Minute
	firstCommitAdd := float64(cfg.FirstCommitAdd) / 60.0

	initialSHA := ordered[0].SHA
	spans := make([]models.HoursSpan, 0, len(ordered))
	running := 0.0

	// The first commit always contributes first_commit_add and starts a
	// session.
	running += firstCommitAdd
	spans = append(spans, models.HoursSpan{
		Developer:        developer,
		InitialCommit:    initialSHA,
		SinceCommit:      nil,
		UntilCommit:      ordered[0].SHA,
		Hours:            firstCommitAdd,
		RunningTotal:     running,
		IsInitial:        true,
		IsSessionInitial: true,
	})

	for i := 1; i < len(ordered); i++ {
		prev, cur := ordered[i-1], ordered[i]
		gap := cur.When.Sub(prev.When)

		var hours float64
		sessionInitial := false
		if gap <= maxDiff {
			hours = gap.Minutes() / 60.0
		} else {
			sessionInitial = true
			hours = firstCommitAdd
		}

		running += hours
		since := prev.SHA
		spans = append(spans, models.HoursSpan{
			Developer:        developer,
			InitialCommit:    initialSHA,
			SinceCommit:      &since,
			UntilCommit:      cur.SHA,
			Hours:            hours,
			RunningTotal:     running,
			IsInitial:        false,
			IsSessionInitial: sessionInitial,
		})
	}

	return spans
}

// EstimateAll runs Estimate for every developer under every configured
// session-model parameterization, fanning out one worker per HoursConfig
// (the "hours-type configurations" parallel section of §5). The fan-out
// width is always the number of configs; the run's ExecutionPolicy is not
// consulted. Spans from different configurations for the same developer are
// not merged; each carries its own running totals.
func EstimateAll(ctx context.Context, byDeveloper map[string][]Commit, configs []config.HoursConfig) ([]models.HoursSpan, error) {
	developers := make([]string, 0, len(byDeveloper))
	for d := range byDeveloper {
		developers = append(developers, d)
	}
	sort.Strings(developers)

	maxParallel := pool.MaxParallelism(false, len(configs))
	results, errs := pool.Map(ctx, configs, maxParallel, func(_ context.Context, cfg config.HoursConfig) ([]models.HoursSpan, error) {
		var spans []models.HoursSpan
		for _, d := range developers {
			spans = append(spans, Estimate(d, byDeveloper[d], cfg)...)
		}
		return spans, nil
	})
	if len(errs) > 0 {
		return nil, errs[0].Err
	}

	var all []models.HoursSpan
	for _, spans := range results {
		all = append(all, spans...)
	}
	return all, nil
}

// GapsMinutes extracts the inter-commit gaps, in minutes, from an ordered
// (ascending) commit slice, for feeding pkg/stats.DescribeGaps.
func GapsMinutes(commits []Commit) []float64 {
	if len(commits) < 2 {
		return nil
	}
	ordered := append([]Commit(nil), commits...)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].When.Before(ordered[j].When) })

	gaps := make([]float64, 0, len(ordered)-1)
	for i := 1; i < len(ordered); i++ {
		gaps = append(gaps, ordered[i].When.Sub(ordered[i-1].When).Minutes())
	}
	return gaps
}

// DescribeDeveloperGaps computes one GapStats per developer from their raw
// commit timestamps, independent of any HoursConfig, for the CLI's
// developer-gap summary. Developers with fewer than two commits are
// omitted, since a gap distribution needs at least one gap.
func DescribeDeveloperGaps(byDeveloper map[string][]Commit) []models.DeveloperGapSummary {
	developers := make([]string, 0, len(byDeveloper))
	for d := range byDeveloper {
		developers = append(developers, d)
	}
	sort.Strings(developers)

	var out []models.DeveloperGapSummary
	for _, d := range developers {
		gaps := GapsMinutes(byDeveloper[d])
		if len(gaps) == 0 {
			continue
		}
		out = append(out, models.DeveloperGapSummary{
			Developer: d,
			Gaps:      stats.DescribeGaps(gaps),
		})
	}
	return out
}
