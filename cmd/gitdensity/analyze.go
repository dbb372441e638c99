package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/mrshoenel/git-density/internal/developer"
	"github.com/mrshoenel/git-density/internal/hours"
	"github.com/mrshoenel/git-density/internal/orchestrator"
	"github.com/mrshoenel/git-density/internal/pairing"
	"github.com/mrshoenel/git-density/internal/span"
	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/config"
	"github.com/mrshoenel/git-density/pkg/models"
)

var (
	flagSince       string
	flagUntil       string
	flagLimit       int
	flagSkipInitial bool
	flagSkipMerge   bool
	flagOrder       string
	flagSelector    string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze [path]",
	Short: "Run the full mining pipeline over a repository and print a Result",
	Args:  cobra.MaximumNArgs(1),
	RunE:  runAnalyze,
}

func init() {
	analyzeCmd.Flags().StringVar(&flagSince, "since", "", "inclusive lower bound: a 'yyyy-MM-dd HH:mm' date or a commit-ish")
	analyzeCmd.Flags().StringVar(&flagUntil, "until", "", "inclusive upper bound: a 'yyyy-MM-dd HH:mm' date or a commit-ish")
	analyzeCmd.Flags().IntVar(&flagLimit, "limit", 0, "cap the number of candidate commits, 0 for unlimited")
	analyzeCmd.Flags().BoolVar(&flagSkipInitial, "skip-initial", false, "skip the repository's root commit")
	analyzeCmd.Flags().BoolVar(&flagSkipMerge, "skip-merge", false, "skip merge commits")
	analyzeCmd.Flags().StringVar(&flagOrder, "order", "oldest", "pairing traversal order: oldest, latest")
	analyzeCmd.Flags().StringVar(&flagSelector, "selector", "author", "bound/ordering signature: author, committer")
	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	repoPath := "."
	if len(args) == 1 {
		repoPath = args[0]
	}

	cfg, err := loadAnalyzeConfig()
	if err != nil {
		return err
	}

	opener := vcs.NewGitOpener()
	repo, err := opener.Open(repoPath)
	if err != nil {
		return models.NewError(models.RepositoryUnavailable, "runAnalyze", err)
	}
	defer repo.Close()

	selector := span.Author
	if strings.EqualFold(flagSelector, "committer") {
		selector = span.Committer
	}
	sinceBound, err := span.ParseBound(flagSince)
	if err != nil {
		return err
	}
	untilBound, err := span.ParseBound(flagUntil)
	if err != nil {
		return err
	}

	spanResult, err := span.New(repo, span.Request{
		Since:    sinceBound,
		Until:    untilBound,
		Limit:    flagLimit,
		Selector: selector,
	}).Resolve()
	if err != nil {
		return err
	}

	order := pairing.OldestFirst
	if strings.EqualFold(flagOrder, "latest") {
		order = pairing.LatestFirst
	}
	pairs, err := pairing.Build(repo, spanResult.Commits, pairing.Options{
		SkipInitial:  flagSkipInitial || cfg.SkipInitialCommit,
		SkipMerge:    flagSkipMerge || cfg.SkipMergeCommits,
		Order:        order,
		ContextLines: cfg.ContextLines,
	})
	if err != nil {
		return err
	}

	ctx := context.Background()
	orch := orchestrator.New(repo, cfg, logger)
	pairResults, err := orch.Run(ctx, pairs)
	if err != nil {
		return err
	}

	var hourSpans []models.HoursSpan
	var developers []*models.DeveloperIdentity
	var gapSummaries []models.DeveloperGapSummary
	if !cfg.SkipGitMetrics {
		devs, byDeveloper := unifyDevelopers(spanResult.Commits, selector)
		developers = devs
		hourSpans, err = hours.EstimateAll(ctx, byDeveloper, cfg.Hours)
		if err != nil {
			return err
		}
		gapSummaries = hours.DescribeDeveloperGaps(byDeveloper)
	}

	result := &models.Result{
		RepositoryPath: repoPath,
		Developers:     developers,
		Commits:        spanResult.Commits,
		CommitPairs:    pairResults,
		Hours:          hourSpans,
		DeveloperGaps:  gapSummaries,
	}

	return renderResult(result)
}

func loadAnalyzeConfig() (*config.Config, error) {
	opts := loadOpts()
	loaded, err := config.LoadConfig(opts...)
	if err != nil {
		return nil, err
	}
	return loaded.Config, nil
}

// unifyDevelopers folds every commit's signature (per selector) through a
// fresh Unifier in chronological order, returning the distinct identities
// plus each identity's commits keyed by its canonical name for the hours
// estimator's per-developer fan-out.
func unifyDevelopers(commits []vcs.Commit, selector span.Selector) ([]*models.DeveloperIdentity, map[string][]hours.Commit) {
	u := developer.New()
	byDeveloper := make(map[string][]hours.Commit)

	signatureOf := func(c vcs.Commit) vcs.Signature {
		if selector == span.Committer {
			return c.Committer
		}
		return c.Author
	}
	ordered := append([]vcs.Commit(nil), commits...)
	sort.SliceStable(ordered, func(i, j int) bool {
		return signatureOf(ordered[i]).When.Before(signatureOf(ordered[j]).When)
	})
	for _, c := range ordered {
		sig := signatureOf(c)
		id := u.Observe(sig)
		byDeveloper[id.CanonicalName] = append(byDeveloper[id.CanonicalName], hours.Commit{SHA: c.SHA, When: sig.When})
	}
	return u.Identities(), byDeveloper
}

func renderResult(result *models.Result) error {
	w := os.Stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return err
		}
		defer f.Close()
		return writeResult(f, result)
	}
	return writeResult(w, result)
}

func writeResult(w *os.File, result *models.Result) error {
	if strings.EqualFold(format, "json") {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	}
	return renderText(w, result)
}

func renderText(w *os.File, result *models.Result) error {
	fmt.Fprintf(w, "repository: %s\n", result.RepositoryPath)
	fmt.Fprintf(w, "commits analyzed: %d, pairs: %d, developers: %d\n\n",
		len(result.Commits), len(result.CommitPairs), len(result.Developers))

	table := tablewriter.NewTable(w)
	table.Header([]string{"Developer", "Commits Since", "Until", "Hours", "Running Total"})
	for _, h := range result.Hours {
		since := "(initial)"
		if h.SinceCommit != nil {
			since = *h.SinceCommit
		}
		table.Append([]string{
			h.Developer,
			since,
			h.UntilCommit,
			strconv.FormatFloat(h.Hours, 'f', 2, 64),
			strconv.FormatFloat(h.RunningTotal, 'f', 2, 64),
		})
	}
	table.Render()

	if len(result.DeveloperGaps) == 0 {
		return nil
	}

	fmt.Fprintln(w, "\ncommit gap distribution (minutes):")
	gapTable := tablewriter.NewTable(w)
	gapTable.Header([]string{"Developer", "Mean", "StdDev", "Min", "Max"})
	for _, g := range result.DeveloperGaps {
		gapTable.Append([]string{
			g.Developer,
			strconv.FormatFloat(g.Gaps.Mean, 'f', 2, 64),
			strconv.FormatFloat(g.Gaps.StdDev, 'f', 2, 64),
			strconv.FormatFloat(g.Gaps.Min, 'f', 2, 64),
			strconv.FormatFloat(g.Gaps.Max, 'f', 2, 64),
		})
	}
	gapTable.Render()
	return nil
}
