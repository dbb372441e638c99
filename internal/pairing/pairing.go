// Package pairing turns an ordered, filtered commit list into parent→child
// CommitPairs (C3), honoring skip-initial/skip-merge configuration.
package pairing

import (
	"github.com/mrshoenel/git-density/internal/vcs"
	"github.com/mrshoenel/git-density/pkg/models"
)

// Order selects traversal direction.
type Order int

const (
	// OldestFirst preserves the input commit order (ascending committer
	// time, as produced by the commit span).
	OldestFirst Order = iota
	// LatestFirst reverses traversal.
	LatestFirst
)

// Options configures pairing.
type Options struct {
	SkipInitial  bool
	SkipMerge    bool
	Order        Order
	ContextLines int
}

// Build emits one CommitPair per commit in commits (at most, per §4.3),
// using repo to resolve parent commits and to back each pair's lazy
// tree-changes/patch materialization.
//
// For each commit c in traversal order: let p = c's first parent (or
// none); if c is the span's root and SkipInitial, skip; if c has more
// than one parent and SkipMerge, skip; otherwise emit a pair.
func Build(repo vcs.Repository, commits []vcs.Commit, opts Options) ([]*models.CommitPair, error) {
	ordered := commits
	if opts.Order == LatestFirst {
		ordered = make([]vcs.Commit, len(commits))
		for i, c := range commits {
			ordered[len(commits)-1-i] = c
		}
	}

	var pairs []*models.CommitPair
	for _, c := range ordered {
		isRoot := c.NumParents() == 0
		if isRoot && opts.SkipInitial {
			continue
		}
		if c.IsMerge() && opts.SkipMerge {
			continue
		}

		var parent *vcs.Commit
		if !isRoot {
			p, err := resolveParent(repo, c)
			if err != nil {
				return nil, err
			}
			parent = p
		}
		pairs = append(pairs, models.NewCommitPair(repo, c, parent, opts.ContextLines))
	}
	return pairs, nil
}

// BuildAncestorExpanded emits one pair per parent for merge commits,
// instead of only the first parent, for callers analyzing ancestor
// generations (§4.12 "parent-expanded variant").
func BuildAncestorExpanded(repo vcs.Repository, commits []vcs.Commit, opts Options) ([]*models.CommitPair, error) {
	ordered := commits
	if opts.Order == LatestFirst {
		ordered = make([]vcs.Commit, len(commits))
		for i, c := range commits {
			ordered[len(commits)-1-i] = c
		}
	}

	var pairs []*models.CommitPair
	for _, c := range ordered {
		isRoot := c.NumParents() == 0
		if isRoot && opts.SkipInitial {
			continue
		}
		if c.IsMerge() && opts.SkipMerge {
			continue
		}

		if isRoot {
			pairs = append(pairs, models.NewCommitPair(repo, c, nil, opts.ContextLines))
			continue
		}
		for _, parentSHA := range c.Parents {
			p, err := repo.Lookup(parentSHA)
			if err != nil {
				return nil, models.NewError(models.RepositoryUnavailable, "BuildAncestorExpanded", err).WithPair(c.ShortSHA)
			}
			parent := p
			pairs = append(pairs, models.NewCommitPair(repo, c, &parent, opts.ContextLines))
		}
	}
	return pairs, nil
}

func resolveParent(repo vcs.Repository, c vcs.Commit) (*vcs.Commit, error) {
	p, err := repo.Lookup(c.Parents[0])
	if err != nil {
		return nil, models.NewError(models.RepositoryUnavailable, "resolveParent", err).WithPair(c.ShortSHA)
	}
	return &p, nil
}
