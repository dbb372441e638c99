package models

import (
	"sync"

	"github.com/mrshoenel/git-density/internal/vcs"
)

// PairID computes the stable "<parent_short>_<child_short>" identifier,
// clamped to 32 characters. A nil parent (root commit) contributes "root".
func PairID(parent *vcs.Commit, child vcs.Commit) string {
	parentShort := "root"
	if parent != nil {
		parentShort = parent.ShortSHA
	}
	id := parentShort + "_" + child.ShortSHA
	if len(id) > 32 {
		id = id[:32]
	}
	return id
}

// CommitPair is an ordered (child, parent?) tuple; parent is absent only
// for a root commit. TreeChanges and Patch are lazily materialized,
// memoized deterministic functions of (parent_tree, child_tree), and must
// be released explicitly once a pair's analysis completes.
type CommitPair struct {
	ID     string
	Child  vcs.Commit
	Parent *vcs.Commit

	repo         vcs.Repository
	contextLines int

	changesOnce sync.Once
	changes     []vcs.TreeEntryChange
	changesErr  error

	patchOnce sync.Once
	patch     []vcs.FileDiff
	patchErr  error

	released bool
}

// NewCommitPair constructs a pair bound to repo for lazy tree-changes/patch
// materialization at the given unified-diff context-line width.
func NewCommitPair(repo vcs.Repository, child vcs.Commit, parent *vcs.Commit, contextLines int) *CommitPair {
	return &CommitPair{
		ID:           PairID(parent, child),
		Child:        child,
		Parent:       parent,
		repo:         repo,
		contextLines: contextLines,
	}
}

func (p *CommitPair) parentSHA() string {
	if p.Parent == nil {
		return ""
	}
	return p.Parent.SHA
}

// TreeChanges returns the memoized per-file change list between the pair's
// two trees. For a parent-less pair every entry has kind Added.
func (p *CommitPair) TreeChanges() ([]vcs.TreeEntryChange, error) {
	p.changesOnce.Do(func() {
		p.changes, p.changesErr = p.repo.TreeChanges(p.parentSHA(), p.Child.SHA)
	})
	return p.changes, p.changesErr
}

// Patch returns the memoized unified-diff text for every changed file.
func (p *CommitPair) Patch() ([]vcs.FileDiff, error) {
	p.patchOnce.Do(func() {
		p.patch, p.patchErr = p.repo.Diff(p.parentSHA(), p.Child.SHA, p.contextLines)
	})
	return p.patch, p.patchErr
}

// Release drops the memoized views once the pair's analysis is complete so
// their memory can be reclaimed. A released pair is not re-materialized.
func (p *CommitPair) Release() {
	p.changes = nil
	p.patch = nil
	p.released = true
}

// Released reports whether Release has been called.
func (p *CommitPair) Released() bool { return p.released }
