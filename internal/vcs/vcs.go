// Package vcs exposes the minimal read-only view of a git repository that
// the analysis core needs: commits, parents, trees, tree changes, and
// unified-diff text. Implementations wrap an on-disk object database; the
// core never imports go-git directly outside this package.
package vcs

import (
	"errors"
	"time"
)

// ErrRepositoryUnavailable is returned when the backing git store is
// missing, corrupt, or otherwise cannot be opened.
var ErrRepositoryUnavailable = errors.New("vcs: repository unavailable")

// Signature is a normalized author or committer signature.
type Signature struct {
	Name  string
	Email string
	When  time.Time
}

// Commit is an immutable, repository-owned commit record.
type Commit struct {
	SHA       string
	ShortSHA  string
	Author    Signature
	Committer Signature
	Message   string
	Parents   []string
}

// NumParents reports how many parents this commit has.
func (c Commit) NumParents() int { return len(c.Parents) }

// IsMerge reports whether the commit has more than one parent.
func (c Commit) IsMerge() bool { return len(c.Parents) > 1 }

// TreeEntryChangeKind classifies how a path differs between two trees.
type TreeEntryChangeKind int

const (
	Unmodified TreeEntryChangeKind = iota
	Added
	Deleted
	Modified
	Renamed
	Copied
	TypeChange
)

func (k TreeEntryChangeKind) String() string {
	switch k {
	case Added:
		return "Added"
	case Deleted:
		return "Deleted"
	case Modified:
		return "Modified"
	case Renamed:
		return "Renamed"
	case Copied:
		return "Copied"
	case TypeChange:
		return "TypeChange"
	default:
		return "Unmodified"
	}
}

// TreeEntryChange is a per-file record produced by comparing two trees.
type TreeEntryChange struct {
	OldPath string
	NewPath string
	Kind    TreeEntryChangeKind
}

// FileDiff is the unified-diff text for one changed file between two trees,
// encoded with a caller-chosen number of context lines. UnifiedText is empty
// for binary files or for changes with no textual content (pure renames,
// mode-only changes).
type FileDiff struct {
	OldPath string
	NewPath string
	Kind    TreeEntryChangeKind
	Binary  bool

	// UnifiedText holds the hunk headers and bodies as produced by the
	// repository's diff algorithm, in the canonical "@@ -a,b +c,d @@" form
	// consumed by the patch parser.
	UnifiedText string
}

// MaxContextLines requests a context window wide enough that the diff
// algorithm collapses every change in a file into a single hunk.
const MaxContextLines = 1 << 30

// Repository is the read-only capability set the analysis core depends on.
// All reads are idempotent.
type Repository interface {
	// AllCommits returns every commit reachable from any ref, deduplicated,
	// in no particular order (callers that need an ordering sort it
	// themselves).
	AllCommits() ([]Commit, error)

	// Lookup fetches a single commit by its full SHA; an abbreviated SHA is
	// not resolved.
	Lookup(id string) (Commit, error)

	// TreeChanges reports the per-file differences between the trees of two
	// commits. An empty oldSHA compares against the empty tree (every file
	// in newSHA appears as Added).
	TreeChanges(oldSHA, newSHA string) ([]TreeEntryChange, error)

	// Diff computes the unified-diff text for every changed file between
	// the trees of two commits, windowed to contextLines lines of context.
	// An empty oldSHA diffs against the empty tree.
	Diff(oldSHA, newSHA string, contextLines int) ([]FileDiff, error)

	// ReadFile returns the content of path as it exists in the tree of
	// commit sha. It is the primitive the orchestrator uses to materialize
	// old/new blob content for the clone-detection working directory.
	ReadFile(sha, path string) ([]byte, error)

	// Checkout writes every entry of the tree of commit sha into destDir,
	// recreating the directory structure verbatim.
	Checkout(sha, destDir string) error

	// Close releases any resources (clone handles, file descriptors) held
	// by the repository.
	Close() error
}

// Opener opens repositories, abstracting over plain-open vs. detect-dotgit
// and over cloning for the bounded parallel-read pool.
type Opener interface {
	// Open opens an existing repository rooted at path.
	Open(path string) (Repository, error)
	// Clone creates a bundle-cloned copy of the repository at srcPath into
	// destPath, for lock-free parallel reads.
	Clone(srcPath, destPath string) (Repository, error)
}
