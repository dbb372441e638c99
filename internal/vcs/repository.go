package vcs

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/format/diff"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/go-git/go-git/v5/utils/merkletrie"
)

// GitOpener opens repositories backed by go-git.
type GitOpener struct{}

// NewGitOpener creates a new GitOpener.
func NewGitOpener() *GitOpener {
	return &GitOpener{}
}

// Open opens an existing repository rooted at path, detecting a .git
// directory in an ancestor when path itself is a worktree subdirectory.
func (o *GitOpener) Open(path string) (Repository, error) {
	repo, err := git.PlainOpenWithOptions(path, &git.PlainOpenOptions{DetectDotGit: true})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrRepositoryUnavailable, path, err)
	}
	absPath, err := filepath.Abs(path)
	if err != nil {
		absPath = path
	}
	return &gitRepository{repo: repo, repoPath: absPath}, nil
}

// Clone produces a local, bundle-style clone of srcPath at destPath so that
// the bounded repository pool can hand out lock-free parallel readers.
func (o *GitOpener) Clone(srcPath, destPath string) (Repository, error) {
	repo, err := git.PlainClone(destPath, &git.CloneOptions{
		URL: srcPath,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: clone %s: %v", ErrRepositoryUnavailable, srcPath, err)
	}
	absPath, err := filepath.Abs(destPath)
	if err != nil {
		absPath = destPath
	}
	return &gitRepository{repo: repo, repoPath: absPath}, nil
}

// gitRepository wraps a go-git repository to satisfy Repository.
type gitRepository struct {
	repo     *git.Repository
	repoPath string
}

func (r *gitRepository) AllCommits() ([]Commit, error) {
	refs, err := r.repo.References()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}

	seen := make(map[plumbing.Hash]struct{})
	var out []Commit

	visit := func(start plumbing.Hash) error {
		iter, err := r.repo.Log(&git.LogOptions{From: start, Order: git.LogOrderCommitterTime})
		if err != nil {
			return err
		}
		defer iter.Close()
		return iter.ForEach(func(c *object.Commit) error {
			if _, ok := seen[c.Hash]; ok {
				return nil
			}
			seen[c.Hash] = struct{}{}
			out = append(out, fromObjectCommit(c))
			return nil
		})
	}

	err = refs.ForEach(func(ref *plumbing.Reference) error {
		if ref.Type() != plumbing.HashReference {
			return nil
		}
		if _, ok := seen[ref.Hash()]; ok {
			return nil
		}
		if err := visit(ref.Hash()); err != nil {
			// A ref that does not point at a commit (e.g. an annotated
			// tag object or a dangling ref) is skipped rather than fatal.
			return nil
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrRepositoryUnavailable, err)
	}
	if head, err := r.repo.Head(); err == nil {
		if _, ok := seen[head.Hash()]; !ok {
			_ = visit(head.Hash())
		}
	}
	return out, nil
}

func (r *gitRepository) Lookup(id string) (Commit, error) {
	hash := plumbing.NewHash(id)
	c, err := r.repo.CommitObject(hash)
	if err != nil {
		return Commit{}, fmt.Errorf("%w: lookup %s: %v", ErrRepositoryUnavailable, id, err)
	}
	return fromObjectCommit(c), nil
}

func (r *gitRepository) TreeChanges(oldSHA, newSHA string) ([]TreeEntryChange, error) {
	oldTree, err := r.treeFor(oldSHA)
	if err != nil {
		return nil, err
	}
	newTree, err := r.treeFor(newSHA)
	if err != nil {
		return nil, err
	}
	changes, err := oldTree.Diff(newTree)
	if err != nil {
		return nil, fmt.Errorf("%w: tree diff: %v", ErrRepositoryUnavailable, err)
	}
	out := make([]TreeEntryChange, 0, len(changes))
	for _, c := range changes {
		out = append(out, classifyChange(c))
	}
	return out, nil
}

func (r *gitRepository) Diff(oldSHA, newSHA string, contextLines int) ([]FileDiff, error) {
	oldTree, err := r.treeFor(oldSHA)
	if err != nil {
		return nil, err
	}
	newTree, err := r.treeFor(newSHA)
	if err != nil {
		return nil, err
	}
	changes, err := oldTree.Diff(newTree)
	if err != nil {
		return nil, fmt.Errorf("%w: tree diff: %v", ErrRepositoryUnavailable, err)
	}

	out := make([]FileDiff, 0, len(changes))
	for _, c := range changes {
		tec := classifyChange(c)
		fd := FileDiff{OldPath: tec.OldPath, NewPath: tec.NewPath, Kind: tec.Kind}

		patch, err := c.Patch()
		if err != nil {
			// A patch that cannot be computed (e.g. a submodule pointer
			// change) carries no textual body; the caller treats it like
			// a binary change.
			fd.Binary = true
			out = append(out, fd)
			continue
		}
		hasChunks := false
		for _, fp := range patch.FilePatches() {
			if fp.IsBinary() {
				fd.Binary = true
			}
			if len(fp.Chunks()) > 0 {
				hasChunks = true
			}
		}
		if fd.Binary || !hasChunks {
			out = append(out, fd)
			continue
		}
		var buf bytes.Buffer
		enc := diff.NewUnifiedEncoder(&buf, clampContext(contextLines))
		if err := enc.Encode(patch); err != nil {
			return nil, fmt.Errorf("%w: encode patch for %s: %v", ErrRepositoryUnavailable, tec.NewPath, err)
		}
		fd.UnifiedText = buf.String()
		out = append(out, fd)
	}
	return out, nil
}

func (r *gitRepository) ReadFile(sha, path string) ([]byte, error) {
	tree, err := r.treeFor(sha)
	if err != nil {
		return nil, err
	}
	f, err := tree.File(path)
	if err != nil {
		return nil, fmt.Errorf("%w: read %s@%s: %v", ErrRepositoryUnavailable, path, sha, err)
	}
	rc, err := f.Reader()
	if err != nil {
		return nil, fmt.Errorf("%w: open %s@%s: %v", ErrRepositoryUnavailable, path, sha, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

func (r *gitRepository) Checkout(sha, destDir string) error {
	tree, err := r.treeFor(sha)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(destDir, 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrRepositoryUnavailable, destDir, err)
	}
	walker := object.NewTreeWalker(tree, true, make(map[plumbing.Hash]bool))
	defer walker.Close()
	for {
		name, entry, err := walker.Next()
		if err == io.EOF {
			break
		}
		if err != nil {
			return fmt.Errorf("%w: walk %s: %v", ErrRepositoryUnavailable, sha, err)
		}
		if !entry.Mode.IsFile() {
			continue
		}
		blob, err := object.GetBlob(r.repo.Storer, entry.Hash)
		if err != nil {
			return fmt.Errorf("%w: blob %s: %v", ErrRepositoryUnavailable, name, err)
		}
		if err := writeBlob(destDir, name, blob); err != nil {
			return err
		}
	}
	return nil
}

func (r *gitRepository) Close() error { return nil }

func (r *gitRepository) treeFor(sha string) (*object.Tree, error) {
	if sha == "" {
		return &object.Tree{}, nil
	}
	c, err := r.repo.CommitObject(plumbing.NewHash(sha))
	if err != nil {
		return nil, fmt.Errorf("%w: commit %s: %v", ErrRepositoryUnavailable, sha, err)
	}
	t, err := c.Tree()
	if err != nil {
		return nil, fmt.Errorf("%w: tree of %s: %v", ErrRepositoryUnavailable, sha, err)
	}
	return t, nil
}

func writeBlob(destDir, name string, blob *object.Blob) error {
	full := filepath.Join(destDir, filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return fmt.Errorf("%w: mkdir %s: %v", ErrRepositoryUnavailable, full, err)
	}
	rc, err := blob.Reader()
	if err != nil {
		return fmt.Errorf("%w: blob reader %s: %v", ErrRepositoryUnavailable, name, err)
	}
	defer rc.Close()
	out, err := os.Create(full)
	if err != nil {
		return fmt.Errorf("%w: create %s: %v", ErrRepositoryUnavailable, full, err)
	}
	defer out.Close()
	if _, err := io.Copy(out, rc); err != nil {
		return fmt.Errorf("%w: write %s: %v", ErrRepositoryUnavailable, full, err)
	}
	return nil
}

func fromObjectCommit(c *object.Commit) Commit {
	parents := make([]string, len(c.ParentHashes))
	for i, h := range c.ParentHashes {
		parents[i] = h.String()
	}
	sha := c.Hash.String()
	short := sha
	if len(short) > 7 {
		short = short[:7]
	}
	return Commit{
		SHA:      sha,
		ShortSHA: short,
		Author: Signature{
			Name:  c.Author.Name,
			Email: c.Author.Email,
			When:  c.Author.When.UTC(),
		},
		Committer: Signature{
			Name:  c.Committer.Name,
			Email: c.Committer.Email,
			When:  c.Committer.When.UTC(),
		},
		Message: c.Message,
		Parents: parents,
	}
}

func classifyChange(c object.Change) TreeEntryChange {
	action, err := c.Action()
	tec := TreeEntryChange{OldPath: c.From.Name, NewPath: c.To.Name}
	if err != nil {
		tec.Kind = TypeChange
		return tec
	}
	switch action {
	case merkletrie.Insert:
		tec.Kind = Added
	case merkletrie.Delete:
		tec.Kind = Deleted
	default:
		if c.From.Name != "" && c.To.Name != "" && c.From.Name != c.To.Name {
			tec.Kind = Renamed
		} else {
			tec.Kind = Modified
		}
	}
	return tec
}

func clampContext(n int) int {
	if n < 0 {
		return 0
	}
	if n > MaxContextLines {
		return MaxContextLines
	}
	return n
}

// ErrInvalidTree reports a tree reference that could not be resolved. The
// methods in this file report unresolvable commits and trees with
// ErrRepositoryUnavailable instead.
var ErrInvalidTree = errors.New("vcs: invalid tree reference")
