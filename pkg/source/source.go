// Package source abstracts where blob content used by the LOC classifier
// and similarity engine comes from: the local filesystem (for ad-hoc
// tooling) or a commit's tree (for the orchestrator's hunk analysis).
package source

import (
	"os"

	"github.com/mrshoenel/git-density/internal/vcs"
)

// ContentSource provides file content from a specific source.
type ContentSource interface {
	// Read returns the content of the file at path.
	Read(path string) ([]byte, error)
}

// FilesystemSource reads files from the local filesystem.
type FilesystemSource struct{}

// NewFilesystem creates a source that reads from the filesystem.
func NewFilesystem() *FilesystemSource {
	return &FilesystemSource{}
}

// Read implements ContentSource.
func (f *FilesystemSource) Read(path string) ([]byte, error) {
	return os.ReadFile(path)
}

// RepositorySource reads files as they existed in one commit's tree.
// Safe for concurrent use: Repository.ReadFile performs its own lookups
// and holds no mutable cursor.
type RepositorySource struct {
	repo vcs.Repository
	sha  string
}

// NewRepository creates a source that reads blob content from the tree of
// commit sha in repo.
func NewRepository(repo vcs.Repository, sha string) *RepositorySource {
	return &RepositorySource{repo: repo, sha: sha}
}

// Read implements ContentSource.
func (r *RepositorySource) Read(path string) ([]byte, error) {
	return r.repo.ReadFile(r.sha, path)
}
