// Package tmpwriter materializes a commit pair's old/new file contents
// onto disk under a per-pair directory, for handoff to the external
// clone-detection subprocess.
package tmpwriter

import (
	"encoding/hex"
	"os"
	"path/filepath"

	"github.com/zeebo/blake3"
	"github.com/mrshoenel/git-density/pkg/models"
)

// Writer owns one base temp directory (§6's <tmp> root).
type Writer struct {
	baseDir string
}

// New creates a Writer rooted at baseDir.
func New(baseDir string) *Writer {
	return &Writer{baseDir: baseDir}
}

// PairDir returns the absolute directory for a pair, <tmp>/<pair-id>.
func (w *Writer) PairDir(pairID string) string {
	return filepath.Join(w.baseDir, pairID)
}

// Prepare wipes and recreates the pair's old/new subdirectories, returning
// their paths.
func (w *Writer) Prepare(pairID string) (oldDir, newDir string, err error) {
	pairDir := w.PairDir(pairID)
	if err := os.RemoveAll(pairDir); err != nil {
		return "", "", models.NewError(models.TempIoFailed, "Prepare", err).WithPair(pairID)
	}
	oldDir = filepath.Join(pairDir, "old")
	newDir = filepath.Join(pairDir, "new")
	for _, d := range []string{oldDir, newDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return "", "", models.NewError(models.TempIoFailed, "Prepare", err).WithPair(pairID)
		}
	}
	return oldDir, newDir, nil
}

// WriteFile writes content to side/relativePath, creating any needed
// parent directories.
func WriteFile(side, relativePath string, content []byte) error {
	full := filepath.Join(side, filepath.FromSlash(relativePath))
	if err := os.MkdirAll(filepath.Dir(full), 0o755); err != nil {
		return models.NewError(models.TempIoFailed, "WriteFile", err).WithPath(relativePath)
	}
	if err := os.WriteFile(full, content, 0o644); err != nil {
		return models.NewError(models.TempIoFailed, "WriteFile", err).WithPath(relativePath)
	}
	return nil
}

// Cleanup removes a pair's entire directory.
func (w *Writer) Cleanup(pairID string) error {
	if err := os.RemoveAll(w.PairDir(pairID)); err != nil {
		return models.NewError(models.TempIoFailed, "Cleanup", err).WithPair(pairID)
	}
	return nil
}

// ContentHash is a BLAKE3 content-address for a blob, returned as a
// hex string. The writers in this package do not call it.
func ContentHash(content []byte) string {
	sum := blake3.Sum256(content)
	return hex.EncodeToString(sum[:])
}
