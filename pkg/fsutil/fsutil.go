// Package fsutil holds the file primitives behind document storage:
// snapshot reads, atomic writes and sidecar backups.
package fsutil

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"
)

// Sentinel errors for errors.Is.
var (
	ErrNotFound         = errors.New("file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrIsDirectory      = errors.New("path is a directory")
	ErrChangedOnDisk    = errors.New("file changed on disk")
)

// Snapshot records what a file looked like when it was read, so that a later
// save can refuse to clobber an external edit.
type Snapshot struct {
	Path    string
	Mode    os.FileMode
	ModTime time.Time
	Size    int64
	Hash    [sha256.Size]byte
}

// ReadFile reads path and returns its bytes with a snapshot.
func ReadFile(ctx context.Context, path string) ([]byte, *Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}

	stat, err := os.Stat(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}
	if stat.IsDir() {
		return nil, nil, fmt.Errorf("%w: %s", ErrIsDirectory, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, classify(path, err)
	}

	return data, &Snapshot{
		Path:    path,
		Mode:    stat.Mode(),
		ModTime: stat.ModTime(),
		Size:    stat.Size(),
		Hash:    sha256.Sum256(data),
	}, nil
}

// Changed reports whether the file differs from the snapshot. A deleted file
// counts as changed. Size and modification time are compared first and the
// content is only re-hashed when they match.
func (s *Snapshot) Changed() (bool, error) {
	stat, err := os.Stat(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return true, nil
	}
	if err != nil {
		return false, fmt.Errorf("stat %s: %w", s.Path, err)
	}
	if stat.Size() != s.Size || !stat.ModTime().Equal(s.ModTime) {
		return true, nil
	}

	data, err := os.ReadFile(s.Path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", s.Path, err)
	}
	return sha256.Sum256(data) != s.Hash, nil
}

func classify(path string, err error) error {
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return fmt.Errorf("%w: %s: %w", ErrNotFound, path, err)
	case errors.Is(err, fs.ErrPermission):
		return fmt.Errorf("%w: %s: %w", ErrPermissionDenied, path, err)
	default:
		return fmt.Errorf("read %s: %w", path, err)
	}
}
