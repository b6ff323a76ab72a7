package fsutil

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
)

// BackupSuffix is appended to a document path to form its backup path.
const BackupSuffix = ".richdraft.bak"

// BackupPath returns the sidecar backup path for path.
func BackupPath(path string) string {
	return path + BackupSuffix
}

// CreateBackup copies path to its sidecar unless a backup already exists,
// so the first saved version survives repeated saves. It reports whether a
// backup was written; a missing original is not an error.
func CreateBackup(ctx context.Context, path string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, fmt.Errorf("backup %s: %w", path, err)
	}

	backup := BackupPath(path)
	if _, err := os.Stat(backup); err == nil {
		return false, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return false, fmt.Errorf("stat backup: %w", err)
	}

	data, snap, err := ReadFile(ctx, path)
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := WriteAtomic(ctx, backup, data, snap.Mode); err != nil {
		return false, fmt.Errorf("write backup: %w", err)
	}
	return true, nil
}

// RestoreBackup copies the sidecar back over path. It reports false when no
// backup exists.
func RestoreBackup(ctx context.Context, path string) (bool, error) {
	data, snap, err := ReadFile(ctx, BackupPath(path))
	if errors.Is(err, ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}

	if err := WriteAtomic(ctx, path, data, snap.Mode); err != nil {
		return false, fmt.Errorf("restore backup: %w", err)
	}
	return true, nil
}
