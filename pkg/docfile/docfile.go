// Package docfile reads and writes documents in the JSON wire format.
package docfile

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/yaklabco/richdraft/pkg/fsutil"
	"github.com/yaklabco/richdraft/pkg/richtext"
)

// Extension is the file extension of saved documents.
const Extension = ".json"

// maxNameRunes bounds the derived file name, extension excluded.
const maxNameRunes = 64

// Document is a document read from disk.
type Document struct {
	Path     string
	Content  *richtext.Content
	Snapshot *fsutil.Snapshot
}

// Open reads and parses the document at path. Any failure leaves the
// caller's current document untouched because nothing is returned.
func Open(ctx context.Context, path string) (*Document, error) {
	data, snap, err := fsutil.ReadFile(ctx, path)
	if err != nil {
		return nil, err
	}

	content, err := richtext.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	return &Document{Path: path, Content: content, Snapshot: snap}, nil
}

// SaveOptions configures Save.
type SaveOptions struct {
	// Indent pretty-prints the JSON with this many spaces; 0 is compact.
	Indent int

	// Backup keeps a sidecar copy of the file being replaced.
	Backup bool

	// Since, when set, makes Save fail with fsutil.ErrChangedOnDisk if the
	// file no longer matches the snapshot.
	Since *fsutil.Snapshot
}

// Save writes c to path atomically.
func Save(ctx context.Context, c *richtext.Content, path string, opts SaveOptions) error {
	data, err := richtext.MarshalRaw(c, opts.Indent)
	if err != nil {
		return fmt.Errorf("encode document: %w", err)
	}

	if opts.Since != nil {
		changed, err := opts.Since.Changed()
		if err != nil {
			return err
		}
		if changed {
			return fmt.Errorf("save %s: %w", path, fsutil.ErrChangedOnDisk)
		}
	}

	if opts.Backup {
		if _, err := fsutil.CreateBackup(ctx, path); err != nil {
			return err
		}
	}

	mode := fsutil.DefaultFileMode
	if opts.Since != nil {
		mode = opts.Since.Mode
	}
	if err := fsutil.WriteAtomic(ctx, path, data, mode); err != nil {
		return fmt.Errorf("save %s: %w", path, err)
	}
	return nil
}

// DefaultFilename derives a file name from the first block: its text when
// present, otherwise its key.
func DefaultFilename(c *richtext.Content) string {
	first := c.FirstBlock()
	name := sanitize(first.Text())
	if name == "" {
		name = sanitize(first.Key())
	}
	if name == "" {
		name = "document"
	}
	return name + Extension
}

func sanitize(s string) string {
	var b strings.Builder
	count := 0
	space := false
	for _, r := range strings.TrimSpace(s) {
		if count >= maxNameRunes {
			break
		}
		switch {
		case unicode.IsSpace(r):
			space = true
			continue
		case strings.ContainsRune(`/\:*?"<>|`, r), unicode.IsControl(r):
			continue
		}
		if space && b.Len() > 0 {
			if count+1 >= maxNameRunes {
				break
			}
			b.WriteByte(' ')
			count++
		}
		space = false
		b.WriteRune(r)
		count++
	}
	return strings.Trim(b.String(), ". ")
}

// IsDocument reports whether path has the document extension.
func IsDocument(path string) bool {
	return strings.EqualFold(filepath.Ext(path), Extension)
}

// IsNotFound reports whether err means the file did not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, fsutil.ErrNotFound)
}
