// Package metastore persists library and notebook records as canonical
// YAML files.
//
// Encoding is deterministic: struct field order fixes the key order and
// timestamps are normalized to UTC RFC 3339, so saving the same logical
// record twice produces byte-identical files. Writes go through an
// atomic replace, so a concurrent reader sees either the old file or the
// new one, never a partial write.
package metastore

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"

	"github.com/thornmoor/berkano/internal/apperr"
	"github.com/thornmoor/berkano/internal/models"
)

// Well-known record file names, fixed relative to their directory.
const (
	IndexFilename = "index.yaml"
	TOCFilename   = "toc.yaml"
)

// LoadLibrary reads the library record at root. Returns apperr.ErrNotFound
// if no record file exists.
func LoadLibrary(root string) (*models.LibraryRecord, error) {
	var rec models.LibraryRecord
	if err := load(filepath.Join(root, IndexFilename), &rec); err != nil {
		return nil, err
	}
	rec.Normalize()
	return &rec, nil
}

// SaveLibrary atomically writes the library record at root.
func SaveLibrary(root string, rec *models.LibraryRecord) error {
	rec.Normalize()
	return save(filepath.Join(root, IndexFilename), rec)
}

// LoadTOC reads the table-of-contents record at dir. Returns
// apperr.ErrNotFound if no record file exists.
func LoadTOC(dir string) (*models.TOCRecord, error) {
	var rec models.TOCRecord
	if err := load(filepath.Join(dir, TOCFilename), &rec); err != nil {
		return nil, err
	}
	rec.Normalize()
	return &rec, nil
}

// SaveTOC atomically writes the table-of-contents record at dir.
func SaveTOC(dir string, rec *models.TOCRecord) error {
	rec.Normalize()
	return save(filepath.Join(dir, TOCFilename), rec)
}

func load(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return fmt.Errorf("metastore: %s: %w", path, apperr.ErrNotFound)
		}
		return fmt.Errorf("metastore: read %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, target); err != nil {
		return fmt.Errorf("metastore: decode %s: %w", path, err)
	}
	return nil
}

func save(path string, record interface{}) error {
	data, err := yaml.Marshal(record)
	if err != nil {
		return fmt.Errorf("metastore: encode %s: %w", path, err)
	}
	// An unchanged record is not rewritten. Rewriting would bump the
	// containing directory's mtime through the atomic rename, and the next
	// scan would read that as a modification.
	if existing, readErr := os.ReadFile(path); readErr == nil && bytes.Equal(existing, data) {
		return nil
	}
	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("metastore: write %s: %w", path, err)
	}
	return nil
}
