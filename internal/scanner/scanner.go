// Package scanner enumerates the immediate children of a library or
// notebook directory.
//
// Each call performs a fresh read of the directory; nothing is cached.
// Listings are all-or-nothing: a failure returns an error and no partial
// results. os.ReadDir yields entries sorted by name, so enumeration
// order is deterministic.
package scanner

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"
)

// MediaDirName is the reserved notebook subdirectory for binary assets.
// It is never enumerated as a notebook.
const MediaDirName = "media"

// Child is one observed directory entry with its filesystem facts.
type Child struct {
	Name       string
	IsDir      bool
	CreatedAt  time.Time
	ModifiedAt time.Time
}

// Notebooks lists the immediate subdirectories of a library root,
// excluding hidden names and the reserved media directory.
func Notebooks(root string) ([]Child, error) {
	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, fmt.Errorf("scanner: read %s: %w", root, err)
	}
	out := []Child{}
	for _, e := range entries {
		if !e.IsDir() || hidden(e.Name()) || e.Name() == MediaDirName {
			continue
		}
		c, ok, err := child(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// Pages lists the files of a notebook directory whose extension matches
// ext (e.g. ".md"), excluding hidden files.
func Pages(dir, ext string) ([]Child, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("scanner: read %s: %w", dir, err)
	}
	out := []Child{}
	for _, e := range entries {
		if e.IsDir() || hidden(e.Name()) || !strings.HasSuffix(e.Name(), ext) {
			continue
		}
		c, ok, err := child(e)
		if err != nil {
			return nil, err
		}
		if ok {
			out = append(out, c)
		}
	}
	return out, nil
}

// child resolves an entry's stat info. An entry that vanished between
// the directory read and the stat is simply not observed this scan.
func child(e fs.DirEntry) (Child, bool, error) {
	info, err := e.Info()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return Child{}, false, nil
		}
		return Child{}, false, fmt.Errorf("scanner: stat %s: %w", e.Name(), err)
	}
	// Birth time is not portably available, so the modification time at
	// first discovery serves as the creation timestamp.
	return Child{
		Name:       e.Name(),
		IsDir:      e.IsDir(),
		CreatedAt:  info.ModTime(),
		ModifiedAt: info.ModTime(),
	}, true, nil
}

func hidden(name string) bool {
	return strings.HasPrefix(name, ".")
}
