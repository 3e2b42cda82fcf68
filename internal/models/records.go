// Package models defines the persisted record types for Berkano.
//
// Two record schemas exist: the library record (index.yaml at the library
// root) and the notebook table-of-contents record (toc.yaml at each
// notebook root). Both hold identity-keyed child collections whose derived
// fields are owned by reconciliation and whose user-editable fields are
// owned by the mutators.
package models

import (
	"fmt"
	"sort"
	"time"

	"gopkg.in/yaml.v3"
)

// Defaults applied to a notebook entry at first discovery. The icon and
// color are placeholders until the user picks their own.
const (
	DefaultNotebookIcon  = "book.closed"
	DefaultNotebookColor = "#007AFF"
)

// Timestamp wraps time.Time with a canonical YAML representation:
// RFC 3339 with nanoseconds, normalized to UTC. Saving the same logical
// time always produces the same bytes.
type Timestamp struct {
	time.Time
}

// At returns a Timestamp for t.
func At(t time.Time) Timestamp {
	return Timestamp{t}
}

// Equal reports whether two timestamps name the same instant.
func (t Timestamp) Equal(u Timestamp) bool {
	return t.Time.Equal(u.Time)
}

// MarshalYAML encodes the timestamp as an RFC 3339 UTC string.
func (t Timestamp) MarshalYAML() (interface{}, error) {
	return t.UTC().Format(time.RFC3339Nano), nil
}

// UnmarshalYAML decodes an RFC 3339 string.
func (t *Timestamp) UnmarshalYAML(value *yaml.Node) error {
	var s string
	if err := value.Decode(&s); err != nil {
		return err
	}
	parsed, err := time.Parse(time.RFC3339Nano, s)
	if err != nil {
		return fmt.Errorf("models: parse timestamp %q: %w", s, err)
	}
	*t = Timestamp{parsed}
	return nil
}

// MarshalJSON encodes the timestamp as an RFC 3339 UTC string.
func (t Timestamp) MarshalJSON() ([]byte, error) {
	return []byte(`"` + t.UTC().Format(time.RFC3339Nano) + `"`), nil
}

// UnmarshalJSON decodes an RFC 3339 string.
func (t *Timestamp) UnmarshalJSON(data []byte) error {
	if len(data) < 2 || data[0] != '"' || data[len(data)-1] != '"' {
		return fmt.Errorf("models: timestamp must be a JSON string")
	}
	parsed, err := time.Parse(time.RFC3339Nano, string(data[1:len(data)-1]))
	if err != nil {
		return fmt.Errorf("models: parse timestamp: %w", err)
	}
	*t = Timestamp{parsed}
	return nil
}

// LibraryRecord is the persisted index of a library root directory.
type LibraryRecord struct {
	Name         string          `yaml:"name" json:"name"`
	CreatedAt    Timestamp       `yaml:"createdAt" json:"createdAt"`
	LastModified Timestamp       `yaml:"lastModified" json:"lastModified"`
	Notebooks    []NotebookEntry `yaml:"notebooks" json:"notebooks"`
}

// NotebookEntry describes one notebook subdirectory within a library.
// ID is the directory name and is immutable; displayName, description,
// tags, icon, and color belong to the user and survive rescans.
type NotebookEntry struct {
	ID           string    `yaml:"id" json:"id"`
	DisplayName  string    `yaml:"displayName" json:"displayName"`
	Description  string    `yaml:"description" json:"description"`
	Tags         []string  `yaml:"tags" json:"tags"`
	Icon         string    `yaml:"icon" json:"icon"`
	Color        string    `yaml:"color" json:"color"`
	NoteCount    int       `yaml:"noteCount" json:"noteCount"`
	CreatedAt    Timestamp `yaml:"createdAt" json:"createdAt"`
	LastModified Timestamp `yaml:"lastModified" json:"lastModified"`
}

// TOCRecord is the persisted table of contents of a notebook directory.
type TOCRecord struct {
	Name         string      `yaml:"name" json:"name"`
	DisplayName  string      `yaml:"displayName" json:"displayName"`
	Description  string      `yaml:"description" json:"description"`
	Tags         []string    `yaml:"tags" json:"tags"`
	CreatedAt    Timestamp   `yaml:"createdAt" json:"createdAt"`
	LastModified Timestamp   `yaml:"lastModified" json:"lastModified"`
	Pages        []PageEntry `yaml:"pages" json:"pages"`
}

// PageEntry describes one note file within a notebook. ID is the file
// name and is immutable; tags belong to the user, everything else is
// recomputed from the file on every rescan.
type PageEntry struct {
	ID             string    `yaml:"id" json:"id"`
	Title          string    `yaml:"title" json:"title"`
	Tags           []string  `yaml:"tags" json:"tags"`
	Preview        string    `yaml:"preview" json:"preview"`
	WordCount      int       `yaml:"wordCount" json:"wordCount"`
	CreatedAt      Timestamp `yaml:"createdAt" json:"createdAt"`
	LastModified   Timestamp `yaml:"lastModified" json:"lastModified"`
	HasHeaderBlock bool      `yaml:"hasHeaderBlock" json:"hasHeaderBlock"`
}

// NewLibraryRecord creates an empty library record stamped at now.
func NewLibraryRecord(name string, now Timestamp) *LibraryRecord {
	return &LibraryRecord{
		Name:         name,
		CreatedAt:    now,
		LastModified: now,
		Notebooks:    []NotebookEntry{},
	}
}

// NewTOCRecord creates an empty table-of-contents record stamped at now.
func NewTOCRecord(name string, now Timestamp) *TOCRecord {
	return &TOCRecord{
		Name:         name,
		DisplayName:  name,
		Description:  "",
		Tags:         []string{},
		CreatedAt:    now,
		LastModified: now,
		Pages:        []PageEntry{},
	}
}

// Notebook returns a pointer to the entry with the given id, or nil.
func (r *LibraryRecord) Notebook(id string) *NotebookEntry {
	for i := range r.Notebooks {
		if r.Notebooks[i].ID == id {
			return &r.Notebooks[i]
		}
	}
	return nil
}

// Page returns a pointer to the entry with the given id, or nil.
func (r *TOCRecord) Page(id string) *PageEntry {
	for i := range r.Pages {
		if r.Pages[i].ID == id {
			return &r.Pages[i]
		}
	}
	return nil
}

// SortNotebooks orders the collection by id ascending so that repeated
// saves of the same logical record are byte-identical.
func (r *LibraryRecord) SortNotebooks() {
	sort.Slice(r.Notebooks, func(i, j int) bool {
		return r.Notebooks[i].ID < r.Notebooks[j].ID
	})
}

// SortPages orders pages by lastModified descending for presentation.
// Ties break on id ascending so the order is deterministic.
func (r *TOCRecord) SortPages() {
	sort.Slice(r.Pages, func(i, j int) bool {
		a, b := r.Pages[i], r.Pages[j]
		if !a.LastModified.Equal(b.LastModified) {
			return a.LastModified.After(b.LastModified.Time)
		}
		return a.ID < b.ID
	})
}

// Normalize replaces nil slices with empty ones so the encoded form is
// canonical regardless of how the record was built.
func (r *LibraryRecord) Normalize() {
	if r.Notebooks == nil {
		r.Notebooks = []NotebookEntry{}
	}
	for i := range r.Notebooks {
		if r.Notebooks[i].Tags == nil {
			r.Notebooks[i].Tags = []string{}
		}
	}
}

// Normalize replaces nil slices with empty ones.
func (r *TOCRecord) Normalize() {
	if r.Tags == nil {
		r.Tags = []string{}
	}
	if r.Pages == nil {
		r.Pages = []PageEntry{}
	}
	for i := range r.Pages {
		if r.Pages[i].Tags == nil {
			r.Pages[i].Tags = []string{}
		}
	}
}
