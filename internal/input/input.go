// Package input acquires raw statement lines from supported file formats.
// Readers only fetch and stringify content; all interpretation (delimiters,
// columns, values) belongs to the analysis pipeline.
package input

import (
	"io"
	"path/filepath"
	"strings"
)

// Reader converts one file format into raw text lines.
type Reader interface {
	Rows(r io.Reader) ([]string, error)
	Format() string
}

// Registry holds named readers.
type Registry struct {
	readers map[string]Reader
}

// NewRegistry creates an empty reader registry.
func NewRegistry() *Registry {
	return &Registry{readers: make(map[string]Reader)}
}

// Register adds a reader. Panics on duplicate format.
func (r *Registry) Register(rd Reader) {
	key := strings.ToLower(rd.Format())
	if _, ok := r.readers[key]; ok {
		panic("duplicate reader format: " + key)
	}
	r.readers[key] = rd
}

// Get returns the reader for format, or nil.
func (r *Registry) Get(format string) Reader {
	return r.readers[strings.ToLower(format)]
}

// ForPath picks a reader by file extension. Unknown extensions fall back to
// CSV, the common case for bank exports with odd suffixes.
func (r *Registry) ForPath(path string) Reader {
	ext := strings.TrimPrefix(strings.ToLower(filepath.Ext(path)), ".")
	if rd := r.Get(ext); rd != nil {
		return rd
	}
	return r.Get("csv")
}

// DefaultRegistry returns a registry with all built-in readers.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(&CSVReader{})
	r.Register(&XLSXReader{})
	return r
}
