// Package query derives the visible subset of the collection from the current view.
package query

import (
	"strings"

	"github.com/ngenohkevin/aura-explorer/internal/catalog"
)

// Mode names the single predicate a Filter resolves to
type Mode string

const (
	ModeSearch   Mode = "search"
	ModeCategory Mode = "category"
	ModeFolder   Mode = "folder"
)

// Filter is the view input; at most one of its predicates applies
type Filter struct {
	Search   string
	Category catalog.Category
	FolderID *string
}

// Mode reports which predicate Apply will use: search text wins over
// category, which wins over folder scope.
func (f Filter) Mode() Mode {
	if f.Search != "" {
		return ModeSearch
	}
	if f.Category != "" && f.Category != catalog.CategoryAll {
		return ModeCategory
	}
	return ModeFolder
}

// Apply returns the records visible under f, preserving collection order
func Apply(records []catalog.FileRecord, f Filter) []catalog.FileRecord {
	var match func(catalog.FileRecord) bool

	switch f.Mode() {
	case ModeSearch:
		needle := strings.ToLower(f.Search)
		match = func(r catalog.FileRecord) bool {
			return strings.Contains(strings.ToLower(r.Name), needle)
		}
	case ModeCategory:
		match = func(r catalog.FileRecord) bool {
			return r.Kind == catalog.KindFile && r.Category == f.Category
		}
	default:
		match = func(r catalog.FileRecord) bool {
			return r.InScope(f.FolderID)
		}
	}

	out := make([]catalog.FileRecord, 0)
	for _, r := range records {
		if match(r) {
			out = append(out, r)
		}
	}
	return out
}
