package catalog

import (
	"fmt"
	"time"
)

// Kind distinguishes files from folders
type Kind string

const (
	KindFile   Kind = "file"
	KindFolder Kind = "folder"
)

// Category classifies file records for filtering and storage aggregation
type Category string

const (
	CategoryImages    Category = "images"
	CategoryVideos    Category = "videos"
	CategoryDocuments Category = "documents"
	CategoryMusic     Category = "music"
	CategoryArchives  Category = "archives"
	CategoryApps      Category = "apps"

	// CategoryAll is the "no category filter" selection, never stored on a record
	CategoryAll Category = "all"
	// CategoryOther buckets files without a category in usage reports
	CategoryOther Category = "other"
)

// Categories lists the fixed enumeration in display order
var Categories = []Category{
	CategoryImages,
	CategoryVideos,
	CategoryDocuments,
	CategoryMusic,
	CategoryArchives,
	CategoryApps,
}

var categoryColors = map[Category]string{
	CategoryImages:    "#3b82f6",
	CategoryVideos:    "#ef4444",
	CategoryDocuments: "#10b981",
	CategoryMusic:     "#8b5cf6",
	CategoryArchives:  "#f59e0b",
	CategoryApps:      "#6366f1",
	CategoryOther:     "#94a3b8",
}

// Color returns the chart color of a category
func (c Category) Color() string {
	if color, ok := categoryColors[c]; ok {
		return color
	}
	return categoryColors[CategoryOther]
}

// Valid reports whether c is one of the fixed categories
func (c Category) Valid() bool {
	for _, known := range Categories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseCategory accepts one of the fixed categories or "all" (or empty, meaning "all")
func ParseCategory(s string) (Category, error) {
	if s == "" || Category(s) == CategoryAll {
		return CategoryAll, nil
	}
	c := Category(s)
	if !c.Valid() {
		return "", fmt.Errorf("unknown category %q", s)
	}
	return c, nil
}

// FileRecord is one entry in the in-memory file/folder collection
type FileRecord struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Kind       Kind      `json:"type"`
	Category   Category  `json:"category,omitempty"`
	Extension  string    `json:"extension,omitempty"`
	Size       int64     `json:"size"`
	ModifiedAt time.Time `json:"modified_at"`
	ParentID   *string   `json:"parent_id"`
	Color      string    `json:"color,omitempty"`
	Content    string    `json:"content,omitempty"`
	Source     string    `json:"source,omitempty"`

	// Handle locates the record in the source that produced it
	Handle string `json:"-"`
}

// IsFolder reports whether the record is a folder
func (r FileRecord) IsFolder() bool {
	return r.Kind == KindFolder
}

// InScope reports whether the record's parent equals the given folder scope
func (r FileRecord) InScope(folderID *string) bool {
	if r.ParentID == nil || folderID == nil {
		return r.ParentID == nil && folderID == nil
	}
	return *r.ParentID == *folderID
}

// Ref converts a folder id into a scope reference; "" is the root
func Ref(id string) *string {
	if id == "" {
		return nil
	}
	return &id
}
