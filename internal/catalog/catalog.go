// Package catalog holds the flat file/folder collection and the views derived from it.
package catalog

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrDuplicateID is returned when a record id is already present
	ErrDuplicateID = errors.New("duplicate record id")
	// ErrNotFound is returned for unknown record ids
	ErrNotFound = errors.New("record not found")
)

// Catalog is an immutable snapshot of the collection. Mutating operations
// return a new Catalog and leave the receiver untouched.
type Catalog struct {
	records []FileRecord
	index   map[string]int
}

// New builds a catalog, rejecting duplicate ids
func New(records []FileRecord) (*Catalog, error) {
	c := &Catalog{
		records: make([]FileRecord, 0, len(records)),
		index:   make(map[string]int, len(records)),
	}
	for _, r := range records {
		if _, exists := c.index[r.ID]; exists {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateID, r.ID)
		}
		c.index[r.ID] = len(c.records)
		c.records = append(c.records, r)
	}
	return c, nil
}

// Empty returns a catalog without records
func Empty() *Catalog {
	c, _ := New(nil)
	return c
}

// Len returns the number of records
func (c *Catalog) Len() int {
	return len(c.records)
}

// All returns every record in collection order
func (c *Catalog) All() []FileRecord {
	out := make([]FileRecord, len(c.records))
	copy(out, c.records)
	return out
}

// Get looks a record up by id
func (c *Catalog) Get(id string) (FileRecord, bool) {
	i, ok := c.index[id]
	if !ok {
		return FileRecord{}, false
	}
	return c.records[i], true
}

// Children returns the records directly under folderID (nil is the root)
func (c *Catalog) Children(folderID *string) []FileRecord {
	var out []FileRecord
	for _, r := range c.records {
		if r.InScope(folderID) {
			out = append(out, r)
		}
	}
	return out
}

// Breadcrumbs returns the folders from the root down to folderID, inclusive.
// A dangling parent ends the walk as if the root had been reached.
func (c *Catalog) Breadcrumbs(folderID *string) []FileRecord {
	var path []FileRecord
	current := folderID
	for steps := 0; current != nil && steps <= len(c.records); steps++ {
		folder, ok := c.Get(*current)
		if !ok {
			break
		}
		path = append(path, folder)
		current = folder.ParentID
	}

	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// Without returns a catalog lacking the record with the given id.
// Children of a removed folder are kept.
func (c *Catalog) Without(id string) (*Catalog, error) {
	i, ok := c.index[id]
	if !ok {
		return c, fmt.Errorf("%w: %s", ErrNotFound, id)
	}

	records := make([]FileRecord, 0, len(c.records)-1)
	records = append(records, c.records[:i]...)
	records = append(records, c.records[i+1:]...)
	return New(records)
}

// With returns a catalog with the given records appended
func (c *Catalog) With(records ...FileRecord) (*Catalog, error) {
	all := make([]FileRecord, 0, len(c.records)+len(records))
	all = append(all, c.records...)
	all = append(all, records...)
	return New(all)
}

// Summary renders one line per record for the assistant prompt
func (c *Catalog) Summary() string {
	lines := make([]string, len(c.records))
	for i, r := range c.records {
		category := string(r.Category)
		if category == "" {
			category = "N/A"
		}
		lines[i] = r.Name + " (" + string(r.Kind) + ", " + category + ", size: " + strconv.FormatInt(r.Size, 10) + " bytes)"
	}
	return strings.Join(lines, "\n")
}
