package importer

import (
	"context"
	"errors"
	"time"
)

const (
	// MaxFileSize is the maximum file size that can be read (1MB)
	MaxFileSize = 1 * 1024 * 1024
	// MaxDirEntries is the maximum number of entries taken from one directory
	MaxDirEntries = 10000
)

var (
	// ErrAccessDenied is returned for handles outside the allowed roots
	ErrAccessDenied = errors.New("access denied: path not in allowed list")
	// ErrNotDirectory is returned when a handle does not name a directory
	ErrNotDirectory = errors.New("path is not a directory")
	// ErrIsDirectory is returned when reading a directory as a file
	ErrIsDirectory = errors.New("path is a directory")
	// ErrUnknownSource is returned for unregistered source names
	ErrUnknownSource = errors.New("unknown source")
	// ErrNotExpandable is returned when a record has no listable handle
	ErrNotExpandable = errors.New("record cannot be expanded")
	// ErrNoContent is returned when neither the record nor its source can supply content
	ErrNoContent = errors.New("no content available")
)

// Entry is one child of a listed directory handle
type Entry struct {
	Name    string
	IsDir   bool
	Size    int64
	ModTime time.Time
	Handle  string
}

// Lister enumerates the direct children of a directory handle
type Lister interface {
	ListChildren(ctx context.Context, handle string) ([]Entry, error)
}

// Reader is implemented by sources that can return file content
type Reader interface {
	ReadFile(ctx context.Context, handle string) (*FileContent, error)
}

// Canonicalizer is implemented by sources where several handles can name
// the same directory, such as through symlinks
type Canonicalizer interface {
	Canonical(ctx context.Context, handle string) (string, error)
}

// Rooter is implemented by sources that expose the roots a client may import
type Rooter interface {
	Roots() []string
}

// FileContent represents the content of a file
type FileContent struct {
	Name      string `json:"name"`
	Content   string `json:"content"`
	Size      int64  `json:"size"`
	Encoding  string `json:"encoding"` // "utf-8" or "binary"
	IsBinary  bool   `json:"is_binary"`
	Truncated bool   `json:"truncated"`
}

// SourceInfo describes a registered source
type SourceInfo struct {
	Name     string   `json:"name"`
	Roots    []string `json:"roots,omitempty"`
	Readable bool     `json:"readable"`
}
