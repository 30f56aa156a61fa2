package importer

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"unicode/utf8"
)

// LocalSource lists on-device directories inside a set of allowed roots.
// Symlinks are followed only while their target stays inside a root.
type LocalSource struct {
	allowedPaths []string
	roots        []string // absolute, symlinks resolved
	allowAll     bool
}

// NewLocalSource creates a local source; "*" allows every path
func NewLocalSource(allowedPaths []string) *LocalSource {
	allowAll := false
	for _, p := range allowedPaths {
		if p == "*" {
			allowAll = true
			break
		}
	}

	if !allowAll && len(allowedPaths) == 0 {
		if home, err := os.UserHomeDir(); err == nil {
			allowedPaths = []string{home}
		}
	}

	roots := make([]string, 0, len(allowedPaths))
	for _, p := range allowedPaths {
		if abs, err := filepath.Abs(p); err == nil {
			roots = append(roots, canonical(abs))
		}
	}

	return &LocalSource{
		allowedPaths: allowedPaths,
		roots:        roots,
		allowAll:     allowAll,
	}
}

// canonical resolves symlinks in an absolute path, keeping it unchanged
// when it does not exist
func canonical(absPath string) string {
	if resolved, err := filepath.EvalSymlinks(absPath); err == nil {
		return resolved
	}
	return absPath
}

// within reports whether path equals root or lies below it
func within(path, root string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	return rel == "." || (rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)))
}

// Roots returns the list of importable roots for the UI
func (s *LocalSource) Roots() []string {
	if s.allowAll {
		return []string{"/"}
	}
	return s.allowedPaths
}

// IsPathAllowed checks if a path, after resolving symlinks, is within
// allowed directories
func (s *LocalSource) IsPathAllowed(path string) bool {
	if s.allowAll {
		return true
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return false
	}
	return s.allowedResolved(canonical(absPath))
}

func (s *LocalSource) allowedResolved(resolved string) bool {
	if s.allowAll {
		return true
	}
	for _, root := range s.roots {
		if within(resolved, root) {
			return true
		}
	}
	return false
}

// resolve returns the symlink-free absolute path of an allowed handle
func (s *LocalSource) resolve(path string) (string, os.FileInfo, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", nil, fmt.Errorf("invalid path: %w", err)
	}

	resolved, err := filepath.EvalSymlinks(absPath)
	if err != nil {
		if !s.allowedResolved(absPath) {
			return "", nil, ErrAccessDenied
		}
		return "", nil, fmt.Errorf("failed to stat path: %w", err)
	}

	if !s.allowedResolved(resolved) {
		return "", nil, ErrAccessDenied
	}

	info, err := os.Stat(resolved)
	if err != nil {
		return "", nil, fmt.Errorf("failed to stat path: %w", err)
	}
	return resolved, info, nil
}

// Canonical identifies the directory a handle points at, so an eager walk
// can recognise a symlink loop
func (s *LocalSource) Canonical(_ context.Context, handle string) (string, error) {
	resolved, _, err := s.resolve(handle)
	return resolved, err
}

// ListChildren returns the entries of a directory, directories first.
// Broken symlinks and links leaving the allowed roots are skipped.
func (s *LocalSource) ListChildren(ctx context.Context, path string) ([]Entry, error) {
	absPath, info, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if !info.IsDir() {
		return nil, ErrNotDirectory
	}

	dirEntries, err := os.ReadDir(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory: %w", err)
	}

	// Handles keep the path the caller used, not the resolved one
	base, _ := filepath.Abs(path)

	entries := make([]Entry, 0, len(dirEntries))
	for i, dirEntry := range dirEntries {
		if i >= MaxDirEntries {
			break
		}
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		entryPath := filepath.Join(absPath, dirEntry.Name())
		if dirEntry.Type()&fs.ModeSymlink != 0 {
			target, err := filepath.EvalSymlinks(entryPath)
			if err != nil || !s.allowedResolved(target) {
				continue
			}
		}

		fi, err := os.Stat(entryPath)
		if err != nil {
			continue
		}

		entry := Entry{
			Name:    dirEntry.Name(),
			IsDir:   fi.IsDir(),
			ModTime: fi.ModTime(),
			Handle:  filepath.Join(base, dirEntry.Name()),
		}
		if !entry.IsDir {
			entry.Size = fi.Size()
		}
		entries = append(entries, entry)
	}

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].IsDir != entries[j].IsDir {
			return entries[i].IsDir
		}
		return entries[i].Name < entries[j].Name
	})

	return entries, nil
}

// ReadFile returns the content of a file, truncated at MaxFileSize
func (s *LocalSource) ReadFile(_ context.Context, path string) (*FileContent, error) {
	absPath, info, err := s.resolve(path)
	if err != nil {
		return nil, err
	}

	if info.IsDir() {
		return nil, ErrIsDirectory
	}

	truncated := false
	readSize := info.Size()
	if readSize > MaxFileSize {
		readSize = MaxFileSize
		truncated = true
	}

	file, err := os.Open(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	content := make([]byte, readSize)
	n, err := io.ReadFull(file, content)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return newFileContent(info.Name(), content[:n], info.Size(), truncated), nil
}

func newFileContent(name string, content []byte, size int64, truncated bool) *FileContent {
	isBinary := !utf8.Valid(content)
	encoding := "utf-8"
	if isBinary {
		encoding = "binary"
	}

	return &FileContent{
		Name:      name,
		Content:   string(content),
		Size:      size,
		Encoding:  encoding,
		IsBinary:  isBinary,
		Truncated: truncated,
	}
}
