// Package importer turns directory sources into catalog records.
package importer

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/internal/catalog"
	"github.com/ngenohkevin/aura-explorer/internal/logging"
)

// Options controls how deep an import walks
type Options struct {
	// MaxDepth is the number of directory levels listed eagerly; 0 means unlimited.
	// At depth 1 sub-directories become folder records and are expanded on demand.
	MaxDepth int
}

// Result is the outcome of an import or an expansion
type Result struct {
	Records []catalog.FileRecord
	// Listed holds the ids of folders whose children are already in Records
	Listed []string

	seen map[string]bool
}

// Importer walks registered sources
type Importer struct {
	mu      sync.RWMutex
	sources map[string]Lister
	opts    Options
	newID   func() string
}

// New creates an importer without sources
func New(opts Options) *Importer {
	return &Importer{
		sources: make(map[string]Lister),
		opts:    opts,
		newID:   uuid.NewString,
	}
}

// Register makes a source available under name
func (im *Importer) Register(name string, lister Lister) {
	im.mu.Lock()
	defer im.mu.Unlock()
	im.sources[name] = lister
}

// Sources describes every registered source
func (im *Importer) Sources() []SourceInfo {
	im.mu.RLock()
	defer im.mu.RUnlock()

	infos := make([]SourceInfo, 0, len(im.sources))
	for name, lister := range im.sources {
		info := SourceInfo{Name: name}
		if r, ok := lister.(Rooter); ok {
			info.Roots = r.Roots()
		}
		_, info.Readable = lister.(Reader)
		infos = append(infos, info)
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].Name < infos[j].Name })
	return infos
}

func (im *Importer) lister(source string) (Lister, error) {
	im.mu.RLock()
	defer im.mu.RUnlock()

	lister, ok := im.sources[source]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSource, source)
	}
	return lister, nil
}

// Import lists root in source and materializes its records. Any error
// listing root fails the whole import.
func (im *Importer) Import(ctx context.Context, source, root string) (*Result, error) {
	lister, err := im.lister(source)
	if err != nil {
		return nil, err
	}

	result := &Result{Records: []catalog.FileRecord{}}
	if err := im.walk(ctx, source, lister, root, nil, 1, result); err != nil {
		return nil, err
	}
	return result, nil
}

// Expand lists the children of an imported folder record
func (im *Importer) Expand(ctx context.Context, folder catalog.FileRecord) (*Result, error) {
	if !folder.IsFolder() || folder.Handle == "" {
		return nil, fmt.Errorf("%w: %s", ErrNotExpandable, folder.ID)
	}
	lister, err := im.lister(folder.Source)
	if err != nil {
		return nil, err
	}

	result := &Result{Records: []catalog.FileRecord{}, Listed: []string{folder.ID}}
	if err := im.walk(ctx, folder.Source, lister, folder.Handle, catalog.Ref(folder.ID), 1, result); err != nil {
		return nil, err
	}
	return result, nil
}

// ReadContent returns a record's inline content, or reads it from its source
func (im *Importer) ReadContent(ctx context.Context, record catalog.FileRecord) (*FileContent, error) {
	if record.IsFolder() {
		return nil, ErrIsDirectory
	}
	if record.Content != "" {
		return &FileContent{
			Name:     record.Name,
			Content:  record.Content,
			Size:     record.Size,
			Encoding: "utf-8",
		}, nil
	}
	if record.Handle == "" {
		return nil, ErrNoContent
	}

	lister, err := im.lister(record.Source)
	if err != nil {
		return nil, err
	}
	reader, ok := lister.(Reader)
	if !ok {
		return nil, ErrNoContent
	}
	return reader.ReadFile(ctx, record.Handle)
}

func (im *Importer) walk(ctx context.Context, source string, lister Lister, handle string, parent *string, depth int, result *Result) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	entries, err := lister.ListChildren(ctx, handle)
	if err != nil {
		return err
	}
	im.markVisited(ctx, lister, handle, result)

	for _, entry := range entries {
		record := im.record(source, entry, parent)
		result.Records = append(result.Records, record)

		if !entry.IsDir || (im.opts.MaxDepth > 0 && depth >= im.opts.MaxDepth) {
			continue
		}
		if im.visited(ctx, lister, entry.Handle, result) {
			// A link back into the walked tree stays collapsed
			continue
		}

		err := im.walk(ctx, source, lister, entry.Handle, catalog.Ref(record.ID), depth+1, result)
		switch {
		case err == nil:
			result.Listed = append(result.Listed, record.ID)
		case ctx.Err() != nil:
			return ctx.Err()
		default:
			// An unreadable sub-directory stays a collapsed folder
			logging.FromContext(ctx).Warn("skipping unreadable directory",
				zap.String("source", source),
				zap.String("handle", entry.Handle),
				zap.Error(err),
			)
		}
	}
	return nil
}

func visitKey(ctx context.Context, lister Lister, handle string) string {
	if c, ok := lister.(Canonicalizer); ok {
		if key, err := c.Canonical(ctx, handle); err == nil {
			return key
		}
	}
	return handle
}

func (im *Importer) markVisited(ctx context.Context, lister Lister, handle string, result *Result) {
	if result.seen == nil {
		result.seen = make(map[string]bool)
	}
	result.seen[visitKey(ctx, lister, handle)] = true
}

func (im *Importer) visited(ctx context.Context, lister Lister, handle string, result *Result) bool {
	return result.seen[visitKey(ctx, lister, handle)]
}

func (im *Importer) record(source string, entry Entry, parent *string) catalog.FileRecord {
	record := catalog.FileRecord{
		ID:         im.newID(),
		Name:       entry.Name,
		Kind:       catalog.KindFile,
		ModifiedAt: entry.ModTime,
		ParentID:   parent,
		Source:     source,
		Handle:     entry.Handle,
	}
	if entry.IsDir {
		record.Kind = catalog.KindFolder
		return record
	}

	record.Category = Classify(entry.Name)
	record.Extension = Extension(entry.Name)
	record.Size = entry.Size
	return record
}
