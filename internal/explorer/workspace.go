package explorer

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ngenohkevin/aura-explorer/internal/assistant"
	"github.com/ngenohkevin/aura-explorer/internal/cache"
	"github.com/ngenohkevin/aura-explorer/internal/catalog"
	"github.com/ngenohkevin/aura-explorer/internal/importer"
	"github.com/ngenohkevin/aura-explorer/internal/logging"
	"github.com/ngenohkevin/aura-explorer/internal/metrics"
	"github.com/ngenohkevin/aura-explorer/internal/query"
	"github.com/ngenohkevin/aura-explorer/internal/system"
	"github.com/ngenohkevin/aura-explorer/internal/usage"
)

// ErrNotFolder is returned when navigating into a file
var ErrNotFolder = errors.New("record is not a folder")

const (
	usageCacheTTL    = 10 * time.Minute
	subscriberBuffer = 16
)

// EventType names a workspace change
type EventType string

const (
	EventImported  EventType = "imported"
	EventExpanded  EventType = "expanded"
	EventDeleted   EventType = "deleted"
	EventViewState EventType = "view"
	EventMessage   EventType = "message"
)

// Event is published after every mutation
type Event struct {
	Type     EventType `json:"type"`
	Revision uint64    `json:"revision"`
	State    State     `json:"state"`
	RecordID string    `json:"record_id,omitempty"`
	At       time.Time `json:"at"`
}

// View is what the explorer shows for the current state
type View struct {
	Records     []catalog.FileRecord `json:"records"`
	Breadcrumbs []catalog.FileRecord `json:"breadcrumbs"`
	State       State                `json:"state"`
	Mode        query.Mode           `json:"mode"`
	Total       int                  `json:"total"`
	Revision    uint64               `json:"revision"`
}

// Options configures a workspace
type Options struct {
	Language assistant.Language
	// Capacity is the nominal total shown in usage reports
	Capacity int64
	// CapacityFromDisk sizes reports by the filesystem of the last local import
	CapacityFromDisk bool
	Seed             bool
}

// Workspace owns the collection, the view state and the assistant
// conversation. Readers get consistent snapshots; every mutation replaces
// the snapshot and bumps the revision.
type Workspace struct {
	mu       sync.RWMutex
	catalog  *catalog.Catalog
	state    State
	revision uint64
	// listed holds imported folders whose children are loaded
	listed     map[string]bool
	lastSource string
	lastRoot   string

	importMu     sync.Mutex
	importer     *importer.Importer
	conversation *assistant.Conversation
	usage        *cache.RevisionCache[*usage.Report]
	opts         Options

	subMu       sync.Mutex
	subscribers map[chan Event]struct{}
}

// New creates a workspace, seeded with the sample collection when asked
func New(im *importer.Importer, responder assistant.Responder, opts Options) *Workspace {
	if opts.Language == "" {
		opts.Language = assistant.Portuguese
	}
	if responder == nil {
		responder = assistant.Offline{}
	}

	c := catalog.Empty()
	if opts.Seed {
		c = catalog.Seed()
	}
	metrics.SetCatalogRecords(c.Len())

	return &Workspace{
		catalog:      c,
		state:        InitialState(opts.Language),
		listed:       make(map[string]bool),
		importer:     im,
		conversation: assistant.NewConversation(responder, opts.Language),
		usage:        cache.NewRevisionCache[*usage.Report]("usage", usageCacheTTL),
		opts:         opts,
		subscribers:  make(map[chan Event]struct{}),
	}
}

// Close releases background resources and ends every subscription
func (w *Workspace) Close() {
	w.usage.Close()

	w.subMu.Lock()
	defer w.subMu.Unlock()
	for ch := range w.subscribers {
		delete(w.subscribers, ch)
		close(ch)
	}
}

// Revision returns the current snapshot revision
func (w *Workspace) Revision() uint64 {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.revision
}

// State returns the current view state
func (w *Workspace) State() State {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.state
}

// Sources lists the importer's sources
func (w *Workspace) Sources() []importer.SourceInfo {
	return w.importer.Sources()
}

// View returns the visible records, breadcrumbs and state
func (w *Workspace) View() *View {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.viewLocked()
}

func (w *Workspace) viewLocked() *View {
	filter := w.state.Filter()
	return &View{
		Records:     query.Apply(w.catalog.All(), filter),
		Breadcrumbs: nonNil(w.catalog.Breadcrumbs(w.state.FolderID)),
		State:       w.state,
		Mode:        filter.Mode(),
		Total:       w.catalog.Len(),
		Revision:    w.revision,
	}
}

// Get returns one record
func (w *Workspace) Get(id string) (catalog.FileRecord, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	record, ok := w.catalog.Get(id)
	if !ok {
		return catalog.FileRecord{}, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	return record, nil
}

// Breadcrumbs returns the path from the root to a folder
func (w *Workspace) Breadcrumbs(id string) ([]catalog.FileRecord, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()

	record, ok := w.catalog.Get(id)
	if !ok {
		return nil, fmt.Errorf("%w: %s", catalog.ErrNotFound, id)
	}
	if !record.IsFolder() {
		return nil, fmt.Errorf("%w: %s", ErrNotFolder, id)
	}
	return nonNil(w.catalog.Breadcrumbs(catalog.Ref(id))), nil
}

// Content returns the content of a file record
func (w *Workspace) Content(ctx context.Context, id string) (*importer.FileContent, error) {
	record, err := w.Get(id)
	if err != nil {
		return nil, err
	}
	return w.importer.ReadContent(ctx, record)
}

// Dispatch applies a view action. Navigation goes through Navigate so that
// folders are validated and expanded.
func (w *Workspace) Dispatch(a Action) *View {
	w.mu.Lock()
	w.state = Reduce(w.state, a)
	w.revision++
	view := w.viewLocked()
	w.mu.Unlock()

	w.publish(EventViewState, view.Revision, view.State, "")
	return view
}

// Navigate opens a folder (nil for the root). An imported folder that has
// not been listed yet is expanded first; if that fails the folder opens empty.
func (w *Workspace) Navigate(ctx context.Context, folderID *string) (*View, error) {
	if folderID == nil {
		return w.Dispatch(Navigate{}), nil
	}

	folder, err := w.Get(*folderID)
	if err != nil {
		return nil, err
	}
	if !folder.IsFolder() {
		return nil, fmt.Errorf("%w: %s", ErrNotFolder, folder.ID)
	}

	if w.needsExpansion(folder) {
		if err := w.expand(ctx, folder); err != nil {
			if ctx.Err() != nil {
				return nil, ctx.Err()
			}
			logging.FromContext(ctx).Warn("failed to expand folder",
				zap.String("id", folder.ID),
				zap.String("handle", folder.Handle),
				zap.Error(err),
			)
		}
	}

	return w.Dispatch(Navigate{FolderID: catalog.Ref(folder.ID)}), nil
}

func (w *Workspace) needsExpansion(folder catalog.FileRecord) bool {
	if folder.Handle == "" || folder.Source == catalog.SeedSource {
		return false
	}
	w.mu.RLock()
	defer w.mu.RUnlock()
	return !w.listed[folder.ID]
}

func (w *Workspace) expand(ctx context.Context, folder catalog.FileRecord) error {
	result, err := w.importer.Expand(ctx, folder)
	if err != nil {
		return err
	}

	w.mu.Lock()
	// The collection may have been replaced or the folder expanded meanwhile
	if _, ok := w.catalog.Get(folder.ID); !ok || w.listed[folder.ID] {
		w.mu.Unlock()
		return nil
	}
	next, err := w.catalog.With(result.Records...)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.catalog = next
	for _, id := range result.Listed {
		w.listed[id] = true
	}
	w.revision++
	rev, state, n := w.revision, w.state, next.Len()
	w.mu.Unlock()

	metrics.SetCatalogRecords(n)
	w.publish(EventExpanded, rev, state, folder.ID)
	return nil
}

// Import replaces the collection with the contents of root and resets the
// view. On failure the workspace is left unchanged.
func (w *Workspace) Import(ctx context.Context, source, root string) (*View, error) {
	w.importMu.Lock()
	defer w.importMu.Unlock()

	log := logging.FromContext(ctx).With(zap.String("source", source), zap.String("root", root))
	start := time.Now()

	result, err := w.importer.Import(ctx, source, root)
	if err != nil {
		metrics.RecordImport(source, time.Since(start), false)
		log.Warn("import failed, keeping current collection", zap.Error(err))
		return nil, err
	}

	next, err := catalog.New(result.Records)
	if err != nil {
		metrics.RecordImport(source, time.Since(start), false)
		log.Error("imported records are inconsistent", zap.Error(err))
		return nil, err
	}
	metrics.RecordImport(source, time.Since(start), true)
	metrics.SetCatalogRecords(next.Len())

	listed := make(map[string]bool, len(result.Listed))
	for _, id := range result.Listed {
		listed[id] = true
	}

	w.mu.Lock()
	w.catalog = next
	w.listed = listed
	w.lastSource, w.lastRoot = source, root
	w.state = Reduce(w.state, ImportCompleted{})
	w.revision++
	view := w.viewLocked()
	w.mu.Unlock()

	log.Info("import completed",
		zap.Int("records", next.Len()),
		zap.Duration("duration", time.Since(start)),
	)
	w.publish(EventImported, view.Revision, view.State, "")
	return view, nil
}

// Delete removes one record. Children of a deleted folder stay in the
// collection with a dangling parent.
func (w *Workspace) Delete(id string) error {
	w.mu.Lock()
	next, err := w.catalog.Without(id)
	if err != nil {
		w.mu.Unlock()
		return err
	}
	w.catalog = next
	delete(w.listed, id)
	w.revision++
	rev, state := w.revision, w.state
	w.mu.Unlock()

	metrics.RecordDeletion()
	metrics.SetCatalogRecords(next.Len())
	w.publish(EventDeleted, rev, state, id)
	return nil
}

// Usage returns the storage report of the current collection
func (w *Workspace) Usage(ctx context.Context) (*usage.Report, error) {
	w.mu.RLock()
	rev, c := w.revision, w.catalog
	source, root := w.lastSource, w.lastRoot
	w.mu.RUnlock()

	return w.usage.GetOrCompute(rev, func() (*usage.Report, error) {
		return usage.Aggregate(c.All(), w.capacity(ctx, source, root)), nil
	})
}

func (w *Workspace) capacity(ctx context.Context, source, root string) int64 {
	if !w.opts.CapacityFromDisk || source != "local" || root == "" {
		return w.opts.Capacity
	}
	disk, err := system.DiskCapacity(root)
	if err != nil {
		logging.FromContext(ctx).Warn("falling back to nominal capacity", zap.Error(err))
		return w.opts.Capacity
	}
	return int64(disk.Total)
}

// Messages returns the assistant conversation
func (w *Workspace) Messages() []assistant.Message {
	return w.conversation.Messages()
}

// AssistantPending reports whether a reply is awaited
func (w *Workspace) AssistantPending() bool {
	return w.conversation.Pending()
}

// Ask sends a message to the assistant together with a summary of the
// current collection, in the current language
func (w *Workspace) Ask(ctx context.Context, text string) (assistant.Message, error) {
	w.mu.RLock()
	summary, lang := w.catalog.Summary(), w.state.Language
	w.mu.RUnlock()

	reply, err := w.conversation.Send(ctx, text, summary, lang)
	if err != nil {
		return reply, err
	}

	w.mu.RLock()
	rev, state := w.revision, w.state
	w.mu.RUnlock()
	w.publish(EventMessage, rev, state, "")
	return reply, nil
}

// Subscribe returns a channel of change events and a func that ends the
// subscription. Slow subscribers miss events rather than block mutations.
func (w *Workspace) Subscribe() (<-chan Event, func()) {
	ch := make(chan Event, subscriberBuffer)

	w.subMu.Lock()
	w.subscribers[ch] = struct{}{}
	w.subMu.Unlock()

	return ch, func() {
		w.subMu.Lock()
		defer w.subMu.Unlock()
		if _, ok := w.subscribers[ch]; ok {
			delete(w.subscribers, ch)
			close(ch)
		}
	}
}

func (w *Workspace) publish(t EventType, rev uint64, state State, recordID string) {
	event := Event{Type: t, Revision: rev, State: state, RecordID: recordID, At: time.Now()}

	w.subMu.Lock()
	defer w.subMu.Unlock()
	for ch := range w.subscribers {
		select {
		case ch <- event:
		default:
		}
	}
}

func nonNil(records []catalog.FileRecord) []catalog.FileRecord {
	if records == nil {
		return []catalog.FileRecord{}
	}
	return records
}
