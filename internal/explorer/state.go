// Package explorer holds the working collection and the view state of one
// explorer session.
package explorer

import (
	"fmt"

	"github.com/ngenohkevin/aura-explorer/internal/assistant"
	"github.com/ngenohkevin/aura-explorer/internal/catalog"
	"github.com/ngenohkevin/aura-explorer/internal/query"
)

// ViewMode is how the listing is laid out
type ViewMode string

const (
	ViewGrid ViewMode = "grid"
	ViewList ViewMode = "list"
)

// ParseViewMode accepts "grid" or "list"
func ParseViewMode(s string) (ViewMode, error) {
	switch m := ViewMode(s); m {
	case ViewGrid, ViewList:
		return m, nil
	}
	return "", fmt.Errorf("unknown view mode %q", s)
}

// State is the view state. It is a value; transitions return a new one.
type State struct {
	FolderID *string            `json:"folder_id"`
	Search   string             `json:"search"`
	Category catalog.Category   `json:"category"`
	ViewMode ViewMode           `json:"view_mode"`
	Language assistant.Language `json:"language"`
}

// InitialState is the root folder, no filters, grid layout
func InitialState(lang assistant.Language) State {
	return State{
		Category: catalog.CategoryAll,
		ViewMode: ViewGrid,
		Language: lang,
	}
}

// Filter converts the state into query input
func (s State) Filter() query.Filter {
	return query.Filter{
		Search:   s.Search,
		Category: s.Category,
		FolderID: s.FolderID,
	}
}

// Action is a view state transition
type Action interface {
	apply(State) State
}

// Navigate opens a folder; nil is the root
type Navigate struct{ FolderID *string }

// SetSearch replaces the search text
type SetSearch struct{ Text string }

// SelectCategory activates a category filter and clears the search text
type SelectCategory struct{ Category catalog.Category }

// ResetView returns to the root with no filters
type ResetView struct{}

// SetViewMode switches between grid and list
type SetViewMode struct{ Mode ViewMode }

// SetLanguage switches the interface and reply language
type SetLanguage struct{ Language assistant.Language }

// ImportCompleted follows a successful import
type ImportCompleted struct{}

func (a Navigate) apply(s State) State {
	s.FolderID = a.FolderID
	return s
}

func (a SetSearch) apply(s State) State {
	s.Search = a.Text
	return s
}

func (a SelectCategory) apply(s State) State {
	s.Category = a.Category
	s.Search = ""
	return s
}

func (ResetView) apply(s State) State {
	return reset(s)
}

func (a SetViewMode) apply(s State) State {
	s.ViewMode = a.Mode
	return s
}

func (a SetLanguage) apply(s State) State {
	s.Language = a.Language
	return s
}

func (ImportCompleted) apply(s State) State {
	return reset(s)
}

func reset(s State) State {
	s.FolderID = nil
	s.Category = catalog.CategoryAll
	s.Search = ""
	return s
}

// Reduce applies one action to a state
func Reduce(s State, a Action) State {
	return a.apply(s)
}
