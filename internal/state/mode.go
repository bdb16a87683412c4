package state

import (
	"fmt"

	"github.com/five82/ladle/internal/recipes"
)

// ModeKind names which query produced the displayed collection.
type ModeKind int

const (
	ModeUnfiltered ModeKind = iota
	ModeSearched
	ModeFiltered
)

func (k ModeKind) String() string {
	switch k {
	case ModeSearched:
		return "searched"
	case ModeFiltered:
		return "filtered"
	default:
		return "unfiltered"
	}
}

// Mode is the display mode: unfiltered, searched by a query, or filtered by a
// filter set. The fields are unexported so a search query and a filter set
// can never be active together.
type Mode struct {
	kind    ModeKind
	query   string
	filters recipes.Filters
}

// Unfiltered is the mode after a plain Load.
func Unfiltered() Mode { return Mode{kind: ModeUnfiltered} }

// Searched is the mode after a successful non-blank search.
func Searched(query string) Mode { return Mode{kind: ModeSearched, query: query} }

// Filtered is the mode after a successful filter with at least one key.
func Filtered(f recipes.Filters) Mode { return Mode{kind: ModeFiltered, filters: f} }

func (m Mode) Kind() ModeKind { return m.kind }

// Query returns the search query; empty unless the mode is searched.
func (m Mode) Query() string { return m.query }

// Filters returns the active filter set; empty unless the mode is filtered.
func (m Mode) Filters() recipes.Filters { return m.filters }

// Label renders the mode for headers and status lines.
func (m Mode) Label() string {
	switch m.kind {
	case ModeSearched:
		return fmt.Sprintf("Search: %s", m.query)
	case ModeFiltered:
		return fmt.Sprintf("Filter: %s", m.filters)
	default:
		return "All"
	}
}
