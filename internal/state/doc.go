// Package state holds the recipe view state shared by the TUI.
//
// # Overview
//
// The Controller owns the displayed recipe collection and the display Mode.
// Every change goes through a named transition (Load, Search, Revert, Filter,
// ClearFilters, Reapply, Create, Update, Delete and the form/detail toggles).
// The UI never edits the collection; it renders Snapshot copies.
//
// # Display Mode
//
// Mode is exactly one of:
//
//	Unfiltered()         after Load
//	Searched(query)      after a non-blank Search
//	Filtered(filters)    after Filter with at least one key
//
// A search drops the filter set and a filter drops the search query. A blank
// search reverts: to Filter(active filters) when the mode is filtered,
// otherwise to Load.
//
// # Mutations
//
// Create prepends the stored recipe, Update swaps it in place and Delete
// removes it by id. None of them re-query, so a new recipe that does not match
// the active search or filter stays visible until the next list query.
//
// # Concurrency Model
//
// Transitions are safe to call from tea.Cmd goroutines. The API request runs
// without holding the lock; its result is applied under the write lock. When
// two list queries overlap the last one to finish wins. Loading is true while
// any list query is in flight.
//
// # Failures
//
// A failed transition keeps the collection and mode, records the action's
// fixed message in Snapshot.Error and the cause in Snapshot.Cause, and logs
// both. The next success clears them.
//
// # Filter Panel
//
// LoadPanel fetches meal types and cuisines concurrently. If either request
// fails the panel offers no options at all. Narrow filters an option column
// with fuzzy matching.
package state
