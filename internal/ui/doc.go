// Package ui provides ladle's terminal user interface.
//
// # Architecture Overview
//
// The UI is a Bubble Tea program. Model is a pure projection of the
// state.Controller snapshot plus purely visual state (selection, focus,
// open overlay, theme). Every backend call runs as a tea.Cmd goroutine that
// drives a controller transition and reports back with an opDoneMsg; the
// model then re-reads the snapshot. A short refresh tick keeps the loading
// spinner in step with requests that are still in flight.
//
// # Package Structure
//
//   - app.go: Model, Options, Init/Update/View, key dispatch, commands and Run
//   - keys.go: key bindings
//   - theme.go, style_helpers.go: palettes, styles and background-safe rendering
//   - header.go: status bar and command bar
//   - list.go: recipe list pane, titled boxes, selection tracking
//   - detail.go: recipe detail viewport and clipboard text
//   - search.go: command bar search prompt
//   - form.go, filters.go, confirm.go, modal.go: overlays
//   - logs.go: diagnostics log view
//   - help.go: keyboard shortcut overlay
//
// # Views
//
//   - Recipes: list on the left, detail of the highlighted or opened recipe
//     on the right. With split detail off the two are shown one at a time.
//   - Log: the tail of ladle's own slog file, filtered by minimum level.
//
// # Key Features
//
//   - Search (/) and filter panel (f) with the controller's mode rules: a
//     blank search returns to the active filter set, and search and filter
//     never combine.
//   - Create (n) and edit (e) forms; the form stays open when the backend
//     rejects a submission.
//   - Delete (d) asks for confirmation; only y deletes.
//   - Copy (y) puts a plain-text recipe on the clipboard.
//   - Themes (T) and split detail (v) persist through internal/prefs.
//
// # Usage Example
//
//	ctrl := state.NewController(client, logger)
//	err := ui.Run(ui.Options{
//		Context:     ctx,
//		Controller:  ctrl,
//		Options:     client,
//		Config:      &cfg,
//		Logger:      logger,
//		ThemeName:   userPrefs.Theme,
//		SplitDetail: userPrefs.SplitDetail,
//	})
package ui
