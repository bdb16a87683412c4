// Package logtail reads the tail of ladle's diagnostics log.
//
// # Overview
//
// ladle writes slog JSON lines to its log file while the TUI owns the
// terminal. This package extracts the last N lines of that file and parses
// them back into entries for the TUI log view and the `ladle logs` command.
//
// # Reading Log Files
//
// Read uses a ring buffer so memory is O(maxLines) regardless of file size.
// A missing file is treated as an empty log.
//
//	entries, err := logtail.Entries(cfg.LogPath, 200, slog.LevelInfo)
//	if err != nil {
//		return err
//	}
//	for _, e := range entries {
//		fmt.Println(e.Format())
//	}
//
// # Parsing
//
// Parse understands the slog JSON handler's time, level and msg keys; every
// other key becomes an attribute. Lines that are not JSON (a panic trace, a
// hand-edited file) are kept as info entries carrying the raw text.
package logtail
