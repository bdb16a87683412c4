// Package app is ladle's composition root.
//
// # Overview
//
// Open wires configuration, diagnostics and the backend client into a
// Session shared by the TUI and the CLI subcommands. Run builds the view
// controller on top of a Session and hands it to the Bubble Tea program.
//
// # Startup
//
//  1. Load ~/.config/ladle/config.toml (missing file means defaults)
//  2. Apply LADLE_API_URL, then the --api flag
//  3. Open the slog JSON log file and, when enabled, the trace exporter
//  4. Build the recipe client with timeout, user agent and tracer
//  5. Load UI preferences, start the optional background refresher
//  6. Run the TUI until the user quits or the context is cancelled
//
// # Components
//
//   - app.go: Options, Session, Open/Close and Run
//   - poller.go: background refresher that re-runs the active query
//
// # Background Refresh
//
// With refresh_interval set, StartRefresher calls Controller.Reapply on that
// fixed cadence so recipes added elsewhere show up. A failed refresh shows in
// the header like any other fetch failure and is logged at debug level; the
// next tick simply tries again. The refresher is off by default.
//
// # Error Handling
//
// Configuration, log file and client construction errors are returned from
// Open and end the process. Backend failures during a session never do:
// the controller turns them into a message in the header.
//
// # Usage Example
//
//	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
//	defer cancel()
//
//	if err := app.Run(ctx, app.Options{Version: version}); err != nil {
//		fmt.Fprintf(os.Stderr, "ladle: %v\n", err)
//	}
package app
