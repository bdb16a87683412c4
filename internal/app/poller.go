package app

import (
	"context"
	"log/slog"
	"time"
)

// reapplier is the controller subset the refresher drives.
type reapplier interface {
	Reapply(ctx context.Context) error
}

// StartRefresher re-runs the controller's active query every interval until
// ctx is cancelled. It returns immediately; a non-positive interval starts
// nothing.
func StartRefresher(ctx context.Context, ctrl reapplier, interval time.Duration, logger *slog.Logger) {
	if interval <= 0 {
		return
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()

		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
			}
			// The controller already records the failure for the header
			if err := ctrl.Reapply(ctx); err != nil && ctx.Err() == nil && logger != nil {
				logger.Debug("background refresh failed", slog.String("error", err.Error()))
			}
		}
	}()
}
