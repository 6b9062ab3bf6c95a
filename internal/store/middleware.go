package store

import (
	"context"
	"log/slog"
	"time"
)

// Logger records every action passing through the store at debug level.
func Logger[S any](logger *slog.Logger) Middleware[S] {
	return func(api API[S]) func(next Dispatch) Dispatch {
		return func(next Dispatch) Dispatch {
			return func(a Action) {
				if !logger.Enabled(context.Background(), slog.LevelDebug) {
					next(a)
					return
				}
				start := time.Now()
				next(a)
				logger.Debug("action dispatched",
					slog.String("type", a.ActionType()),
					slog.Duration("elapsed", time.Since(start)),
				)
			}
		}
	}
}
