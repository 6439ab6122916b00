package middleware

import (
	"context"
	"log/slog"
	"time"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/queries"
)

func Logging(log *slog.Logger) CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			start := time.Now()
			res, err := next.Dispatch(ctx, cmd)
			logOutcome(ctx, log, "command", cmd.Key(), start, err)
			return res, err
		})
	}
}

func QueryLogging(log *slog.Logger) QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			start := time.Now()
			res, err := next.Ask(ctx, q)
			logOutcome(ctx, log, "query", q.Key(), start, err)
			return res, err
		})
	}
}

func logOutcome(ctx context.Context, log *slog.Logger, kind, key string, start time.Time, err error) {
	if log == nil {
		return
	}
	if err != nil {
		log.WarnContext(ctx, kind+" failed", "key", key, "duration", time.Since(start), "error", err)
		return
	}
	log.DebugContext(ctx, kind+" handled", "key", key, "duration", time.Since(start))
}
