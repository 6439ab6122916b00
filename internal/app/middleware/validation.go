package middleware

import (
	"context"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/queries"
)

// Validation rejects commands whose Validate fails before they reach a handler.
func Validation() CommandMiddleware {
	return func(next commands.Bus) commands.Bus {
		return commandFunc(func(ctx context.Context, cmd commands.Command) (any, error) {
			if err := cmd.Validate(); err != nil {
				return nil, err
			}
			return next.Dispatch(ctx, cmd)
		})
	}
}

func QueryValidation() QueryMiddleware {
	return func(next queries.Bus) queries.Bus {
		return queryFunc(func(ctx context.Context, q queries.Query) (any, error) {
			if err := q.Validate(); err != nil {
				return nil, err
			}
			return next.Ask(ctx, q)
		})
	}
}
