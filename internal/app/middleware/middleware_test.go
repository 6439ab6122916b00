package middleware

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"roomrates/internal/app/commands"
)

var errInvalid = errors.New("invalid")

type pingCommand struct{ ok bool }

func (pingCommand) Key() string { return "ping" }

func (c pingCommand) Validate() error {
	if !c.ok {
		return errInvalid
	}
	return nil
}

func TestChainRunsValidationBeforeHandler(t *testing.T) {
	t.Parallel()

	calls := 0
	bus := commands.NewInMemoryBus()
	commands.Register[pingCommand, string](bus, "ping", commands.HandlerFunc[pingCommand, string](func(context.Context, pingCommand) (string, error) {
		calls++
		return "pong", nil
	}))
	chained := ChainCommands(bus, Logging(nil), Validation())

	got, err := commands.Dispatch[pingCommand, string](context.Background(), chained, pingCommand{ok: true})
	require.NoError(t, err)
	require.Equal(t, "pong", got)

	_, err = commands.Dispatch[pingCommand, string](context.Background(), chained, pingCommand{})
	require.ErrorIs(t, err, errInvalid)
	require.Equal(t, 1, calls)
}
