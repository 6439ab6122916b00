package commands

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

type recalcCommand struct{ hotelID string }

func (recalcCommand) Key() string     { return "recalc" }
func (recalcCommand) Validate() error { return nil }

func TestDispatchRoutesByKey(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	Register[recalcCommand, string](bus, "recalc", HandlerFunc[recalcCommand, string](func(_ context.Context, cmd recalcCommand) (string, error) {
		return "run-" + cmd.hotelID, nil
	}))

	got, err := Dispatch[recalcCommand, string](context.Background(), bus, recalcCommand{hotelID: "h1"})
	require.NoError(t, err)
	require.Equal(t, "run-h1", got)
	require.Equal(t, []string{"recalc"}, bus.Keys())
}

func TestDispatchErrors(t *testing.T) {
	t.Parallel()

	bus := NewInMemoryBus()
	_, err := Dispatch[recalcCommand, string](context.Background(), bus, recalcCommand{})
	require.ErrorIs(t, err, ErrHandlerNotFound)

	_, err = Dispatch[recalcCommand, string](context.Background(), nil, recalcCommand{})
	require.ErrorIs(t, err, ErrNilBus)

	Register[recalcCommand, int](bus, "recalc", HandlerFunc[recalcCommand, int](func(context.Context, recalcCommand) (int, error) {
		return 1, nil
	}))
	_, err = Dispatch[recalcCommand, string](context.Background(), bus, recalcCommand{})
	require.ErrorIs(t, err, ErrResultType)
	require.Contains(t, err.Error(), "recalc returned int")

	require.Panics(t, func() {
		Register[recalcCommand, int](bus, "recalc", HandlerFunc[recalcCommand, int](func(context.Context, recalcCommand) (int, error) {
			return 0, nil
		}))
	})
}
