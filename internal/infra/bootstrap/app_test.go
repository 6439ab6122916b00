package bootstrap

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	domainpricing "roomrates/internal/domain/pricing"
	"roomrates/internal/infra/config"
)

func TestDefaultSettingsFromConfig(t *testing.T) {
	t.Parallel()

	got := defaultSettings(config.Config{AverageMode: "OCCUPANCY", RoundingMode: "ROUND_UP"})
	require.Equal(t, domainpricing.AverageOccupancy, got.AverageMode)
	require.Equal(t, domainpricing.RoundingUp, got.RoundingMode)
	require.Equal(t, domainpricing.ReferenceOriginal, got.ReversedReference)

	got = defaultSettings(config.Config{})
	require.Equal(t, domainpricing.DefaultSettings(), got)
}

func TestCloseRunsInReverse(t *testing.T) {
	t.Parallel()

	var order []string
	app := &App{}
	app.onClose(func(context.Context) error { order = append(order, "mongo"); return nil })
	app.onClose(func(context.Context) error { order = append(order, "kafka"); return errors.New("broker gone") })

	err := app.Close(context.Background())
	require.Error(t, err)
	require.Equal(t, []string{"kafka", "mongo"}, order)
	require.NoError(t, app.Close(context.Background()))
}
