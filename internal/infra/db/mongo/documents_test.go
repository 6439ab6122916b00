package mongo

import (
	"testing"

	"github.com/stretchr/testify/require"

	domainpricing "roomrates/internal/domain/pricing"
	domainrateplan "roomrates/internal/domain/rateplan"
)

func TestSellingPriceDocumentKeepsExactAmounts(t *testing.T) {
	t.Parallel()

	doc := sellingPriceDocument{
		RoomProductID:       "std",
		RatePlanID:          "bar",
		Date:                "2025-09-01",
		BasePrice:           "100.10",
		RatePlanAdjustments: "10.01",
		AccommodationRate:   "110.11",
	}
	sp, err := doc.toDomain()
	require.NoError(t, err)
	require.Equal(t, "110.11", sp.AccommodationRate.String())
	require.True(t, sp.MethodAdjustments.IsZero())
}

func TestDocumentsRejectMalformedAmounts(t *testing.T) {
	t.Parallel()

	_, err := featureRateDocument{Rate: "ten"}.toDomain()
	require.Error(t, err)

	_, err = mapDocs([]taxDocument{{Code: "vat", Rate: "10"}, {Code: "city", Rate: "x"}}, taxDocument.toDomain)
	require.Error(t, err)
}

func TestRatePlanDocument(t *testing.T) {
	t.Parallel()

	plan, err := ratePlanDocument{
		ID:                "bar",
		Status:            "ACTIVE",
		DefaultAdjustment: adjustmentDocument{Value: "12.5", Type: "PERCENTAGE"},
		AttributePricing:  true,
	}.toDomain()
	require.NoError(t, err)
	require.True(t, plan.Active())
	require.Equal(t, domainpricing.AdjustmentPercentage, plan.DefaultAdjustment.Unit())
	require.Equal(t, domainrateplan.StatusActive, plan.Status)
}

func TestSettingsDocumentFallsBackToDefaults(t *testing.T) {
	t.Parallel()

	defaults := domainpricing.Settings{
		RoundingMode:      domainpricing.RoundingHalfUp,
		AverageMode:       domainpricing.AverageMidpoint,
		ReversedReference: domainpricing.ReferenceOriginal,
	}
	got := settingsDocument{AverageMode: "OCCUPANCY"}.toDomain(defaults)
	require.Equal(t, domainpricing.AverageOccupancy, got.AverageMode)
	require.Equal(t, domainpricing.RoundingHalfUp, got.RoundingMode)
	require.Equal(t, domainpricing.ReferenceOriginal, got.ReversedReference)
}
