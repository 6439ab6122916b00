package ginserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"roomrates/internal/app/changedetect"
	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	ratesapp "roomrates/internal/app/handlers/rates"
	"roomrates/internal/app/middleware"
	"roomrates/internal/app/policies"
	"roomrates/internal/app/queries"
	"roomrates/internal/app/ratesync"
	pricingsvc "roomrates/internal/app/services/pricing"
	domaininventory "roomrates/internal/domain/inventory"
	domainpricing "roomrates/internal/domain/pricing"
	domainrateplan "roomrates/internal/domain/rateplan"
	"roomrates/internal/infra/obs"
	"roomrates/internal/infra/storage/memory"
)

func newTestRouter(t *testing.T) (http.Handler, *memory.Publisher) {
	t.Helper()
	catalog := memory.NewCatalog()
	catalog.Put("h1", memory.HotelData{
		Products: []domaininventory.RoomProduct{
			{ID: "std", Type: domaininventory.TypeRFC},
			{ID: "dlx", Type: domaininventory.TypeRFC},
			{ID: "suite", Type: domaininventory.TypeMRFC, BasePriceMode: domaininventory.BasePriceAverage},
		},
		Assigned: domaininventory.AssignedUnits{"std": {"1"}, "dlx": {"2"}, "suite": {"1", "2"}},
		RatePlans: []domainrateplan.RatePlan{{ID: "bar", Status: domainrateplan.StatusActive}},
		MethodDetails: []domainpricing.MethodDetail{
			{RoomProductID: "std", RatePlanID: "bar", Method: domainpricing.MethodProductBased},
		},
		FeatureRates: []domainpricing.FeatureRate{
			{RoomProductID: "std", FeatureID: "bed", Date: "2025-09-01", Rate: decimal.NewFromInt(80), Quantity: 1},
		},
		DefaultFeatureRates: []domainpricing.FeatureRate{
			{RoomProductID: "std", FeatureID: "bed", Rate: decimal.NewFromInt(60), Quantity: 1},
			{RoomProductID: "dlx", FeatureID: "bed", Rate: decimal.NewFromInt(100), Quantity: 1},
		},
	})
	publisher := &memory.Publisher{}
	cmdBus := commands.NewInMemoryBus()
	queryBus := queries.NewInMemoryBus()
	ratesapp.Register(cmdBus, queryBus, ratesapp.Deps{
		Pricing:  &pricingsvc.Service{Catalog: catalog},
		Pusher:   &ratesync.Pusher{Publisher: publisher, Changes: changedetect.Disabled()},
		Archiver: policies.NoopArchiver{},
	})
	h := Handlers{Rates: RatesHandler{
		Commands: middleware.ChainCommands(cmdBus, middleware.Validation()),
		Queries:  middleware.ChainQueries(queryBus, middleware.QueryValidation()),
	}}
	return NewRouter("test", obs.Middleware{}, obs.HealthHandlers{}, h), publisher
}

func do(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestRecalculateEndpoint(t *testing.T) {
	t.Parallel()

	router, publisher := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/hotels/h1/rates/recalculate", map[string]any{
		"from": "2025-09-01", "to": "2025-09-01",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var summary dto.RunSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	require.Equal(t, "h1", summary.HotelID)
	require.Equal(t, 1, summary.RatesPublished)
	require.Len(t, publisher.Rates, 1)
}

func TestPreviewEndpointRejectsBadRange(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/hotels/h1/rates/preview", map[string]any{
		"from": "2025-09-05", "to": "2025-09-01",
	})
	require.Equal(t, http.StatusBadRequest, w.Code)

	w = do(t, router, http.MethodPost, "/api/v1/hotels/h1/rates/preview", map[string]any{"from": "2025-09-01"})
	require.Equal(t, http.StatusBadRequest, w.Code)
}

func TestFixedEndpointValidatesPrices(t *testing.T) {
	t.Parallel()

	router, publisher := newTestRouter(t)
	w := do(t, router, http.MethodPost, "/api/v1/hotels/h1/rates/fixed", map[string]any{
		"prices": []map[string]any{{"room_product_id": "std", "date": "2025-09-02", "price": "-5"}},
	})
	require.Equal(t, http.StatusBadRequest, w.Code)
	require.Empty(t, publisher.Rates)

	w = do(t, router, http.MethodPost, "/api/v1/hotels/h1/rates/fixed", map[string]any{
		"prices": []map[string]any{{"room_product_id": "std", "date": "2025-09-02", "price": "95"}},
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.Len(t, publisher.Rates, 1)
}

func TestDefaultPriceEndpoint(t *testing.T) {
	t.Parallel()

	router, _ := newTestRouter(t)
	w := do(t, router, http.MethodGet, "/api/v1/hotels/h1/products/suite/default-price", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var price dto.DefaultPrice
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &price))
	require.True(t, price.Price.Equal(decimal.NewFromInt(80)), price.Price.String())

	w = do(t, router, http.MethodGet, "/api/v1/hotels/h1/products/std/default-price", nil)
	require.Equal(t, http.StatusUnprocessableEntity, w.Code)
}
