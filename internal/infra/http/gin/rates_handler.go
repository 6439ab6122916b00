package ginserver

import (
	"errors"
	"log/slog"
	"net/http"

	gin "github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"roomrates/internal/app/commands"
	"roomrates/internal/app/dto"
	ratesapp "roomrates/internal/app/handlers/rates"
	"roomrates/internal/app/queries"
	pricingsvc "roomrates/internal/app/services/pricing"
	domaininventory "roomrates/internal/domain/inventory"
	domainrange "roomrates/internal/domain/shared/daterange"
)

type RatesHandler struct {
	Commands commands.Bus
	Queries  queries.Bus
	Logger   *slog.Logger
}

type windowRequest struct {
	From           string   `json:"from" binding:"required"`
	To             string   `json:"to" binding:"required"`
	RoomProductIDs []string `json:"room_product_ids"`
}

type recalculateRequest struct {
	windowRequest
	Force bool `json:"force"`
}

type previewRequest struct {
	windowRequest
	AverageMode      string `json:"average_mode"`
	RoundingMode     string `json:"rounding_mode"`
	IncludeUnchanged bool   `json:"include_unchanged"`
}

type fixedPriceRequest struct {
	RatePlanIDs []string `json:"rate_plan_ids"`
	Prices      []struct {
		RoomProductID string          `json:"room_product_id" binding:"required"`
		Date          string          `json:"date" binding:"required"`
		Price         decimal.Decimal `json:"price"`
	} `json:"prices" binding:"required"`
}

func (h RatesHandler) Recalculate(c *gin.Context) {
	var req recalculateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ratesapp.RecalculateRatesCommand{
		HotelID:        c.Param("hotelId"),
		From:           req.From,
		To:             req.To,
		RoomProductIDs: req.RoomProductIDs,
		Force:          req.Force,
	}
	summary, err := commands.Dispatch[ratesapp.RecalculateRatesCommand, dto.RunSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.fail(c, "recalculate rates", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h RatesHandler) Preview(c *gin.Context) {
	var req previewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	query := ratesapp.PreviewRatesQuery{
		HotelID:          c.Param("hotelId"),
		From:             req.From,
		To:               req.To,
		RoomProductIDs:   req.RoomProductIDs,
		AverageMode:      req.AverageMode,
		RoundingMode:     req.RoundingMode,
		IncludeUnchanged: req.IncludeUnchanged,
	}
	preview, err := queries.Ask[ratesapp.PreviewRatesQuery, dto.Preview](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.fail(c, "preview rates", err)
		return
	}
	c.JSON(http.StatusOK, preview)
}

func (h RatesHandler) ApplyFixed(c *gin.Context) {
	var req fixedPriceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	cmd := ratesapp.ApplyFixedPricesCommand{HotelID: c.Param("hotelId"), RatePlanIDs: req.RatePlanIDs}
	for _, p := range req.Prices {
		cmd.Prices = append(cmd.Prices, ratesapp.FixedPrice{RoomProductID: p.RoomProductID, Date: p.Date, Price: p.Price})
	}
	summary, err := commands.Dispatch[ratesapp.ApplyFixedPricesCommand, dto.RunSummary](c.Request.Context(), h.Commands, cmd)
	if err != nil {
		h.fail(c, "apply fixed prices", err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h RatesHandler) DefaultPrice(c *gin.Context) {
	query := ratesapp.DefaultAveragePriceQuery{HotelID: c.Param("hotelId"), RoomProductID: c.Param("productId")}
	price, err := queries.Ask[ratesapp.DefaultAveragePriceQuery, dto.DefaultPrice](c.Request.Context(), h.Queries, query)
	if err != nil {
		h.fail(c, "default average price", err)
		return
	}
	c.JSON(http.StatusOK, price)
}

func (h RatesHandler) fail(c *gin.Context, op string, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError && h.Logger != nil {
		h.Logger.Error(op+" failed", "hotel_id", c.Param("hotelId"), "error", err)
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, ratesapp.ErrHotelRequired),
		errors.Is(err, ratesapp.ErrPricesRequired),
		errors.Is(err, ratesapp.ErrNegativePrice),
		errors.Is(err, domainrange.ErrInvalidDay),
		errors.Is(err, domainrange.ErrInvalidRange),
		errors.Is(err, domainrange.ErrRangeTooLong):
		return http.StatusBadRequest
	case errors.Is(err, domaininventory.ErrProductNotFound):
		return http.StatusNotFound
	case errors.Is(err, pricingsvc.ErrNotComposite), errors.Is(err, pricingsvc.ErrNoPrices):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}
