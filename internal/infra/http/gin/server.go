package ginserver

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	gin "github.com/gin-gonic/gin"

	"roomrates/internal/infra/obs"
)

type RatesHTTP interface {
	Recalculate(c *gin.Context)
	Preview(c *gin.Context)
	ApplyFixed(c *gin.Context)
	DefaultPrice(c *gin.Context)
}

type Handlers struct {
	Rates RatesHTTP
}

func NewServer(addr, env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           NewRouter(env, obsMW, health, h),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

func NewRouter(env string, obsMW obs.Middleware, health obs.HealthHandlers, h Handlers) *gin.Engine {
	mode := configureGinMode(env)
	if obsMW.Logger != nil {
		obsMW.Logger.Info("gin initialized", "mode", mode)
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(obsMW.RequestID())
	router.Use(obsMW.AccessLog())
	router.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposeHeaders: []string{"Content-Length", "Content-Type", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	router.GET("/livez", health.Livez)
	router.GET("/readyz", health.Readyz)

	api := router.Group("/api/v1")
	if h.Rates != nil {
		hotel := api.Group("/hotels/:hotelId")
		hotel.POST("/rates/recalculate", h.Rates.Recalculate)
		hotel.POST("/rates/preview", h.Rates.Preview)
		hotel.POST("/rates/fixed", h.Rates.ApplyFixed)
		hotel.GET("/products/:productId/default-price", h.Rates.DefaultPrice)
	}
	return router
}

func configureGinMode(env string) string {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "debug":
		gin.SetMode(gin.DebugMode)
		return gin.DebugMode
	case "test", "testing":
		gin.SetMode(gin.TestMode)
		return gin.TestMode
	default:
		gin.SetMode(gin.ReleaseMode)
		return gin.ReleaseMode
	}
}

var _ RatesHTTP = RatesHandler{}
