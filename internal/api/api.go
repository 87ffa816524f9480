package api

import (
	"net/http"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

// Constants
const (
	ServiceName         = "vehicle-pricing"
	ServiceVersion      = "1.0.0"
	RequestIDContextKey = "request_id"
	RequestIDHeaderKey  = "X-Request-ID"
	MaxListLimit        = 1000
)

// APIHandler exposes the pricing session over HTTP.
type APIHandler struct {
	session *session.Session
	catalog *inventory.Catalog
	log     *logrus.Entry
	now     func() time.Time
}

// NewAPIHandler creates a new API handler.
func NewAPIHandler(sess *session.Session, cat *inventory.Catalog, log *logrus.Entry) *APIHandler {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	return &APIHandler{session: sess, catalog: cat, log: log, now: time.Now}
}

// NewServer wraps the routes in an http.Server so the caller controls shutdown.
func (h *APIHandler) NewServer(addr string) *http.Server {
	return &http.Server{
		Addr:              addr,
		Handler:           h.SetupRoutes(),
		ReadHeaderTimeout: 10 * time.Second,
	}
}

// SetupRoutes configures all API routes.
func (h *APIHandler) SetupRoutes() *gin.Engine {
	router := gin.New()

	router.Use(requestIDMiddleware())
	router.Use(loggerMiddleware(h.log))
	router.Use(recoveryMiddleware(h.log))
	router.Use(corsMiddleware())

	router.GET("/health", h.HealthCheck)

	v1 := router.Group("/api/v1")
	{
		v1.GET("/vehicles", h.ListVehicles)
		v1.GET("/vehicles/:id", h.GetVehicle)
		v1.GET("/vehicles/:id/quote", h.GetQuote)
		v1.GET("/vehicles/:id/history", h.GetHistory)
		v1.POST("/vehicles/:id/pricing-events", h.RecordCurrentEvent)

		v1.GET("/factors", h.GetFactors)
		v1.GET("/strategy", h.GetStrategy)
		v1.PUT("/strategy", h.SetStrategy)

		v1.GET("/selection", h.GetSelection)
		v1.POST("/selection", h.Select)
		v1.DELETE("/selection", h.Deselect)

		v1.POST("/pricing-events/log", h.LogPricingEvent)
		v1.GET("/pricing-events", h.ListPricingEvents)

		v1.GET("/admin/stats", h.AdminStats)
	}

	return router
}
