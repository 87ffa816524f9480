package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/pricing"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
)

type vehicleQuote struct {
	model.Vehicle
	Quote      *model.Quote `json:"quote,omitempty"`
	QuoteError string       `json:"quoteError,omitempty"`
}

type selectionRequest struct {
	VehicleID string `json:"vehicleId" binding:"required"`
}

type strategyRequest struct {
	Strategy string `json:"strategy" binding:"required"`
}

type factorsRequest struct {
	DemandMultiplier   *float64 `json:"demandMultiplier"`
	SeasonalAdjustment *float64 `json:"seasonalAdjustment"`
	CompetitorPricing  *float64 `json:"competitorPricing"`
	InventoryLevel     *float64 `json:"inventoryLevel"`
}

// pricingEventRequest mirrors PricingEventSnapshot with every field optional,
// so that a missing field can be told apart from a zero value.
type pricingEventRequest struct {
	VehicleID                *string         `json:"vehicleId"`
	Timestamp                *time.Time      `json:"timestamp"`
	CalculatedPrice          *int64          `json:"calculatedPrice"`
	BasePriceSnapshot        *float64        `json:"basePriceSnapshot"`
	CategorySnapshot         *string         `json:"categorySnapshot"`
	YearSnapshot             *int            `json:"yearSnapshot"`
	VehicleDemandSnapshot    *int            `json:"vehicleDemandSnapshot"`
	VehicleInventorySnapshot *int            `json:"vehicleInventorySnapshot"`
	RealTimeFactorsSnapshot  *factorsRequest `json:"realTimeFactorsSnapshot"`
	PricingStrategyUsed      *string         `json:"pricingStrategyUsed"`
}

// snapshot converts the request; the timestamp defaults to now.
func (r pricingEventRequest) snapshot(now time.Time) (model.PricingEventSnapshot, error) {
	f := r.RealTimeFactorsSnapshot
	if f == nil {
		f = &factorsRequest{}
	}
	for _, field := range []struct {
		name    string
		missing bool
	}{
		{"vehicleId", r.VehicleID == nil || *r.VehicleID == ""},
		{"calculatedPrice", r.CalculatedPrice == nil},
		{"basePriceSnapshot", r.BasePriceSnapshot == nil},
		{"categorySnapshot", r.CategorySnapshot == nil || *r.CategorySnapshot == ""},
		{"yearSnapshot", r.YearSnapshot == nil},
		{"vehicleDemandSnapshot", r.VehicleDemandSnapshot == nil},
		{"vehicleInventorySnapshot", r.VehicleInventorySnapshot == nil},
		{"realTimeFactorsSnapshot", r.RealTimeFactorsSnapshot == nil},
		{"realTimeFactorsSnapshot.demandMultiplier", f.DemandMultiplier == nil},
		{"realTimeFactorsSnapshot.seasonalAdjustment", f.SeasonalAdjustment == nil},
		{"realTimeFactorsSnapshot.competitorPricing", f.CompetitorPricing == nil},
		{"realTimeFactorsSnapshot.inventoryLevel", f.InventoryLevel == nil},
		{"pricingStrategyUsed", r.PricingStrategyUsed == nil || *r.PricingStrategyUsed == ""},
	} {
		if field.missing {
			return model.PricingEventSnapshot{}, badRequest("%s is required", field.name)
		}
	}

	strategy, err := parseStrictStrategy(*r.PricingStrategyUsed)
	if err != nil {
		return model.PricingEventSnapshot{}, err
	}
	at := now
	if r.Timestamp != nil {
		at = *r.Timestamp
	}
	return model.PricingEventSnapshot{
		VehicleID:                *r.VehicleID,
		Timestamp:                at,
		CalculatedPrice:          *r.CalculatedPrice,
		BasePriceSnapshot:        *r.BasePriceSnapshot,
		CategorySnapshot:         model.Category(*r.CategorySnapshot),
		YearSnapshot:             *r.YearSnapshot,
		VehicleDemandSnapshot:    *r.VehicleDemandSnapshot,
		VehicleInventorySnapshot: *r.VehicleInventorySnapshot,
		RealTimeFactorsSnapshot: model.MarketFactors{
			DemandMultiplier:   *f.DemandMultiplier,
			SeasonalAdjustment: *f.SeasonalAdjustment,
			CompetitorPricing:  *f.CompetitorPricing,
			InventoryLevel:     *f.InventoryLevel,
		},
		PricingStrategyUsed: strategy,
	}, nil
}

// HealthCheck handles GET /health requests
func (h *APIHandler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "OK",
		"service":   ServiceName,
		"timestamp": h.now().UTC().Format(time.RFC3339),
		"version":   ServiceVersion,
	})
}

// ListVehicles handles GET /api/v1/vehicles
func (h *APIHandler) ListVehicles(c *gin.Context) {
	f, err := parseFilter(c)
	if err != nil {
		h.handleError(c, err)
		return
	}

	vehicles := h.catalog.List(f)
	out := make([]vehicleQuote, 0, len(vehicles))
	for _, v := range vehicles {
		item := vehicleQuote{Vehicle: v}
		if q, err := h.session.QuoteVehicle(v); err != nil {
			item.QuoteError = err.Error()
		} else {
			item.Quote = &q
		}
		out = append(out, item)
	}
	c.JSON(http.StatusOK, gin.H{"vehicles": out, "count": len(out)})
}

// GetVehicle handles GET /api/v1/vehicles/:id
func (h *APIHandler) GetVehicle(c *gin.Context) {
	v, ok := h.catalog.Get(c.Param("id"))
	if !ok {
		h.handleError(c, session.ErrVehicleNotFound)
		return
	}
	c.JSON(http.StatusOK, v)
}

// GetQuote handles GET /api/v1/vehicles/:id/quote. An unrecognized strategy
// prices as dynamic.
func (h *APIHandler) GetQuote(c *gin.Context) {
	strategy := h.session.Strategy()
	if name := sanitize(c.Query("strategy")); name != "" {
		strategy, _ = model.ParseStrategy(name)
	}
	q, err := h.session.QuoteWith(c.Param("id"), strategy)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, q)
}

// GetHistory handles GET /api/v1/vehicles/:id/history. History outlives the
// vehicle's catalog entry.
func (h *APIHandler) GetHistory(c *gin.Context) {
	id := c.Param("id")
	history := h.session.History(id)
	if _, ok := h.catalog.Get(id); !ok && len(history) == 0 {
		h.handleError(c, session.ErrVehicleNotFound)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicleId": id, "history": history})
}

// RecordCurrentEvent handles POST /api/v1/vehicles/:id/pricing-events
func (h *APIHandler) RecordCurrentEvent(c *gin.Context) {
	evt, err := h.session.RecordEvent(c.Param("id"))
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, evt)
}

// GetFactors handles GET /api/v1/factors
func (h *APIHandler) GetFactors(c *gin.Context) {
	c.JSON(http.StatusOK, h.session.Factors())
}

// GetStrategy handles GET /api/v1/strategy
func (h *APIHandler) GetStrategy(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"strategy": h.session.Strategy()})
}

// SetStrategy handles PUT /api/v1/strategy
func (h *APIHandler) SetStrategy(c *gin.Context) {
	var req strategyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest("strategy is required"))
		return
	}
	s, err := parseStrictStrategy(req.Strategy)
	if err != nil {
		h.handleError(c, err)
		return
	}
	h.session.SetStrategy(s)
	c.JSON(http.StatusOK, gin.H{"strategy": s})
}

// GetSelection handles GET /api/v1/selection
func (h *APIHandler) GetSelection(c *gin.Context) {
	v, history, err := h.session.SelectedHistory()
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle": v, "strategy": h.session.Strategy(), "history": history})
}

// Select handles POST /api/v1/selection
func (h *APIHandler) Select(c *gin.Context) {
	var req selectionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest("vehicleId is required"))
		return
	}
	q, err := h.session.Select(sanitize(req.VehicleID))
	if err != nil {
		h.handleError(c, err)
		return
	}
	v, _ := h.session.Selected()
	c.JSON(http.StatusOK, gin.H{"vehicle": v, "quote": q})
}

// Deselect handles DELETE /api/v1/selection
func (h *APIHandler) Deselect(c *gin.Context) {
	h.session.Deselect()
	c.Status(http.StatusNoContent)
}

// LogPricingEvent handles POST /api/v1/pricing-events/log
func (h *APIHandler) LogPricingEvent(c *gin.Context) {
	var req pricingEventRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.handleError(c, badRequest("invalid JSON body: %v", err))
		return
	}
	snap, err := req.snapshot(h.now())
	if err != nil {
		h.handleError(c, err)
		return
	}
	evt, err := h.session.Record(snap)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"msg": "Pricing event logged successfully.", "id": evt.ID})
}

// ListPricingEvents handles GET /api/v1/pricing-events
func (h *APIHandler) ListPricingEvents(c *gin.Context) {
	limit, err := parseLimit(c)
	if err != nil {
		h.handleError(c, err)
		return
	}
	events, err := h.session.PricingEvents(sanitize(c.Query("vehicleId")), limit)
	if err != nil {
		h.handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"events": events, "count": len(events)})
}

// AdminStats handles GET /api/v1/admin/stats
func (h *APIHandler) AdminStats(c *gin.Context) {
	var selected string
	if v, ok := h.session.Selected(); ok {
		selected = v.ID
	}
	c.JSON(http.StatusOK, struct {
		inventory.Stats
		RefreshedAt       time.Time           `json:"refreshedAt"`
		Strategy          model.Strategy      `json:"strategy"`
		SelectedVehicleID string              `json:"selectedVehicleId,omitempty"`
		Factors           model.MarketFactors `json:"factors"`
	}{
		Stats:             h.catalog.Stats(),
		RefreshedAt:       h.catalog.RefreshedAt(),
		Strategy:          h.session.Strategy(),
		SelectedVehicleID: selected,
		Factors:           h.session.Factors(),
	})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, errBadRequest), errors.Is(err, recorder.ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, session.ErrVehicleNotFound), errors.Is(err, session.ErrNoSelection):
		return http.StatusNotFound
	case errors.Is(err, pricing.ErrInvalidInput):
		return http.StatusUnprocessableEntity
	default:
		return http.StatusInternalServerError
	}
}

// handleError logs the error and sends the matching HTTP response
func (h *APIHandler) handleError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	entry := h.log.WithFields(logrus.Fields{
		"request_id":  requestID(c),
		"method":      c.Request.Method,
		"path":        c.Request.URL.Path,
		"status_code": status,
	}).WithError(err)

	if status >= http.StatusInternalServerError {
		entry.Error("API error")
		message = "Internal server error"
	} else {
		entry.Debug("API client error")
	}

	c.JSON(status, gin.H{
		"error":      message,
		"request_id": requestID(c),
	})
}
