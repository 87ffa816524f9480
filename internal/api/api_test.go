package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/history"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/market"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/pricing"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/session"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testNow = time.Date(2025, 6, 1, 10, 0, 0, 0, time.UTC)

type testEnv struct {
	router  *gin.Engine
	session *session.Session
	catalog *inventory.Catalog
	fetcher *inventory.MockFetcher
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	l := logrus.New()
	l.SetOutput(io.Discard)
	log := logrus.NewEntry(l)

	broken := model.Vehicle{ID: "broken", Make: "Acme", Model: "Zero", Year: 2020, Category: model.CategorySedan}
	fetcher := &inventory.MockFetcher{Vehicles: append(inventory.SampleVehicles(), broken)}
	cat := inventory.NewCatalog(fetcher, log)
	require.NoError(t, cat.Refresh(context.Background()))

	rec, err := recorder.NewSQLiteRecorder(filepath.Join(t.TempDir(), "events.db"), log)
	require.NoError(t, err)
	t.Cleanup(func() { rec.Close() })

	sess := session.New(market.NewSimulator(market.WithSeed(11)), history.NewTracker(0), cat,
		session.WithRecorder(rec),
		session.WithLogger(log),
		session.WithClock(func() time.Time { return testNow }))

	h := NewAPIHandler(sess, cat, log)
	h.now = func() time.Time { return testNow }
	return &testEnv{router: h.SetupRoutes(), session: sess, catalog: cat, fetcher: fetcher}
}

func (e *testEnv) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != nil {
		switch b := body.(type) {
		case string:
			r = bytes.NewBufferString(b)
		default:
			raw, err := json.Marshal(b)
			require.NoError(t, err)
			r = bytes.NewReader(raw)
		}
	}
	req := httptest.NewRequest(method, path, r)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, v any) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), v))
}

func TestHealthCheck(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodGet, "/health", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get(RequestIDHeaderKey))

	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "OK", body["status"])
	assert.Equal(t, ServiceName, body["service"])
}

func TestRequestIDPropagation(t *testing.T) {
	e := newTestEnv(t)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/vehicles/nope", nil)
	req.Header.Set(RequestIDHeaderKey, "req-123")
	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, "req-123", w.Header().Get(RequestIDHeaderKey))
	var body map[string]string
	decode(t, w, &body)
	assert.Equal(t, "req-123", body["request_id"])
	assert.Contains(t, body["error"], "vehicle not found")
}

func TestListVehicles(t *testing.T) {
	e := newTestEnv(t)

	var all struct {
		Vehicles []vehicleQuote `json:"vehicles"`
		Count    int            `json:"count"`
	}
	w := e.do(t, http.MethodGet, "/api/v1/vehicles", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &all)
	assert.Equal(t, 8, all.Count)
	for _, v := range all.Vehicles {
		if v.ID == "broken" {
			assert.Nil(t, v.Quote)
			assert.Contains(t, v.QuoteError, "invalid pricing input")
			continue
		}
		require.NotNil(t, v.Quote, v.ID)
		assert.Equal(t, v.ID, v.Quote.VehicleID)
	}

	var lux struct {
		Vehicles []vehicleQuote `json:"vehicles"`
	}
	w = e.do(t, http.MethodGet, "/api/v1/vehicles?category=luxury&maxPrice=70000", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &lux)
	require.Len(t, lux.Vehicles, 1)
	assert.Equal(t, "BMW", lux.Vehicles[0].Make)
	want, err := pricing.ComputePrice(lux.Vehicles[0].Vehicle, model.StrategyDynamic, model.NeutralFactors())
	require.NoError(t, err)
	assert.Equal(t, want, lux.Vehicles[0].Quote.Price)

	for _, q := range []string{"sortBy=color", "sortOrder=up", "minPrice=abc", "minYear=-1"} {
		w = e.do(t, http.MethodGet, "/api/v1/vehicles?"+q, nil)
		assert.Equal(t, http.StatusBadRequest, w.Code, q)
	}
}

func TestGetQuote(t *testing.T) {
	e := newTestEnv(t)
	camry := inventory.SampleVehicles()[2]

	var q model.Quote
	w := e.do(t, http.MethodGet, "/api/v1/vehicles/3/quote?strategy=fixed", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &q)
	assert.Equal(t, model.StrategyFixed, q.Strategy)
	assert.Equal(t, int64(28000), q.Price)

	w = e.do(t, http.MethodGet, "/api/v1/vehicles/3/quote?strategy=surge", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &q)
	want, err := pricing.ComputePrice(camry, model.StrategyDynamic, model.NeutralFactors())
	require.NoError(t, err)
	assert.Equal(t, model.StrategyDynamic, q.Strategy)
	assert.Equal(t, want, q.Price)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/vehicles/404/quote", nil).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, e.do(t, http.MethodGet, "/api/v1/vehicles/broken/quote", nil).Code)
}

func TestSelectionFlow(t *testing.T) {
	e := newTestEnv(t)

	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/selection", nil).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/selection", `{}`).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodPost, "/api/v1/selection", map[string]string{"vehicleId": "404"}).Code)
	assert.Equal(t, http.StatusUnprocessableEntity, e.do(t, http.MethodPost, "/api/v1/selection", map[string]string{"vehicleId": "broken"}).Code)

	w := e.do(t, http.MethodPost, "/api/v1/selection", map[string]string{"vehicleId": "1"})
	require.Equal(t, http.StatusOK, w.Code)
	var sel struct {
		Vehicle model.Vehicle `json:"vehicle"`
		Quote   model.Quote   `json:"quote"`
	}
	decode(t, w, &sel)
	assert.Equal(t, "Tesla", sel.Vehicle.Make)

	e.session.Tick()

	w = e.do(t, http.MethodGet, "/api/v1/vehicles/1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	var hist struct {
		VehicleID string                    `json:"vehicleId"`
		History   []model.PriceHistoryEntry `json:"history"`
	}
	decode(t, w, &hist)
	require.Len(t, hist.History, 2)
	assert.Equal(t, sel.Quote.Price, hist.History[0].Price)

	w = e.do(t, http.MethodGet, "/api/v1/selection", nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, http.StatusNoContent, e.do(t, http.MethodDelete, "/api/v1/selection", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/selection", nil).Code)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/vehicles/404/history", nil).Code)
}

func TestHistoryAfterVehicleLeavesCatalog(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.session.Select("1")
	require.NoError(t, err)
	e.session.Tick()
	e.fetcher.Vehicles = inventory.SampleVehicles()[1:]
	require.NoError(t, e.catalog.Refresh(context.Background()))

	var hist struct {
		History []model.PriceHistoryEntry `json:"history"`
	}
	w := e.do(t, http.MethodGet, "/api/v1/vehicles/1/history", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &hist)
	assert.Len(t, hist.History, 2)
	assert.Equal(t, http.StatusNotFound, e.do(t, http.MethodGet, "/api/v1/vehicles/1", nil).Code)
}

func TestSanitizeTruncatesByRune(t *testing.T) {
	in := strings.Repeat("é", 150)
	out := sanitize(in)
	assert.True(t, utf8.ValidString(out))
	assert.Equal(t, maxInputRunes, utf8.RuneCountInString(out))
	assert.Equal(t, "ab", sanitize(" a\x00b\n "))
}

func TestStrategyEndpoints(t *testing.T) {
	e := newTestEnv(t)

	var body map[string]string
	w := e.do(t, http.MethodGet, "/api/v1/strategy", nil)
	decode(t, w, &body)
	assert.Equal(t, "dynamic", body["strategy"])

	w = e.do(t, http.MethodPut, "/api/v1/strategy", map[string]string{"strategy": "Competitive"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, model.StrategyCompetitive, e.session.Strategy())

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/api/v1/strategy", map[string]string{"strategy": "surge"}).Code)
	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPut, "/api/v1/strategy", `{}`).Code)
	assert.Equal(t, model.StrategyCompetitive, e.session.Strategy())

	var f model.MarketFactors
	w = e.do(t, http.MethodGet, "/api/v1/factors", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &f)
	assert.Equal(t, model.NeutralFactors(), f)
}

func validEventBody() map[string]any {
	return map[string]any{
		"vehicleId":                "1",
		"calculatedPrice":          51513,
		"basePriceSnapshot":        42000,
		"categorySnapshot":         "Electric",
		"yearSnapshot":             2024,
		"vehicleDemandSnapshot":    85,
		"vehicleInventorySnapshot": 12,
		"realTimeFactorsSnapshot": map[string]float64{
			"demandMultiplier":   1.1,
			"seasonalAdjustment": 0.95,
			"competitorPricing":  1.05,
			"inventoryLevel":     0.9,
		},
		"pricingStrategyUsed": "dynamic",
	}
}

func TestLogPricingEvent(t *testing.T) {
	e := newTestEnv(t)

	w := e.do(t, http.MethodPost, "/api/v1/pricing-events/log", validEventBody())
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var created map[string]string
	decode(t, w, &created)
	assert.NotEmpty(t, created["id"])

	tests := []struct {
		name   string
		mutate func(map[string]any)
		want   string
	}{
		{"missing price", func(b map[string]any) { delete(b, "calculatedPrice") }, "calculatedPrice is required"},
		{"missing factors", func(b map[string]any) { delete(b, "realTimeFactorsSnapshot") }, "realTimeFactorsSnapshot is required"},
		{"missing one factor", func(b map[string]any) {
			b["realTimeFactorsSnapshot"] = map[string]float64{"demandMultiplier": 1, "seasonalAdjustment": 1, "competitorPricing": 1}
		}, "inventoryLevel is required"},
		{"missing strategy", func(b map[string]any) { delete(b, "pricingStrategyUsed") }, "pricingStrategyUsed is required"},
		{"unknown strategy", func(b map[string]any) { b["pricingStrategyUsed"] = "surge" }, "strategy must be one of"},
		{"zero base price", func(b map[string]any) { b["basePriceSnapshot"] = 0 }, "basePriceSnapshot is required"},
		{"negative demand", func(b map[string]any) { b["vehicleDemandSnapshot"] = -1 }, "vehicleDemandSnapshot"},
		{"timestamp before 1970", func(b map[string]any) { b["timestamp"] = "1960-01-01T00:00:00Z" }, "outside the supported range"},
		{"high inventory price", func(b map[string]any) { b["calculatedPrice"] = -34000 }, "calculatedPrice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body := validEventBody()
			tt.mutate(body)
			w := e.do(t, http.MethodPost, "/api/v1/pricing-events/log", body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
			var resp map[string]string
			decode(t, w, &resp)
			assert.Contains(t, resp["error"], tt.want)
		})
	}

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodPost, "/api/v1/pricing-events/log", `{"vehicleId":`).Code)

	w = e.do(t, http.MethodPost, "/api/v1/vehicles/2/pricing-events", nil)
	require.Equal(t, http.StatusCreated, w.Code)
	var evt model.PricingEventSnapshot
	decode(t, w, &evt)
	assert.Equal(t, "2", evt.VehicleID)
	assert.Equal(t, model.CategoryLuxury, evt.CategorySnapshot)

	var list struct {
		Events []model.PricingEventSnapshot `json:"events"`
		Count  int                          `json:"count"`
	}
	w = e.do(t, http.MethodGet, "/api/v1/pricing-events", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	assert.Equal(t, 2, list.Count)

	w = e.do(t, http.MethodGet, "/api/v1/pricing-events?vehicleId=1&limit=10", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &list)
	require.Equal(t, 1, list.Count)
	assert.Equal(t, int64(51513), list.Events[0].CalculatedPrice)
	assert.True(t, testNow.Equal(list.Events[0].Timestamp))

	assert.Equal(t, http.StatusBadRequest, e.do(t, http.MethodGet, "/api/v1/pricing-events?limit=5000", nil).Code)
}

func TestAdminStats(t *testing.T) {
	e := newTestEnv(t)
	_, err := e.session.Select("4")
	require.NoError(t, err)

	var stats struct {
		VehicleCount       int                       `json:"vehicleCount"`
		VehiclesByCategory []inventory.CategoryCount `json:"vehiclesByCategory"`
		SelectedVehicleID  string                    `json:"selectedVehicleId"`
		Strategy           string                    `json:"strategy"`
	}
	w := e.do(t, http.MethodGet, "/api/v1/admin/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	decode(t, w, &stats)
	assert.Equal(t, 8, stats.VehicleCount)
	assert.Equal(t, "4", stats.SelectedVehicleID)
	assert.Equal(t, "dynamic", stats.Strategy)
	require.NotEmpty(t, stats.VehiclesByCategory)
	assert.Equal(t, model.CategoryConvertible, stats.VehiclesByCategory[0].Category)
}

func TestCORSPreflight(t *testing.T) {
	e := newTestEnv(t)
	w := e.do(t, http.MethodOptions, "/api/v1/strategy", nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}
