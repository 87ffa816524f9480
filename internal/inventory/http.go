package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// HTTPFetcher implements Fetcher against the inventory REST backend.
type HTTPFetcher struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

// NewHTTPFetcher creates a new fetcher with optional proxy support.
func NewHTTPFetcher(baseURL, apiKey, proxyURL string) *HTTPFetcher {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &HTTPFetcher{
		BaseURL: strings.TrimRight(baseURL, "/"),
		APIKey:  apiKey,
		Client: &http.Client{
			Timeout:   30 * time.Second,
			Transport: transport,
		},
	}
}

func (f *HTTPFetcher) Name() string { return "http" }

// apiVehicle is the JSON shape served by the backend. Document stores key records by _id.
type apiVehicle struct {
	MongoID   string  `json:"_id"`
	ID        string  `json:"id"`
	Make      string  `json:"make"`
	Model     string  `json:"model"`
	Year      int     `json:"year"`
	BasePrice float64 `json:"basePrice"`
	Category  string  `json:"category"`
	Inventory int     `json:"inventory"`
	Demand    int     `json:"demand"`
	Location  string  `json:"location"`
}

func (f *HTTPFetcher) FetchVehicles(ctx context.Context) ([]model.Vehicle, error) {
	endpoint := f.BaseURL + "/api/vehicles"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	if f.APIKey != "" {
		req.Header.Set("Authorization", "Bearer "+f.APIKey)
	}
	resp, err := f.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch vehicles: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("fetch vehicles: status %d, body: %s", resp.StatusCode, string(body))
	}

	var raw []apiVehicle
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("decode vehicles: %w", err)
	}
	vehicles := make([]model.Vehicle, 0, len(raw))
	for _, rv := range raw {
		vid := rv.ID
		if vid == "" {
			vid = rv.MongoID
		}
		if vid == "" {
			continue
		}
		vehicles = append(vehicles, model.Vehicle{
			ID:        vid,
			Make:      rv.Make,
			Model:     rv.Model,
			Year:      rv.Year,
			BasePrice: rv.BasePrice,
			Category:  model.Category(rv.Category),
			Inventory: rv.Inventory,
			Demand:    rv.Demand,
			Location:  rv.Location,
		})
	}
	return vehicles, nil
}
