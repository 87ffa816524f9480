package inventory

import (
	"context"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// Fetcher loads the full vehicle inventory from a backing store.
type Fetcher interface {
	FetchVehicles(ctx context.Context) ([]model.Vehicle, error)
	Name() string
}

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	Vehicles []model.Vehicle
	Err      error
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchVehicles(_ context.Context) ([]model.Vehicle, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Vehicles != nil {
		return m.Vehicles, nil
	}
	return SampleVehicles(), nil
}

// SampleVehicles is a small demo inventory covering every category.
func SampleVehicles() []model.Vehicle {
	return []model.Vehicle{
		{ID: "1", Make: "Tesla", Model: "Model 3", Year: 2024, BasePrice: 42000, Category: model.CategoryElectric, Inventory: 12, Demand: 85, Location: "San Francisco"},
		{ID: "2", Make: "BMW", Model: "X5", Year: 2024, BasePrice: 65000, Category: model.CategoryLuxury, Inventory: 8, Demand: 72, Location: "Los Angeles"},
		{ID: "3", Make: "Toyota", Model: "Camry", Year: 2024, BasePrice: 28000, Category: model.CategorySedan, Inventory: 25, Demand: 68, Location: "Chicago"},
		{ID: "4", Make: "Ford", Model: "F-150", Year: 2024, BasePrice: 35000, Category: model.CategoryTruck, Inventory: 15, Demand: 78, Location: "Dallas"},
		{ID: "5", Make: "Honda", Model: "CR-V", Year: 2024, BasePrice: 32000, Category: model.CategorySUV, Inventory: 20, Demand: 74, Location: "Seattle"},
		{ID: "6", Make: "Toyota", Model: "Prius", Year: 2024, BasePrice: 30000, Category: model.CategoryHybrid, Inventory: 18, Demand: 66, Location: "Portland"},
		{ID: "7", Make: "Mazda", Model: "MX-5", Year: 2023, BasePrice: 31000, Category: model.CategoryConvertible, Inventory: 5, Demand: 58, Location: "Miami"},
	}
}
