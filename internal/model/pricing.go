package model

import "time"

// Price directions reported by PriceChange.
const (
	DirectionUp   = "up"
	DirectionDown = "down"
)

// PriceHistoryEntry is one observed price of a vehicle.
type PriceHistoryEntry struct {
	Price      int64     `json:"price"`
	ObservedAt time.Time `json:"observedAt"`
}

// PriceChange describes a computed price relative to the base price.
type PriceChange struct {
	Price     int64   `json:"price"`
	Percent   float64 `json:"percent"` // absolute value
	Direction string  `json:"direction"`
}

// Quote is the displayed price of a vehicle under a strategy at a point in time.
type Quote struct {
	VehicleID string        `json:"vehicleId"`
	Strategy  Strategy      `json:"strategy"`
	Price     int64         `json:"price"`
	Change    PriceChange   `json:"change"`
	Factors   MarketFactors `json:"factors"`
	At        time.Time     `json:"at"`
}

// PricingEventSnapshot is the immutable audit record of one price computation.
type PricingEventSnapshot struct {
	ID                       string        `json:"id"`
	VehicleID                string        `json:"vehicleId"`
	Timestamp                time.Time     `json:"timestamp"`
	CalculatedPrice          int64         `json:"calculatedPrice"`
	BasePriceSnapshot        float64       `json:"basePriceSnapshot"`
	CategorySnapshot         Category      `json:"categorySnapshot"`
	YearSnapshot             int           `json:"yearSnapshot"`
	VehicleDemandSnapshot    int           `json:"vehicleDemandSnapshot"`
	VehicleInventorySnapshot int           `json:"vehicleInventorySnapshot"`
	RealTimeFactorsSnapshot  MarketFactors `json:"realTimeFactorsSnapshot"`
	PricingStrategyUsed      Strategy      `json:"pricingStrategyUsed"`
}

// NewPricingEventSnapshot captures the inputs and output of a calculation.
func NewPricingEventSnapshot(v Vehicle, s Strategy, f MarketFactors, price int64, at time.Time) PricingEventSnapshot {
	return PricingEventSnapshot{
		VehicleID:                v.ID,
		Timestamp:                at,
		CalculatedPrice:          price,
		BasePriceSnapshot:        v.BasePrice,
		CategorySnapshot:         v.Category,
		YearSnapshot:             v.Year,
		VehicleDemandSnapshot:    v.Demand,
		VehicleInventorySnapshot: v.Inventory,
		RealTimeFactorsSnapshot:  f,
		PricingStrategyUsed:      s.Effective(),
	}
}
