package pricing

import (
	"math"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// applyDynamic adjusts for the vehicle's own demand and stock, then every market factor.
// Demand alone moves the price within base x [0.8, 1.2]; inventory is floored at 0.1 of
// a 50-unit reference so scarce stock raises the price by at most 27%.
func applyDynamic(price float64, v model.Vehicle, f model.MarketFactors) float64 {
	demandFactor := float64(v.Demand) / 100
	price *= 0.8 + 0.4*demandFactor

	inventoryFactor := math.Max(0.1, float64(v.Inventory)/50)
	price *= 1.3 - 0.3*inventoryFactor

	price *= f.DemandMultiplier
	price *= f.SeasonalAdjustment
	price *= f.CompetitorPricing
	price *= f.InventoryLevel
	return price
}

// applyCompetitive follows competitor pricing; demand and inventory are averaged with 1.0.
func applyCompetitive(price float64, f model.MarketFactors) float64 {
	price *= f.CompetitorPricing
	price *= (f.DemandMultiplier + 1) / 2
	price *= (f.InventoryLevel + 1) / 2
	return price
}

// applyFixed only tracks the season.
func applyFixed(price float64, f model.MarketFactors) float64 {
	return price * f.SeasonalAdjustment
}
