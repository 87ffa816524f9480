package model

// MarketFactors holds the four simulated market multipliers.
type MarketFactors struct {
	DemandMultiplier   float64 `json:"demandMultiplier"`
	SeasonalAdjustment float64 `json:"seasonalAdjustment"`
	CompetitorPricing  float64 `json:"competitorPricing"`
	InventoryLevel     float64 `json:"inventoryLevel"`
}

// NeutralFactors returns the starting state where every factor is 1.0.
func NeutralFactors() MarketFactors {
	return MarketFactors{
		DemandMultiplier:   1.0,
		SeasonalAdjustment: 1.0,
		CompetitorPricing:  1.0,
		InventoryLevel:     1.0,
	}
}
