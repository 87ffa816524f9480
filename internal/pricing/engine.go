package pricing

import (
	"errors"
	"fmt"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/shopspring/decimal"
)

// ErrInvalidInput is returned when a vehicle record cannot be priced.
var ErrInvalidInput = errors.New("invalid pricing input")

// CategoryMultipliers is applied as the last multiplication under every strategy.
var CategoryMultipliers = map[model.Category]float64{
	model.CategoryElectric:    1.10,
	model.CategoryLuxury:      1.20,
	model.CategorySUV:         1.05,
	model.CategoryTruck:       1.08,
	model.CategorySedan:       1.00,
	model.CategoryHybrid:      1.06,
	model.CategoryConvertible: 1.15,
}

// CategoryMultiplier returns the multiplier for c, 1.0 for unlisted categories.
func CategoryMultiplier(c model.Category) float64 {
	if m, ok := CategoryMultipliers[c]; ok {
		return m
	}
	return 1.0
}

// Validate checks the vehicle fields the engine depends on.
func Validate(v model.Vehicle) error {
	if !(v.BasePrice > 0) {
		return fmt.Errorf("%w: basePrice must be positive, got %v", ErrInvalidInput, v.BasePrice)
	}
	if v.Demand < 0 || v.Demand > 100 {
		return fmt.Errorf("%w: demand must be within [0,100], got %d", ErrInvalidInput, v.Demand)
	}
	if v.Inventory < 0 {
		return fmt.Errorf("%w: inventory must be >= 0, got %d", ErrInvalidInput, v.Inventory)
	}
	return nil
}

// ComputePrice maps a vehicle, strategy and market factors to a whole-unit price.
func ComputePrice(v model.Vehicle, s model.Strategy, f model.MarketFactors) (int64, error) {
	if err := Validate(v); err != nil {
		return 0, err
	}
	raw := rawPrice(v, s, f)
	if raw < 0 {
		return 0, fmt.Errorf("%w: %s price for inventory %d is negative", ErrInvalidInput, s.Effective(), v.Inventory)
	}
	return roundHalfUp(raw), nil
}

// rawPrice is the unrounded price. Callers validate v first.
func rawPrice(v model.Vehicle, s model.Strategy, f model.MarketFactors) float64 {
	price := v.BasePrice

	switch s {
	case model.StrategyCompetitive:
		price = applyCompetitive(price, f)
	case model.StrategyFixed:
		price = applyFixed(price, f)
	default:
		price = applyDynamic(price, v, f)
	}

	return price * CategoryMultiplier(v.Category)
}

func roundHalfUp(price float64) int64 {
	return decimal.NewFromFloat(price).Round(0).IntPart()
}

// PriceChangeOf reports how far price sits from the vehicle's base price.
func PriceChangeOf(v model.Vehicle, price int64) (model.PriceChange, error) {
	if !(v.BasePrice > 0) {
		return model.PriceChange{}, fmt.Errorf("%w: basePrice must be positive, got %v", ErrInvalidInput, v.BasePrice)
	}
	base := decimal.NewFromFloat(v.BasePrice)
	pct := decimal.NewFromInt(price).Sub(base).Div(base).Mul(decimal.NewFromInt(100))

	direction := model.DirectionUp
	if pct.IsNegative() {
		direction = model.DirectionDown
	}
	percent, _ := pct.Abs().Float64()

	return model.PriceChange{Price: price, Percent: percent, Direction: direction}, nil
}

// Quote computes the price and its change for display.
func Quote(v model.Vehicle, s model.Strategy, f model.MarketFactors, at time.Time) (model.Quote, error) {
	price, err := ComputePrice(v, s, f)
	if err != nil {
		return model.Quote{}, err
	}
	change, err := PriceChangeOf(v, price)
	if err != nil {
		return model.Quote{}, err
	}
	return model.Quote{
		VehicleID: v.ID,
		Strategy:  s.Effective(),
		Price:     price,
		Change:    change,
		Factors:   f,
		At:        at,
	}, nil
}
