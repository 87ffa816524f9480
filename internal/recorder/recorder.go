package recorder

import (
	"errors"
	"fmt"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"github.com/oklog/ulid/v2"
)

// ErrValidation is returned for snapshots missing a mandatory field.
var ErrValidation = errors.New("pricing event validation failed")

// DefaultListLimit caps PricingEvents when no limit is given.
const DefaultListLimit = 100

// Recorder persists pricing event snapshots for audit and analytics.
type Recorder interface {
	RecordPricingEvent(evt *model.PricingEventSnapshot) error
	// PricingEvents returns the newest events first. An empty vehicleID lists all vehicles.
	PricingEvents(vehicleID string, limit int) ([]model.PricingEventSnapshot, error)
	Close() error
}

// Validate rejects a snapshot with any mandatory field missing.
func Validate(evt *model.PricingEventSnapshot) error {
	if evt == nil {
		return fmt.Errorf("%w: nil snapshot", ErrValidation)
	}
	switch {
	case evt.VehicleID == "":
		return fieldError("vehicleId")
	case evt.Timestamp.IsZero():
		return fieldError("timestamp")
	case !timestampInRange(evt.Timestamp.UnixMilli()):
		return fmt.Errorf("%w: timestamp %s is outside the supported range", ErrValidation, evt.Timestamp.UTC().Format(time.RFC3339))
	case evt.CalculatedPrice < 0:
		return fieldError("calculatedPrice")
	case !(evt.BasePriceSnapshot > 0):
		return fieldError("basePriceSnapshot")
	case evt.CategorySnapshot == "":
		return fieldError("categorySnapshot")
	case evt.YearSnapshot <= 0:
		return fieldError("yearSnapshot")
	case evt.VehicleDemandSnapshot < 0:
		return fieldError("vehicleDemandSnapshot")
	case evt.VehicleInventorySnapshot < 0:
		return fieldError("vehicleInventorySnapshot")
	case !evt.PricingStrategyUsed.Valid():
		return fieldError("pricingStrategyUsed")
	}

	f := evt.RealTimeFactorsSnapshot
	for _, factor := range []struct {
		name  string
		value float64
	}{
		{"demandMultiplier", f.DemandMultiplier},
		{"seasonalAdjustment", f.SeasonalAdjustment},
		{"competitorPricing", f.CompetitorPricing},
		{"inventoryLevel", f.InventoryLevel},
	} {
		if !(factor.value > 0) {
			return fieldError("realTimeFactorsSnapshot." + factor.name)
		}
	}
	return nil
}

// timestampInRange reports whether ms fits a ULID timestamp.
func timestampInRange(ms int64) bool {
	return ms >= 0 && uint64(ms) <= ulid.MaxTime()
}

func fieldError(field string) error {
	return fmt.Errorf("%w: %s is required", ErrValidation, field)
}
