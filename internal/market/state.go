package market

import (
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// State is the on-disk form of the simulator factors.
type State struct {
	Factors model.MarketFactors `json:"factors"`
	SavedAt time.Time           `json:"saved_at"`
}

// LoadState reads saved factors. Returns neutral factors if the file doesn't exist.
func LoadState(filePath string) (model.MarketFactors, error) {
	data, err := os.ReadFile(filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return model.NeutralFactors(), nil
		}
		return model.MarketFactors{}, err
	}
	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return model.MarketFactors{}, err
	}
	return clampAll(state.Factors), nil
}

// SaveState writes the simulator's current factors to a JSON file.
func SaveState(filePath string, s *Simulator) error {
	state := State{Factors: s.Factors(), SavedAt: time.Now()}
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return err
	}
	if dir := filepath.Dir(filePath); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return err
		}
	}
	return os.WriteFile(filePath, data, 0644)
}
