package inventory

import (
	"context"
	"fmt"
	"os"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"

	"gopkg.in/yaml.v3"
)

// FileFetcher reads the inventory from a YAML file:
//
//	vehicles:
//	  - id: "1"
//	    make: Tesla
//	    ...
type FileFetcher struct {
	Path string
}

func NewFileFetcher(path string) *FileFetcher { return &FileFetcher{Path: path} }

func (f *FileFetcher) Name() string { return "file" }

func (f *FileFetcher) FetchVehicles(_ context.Context) ([]model.Vehicle, error) {
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, fmt.Errorf("read inventory file: %w", err)
	}
	var doc struct {
		Vehicles []model.Vehicle `yaml:"vehicles"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse inventory file: %w", err)
	}
	for i, v := range doc.Vehicles {
		if v.ID == "" {
			return nil, fmt.Errorf("parse inventory file: vehicle #%d has no id", i+1)
		}
	}
	return doc.Vehicles, nil
}
