package inventory

import (
	"sort"
	"strings"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
)

// Sort keys accepted by Filter.SortBy. An empty key keeps catalog order.
const (
	SortByBasePrice = "basePrice"
	SortByYear      = "year"
	SortByMake      = "make"
)

// Filter narrows and orders a catalog listing. Zero values disable a criterion.
type Filter struct {
	Keyword   string
	Category  model.Category
	MinPrice  float64
	MaxPrice  float64
	MinYear   int
	MaxYear   int
	SortBy    string
	SortOrder string // "asc" or "desc"
}

// Match reports whether v satisfies every set criterion.
func (f Filter) Match(v model.Vehicle) bool {
	if kw := strings.ToLower(strings.TrimSpace(f.Keyword)); kw != "" {
		if !strings.Contains(strings.ToLower(v.Make), kw) && !strings.Contains(strings.ToLower(v.Model), kw) {
			return false
		}
	}
	if f.Category != "" && !strings.EqualFold(string(f.Category), string(v.Category)) {
		return false
	}
	if f.MinPrice > 0 && v.BasePrice < f.MinPrice {
		return false
	}
	if f.MaxPrice > 0 && v.BasePrice > f.MaxPrice {
		return false
	}
	if f.MinYear > 0 && v.Year < f.MinYear {
		return false
	}
	if f.MaxYear > 0 && v.Year > f.MaxYear {
		return false
	}
	return true
}

// Sort orders vehicles in place. Ties keep catalog order.
func (f Filter) Sort(vehicles []model.Vehicle) {
	var less func(a, b model.Vehicle) bool
	switch f.SortBy {
	case SortByBasePrice:
		less = func(a, b model.Vehicle) bool { return a.BasePrice < b.BasePrice }
	case SortByYear:
		less = func(a, b model.Vehicle) bool { return a.Year < b.Year }
	case SortByMake:
		less = func(a, b model.Vehicle) bool { return strings.ToLower(a.Make) < strings.ToLower(b.Make) }
	default:
		if strings.EqualFold(f.SortOrder, "desc") {
			reverse(vehicles)
		}
		return
	}

	desc := strings.EqualFold(f.SortOrder, "desc")
	sort.SliceStable(vehicles, func(i, j int) bool {
		if desc {
			return less(vehicles[j], vehicles[i])
		}
		return less(vehicles[i], vehicles[j])
	})
}

func reverse(vehicles []model.Vehicle) {
	for i, j := 0, len(vehicles)-1; i < j; i, j = i+1, j-1 {
		vehicles[i], vehicles[j] = vehicles[j], vehicles[i]
	}
}
