package api

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/inventory"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/model"
	"github.com/pravin12patre/Real-Time-Vehicle-Pricing/internal/recorder"

	"github.com/gin-gonic/gin"
)

var errBadRequest = errors.New("bad request")

const maxInputRunes = 100

func badRequest(format string, args ...any) error {
	return fmt.Errorf("%w: %s", errBadRequest, fmt.Sprintf(format, args...))
}

// sanitize trims whitespace, drops control characters and caps the length.
func sanitize(input string) string {
	input = strings.TrimSpace(input)
	input = strings.Map(func(r rune) rune {
		if r < 32 {
			return -1
		}
		return r
	}, input)
	if r := []rune(input); len(r) > maxInputRunes {
		input = string(r[:maxInputRunes])
	}
	return input
}

func parseFilter(c *gin.Context) (inventory.Filter, error) {
	f := inventory.Filter{
		Keyword:   sanitize(c.Query("keyword")),
		Category:  model.Category(sanitize(c.Query("category"))),
		SortBy:    sanitize(c.Query("sortBy")),
		SortOrder: strings.ToLower(sanitize(c.Query("sortOrder"))),
	}

	switch f.SortBy {
	case "", inventory.SortByBasePrice, inventory.SortByYear, inventory.SortByMake:
	default:
		return f, badRequest("sortBy must be one of basePrice, year, make")
	}
	switch f.SortOrder {
	case "", "asc", "desc":
	default:
		return f, badRequest("sortOrder must be asc or desc")
	}

	var err error
	if f.MinPrice, err = parseFloat(c, "minPrice"); err != nil {
		return f, err
	}
	if f.MaxPrice, err = parseFloat(c, "maxPrice"); err != nil {
		return f, err
	}
	if f.MinYear, err = parseInt(c, "minYear"); err != nil {
		return f, err
	}
	if f.MaxYear, err = parseInt(c, "maxYear"); err != nil {
		return f, err
	}
	return f, nil
}

func parseFloat(c *gin.Context, key string) (float64, error) {
	s := sanitize(c.Query(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 {
		return 0, badRequest("%s must be a non-negative number", key)
	}
	return v, nil
}

func parseInt(c *gin.Context, key string) (int, error) {
	s := sanitize(c.Query(key))
	if s == "" {
		return 0, nil
	}
	v, err := strconv.Atoi(s)
	if err != nil || v < 0 {
		return 0, badRequest("%s must be a non-negative integer", key)
	}
	return v, nil
}

func parseLimit(c *gin.Context) (int, error) {
	limit, err := parseInt(c, "limit")
	if err != nil {
		return 0, err
	}
	if limit == 0 {
		return recorder.DefaultListLimit, nil
	}
	if limit > MaxListLimit {
		return 0, badRequest("limit must be between 1 and %d", MaxListLimit)
	}
	return limit, nil
}

// parseStrictStrategy accepts only the declared strategy names.
func parseStrictStrategy(name string) (model.Strategy, error) {
	s, ok := model.ParseStrategy(name)
	if !ok {
		return s, badRequest("strategy must be one of dynamic, competitive, fixed")
	}
	return s, nil
}
