package model

import (
	"fmt"
	"strings"
)

// Strategy selects the pricing algorithm.
type Strategy int

const (
	StrategyDynamic Strategy = iota
	StrategyCompetitive
	StrategyFixed
)

var strategyNames = map[Strategy]string{
	StrategyDynamic:     "dynamic",
	StrategyCompetitive: "competitive",
	StrategyFixed:       "fixed",
}

// Strategies lists every known strategy in declaration order.
func Strategies() []Strategy {
	return []Strategy{StrategyDynamic, StrategyCompetitive, StrategyFixed}
}

func (s Strategy) String() string {
	if name, ok := strategyNames[s]; ok {
		return name
	}
	return fmt.Sprintf("Strategy(%d)", int(s))
}

// Valid reports whether s is one of the declared strategies.
func (s Strategy) Valid() bool {
	_, ok := strategyNames[s]
	return ok
}

// Effective returns the strategy actually applied when pricing with s.
// Anything outside the declared set prices as dynamic.
func (s Strategy) Effective() Strategy {
	if !s.Valid() {
		return StrategyDynamic
	}
	return s
}

// ParseStrategy resolves a strategy name case-insensitively. Unknown names
// resolve to StrategyDynamic with ok=false.
func ParseStrategy(name string) (s Strategy, ok bool) {
	n := strings.ToLower(strings.TrimSpace(name))
	for st, stName := range strategyNames {
		if stName == n {
			return st, true
		}
	}
	return StrategyDynamic, false
}

// MarshalText encodes the strategy as its lower-case name.
func (s Strategy) MarshalText() ([]byte, error) {
	return []byte(s.Effective().String()), nil
}

// UnmarshalText decodes a strategy name, falling back to dynamic for unknown names.
func (s *Strategy) UnmarshalText(text []byte) error {
	*s, _ = ParseStrategy(string(text))
	return nil
}
