package domain

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// PriceState distinguishes a parsed amount from the two sentinel outcomes
type PriceState string

const (
	PriceAvailable  PriceState = "available"
	PriceNotFound   PriceState = "NOT_FOUND"
	PriceOutOfStock PriceState = "OUT_OF_STOCK"
)

// Price is a parsed marketplace price. Sentinel states are preserved
// distinctly rather than collapsed into a numeric NaN.
type Price struct {
	Amount float64
	State  PriceState
}

// Valid reports whether the price carries a usable numeric amount
func (p Price) Valid() bool {
	return p.State == PriceAvailable
}

// MarshalJSON encodes an available price as a number and a sentinel as its
// literal string, matching the comparison report wire format.
func (p Price) MarshalJSON() ([]byte, error) {
	if p.State == PriceAvailable {
		return json.Marshal(p.Amount)
	}
	if p.State == "" {
		return json.Marshal(string(PriceNotFound))
	}
	return json.Marshal(string(p.State))
}

// UnmarshalJSON accepts either a number or a sentinel string, so cached
// reports round-trip through JSON unchanged.
func (p *Price) UnmarshalJSON(data []byte) error {
	var num float64
	if err := json.Unmarshal(data, &num); err == nil {
		p.Amount = num
		p.State = PriceAvailable
		return nil
	}

	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("price must be a number or sentinel string: %s", string(data))
	}

	switch PriceState(s) {
	case PriceOutOfStock:
		p.State = PriceOutOfStock
	case PriceNotFound:
		p.State = PriceNotFound
	default:
		// Tolerate numeric strings from older cached rows
		if num, err := strconv.ParseFloat(s, 64); err == nil {
			p.Amount = num
			p.State = PriceAvailable
			return nil
		}
		p.State = PriceNotFound
	}
	return nil
}
