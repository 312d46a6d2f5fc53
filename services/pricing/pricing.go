package pricing

import (
	"math"

	"salonbook/models"
)

// Summary is the derived view of a service selection.
type Summary struct {
	TotalPrice    float64 `json:"totalPrice"`
	OriginalPrice float64 `json:"originalPrice"`
	Savings       float64 `json:"savings"`
	TotalDuration int     `json:"totalDuration"`
}

// Calculate totals a selection. An empty selection yields the zero Summary.
func Calculate(items []models.ServiceItem) Summary {
	var s Summary
	for _, it := range items {
		s.TotalPrice += it.EffectivePrice()
		s.OriginalPrice += it.Price
		s.TotalDuration += it.Duration
	}
	s.TotalPrice = Round2(s.TotalPrice)
	s.OriginalPrice = Round2(s.OriginalPrice)
	s.Savings = math.Max(0, Round2(s.OriginalPrice-s.TotalPrice))
	return s
}

// Round2 rounds a money amount to two decimals.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}

// ToMinorUnits converts a major-unit amount into the gateway's integer minor units.
func ToMinorUnits(x float64) int64 {
	return int64(math.Round(x * 100))
}

// FromMinorUnits is the inverse of ToMinorUnits.
func FromMinorUnits(m int64) float64 {
	return float64(m) / 100
}
