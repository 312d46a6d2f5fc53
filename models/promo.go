package models

import "time"

type PromoKind string

const (
	PromoPercentage PromoKind = "percentage"
	PromoFlat       PromoKind = "flat"
)

// PromoCode is a registry entry. Codes are stored upper-cased.
type PromoCode struct {
	Code        string     `json:"code"`
	Kind        PromoKind  `json:"kind"`
	Magnitude   float64    `json:"magnitude"`
	Description string     `json:"description"`
	ValidUntil  *time.Time `json:"validUntil,omitempty"`
}
