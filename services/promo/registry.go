package promo

import (
	"sort"
	"strings"

	"salonbook/models"
)

// Registry is a static, case-insensitive catalogue of promo codes.
type Registry struct {
	codes map[string]models.PromoCode
}

// NewRegistry builds a registry from the given codes, upper-casing each key.
func NewRegistry(codes ...models.PromoCode) *Registry {
	r := &Registry{codes: make(map[string]models.PromoCode, len(codes))}
	for _, c := range codes {
		c.Code = strings.ToUpper(strings.TrimSpace(c.Code))
		r.codes[c.Code] = c
	}
	return r
}

// DefaultRegistry holds the codes offered at checkout.
func DefaultRegistry() *Registry {
	return NewRegistry(
		models.PromoCode{Code: "FIRST20", Kind: models.PromoPercentage, Magnitude: 20, Description: "20% off on first booking"},
		models.PromoCode{Code: "SAVE100", Kind: models.PromoFlat, Magnitude: 100, Description: "₹100 off on bookings above ₹500"},
		models.PromoCode{Code: "WEEKEND", Kind: models.PromoPercentage, Magnitude: 15, Description: "15% off on weekend bookings"},
	)
}

// Lookup is an exact match after upper-casing. No partial or fuzzy matches.
func (r *Registry) Lookup(code string) (models.PromoCode, bool) {
	c, ok := r.codes[strings.ToUpper(strings.TrimSpace(code))]
	return c, ok
}

// List returns the codes sorted by name.
func (r *Registry) List() []models.PromoCode {
	out := make([]models.PromoCode, 0, len(r.codes))
	for _, c := range r.codes {
		out = append(out, c)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Code < out[j].Code })
	return out
}
