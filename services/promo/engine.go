package promo

import (
	"errors"
	"math"
	"time"

	"salonbook/models"
	"salonbook/services/pricing"
)

var (
	ErrInvalidCode = errors.New("invalid promo code")
	ErrExpiredCode = errors.New("promo code has expired")
)

// Discount computes the amount a code takes off the subtotal, clamped to [0, subtotal].
func Discount(code models.PromoCode, subtotal float64) float64 {
	if subtotal <= 0 {
		return 0
	}
	var d float64
	switch code.Kind {
	case models.PromoPercentage:
		d = subtotal * code.Magnitude / 100
	default:
		d = code.Magnitude
	}
	d = pricing.Round2(math.Max(0, d))
	return math.Min(subtotal, d)
}

// Engine holds at most one applied code for a single checkout.
type Engine struct {
	registry      *Registry
	enforceExpiry bool
	now           func() time.Time

	applied  *models.PromoCode
	discount float64
}

type Option func(*Engine)

// WithExpiryEnforcement rejects codes whose ValidUntil is in the past.
func WithExpiryEnforcement(enabled bool) Option {
	return func(e *Engine) { e.enforceExpiry = enabled }
}

// WithClock overrides the time source used for expiry checks.
func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(registry *Registry, opts ...Option) *Engine {
	e := &Engine{registry: registry, now: time.Now}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Apply validates the code and replaces any code applied before. On error the
// engine state is left unchanged.
func (e *Engine) Apply(code string, subtotal float64) (float64, error) {
	c, ok := e.registry.Lookup(code)
	if !ok {
		return 0, ErrInvalidCode
	}
	if e.enforceExpiry && c.ValidUntil != nil && e.now().After(*c.ValidUntil) {
		return 0, ErrExpiredCode
	}
	e.applied = &c
	e.discount = Discount(c, subtotal)
	return e.discount, nil
}

// Remove clears the applied code.
func (e *Engine) Remove() {
	e.applied = nil
	e.discount = 0
}

func (e *Engine) Discount() float64 {
	return e.discount
}

// Applied returns the active code and its discount.
func (e *Engine) Applied() (models.AppliedPromo, bool) {
	if e.applied == nil {
		return models.AppliedPromo{}, false
	}
	return models.AppliedPromo{Code: e.applied.Code, Discount: e.discount}, true
}

func (e *Engine) Registry() *Registry {
	return e.registry
}
