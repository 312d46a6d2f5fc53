package salon

import (
	"context"
	"fmt"
	"sort"
	"time"

	"salonbook/models"
	"salonbook/services/auth"
	"salonbook/services/pricing"
)

type MonthlyEarnings struct {
	Month      string  `json:"month"` // YYYY-MM
	Bookings   int     `json:"bookings"`
	Gross      float64 `json:"gross"`
	Commission float64 `json:"commission"`
	Net        float64 `json:"net"`
}

type EarningsReport struct {
	From           time.Time         `json:"from"`
	To             time.Time         `json:"to"`
	Bookings       int               `json:"bookings"`
	Gross          float64           `json:"gross"`
	CommissionRate float64           `json:"commissionRate"`
	Commission     float64           `json:"commission"`
	Net            float64           `json:"net"`
	PayoutDue      bool              `json:"payoutDue"`
	MinimumPayout  float64           `json:"minimumPayout"`
	Months         []MonthlyEarnings `json:"months"`
}

// Earnings reports completed bookings of the owner's salons within [from, to).
// The owner's commission override wins over the platform rate.
func (s *DefaultSalonService) Earnings(ctx context.Context, sess *auth.Session, from, to time.Time) (*EarningsReport, error) {
	if sess.Role != models.RoleSalonOwner {
		return nil, ErrForbidden
	}
	owner, err := s.Owners.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load salon owner: %w", err)
	}
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}

	report := &EarningsReport{
		From:           from,
		To:             to,
		CommissionRate: settings.Commission.Rate,
		MinimumPayout:  settings.Commission.MinimumPayout,
		Months:         []MonthlyEarnings{},
	}
	if owner.Earnings.CommissionRate > 0 {
		report.CommissionRate = owner.Earnings.CommissionRate
	}
	if len(owner.SalonIDs) == 0 {
		return report, nil
	}

	bookings, err := s.Bookings.ListForEarnings(ctx, owner.SalonIDs, from, to)
	if err != nil {
		return nil, err
	}
	return Summarize(report, bookings), nil
}

// Summarize folds bookings into the report totals and per-month rows.
func Summarize(report *EarningsReport, bookings []models.Booking) *EarningsReport {
	months := map[string]*MonthlyEarnings{}
	for _, b := range bookings {
		key := b.Date
		if len(key) >= 7 {
			key = key[:7]
		}
		m, ok := months[key]
		if !ok {
			m = &MonthlyEarnings{Month: key}
			months[key] = m
		}
		m.Bookings++
		m.Gross += b.FinalAmount
		report.Bookings++
		report.Gross += b.FinalAmount
	}

	for _, m := range months {
		m.Gross = pricing.Round2(m.Gross)
		m.Commission = pricing.Round2(m.Gross * report.CommissionRate)
		m.Net = pricing.Round2(m.Gross - m.Commission)
		report.Months = append(report.Months, *m)
	}
	sort.Slice(report.Months, func(i, j int) bool { return report.Months[i].Month < report.Months[j].Month })

	report.Gross = pricing.Round2(report.Gross)
	report.Commission = pricing.Round2(report.Gross * report.CommissionRate)
	report.Net = pricing.Round2(report.Gross - report.Commission)
	report.PayoutDue = report.Net > 0 && report.Net >= report.MinimumPayout
	return report
}
