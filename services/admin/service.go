package admin

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"salonbook/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrInvalidApproval = errors.New("approval status must be approved, pending or rejected")

// SettingsError reports an invalid settings or plan payload.
type SettingsError struct {
	Field  string
	Reason string
}

func (e *SettingsError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// ValidateSettings enforces the ranges of the platform document.
func ValidateSettings(s *models.PlatformSettings) error {
	switch {
	case s.Commission.Rate < 0 || s.Commission.Rate > 1:
		return &SettingsError{Field: "commission.rate", Reason: "must be between 0 and 1"}
	case s.Commission.MinimumPayout < 0:
		return &SettingsError{Field: "commission.minimumPayout", Reason: "must not be negative"}
	case s.Commission.PayoutCycle != "weekly" && s.Commission.PayoutCycle != "monthly":
		return &SettingsError{Field: "commission.payoutCycle", Reason: "must be weekly or monthly"}
	case s.Platform.MaxBookingsPerUser < 0:
		return &SettingsError{Field: "platform.maxBookingsPerUser", Reason: "must not be negative"}
	}
	return nil
}

func (s *DefaultAdminService) Settings(ctx context.Context) (*models.PlatformSettings, error) {
	return s.Cache.Get(ctx)
}

func (s *DefaultAdminService) UpdateSettings(ctx context.Context, settings *models.PlatformSettings) (*models.PlatformSettings, error) {
	if err := ValidateSettings(settings); err != nil {
		return nil, err
	}
	settings.UpdatedAt = s.Now()
	if err := s.Store.Save(ctx, settings); err != nil {
		return nil, err
	}
	s.Cache.Set(settings)
	s.Logger.Info("platform settings updated",
		zap.Float64("commissionRate", settings.Commission.Rate),
		zap.Bool("maintenanceMode", settings.Platform.MaintenanceMode),
		zap.Bool("allowNewRegistrations", settings.Platform.AllowNewRegistrations),
		zap.Int("maxBookingsPerUser", settings.Platform.MaxBookingsPerUser))
	return settings, nil
}

func (s *DefaultAdminService) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	return s.Store.ListPlans(ctx)
}

func validatePlan(p *models.SubscriptionPlan) error {
	p.Name = strings.TrimSpace(p.Name)
	if p.Name == "" {
		return &SettingsError{Field: "name", Reason: "is required"}
	}
	if p.Price < 0 {
		return &SettingsError{Field: "price", Reason: "must not be negative"}
	}
	if p.Duration != "monthly" && p.Duration != "yearly" {
		return &SettingsError{Field: "duration", Reason: "must be monthly or yearly"}
	}
	if p.Features == nil {
		p.Features = []string{}
	}
	return nil
}

func (s *DefaultAdminService) CreatePlan(ctx context.Context, p *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	if err := validatePlan(p); err != nil {
		return nil, err
	}
	now := s.Now()
	p.ID = uuid.New().String()
	p.CreatedAt = now
	p.UpdatedAt = now
	if err := s.Store.CreatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultAdminService) UpdatePlan(ctx context.Context, id string, p *models.SubscriptionPlan) (*models.SubscriptionPlan, error) {
	existing, err := s.Store.GetPlan(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := validatePlan(p); err != nil {
		return nil, err
	}
	p.ID = existing.ID
	p.CreatedAt = existing.CreatedAt
	p.UpdatedAt = s.Now()
	if err := s.Store.UpdatePlan(ctx, p); err != nil {
		return nil, err
	}
	return p, nil
}

func (s *DefaultAdminService) DeletePlan(ctx context.Context, id string) error {
	return s.Store.DeletePlan(ctx, id)
}

func clampLimit(limit int64) int64 {
	if limit <= 0 || limit > 500 {
		return 100
	}
	return limit
}

func (s *DefaultAdminService) ListUsers(ctx context.Context, role models.Role, limit int64) ([]models.User, error) {
	return s.Users.List(ctx, role, clampLimit(limit))
}

func (s *DefaultAdminService) SetUserActive(ctx context.Context, id string, active bool) error {
	if err := s.Users.SetActive(ctx, id, active); err != nil {
		return err
	}
	s.Logger.Info("user activation changed", zap.String("userID", id), zap.Bool("active", active))
	return nil
}

func (s *DefaultAdminService) ListOwners(ctx context.Context, limit int64) ([]models.SalonOwner, error) {
	return s.Owners.List(ctx, clampLimit(limit))
}

func (s *DefaultAdminService) SetOwnerApproval(ctx context.Context, id, status string) error {
	switch status {
	case "approved", "pending", "rejected":
	default:
		return ErrInvalidApproval
	}
	return s.Owners.SetApprovalStatus(ctx, id, status)
}
