package admin

import (
	"context"
	"time"

	"salonbook/models"

	"go.uber.org/zap"
)

type SettingsStore interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
	Save(ctx context.Context, s *models.PlatformSettings) error
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	GetPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error
	UpdatePlan(ctx context.Context, p *models.SubscriptionPlan) error
	DeletePlan(ctx context.Context, id string) error
}

type UserDirectory interface {
	List(ctx context.Context, role models.Role, limit int64) ([]models.User, error)
	SetActive(ctx context.Context, id string, active bool) error
}

type OwnerDirectory interface {
	List(ctx context.Context, limit int64) ([]models.SalonOwner, error)
	SetApprovalStatus(ctx context.Context, ownerID, status string) error
}

type AdminService interface {
	Settings(ctx context.Context) (*models.PlatformSettings, error)
	UpdateSettings(ctx context.Context, s *models.PlatformSettings) (*models.PlatformSettings, error)
	ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error)
	CreatePlan(ctx context.Context, p *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	UpdatePlan(ctx context.Context, id string, p *models.SubscriptionPlan) (*models.SubscriptionPlan, error)
	DeletePlan(ctx context.Context, id string) error
	ListUsers(ctx context.Context, role models.Role, limit int64) ([]models.User, error)
	SetUserActive(ctx context.Context, id string, active bool) error
	ListOwners(ctx context.Context, limit int64) ([]models.SalonOwner, error)
	SetOwnerApproval(ctx context.Context, id, status string) error
}

type DefaultAdminService struct {
	Store  SettingsStore
	Cache  *SettingsCache
	Users  UserDirectory
	Owners OwnerDirectory
	Logger *zap.Logger
	Now    func() time.Time
}

func NewAdminService(store SettingsStore, cache *SettingsCache, users UserDirectory, owners OwnerDirectory, logger *zap.Logger) *DefaultAdminService {
	return &DefaultAdminService{Store: store, Cache: cache, Users: users, Owners: owners, Logger: logger, Now: time.Now}
}
