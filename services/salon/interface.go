package salon

import (
	"context"
	"time"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/auth"
	"salonbook/services/storage"

	"go.uber.org/zap"
)

type SalonStore interface {
	GetByID(ctx context.Context, id string) (*models.Salon, error)
	List(ctx context.Context, f salonRepo.SalonFilter) ([]models.Salon, error)
	Create(ctx context.Context, s *models.Salon) error
	Update(ctx context.Context, s *models.Salon) error
	SetActive(ctx context.Context, id string, active bool) error
	AddImage(ctx context.Context, id string, img models.SalonImage) error
	RemoveImage(ctx context.Context, id, publicID string) error
}

type OwnerStore interface {
	GetByID(ctx context.Context, id string) (*models.SalonOwner, error)
	AddSalon(ctx context.Context, ownerID, salonID string) error
}

// CompletedBookings feeds the earnings report.
type CompletedBookings interface {
	ListForEarnings(ctx context.Context, salonIDs []string, from, to time.Time) ([]models.Booking, error)
}

type SettingsReader interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

type SalonService interface {
	ListPublic(ctx context.Context, city string) ([]models.Salon, error)
	Get(ctx context.Context, sess *auth.Session, id string) (*models.Salon, error)
	Staff(ctx context.Context, id string, serviceIDs []string) ([]models.Staff, error)
	ListMine(ctx context.Context, sess *auth.Session) ([]models.Salon, error)
	ListAll(ctx context.Context, limit int64) ([]models.Salon, error)
	Create(ctx context.Context, sess *auth.Session, req SalonRequest) (*models.Salon, error)
	Update(ctx context.Context, sess *auth.Session, id string, req SalonRequest) (*models.Salon, error)
	SetActive(ctx context.Context, sess *auth.Session, id string, active bool) error
	UploadImage(ctx context.Context, sess *auth.Session, id string, file interface{}) (*models.SalonImage, error)
	DeleteImage(ctx context.Context, sess *auth.Session, id, publicID string) error
	Earnings(ctx context.Context, sess *auth.Session, from, to time.Time) (*EarningsReport, error)
}

type DefaultSalonService struct {
	Salons   SalonStore
	Owners   OwnerStore
	Bookings CompletedBookings
	Settings SettingsReader
	Images   storage.ImageStore
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewSalonService(salons SalonStore, owners OwnerStore, bookings CompletedBookings, settings SettingsReader,
	images storage.ImageStore, logger *zap.Logger) *DefaultSalonService {
	return &DefaultSalonService{
		Salons:   salons,
		Owners:   owners,
		Bookings: bookings,
		Settings: settings,
		Images:   images,
		Logger:   logger,
		Now:      time.Now,
	}
}
