package auth

import (
	"context"
	"time"

	"salonbook/models"

	"go.uber.org/zap"
)

type UserAccounts interface {
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	Create(ctx context.Context, u *models.User) error
	SetFCMToken(ctx context.Context, userID, token string) error
	UpdateProfile(ctx context.Context, userID string, profile models.Profile) error
}

type OwnerAccounts interface {
	GetByID(ctx context.Context, id string) (*models.SalonOwner, error)
	GetByEmail(ctx context.Context, email string) (*models.SalonOwner, error)
	Create(ctx context.Context, o *models.SalonOwner) error
	SetFCMToken(ctx context.Context, ownerID, token string) error
}

type SettingsReader interface {
	Get(ctx context.Context) (*models.PlatformSettings, error)
}

// Revocations remembers logged-out tokens until they expire.
type Revocations interface {
	Revoke(ctx context.Context, tokenHash string, expiresAt time.Time) error
	IsRevoked(ctx context.Context, tokenHash string) (bool, error)
}

type AuthService interface {
	Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error)
	Login(ctx context.Context, req LoginRequest) (*AuthResponse, error)
	Authenticate(ctx context.Context, token string) (*Session, error)
	Logout(ctx context.Context, sess *Session) error
	Profile(ctx context.Context, sess *Session) (any, error)
	UpdateFCMToken(ctx context.Context, sess *Session, token string) error
	UpdateProfile(ctx context.Context, sess *Session, profile models.Profile) (*models.User, error)
}

type DefaultAuthService struct {
	Users       UserAccounts
	Owners      OwnerAccounts
	Settings    SettingsReader
	Revocations Revocations
	TokenTTL    time.Duration
	AdminEmail  string
	Currency    string
	Logger      *zap.Logger
	Now         func() time.Time
	HashCost    int
}
