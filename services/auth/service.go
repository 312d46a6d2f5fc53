package auth

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"salonbook/models"
	"salonbook/utils"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type RegisterRequest struct {
	Email        string      `json:"email" binding:"required,email"`
	Password     string      `json:"password" binding:"required,min=8"`
	FirstName    string      `json:"firstName" binding:"required"`
	LastName     string      `json:"lastName"`
	Phone        string      `json:"phone"`
	Role         models.Role `json:"role" binding:"required,oneof=user salon_owner"`
	BusinessName string      `json:"businessName"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token        string    `json:"token"`
	ExpiresAt    time.Time `json:"expiresAt"`
	Session      *Session  `json:"session"`
	RedirectPath string    `json:"redirectPath"`
}

func NewAuthService(users UserAccounts, owners OwnerAccounts, settings SettingsReader, revocations Revocations,
	tokenTTL time.Duration, adminEmail, currency string, logger *zap.Logger) *DefaultAuthService {
	return &DefaultAuthService{
		Users:       users,
		Owners:      owners,
		Settings:    settings,
		Revocations: revocations,
		TokenTTL:    tokenTTL,
		AdminEmail:  strings.ToLower(strings.TrimSpace(adminEmail)),
		Currency:    currency,
		Logger:      logger,
		Now:         time.Now,
		HashCost:    bcrypt.DefaultCost,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// Register creates a customer or salon owner account. The configured bootstrap email
// registers as an admin.
func (s *DefaultAuthService) Register(ctx context.Context, req RegisterRequest) (*AuthResponse, error) {
	settings, err := s.Settings.Get(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}
	email := normalizeEmail(req.Email)
	bootstrap := s.AdminEmail != "" && email == s.AdminEmail
	if !settings.Platform.AllowNewRegistrations && !bootstrap {
		return nil, ErrRegistrationClosed
	}
	if taken, err := s.emailTaken(ctx, email); err != nil {
		return nil, err
	} else if taken {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.HashCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}
	now := s.Now()
	profile := models.Profile{FirstName: req.FirstName, LastName: req.LastName, Phone: req.Phone}

	var sess *Session
	if req.Role == models.RoleSalonOwner && !bootstrap {
		owner := &models.SalonOwner{
			ID:             uuid.New().String(),
			Email:          email,
			PasswordHash:   string(hash),
			Role:           models.RoleSalonOwner,
			Profile:        profile,
			BusinessInfo:   models.BusinessInfo{BusinessName: req.BusinessName},
			SalonIDs:       []string{},
			ApprovalStatus: "pending",
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Owners.Create(ctx, owner); err != nil {
			return nil, s.createFailed(err)
		}
		sess = &Session{UserID: owner.ID, Email: email, Role: owner.Role, SalonIDs: owner.SalonIDs}
	} else {
		role := models.RoleUser
		if bootstrap {
			role = models.RoleAdmin
		}
		user := &models.User{
			ID:             uuid.New().String(),
			Email:          email,
			PasswordHash:   string(hash),
			Role:           role,
			Profile:        profile,
			Wallet:         models.Wallet{Balance: 0, Currency: s.Currency},
			MembershipTier: models.TierBronze,
			IsActive:       true,
			CreatedAt:      now,
			UpdatedAt:      now,
		}
		if err := s.Users.Create(ctx, user); err != nil {
			return nil, s.createFailed(err)
		}
		sess = &Session{UserID: user.ID, Email: email, Role: role}
	}

	s.Logger.Info("account registered", zap.String("id", sess.UserID), zap.String("role", sess.Role.String()))
	return s.issue(sess)
}

func (s *DefaultAuthService) createFailed(err error) error {
	if errors.Is(err, models.ErrDuplicate) {
		return ErrEmailTaken
	}
	return fmt.Errorf("failed to create account: %w", err)
}

func (s *DefaultAuthService) emailTaken(ctx context.Context, email string) (bool, error) {
	if _, err := s.Users.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	if _, err := s.Owners.GetByEmail(ctx, email); err == nil {
		return true, nil
	} else if !errors.Is(err, models.ErrNotFound) {
		return false, err
	}
	return false, nil
}

// Login checks customers and admins first, then salon owners.
func (s *DefaultAuthService) Login(ctx context.Context, req LoginRequest) (*AuthResponse, error) {
	email := normalizeEmail(req.Email)

	user, err := s.Users.GetByEmail(ctx, email)
	switch {
	case err == nil:
		if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)) != nil {
			return nil, ErrInvalidCredentials
		}
		if !user.IsActive {
			return nil, ErrAccountDisabled
		}
		return s.issue(&Session{UserID: user.ID, Email: user.Email, Role: user.Role})
	case !errors.Is(err, models.ErrNotFound):
		s.Logger.Error("login lookup failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}

	owner, err := s.Owners.GetByEmail(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		s.Logger.Error("login lookup failed", zap.Error(err))
		return nil, fmt.Errorf("authentication failed, please try again")
	}
	if bcrypt.CompareHashAndPassword([]byte(owner.PasswordHash), []byte(req.Password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return s.issue(&Session{UserID: owner.ID, Email: owner.Email, Role: models.RoleSalonOwner, SalonIDs: owner.SalonIDs})
}

func (s *DefaultAuthService) issue(sess *Session) (*AuthResponse, error) {
	token, exp, err := utils.GenerateToken(sess.UserID, sess.Email, sess.Role.String(), s.TokenTTL)
	if err != nil {
		return nil, fmt.Errorf("failed to sign token: %w", err)
	}
	sess.TokenHash = utils.HashToken(token)
	sess.ExpiresAt = exp
	return &AuthResponse{Token: token, ExpiresAt: exp, Session: sess, RedirectPath: sess.RedirectPath()}, nil
}

// Authenticate turns a bearer token into a Session. Salon ids are read fresh so
// a salon created after sign-in is manageable right away.
func (s *DefaultAuthService) Authenticate(ctx context.Context, token string) (*Session, error) {
	claims, err := utils.ParseClaims(token)
	if err != nil {
		return nil, ErrUnauthorized
	}
	role := models.Role(claims.Role)
	if !role.Valid() {
		return nil, ErrUnauthorized
	}
	hash := utils.HashToken(token)
	revoked, err := s.Revocations.IsRevoked(ctx, hash)
	if err != nil {
		return nil, err
	}
	if revoked {
		return nil, ErrUnauthorized
	}

	sess := &Session{UserID: claims.Subject, Email: claims.Email, Role: role, TokenHash: hash, ExpiresAt: claims.ExpiresAt}
	switch role {
	case models.RoleSalonOwner:
		owner, err := s.Owners.GetByID(ctx, claims.Subject)
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		sess.SalonIDs = owner.SalonIDs
	default:
		user, err := s.Users.GetByID(ctx, claims.Subject)
		if errors.Is(err, models.ErrNotFound) {
			return nil, ErrUnauthorized
		}
		if err != nil {
			return nil, err
		}
		if !user.IsActive {
			return nil, ErrAccountDisabled
		}
		if user.Role != role {
			return nil, ErrUnauthorized
		}
	}
	return sess, nil
}

func (s *DefaultAuthService) Logout(ctx context.Context, sess *Session) error {
	if err := s.Revocations.Revoke(ctx, sess.TokenHash, sess.ExpiresAt); err != nil {
		return err
	}
	s.Logger.Info("signed out", zap.String("id", sess.UserID))
	return nil
}

// Profile returns the stored account behind the session.
func (s *DefaultAuthService) Profile(ctx context.Context, sess *Session) (any, error) {
	if sess.Role == models.RoleSalonOwner {
		return s.Owners.GetByID(ctx, sess.UserID)
	}
	return s.Users.GetByID(ctx, sess.UserID)
}

func (s *DefaultAuthService) UpdateFCMToken(ctx context.Context, sess *Session, token string) error {
	if sess.Role == models.RoleSalonOwner {
		return s.Owners.SetFCMToken(ctx, sess.UserID, token)
	}
	return s.Users.SetFCMToken(ctx, sess.UserID, token)
}

// UpdateProfile replaces a customer's or admin's profile block. Owners keep theirs on the owner record.
func (s *DefaultAuthService) UpdateProfile(ctx context.Context, sess *Session, profile models.Profile) (*models.User, error) {
	if sess.Role == models.RoleSalonOwner {
		return nil, ErrNotCustomer
	}
	profile.FirstName = strings.TrimSpace(profile.FirstName)
	profile.LastName = strings.TrimSpace(profile.LastName)
	if err := s.Users.UpdateProfile(ctx, sess.UserID, profile); err != nil {
		return nil, fmt.Errorf("failed to update profile: %w", err)
	}
	return s.Users.GetByID(ctx, sess.UserID)
}
