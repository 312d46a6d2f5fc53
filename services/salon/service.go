package salon

import (
	"context"
	"fmt"

	salonRepo "salonbook/database/repository/salon"
	"salonbook/models"
	"salonbook/services/auth"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ListPublic returns active salons, optionally in one city.
func (s *DefaultSalonService) ListPublic(ctx context.Context, city string) ([]models.Salon, error) {
	return s.Salons.List(ctx, salonRepo.SalonFilter{City: city, ActiveOnly: true})
}

// Get hides inactive salons from everyone but their managers.
func (s *DefaultSalonService) Get(ctx context.Context, sess *auth.Session, id string) (*models.Salon, error) {
	salon, err := s.Salons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !salon.IsActive && !sess.ManagesSalon(salon.ID) {
		return nil, models.ErrNotFound
	}
	return salon, nil
}

// Staff lists the salon's staff, narrowed to those compatible with serviceIDs when given.
func (s *DefaultSalonService) Staff(ctx context.Context, id string, serviceIDs []string) ([]models.Staff, error) {
	salon, err := s.Get(ctx, nil, id)
	if err != nil {
		return nil, err
	}
	if len(serviceIDs) == 0 {
		return salon.Staff, nil
	}
	return CompatibleStaff(salon, serviceIDs), nil
}

func (s *DefaultSalonService) ListMine(ctx context.Context, sess *auth.Session) ([]models.Salon, error) {
	return s.Salons.List(ctx, salonRepo.SalonFilter{OwnerID: sess.UserID})
}

func (s *DefaultSalonService) ListAll(ctx context.Context, limit int64) ([]models.Salon, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Salons.List(ctx, salonRepo.SalonFilter{Limit: limit})
}

func (s *DefaultSalonService) Create(ctx context.Context, sess *auth.Session, req SalonRequest) (*models.Salon, error) {
	if sess.Role != models.RoleSalonOwner {
		return nil, ErrForbidden
	}
	owner, err := s.Owners.GetByID(ctx, sess.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to load salon owner: %w", err)
	}
	if owner.ApprovalStatus == "rejected" {
		return nil, ErrOwnerNotApproved
	}

	now := s.Now()
	salon := &models.Salon{
		ID:        uuid.New().String(),
		OwnerID:   owner.ID,
		Images:    []models.SalonImage{},
		IsActive:  true,
		CreatedAt: now,
		UpdatedAt: now,
	}
	req.apply(salon)
	if err := Validate(salon); err != nil {
		return nil, err
	}

	if err := s.Salons.Create(ctx, salon); err != nil {
		return nil, err
	}
	if err := s.Owners.AddSalon(ctx, owner.ID, salon.ID); err != nil {
		return nil, fmt.Errorf("salon created but not linked to owner: %w", err)
	}
	sess.SalonIDs = append(sess.SalonIDs, salon.ID)

	s.Logger.Info("salon created", zap.String("salonID", salon.ID), zap.String("ownerID", owner.ID))
	return salon, nil
}

func (s *DefaultSalonService) managed(ctx context.Context, sess *auth.Session, id string) (*models.Salon, error) {
	salon, err := s.Salons.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !sess.ManagesSalon(salon.ID) {
		return nil, ErrForbidden
	}
	return salon, nil
}

// Update replaces the catalogue, staff and schedule. Prices already frozen in bookings are unaffected.
func (s *DefaultSalonService) Update(ctx context.Context, sess *auth.Session, id string, req SalonRequest) (*models.Salon, error) {
	salon, err := s.managed(ctx, sess, id)
	if err != nil {
		return nil, err
	}
	req.apply(salon)
	if err := Validate(salon); err != nil {
		return nil, err
	}
	salon.UpdatedAt = s.Now()
	if err := s.Salons.Update(ctx, salon); err != nil {
		return nil, err
	}
	s.Logger.Info("salon updated", zap.String("salonID", salon.ID), zap.Int("services", len(salon.Services)))
	return salon, nil
}

func (s *DefaultSalonService) SetActive(ctx context.Context, sess *auth.Session, id string, active bool) error {
	if _, err := s.managed(ctx, sess, id); err != nil {
		return err
	}
	return s.Salons.SetActive(ctx, id, active)
}

func (s *DefaultSalonService) UploadImage(ctx context.Context, sess *auth.Session, id string, file interface{}) (*models.SalonImage, error) {
	if s.Images == nil {
		return nil, ErrImagesDisabled
	}
	if _, err := s.managed(ctx, sess, id); err != nil {
		return nil, err
	}
	img, err := s.Images.Upload(ctx, file, "salons/"+id)
	if err != nil {
		return nil, err
	}
	if err := s.Salons.AddImage(ctx, id, img); err != nil {
		if delErr := s.Images.Delete(ctx, img.PublicID); delErr != nil {
			s.Logger.Warn("orphaned gallery image", zap.String("publicID", img.PublicID), zap.Error(delErr))
		}
		return nil, err
	}
	return &img, nil
}

func (s *DefaultSalonService) DeleteImage(ctx context.Context, sess *auth.Session, id, publicID string) error {
	if s.Images == nil {
		return ErrImagesDisabled
	}
	salon, err := s.managed(ctx, sess, id)
	if err != nil {
		return err
	}
	found := false
	for _, img := range salon.Images {
		if img.PublicID == publicID {
			found = true
			break
		}
	}
	if !found {
		return ErrImageNotFound
	}
	if err := s.Salons.RemoveImage(ctx, id, publicID); err != nil {
		return err
	}
	if err := s.Images.Delete(ctx, publicID); err != nil {
		s.Logger.Warn("gallery image removed from salon but not from storage", zap.String("publicID", publicID), zap.Error(err))
	}
	return nil
}
