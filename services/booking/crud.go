package booking

import (
	"context"
	"fmt"

	"salonbook/models"
	"salonbook/services/auth"

	"go.uber.org/zap"
)

// Get returns a booking visible to the session: its customer, the salon's owner, or an admin.
func (s *DefaultBookingService) Get(ctx context.Context, sess *auth.Session, id string) (*models.Booking, error) {
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(actorsFor(sess, b)) == 0 {
		return nil, ErrForbidden
	}
	return b, nil
}

func (s *DefaultBookingService) ListMine(ctx context.Context, userID string) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

// ListForOwner lists bookings across the owner's salons, optionally filtered by status.
func (s *DefaultBookingService) ListForOwner(ctx context.Context, sess *auth.Session, status models.BookingStatus) ([]models.Booking, error) {
	if len(sess.SalonIDs) == 0 {
		return []models.Booking{}, nil
	}
	return s.Bookings.ListBySalons(ctx, sess.SalonIDs, status)
}

func (s *DefaultBookingService) ListAll(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error) {
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	return s.Bookings.List(ctx, status, limit)
}

// Delete removes a booking record. Only admins reach this.
func (s *DefaultBookingService) Delete(ctx context.Context, id string) error {
	if err := s.Bookings.Delete(ctx, id); err != nil {
		return fmt.Errorf("failed to delete booking %s: %w", id, err)
	}
	s.Logger.Info("booking deleted", zap.String("bookingID", id))
	return nil
}
