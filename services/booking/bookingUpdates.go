package booking

import (
	"context"
	"errors"
	"fmt"

	"salonbook/models"
	"salonbook/services/auth"
	"salonbook/services/pricing"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

type actorKind int

const (
	actorCustomer actorKind = iota + 1
	actorStaff
)

// transitionActors lists who may drive each edge of the status table.
var transitionActors = map[models.BookingStatus]map[models.BookingStatus][]actorKind{
	models.StatusPending: {
		models.StatusConfirmed: {actorStaff},
		models.StatusCancelled: {actorCustomer, actorStaff},
	},
	models.StatusConfirmed: {
		models.StatusCompleted: {actorStaff},
		models.StatusCancelled: {actorCustomer, actorStaff},
	},
}

// actorsFor resolves the roles the session holds over a booking. Admins act as staff.
func actorsFor(sess *auth.Session, b *models.Booking) []actorKind {
	var kinds []actorKind
	if sess == nil {
		return kinds
	}
	if sess.UserID == b.UserID {
		kinds = append(kinds, actorCustomer)
	}
	if sess.ManagesSalon(b.SalonID) {
		kinds = append(kinds, actorStaff)
	}
	return kinds
}

// CheckTransition validates a status change for the given actor without touching storage.
func CheckTransition(sess *auth.Session, b *models.Booking, target models.BookingStatus) error {
	actors := actorsFor(sess, b)
	if len(actors) == 0 {
		return ErrForbidden
	}
	if !b.Status.CanTransitionTo(target) {
		return &TransitionError{From: b.Status, To: target, Reason: "transition not allowed"}
	}
	for _, allowed := range transitionActors[b.Status][target] {
		for _, a := range actors {
			if a == allowed {
				return nil
			}
		}
	}
	return &TransitionError{From: b.Status, To: target, Reason: "not permitted for your role"}
}

// Transition moves a booking to target. expectedVersion 0 uses the version just read;
// a stale version yields ErrVersionConflict.
func (s *DefaultBookingService) Transition(ctx context.Context, sess *auth.Session, id string, target models.BookingStatus, expectedVersion int64) (*models.Booking, error) {
	if !target.IsValid() {
		return nil, &TransitionError{To: target, Reason: "unknown status"}
	}
	b, err := s.Bookings.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if expectedVersion == 0 {
		expectedVersion = b.Version
	}
	if expectedVersion != b.Version {
		return nil, ErrVersionConflict
	}
	if err := CheckTransition(sess, b, target); err != nil {
		return nil, err
	}

	from := b.Status
	now := s.Now()
	b.Status = target
	b.UpdatedAt = now
	switch target {
	case models.StatusCancelled:
		b.CancelledBy = sess.Role.String()
		b.CancelledAt = &now
	case models.StatusCompleted:
		if b.Payment.Method == models.PaymentMethodPayAtSalon {
			b.Payment.Status = models.PaymentStatusPaid
		}
	}

	var refund *models.Refund
	if target == models.StatusCancelled {
		refund = s.refundFor(b)
	}
	if refund != nil {
		err = s.Bookings.CancelWithRefund(ctx, b, expectedVersion, refund)
	} else {
		err = s.Bookings.UpdateStatus(ctx, b, expectedVersion)
	}
	if err != nil {
		if errors.Is(err, models.ErrVersionConflict) {
			return nil, ErrVersionConflict
		}
		return nil, fmt.Errorf("failed to update booking status: %w", err)
	}
	b.Version = expectedVersion + 1

	s.Logger.Info("booking status changed",
		zap.String("bookingID", b.ID),
		zap.String("from", from.String()),
		zap.String("to", target.String()),
		zap.String("actor", sess.UserID))

	switch target {
	case models.StatusCancelled:
		s.onCancelled(ctx, sess, b, refund)
	case models.StatusCompleted:
		s.onCompleted(ctx, b)
	case models.StatusConfirmed:
		s.notify(ctx, b.UserID, "Booking confirmed",
			fmt.Sprintf("%s confirmed your appointment on %s at %s.", b.SalonName, b.Date, b.Time), b)
		s.scheduleReminder(ctx, b)
	}
	return b, nil
}

// RefundFor computes what a cancelled booking gives back. Unpaid requests refund nothing.
func RefundFor(b *models.Booking) (walletPart, gatewayPart float64) {
	if b.Payment.Status != models.PaymentStatusPaid {
		return 0, 0
	}
	return pricing.Round2(b.WalletUsed), pricing.Round2(b.AmountCharged)
}

// refundFor builds the pending refund a cancellation owes, or nil when nothing was paid.
func (s *DefaultBookingService) refundFor(b *models.Booking) *models.Refund {
	walletPart, gatewayPart := RefundFor(b)
	if walletPart+gatewayPart <= 0 {
		return nil
	}
	return &models.Refund{
		ID:            uuid.New().String(),
		BookingID:     b.ID,
		UserID:        b.UserID,
		Amount:        pricing.Round2(walletPart + gatewayPart),
		WalletAmount:  walletPart,
		GatewayAmount: gatewayPart,
		TransactionID: b.Payment.TransactionID,
		Status:        models.RefundPending,
		CreatedAt:     s.Now(),
	}
}

// onCancelled runs after the cancellation and its refund row are stored. A refund that
// cannot be enqueued here stays pending for the sweep.
func (s *DefaultBookingService) onCancelled(ctx context.Context, sess *auth.Session, b *models.Booking, refund *models.Refund) {
	if err := s.Users.IncrementHistory(ctx, b.UserID, models.BookingHistory{CancelledBookings: 1}, 0); err != nil {
		s.Logger.Warn("failed to update booking history", zap.String("userID", b.UserID), zap.Error(err))
	}

	if refund != nil {
		if err := s.Tasks.EnqueueRefund(ctx, refund.ID); err != nil {
			s.Logger.Error("failed to enqueue refund", zap.String("refundID", refund.ID), zap.Error(err))
		}
	}

	if sess.UserID == b.UserID {
		if salon, err := s.Salons.GetByID(ctx, b.SalonID); err == nil {
			s.notify(ctx, salon.OwnerID, "Booking cancelled",
				fmt.Sprintf("The %s %s booking was cancelled by the customer.", b.Date, b.Time), b)
		}
		return
	}
	s.notify(ctx, b.UserID, "Booking cancelled",
		fmt.Sprintf("%s cancelled your appointment on %s at %s.", b.SalonName, b.Date, b.Time), b)
}

// LoyaltyPoints awards one point per 100 spent.
func LoyaltyPoints(amount float64) int {
	if amount <= 0 {
		return 0
	}
	return int(amount / 100)
}

func (s *DefaultBookingService) onCompleted(ctx context.Context, b *models.Booking) {
	points := LoyaltyPoints(b.FinalAmount)
	delta := models.BookingHistory{CompletedBookings: 1, TotalSpent: b.FinalAmount}
	if err := s.Users.IncrementHistory(ctx, b.UserID, delta, points); err != nil {
		s.Logger.Warn("failed to update booking history", zap.String("userID", b.UserID), zap.Error(err))
		return
	}

	user, err := s.Users.GetByID(ctx, b.UserID)
	if err != nil {
		s.Logger.Warn("failed to reload customer for tier", zap.String("userID", b.UserID), zap.Error(err))
		return
	}
	if tier := models.TierForPoints(user.LoyaltyPoints); tier != user.MembershipTier {
		if err := s.Users.SetMembershipTier(ctx, user.ID, tier); err != nil {
			s.Logger.Warn("failed to update membership tier", zap.String("userID", user.ID), zap.Error(err))
		} else {
			s.Logger.Info("membership tier changed", zap.String("userID", user.ID), zap.String("tier", tier))
		}
	}
	s.notify(ctx, b.UserID, "Thanks for visiting",
		fmt.Sprintf("You earned %d loyalty points at %s.", points, b.SalonName), b)
}
