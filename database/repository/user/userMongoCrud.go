package userRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
)

// Create inserts a new user document.
func (r *MongoUserRepo) Create(ctx context.Context, user *models.User) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		return fmt.Errorf("failed to create user: %w", database.Translate(err))
	}
	return nil
}

// UpdateProfile replaces the profile block.
func (r *MongoUserRepo) UpdateProfile(ctx context.Context, id string, profile models.Profile) error {
	return r.set(ctx, id, bson.M{"profile": profile})
}

func (r *MongoUserRepo) SetFCMToken(ctx context.Context, id, token string) error {
	return r.set(ctx, id, bson.M{"fcmToken": token})
}

func (r *MongoUserRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.set(ctx, id, bson.M{"isActive": active})
}

func (r *MongoUserRepo) SetMembershipTier(ctx context.Context, id, tier string) error {
	return r.set(ctx, id, bson.M{"membershipTier": tier})
}

// IncrementHistory adds the non-zero counters of delta and the loyalty points.
func (r *MongoUserRepo) IncrementHistory(ctx context.Context, id string, delta models.BookingHistory, points int) error {
	inc := bson.M{}
	if delta.TotalBookings != 0 {
		inc["bookingHistory.totalBookings"] = delta.TotalBookings
	}
	if delta.CompletedBookings != 0 {
		inc["bookingHistory.completedBookings"] = delta.CompletedBookings
	}
	if delta.CancelledBookings != 0 {
		inc["bookingHistory.cancelledBookings"] = delta.CancelledBookings
	}
	if delta.TotalSpent != 0 {
		inc["bookingHistory.totalSpent"] = delta.TotalSpent
	}
	if points != 0 {
		inc["loyaltyPoints"] = points
	}
	if len(inc) == 0 {
		return nil
	}

	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$inc": inc,
		"$set": bson.M{"updatedAt": time.Now()},
	})
	if err != nil {
		return fmt.Errorf("failed to update booking history for user %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func (r *MongoUserRepo) set(ctx context.Context, id string, fields bson.M) error {
	ctx, cancel := newContext(ctx, 5*time.Second)
	defer cancel()

	fields["updatedAt"] = time.Now()
	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{"$set": fields})
	if err != nil {
		return fmt.Errorf("failed to update user with id %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("user with id %s: %w", id, models.ErrNotFound)
	}
	return nil
}
