package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

type MongoBookingRepo struct {
	coll       *mongo.Collection
	refundColl *mongo.Collection
}

func NewMongoBookingRepo(db *mongo.Database, logger *zap.Logger) *MongoBookingRepo {
	repo := &MongoBookingRepo{coll: db.Collection("bookings"), refundColl: db.Collection("refunds")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create booking indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoBookingRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "salonId", Value: 1}, {Key: "date", Value: 1}, {Key: "status", Value: 1}}},
		{
			Keys:    bson.D{{Key: "intentId", Value: 1}},
			Options: options.Index().SetUnique(true).SetPartialFilterExpression(bson.M{"intentId": bson.M{"$type": "string"}}),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var b models.Booking
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, database.Translate(err))
	}
	return &b, nil
}

// UpdateStatus is a compare-and-set on version.
func (r *MongoBookingRepo) UpdateStatus(ctx context.Context, b *models.Booking, expectedVersion int64) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	return r.updateStatus(ctx, b, expectedVersion)
}

func (r *MongoBookingRepo) updateStatus(ctx context.Context, b *models.Booking, expectedVersion int64) error {
	set := bson.M{
		"status":    b.Status,
		"payment":   b.Payment,
		"updatedAt": b.UpdatedAt,
	}
	if b.CancelledAt != nil {
		set["cancelledBy"] = b.CancelledBy
		set["cancelledAt"] = b.CancelledAt
	}
	res, err := r.coll.UpdateOne(ctx,
		bson.M{"id": b.ID, "version": expectedVersion},
		bson.M{"$set": set, "$inc": bson.M{"version": 1}},
	)
	if err != nil {
		return fmt.Errorf("failed to update booking %s: %w", b.ID, err)
	}
	if res.MatchedCount == 0 {
		if _, err := r.GetByID(ctx, b.ID); err != nil {
			return err
		}
		return models.ErrVersionConflict
	}
	return nil
}

// CancelWithRefund applies the cancellation and inserts its refund row in one transaction.
func (r *MongoBookingRepo) CancelWithRefund(ctx context.Context, b *models.Booking, expectedVersion int64, refund *models.Refund) error {
	client := r.coll.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		if err := r.updateStatus(sc, b, expectedVersion); err != nil {
			return err
		}
		if _, err := r.refundColl.InsertOne(sc, refund); err != nil {
			return fmt.Errorf("insert refund failed: %w", database.Translate(err))
		}
		return nil
	}

	return mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
}

func (r *MongoBookingRepo) SetPaymentStatus(ctx context.Context, id, status string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, bson.M{
		"$set": bson.M{"payment.status": status, "updatedAt": time.Now()},
		"$inc": bson.M{"version": 1},
	})
	if err != nil {
		return fmt.Errorf("failed to set payment status on %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("booking %s: %w", id, models.ErrNotFound)
	}
	return nil
}

func activeStatuses() bson.M {
	return bson.M{"$in": bson.A{models.StatusPending, models.StatusConfirmed}}
}

func (r *MongoBookingRepo) CountActiveByUser(ctx context.Context, userID string) (int64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	n, err := r.coll.CountDocuments(ctx, bson.M{"userId": userID, "status": activeStatuses()})
	if err != nil {
		return 0, fmt.Errorf("failed to count bookings for %s: %w", userID, err)
	}
	return n, nil
}

func (r *MongoBookingRepo) ListByUser(ctx context.Context, userID string) ([]models.Booking, error) {
	return r.find(ctx, bson.M{"userId": userID}, options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}))
}

func (r *MongoBookingRepo) ListBySalons(ctx context.Context, salonIDs []string, status models.BookingStatus) ([]models.Booking, error) {
	filter := bson.M{"salonId": bson.M{"$in": salonIDs}}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "date", Value: -1}, {Key: "time", Value: -1}})
	return r.find(ctx, filter, opts)
}

// ListBySalonDate returns the active bookings holding slots at a salon on a day.
func (r *MongoBookingRepo) ListBySalonDate(ctx context.Context, salonID, date string) ([]models.Booking, error) {
	filter := bson.M{"salonId": salonID, "date": date, "status": activeStatuses()}
	return r.find(ctx, filter, options.Find().SetSort(bson.D{{Key: "time", Value: 1}}))
}

func (r *MongoBookingRepo) List(ctx context.Context, status models.BookingStatus, limit int64) ([]models.Booking, error) {
	filter := bson.M{}
	if status != "" {
		filter["status"] = status
	}
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	return r.find(ctx, filter, opts)
}

// ListForEarnings returns completed bookings of the salons within [from, to).
func (r *MongoBookingRepo) ListForEarnings(ctx context.Context, salonIDs []string, from, to time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"salonId":   bson.M{"$in": salonIDs},
		"status":    models.StatusCompleted,
		"updatedAt": bson.M{"$gte": from, "$lt": to},
	}
	return r.find(ctx, filter, options.Find())
}

func (r *MongoBookingRepo) find(ctx context.Context, filter bson.M, opts *options.FindOptions) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	defer cursor.Close(ctx)

	bookings := []models.Booking{}
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}

func (r *MongoBookingRepo) Delete(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete booking: %w", err)
	}
	if res.DeletedCount == 0 {
		return models.ErrNotFound
	}
	return nil
}
