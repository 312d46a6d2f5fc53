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

type MongoRefundRepo struct {
	coll *mongo.Collection
}

func NewMongoRefundRepo(db *mongo.Database, logger *zap.Logger) *MongoRefundRepo {
	repo := &MongoRefundRepo{coll: db.Collection("refunds")}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "bookingId", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}}},
	})
	if err != nil {
		logger.Warn("failed to create refund indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoRefundRepo) GetByID(ctx context.Context, id string) (*models.Refund, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var refund models.Refund
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&refund); err != nil {
		return nil, fmt.Errorf("failed to fetch refund %s: %w", id, database.Translate(err))
	}
	return &refund, nil
}

func (r *MongoRefundRepo) Update(ctx context.Context, refund *models.Refund) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.ReplaceOne(ctx, bson.M{"id": refund.ID}, refund)
	if err != nil {
		return fmt.Errorf("failed to update refund %s: %w", refund.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("refund %s: %w", refund.ID, models.ErrNotFound)
	}
	return nil
}

// ListByStatus feeds the retry sweep with refunds in status created before the cutoff.
func (r *MongoRefundRepo) ListByStatus(ctx context.Context, status string, createdBefore time.Time, limit int64) ([]models.Refund, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{"status": status, "createdAt": bson.M{"$lt": createdBefore}}
	cursor, err := r.coll.Find(ctx, filter, options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list refunds: %w", err)
	}
	defer cursor.Close(ctx)

	refunds := []models.Refund{}
	if err := cursor.All(ctx, &refunds); err != nil {
		return nil, fmt.Errorf("failed to decode refunds: %w", err)
	}
	return refunds, nil
}
