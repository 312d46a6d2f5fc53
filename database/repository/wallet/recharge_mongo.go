package walletRepo

import (
	"context"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (r *MongoWalletRepo) ensureRechargeIndexes(ctx context.Context) error {
	_, err := r.rechargeColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}}},
	})
	return err
}

func (r *MongoWalletRepo) CreateRecharge(ctx context.Context, recharge *models.RechargeIntent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.rechargeColl.InsertOne(ctx, recharge); err != nil {
		return fmt.Errorf("failed to create recharge: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoWalletRepo) GetRecharge(ctx context.Context, id string) (*models.RechargeIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var recharge models.RechargeIntent
	if err := r.rechargeColl.FindOne(ctx, bson.M{"id": id}).Decode(&recharge); err != nil {
		return nil, fmt.Errorf("failed to fetch recharge %s: %w", id, database.Translate(err))
	}
	return &recharge, nil
}

func (r *MongoWalletRepo) UpdateRecharge(ctx context.Context, recharge *models.RechargeIntent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.rechargeColl.UpdateOne(ctx, bson.M{"id": recharge.ID}, bson.M{"$set": bson.M{
		"status":          recharge.Status,
		"paymentMethodId": recharge.PaymentMethodID,
		"transactionId":   recharge.TransactionID,
		"balanceAfter":    recharge.BalanceAfter,
		"error":           recharge.Error,
		"attempts":        recharge.Attempts,
		"updatedAt":       recharge.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update recharge %s: %w", recharge.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("recharge %s: %w", recharge.ID, models.ErrNotFound)
	}
	return nil
}

// PendingRecharges lists recharges that were paid before the cutoff but never credited.
func (r *MongoWalletRepo) PendingRecharges(ctx context.Context, olderThan time.Time, limit int64) ([]models.RechargeIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.rechargeColl.Find(ctx,
		bson.M{"status": models.IntentPaid, "updatedAt": bson.M{"$lt": olderThan}},
		options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending recharges: %w", err)
	}
	defer cursor.Close(ctx)

	recharges := []models.RechargeIntent{}
	if err := cursor.All(ctx, &recharges); err != nil {
		return nil, fmt.Errorf("failed to decode recharges: %w", err)
	}
	return recharges, nil
}
