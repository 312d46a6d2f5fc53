package bookingRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSettlementRepo keeps settlement intents and commits them against the
// users, walletTransactions and bookings collections in one transaction.
type MongoSettlementRepo struct {
	intentColl  *mongo.Collection
	bookingColl *mongo.Collection
	userColl    *mongo.Collection
	txColl      *mongo.Collection
}

func NewMongoSettlementRepo(db *mongo.Database, logger *zap.Logger) *MongoSettlementRepo {
	repo := &MongoSettlementRepo{
		intentColl:  db.Collection("settlementIntents"),
		bookingColl: db.Collection("bookings"),
		userColl:    db.Collection("users"),
		txColl:      db.Collection("walletTransactions"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.intentColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "status", Value: 1}, {Key: "updatedAt", Value: 1}}},
	})
	if err != nil {
		logger.Warn("failed to create settlement intent indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoSettlementRepo) CreateIntent(ctx context.Context, intent *models.SettlementIntent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.intentColl.InsertOne(ctx, intent); err != nil {
		return fmt.Errorf("failed to create settlement intent: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoSettlementRepo) GetIntent(ctx context.Context, id string) (*models.SettlementIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var intent models.SettlementIntent
	if err := r.intentColl.FindOne(ctx, bson.M{"id": id}).Decode(&intent); err != nil {
		return nil, fmt.Errorf("failed to fetch settlement intent %s: %w", id, database.Translate(err))
	}
	return &intent, nil
}

func (r *MongoSettlementRepo) UpdateIntent(ctx context.Context, intent *models.SettlementIntent) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.intentColl.UpdateOne(ctx, bson.M{"id": intent.ID}, bson.M{"$set": bson.M{
		"status":        intent.Status,
		"transactionId": intent.TransactionID,
		"error":         intent.Error,
		"attempts":      intent.Attempts,
		"updatedAt":     intent.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update settlement intent %s: %w", intent.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("settlement intent %s: %w", intent.ID, models.ErrNotFound)
	}
	return nil
}

// PendingIntents lists paid intents older than the cutoff. They were charged but never committed.
func (r *MongoSettlementRepo) PendingIntents(ctx context.Context, olderThan time.Time, limit int64) ([]models.SettlementIntent, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.intentColl.Find(ctx,
		bson.M{"status": models.IntentPaid, "updatedAt": bson.M{"$lt": olderThan}},
		options.Find().SetLimit(limit))
	if err != nil {
		return nil, fmt.Errorf("failed to list pending intents: %w", err)
	}
	defer cursor.Close(ctx)

	intents := []models.SettlementIntent{}
	if err := cursor.All(ctx, &intents); err != nil {
		return nil, fmt.Errorf("failed to decode intents: %w", err)
	}
	return intents, nil
}

func (r *MongoSettlementRepo) CommitSettlement(ctx context.Context, intent *models.SettlementIntent, b *models.Booking) error {
	client := r.intentColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	now := time.Now()
	txnFn := func(sc mongo.SessionContext) error {
		if intent.WalletUsed > 0 {
			var user models.User
			err := r.userColl.FindOneAndUpdate(sc,
				bson.M{"id": intent.UserID, "wallet.balance": bson.M{"$gte": intent.WalletUsed}},
				bson.M{
					"$inc": bson.M{"wallet.balance": -intent.WalletUsed},
					"$set": bson.M{"updatedAt": now},
				},
				options.FindOneAndUpdate().SetReturnDocument(options.After),
			).Decode(&user)
			if errors.Is(err, mongo.ErrNoDocuments) {
				return models.ErrInsufficientBalance
			}
			if err != nil {
				return fmt.Errorf("wallet debit failed: %w", err)
			}

			tx := models.WalletTransaction{
				ID:           uuid.New().String(),
				UserID:       intent.UserID,
				Type:         models.TransactionDebit,
				Source:       models.SourceBooking,
				Amount:       intent.WalletUsed,
				BalanceAfter: user.Wallet.Balance,
				Reference:    b.ID,
				Description:  "Payment for booking at " + b.SalonName,
				CreatedAt:    now,
			}
			if _, err := r.txColl.InsertOne(sc, tx); err != nil {
				return fmt.Errorf("insert wallet transaction failed: %w", err)
			}
		}

		if _, err := r.bookingColl.InsertOne(sc, b); err != nil {
			return fmt.Errorf("insert booking failed: %w", database.Translate(err))
		}

		if _, err := r.userColl.UpdateOne(sc, bson.M{"id": intent.UserID},
			bson.M{"$inc": bson.M{"bookingHistory.totalBookings": 1}}); err != nil {
			return fmt.Errorf("update booking history failed: %w", err)
		}

		res, err := r.intentColl.UpdateOne(sc,
			bson.M{"id": intent.ID, "status": bson.M{"$ne": models.IntentCommitted}},
			bson.M{"$set": bson.M{
				"status":        models.IntentCommitted,
				"transactionId": intent.TransactionID,
				"error":         "",
				"updatedAt":     now,
			}})
		if err != nil {
			return fmt.Errorf("mark intent committed failed: %w", err)
		}
		if res.MatchedCount == 0 {
			return fmt.Errorf("settlement intent %s already committed: %w", intent.ID, models.ErrDuplicate)
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
