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
	"go.uber.org/zap"
)

// MongoWalletRepo reads balances from users and appends to walletTransactions.
type MongoWalletRepo struct {
	userColl     *mongo.Collection
	txColl       *mongo.Collection
	rechargeColl *mongo.Collection
}

func NewMongoWalletRepo(db *mongo.Database, logger *zap.Logger) *MongoWalletRepo {
	repo := &MongoWalletRepo{
		userColl:     db.Collection("users"),
		txColl:       db.Collection("walletTransactions"),
		rechargeColl: db.Collection("walletRecharges"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_, err := repo.txColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "userId", Value: 1}, {Key: "createdAt", Value: -1}}},
		{
			Keys: bson.D{{Key: "source", Value: 1}, {Key: "reference", Value: 1}},
			Options: options.Index().SetUnique(true).
				SetPartialFilterExpression(bson.M{"reference": bson.M{"$gt": ""}}),
		},
	})
	if err != nil {
		logger.Warn("failed to create wallet transaction indexes", zap.Error(err))
	}
	if err := repo.ensureRechargeIndexes(ctx); err != nil {
		logger.Warn("failed to create wallet recharge indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoWalletRepo) Balance(ctx context.Context, userID string) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var user models.User
	opts := options.FindOne().SetProjection(bson.M{"wallet": 1})
	if err := r.userColl.FindOne(ctx, bson.M{"id": userID}, opts).Decode(&user); err != nil {
		return 0, fmt.Errorf("failed to read wallet of %s: %w", userID, database.Translate(err))
	}
	return user.Wallet.Balance, nil
}

// Credit increments the balance and records the ledger row in one transaction. A second
// credit for the same source and reference fails with models.ErrDuplicate and changes nothing.
func (r *MongoWalletRepo) Credit(ctx context.Context, tx *models.WalletTransaction) error {
	client := r.userColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	txnFn := func(sc mongo.SessionContext) error {
		var user models.User
		err := r.userColl.FindOneAndUpdate(sc,
			bson.M{"id": tx.UserID},
			bson.M{
				"$inc": bson.M{"wallet.balance": tx.Amount},
				"$set": bson.M{"updatedAt": time.Now()},
			},
			options.FindOneAndUpdate().SetReturnDocument(options.After),
		).Decode(&user)
		if err != nil {
			return fmt.Errorf("wallet credit failed: %w", database.Translate(err))
		}
		tx.BalanceAfter = user.Wallet.Balance
		if _, err := r.txColl.InsertOne(sc, tx); err != nil {
			return fmt.Errorf("insert wallet transaction failed: %w", database.Translate(err))
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

func (r *MongoWalletRepo) Transactions(ctx context.Context, userID string, limit int64) ([]models.WalletTransaction, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}}).SetLimit(limit)
	cursor, err := r.txColl.Find(ctx, bson.M{"userId": userID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list wallet transactions: %w", err)
	}
	defer cursor.Close(ctx)

	txs := []models.WalletTransaction{}
	if err := cursor.All(ctx, &txs); err != nil {
		return nil, fmt.Errorf("failed to decode wallet transactions: %w", err)
	}
	return txs, nil
}
