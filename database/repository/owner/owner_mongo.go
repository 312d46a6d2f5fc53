package ownerRepo

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

// MongoOwnerRepo stores salon owner accounts in the salonOwners collection.
type MongoOwnerRepo struct {
	coll *mongo.Collection
}

func NewMongoOwnerRepo(db *mongo.Database, logger *zap.Logger) *MongoOwnerRepo {
	repo := &MongoOwnerRepo{coll: db.Collection("salonOwners")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create salon owner indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoOwnerRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "email", Value: 1}}, Options: options.Index().SetUnique(true)},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoOwnerRepo) GetByID(ctx context.Context, id string) (*models.SalonOwner, error) {
	return r.findOne(ctx, bson.M{"id": id})
}

func (r *MongoOwnerRepo) GetByEmail(ctx context.Context, email string) (*models.SalonOwner, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoOwnerRepo) findOne(ctx context.Context, filter bson.M) (*models.SalonOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var owner models.SalonOwner
	if err := r.coll.FindOne(ctx, filter).Decode(&owner); err != nil {
		return nil, fmt.Errorf("failed to fetch salon owner: %w", database.Translate(err))
	}
	return &owner, nil
}

func (r *MongoOwnerRepo) Create(ctx context.Context, owner *models.SalonOwner) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	now := time.Now()
	owner.CreatedAt = now
	owner.UpdatedAt = now
	if owner.SalonIDs == nil {
		owner.SalonIDs = []string{}
	}
	if _, err := r.coll.InsertOne(ctx, owner); err != nil {
		return fmt.Errorf("failed to create salon owner: %w", database.Translate(err))
	}
	return nil
}

// AddSalon links a salon to the owner's portfolio.
func (r *MongoOwnerRepo) AddSalon(ctx context.Context, ownerID, salonID string) error {
	return r.update(ctx, ownerID, bson.M{
		"$addToSet": bson.M{"salonIds": salonID},
		"$set":      bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoOwnerRepo) SetFCMToken(ctx context.Context, ownerID, token string) error {
	return r.update(ctx, ownerID, bson.M{"$set": bson.M{"fcmToken": token, "updatedAt": time.Now()}})
}

func (r *MongoOwnerRepo) SetApprovalStatus(ctx context.Context, ownerID, status string) error {
	return r.update(ctx, ownerID, bson.M{"$set": bson.M{"approvalStatus": status, "updatedAt": time.Now()}})
}

func (r *MongoOwnerRepo) update(ctx context.Context, ownerID string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": ownerID}, update)
	if err != nil {
		return fmt.Errorf("failed to update salon owner %s: %w", ownerID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("salon owner %s: %w", ownerID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoOwnerRepo) List(ctx context.Context, limit int64) ([]models.SalonOwner, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetLimit(limit).
		SetProjection(bson.M{"passwordHash": 0})
	cursor, err := r.coll.Find(ctx, bson.M{}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to retrieve salon owners: %w", err)
	}
	defer cursor.Close(ctx)

	owners := []models.SalonOwner{}
	if err := cursor.All(ctx, &owners); err != nil {
		return nil, fmt.Errorf("failed to decode salon owners: %w", err)
	}
	return owners, nil
}
