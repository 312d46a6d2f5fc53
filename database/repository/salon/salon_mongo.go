package salonRepo

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSalonRepo stores salons with their embedded catalogue and staff.
type MongoSalonRepo struct {
	coll *mongo.Collection
}

func NewMongoSalonRepo(db *mongo.Database, logger *zap.Logger) *MongoSalonRepo {
	repo := &MongoSalonRepo{coll: db.Collection("salons")}
	if err := repo.ensureIndexes(); err != nil {
		logger.Warn("failed to create salon indexes", zap.Error(err))
	}
	return repo
}

func (r *MongoSalonRepo) ensureIndexes() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "id", Value: 1}}, Options: options.Index().SetUnique(true)},
		{Keys: bson.D{{Key: "ownerId", Value: 1}}},
		{Keys: bson.D{{Key: "isActive", Value: 1}, {Key: "city", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create indexes: %w", err)
	}
	return nil
}

func (r *MongoSalonRepo) GetByID(ctx context.Context, id string) (*models.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var salon models.Salon
	if err := r.coll.FindOne(ctx, bson.M{"id": id}).Decode(&salon); err != nil {
		return nil, fmt.Errorf("failed to fetch salon %s: %w", id, database.Translate(err))
	}
	return &salon, nil
}

// SalonFilter narrows List. Empty fields match everything.
type SalonFilter struct {
	OwnerID    string
	City       string
	ActiveOnly bool
	Limit      int64
}

func (r *MongoSalonRepo) List(ctx context.Context, f SalonFilter) ([]models.Salon, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{}
	if f.OwnerID != "" {
		filter["ownerId"] = f.OwnerID
	}
	if f.City != "" {
		filter["city"] = bson.M{"$regex": "^" + regexp.QuoteMeta(f.City) + "$", "$options": "i"}
	}
	if f.ActiveOnly {
		filter["isActive"] = true
	}
	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}, {Key: "name", Value: 1}})
	if f.Limit > 0 {
		opts.SetLimit(f.Limit)
	}

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list salons: %w", err)
	}
	defer cursor.Close(ctx)

	salons := []models.Salon{}
	if err := cursor.All(ctx, &salons); err != nil {
		return nil, fmt.Errorf("failed to decode salons: %w", err)
	}
	return salons, nil
}

func (r *MongoSalonRepo) Create(ctx context.Context, salon *models.Salon) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.coll.InsertOne(ctx, salon); err != nil {
		return fmt.Errorf("failed to create salon: %w", database.Translate(err))
	}
	return nil
}

// Update replaces the editable fields. Images are managed separately.
func (r *MongoSalonRepo) Update(ctx context.Context, salon *models.Salon) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": salon.ID}, bson.M{"$set": bson.M{
		"name":        salon.Name,
		"description": salon.Description,
		"address":     salon.Address,
		"city":        salon.City,
		"phone":       salon.Phone,
		"services":    salon.Services,
		"staff":       salon.Staff,
		"openingTime": salon.OpeningTime,
		"closingTime": salon.ClosingTime,
		"slotMinutes": salon.SlotMinutes,
		"isActive":    salon.IsActive,
		"updatedAt":   salon.UpdatedAt,
	}})
	if err != nil {
		return fmt.Errorf("failed to update salon %s: %w", salon.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("salon %s: %w", salon.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoSalonRepo) SetActive(ctx context.Context, id string, active bool) error {
	return r.update(ctx, id, bson.M{"$set": bson.M{"isActive": active, "updatedAt": time.Now()}})
}

func (r *MongoSalonRepo) AddImage(ctx context.Context, id string, img models.SalonImage) error {
	return r.update(ctx, id, bson.M{
		"$push": bson.M{"images": img},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoSalonRepo) RemoveImage(ctx context.Context, id, publicID string) error {
	return r.update(ctx, id, bson.M{
		"$pull": bson.M{"images": bson.M{"publicId": publicID}},
		"$set":  bson.M{"updatedAt": time.Now()},
	})
}

func (r *MongoSalonRepo) update(ctx context.Context, id string, update bson.M) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.coll.UpdateOne(ctx, bson.M{"id": id}, update)
	if err != nil {
		return fmt.Errorf("failed to update salon %s: %w", id, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("salon %s: %w", id, models.ErrNotFound)
	}
	return nil
}
