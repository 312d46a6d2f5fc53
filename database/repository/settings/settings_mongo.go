package settingsRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"salonbook/database"
	"salonbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// MongoSettingsRepo holds the platform settings document and the subscription plans.
type MongoSettingsRepo struct {
	settingsColl *mongo.Collection
	planColl     *mongo.Collection
}

func NewMongoSettingsRepo(db *mongo.Database, logger *zap.Logger) *MongoSettingsRepo {
	repo := &MongoSettingsRepo{
		settingsColl: db.Collection("settings"),
		planColl:     db.Collection("subscriptionPlans"),
	}
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if _, err := repo.planColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "id", Value: 1}},
		Options: options.Index().SetUnique(true),
	}); err != nil {
		logger.Warn("failed to create subscription plan indexes", zap.Error(err))
	}
	return repo
}

// Get returns the stored settings, or the defaults when none were saved yet.
func (r *MongoSettingsRepo) Get(ctx context.Context) (*models.PlatformSettings, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var s models.PlatformSettings
	err := r.settingsColl.FindOne(ctx, bson.M{"id": models.PlatformSettingsID}).Decode(&s)
	if errors.Is(err, mongo.ErrNoDocuments) {
		def := models.DefaultPlatformSettings()
		return &def, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load platform settings: %w", err)
	}
	return &s, nil
}

func (r *MongoSettingsRepo) Save(ctx context.Context, s *models.PlatformSettings) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	s.ID = models.PlatformSettingsID
	_, err := r.settingsColl.ReplaceOne(ctx, bson.M{"id": s.ID}, s, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to save platform settings: %w", err)
	}
	return nil
}

func (r *MongoSettingsRepo) ListPlans(ctx context.Context) ([]models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	cursor, err := r.planColl.Find(ctx, bson.M{}, options.Find().SetSort(bson.D{{Key: "price", Value: 1}}))
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}
	defer cursor.Close(ctx)

	plans := []models.SubscriptionPlan{}
	if err := cursor.All(ctx, &plans); err != nil {
		return nil, fmt.Errorf("failed to decode plans: %w", err)
	}
	return plans, nil
}

func (r *MongoSettingsRepo) GetPlan(ctx context.Context, id string) (*models.SubscriptionPlan, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var p models.SubscriptionPlan
	if err := r.planColl.FindOne(ctx, bson.M{"id": id}).Decode(&p); err != nil {
		return nil, fmt.Errorf("failed to fetch plan %s: %w", id, database.Translate(err))
	}
	return &p, nil
}

func (r *MongoSettingsRepo) CreatePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := r.planColl.InsertOne(ctx, p); err != nil {
		return fmt.Errorf("failed to create plan: %w", database.Translate(err))
	}
	return nil
}

func (r *MongoSettingsRepo) UpdatePlan(ctx context.Context, p *models.SubscriptionPlan) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.planColl.ReplaceOne(ctx, bson.M{"id": p.ID}, p)
	if err != nil {
		return fmt.Errorf("failed to update plan %s: %w", p.ID, err)
	}
	if res.MatchedCount == 0 {
		return fmt.Errorf("plan %s: %w", p.ID, models.ErrNotFound)
	}
	return nil
}

func (r *MongoSettingsRepo) DeletePlan(ctx context.Context, id string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	res, err := r.planColl.DeleteOne(ctx, bson.M{"id": id})
	if err != nil {
		return fmt.Errorf("failed to delete plan %s: %w", id, err)
	}
	if res.DeletedCount == 0 {
		return fmt.Errorf("plan %s: %w", id, models.ErrNotFound)
	}
	return nil
}
