package providerRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"tapstead/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// ErrNotFound is returned when no provider matches the requested ID.
var ErrNotFound = errors.New("provider not found")

// MongoProviderRepo implements ProviderRepository using MongoDB.
type MongoProviderRepo struct {
	coll *mongo.Collection
}

// NewMongoProviderRepo creates a ProviderRepository backed by the "providers"
// collection of the given database.
func NewMongoProviderRepo(db *mongo.Database) ProviderRepository {
	return &MongoProviderRepo{coll: db.Collection("providers")}
}

func (r *MongoProviderRepo) GetByID(ctx context.Context, id string) (*models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	var provider models.Provider
	filter := bson.M{"id": id}
	if err := r.coll.FindOne(ctx, filter).Decode(&provider); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to fetch provider with id %s: %w", id, err)
	}
	return &provider, nil
}

// FindCandidates returns active providers offering the service with rating at
// or above the floor, sorted by rating descending. An empty result is not an
// error; callers rely on that distinction.
func (r *MongoProviderRepo) FindCandidates(ctx context.Context, criteria CandidateCriteria) ([]models.Provider, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	filter := bson.M{
		"active":   true,
		"services": criteria.ServiceType,
	}
	if criteria.MinRating > 0 {
		filter["rating"] = bson.M{"$gte": criteria.MinRating}
	}

	opts := options.Find().SetSort(bson.D{{Key: "rating", Value: -1}})

	cursor, err := r.coll.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("candidate query failed: %w", err)
	}
	defer cursor.Close(ctx)

	providers := []models.Provider{}
	if err := cursor.All(ctx, &providers); err != nil {
		return nil, fmt.Errorf("failed to decode providers: %w", err)
	}
	return providers, nil
}
