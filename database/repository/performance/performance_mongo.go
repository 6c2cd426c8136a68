package performanceRepo

import (
	"context"
	"fmt"
	"time"

	"tapstead/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoPerformanceRepo implements PerformanceRepository using MongoDB.
type MongoPerformanceRepo struct {
	coll *mongo.Collection
}

// NewMongoPerformanceRepo creates a PerformanceRepository backed by the
// "provider_performance" collection of the given database.
func NewMongoPerformanceRepo(db *mongo.Database) PerformanceRepository {
	return &MongoPerformanceRepo{coll: db.Collection("provider_performance")}
}

func (r *MongoPerformanceRepo) GetByProviderIDs(ctx context.Context, providerIDs []string) (map[string]models.ProviderPerformance, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	cursor, err := r.coll.Find(ctx, bson.M{"providerId": bson.M{"$in": providerIDs}})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch performance rollups: %w", err)
	}
	defer cursor.Close(ctx)

	out := make(map[string]models.ProviderPerformance, len(providerIDs))
	for cursor.Next(ctx) {
		var perf models.ProviderPerformance
		if err := cursor.Decode(&perf); err != nil {
			return nil, fmt.Errorf("failed to decode performance rollup: %w", err)
		}
		out[perf.ProviderID] = perf
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("cursor error: %w", err)
	}
	return out, nil
}
