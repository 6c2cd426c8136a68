package trackingRepo

import (
	"context"
	"fmt"
	"time"

	"tapstead/models"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoTrackingRepo implements TrackingRepository using MongoDB.
type MongoTrackingRepo struct {
	coll *mongo.Collection
}

// NewMongoTrackingRepo creates a TrackingRepository backed by the "tracking"
// collection of the given database.
func NewMongoTrackingRepo(db *mongo.Database) TrackingRepository {
	return &MongoTrackingRepo{coll: db.Collection("tracking")}
}

func (r *MongoTrackingRepo) Append(ctx context.Context, entry models.TrackingEntry) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	entry.CreatedAt = time.Now()
	if _, err := r.coll.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append tracking entry: %w", err)
	}
	return nil
}

func (r *MongoTrackingRepo) GetByBookingID(ctx context.Context, bookingID string) ([]models.TrackingEntry, error) {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: 1}})
	cursor, err := r.coll.Find(ctx, bson.M{"bookingId": bookingID}, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch tracking entries for booking %s: %w", bookingID, err)
	}
	defer cursor.Close(ctx)

	entries := []models.TrackingEntry{}
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode tracking entries: %w", err)
	}
	return entries, nil
}
