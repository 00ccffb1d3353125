package availabilityRepo

import (
	"context"
	"fmt"
	"time"

	"caterbook/database"
	"caterbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoAvailabilityRepo implements AvailabilityRepository using MongoDB.
type MongoAvailabilityRepo struct {
	coll *mongo.Collection
}

func NewMongoAvailabilityRepo() *MongoAvailabilityRepo {
	return &MongoAvailabilityRepo{coll: database.Collection("availability")}
}

// Upsert writes the caterer-owned fields only. A booking_id claim placed by
// ConfirmWithDateLock survives the write; releasing a claim goes through
// ReleaseDateLock on the booking side.
func (repo *MongoAvailabilityRepo) Upsert(ctx context.Context, entry *models.Availability) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"caterer_id": entry.CatererID, "date": entry.Date}
	update := bson.M{
		"$set": bson.M{
			"available":  entry.Available,
			"reason":     entry.Reason,
			"updated_at": entry.UpdatedAt,
		},
		"$setOnInsert": bson.M{
			"caterer_id": entry.CatererID,
			"date":       entry.Date,
		},
	}
	_, err := repo.coll.UpdateOne(ctx, filter, update, options.Update().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert availability for %s on %s: %w", entry.CatererID, entry.Date, err)
	}
	return nil
}

func (repo *MongoAvailabilityRepo) Get(ctx context.Context, catererID, date string) (*models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var entry models.Availability
	err := repo.coll.FindOne(ctx, bson.M{"caterer_id": catererID, "date": date}).Decode(&entry)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch availability for %s on %s: %w", catererID, date, err)
	}
	return &entry, nil
}

func (repo *MongoAvailabilityRepo) ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.coll.Find(ctx, bson.M{"caterer_id": catererID, "available": false})
	if err != nil {
		return nil, fmt.Errorf("failed to list blocked dates for %s: %w", catererID, err)
	}
	var entries []models.Availability
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode availability entries: %w", err)
	}
	return entries, nil
}
