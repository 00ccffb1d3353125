package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"caterbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func (repo *MongoBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"customer_id": customerID})
}

func (repo *MongoBookingRepo) ListByCaterer(ctx context.Context, catererID string) ([]models.Booking, error) {
	return repo.list(ctx, bson.M{"caterer_id": catererID})
}

// ListOverdue returns draft/pending bookings whose expiry deadline has passed.
func (repo *MongoBookingRepo) ListOverdue(ctx context.Context, now time.Time) ([]models.Booking, error) {
	filter := bson.M{
		"status":     bson.M{"$in": []string{models.BookingStatusDraft, models.BookingStatusPending}},
		"expires_at": bson.M{"$lt": now},
	}
	return repo.list(ctx, filter)
}

// ListElapsedConfirmed returns confirmed bookings whose event date has passed.
func (repo *MongoBookingRepo) ListElapsedConfirmed(ctx context.Context, beforeDate string) ([]models.Booking, error) {
	filter := bson.M{
		"status":     models.BookingStatusConfirmed,
		"event_date": bson.M{"$lt": beforeDate},
	}
	return repo.list(ctx, filter)
}

func (repo *MongoBookingRepo) list(ctx context.Context, filter bson.M) ([]models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: -1}})
	cursor, err := repo.bookingColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query bookings: %w", err)
	}
	var bookings []models.Booking
	if err := cursor.All(ctx, &bookings); err != nil {
		return nil, fmt.Errorf("failed to decode bookings: %w", err)
	}
	return bookings, nil
}
