package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"caterbook/database"
	"caterbook/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// MongoBookingRepo implements BookingRepository backed by MongoDB. It also
// holds the availability collection so the confirm+date-lock transaction can
// span both.
type MongoBookingRepo struct {
	bookingColl      *mongo.Collection
	historyColl      *mongo.Collection
	fraudColl        *mongo.Collection
	availabilityColl *mongo.Collection
}

// NewMongoBookingRepo constructs the repository on the shared client.
func NewMongoBookingRepo() *MongoBookingRepo {
	return &MongoBookingRepo{
		bookingColl:      database.Collection("bookings"),
		historyColl:      database.Collection("booking_history"),
		fraudColl:        database.Collection("fraud_flags"),
		availabilityColl: database.Collection("availability"),
	}
}

func (repo *MongoBookingRepo) Create(ctx context.Context, booking *models.Booking) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.bookingColl.InsertOne(ctx, booking); err != nil {
		return fmt.Errorf("failed to insert booking: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var booking models.Booking
	err := repo.bookingColl.FindOne(ctx, bson.M{"id": id}).Decode(&booking)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch booking %s: %w", id, err)
	}
	return &booking, nil
}

func (repo *MongoBookingRepo) SetExpiresAt(ctx context.Context, id string, at time.Time) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"expires_at": at, "updated_at": time.Now().UTC()}}
	if _, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set expiry for booking %s: %w", id, err)
	}
	return nil
}

func (repo *MongoBookingRepo) SetPricing(ctx context.Context, id string, totalAmount, reservationFee string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"total_amount":    totalAmount,
		"reservation_fee": reservationFee,
		"updated_at":      time.Now().UTC(),
	}}
	if _, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to set pricing for booking %s: %w", id, err)
	}
	return nil
}

func (repo *MongoBookingRepo) SetFlagged(ctx context.Context, id string, flagged bool) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{"flagged": flagged, "updated_at": time.Now().UTC()}}
	if _, err := repo.bookingColl.UpdateOne(ctx, bson.M{"id": id}, update); err != nil {
		return fmt.Errorf("failed to flag booking %s: %w", id, err)
	}
	return nil
}

func (repo *MongoBookingRepo) AppendHistory(ctx context.Context, entry *models.BookingHistory) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.historyColl.InsertOne(ctx, entry); err != nil {
		return fmt.Errorf("failed to append booking history: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) History(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.historyColl.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch history for booking %s: %w", bookingID, err)
	}
	var entries []models.BookingHistory
	if err := cursor.All(ctx, &entries); err != nil {
		return nil, fmt.Errorf("failed to decode booking history: %w", err)
	}
	return entries, nil
}

func (repo *MongoBookingRepo) AddFraudFlag(ctx context.Context, flag *models.FraudFlag) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.fraudColl.InsertOne(ctx, flag); err != nil {
		return fmt.Errorf("failed to insert fraud flag: %w", err)
	}
	return nil
}

func (repo *MongoBookingRepo) FraudFlags(ctx context.Context, bookingID string) ([]models.FraudFlag, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.fraudColl.Find(ctx, bson.M{"booking_id": bookingID})
	if err != nil {
		return nil, fmt.Errorf("failed to fetch fraud flags for booking %s: %w", bookingID, err)
	}
	var flags []models.FraudFlag
	if err := cursor.All(ctx, &flags); err != nil {
		return nil, fmt.Errorf("failed to decode fraud flags: %w", err)
	}
	return flags, nil
}
