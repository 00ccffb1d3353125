package verificationRepo

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

// MongoVerificationRepo implements VerificationRepository using MongoDB.
type MongoVerificationRepo struct {
	recordColl  *mongo.Collection
	attemptColl *mongo.Collection
}

func NewMongoVerificationRepo() *MongoVerificationRepo {
	return &MongoVerificationRepo{
		recordColl:  database.Collection("identity_verifications"),
		attemptColl: database.Collection("verification_attempts"),
	}
}

// EnsureIndexes keeps one record per user and makes audit lookups cheap.
func (repo *MongoVerificationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.recordColl.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "user_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create verification record index: %w", err)
	}
	_, err = repo.attemptColl.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{Keys: bson.D{{Key: "booking_id", Value: 1}, {Key: "created_at", Value: 1}}},
		{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}}},
	})
	if err != nil {
		return fmt.Errorf("failed to create verification attempt indexes: %w", err)
	}
	return nil
}

func (repo *MongoVerificationRepo) GetByUserID(ctx context.Context, userID string) (*models.IdentityVerification, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var record models.IdentityVerification
	err := repo.recordColl.FindOne(ctx, bson.M{"user_id": userID}).Decode(&record)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch verification record for user %s: %w", userID, err)
	}
	return &record, nil
}

func (repo *MongoVerificationRepo) Upsert(ctx context.Context, record *models.IdentityVerification) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"user_id": record.UserID}
	_, err := repo.recordColl.ReplaceOne(ctx, filter, record, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("failed to upsert verification record for user %s: %w", record.UserID, err)
	}
	return nil
}

func (repo *MongoVerificationRepo) AppendAttempt(ctx context.Context, attempt *models.VerificationAttempt) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.attemptColl.InsertOne(ctx, attempt); err != nil {
		return fmt.Errorf("failed to append verification attempt: %w", err)
	}
	return nil
}

// FinalizeAttempt settles the newest processing attempt for the given user,
// booking, and step with its terminal status. Returns false when no
// processing attempt exists; terminal attempts are never rewritten.
func (repo *MongoVerificationRepo) FinalizeAttempt(ctx context.Context, userID, bookingID, step, status string, details map[string]any) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{
		"user_id":    userID,
		"booking_id": bookingID,
		"step":       step,
		"status":     models.AttemptStatusProcessing,
	}
	update := bson.M{"$set": bson.M{"status": status, "details": details}}
	opts := options.FindOneAndUpdate().SetSort(bson.D{{Key: "created_at", Value: -1}})
	err := repo.attemptColl.FindOneAndUpdate(ctx, filter, update, opts).Err()
	if err == mongo.ErrNoDocuments {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to finalize verification attempt: %w", err)
	}
	return true, nil
}

func (repo *MongoVerificationRepo) ListAttemptsByBooking(ctx context.Context, bookingID string) ([]models.VerificationAttempt, error) {
	return repo.listAttempts(ctx, bson.M{"booking_id": bookingID})
}

func (repo *MongoVerificationRepo) ListAttemptsByUser(ctx context.Context, userID string) ([]models.VerificationAttempt, error) {
	return repo.listAttempts(ctx, bson.M{"user_id": userID})
}

func (repo *MongoVerificationRepo) listAttempts(ctx context.Context, filter bson.M) ([]models.VerificationAttempt, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})
	cursor, err := repo.attemptColl.Find(ctx, filter, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to query verification attempts: %w", err)
	}
	var attempts []models.VerificationAttempt
	if err := cursor.All(ctx, &attempts); err != nil {
		return nil, fmt.Errorf("failed to decode verification attempts: %w", err)
	}
	return attempts, nil
}
