package quotationRepo

import (
	"context"
	"fmt"
	"time"

	"caterbook/database"
	"caterbook/models"
	"caterbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// MongoQuotationRepo implements QuotationRepository using MongoDB.
type MongoQuotationRepo struct {
	coll *mongo.Collection
}

func NewMongoQuotationRepo() *MongoQuotationRepo {
	return &MongoQuotationRepo{coll: database.Collection("quotations")}
}

// EnsureIndexes enforces the 1:1 booking-quotation relationship.
func (repo *MongoQuotationRepo) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	_, err := repo.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "booking_id", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		return fmt.Errorf("failed to create quotation index: %w", err)
	}
	return nil
}

func (repo *MongoQuotationRepo) Create(ctx context.Context, quotation *models.Quotation) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if _, err := repo.coll.InsertOne(ctx, quotation); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return utils.NewConflict("quotation already exists for booking %s", quotation.BookingID)
		}
		return fmt.Errorf("failed to insert quotation: %w", err)
	}
	return nil
}

func (repo *MongoQuotationRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var quotation models.Quotation
	err := repo.coll.FindOne(ctx, bson.M{"booking_id": bookingID}).Decode(&quotation)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch quotation for booking %s: %w", bookingID, err)
	}
	return &quotation, nil
}

func (repo *MongoQuotationRepo) TransitionStatus(ctx context.Context, bookingID string, from []string, to, contractURL string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	set := bson.M{"status": to}
	if contractURL != "" {
		set["contract_url"] = contractURL
	}
	filter := bson.M{"booking_id": bookingID, "status": bson.M{"$in": from}}
	res, err := repo.coll.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return false, fmt.Errorf("failed to transition quotation for booking %s: %w", bookingID, err)
	}
	return res.MatchedCount > 0, nil
}
