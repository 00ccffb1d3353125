package bookingRepo

import (
	"context"
	"fmt"
	"time"

	"caterbook/models"
	"caterbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// TransitionStatus performs a status-guarded update. Both the expiration
// sweep and the payment webhook go through here, so whichever commits first
// wins and the loser's update matches nothing.
func (repo *MongoBookingRepo) TransitionStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}}
	update := bson.M{"$set": bson.M{"status": to, "updated_at": time.Now().UTC()}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to transition booking %s to %s: %w", id, to, err)
	}
	return res.MatchedCount > 0, nil
}

// MarkPaid records a successful payment and confirms the booking in one
// guarded update. Flagged bookings never match: a fraud hold placed after
// the caller's read still blocks the confirm.
func (repo *MongoBookingRepo) MarkPaid(ctx context.Context, id string, from []string, method string) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	filter := bson.M{"id": id, "status": bson.M{"$in": from}, "flagged": bson.M{"$ne": true}}
	update := bson.M{"$set": bson.M{
		"status":         models.BookingStatusConfirmed,
		"payment_status": models.PaymentStatusPaid,
		"payment_method": method,
		"updated_at":     time.Now().UTC(),
	}}
	res, err := repo.bookingColl.UpdateOne(ctx, filter, update)
	if err != nil {
		return false, fmt.Errorf("failed to mark booking %s paid: %w", id, err)
	}
	return res.MatchedCount > 0, nil
}

// ConfirmWithDateLock confirms a pending booking and claims its caterer+date
// in the availability ledger within one transaction. Claiming is an upsert
// whose filter matches an unclaimed open record or a claim this booking
// already holds, so a concurrent accept of the same booking lands on the
// status guard instead of the index. A claim held by a different booking
// forces the upsert into an insert, and the unique index on
// (caterer_id, date) turns that into a duplicate-key error, surfaced as
// Conflict.
func (repo *MongoBookingRepo) ConfirmWithDateLock(ctx context.Context, booking *models.Booking) (bool, error) {
	client := repo.bookingColl.Database().Client()
	sess, err := client.StartSession()
	if err != nil {
		return false, fmt.Errorf("could not start mongo session: %w", err)
	}
	defer sess.EndSession(ctx)

	transitioned := false
	txnFn := func(sc mongo.SessionContext) error {
		claimFilter := bson.M{
			"caterer_id": booking.CatererID,
			"date":       booking.EventDate,
			"$or": bson.A{
				bson.M{"available": true, "booking_id": bson.M{"$in": bson.A{"", nil}}},
				bson.M{"booking_id": booking.ID},
			},
		}
		claim := bson.M{"$set": bson.M{
			"caterer_id": booking.CatererID,
			"date":       booking.EventDate,
			"available":  false,
			"reason":     models.DefaultBlockReason,
			"booking_id": booking.ID,
			"updated_at": time.Now().UTC(),
		}}
		if _, err := repo.availabilityColl.UpdateOne(sc, claimFilter, claim,
			options.Update().SetUpsert(true)); err != nil {
			if mongo.IsDuplicateKeyError(err) {
				return utils.NewConflict("date %s is no longer available for this caterer", booking.EventDate)
			}
			return fmt.Errorf("failed to claim date: %w", err)
		}

		filter := bson.M{"id": booking.ID, "status": models.BookingStatusPending}
		update := bson.M{"$set": bson.M{
			"status":     models.BookingStatusConfirmed,
			"updated_at": time.Now().UTC(),
		}}
		res, err := repo.bookingColl.UpdateOne(sc, filter, update)
		if err != nil {
			return fmt.Errorf("failed to confirm booking: %w", err)
		}
		if res.MatchedCount == 0 {
			// Lost the race to another transition; roll the claim back too.
			return errStatusGuard
		}
		transitioned = true
		return nil
	}

	err = mongo.WithSession(ctx, sess, func(sc mongo.SessionContext) error {
		if err := sc.StartTransaction(); err != nil {
			return err
		}
		if err := txnFn(sc); err != nil {
			_ = sc.AbortTransaction(sc)
			return err
		}
		return sc.CommitTransaction(sc)
	})
	if err == errStatusGuard {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return transitioned, nil
}

// ReleaseDateLock frees the availability claim held by a booking, if any.
// The record stays in the ledger as an open date.
func (repo *MongoBookingRepo) ReleaseDateLock(ctx context.Context, bookingID string) error {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	update := bson.M{"$set": bson.M{
		"available":  true,
		"reason":     "",
		"booking_id": "",
		"updated_at": time.Now().UTC(),
	}}
	if _, err := repo.availabilityColl.UpdateOne(ctx, bson.M{"booking_id": bookingID}, update); err != nil {
		return fmt.Errorf("failed to release date for booking %s: %w", bookingID, err)
	}
	return nil
}

var errStatusGuard = fmt.Errorf("status guard did not match")
