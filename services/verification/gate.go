package verification

import (
	"context"
	"encoding/json"
	"time"

	bookingRepo "caterbook/database/repository/booking"
	verificationRepo "caterbook/database/repository/verification"
	"caterbook/models"
	"caterbook/utils"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"go.uber.org/zap"
)

// MatchScoreThreshold is the single system-wide face-match acceptance
// policy: oracle success alone is not enough, the score must clear it.
const MatchScoreThreshold = 0.92

// TypeFaceMatch is the asynq task type for the out-of-band face match.
const TypeFaceMatch = "verification:match"

// FaceMatchPayload is the task payload for TypeFaceMatch.
type FaceMatchPayload struct {
	UserID    string `json:"user_id"`
	BookingID string `json:"booking_id"`
}

// VerificationGate runs the ordered identity-verification steps for a user
// against a booking: document upload -> liveness -> face match. The user
// record is authoritative; every attempt lands in the per-booking audit
// trail. A user verified once satisfies future bookings.
type VerificationGate interface {
	UploadDocument(ctx context.Context, actor models.Principal, bookingID, documentURL string) (*models.IdentityVerification, error)
	UploadSelfie(ctx context.Context, actor models.Principal, bookingID, selfieURL string) (*models.IdentityVerification, error)
	// RequestMatch schedules the face match out of band and appends a
	// processing attempt the client can poll. Without a task client the
	// match runs inline.
	RequestMatch(ctx context.Context, actor models.Principal, bookingID string) (*models.IdentityVerification, error)
	// Match executes the face match. Called by the task worker.
	Match(ctx context.Context, userID, bookingID string) (*models.IdentityVerification, error)
	Status(ctx context.Context, userID string) (*models.IdentityVerification, error)
	Attempts(ctx context.Context, actor models.Principal, bookingID string) ([]models.VerificationAttempt, error)
	// AttemptHistory returns the actor's own attempts across all bookings.
	AttemptHistory(ctx context.Context, actor models.Principal) ([]models.VerificationAttempt, error)
}

// DefaultVerificationGate implements VerificationGate.
type DefaultVerificationGate struct {
	Repo       verificationRepo.VerificationRepository
	Bookings   bookingRepo.BookingRepository
	Oracle     IdentityOracle
	TaskClient *asynq.Client // optional; nil runs matches inline
}

// resolveBooking loads the booking and checks the actor may verify against it.
func (g *DefaultVerificationGate) resolveBooking(ctx context.Context, actor models.Principal, bookingID string) (*models.Booking, error) {
	booking, err := g.Bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, utils.NewNotFound("booking %s not found", bookingID)
	}
	if actor.Role != models.RoleAdmin && booking.CustomerID != actor.UserID {
		return nil, utils.NewNotFound("booking %s not found", bookingID)
	}
	if booking.IsTerminal() {
		return nil, utils.NewInvalidState("booking %s is %s and cannot be verified", bookingID, booking.Status)
	}
	return booking, nil
}

func (g *DefaultVerificationGate) record(ctx context.Context, userID string) (*models.IdentityVerification, error) {
	record, err := g.Repo.GetByUserID(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record == nil {
		record = &models.IdentityVerification{
			UserID: userID,
			State:  models.VerificationStateNotStarted,
		}
	}
	return record, nil
}

func (g *DefaultVerificationGate) appendAttempt(ctx context.Context, userID, bookingID, step, status string, details map[string]any) {
	attempt := &models.VerificationAttempt{
		ID:        uuid.New().String(),
		UserID:    userID,
		BookingID: bookingID,
		Step:      step,
		Status:    status,
		Details:   details,
		CreatedAt: time.Now().UTC(),
	}
	if err := g.Repo.AppendAttempt(ctx, attempt); err != nil {
		// The audit trail must not block the verification flow itself.
		utils.GetLogger().Error("failed to append verification attempt",
			zap.String("step", step), zap.Error(err))
	}
}

// settleMatchAttempt finalizes the processing match attempt left by
// RequestMatch, or appends a fresh one when the match ran inline.
func (g *DefaultVerificationGate) settleMatchAttempt(ctx context.Context, userID, bookingID, status string, details map[string]any) {
	ok, err := g.Repo.FinalizeAttempt(ctx, userID, bookingID, models.VerificationStepMatch, status, details)
	if err != nil {
		utils.GetLogger().Error("failed to finalize match attempt",
			zap.String("userID", userID), zap.Error(err))
		return
	}
	if !ok {
		g.appendAttempt(ctx, userID, bookingID, models.VerificationStepMatch, status, details)
	}
}

// UploadDocument stores the document reference and runs the OCR check.
// It restarts the sequence: a fresh document invalidates prior liveness
// and match results.
func (g *DefaultVerificationGate) UploadDocument(ctx context.Context, actor models.Principal, bookingID, documentURL string) (*models.IdentityVerification, error) {
	if documentURL == "" {
		return nil, utils.NewValidationError("document reference is required")
	}
	booking, err := g.resolveBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	record, err := g.record(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if record.Verified() {
		return record, nil
	}

	g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepUpload,
		models.AttemptStatusVerified, map[string]any{"document_url": documentURL})

	result, err := g.Oracle.VerifyDocument(ctx, documentURL)
	if err != nil {
		return nil, utils.NewOracleFailure("document verification unavailable: %v", err)
	}

	record.DocumentURL = documentURL
	record.UpdatedAt = time.Now().UTC()
	if result.OK {
		record.State = models.VerificationStateDocumentUploaded
		record.ExtractedFields = result.ExtractedFields
		record.FailureReason = ""
		g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepOCR,
			models.AttemptStatusVerified, map[string]any{"extracted_fields": result.ExtractedFields})
	} else {
		record.State = models.VerificationStateFailed
		record.FailureReason = result.Reason
		g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepOCR,
			models.AttemptStatusFailed, map[string]any{"error": result.Reason})
	}
	if err := g.Repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// UploadSelfie runs the liveness check. Requires a successful document step.
func (g *DefaultVerificationGate) UploadSelfie(ctx context.Context, actor models.Principal, bookingID, selfieURL string) (*models.IdentityVerification, error) {
	if selfieURL == "" {
		return nil, utils.NewValidationError("selfie reference is required")
	}
	booking, err := g.resolveBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	record, err := g.record(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if record.Verified() {
		return record, nil
	}
	if record.State != models.VerificationStateDocumentUploaded &&
		record.State != models.VerificationStateLivenessChecked {
		return nil, utils.NewOutOfOrderStep("liveness requires a verified document upload first")
	}

	result, err := g.Oracle.CheckLiveness(ctx, selfieURL)
	if err != nil {
		return nil, utils.NewOracleFailure("liveness check unavailable: %v", err)
	}

	record.SelfieURL = selfieURL
	record.UpdatedAt = time.Now().UTC()
	if result.OK {
		record.State = models.VerificationStateLivenessChecked
		record.LivenessToken = result.Token
		record.FailureReason = ""
		g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepLiveness,
			models.AttemptStatusVerified, map[string]any{"liveness_token": result.Token})
	} else {
		// The document step stands; only liveness needs retrying.
		record.FailureReason = result.Reason
		g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepLiveness,
			models.AttemptStatusFailed, map[string]any{"error": result.Reason})
	}
	if err := g.Repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

// RequestMatch enqueues the out-of-band face match. The client sees a
// processing attempt immediately and polls Attempts or Status for the result.
func (g *DefaultVerificationGate) RequestMatch(ctx context.Context, actor models.Principal, bookingID string) (*models.IdentityVerification, error) {
	booking, err := g.resolveBooking(ctx, actor, bookingID)
	if err != nil {
		return nil, err
	}
	record, err := g.record(ctx, booking.CustomerID)
	if err != nil {
		return nil, err
	}
	if record.Verified() {
		return record, nil
	}
	if record.State != models.VerificationStateLivenessChecked {
		return nil, utils.NewOutOfOrderStep("face match requires verified document and liveness steps first")
	}

	if g.TaskClient == nil {
		return g.Match(ctx, record.UserID, bookingID)
	}

	g.appendAttempt(ctx, record.UserID, bookingID, models.VerificationStepMatch,
		models.AttemptStatusProcessing, nil)
	payload, err := json.Marshal(FaceMatchPayload{UserID: record.UserID, BookingID: bookingID})
	if err != nil {
		return nil, err
	}
	if _, err := g.TaskClient.EnqueueContext(ctx, asynq.NewTask(TypeFaceMatch, payload)); err != nil {
		return nil, utils.NewOracleFailure("could not schedule face match: %v", err)
	}
	return record, nil
}

// Match compares the stored document and selfie. Success requires both an
// affirmative oracle result and a score at or above MatchScoreThreshold.
func (g *DefaultVerificationGate) Match(ctx context.Context, userID, bookingID string) (*models.IdentityVerification, error) {
	record, err := g.record(ctx, userID)
	if err != nil {
		return nil, err
	}
	if record.Verified() {
		return record, nil
	}
	if record.State != models.VerificationStateLivenessChecked {
		return nil, utils.NewOutOfOrderStep("face match requires verified document and liveness steps first")
	}

	result, err := g.Oracle.MatchFaces(ctx, record.DocumentURL, record.SelfieURL)
	if err != nil {
		return nil, utils.NewOracleFailure("face match unavailable: %v", err)
	}

	record.MatchScore = result.Score
	record.UpdatedAt = time.Now().UTC()
	if result.OK && result.Score >= MatchScoreThreshold {
		now := time.Now().UTC()
		record.State = models.VerificationStateMatched
		record.VerifiedAt = &now
		record.FailureReason = ""
		g.settleMatchAttempt(ctx, userID, bookingID,
			models.AttemptStatusVerified, map[string]any{"match_score": result.Score})
	} else {
		reason := result.Reason
		if reason == "" {
			reason = "match score below acceptance threshold"
		}
		record.State = models.VerificationStateFailed
		record.FailureReason = reason
		g.settleMatchAttempt(ctx, userID, bookingID,
			models.AttemptStatusFailed, map[string]any{"match_score": result.Score, "error": reason})
	}
	if err := g.Repo.Upsert(ctx, record); err != nil {
		return nil, err
	}
	return record, nil
}

func (g *DefaultVerificationGate) Status(ctx context.Context, userID string) (*models.IdentityVerification, error) {
	return g.record(ctx, userID)
}

func (g *DefaultVerificationGate) Attempts(ctx context.Context, actor models.Principal, bookingID string) ([]models.VerificationAttempt, error) {
	if _, err := g.resolveBooking(ctx, actor, bookingID); err != nil {
		return nil, err
	}
	return g.Repo.ListAttemptsByBooking(ctx, bookingID)
}

func (g *DefaultVerificationGate) AttemptHistory(ctx context.Context, actor models.Principal) ([]models.VerificationAttempt, error) {
	return g.Repo.ListAttemptsByUser(ctx, actor.UserID)
}
