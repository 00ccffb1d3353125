package verification

import (
	"context"
	"testing"

	bookingRepo "caterbook/database/repository/booking"
	"caterbook/models"
	"caterbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeVerificationRepo struct {
	records  map[string]*models.IdentityVerification
	attempts []models.VerificationAttempt
}

func newFakeVerificationRepo() *fakeVerificationRepo {
	return &fakeVerificationRepo{records: make(map[string]*models.IdentityVerification)}
}

func (r *fakeVerificationRepo) GetByUserID(ctx context.Context, userID string) (*models.IdentityVerification, error) {
	rec, ok := r.records[userID]
	if !ok {
		return nil, nil
	}
	copied := *rec
	return &copied, nil
}

func (r *fakeVerificationRepo) Upsert(ctx context.Context, record *models.IdentityVerification) error {
	copied := *record
	r.records[record.UserID] = &copied
	return nil
}

func (r *fakeVerificationRepo) AppendAttempt(ctx context.Context, attempt *models.VerificationAttempt) error {
	r.attempts = append(r.attempts, *attempt)
	return nil
}

func (r *fakeVerificationRepo) FinalizeAttempt(ctx context.Context, userID, bookingID, step, status string, details map[string]any) (bool, error) {
	for i := len(r.attempts) - 1; i >= 0; i-- {
		a := &r.attempts[i]
		if a.UserID == userID && a.BookingID == bookingID && a.Step == step && a.Status == models.AttemptStatusProcessing {
			a.Status = status
			a.Details = details
			return true, nil
		}
	}
	return false, nil
}

func (r *fakeVerificationRepo) ListAttemptsByBooking(ctx context.Context, bookingID string) ([]models.VerificationAttempt, error) {
	var out []models.VerificationAttempt
	for _, a := range r.attempts {
		if a.BookingID == bookingID {
			out = append(out, a)
		}
	}
	return out, nil
}

func (r *fakeVerificationRepo) ListAttemptsByUser(ctx context.Context, userID string) ([]models.VerificationAttempt, error) {
	var out []models.VerificationAttempt
	for _, a := range r.attempts {
		if a.UserID == userID {
			out = append(out, a)
		}
	}
	return out, nil
}

// stubBookingRepo only answers GetByID; the gate never writes bookings.
type stubBookingRepo struct {
	bookingRepo.BookingRepository
	bookings map[string]*models.Booking
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.bookings[id], nil
}

func newTestGate() (*DefaultVerificationGate, *fakeVerificationRepo) {
	repo := newFakeVerificationRepo()
	bookings := &stubBookingRepo{bookings: map[string]*models.Booking{
		"bk-1": {ID: "bk-1", CustomerID: "user-1", CatererID: "cat-1", Status: models.BookingStatusDraft},
		"bk-2": {ID: "bk-2", CustomerID: "user-1", CatererID: "cat-1", Status: models.BookingStatusCancelled},
	}}
	gate := &DefaultVerificationGate{
		Repo:     repo,
		Bookings: bookings,
		Oracle:   &MockIdentityOracle{},
	}
	return gate, repo
}

var customer = models.Principal{UserID: "user-1", Role: models.RoleCustomer}

func TestUploadDocumentAdvancesState(t *testing.T) {
	gate, repo := newTestGate()

	record, err := gate.UploadDocument(context.Background(), customer, "bk-1", "https://img/id-card.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateDocumentUploaded, record.State)
	assert.Equal(t, "Mock User", record.ExtractedFields["full_name"])

	attempts, _ := repo.ListAttemptsByBooking(context.Background(), "bk-1")
	require.Len(t, attempts, 2)
	assert.Equal(t, models.VerificationStepUpload, attempts[0].Step)
	assert.Equal(t, models.VerificationStepOCR, attempts[1].Step)
	assert.Equal(t, models.AttemptStatusVerified, attempts[1].Status)
}

func TestUploadDocumentFailureKeepsReasonVerbatim(t *testing.T) {
	gate, repo := newTestGate()

	record, err := gate.UploadDocument(context.Background(), customer, "bk-1", "https://img/invalid-doc.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateFailed, record.State)
	assert.Equal(t, "Document is invalid, expired, or not supported", record.FailureReason)

	attempts, _ := repo.ListAttemptsByBooking(context.Background(), "bk-1")
	require.Len(t, attempts, 2)
	assert.Equal(t, models.AttemptStatusFailed, attempts[1].Status)
}

func TestUploadSelfieRequiresDocumentFirst(t *testing.T) {
	gate, _ := newTestGate()

	_, err := gate.UploadSelfie(context.Background(), customer, "bk-1", "https://img/selfie.jpg")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeOutOfOrderStep))
}

func TestLivenessFailureKeepsDocumentStep(t *testing.T) {
	gate, _ := newTestGate()

	_, err := gate.UploadDocument(context.Background(), customer, "bk-1", "https://img/id-card.jpg")
	require.NoError(t, err)

	record, err := gate.UploadSelfie(context.Background(), customer, "bk-1", "https://img/spoof-selfie.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateDocumentUploaded, record.State)
	assert.Equal(t, "Liveness check failed", record.FailureReason)

	// Retrying only the selfie succeeds without re-uploading the document.
	record, err = gate.UploadSelfie(context.Background(), customer, "bk-1", "https://img/selfie.jpg")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateLivenessChecked, record.State)
	assert.Empty(t, record.FailureReason)
}

func TestFullSequenceMatchesInline(t *testing.T) {
	gate, repo := newTestGate()
	ctx := context.Background()

	_, err := gate.UploadDocument(ctx, customer, "bk-1", "https://img/id-card.jpg")
	require.NoError(t, err)
	_, err = gate.UploadSelfie(ctx, customer, "bk-1", "https://img/selfie.jpg")
	require.NoError(t, err)

	// No task client configured, so the match runs inline.
	record, err := gate.RequestMatch(ctx, customer, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateMatched, record.State)
	assert.True(t, record.Verified())
	assert.GreaterOrEqual(t, record.MatchScore, MatchScoreThreshold)
	require.NotNil(t, record.VerifiedAt)

	attempts, _ := repo.ListAttemptsByBooking(ctx, "bk-1")
	last := attempts[len(attempts)-1]
	assert.Equal(t, models.VerificationStepMatch, last.Step)
	assert.Equal(t, models.AttemptStatusVerified, last.Status)
}

func TestMatchRequiresLivenessFirst(t *testing.T) {
	gate, _ := newTestGate()

	_, err := gate.RequestMatch(context.Background(), customer, "bk-1")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeOutOfOrderStep))
}

func TestFaceMismatchFailsBelowThreshold(t *testing.T) {
	gate, _ := newTestGate()
	ctx := context.Background()

	_, err := gate.UploadDocument(ctx, customer, "bk-1", "https://img/id-card.jpg")
	require.NoError(t, err)
	_, err = gate.UploadSelfie(ctx, customer, "bk-1", "https://img/mismatch-selfie.jpg")
	require.NoError(t, err)

	record, err := gate.RequestMatch(ctx, customer, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateFailed, record.State)
	assert.Equal(t, "Face does not match ID photo", record.FailureReason)
	assert.False(t, record.Verified())
}

func TestMatchSettlesProcessingAttempt(t *testing.T) {
	gate, repo := newTestGate()
	ctx := context.Background()

	require.NoError(t, repo.Upsert(ctx, &models.IdentityVerification{
		UserID:      "user-1",
		State:       models.VerificationStateLivenessChecked,
		DocumentURL: "https://img/id-card.jpg",
		SelfieURL:   "https://img/selfie.jpg",
	}))
	// The processing row a scheduled match leaves behind for the client.
	require.NoError(t, repo.AppendAttempt(ctx, &models.VerificationAttempt{
		ID:        "att-1",
		UserID:    "user-1",
		BookingID: "bk-1",
		Step:      models.VerificationStepMatch,
		Status:    models.AttemptStatusProcessing,
	}))

	record, err := gate.Match(ctx, "user-1", "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.VerificationStateMatched, record.State)

	// The processing attempt is settled in place, not duplicated.
	attempts, _ := repo.ListAttemptsByBooking(ctx, "bk-1")
	require.Len(t, attempts, 1)
	assert.Equal(t, models.VerificationStepMatch, attempts[0].Step)
	assert.Equal(t, models.AttemptStatusVerified, attempts[0].Status)
	assert.Equal(t, 0.95, attempts[0].Details["match_score"])
}

func TestVerifiedUserSkipsFurtherSteps(t *testing.T) {
	gate, repo := newTestGate()
	ctx := context.Background()

	_, err := gate.UploadDocument(ctx, customer, "bk-1", "https://img/id-card.jpg")
	require.NoError(t, err)
	_, err = gate.UploadSelfie(ctx, customer, "bk-1", "https://img/selfie.jpg")
	require.NoError(t, err)
	_, err = gate.RequestMatch(ctx, customer, "bk-1")
	require.NoError(t, err)

	attemptsBefore := len(repo.attempts)

	// The record is per user, so a second booking needs no new steps.
	record, err := gate.UploadDocument(ctx, customer, "bk-1", "https://img/another-id.jpg")
	require.NoError(t, err)
	assert.True(t, record.Verified())
	assert.Len(t, repo.attempts, attemptsBefore)
}

func TestVerificationRejectsTerminalBooking(t *testing.T) {
	gate, _ := newTestGate()

	_, err := gate.UploadDocument(context.Background(), customer, "bk-2", "https://img/id-card.jpg")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeInvalidState))
}

func TestVerificationHidesForeignBookings(t *testing.T) {
	gate, _ := newTestGate()
	stranger := models.Principal{UserID: "user-9", Role: models.RoleCustomer}

	_, err := gate.UploadDocument(context.Background(), stranger, "bk-1", "https://img/id-card.jpg")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}
