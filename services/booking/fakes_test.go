package booking

import (
	"context"
	"sort"
	"time"

	"caterbook/models"
	"caterbook/services/verification"
	"caterbook/utils"
)

// memBookingRepo is an in-memory BookingRepository with the same guarded
// transition semantics as the Mongo implementation.
type memBookingRepo struct {
	bookings map[string]*models.Booking
	history  []models.BookingHistory
	flags    []models.FraudFlag
	claims   map[string]string // catererID|date -> bookingID
}

func newMemBookingRepo() *memBookingRepo {
	return &memBookingRepo{
		bookings: make(map[string]*models.Booking),
		claims:   make(map[string]string),
	}
}

func claimKey(catererID, date string) string { return catererID + "|" + date }

func (r *memBookingRepo) Create(ctx context.Context, b *models.Booking) error {
	copied := *b
	r.bookings[b.ID] = &copied
	return nil
}

func (r *memBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	b, ok := r.bookings[id]
	if !ok {
		return nil, nil
	}
	copied := *b
	return &copied, nil
}

func (r *memBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CustomerID == customerID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListByCaterer(ctx context.Context, catererID string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.CatererID == catererID {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) TransitionStatus(ctx context.Context, id string, from []string, to string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = to
			b.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) MarkPaid(ctx context.Context, id string, from []string, method string) (bool, error) {
	b, ok := r.bookings[id]
	if !ok || b.Flagged {
		return false, nil
	}
	for _, f := range from {
		if b.Status == f {
			b.Status = models.BookingStatusConfirmed
			b.PaymentStatus = models.PaymentStatusPaid
			b.PaymentMethod = method
			b.UpdatedAt = time.Now().UTC()
			return true, nil
		}
	}
	return false, nil
}

func (r *memBookingRepo) ConfirmWithDateLock(ctx context.Context, booking *models.Booking) (bool, error) {
	key := claimKey(booking.CatererID, booking.EventDate)
	if holder, claimed := r.claims[key]; claimed && holder != booking.ID {
		return false, utils.NewConflict("date %s is no longer available for this caterer", booking.EventDate)
	}
	b, ok := r.bookings[booking.ID]
	if !ok || b.Status != models.BookingStatusPending {
		return false, nil
	}
	r.claims[key] = booking.ID
	b.Status = models.BookingStatusConfirmed
	b.UpdatedAt = time.Now().UTC()
	return true, nil
}

func (r *memBookingRepo) ReleaseDateLock(ctx context.Context, bookingID string) error {
	for key, holder := range r.claims {
		if holder == bookingID {
			delete(r.claims, key)
		}
	}
	return nil
}

func (r *memBookingRepo) SetExpiresAt(ctx context.Context, id string, at time.Time) error {
	if b, ok := r.bookings[id]; ok {
		b.ExpiresAt = &at
	}
	return nil
}

func (r *memBookingRepo) SetPricing(ctx context.Context, id string, totalAmount, reservationFee string) error {
	if b, ok := r.bookings[id]; ok {
		b.TotalAmount = totalAmount
		b.ReservationFee = reservationFee
	}
	return nil
}

func (r *memBookingRepo) SetFlagged(ctx context.Context, id string, flagged bool) error {
	if b, ok := r.bookings[id]; ok {
		b.Flagged = flagged
	}
	return nil
}

func (r *memBookingRepo) ListOverdue(ctx context.Context, now time.Time) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		open := b.Status == models.BookingStatusDraft || b.Status == models.BookingStatusPending
		if open && b.ExpiresAt != nil && b.ExpiresAt.Before(now) {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) ListElapsedConfirmed(ctx context.Context, beforeDate string) ([]models.Booking, error) {
	var out []models.Booking
	for _, b := range r.bookings {
		if b.Status == models.BookingStatusConfirmed && b.EventDate < beforeDate {
			out = append(out, *b)
		}
	}
	return out, nil
}

func (r *memBookingRepo) AppendHistory(ctx context.Context, entry *models.BookingHistory) error {
	r.history = append(r.history, *entry)
	return nil
}

func (r *memBookingRepo) History(ctx context.Context, bookingID string) ([]models.BookingHistory, error) {
	var out []models.BookingHistory
	for _, h := range r.history {
		if h.BookingID == bookingID {
			out = append(out, h)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func (r *memBookingRepo) AddFraudFlag(ctx context.Context, flag *models.FraudFlag) error {
	r.flags = append(r.flags, *flag)
	return nil
}

func (r *memBookingRepo) FraudFlags(ctx context.Context, bookingID string) ([]models.FraudFlag, error) {
	var out []models.FraudFlag
	for _, f := range r.flags {
		if f.BookingID == bookingID {
			out = append(out, f)
		}
	}
	return out, nil
}

// memDraftStore keeps wizard drafts in a map.
type memDraftStore struct {
	drafts map[string]*models.BookingDraft
}

func newMemDraftStore() *memDraftStore {
	return &memDraftStore{drafts: make(map[string]*models.BookingDraft)}
}

func (s *memDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	copied := *draft
	s.drafts[draft.DraftID] = &copied
	return nil
}

func (s *memDraftStore) Get(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	d, ok := s.drafts[draftID]
	if !ok {
		return nil, nil
	}
	copied := *d
	return &copied, nil
}

func (s *memDraftStore) Delete(ctx context.Context, draftID string) error {
	delete(s.drafts, draftID)
	return nil
}

// fakeAvailability answers IsBlocked from a set of blocked dates.
type fakeAvailability struct {
	blocked map[string]string // catererID|date -> reason
}

func newFakeAvailability() *fakeAvailability {
	return &fakeAvailability{blocked: make(map[string]string)}
}

func (a *fakeAvailability) IsBlocked(ctx context.Context, catererID, date string) (bool, string, error) {
	reason, ok := a.blocked[claimKey(catererID, date)]
	if !ok {
		return false, "", nil
	}
	if reason == "" {
		reason = models.DefaultBlockReason
	}
	return true, reason, nil
}

func (a *fakeAvailability) SetAvailability(ctx context.Context, actor models.Principal, catererID, date string, available bool, reason string) error {
	key := claimKey(catererID, date)
	if available {
		delete(a.blocked, key)
	} else {
		a.blocked[key] = reason
	}
	return nil
}

func (a *fakeAvailability) ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error) {
	return nil, nil
}

// stubGate reports a fixed verification state per user.
type stubGate struct {
	verification.VerificationGate
	states map[string]string
}

func (g *stubGate) Status(ctx context.Context, userID string) (*models.IdentityVerification, error) {
	state, ok := g.states[userID]
	if !ok {
		state = models.VerificationStateNotStarted
	}
	return &models.IdentityVerification{UserID: userID, State: state}, nil
}

// memQuotationRepo holds at most one quotation per booking.
type memQuotationRepo struct {
	byBooking map[string]*models.Quotation
}

func newMemQuotationRepo() *memQuotationRepo {
	return &memQuotationRepo{byBooking: make(map[string]*models.Quotation)}
}

func (r *memQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	if _, ok := r.byBooking[q.BookingID]; ok {
		return utils.NewConflict("quotation already exists for booking %s", q.BookingID)
	}
	copied := *q
	r.byBooking[q.BookingID] = &copied
	return nil
}

func (r *memQuotationRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	q, ok := r.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (r *memQuotationRepo) TransitionStatus(ctx context.Context, bookingID string, from []string, to, contractURL string) (bool, error) {
	q, ok := r.byBooking[bookingID]
	if !ok {
		return false, nil
	}
	for _, f := range from {
		if q.Status == f {
			q.Status = to
			if contractURL != "" {
				q.ContractURL = contractURL
			}
			return true, nil
		}
	}
	return false, nil
}

// memCatalog serves fixed caterer and package fixtures.
type memCatalog struct {
	caterers map[string]*models.CatererProfile
	packages map[string]*models.CateringPackage
}

func (r *memCatalog) GetCaterer(ctx context.Context, catererID string) (*models.CatererProfile, error) {
	return r.caterers[catererID], nil
}

func (r *memCatalog) GetCatererByOwner(ctx context.Context, ownerUserID string) (*models.CatererProfile, error) {
	for _, p := range r.caterers {
		if p.OwnerUserID == ownerUserID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *memCatalog) GetPackage(ctx context.Context, packageID string) (*models.CateringPackage, error) {
	return r.packages[packageID], nil
}

func (r *memCatalog) ListPackagesByCaterer(ctx context.Context, catererID string) ([]models.CateringPackage, error) {
	return nil, nil
}

// recordingNotifier captures emitted events for assertions.
type recordingNotifier struct {
	events []string
}

func (n *recordingNotifier) NotifyBookingEvent(ctx context.Context, event string, booking *models.Booking) {
	n.events = append(n.events, event)
}
