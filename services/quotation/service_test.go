package quotation

import (
	"context"
	"testing"
	"time"

	"caterbook/config"
	bookingRepo "caterbook/database/repository/booking"
	"caterbook/models"
	"caterbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeQuotationRepo struct {
	byBooking map[string]*models.Quotation
}

func newFakeQuotationRepo() *fakeQuotationRepo {
	return &fakeQuotationRepo{byBooking: make(map[string]*models.Quotation)}
}

func (r *fakeQuotationRepo) Create(ctx context.Context, q *models.Quotation) error {
	if _, ok := r.byBooking[q.BookingID]; ok {
		return utils.NewConflict("quotation already exists for booking %s", q.BookingID)
	}
	copied := *q
	r.byBooking[q.BookingID] = &copied
	return nil
}

func (r *fakeQuotationRepo) GetByBookingID(ctx context.Context, bookingID string) (*models.Quotation, error) {
	q, ok := r.byBooking[bookingID]
	if !ok {
		return nil, nil
	}
	copied := *q
	return &copied, nil
}

func (r *fakeQuotationRepo) TransitionStatus(ctx context.Context, bookingID string, from []string, to, contractURL string) (bool, error) {
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

// stubBookingRepo answers reads and records pricing side effects.
type stubBookingRepo struct {
	bookingRepo.BookingRepository
	bookings map[string]*models.Booking
}

func (r *stubBookingRepo) GetByID(ctx context.Context, id string) (*models.Booking, error) {
	return r.bookings[id], nil
}

func (r *stubBookingRepo) SetPricing(ctx context.Context, id string, totalAmount, reservationFee string) error {
	if b, ok := r.bookings[id]; ok {
		b.TotalAmount = totalAmount
		b.ReservationFee = reservationFee
	}
	return nil
}

func (r *stubBookingRepo) SetExpiresAt(ctx context.Context, id string, at time.Time) error {
	if b, ok := r.bookings[id]; ok {
		b.ExpiresAt = &at
	}
	return nil
}

type fakeCatalogRepo struct {
	caterers map[string]*models.CatererProfile
	packages map[string]*models.CateringPackage
}

func (r *fakeCatalogRepo) GetCaterer(ctx context.Context, catererID string) (*models.CatererProfile, error) {
	return r.caterers[catererID], nil
}

func (r *fakeCatalogRepo) GetCatererByOwner(ctx context.Context, ownerUserID string) (*models.CatererProfile, error) {
	for _, p := range r.caterers {
		if p.OwnerUserID == ownerUserID {
			return p, nil
		}
	}
	return nil, nil
}

func (r *fakeCatalogRepo) GetPackage(ctx context.Context, packageID string) (*models.CateringPackage, error) {
	return r.packages[packageID], nil
}

func (r *fakeCatalogRepo) ListPackagesByCaterer(ctx context.Context, catererID string) ([]models.CateringPackage, error) {
	return nil, nil
}

var (
	customer = models.Principal{UserID: "user-1", Role: models.RoleCustomer}
	caterer  = models.Principal{UserID: "owner-1", Role: models.RoleCaterer}
)

func newTestService() (*DefaultQuotationService, *stubBookingRepo) {
	config.AppConfig.ReservationHoldHours = 24

	bookings := &stubBookingRepo{bookings: map[string]*models.Booking{
		"bk-1": {
			ID:         "bk-1",
			CustomerID: "user-1",
			CatererID:  "cat-1",
			PackageID:  "pkg-1",
			EventDate:  "2026-10-10",
			GuestCount: 100,
			Status:     models.BookingStatusDraft,
			MenuItems: []models.BookingMenuItem{
				{MenuItemID: "mi-1", Name: "Lechon Belly", IsAddon: true, UnitPrice: "3500.00", Quantity: 2},
				{MenuItemID: "mi-2", Name: "Steamed Rice", IsAddon: false, UnitPrice: "0.00", Quantity: 1},
			},
		},
		"bk-flat": {
			ID:         "bk-flat",
			CustomerID: "user-1",
			CatererID:  "cat-1",
			PackageID:  "pkg-flat",
			EventDate:  "2026-10-11",
			GuestCount: 40,
			Status:     models.BookingStatusDraft,
		},
		"bk-nopkg": {
			ID:         "bk-nopkg",
			CustomerID: "user-1",
			CatererID:  "cat-1",
			EventDate:  "2026-10-12",
			GuestCount: 10,
			Status:     models.BookingStatusDraft,
		},
	}}
	catalog := &fakeCatalogRepo{
		caterers: map[string]*models.CatererProfile{
			"cat-1": {ID: "cat-1", OwnerUserID: "owner-1"},
		},
		packages: map[string]*models.CateringPackage{
			"pkg-1":    {ID: "pkg-1", CatererID: "cat-1", Name: "Fiesta Buffet", Price: "450.00", PriceUnit: models.PriceUnitPerGuest, IsActive: true},
			"pkg-flat": {ID: "pkg-flat", CatererID: "cat-1", Name: "Intimate Set", Price: "25000.00", PriceUnit: models.PriceUnitFlat, IsActive: true},
		},
	}
	return NewDefaultQuotationService(newFakeQuotationRepo(), bookings, catalog), bookings
}

func TestCreateQuotationPerGuestWithAddons(t *testing.T) {
	svc, bookings := newTestService()

	q, err := svc.CreateOrFetch(context.Background(), customer, "bk-1", 0)
	require.NoError(t, err)

	// 450 * 100 guests + 3500 * 2 add-on trays.
	assert.Equal(t, "52000.00", q.TotalAmount)
	assert.Equal(t, models.DefaultDownpaymentPercent, q.DownpaymentPercent)
	assert.Equal(t, "15600.00", q.ReservationFee)
	assert.Equal(t, models.QuotationStatusDraft, q.Status)
	require.Len(t, q.Addons, 1)
	assert.Equal(t, "Lechon Belly", q.Addons[0].Name)
	assert.Equal(t, "7000.00", q.Addons[0].LineTotal)

	// Pricing lands on the booking and the payment deadline is armed.
	b := bookings.bookings["bk-1"]
	assert.Equal(t, "52000.00", b.TotalAmount)
	assert.Equal(t, "15600.00", b.ReservationFee)
	require.NotNil(t, b.ExpiresAt)
	assert.WithinDuration(t, time.Now().UTC().Add(24*time.Hour), *b.ExpiresAt, time.Minute)
}

func TestCreateQuotationFlatPriceIgnoresGuestCount(t *testing.T) {
	svc, _ := newTestService()

	q, err := svc.CreateOrFetch(context.Background(), customer, "bk-flat", 40)
	require.NoError(t, err)
	assert.Equal(t, "25000.00", q.TotalAmount)
	assert.Equal(t, 40, q.DownpaymentPercent)
	assert.Equal(t, "10000.00", q.ReservationFee)
}

func TestCreateQuotationIsIdempotent(t *testing.T) {
	svc, _ := newTestService()

	first, err := svc.CreateOrFetch(context.Background(), customer, "bk-1", 35)
	require.NoError(t, err)

	// A second call with a different percent returns the stored quotation.
	second, err := svc.CreateOrFetch(context.Background(), customer, "bk-1", 50)
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, 35, second.DownpaymentPercent)
	assert.Equal(t, first.ReservationFee, second.ReservationFee)
}

func TestCreateQuotationRejectsOutOfRangePercent(t *testing.T) {
	svc, _ := newTestService()

	for _, percent := range []int{10, 29, 51, 90} {
		_, err := svc.CreateOrFetch(context.Background(), customer, "bk-1", percent)
		require.Error(t, err, "percent %d", percent)
		assert.True(t, utils.HasCode(err, utils.CodeValidationError), "percent %d", percent)
	}
}

func TestCreateQuotationRequiresPackage(t *testing.T) {
	svc, _ := newTestService()

	_, err := svc.CreateOrFetch(context.Background(), customer, "bk-nopkg", 0)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeInvalidState))
}

func TestCreateQuotationHiddenFromOutsiders(t *testing.T) {
	svc, _ := newTestService()
	stranger := models.Principal{UserID: "user-9", Role: models.RoleCustomer}

	_, err := svc.CreateOrFetch(context.Background(), stranger, "bk-1", 0)
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestQuotationLifecycleSendThenSign(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateOrFetch(ctx, customer, "bk-1", 0)
	require.NoError(t, err)

	sent, err := svc.Send(ctx, caterer, "bk-1")
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusSent, sent.Status)

	signed, err := svc.Sign(ctx, customer, "bk-1", "https://contracts/bk-1.pdf")
	require.NoError(t, err)
	assert.Equal(t, models.QuotationStatusSigned, signed.Status)
	assert.Equal(t, "https://contracts/bk-1.pdf", signed.ContractURL)
}

func TestSendRequiresCaterer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateOrFetch(ctx, customer, "bk-1", 0)
	require.NoError(t, err)

	_, err = svc.Send(ctx, customer, "bk-1")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeForbidden))
}

func TestSignRequiresCustomer(t *testing.T) {
	svc, _ := newTestService()
	ctx := context.Background()

	_, err := svc.CreateOrFetch(ctx, customer, "bk-1", 0)
	require.NoError(t, err)

	_, err = svc.Sign(ctx, caterer, "bk-1", "")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeForbidden))
}
