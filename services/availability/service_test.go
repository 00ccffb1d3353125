package availability

import (
	"context"
	"testing"

	"caterbook/models"
	"caterbook/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeAvailabilityRepo struct {
	entries map[string]*models.Availability
}

func newFakeAvailabilityRepo() *fakeAvailabilityRepo {
	return &fakeAvailabilityRepo{entries: make(map[string]*models.Availability)}
}

func (r *fakeAvailabilityRepo) key(catererID, date string) string {
	return catererID + "|" + date
}

func (r *fakeAvailabilityRepo) Upsert(ctx context.Context, entry *models.Availability) error {
	key := r.key(entry.CatererID, entry.Date)
	if prev, ok := r.entries[key]; ok {
		// Booking claims survive caterer writes, matching the store.
		entry.BookingID = prev.BookingID
	}
	r.entries[key] = entry
	return nil
}

func (r *fakeAvailabilityRepo) Get(ctx context.Context, catererID, date string) (*models.Availability, error) {
	return r.entries[r.key(catererID, date)], nil
}

func (r *fakeAvailabilityRepo) ListBlocked(ctx context.Context, catererID string) ([]models.Availability, error) {
	var blocked []models.Availability
	for _, e := range r.entries {
		if e.CatererID == catererID && !e.Available {
			blocked = append(blocked, *e)
		}
	}
	return blocked, nil
}

type fakeCatalogRepo struct {
	caterers map[string]*models.CatererProfile
	packages map[string]*models.CateringPackage
}

func newFakeCatalogRepo() *fakeCatalogRepo {
	return &fakeCatalogRepo{
		caterers: make(map[string]*models.CatererProfile),
		packages: make(map[string]*models.CateringPackage),
	}
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
	var out []models.CateringPackage
	for _, p := range r.packages {
		if p.CatererID == catererID {
			out = append(out, *p)
		}
	}
	return out, nil
}

func newTestService() (*DefaultAvailabilityService, *fakeAvailabilityRepo, *fakeCatalogRepo) {
	repo := newFakeAvailabilityRepo()
	catalog := newFakeCatalogRepo()
	catalog.caterers["cat-1"] = &models.CatererProfile{
		ID:          "cat-1",
		OwnerUserID: "owner-1",
	}
	return &DefaultAvailabilityService{Repo: repo, Catalog: catalog}, repo, catalog
}

func TestIsBlockedDefaultsToAvailable(t *testing.T) {
	svc, _, _ := newTestService()

	blocked, reason, err := svc.IsBlocked(context.Background(), "cat-1", "2026-10-10")
	require.NoError(t, err)
	assert.False(t, blocked)
	assert.Empty(t, reason)
}

func TestIsBlockedRejectsMalformedDate(t *testing.T) {
	svc, _, _ := newTestService()

	_, _, err := svc.IsBlocked(context.Background(), "cat-1", "10/10/2026")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeValidationError))
}

func TestIsBlockedSuppliesDefaultReason(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.entries["cat-1|2026-10-10"] = &models.Availability{
		CatererID: "cat-1",
		Date:      "2026-10-10",
		Available: false,
	}

	blocked, reason, err := svc.IsBlocked(context.Background(), "cat-1", "2026-10-10")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, models.DefaultBlockReason, reason)
}

func TestSetAvailabilityOwnerBlocksDate(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := models.Principal{UserID: "owner-1", Role: models.RoleCaterer}

	err := svc.SetAvailability(context.Background(), owner, "cat-1", "2026-10-10", false, "Private event")
	require.NoError(t, err)

	entry := repo.entries["cat-1|2026-10-10"]
	require.NotNil(t, entry)
	assert.False(t, entry.Available)
	assert.Equal(t, "Private event", entry.Reason)

	blocked, reason, err := svc.IsBlocked(context.Background(), "cat-1", "2026-10-10")
	require.NoError(t, err)
	assert.True(t, blocked)
	assert.Equal(t, "Private event", reason)
}

func TestSetAvailabilityRejectsDateHeldByBooking(t *testing.T) {
	svc, repo, _ := newTestService()
	owner := models.Principal{UserID: "owner-1", Role: models.RoleCaterer}
	repo.entries["cat-1|2026-10-10"] = &models.Availability{
		CatererID: "cat-1",
		Date:      "2026-10-10",
		Available: false,
		Reason:    models.DefaultBlockReason,
		BookingID: "bk-1",
	}

	err := svc.SetAvailability(context.Background(), owner, "cat-1", "2026-10-10", true, "")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeConflict))

	// The claim is untouched and the date stays blocked.
	entry := repo.entries["cat-1|2026-10-10"]
	assert.Equal(t, "bk-1", entry.BookingID)
	assert.False(t, entry.Available)
}

func TestSetAvailabilityLastWriteWins(t *testing.T) {
	svc, _, _ := newTestService()
	owner := models.Principal{UserID: "owner-1", Role: models.RoleCaterer}

	require.NoError(t, svc.SetAvailability(context.Background(), owner, "cat-1", "2026-10-10", false, "Fully Booked"))
	require.NoError(t, svc.SetAvailability(context.Background(), owner, "cat-1", "2026-10-10", true, ""))

	blocked, _, err := svc.IsBlocked(context.Background(), "cat-1", "2026-10-10")
	require.NoError(t, err)
	assert.False(t, blocked)
}

func TestSetAvailabilityRejectsNonOwner(t *testing.T) {
	svc, _, _ := newTestService()
	stranger := models.Principal{UserID: "other", Role: models.RoleCaterer}

	err := svc.SetAvailability(context.Background(), stranger, "cat-1", "2026-10-10", false, "")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeForbidden))
}

func TestSetAvailabilityAdminBypassesOwnership(t *testing.T) {
	svc, _, _ := newTestService()
	admin := models.Principal{UserID: "ops-1", Role: models.RoleAdmin}

	err := svc.SetAvailability(context.Background(), admin, "cat-1", "2026-10-10", false, "Operator hold")
	require.NoError(t, err)
}

func TestSetAvailabilityUnknownCaterer(t *testing.T) {
	svc, _, _ := newTestService()
	admin := models.Principal{UserID: "ops-1", Role: models.RoleAdmin}

	err := svc.SetAvailability(context.Background(), admin, "cat-404", "2026-10-10", false, "")
	require.Error(t, err)
	assert.True(t, utils.HasCode(err, utils.CodeNotFound))
}

func TestListBlockedOnlyReturnsBlockedDates(t *testing.T) {
	svc, repo, _ := newTestService()
	repo.entries["cat-1|2026-10-10"] = &models.Availability{CatererID: "cat-1", Date: "2026-10-10", Available: false, Reason: "Fully Booked"}
	repo.entries["cat-1|2026-10-11"] = &models.Availability{CatererID: "cat-1", Date: "2026-10-11", Available: true}

	blocked, err := svc.ListBlocked(context.Background(), "cat-1")
	require.NoError(t, err)
	require.Len(t, blocked, 1)
	assert.Equal(t, "2026-10-10", blocked[0].Date)
}
