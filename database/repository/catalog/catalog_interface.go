package catalogRepo

import (
	"context"

	"caterbook/models"
)

// CatalogRepository provides read access to caterer profiles and packages.
// Catalog CRUD is owned by the marketplace surface outside this engine.
type CatalogRepository interface {
	// GetCaterer returns the profile, or nil when it does not exist.
	GetCaterer(ctx context.Context, catererID string) (*models.CatererProfile, error)
	// GetCatererByOwner returns the profile operated by the given user
	// account, or nil.
	GetCatererByOwner(ctx context.Context, ownerUserID string) (*models.CatererProfile, error)
	// GetPackage returns the package, or nil when it does not exist.
	GetPackage(ctx context.Context, packageID string) (*models.CateringPackage, error)
	ListPackagesByCaterer(ctx context.Context, catererID string) ([]models.CateringPackage, error)
}
