package catalogRepo

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caterbook/database"
	"caterbook/models"
	"caterbook/utils"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.uber.org/zap"
)

const (
	catererCachePrefix = "catalog:caterer:"
	packageCachePrefix = "catalog:package:"
	catalogCacheTTL    = 10 * time.Minute
)

// MongoCatalogRepo implements CatalogRepository using MongoDB.
type MongoCatalogRepo struct {
	catererColl *mongo.Collection
	packageColl *mongo.Collection
}

func NewMongoCatalogRepo() *MongoCatalogRepo {
	return &MongoCatalogRepo{
		catererColl: database.Collection("caterer_profiles"),
		packageColl: database.Collection("catering_packages"),
	}
}

// Catalog reads sit on every wizard step and quotation, so profiles and
// packages go through a read-through Redis cache. Cache misses and cache
// errors both fall back to Mongo.
func cacheLookup(ctx context.Context, key string, out any) bool {
	data, err := utils.GetCacheClient().Get(ctx, key).Result()
	if err != nil {
		return false
	}
	return json.Unmarshal([]byte(data), out) == nil
}

func cacheStore(ctx context.Context, key string, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		return
	}
	if err := utils.GetCacheClient().Set(ctx, key, data, catalogCacheTTL).Err(); err != nil {
		utils.GetLogger().Debug("catalog cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func (repo *MongoCatalogRepo) GetCaterer(ctx context.Context, catererID string) (*models.CatererProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.CatererProfile
	if cacheLookup(ctx, catererCachePrefix+catererID, &profile) {
		return &profile, nil
	}
	err := repo.catererColl.FindOne(ctx, bson.M{"id": catererID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caterer %s: %w", catererID, err)
	}
	cacheStore(ctx, catererCachePrefix+catererID, &profile)
	return &profile, nil
}

func (repo *MongoCatalogRepo) GetCatererByOwner(ctx context.Context, ownerUserID string) (*models.CatererProfile, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var profile models.CatererProfile
	err := repo.catererColl.FindOne(ctx, bson.M{"owner_user_id": ownerUserID}).Decode(&profile)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch caterer for owner %s: %w", ownerUserID, err)
	}
	return &profile, nil
}

func (repo *MongoCatalogRepo) GetPackage(ctx context.Context, packageID string) (*models.CateringPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var pkg models.CateringPackage
	if cacheLookup(ctx, packageCachePrefix+packageID, &pkg) {
		return &pkg, nil
	}
	err := repo.packageColl.FindOne(ctx, bson.M{"id": packageID}).Decode(&pkg)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch package %s: %w", packageID, err)
	}
	cacheStore(ctx, packageCachePrefix+packageID, &pkg)
	return &pkg, nil
}

func (repo *MongoCatalogRepo) ListPackagesByCaterer(ctx context.Context, catererID string) ([]models.CateringPackage, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	cursor, err := repo.packageColl.Find(ctx, bson.M{"caterer_id": catererID, "is_active": true})
	if err != nil {
		return nil, fmt.Errorf("failed to list packages for caterer %s: %w", catererID, err)
	}
	var packages []models.CateringPackage
	if err := cursor.All(ctx, &packages); err != nil {
		return nil, fmt.Errorf("failed to decode packages: %w", err)
	}
	return packages, nil
}
