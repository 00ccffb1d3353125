package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"caterbook/config"
	"caterbook/models"
	"caterbook/utils"

	"github.com/go-redis/redis/v8"
)

// DraftStore holds in-progress booking wizards between steps. Drafts are
// keyed per draft id and expire on their own; an abandoned wizard leaves
// nothing behind in the database.
type DraftStore interface {
	Save(ctx context.Context, draft *models.BookingDraft) error
	Get(ctx context.Context, draftID string) (*models.BookingDraft, error)
	Delete(ctx context.Context, draftID string) error
}

// RedisDraftStore keeps drafts in the dedicated draft Redis DB with a TTL
// from config. Every Save resets the TTL, so an active wizard stays alive.
type RedisDraftStore struct {
	client *redis.Client
}

func NewRedisDraftStore() *RedisDraftStore {
	return &RedisDraftStore{client: utils.GetDraftCacheClient()}
}

func draftKey(draftID string) string {
	return fmt.Sprintf("booking_draft:%s", draftID)
}

func (s *RedisDraftStore) Save(ctx context.Context, draft *models.BookingDraft) error {
	data, err := json.Marshal(draft)
	if err != nil {
		return fmt.Errorf("failed to marshal draft: %w", err)
	}
	ttl := time.Duration(config.AppConfig.DraftTTLMinutes) * time.Minute
	if err := s.client.Set(ctx, draftKey(draft.DraftID), data, ttl).Err(); err != nil {
		return fmt.Errorf("failed to store draft %s: %w", draft.DraftID, err)
	}
	return nil
}

func (s *RedisDraftStore) Get(ctx context.Context, draftID string) (*models.BookingDraft, error) {
	data, err := s.client.Get(ctx, draftKey(draftID)).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to fetch draft %s: %w", draftID, err)
	}
	var draft models.BookingDraft
	if err := json.Unmarshal([]byte(data), &draft); err != nil {
		return nil, fmt.Errorf("failed to decode draft %s: %w", draftID, err)
	}
	return &draft, nil
}

func (s *RedisDraftStore) Delete(ctx context.Context, draftID string) error {
	if err := s.client.Del(ctx, draftKey(draftID)).Err(); err != nil {
		return fmt.Errorf("failed to delete draft %s: %w", draftID, err)
	}
	return nil
}
