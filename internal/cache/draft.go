package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/go-redis/redis/v8"
)

// Onboarding drafts live in Redis so a half-finished wizard survives a page
// reload but not abandonment: the TTL reaps drafts nobody comes back for.
const draftTTL = 48 * time.Hour

var ErrDraftNotFound = redis.Nil

type DraftStore struct {
	rdb *redis.Client
}

func NewDraftStore(rdb *redis.Client) *DraftStore {
	return &DraftStore{rdb: rdb}
}

func draftKey(userID int64) string {
	return fmt.Sprintf("onboarding:draft:%d", userID)
}

func (s *DraftStore) Get(ctx context.Context, userID int64, dest any) error {
	payload, err := s.rdb.Get(ctx, draftKey(userID)).Bytes()
	if err != nil {
		return err
	}
	return json.Unmarshal(payload, dest)
}

func (s *DraftStore) Put(ctx context.Context, userID int64, draft any) error {
	payload, err := json.Marshal(draft)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, draftKey(userID), payload, draftTTL).Err()
}

func (s *DraftStore) Delete(ctx context.Context, userID int64) error {
	return s.rdb.Del(ctx, draftKey(userID)).Err()
}
