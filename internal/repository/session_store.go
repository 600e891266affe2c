package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"nutri_edu_backend/internal/model"

	"github.com/go-redis/redis/v8"
)

// SessionStore is the ephemeral key-value contract for session-scoped
// state: live metric snapshots, presentation flags and the per-surface
// impression/click tallies. Entries expire with the session TTL; nothing
// here survives a restart by contract.
type SessionStore interface {
	SetSnapshot(ctx context.Context, m model.BehavioralMetrics) error
	GetSnapshot(ctx context.Context, sessionID, surfaceID string) (*model.BehavioralMetrics, error)

	SetFlag(ctx context.Context, sessionID, key string) error
	HasFlag(ctx context.Context, sessionID, key string) (bool, error)

	IncrImpression(ctx context.Context, surfaceID string, at time.Time) error
	IncrClick(ctx context.Context, surfaceID string, at time.Time) error
	GetTally(ctx context.Context, surfaceID string) (model.SurfaceTally, error)
	// ListTallies returns every known surface's tally ordered by
	// surface id.
	ListTallies(ctx context.Context) ([]model.SurfaceTally, error)
}

// RedisSessionStore backs the SessionStore with Redis. Tallies live in a
// hash per surface plus a set of known surface ids for listing.
type RedisSessionStore struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisSessionStore(rdb *redis.Client, ttl time.Duration) *RedisSessionStore {
	return &RedisSessionStore{rdb: rdb, ttl: ttl}
}

func snapshotKey(sessionID, surfaceID string) string {
	return fmt.Sprintf("nutri:snapshot:%s:%s", sessionID, surfaceID)
}

func flagKey(sessionID, key string) string {
	return fmt.Sprintf("nutri:flag:%s:%s", sessionID, key)
}

func tallyKey(surfaceID string) string {
	return fmt.Sprintf("nutri:tally:%s", surfaceID)
}

const surfaceSetKey = "nutri:surfaces"

func (s *RedisSessionStore) SetSnapshot(ctx context.Context, m model.BehavioralMetrics) error {
	b, err := json.Marshal(m)
	if err != nil {
		return err
	}
	return s.rdb.Set(ctx, snapshotKey(m.SessionID, m.SurfaceID), b, s.ttl).Err()
}

func (s *RedisSessionStore) GetSnapshot(ctx context.Context, sessionID, surfaceID string) (*model.BehavioralMetrics, error) {
	b, err := s.rdb.Get(ctx, snapshotKey(sessionID, surfaceID)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var m model.BehavioralMetrics
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, err
	}
	return &m, nil
}

func (s *RedisSessionStore) SetFlag(ctx context.Context, sessionID, key string) error {
	return s.rdb.Set(ctx, flagKey(sessionID, key), "1", s.ttl).Err()
}

func (s *RedisSessionStore) HasFlag(ctx context.Context, sessionID, key string) (bool, error) {
	n, err := s.rdb.Exists(ctx, flagKey(sessionID, key)).Result()
	if err != nil {
		return false, err
	}
	return n > 0, nil
}

func (s *RedisSessionStore) IncrImpression(ctx context.Context, surfaceID string, at time.Time) error {
	key := tallyKey(surfaceID)
	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, "impressions", 1)
	pipe.HSet(ctx, key, "lastImpression", at.Format(time.RFC3339))
	pipe.SAdd(ctx, surfaceSetKey, surfaceID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) IncrClick(ctx context.Context, surfaceID string, at time.Time) error {
	key := tallyKey(surfaceID)
	pipe := s.rdb.TxPipeline()
	pipe.HIncrBy(ctx, key, "clicks", 1)
	pipe.HSet(ctx, key, "lastClick", at.Format(time.RFC3339))
	pipe.SAdd(ctx, surfaceSetKey, surfaceID)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *RedisSessionStore) GetTally(ctx context.Context, surfaceID string) (model.SurfaceTally, error) {
	vals, err := s.rdb.HGetAll(ctx, tallyKey(surfaceID)).Result()
	if err != nil {
		return model.SurfaceTally{SurfaceID: surfaceID}, err
	}
	return parseTally(surfaceID, vals), nil
}

func (s *RedisSessionStore) ListTallies(ctx context.Context) ([]model.SurfaceTally, error) {
	surfaces, err := s.rdb.SMembers(ctx, surfaceSetKey).Result()
	if err != nil {
		return nil, err
	}
	sort.Strings(surfaces)
	out := make([]model.SurfaceTally, 0, len(surfaces))
	for _, id := range surfaces {
		t, err := s.GetTally(ctx, id)
		if err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, nil
}

func parseTally(surfaceID string, vals map[string]string) model.SurfaceTally {
	t := model.SurfaceTally{SurfaceID: surfaceID}
	fmt.Sscanf(vals["impressions"], "%d", &t.Impressions)
	fmt.Sscanf(vals["clicks"], "%d", &t.Clicks)
	if ts, err := time.Parse(time.RFC3339, vals["lastImpression"]); err == nil {
		t.LastImpression = &ts
	}
	if ts, err := time.Parse(time.RFC3339, vals["lastClick"]); err == nil {
		t.LastClick = &ts
	}
	return t
}
