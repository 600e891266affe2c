package repository

import (
	"context"
	"testing"
	"time"

	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStoreSnapshotRoundTrip(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	got, err := s.GetSnapshot(ctx, "sess-1", "article-1")
	require.NoError(t, err)
	assert.Nil(t, got)

	m := model.BehavioralMetrics{
		SessionID:      "sess-1",
		SurfaceID:      "article-1",
		ActiveSeconds:  42,
		MaxScrollDepth: 80,
	}
	require.NoError(t, s.SetSnapshot(ctx, m))

	got, err = s.GetSnapshot(ctx, "sess-1", "article-1")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, m, *got)

	// Other sessions never see it.
	got, err = s.GetSnapshot(ctx, "sess-2", "article-1")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreSnapshotTTL(t *testing.T) {
	s := NewMemorySessionStore(time.Nanosecond)
	ctx := context.Background()

	require.NoError(t, s.SetSnapshot(ctx, model.BehavioralMetrics{SessionID: "sess-1", SurfaceID: "a"}))
	time.Sleep(time.Millisecond)

	got, err := s.GetSnapshot(ctx, "sess-1", "a")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestMemoryStoreFlags(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()

	ok, err := s.HasFlag(ctx, "sess-1", "notice-dismissed:article-1")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, s.SetFlag(ctx, "sess-1", "notice-dismissed:article-1"))

	ok, err = s.HasFlag(ctx, "sess-1", "notice-dismissed:article-1")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = s.HasFlag(ctx, "sess-2", "notice-dismissed:article-1")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestMemoryStoreTallies(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()
	now := time.Now()

	tally, err := s.GetTally(ctx, "article-1")
	require.NoError(t, err)
	assert.Equal(t, int64(0), tally.Impressions)
	assert.Equal(t, 0.0, tally.ConversionRate())

	for i := 0; i < 10; i++ {
		require.NoError(t, s.IncrImpression(ctx, "article-1", now))
	}
	require.NoError(t, s.IncrClick(ctx, "article-1", now))
	require.NoError(t, s.IncrClick(ctx, "article-1", now))

	tally, err = s.GetTally(ctx, "article-1")
	require.NoError(t, err)
	assert.Equal(t, int64(10), tally.Impressions)
	assert.Equal(t, int64(2), tally.Clicks)
	assert.InDelta(t, 0.2, tally.ConversionRate(), 1e-9)
	require.NotNil(t, tally.LastClick)

	require.NoError(t, s.IncrImpression(ctx, "banner-1", now))

	all, err := s.ListTallies(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestMemoryStoreListTalliesSortedBySurface(t *testing.T) {
	s := NewMemorySessionStore(time.Minute)
	ctx := context.Background()
	now := time.Now()

	for _, id := range []string{"guide-z", "article-1", "banner-7"} {
		require.NoError(t, s.IncrImpression(ctx, id, now))
	}

	all, err := s.ListTallies(ctx)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "article-1", all[0].SurfaceID)
	assert.Equal(t, "banner-7", all[1].SurfaceID)
	assert.Equal(t, "guide-z", all[2].SurfaceID)
}
