package service

import (
	"context"
	"testing"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/presentation"
	"nutri_edu_backend/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Engagement: config.EngagementConfig{
			EngagedReadPercent:   30,
			EngagedActiveSeconds: 60,
			PrimeReadPercent:     60,
			PrimeScrollDepth:     70,
			PrimeActiveSeconds:   90,
			ExpandReadPercent:    70,
			WordsPerMinute:       250,
		},
		Telemetry: config.TelemetryConfig{
			TickSeconds:       1,
			SessionTTLMinutes: 30,
			ScrollWeight:      3,
			TimeWeight:        3,
			TimeCapSeconds:    300,
			InteractionWeight: 2,
			HighlightWeight:   2,
			MinSelectionChars: 10,
		},
		Presentation: config.PresentationConfig{
			ArticleDelaySeconds: 30,
			BannerDelaySeconds:  10,
		},
	}
}

func newPresentationFixture() (*PresentationService, repository.SessionStore) {
	store := repository.NewMemorySessionStore(30 * time.Minute)
	telemetry := NewTelemetryService(store, testConfig().Telemetry)
	return NewPresentationService(telemetry, store, testConfig()), store
}

var articleParams = SurfaceParams{
	Kind:    presentation.KindArticle,
	Content: model.ContentParams{WordCount: 1000, AverageReadingMinutes: 3},
}

func TestDecideRevealsOnPrimeSnapshot(t *testing.T) {
	svc, store := newPresentationFixture()
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, model.BehavioralMetrics{
		SessionID:        "sess-1",
		SurfaceID:        "article-1",
		ActiveSeconds:    130,
		MaxScrollDepth:   75,
		InteractionCount: 1,
	}))

	d, err := svc.Decide(ctx, "sess-1", "article-1", articleParams)
	require.NoError(t, err)
	assert.True(t, d.Shown)
	assert.Equal(t, model.TriggerEngagement, d.Trigger)

	// The impression reached the tally.
	tally, err := svc.Tally(ctx, "article-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.Impressions)
}

func TestDecideStaysHiddenForColdVisitor(t *testing.T) {
	svc, _ := newPresentationFixture()

	d, err := svc.Decide(context.Background(), "sess-1", "article-1", articleParams)
	require.NoError(t, err)
	assert.False(t, d.Shown)
	assert.Equal(t, model.CTAHidden, d.State)
}

func TestDismissForSessionShortCircuits(t *testing.T) {
	svc, store := newPresentationFixture()
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, model.BehavioralMetrics{
		SessionID:        "sess-1",
		SurfaceID:        "article-1",
		ActiveSeconds:    130,
		MaxScrollDepth:   75,
		InteractionCount: 1,
	}))

	d, err := svc.Decide(ctx, "sess-1", "article-1", articleParams)
	require.NoError(t, err)
	require.True(t, d.Shown)

	svc.Dismiss(ctx, "sess-1", "article-1", articleParams, true)

	// Even with prime metrics still in the store, the session flag wins.
	d, err = svc.Decide(ctx, "sess-1", "article-1", articleParams)
	require.NoError(t, err)
	assert.Equal(t, model.CTADismissed, d.State)

	// Another session still gets the prompt.
	require.NoError(t, store.SetSnapshot(ctx, model.BehavioralMetrics{
		SessionID:        "sess-2",
		SurfaceID:        "article-1",
		ActiveSeconds:    130,
		MaxScrollDepth:   75,
		InteractionCount: 1,
	}))
	d, err = svc.Decide(ctx, "sess-2", "article-1", articleParams)
	require.NoError(t, err)
	assert.True(t, d.Shown)
}

func TestClickRecordsIntoTally(t *testing.T) {
	svc, store := newPresentationFixture()
	ctx := context.Background()

	require.NoError(t, store.SetSnapshot(ctx, model.BehavioralMetrics{
		SessionID:        "sess-1",
		SurfaceID:        "article-1",
		ActiveSeconds:    130,
		MaxScrollDepth:   75,
		InteractionCount: 1,
	}))

	_, err := svc.Decide(ctx, "sess-1", "article-1", articleParams)
	require.NoError(t, err)

	svc.Click("sess-1", "article-1", articleParams)
	svc.Click("sess-1", "article-1", articleParams)

	tally, err := svc.Tally(ctx, "article-1")
	require.NoError(t, err)
	assert.Equal(t, int64(1), tally.Impressions)
	assert.Equal(t, int64(2), tally.Clicks)
	assert.InDelta(t, 2.0, tally.ConversionRate(), 1e-9)
}
