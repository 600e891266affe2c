package telemetry

import (
	"testing"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func telemetryConfig() config.TelemetryConfig {
	return config.TelemetryConfig{
		TickSeconds:       1,
		SessionTTLMinutes: 30,
		ScrollWeight:      3,
		TimeWeight:        3,
		TimeCapSeconds:    300,
		InteractionWeight: 2,
		HighlightWeight:   2,
		MinSelectionChars: 10,
	}
}

func newTestTracker(t *testing.T) (*Tracker, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}
	return NewTrackerWithClock("sess-1", "article-1", telemetryConfig(), nil, clock), clock
}

func TestScrollPercentage(t *testing.T) {
	tests := []struct {
		name                string
		top, docH, viewport float64
		want                float64
	}{
		{"top of page", 0, 2000, 800, 0},
		{"halfway", 600, 2000, 800, 50},
		{"bottom", 1200, 2000, 800, 100},
		{"past bottom", 5000, 2000, 800, 100},
		{"negative top", -50, 2000, 800, 0},
		{"page fits viewport", 0, 700, 800, 100},
		{"equal heights", 0, 800, 800, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, ScrollPercentage(tt.top, tt.docH, tt.viewport), 1e-9)
		})
	}
}

func TestTrackerAccruesActiveTime(t *testing.T) {
	tr, clock := newTestTracker(t)

	clock.Advance(5 * time.Second)
	tr.Tick()
	assert.InDelta(t, 5, tr.Snapshot().ActiveSeconds, 1e-9)

	clock.Advance(3 * time.Second)
	tr.Tick()
	assert.InDelta(t, 8, tr.Snapshot().ActiveSeconds, 1e-9)
}

func TestTrackerVisibilityPausesAccrual(t *testing.T) {
	tr, clock := newTestTracker(t)

	clock.Advance(10 * time.Second)
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventVisibility, Hidden: true})

	// Hidden time is not counted.
	clock.Advance(60 * time.Second)
	tr.Tick()
	assert.InDelta(t, 10, tr.Snapshot().ActiveSeconds, 1e-9)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventVisibility, Hidden: false})
	clock.Advance(5 * time.Second)
	tr.Tick()
	assert.InDelta(t, 15, tr.Snapshot().ActiveSeconds, 1e-9)
}

func TestTrackerScrollDepthNeverDecreases(t *testing.T) {
	tr, _ := newTestTracker(t)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventScroll, ScrollTop: 600, DocumentHeight: 2000, ViewportHeight: 800})
	assert.InDelta(t, 50, tr.Snapshot().MaxScrollDepth, 1e-9)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventScroll, ScrollTop: 100, DocumentHeight: 2000, ViewportHeight: 800})
	assert.InDelta(t, 50, tr.Snapshot().MaxScrollDepth, 1e-9)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventScroll, ScrollTop: 900, DocumentHeight: 2000, ViewportHeight: 800})
	assert.InDelta(t, 75, tr.Snapshot().MaxScrollDepth, 1e-9)
}

func TestTrackerClickRegions(t *testing.T) {
	tr, _ := newTestTracker(t)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "content"})
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "nav"})
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "footer"})
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick})

	assert.Equal(t, 2, tr.Snapshot().InteractionCount)
}

func TestTrackerSelectionThreshold(t *testing.T) {
	tr, _ := newTestTracker(t)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventSelection, SelectionLength: 10})
	assert.Equal(t, 0, tr.Snapshot().HighlightCount)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventSelection, SelectionLength: 11})
	assert.Equal(t, 1, tr.Snapshot().HighlightCount)

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventSelection, SelectionLength: -3})
	assert.Equal(t, 1, tr.Snapshot().HighlightCount)
}

func TestTrackerScoreMonotoneAndClamped(t *testing.T) {
	tr, clock := newTestTracker(t)

	var last float64
	step := func() {
		snap := tr.Snapshot()
		assert.GreaterOrEqual(t, snap.EngagementScore, last)
		assert.LessOrEqual(t, snap.EngagementScore, 10.0)
		last = snap.EngagementScore
	}

	tr.HandleEvent(model.TelemetryEvent{Type: model.EventScroll, ScrollTop: 600, DocumentHeight: 2000, ViewportHeight: 800})
	step()

	clock.Advance(2 * time.Minute)
	tr.Tick()
	step()

	for i := 0; i < 20; i++ {
		tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "content"})
	}
	step()

	for i := 0; i < 10; i++ {
		tr.HandleEvent(model.TelemetryEvent{Type: model.EventSelection, SelectionLength: 50})
	}
	step()

	// Everything maxed out.
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventScroll, ScrollTop: 1200, DocumentHeight: 2000, ViewportHeight: 800})
	clock.Advance(10 * time.Minute)
	tr.Tick()
	assert.InDelta(t, 10, tr.Snapshot().EngagementScore, 1e-9)
}

func TestTrackerStopFreezesSnapshot(t *testing.T) {
	tr, clock := newTestTracker(t)

	clock.Advance(5 * time.Second)
	tr.Stop()

	snap := tr.Snapshot()
	require.True(t, snap.Stopped)
	assert.InDelta(t, 5, snap.ActiveSeconds, 1e-9)

	// Post-stop signals are no-ops.
	clock.Advance(time.Minute)
	tr.Tick()
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "content"})

	after := tr.Snapshot()
	assert.Equal(t, snap.ActiveSeconds, after.ActiveSeconds)
	assert.Equal(t, 0, after.InteractionCount)

	// Stop is idempotent.
	tr.Stop()
	assert.Equal(t, snap.ActiveSeconds, tr.Snapshot().ActiveSeconds)
}

func TestTrackerSnapshotCallback(t *testing.T) {
	clock := &fakeClock{now: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)}

	var seen []model.BehavioralMetrics
	tr := NewTrackerWithClock("sess-1", "article-1", telemetryConfig(), func(m model.BehavioralMetrics) {
		seen = append(seen, m)
	}, clock)

	clock.Advance(time.Second)
	tr.Tick()
	tr.HandleEvent(model.TelemetryEvent{Type: model.EventClick, Region: "content"})

	require.Len(t, seen, 2)
	assert.Equal(t, "sess-1", seen[0].SessionID)
	assert.Equal(t, "article-1", seen[0].SurfaceID)
	assert.Equal(t, 1, seen[1].InteractionCount)
}
