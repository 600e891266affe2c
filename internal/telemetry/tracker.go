package telemetry

import (
	"sync"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// Clock abstracts time for deterministic tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

// Normalization caps for the composite score: an interaction or highlight
// count at or above the cap contributes its full weight.
const (
	interactionCap = 10.0
	highlightCap   = 5.0
)

// Tracker observes one (session, surface) pair and maintains its live
// BehavioralMetrics snapshot. All mutation goes through the mutex; the
// tick timer is owned by the tracker and torn down on Stop, so a stale
// tick after Stop is a no-op.
type Tracker struct {
	mu  sync.Mutex
	cfg config.TelemetryConfig

	clock   Clock
	metrics model.BehavioralMetrics

	hidden   bool
	lastSeen time.Time
	stopped  bool
	stopCh   chan struct{}

	// onSnapshot mirrors every recomputed snapshot, e.g. to the session
	// store. Called outside the lock with a copy.
	onSnapshot func(model.BehavioralMetrics)
}

func NewTracker(sessionID, surfaceID string, cfg config.TelemetryConfig, onSnapshot func(model.BehavioralMetrics)) *Tracker {
	return NewTrackerWithClock(sessionID, surfaceID, cfg, onSnapshot, realClock{})
}

func NewTrackerWithClock(sessionID, surfaceID string, cfg config.TelemetryConfig, onSnapshot func(model.BehavioralMetrics), clock Clock) *Tracker {
	now := clock.Now()
	return &Tracker{
		cfg:        cfg,
		clock:      clock,
		onSnapshot: onSnapshot,
		lastSeen:   now,
		metrics: model.BehavioralMetrics{
			SessionID: sessionID,
			SurfaceID: surfaceID,
			StartedAt: now,
			UpdatedAt: now,
		},
	}
}

// Start launches the repeating tick. Calling Start on an already running
// tracker restarts the observation window: counters reset, the previous
// timer is released.
func (t *Tracker) Start() {
	t.mu.Lock()
	if t.stopCh != nil {
		close(t.stopCh)
	}
	now := t.clock.Now()
	t.metrics = model.BehavioralMetrics{
		SessionID: t.metrics.SessionID,
		SurfaceID: t.metrics.SurfaceID,
		StartedAt: now,
		UpdatedAt: now,
	}
	t.hidden = false
	t.stopped = false
	t.lastSeen = now
	stopCh := make(chan struct{})
	t.stopCh = stopCh
	interval := time.Duration(t.cfg.TickSeconds) * time.Second
	t.mu.Unlock()

	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-stopCh:
				return
			case <-ticker.C:
				t.Tick()
			}
		}
	}()
}

// Stop freezes the snapshot at its last computed value and releases the
// tick timer. Idempotent.
func (t *Tracker) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.stopped {
		return
	}
	t.accrueLocked(t.clock.Now())
	t.recomputeLocked()
	t.metrics.Stopped = true
	t.stopped = true
	if t.stopCh != nil {
		close(t.stopCh)
		t.stopCh = nil
	}
}

// Tick recomputes active time and the composite score. Exposed so tests
// can drive time explicitly with a fake clock.
func (t *Tracker) Tick() {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	t.accrueLocked(t.clock.Now())
	t.recomputeLocked()
	snap := t.metrics
	cb := t.onSnapshot
	t.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

// HandleEvent applies one raw client signal. Malformed events are logged
// and skipped; the tracker keeps collecting.
func (t *Tracker) HandleEvent(ev model.TelemetryEvent) {
	t.mu.Lock()
	if t.stopped {
		t.mu.Unlock()
		return
	}
	now := t.clock.Now()
	t.accrueLocked(now)

	switch ev.Type {
	case model.EventScroll:
		pct := ScrollPercentage(ev.ScrollTop, ev.DocumentHeight, ev.ViewportHeight)
		if pct > t.metrics.MaxScrollDepth {
			t.metrics.MaxScrollDepth = pct
		}
	case model.EventClick:
		if ev.Region != "nav" && ev.Region != "footer" {
			t.metrics.InteractionCount++
		}
	case model.EventSelection:
		if ev.SelectionLength < 0 {
			logger.Log.Warn("telemetry: negative selection length, skipping",
				zap.String("surface", t.metrics.SurfaceID),
				zap.Int("length", ev.SelectionLength))
			break
		}
		if ev.SelectionLength > t.cfg.MinSelectionChars {
			t.metrics.HighlightCount++
		}
	case model.EventVisibility:
		t.hidden = ev.Hidden
		if !ev.Hidden {
			// Resume: active time starts accruing again from now.
			t.lastSeen = now
		}
	default:
		logger.Log.Warn("telemetry: unknown event type, skipping",
			zap.String("type", string(ev.Type)),
			zap.String("surface", t.metrics.SurfaceID))
	}

	t.recomputeLocked()
	snap := t.metrics
	cb := t.onSnapshot
	t.mu.Unlock()

	if cb != nil {
		cb(snap)
	}
}

// Snapshot returns a copy of the current metrics.
func (t *Tracker) Snapshot() model.BehavioralMetrics {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.metrics
}

// accrueLocked adds the wall-clock time since the last observation to the
// active total, unless the page is hidden. Hidden time pauses accrual, it
// never resets it.
func (t *Tracker) accrueLocked(now time.Time) {
	if !t.hidden {
		delta := now.Sub(t.lastSeen).Seconds()
		if delta > 0 {
			t.metrics.ActiveSeconds += delta
		}
	}
	t.lastSeen = now
	t.metrics.UpdatedAt = now
}

// recomputeLocked rebuilds the composite engagement score: a weighted sum
// of the normalized dimensions, clamped to [0,10]. Monotone
// non-decreasing in every dimension.
func (t *Tracker) recomputeLocked() {
	score := t.metrics.MaxScrollDepth / 100 * t.cfg.ScrollWeight

	timeFrac := 0.0
	if t.cfg.TimeCapSeconds > 0 {
		timeFrac = t.metrics.ActiveSeconds / t.cfg.TimeCapSeconds
		if timeFrac > 1 {
			timeFrac = 1
		}
	}
	score += timeFrac * t.cfg.TimeWeight

	interFrac := float64(t.metrics.InteractionCount) / interactionCap
	if interFrac > 1 {
		interFrac = 1
	}
	score += interFrac * t.cfg.InteractionWeight

	hlFrac := float64(t.metrics.HighlightCount) / highlightCap
	if hlFrac > 1 {
		hlFrac = 1
	}
	score += hlFrac * t.cfg.HighlightWeight

	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	t.metrics.EngagementScore = score
}

// ScrollPercentage converts scroll geometry into a depth percentage
// clamped to [0,100]. When the content is no taller than the viewport
// (denominator <= 0) the page is fully visible, so the depth is 100.
func ScrollPercentage(scrollTop, documentHeight, viewportHeight float64) float64 {
	denom := documentHeight - viewportHeight
	if denom <= 0 {
		return 100
	}
	pct := scrollTop / denom * 100
	if pct < 0 {
		return 0
	}
	if pct > 100 {
		return 100
	}
	return pct
}
