package presentation

import (
	"sync"
	"time"

	"nutri_edu_backend/internal/engine"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/telemetry"
)

// SurfaceKind selects the state machine variant and the wall-clock
// fallback delay.
type SurfaceKind string

const (
	// KindArticle is the full machine: hidden, visible, expanded, dismissed.
	KindArticle SurfaceKind = "article"
	// KindBanner is the one-shot latch variant: hidden then shown.
	KindBanner SurfaceKind = "banner"
)

// TallyRecorder receives impression/click events for a surface.
type TallyRecorder interface {
	RecordImpression(surfaceID string)
	RecordClick(surfaceID string)
}

// Controller decides when one surface instance reveals its conversion
// prompt. The reveal is a one-shot latch: whichever trigger fires first
// wins, and no later telemetry returns the prompt to hidden.
type Controller struct {
	mu sync.Mutex

	surfaceID  string
	kind       SurfaceKind
	state      model.CTAState
	trigger    model.TriggerKind
	shownAt    *time.Time
	startedAt  time.Time
	delay      time.Duration
	clock      telemetry.Clock
	classifier *engine.Classifier
	content    model.ContentParams
	tally      TallyRecorder
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now() }

func NewController(surfaceID string, kind SurfaceKind, delay time.Duration, classifier *engine.Classifier, content model.ContentParams, tally TallyRecorder) *Controller {
	return NewControllerWithClock(surfaceID, kind, delay, classifier, content, tally, realClock{})
}

func NewControllerWithClock(surfaceID string, kind SurfaceKind, delay time.Duration, classifier *engine.Classifier, content model.ContentParams, tally TallyRecorder, clock telemetry.Clock) *Controller {
	return &Controller{
		surfaceID:  surfaceID,
		kind:       kind,
		state:      model.CTAHidden,
		startedAt:  clock.Now(),
		delay:      delay,
		clock:      clock,
		classifier: classifier,
		content:    content,
		tally:      tally,
	}
}

// Evaluate applies the latest snapshot. While hidden it checks both
// triggers, engagement first; once visible it may auto-expand on deep
// reading progression. Evaluation never un-shows.
func (c *Controller) Evaluate(m model.BehavioralMetrics) model.EngagementDecision {
	c.mu.Lock()
	defer c.mu.Unlock()

	switch c.state {
	case model.CTAHidden:
		if c.classifier.IsPrimeForConversion(m, c.content) {
			c.revealLocked(model.TriggerEngagement)
		} else if c.clock.Now().Sub(c.startedAt) >= c.delay {
			c.revealLocked(model.TriggerTimer)
		}
	case model.CTAVisible:
		if c.kind == KindArticle && c.classifier.ShouldExpand(m, c.content) {
			c.state = model.CTAExpanded
		}
	}

	return c.decisionLocked()
}

// Expand handles an explicit user expand. Only meaningful for the
// article variant on an already visible prompt.
func (c *Controller) Expand() model.EngagementDecision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.kind == KindArticle && c.state == model.CTAVisible {
		c.state = model.CTAExpanded
	}
	return c.decisionLocked()
}

// Click records a CTA click and expands a static prompt. Clicks on a
// hidden prompt are ignored (nothing was on screen to click).
func (c *Controller) Click() model.EngagementDecision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == model.CTAVisible || c.state == model.CTAExpanded {
		if c.tally != nil {
			c.tally.RecordClick(c.surfaceID)
		}
		if c.kind == KindArticle && c.state == model.CTAVisible {
			c.state = model.CTAExpanded
		}
	}
	return c.decisionLocked()
}

// Dismiss closes the prompt for this surface instance. It does not
// suppress future mounts.
func (c *Controller) Dismiss() model.EngagementDecision {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.state == model.CTAVisible || c.state == model.CTAExpanded {
		c.state = model.CTADismissed
	}
	return c.decisionLocked()
}

// Decision reports the current state without evaluating triggers.
func (c *Controller) Decision() model.EngagementDecision {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.decisionLocked()
}

func (c *Controller) revealLocked(trigger model.TriggerKind) {
	now := c.clock.Now()
	c.state = model.CTAVisible
	c.trigger = trigger
	c.shownAt = &now
	if c.tally != nil {
		c.tally.RecordImpression(c.surfaceID)
	}
}

func (c *Controller) decisionLocked() model.EngagementDecision {
	return model.EngagementDecision{
		SurfaceID: c.surfaceID,
		State:     c.state,
		Shown:     c.state != model.CTAHidden,
		Trigger:   c.trigger,
		ShownAt:   c.shownAt,
	}
}
