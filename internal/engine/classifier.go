package engine

import (
	"sync"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"
)

// Classifier derives discrete engagement signals from a metrics snapshot.
// All methods are pure functions of their arguments and the configured
// thresholds. Thresholds can be swapped at runtime, so the struct is
// shared freely between consumers.
type Classifier struct {
	mu  sync.RWMutex
	cfg config.EngagementConfig
}

func NewClassifier(cfg config.EngagementConfig) *Classifier {
	return &Classifier{cfg: cfg}
}

// Reconfigure replaces the thresholds. Safe to call while classification
// is in flight.
func (c *Classifier) Reconfigure(cfg config.EngagementConfig) {
	c.mu.Lock()
	c.cfg = cfg
	c.mu.Unlock()
}

func (c *Classifier) config() config.EngagementConfig {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.cfg
}

// ReadTimeTarget is the expected full-read duration in seconds: the lower
// of the author's estimate and the word count at the configured reading
// speed. Zero when the content params give no usable signal.
func (c *Classifier) ReadTimeTarget(content model.ContentParams) float64 {
	byEstimate := content.AverageReadingMinutes * 60
	byWords := float64(content.WordCount) / c.config().WordsPerMinute * 60

	switch {
	case byEstimate <= 0 && byWords <= 0:
		return 0
	case byEstimate <= 0:
		return byWords
	case byWords <= 0:
		return byEstimate
	case byWords < byEstimate:
		return byWords
	default:
		return byEstimate
	}
}

// ReadPercent estimates how much of the content was read from active
// time, capped at 100. Zero target reads as zero progress.
func (c *Classifier) ReadPercent(m model.BehavioralMetrics, content model.ContentParams) float64 {
	target := c.ReadTimeTarget(content)
	if target <= 0 {
		return 0
	}
	pct := m.ActiveSeconds / target * 100
	if pct > 100 {
		pct = 100
	}
	return pct
}

// IsEngaged reports whether the visitor is plausibly reading: read
// progress above the engaged threshold or sustained active time.
func (c *Classifier) IsEngaged(m model.BehavioralMetrics, content model.ContentParams) bool {
	cfg := c.config()
	return c.ReadPercent(m, content) > cfg.EngagedReadPercent ||
		m.ActiveSeconds > cfg.EngagedActiveSeconds
}

// IsPrimeForConversion reports whether the visitor is a good candidate
// for a call-to-action: deep read progress or deep scroll, combined with
// at least one interaction or long active time.
func (c *Classifier) IsPrimeForConversion(m model.BehavioralMetrics, content model.ContentParams) bool {
	cfg := c.config()
	attentive := c.ReadPercent(m, content) > cfg.PrimeReadPercent ||
		m.MaxScrollDepth > cfg.PrimeScrollDepth
	invested := m.InteractionCount > 0 || m.ActiveSeconds > cfg.PrimeActiveSeconds
	return attentive && invested
}

// ShouldExpand reports whether reading progression alone justifies
// expanding an already visible prompt.
func (c *Classifier) ShouldExpand(m model.BehavioralMetrics, content model.ContentParams) bool {
	return c.ReadPercent(m, content) > c.config().ExpandReadPercent
}
