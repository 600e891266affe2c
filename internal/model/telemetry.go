package model

import "time"

// TelemetryEventType identifies an observed browser signal.
type TelemetryEventType string

const (
	EventScroll     TelemetryEventType = "scroll"
	EventClick      TelemetryEventType = "click"
	EventSelection  TelemetryEventType = "selection"
	EventVisibility TelemetryEventType = "visibility"
)

// TelemetryEvent is one raw signal reported by the client.
type TelemetryEvent struct {
	Type TelemetryEventType `json:"type"`

	// Scroll geometry, pixels.
	ScrollTop      float64 `json:"scrollTop,omitempty"`
	DocumentHeight float64 `json:"documentHeight,omitempty"`
	ViewportHeight float64 `json:"viewportHeight,omitempty"`

	// Click region; clicks inside nav/footer do not count as interactions.
	Region string `json:"region,omitempty"`

	// Selection length, characters.
	SelectionLength int `json:"selectionLength,omitempty"`

	// Visibility state for visibility events.
	Hidden bool `json:"hidden,omitempty"`
}

// BehavioralMetrics is the continuously updated engagement snapshot for
// one (session, surface) pair. ActiveSeconds excludes hidden time;
// MaxScrollDepth is clamped to [0,100] and never decreases;
// EngagementScore is clamped to [0,10].
type BehavioralMetrics struct {
	SessionID string `json:"sessionId"`
	SurfaceID string `json:"surfaceId"`

	ActiveSeconds    float64 `json:"activeSeconds"`
	MaxScrollDepth   float64 `json:"maxScrollDepth"`
	InteractionCount int     `json:"interactionCount"`
	HighlightCount   int     `json:"highlightCount"`
	EngagementScore  float64 `json:"engagementScore"`

	StartedAt time.Time `json:"startedAt"`
	UpdatedAt time.Time `json:"updatedAt"`
	Stopped   bool      `json:"stopped"`
}

// ContentParams describe the surface's content so read progress can be
// estimated from active time.
type ContentParams struct {
	WordCount             int     `json:"wordCount"`
	AverageReadingMinutes float64 `json:"averageReadingMinutes"`
}

// NeuroProfile is the opaque personalization vector supplied alongside a
// quiz response. Producers may populate any subset; the scorer treats a
// missing dimension as no signal.
type NeuroProfile struct {
	SessionID  string             `json:"sessionId"`
	Dimensions map[string]float64 `json:"dimensions"`
}
