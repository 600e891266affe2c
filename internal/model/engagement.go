package model

import "time"

// TriggerKind records which condition revealed a conversion prompt.
type TriggerKind string

const (
	TriggerEngagement TriggerKind = "engagement"
	TriggerTimer      TriggerKind = "timer"
)

// CTAState is the presentation state of one surface instance.
type CTAState string

const (
	CTAHidden    CTAState = "hidden"
	CTAVisible   CTAState = "visible"
	CTAExpanded  CTAState = "expanded"
	CTADismissed CTAState = "dismissed"
)

// EngagementDecision is what the presentation controller reports for a
// surface: whether the prompt is shown and what fired it. Shown is a
// one-shot latch: once true it stays true for the surface instance.
type EngagementDecision struct {
	SurfaceID string      `json:"surfaceId"`
	State     CTAState    `json:"state"`
	Shown     bool        `json:"shown"`
	Trigger   TriggerKind `json:"trigger,omitempty"`
	ShownAt   *time.Time  `json:"shownAt,omitempty"`
}

// SurfaceTally is the per-surface impression/click count. Counts only
// grow; ConversionRate is computed on read, 0 when there are no
// impressions.
type SurfaceTally struct {
	SurfaceID      string     `json:"surfaceId"`
	Impressions    int64      `json:"impressions"`
	Clicks         int64      `json:"clicks"`
	LastImpression *time.Time `json:"lastImpression,omitempty"`
	LastClick      *time.Time `json:"lastClick,omitempty"`
}

// ConversionRate is clicks/impressions, 0 when impressions is 0.
func (t SurfaceTally) ConversionRate() float64 {
	if t.Impressions == 0 {
		return 0
	}
	return float64(t.Clicks) / float64(t.Impressions)
}

// TallyArchive is the durable daily rollup of surface tallies, written by
// the background archiver for the admin analytics view.
type TallyArchive struct {
	BaseModel
	SurfaceID   string `gorm:"size:100;index:idx_surface_day,unique" json:"surfaceId"`
	Day         string `gorm:"size:10;index:idx_surface_day,unique" json:"day"`
	Impressions int64  `gorm:"default:0" json:"impressions"`
	Clicks      int64  `gorm:"default:0" json:"clicks"`
}

func (TallyArchive) TableName() string {
	return "tally_archives"
}
