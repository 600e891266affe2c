package service

import (
	"context"
	"time"

	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// SurfaceEngagement is the admin view of one surface's funnel.
type SurfaceEngagement struct {
	SurfaceID      string     `json:"surfaceId"`
	Impressions    int64      `json:"impressions"`
	Clicks         int64      `json:"clicks"`
	ConversionRate float64    `json:"conversionRate"`
	LastImpression *time.Time `json:"lastImpression,omitempty"`
	LastClick      *time.Time `json:"lastClick,omitempty"`
}

// AnalyticsService aggregates the ephemeral tallies for the back office
// and rolls them up into the durable daily archive.
type AnalyticsService struct {
	Sessions    repository.SessionStore
	ArchiveRepo *repository.TallyArchiveRepository
}

func NewAnalyticsService(sessions repository.SessionStore, archiveRepo *repository.TallyArchiveRepository) *AnalyticsService {
	return &AnalyticsService{Sessions: sessions, ArchiveRepo: archiveRepo}
}

// EngagementOverview lists every surface seen this session window with
// its conversion rate computed on read.
func (s *AnalyticsService) EngagementOverview(ctx context.Context) ([]SurfaceEngagement, error) {
	tallies, err := s.Sessions.ListTallies(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]SurfaceEngagement, 0, len(tallies))
	for _, t := range tallies {
		out = append(out, SurfaceEngagement{
			SurfaceID:      t.SurfaceID,
			Impressions:    t.Impressions,
			Clicks:         t.Clicks,
			ConversionRate: t.ConversionRate(),
			LastImpression: t.LastImpression,
			LastClick:      t.LastClick,
		})
	}
	return out, nil
}

// SurfaceHistory returns the archived daily rollups for one surface.
func (s *AnalyticsService) SurfaceHistory(surfaceID string, days int) ([]model.TallyArchive, error) {
	if days <= 0 {
		days = 30
	}
	return s.ArchiveRepo.ListBySurface(surfaceID, days)
}

// ArchiveTallies snapshots today's tallies into MySQL. Run periodically
// from the app's background loop; each run overwrites the day's row with
// the latest counts.
func (s *AnalyticsService) ArchiveTallies(ctx context.Context) error {
	tallies, err := s.Sessions.ListTallies(ctx)
	if err != nil {
		return err
	}

	day := time.Now().Format("2006-01-02")
	for _, t := range tallies {
		err := s.ArchiveRepo.Upsert(&model.TallyArchive{
			SurfaceID:   t.SurfaceID,
			Day:         day,
			Impressions: t.Impressions,
			Clicks:      t.Clicks,
		})
		if err != nil {
			logger.Log.Error("failed to archive surface tally",
				zap.String("surface", t.SurfaceID), zap.Error(err))
		}
	}
	return nil
}
