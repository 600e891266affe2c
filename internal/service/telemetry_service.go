package service

import (
	"context"
	"sync"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/internal/telemetry"
	"nutri_edu_backend/internal/util"
	"nutri_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// TelemetryService owns the live trackers, one per (session, surface).
// Every recomputed snapshot is mirrored to the session store so other
// consumers (presentation, scoring, analytics) read the latest state.
type TelemetryService struct {
	mu       sync.Mutex
	trackers map[string]*telemetry.Tracker

	Sessions repository.SessionStore
	cfg      config.TelemetryConfig
}

func NewTelemetryService(sessions repository.SessionStore, cfg config.TelemetryConfig) *TelemetryService {
	return &TelemetryService{
		trackers: make(map[string]*telemetry.Tracker),
		Sessions: sessions,
		cfg:      cfg,
	}
}

// Reconfigure swaps the tracker settings used for surfaces observed from
// now on. Trackers already running keep the settings they started with.
func (s *TelemetryService) Reconfigure(cfg *config.Config) {
	s.mu.Lock()
	s.cfg = cfg.Telemetry
	s.mu.Unlock()
}

func trackerKey(sessionID, surfaceID string) string {
	return sessionID + "|" + surfaceID
}

// Start begins (or restarts) observation of a surface for a session.
func (s *TelemetryService) Start(sessionID, surfaceID string) {
	s.mu.Lock()
	t, ok := s.trackers[trackerKey(sessionID, surfaceID)]
	if !ok {
		t = telemetry.NewTracker(sessionID, surfaceID, s.cfg, s.mirror)
		s.trackers[trackerKey(sessionID, surfaceID)] = t
	}
	s.mu.Unlock()

	t.Start()
}

// Stop freezes and detaches a surface's tracker. The final snapshot
// stays readable from the session store until its TTL expires.
func (s *TelemetryService) Stop(sessionID, surfaceID string) error {
	s.mu.Lock()
	t, ok := s.trackers[trackerKey(sessionID, surfaceID)]
	if ok {
		delete(s.trackers, trackerKey(sessionID, surfaceID))
	}
	s.mu.Unlock()

	if !ok {
		return util.ErrSurfaceNotTracked
	}
	t.Stop()
	s.mirror(t.Snapshot())
	return nil
}

// HandleEvent feeds one raw client signal into the surface's tracker.
func (s *TelemetryService) HandleEvent(sessionID, surfaceID string, ev model.TelemetryEvent) error {
	s.mu.Lock()
	t, ok := s.trackers[trackerKey(sessionID, surfaceID)]
	s.mu.Unlock()

	if !ok {
		return util.ErrSurfaceNotTracked
	}
	t.HandleEvent(ev)
	return nil
}

// Snapshot returns the live snapshot when the surface is tracked in this
// process, falling back to the session store (e.g. after Stop).
func (s *TelemetryService) Snapshot(ctx context.Context, sessionID, surfaceID string) (*model.BehavioralMetrics, error) {
	s.mu.Lock()
	t, ok := s.trackers[trackerKey(sessionID, surfaceID)]
	s.mu.Unlock()

	if ok {
		m := t.Snapshot()
		return &m, nil
	}
	return s.Sessions.GetSnapshot(ctx, sessionID, surfaceID)
}

// StopAll tears down every tracker; used on shutdown so no tick timer
// outlives the server.
func (s *TelemetryService) StopAll() {
	s.mu.Lock()
	trackers := make([]*telemetry.Tracker, 0, len(s.trackers))
	for _, t := range s.trackers {
		trackers = append(trackers, t)
	}
	s.trackers = make(map[string]*telemetry.Tracker)
	s.mu.Unlock()

	for _, t := range trackers {
		t.Stop()
	}
}

// mirror writes a snapshot to the session store. Store failures degrade
// to logging: collection continues regardless.
func (s *TelemetryService) mirror(m model.BehavioralMetrics) {
	if err := s.Sessions.SetSnapshot(context.Background(), m); err != nil {
		logger.Log.Warn("failed to mirror behavioral snapshot",
			zap.String("session", m.SessionID),
			zap.String("surface", m.SurfaceID),
			zap.Error(err))
	}
}
