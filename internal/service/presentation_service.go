package service

import (
	"context"
	"sync"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/engine"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/presentation"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/pkg/logger"
	"nutri_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
)

const noticeDismissedFlag = "notice-dismissed:"

// PresentationService owns one conversion prompt controller per
// (session, surface) and the per-surface impression/click tallies.
type PresentationService struct {
	mu          sync.Mutex
	controllers map[string]*presentation.Controller

	Telemetry  *TelemetryService
	Sessions   repository.SessionStore
	classifier *engine.Classifier
	cfg        *config.Config
	recorder   *tallyRecorder
}

func NewPresentationService(telemetry *TelemetryService, sessions repository.SessionStore, cfg *config.Config) *PresentationService {
	return &PresentationService{
		controllers: make(map[string]*presentation.Controller),
		Telemetry:   telemetry,
		Sessions:    sessions,
		classifier:  engine.NewClassifier(cfg.Engagement),
		cfg:         cfg,
		recorder:    &tallyRecorder{sessions: sessions},
	}
}

// Reconfigure pushes fresh engagement thresholds into the shared
// classifier, reaching controllers already built.
func (s *PresentationService) Reconfigure(cfg *config.Config) {
	s.classifier.Reconfigure(cfg.Engagement)
}

// SurfaceParams describe the surface when its controller is first built.
type SurfaceParams struct {
	Kind    presentation.SurfaceKind
	Content model.ContentParams
}

func (s *PresentationService) controller(sessionID, surfaceID string, params SurfaceParams) *presentation.Controller {
	key := sessionID + "|" + surfaceID

	s.mu.Lock()
	defer s.mu.Unlock()

	if c, ok := s.controllers[key]; ok {
		return c
	}

	delay := time.Duration(s.cfg.Presentation.ArticleDelaySeconds) * time.Second
	if params.Kind == presentation.KindBanner {
		delay = time.Duration(s.cfg.Presentation.BannerDelaySeconds) * time.Second
	}

	c := presentation.NewController(surfaceID, params.Kind, delay, s.classifier, params.Content, s.recorder)
	s.controllers[key] = c
	return c
}

// Decide evaluates the surface's controller against the latest
// behavioral snapshot. A session-dismissed notice short-circuits to
// dismissed without building a controller.
func (s *PresentationService) Decide(ctx context.Context, sessionID, surfaceID string, params SurfaceParams) (model.EngagementDecision, error) {
	dismissed, err := s.Sessions.HasFlag(ctx, sessionID, noticeDismissedFlag+surfaceID)
	if err != nil {
		logger.Log.Warn("failed to read dismissal flag",
			zap.String("surface", surfaceID), zap.Error(err))
	}
	if dismissed {
		return model.EngagementDecision{
			SurfaceID: surfaceID,
			State:     model.CTADismissed,
			Shown:     true,
		}, nil
	}

	c := s.controller(sessionID, surfaceID, params)

	var metrics model.BehavioralMetrics
	if m, err := s.Telemetry.Snapshot(ctx, sessionID, surfaceID); err != nil {
		logger.Log.Warn("failed to read snapshot for presentation",
			zap.String("surface", surfaceID), zap.Error(err))
	} else if m != nil {
		metrics = *m
	}

	return c.Evaluate(metrics), nil
}

// Expand handles an explicit user expand on an already visible prompt.
func (s *PresentationService) Expand(sessionID, surfaceID string, params SurfaceParams) model.EngagementDecision {
	return s.controller(sessionID, surfaceID, params).Expand()
}

// Click records a CTA click for the surface.
func (s *PresentationService) Click(sessionID, surfaceID string, params SurfaceParams) model.EngagementDecision {
	return s.controller(sessionID, surfaceID, params).Click()
}

// Dismiss closes the prompt. With forSession set, the dismissal is
// remembered for the rest of the session (cookie-notice style).
func (s *PresentationService) Dismiss(ctx context.Context, sessionID, surfaceID string, params SurfaceParams, forSession bool) model.EngagementDecision {
	d := s.controller(sessionID, surfaceID, params).Dismiss()
	if forSession {
		if err := s.Sessions.SetFlag(ctx, sessionID, noticeDismissedFlag+surfaceID); err != nil {
			logger.Log.Warn("failed to persist dismissal flag",
				zap.String("surface", surfaceID), zap.Error(err))
		}
	}
	return d
}

// Tally reads a surface's running impression/click tally.
func (s *PresentationService) Tally(ctx context.Context, surfaceID string) (model.SurfaceTally, error) {
	return s.Sessions.GetTally(ctx, surfaceID)
}

// tallyRecorder bridges controller side effects to the session store and
// the Prometheus counters. Store failures must not break presentation.
type tallyRecorder struct {
	sessions repository.SessionStore
}

func (r *tallyRecorder) RecordImpression(surfaceID string) {
	monitoring.CTAImpressions.WithLabelValues(surfaceID).Inc()
	if err := r.sessions.IncrImpression(context.Background(), surfaceID, time.Now()); err != nil {
		logger.Log.Warn("failed to record impression",
			zap.String("surface", surfaceID), zap.Error(err))
	}
}

func (r *tallyRecorder) RecordClick(surfaceID string) {
	monitoring.CTAClicks.WithLabelValues(surfaceID).Inc()
	if err := r.sessions.IncrClick(context.Background(), surfaceID, time.Now()); err != nil {
		logger.Log.Warn("failed to record click",
			zap.String("surface", surfaceID), zap.Error(err))
	}
}
