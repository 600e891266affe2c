package service

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/engine"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/internal/repository"
	"nutri_edu_backend/internal/util"
	"nutri_edu_backend/pkg/logger"
	"nutri_edu_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

// QuizPayload is the canonical questionnaire shape used by both accepted
// submission formats.
type QuizPayload struct {
	Name              string   `json:"name"`
	Email             string   `json:"email"`
	Objectives        []string `json:"objectives"`
	Symptoms          []string `json:"symptoms"`
	DietaryHabit      string   `json:"dietaryHabit"`
	MeatFishFrequency string   `json:"meatFishFrequency"`
	FruitVegPortions  string   `json:"fruitVegPortions"`
	ExerciseFrequency string   `json:"exerciseFrequency"`
	SleepQuality      int      `json:"sleepQuality"`
	StressLevel       int      `json:"stressLevel"`
}

// QuizSubmission accepts both the structured shape ({responses: ...}) and
// the legacy flat shape ({data: ...}) still sent by older clients. It is
// normalized exactly once at this boundary; everything downstream sees
// only model.QuizResponse.
type QuizSubmission struct {
	Responses *QuizPayload `json:"responses"`
	Data      *QuizPayload `json:"data"`

	SurfaceID    string              `json:"surfaceId,omitempty"`
	NeuroProfile *model.NeuroProfile `json:"neuroProfile,omitempty"`
}

// Normalize resolves the dual shape into a canonical QuizResponse. The
// structured shape wins when both are present.
func (sub *QuizSubmission) Normalize(sessionID string) (*model.QuizResponse, error) {
	p := sub.Responses
	if p == nil {
		p = sub.Data
	}
	if p == nil {
		p = &QuizPayload{}
	}

	q := &model.QuizResponse{
		SessionID:         sessionID,
		Name:              p.Name,
		Email:             p.Email,
		Objectives:        model.StringList(p.Objectives),
		Symptoms:          model.StringList(p.Symptoms),
		DietaryHabit:      model.DietaryHabit(p.DietaryHabit),
		MeatFishFrequency: model.Frequency(p.MeatFishFrequency),
		FruitVegPortions:  model.PortionBucket(p.FruitVegPortions),
		ExerciseFrequency: model.Frequency(p.ExerciseFrequency),
		SleepQuality:      p.SleepQuality,
		StressLevel:       p.StressLevel,
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	return q, nil
}

// QuizService runs the scoring pipeline for quiz submissions.
type QuizService struct {
	QuizRepo       *repository.QuizRepository
	SupplementRepo *repository.SupplementRepository
	Sessions       repository.SessionStore
	cfg            *config.Config

	mu     sync.RWMutex
	engine *engine.Scorer
}

func NewQuizService(
	quizRepo *repository.QuizRepository,
	supplementRepo *repository.SupplementRepository,
	sessions repository.SessionStore,
	cfg *config.Config,
) *QuizService {
	return &QuizService{
		QuizRepo:       quizRepo,
		SupplementRepo: supplementRepo,
		Sessions:       sessions,
		cfg:            cfg,
		engine:         engine.NewScorer(cfg.Scoring),
	}
}

// Reconfigure rebuilds the scorer from freshly loaded config so weight
// changes apply to subsequent submissions.
func (s *QuizService) Reconfigure(cfg *config.Config) {
	s.mu.Lock()
	s.engine = engine.NewScorer(cfg.Scoring)
	s.mu.Unlock()
}

func (s *QuizService) scorer() *engine.Scorer {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.engine
}

// SubmitQuiz persists the lead, waits out the analysis delay, scores the
// submission and stores the resolved set. The delay is cancellable: a
// client disconnect aborts before any result is produced or stored.
func (s *QuizService) SubmitQuiz(ctx context.Context, sessionID string, sub *QuizSubmission) (*model.RecommendationSet, *model.QuizResponse, error) {
	quiz, err := sub.Normalize(sessionID)
	if err != nil {
		return nil, nil, err
	}

	if err := s.QuizRepo.Create(quiz); err != nil {
		return nil, nil, err
	}

	// Analysis latency: the front end shows its "analyzing" state for
	// this long. Aborts cleanly when the caller goes away.
	delay := time.Duration(s.cfg.Scoring.AnalysisDelayMs) * time.Millisecond
	if delay > 0 {
		select {
		case <-ctx.Done():
			return nil, nil, ctx.Err()
		case <-time.After(delay):
		}
	}

	set := s.score(ctx, quiz, sub)

	payload, err := json.Marshal(set)
	if err != nil {
		logger.Log.Error("failed to serialize scored result", zap.Error(err))
	} else if err := s.QuizRepo.CreateResult(&model.ScoredResult{
		QuizResponseID: quiz.ID,
		SessionID:      sessionID,
		Payload:        string(payload),
		Fallback:       set.Fallback,
	}); err != nil {
		logger.Log.Error("failed to store scored result", zap.Error(err))
	}

	return set, quiz, nil
}

// score gathers the three profile inputs and runs the scorer. Missing
// inputs degrade to no signal; this function cannot fail.
func (s *QuizService) score(ctx context.Context, quiz *model.QuizResponse, sub *QuizSubmission) *model.RecommendationSet {
	catalog, err := s.SupplementRepo.ListEnabled()
	if err != nil {
		logger.Log.Error("failed to load supplement catalog", zap.Error(err))
		catalog = nil
	}

	var metrics *model.BehavioralMetrics
	if sub.SurfaceID != "" {
		metrics, err = s.Sessions.GetSnapshot(ctx, quiz.SessionID, sub.SurfaceID)
		if err != nil {
			logger.Log.Warn("failed to read behavioral snapshot",
				zap.String("surface", sub.SurfaceID), zap.Error(err))
			metrics = nil
		}
	}

	recs, fallback := s.scorer().Score(quiz, metrics, sub.NeuroProfile, catalog)

	outcome := "scored"
	if fallback {
		outcome = "fallback"
	}
	monitoring.QuizSubmissions.WithLabelValues(outcome).Inc()

	explainer := engine.NewExplainer(int64(quiz.ID))
	return &model.RecommendationSet{
		Recommendations: recs,
		Explanation:     explainer.Explain(recs, quiz),
		Fallback:        fallback,
	}
}

// ResortResult returns a stored result re-ordered by the given strategy
// without re-running the scorer. Values are never mutated.
func (s *QuizService) ResortResult(quizID uint, strategy model.SortStrategy) (*model.RecommendationSet, error) {
	switch strategy {
	case model.SortScientific, model.SortPopular, model.SortQuickEffect:
	default:
		return nil, util.ErrUnknownSortOrder
	}

	res, err := s.QuizRepo.FindResultByQuizID(quizID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, util.ErrResultNotFound
		}
		return nil, err
	}

	var set model.RecommendationSet
	if err := json.Unmarshal([]byte(res.Payload), &set); err != nil {
		return nil, err
	}

	set.Recommendations = engine.Resort(set.Recommendations, strategy)
	return &set, nil
}

// ListLeads pages through stored quiz responses for the back office.
func (s *QuizService) ListLeads(page, limit int) ([]model.QuizResponse, int64, error) {
	return s.QuizRepo.List(page, limit)
}
