package service

import (
	"testing"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQuizSubmissionNormalizeStructuredShape(t *testing.T) {
	sub := QuizSubmission{
		Responses: &QuizPayload{
			Name:         "Claire",
			Email:        "claire@example.org",
			Objectives:   []string{"sommeil"},
			DietaryHabit: "vegan",
			SleepQuality: 2,
		},
	}

	q, err := sub.Normalize("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", q.SessionID)
	assert.Equal(t, "Claire", q.Name)
	assert.Equal(t, model.DietVegan, q.DietaryHabit)
	assert.Equal(t, model.StringList{"sommeil"}, q.Objectives)
}

func TestQuizSubmissionNormalizeLegacyShape(t *testing.T) {
	sub := QuizSubmission{
		Data: &QuizPayload{
			Objectives:  []string{"energie"},
			StressLevel: 5,
		},
	}

	q, err := sub.Normalize("sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"energie"}, q.Objectives)
	assert.Equal(t, 5, q.StressLevel)
}

func TestQuizSubmissionNormalizeStructuredWins(t *testing.T) {
	sub := QuizSubmission{
		Responses: &QuizPayload{Objectives: []string{"sommeil"}},
		Data:      &QuizPayload{Objectives: []string{"energie"}},
	}

	q, err := sub.Normalize("sess-1")
	require.NoError(t, err)
	assert.Equal(t, model.StringList{"sommeil"}, q.Objectives)
}

func TestQuizSubmissionNormalizeEmptyBody(t *testing.T) {
	sub := QuizSubmission{}
	q, err := sub.Normalize("sess-1")
	require.NoError(t, err)
	assert.Equal(t, "sess-1", q.SessionID)
	assert.Empty(t, q.Objectives)
}

func TestQuizSubmissionNormalizeRejectsBadValues(t *testing.T) {
	sub := QuizSubmission{
		Responses: &QuizPayload{Objectives: []string{"minceur"}},
	}

	_, err := sub.Normalize("sess-1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown objective")
}

func TestQuizServiceReconfigureRefreshesScorer(t *testing.T) {
	cfg := &config.Config{
		Scoring: config.ScoringConfig{
			BaseConfidence:     0.5,
			MatchBoost:         0.12,
			FallbackConfidence: 0.35,
			MaxResults:         5,
		},
	}
	svc := NewQuizService(nil, nil, nil, cfg)

	catalog := []model.Supplement{{
		BaseModel:         model.BaseModel{ID: 1},
		Title:             "Magnésium marin",
		ObjectiveTriggers: model.StringList{"sommeil"},
		Enabled:           true,
	}}
	quiz := &model.QuizResponse{Objectives: model.StringList{"sommeil"}}

	recs, fallback := svc.scorer().Score(quiz, nil, nil, catalog)
	require.False(t, fallback)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.62, recs[0].Confidence, 1e-9)

	fresh := *cfg
	fresh.Scoring.MatchBoost = 0.40
	svc.Reconfigure(&fresh)

	recs, fallback = svc.scorer().Score(quiz, nil, nil, catalog)
	require.False(t, fallback)
	require.Len(t, recs, 1)
	assert.InDelta(t, 0.90, recs[0].Confidence, 1e-9)
}
