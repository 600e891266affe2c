package engine

import (
	"testing"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoringConfig() config.ScoringConfig {
	return config.ScoringConfig{
		AnalysisDelayMs:    0,
		BaseConfidence:     0.5,
		MatchBoost:         0.12,
		SymptomBoost:       0.08,
		LifestyleBoost:     0.06,
		NeuroBoostMax:      0.1,
		FallbackConfidence: 0.35,
		MaxResults:         5,
	}
}

func testCatalog() []model.Supplement {
	return []model.Supplement{
		{
			BaseModel:         model.BaseModel{ID: 1},
			Title:             "Magnésium marin",
			ObjectiveTriggers: model.StringList{"stress", "sommeil"},
			SymptomTriggers:   model.StringList{"irritabilite", "crampes"},
			TimeToEffect:      "1-2 semaines",
			Popularity:        88,
			HighStressTrigger: true,
			Enabled:           true,
		},
		{
			BaseModel:         model.BaseModel{ID: 2},
			Title:             "Oméga-3",
			ObjectiveTriggers: model.StringList{"concentration"},
			DietTriggers:      model.StringList{"vegetarien", "vegan"},
			TimeToEffect:      "3-4 mois",
			Popularity:        75,
			Enabled:           true,
		},
		{
			BaseModel:         model.BaseModel{ID: 3},
			Title:             "Mélatonine",
			ObjectiveTriggers: model.StringList{"sommeil"},
			SymptomTriggers:   model.StringList{"troubles_sommeil"},
			TimeToEffect:      "2-3 jours",
			Popularity:        81,
			LowSleepTrigger:   true,
			Enabled:           true,
		},
		{
			BaseModel:         model.BaseModel{ID: 4},
			Title:             "Désactivé",
			ObjectiveTriggers: model.StringList{"sommeil"},
			Enabled:           false,
		},
	}
}

func TestScorerMatchesTriggers(t *testing.T) {
	s := NewScorer(scoringConfig())

	quiz := &model.QuizResponse{
		Objectives:   model.StringList{"sommeil"},
		Symptoms:     model.StringList{"troubles_sommeil"},
		SleepQuality: 2,
	}

	recs, fallback := s.Score(quiz, nil, nil, testCatalog())
	require.False(t, fallback)
	require.Len(t, recs, 2)

	// Catalog order is preserved at equal relevance.
	assert.Equal(t, "Magnésium marin", recs[0].Title)
	assert.Equal(t, "Mélatonine", recs[1].Title)

	// Mélatonine matched objective + symptom + low sleep; Magnésium only
	// the objective.
	assert.Greater(t, recs[1].Confidence, recs[0].Confidence)
	assert.Contains(t, recs[1].Reasons, "sommeil de faible qualité")

	for _, r := range recs {
		assert.GreaterOrEqual(t, r.Confidence, 0.0)
		assert.LessOrEqual(t, r.Confidence, 1.0)
	}
}

func TestScorerDisabledEntriesIgnored(t *testing.T) {
	s := NewScorer(scoringConfig())

	quiz := &model.QuizResponse{Objectives: model.StringList{"sommeil"}}
	recs, _ := s.Score(quiz, nil, nil, testCatalog())

	for _, r := range recs {
		assert.NotEqual(t, "Désactivé", r.Title)
	}
}

func TestScorerFallbackOnNoMatch(t *testing.T) {
	s := NewScorer(scoringConfig())

	recs, fallback := s.Score(&model.QuizResponse{}, nil, nil, testCatalog())
	require.True(t, fallback)
	require.Len(t, recs, 1)
	assert.Equal(t, FallbackTitle, recs[0].Title)
	assert.Equal(t, 0.35, recs[0].Confidence)
}

func TestScorerFallbackOnEmptyCatalog(t *testing.T) {
	s := NewScorer(scoringConfig())

	recs, fallback := s.Score(&model.QuizResponse{Objectives: model.StringList{"sommeil"}}, nil, nil, nil)
	require.True(t, fallback)
	require.Len(t, recs, 1)
	assert.Equal(t, FallbackTitle, recs[0].Title)
}

func TestScorerNilQuiz(t *testing.T) {
	s := NewScorer(scoringConfig())

	recs, fallback := s.Score(nil, nil, nil, testCatalog())
	require.True(t, fallback)
	require.NotEmpty(t, recs)
}

func TestScorerEngagementBoostNeverReorders(t *testing.T) {
	s := NewScorer(scoringConfig())
	quiz := &model.QuizResponse{
		Objectives: model.StringList{"sommeil", "concentration"},
	}

	base, _ := s.Score(quiz, nil, nil, testCatalog())
	engaged, _ := s.Score(quiz, &model.BehavioralMetrics{EngagementScore: 10}, nil, testCatalog())

	require.Equal(t, len(base), len(engaged))
	for i := range base {
		assert.Equal(t, base[i].Title, engaged[i].Title)
		assert.Greater(t, engaged[i].Confidence, base[i].Confidence)
	}
}

func TestScorerNeuroBoostOnlyMatchingDimension(t *testing.T) {
	s := NewScorer(scoringConfig())
	quiz := &model.QuizResponse{Objectives: model.StringList{"sommeil", "concentration"}}

	neuro := &model.NeuroProfile{Dimensions: map[string]float64{"concentration": 1.0}}

	plain, _ := s.Score(quiz, nil, nil, testCatalog())
	boosted, _ := s.Score(quiz, nil, neuro, testCatalog())

	byTitle := func(recs []model.Recommendation, title string) model.Recommendation {
		for _, r := range recs {
			if r.Title == title {
				return r
			}
		}
		t.Fatalf("missing %s", title)
		return model.Recommendation{}
	}

	assert.InDelta(t, 0.1, byTitle(boosted, "Oméga-3").Confidence-byTitle(plain, "Oméga-3").Confidence, 1e-9)
	assert.InDelta(t, 0.0, byTitle(boosted, "Mélatonine").Confidence-byTitle(plain, "Mélatonine").Confidence, 1e-9)
}

func TestScorerLimitKeepsTopByConfidence(t *testing.T) {
	cfg := scoringConfig()
	cfg.MaxResults = 1
	s := NewScorer(cfg)

	quiz := &model.QuizResponse{
		Objectives: model.StringList{"sommeil"},
		Symptoms:   model.StringList{"troubles_sommeil"},
	}

	recs, fallback := s.Score(quiz, nil, nil, testCatalog())
	require.False(t, fallback)
	require.Len(t, recs, 1)
	assert.Equal(t, "Mélatonine", recs[0].Title)
}

func TestResortStrategies(t *testing.T) {
	recs := []model.Recommendation{
		{Title: "A", Confidence: 0.6, Popularity: 90, TimeToEffect: "3-4 mois"},
		{Title: "B", Confidence: 0.9, Popularity: 50, TimeToEffect: "1-2 semaines"},
		{Title: "C", Confidence: 0.7, Popularity: 70, TimeToEffect: "2-3 jours"},
	}

	titles := func(in []model.Recommendation) []string {
		out := make([]string, len(in))
		for i, r := range in {
			out[i] = r.Title
		}
		return out
	}

	assert.Equal(t, []string{"B", "C", "A"}, titles(Resort(recs, model.SortScientific)))
	assert.Equal(t, []string{"A", "C", "B"}, titles(Resort(recs, model.SortPopular)))
	assert.Equal(t, []string{"C", "B", "A"}, titles(Resort(recs, model.SortQuickEffect)))

	// Input order is untouched.
	assert.Equal(t, []string{"A", "B", "C"}, titles(recs))
}

func TestResortIdempotent(t *testing.T) {
	recs := []model.Recommendation{
		{Title: "A", Confidence: 0.6},
		{Title: "B", Confidence: 0.9},
		{Title: "C", Confidence: 0.9},
	}

	once := Resort(recs, model.SortScientific)
	twice := Resort(once, model.SortScientific)
	assert.Equal(t, once, twice)
}

func TestScorerDietarySignalTriggers(t *testing.T) {
	s := NewScorer(scoringConfig())

	catalog := []model.Supplement{
		{
			BaseModel:      model.BaseModel{ID: 10},
			Title:          "Oméga-3",
			LowMeatTrigger: true,
			Enabled:        true,
		},
		{
			BaseModel:         model.BaseModel{ID: 11},
			Title:             "Probiotiques",
			LowPortionTrigger: true,
			Enabled:           true,
		},
	}

	quiz := &model.QuizResponse{
		MeatFishFrequency: model.FreqRarely,
		FruitVegPortions:  model.PortionsNone,
	}

	recs, fallback := s.Score(quiz, nil, nil, catalog)
	require.False(t, fallback)
	require.Len(t, recs, 2)
	assert.InDelta(t, 0.56, recs[0].Confidence, 1e-9)
	assert.Contains(t, recs[0].Reasons, "faible consommation de viande et poisson")
	assert.Contains(t, recs[1].Reasons, "apports en fruits et légumes limités")
}

func TestScorerLowMeatSignalBoundaries(t *testing.T) {
	s := NewScorer(scoringConfig())
	catalog := []model.Supplement{{
		BaseModel:      model.BaseModel{ID: 10},
		Title:          "Oméga-3",
		LowMeatTrigger: true,
		Enabled:        true,
	}}

	tests := []struct {
		name    string
		freq    model.Frequency
		matches bool
	}{
		{"never", model.FreqNever, true},
		{"rarely", model.FreqRarely, true},
		{"sometimes", model.FreqSometimes, false},
		{"daily", model.FreqDaily, false},
		{"unanswered", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			quiz := &model.QuizResponse{MeatFishFrequency: tt.freq}
			recs, fallback := s.Score(quiz, nil, nil, catalog)
			if tt.matches {
				require.False(t, fallback)
				assert.Equal(t, "Oméga-3", recs[0].Title)
			} else {
				assert.True(t, fallback)
				assert.Equal(t, FallbackTitle, recs[0].Title)
			}
		})
	}
}

func TestScorerPortionSignalIgnoresSufficientIntake(t *testing.T) {
	s := NewScorer(scoringConfig())
	catalog := []model.Supplement{{
		BaseModel:         model.BaseModel{ID: 11},
		Title:             "Probiotiques",
		LowPortionTrigger: true,
		Enabled:           true,
	}}

	for _, portions := range []model.PortionBucket{model.PortionsMedium, model.PortionsHigh, ""} {
		quiz := &model.QuizResponse{FruitVegPortions: portions}
		_, fallback := s.Score(quiz, nil, nil, catalog)
		assert.True(t, fallback)
	}
}
