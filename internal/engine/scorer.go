package engine

import (
	"fmt"
	"sort"

	"nutri_edu_backend/internal/config"
	"nutri_edu_backend/internal/model"
	"nutri_edu_backend/pkg/logger"

	"go.uber.org/zap"
)

// FallbackTitle is the deterministic recommendation substituted whenever
// scoring cannot produce a real result.
const FallbackTitle = "Complexe Nutritionnel Standard"

// Scorer turns a questionnaire, a behavioral snapshot and a neuro profile
// into a ranked recommendation list. It never returns an error: any
// internal failure is logged and masked by the fallback recommendation.
type Scorer struct {
	cfg config.ScoringConfig
}

func NewScorer(cfg config.ScoringConfig) *Scorer {
	return &Scorer{cfg: cfg}
}

// Fallback is the recommendation returned when scoring fails or nothing
// in the catalog matches. Low but non-zero confidence.
func (s *Scorer) Fallback() model.Recommendation {
	return model.Recommendation{
		Title:       FallbackTitle,
		Description: "Une base nutritionnelle complète adaptée à la plupart des profils.",
		Confidence:  s.cfg.FallbackConfidence,
		Benefits: []string{
			"Couverture des apports essentiels",
			"Soutien général de l'organisme",
		},
		TimeToEffect: "2-4 semaines",
		Popularity:   50,
	}
}

// Score produces the ranked list for one submission. Any input may be nil
// or partially populated; missing fields contribute no signal. The result
// is never empty. The second return value reports whether the fallback
// was substituted.
func (s *Scorer) Score(quiz *model.QuizResponse, metrics *model.BehavioralMetrics, neuro *model.NeuroProfile, catalog []model.Supplement) (recs []model.Recommendation, fallback bool) {
	defer func() {
		if r := recover(); r != nil {
			logger.Log.Error("recommendation scoring failed, returning fallback",
				zap.Any("panic", r))
			recs = []model.Recommendation{s.Fallback()}
			fallback = true
		}
	}()

	if quiz == nil {
		quiz = &model.QuizResponse{}
	}

	candidates := s.generate(quiz, metrics, neuro, catalog)
	if len(candidates) == 0 {
		return []model.Recommendation{s.Fallback()}, true
	}

	return s.limit(candidates), false
}

// generate walks the catalog in stored order and scores every enabled
// entry with at least one matching trigger. Output keeps catalog order.
func (s *Scorer) generate(quiz *model.QuizResponse, metrics *model.BehavioralMetrics, neuro *model.NeuroProfile, catalog []model.Supplement) []model.Recommendation {
	engagementBoost := s.engagementBoost(metrics)

	var out []model.Recommendation
	for i := range catalog {
		sup := &catalog[i]
		if !sup.Enabled {
			continue
		}

		confidence := s.cfg.BaseConfidence
		var reasons []string
		matched := false

		for _, o := range quiz.Objectives {
			if sup.ObjectiveTriggers.Contains(o) {
				confidence += s.cfg.MatchBoost
				reasons = append(reasons, fmt.Sprintf("objectif: %s", o))
				matched = true
			}
		}
		for _, sym := range quiz.Symptoms {
			if sup.SymptomTriggers.Contains(sym) {
				confidence += s.cfg.SymptomBoost
				reasons = append(reasons, fmt.Sprintf("symptôme: %s", sym))
				matched = true
			}
		}
		if quiz.DietaryHabit != "" && sup.DietTriggers.Contains(string(quiz.DietaryHabit)) {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, fmt.Sprintf("habitude alimentaire: %s", quiz.DietaryHabit))
			matched = true
		}
		if sup.LowSleepTrigger && quiz.SleepQuality > 0 && quiz.SleepQuality <= 2 {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, "sommeil de faible qualité")
			matched = true
		}
		if sup.HighStressTrigger && quiz.StressLevel >= 4 {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, "niveau de stress élevé")
			matched = true
		}
		if sup.LowExerciseTrigger && (quiz.ExerciseFrequency == model.FreqNever || quiz.ExerciseFrequency == model.FreqRarely) {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, "activité physique limitée")
			matched = true
		}
		if sup.LowMeatTrigger && quiz.MeatFishFrequency != "" && model.FrequencyRank(quiz.MeatFishFrequency) <= 1 {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, "faible consommation de viande et poisson")
			matched = true
		}
		if sup.LowPortionTrigger && (quiz.FruitVegPortions == model.PortionsNone || quiz.FruitVegPortions == model.PortionsLow) {
			confidence += s.cfg.LifestyleBoost
			reasons = append(reasons, "apports en fruits et légumes limités")
			matched = true
		}

		if !matched {
			continue
		}

		confidence += engagementBoost
		confidence += s.neuroBoost(neuro, sup)
		confidence = clamp01(confidence)

		out = append(out, model.Recommendation{
			SupplementID: sup.ID,
			Title:        sup.Title,
			Description:  sup.Description,
			Confidence:   confidence,
			Benefits:     append([]string(nil), sup.Benefits...),
			TimeToEffect: sup.TimeToEffect,
			Popularity:   sup.Popularity,
			Reasons:      reasons,
		})
	}
	return out
}

// engagementBoost nudges confidence up for visitors who were actually
// reading. Small and uniform across candidates so it never reorders them.
func (s *Scorer) engagementBoost(metrics *model.BehavioralMetrics) float64 {
	if metrics == nil {
		return 0
	}
	score := metrics.EngagementScore
	if score < 0 {
		score = 0
	}
	if score > 10 {
		score = 10
	}
	return score / 10 * 0.05
}

// neuroBoost scales confidence by the profile dimensions that match the
// entry's objective triggers. A missing profile contributes nothing.
func (s *Scorer) neuroBoost(neuro *model.NeuroProfile, sup *model.Supplement) float64 {
	if neuro == nil || len(neuro.Dimensions) == 0 {
		return 0
	}
	var best float64
	for dim, weight := range neuro.Dimensions {
		if !sup.ObjectiveTriggers.Contains(dim) {
			continue
		}
		if weight > best {
			best = weight
		}
	}
	if best > 1 {
		best = 1
	}
	if best < 0 {
		best = 0
	}
	return best * s.cfg.NeuroBoostMax
}

// limit keeps the MaxResults highest-confidence candidates while
// preserving their generation order.
func (s *Scorer) limit(candidates []model.Recommendation) []model.Recommendation {
	if s.cfg.MaxResults <= 0 || len(candidates) <= s.cfg.MaxResults {
		return candidates
	}

	idx := make([]int, len(candidates))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		return candidates[idx[a]].Confidence > candidates[idx[b]].Confidence
	})

	keep := make(map[int]bool, s.cfg.MaxResults)
	for _, i := range idx[:s.cfg.MaxResults] {
		keep[i] = true
	}

	out := make([]model.Recommendation, 0, s.cfg.MaxResults)
	for i, r := range candidates {
		if keep[i] {
			out = append(out, r)
		}
	}
	return out
}

// Resort returns a re-ordered copy of the list. Values are never
// mutated and the sort is stable, so repeated calls with the same
// strategy yield the same order.
func Resort(recs []model.Recommendation, strategy model.SortStrategy) []model.Recommendation {
	out := append([]model.Recommendation(nil), recs...)

	switch strategy {
	case model.SortScientific:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Confidence > out[b].Confidence
		})
	case model.SortPopular:
		sort.SliceStable(out, func(a, b int) bool {
			return out[a].Popularity > out[b].Popularity
		})
	case model.SortQuickEffect:
		sort.SliceStable(out, func(a, b int) bool {
			return AverageEffectWeeks(out[a].TimeToEffect) < AverageEffectWeeks(out[b].TimeToEffect)
		})
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
