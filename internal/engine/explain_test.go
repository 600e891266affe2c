package engine

import (
	"testing"

	"nutri_edu_backend/internal/model"

	"github.com/stretchr/testify/assert"
)

func TestExplainDeterministicForSeed(t *testing.T) {
	recs := []model.Recommendation{
		{Title: "Magnésium marin", TimeToEffect: "1-2 semaines"},
		{Title: "Mélatonine"},
	}
	quiz := &model.QuizResponse{Objectives: model.StringList{"sommeil"}}

	a := NewExplainer(42).Explain(recs, quiz)
	b := NewExplainer(42).Explain(recs, quiz)
	assert.Equal(t, a, b)
}

func TestExplainMentionsTopAndOthers(t *testing.T) {
	recs := []model.Recommendation{
		{Title: "Magnésium marin", TimeToEffect: "1-2 semaines"},
		{Title: "Mélatonine"},
		{Title: "Oméga-3"},
	}
	quiz := &model.QuizResponse{Objectives: model.StringList{"sommeil", "stress"}}

	out := NewExplainer(7).Explain(recs, quiz)
	assert.Contains(t, out, "Magnésium marin")
	assert.Contains(t, out, "1-2 semaines")
	assert.Contains(t, out, "En complément : Mélatonine, Oméga-3.")
	assert.Contains(t, out, "sommeil, stress")
}

func TestExplainLifestyleClosings(t *testing.T) {
	recs := []model.Recommendation{{Title: "Magnésium marin"}}

	stressed := NewExplainer(1).Explain(recs, &model.QuizResponse{StressLevel: 5})
	assert.Contains(t, stressed, "stress élevé")

	tired := NewExplainer(1).Explain(recs, &model.QuizResponse{SleepQuality: 1})
	assert.Contains(t, tired, "sommeil")
}

func TestExplainEmptyInputs(t *testing.T) {
	assert.Equal(t,
		"Aucune recommandation n'a pu être établie à partir de vos réponses.",
		NewExplainer(1).Explain(nil, nil))

	out := NewExplainer(1).Explain([]model.Recommendation{{Title: "X"}}, nil)
	assert.Contains(t, out, "soutien nutritionnel général")
}
