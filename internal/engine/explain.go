package engine

import (
	"fmt"
	"math/rand"
	"strings"

	"nutri_edu_backend/internal/model"
)

// Explainer builds the human-readable rationale shown with a
// recommendation set. Phrasing variation is driven by the injected seed,
// so identical inputs and seed always give the same string.
type Explainer struct {
	seed int64
}

func NewExplainer(seed int64) *Explainer {
	return &Explainer{seed: seed}
}

var openings = []string{
	"D'après vos réponses, %s.",
	"Votre profil indique que %s.",
	"En analysant votre questionnaire, nous constatons que %s.",
}

// Explain produces one explanatory paragraph for a recommendation set and
// the questionnaire it came from.
func (e *Explainer) Explain(recs []model.Recommendation, quiz *model.QuizResponse) string {
	rng := rand.New(rand.NewSource(e.seed))

	if len(recs) == 0 {
		return "Aucune recommandation n'a pu être établie à partir de vos réponses."
	}
	if quiz == nil {
		quiz = &model.QuizResponse{}
	}

	var focus string
	switch {
	case len(quiz.Objectives) > 0:
		focus = fmt.Sprintf("vos priorités sont %s", strings.Join(quiz.Objectives, ", "))
	case len(quiz.Symptoms) > 0:
		focus = fmt.Sprintf("vous signalez %s", strings.Join(quiz.Symptoms, ", "))
	default:
		focus = "un soutien nutritionnel général est indiqué"
	}

	var b strings.Builder
	fmt.Fprintf(&b, openings[rng.Intn(len(openings))], focus)

	top := recs[0]
	fmt.Fprintf(&b, " Nous recommandons en priorité %s", top.Title)
	if top.TimeToEffect != "" {
		fmt.Fprintf(&b, ", avec des premiers effets attendus sous %s", top.TimeToEffect)
	}
	b.WriteString(".")

	if len(recs) > 1 {
		others := make([]string, 0, len(recs)-1)
		for _, r := range recs[1:] {
			others = append(others, r.Title)
		}
		fmt.Fprintf(&b, " En complément : %s.", strings.Join(others, ", "))
	}

	if quiz.StressLevel >= 4 {
		b.WriteString(" Votre niveau de stress élevé a été pris en compte dans la sélection.")
	}
	if quiz.SleepQuality > 0 && quiz.SleepQuality <= 2 {
		b.WriteString(" La qualité de votre sommeil a orienté certaines suggestions.")
	}

	return b.String()
}
