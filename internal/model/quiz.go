package model

import "fmt"

// Objective is a goal the visitor picked in the questionnaire.
type Objective string

const (
	ObjectiveEnergy        Objective = "energie"
	ObjectiveSleep         Objective = "sommeil"
	ObjectiveImmunity      Objective = "immunite"
	ObjectiveDigestion     Objective = "digestion"
	ObjectiveStress        Objective = "stress"
	ObjectiveConcentration Objective = "concentration"
)

// DietaryHabit is the single selected dietary category.
type DietaryHabit string

const (
	DietOmnivore    DietaryHabit = "omnivore"
	DietVegetarian  DietaryHabit = "vegetarien"
	DietVegan       DietaryHabit = "vegan"
	DietFlexitarian DietaryHabit = "flexitarien"
	DietGlutenFree  DietaryHabit = "sans_gluten"
)

// Frequency is an ordinal consumption/activity bucket, lowest to highest.
type Frequency string

const (
	FreqNever     Frequency = "jamais"
	FreqRarely    Frequency = "rarement"
	FreqSometimes Frequency = "parfois"
	FreqOften     Frequency = "souvent"
	FreqDaily     Frequency = "quotidien"
)

// FrequencyRank maps an ordinal frequency to a comparable rank. Unknown
// values rank as 0 (no signal).
func FrequencyRank(f Frequency) int {
	switch f {
	case FreqNever:
		return 0
	case FreqRarely:
		return 1
	case FreqSometimes:
		return 2
	case FreqOften:
		return 3
	case FreqDaily:
		return 4
	default:
		return 0
	}
}

// PortionBucket is the fruit/vegetable daily portion count bucket.
type PortionBucket string

const (
	PortionsNone   PortionBucket = "0-1"
	PortionsLow    PortionBucket = "2-3"
	PortionsMedium PortionBucket = "4-5"
	PortionsHigh   PortionBucket = "5+"
)

// Symptom is a self-reported complaint.
type Symptom string

const (
	SymptomFatigue       Symptom = "fatigue"
	SymptomSleepTrouble  Symptom = "troubles_sommeil"
	SymptomDigestion     Symptom = "inconfort_digestif"
	SymptomFrequentColds Symptom = "infections_frequentes"
	SymptomIrritability  Symptom = "irritabilite"
	SymptomLowFocus      Symptom = "manque_concentration"
	SymptomCramps        Symptom = "crampes"
	SymptomDrySkin       Symptom = "peau_seche"
)

var (
	validObjectives = map[Objective]bool{
		ObjectiveEnergy: true, ObjectiveSleep: true, ObjectiveImmunity: true,
		ObjectiveDigestion: true, ObjectiveStress: true, ObjectiveConcentration: true,
	}
	validDiets = map[DietaryHabit]bool{
		DietOmnivore: true, DietVegetarian: true, DietVegan: true,
		DietFlexitarian: true, DietGlutenFree: true,
	}
	validFrequencies = map[Frequency]bool{
		FreqNever: true, FreqRarely: true, FreqSometimes: true,
		FreqOften: true, FreqDaily: true,
	}
	validPortions = map[PortionBucket]bool{
		PortionsNone: true, PortionsLow: true, PortionsMedium: true, PortionsHigh: true,
	}
	validSymptoms = map[Symptom]bool{
		SymptomFatigue: true, SymptomSleepTrouble: true, SymptomDigestion: true,
		SymptomFrequentColds: true, SymptomIrritability: true, SymptomLowFocus: true,
		SymptomCramps: true, SymptomDrySkin: true,
	}
)

// QuizResponse is a completed questionnaire. It is frozen on submission:
// the scorer reads it, nothing mutates it afterwards.
type QuizResponse struct {
	BaseModel
	SessionID string `gorm:"size:36;index" json:"sessionId"`
	Name      string `gorm:"size:255" json:"name"`
	Email     string `gorm:"size:255;index" json:"email"`

	// Multi-select sets: duplicate-free, insertion order kept for display.
	Objectives StringList `gorm:"type:json" json:"objectives"`
	Symptoms   StringList `gorm:"type:json" json:"symptoms"`

	DietaryHabit      DietaryHabit  `gorm:"size:30" json:"dietaryHabit"`
	MeatFishFrequency Frequency     `gorm:"size:20" json:"meatFishFrequency"`
	FruitVegPortions  PortionBucket `gorm:"size:10" json:"fruitVegPortions"`
	ExerciseFrequency Frequency     `gorm:"size:20" json:"exerciseFrequency"`

	// Ordinal self-ratings, 1 (worst) to 5 (best / highest).
	SleepQuality int `gorm:"default:0" json:"sleepQuality"`
	StressLevel  int `gorm:"default:0" json:"stressLevel"`
}

func (QuizResponse) TableName() string {
	return "quiz_responses"
}

// Validate rejects values outside the fixed option lists and strips
// duplicates from the multi-select sets. Empty fields are allowed: a
// partially answered quiz is still scoreable (missing field = no signal).
func (q *QuizResponse) Validate() error {
	seen := make(map[string]bool, len(q.Objectives))
	dedup := q.Objectives[:0]
	for _, o := range q.Objectives {
		if !validObjectives[Objective(o)] {
			return fmt.Errorf("unknown objective %q", o)
		}
		if !seen[o] {
			seen[o] = true
			dedup = append(dedup, o)
		}
	}
	q.Objectives = dedup

	seen = make(map[string]bool, len(q.Symptoms))
	dedup = q.Symptoms[:0]
	for _, s := range q.Symptoms {
		if !validSymptoms[Symptom(s)] {
			return fmt.Errorf("unknown symptom %q", s)
		}
		if !seen[s] {
			seen[s] = true
			dedup = append(dedup, s)
		}
	}
	q.Symptoms = dedup

	if q.DietaryHabit != "" && !validDiets[q.DietaryHabit] {
		return fmt.Errorf("unknown dietary habit %q", q.DietaryHabit)
	}
	if q.MeatFishFrequency != "" && !validFrequencies[q.MeatFishFrequency] {
		return fmt.Errorf("unknown meat/fish frequency %q", q.MeatFishFrequency)
	}
	if q.ExerciseFrequency != "" && !validFrequencies[q.ExerciseFrequency] {
		return fmt.Errorf("unknown exercise frequency %q", q.ExerciseFrequency)
	}
	if q.FruitVegPortions != "" && !validPortions[q.FruitVegPortions] {
		return fmt.Errorf("unknown portion bucket %q", q.FruitVegPortions)
	}
	if q.SleepQuality < 0 || q.SleepQuality > 5 {
		return fmt.Errorf("sleep quality out of range: %d", q.SleepQuality)
	}
	if q.StressLevel < 0 || q.StressLevel > 5 {
		return fmt.Errorf("stress level out of range: %d", q.StressLevel)
	}
	return nil
}
