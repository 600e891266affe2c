package model

// Supplement is a catalog entry the scorer can recommend. Trigger lists
// hold the objective/symptom codes that make the entry a candidate.
type Supplement struct {
	BaseModel
	Title       string `gorm:"size:255;not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`

	Benefits          StringList `gorm:"type:json" json:"benefits"`
	ObjectiveTriggers StringList `gorm:"type:json" json:"objectiveTriggers"`
	SymptomTriggers   StringList `gorm:"type:json" json:"symptomTriggers"`
	DietTriggers      StringList `gorm:"type:json" json:"dietTriggers"`

	// TimeToEffect follows the "<min>-<max> <unit>" convention, unit in
	// jour(s) / semaine(s) / mois.
	TimeToEffect string `gorm:"size:50" json:"timeToEffect"`
	Popularity   int    `gorm:"default:0" json:"popularity"`

	// Lifestyle triggers mark the entry as relevant when the matching
	// questionnaire rating is poor.
	LowSleepTrigger    bool `gorm:"default:false" json:"lowSleepTrigger"`
	HighStressTrigger  bool `gorm:"default:false" json:"highStressTrigger"`
	LowExerciseTrigger bool `gorm:"default:false" json:"lowExerciseTrigger"`
	LowMeatTrigger     bool `gorm:"default:false" json:"lowMeatTrigger"`
	LowPortionTrigger  bool `gorm:"default:false" json:"lowPortionTrigger"`

	Enabled bool `gorm:"default:true" json:"enabled"`
}

func (Supplement) TableName() string {
	return "supplements"
}
