package model

// SortStrategy selects how a recommendation list is re-ordered.
type SortStrategy string

const (
	// SortScientific orders by descending confidence.
	SortScientific SortStrategy = "scientific"
	// SortPopular orders by descending popularity.
	SortPopular SortStrategy = "popular"
	// SortQuickEffect orders by ascending parsed time-to-effect.
	SortQuickEffect SortStrategy = "quickEffect"
)

// Recommendation is one scored suggestion. Confidence is always within
// [0,1]; TimeToEffect keeps the catalog's "<min>-<max> <unit>" string.
type Recommendation struct {
	SupplementID uint     `json:"supplementId,omitempty"`
	Title        string   `json:"title"`
	Description  string   `json:"description"`
	Confidence   float64  `json:"confidence"`
	Benefits     []string `json:"benefits"`
	TimeToEffect string   `json:"timeToEffect"`
	Popularity   int      `json:"popularity"`
	Reasons      []string `json:"reasons,omitempty"`
}

// RecommendationSet is the scorer's resolved output for one quiz
// submission. The list is never empty; on internal failure it holds the
// single fallback entry.
type RecommendationSet struct {
	Recommendations []Recommendation `json:"recommendations"`
	Explanation     string           `json:"explanation"`
	Fallback        bool             `json:"fallback,omitempty"`
}

// ScoredResult persists a resolved set so later re-sort requests can be
// served without re-running the scorer.
type ScoredResult struct {
	BaseModel
	QuizResponseID uint   `gorm:"index;not null" json:"quizResponseId"`
	SessionID      string `gorm:"size:36;index" json:"sessionId"`
	Payload        string `gorm:"type:text" json:"-"`
	Fallback       bool   `gorm:"default:false" json:"fallback"`
}

func (ScoredResult) TableName() string {
	return "scored_results"
}
