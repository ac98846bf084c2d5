package models

type CriteriaType string

const (
	CriteriaRating  CriteriaType = "rating"
	CriteriaBoolean CriteriaType = "boolean"
	CriteriaText    CriteriaType = "text"
)

func (t CriteriaType) Valid() bool {
	switch t {
	case CriteriaRating, CriteriaBoolean, CriteriaText:
		return true
	}
	return false
}

type JudgingCriteria struct {
	ID          string       `db:"id" json:"id" yaml:"-"`
	Name        string       `db:"name" json:"name" yaml:"name"`
	Description string       `db:"description" json:"description" yaml:"description"`
	Type        CriteriaType `db:"type" json:"type" yaml:"type"`
	Weight      float64      `db:"weight" json:"weight" yaml:"weight"`
	MinValue    *int         `db:"min_value" json:"min_value,omitempty" yaml:"min_value"`
	MaxValue    *int         `db:"max_value" json:"max_value,omitempty" yaml:"max_value"`
	Position    int          `db:"position" json:"position" yaml:"position"`
}

// JudgingSubmission: значение одного судьи по одному критерию для одного продукта.
type JudgingSubmission struct {
	JudgeID      string   `db:"judge_id" json:"judge_id"`
	ProductID    string   `db:"product_id" json:"product_id"`
	CriteriaID   string   `db:"criteria_id" json:"criteria_id"`
	RatingValue  *float64 `db:"rating_value" json:"rating_value,omitempty"`
	BooleanValue *bool    `db:"boolean_value" json:"boolean_value,omitempty"`
	TextValue    *string  `db:"text_value" json:"text_value,omitempty"`
}

// CriterionSummary is one row of get_judging_summary.
type CriterionSummary struct {
	CriteriaID string       `db:"criteria_id" json:"criteria_id"`
	Name       string       `db:"name" json:"name"`
	Type       CriteriaType `db:"type" json:"type"`
	Weight     float64      `db:"weight" json:"weight"`
	AvgRating  *float64     `db:"avg_rating" json:"avg_rating"`
	TrueCount  int          `db:"true_count" json:"true_count"`
	FalseCount int          `db:"false_count" json:"false_count"`
	JudgeCount int          `db:"judge_count" json:"judge_count"`
}

type JudgingNote struct {
	JudgeID   string `db:"judge_id" json:"judge_id"`
	ProductID string `db:"product_id" json:"product_id"`
	Notes     string `db:"notes" json:"notes"`
}

type Evaluation struct {
	Criteria     []JudgingCriteria  `json:"criteria"`
	Summary      []CriterionSummary `json:"summary"`
	OverallScore *float64           `json:"overall_score"`
}
