package scoring

import (
	"strconv"

	"github.com/Spok95/showcase-judging/internal/models"
)

// OverallScore returns Σ(avg_rating×weight)/Σ(weight) over rating criteria that
// have an average. Nil means there is nothing to score.
func OverallScore(summary []models.CriterionSummary) *float64 {
	var weighted, weights float64
	for _, s := range summary {
		if s.Type != models.CriteriaRating || s.AvgRating == nil {
			continue
		}
		weighted += *s.AvgRating * s.Weight
		weights += s.Weight
	}
	if weights == 0 {
		return nil
	}
	v := weighted / weights
	return &v
}

func FormatScore(v *float64) string {
	if v == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*v, 'f', 1, 64)
}
