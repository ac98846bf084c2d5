package scoring

import (
	"math"
	"strings"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/validate"
)

const maxTextValue = 5000

// ValidateCriterion: непустое имя, известный тип, вес > 0; у rating min < max,
// у остальных типов границ нет.
func ValidateCriterion(c models.JudgingCriteria) error {
	if strings.TrimSpace(c.Name) == "" {
		return validate.Invalid("criterion name is required")
	}
	if !c.Type.Valid() {
		return validate.Invalid("criterion %q: unknown type %q", c.Name, c.Type)
	}
	if !(c.Weight > 0) || math.IsInf(c.Weight, 0) {
		return validate.Invalid("criterion %q: weight must be positive", c.Name)
	}
	if c.Type == models.CriteriaRating {
		if c.MinValue == nil || c.MaxValue == nil || *c.MinValue >= *c.MaxValue {
			return validate.Invalid("criterion %q: rating needs min_value < max_value", c.Name)
		}
	} else if c.MinValue != nil || c.MaxValue != nil {
		return validate.Invalid("criterion %q: min_value/max_value apply to rating only", c.Name)
	}
	return nil
}

// ValidateSubmission checks that exactly the value matching the criterion type
// is set and that ratings fall inside the criterion range.
func ValidateSubmission(c models.JudgingCriteria, s models.JudgingSubmission) error {
	set := 0
	for _, ok := range []bool{s.RatingValue != nil, s.BooleanValue != nil, s.TextValue != nil} {
		if ok {
			set++
		}
	}
	if set != 1 {
		return validate.Invalid("criterion %q: exactly one value is required", c.Name)
	}
	switch c.Type {
	case models.CriteriaRating:
		if s.RatingValue == nil {
			return validate.Invalid("criterion %q expects rating_value", c.Name)
		}
		v := *s.RatingValue
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return validate.Invalid("criterion %q: rating is not a number", c.Name)
		}
		if c.MinValue != nil && v < float64(*c.MinValue) || c.MaxValue != nil && v > float64(*c.MaxValue) {
			return validate.Invalid("criterion %q: rating %g out of range", c.Name, v)
		}
	case models.CriteriaBoolean:
		if s.BooleanValue == nil {
			return validate.Invalid("criterion %q expects boolean_value", c.Name)
		}
	case models.CriteriaText:
		if s.TextValue == nil {
			return validate.Invalid("criterion %q expects text_value", c.Name)
		}
		if len([]rune(*s.TextValue)) > maxTextValue {
			return validate.Invalid("criterion %q: text too long", c.Name)
		}
	}
	return nil
}
