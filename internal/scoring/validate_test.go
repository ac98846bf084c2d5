package scoring

import (
	"errors"
	"testing"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/validate"
)

func intp(v int) *int { return &v }

func TestValidateCriterion(t *testing.T) {
	cases := []struct {
		name string
		c    models.JudgingCriteria
		ok   bool
	}{
		{"rating", models.JudgingCriteria{Name: "A", Type: models.CriteriaRating, Weight: 1, MinValue: intp(1), MaxValue: intp(10)}, true},
		{"boolean", models.JudgingCriteria{Name: "B", Type: models.CriteriaBoolean, Weight: 0.5}, true},
		{"zero_weight", models.JudgingCriteria{Name: "C", Type: models.CriteriaBoolean, Weight: 0}, false},
		{"no_range", models.JudgingCriteria{Name: "D", Type: models.CriteriaRating, Weight: 1}, false},
		{"inverted_range", models.JudgingCriteria{Name: "E", Type: models.CriteriaRating, Weight: 1, MinValue: intp(5), MaxValue: intp(5)}, false},
		{"range_on_text", models.JudgingCriteria{Name: "F", Type: models.CriteriaText, Weight: 1, MaxValue: intp(5)}, false},
		{"unknown_type", models.JudgingCriteria{Name: "G", Type: "stars", Weight: 1}, false},
		{"blank_name", models.JudgingCriteria{Name: " ", Type: models.CriteriaText, Weight: 1}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidateCriterion(tc.c)
			if (err == nil) != tc.ok {
				t.Fatalf("err = %v", err)
			}
			if err != nil && !errors.Is(err, validate.ErrInvalid) {
				t.Fatalf("err must wrap ErrInvalid: %v", err)
			}
		})
	}
}

func TestValidateSubmission(t *testing.T) {
	rating := models.JudgingCriteria{Name: "R", Type: models.CriteriaRating, Weight: 1, MinValue: intp(1), MaxValue: intp(10)}
	boolean := models.JudgingCriteria{Name: "B", Type: models.CriteriaBoolean, Weight: 1}
	yes := true
	text := "fine"

	if err := ValidateSubmission(rating, models.JudgingSubmission{RatingValue: f(7)}); err != nil {
		t.Fatal(err)
	}
	if err := ValidateSubmission(rating, models.JudgingSubmission{RatingValue: f(11)}); err == nil {
		t.Fatal("out of range rating accepted")
	}
	if err := ValidateSubmission(rating, models.JudgingSubmission{BooleanValue: &yes}); err == nil {
		t.Fatal("wrong value type accepted")
	}
	if err := ValidateSubmission(rating, models.JudgingSubmission{RatingValue: f(5), TextValue: &text}); err == nil {
		t.Fatal("two values accepted")
	}
	if err := ValidateSubmission(boolean, models.JudgingSubmission{BooleanValue: &yes}); err != nil {
		t.Fatal(err)
	}
	if err := ValidateSubmission(boolean, models.JudgingSubmission{}); err == nil {
		t.Fatal("empty submission accepted")
	}
}
