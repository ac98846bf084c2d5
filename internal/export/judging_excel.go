package export

import (
	"fmt"
	"math"

	"github.com/xuri/excelize/v2"

	"github.com/Spok95/showcase-judging/internal/models"
	"github.com/Spok95/showcase-judging/internal/scoring"
)

const SummarySheet = "Summary"

// JudgingReport: всё, что нужно для выгрузки, уже прочитанное из БД.
type JudgingReport struct {
	Product     models.Product
	Criteria    []models.JudgingCriteria
	Summary     []models.CriterionSummary
	Judges      []models.Profile
	Submissions []models.JudgingSubmission
	Notes       []models.JudgingNote
}

// BuildJudgingWorkbook: лист Summary с агрегатами по критериям и по листу на каждого судью.
func BuildJudgingWorkbook(r JudgingReport) (*excelize.File, error) {
	used := map[string]bool{}
	sheets := []SheetSpec{summarySheet(r, UniqueSheetName(SummarySheet, used))}

	byJudge := make(map[string]map[string]models.JudgingSubmission, len(r.Judges))
	for _, s := range r.Submissions {
		m, ok := byJudge[s.JudgeID]
		if !ok {
			m = map[string]models.JudgingSubmission{}
			byJudge[s.JudgeID] = m
		}
		m[s.CriteriaID] = s
	}
	notes := make(map[string]string, len(r.Notes))
	for _, n := range r.Notes {
		notes[n.JudgeID] = n.Notes
	}

	for _, j := range r.Judges {
		label := j.FullName
		if label == "" {
			label = j.Email
		}
		title := UniqueSheetName(WorkbookSheetName(label), used)
		sheets = append(sheets, judgeSheet(title, r.Criteria, byJudge[j.ID], notes[j.ID]))
	}
	return NewWorkbook(sheets)
}

func summarySheet(r JudgingReport, title string) SheetSpec {
	spec := SheetSpec{
		Title:  title,
		Header: []string{"Criterion", "Type", "Weight", "Result", "Judges"},
	}
	for _, s := range r.Summary {
		var result any
		switch s.Type {
		case models.CriteriaRating:
			if s.AvgRating != nil {
				result = round2(*s.AvgRating)
			} else {
				result = "N/A"
			}
		case models.CriteriaBoolean:
			result = fmt.Sprintf("Yes: %d / No: %d", s.TrueCount, s.FalseCount)
		default:
			result = fmt.Sprintf("%d response(s)", s.JudgeCount)
		}
		spec.Rows = append(spec.Rows, []any{s.Name, string(s.Type), s.Weight, result, s.JudgeCount})
	}
	spec.Footer = [][]any{
		{"Product", r.Product.Name},
		{"Overall score", scoring.FormatScore(scoring.OverallScore(r.Summary))},
	}
	return spec
}

func judgeSheet(title string, criteria []models.JudgingCriteria, subs map[string]models.JudgingSubmission, notes string) SheetSpec {
	spec := SheetSpec{
		Title:  title,
		Header: []string{"Criterion", "Type", "Value"},
	}
	for _, c := range criteria {
		spec.Rows = append(spec.Rows, []any{c.Name, string(c.Type), submissionValue(c, subs[c.ID], subs != nil)})
	}
	if notes == "" {
		notes = "—"
	}
	spec.Footer = [][]any{{"Notes", notes}}
	return spec
}

func submissionValue(c models.JudgingCriteria, s models.JudgingSubmission, submitted bool) any {
	if !submitted {
		return "—"
	}
	switch c.Type {
	case models.CriteriaRating:
		if s.RatingValue != nil {
			return round2(*s.RatingValue)
		}
	case models.CriteriaBoolean:
		if s.BooleanValue != nil {
			if *s.BooleanValue {
				return "Yes"
			}
			return "No"
		}
	case models.CriteriaText:
		if s.TextValue != nil && *s.TextValue != "" {
			return *s.TextValue
		}
	}
	return "—"
}

func round2(v float64) float64 { return math.Round(v*100) / 100 }
