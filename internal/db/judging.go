package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/models"
)

func AssignJudge(ctx context.Context, database *sql.DB, judgeID, productID string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO judge_assignments (judge_id, product_id) VALUES ($1, $2)
		ON CONFLICT (judge_id, product_id) DO NOTHING`, judgeID, productID)
	return notFoundFK(err)
}

func UnassignJudge(ctx context.Context, database *sql.DB, judgeID, productID string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return mustAffect(database.ExecContext(ctx,
		`DELETE FROM judge_assignments WHERE judge_id = $1 AND product_id = $2`, judgeID, productID))
}

func IsJudgeAssigned(ctx context.Context, database *sql.DB, judgeID, productID string) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var ok bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM judge_assignments WHERE judge_id = $1 AND product_id = $2)`,
		judgeID, productID).Scan(&ok)
	return ok, err
}

// ListAssignedJudgeIDs: судьи, назначенные на продукт, в порядке назначения.
func ListAssignedJudgeIDs(ctx context.Context, database *sql.DB, productID string) ([]string, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT judge_id FROM judge_assignments WHERE product_id = $1 ORDER BY created_at, judge_id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		out = append(out, id)
	}
	return out, rows.Err()
}

// ListEvaluatingJudges: профили судей, оставивших хотя бы одну оценку по продукту,
// в порядке первой оценки. Правка оценки порядок не меняет.
func ListEvaluatingJudges(ctx context.Context, database *sql.DB, productID string) ([]models.Judge, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT p.id, p.full_name, p.avatar_url, p.linkedin_url
		FROM profiles p
		JOIN (
			SELECT judge_id, MIN(created_at) AS first_at
			FROM judging_submissions WHERE product_id = $1
			GROUP BY judge_id
		) s ON s.judge_id = p.id
		ORDER BY s.first_at, p.id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.Judge{}
	for rows.Next() {
		var j models.Judge
		if err := rows.Scan(&j.ID, &j.FullName, &j.AvatarURL, &j.LinkedInURL); err != nil {
			return nil, err
		}
		out = append(out, j)
	}
	return out, rows.Err()
}

func UpsertSubmission(ctx context.Context, database *sql.DB, s models.JudgingSubmission) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO judging_submissions (judge_id, product_id, criteria_id, rating_value, boolean_value, text_value)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (judge_id, product_id, criteria_id) DO UPDATE SET
			rating_value  = EXCLUDED.rating_value,
			boolean_value = EXCLUDED.boolean_value,
			text_value    = EXCLUDED.text_value,
			updated_at    = now()`,
		s.JudgeID, s.ProductID, s.CriteriaID, s.RatingValue, s.BooleanValue, s.TextValue)
	return notFoundFK(err)
}

func ListSubmissions(ctx context.Context, database *sql.DB, productID string) ([]models.JudgingSubmission, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT judge_id, product_id, criteria_id, rating_value, boolean_value, text_value
		FROM judging_submissions WHERE product_id = $1
		ORDER BY judge_id, criteria_id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []models.JudgingSubmission
	for rows.Next() {
		var s models.JudgingSubmission
		if err := rows.Scan(&s.JudgeID, &s.ProductID, &s.CriteriaID, &s.RatingValue, &s.BooleanValue, &s.TextValue); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func UpsertNote(ctx context.Context, database *sql.DB, n models.JudgingNote) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO judging_notes (judge_id, product_id, notes) VALUES ($1, $2, $3)
		ON CONFLICT (judge_id, product_id) DO UPDATE SET notes = EXCLUDED.notes, updated_at = now()`,
		n.JudgeID, n.ProductID, n.Notes)
	return notFoundFK(err)
}

func ListNotes(ctx context.Context, database *sql.DB, productID string) ([]models.JudgingNote, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx,
		`SELECT judge_id, product_id, notes FROM judging_notes WHERE product_id = $1 ORDER BY judge_id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []models.JudgingNote
	for rows.Next() {
		var n models.JudgingNote
		if err := rows.Scan(&n.JudgeID, &n.ProductID, &n.Notes); err != nil {
			return nil, err
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// GetJudgingSummary читает серверную агрегацию get_judging_summary.
func GetJudgingSummary(ctx context.Context, database *sql.DB, productID string) ([]models.CriterionSummary, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT criteria_id, name, type, weight, avg_rating, true_count, false_count, judge_count
		FROM get_judging_summary($1)`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.CriterionSummary{}
	for rows.Next() {
		var s models.CriterionSummary
		if err := rows.Scan(&s.CriteriaID, &s.Name, &s.Type, &s.Weight, &s.AvgRating, &s.TrueCount, &s.FalseCount, &s.JudgeCount); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
