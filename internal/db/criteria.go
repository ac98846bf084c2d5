package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/models"
)

const criteriaColumns = `id, name, description, type, weight, min_value, max_value, position`

func scanCriteria(r rowScanner) (*models.JudgingCriteria, error) {
	var c models.JudgingCriteria
	if err := r.Scan(&c.ID, &c.Name, &c.Description, &c.Type, &c.Weight, &c.MinValue, &c.MaxValue, &c.Position); err != nil {
		return nil, err
	}
	return &c, nil
}

func ListCriteria(ctx context.Context, database *sql.DB) ([]models.JudgingCriteria, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `SELECT `+criteriaColumns+` FROM judging_criteria ORDER BY position, name`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.JudgingCriteria{}
	for rows.Next() {
		c, err := scanCriteria(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *c)
	}
	return out, rows.Err()
}

func GetCriteria(ctx context.Context, database *sql.DB, id string) (*models.JudgingCriteria, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	c, err := scanCriteria(database.QueryRowContext(ctx, `SELECT `+criteriaColumns+` FROM judging_criteria WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return c, nil
}

func CreateCriteria(ctx context.Context, database *sql.DB, c models.JudgingCriteria) (*models.JudgingCriteria, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	out, err := scanCriteria(database.QueryRowContext(ctx, `
		INSERT INTO judging_criteria (name, description, type, weight, min_value, max_value, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING `+criteriaColumns,
		c.Name, c.Description, string(c.Type), c.Weight, c.MinValue, c.MaxValue, c.Position))
	if err != nil {
		return nil, conflict(err)
	}
	return out, nil
}

// UpdateCriteria перезаписывает критерий целиком (валидация: на стороне вызывающего).
func UpdateCriteria(ctx context.Context, database *sql.DB, c models.JudgingCriteria) (*models.JudgingCriteria, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	out, err := scanCriteria(database.QueryRowContext(ctx, `
		UPDATE judging_criteria SET name = $2, description = $3, type = $4, weight = $5,
			min_value = $6, max_value = $7, position = $8
		WHERE id = $1
		RETURNING `+criteriaColumns,
		c.ID, c.Name, c.Description, string(c.Type), c.Weight, c.MinValue, c.MaxValue, c.Position))
	if err != nil {
		return nil, conflict(notFound(err))
	}
	return out, nil
}

func DeleteCriteria(ctx context.Context, database *sql.DB, id string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return mustAffect(database.ExecContext(ctx, `DELETE FROM judging_criteria WHERE id = $1`, id))
}

// UpsertCriteriaByName: для сидирования: существующие критерии не перезаписываются.
func UpsertCriteriaByName(ctx context.Context, database *sql.DB, c models.JudgingCriteria) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	res, err := database.ExecContext(ctx, `
		INSERT INTO judging_criteria (name, description, type, weight, min_value, max_value, position)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (name) DO NOTHING`,
		c.Name, c.Description, string(c.Type), c.Weight, c.MinValue, c.MaxValue, c.Position)
	if err != nil {
		return false, err
	}
	n, _ := res.RowsAffected()
	return n > 0, nil
}
