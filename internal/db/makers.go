package db

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/models"
)

var ErrCreatorMaker = errors.New("creator cannot be removed from makers")

func AddMaker(ctx context.Context, database *sql.DB, productID, profileID string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	_, err := database.ExecContext(ctx, `
		INSERT INTO product_makers (product_id, profile_id, is_creator) VALUES ($1, $2, FALSE)
		ON CONFLICT (product_id, profile_id) DO NOTHING`, productID, profileID)
	return err
}

func RemoveMaker(ctx context.Context, database *sql.DB, productID, profileID string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var isCreator bool
	err := database.QueryRowContext(ctx,
		`SELECT is_creator FROM product_makers WHERE product_id = $1 AND profile_id = $2`,
		productID, profileID).Scan(&isCreator)
	if err != nil {
		return notFound(err)
	}
	if isCreator {
		return ErrCreatorMaker
	}
	return mustAffect(database.ExecContext(ctx,
		`DELETE FROM product_makers WHERE product_id = $1 AND profile_id = $2 AND NOT is_creator`, productID, profileID))
}

// ListMakers: создатель первым, затем остальные по имени.
func ListMakers(ctx context.Context, database *sql.DB, productID string) ([]models.Maker, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT m.product_id, m.profile_id, p.full_name, m.is_creator
		FROM product_makers m JOIN profiles p ON p.id = m.profile_id
		WHERE m.product_id = $1
		ORDER BY m.is_creator DESC, LOWER(p.full_name), p.id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.Maker{}
	for rows.Next() {
		var m models.Maker
		if err := rows.Scan(&m.ProductID, &m.ProfileID, &m.FullName, &m.IsCreator); err != nil {
			return nil, err
		}
		out = append(out, m)
	}
	return out, rows.Err()
}

func IsMaker(ctx context.Context, database *sql.DB, productID, profileID string) (bool, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var ok bool
	err := database.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM product_makers WHERE product_id = $1 AND profile_id = $2)`,
		productID, profileID).Scan(&ok)
	return ok, err
}

// SetUpvote ставит или снимает апвоут; повторный вызов с тем же значением ничего не меняет.
func SetUpvote(ctx context.Context, database *sql.DB, productID, profileID string, on bool) (int, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer func() { _ = tx.Rollback() }()

	var res sql.Result
	if on {
		res, err = tx.ExecContext(ctx, `
			INSERT INTO product_upvotes (product_id, profile_id) VALUES ($1, $2)
			ON CONFLICT (product_id, profile_id) DO NOTHING`, productID, profileID)
	} else {
		res, err = tx.ExecContext(ctx,
			`DELETE FROM product_upvotes WHERE product_id = $1 AND profile_id = $2`, productID, profileID)
	}
	if err != nil {
		return 0, notFoundFK(err)
	}
	changed, _ := res.RowsAffected()

	delta := 0
	if changed > 0 {
		delta = 1
		if !on {
			delta = -1
		}
	}
	var upvotes int
	err = tx.QueryRowContext(ctx,
		`UPDATE products SET upvotes = GREATEST(upvotes + $2, 0) WHERE id = $1 RETURNING upvotes`,
		productID, delta).Scan(&upvotes)
	if err != nil {
		return 0, notFound(err)
	}
	return upvotes, tx.Commit()
}
