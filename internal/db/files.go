package db

import (
	"context"
	"database/sql"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
)

// ReferencedFiles: все пути к файлам, на которые ссылаются строки БД.
func ReferencedFiles(ctx context.Context, database *sql.DB) (map[string]struct{}, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT image_url FROM products WHERE image_url IS NOT NULL
		UNION
		SELECT image_url FROM product_screenshots
		UNION
		SELECT avatar_url FROM profiles WHERE avatar_url IS NOT NULL`)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := make(map[string]struct{})
	for rows.Next() {
		var u string
		if err := rows.Scan(&u); err != nil {
			return nil, err
		}
		out[u] = struct{}{}
	}
	return out, rows.Err()
}
