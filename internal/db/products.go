package db

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/models"
)

const productColumns = `id, name, tagline, description, website_url, image_url, categories, technologies,
	upvotes, status, created_by, created_at, updated_at`

func scanProduct(r rowScanner) (*models.Product, error) {
	var p models.Product
	var cats, techs stringList
	if err := r.Scan(&p.ID, &p.Name, &p.Tagline, &p.Description, &p.WebsiteURL, &p.ImageURL, &cats, &techs,
		&p.Upvotes, &p.Status, &p.CreatedBy, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	p.Categories = []string(cats)
	p.Technologies = []string(techs)
	return &p, nil
}

// CreateProduct вставляет продукт и сразу записывает автора в product_makers (is_creator).
// Скриншоты добавляются отдельными вызовами AddScreenshot: без общей транзакции.
func CreateProduct(ctx context.Context, database *sql.DB, p models.Product) (*models.Product, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	cats, err := jsonList(p.Categories)
	if err != nil {
		return nil, err
	}
	techs, err := jsonList(p.Technologies)
	if err != nil {
		return nil, err
	}

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	out, err := scanProduct(tx.QueryRowContext(ctx, `
		INSERT INTO products (name, tagline, description, website_url, image_url, categories, technologies, status, created_by)
		VALUES ($1, $2, $3, $4, $5, $6::jsonb, $7::jsonb, $8, $9)
		RETURNING `+productColumns,
		p.Name, p.Tagline, p.Description, p.WebsiteURL, p.ImageURL, cats, techs, string(p.Status), p.CreatedBy))
	if err != nil {
		return nil, err
	}
	if _, err := tx.ExecContext(ctx,
		`INSERT INTO product_makers (product_id, profile_id, is_creator) VALUES ($1, $2, TRUE)`,
		out.ID, out.CreatedBy); err != nil {
		return nil, fmt.Errorf("insert creator maker: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return out, nil
}

func GetProduct(ctx context.Context, database *sql.DB, id string) (*models.Product, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	p, err := scanProduct(database.QueryRowContext(ctx, `SELECT `+productColumns+` FROM products WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func ListProducts(ctx context.Context, database *sql.DB, f models.ProductFilter) ([]models.Product, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	var (
		where []string
		args  []any
	)
	if f.Status != nil {
		args = append(args, string(*f.Status))
		where = append(where, fmt.Sprintf("status = $%d", len(args)))
	}
	if c := strings.TrimSpace(f.Category); c != "" {
		list, err := jsonList([]string{c})
		if err != nil {
			return nil, err
		}
		args = append(args, list)
		where = append(where, fmt.Sprintf("categories @> $%d::jsonb", len(args)))
	}
	if s := strings.TrimSpace(f.Search); s != "" {
		args = append(args, "%"+s+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR tagline ILIKE $%d)", len(args), len(args)))
	}
	q := `SELECT ` + productColumns + ` FROM products`
	if len(where) > 0 {
		q += " WHERE " + strings.Join(where, " AND ")
	}
	limit := f.Limit
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	args = append(args, limit, max(f.Offset, 0))
	q += fmt.Sprintf(" ORDER BY upvotes DESC, created_at DESC, id LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := database.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}

type ProductUpdate struct {
	Name         *string
	Tagline      *string
	Description  *string
	WebsiteURL   *string
	ImageURL     *string
	Categories   []string
	Technologies []string
}

func UpdateProduct(ctx context.Context, database *sql.DB, id string, u ProductUpdate) (*models.Product, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var cats, techs *string
	if u.Categories != nil {
		s, err := jsonList(u.Categories)
		if err != nil {
			return nil, err
		}
		cats = &s
	}
	if u.Technologies != nil {
		s, err := jsonList(u.Technologies)
		if err != nil {
			return nil, err
		}
		techs = &s
	}
	p, err := scanProduct(database.QueryRowContext(ctx, `
		UPDATE products SET
			name         = COALESCE($2, name),
			tagline      = COALESCE($3, tagline),
			description  = COALESCE($4, description),
			website_url  = COALESCE($5, website_url),
			image_url    = COALESCE($6, image_url),
			categories   = COALESCE($7::jsonb, categories),
			technologies = COALESCE($8::jsonb, technologies),
			updated_at   = now()
		WHERE id = $1
		RETURNING `+productColumns,
		id, u.Name, u.Tagline, u.Description, u.WebsiteURL, u.ImageURL, cats, techs))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func SetProductStatus(ctx context.Context, database *sql.DB, id string, status models.ProductStatus) (*models.Product, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	p, err := scanProduct(database.QueryRowContext(ctx,
		`UPDATE products SET status = $2, updated_at = now() WHERE id = $1 RETURNING `+productColumns,
		id, string(status)))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func DeleteProduct(ctx context.Context, database *sql.DB, id string) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return mustAffect(database.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id))
}

func AddScreenshot(ctx context.Context, database *sql.DB, productID, imageURL string, position int) (*models.Screenshot, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var s models.Screenshot
	err := database.QueryRowContext(ctx, `
		INSERT INTO product_screenshots (product_id, image_url, position) VALUES ($1, $2, $3)
		RETURNING id, product_id, image_url, position`, productID, imageURL, position).
		Scan(&s.ID, &s.ProductID, &s.ImageURL, &s.Position)
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func ListScreenshots(ctx context.Context, database *sql.DB, productID string) ([]models.Screenshot, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	rows, err := database.QueryContext(ctx, `
		SELECT id, product_id, image_url, position FROM product_screenshots
		WHERE product_id = $1 ORDER BY position, id`, productID)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	out := []models.Screenshot{}
	for rows.Next() {
		var s models.Screenshot
		if err := rows.Scan(&s.ID, &s.ProductID, &s.ImageURL, &s.Position); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}
