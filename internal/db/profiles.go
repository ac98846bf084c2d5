package db

import (
	"context"
	"database/sql"
	"strings"

	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/models"
)

const profileColumns = `id, email, password_hash, full_name, avatar_url, linkedin_url, twitter_url, website_url, role, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProfile(r rowScanner) (*models.Profile, error) {
	var p models.Profile
	if err := r.Scan(&p.ID, &p.Email, &p.PasswordHash, &p.FullName, &p.AvatarURL, &p.LinkedInURL,
		&p.TwitterURL, &p.WebsiteURL, &p.Role, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}

func CreateProfile(ctx context.Context, database *sql.DB, p models.Profile) (*models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	row := database.QueryRowContext(ctx, `
		INSERT INTO profiles (email, password_hash, full_name, avatar_url, linkedin_url, twitter_url, website_url, role)
		VALUES (LOWER($1), $2, $3, $4, $5, $6, $7, $8)
		RETURNING `+profileColumns,
		strings.TrimSpace(p.Email), p.PasswordHash, p.FullName, p.AvatarURL, p.LinkedInURL, p.TwitterURL, p.WebsiteURL, string(p.Role))
	out, err := scanProfile(row)
	if err != nil {
		return nil, conflict(err)
	}
	return out, nil
}

func GetProfileByID(ctx context.Context, database *sql.DB, id string) (*models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	p, err := scanProfile(database.QueryRowContext(ctx, `SELECT `+profileColumns+` FROM profiles WHERE id = $1`, id))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

func GetProfileByEmail(ctx context.Context, database *sql.DB, email string) (*models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	p, err := scanProfile(database.QueryRowContext(ctx,
		`SELECT `+profileColumns+` FROM profiles WHERE email = LOWER($1)`, strings.TrimSpace(email)))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// ProfileUpdate: частичное обновление: nil-поля не трогаем.
type ProfileUpdate struct {
	FullName     *string
	AvatarURL    *string
	LinkedInURL  *string
	TwitterURL   *string
	WebsiteURL   *string
	Role         *models.Role
	PasswordHash *string
}

func UpdateProfile(ctx context.Context, database *sql.DB, id string, u ProfileUpdate) (*models.Profile, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	var role *string
	if u.Role != nil {
		r := string(*u.Role)
		role = &r
	}
	p, err := scanProfile(database.QueryRowContext(ctx, `
		UPDATE profiles SET
			full_name     = COALESCE($2, full_name),
			avatar_url    = COALESCE($3, avatar_url),
			linkedin_url  = COALESCE($4, linkedin_url),
			twitter_url   = COALESCE($5, twitter_url),
			website_url   = COALESCE($6, website_url),
			role          = COALESCE($7, role),
			password_hash = COALESCE($8, password_hash)
		WHERE id = $1
		RETURNING `+profileColumns,
		id, u.FullName, u.AvatarURL, u.LinkedInURL, u.TwitterURL, u.WebsiteURL, role, u.PasswordHash))
	if err != nil {
		return nil, notFound(err)
	}
	return p, nil
}

// SetProfileRole: единая процедура назначения роли (параметр user_id).
func SetProfileRole(ctx context.Context, database *sql.DB, userID string, role models.Role) error {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	return mustAffect(database.ExecContext(ctx, `UPDATE profiles SET role = $2 WHERE id = $1`, userID, string(role)))
}

// DeleteProfile удаляет профиль; зависимые строки (оценки, заметки, назначения, мейкеры,
// апвоуты, собственные продукты) уходят каскадом. Возвращает пути файлов, на которые
// ссылался пользователь и его продукты, чтобы вызывающий мог почистить хранилище.
func DeleteProfile(ctx context.Context, database *sql.DB, id string) ([]string, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()

	tx, err := database.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer func() { _ = tx.Rollback() }()

	rows, err := tx.QueryContext(ctx, `
		SELECT avatar_url FROM profiles WHERE id = $1 AND avatar_url IS NOT NULL
		UNION ALL
		SELECT image_url FROM products WHERE created_by = $1 AND image_url IS NOT NULL
		UNION ALL
		SELECT s.image_url FROM product_screenshots s JOIN products p ON p.id = s.product_id WHERE p.created_by = $1`, id)
	if err != nil {
		return nil, err
	}
	var files []string
	for rows.Next() {
		var f string
		if err := rows.Scan(&f); err != nil {
			_ = rows.Close()
			return nil, err
		}
		files = append(files, f)
	}
	if err := rows.Err(); err != nil {
		_ = rows.Close()
		return nil, err
	}
	_ = rows.Close()

	// апвоуты удаляемого пользователя: пересчитать счётчики
	if _, err := tx.ExecContext(ctx, `
		UPDATE products p SET upvotes = GREATEST(p.upvotes - 1, 0)
		FROM product_upvotes u WHERE u.product_id = p.id AND u.profile_id = $1`, id); err != nil {
		return nil, err
	}
	if err := mustAffect(tx.ExecContext(ctx, `DELETE FROM profiles WHERE id = $1`, id)); err != nil {
		return nil, err
	}
	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return files, nil
}

// ListUsersPage вызывает admin_list_users; total_count приходит в каждой строке.
func ListUsersPage(ctx context.Context, database *sql.DB, page, size int, search string) (*models.UserPage, error) {
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	if page < 1 {
		page = 1
	}
	if size < 1 || size > 200 {
		size = 50
	}
	rows, err := database.QueryContext(ctx,
		`SELECT id, email, full_name, avatar_url, linkedin_url, twitter_url, website_url, role, created_at, total_count
		 FROM admin_list_users($1, $2, $3)`, size, (page-1)*size, search)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()

	out := &models.UserPage{Users: []models.Profile{}, Page: page, Size: size}
	for rows.Next() {
		var p models.Profile
		if err := rows.Scan(&p.ID, &p.Email, &p.FullName, &p.AvatarURL, &p.LinkedInURL, &p.TwitterURL,
			&p.WebsiteURL, &p.Role, &p.CreatedAt, &out.Total); err != nil {
			return nil, err
		}
		out.Users = append(out.Users, p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	// страница за пределами выборки: total из оконной функции не пришёл
	if len(out.Users) == 0 && page > 1 {
		if err := database.QueryRowContext(ctx, `SELECT COUNT(*) FROM admin_list_users(2147483647, 0, $1)`, search).Scan(&out.Total); err != nil {
			return nil, err
		}
	}
	return out, nil
}

func ProfilesByIDs(ctx context.Context, database *sql.DB, ids []string) ([]models.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	ctx, cancel := ctxutil.WithDBTimeout(ctx)
	defer cancel()
	list, err := jsonList(ids)
	if err != nil {
		return nil, err
	}
	rows, err := database.QueryContext(ctx, `
		SELECT `+profileColumns+` FROM profiles
		WHERE id::text IN (SELECT jsonb_array_elements_text($1::jsonb))
		ORDER BY LOWER(full_name), id`, list)
	if err != nil {
		return nil, err
	}
	defer func() { _ = rows.Close() }()
	var out []models.Profile
	for rows.Next() {
		p, err := scanProfile(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	return out, rows.Err()
}
