package db

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNotFound = errors.New("not found")
	ErrConflict = errors.New("already exists")
)

func notFound(err error) error {
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	return err
}

// conflict переводит нарушение уникальности (SQLSTATE 23505) в ErrConflict.
// Текст проверяем, чтобы не зависеть от конкретного драйвера (pgx в проде, lib/pq в тестах).
func conflict(err error) error {
	if err == nil {
		return nil
	}
	s := err.Error()
	if strings.Contains(s, "23505") || strings.Contains(s, "duplicate key") {
		return fmt.Errorf("%w: %v", ErrConflict, err)
	}
	return err
}

func mustAffect(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// stringList хранит []string в JSONB-колонке.
type stringList []string

func (l *stringList) Scan(src any) error {
	var raw []byte
	switch v := src.(type) {
	case nil:
		*l = nil
		return nil
	case []byte:
		raw = v
	case string:
		raw = []byte(v)
	default:
		return fmt.Errorf("stringList: unsupported type %T", src)
	}
	var out []string
	if err := json.Unmarshal(raw, &out); err != nil {
		return err
	}
	*l = out
	return nil
}

func jsonList(xs []string) (string, error) {
	if xs == nil {
		xs = []string{}
	}
	b, err := json.Marshal(xs)
	return string(b), err
}

// notFoundFK: нарушение внешнего ключа (23503) означает, что продукт или профиль не существует.
func notFoundFK(err error) error {
	if err == nil {
		return nil
	}
	s := err.Error()
	if strings.Contains(s, "23503") || strings.Contains(s, "foreign key") {
		return ErrNotFound
	}
	return err
}
