package ctxutil

import (
	"context"
	"time"
)

// приватные ключи, чтобы исключить коллизии
type key int

const (
	keyProfileID key = iota
	keyRole
	keyOpName
)

// WithProfileID / ProfileID: id аутентифицированного профиля
func WithProfileID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyProfileID, id)
}

func ProfileID(ctx context.Context) (string, bool) {
	id, ok := ctx.Value(keyProfileID).(string)
	return id, ok && id != ""
}

// WithRole / Role: роль из токена
func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, keyRole, role)
}

func Role(ctx context.Context) (string, bool) {
	r, ok := ctx.Value(keyRole).(string)
	return r, ok
}

// WithOp / Op: имя операции (для логов/трейса)
func WithOp(ctx context.Context, name string) context.Context {
	return context.WithValue(ctx, keyOpName, name)
}

func Op(ctx context.Context) (string, bool) {
	s, ok := ctx.Value(keyOpName).(string)
	return s, ok
}

var (
	DefaultDBTimeout = 5 * time.Second
)

// WithTimeout: обёртка над context.WithTimeout; d<=0 означает «без таймаута».
func WithTimeout(parent context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(parent)
	}
	return context.WithTimeout(parent, d)
}

// WithDBTimeout: стандартный таймаут для БД.
func WithDBTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	if dl, ok := parent.Deadline(); ok {
		// если у родителя осталось меньше DefaultDBTimeout: берем остаток
		remain := time.Until(dl)
		if remain < DefaultDBTimeout {
			return context.WithTimeout(parent, remain)
		}
	}
	return context.WithTimeout(parent, DefaultDBTimeout)
}
