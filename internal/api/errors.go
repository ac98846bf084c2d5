package api

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/admin"
	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/db"
	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/observability"
	"github.com/Spok95/showcase-judging/internal/storage"
	"github.com/Spok95/showcase-judging/internal/validate"
)

var (
	errForbidden = errors.New("forbidden")
	errNotJudge  = errors.New("judge is not assigned to this product")
)

func statusOf(err error) int {
	switch {
	case errors.Is(err, validate.ErrInvalid),
		errors.Is(err, admin.ErrSelfDelete),
		errors.Is(err, storage.ErrBadName),
		errors.Is(err, storage.ErrUnknownBucket):
		return http.StatusBadRequest
	case errors.Is(err, auth.ErrInvalidCredentials), errors.Is(err, auth.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, errForbidden), errors.Is(err, errNotJudge):
		return http.StatusForbidden
	case errors.Is(err, db.ErrNotFound), errors.Is(err, storage.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, db.ErrConflict), errors.Is(err, db.ErrCreatorMaker):
		return http.StatusConflict
	case errors.Is(err, storage.ErrTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	}
	return http.StatusInternalServerError
}

// fail отвечает единым {"error": "..."}; для 5xx текст скрывается, ошибка уходит в лог и Sentry.
func (h *handler) fail(c *gin.Context, op string, err error) {
	code := statusOf(err)
	if code < http.StatusInternalServerError {
		c.AbortWithStatusJSON(code, gin.H{"error": err.Error()})
		return
	}
	metrics.HandlerErrors.Inc()
	observability.CaptureWithTags(err, map[string]string{"op": op, "route": c.FullPath()})
	h.log.Warn("request failed", zap.String("op", op), zap.String("route", c.FullPath()), zap.Error(err))
	msg := "internal error"
	if code == http.StatusGatewayTimeout {
		msg = "upstream timeout"
	}
	c.AbortWithStatusJSON(code, gin.H{"error": msg})
}

func (h *handler) bind(c *gin.Context, dst any) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"error": "invalid JSON: " + err.Error()})
		return false
	}
	return true
}
