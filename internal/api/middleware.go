package api

import (
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Spok95/showcase-judging/internal/auth"
	"github.com/Spok95/showcase-judging/internal/ctxutil"
	"github.com/Spok95/showcase-judging/internal/metrics"
	"github.com/Spok95/showcase-judging/internal/models"
)

const ctxClaims = "claims"

// Authenticate разбирает необязательный Bearer-токен. Без заголовка запрос идёт
// дальше анонимно; битый токен: 401.
func Authenticate(tokens *auth.Tokens) gin.HandlerFunc {
	return func(c *gin.Context) {
		authz := c.GetHeader("Authorization")
		if authz == "" {
			c.Next()
			return
		}
		parts := strings.SplitN(authz, " ", 2)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}
		claims, err := tokens.Parse(strings.TrimSpace(parts[1]))
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}
		c.Set(ctxClaims, claims)
		ctx := ctxutil.WithProfileID(c.Request.Context(), claims.ProfileID())
		ctx = ctxutil.WithRole(ctx, string(claims.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func claimsOf(c *gin.Context) (*auth.Claims, bool) {
	v, ok := c.Get(ctxClaims)
	if !ok {
		return nil, false
	}
	cl, ok := v.(*auth.Claims)
	return cl, ok
}

func RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := claimsOf(c); !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		c.Next()
	}
}

// RequireRole passes requests whose token carries one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		cl, ok := claimsOf(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}
		for _, r := range roles {
			if cl.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "insufficient role"})
	}
}

// Observe records request metrics by route template and logs slow or failed requests.
func Observe(log *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		d := time.Since(start)
		code := c.Writer.Status()
		metrics.ObserveRequest(route, c.Request.Method, code, d)
		if code >= http.StatusInternalServerError || d > 2*time.Second {
			log.Info("request",
				zap.String("method", c.Request.Method),
				zap.String("route", route),
				zap.Int("status", code),
				zap.Duration("took", d))
		}
	}
}
