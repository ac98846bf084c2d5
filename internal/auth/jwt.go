package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Spok95/showcase-judging/internal/models"
)

var (
	ErrInvalidToken       = errors.New("invalid token")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

type Claims struct {
	Role models.Role `json:"role"`
	jwt.RegisteredClaims
}

// ProfileID is the token subject.
func (c *Claims) ProfileID() string { return c.Subject }

type Tokens struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

func NewTokens(signingKey []byte, ttl time.Duration) *Tokens {
	return &Tokens{key: signingKey, ttl: ttl, now: time.Now}
}

func (t *Tokens) Issue(profileID string, role models.Role) (string, error) {
	now := t.now()
	claims := Claims{
		Role: role,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   profileID,
			ExpiresAt: jwt.NewNumericDate(now.Add(t.ttl)),
			IssuedAt:  jwt.NewNumericDate(now),
		},
	}
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return tok.SignedString(t.key)
}

func (t *Tokens) Parse(tokenStr string) (*Claims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{"HS256"}),
		jwt.WithTimeFunc(t.now),
		jwt.WithExpirationRequired(),
	)
	var claims Claims
	_, err := parser.ParseWithClaims(tokenStr, &claims, func(*jwt.Token) (interface{}, error) {
		return t.key, nil
	})
	if err != nil || claims.Subject == "" || !claims.Role.Valid() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}

// Probe issues and parses a short-lived token; used by the health check.
func (t *Tokens) Probe() error {
	tok, err := t.Issue("health-probe", models.RoleUser)
	if err != nil {
		return err
	}
	c, err := t.Parse(tok)
	if err != nil {
		return err
	}
	if c.ProfileID() != "health-probe" {
		return ErrInvalidToken
	}
	return nil
}
