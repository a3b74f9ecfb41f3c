package services

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/steptzi/api/internal/core/domain"
	"github.com/steptzi/api/internal/core/ports"
)

type tokenClaims struct {
	Scope domain.Scope `json:"scope"`
	jwt.RegisteredClaims
}

// tokenCodec signs HS256 tokens carrying sub/iat/exp and a scope claim.
// The TTL depends on the scope: short for access, long for refresh, and an
// intermediate lifetime for the two mail-delivered single-use scopes.
type tokenCodec struct {
	secret     []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	emailTTL   time.Duration
}

func NewTokenCodec(secret string, accessTTL, refreshTTL, emailTTL time.Duration) ports.TokenCodec {
	return &tokenCodec{
		secret:     []byte(secret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		emailTTL:   emailTTL,
	}
}

func (c *tokenCodec) ttl(scope domain.Scope) time.Duration {
	switch scope {
	case domain.ScopeAccess:
		return c.accessTTL
	case domain.ScopeRefresh:
		return c.refreshTTL
	default:
		return c.emailTTL
	}
}

func (c *tokenCodec) Issue(userID uuid.UUID, scope domain.Scope) (string, error) {
	now := time.Now()
	claims := tokenClaims{
		Scope: scope,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(c.ttl(scope))),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(c.secret)
}

// Verify checks signature, expiry and scope. Every failure collapses into
// domain.ErrInvalidToken; callers never learn why a token was rejected.
func (c *tokenCodec) Verify(tokenString string, scope domain.Scope) (uuid.UUID, error) {
	claims := &tokenClaims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, domain.ErrInvalidToken
		}
		return c.secret, nil
	})
	if err != nil || !token.Valid {
		return uuid.Nil, domain.ErrInvalidToken
	}

	if claims.Scope != scope {
		return uuid.Nil, domain.ErrInvalidToken
	}

	userID, err := uuid.Parse(claims.Subject)
	if err != nil {
		return uuid.Nil, domain.ErrInvalidToken
	}

	return userID, nil
}
