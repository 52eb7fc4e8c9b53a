package auth

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/arogyacare/appointment-api/internal/apperr"
)

// Claims carried in issued tokens.
type Claims struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	jwt.RegisteredClaims
}

// TokenIssuer signs and verifies HS256 JWTs for API callers.
type TokenIssuer struct {
	secret []byte
	ttl    time.Duration
}

// NewTokenIssuer creates an issuer. An empty secret disables auth entirely,
// which only makes sense in tests; callers should treat it as fatal at boot.
func NewTokenIssuer(secret string, ttl time.Duration) *TokenIssuer {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &TokenIssuer{secret: []byte(secret), ttl: ttl}
}

// Issue signs a token for the given identity.
func (i *TokenIssuer) Issue(id Identity) (string, error) {
	if len(i.secret) == 0 {
		return "", fmt.Errorf("auth: signing secret not configured")
	}
	now := time.Now()
	claims := Claims{
		Role:  id.Role,
		Email: id.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   id.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(i.ttl)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(i.secret)
	if err != nil {
		return "", fmt.Errorf("auth: sign token: %w", err)
	}
	return signed, nil
}

// Verify parses a token string and returns the caller identity.
func (i *TokenIssuer) Verify(tokenString string) (Identity, error) {
	if len(i.secret) == 0 {
		return Identity{}, apperr.New(apperr.KindAuth, "authentication disabled")
	}
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, jwt.ErrSignatureInvalid
		}
		return i.secret, nil
	})
	if err != nil || !token.Valid {
		return Identity{}, apperr.Wrap(apperr.KindAuth, "invalid or expired token", err)
	}
	return Identity{ID: claims.Subject, Role: claims.Role, Email: claims.Email}, nil
}
