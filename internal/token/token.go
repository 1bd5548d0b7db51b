// Package token mints the short-lived validation tokens returned on a granted
// admin-access decision.
package token

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	id "sentra/pkg/domain"
	dErrors "sentra/pkg/domain-errors"
)

// ValidationClaims carries the opaque token payload: subject user, issue time
// and a nonce. The token is intended for short-lived reuse by the caller.
type ValidationClaims struct {
	UserID string `json:"user_id"`
	Nonce  string `json:"nonce"`
	jwt.RegisteredClaims
}

// Service handles validation token creation and verification.
type Service struct {
	signingKey []byte
	issuer     string
	ttl        time.Duration
}

// NewService creates a token service. TTL defaults to five minutes when zero.
func NewService(signingKey string, issuer string, ttl time.Duration) *Service {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Service{
		signingKey: []byte(signingKey),
		issuer:     issuer,
		ttl:        ttl,
	}
}

// TTL returns the configured token lifetime.
func (s *Service) TTL() time.Duration { return s.ttl }

// Mint issues a validation token for the given user at the given time.
// The time is injected so decisions and their tokens share one timestamp.
func (s *Service) Mint(userID id.UserID, now time.Time) (string, error) {
	if userID.IsNil() {
		return "", dErrors.New(dErrors.CodeInvalidInput, "user ID is required")
	}

	claims := ValidationClaims{
		UserID: userID.String(),
		Nonce:  uuid.NewString(),
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   userID.String(),
			Issuer:    s.issuer,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
			ID:        uuid.NewString(),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(s.signingKey)
	if err != nil {
		return "", dErrors.Wrap(err, dErrors.CodeInternal, "could not sign validation token")
	}
	return signed, nil
}

// Verify parses and validates a token, including its expiry claim.
//
// No server-side consumer calls this today: the token's five-minute lifetime
// is enforced only by the exp claim carried inside it. Kept so a future
// consumer can enforce expiry without re-deriving the format.
func (s *Service) Verify(tokenString string) (*ValidationClaims, error) {
	if tokenString == "" {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "empty token")
	}

	claims := new(ValidationClaims)
	parsed, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (any, error) {
		if t.Method.Alg() != jwt.SigningMethodHS256.Alg() {
			return nil, jwt.ErrTokenUnverifiable
		}
		return s.signingKey, nil
	})
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, dErrors.New(dErrors.CodeUnauthorized, "validation token expired")
		}
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid validation token")
	}
	if !parsed.Valid {
		return nil, dErrors.New(dErrors.CodeInvalidInput, "invalid validation token")
	}

	return claims, nil
}
