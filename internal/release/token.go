// Package release unlocks rendered PDFs once a payment confirmation arrives
// and issues signed download tokens scoped to one render.
package release

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/jonathan/cv-builder/internal/config"
)

// ErrInvalidToken is returned for tokens that are malformed, expired, forged
// or issued for another render.
var ErrInvalidToken = errors.New("invalid download token")

// Claims carries the render a token unlocks.
type Claims struct {
	RenderID uuid.UUID `json:"render_id"`
	jwt.RegisteredClaims
}

// TokenService signs and checks download tokens with HS256.
type TokenService struct {
	secret []byte
	ttl    time.Duration
	now    func() time.Time
}

// NewTokenService creates a token service from the release configuration.
func NewTokenService(cfg *config.ReleaseConfig) *TokenService {
	return &TokenService{
		secret: []byte(cfg.Secret),
		ttl:    time.Duration(cfg.TokenHours) * time.Hour,
		now:    time.Now,
	}
}

// Issue signs a token for renderID and reports when it expires.
func (s *TokenService) Issue(renderID uuid.UUID) (string, time.Time, error) {
	now := s.now()
	expiresAt := now.Add(s.ttl)

	claims := &Claims{
		RenderID: renderID,
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   renderID.String(),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			IssuedAt:  jwt.NewNumericDate(now),
			NotBefore: jwt.NewNumericDate(now),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("failed to sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks that tokenString is valid and unlocks renderID.
func (s *TokenService) Verify(tokenString string, renderID uuid.UUID) error {
	if tokenString == "" {
		return fmt.Errorf("%w: token is empty", ErrInvalidToken)
	}

	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(token *jwt.Token) (interface{}, error) {
		return s.secret, nil
	}, jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}), jwt.WithTimeFunc(s.now))
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if !token.Valid {
		return ErrInvalidToken
	}
	if claims.RenderID != renderID {
		return fmt.Errorf("%w: issued for another render", ErrInvalidToken)
	}
	return nil
}
