package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

const issuer = "taskhub"

// Claims is the self-contained payload of a session token. Verification
// never needs a server-side lookup, so the consuming service scales
// horizontally without a shared session store.
type Claims struct {
	Email          string `json:"email"`
	Role           Role   `json:"role"`
	OrganizationID string `json:"org"`
	jwt.RegisteredClaims
}

// TokenConfig is the process-wide token configuration, built once at startup
// and passed by reference. Rotating the secret invalidates every outstanding
// token.
type TokenConfig struct {
	Secret []byte
	TTL    time.Duration
}

// TokenService issues and verifies HS256 session tokens.
type TokenService struct {
	cfg TokenConfig
	now func() time.Time
}

// TokenOption configures a TokenService.
type TokenOption func(*TokenService)

// WithClock overrides the time source. Useful for expiry tests.
func WithClock(fn func() time.Time) TokenOption {
	return func(s *TokenService) {
		if fn != nil {
			s.now = fn
		}
	}
}

// NewTokenService validates the configuration and constructs the service.
func NewTokenService(cfg TokenConfig, opts ...TokenOption) (*TokenService, error) {
	if len(cfg.Secret) == 0 {
		return nil, errors.New("auth: signing secret is required")
	}
	if cfg.TTL <= 0 {
		return nil, errors.New("auth: token ttl must be greater than zero")
	}
	s := &TokenService{cfg: cfg, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// TTL returns the configured token lifetime.
func (s *TokenService) TTL() time.Duration {
	return s.cfg.TTL
}

// Issue signs a token for the identity. The expiry is fixed at issuance;
// tokens are immutable and not revocable before it.
func (s *TokenService) Issue(identity Identity) (string, time.Time, error) {
	if strings.TrimSpace(identity.ID) == "" {
		return "", time.Time{}, errors.New("auth: identity id is required")
	}
	now := s.now().UTC()
	expiresAt := now.Add(s.cfg.TTL)
	claims := Claims{
		Email:          identity.Email,
		Role:           identity.Role,
		OrganizationID: identity.OrganizationID,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    issuer,
			Subject:   identity.ID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(expiresAt),
			ID:        uuid.NewString(),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(s.cfg.Secret)
	if err != nil {
		return "", time.Time{}, fmt.Errorf("sign token: %w", err)
	}
	return signed, expiresAt, nil
}

// Verify checks the signature and registered claims. Expired tokens fail with
// ErrTokenExpired, everything else with ErrInvalidToken.
func (s *TokenService) Verify(raw string) (*Claims, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, ErrInvalidToken
	}
	parsed, err := jwt.ParseWithClaims(raw, &Claims{}, func(t *jwt.Token) (any, error) {
		if t.Method != jwt.SigningMethodHS256 {
			return nil, ErrInvalidToken
		}
		return s.cfg.Secret, nil
	},
		jwt.WithTimeFunc(s.now),
		jwt.WithIssuer(issuer),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}
	claims, ok := parsed.Claims.(*Claims)
	if !ok || !parsed.Valid {
		return nil, ErrInvalidToken
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return nil, ErrInvalidToken
	}
	return claims, nil
}
