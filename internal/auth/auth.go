package auth

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Scheme identifies one of the two independent session schemes. Customers
// and back-office engineers carry separate cookies signed with separate
// secrets; a token minted for one scheme never validates under the other.
type Scheme string

const (
	SchemeCustomer   Scheme = "customer"
	SchemeBackoffice Scheme = "backoffice"
)

// CookieName returns the session cookie name for the scheme.
func (s Scheme) CookieName() string {
	if s == SchemeBackoffice {
		return "bo_session"
	}
	return "session"
}

// Principal is an already-authenticated caller. Everything below the
// middleware takes a Principal, never a cookie.
type Principal struct {
	UserID uuid.UUID
	Role   string
}

// Claims is the JWT payload for both schemes.
type Claims struct {
	UserID string `json:"uid"`
	Role   string `json:"role"`
	jwt.RegisteredClaims
}

// Manager mints and verifies session tokens for both schemes.
type Manager struct {
	secrets map[Scheme][]byte
	ttl     time.Duration
}

// NewManager creates a token manager from the auth configuration.
func NewManager(cfg config.AuthConfig) *Manager {
	return &Manager{
		secrets: map[Scheme][]byte{
			SchemeCustomer:   []byte(cfg.CustomerSecret),
			SchemeBackoffice: []byte(cfg.BackofficeSecret),
		},
		ttl: time.Duration(cfg.TokenTTLHours) * time.Hour,
	}
}

// TTL returns the configured token lifetime.
func (m *Manager) TTL() time.Duration {
	return m.ttl
}

// Issue mints a signed token for the given scheme.
func (m *Manager) Issue(scheme Scheme, userID uuid.UUID, role string) (string, error) {
	secret, ok := m.secrets[scheme]
	if !ok {
		return "", fmt.Errorf("unknown auth scheme %q", scheme)
	}

	now := time.Now()
	claims := Claims{
		UserID: userID.String(),
		Role:   role,
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    string(scheme),
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(m.ttl)),
		},
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(secret)
}

// Verify parses a token under the given scheme and returns the principal.
func (m *Manager) Verify(scheme Scheme, tokenStr string) (*Principal, error) {
	secret, ok := m.secrets[scheme]
	if !ok {
		return nil, fmt.Errorf("unknown auth scheme %q", scheme)
	}

	token, err := jwt.ParseWithClaims(tokenStr, &Claims{}, func(token *jwt.Token) (interface{}, error) {
		return secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(string(scheme)),
	)
	if err != nil {
		return nil, fmt.Errorf("invalid token: %w", err)
	}

	claims, ok := token.Claims.(*Claims)
	if !ok || !token.Valid {
		return nil, fmt.Errorf("invalid token claims")
	}

	userID, err := uuid.Parse(claims.UserID)
	if err != nil {
		return nil, fmt.Errorf("invalid user id in token: %w", err)
	}

	return &Principal{UserID: userID, Role: claims.Role}, nil
}

type contextKey struct{}

// WithPrincipal attaches the principal to the context.
func WithPrincipal(ctx context.Context, p *Principal) context.Context {
	return context.WithValue(ctx, contextKey{}, p)
}

// FromContext returns the principal attached by the auth middleware.
func FromContext(ctx context.Context) (*Principal, bool) {
	p, ok := ctx.Value(contextKey{}).(*Principal)
	return p, ok
}
