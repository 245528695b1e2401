package auth

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"finance-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Manager is the token core shared by every service on the platform: it mints
// access/refresh tokens and verifies tokens minted by any peer configured
// with the same secret and algorithm. Verification is pure computation; no
// call-out to the issuing service happens at request time.
type Manager struct {
	secret     []byte
	method     jwt.SigningMethod
	issuer     string
	audience   string
	accessTTL  time.Duration
	refreshTTL time.Duration
	leeway     time.Duration
}

func NewManager(cfg config.AuthConfig) (*Manager, error) {
	if cfg.SigningSecret == "" {
		return nil, errors.New("JWT_SECRET is required")
	}
	method, err := signingMethod(cfg.Algorithm)
	if err != nil {
		return nil, err
	}
	if cfg.AccessTTL() <= 0 || cfg.RefreshTTL() <= 0 {
		return nil, errors.New("token TTLs must be positive")
	}

	return &Manager{
		secret:     []byte(cfg.SigningSecret),
		method:     method,
		issuer:     cfg.Issuer,
		audience:   cfg.Audience,
		accessTTL:  cfg.AccessTTL(),
		refreshTTL: cfg.RefreshTTL(),
		leeway:     cfg.Leeway,
	}, nil
}

type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

/* ===================== ISSUE TOKENS ===================== */

func (m *Manager) IssueAccessToken(now time.Time, subject string) (string, error) {
	return m.issue(now, TokenTypeAccess, subject, m.accessTTL)
}

func (m *Manager) IssueRefreshToken(now time.Time, subject string) (string, error) {
	return m.issue(now, TokenTypeRefresh, subject, m.refreshTTL)
}

func (m *Manager) IssuePair(now time.Time, subject string) (TokenPair, error) {
	access, err := m.IssueAccessToken(now, subject)
	if err != nil {
		return TokenPair{}, err
	}

	refresh, err := m.IssueRefreshToken(now, subject)
	if err != nil {
		return TokenPair{}, err
	}

	return TokenPair{
		AccessToken:  access,
		RefreshToken: refresh,
	}, nil
}

/* ===================== VERIFY TOKEN ===================== */

// Verify validates signature, expiry, declared type and subject of a
// presented token. now is injected so request handling and tests share one
// clock. Expiry uses zero grace unless a leeway was configured.
func (m *Manager) Verify(tokenString string, expected TokenType, now time.Time) (Claims, error) {
	var claims Claims

	opts := []jwt.ParserOption{
		jwt.WithTimeFunc(func() time.Time { return now }),
		jwt.WithIssuedAt(),
		jwt.WithExpirationRequired(),
	}
	if m.leeway > 0 {
		opts = append(opts, jwt.WithLeeway(m.leeway))
	}
	if m.issuer != "" {
		opts = append(opts, jwt.WithIssuer(m.issuer))
	}
	if m.audience != "" {
		opts = append(opts, jwt.WithAudience(m.audience))
	}

	parser := jwt.NewParser(opts...)

	// The keyfunc pins the algorithm before any signature check: a token's
	// self-declared alg header is never trusted.
	_, err := parser.ParseWithClaims(tokenString, &claims, func(token *jwt.Token) (any, error) {
		if token.Method.Alg() != m.method.Alg() {
			return nil, ErrAlgorithmMismatch
		}
		return m.secret, nil
	})
	if err != nil {
		return Claims{}, classify(err)
	}

	if claims.TokenType != expected {
		return Claims{}, ErrWrongType
	}
	if strings.TrimSpace(claims.Subject) == "" {
		return Claims{}, ErrMissingSubject
	}

	return claims, nil
}

/* ===================== INTERNAL ISSUE ===================== */

func (m *Manager) issue(now time.Time, tokenType TokenType, subject string, ttl time.Duration) (string, error) {
	if strings.TrimSpace(subject) == "" {
		return "", ErrMissingSubject
	}

	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    m.issuer,
			Audience:  audienceOrNil(m.audience),
			Subject:   subject,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
			ID:        uuid.NewString(),
		},
		TokenType: tokenType,
	}

	t := jwt.NewWithClaims(m.method, claims)
	return t.SignedString(m.secret)
}

func signingMethod(alg string) (jwt.SigningMethod, error) {
	switch alg {
	case "", "HS256":
		return jwt.SigningMethodHS256, nil
	case "HS384":
		return jwt.SigningMethodHS384, nil
	case "HS512":
		return jwt.SigningMethodHS512, nil
	default:
		return nil, fmt.Errorf("unsupported signing algorithm %q", alg)
	}
}

func audienceOrNil(aud string) jwt.ClaimStrings {
	if aud == "" {
		return nil
	}
	return jwt.ClaimStrings{aud}
}
