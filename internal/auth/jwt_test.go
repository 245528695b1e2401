package auth

import (
	"errors"
	"strings"
	"testing"
	"time"

	"finance-platform/internal/config"

	"github.com/golang-jwt/jwt/v5"
)

func testManager(t *testing.T, cfg config.AuthConfig) *Manager {
	t.Helper()
	if cfg.SigningSecret == "" {
		cfg.SigningSecret = "secret"
	}
	if cfg.AccessTTLMinutes == 0 {
		cfg.AccessTTLMinutes = 30
	}
	if cfg.RefreshTTLDays == 0 {
		cfg.RefreshTTLDays = 7
	}
	m, err := NewManager(cfg)
	if err != nil {
		t.Fatalf("manager: %v", err)
	}
	return m
}

func TestIssueAndVerifyAccessToken(t *testing.T) {
	m := testManager(t, config.AuthConfig{Issuer: "gateway", Audience: "finance-platform"})

	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if pair.AccessToken == "" || pair.RefreshToken == "" {
		t.Fatalf("expected token strings")
	}

	claims, err := m.Verify(pair.AccessToken, TokenTypeAccess, now.Add(time.Minute))
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}
	if claims.TokenType != TokenTypeAccess {
		t.Fatalf("unexpected token type: %q", claims.TokenType)
	}
	if !claims.ExpiresAt.After(claims.IssuedAt.Time) {
		t.Fatalf("expires_at must be after issued_at")
	}
}

func TestVerifyExpiryBoundary(t *testing.T) {
	// 30-minute access token issued at T0: valid at T0+29m, expired at T0+31m.
	m := testManager(t, config.AuthConfig{AccessTTLMinutes: 30})

	t0 := time.Unix(1700000000, 0).UTC()
	tok, err := m.IssueAccessToken(t0, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	claims, err := m.Verify(tok, TokenTypeAccess, t0.Add(29*time.Minute))
	if err != nil {
		t.Fatalf("verify at T0+29m: %v", err)
	}
	if claims.Subject != "42" {
		t.Fatalf("unexpected subject: %q", claims.Subject)
	}

	if _, err := m.Verify(tok, TokenTypeAccess, t0.Add(31*time.Minute)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired at T0+31m, got %v", err)
	}
}

func TestVerifyRejectsWrongTokenType(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	now := time.Unix(1700000000, 0).UTC()
	pair, err := m.IssuePair(now, "7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(pair.RefreshToken, TokenTypeAccess, now); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType for refresh-as-access, got %v", err)
	}
	if _, err := m.Verify(pair.AccessToken, TokenTypeRefresh, now); !errors.Is(err, ErrWrongType) {
		t.Fatalf("expected ErrWrongType for access-as-refresh, got %v", err)
	}
}

func TestVerifyDetectsTamperedSignature(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	now := time.Unix(1700000000, 0).UTC()
	tok, err := m.IssueAccessToken(now, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	parts := strings.Split(tok, ".")
	if len(parts) != 3 {
		t.Fatalf("expected compact three-part token, got %d parts", len(parts))
	}
	sig := []byte(parts[2])
	if sig[0] == 'A' {
		sig[0] = 'B'
	} else {
		sig[0] = 'A'
	}
	tampered := parts[0] + "." + parts[1] + "." + string(sig)

	if _, err := m.Verify(tampered, TokenTypeAccess, now); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestVerifyRejectsWrongSecret(t *testing.T) {
	issuer := testManager(t, config.AuthConfig{SigningSecret: "issuer-secret"})
	verifier := testManager(t, config.AuthConfig{SigningSecret: "other-secret"})

	now := time.Unix(1700000000, 0).UTC()
	tok, err := issuer.IssueAccessToken(now, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := verifier.Verify(tok, TokenTypeAccess, now); !errors.Is(err, ErrSignatureMismatch) {
		t.Fatalf("expected ErrSignatureMismatch, got %v", err)
	}
}

func TestVerifyRejectsAlgorithmConfusion(t *testing.T) {
	hs256 := testManager(t, config.AuthConfig{Algorithm: "HS256"})
	hs512 := testManager(t, config.AuthConfig{Algorithm: "HS512"})

	now := time.Unix(1700000000, 0).UTC()
	tok, err := hs512.IssueAccessToken(now, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	// Same secret, different declared algorithm: the verifier must not trust
	// the token's alg header.
	if _, err := hs256.Verify(tok, TokenTypeAccess, now); !errors.Is(err, ErrAlgorithmMismatch) {
		t.Fatalf("expected ErrAlgorithmMismatch, got %v", err)
	}
}

func TestVerifyRejectsAlgNone(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	now := time.Unix(1700000000, 0).UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject:   "42",
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: TokenTypeAccess,
	}
	unsigned, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
	if err != nil {
		t.Fatalf("build unsigned token: %v", err)
	}

	if _, err := m.Verify(unsigned, TokenTypeAccess, now); !errors.Is(err, ErrAlgorithmMismatch) {
		t.Fatalf("expected ErrAlgorithmMismatch for alg=none, got %v", err)
	}
}

func TestVerifyRejectsMalformed(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	now := time.Unix(1700000000, 0).UTC()
	for _, tok := range []string{"", "garbage", "a.b", "a.b.c.d"} {
		if _, err := m.Verify(tok, TokenTypeAccess, now); !errors.Is(err, ErrMalformed) {
			t.Fatalf("expected ErrMalformed for %q, got %v", tok, err)
		}
	}
}

func TestVerifyRejectsMissingSubject(t *testing.T) {
	m := testManager(t, config.AuthConfig{})

	now := time.Unix(1700000000, 0).UTC()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(time.Hour)),
		},
		TokenType: TokenTypeAccess,
	}
	tok, err := jwt.NewWithClaims(m.method, claims).SignedString(m.secret)
	if err != nil {
		t.Fatalf("sign: %v", err)
	}

	if _, err := m.Verify(tok, TokenTypeAccess, now); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestIssueRejectsEmptySubject(t *testing.T) {
	m := testManager(t, config.AuthConfig{})
	if _, err := m.IssueAccessToken(time.Now(), "  "); !errors.Is(err, ErrMissingSubject) {
		t.Fatalf("expected ErrMissingSubject, got %v", err)
	}
}

func TestVerifyLeewayToleratesSkew(t *testing.T) {
	m := testManager(t, config.AuthConfig{AccessTTLMinutes: 30, Leeway: time.Minute})

	t0 := time.Unix(1700000000, 0).UTC()
	tok, err := m.IssueAccessToken(t0, "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	if _, err := m.Verify(tok, TokenTypeAccess, t0.Add(30*time.Minute+30*time.Second)); err != nil {
		t.Fatalf("expected leeway to tolerate 30s skew, got %v", err)
	}
	if _, err := m.Verify(tok, TokenTypeAccess, t0.Add(32*time.Minute)); !errors.Is(err, ErrExpired) {
		t.Fatalf("expected ErrExpired beyond leeway, got %v", err)
	}
}

func TestNewManagerRejectsBadConfig(t *testing.T) {
	if _, err := NewManager(config.AuthConfig{Algorithm: "HS256", AccessTTLMinutes: 30, RefreshTTLDays: 7}); err == nil {
		t.Fatalf("expected error for missing secret")
	}
	if _, err := NewManager(config.AuthConfig{SigningSecret: "s", Algorithm: "RS256", AccessTTLMinutes: 30, RefreshTTLDays: 7}); err == nil {
		t.Fatalf("expected error for unsupported algorithm")
	}
	if _, err := NewManager(config.AuthConfig{SigningSecret: "s", Algorithm: "HS256"}); err == nil {
		t.Fatalf("expected error for zero TTLs")
	}
}
