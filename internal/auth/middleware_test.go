package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"finance-platform/internal/config"

	"github.com/gin-gonic/gin"
)

func protectedRouter(t *testing.T, m *Manager) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", RequireAccessToken(m), func(c *gin.Context) {
		sub, err := Subject(c.Request.Context())
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "subject missing"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"subject": sub})
	})
	return r
}

func doGet(r *gin.Engine, authorization string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequireAccessToken_AttachesSubject(t *testing.T) {
	m := testManager(t, config.AuthConfig{})
	r := protectedRouter(t, m)

	tok, err := m.IssueAccessToken(time.Now(), "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := doGet(r, "Bearer "+tok)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d (%s)", w.Code, w.Body.String())
	}
	if body := w.Body.String(); body != `{"subject":"42"}` {
		t.Fatalf("unexpected body: %s", body)
	}
}

func TestRequireAccessToken_MissingCredential(t *testing.T) {
	m := testManager(t, config.AuthConfig{})
	r := protectedRouter(t, m)

	for _, header := range []string{"", "Basic dXNlcjpwYXNz", "Bearer"} {
		w := doGet(r, header)
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("header %q: expected 401, got %d", header, w.Code)
		}
	}
}

// A refresh token on a protected route must be rejected exactly like any
// other invalid credential: same status, same body.
func TestRequireAccessToken_RefreshTokenRejectedUniformly(t *testing.T) {
	m := testManager(t, config.AuthConfig{})
	r := protectedRouter(t, m)

	refresh, err := m.IssueRefreshToken(time.Now(), "7")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	wrongType := doGet(r, "Bearer "+refresh)
	missing := doGet(r, "")
	garbage := doGet(r, "Bearer not-a-token")

	for name, w := range map[string]*httptest.ResponseRecorder{
		"wrong type": wrongType,
		"missing":    missing,
		"garbage":    garbage,
	} {
		if w.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401, got %d", name, w.Code)
		}
	}
	if wrongType.Body.String() != missing.Body.String() || missing.Body.String() != garbage.Body.String() {
		t.Fatalf("rejection bodies must not reveal the failure reason: %q vs %q vs %q",
			wrongType.Body.String(), missing.Body.String(), garbage.Body.String())
	}
}

func TestRequireAccessToken_ExpiredToken(t *testing.T) {
	m := testManager(t, config.AuthConfig{AccessTTLMinutes: 30})
	r := protectedRouter(t, m)

	tok, err := m.IssueAccessToken(time.Now().Add(-time.Hour), "42")
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	w := doGet(r, "Bearer "+tok)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 for expired token, got %d", w.Code)
	}
}
