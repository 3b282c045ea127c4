package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"

	"github.com/okanse/tablemates/internal/config"
)

const testSecret = "test-secret"

func signedToken(t *testing.T, sub string) string {
	t.Helper()
	tok := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{"sub": sub})
	s, err := tok.SignedString([]byte(testSecret))
	if err != nil {
		t.Fatal(err)
	}
	return s
}

// rateKeyFor runs the middleware chain as the router composes it
// (OptionalJWT first) and captures the key the limiter would use.
func rateKeyFor(t *testing.T, cfg config.RateLimitConfig, authorization string) string {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/venues", nil)
	if authorization != "" {
		req.Header.Set("Authorization", authorization)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var key string
	h := OptionalJWT(testSecret)(func(c echo.Context) error {
		key = buildRateKey(cfg, c)
		return nil
	})
	if err := h(c); err != nil {
		t.Fatal(err)
	}
	return key
}

// TestRateKeyUsesAuthenticatedUser checks that a valid token ahead of
// the limiter keys the bucket to the token subject.
func TestRateKeyUsesAuthenticatedUser(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	key := rateKeyFor(t, cfg, "Bearer "+signedToken(t, "alice"))
	if key != "rl:user:alice" {
		t.Fatalf("key = %q, want rl:user:alice", key)
	}
}

// TestRateKeyAnonymousFallback checks that requests without a usable
// token share the anonymous bucket.
func TestRateKeyAnonymousFallback(t *testing.T) {
	cfg := config.RateLimitConfig{Prefix: "rl", KeyStrategy: "user"}
	if key := rateKeyFor(t, cfg, ""); key != "rl:user:anon" {
		t.Fatalf("missing token: key = %q, want rl:user:anon", key)
	}
	if key := rateKeyFor(t, cfg, "Bearer not-a-token"); key != "rl:user:anon" {
		t.Fatalf("invalid token: key = %q, want rl:user:anon", key)
	}
}
