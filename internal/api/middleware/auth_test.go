package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
)

const testSecret = "test-secret"

func signToken(t *testing.T, secret string, claims jwt.MapClaims) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	if err != nil {
		t.Fatalf("sign token: %v", err)
	}
	return signed
}

func runAuth(t *testing.T, authHeader string) (*httptest.ResponseRecorder, echo.Context, error) {
	t.Helper()

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	handler := Auth(testSecret)(func(c echo.Context) error {
		return c.NoContent(http.StatusOK)
	})
	err := handler(c)
	return rec, c, err
}

func TestAuth_ValidTokenInjectsClaims(t *testing.T) {
	token := signToken(t, testSecret, jwt.MapClaims{
		"uid":   "uid-1",
		"email": "bob@x.com",
		"name":  "Bob",
		"exp":   time.Now().Add(time.Hour).Unix(),
	})

	rec, c, err := runAuth(t, "Bearer "+token)
	if err != nil {
		t.Fatalf("handler err = %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if c.Get("uid") != "uid-1" || c.Get("email") != "bob@x.com" || c.Get("name") != "Bob" {
		t.Fatalf("claims not injected: uid=%v email=%v name=%v", c.Get("uid"), c.Get("email"), c.Get("name"))
	}
}

func TestAuth_Rejections(t *testing.T) {
	expired := signToken(t, testSecret, jwt.MapClaims{
		"uid": "uid-1", "email": "bob@x.com",
		"exp": time.Now().Add(-time.Hour).Unix(),
	})
	wrongKey := signToken(t, "other-secret", jwt.MapClaims{
		"uid": "uid-1", "email": "bob@x.com",
		"exp": time.Now().Add(time.Hour).Unix(),
	})

	cases := []struct {
		name   string
		header string
	}{
		{name: "missing header", header: ""},
		{name: "not bearer", header: "Basic abc123"},
		{name: "malformed token", header: "Bearer not.a.jwt"},
		{name: "expired token", header: "Bearer " + expired},
		{name: "wrong signing key", header: "Bearer " + wrongKey},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, _, err := runAuth(t, tc.header)
			httpErr, ok := err.(*echo.HTTPError)
			if !ok {
				t.Fatalf("err = %v, want *echo.HTTPError", err)
			}
			if httpErr.Code != http.StatusUnauthorized {
				t.Fatalf("code = %d, want 401", httpErr.Code)
			}
		})
	}
}

func TestRequireSession(t *testing.T) {
	e := echo.New()

	run := func(uid, email interface{}) *httptest.ResponseRecorder {
		req := httptest.NewRequest(http.MethodGet, "/v1/projects", nil)
		rec := httptest.NewRecorder()
		c := e.NewContext(req, rec)
		if uid != nil {
			c.Set("uid", uid)
		}
		if email != nil {
			c.Set("email", email)
		}
		handler := RequireSession()(func(c echo.Context) error {
			return c.NoContent(http.StatusOK)
		})
		if err := handler(c); err != nil {
			t.Fatalf("handler err = %v", err)
		}
		return rec
	}

	if rec := run("uid-1", "bob@x.com"); rec.Code != http.StatusOK {
		t.Fatalf("full session status = %d, want 200", rec.Code)
	}
	if rec := run(nil, "bob@x.com"); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing uid status = %d, want 401", rec.Code)
	}
	if rec := run("uid-1", nil); rec.Code != http.StatusUnauthorized {
		t.Fatalf("missing email status = %d, want 401", rec.Code)
	}
}
