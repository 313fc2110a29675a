package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/require"
)

func signToken(t *testing.T, secret, userID string) string {
	t.Helper()
	claims := &JwtCustomClaims{
		UserID: userID,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(secret))
	require.NoError(t, err)
	return signed
}

func runMiddleware(t *testing.T, req *http.Request) (*httptest.ResponseRecorder, string) {
	t.Helper()
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	var gotUserID string
	handler := JwtAuthMiddleware(func(c echo.Context) error {
		gotUserID, _ = c.Get("user_id").(string)
		return c.NoContent(http.StatusOK)
	})
	require.NoError(t, handler(c))
	return rec, gotUserID
}

func TestJwtAuthMiddlewareBearerToken(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "test-secret", "user-42"))

	rec, userID := runMiddleware(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-42", userID)
}

func TestJwtAuthMiddlewareCookieToken(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: "access-token", Value: signToken(t, "test-secret", "user-7")})

	rec, userID := runMiddleware(t, req)
	require.Equal(t, http.StatusOK, rec.Code)
	require.Equal(t, "user-7", userID)
}

func TestJwtAuthMiddlewareMissingCredentials(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	rec, _ := runMiddleware(t, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJwtAuthMiddlewareWrongSecret(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signToken(t, "other-secret", "user-42"))

	rec, _ := runMiddleware(t, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJwtAuthMiddlewareExpiredToken(t *testing.T) {
	t.Setenv("SESSION_SECRET", "test-secret")

	claims := &JwtCustomClaims{
		UserID: "user-42",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer "+signed)

	rec, _ := runMiddleware(t, req)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}
