package auth

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/entity"
	"github.com/fitrahmoef/Saintara-Mobile/internal/domain/model"
)

const testSecret = "test-secret"

func newTestUser(role model.UserRole) *model.User {
	return &model.User{
		ID:    uuid.MustParse("550e8400-e29b-41d4-a716-446655440000"),
		Email: "test@example.com",
		Role:  role,
	}
}

func newTestConfig(skipPaths ...string) JWTConfig {
	return JWTConfig{
		Tokens:    NewTokenManager(testSecret, time.Hour),
		Logger:    zap.NewNop(),
		SkipPaths: skipPaths,
	}
}

func serve(t *testing.T, mw echo.MiddlewareFunc, path, authHeader string, next echo.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := mw(next)(c)
	assert.NoError(t, err) // Middleware handles the error response
	return rec
}

func okHandler(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"status": "ok"})
}

func TestTokenManager_IssueAndParse(t *testing.T) {
	tokens := NewTokenManager(testSecret, time.Hour)
	user := newTestUser(model.RoleCustomer)

	token, expiresAt, err := tokens.Issue(user)
	require.NoError(t, err)
	assert.WithinDuration(t, time.Now().Add(time.Hour), expiresAt, 5*time.Second)

	claims, err := tokens.Parse(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.UserID)
	assert.Equal(t, "test@example.com", claims.Email)
	assert.Equal(t, "CUSTOMER", claims.Role)
}

func TestTokenManager_RejectsOtherSecretAndExpired(t *testing.T) {
	user := newTestUser(model.RoleCustomer)

	other, _, err := NewTokenManager("other-secret", time.Hour).Issue(user)
	require.NoError(t, err)
	_, err = NewTokenManager(testSecret, time.Hour).Parse(other)
	assert.Error(t, err)

	expired, _, err := NewTokenManager(testSecret, -time.Minute).Issue(user)
	require.NoError(t, err)
	_, err = NewTokenManager(testSecret, time.Hour).Parse(expired)
	assert.Error(t, err)
}

func TestJWTMiddleware_SuccessfulAuthentication(t *testing.T) {
	config := newTestConfig()
	user := newTestUser(model.RoleSuperAdmin)
	token, _, err := config.Tokens.Issue(user)
	require.NoError(t, err)

	rec := serve(t, JWTMiddleware(config), "/test", "Bearer "+token, func(c echo.Context) error {
		principal, err := GetPrincipal(c)
		assert.NoError(t, err)
		assert.Equal(t, user.ID, principal.UserID)
		assert.Equal(t, "test@example.com", principal.Email)
		assert.True(t, principal.IsSuperAdmin())
		assert.Equal(t, user.ID.String(), c.Get("user_id"))
		return okHandler(c)
	})

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestJWTMiddleware_Rejections(t *testing.T) {
	config := newTestConfig()

	badClaims := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": "invalid-uuid",
		"email":   "test@example.com",
		"role":    "CUSTOMER",
		"exp":     time.Now().Add(time.Hour).Unix(),
	})
	badClaimsToken, err := badClaims.SignedString([]byte(testSecret))
	require.NoError(t, err)

	tests := []struct {
		name       string
		authHeader string
		wantCode   string
	}{
		{name: "missing header", authHeader: "", wantCode: "MISSING_AUTH_HEADER"},
		{name: "not bearer", authHeader: "Basic abc", wantCode: "INVALID_AUTH_FORMAT"},
		{name: "garbage token", authHeader: "Bearer not-a-jwt", wantCode: "INVALID_TOKEN"},
		{name: "invalid user id", authHeader: "Bearer " + badClaimsToken, wantCode: "INVALID_CLAIMS"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := serve(t, JWTMiddleware(config), "/test", tt.authHeader, okHandler)
			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantCode)
		})
	}
}

func TestJWTMiddleware_SkipPaths(t *testing.T) {
	config := newTestConfig("/health", "/api/v1/payments/webhook")

	// No Authorization header - should still pass
	rec := serve(t, JWTMiddleware(config), "/api/v1/payments/webhook/midtrans", "", okHandler)
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(t, JWTMiddleware(config), "/api/v1/payments/create", "", okHandler)
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRole(t *testing.T) {
	withPrincipal := func(role model.UserRole) echo.MiddlewareFunc {
		return func(next echo.HandlerFunc) echo.HandlerFunc {
			return func(c echo.Context) error {
				ctx := context.WithValue(c.Request().Context(), principalContextKey, entity.Principal{
					UserID: uuid.New(),
					Role:   role,
				})
				c.SetRequest(c.Request().WithContext(ctx))
				return next(c)
			}
		}
	}

	t.Run("allowed role", func(t *testing.T) {
		rec := serve(t, withPrincipal(model.RoleSuperAdmin), "/admin", "", RequireRole(model.RoleSuperAdmin)(okHandler))
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("other role", func(t *testing.T) {
		rec := serve(t, withPrincipal(model.RoleCustomer), "/admin", "", RequireRole(model.RoleSuperAdmin)(okHandler))
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("no principal", func(t *testing.T) {
		rec := serve(t, RequireRole(model.RoleSuperAdmin), "/admin", "", okHandler)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})
}

func TestGetPrincipal_Empty(t *testing.T) {
	e := echo.New()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/test", nil), httptest.NewRecorder())

	_, err := GetPrincipal(c)
	assert.Error(t, err)
}
