package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/messhall/backend/internal/domain/identity"
	"github.com/messhall/backend/internal/infrastructure/auth"
	"github.com/messhall/backend/internal/infrastructure/config"
)

func newTestJWTService() *auth.JWTService {
	return auth.NewJWTService(config.JWTConfig{
		Secret:                 "test-secret-key-for-middleware-tests",
		AccessTokenExpiration:  time.Hour,
		RefreshTokenExpiration: 24 * time.Hour,
		Issuer:                 "messhall-backend-test",
		MaxRefreshCount:        10,
	})
}

func issueToken(t *testing.T, svc *auth.JWTService, role string) string {
	t.Helper()
	pair, err := svc.GenerateTokenPair(auth.GenerateTokenInput{
		UserID:   uuid.New(),
		Username: "testuser",
		Role:     role,
	})
	require.NoError(t, err)
	return pair.AccessToken
}

func newProtectedRouter(svc *auth.JWTService, extra ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := []gin.HandlerFunc{JWTAuthMiddleware(svc)}
	handlers = append(handlers, extra...)
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": GetJWTUserID(c),
			"role":    GetJWTRole(c),
		})
	})
	r.GET("/api/v1/protected", handlers...)
	return r
}

func TestJWTAuthMiddleware_ValidBearerToken(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "manager"))
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "manager")
}

func TestJWTAuthMiddleware_CookieFallback(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.AddCookie(&http.Cookie{Name: AccessTokenCookie, Value: issueToken(t, svc, "student")})
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "student")
}

func TestJWTAuthMiddleware_MissingToken(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "INVALID_TOKEN")
}

func TestJWTAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set(AuthHeaderKey, "Basic abc123")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_GarbageToken(t *testing.T) {
	svc := newTestJWTService()
	router := newProtectedRouter(svc)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
	req.Header.Set(AuthHeaderKey, BearerPrefix+"not.a.token")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestJWTAuthMiddleware_SkipPaths(t *testing.T) {
	svc := newTestJWTService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(JWTAuthMiddleware(svc))
	r.POST("/api/v1/auth/login", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRoles(t *testing.T) {
	svc := newTestJWTService()

	tests := []struct {
		name   string
		role   string
		guard  gin.HandlerFunc
		status int
	}{
		{"admin passes staff guard", string(identity.RoleAdmin), RequireStaff(), http.StatusOK},
		{"manager passes staff guard", string(identity.RoleManager), RequireStaff(), http.StatusOK},
		{"student blocked by staff guard", string(identity.RoleStudent), RequireStaff(), http.StatusForbidden},
		{"student passes student guard", string(identity.RoleStudent), RequireStudent(), http.StatusOK},
		{"manager blocked by student guard", string(identity.RoleManager), RequireStudent(), http.StatusForbidden},
		{"manager blocked by admin guard", string(identity.RoleManager), RequireAdmin(), http.StatusForbidden},
		{"admin passes admin guard", string(identity.RoleAdmin), RequireAdmin(), http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := newProtectedRouter(svc, tt.guard)

			req := httptest.NewRequest(http.MethodGet, "/api/v1/protected", nil)
			req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, tt.role))
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusForbidden {
				assert.Contains(t, w.Body.String(), "FORBIDDEN")
			}
		})
	}
}

func TestRequireRoles_WithoutClaims(t *testing.T) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/guarded", RequireStaff(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/guarded", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestOptionalJWTAuthMiddleware(t *testing.T) {
	svc := newTestJWTService()
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(OptionalJWTAuthMiddleware(svc))
	r.GET("/open", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"role": GetJWTRole(c)})
	})

	t.Run("without token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})

	t.Run("with token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+issueToken(t, svc, "admin"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), "admin")
	})

	t.Run("with invalid token", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/open", nil)
		req.Header.Set(AuthHeaderKey, BearerPrefix+"garbage")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
	})
}
