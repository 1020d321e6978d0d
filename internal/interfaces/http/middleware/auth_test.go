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

	"promptmint.backend/internal/domain/entities"
	"promptmint.backend/pkg/jwt"
)

func setupAuthRouter(svc *jwt.JWTService, perms ...gin.HandlerFunc) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	handlers := append([]gin.HandlerFunc{AuthMiddleware(svc)}, perms...)
	handlers = append(handlers, func(c *gin.Context) {
		adminID, _ := GetAdminID(c)
		c.JSON(http.StatusOK, gin.H{"adminId": adminID})
	})
	r.GET("/protected", handlers...)
	return r
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	r := setupAuthRouter(svc)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/protected", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "UNAUTHORIZED")
}

func TestAuthMiddleware_MalformedHeader(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	r := setupAuthRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, "Token abc123")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_GarbledToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	r := setupAuthRouter(svc)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+"not-a-jwt")
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", -time.Minute)
	token, err := svc.GenerateToken(uuid.New(), "admin@example.com", nil)
	require.NoError(t, err)

	r := setupAuthRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestAuthMiddleware_ValidTokenSetsContext(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	adminID := uuid.New()
	token, err := svc.GenerateToken(adminID, "admin@example.com", []string{string(entities.PermManageContent)})
	require.NoError(t, err)

	r := setupAuthRouter(svc)
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), adminID.String())
}

func TestRequirePermission_ForbidsMissingCapability(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	token, err := svc.GenerateToken(uuid.New(), "admin@example.com", []string{string(entities.PermManageContent)})
	require.NoError(t, err)

	r := setupAuthRouter(svc, RequirePermission(string(entities.PermManageFinance)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "FORBIDDEN")
}

func TestRequirePermission_AllowsGrantedCapability(t *testing.T) {
	svc := jwt.NewJWTService("test-secret", time.Hour)
	token, err := svc.GenerateToken(uuid.New(), "admin@example.com", []string{string(entities.PermManageFinance)})
	require.NoError(t, err)

	r := setupAuthRouter(svc, RequirePermission(string(entities.PermManageFinance)))
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set(AuthorizationHeader, BearerPrefix+token)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
}
