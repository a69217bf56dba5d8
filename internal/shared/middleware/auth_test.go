package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"realty-backend/pkg/jwt"
)

const testSecret = "test-secret"

func authTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/protected", AuthMiddleware(testSecret), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return r
}

func getProtected(t *testing.T, r *gin.Engine, authHeader string) int {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec.Code
}

func TestAuthMiddlewareAcceptsAccessToken(t *testing.T) {
	manager := jwt.NewManager(testSecret, 15, 168)
	token, err := manager.GenerateAccessToken(uuid.NewString(), "user@example.com", "user")
	require.NoError(t, err)

	require.Equal(t, http.StatusOK, getProtected(t, authTestRouter(), "Bearer "+token))
}

func TestAuthMiddlewareRejectsRefreshToken(t *testing.T) {
	manager := jwt.NewManager(testSecret, 15, 168)
	token, err := manager.GenerateRefreshToken(uuid.NewString())
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, getProtected(t, authTestRouter(), "Bearer "+token))
}

func TestAuthMiddlewareRejectsMissingOrMalformedHeader(t *testing.T) {
	r := authTestRouter()

	require.Equal(t, http.StatusUnauthorized, getProtected(t, r, ""))
	require.Equal(t, http.StatusUnauthorized, getProtected(t, r, "Bearer"))
	require.Equal(t, http.StatusUnauthorized, getProtected(t, r, "Bearer not-a-token"))
}

func TestAuthMiddlewareRejectsWrongSecret(t *testing.T) {
	manager := jwt.NewManager("other-secret", 15, 168)
	token, err := manager.GenerateAccessToken(uuid.NewString(), "user@example.com", "user")
	require.NoError(t, err)

	require.Equal(t, http.StatusUnauthorized, getProtected(t, authTestRouter(), "Bearer "+token))
}
