package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/haseeb/volunteer-hub-go/config"
	utils "github.com/haseeb/volunteer-hub-go/utils"
)

const testSecret = "middleware-test-secret"

func setupRouter(roles ...string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	cfg := &config.Config{JWTSecret: testSecret}

	handlers := []gin.HandlerFunc{AuthMiddleware(cfg)}
	if len(roles) > 0 {
		handlers = append(handlers, RequireRole(roles...))
	}
	handlers = append(handlers, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"user_id": c.GetString("user_id"),
			"role":    c.GetString("role"),
		})
	})

	r := gin.New()
	r.GET("/protected", handlers...)
	return r
}

func doRequest(r *gin.Engine, authHeader string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	if authHeader != "" {
		req.Header.Set("Authorization", authHeader)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware_MissingHeader(t *testing.T) {
	w := doRequest(setupRouter(), "")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongScheme(t *testing.T) {
	w := doRequest(setupRouter(), "Basic sometoken")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_MalformedToken(t *testing.T) {
	w := doRequest(setupRouter(), "Bearer not.a.token")
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_WrongSecret(t *testing.T) {
	token, err := utils.GenerateToken("user1", "ngo", "some-other-secret", time.Hour)
	require.NoError(t, err)

	w := doRequest(setupRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ExpiredToken(t *testing.T) {
	token, err := utils.GenerateToken("user1", "ngo", testSecret, -time.Minute)
	require.NoError(t, err)

	w := doRequest(setupRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthMiddleware_ValidToken(t *testing.T) {
	token, err := utils.GenerateToken("user1", "ngo", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(setupRouter(), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"user_id":"user1"`)
	assert.Contains(t, w.Body.String(), `"role":"ngo"`)
}

func TestRequireRole_WrongRole(t *testing.T) {
	token, err := utils.GenerateToken("user1", "volunteer", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(setupRouter("ngo"), "Bearer "+token)
	assert.Equal(t, http.StatusForbidden, w.Code)
	assert.Contains(t, w.Body.String(), "not authorized")
}

func TestRequireRole_AllowedRole(t *testing.T) {
	token, err := utils.GenerateToken("user1", "ngo", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(setupRouter("ngo"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestRequireRole_MultipleAllowedRoles(t *testing.T) {
	token, err := utils.GenerateToken("user1", "volunteer", testSecret, time.Hour)
	require.NoError(t, err)

	w := doRequest(setupRouter("ngo", "volunteer"), "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
}
