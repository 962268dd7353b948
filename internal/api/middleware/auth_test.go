package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"example.com/mams/internal/auth"
	"example.com/mams/internal/models"
)

func protectedRouter(t *testing.T, secret string, roles ...string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	router := gin.New()
	group := router.Group("/")
	group.Use(RequireAuth(secret))
	if len(roles) > 0 {
		group.Use(RequireRole(roles...))
	}
	group.GET("/resource", func(c *gin.Context) {
		actor, ok := GetActor(c)
		require.True(t, ok)
		c.JSON(http.StatusOK, gin.H{"role": actor.Role})
	})
	return router
}

func TestRequireAuthAcceptsValidToken(t *testing.T) {
	token, err := auth.GenerateToken("test-secret", uuid.New(), models.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(t, "test-secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireAuthRejectsMissingHeader(t *testing.T) {
	router := protectedRouter(t, "test-secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireAuthRejectsBadToken(t *testing.T) {
	token, err := auth.GenerateToken("other-secret", uuid.New(), models.RoleAdmin, nil, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(t, "test-secret")
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRequireRoleForbidsOtherRoles(t *testing.T) {
	token, err := auth.GenerateToken("test-secret", uuid.New(), models.RoleCommander, nil, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(t, "test-secret", models.RoleAdmin, models.RoleLogistics)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireRoleAllowsListedRole(t *testing.T) {
	token, err := auth.GenerateToken("test-secret", uuid.New(), models.RoleLogistics, nil, time.Hour)
	require.NoError(t, err)

	router := protectedRouter(t, "test-secret", models.RoleAdmin, models.RoleLogistics)
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/resource", nil)
	req.Header.Set("Authorization", "Bearer "+token)

	router.ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
}
