package api

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func statsContext(t *testing.T, userID string) *gin.Context {
	t.Helper()
	gin.SetMode(gin.TestMode)

	c, _ := gin.CreateTestContext(httptest.NewRecorder())
	c.Request = httptest.NewRequest(http.MethodGet, "/api/users/stats", nil)
	c.Set("userID", userID)
	return c
}

func TestUserCacheKeyScopedPerUser(t *testing.T) {
	alice := userCacheKey(statsContext(t, "alice"))
	bob := userCacheKey(statsContext(t, "bob"))

	// Same URI, different users: the cached snapshot must never cross over
	require.NotEqual(t, alice, bob)
	require.Equal(t, alice, userCacheKey(statsContext(t, "alice")))
}
