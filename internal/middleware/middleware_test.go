package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"ChurnRadar_AnalyticsProject/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func newRouter(mw ...gin.HandlerFunc) *gin.Engine {
	r := gin.New()
	handlers := append(mw, func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"user": Username(c)})
	})
	r.GET("/p", handlers...)
	return r
}

func do(r http.Handler, req *http.Request) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	auth.Init([]byte("mw-key"), time.Hour)
	token, err := auth.GenerateToken("ada")
	require.NoError(t, err)
	r := newRouter(AuthMiddleware())

	w := do(r, httptest.NewRequest(http.MethodGet, "/p", nil))
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Authorization header required")

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Token "+token)
	assert.Equal(t, http.StatusUnauthorized, do(r, req).Code)

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	w = do(r, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Invalid token")

	req = httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w = do(r, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"ada"}`, w.Body.String())
}

func TestQueryTokenMiddleware(t *testing.T) {
	auth.Init([]byte("mw-key"), time.Hour)
	token, err := auth.GenerateToken("grace")
	require.NoError(t, err)
	r := newRouter(QueryTokenMiddleware())

	assert.Equal(t, http.StatusUnauthorized, do(r, httptest.NewRequest(http.MethodGet, "/p", nil)).Code)

	w := do(r, httptest.NewRequest(http.MethodGet, "/p?token="+token, nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"user":"grace"}`, w.Body.String())
}

func TestInviteCodeMiddleware(t *testing.T) {
	open := newRouter(InviteCodeMiddleware(""))
	assert.Equal(t, http.StatusOK, do(open, httptest.NewRequest(http.MethodGet, "/p", nil)).Code)

	gated := newRouter(InviteCodeMiddleware("letmein"))
	assert.Equal(t, http.StatusForbidden, do(gated, httptest.NewRequest(http.MethodGet, "/p", nil)).Code)

	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	req.Header.Set("X-Invite-Code", "letmein")
	assert.Equal(t, http.StatusOK, do(gated, req).Code)
}

func TestRateLimit(t *testing.T) {
	r := newRouter(RateLimit(2))

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		codes = append(codes, do(r, httptest.NewRequest(http.MethodGet, "/p", nil)).Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}
