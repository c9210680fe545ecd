package middleware_test

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/Priyanka03s/travel-sid-sub002/internal/api/middleware"
	"github.com/Priyanka03s/travel-sid-sub002/internal/utils"
)

func setupAuthEngine() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/me", middleware.AuthMiddleware(testSecret), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.HostID(c))
	})
	r.GET("/admin", middleware.AuthMiddleware(testSecret), middleware.AdminMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, "admin")
	})
	return r
}

func authRequest(r *gin.Engine, path, header string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req, _ := http.NewRequest("GET", path, nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(w, req)
	return w
}

func TestAuthMiddleware(t *testing.T) {
	r := setupAuthEngine()
	token := utils.HostToken(t, "host-42", false, testSecret, time.Hour)

	w := authRequest(r, "/me", "Bearer "+token)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "host-42", w.Body.String())

	assert.Equal(t, http.StatusUnauthorized, authRequest(r, "/me", "").Code)
	assert.Equal(t, http.StatusUnauthorized, authRequest(r, "/me", "Token "+token).Code)

	other := utils.HostToken(t, "host-42", false, "other-secret", time.Hour)
	assert.Equal(t, http.StatusUnauthorized, authRequest(r, "/me", "Bearer "+other).Code)

	expired := utils.HostToken(t, "host-42", false, testSecret, -time.Minute)
	assert.Equal(t, http.StatusUnauthorized, authRequest(r, "/me", "Bearer "+expired).Code)
}

func TestAdminMiddleware(t *testing.T) {
	r := setupAuthEngine()
	host := utils.HostToken(t, "host-1", false, testSecret, time.Hour)
	admin := utils.HostToken(t, "admin-1", true, testSecret, time.Hour)

	assert.Equal(t, http.StatusForbidden, authRequest(r, "/admin", "Bearer "+host).Code)
	assert.Equal(t, http.StatusOK, authRequest(r, "/admin", "Bearer "+admin).Code)
}
