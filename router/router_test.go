// router/router_test.go
package router

import (
	"net/http"
	"net/http/httptest"
	"stellarone-api/config"
	"stellarone-api/logger"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func newTestRouter() http.Handler {
	logger.Init()
	config.AppConfig.JWT.SecretKey = "test-secret"
	return NewRouter(nil, nil, nil, nil, nil, nil, nil)
}

func TestHealthRoute(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "StellarOne API is up")
}

func TestPageRoutesRedirectWithoutSession(t *testing.T) {
	r := newTestRouter()

	for _, path := range []string{"/user-dashboard", "/admin-dashboard"} {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, path, nil)

		r.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusSeeOther, rec.Code, path)
		assert.Equal(t, "/login", rec.Header().Get("Location"), path)
	}
}

func TestLoginPageIsPublic(t *testing.T) {
	r := newTestRouter()
	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/login", nil)

	r.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, strings.Contains(rec.Header().Get("Content-Type"), "text/html"))
}
