package api

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/handler"
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	group := &HandlersGroup{
		EngagementHandler: handler.NewEngagementHandler(nil, nil, nil),
		RankingHandler:    handler.NewRankingHandler(nil, config.RankingConfig{}),
		SearchHandler:     handler.NewSearchHandler(nil),
		SysBoxHandler:     handler.NewSysBoxHandler(nil),
	}
	cfg := &config.Config{Server: config.ServerConfig{TrustedProxies: []string{"127.0.0.1"}}}
	return SetupRouter(group, cfg)
}

func TestSetupRouter_Routes(t *testing.T) {
	r := newTestRouter(t)

	got := make(map[string]bool)
	for _, route := range r.Routes() {
		got[route.Method+" "+route.Path] = true
	}
	for _, want := range []string{
		"GET /api/ping",
		"POST /api/posts/:post_id/view",
		"GET /api/posts/:post_id/like",
		"POST /api/posts/:post_id/like",
		"DELETE /api/posts/:post_id/like",
		"POST /api/engagement/counters",
		"GET /api/ranking",
		"GET /api/search/normalize",
		"GET /api/search/tags",
		"GET /api/search/posts",
		"GET /api/sysbox/list",
		"GET /api/sysbox/unread",
		"POST /api/sysbox/read",
		"POST /api/sysbox/read/all",
	} {
		assert.True(t, got[want], want)
	}
}

func TestSetupRouter_PingCarriesTraceID(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/ping", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Header().Get("X-Trace-ID"))
	assert.Contains(t, w.Body.String(), "pong")
}

func TestSetupRouter_LikeRequiresAuth(t *testing.T) {
	r := newTestRouter(t)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/posts/1/like", bytes.NewReader(nil)))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"code":401`)
}
