package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/service"
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/goccy/go-json"
	"github.com/stretchr/testify/require"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// envelope 与 dto.Response 对应，Data 延迟解析
type envelope struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// asUser 模拟鉴权中间件注入用户 ID
func asUser(userID uint64) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set(consts.CtxUserID, userID)
		c.Next()
	}
}

func serve(t *testing.T, r *gin.Engine, method, target string, body any) envelope {
	t.Helper()
	var reader io.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set(consts.HeaderUserAgent, "atelier-test/1.0")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var env envelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	return env
}

func decode[T any](t *testing.T, raw json.RawMessage) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(raw, &v))
	return v
}

type viewServiceStub struct {
	got      service.Viewer
	outcome  service.ViewOutcome
	err      error
	recorded bool
}

func (s *viewServiceStub) RecordView(_ context.Context, _ uint64, viewer service.Viewer) (service.ViewOutcome, error) {
	s.recorded = true
	s.got = viewer
	return s.outcome, s.err
}

type likeServiceStub struct {
	likeFn   func(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
	unlikeFn func(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
	liked    bool
}

func (s *likeServiceStub) LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	return s.likeFn(ctx, userID, postID)
}

func (s *likeServiceStub) UnlikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	return s.unlikeFn(ctx, userID, postID)
}

func (s *likeServiceStub) IsLiked(context.Context, uint64, uint64) (bool, error) {
	return s.liked, nil
}

type counterServiceStub struct {
	service.CounterService
	getFn func(ctx context.Context, ids []uint64, period service.Period) (*service.Counters, error)
}

func (s *counterServiceStub) GetCounters(ctx context.Context, ids []uint64, period service.Period) (*service.Counters, error) {
	return s.getFn(ctx, ids, period)
}

type rankingServiceStub struct {
	service.RankingService
	gotCategories []model.Category
	gotOpts       service.RankOptions
	entries       []*service.RankedEntry
	err           error
}

func (s *rankingServiceStub) Rank(_ context.Context, categories []model.Category, opts service.RankOptions) ([]*service.RankedEntry, error) {
	s.gotCategories, s.gotOpts = categories, opts
	if s.err != nil {
		return []*service.RankedEntry{}, s.err
	}
	return s.entries, nil
}
