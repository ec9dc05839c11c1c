package handler

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/service"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var rankingLimits = config.RankingConfig{DefaultLimit: 20, MaxLimit: 100}

func rankingRouter(svc service.RankingService) *gin.Engine {
	r := gin.New()
	r.GET("/ranking", NewRankingHandler(svc, rankingLimits).GetRanking)
	return r
}

func TestGetRanking(t *testing.T) {
	svc := &rankingServiceStub{entries: []*service.RankedEntry{
		{PostID: 3, Category: model.CategoryArtwork, Title: "夕焼け", Tags: []string{"水彩"}, Likes: 2, Views: 5, Score: 15, Rank: 1},
		{PostID: 1, Category: model.CategoryArticle, Title: "色彩理論", Likes: 1, Views: 1, Score: 6, Rank: 2},
	}}

	env := serve(t, rankingRouter(svc), http.MethodGet, "/ranking?category=artwork&category=article&tag=%E6%B0%B4%E5%BD%A9&period=weekly", nil)

	require.Equal(t, 200, env.Code)
	assert.Equal(t, []model.Category{model.CategoryArtwork, model.CategoryArticle}, svc.gotCategories)
	assert.Equal(t, service.RankOptions{Limit: 20, Tag: "水彩", Period: service.PeriodWeekly}, svc.gotOpts)

	got := decode[dto.RankingDTO](t, env.Data)
	require.Equal(t, 2, got.Total)
	assert.Equal(t, "artwork", got.Items[0].Category)
	assert.EqualValues(t, 15, got.Items[0].Score)
	assert.Equal(t, 2, got.Items[1].Rank)
}

func TestGetRanking_LimitClamp(t *testing.T) {
	cases := map[string]int{
		"/ranking":           20,
		"/ranking?limit=5":   5,
		"/ranking?limit=500": 100,
	}
	for target, want := range cases {
		t.Run(target, func(t *testing.T) {
			svc := &rankingServiceStub{}
			env := serve(t, rankingRouter(svc), http.MethodGet, target, nil)
			require.Equal(t, 200, env.Code)
			assert.Equal(t, want, svc.gotOpts.Limit)
		})
	}
}

func TestGetRanking_FailureReturnsEmptyList(t *testing.T) {
	svc := &rankingServiceStub{err: fmt.Errorf("%w: %w", service.ErrRankingFetch, errors.New("i/o timeout"))}

	env := serve(t, rankingRouter(svc), http.MethodGet, "/ranking?category=artwork", nil)

	assert.Equal(t, 500, env.Code)
	assert.JSONEq(t, `{"items":[],"total":0}`, string(env.Data))
}

func TestGetRanking_InvalidCategory(t *testing.T) {
	svc := &rankingServiceStub{err: service.ErrCategoryInvalid}

	env := serve(t, rankingRouter(svc), http.MethodGet, "/ranking?category=music", nil)

	assert.Equal(t, 400, env.Code)
	assert.Equal(t, []model.Category{"music"}, svc.gotCategories)
}
