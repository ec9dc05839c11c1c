package handler

import (
	"Atelier/internal/api/config"
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
)

type RankingHandler struct {
	rankingSvc service.RankingService
	limits     config.RankingConfig
}

func NewRankingHandler(rankingSvc service.RankingService, limits config.RankingConfig) *RankingHandler {
	return &RankingHandler{
		rankingSvc: rankingSvc,
		limits:     limits,
	}
}

// GetRanking 分区榜单，多个 category 时返回合并榜单
func (h *RankingHandler) GetRanking(c *gin.Context) {
	var req dto.RankingReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return
	}

	categories := make([]model.Category, 0, len(req.Categories))
	for _, v := range req.Categories {
		categories = append(categories, model.Category(v))
	}

	entries, err := h.rankingSvc.Rank(c.Request.Context(), categories, service.RankOptions{
		Limit:  h.clampLimit(req.Limit),
		Tag:    req.Tag,
		Period: service.ParsePeriod(req.Period),
	})
	data := toRankingDTO(entries)
	if err != nil {
		response.ErrorWithData(c, err, data)
		return
	}
	response.Success(c, data)
}

func (h *RankingHandler) clampLimit(limit int) int {
	if limit <= 0 {
		limit = h.limits.DefaultLimit
	}
	if h.limits.MaxLimit > 0 && limit > h.limits.MaxLimit {
		limit = h.limits.MaxLimit
	}
	return limit
}

func toRankingDTO(entries []*service.RankedEntry) dto.RankingDTO {
	items := make([]*dto.RankedPostDTO, 0, len(entries))
	for _, e := range entries {
		items = append(items, &dto.RankedPostDTO{
			PostID:   e.PostID,
			Category: string(e.Category),
			Title:    e.Title,
			Tags:     e.Tags,
			Likes:    e.Likes,
			Views:    e.Views,
			Score:    e.Score,
			Rank:     e.Rank,
		})
	}
	return dto.RankingDTO{Items: items, Total: len(items)}
}
