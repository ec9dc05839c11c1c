package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"

	"github.com/gin-gonic/gin"
)

const defaultSearchLimit = 20

type SearchHandler struct {
	searchSvc service.SearchService
}

func NewSearchHandler(searchSvc service.SearchService) *SearchHandler {
	return &SearchHandler{
		searchSvc: searchSvc,
	}
}

func bindSearchReq(c *gin.Context) (*dto.SearchReq, bool) {
	var req dto.SearchReq
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, err)
		return nil, false
	}
	if req.Limit == 0 {
		req.Limit = defaultSearchLimit
	}
	return &req, true
}

// Normalize 返回检索时使用的假名变体
func (h *SearchHandler) Normalize(c *gin.Context) {
	req, ok := bindSearchReq(c)
	if !ok {
		return
	}
	response.Success(c, dto.QueryVariantsDTO{Variants: h.searchSvc.NormalizeQuery(req.Query)})
}

func (h *SearchHandler) SearchTags(c *gin.Context) {
	req, ok := bindSearchReq(c)
	if !ok {
		return
	}
	tags, err := h.searchSvc.SearchTags(c.Request.Context(), req.Query, req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, tags)
}

func (h *SearchHandler) SearchPosts(c *gin.Context) {
	req, ok := bindSearchReq(c)
	if !ok {
		return
	}
	posts, err := h.searchSvc.SearchPosts(c.Request.Context(), req.Query, model.Category(req.Category), req.Limit)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, posts)
}
