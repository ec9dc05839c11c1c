package handler

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/response"
	"Atelier/internal/service"
	log "log/slog"

	"github.com/gin-gonic/gin"
)

type EngagementHandler struct {
	viewSvc    service.PostViewService
	likeSvc    service.PostLikeService
	counterSvc service.CounterService
}

func NewEngagementHandler(
	viewSvc service.PostViewService,
	likeSvc service.PostLikeService,
	counterSvc service.CounterService,
) *EngagementHandler {
	return &EngagementHandler{
		viewSvc:    viewSvc,
		likeSvc:    likeSvc,
		counterSvc: counterSvc,
	}
}

// RecordView 上报浏览，写入失败对前端不可见
func (h *EngagementHandler) RecordView(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	viewer := service.Viewer{
		UserID:          c.GetUint64(consts.CtxUserID),
		IPAddress:       c.ClientIP(),
		ClientSignature: c.GetHeader(consts.HeaderUserAgent),
	}
	outcome, err := h.viewSvc.RecordView(c.Request.Context(), postID, viewer)
	if err != nil {
		log.WarnContext(c.Request.Context(), "record view failed", "post_id", postID, "err", err)
		response.Success(c, dto.ViewRecordDTO{})
		return
	}

	response.Success(c, dto.ViewRecordDTO{
		Accepted: outcome.Accepted,
		IsUnique: outcome.IsUnique,
	})
}

// LikePost 点赞，重复点赞不报错
func (h *EngagementHandler) LikePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := h.likeSvc.LikePost(c.Request.Context(), c.GetUint64(consts.CtxUserID), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

// UnlikePost 取消点赞，未点赞时同样返回当前计数
func (h *EngagementHandler) UnlikePost(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	state, err := h.likeSvc.UnlikePost(c.Request.Context(), c.GetUint64(consts.CtxUserID), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, state)
}

// GetLikeState 当前用户是否已点赞
func (h *EngagementHandler) GetLikeState(c *gin.Context) {
	postID, ok := postIDParam(c)
	if !ok {
		response.Error(c, service.ErrParamInvalid)
		return
	}

	liked, err := h.likeSvc.IsLiked(c.Request.Context(), c.GetUint64(consts.CtxUserID), postID)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Success(c, gin.H{"is_liked": liked})
}

// GetCounters 批量获取点赞数与浏览数，查询失败时仍返回全 0 的计数
func (h *EngagementHandler) GetCounters(c *gin.Context) {
	var req dto.CountersReq
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, err)
		return
	}

	counters, err := h.counterSvc.GetCounters(c.Request.Context(), req.PostIDs, service.ParsePeriod(req.Period))
	data := dto.CountersDTO{
		Likes: make(map[uint64]int64, len(req.PostIDs)),
		Views: make(map[uint64]int64, len(req.PostIDs)),
	}
	if counters == nil {
		counters = &service.Counters{}
	}
	for _, id := range req.PostIDs {
		data.Likes[id] = counters.Likes[id]
		data.Views[id] = counters.Views[id]
	}
	if err != nil {
		response.ErrorWithData(c, err, data)
		return
	}
	response.Success(c, data)
}
