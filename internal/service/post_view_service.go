package service

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/pkg/util"
	"Atelier/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strings"
	"time"
)

// DefaultDedupWindow 同一身份对同一帖子的重复浏览在窗口内不重复计数
const DefaultDedupWindow = 10 * time.Minute

// MatchPolicy 游客身份只有部分字段时的匹配策略
type MatchPolicy string

const (
	// MatchPartial 按已有的 ip / 签名字段匹配
	MatchPartial MatchPolicy = "partial"
	// MatchStrict ip 与签名都存在才参与去重，否则总是计数
	MatchStrict MatchPolicy = "strict"
)

// ParseMatchPolicy 未知取值按 partial 处理
func ParseMatchPolicy(s string) MatchPolicy {
	if MatchPolicy(strings.ToLower(strings.TrimSpace(s))) == MatchStrict {
		return MatchStrict
	}
	return MatchPartial
}

// Viewer 浏览者身份，UserID 为 0 表示未登录
type Viewer struct {
	UserID          uint64
	IPAddress       string
	ClientSignature string
}

// ViewOutcome Accepted 为 false 时表示记录失败；IsUnique 为 false 时表示被去重
type ViewOutcome struct {
	Accepted bool `json:"accepted"`
	IsUnique bool `json:"is_unique"`
}

type PostViewService interface {
	RecordView(ctx context.Context, postID uint64, viewer Viewer) (ViewOutcome, error)
}

type postViewServiceImpl struct {
	viewRepo repository.PostViewRepo
	window   time.Duration
	policy   MatchPolicy
	now      func() time.Time
}

func NewPostViewService(viewRepo repository.PostViewRepo, window time.Duration, policy MatchPolicy) PostViewService {
	if window <= 0 {
		window = DefaultDedupWindow
	}
	return &postViewServiceImpl{
		viewRepo: viewRepo,
		window:   window,
		policy:   policy,
		now:      time.Now,
	}
}

// RecordView 去重后记录一次浏览。
// 窗口内已有同一身份的计数浏览时不写入，返回 {Accepted: true, IsUnique: false}。
// 存储失败返回 {Accepted: false} 与错误，调用方不应因此阻断内容展示。
func (s *postViewServiceImpl) RecordView(ctx context.Context, postID uint64, viewer Viewer) (ViewOutcome, error) {
	now := s.now()
	match, dedupable := s.identityOf(viewer)

	if dedupable {
		exists, err := s.viewRepo.ExistsViewSince(ctx, postID, match, now.Add(-s.window))
		if err != nil {
			log.ErrorContext(ctx, "view dedup check failed", "post_id", postID, "err", err)
			return ViewOutcome{}, fmt.Errorf("%w: %w", ErrViewNotRecorded, err)
		}
		if exists {
			return ViewOutcome{Accepted: true, IsUnique: false}, nil
		}
	}

	view := &model.PostView{
		PostID:   postID,
		IsUnique: true,
		ViewedAt: now,
	}
	if viewer.UserID != 0 {
		view.UserID = util.Ptr(viewer.UserID)
	}
	if ip := strings.TrimSpace(viewer.IPAddress); ip != "" {
		view.IPAddress = &ip
	}
	if sig := strings.TrimSpace(viewer.ClientSignature); sig != "" {
		view.ClientSignature = &sig
	}

	if err := s.viewRepo.CreateView(ctx, view); err != nil {
		log.ErrorContext(ctx, "view insert failed", "post_id", postID, "err", err)
		return ViewOutcome{}, fmt.Errorf("%w: %w", ErrViewNotRecorded, err)
	}

	if err := invalidateCounters(ctx, viewCountKey(PeriodTotal)(postID)); err != nil && !errors.Is(err, redis.ErrClientNotReady) {
		log.WarnContext(ctx, "view count cache invalidation failed", "post_id", postID, "err", err)
	}
	return ViewOutcome{Accepted: true, IsUnique: true}, nil
}

// identityOf 登录用户只按用户 ID 匹配；游客按 ip / 签名匹配。
// 第二个返回值为 false 时该次浏览无法参与去重。
func (s *postViewServiceImpl) identityOf(viewer Viewer) (repository.ViewMatch, bool) {
	if viewer.UserID != 0 {
		return repository.ViewMatch{UserID: util.Ptr(viewer.UserID)}, true
	}

	var match repository.ViewMatch
	if ip := strings.TrimSpace(viewer.IPAddress); ip != "" {
		match.IPAddress = &ip
	}
	if sig := strings.TrimSpace(viewer.ClientSignature); sig != "" {
		match.ClientSignature = &sig
	}

	switch s.policy {
	case MatchStrict:
		return match, match.IPAddress != nil && match.ClientSignature != nil
	default:
		return match, match.IPAddress != nil || match.ClientSignature != nil
	}
}
