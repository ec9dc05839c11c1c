package kafka

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/util"
	"Atelier/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/IBM/sarama"
	"github.com/goccy/go-json"
)

// CounterEvicter 作废帖子的计数缓存
type CounterEvicter interface {
	EvictPost(ctx context.Context, postID uint64) error
}

// PostSyncHandler 消费发布侧的帖子变更，同步到 MySQL 与 ES 索引
type PostSyncHandler struct {
	postDBRepo repository.PostRepo
	tagDBRepo  repository.TagRepo
	postESRepo es.PostRepo
	counters   CounterEvicter
}

func NewPostSyncHandler(postDBRepo repository.PostRepo, tagDBRepo repository.TagRepo, postESRepo es.PostRepo, counters CounterEvicter) *PostSyncHandler {
	return &PostSyncHandler{
		postDBRepo: postDBRepo,
		tagDBRepo:  tagDBRepo,
		postESRepo: postESRepo,
		counters:   counters,
	}
}

func (h *PostSyncHandler) Setup(sarama.ConsumerGroupSession) error {
	log.Info("post sync consumer setup")
	return nil
}

func (h *PostSyncHandler) Cleanup(sarama.ConsumerGroupSession) error {
	log.Info("post sync consumer cleanup")
	return nil
}

func (h *PostSyncHandler) ConsumeClaim(session sarama.ConsumerGroupSession, claim sarama.ConsumerGroupClaim) error {
	return pullMessageBatch(session, claim, h.logic)
}

func (h *PostSyncHandler) logic(ctx context.Context, msg *sarama.ConsumerMessage) error {
	var ev dto.PostEvent
	if err := json.Unmarshal(msg.Value, &ev); err != nil {
		log.WarnContext(ctx, "drop malformed post event", "offset", msg.Offset, "err", err)
		return nil
	}
	if err := util.ValidateDTO(&ev); err != nil {
		log.WarnContext(ctx, "drop invalid post event", "offset", msg.Offset, "err", err)
		return nil
	}

	if ev.Op == consts.PostEventDelete {
		return h.delete(ctx, ev.PostID)
	}
	if !model.Category(ev.Category).Valid() {
		log.WarnContext(ctx, "drop post event with unknown category", "post_id", ev.PostID, "category", ev.Category)
		return nil
	}
	return h.upsert(ctx, &ev)
}

func (h *PostSyncHandler) upsert(ctx context.Context, ev *dto.PostEvent) error {
	tags, err := h.tagDBRepo.GetOrCreateTags(ctx, ev.Tags)
	if err != nil {
		return fmt.Errorf("resolve tags: %w", err)
	}

	post := &model.Post{
		ID:       ev.PostID,
		UserID:   ev.UserID,
		Category: model.Category(ev.Category),
		Title:    ev.Title,
		Content:  ev.Content,
		Tags:     make([]model.Tag, 0, len(tags)),
	}
	if ev.CreatedAt > 0 {
		post.CreatedAt = time.UnixMilli(ev.CreatedAt)
	}
	for _, t := range tags {
		post.Tags = append(post.Tags, *t)
	}
	if err = h.postDBRepo.SavePost(ctx, post); err != nil {
		return fmt.Errorf("save post: %w", err)
	}

	// 以库中状态为准，已删除的帖子不再进入索引
	stored, err := h.postDBRepo.GetPost(ctx, post.ID)
	if err != nil {
		return fmt.Errorf("reload post: %w", err)
	}
	if stored == nil {
		return h.unindex(ctx, post.ID)
	}
	return h.index(ctx, stored)
}

func (h *PostSyncHandler) delete(ctx context.Context, postID uint64) error {
	if err := h.postDBRepo.SoftDeletePost(ctx, postID); err != nil {
		return fmt.Errorf("soft delete post: %w", err)
	}
	// 删除后缓存里的旧计数不能再被读到
	if err := h.counters.EvictPost(ctx, postID); err != nil {
		return fmt.Errorf("evict counters: %w", err)
	}
	return h.unindex(ctx, postID)
}

func (h *PostSyncHandler) index(ctx context.Context, post *model.Post) error {
	err := h.postESRepo.IndexPost(ctx, &es.PostES{
		ID:        post.ID,
		UserID:    post.UserID,
		Category:  string(post.Category),
		Title:     post.Title,
		Content:   post.Content,
		Tags:      post.TagNames(),
		IsDeleted: post.IsDeleted,
		CreatedAt: post.CreatedAt,
	})
	if errors.Is(err, es.ErrNotConfigured) {
		return nil
	}
	return err
}

func (h *PostSyncHandler) unindex(ctx context.Context, postID uint64) error {
	err := h.postESRepo.DeletePost(ctx, postID)
	if errors.Is(err, es.ErrNotConfigured) {
		return nil
	}
	return err
}
