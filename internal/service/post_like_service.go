package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"time"

	"github.com/go-sql-driver/mysql"
	"gorm.io/gorm"
)

// LikeNotifier 点赞通知投递，失败不影响点赞本身
type LikeNotifier interface {
	NotifyLike(ctx context.Context, n *dto.LikeNotification) error
}

type PostLikeService interface {
	LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
	UnlikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error)
	IsLiked(ctx context.Context, userID, postID uint64) (bool, error)
}

type postLikeServiceImpl struct {
	likeRepo repository.PostLikeRepo
	postRepo repository.PostRepo
	notifier LikeNotifier
}

// NewPostLikeService notifier 可为 nil，此时不发送通知
func NewPostLikeService(likeRepo repository.PostLikeRepo, postRepo repository.PostRepo, notifier LikeNotifier) PostLikeService {
	return &postLikeServiceImpl{
		likeRepo: likeRepo,
		postRepo: postRepo,
		notifier: notifier,
	}
}

// LikePost 重复点赞视为成功但不重复通知，返回实时点赞数
func (s *postLikeServiceImpl) LikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	post, err := s.getPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	fresh := true
	err = s.likeRepo.CreateLike(ctx, &model.Like{UserID: userID, PostID: postID, CreatedAt: time.Now()})
	if err != nil {
		if !isDuplicateError(err) {
			return nil, fmt.Errorf("create like: %w", err)
		}
		fresh = false
	}

	s.invalidate(ctx, postID)
	count, err := s.likeRepo.GetLikeCountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}

	if fresh {
		s.notify(ctx, userID, post)
	}
	return &dto.LikeStateDTO{LikeCount: count, IsLiked: true}, nil
}

// UnlikePost 未点赞时取消同样视为成功
func (s *postLikeServiceImpl) UnlikePost(ctx context.Context, userID, postID uint64) (*dto.LikeStateDTO, error) {
	if _, err := s.getPost(ctx, postID); err != nil {
		return nil, err
	}
	if _, err := s.likeRepo.DeleteLike(ctx, userID, postID); err != nil {
		return nil, fmt.Errorf("delete like: %w", err)
	}

	s.invalidate(ctx, postID)
	count, err := s.likeRepo.GetLikeCountByPostID(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("count likes: %w", err)
	}
	return &dto.LikeStateDTO{LikeCount: count, IsLiked: false}, nil
}

func (s *postLikeServiceImpl) IsLiked(ctx context.Context, userID, postID uint64) (bool, error) {
	if userID == 0 {
		return false, nil
	}
	return s.likeRepo.CheckLikeExists(ctx, userID, postID)
}

func (s *postLikeServiceImpl) getPost(ctx context.Context, postID uint64) (*model.Post, error) {
	post, err := s.postRepo.GetPost(ctx, postID)
	if err != nil {
		return nil, fmt.Errorf("get post: %w", err)
	}
	if post == nil {
		return nil, ErrPostNotFound
	}
	return post, nil
}

func (s *postLikeServiceImpl) invalidate(ctx context.Context, postID uint64) {
	if err := invalidateCounters(ctx, likeCountKey(postID)); err != nil && !errors.Is(err, redis.ErrClientNotReady) {
		log.WarnContext(ctx, "like count cache invalidation failed", "post_id", postID, "err", err)
	}
}

// notify 自己给自己点赞不通知
func (s *postLikeServiceImpl) notify(ctx context.Context, actorID uint64, post *model.Post) {
	if s.notifier == nil || actorID == post.UserID {
		return
	}
	n := &dto.LikeNotification{
		ActorID:   actorID,
		PostID:    post.ID,
		AuthorID:  post.UserID,
		PostTitle: post.Title,
		CreatedAt: time.Now().UnixMilli(),
	}
	if err := s.notifier.NotifyLike(ctx, n); err != nil {
		log.WarnContext(ctx, "like notification dispatch failed", "post_id", post.ID, "err", err)
	}
}

func isDuplicateError(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}
