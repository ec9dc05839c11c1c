package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"context"

	"gorm.io/gorm"
)

type PostLikeRepo interface {
	CreateLike(ctx context.Context, like *model.Like) error
	DeleteLike(ctx context.Context, userID, postID uint64) (bool, error)
	CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error)
	GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error)
	CountLikesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
}

type postLikeRepoImpl struct {
	db *gorm.DB
}

func NewPostLikeRepo(db *gorm.DB) PostLikeRepo {
	return &postLikeRepoImpl{db: db}
}

// postCount 分组计数的扫描结果
type postCount struct {
	PostID uint64
	Total  int64
}

func (s *postLikeRepoImpl) CreateLike(ctx context.Context, like *model.Like) error {
	return s.db.WithContext(ctx).Create(like).Error
}

// DeleteLike 返回是否真的删除了记录
func (s *postLikeRepoImpl) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	res := s.db.WithContext(ctx).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Delete(&model.Like{})
	return res.RowsAffected > 0, res.Error
}

func (s *postLikeRepoImpl) CheckLikeExists(ctx context.Context, userID, postID uint64) (bool, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("user_id = ? AND post_id = ?", userID, postID).
		Count(&count).Error
	return count > 0, err
}

func (s *postLikeRepoImpl) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&model.Like{}).
		Where("post_id = ?", postID).
		Count(&count).Error
	return count, err
}

// CountLikesByPostIDs 一次分组查询统计多个帖子的点赞数。
// 已删除帖子和无点赞的帖子不会出现在结果中。
func (s *postLikeRepoImpl) CountLikesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := s.db.WithContext(ctx).
		Table("likes").
		Select("likes.post_id AS post_id, COUNT(*) AS total").
		Joins("JOIN posts ON posts.id = likes.post_id").
		Where("likes.post_id IN ? AND posts.is_deleted = ?", postIDs, consts.PostNotDeleted).
		Group("likes.post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts, nil
}
