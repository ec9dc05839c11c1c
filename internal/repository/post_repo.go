package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type PostRepo interface {
	SavePost(ctx context.Context, post *model.Post) error
	GetPost(ctx context.Context, id uint64) (*model.Post, error)
	GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error)
	GetPostsByCategory(ctx context.Context, category model.Category) ([]*model.Post, error)
	GetRecentPosts(ctx context.Context, category model.Category, limit int) ([]*model.Post, error)
	SearchPosts(ctx context.Context, category model.Category, limit int) ([]*model.Post, error)
	SoftDeletePost(ctx context.Context, id uint64) error
}

// postSyncColumns 覆盖时更新的列，不包含 is_deleted 与 created_at
var postSyncColumns = []string{"user_id", "category", "title", "content", "updated_at"}

type postRepoImpl struct {
	db *gorm.DB
}

func NewPostRepo(db *gorm.DB) PostRepo {
	return &postRepoImpl{db: db}
}

// SavePost 按 ID 插入或覆盖帖子，并把标签关联替换为 post.Tags。
// 标签需已存在（见 TagRepo.GetOrCreateTags）。已删除的帖子不会因覆盖而恢复。
func (s *postRepoImpl) SavePost(ctx context.Context, post *model.Post) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		err := tx.Omit(clause.Associations).
			Clauses(clause.OnConflict{
				Columns:   []clause.Column{{Name: "id"}},
				DoUpdates: clause.AssignmentColumns(postSyncColumns),
			}).
			Create(post).Error
		if err != nil {
			return err
		}
		return tx.Model(post).Association("Tags").Replace(post.Tags)
	})
}

// GetPost 获取未删除的帖子，不存在时返回 nil, nil
func (s *postRepoImpl) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	var post model.Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("is_deleted = ?", consts.PostNotDeleted).
		First(&post, id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

// GetPostByIds 批量获取，顺序不保证
func (s *postRepoImpl) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}
	var posts []*model.Post
	err := s.db.WithContext(ctx).
		Preload("Tags").
		Where("id IN ? AND is_deleted = ?", ids, consts.PostNotDeleted).
		Find(&posts).Error
	if err != nil {
		return nil, err
	}
	return posts, nil
}

// GetPostsByCategory 分区内全部未删除帖子，新帖在前
func (s *postRepoImpl) GetPostsByCategory(ctx context.Context, category model.Category) ([]*model.Post, error) {
	return s.GetRecentPosts(ctx, category, 0)
}

// GetRecentPosts limit <= 0 时不限制条数
func (s *postRepoImpl) GetRecentPosts(ctx context.Context, category model.Category, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	query := s.db.WithContext(ctx).
		Preload("Tags").
		Where("category = ? AND is_deleted = ?", category, consts.PostNotDeleted).
		Order("created_at DESC").
		Order("id DESC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

// SearchPosts 搜索回源用的候选集，category 为空时不过滤分区
func (s *postRepoImpl) SearchPosts(ctx context.Context, category model.Category, limit int) ([]*model.Post, error) {
	var posts []*model.Post
	query := s.db.WithContext(ctx).
		Preload("Tags").
		Where("is_deleted = ?", consts.PostNotDeleted)
	if category != "" {
		query = query.Where("category = ?", category)
	}
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Order("created_at DESC").Order("id DESC").Find(&posts).Error; err != nil {
		return nil, err
	}
	return posts, nil
}

func (s *postRepoImpl) SoftDeletePost(ctx context.Context, id uint64) error {
	return s.db.WithContext(ctx).
		Model(&model.Post{}).
		Where("id = ?", id).
		Update("is_deleted", true).Error
}
