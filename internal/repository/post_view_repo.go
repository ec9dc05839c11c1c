package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ViewMatch 去重时参与匹配的身份字段，nil 表示不参与
type ViewMatch struct {
	UserID          *uint64
	IPAddress       *string
	ClientSignature *string
}

func (m ViewMatch) empty() bool {
	return m.UserID == nil && m.IPAddress == nil && m.ClientSignature == nil
}

type PostViewRepo interface {
	CreateView(ctx context.Context, view *model.PostView) error
	ExistsViewSince(ctx context.Context, postID uint64, match ViewMatch, since time.Time) (bool, error)
	CountUniqueViewsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	GetViewStatsByPostIDs(ctx context.Context, postIDs []uint64) ([]*model.PostViewStat, error)
	AggregateViewStats(ctx context.Context, daySince, weekSince, monthSince time.Time) ([]*model.PostViewStat, error)
	UpsertViewStats(ctx context.Context, stats []*model.PostViewStat) error
}

type postViewRepoImpl struct {
	db *gorm.DB
}

func NewPostViewRepo(db *gorm.DB) PostViewRepo {
	return &postViewRepoImpl{db: db}
}

func (s *postViewRepoImpl) CreateView(ctx context.Context, view *model.PostView) error {
	return s.db.WithContext(ctx).Create(view).Error
}

// ExistsViewSince 窗口内是否已有同一身份的计数浏览，所有非 nil 字段需同时相等。
// 游客只与游客的记录比对，同一出口 IP 下的登录用户不算同一身份。
func (s *postViewRepoImpl) ExistsViewSince(ctx context.Context, postID uint64, match ViewMatch, since time.Time) (bool, error) {
	if match.empty() {
		return false, nil
	}

	query := s.db.WithContext(ctx).Model(&model.PostView{}).
		Where("post_id = ? AND is_unique = ? AND viewed_at >= ?", postID, true, since)
	if match.UserID != nil {
		query = query.Where("user_id = ?", *match.UserID)
	} else {
		query = query.Where("user_id IS NULL")
	}
	if match.IPAddress != nil {
		query = query.Where("ip_address = ?", *match.IPAddress)
	}
	if match.ClientSignature != nil {
		query = query.Where("client_signature = ?", *match.ClientSignature)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// CountUniqueViewsByPostIDs 一次分组查询统计累计浏览量，已删除帖子不计
func (s *postViewRepoImpl) CountUniqueViewsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}

	var rows []postCount
	err := s.db.WithContext(ctx).
		Table("post_views").
		Select("post_views.post_id AS post_id, COUNT(*) AS total").
		Joins("JOIN posts ON posts.id = post_views.post_id").
		Where("post_views.post_id IN ? AND post_views.is_unique = ? AND posts.is_deleted = ?", postIDs, true, consts.PostNotDeleted).
		Group("post_views.post_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		counts[r.PostID] = r.Total
	}
	return counts, nil
}

func (s *postViewRepoImpl) GetViewStatsByPostIDs(ctx context.Context, postIDs []uint64) ([]*model.PostViewStat, error) {
	var stats []*model.PostViewStat
	if len(postIDs) == 0 {
		return stats, nil
	}
	err := s.db.WithContext(ctx).
		Table("post_view_stats").
		Select("post_view_stats.*").
		Joins("JOIN posts ON posts.id = post_view_stats.post_id").
		Where("post_view_stats.post_id IN ? AND posts.is_deleted = ?", postIDs, consts.PostNotDeleted).
		Find(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// AggregateViewStats 按时间窗口汇总每个帖子的计数浏览
func (s *postViewRepoImpl) AggregateViewStats(ctx context.Context, daySince, weekSince, monthSince time.Time) ([]*model.PostViewStat, error) {
	var stats []*model.PostViewStat
	err := s.db.WithContext(ctx).
		Table("post_views").
		Select(
			"post_id, "+
				"SUM(CASE WHEN viewed_at >= ? THEN 1 ELSE 0 END) AS daily_views, "+
				"SUM(CASE WHEN viewed_at >= ? THEN 1 ELSE 0 END) AS weekly_views, "+
				"SUM(CASE WHEN viewed_at >= ? THEN 1 ELSE 0 END) AS monthly_views, "+
				"COUNT(*) AS total_views",
			daySince, weekSince, monthSince,
		).
		Where("is_unique = ?", true).
		Group("post_id").
		Scan(&stats).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

// UpsertViewStats 按 post_id 覆盖写入汇总结果
func (s *postViewRepoImpl) UpsertViewStats(ctx context.Context, stats []*model.PostViewStat) error {
	if len(stats) == 0 {
		return nil
	}
	return s.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "post_id"}},
			DoUpdates: clause.AssignmentColumns([]string{"daily_views", "weekly_views", "monthly_views", "total_views", "refreshed_at"}),
		}).
		CreateInBatches(stats, 200).Error
}
