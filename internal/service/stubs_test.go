package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/mongo"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisv9 "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Tag{}, &model.Post{}, &model.Like{}, &model.PostView{}, &model.PostViewStat{}))
	return db
}

// setupMiniredis 替换全局 Rdb，测试结束后还原；使用它的测试不能并行
func setupMiniredis(t *testing.T) *miniredis.Miniredis {
	t.Helper()
	mr, err := miniredis.Run()
	require.NoError(t, err)
	prev := redis.Rdb
	redis.Rdb = redisv9.NewClient(&redisv9.Options{Addr: mr.Addr()})
	t.Cleanup(func() {
		_ = redis.Rdb.Close()
		redis.Rdb = prev
		mr.Close()
	})
	return mr
}

type postRepoStub struct {
	getPostFn            func(ctx context.Context, id uint64) (*model.Post, error)
	getPostByIdsFn       func(ctx context.Context, ids []uint64) ([]*model.Post, error)
	getPostsByCategoryFn func(ctx context.Context, category model.Category) ([]*model.Post, error)
	searchPostsFn        func(ctx context.Context, category model.Category, limit int) ([]*model.Post, error)
}

var _ repository.PostRepo = (*postRepoStub)(nil)

func (s *postRepoStub) SavePost(context.Context, *model.Post) error { return nil }

func (s *postRepoStub) GetPost(ctx context.Context, id uint64) (*model.Post, error) {
	if s.getPostFn == nil {
		return nil, nil
	}
	return s.getPostFn(ctx, id)
}

func (s *postRepoStub) GetPostByIds(ctx context.Context, ids []uint64) ([]*model.Post, error) {
	if s.getPostByIdsFn == nil {
		return []*model.Post{}, nil
	}
	return s.getPostByIdsFn(ctx, ids)
}

func (s *postRepoStub) GetPostsByCategory(ctx context.Context, category model.Category) ([]*model.Post, error) {
	if s.getPostsByCategoryFn == nil {
		return []*model.Post{}, nil
	}
	return s.getPostsByCategoryFn(ctx, category)
}

func (s *postRepoStub) GetRecentPosts(ctx context.Context, category model.Category, _ int) ([]*model.Post, error) {
	return s.GetPostsByCategory(ctx, category)
}

func (s *postRepoStub) SearchPosts(ctx context.Context, category model.Category, limit int) ([]*model.Post, error) {
	if s.searchPostsFn == nil {
		return []*model.Post{}, nil
	}
	return s.searchPostsFn(ctx, category, limit)
}

func (s *postRepoStub) SoftDeletePost(context.Context, uint64) error { return nil }

type tagRepoStub struct {
	findFn func(ctx context.Context, keywords []string, limit int) ([]*model.Tag, error)
}

func (s *tagRepoStub) GetOrCreateTags(context.Context, []string) ([]*model.Tag, error) {
	return nil, nil
}

func (s *tagRepoStub) FindTagsByKeywords(ctx context.Context, keywords []string, limit int) ([]*model.Tag, error) {
	return s.findFn(ctx, keywords, limit)
}

type likeRepoStub struct {
	createFn  func(ctx context.Context, like *model.Like) error
	deleteFn  func(ctx context.Context, userID, postID uint64) (bool, error)
	countFn   func(ctx context.Context, postID uint64) (int64, error)
	bulkFn    func(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	bulkCalls int
}

var _ repository.PostLikeRepo = (*likeRepoStub)(nil)

func (s *likeRepoStub) CreateLike(ctx context.Context, like *model.Like) error {
	return s.createFn(ctx, like)
}

func (s *likeRepoStub) DeleteLike(ctx context.Context, userID, postID uint64) (bool, error) {
	return s.deleteFn(ctx, userID, postID)
}

func (s *likeRepoStub) CheckLikeExists(context.Context, uint64, uint64) (bool, error) {
	return false, nil
}

func (s *likeRepoStub) GetLikeCountByPostID(ctx context.Context, postID uint64) (int64, error) {
	return s.countFn(ctx, postID)
}

func (s *likeRepoStub) CountLikesByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	s.bulkCalls++
	return s.bulkFn(ctx, postIDs)
}

type viewRepoStub struct {
	createFn    func(ctx context.Context, view *model.PostView) error
	existsFn    func(ctx context.Context, postID uint64, match repository.ViewMatch, since time.Time) (bool, error)
	countFn     func(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	statsFn     func(ctx context.Context, postIDs []uint64) ([]*model.PostViewStat, error)
	aggregateFn func(ctx context.Context, day, week, month time.Time) ([]*model.PostViewStat, error)
	upsertFn    func(ctx context.Context, stats []*model.PostViewStat) error
}

var _ repository.PostViewRepo = (*viewRepoStub)(nil)

func (s *viewRepoStub) CreateView(ctx context.Context, view *model.PostView) error {
	return s.createFn(ctx, view)
}

func (s *viewRepoStub) ExistsViewSince(ctx context.Context, postID uint64, match repository.ViewMatch, since time.Time) (bool, error) {
	return s.existsFn(ctx, postID, match, since)
}

func (s *viewRepoStub) CountUniqueViewsByPostIDs(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.countFn(ctx, postIDs)
}

func (s *viewRepoStub) GetViewStatsByPostIDs(ctx context.Context, postIDs []uint64) ([]*model.PostViewStat, error) {
	return s.statsFn(ctx, postIDs)
}

func (s *viewRepoStub) AggregateViewStats(ctx context.Context, day, week, month time.Time) ([]*model.PostViewStat, error) {
	return s.aggregateFn(ctx, day, week, month)
}

func (s *viewRepoStub) UpsertViewStats(ctx context.Context, stats []*model.PostViewStat) error {
	return s.upsertFn(ctx, stats)
}

type counterServiceStub struct {
	likesFn func(ctx context.Context, ids []uint64) (map[uint64]int64, error)
	viewsFn func(ctx context.Context, ids []uint64, period Period) (map[uint64]int64, error)
}

func (s *counterServiceStub) BulkLikeCounts(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
	return s.likesFn(ctx, ids)
}

func (s *counterServiceStub) BulkViewCounts(ctx context.Context, ids []uint64, period Period) (map[uint64]int64, error) {
	return s.viewsFn(ctx, ids, period)
}

func (s *counterServiceStub) GetCounters(ctx context.Context, ids []uint64, period Period) (*Counters, error) {
	likes, _ := s.likesFn(ctx, ids)
	views, _ := s.viewsFn(ctx, ids, period)
	return &Counters{Likes: likes, Views: views}, nil
}

func (s *counterServiceStub) RefreshViewStats(context.Context) (int, error) { return 0, nil }
func (s *counterServiceStub) EvictPost(context.Context, uint64) error       { return nil }

type esPostRepoStub struct {
	searchFn func(ctx context.Context, keywords []string, category string, size int) ([]uint64, error)
}

var _ es.PostRepo = (*esPostRepoStub)(nil)

func (s *esPostRepoStub) SearchByKeywords(ctx context.Context, keywords []string, category string, size int) ([]uint64, error) {
	return s.searchFn(ctx, keywords, category, size)
}

func (s *esPostRepoStub) IndexPost(context.Context, *es.PostES) error { return nil }

func (s *esPostRepoStub) DeletePost(context.Context, uint64) error { return nil }

type notifierStub struct {
	sent []*dto.LikeNotification
	err  error
}

func (s *notifierStub) NotifyLike(_ context.Context, n *dto.LikeNotification) error {
	s.sent = append(s.sent, n)
	return s.err
}

type sysBoxRepoStub struct {
	listFn   func(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.SysBoxModel, error)
	getFn    func(ctx context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error)
	markFn   func(ctx context.Context, userID uint64, id primitive.ObjectID) error
	unreadFn func(ctx context.Context, userID uint64) (int64, error)
}

var _ mongo.SysBoxRepo = (*sysBoxRepoStub)(nil)

func (s *sysBoxRepoStub) CreateNotification(context.Context, *mongo.SysBoxModel) error { return nil }

func (s *sysBoxRepoStub) GetNotificationList(ctx context.Context, userID uint64, limit, offset int64) ([]*mongo.SysBoxModel, error) {
	return s.listFn(ctx, userID, limit, offset)
}

func (s *sysBoxRepoStub) MarkAsRead(ctx context.Context, userID uint64, id primitive.ObjectID) error {
	return s.markFn(ctx, userID, id)
}

func (s *sysBoxRepoStub) MarkAllAsRead(context.Context, uint64) error { return nil }

func (s *sysBoxRepoStub) GetUnreadCount(ctx context.Context, userID uint64) (int64, error) {
	return s.unreadFn(ctx, userID)
}

func (s *sysBoxRepoStub) GetByID(ctx context.Context, id primitive.ObjectID) (*mongo.SysBoxModel, error) {
	return s.getFn(ctx, id)
}

func post(id uint64, category model.Category, tags ...string) *model.Post {
	p := &model.Post{ID: id, UserID: 100 + id, Category: category, Title: "post", CreatedAt: t0}
	for _, name := range tags {
		p.Tags = append(p.Tags, model.Tag{Name: name})
	}
	return p
}

func countsFrom(m map[uint64]int64) func(context.Context, []uint64) (map[uint64]int64, error) {
	return func(_ context.Context, ids []uint64) (map[uint64]int64, error) {
		out := make(map[uint64]int64, len(ids))
		for _, id := range ids {
			out[id] = m[id]
		}
		return out, nil
	}
}
