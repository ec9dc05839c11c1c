package service

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/redis"
	"Atelier/internal/repository"
	"context"
	"errors"
	"fmt"
	log "log/slog"
	"strconv"
	"strings"
	"time"
)

// Period 浏览量统计周期
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodTotal   Period = "total"
)

// ParsePeriod 未知或为空时返回 PeriodTotal
func ParsePeriod(s string) Period {
	switch p := Period(strings.ToLower(strings.TrimSpace(s))); p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly:
		return p
	default:
		return PeriodTotal
	}
}

// 计数变更后写入占位值而不是直接删除：占位期间读路径只能 SETNX 回填，
// 变更前读出的旧值无法覆盖回去。
const (
	counterTombstone    = "-"
	counterTombstoneTTL = 5 * time.Second
)

// Counters 一批帖子的点赞与浏览计数，key 集合与请求的 id 集合一致
type Counters struct {
	Likes map[uint64]int64 `json:"likes"`
	Views map[uint64]int64 `json:"views"`
}

type CounterService interface {
	BulkLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error)
	BulkViewCounts(ctx context.Context, postIDs []uint64, period Period) (map[uint64]int64, error)
	GetCounters(ctx context.Context, postIDs []uint64, period Period) (*Counters, error)
	RefreshViewStats(ctx context.Context) (int, error)
	EvictPost(ctx context.Context, postID uint64) error
}

type counterServiceImpl struct {
	likeRepo repository.PostLikeRepo
	viewRepo repository.PostViewRepo
	cacheTTL time.Duration
	now      func() time.Time
}

// NewCounterService cacheTTL <= 0 时不使用 Redis 缓存
func NewCounterService(likeRepo repository.PostLikeRepo, viewRepo repository.PostViewRepo, cacheTTL time.Duration) CounterService {
	return &counterServiceImpl{
		likeRepo: likeRepo,
		viewRepo: viewRepo,
		cacheTTL: cacheTTL,
		now:      time.Now,
	}
}

// BulkLikeCounts 批量获取点赞数。
// 空输入直接返回空 map；查询失败时所有 id 计 0 并返回错误。
func (s *counterServiceImpl) BulkLikeCounts(ctx context.Context, postIDs []uint64) (map[uint64]int64, error) {
	return s.bulkCount(ctx, "like", postIDs, likeCountKey, s.likeRepo.CountLikesByPostIDs)
}

// BulkViewCounts 批量获取浏览数。total 实时统计，其余周期读预聚合表。
func (s *counterServiceImpl) BulkViewCounts(ctx context.Context, postIDs []uint64, period Period) (map[uint64]int64, error) {
	period = ParsePeriod(string(period))
	if period == PeriodTotal {
		return s.bulkCount(ctx, "view", postIDs, viewCountKey(period), s.viewRepo.CountUniqueViewsByPostIDs)
	}
	return s.bulkCount(ctx, "view", postIDs, viewCountKey(period), func(ctx context.Context, ids []uint64) (map[uint64]int64, error) {
		stats, err := s.viewRepo.GetViewStatsByPostIDs(ctx, ids)
		if err != nil {
			return nil, err
		}
		counts := make(map[uint64]int64, len(stats))
		for _, st := range stats {
			counts[st.PostID] = periodViews(st, period)
		}
		return counts, nil
	})
}

func (s *counterServiceImpl) GetCounters(ctx context.Context, postIDs []uint64, period Period) (*Counters, error) {
	likes, likeErr := s.BulkLikeCounts(ctx, postIDs)
	views, viewErr := s.BulkViewCounts(ctx, postIDs, period)
	return &Counters{Likes: likes, Views: views}, errors.Join(likeErr, viewErr)
}

// RefreshViewStats 重新汇总日/周/月/累计浏览量，返回写入的行数
func (s *counterServiceImpl) RefreshViewStats(ctx context.Context) (int, error) {
	now := s.now()
	stats, err := s.viewRepo.AggregateViewStats(ctx,
		now.Add(-24*time.Hour),
		now.AddDate(0, 0, -7),
		now.AddDate(0, 0, -30),
	)
	if err != nil {
		return 0, fmt.Errorf("aggregate view stats: %w", err)
	}
	for _, st := range stats {
		st.RefreshedAt = now
	}
	if err = s.viewRepo.UpsertViewStats(ctx, stats); err != nil {
		return 0, fmt.Errorf("upsert view stats: %w", err)
	}
	return len(stats), nil
}

// EvictPost 帖子删除后作废它的全部计数缓存，Redis 未启用时直接返回
func (s *counterServiceImpl) EvictPost(ctx context.Context, postID uint64) error {
	err := invalidateCounters(ctx, counterKeys(postID)...)
	if errors.Is(err, redis.ErrClientNotReady) {
		return nil
	}
	return err
}

// bulkCount 先读缓存，未命中的 id 合并为一次查询，再回填缓存
func (s *counterServiceImpl) bulkCount(
	ctx context.Context,
	kind string,
	postIDs []uint64,
	keyOf func(uint64) string,
	load func(context.Context, []uint64) (map[uint64]int64, error),
) (map[uint64]int64, error) {
	counts := make(map[uint64]int64, len(postIDs))
	if len(postIDs) == 0 {
		return counts, nil
	}
	for _, id := range postIDs {
		counts[id] = 0
	}

	misses := s.readCache(ctx, counts, keyOf)
	if len(misses) == 0 {
		return counts, nil
	}

	loaded, err := load(ctx, misses)
	if err != nil {
		log.ErrorContext(ctx, "bulk count query failed, falling back to zero",
			"kind", kind, "post_count", len(counts), "err", err)
		for id := range counts {
			counts[id] = 0
		}
		return counts, fmt.Errorf("%w: %w", ErrCounterFetch, err)
	}

	fill := make(map[string]interface{}, len(misses))
	for _, id := range misses {
		counts[id] = loaded[id]
		fill[keyOf(id)] = loaded[id]
	}
	s.writeCache(ctx, fill)
	return counts, nil
}

// readCache 命中的值写入 counts，返回未命中的 id
func (s *counterServiceImpl) readCache(ctx context.Context, counts map[uint64]int64, keyOf func(uint64) string) []uint64 {
	ids := make([]uint64, 0, len(counts))
	for id := range counts {
		ids = append(ids, id)
	}
	if s.cacheTTL <= 0 {
		return ids
	}

	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = keyOf(id)
	}
	values, err := redis.MGetValue(ctx, keys...)
	if err != nil {
		if !errors.Is(err, redis.ErrClientNotReady) {
			log.WarnContext(ctx, "counter cache read failed", "err", err)
		}
		return ids
	}

	misses := make([]uint64, 0, len(ids))
	for i, id := range ids {
		str, ok := values[i].(string)
		if !ok {
			misses = append(misses, id)
			continue
		}
		n, err := strconv.ParseInt(str, 10, 64)
		if err != nil {
			misses = append(misses, id)
			continue
		}
		counts[id] = n
	}
	return misses
}

func (s *counterServiceImpl) writeCache(ctx context.Context, values map[string]interface{}) {
	if s.cacheTTL <= 0 {
		return
	}
	if err := redis.MSetNXWithExpiration(ctx, values, s.cacheTTL); err != nil && !errors.Is(err, redis.ErrClientNotReady) {
		log.WarnContext(ctx, "counter cache write failed", "err", err)
	}
}

// invalidateCounters 用占位值覆盖计数缓存键
func invalidateCounters(ctx context.Context, keys ...string) error {
	values := make(map[string]interface{}, len(keys))
	for _, k := range keys {
		values[k] = counterTombstone
	}
	return redis.MSetWithExpiration(ctx, values, counterTombstoneTTL)
}

func counterKeys(postID uint64) []string {
	keys := []string{likeCountKey(postID)}
	for _, p := range []Period{PeriodTotal, PeriodDaily, PeriodWeekly, PeriodMonthly} {
		keys = append(keys, viewCountKey(p)(postID))
	}
	return keys
}

func likeCountKey(postID uint64) string {
	return consts.PostLikeCountKey + strconv.FormatUint(postID, 10)
}

func viewCountKey(period Period) func(uint64) string {
	if period == PeriodTotal {
		return func(postID uint64) string {
			return consts.PostViewCountKey + strconv.FormatUint(postID, 10)
		}
	}
	prefix := consts.PostViewCountKey + string(period) + ":"
	return func(postID uint64) string {
		return prefix + strconv.FormatUint(postID, 10)
	}
}

func periodViews(st *model.PostViewStat, period Period) int64 {
	switch period {
	case PeriodDaily:
		return st.DailyViews
	case PeriodWeekly:
		return st.WeeklyViews
	case PeriodMonthly:
		return st.MonthlyViews
	default:
		return st.TotalViews
	}
}
