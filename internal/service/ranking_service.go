package service

import (
	"Atelier/internal/model"
	"Atelier/internal/repository"
	"context"
	"fmt"
	log "log/slog"
)

// RankOptions Limit <= 0 不截断；Tag 为空不过滤；Period 为空按累计浏览量
type RankOptions struct {
	Limit  int
	Tag    string
	Period Period
}

type RankingService interface {
	RankByCategory(ctx context.Context, category model.Category, limit int) ([]*RankedEntry, error)
	RankMerged(ctx context.Context, categories []model.Category, limit int) ([]*RankedEntry, error)
	Rank(ctx context.Context, categories []model.Category, opts RankOptions) ([]*RankedEntry, error)
}

type rankingServiceImpl struct {
	postRepo       repository.PostRepo
	counterService CounterService
}

func NewRankingService(postRepo repository.PostRepo, counterService CounterService) RankingService {
	return &rankingServiceImpl{
		postRepo:       postRepo,
		counterService: counterService,
	}
}

// RankByCategory 单分区榜单，名次在截断前按全量计算
func (s *rankingServiceImpl) RankByCategory(ctx context.Context, category model.Category, limit int) ([]*RankedEntry, error) {
	entries, err := s.rankCategory(ctx, category, PeriodTotal)
	if err != nil {
		return []*RankedEntry{}, err
	}
	return TopK(entries, limit), nil
}

// RankMerged 各分区分别计分后合并，再统一排序并重新赋予名次
func (s *rankingServiceImpl) RankMerged(ctx context.Context, categories []model.Category, limit int) ([]*RankedEntry, error) {
	merged, err := s.rankMerged(ctx, categories, PeriodTotal)
	if err != nil {
		return []*RankedEntry{}, err
	}
	return TopK(merged, limit), nil
}

// Rank 对外入口：校验分区，标签过滤沿用全量名次，最后截断
func (s *rankingServiceImpl) Rank(ctx context.Context, categories []model.Category, opts RankOptions) ([]*RankedEntry, error) {
	categories, err := normalizeCategories(categories)
	if err != nil {
		return []*RankedEntry{}, err
	}

	var entries []*RankedEntry
	if len(categories) == 1 {
		entries, err = s.rankCategory(ctx, categories[0], opts.Period)
	} else {
		entries, err = s.rankMerged(ctx, categories, opts.Period)
	}
	if err != nil {
		return []*RankedEntry{}, err
	}

	return TopK(FilterByTag(entries, opts.Tag), opts.Limit), nil
}

// FilterByTag 按标签精确过滤，保留原名次，tag 为空时原样返回
func FilterByTag(entries []*RankedEntry, tag string) []*RankedEntry {
	if tag == "" {
		return entries
	}
	filtered := make([]*RankedEntry, 0, len(entries))
	for _, e := range entries {
		for _, t := range e.Tags {
			if t == tag {
				filtered = append(filtered, e)
				break
			}
		}
	}
	return filtered
}

func (s *rankingServiceImpl) rankMerged(ctx context.Context, categories []model.Category, period Period) ([]*RankedEntry, error) {
	var merged []*RankedEntry
	for _, c := range categories {
		entries, err := s.rankCategory(ctx, c, period)
		if err != nil {
			return nil, err
		}
		merged = append(merged, entries...)
	}
	if merged == nil {
		merged = []*RankedEntry{}
	}
	return RankEntries(merged), nil
}

// rankCategory 拉取分区全部帖子并计分排序，不截断
func (s *rankingServiceImpl) rankCategory(ctx context.Context, category model.Category, period Period) ([]*RankedEntry, error) {
	posts, err := s.postRepo.GetPostsByCategory(ctx, category)
	if err != nil {
		log.ErrorContext(ctx, "ranking candidate fetch failed", "category", category, "err", err)
		return nil, fmt.Errorf("%w: %w", ErrRankingFetch, err)
	}

	ids := make([]uint64, len(posts))
	for i, p := range posts {
		ids[i] = p.ID
	}

	// 计数失败时按 0 处理，榜单退化为发布顺序
	likes, err := s.counterService.BulkLikeCounts(ctx, ids)
	if err != nil {
		log.WarnContext(ctx, "ranking like counts degraded", "category", category, "err", err)
	}
	views, err := s.counterService.BulkViewCounts(ctx, ids, period)
	if err != nil {
		log.WarnContext(ctx, "ranking view counts degraded", "category", category, "err", err)
	}

	entries := make([]*RankedEntry, len(posts))
	for i, p := range posts {
		entries[i] = &RankedEntry{
			PostID:   p.ID,
			Category: p.Category,
			Title:    p.Title,
			Tags:     p.TagNames(),
			Likes:    likes[p.ID],
			Views:    views[p.ID],
		}
	}
	return RankEntries(entries), nil
}

// normalizeCategories 去重并校验，空列表表示全部分区
func normalizeCategories(categories []model.Category) ([]model.Category, error) {
	if len(categories) == 0 {
		return model.Categories, nil
	}
	seen := make(map[model.Category]struct{}, len(categories))
	out := make([]model.Category, 0, len(categories))
	for _, c := range categories {
		if !c.Valid() {
			return nil, ErrCategoryInvalid
		}
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		out = append(out, c)
	}
	return out, nil
}
