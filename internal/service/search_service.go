package service

import (
	"Atelier/internal/api/dto"
	"Atelier/internal/model"
	"Atelier/internal/pkg/es"
	"Atelier/internal/pkg/kana"
	"Atelier/internal/pkg/util"
	"Atelier/internal/pkg/zhconv"
	"Atelier/internal/repository"
	"context"
	"errors"
	log "log/slog"
	"time"
)

// searchCandidateLimit 数据库回源时扫描的最近帖子数
const searchCandidateLimit = 500

type SearchService interface {
	NormalizeQuery(text string) []string
	TextMatches(haystack, needle string) bool
	SearchTags(ctx context.Context, query string, limit int) ([]*dto.TagDTO, error)
	SearchPosts(ctx context.Context, query string, category model.Category, limit int) ([]*dto.PostBriefDTO, error)
}

type searchServiceImpl struct {
	postRepo   repository.PostRepo
	tagRepo    repository.TagRepo
	postESRepo es.PostRepo
}

func NewSearchService(postRepo repository.PostRepo, tagRepo repository.TagRepo, postESRepo es.PostRepo) SearchService {
	return &searchServiceImpl{
		postRepo:   postRepo,
		tagRepo:    tagRepo,
		postESRepo: postESRepo,
	}
}

// NormalizeQuery 原词在前，其后为平假名/片假名互转的变体；空查询返回空切片
func (s *searchServiceImpl) NormalizeQuery(text string) []string {
	variants := kana.ExpandQueryVariants(text)
	if variants == nil {
		return []string{}
	}
	return variants
}

func (s *searchServiceImpl) TextMatches(haystack, needle string) bool {
	return kana.Matches(haystack, needle)
}

// searchTerms 检索用的全部关键词：假名变体之后追加简繁变体
func (s *searchServiceImpl) searchTerms(query string) []string {
	terms := s.NormalizeQuery(query)
	if len(terms) == 0 {
		return terms
	}
	return util.UniqueStrings(append(terms, zhconv.Variants(terms[0])...))
}

// matchesAny kana.Matches 已覆盖假名差异，这里只需逐个比对简繁写法
func matchesAny(text string, terms []string) bool {
	for _, term := range terms {
		if kana.Matches(text, term) {
			return true
		}
	}
	return false
}

// SearchTags 先用各关键词做 LIKE 粗筛，再用 kana.Matches 精确过滤
func (s *searchServiceImpl) SearchTags(ctx context.Context, query string, limit int) ([]*dto.TagDTO, error) {
	terms := s.searchTerms(query)
	if len(terms) == 0 {
		return []*dto.TagDTO{}, nil
	}

	tags, err := s.tagRepo.FindTagsByKeywords(ctx, terms, limit)
	if err != nil {
		return nil, err
	}

	res := make([]*dto.TagDTO, 0, len(tags))
	for _, t := range tags {
		if matchesAny(t.Name, terms) {
			res = append(res, &dto.TagDTO{ID: t.ID, Name: t.Name})
		}
	}
	return res, nil
}

// SearchPosts 优先走 ES，ES 不可用或出错时回源数据库
func (s *searchServiceImpl) SearchPosts(ctx context.Context, query string, category model.Category, limit int) ([]*dto.PostBriefDTO, error) {
	if category != "" && !category.Valid() {
		return nil, ErrCategoryInvalid
	}
	terms := s.searchTerms(query)
	if len(terms) == 0 {
		return []*dto.PostBriefDTO{}, nil
	}

	posts, err := s.searchES(ctx, terms, category, limit)
	if err != nil {
		if !errors.Is(err, es.ErrNotConfigured) {
			log.WarnContext(ctx, "es search failed, falling back to database", "query", query, "err", err)
		}
		posts, err = s.searchDB(ctx, terms, category, limit)
		if err != nil {
			return nil, err
		}
	}

	res := make([]*dto.PostBriefDTO, 0, len(posts))
	for _, p := range posts {
		res = append(res, toPostBrief(p))
	}
	return res, nil
}

func (s *searchServiceImpl) searchES(ctx context.Context, variants []string, category model.Category, limit int) ([]*model.Post, error) {
	if s.postESRepo == nil {
		return nil, es.ErrNotConfigured
	}
	ids, err := s.postESRepo.SearchByKeywords(ctx, variants, string(category), limit)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return []*model.Post{}, nil
	}

	found, err := s.postRepo.GetPostByIds(ctx, ids)
	if err != nil {
		return nil, err
	}
	// 按 ES 相关度顺序返回，索引里残留的已删除帖子在这里被丢弃
	byID := make(map[uint64]*model.Post, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	posts := make([]*model.Post, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			posts = append(posts, p)
		}
	}
	return posts, nil
}

func (s *searchServiceImpl) searchDB(ctx context.Context, terms []string, category model.Category, limit int) ([]*model.Post, error) {
	candidates, err := s.postRepo.SearchPosts(ctx, category, searchCandidateLimit)
	if err != nil {
		return nil, err
	}
	posts := make([]*model.Post, 0)
	for _, p := range candidates {
		if !postMatches(p, terms) {
			continue
		}
		posts = append(posts, p)
		if limit > 0 && len(posts) >= limit {
			break
		}
	}
	return posts, nil
}

func postMatches(p *model.Post, terms []string) bool {
	if matchesAny(p.Title, terms) {
		return true
	}
	for _, t := range p.Tags {
		if matchesAny(t.Name, terms) {
			return true
		}
	}
	return false
}

func toPostBrief(p *model.Post) *dto.PostBriefDTO {
	return &dto.PostBriefDTO{
		ID:        p.ID,
		UserID:    p.UserID,
		Category:  string(p.Category),
		Title:     p.Title,
		Tags:      p.TagNames(),
		CreatedAt: p.CreatedAt.UTC().Format(time.RFC3339),
	}
}
