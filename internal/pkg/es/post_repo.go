package es

import (
	"context"
	"errors"
	"strconv"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/typedapi/types"
	"github.com/goccy/go-json"
)

// searchFields title 权重最高，其次是标签
var searchFields = []string{"title^3", "tags^2", "content"}

type PostRepo interface {
	SearchByKeywords(ctx context.Context, keywords []string, category string, size int) ([]uint64, error)
	IndexPost(ctx context.Context, post *PostES) error
	DeletePost(ctx context.Context, id uint64) error
}

type postRepoImpl struct {
	client *elasticsearch.TypedClient
}

func NewPostRepo(client *elasticsearch.TypedClient) PostRepo {
	return &postRepoImpl{client: client}
}

// SearchByKeywords 每个关键词一个 multi_match，命中任意一个即可，返回按相关度排序的帖子 ID
func (s *postRepoImpl) SearchByKeywords(ctx context.Context, keywords []string, category string, size int) ([]uint64, error) {
	if s.client == nil {
		return nil, ErrNotConfigured
	}
	if len(keywords) == 0 {
		return []uint64{}, nil
	}

	should := make([]types.Query, 0, len(keywords))
	for _, kw := range keywords {
		should = append(should, types.Query{
			MultiMatch: &types.MultiMatchQuery{
				Query:  kw,
				Fields: searchFields,
			},
		})
	}

	filter := []types.Query{
		{Term: map[string]types.TermQuery{"is_deleted": {Value: false}}},
	}
	if category != "" {
		filter = append(filter, types.Query{
			Term: map[string]types.TermQuery{"category": {Value: category}},
		})
	}

	resp, err := s.client.Search().
		Index(PostIndex).
		Query(&types.Query{
			Bool: &types.BoolQuery{
				Must:   []types.Query{{Bool: &types.BoolQuery{Should: should}}},
				Filter: filter,
			},
		}).
		Size(size).
		Do(ctx)
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(resp.Hits.Hits))
	for _, hit := range resp.Hits.Hits {
		if hit.Source_ == nil {
			continue
		}
		var doc PostES
		if err = json.Unmarshal(hit.Source_, &doc); err != nil {
			continue
		}
		ids = append(ids, doc.ID)
	}
	return ids, nil
}

func (s *postRepoImpl) IndexPost(ctx context.Context, post *PostES) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	_, err := s.client.Index(PostIndex).
		Id(strconv.FormatUint(post.ID, 10)).
		Document(post).
		Do(ctx)
	return err
}

// DeletePost 文档不存在视为成功
func (s *postRepoImpl) DeletePost(ctx context.Context, id uint64) error {
	if s.client == nil {
		return ErrNotConfigured
	}
	_, err := s.client.Delete(PostIndex, strconv.FormatUint(id, 10)).Do(ctx)
	if err != nil {
		var e *types.ElasticsearchError
		if errors.As(err, &e) && e.Status == NotFoundCode {
			return nil
		}
		return err
	}
	return nil
}
