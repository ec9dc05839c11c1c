package kafka

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/es"
	"Atelier/internal/repository"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type esPostRepoStub struct {
	indexed map[uint64]*es.PostES
	deleted []uint64
	err     error
}

var _ es.PostRepo = (*esPostRepoStub)(nil)

func newESStub() *esPostRepoStub {
	return &esPostRepoStub{indexed: map[uint64]*es.PostES{}}
}

func (s *esPostRepoStub) SearchByKeywords(context.Context, []string, string, int) ([]uint64, error) {
	return nil, nil
}

func (s *esPostRepoStub) IndexPost(_ context.Context, post *es.PostES) error {
	if s.err != nil {
		return s.err
	}
	s.indexed[post.ID] = post
	return nil
}

func (s *esPostRepoStub) DeletePost(_ context.Context, id uint64) error {
	if s.err != nil {
		return s.err
	}
	delete(s.indexed, id)
	s.deleted = append(s.deleted, id)
	return nil
}

type counterEvicterStub struct {
	evicted []uint64
	err     error
}

func (s *counterEvicterStub) EvictPost(_ context.Context, postID uint64) error {
	if s.err != nil {
		return s.err
	}
	s.evicted = append(s.evicted, postID)
	return nil
}

func setupSyncDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })
	require.NoError(t, db.AutoMigrate(&model.Tag{}, &model.Post{}))
	return db
}

func newSyncHandler(t *testing.T, esRepo es.PostRepo) (*PostSyncHandler, repository.PostRepo) {
	h, postRepo, _ := newSyncHandlerWithCounters(t, esRepo)
	return h, postRepo
}

func newSyncHandlerWithCounters(t *testing.T, esRepo es.PostRepo) (*PostSyncHandler, repository.PostRepo, *counterEvicterStub) {
	db := setupSyncDB(t)
	postRepo := repository.NewPostRepo(db)
	counters := &counterEvicterStub{}
	return NewPostSyncHandler(postRepo, repository.NewTagRepo(db), esRepo, counters), postRepo, counters
}

const upsertEvent = `{"op":"upsert","post_id":42,"user_id":9,"category":"artwork","title":"水彩习作",` +
	`"tags":["ネコ","風景","ネコ"],"created_at":1767225600000}`

func TestPostSyncHandler_Upsert(t *testing.T) {
	esRepo := newESStub()
	h, postRepo := newSyncHandler(t, esRepo)
	ctx := context.Background()

	require.NoError(t, h.logic(ctx, message(0, upsertEvent)))

	post, err := postRepo.GetPost(ctx, 42)
	require.NoError(t, err)
	require.NotNil(t, post)
	assert.Equal(t, "水彩习作", post.Title)
	assert.Equal(t, model.CategoryArtwork, post.Category)
	assert.ElementsMatch(t, []string{"ネコ", "風景"}, post.TagNames())

	doc := esRepo.indexed[42]
	require.NotNil(t, doc)
	assert.Equal(t, "artwork", doc.Category)
	assert.ElementsMatch(t, []string{"ネコ", "風景"}, doc.Tags)
	assert.False(t, doc.IsDeleted)
}

func TestPostSyncHandler_DeleteIsFinal(t *testing.T) {
	esRepo := newESStub()
	h, postRepo := newSyncHandler(t, esRepo)
	ctx := context.Background()

	require.NoError(t, h.logic(ctx, message(0, upsertEvent)))
	require.NoError(t, h.logic(ctx, message(1, `{"op":"delete","post_id":42}`)))

	post, err := postRepo.GetPost(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.NotContains(t, esRepo.indexed, uint64(42))

	// 迟到的更新事件
	require.NoError(t, h.logic(ctx, message(2, upsertEvent)))
	post, err = postRepo.GetPost(ctx, 42)
	require.NoError(t, err)
	assert.Nil(t, post)
	assert.NotContains(t, esRepo.indexed, uint64(42))
	assert.Equal(t, []uint64{42, 42}, esRepo.deleted)
}

func TestPostSyncHandler_DeleteEvictsCounters(t *testing.T) {
	h, _, counters := newSyncHandlerWithCounters(t, newESStub())
	ctx := context.Background()

	require.NoError(t, h.logic(ctx, message(0, upsertEvent)))
	assert.Empty(t, counters.evicted)

	require.NoError(t, h.logic(ctx, message(1, `{"op":"delete","post_id":42}`)))
	assert.Equal(t, []uint64{42}, counters.evicted)

	counters.err = errors.New("redis timeout")
	err := h.logic(ctx, message(2, `{"op":"delete","post_id":42}`))
	assert.ErrorContains(t, err, "redis timeout")
}

func TestPostSyncHandler_DropsUnusableMessages(t *testing.T) {
	cases := map[string]string{
		"malformed json":   `{"op":`,
		"unknown op":       `{"op":"merge","post_id":42}`,
		"missing post id":  `{"op":"delete"}`,
		"missing author":   `{"op":"upsert","post_id":42,"category":"artwork"}`,
		"unknown category": `{"op":"upsert","post_id":42,"user_id":9,"category":"music"}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			esRepo := newESStub()
			h, postRepo := newSyncHandler(t, esRepo)

			assert.NoError(t, h.logic(context.Background(), message(0, body)))

			post, err := postRepo.GetPost(context.Background(), 42)
			require.NoError(t, err)
			assert.Nil(t, post)
			assert.Empty(t, esRepo.indexed)
		})
	}
}

func TestPostSyncHandler_WithoutElastic(t *testing.T) {
	h, postRepo := newSyncHandler(t, es.NewPostRepo(nil))
	ctx := context.Background()

	require.NoError(t, h.logic(ctx, message(0, upsertEvent)))
	post, err := postRepo.GetPost(ctx, 42)
	require.NoError(t, err)
	assert.NotNil(t, post)

	assert.NoError(t, h.logic(ctx, message(1, `{"op":"delete","post_id":42}`)))
}

func TestPostSyncHandler_IndexFailureIsRetried(t *testing.T) {
	esRepo := newESStub()
	esRepo.err = errors.New("cluster unavailable")
	h, _ := newSyncHandler(t, esRepo)

	err := h.logic(context.Background(), message(0, upsertEvent))
	assert.EqualError(t, err, "cluster unavailable")
}
