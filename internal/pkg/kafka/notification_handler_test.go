package kafka

import (
	"Atelier/internal/pkg/consts"
	"Atelier/internal/pkg/mongo"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type sysBoxRepoStub struct {
	created []*mongo.SysBoxModel
	err     error
}

var _ mongo.SysBoxRepo = (*sysBoxRepoStub)(nil)

func (s *sysBoxRepoStub) CreateNotification(_ context.Context, msg *mongo.SysBoxModel) error {
	if s.err != nil {
		return s.err
	}
	s.created = append(s.created, msg)
	return nil
}

func (s *sysBoxRepoStub) GetNotificationList(context.Context, uint64, int64, int64) ([]*mongo.SysBoxModel, error) {
	return nil, nil
}

func (s *sysBoxRepoStub) MarkAsRead(context.Context, uint64, primitive.ObjectID) error { return nil }
func (s *sysBoxRepoStub) MarkAllAsRead(context.Context, uint64) error                  { return nil }
func (s *sysBoxRepoStub) GetUnreadCount(context.Context, uint64) (int64, error)        { return 0, nil }

func (s *sysBoxRepoStub) GetByID(context.Context, primitive.ObjectID) (*mongo.SysBoxModel, error) {
	return nil, nil
}

func TestNotificationHandler_WritesInbox(t *testing.T) {
	repo := &sysBoxRepoStub{}
	h := NewNotificationHandler(repo)

	err := h.logic(context.Background(), message(0,
		`{"actor_id":7,"post_id":42,"author_id":9,"post_title":"水彩习作","created_at":1767225600000}`))
	require.NoError(t, err)

	require.Len(t, repo.created, 1)
	got := repo.created[0]
	assert.EqualValues(t, 9, got.ReceiverID)
	assert.EqualValues(t, 7, got.SenderID)
	assert.EqualValues(t, 42, got.TargetID)
	assert.EqualValues(t, consts.NotifyTypeLike, got.Type)
	assert.Equal(t, "水彩习作", got.Payload["post_title"])
	assert.False(t, got.IsRead)
	assert.True(t, got.CreatedAt.Equal(time.UnixMilli(1767225600000)))
}

func TestNotificationHandler_MissingTimestampUsesNow(t *testing.T) {
	repo := &sysBoxRepoStub{}
	h := NewNotificationHandler(repo)
	now := time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)
	h.now = func() time.Time { return now }

	require.NoError(t, h.logic(context.Background(), message(0, `{"actor_id":7,"post_id":42,"author_id":9}`)))
	require.Len(t, repo.created, 1)
	assert.Equal(t, now, repo.created[0].CreatedAt)
}

func TestNotificationHandler_DropsUnusableMessages(t *testing.T) {
	cases := map[string]string{
		"malformed json": `{"actor_id":`,
		"missing author": `{"actor_id":7,"post_id":42}`,
		"self like":      `{"actor_id":9,"post_id":42,"author_id":9}`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			repo := &sysBoxRepoStub{}
			err := NewNotificationHandler(repo).logic(context.Background(), message(0, body))

			assert.NoError(t, err, "dropped messages must still be committed")
			assert.Empty(t, repo.created)
		})
	}
}

func TestNotificationHandler_StoreFailureIsRetried(t *testing.T) {
	repo := &sysBoxRepoStub{err: errors.New("server selection timeout")}

	err := NewNotificationHandler(repo).logic(context.Background(), message(0, `{"actor_id":7,"post_id":42,"author_id":9}`))
	assert.EqualError(t, err, "server selection timeout")
}
