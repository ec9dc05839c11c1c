package service

import (
	"Atelier/internal/pkg/mongo"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongoDB "go.mongodb.org/mongo-driver/mongo"
)

func TestSysBoxService_GetNotificationList(t *testing.T) {
	id := primitive.NewObjectID()
	repo := &sysBoxRepoStub{listFn: func(_ context.Context, userID uint64, limit, offset int64) ([]*mongo.SysBoxModel, error) {
		assert.Equal(t, uint64(50), userID)
		assert.Equal(t, int64(20), limit)
		assert.Equal(t, int64(20), offset)
		return []*mongo.SysBoxModel{{ID: id, ReceiverID: 50, SenderID: 7, Type: 1, TargetID: 1, CreatedAt: t0}}, nil
	}}

	list, err := NewSysBoxService(repo).GetNotificationList(context.Background(), 50, 2, 0)
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, id.Hex(), list[0].ID)
	assert.Equal(t, uint64(7), list[0].SenderID)
	assert.Equal(t, "2026-03-01T12:00:00Z", list[0].CreatedAt)
}

func TestSysBoxService_MarkRead(t *testing.T) {
	id := primitive.NewObjectID()
	marked := false
	repo := &sysBoxRepoStub{
		getFn: func(_ context.Context, got primitive.ObjectID) (*mongo.SysBoxModel, error) {
			if got != id {
				return nil, mongoDB.ErrNoDocuments
			}
			return &mongo.SysBoxModel{ID: id, ReceiverID: 50}, nil
		},
		markFn: func(context.Context, uint64, primitive.ObjectID) error {
			marked = true
			return nil
		},
	}
	svc := NewSysBoxService(repo)
	ctx := context.Background()

	assert.ErrorIs(t, svc.MarkRead(ctx, 50, "not-hex"), ErrParamInvalid)
	assert.ErrorIs(t, svc.MarkRead(ctx, 50, primitive.NewObjectID().Hex()), ErrSysBoxNotFound)
	assert.ErrorIs(t, svc.MarkRead(ctx, 51, id.Hex()), UnauthorizedError)
	assert.False(t, marked)

	require.NoError(t, svc.MarkRead(ctx, 50, id.Hex()))
	assert.True(t, marked)
}

func TestSysBoxService_GetUnreadCount(t *testing.T) {
	repo := &sysBoxRepoStub{unreadFn: func(context.Context, uint64) (int64, error) { return 3, nil }}

	res, err := NewSysBoxService(repo).GetUnreadCount(context.Background(), 50)
	require.NoError(t, err)
	assert.Equal(t, int64(3), res.UnreadCount)
}
