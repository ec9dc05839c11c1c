package repository

import (
	"Atelier/internal/model"
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// baseTime 统一使用 UTC 整秒，sqlite 以字符串比较时间
var baseTime = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger:  logger.Default.LogMode(logger.Silent),
		NowFunc: func() time.Time { return baseTime },
	})
	require.NoError(t, err)
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, db.AutoMigrate(
		&model.Tag{}, &model.Post{}, &model.Like{}, &model.PostView{}, &model.PostViewStat{},
	))
	return db
}

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	db, err := gorm.Open(mysql.New(mysql.Config{Conn: sqlDB, SkipInitializeWithVersion: true}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func seedTags(t *testing.T, db *gorm.DB, names ...string) map[string]model.Tag {
	t.Helper()
	tags := make(map[string]model.Tag, len(names))
	for _, n := range names {
		tag := model.Tag{Name: n}
		require.NoError(t, db.Create(&tag).Error)
		tags[n] = tag
	}
	return tags
}

func seedPost(t *testing.T, db *gorm.DB, id uint64, category model.Category, createdAt time.Time, tags ...model.Tag) *model.Post {
	t.Helper()
	post := &model.Post{
		ID:        id,
		UserID:    100 + id,
		Category:  category,
		Title:     "post",
		CreatedAt: createdAt,
		UpdatedAt: createdAt,
		Tags:      tags,
	}
	require.NoError(t, db.Create(post).Error)
	return post
}

func seedLikes(t *testing.T, db *gorm.DB, postID uint64, users ...uint64) {
	t.Helper()
	for _, u := range users {
		require.NoError(t, db.Create(&model.Like{UserID: u, PostID: postID, CreatedAt: baseTime}).Error)
	}
}

func seedView(t *testing.T, db *gorm.DB, postID uint64, unique bool, at time.Time) {
	t.Helper()
	require.NoError(t, db.Create(&model.PostView{PostID: postID, IsUnique: unique, ViewedAt: at}).Error)
}

func ptr[T any](v T) *T { return &v }

var ctx = context.Background()
