package model

import (
	"time"
)

// PostView 浏览记录。UserID、IPAddress、ClientSignature 均可为空；
// 只有 IsUnique 为 true 的记录计入浏览量。
type PostView struct {
	ID              uint64    `gorm:"primaryKey" json:"id"`
	PostID          uint64    `gorm:"not null;index:idx_post_viewed,priority:1" json:"postId"`
	UserID          *uint64   `gorm:"index:idx_views_user_id" json:"userId"`
	IPAddress       *string   `gorm:"type:varchar(45)" json:"ipAddress"`
	ClientSignature *string   `gorm:"type:varchar(255)" json:"clientSignature"`
	IsUnique        bool      `gorm:"type:tinyint(1);not null" json:"isUnique"`
	ViewedAt        time.Time `gorm:"not null;index:idx_post_viewed,priority:2" json:"viewedAt"`
}

func (PostView) TableName() string {
	return "post_views"
}
