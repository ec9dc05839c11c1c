package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// SysBoxCollection 通知箱集合名
const SysBoxCollection = "sys_box"

// SysBoxModel 系统通知
type SysBoxModel struct {
	ID         primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	ReceiverID uint64             `bson:"receiver_id" json:"receiverId"` // 通知接收者，即帖子作者
	SenderID   uint64             `bson:"sender_id" json:"senderId"`     // 点赞者
	Type       int8               `bson:"type" json:"type"`              // 1-帖子点赞
	TargetID   uint64             `bson:"target_id" json:"targetId"`     // 帖子ID
	Content    string             `bson:"content" json:"content"`
	Payload    map[string]any     `bson:"payload" json:"payload"`
	IsRead     bool               `bson:"is_read" json:"isRead"`
	CreatedAt  time.Time          `bson:"created_at" json:"createdAt"`
}
