package es

import "time"

// PostES 帖子索引文档，只保存检索需要的字段
type PostES struct {
	ID        uint64    `json:"id"`
	UserID    uint64    `json:"user_id"`
	Category  string    `json:"category"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Tags      []string  `json:"tags"`
	IsDeleted bool      `json:"is_deleted"`
	CreatedAt time.Time `json:"created_at"`
}
