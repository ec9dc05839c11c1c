package dto

// PostEvent 发布侧投递的帖子变更事件，delete 只需要 post_id
type PostEvent struct {
	Op        string   `json:"op" validate:"required,oneof=upsert delete"`
	PostID    uint64   `json:"post_id" validate:"required"`
	UserID    uint64   `json:"user_id" validate:"required_if=Op upsert"`
	Category  string   `json:"category" validate:"required_if=Op upsert"`
	Title     string   `json:"title" validate:"max=255"`
	Content   string   `json:"content"`
	Tags      []string `json:"tags" validate:"max=20,dive,max=50"`
	CreatedAt int64    `json:"created_at"` // unix 毫秒
}
