package dto

// ViewRecordDTO 浏览上报结果
type ViewRecordDTO struct {
	Accepted bool `json:"accepted"`
	IsUnique bool `json:"is_unique"`
}

// LikeStateDTO 点赞/取消点赞后的实时点赞数
type LikeStateDTO struct {
	LikeCount int64 `json:"like_count"`
	IsLiked   bool  `json:"is_liked"`
}

// CountersReq 批量获取计数请求
type CountersReq struct {
	PostIDs []uint64 `json:"post_ids" binding:"required,min=1,max=200"`
	Period  string   `json:"period" binding:"omitempty,oneof=daily weekly monthly total"`
}

// CountersDTO 批量计数响应，key 覆盖请求中的全部 id
type CountersDTO struct {
	Likes map[uint64]int64 `json:"likes"`
	Views map[uint64]int64 `json:"views"`
}

// LikeNotification 点赞通知消息体，经 Kafka 投递
type LikeNotification struct {
	ActorID   uint64 `json:"actor_id" validate:"required"`
	PostID    uint64 `json:"post_id" validate:"required"`
	AuthorID  uint64 `json:"author_id" validate:"required"`
	PostTitle string `json:"post_title"`
	CreatedAt int64  `json:"created_at"` // unix 毫秒
}
