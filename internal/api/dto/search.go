package dto

// SearchReq 搜索参数
type SearchReq struct {
	Query    string `form:"q" binding:"max=100"`
	Category string `form:"category" binding:"omitempty,oneof=artwork article"`
	Limit    int    `form:"limit" binding:"omitempty,min=1,max=100"`
}

// QueryVariantsDTO 假名变体
type QueryVariantsDTO struct {
	Variants []string `json:"variants"`
}

// TagDTO 标签
type TagDTO struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// PostBriefDTO 搜索结果中的帖子摘要
type PostBriefDTO struct {
	ID        uint64   `json:"id"`
	UserID    uint64   `json:"user_id"`
	Category  string   `json:"category"`
	Title     string   `json:"title"`
	Tags      []string `json:"tags"`
	CreatedAt string   `json:"created_at"`
}
