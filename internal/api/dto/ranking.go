package dto

// RankingReq 榜单查询参数
type RankingReq struct {
	Categories []string `form:"category"`
	Limit      int      `form:"limit" binding:"omitempty,min=1"`
	Tag        string   `form:"tag" binding:"omitempty,max=50"`
	Period     string   `form:"period" binding:"omitempty,oneof=daily weekly monthly total"`
}

// RankedPostDTO 榜单条目
type RankedPostDTO struct {
	PostID   uint64   `json:"post_id"`
	Category string   `json:"category"`
	Title    string   `json:"title"`
	Tags     []string `json:"tags"`
	Likes    int64    `json:"likes"`
	Views    int64    `json:"views"`
	Score    int64    `json:"score"`
	Rank     int      `json:"rank"`
}

// RankingDTO 榜单响应
type RankingDTO struct {
	Items []*RankedPostDTO `json:"items"`
	Total int              `json:"total"`
}
