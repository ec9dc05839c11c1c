package service

import (
	"Atelier/internal/model"
	"sort"
)

// 分数权重，属于产品约定，不开放配置
const (
	LikeWeight int64 = 5
	ViewWeight int64 = 1
)

// RankedEntry 榜单条目，每次请求重新计算，不落库
type RankedEntry struct {
	PostID   uint64         `json:"post_id"`
	Category model.Category `json:"category"`
	Title    string         `json:"title"`
	Tags     []string       `json:"tags"`
	Likes    int64          `json:"likes"`
	Views    int64          `json:"views"`
	Score    int64          `json:"score"`
	Rank     int            `json:"rank"`
}

// Score likes*5 + views
func Score(likes, views int64) int64 {
	return likes*LikeWeight + views*ViewWeight
}

// RankEntries 计算分数后按分数降序稳定排序，并赋予 1 开始的连续名次。
// 同分条目保持输入顺序，名次不并列。
func RankEntries(entries []*RankedEntry) []*RankedEntry {
	for _, e := range entries {
		e.Score = Score(e.Likes, e.Views)
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Score > entries[j].Score
	})
	for i, e := range entries {
		e.Rank = i + 1
	}
	return entries
}

// TopK 截取前 k 条，k <= 0 表示不截断。名次沿用全量计算的结果。
func TopK(entries []*RankedEntry, k int) []*RankedEntry {
	if k <= 0 || k >= len(entries) {
		return entries
	}
	return entries[:k]
}
