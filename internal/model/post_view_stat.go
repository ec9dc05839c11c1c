package model

import "time"

// PostViewStat 按时间窗口预聚合的去重浏览量，由定时任务刷新
type PostViewStat struct {
	PostID       uint64    `gorm:"primaryKey;autoIncrement:false" json:"postId"`
	DailyViews   int64     `gorm:"not null" json:"dailyViews"`
	WeeklyViews  int64     `gorm:"not null" json:"weeklyViews"`
	MonthlyViews int64     `gorm:"not null" json:"monthlyViews"`
	TotalViews   int64     `gorm:"not null" json:"totalViews"`
	RefreshedAt  time.Time `gorm:"not null" json:"refreshedAt"`
}

func (PostViewStat) TableName() string {
	return "post_view_stats"
}
