package model

import (
	"time"
)

// Category 作品分区
type Category string

const (
	CategoryArtwork Category = "artwork"
	CategoryArticle Category = "article"
)

// Categories 全部合法分区，顺序即合并榜单的默认顺序
var Categories = []Category{CategoryArtwork, CategoryArticle}

func (c Category) Valid() bool {
	for _, v := range Categories {
		if c == v {
			return true
		}
	}
	return false
}

type Post struct {
	ID        uint64    `gorm:"primaryKey" json:"id"`
	UserID    uint64    `gorm:"not null;index:idx_posts_user_id" json:"user_id"`
	Category  Category  `gorm:"type:varchar(20);not null;index:idx_category_created,priority:1" json:"category"`
	Title     string    `gorm:"type:varchar(255)" json:"title"`
	Content   string    `gorm:"type:text" json:"content"`
	IsDeleted bool      `gorm:"type:tinyint(1);not null;default:0" json:"is_deleted"`
	CreatedAt time.Time `gorm:"index:idx_category_created,priority:2" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	// 关联关系
	Tags []Tag `gorm:"many2many:post_tags;" json:"tags"`
}

func (Post) TableName() string {
	return "posts"
}

// TagNames 返回帖子的标签名
func (p *Post) TagNames() []string {
	names := make([]string, 0, len(p.Tags))
	for _, t := range p.Tags {
		names = append(names, t.Name)
	}
	return names
}

// HasTag 标签精确匹配
func (p *Post) HasTag(name string) bool {
	for _, t := range p.Tags {
		if t.Name == name {
			return true
		}
	}
	return false
}
