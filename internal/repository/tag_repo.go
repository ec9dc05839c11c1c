package repository

import (
	"Atelier/internal/model"
	"Atelier/internal/pkg/util"
	"context"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type TagRepo interface {
	GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error)
	FindTagsByKeywords(ctx context.Context, keywords []string, limit int) ([]*model.Tag, error)
}

type tagRepoImpl struct {
	db *gorm.DB
}

func NewTagRepo(db *gorm.DB) TagRepo {
	return &tagRepoImpl{db: db}
}

func (s *tagRepoImpl) GetOrCreateTags(ctx context.Context, tagNames []string) ([]*model.Tag, error) {
	tagNames = util.UniqueStrings(tagNames)
	if len(tagNames) == 0 {
		return []*model.Tag{}, nil
	}
	tags := make([]*model.Tag, 0, len(tagNames))
	for _, name := range tagNames {
		tags = append(tags, &model.Tag{Name: name})
	}
	err := s.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "name"}}, DoNothing: true}).
		Create(&tags).Error
	if err != nil {
		return nil, err
	}

	var existing []*model.Tag
	if err = s.db.WithContext(ctx).Where("name IN ?", tagNames).Find(&existing).Error; err != nil {
		return nil, err
	}
	return existing, nil
}

// FindTagsByKeywords 任一关键词子串命中即返回，调用方负责跨假名的精确过滤
func (s *tagRepoImpl) FindTagsByKeywords(ctx context.Context, keywords []string, limit int) ([]*model.Tag, error) {
	var tags []*model.Tag
	if len(keywords) == 0 {
		return tags, nil
	}

	conds := make([]string, 0, len(keywords))
	args := make([]any, 0, len(keywords))
	for _, kw := range keywords {
		conds = append(conds, "name LIKE ?")
		args = append(args, "%"+escapeLike(kw)+"%")
	}

	query := s.db.WithContext(ctx).
		Where(strings.Join(conds, " OR "), args...).
		Order("name ASC")
	if limit > 0 {
		query = query.Limit(limit)
	}
	if err := query.Find(&tags).Error; err != nil {
		return nil, err
	}
	return tags, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
