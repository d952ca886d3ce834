package repositories

import (
	"context"
	"fmt"

	"github.com/upkook/cx-metrics/internal/domain/entities"
	"gorm.io/gorm"
)

type DefaultOptionRepository struct {
	db *gorm.DB
}

func NewDefaultOptionRepository(db *gorm.DB) *DefaultOptionRepository {
	return &DefaultOptionRepository{db: db}
}

// ListActive returns the active default options of an industry for a survey type
func (r *DefaultOptionRepository) ListActive(ctx context.Context, industryID uint, surveyType string) ([]entities.DefaultOption, error) {
	var options []entities.DefaultOption
	err := r.db.WithContext(ctx).
		Where("industry_id = ? AND survey_type = ? AND is_active = ?", industryID, surveyType, true).
		Order("question_type ASC").
		Order("sort_order ASC").
		Find(&options).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching default options: %w", err)
	}
	return options, nil
}

func (r *DefaultOptionRepository) Create(ctx context.Context, options []entities.DefaultOption) error {
	if len(options) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&options).Error
}
