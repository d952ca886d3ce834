package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"gorm.io/gorm"
)

// SurveyRepository reads identity records. Writes go through SurveyModelRepository.
type SurveyRepository struct {
	db *gorm.DB
}

func NewSurveyRepository(db *gorm.DB) *SurveyRepository {
	return &SurveyRepository{db: db}
}

func (r *SurveyRepository) FindByUUID(ctx context.Context, id uuid.UUID) (*entities.Survey, error) {
	return r.find(ctx, "uuid = ?", id)
}

func (r *SurveyRepository) find(ctx context.Context, query interface{}, args ...interface{}) (*entities.Survey, error) {
	var survey entities.Survey
	if err := r.db.WithContext(ctx).Where(query, args...).Take(&survey).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching survey: %w", err)
	}
	return &survey, nil
}

// ListByBusiness returns every identity record of the business. orderBy must be a trusted column list.
func (r *SurveyRepository) ListByBusiness(ctx context.Context, businessID uint, orderBy string) ([]entities.Survey, error) {
	var surveys []entities.Survey

	query := r.db.WithContext(ctx).Where("business_id = ?", businessID)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if err := query.Find(&surveys).Error; err != nil {
		return nil, fmt.Errorf("error listing surveys: %w", err)
	}
	return surveys, nil
}
