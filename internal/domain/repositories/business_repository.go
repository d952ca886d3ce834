package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"gorm.io/gorm"
)

type BusinessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) *BusinessRepository {
	return &BusinessRepository{db: db}
}

func (r *BusinessRepository) FindByID(ctx context.Context, id uint) (*entities.Business, error) {
	var business entities.Business
	if err := r.db.WithContext(ctx).Take(&business, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("business: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching business: %w", err)
	}
	return &business, nil
}

func (r *BusinessRepository) Create(ctx context.Context, business *entities.Business) error {
	return r.db.WithContext(ctx).Create(business).Error
}
