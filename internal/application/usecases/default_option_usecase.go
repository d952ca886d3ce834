package usecases

import (
	"context"

	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
)

type DefaultOptionUseCase struct {
	store *repositories.Store
}

func NewDefaultOptionUseCase(store *repositories.Store) *DefaultOptionUseCase {
	return &DefaultOptionUseCase{store: store}
}

// List returns the default contra options suggested to the business for a survey type
func (u *DefaultOptionUseCase) List(ctx context.Context, businessID uint, surveyType string) ([]entities.DefaultOption, error) {
	business, err := u.store.Businesses().FindByID(ctx, businessID)
	if err != nil {
		return nil, err
	}
	options, err := u.store.DefaultOptions().ListActive(ctx, business.IndustryID, surveyType)
	if err != nil {
		return nil, err
	}
	if options == nil {
		options = []entities.DefaultOption{}
	}
	return options, nil
}
