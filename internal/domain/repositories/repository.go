package repositories

import (
	"context"
	"fmt"

	"github.com/upkook/cx-metrics/internal/domain/entities"
	"gorm.io/gorm"
)

// Store groups the repositories sharing one connection or one transaction
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// WithinTransaction runs fn with a Store bound to a single transaction.
// Any error returned by fn rolls back every write made through the Store.
func (s *Store) WithinTransaction(ctx context.Context, fn func(tx *Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&Store{db: tx})
	})
}

func (s *Store) Surveys() *SurveyRepository {
	return NewSurveyRepository(s.db)
}

// Details returns the detail repository for a survey type tag
func (s *Store) Details(surveyType string) (DetailRepository, error) {
	switch surveyType {
	case entities.TypeNPS:
		return NewSurveyModelRepository[entities.NPSSurvey](s.db), nil
	case entities.TypeCSAT:
		return NewSurveyModelRepository[entities.CSATSurvey](s.db), nil
	case entities.TypeCES:
		return NewSurveyModelRepository[entities.CESSurvey](s.db), nil
	}
	return nil, fmt.Errorf("no detail table for survey type %q", surveyType)
}

func (s *Store) MultipleChoices() *MultipleChoiceRepository {
	return NewMultipleChoiceRepository(s.db)
}

func (s *Store) Responses() *ResponseRepository {
	return NewResponseRepository(s.db)
}

func (s *Store) Businesses() *BusinessRepository {
	return NewBusinessRepository(s.db)
}

func (s *Store) DefaultOptions() *DefaultOptionRepository {
	return NewDefaultOptionRepository(s.db)
}
