package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrBulkCreateNotSupported guards bulk inserts, which would skip identity creation
var ErrBulkCreateNotSupported = errors.New("bulk create of survey details is not supported")

// DetailRepository persists one survey type's details while keeping their identity records in sync
type DetailRepository interface {
	FindByUUID(ctx context.Context, id uuid.UUID) (entities.SurveyDetail, error)
	FindBySurveyID(ctx context.Context, surveyID uint) (entities.SurveyDetail, error)
	FindByBusinessAndUUID(ctx context.Context, businessID uint, id uuid.UUID) (entities.SurveyDetail, error)
	ListByBusiness(ctx context.Context, businessID uint, orderBy string) ([]entities.SurveyDetail, error)
	Save(ctx context.Context, d entities.SurveyDetail) error
	Delete(ctx context.Context, d entities.SurveyDetail) error
	DeleteWhere(ctx context.Context, query interface{}, args ...interface{}) (int64, error)
	UpdateWhere(ctx context.Context, values map[string]interface{}, query interface{}, args ...interface{}) (int64, error)
	BulkCreate(ctx context.Context, details []entities.SurveyDetail) error
}

type detailPtr[T any] interface {
	*T
	entities.SurveyDetail
}

// SurveyModelRepository implements DetailRepository for the detail type T
type SurveyModelRepository[T any, PT detailPtr[T]] struct {
	db *gorm.DB
}

func NewSurveyModelRepository[T any, PT detailPtr[T]](db *gorm.DB) *SurveyModelRepository[T, PT] {
	return &SurveyModelRepository[T, PT]{db: db}
}

func (r *SurveyModelRepository[T, PT]) FindByUUID(ctx context.Context, id uuid.UUID) (entities.SurveyDetail, error) {
	return r.find(ctx, "uuid = ?", id)
}

func (r *SurveyModelRepository[T, PT]) FindBySurveyID(ctx context.Context, surveyID uint) (entities.SurveyDetail, error) {
	return r.find(ctx, "survey_id = ?", surveyID)
}

func (r *SurveyModelRepository[T, PT]) FindByBusinessAndUUID(ctx context.Context, businessID uint, id uuid.UUID) (entities.SurveyDetail, error) {
	return r.find(ctx, "business_id = ? AND uuid = ?", businessID, id)
}

func (r *SurveyModelRepository[T, PT]) find(ctx context.Context, query interface{}, args ...interface{}) (entities.SurveyDetail, error) {
	db := r.db.WithContext(ctx)

	var row T
	if err := db.Where(query, args...).Take(&row).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("survey detail: %w", errs.ErrNotFound)
		}
		return nil, fmt.Errorf("error fetching survey detail: %w", err)
	}

	d := PT(&row)
	if err := attachContras(ctx, db, []entities.SurveyDetail{d}); err != nil {
		return nil, err
	}
	return d, nil
}

func (r *SurveyModelRepository[T, PT]) ListByBusiness(ctx context.Context, businessID uint, orderBy string) ([]entities.SurveyDetail, error) {
	db := r.db.WithContext(ctx)

	var rows []T
	query := db.Where("business_id = ?", businessID)
	if orderBy != "" {
		query = query.Order(orderBy)
	}
	if err := query.Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("error listing survey details: %w", err)
	}

	details := make([]entities.SurveyDetail, len(rows))
	for i := range rows {
		details[i] = PT(&rows[i])
	}
	if err := attachContras(ctx, db, details); err != nil {
		return nil, err
	}
	return details, nil
}

// Save upserts the identity record, then the detail, in one transaction
func (r *SurveyModelRepository[T, PT]) Save(ctx context.Context, d entities.SurveyDetail) error {
	if _, err := r.cast(d); err != nil {
		return err
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return SyncAndSave(tx, d)
	})
}

// Delete removes the detail and then its identity record, in one transaction
func (r *SurveyModelRepository[T, PT]) Delete(ctx context.Context, d entities.SurveyDetail) error {
	p, err := r.cast(d)
	if err != nil {
		return err
	}
	m := p.Model()

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Delete(p).Error; err != nil {
			return fmt.Errorf("error deleting survey detail: %w", err)
		}
		if err := tx.Delete(&entities.Survey{}, m.SurveyID).Error; err != nil {
			return fmt.Errorf("error deleting survey: %w", err)
		}
		return nil
	})
}

// DeleteWhere bulk-deletes matching details and the identity records they were linked to
func (r *SurveyModelRepository[T, PT]) DeleteWhere(ctx context.Context, query interface{}, args ...interface{}) (int64, error) {
	var rows int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var surveyIDs []uint
		if err := tx.Model(new(T)).Where(query, args...).Pluck("survey_id", &surveyIDs).Error; err != nil {
			return err
		}

		res := tx.Where(query, args...).Delete(new(T))
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected

		if len(surveyIDs) == 0 {
			return nil
		}
		return tx.Where("id IN ?", surveyIDs).Delete(&entities.Survey{}).Error
	})
	if err != nil {
		return 0, fmt.Errorf("error bulk deleting survey details: %w", err)
	}
	return rows, nil
}

// UpdateWhere bulk-updates matching details. Changes to name or business_id are
// propagated to the linked identity records in a second statement.
func (r *SurveyModelRepository[T, PT]) UpdateWhere(ctx context.Context, values map[string]interface{}, query interface{}, args ...interface{}) (int64, error) {
	var rows int64
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var surveyIDs []uint
		if err := tx.Model(new(T)).Where(query, args...).Pluck("survey_id", &surveyIDs).Error; err != nil {
			return err
		}

		res := tx.Model(new(T)).Where(query, args...).Updates(values)
		if res.Error != nil {
			return res.Error
		}
		rows = res.RowsAffected

		identity := make(map[string]interface{})
		for _, column := range []string{"name", "business_id"} {
			if v, ok := values[column]; ok {
				identity[column] = v
			}
		}
		if len(identity) == 0 || len(surveyIDs) == 0 {
			return nil
		}
		return tx.Model(&entities.Survey{}).Where("id IN ?", surveyIDs).Updates(identity).Error
	})
	if err != nil {
		return 0, fmt.Errorf("error bulk updating survey details: %w", err)
	}
	return rows, nil
}

func (r *SurveyModelRepository[T, PT]) BulkCreate(context.Context, []entities.SurveyDetail) error {
	return ErrBulkCreateNotSupported
}

func (r *SurveyModelRepository[T, PT]) cast(d entities.SurveyDetail) (PT, error) {
	p, ok := d.(PT)
	if !ok || d == nil {
		var zero PT
		return zero, fmt.Errorf("unexpected survey detail %T for %s repository", d, PT(new(T)).SurveyType())
	}
	return p, nil
}

// SyncAndSave writes the identity record and then the detail using tx.
// A detail without a linked identity gets a fresh UUID and a new Survey row
// tagged with the detail's type. Callers provide the transaction.
func SyncAndSave(tx *gorm.DB, d entities.SurveyDetail) error {
	m := d.Model()

	linked := false
	if m.SurveyID != 0 {
		res := tx.Model(&entities.Survey{}).Where("id = ?", m.SurveyID).Updates(map[string]interface{}{
			"name":        m.Name,
			"business_id": m.BusinessID,
		})
		if res.Error != nil {
			return fmt.Errorf("error syncing survey: %w", res.Error)
		}
		linked = res.RowsAffected > 0
	}

	if !linked {
		m.UUID = uuid.New()
		survey := entities.Survey{
			UUID:       m.UUID,
			Name:       m.Name,
			BusinessID: m.BusinessID,
			Type:       d.SurveyType(),
			Active:     true,
		}
		if err := tx.Create(&survey).Error; err != nil {
			return fmt.Errorf("error creating survey: %w", err)
		}
		m.SurveyID = survey.ID
	}

	omit := []string{clause.Associations}
	if c, ok := d.(entities.Counted); ok && m.ID != 0 {
		omit = append(omit, c.CounterColumns()...)
	}
	if err := tx.Omit(omit...).Save(d).Error; err != nil {
		return fmt.Errorf("error saving survey detail: %w", err)
	}
	return nil
}

// attachContras loads the contra question, with ordered options, of every detail that has one
func attachContras(ctx context.Context, db *gorm.DB, details []entities.SurveyDetail) error {
	var ids []uint
	for _, d := range details {
		if id := d.Content().ContraID; id != nil {
			ids = append(ids, *id)
		}
	}
	if len(ids) == 0 {
		return nil
	}

	choices, err := NewMultipleChoiceRepository(db).FindByIDs(ctx, ids)
	if err != nil {
		return err
	}
	byID := make(map[uint]*entities.MultipleChoice, len(choices))
	for i := range choices {
		byID[choices[i].ID] = &choices[i]
	}
	for _, d := range details {
		if id := d.Content().ContraID; id != nil {
			d.Content().Contra = byID[*id]
		}
	}
	return nil
}
