package repositories

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"gorm.io/gorm"
)

type MultipleChoiceRepository struct {
	db *gorm.DB
}

func NewMultipleChoiceRepository(db *gorm.DB) *MultipleChoiceRepository {
	return &MultipleChoiceRepository{db: db}
}

func orderedOptions(db *gorm.DB) *gorm.DB {
	return db.Order("sort_order ASC").Order("id ASC")
}

func (r *MultipleChoiceRepository) FindByIDs(ctx context.Context, ids []uint) ([]entities.MultipleChoice, error) {
	var choices []entities.MultipleChoice
	err := r.db.WithContext(ctx).Preload("Options", orderedOptions).Where("id IN ?", ids).Find(&choices).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching multiple choices: %w", err)
	}
	return choices, nil
}

// Create inserts the question and then its options in the given order
func (r *MultipleChoiceRepository) Create(ctx context.Context, mc *entities.MultipleChoice) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		options := mc.Options
		if err := tx.Omit("Options").Create(mc).Error; err != nil {
			return fmt.Errorf("error creating multiple choice: %w", err)
		}
		for i := range options {
			options[i].ID = 0
			options[i].MultipleChoiceID = mc.ID
			if err := tx.Create(&options[i]).Error; err != nil {
				return fmt.Errorf("error creating option: %w", err)
			}
		}
		mc.Options = options
		return nil
	})
}

// Update saves the question fields and replaces its option set with options.
// Options with an id are updated in place, options without one are created after
// them and existing options left out are removed.
func (r *MultipleChoiceRepository) Update(ctx context.Context, mc *entities.MultipleChoice, options []entities.Option) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit("Options").Save(mc).Error; err != nil {
			return fmt.Errorf("error updating multiple choice: %w", err)
		}

		keep := make([]uint, 0, len(options))
		for _, o := range options {
			if o.ID != 0 {
				keep = append(keep, o.ID)
			}
		}
		stale := tx.Where("multiple_choice_id = ?", mc.ID)
		if len(keep) > 0 {
			stale = stale.Where("id NOT IN ?", keep)
		}
		if err := stale.Delete(&entities.Option{}).Error; err != nil {
			return fmt.Errorf("error removing options: %w", err)
		}

		// Kept options take a placeholder text first so that texts swapped or
		// reused within one update never collide on (multiple_choice_id, text).
		for _, id := range keep {
			err := tx.Model(&entities.Option{}).
				Where("id = ? AND multiple_choice_id = ?", id, mc.ID).
				Update("text", "renaming-"+uuid.NewString()).Error
			if err != nil {
				return fmt.Errorf("error renaming option: %w", err)
			}
		}

		for i := range options {
			options[i].MultipleChoiceID = mc.ID
			if options[i].ID == 0 {
				continue
			}
			err := tx.Model(&entities.Option{}).
				Where("id = ? AND multiple_choice_id = ?", options[i].ID, mc.ID).
				Updates(map[string]interface{}{
					"text":       options[i].Text,
					"enabled":    options[i].Enabled,
					"sort_order": options[i].Order,
				}).Error
			if err != nil {
				return fmt.Errorf("error updating option: %w", err)
			}
		}
		for i := range options {
			if options[i].ID != 0 {
				continue
			}
			if err := tx.Create(&options[i]).Error; err != nil {
				return fmt.Errorf("error creating option: %w", err)
			}
		}

		return orderedOptions(tx).Where("multiple_choice_id = ?", mc.ID).Find(&mc.Options).Error
	})
}

// OptionTexts returns the aggregated option text buckets of a question
func (r *MultipleChoiceRepository) OptionTexts(ctx context.Context, multipleChoiceID uint) ([]entities.OptionText, error) {
	var texts []entities.OptionText
	err := r.db.WithContext(ctx).
		Where("multiple_choice_id = ?", multipleChoiceID).
		Order("id ASC").
		Find(&texts).Error
	if err != nil {
		return nil, fmt.Errorf("error fetching option texts: %w", err)
	}
	return texts, nil
}
