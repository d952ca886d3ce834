package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ErrSurveyVanished is returned by Record when the survey detail row disappeared
// between resolution and the bucket update
var ErrSurveyVanished = errors.New("survey vanished before the response was recorded")

// Bucket names the detail row a response is counted against.
// Column is the counter to increment; an empty Column only checks the row exists.
type Bucket struct {
	Model      interface{}
	SurveyUUID uuid.UUID
	Column     string
}

// RateCount is the number of responses given with one rate
type RateCount struct {
	Rate  int   `json:"rate"`
	Count int64 `json:"count"`
}

type ResponseRepository struct {
	db *gorm.DB
}

func NewResponseRepository(db *gorm.DB) *ResponseRepository {
	return &ResponseRepository{db: db}
}

// LatestByCustomer loads into dst the most recent response of the customer in dst's table.
// It reports false when the customer never answered a survey of that type.
func (r *ResponseRepository) LatestByCustomer(ctx context.Context, dst entities.SurveyResponse, customerUUID uuid.UUID) (bool, error) {
	err := r.db.WithContext(ctx).
		Where("customer_uuid = ?", customerUUID).
		Order("created DESC").
		Order("id DESC").
		Take(dst).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return false, nil
		}
		return false, fmt.Errorf("error fetching latest response: %w", err)
	}
	return true, nil
}

// Record counts the response in its bucket, stores the response row and then
// the chosen option texts of the contra question, all in one transaction.
func (r *ResponseRepository) Record(ctx context.Context, resp entities.SurveyResponse, bucket Bucket, contraID uint, texts []string) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := touchBucket(tx, bucket); err != nil {
			return err
		}

		if err := tx.Create(resp).Error; err != nil {
			return fmt.Errorf("error creating response: %w", err)
		}

		base := resp.Base()
		for _, text := range texts {
			optionText, err := incrementOptionText(tx, contraID, text)
			if err != nil {
				return err
			}
			err = tx.Create(&entities.OptionResponse{
				OptionTextID: optionText.ID,
				SurveyType:   resp.SurveyType(),
				SurveyUUID:   base.SurveyUUID,
				ResponseID:   base.ID,
				CustomerUUID: base.CustomerUUID,
			}).Error
			if err != nil {
				return fmt.Errorf("error creating option response: %w", err)
			}
		}
		return nil
	})
}

func touchBucket(tx *gorm.DB, bucket Bucket) error {
	if bucket.Column == "" {
		var n int64
		if err := tx.Model(bucket.Model).Where("uuid = ?", bucket.SurveyUUID).Count(&n).Error; err != nil {
			return fmt.Errorf("error checking survey: %w", err)
		}
		if n == 0 {
			return ErrSurveyVanished
		}
		return nil
	}

	res := tx.Model(bucket.Model).
		Where("uuid = ?", bucket.SurveyUUID).
		UpdateColumn(bucket.Column, gorm.Expr(bucket.Column+" + ?", 1))
	if res.Error != nil {
		return fmt.Errorf("error updating %s: %w", bucket.Column, res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrSurveyVanished
	}
	return nil
}

// incrementOptionText gets or creates the (question, text) bucket and increments its count
func incrementOptionText(tx *gorm.DB, multipleChoiceID uint, text string) (*entities.OptionText, error) {
	err := tx.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entities.OptionText{MultipleChoiceID: multipleChoiceID, Text: text}).Error
	if err != nil {
		return nil, fmt.Errorf("error creating option text: %w", err)
	}

	var optionText entities.OptionText
	if err := tx.Where("multiple_choice_id = ? AND text = ?", multipleChoiceID, text).Take(&optionText).Error; err != nil {
		return nil, fmt.Errorf("error fetching option text: %w", err)
	}

	err = tx.Model(&entities.OptionText{}).
		Where("id = ?", optionText.ID).
		UpdateColumn("count", gorm.Expr("count + ?", 1)).Error
	if err != nil {
		return nil, fmt.Errorf("error incrementing option text: %w", err)
	}
	optionText.Count++
	return &optionText, nil
}

// RateCounts groups the responses of a survey by rate, lowest first
func (r *ResponseRepository) RateCounts(ctx context.Context, model entities.SurveyResponse, surveyUUID uuid.UUID) ([]RateCount, error) {
	var counts []RateCount
	err := r.db.WithContext(ctx).
		Model(model).
		Select("rate, COUNT(*) AS count").
		Where("survey_uuid = ?", surveyUUID).
		Group("rate").
		Order("rate ASC").
		Scan(&counts).Error
	if err != nil {
		return nil, fmt.Errorf("error counting rates: %w", err)
	}
	return counts, nil
}

// CountBySurvey returns the number of responses recorded for a survey
func (r *ResponseRepository) CountBySurvey(ctx context.Context, model entities.SurveyResponse, surveyUUID uuid.UUID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Model(model).Where("survey_uuid = ?", surveyUUID).Count(&total).Error
	return total, err
}
