package usecases

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"github.com/upkook/cx-metrics/internal/domain/repositories"
	"github.com/upkook/cx-metrics/internal/infrastructure/cache"
)

// CustomerIdentifier resolves the respondent of a business to a customer with a stable uuid
type CustomerIdentifier interface {
	IdentifyByEmail(ctx context.Context, business *entities.Business, email, clientID, userAgent string) (*entities.Customer, error)
	IdentifyByMobileNumber(ctx context.Context, business *entities.Business, mobileNumber, clientID, userAgent string) (*entities.Customer, error)
	IdentifyByBizzUserID(ctx context.Context, business *entities.Business, bizzUserID, clientID, userAgent string) (*entities.Customer, error)
	IdentifyAnonymous(ctx context.Context, business *entities.Business, clientID, userAgent string) (*entities.Customer, error)
}

type CustomerInput struct {
	ClientID     string `json:"client_id"`
	Email        string `json:"email"`
	MobileNumber string `json:"mobile_number"`
	BizzUserID   string `json:"bizz_user_id"`
}

// ResponseInput is a respondent's answer. NPS surveys read Score, CSAT and CES read Rate.
type ResponseInput struct {
	Score     *int          `json:"score"`
	Rate      *int          `json:"rate"`
	Options   []uint        `json:"options"`
	Customer  CustomerInput `json:"customer"`
	UserAgent string        `json:"-"`
}

// Ack acknowledges a recorded response without exposing the stored row
type Ack struct {
	Field    string
	Value    int
	ClientID string
}

func (a Ack) MarshalJSON() ([]byte, error) {
	return json.Marshal(map[string]interface{}{
		a.Field:     a.Value,
		"client_id": a.ClientID,
	})
}

// responseKind describes how answers to one survey type are read, bounded and counted
type responseKind struct {
	field    string
	min      int
	max      func(d entities.SurveyDetail) int
	value    func(in ResponseInput) *int
	response func(base entities.SurveyResponseBase, value int) entities.SurveyResponse
	bucket   func(d entities.SurveyDetail, value int) repositories.Bucket
}

func scaleMax(d entities.SurveyDetail) int {
	if s, ok := d.(entities.Scaled); ok {
		return s.GetScale().Max()
	}
	return 0
}

// NPSBucket returns the counter a score is aggregated into
func NPSBucket(score int) string {
	switch {
	case score >= 9:
		return "promoters"
	case score >= 7:
		return "passives"
	}
	return "detractors"
}

var responseKinds = map[string]responseKind{
	entities.TypeNPS: {
		field: "score",
		min:   0,
		max:   func(entities.SurveyDetail) int { return 10 },
		value: func(in ResponseInput) *int { return in.Score },
		response: func(base entities.SurveyResponseBase, value int) entities.SurveyResponse {
			return &entities.NPSResponse{SurveyResponseBase: base, Score: value}
		},
		bucket: func(d entities.SurveyDetail, value int) repositories.Bucket {
			return repositories.Bucket{Model: &entities.NPSSurvey{}, SurveyUUID: d.Model().UUID, Column: NPSBucket(value)}
		},
	},
	entities.TypeCSAT: {
		field: "rate",
		min:   1,
		max:   scaleMax,
		value: func(in ResponseInput) *int { return in.Rate },
		response: func(base entities.SurveyResponseBase, value int) entities.SurveyResponse {
			return &entities.CSATResponse{SurveyResponseBase: base, Rate: value}
		},
		bucket: func(d entities.SurveyDetail, _ int) repositories.Bucket {
			return repositories.Bucket{Model: &entities.CSATSurvey{}, SurveyUUID: d.Model().UUID}
		},
	},
	entities.TypeCES: {
		field: "rate",
		min:   1,
		max:   scaleMax,
		value: func(in ResponseInput) *int { return in.Rate },
		response: func(base entities.SurveyResponseBase, value int) entities.SurveyResponse {
			return &entities.CESResponse{SurveyResponseBase: base, Rate: value}
		},
		bucket: func(d entities.SurveyDetail, _ int) repositories.Bucket {
			return repositories.Bucket{Model: &entities.CESSurvey{}, SurveyUUID: d.Model().UUID}
		},
	},
}

// ResponseUseCase records survey responses
type ResponseUseCase struct {
	store     *repositories.Store
	customers CustomerIdentifier
	insights  *cache.InsightCache
	cooldown  time.Duration
	now       func() time.Time
}

func NewResponseUseCase(store *repositories.Store, customers CustomerIdentifier, insights *cache.InsightCache, cooldown time.Duration) *ResponseUseCase {
	return &ResponseUseCase{
		store:     store,
		customers: customers,
		insights:  insights,
		cooldown:  cooldown,
		now:       time.Now,
	}
}

// Respond runs the response pipeline for the survey behind surveyUUID.
// It returns a nil Ack and a nil error when the survey disappeared before the
// response could be counted.
func (u *ResponseUseCase) Respond(ctx context.Context, surveyUUID uuid.UUID, in ResponseInput) (*Ack, error) {
	survey, err := u.store.Surveys().FindByUUID(ctx, surveyUUID)
	if err != nil {
		return nil, err
	}
	kind, ok := responseKinds[survey.Type]
	if !ok || !survey.Active {
		return nil, fmt.Errorf("survey %s: %w", surveyUUID, errs.ErrNotFound)
	}
	repo, err := u.store.Details(survey.Type)
	if err != nil {
		return nil, fmt.Errorf("survey %s: %w", surveyUUID, errs.ErrNotFound)
	}
	d, err := repo.FindBySurveyID(ctx, survey.ID)
	if err != nil {
		return nil, err
	}

	business, err := u.store.Businesses().FindByID(ctx, d.Model().BusinessID)
	if err != nil {
		return nil, err
	}
	customer, err := u.identify(ctx, business, in)
	if err != nil {
		return nil, err
	}

	if err := u.checkDuplicate(ctx, kind, business, customer); err != nil {
		return nil, err
	}

	value := kind.value(in)
	if value == nil {
		return nil, errs.Field(kind.field, "This field is required.")
	}
	if limit := kind.max(d); *value > limit {
		return nil, errs.Field(kind.field, fmt.Sprintf("Ensure this value is less than or equal to %d.", limit))
	}
	if *value < kind.min {
		return nil, errs.Field(kind.field, fmt.Sprintf("Ensure this value is greater than or equal to %d.", kind.min))
	}

	texts, err := contraTexts(d, *value, in.Options)
	if err != nil {
		return nil, err
	}
	var contraID uint
	if len(texts) > 0 {
		contraID = *d.Content().ContraID
	}

	resp := kind.response(entities.SurveyResponseBase{SurveyUUID: surveyUUID, CustomerUUID: customer.UUID}, *value)
	err = u.store.Responses().Record(ctx, resp, kind.bucket(d, *value), contraID, texts)
	if errors.Is(err, repositories.ErrSurveyVanished) {
		log.Printf("[RESPONSE] survey %s vanished before response of customer %s was recorded", surveyUUID, customer.UUID)
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	u.insights.Delete(survey.Type, surveyUUID)
	log.Printf("[RESPONSE] %s %s: %s=%d options=%d", survey.Type, surveyUUID, kind.field, *value, len(texts))

	return &Ack{Field: kind.field, Value: *value, ClientID: customer.ClientID}, nil
}

func (u *ResponseUseCase) identify(ctx context.Context, business *entities.Business, in ResponseInput) (*entities.Customer, error) {
	c := in.Customer
	switch {
	case business.IsIdentifiedByEmail():
		return u.customers.IdentifyByEmail(ctx, business, c.Email, c.ClientID, in.UserAgent)
	case business.IsIdentifiedByMobileNumber():
		return u.customers.IdentifyByMobileNumber(ctx, business, c.MobileNumber, c.ClientID, in.UserAgent)
	case business.IsIdentifiedByBizzUserID():
		return u.customers.IdentifyByBizzUserID(ctx, business, c.BizzUserID, c.ClientID, in.UserAgent)
	}
	return u.customers.IdentifyAnonymous(ctx, business, c.ClientID, in.UserAgent)
}

// checkDuplicate rejects a customer whose latest response of the same type is inside the cool-down window
func (u *ResponseUseCase) checkDuplicate(ctx context.Context, kind responseKind, business *entities.Business, customer *entities.Customer) error {
	cooldown := business.ResponseCooldown(u.cooldown)
	if cooldown <= 0 {
		return nil
	}

	latest := kind.response(entities.SurveyResponseBase{}, 0)
	found, err := u.store.Responses().LatestByCustomer(ctx, latest, customer.UUID)
	if err != nil || !found {
		return err
	}
	if u.now().Sub(latest.Base().CreatedAt) < cooldown {
		return errs.NonField("You have already responded recently. Please try again later.")
	}
	return nil
}
