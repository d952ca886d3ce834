package entities

import (
	"time"

	"github.com/google/uuid"
)

// Survey type tags
const (
	TypeNPS  = "NPS"
	TypeCSAT = "CSAT"
	TypeCES  = "CES"
)

// Survey is the identity record shared by every survey type
type Survey struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	UUID       uuid.UUID `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"size:256;not null"`
	BusinessID uint      `json:"-" gorm:"index;not null"`
	Type       string    `json:"type" gorm:"size:50;not null"`
	Active     bool      `json:"-" gorm:"not null"`
	CreatedAt  time.Time `json:"created" gorm:"column:created"`
	UpdatedAt  time.Time `json:"updated" gorm:"column:updated"`
}

// Scale is the number of choices offered by CSAT and CES surveys
type Scale string

const (
	Scale1To3 Scale = "3"
	Scale1To5 Scale = "5"
	Scale1To7 Scale = "7"
)

// Valid reports whether the scale is one of the enumerated choices
func (s Scale) Valid() bool {
	switch s {
	case Scale1To3, Scale1To5, Scale1To7:
		return true
	}
	return false
}

// Max returns the highest rate allowed by the scale
func (s Scale) Max() int {
	switch s {
	case Scale1To5:
		return 5
	case Scale1To7:
		return 7
	default:
		return 3
	}
}

// Scaled is implemented by survey types configured with a Scale
type Scaled interface {
	GetScale() Scale
	SetScale(Scale)
}

// Counted is implemented by details holding counters that saves must not overwrite
type Counted interface {
	CounterColumns() []string
}

// NPSSurvey keeps running promoter/passive/detractor counters
type NPSSurvey struct {
	SurveyModel
	SurveyContent
	Promoters  int64 `json:"promoters" gorm:"not null;default:0"`
	Passives   int64 `json:"passives" gorm:"not null;default:0"`
	Detractors int64 `json:"detractors" gorm:"not null;default:0"`
}

func (NPSSurvey) TableName() string { return "nps_surveys" }

func (*NPSSurvey) SurveyType() string { return TypeNPS }

func (s *NPSSurvey) Model() *SurveyModel { return &s.SurveyModel }

func (s *NPSSurvey) Content() *SurveyContent { return &s.SurveyContent }

// CounterColumns are only ever changed by atomic increments
func (*NPSSurvey) CounterColumns() []string {
	return []string{"promoters", "passives", "detractors"}
}

// CSATSurvey is a customer satisfaction survey rated on a 3, 5 or 7 point scale
type CSATSurvey struct {
	SurveyModel
	SurveyContent
	Scale Scale `json:"scale" gorm:"size:1;not null"`
}

func (CSATSurvey) TableName() string { return "csat_surveys" }

func (*CSATSurvey) SurveyType() string { return TypeCSAT }

func (s *CSATSurvey) Model() *SurveyModel { return &s.SurveyModel }

func (s *CSATSurvey) Content() *SurveyContent { return &s.SurveyContent }

func (s *CSATSurvey) GetScale() Scale { return s.Scale }

func (s *CSATSurvey) SetScale(scale Scale) { s.Scale = scale }

// CESSurvey is a customer effort survey rated on a 3, 5 or 7 point scale
type CESSurvey struct {
	SurveyModel
	SurveyContent
	Scale Scale `json:"scale" gorm:"size:1;not null"`
}

func (CESSurvey) TableName() string { return "ces_surveys" }

func (*CESSurvey) SurveyType() string { return TypeCES }

func (s *CESSurvey) Model() *SurveyModel { return &s.SurveyModel }

func (s *CESSurvey) Content() *SurveyContent { return &s.SurveyContent }

func (s *CESSurvey) GetScale() Scale { return s.Scale }

func (s *CESSurvey) SetScale(scale Scale) { s.Scale = scale }

// NewNPSSurvey, NewCSATSurvey and NewCESSurvey return unsaved details with defaults applied.
func NewNPSSurvey() *NPSSurvey {
	return &NPSSurvey{SurveyContent: SurveyContent{TextEnabled: true}}
}

func NewCSATSurvey() *CSATSurvey {
	return &CSATSurvey{SurveyContent: SurveyContent{TextEnabled: true}, Scale: Scale1To3}
}

func NewCESSurvey() *CESSurvey {
	return &CESSurvey{SurveyContent: SurveyContent{TextEnabled: true}, Scale: Scale1To3}
}

// NPSResponse scores are 0..10
type NPSResponse struct {
	SurveyResponseBase
	Score int `json:"score" gorm:"not null"`
}

func (NPSResponse) TableName() string { return "nps_responses" }

func (*NPSResponse) SurveyType() string { return TypeNPS }

func (r *NPSResponse) Base() *SurveyResponseBase { return &r.SurveyResponseBase }

func (r *NPSResponse) Value() int { return r.Score }

// CSATResponse rates are 1..scale
type CSATResponse struct {
	SurveyResponseBase
	Rate int `json:"rate" gorm:"not null"`
}

func (CSATResponse) TableName() string { return "csat_responses" }

func (*CSATResponse) SurveyType() string { return TypeCSAT }

func (r *CSATResponse) Base() *SurveyResponseBase { return &r.SurveyResponseBase }

func (r *CSATResponse) Value() int { return r.Rate }

// CESResponse rates are 1..scale
type CESResponse struct {
	SurveyResponseBase
	Rate int `json:"rate" gorm:"not null"`
}

func (CESResponse) TableName() string { return "ces_responses" }

func (*CESResponse) SurveyType() string { return TypeCES }

func (r *CESResponse) Base() *SurveyResponseBase { return &r.SurveyResponseBase }

func (r *CESResponse) Value() int { return r.Rate }

// PublicURL is the address respondents open to answer the survey
func PublicURL(baseURL string, id uuid.UUID) string {
	return baseURL + id.String() + "/"
}
