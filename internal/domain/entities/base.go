package entities

import (
	"time"

	"github.com/google/uuid"
)

// SurveyModel holds the fields every survey detail mirrors from its identity record.
// Name and BusinessID must always equal the linked Survey's values.
type SurveyModel struct {
	ID         uint      `json:"-" gorm:"primaryKey"`
	UUID       uuid.UUID `json:"id" gorm:"type:uuid;uniqueIndex;not null"`
	SurveyID   uint      `json:"-" gorm:"uniqueIndex;not null"`
	Name       string    `json:"name" gorm:"size:256;not null"`
	BusinessID uint      `json:"-" gorm:"index;not null"`
	CreatedAt  time.Time `json:"created" gorm:"column:created"`
	UpdatedAt  time.Time `json:"updated" gorm:"column:updated"`
}

// SurveyContent is the content shared by NPS, CSAT and CES surveys.
type SurveyContent struct {
	Text        string `json:"text" gorm:"type:text"`
	TextEnabled bool   `json:"text_enabled"`
	Question    string `json:"question" gorm:"type:text"`
	Message     string `json:"message" gorm:"type:text"`
	ContraID    *uint  `json:"-" gorm:"uniqueIndex"`

	// Contra is loaded explicitly by the repositories, never through GORM associations.
	Contra *MultipleChoice `json:"-" gorm:"-"`
}

// SurveyDetail is implemented by every registered survey type.
type SurveyDetail interface {
	SurveyType() string
	Model() *SurveyModel
	Content() *SurveyContent
}

// SurveyAttributes carries the writable fields used to build or update a detail.
type SurveyAttributes struct {
	Name        string
	BusinessID  uint
	Text        string
	TextEnabled bool
	Question    string
	Message     string
	Scale       Scale
}

// Assign copies the common attributes into a detail. Scale is applied by scaled types only.
func Assign(d SurveyDetail, attrs SurveyAttributes) {
	m := d.Model()
	m.Name = attrs.Name
	if attrs.BusinessID != 0 {
		m.BusinessID = attrs.BusinessID
	}

	c := d.Content()
	c.Text = attrs.Text
	c.TextEnabled = attrs.TextEnabled
	c.Question = attrs.Question
	c.Message = attrs.Message

	if s, ok := d.(Scaled); ok && attrs.Scale != "" {
		s.SetScale(attrs.Scale)
	}
}

// HasContra reports whether the detail has an enabled contra question attached.
func HasContra(d SurveyDetail) bool {
	c := d.Content().Contra
	return c != nil && c.Enabled
}

// SurveyResponseBase holds the fields shared by all response rows.
// SurveyUUID references Survey.UUID by value.
type SurveyResponseBase struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	SurveyUUID   uuid.UUID `json:"survey_uuid" gorm:"type:uuid;index;not null"`
	CustomerUUID uuid.UUID `json:"customer_uuid" gorm:"type:uuid;index;not null"`
	CreatedAt    time.Time `json:"created" gorm:"column:created"`
	UpdatedAt    time.Time `json:"updated" gorm:"column:updated"`
}

// SurveyResponse is implemented by every response row type.
type SurveyResponse interface {
	SurveyType() string
	Base() *SurveyResponseBase
	Value() int
}
