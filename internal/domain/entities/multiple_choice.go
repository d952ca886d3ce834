package entities

import (
	"time"

	"github.com/google/uuid"
)

// Multiple choice question types
const (
	ChoiceRadio       = "R"
	ChoiceSelect      = "S"
	ChoiceCheckbox    = "C"
	ChoiceMultiSelect = "M"
)

// MultipleChoice is the question attached to a survey as its contra (follow-up) question
type MultipleChoice struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	Type         string    `json:"type" gorm:"size:1;not null"`
	Text         string    `json:"text" gorm:"type:text;not null"`
	Enabled      bool      `json:"enabled"`
	Required     bool      `json:"required"`
	OtherEnabled bool      `json:"other_enabled"`
	CreatedAt    time.Time `json:"-" gorm:"column:created"`
	UpdatedAt    time.Time `json:"-" gorm:"column:updated"`

	Options []Option `json:"options" gorm:"foreignKey:MultipleChoiceID"`
}

// IsSingleChoice reports whether at most one option may be selected
func (m *MultipleChoice) IsSingleChoice() bool {
	return m.Type == ChoiceRadio || m.Type == ChoiceSelect
}

// HasOption reports whether the option id belongs to the question's option set
func (m *MultipleChoice) HasOption(optionID uint) bool {
	return m.Option(optionID) != nil
}

// Option returns the question's option with the given id, or nil
func (m *MultipleChoice) Option(optionID uint) *Option {
	for i := range m.Options {
		if m.Options[i].ID == optionID {
			return &m.Options[i]
		}
	}
	return nil
}

// ValidChoiceType reports whether t is one of the known question types
func ValidChoiceType(t string) bool {
	switch t {
	case ChoiceRadio, ChoiceSelect, ChoiceCheckbox, ChoiceMultiSelect:
		return true
	}
	return false
}

type Option struct {
	ID               uint      `json:"id" gorm:"primaryKey"`
	MultipleChoiceID uint      `json:"-" gorm:"not null;uniqueIndex:idx_options_choice_text"`
	Text             string    `json:"text" gorm:"size:256;not null;uniqueIndex:idx_options_choice_text"`
	Enabled          bool      `json:"enabled"`
	Order            int       `json:"order" gorm:"column:sort_order;not null;index"`
	CreatedAt        time.Time `json:"-" gorm:"column:created"`
	UpdatedAt        time.Time `json:"-" gorm:"column:updated"`
}

// OptionText is the per-question aggregation bucket of chosen option texts.
// Count is only ever incremented.
type OptionText struct {
	ID               uint   `json:"-" gorm:"primaryKey"`
	MultipleChoiceID uint   `json:"-" gorm:"not null;uniqueIndex:idx_option_texts_choice_text"`
	Text             string `json:"text" gorm:"size:256;not null;uniqueIndex:idx_option_texts_choice_text"`
	Count            int64  `json:"count" gorm:"not null;default:0"`
}

// OptionResponse records one customer's choice of an option text for a response row
type OptionResponse struct {
	ID           uint      `gorm:"primaryKey"`
	OptionTextID uint      `gorm:"index;not null"`
	SurveyType   string    `gorm:"size:50;not null"`
	SurveyUUID   uuid.UUID `gorm:"type:uuid;index;not null"`
	ResponseID   uint      `gorm:"not null"`
	CustomerUUID uuid.UUID `gorm:"type:uuid;not null"`
	CreatedAt    time.Time `gorm:"column:created"`
}
