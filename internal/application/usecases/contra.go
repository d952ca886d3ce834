package usecases

import (
	"fmt"
	"math"

	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
)

const (
	contraField  = "contra_reason"
	optionsField = "options"
)

// ContraInput is the writable shape of a contra question
type ContraInput struct {
	Type         string        `json:"type"`
	Text         string        `json:"text"`
	Enabled      *bool         `json:"enabled"`
	Required     *bool         `json:"required"`
	OtherEnabled *bool         `json:"other_enabled"`
	Options      []OptionInput `json:"options"`
}

type OptionInput struct {
	ID      uint   `json:"id"`
	Text    string `json:"text"`
	Enabled *bool  `json:"enabled"`
	Order   int    `json:"order"`
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

// buildContra validates in against the existing question (nil on create) and
// returns the question to save together with its full option set
func buildContra(existing *entities.MultipleChoice, in *ContraInput) (*entities.MultipleChoice, []entities.Option, error) {
	verr := &errs.ValidationError{}

	mc := &entities.MultipleChoice{Type: entities.ChoiceRadio, Enabled: true, Required: true}
	if existing != nil {
		cp := *existing
		mc = &cp
	}

	if in.Type != "" {
		mc.Type = in.Type
	}
	if !entities.ValidChoiceType(mc.Type) {
		verr.Add(contraField+".type", fmt.Sprintf("%q is not a valid choice.", mc.Type))
	}
	if in.Text == "" {
		verr.Add(contraField+".text", "This field is required.")
	}
	mc.Text = in.Text
	mc.Enabled = boolOr(in.Enabled, mc.Enabled)
	mc.Required = boolOr(in.Required, mc.Required)
	mc.OtherEnabled = boolOr(in.OtherEnabled, mc.OtherEnabled)

	options := make([]entities.Option, 0, len(in.Options))
	seen := make(map[string]bool, len(in.Options))
	enabled := 0
	for _, o := range in.Options {
		if o.ID != 0 && (existing == nil || !existing.HasOption(o.ID)) {
			verr.Add(contraField, fmt.Sprintf("Option %d does not exists", o.ID))
			continue
		}
		if o.Text == "" {
			verr.Add(contraField+".options.text", "This field is required.")
			continue
		}
		if seen[o.Text] {
			verr.Add(contraField, "You should not have duplicate option texts")
			continue
		}
		seen[o.Text] = true

		option := entities.Option{ID: o.ID, Text: o.Text, Enabled: boolOr(o.Enabled, true), Order: o.Order}
		if option.Enabled {
			enabled++
		}
		options = append(options, option)
	}

	if mc.Enabled && enabled < 2 && verr.Empty() {
		verr.Add(contraField, "You should provide at least 2 enabled options.")
	}

	if !verr.Empty() {
		return nil, nil, verr
	}
	mc.Options = options
	return mc, options, nil
}

// isPositive reports whether value falls outside the band that asks for a contra answer
func isPositive(d entities.SurveyDetail, value int) bool {
	if s, ok := d.(entities.Scaled); ok {
		return value >= int(math.Ceil(float64(s.GetScale().Max())/2))
	}
	return value >= 9
}

// contraTexts validates the chosen option ids of a response and returns their texts.
// Options are discarded when the survey has no enabled contra or the value is positive.
func contraTexts(d entities.SurveyDetail, value int, optionIDs []uint) ([]string, error) {
	if !entities.HasContra(d) {
		return nil, nil
	}
	if isPositive(d, value) {
		return nil, nil
	}

	contra := d.Content().Contra
	if contra.IsSingleChoice() && len(optionIDs) > 1 {
		return nil, errs.Field(optionsField, "Only one option may be selected.")
	}

	texts := make([]string, 0, len(optionIDs))
	chosen := make(map[uint]bool, len(optionIDs))
	for _, id := range optionIDs {
		if chosen[id] {
			continue
		}
		chosen[id] = true
		option := contra.Option(id)
		if option == nil {
			return nil, errs.Field(optionsField, "Contra Option and Survey not related!")
		}
		texts = append(texts, option.Text)
	}

	if contra.Required && len(texts) == 0 {
		return nil, errs.Field(optionsField, "Contra is required")
	}
	return texts, nil
}
