package entities

// QuestionTypeContra is the only question type default options are provided for
const QuestionTypeContra = "contra"

// DefaultOption is a suggested option text for a question of a survey type within an industry
type DefaultOption struct {
	ID           uint   `json:"-" gorm:"primaryKey"`
	IndustryID   uint   `json:"-" gorm:"not null;index;uniqueIndex:idx_default_options_slot"`
	SurveyType   string `json:"-" gorm:"size:20;not null;uniqueIndex:idx_default_options_slot"`
	QuestionType string `json:"question_type" gorm:"size:20;not null;uniqueIndex:idx_default_options_slot"`
	Text         string `json:"text" gorm:"size:256;not null"`
	Order        int    `json:"order" gorm:"column:sort_order;not null;uniqueIndex:idx_default_options_slot"`
	IsActive     bool   `json:"-" gorm:"not null"`
}
