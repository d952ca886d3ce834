package migrations

import (
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"gorm.io/gorm"
)

// Models lists every table owned by the service, identity records first
func Models() []interface{} {
	return []interface{}{
		&entities.Survey{},
		&entities.NPSSurvey{},
		&entities.CSATSurvey{},
		&entities.CESSurvey{},
		&entities.NPSResponse{},
		&entities.CSATResponse{},
		&entities.CESResponse{},
		&entities.MultipleChoice{},
		&entities.Option{},
		&entities.OptionText{},
		&entities.OptionResponse{},
		&entities.Business{},
		&entities.Customer{},
		&entities.DefaultOption{},
	}
}

func Migrate(db *gorm.DB) error {
	return db.AutoMigrate(Models()...)
}
