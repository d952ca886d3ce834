package migrations

import (
	"gorm.io/gorm"
)

var indexes = []string{
	// duplicate suppression reads the latest response of a customer per type
	"CREATE INDEX IF NOT EXISTS idx_nps_responses_customer_created ON nps_responses (customer_uuid, created)",
	"CREATE INDEX IF NOT EXISTS idx_csat_responses_customer_created ON csat_responses (customer_uuid, created)",
	"CREATE INDEX IF NOT EXISTS idx_ces_responses_customer_created ON ces_responses (customer_uuid, created)",

	// rate insights group by rate per survey
	"CREATE INDEX IF NOT EXISTS idx_csat_responses_survey_rate ON csat_responses (survey_uuid, rate)",
	"CREATE INDEX IF NOT EXISTS idx_ces_responses_survey_rate ON ces_responses (survey_uuid, rate)",

	// survey listings
	"CREATE INDEX IF NOT EXISTS idx_surveys_business_updated ON surveys (business_id, updated)",
	"CREATE INDEX IF NOT EXISTS idx_nps_surveys_business_updated ON nps_surveys (business_id, updated)",
	"CREATE INDEX IF NOT EXISTS idx_csat_surveys_business_updated ON csat_surveys (business_id, updated)",
	"CREATE INDEX IF NOT EXISTS idx_ces_surveys_business_updated ON ces_surveys (business_id, updated)",

	"CREATE INDEX IF NOT EXISTS idx_options_choice_order ON options (multiple_choice_id, sort_order)",
}

// AddIndexes adds the composite indexes AutoMigrate cannot derive from struct tags
func AddIndexes(db *gorm.DB) error {
	for _, stmt := range indexes {
		if err := db.Exec(stmt).Error; err != nil {
			return err
		}
	}
	return nil
}
