package entities

import (
	"time"

	"github.com/google/uuid"
)

// Customer identification modes configured per business
const (
	IdentifyByEmail        = "email"
	IdentifyByMobileNumber = "mobile_number"
	IdentifyByBizzUserID   = "bizz_user_id"
	IdentifyAnonymously    = "anonymous"
)

type Business struct {
	ID                 uint   `json:"id" gorm:"primaryKey"`
	Name               string `json:"name" gorm:"size:256;not null"`
	IndustryID         uint   `json:"industry_id" gorm:"index"`
	IdentificationMode string `json:"identification_mode" gorm:"size:20;not null"`
	// ResponseCooldownSeconds overrides the configured cool-down when set. Zero disables it.
	ResponseCooldownSeconds *int      `json:"response_cooldown_seconds"`
	CreatedAt               time.Time `json:"created" gorm:"column:created"`
	UpdatedAt               time.Time `json:"updated" gorm:"column:updated"`
}

// IsIdentifiedByEmail and friends expose the business identification mode
func (b *Business) IsIdentifiedByEmail() bool {
	return b.IdentificationMode == IdentifyByEmail
}

func (b *Business) IsIdentifiedByMobileNumber() bool {
	return b.IdentificationMode == IdentifyByMobileNumber
}

func (b *Business) IsIdentifiedByBizzUserID() bool {
	return b.IdentificationMode == IdentifyByBizzUserID
}

// ResponseCooldown returns the business override, or fallback when none is configured
func (b *Business) ResponseCooldown(fallback time.Duration) time.Duration {
	if b.ResponseCooldownSeconds == nil {
		return fallback
	}
	return time.Duration(*b.ResponseCooldownSeconds) * time.Second
}

// Customer is a respondent identity scoped to a business
type Customer struct {
	ID           uint      `json:"-" gorm:"primaryKey"`
	UUID         uuid.UUID `json:"uuid" gorm:"type:uuid;uniqueIndex;not null"`
	BusinessID   uint      `json:"-" gorm:"not null;uniqueIndex:idx_customers_business_client"`
	ClientID     string    `json:"client_id" gorm:"size:64;not null;uniqueIndex:idx_customers_business_client"`
	Email        *string   `json:"email,omitempty" gorm:"size:254;index"`
	MobileNumber *string   `json:"mobile_number,omitempty" gorm:"size:32;index"`
	BizzUserID   *string   `json:"bizz_user_id,omitempty" gorm:"size:64;index"`
	UserAgent    string    `json:"-" gorm:"type:text"`
	CreatedAt    time.Time `json:"created" gorm:"column:created"`
	UpdatedAt    time.Time `json:"updated" gorm:"column:updated"`
}
