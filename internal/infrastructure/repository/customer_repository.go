package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/upkook/cx-metrics/internal/domain/entities"
	"github.com/upkook/cx-metrics/internal/domain/errs"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	columnEmail        = "email"
	columnMobileNumber = "mobile_number"
	columnBizzUserID   = "bizz_user_id"
)

// CustomerRepository identifies respondents of a business, creating them on first contact
type CustomerRepository struct {
	db *gorm.DB
}

func NewCustomerRepository(db *gorm.DB) *CustomerRepository {
	return &CustomerRepository{db: db}
}

func (r *CustomerRepository) IdentifyByEmail(ctx context.Context, business *entities.Business, email, clientID, userAgent string) (*entities.Customer, error) {
	return r.identify(ctx, business, columnEmail, strings.ToLower(strings.TrimSpace(email)), clientID, userAgent)
}

func (r *CustomerRepository) IdentifyByMobileNumber(ctx context.Context, business *entities.Business, mobileNumber, clientID, userAgent string) (*entities.Customer, error) {
	return r.identify(ctx, business, columnMobileNumber, strings.TrimSpace(mobileNumber), clientID, userAgent)
}

func (r *CustomerRepository) IdentifyByBizzUserID(ctx context.Context, business *entities.Business, bizzUserID, clientID, userAgent string) (*entities.Customer, error) {
	return r.identify(ctx, business, columnBizzUserID, strings.TrimSpace(bizzUserID), clientID, userAgent)
}

// IdentifyAnonymous returns the customer owning clientID, or a new customer
func (r *CustomerRepository) IdentifyAnonymous(ctx context.Context, business *entities.Business, clientID, userAgent string) (*entities.Customer, error) {
	var customer *entities.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		found, err := findByClientID(tx, business.ID, clientID)
		if err != nil {
			return err
		}
		if found != nil {
			customer = found
			return nil
		}
		customer, err = createCustomer(tx, business.ID, clientID, userAgent, "", "")
		return err
	})
	return customer, err
}

func (r *CustomerRepository) identify(ctx context.Context, business *entities.Business, column, value, clientID, userAgent string) (*entities.Customer, error) {
	if value == "" {
		return nil, errs.Field("customer."+column, "This field is required.")
	}

	var customer *entities.Customer
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var c entities.Customer
		err := tx.Where("business_id = ? AND "+column+" = ?", business.ID, value).Order("id ASC").Take(&c).Error
		if err == nil {
			customer = &c
			return nil
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return fmt.Errorf("error fetching customer: %w", err)
		}

		// an anonymous customer behind the same client id gets upgraded in place
		found, err := findByClientID(tx, business.ID, clientID)
		if err != nil {
			return err
		}
		if found != nil {
			if isAnonymous(found) {
				if err := tx.Model(found).Update(column, value).Error; err != nil {
					return fmt.Errorf("error identifying customer: %w", err)
				}
				setIdentifier(found, column, value)
				customer = found
				return nil
			}
			clientID = ""
		}

		customer, err = createCustomer(tx, business.ID, clientID, userAgent, column, value)
		return err
	})
	return customer, err
}

func findByClientID(tx *gorm.DB, businessID uint, clientID string) (*entities.Customer, error) {
	if clientID == "" {
		return nil, nil
	}
	var c entities.Customer
	err := tx.Where("business_id = ? AND client_id = ?", businessID, clientID).Take(&c).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching customer: %w", err)
	}
	return &c, nil
}

func createCustomer(tx *gorm.DB, businessID uint, clientID, userAgent, column, value string) (*entities.Customer, error) {
	if clientID == "" {
		clientID = NewClientID()
	}
	c := entities.Customer{
		UUID:       uuid.New(),
		BusinessID: businessID,
		ClientID:   clientID,
		UserAgent:  userAgent,
	}
	setIdentifier(&c, column, value)

	// a concurrent request may have created the same client id first
	res := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&c)
	if res.Error != nil {
		return nil, fmt.Errorf("error creating customer: %w", res.Error)
	}
	if res.RowsAffected == 0 {
		found, err := findByClientID(tx, businessID, clientID)
		if err != nil {
			return nil, err
		}
		if found == nil {
			return nil, fmt.Errorf("customer %s vanished after conflict", clientID)
		}
		return found, nil
	}
	return &c, nil
}

// NewClientID returns a random opaque client identifier
func NewClientID() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")
}

func isAnonymous(c *entities.Customer) bool {
	return c.Email == nil && c.MobileNumber == nil && c.BizzUserID == nil
}

func setIdentifier(c *entities.Customer, column, value string) {
	if column == "" {
		return
	}
	v := value
	switch column {
	case columnEmail:
		c.Email = &v
	case columnMobileNumber:
		c.MobileNumber = &v
	case columnBizzUserID:
		c.BizzUserID = &v
	}
}
