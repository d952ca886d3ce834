package database

import (
	"log"
	"time"

	"gorm.io/gorm"
)

const startedAtKey = "cx:started_at"

func startTimer(db *gorm.DB) {
	db.InstanceSet(startedAtKey, time.Now())
}

// SlowQueryLogger logs every statement that ran longer than threshold
func SlowQueryLogger(threshold time.Duration) func(db *gorm.DB) {
	return func(db *gorm.DB) {
		v, ok := db.InstanceGet(startedAtKey)
		if !ok {
			return
		}
		started, ok := v.(time.Time)
		if !ok {
			return
		}
		if elapsed := time.Since(started); elapsed > threshold {
			log.Printf("[SLOW QUERY] %s took %v (rows: %d): %s",
				db.Statement.Table, elapsed, db.RowsAffected, db.Statement.SQL.String())
		}
	}
}

// RegisterCallbacks installs the timing callbacks around every GORM operation
func RegisterCallbacks(db *gorm.DB, threshold time.Duration) error {
	after := SlowQueryLogger(threshold)
	cb := db.Callback()

	if err := cb.Query().Before("gorm:query").Register("cx:query_start", startTimer); err != nil {
		return err
	}
	if err := cb.Query().After("gorm:query").Register("cx:query_end", after); err != nil {
		return err
	}
	if err := cb.Create().Before("gorm:create").Register("cx:create_start", startTimer); err != nil {
		return err
	}
	if err := cb.Create().After("gorm:create").Register("cx:create_end", after); err != nil {
		return err
	}
	if err := cb.Update().Before("gorm:update").Register("cx:update_start", startTimer); err != nil {
		return err
	}
	if err := cb.Update().After("gorm:update").Register("cx:update_end", after); err != nil {
		return err
	}
	if err := cb.Delete().Before("gorm:delete").Register("cx:delete_start", startTimer); err != nil {
		return err
	}
	if err := cb.Delete().After("gorm:delete").Register("cx:delete_end", after); err != nil {
		return err
	}
	if err := cb.Raw().Before("gorm:raw").Register("cx:raw_start", startTimer); err != nil {
		return err
	}
	return cb.Raw().After("gorm:raw").Register("cx:raw_end", after)
}
