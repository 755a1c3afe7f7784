package data

import (
	"fmt"
	"log"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stake-plus/medshield/src/api/types"
)

var allModels = []interface{}{
	&types.ClaimReport{},
}

// OpenMySQL connects and migrates the report schema.
func OpenMySQL(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("mysql: %w", err)
	}
	if err := db.AutoMigrate(allModels...); err != nil {
		return nil, fmt.Errorf("mysql migrate: %w", err)
	}
	return db, nil
}

// MustMySQL is OpenMySQL for tools that cannot continue without a database.
func MustMySQL(dsn string) *gorm.DB {
	db, err := OpenMySQL(dsn)
	if err != nil {
		log.Fatalf("%v", err)
	}
	return db
}
