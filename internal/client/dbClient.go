package client

import (
	"log"
	"time"

	"wompi-checkout-api/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// InitDBClient opens the datastore. MySQL when DATABASE_URL is set, a local
// sqlite file otherwise so the service runs without external infra.
func InitDBClient(databaseURL, sqlitePath string) *gorm.DB {
	var dialector gorm.Dialector
	if databaseURL != "" {
		dialector = mysql.Open(databaseURL)
	} else {
		dialector = sqlite.Open(sqlitePath)
	}

	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := db.AutoMigrate(
		&model.Product{},
		&model.Customer{},
		&model.Transaction{},
		&model.Delivery{},
		&model.WebhookEvent{},
	); err != nil {
		log.Fatal(err)
	}

	return db
}
