package client

import (
	"log"
	"time"

	"pkl-club-api/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

func InitPostgresClient(databaseURL string) *gorm.DB {
	db, err := gorm.Open(postgres.Open(databaseURL), &gorm.Config{
		// Map driver unique-constraint failures to gorm.ErrDuplicatedKey
		// so services can answer conflicts instead of 500s.
		TranslateError: true,
	})
	if err != nil {
		log.Fatal("failed to connect to database:", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		log.Fatal(err)
	}

	// Connection pool (important for webhooks)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetConnMaxLifetime(time.Hour)

	if err := AutoMigrate(db); err != nil {
		log.Fatal(err)
	}

	return db
}

// AutoMigrate is shared with the sqlite-backed test helper.
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&model.User{},
		&model.Country{},
		&model.Region{},
		&model.City{},
		&model.Tournament{},
		&model.ScheduleDay{},
		&model.Registration{},
		&model.Event{},
		&model.EventDay{},
		&model.EventPlayer{},
		&model.Payment{},
	)
}
