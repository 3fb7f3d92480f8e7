package database

import (
	"log"

	"dnaarchive/internal/model"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// NewConnection initializes a new connection pool using GORM
func NewConnection(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		return nil, err
	}

	// Auto-migrate core models
	err = db.AutoMigrate(
		&model.Role{},
		&model.User{},
		&model.RefreshToken{},
		&model.TwoFactorAuth{},
		&model.AuthAccount{},
		&model.PoliceStation{},
		&model.Case{},
		&model.StorageLocation{},
		&model.DNASample{},
		&model.Report{},
		&model.SampleMovement{},
		&model.ReportMovement{},
		&model.AuditTrail{},
	)
	if err != nil {
		log.Println("WARNING: Failed to auto-migrate models:", err)
	}

	return db, nil
}
