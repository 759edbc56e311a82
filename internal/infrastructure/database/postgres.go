package database

import (
	"fmt"
	"log"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/dentiq/dentiq-api/internal/config"
	"github.com/dentiq/dentiq-api/internal/domain/entity"
)

// NewPostgresDB creates a new PostgreSQL database connection
func NewPostgresDB(cfg *config.DatabaseConfig) (*gorm.DB, error) {
	logLevel := logger.Warn

	db, err := gorm.Open(postgres.New(postgres.Config{
		DSN:                  cfg.DSN(),
		PreferSimpleProtocol: true, // disables implicit prepared statement usage
	}), &gorm.Config{
		Logger: logger.Default.LogMode(logLevel),
		// Unique-constraint violations must surface as gorm.ErrDuplicatedKey
		// so receipt issuance can tell a numbering collision from a 1:1 race
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	// Get underlying SQL DB to set connection pool settings
	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get underlying sql.DB: %w", err)
	}

	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetMaxOpenConns(100)

	return db, nil
}

// AutoMigrate runs GORM auto-migration for all entities
func AutoMigrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		// Directory entities
		&entity.Patient{},
		&entity.Dentist{},
		&entity.Procedure{},

		// Billing entities
		&entity.Treatment{},
		&entity.TreatmentItem{},
		&entity.Receipt{},

		// System entities
		&entity.AuditLog{},
		&entity.IdempotencyKey{},
	)

	if err != nil {
		return fmt.Errorf("failed to run migrations: %w", err)
	}

	return nil
}

// SeedDefaultData seeds the procedure catalog and, when configured, an
// admin staff account
func SeedDefaultData(db *gorm.DB) error {
	if err := seedProcedures(db); err != nil {
		return err
	}
	return seedAdminDentist(db)
}

// seedProcedures loads a starter catalog (ADA CDT codes) if the table is empty.
// Costs are in cents.
func seedProcedures(db *gorm.DB) error {
	var count int64
	if err := db.Model(&entity.Procedure{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	procedures := []entity.Procedure{
		{Code: "D0120", Name: "Periodic oral evaluation", Category: "diagnostic", DefaultCost: 6500, InsuranceCost: 5200, PerTooth: false, IsActive: true},
		{Code: "D0210", Name: "Full mouth X-ray series", Category: "diagnostic", DefaultCost: 15000, InsuranceCost: 12000, PerTooth: false, IsActive: true},
		{Code: "D1110", Name: "Prophylaxis - adult", Category: "preventive", DefaultCost: 12000, InsuranceCost: 9500, PerTooth: false, IsActive: true},
		{Code: "D2140", Name: "Amalgam filling - one surface", Category: "restorative", DefaultCost: 17500, InsuranceCost: 14000, PerTooth: true, IsActive: true},
		{Code: "D2391", Name: "Composite filling - one surface", Category: "restorative", DefaultCost: 20000, InsuranceCost: 16000, PerTooth: true, IsActive: true},
		{Code: "D2740", Name: "Crown - porcelain/ceramic", Category: "restorative", DefaultCost: 120000, InsuranceCost: 96000, PerTooth: true, IsActive: true},
		{Code: "D3310", Name: "Root canal - anterior", Category: "endodontics", DefaultCost: 80000, InsuranceCost: 64000, PerTooth: true, IsActive: true},
		{Code: "D3330", Name: "Root canal - molar", Category: "endodontics", DefaultCost: 115000, InsuranceCost: 92000, PerTooth: true, IsActive: true},
		{Code: "D4341", Name: "Periodontal scaling - per quadrant", Category: "periodontics", DefaultCost: 27500, InsuranceCost: 22000, PerTooth: false, IsActive: true},
		{Code: "D7140", Name: "Extraction - erupted tooth", Category: "oral surgery", DefaultCost: 22500, InsuranceCost: 18000, PerTooth: true, IsActive: true},
	}

	return db.Create(&procedures).Error
}

// seedAdminDentist creates an admin staff account from ADMIN_EMAIL /
// ADMIN_PASSWORD environment variables if one does not already exist
func seedAdminDentist(db *gorm.DB) error {
	adminEmail := viper.GetString("ADMIN_EMAIL")
	adminPassword := viper.GetString("ADMIN_PASSWORD")
	if adminEmail == "" || adminPassword == "" {
		return nil
	}

	var existing entity.Dentist
	if err := db.Where("email = ?", adminEmail).First(&existing).Error; err == nil {
		return nil
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
	if err != nil {
		return fmt.Errorf("failed to hash admin password: %w", err)
	}

	admin := entity.Dentist{
		FirstName:    "Clinic",
		LastName:     "Admin",
		Email:        adminEmail,
		PasswordHash: string(hashedPassword),
		Role:         entity.RoleAdmin,
		IsActive:     true,
	}
	if err := db.Create(&admin).Error; err != nil {
		return fmt.Errorf("failed to create admin account: %w", err)
	}

	log.Printf("Admin account created: %s", adminEmail)
	return nil
}
