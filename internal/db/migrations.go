package db

import (
	"fmt"

	"fleettrack_server/internal/models"
	"fleettrack_server/pkg/colors"

	"gorm.io/gorm"
)

// RunMigrations runs all database migrations
func RunMigrations() error {
	return Migrate(DB)
}

// Migrate creates or updates the schema on the given database. Base tables
// first, then relation tables that reference them.
func Migrate(database *gorm.DB) error {
	colors.PrintSubHeader("Running Database Migrations")

	if err := database.AutoMigrate(&models.Account{}); err != nil {
		return fmt.Errorf("account table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.User{}); err != nil {
		return fmt.Errorf("user table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.Device{}); err != nil {
		return fmt.Errorf("device table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.DeviceGroup{}); err != nil {
		return fmt.Errorf("device group table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.GroupMember{}); err != nil {
		return fmt.Errorf("group member table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.UniversalGroupMember{}); err != nil {
		return fmt.Errorf("universal group member table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.UserDeviceAccess{}); err != nil {
		return fmt.Errorf("user device access table migration failed: %v", err)
	}

	if err := database.AutoMigrate(&models.Event{}); err != nil {
		return fmt.Errorf("event table migration failed: %v", err)
	}

	colors.PrintSuccess("Database migrations completed")
	return nil
}
