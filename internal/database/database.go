package database

import (
	"fmt"

	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/config"
	"github.com/Shaizaan-Hussain/Student-Management-DashBoard/internal/model"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// InitDB opens the slot database selected by cfg and migrates its schema.
// SQLite keeps the data in a local file; PostgreSQL is used when DB_DRIVER
// is "postgres".
func InitDB(cfg *config.Config) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.DBDriver {
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite", "":
		dialector = sqlite.Open(cfg.DBPath)
	default:
		return nil, fmt.Errorf("database: unsupported driver %q", cfg.DBDriver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("database: connect: %w", err)
	}

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate creates or updates the slots table.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.Slot{}); err != nil {
		return fmt.Errorf("database: auto-migrate: %w", err)
	}
	return nil
}
