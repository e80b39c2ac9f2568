package commands

import (
	"fmt"

	"github.com/rs/zerolog"
	"gorm.io/gorm"

	"github.com/wanderlust-tours/wanderlust/internal/config"
	"github.com/wanderlust-tours/wanderlust/internal/database"
	"github.com/wanderlust-tours/wanderlust/internal/logger"
)

// openDatabase loads the deployment configuration and opens its database.
// This is common logic used by the commands that touch stored data.
func openDatabase() (*gorm.DB, zerolog.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, zerolog.Nop(), fmt.Errorf("failed to load configuration: %w", err)
	}

	// CLI output stays readable; only warnings from the data layer show up
	logger.Init("warn", "console")
	log := logger.GetLogger()

	db, err := database.Open(cfg.Database, log)
	if err != nil {
		return nil, log, err
	}
	return db, log, nil
}
