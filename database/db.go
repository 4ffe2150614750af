package database

import (
	"fmt"
	"os"

	"visitor-pass/logger"
	log_model "visitor-pass/models/log"
	"visitor-pass/models/visitor"

	"github.com/joho/godotenv"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// InitDB initializes the database connection with auto migration and indexing
func InitDB() (*gorm.DB, error) {
	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		logger.Error("Error loading .env file", err)
	}

	host := os.Getenv("DB_HOST")
	port := os.Getenv("DB_PORT")
	database := os.Getenv("DB_DATABASE")
	user := os.Getenv("DB_USERNAME")
	password := os.Getenv("DB_PASSWORD")
	sslmode := os.Getenv("DB_SSLMODE") // Optional: "disable", "require", etc.

	if sslmode == "" {
		sslmode = "disable"
	}

	dsn := fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		host, port, user, password, database, sslmode)

	// TranslateError so unique violations surface as gorm.ErrDuplicatedKey;
	// the visitor store relies on that to retry pass number collisions.
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{TranslateError: true})
	if err != nil {
		logger.Error("Failed to connect to the database", err)
		return nil, err
	}
	logger.Success("Successfully connected to the database")

	if err := autoMigrate(db); err != nil {
		logger.Error("Failed to run migrations", err)
		return nil, err
	}
	logger.Success("All migrations completed successfully")

	if err := createIndexes(db); err != nil {
		logger.Error("Failed to create indexes", err)
		return nil, err
	}
	logger.Success("All indexes created successfully")

	return db, nil
}

// autoMigrate runs auto migration for all models
func autoMigrate(db *gorm.DB) error {
	models := []interface{}{
		&visitor.Visitor{},

		// Logging
		&log_model.Log{},
	}

	for _, model := range models {
		if err := db.AutoMigrate(model); err != nil {
			return fmt.Errorf("failed to migrate %T: %w", model, err)
		}
	}

	return nil
}

// createIndexes creates additional indexes for better performance
func createIndexes(db *gorm.DB) error {
	// Visitor indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_visitors_status ON visitors(status)").Error; err != nil {
		return fmt.Errorf("failed to create visitor status index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_visitors_issued_at ON visitors(issued_at)").Error; err != nil {
		return fmt.Errorf("failed to create visitor issued_at index: %w", err)
	}

	// Log indexes
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_status_code ON logs(status_code)").Error; err != nil {
		return fmt.Errorf("failed to create log status_code index: %w", err)
	}
	if err := db.Exec("CREATE INDEX IF NOT EXISTS idx_logs_created_at ON logs(created_at)").Error; err != nil {
		return fmt.Errorf("failed to create log created_at index: %w", err)
	}

	return nil
}
