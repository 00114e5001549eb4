package db

import (
	"database/sql"
	"fmt"
	"os"

	"spendsense/api/logger"

	_ "github.com/lib/pq"
)

var DB *sql.DB

// InitDB opens the Postgres connection used for account and conversation
// metadata.
func InitDB() error {
	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		return fmt.Errorf("DATABASE_URL environment variable not set")
	}

	var err error
	DB, err = sql.Open("postgres", dbURL)
	if err != nil {
		return fmt.Errorf("error opening database: %w", err)
	}

	if err := DB.Ping(); err != nil {
		return fmt.Errorf("error connecting to the database: %w", err)
	}

	logger.Get().Info("successfully connected to Postgres")
	return nil
}

func CloseDB() {
	if DB != nil {
		DB.Close()
	}
}
