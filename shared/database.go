package shared

import (
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/go-sql-driver/mysql"
)

var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id    INT AUTO_INCREMENT PRIMARY KEY,
		name  VARCHAR(100) NOT NULL,
		cnic  VARCHAR(15)  NOT NULL UNIQUE,
		phone VARCHAR(15)  NOT NULL,
		email VARCHAR(100) NOT NULL
	)`,
	// user_id carries no foreign key constraint; orphaned requests are allowed.
	`CREATE TABLE IF NOT EXISTS verification_requests (
		id                  INT AUTO_INCREMENT PRIMARY KEY,
		user_id             INT NOT NULL,
		request_date        DATETIME(6) NOT NULL,
		status              VARCHAR(20)  NOT NULL,
		verification_method VARCHAR(50)  NOT NULL,
		verified_by         VARCHAR(100) NOT NULL
	)`,
}

// GetConnection opens the MySQL handle described by the DB_* environment
// variables and verifies it with a ping. The caller owns the handle and closes
// it on shutdown.
func GetConnection() (*sql.DB, error) {
	cfg := mysql.NewConfig()
	cfg.User = envOr("DB_USER", "root")
	cfg.Passwd = os.Getenv("DB_PASS")
	cfg.Net = "tcp"
	cfg.Addr = envOr("DB_HOST", "localhost") + ":" + envOr("DB_PORT", "3306")
	cfg.DBName = envOr("DB_NAME", "identity_verification")
	cfg.ParseTime = true // DATETIME columns scan into time.Time
	cfg.Loc = time.UTC

	db, err := sql.Open("mysql", cfg.FormatDSN())
	if err != nil {
		return nil, err
	}

	db.SetConnMaxLifetime(3 * time.Minute)
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(10)

	if err := db.Ping(); err != nil {
		return nil, err
	}

	return db, nil
}

// InitSchema creates both tables when they are absent. The schema is fixed;
// there is no migration story beyond this.
func InitSchema(db *sql.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("creating schema: %w", err)
		}
	}
	return nil
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
