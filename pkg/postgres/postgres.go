package postgres

import (
	"database/sql"
	"fmt"

	"github.com/devevents-app/devevents/config"
	"github.com/sirupsen/logrus"

	_ "github.com/lib/pq"
)

func NewPostgresDB(cfg *config.DatabaseConfig) (*sql.DB, error) {
	connStr := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		cfg.Host, cfg.Port, cfg.User, cfg.Password, cfg.DBName, cfg.SSLMode,
	)

	db, err := sql.Open("postgres", connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(cfg.MaxOpenConns)
	db.SetMaxIdleConns(cfg.MaxIdleConns)
	db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	logrus.Info("Successfully connected to PostgreSQL")
	return db, nil
}

func RunMigrations(db *sql.DB) error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS events (
			id UUID PRIMARY KEY,
			title VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL,
			description TEXT NOT NULL,
			overview TEXT NOT NULL,
			image TEXT NOT NULL,
			venue VARCHAR(255) NOT NULL,
			location VARCHAR(255) NOT NULL,
			date VARCHAR(10) NOT NULL,
			time VARCHAR(5) NOT NULL,
			mode VARCHAR(10) NOT NULL,
			audience TEXT NOT NULL,
			agenda TEXT[] NOT NULL,
			organizer VARCHAR(255) NOT NULL,
			tags TEXT[] NOT NULL,
			created_by VARCHAR(255) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			CONSTRAINT events_slug_key UNIQUE (slug)
		)`,

		// event_id is a weak reference: existence is checked at booking
		// time and event deletion cancels its bookings explicitly.
		`CREATE TABLE IF NOT EXISTS bookings (
			id UUID PRIMARY KEY,
			event_id UUID NOT NULL,
			user_id VARCHAR(255),
			user_name VARCHAR(255),
			email VARCHAR(255) NOT NULL,
			status VARCHAR(10) NOT NULL DEFAULT 'confirmed',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		// Closes the check-then-create race on duplicate registrations:
		// only one confirmed booking per (event, email) can ever commit.
		// Cancelled rows stay out of the index, so re-registration after
		// cancellation is allowed.
		`CREATE UNIQUE INDEX IF NOT EXISTS idx_bookings_confirmed_registration
			ON bookings(event_id, email) WHERE status = 'confirmed'`,

		// Indexes
		`CREATE INDEX IF NOT EXISTS idx_events_created_by ON events(created_by)`,
		`CREATE INDEX IF NOT EXISTS idx_events_date ON events(date)`,
		`CREATE INDEX IF NOT EXISTS idx_events_tags ON events USING GIN (tags)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_event_id ON bookings(event_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_user_id ON bookings(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_email ON bookings(email)`,
		`CREATE INDEX IF NOT EXISTS idx_bookings_event_status ON bookings(event_id, status)`,
	}

	for _, migration := range migrations {
		if _, err := db.Exec(migration); err != nil {
			return fmt.Errorf("failed to execute migration: %w", err)
		}
	}

	logrus.Info("Database migrations completed successfully")
	return nil
}
