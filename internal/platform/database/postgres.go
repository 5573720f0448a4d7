package database

import (
	"context"
	"fmt"
	"net/url"
	"time"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"github.com/srgjo27/hotel_booking/internal/core/ports"
)

const (
	DriverPQ  = "postgres"
	DriverPGX = "pgx"
)

type Config struct {
	Driver          string
	Host            string
	Port            string
	User            string
	Password        string
	DBName          string
	SSLMode         string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
	ConnectRetries  int
	RetryInterval   time.Duration
}

func (cfg Config) DSN() string {
	sslMode := cfg.SSLMode
	if sslMode == "" {
		sslMode = "disable"
	}

	u := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(cfg.User, cfg.Password),
		Host:     fmt.Sprintf("%s:%s", cfg.Host, cfg.Port),
		Path:     cfg.DBName,
		RawQuery: url.Values{"sslmode": []string{sslMode}}.Encode(),
	}

	return u.String()
}

// NewPostgresDB opens a pool and pings it, retrying while the server is not ready yet.
func NewPostgresDB(ctx context.Context, cfg Config, l ports.Logger) (*sqlx.DB, error) {
	driver := cfg.Driver
	if driver == "" {
		driver = DriverPQ
	}

	maxRetries := cfg.ConnectRetries
	if maxRetries <= 0 {
		maxRetries = 1
	}

	var (
		db  *sqlx.DB
		err error
	)

	for i := 1; i <= maxRetries; i++ {
		l.Info("connecting to database", "attempt", i, "max_attempts", maxRetries, "driver", driver, "host", cfg.Host)

		db, err = sqlx.Open(driver, cfg.DSN())
		if err == nil {
			err = db.PingContext(ctx)
		}

		if err == nil {
			db.SetMaxOpenConns(cfg.MaxOpenConns)
			db.SetMaxIdleConns(cfg.MaxIdleConns)
			db.SetConnMaxLifetime(cfg.ConnMaxLifetime)

			l.Info("database connected")

			return db, nil
		}

		if db != nil {
			_ = db.Close()
		}

		if i == maxRetries {
			break
		}

		l.Warn("database not ready yet", "error", err.Error(), "retry_in", cfg.RetryInterval.String())

		select {
		case <-time.After(cfg.RetryInterval):
		case <-ctx.Done():
			return nil, fmt.Errorf("connect database: %w", ctx.Err())
		}
	}

	return nil, fmt.Errorf("connect database after %d attempts: %w", maxRetries, err)
}
