package config

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/srgjo27/hotel_booking/internal/platform/database"
)

const (
	StorePostgres = "postgres"
	StoreMemory   = "memory"
)

type HTTP struct {
	Addr           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	AllowedOrigins []string
}

type Redis struct {
	Enabled  bool
	Host     string
	Port     string
	DB       int
	QuoteTTL time.Duration
}

type Tx struct {
	MaxAttempts int
	BaseDelay   time.Duration
}

type Log struct {
	Level  string
	Format string
}

type Config struct {
	HTTP           HTTP
	RequestTimeout time.Duration
	Store          string
	DB             database.Config
	Migrate        bool
	Redis          Redis
	Tx             Tx
	Log            Log
}

// LoadEnv copies KEY=VALUE lines from filepath into the process environment.
// A missing file is not an error. Variables already set are overwritten.
func LoadEnv(filepath string) error {
	file, err := os.Open(filepath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}

		return fmt.Errorf("open %s: %w", filepath, err)
	}

	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		parts := strings.SplitN(line, "=", 2)
		if len(parts) == 2 {
			key := strings.TrimSpace(parts[0])
			value := strings.TrimSpace(parts[1])

			if err := os.Setenv(key, value); err != nil {
				return fmt.Errorf("set %s: %w", key, err)
			}
		}
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("read %s: %w", filepath, err)
	}

	return nil
}

// Load reads the configuration from the environment, applying defaults for
// empty variables.
func Load() (Config, error) {
	r := &reader{}

	cfg := Config{
		HTTP: HTTP{
			Addr:           r.str("HTTP_ADDR", ":8080"),
			ReadTimeout:    r.duration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout:   r.duration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:    r.duration("HTTP_IDLE_TIMEOUT", 120*time.Second),
			AllowedOrigins: r.list("CORS_ALLOWED_ORIGINS", []string{"*"}),
		},
		RequestTimeout: r.duration("REQUEST_TIMEOUT", 5*time.Second),
		Store:          r.str("STORE", StorePostgres),
		DB: database.Config{
			Driver:          r.str("DB_DRIVER", database.DriverPQ),
			Host:            r.str("DB_HOST", "localhost"),
			Port:            r.str("DB_PORT", "5432"),
			User:            r.str("DB_USER", "postgres"),
			Password:        r.str("DB_PASSWORD", ""),
			DBName:          r.str("DB_NAME", "hotel_booking"),
			SSLMode:         r.str("DB_SSLMODE", "disable"),
			MaxOpenConns:    r.int("DB_MAX_OPEN_CONNS", 25),
			MaxIdleConns:    r.int("DB_MAX_IDLE_CONNS", 25),
			ConnMaxLifetime: r.duration("DB_CONN_MAX_LIFETIME", 5*time.Minute),
			ConnectRetries:  r.int("DB_CONNECT_RETRIES", 10),
			RetryInterval:   2 * time.Second,
		},
		Migrate: r.bool("DB_MIGRATE", true),
		Redis: Redis{
			Enabled:  r.bool("REDIS_ENABLED", false),
			Host:     r.str("REDIS_HOST", "localhost"),
			Port:     r.str("REDIS_PORT", "6379"),
			DB:       r.int("REDIS_DB", 0),
			QuoteTTL: r.duration("QUOTE_CACHE_TTL", 10*time.Minute),
		},
		Tx: Tx{
			MaxAttempts: r.int("TX_MAX_ATTEMPTS", 5),
			BaseDelay:   r.duration("TX_BASE_DELAY", 10*time.Millisecond),
		},
		Log: Log{
			Level:  r.str("LOG_LEVEL", "info"),
			Format: r.str("LOG_FORMAT", "json"),
		},
	}

	if r.err != nil {
		return Config{}, r.err
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

func (c Config) validate() error {
	switch c.Store {
	case StorePostgres, StoreMemory:
	default:
		return fmt.Errorf("STORE: unknown store %q, want %s or %s", c.Store, StorePostgres, StoreMemory)
	}

	switch c.DB.Driver {
	case database.DriverPQ, database.DriverPGX:
	default:
		return fmt.Errorf("DB_DRIVER: unknown driver %q, want %s or %s", c.DB.Driver, database.DriverPQ, database.DriverPGX)
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return fmt.Errorf("LOG_FORMAT: unknown format %q, want json or text", c.Log.Format)
	}

	if c.RequestTimeout <= 0 {
		return fmt.Errorf("REQUEST_TIMEOUT: must be positive, got %s", c.RequestTimeout)
	}

	if c.Tx.MaxAttempts <= 0 {
		return fmt.Errorf("TX_MAX_ATTEMPTS: must be positive, got %d", c.Tx.MaxAttempts)
	}

	return nil
}

// reader keeps the first parse failure so Load can report it after building the config.
type reader struct {
	err error
}

func (r *reader) str(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}

	return def
}

func (r *reader) list(key string, def []string) []string {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	var out []string

	for _, item := range strings.Split(v, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}

	return out
}

func (r *reader) int(key string, def int) int {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	n, err := strconv.Atoi(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}

	return n
}

func (r *reader) bool(key string, def bool) bool {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	b, err := strconv.ParseBool(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}

	return b
}

func (r *reader) duration(key string, def time.Duration) time.Duration {
	v := r.str(key, "")
	if v == "" {
		return def
	}

	d, err := time.ParseDuration(v)
	if err != nil {
		r.fail(key, v, err)
		return def
	}

	return d
}

func (r *reader) fail(key, value string, err error) {
	if r.err == nil {
		r.err = fmt.Errorf("%s: invalid value %q: %w", key, value, err)
	}
}
