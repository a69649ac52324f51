package config

import (
	"errors"
	"fmt"
	"log"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server       ServerConfig       `yaml:"server"`
	Database     DatabaseConfig     `yaml:"database"`
	Images       ImagesConfig       `yaml:"images"`
	Catalog      CatalogConfig      `yaml:"catalog"`
	Reservations ReservationsConfig `yaml:"reservations"`
	Logging      LoggingConfig      `yaml:"logging"`
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port              int           `yaml:"port"`
	RateLimitPerSec   float64       `yaml:"rate_limit_per_sec"`
	RateLimitBurst    int           `yaml:"rate_limit_burst"`
	CacheTTLSeconds   int           `yaml:"cache_ttl_seconds"`
	CacheTTL          time.Duration `yaml:"-"` // Derived from CacheTTLSeconds
	SessionTTLMinutes int           `yaml:"session_ttl_minutes"`
	SessionTTL        time.Duration `yaml:"-"` // Derived from SessionTTLMinutes
	SecureCookies     bool          `yaml:"secure_cookies"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // postgres or sqlite
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	LogQueries             bool   `yaml:"log_queries"`
}

// ImagesConfig maps stored image paths to the URL prefix they are served under.
type ImagesConfig struct {
	StorageRootPrefix string `yaml:"storage_root_prefix"`
	WebPathPrefix     string `yaml:"web_path_prefix"`
	// Directory is served under WebPathPrefix. Empty disables static serving.
	Directory string `yaml:"directory"`
}

// CatalogConfig holds the catalog browsing behavior.
type CatalogConfig struct {
	IncludeDescendants bool `yaml:"include_descendants"`
}

// ReservationsConfig selects where reservation lists come from.
type ReservationsConfig struct {
	Source string `yaml:"source"` // database or mock
	Seed   int64  `yaml:"seed"`   // mock only, 0 seeds from the clock
}

// LoggingConfig holds the logger settings.
type LoggingConfig struct {
	Level     string `yaml:"level"`
	Format    string `yaml:"format"`
	Directory string `yaml:"directory"`
}

const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"

	SourceDatabase = "database"
	SourceMock     = "mock"
)

// Load reads the configuration from the given path, fills in defaults and
// validates the result. DATABASE_DSN, when set, overrides database.dsn.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if dsn := os.Getenv("DATABASE_DSN"); dsn != "" {
		cfg.Database.DSN = dsn
	}

	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (cfg *Config) applyDefaults() {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 8080
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 300
	}
	cfg.Server.CacheTTL = time.Duration(cfg.Server.CacheTTLSeconds) * time.Second

	if cfg.Server.SessionTTLMinutes <= 0 {
		cfg.Server.SessionTTLMinutes = 30
	}
	cfg.Server.SessionTTL = time.Duration(cfg.Server.SessionTTLMinutes) * time.Minute

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = DriverPostgres
	}
	if cfg.Database.MaxOpenConns <= 0 {
		cfg.Database.MaxOpenConns = 10
	}
	if cfg.Database.MaxIdleConns <= 0 {
		cfg.Database.MaxIdleConns = 5
	}
	if cfg.Database.ConnMaxLifetimeMinutes <= 0 {
		cfg.Database.ConnMaxLifetimeMinutes = 30
	}

	if cfg.Images.WebPathPrefix == "" {
		cfg.Images.WebPathPrefix = "/images/"
	}

	if cfg.Reservations.Source == "" {
		log.Printf("reservations.source is not set; defaulting to %q", SourceDatabase)
		cfg.Reservations.Source = SourceDatabase
	}

	if cfg.Logging.Level == "" {
		cfg.Logging.Level = "info"
	}
	if cfg.Logging.Format == "" {
		cfg.Logging.Format = "text"
	}
}

// Validate rejects settings the application cannot run with.
func (cfg *Config) Validate() error {
	var errs []error

	switch cfg.Database.Driver {
	case DriverPostgres, DriverSQLite:
	default:
		errs = append(errs, fmt.Errorf("database.driver must be %q or %q, got %q", DriverPostgres, DriverSQLite, cfg.Database.Driver))
	}
	if cfg.Database.DSN == "" {
		errs = append(errs, errors.New("database.dsn is required"))
	}

	switch cfg.Reservations.Source {
	case SourceDatabase, SourceMock:
	default:
		errs = append(errs, fmt.Errorf("reservations.source must be %q or %q, got %q", SourceDatabase, SourceMock, cfg.Reservations.Source))
	}

	if cfg.Images.Directory != "" && (cfg.Images.WebPathPrefix == "/" || !strings.HasPrefix(cfg.Images.WebPathPrefix, "/")) {
		errs = append(errs, fmt.Errorf("images.web_path_prefix must be an absolute path below /, got %q", cfg.Images.WebPathPrefix))
	}

	return errors.Join(errs...)
}
