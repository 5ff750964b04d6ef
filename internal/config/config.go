package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"
)

var ErrInvalidConfig = errors.New("invalid configuration")

type Config struct {
	Env        string           `yaml:"env"`        // Env is the current environment: local, development, production.
	Storage    StorageConfig    `yaml:"storage"`    // Storage selects the employee store.
	Postgres   PostgresConfig   `yaml:"postgres"`   // Postgres holds the database configuration.
	HTTP       HTTPConfig       `yaml:"http"`       // HTTP holds the API server configuration.
	Migrations MigrationsConfig `yaml:"migrations"` // Migrations holds the goose configuration.
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver string `yaml:"driver"` // Driver is either "postgres" or "memory".
}

// PostgresConfig struct holds the configuration details for connecting to a PostgreSQL database.
type PostgresConfig struct {
	Host     string `yaml:"host"`     // Host is the database server address.
	Port     string `yaml:"port"`     // Port is the database server port.
	User     string `yaml:"user"`     // User is the database user.
	Password string `yaml:"password"` // Password is the database user's password.
	Dbname   string `yaml:"db_name"`  // Dbname is the name of the database.
}

// DSN returns the connection string for pgx.
func (p PostgresConfig) DSN() string {
	dsn := url.URL{
		Scheme:   "postgres",
		User:     url.UserPassword(p.User, p.Password),
		Host:     net.JoinHostPort(p.Host, p.Port),
		Path:     p.Dbname,
		RawQuery: "sslmode=disable",
	}

	return dsn.String()
}

// HTTPConfig holds the API server settings.
type HTTPConfig struct {
	Address           string        `yaml:"address"`
	ReadTimeout       time.Duration `yaml:"read_timeout"`
	WriteTimeout      time.Duration `yaml:"write_timeout"`
	IdleTimeout       time.Duration `yaml:"idle_timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout"`
	ShutdownTimeout   time.Duration `yaml:"shutdown_timeout"`
	MaxBodyBytes      int64         `yaml:"max_body_bytes"`
	LegacyWriteRoutes bool          `yaml:"legacy_write_routes"` // serve PUT/DELETE on /employees/{id} as well
}

// MigrationsConfig holds the goose settings.
type MigrationsConfig struct {
	Dir  string `yaml:"dir"`
	Auto bool   `yaml:"auto"` // apply migrations when the server starts
}

// MustLoad loads the configuration and panics on error.
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		panic("config error: " + err.Error())
	}

	return cfg
}

// Load reads the optional YAML file named by CONFIG_PATH, applies environment overrides and validates the result.
func Load() (*Config, error) {
	vpr := viper.New()
	setDefaults(vpr)

	if err := bindEnv(vpr); err != nil {
		return nil, err
	}

	if configPath := os.Getenv("CONFIG_PATH"); configPath != "" {
		// check if file exists
		if _, err := os.Stat(configPath); os.IsNotExist(err) {
			return nil, fmt.Errorf("config file does not exist: %s", configPath)
		}

		vpr.SetConfigFile(configPath)
		vpr.SetConfigType("yaml")
		if err := vpr.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	cfg := &Config{
		Env: vpr.GetString("env"),
		Storage: StorageConfig{
			Driver: vpr.GetString("storage.driver"),
		},
		Postgres: PostgresConfig{
			Host:     vpr.GetString("postgres.host"),
			Port:     vpr.GetString("postgres.port"),
			User:     vpr.GetString("postgres.user"),
			Password: vpr.GetString("postgres.password"),
			Dbname:   vpr.GetString("postgres.db_name"),
		},
		HTTP: HTTPConfig{
			Address:           vpr.GetString("http.address"),
			ReadTimeout:       vpr.GetDuration("http.read_timeout"),
			WriteTimeout:      vpr.GetDuration("http.write_timeout"),
			IdleTimeout:       vpr.GetDuration("http.idle_timeout"),
			RequestTimeout:    vpr.GetDuration("http.request_timeout"),
			ShutdownTimeout:   vpr.GetDuration("http.shutdown_timeout"),
			MaxBodyBytes:      vpr.GetInt64("http.max_body_bytes"),
			LegacyWriteRoutes: vpr.GetBool("http.legacy_write_routes"),
		},
		Migrations: MigrationsConfig{
			Dir:  vpr.GetString("migrations.dir"),
			Auto: vpr.GetBool("migrations.auto"),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	switch c.Storage.Driver {
	case StorageMemory:
	case StoragePostgres:
		if c.Postgres.Host == "" || c.Postgres.User == "" || c.Postgres.Dbname == "" {
			return fmt.Errorf("%w: postgres host, user and db_name are required", ErrInvalidConfig)
		}
	default:
		return fmt.Errorf("%w: unknown storage driver %q", ErrInvalidConfig, c.Storage.Driver)
	}

	timeouts := []struct {
		key   string
		value time.Duration
	}{
		{"http.read_timeout", c.HTTP.ReadTimeout},
		{"http.write_timeout", c.HTTP.WriteTimeout},
		{"http.idle_timeout", c.HTTP.IdleTimeout},
		{"http.request_timeout", c.HTTP.RequestTimeout},
		{"http.shutdown_timeout", c.HTTP.ShutdownTimeout},
	}
	for _, timeout := range timeouts {
		if timeout.value <= 0 {
			return fmt.Errorf("%w: %s must be positive", ErrInvalidConfig, timeout.key)
		}
	}

	if c.HTTP.MaxBodyBytes < 1 {
		return fmt.Errorf("%w: http.max_body_bytes must be positive", ErrInvalidConfig)
	}

	return nil
}

func setDefaults(vpr *viper.Viper) {
	vpr.SetDefault("env", "local")
	vpr.SetDefault("storage.driver", StoragePostgres)
	vpr.SetDefault("postgres.host", "localhost")
	vpr.SetDefault("postgres.port", "5432")
	vpr.SetDefault("http.address", ":8080")
	vpr.SetDefault("http.read_timeout", 10*time.Second)
	vpr.SetDefault("http.write_timeout", 10*time.Second)
	vpr.SetDefault("http.idle_timeout", time.Minute)
	vpr.SetDefault("http.request_timeout", 5*time.Second)
	vpr.SetDefault("http.shutdown_timeout", 10*time.Second)
	vpr.SetDefault("http.max_body_bytes", 1<<20)
	vpr.SetDefault("http.legacy_write_routes", true)
	vpr.SetDefault("migrations.dir", "migrations")
	vpr.SetDefault("migrations.auto", false)
}

func bindEnv(vpr *viper.Viper) error {
	bindings := map[string]string{
		"env":                      "EMPLOYEES_ENV",
		"storage.driver":           "STORAGE_DRIVER",
		"postgres.host":            "DB_HOST",
		"postgres.port":            "DB_PORT",
		"postgres.user":            "DB_USERNAME",
		"postgres.password":        "DB_PASSWORD",
		"postgres.db_name":         "DB_NAME",
		"http.address":             "HTTP_ADDRESS",
		"http.read_timeout":        "HTTP_READ_TIMEOUT",
		"http.write_timeout":       "HTTP_WRITE_TIMEOUT",
		"http.idle_timeout":        "HTTP_IDLE_TIMEOUT",
		"http.request_timeout":     "HTTP_REQUEST_TIMEOUT",
		"http.shutdown_timeout":    "HTTP_SHUTDOWN_TIMEOUT",
		"http.max_body_bytes":      "HTTP_MAX_BODY_BYTES",
		"http.legacy_write_routes": "HTTP_LEGACY_WRITE_ROUTES",
		"migrations.dir":           "MIGRATIONS_DIR",
		"migrations.auto":          "MIGRATIONS_AUTO",
	}

	for key, env := range bindings {
		if err := vpr.BindEnv(key, env); err != nil {
			return fmt.Errorf("failed to bind %s to %s: %w", key, env, err)
		}
	}

	return nil
}
