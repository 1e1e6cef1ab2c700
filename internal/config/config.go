package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Store drivers accepted by STORE_DRIVER.
const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMySQL    = "mysql"
	DriverMemory   = "memory"
)

type Config struct {
	App struct {
		Name      string `envconfig:"APP_NAME" default:"PDV"`
		Port      int    `envconfig:"PORT" default:"3001"`
		StaticDir string `envconfig:"STATIC_DIR" default:"dist"`
		Seed      bool   `envconfig:"SEED_SAMPLE_DATA" default:"true"`
	}

	Store struct {
		Driver     string `envconfig:"STORE_DRIVER" default:"sqlite"`
		SQLitePath string `envconfig:"SQLITE_PATH" default:"pdv.db"`
		MySQLDSN   string `envconfig:"MYSQL_DSN" default:"pdv:pdv@tcp(localhost:3306)/pdv?parseTime=true"`
	}

	DB struct {
		Host     string `envconfig:"DB_HOST" default:"localhost"`
		Port     int    `envconfig:"DB_PORT" default:"5432"`
		User     string `envconfig:"DB_USER" default:"postgres"`
		Password string `envconfig:"DB_PASSWORD" default:""`
		Name     string `envconfig:"DB_NAME" default:"pdv"`
	}

	Server struct {
		Timeout        time.Duration `envconfig:"SERVER_TIMEOUT" default:"30s"`
		AllowedOrigins []string      `envconfig:"CORS_ALLOWED_ORIGINS" default:"*"`
	}

	Stock struct {
		LowThreshold int           `envconfig:"LOW_STOCK_THRESHOLD" default:"2"`
		Debounce     time.Duration `envconfig:"LOW_STOCK_DEBOUNCE" default:"2s"`
	}

	Auth struct {
		// Empty secret disables authentication on the API.
		Secret   string        `envconfig:"AUTH_SECRET"`
		PINHash  string        `envconfig:"AUTH_PIN_HASH"`
		TokenTTL time.Duration `envconfig:"AUTH_TOKEN_TTL" default:"12h"`
	}
}

func (c *Config) ConnectionString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.DB.User, c.DB.Password, c.DB.Host, c.DB.Port, c.DB.Name)
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process config: %w", err)
	}

	switch cfg.Store.Driver {
	case DriverSQLite, DriverPostgres, DriverMySQL, DriverMemory:
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.Store.Driver)
	}

	return &cfg, nil
}
