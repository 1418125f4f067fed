package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	DriverPostgres = "postgres"
	DriverBadger   = "badger"

	// multipartHeadroom covers form boundaries and part headers around an upload
	multipartHeadroom = 1024 * 1024
)

type Config struct {
	Port              int           `env:"PORT,default=8080"`
	AllowOrigins      string        `env:"ALLOW_ORIGINS,default=http://localhost:3000"`
	LogLevel          string        `env:"LOG_LEVEL,default=INFO"`
	StoreDriver       string        `env:"STORE_DRIVER,default=postgres"`
	DatabaseURL       string        `env:"DATABASE_URL"`
	BadgerFilepath    string        `env:"BADGER_FILEPATH,default=./data/messages"`
	SeedProfiles      string        `env:"SEED_PROFILES"`
	JWTSecret         string        `env:"JWT_SECRET,required=true"`
	AuthTokenDuration time.Duration `env:"AUTH_TOKEN_DURATION,default=24h"`
	UploadDir         string        `env:"UPLOAD_DIR,default=./uploads"`
	MaxUploadSize     int           `env:"MAX_UPLOAD_SIZE,default=5242880"`
}

// Load reads an optional .env file, then the process environment.
func Load() (Config, error) {
	// A missing .env file is fine, the environment may already be set
	_ = godotenv.Load()

	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return Config{}, fmt.Errorf("config error: %w", err)
	}
	if err := config.Validate(); err != nil {
		return Config{}, err
	}
	return config, nil
}

func (c Config) Validate() error {
	switch c.StoreDriver {
	case DriverPostgres:
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required when STORE_DRIVER=postgres")
		}
	case DriverBadger:
		if c.BadgerFilepath == "" {
			return errors.New("BADGER_FILEPATH is required when STORE_DRIVER=badger")
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q, expected %s or %s", c.StoreDriver, DriverPostgres, DriverBadger)
	}
	if c.MaxUploadSize <= 0 {
		return fmt.Errorf("MAX_UPLOAD_SIZE must be positive, got %d", c.MaxUploadSize)
	}
	return nil
}

// BodyLimit is the request body cap for the HTTP server. It leaves room for
// the multipart envelope so a file of exactly MaxUploadSize still reaches the
// attachment handler, which enforces the real limit.
func (c Config) BodyLimit() int {
	return c.MaxUploadSize + multipartHeadroom
}

func (c Config) Addr() string {
	return fmt.Sprintf(":%d", c.Port)
}
