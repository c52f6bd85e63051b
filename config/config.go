package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

const (
	DriverMongo  = "mongo"
	DriverSQLite = "sqlite"
)

type Config struct {
	Port           string
	Env            string
	StoreDriver    string
	DatabaseURL    string
	DatabaseName   string
	Collection     string
	StoreTimeout   time.Duration
	ConnectTimeout time.Duration
	LivenessEvery  time.Duration
	RateLimit      int
}

var AppConfig *Config

// Load reads .env and the environment into AppConfig. A missing store
// endpoint or database name is fatal.
func Load() {
	_ = godotenv.Load()

	cfg, err := FromEnv()
	if err != nil {
		log.Fatal(err)
	}
	AppConfig = cfg
}

// FromEnv builds and validates a Config from the current environment.
func FromEnv() (*Config, error) {
	storeTimeout, err := GetDuration("STORE_TIMEOUT", 5*time.Second)
	if err != nil {
		return nil, err
	}
	connectTimeout, err := GetDuration("CONNECT_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	livenessEvery, err := GetDuration("LIVENESS_INTERVAL", 15*time.Second)
	if err != nil {
		return nil, err
	}
	rateLimit, err := strconv.Atoi(GetEnv("RATE_LIMIT_PER_MINUTE", "200"))
	if err != nil {
		return nil, fmt.Errorf("RATE_LIMIT_PER_MINUTE must be an integer: %w", err)
	}

	cfg := &Config{
		Port:           GetEnv("SERVER_PORT", GetEnv("PORT", "3005")),
		Env:            GetEnv("ENV", "development"),
		StoreDriver:    GetEnv("STORE_DRIVER", DriverMongo),
		DatabaseURL:    GetEnv("DATABASE_URL", ""),
		DatabaseName:   GetEnv("DATABASE_NAME", ""),
		Collection:     GetEnv("ITEMS_COLLECTION", "items"),
		StoreTimeout:   storeTimeout,
		ConnectTimeout: connectTimeout,
		LivenessEvery:  livenessEvery,
		RateLimit:      rateLimit,
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports the first configuration problem, if any.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}
	if c.DatabaseName == "" {
		return fmt.Errorf("DATABASE_NAME is required")
	}
	if c.Collection == "" {
		return fmt.Errorf("ITEMS_COLLECTION must not be empty")
	}
	if c.StoreDriver != DriverMongo && c.StoreDriver != DriverSQLite {
		return fmt.Errorf("STORE_DRIVER must be %q or %q, got %q", DriverMongo, DriverSQLite, c.StoreDriver)
	}
	if c.StoreTimeout <= 0 || c.ConnectTimeout <= 0 || c.LivenessEvery <= 0 {
		return fmt.Errorf("STORE_TIMEOUT, CONNECT_TIMEOUT and LIVENESS_INTERVAL must be positive")
	}
	if c.RateLimit <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_MINUTE must be positive")
	}
	return nil
}

func GetEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// GetDuration parses key as a Go duration such as "5s".
func GetDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("%s must be a duration: %w", key, err)
	}
	return d, nil
}
