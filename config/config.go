package config

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"
)

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
	DriverMongo    = "mongo"

	defaultDatabaseURL = "file:tasks.db?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)"
)

type Config struct {
	ServerPort string

	StoreDriver string
	DatabaseURL string
	MongoURI    string
	MongoDBName string

	SessionSecret []byte
	// GeneratedSecret is set when SESSION_SECRET was empty and a random key was used.
	GeneratedSecret bool
	SessionTTL      time.Duration
	CookieSecure    bool
	BcryptCost      int
	// PasswordBlacklistFile lists passwords refused at registration, one per line. Empty disables the check.
	PasswordBlacklistFile string

	LogFile  string
	LogLevel string
}

// Load reads the given .env files (missing files are skipped) and then the process environment.
// Variables already present in the environment win over .env values.
func Load(envFiles ...string) (*Config, error) {
	if len(envFiles) == 0 {
		envFiles = []string{".env"}
	}
	for _, f := range envFiles {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("loading %s: %w", f, err)
		}
	}

	cfg := &Config{
		ServerPort:  getEnv("SERVER_PORT", "8080"),
		StoreDriver: getEnv("STORE_DRIVER", DriverSQLite),
		DatabaseURL: getEnv("DATABASE_URL", defaultDatabaseURL),
		MongoURI:    getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName: getEnv("MONGO_DB_NAME", "tasks_db"),
		LogFile:     os.Getenv("LOG_FILE"),

		PasswordBlacklistFile: os.Getenv("PASSWORD_BLACKLIST_FILE"),
		LogLevel:    getEnv("LOG_LEVEL", "info"),
	}

	switch cfg.StoreDriver {
	case DriverSQLite, DriverPostgres, DriverMongo:
	default:
		return nil, fmt.Errorf("STORE_DRIVER must be one of %s, %s, %s; got %q",
			DriverSQLite, DriverPostgres, DriverMongo, cfg.StoreDriver)
	}

	if secret := os.Getenv("SESSION_SECRET"); secret != "" {
		cfg.SessionSecret = []byte(secret)
	} else {
		key := make([]byte, 32)
		if _, err := rand.Read(key); err != nil {
			return nil, fmt.Errorf("generating session secret: %w", err)
		}
		cfg.SessionSecret = []byte(hex.EncodeToString(key))
		cfg.GeneratedSecret = true
	}

	var err error
	if cfg.SessionTTL, err = time.ParseDuration(getEnv("SESSION_TTL", "24h")); err != nil {
		return nil, fmt.Errorf("invalid SESSION_TTL: %w", err)
	}
	if cfg.SessionTTL <= 0 {
		return nil, fmt.Errorf("SESSION_TTL must be positive")
	}
	if cfg.CookieSecure, err = strconv.ParseBool(getEnv("COOKIE_SECURE", "false")); err != nil {
		return nil, fmt.Errorf("invalid COOKIE_SECURE: %w", err)
	}
	if cfg.BcryptCost, err = strconv.Atoi(getEnv("BCRYPT_COST", strconv.Itoa(bcrypt.DefaultCost))); err != nil {
		return nil, fmt.Errorf("invalid BCRYPT_COST: %w", err)
	}
	if cfg.BcryptCost < bcrypt.MinCost || cfg.BcryptCost > bcrypt.MaxCost {
		return nil, fmt.Errorf("BCRYPT_COST must be between %d and %d", bcrypt.MinCost, bcrypt.MaxCost)
	}

	return cfg, nil
}

// Addr is the listen address for the HTTP server.
func (c *Config) Addr() string {
	return ":" + c.ServerPort
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
