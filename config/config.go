package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"github.com/sirupsen/logrus"
)

// Config holds every setting the service reads from the environment.
type Config struct {
	Port string

	DBDriver   string
	DBPath     string
	DBHost     string
	DBPort     int
	DBUser     string
	DBPassword string
	DBName     string
	DBSSLMode  string
	// DatabaseURL overrides the individual DB_* settings when set.
	DatabaseURL string

	UploadFolder string
	SecretKey    string

	LogFile  string
	LogLevel string
}

// Load reads .env (when present) and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logrus.Info("No .env file found, using system environment variables.")
	}

	cfg := &Config{
		Port:         getenv("PORT", "8000"),
		DBDriver:     getenv("DB_DRIVER", "sqlite"),
		DBPath:       getenv("DB_PATH", "var/photofeed.sqlite3"),
		DBHost:       os.Getenv("DB_HOST"),
		DBUser:       os.Getenv("DB_USER"),
		DBPassword:   os.Getenv("DB_PASSWORD"),
		DBName:       os.Getenv("DB_NAME"),
		DBSSLMode:    getenv("DB_SSLMODE", "disable"),
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		UploadFolder: getenv("UPLOAD_FOLDER", "var/uploads"),
		SecretKey:    os.Getenv("SECRET_KEY"),
		LogFile:      os.Getenv("LOG_FILE"),
		LogLevel:     getenv("LOG_LEVEL", "info"),
	}

	if p := os.Getenv("DB_PORT"); p != "" {
		port, err := strconv.Atoi(p)
		if err != nil {
			return nil, fmt.Errorf("invalid DB_PORT %q: %w", p, err)
		}
		cfg.DBPort = port
	} else {
		cfg.DBPort = 5432
	}

	switch cfg.DBDriver {
	case "sqlite", "postgres":
	default:
		return nil, fmt.Errorf("unsupported DB_DRIVER %q", cfg.DBDriver)
	}

	return cfg, nil
}

// PostgresDSN builds the connection string for the postgres driver.
func (c *Config) PostgresDSN() (string, error) {
	if c.DatabaseURL != "" {
		return c.DatabaseURL, nil
	}
	if c.DBHost == "" || c.DBUser == "" || c.DBName == "" {
		return "", fmt.Errorf("DATABASE_URL or DB_HOST, DB_USER and DB_NAME must be set")
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DBHost, c.DBPort, c.DBUser, quoteDSNValue(c.DBPassword), c.DBName, c.DBSSLMode), nil
}

// quoteDSNValue quotes v for a libpq key=value connection string.
func quoteDSNValue(v string) string {
	r := strings.NewReplacer(`\`, `\\`, `'`, `\'`)
	return "'" + r.Replace(v) + "'"
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
