package config

import (
	"os"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Config holds every process-wide setting. It is filled once at startup
// and passed into constructors, never mutated afterwards.
type Config struct {
	DBDriver         string
	DSN              string
	JWTSecret        []byte
	TokenLifetime    time.Duration
	RefreshThreshold time.Duration
	Port             string
}

// Load reads configuration from environment variables with sensible
// development defaults.
func Load() Config {
	return Config{
		DBDriver:         getEnv("DB_DRIVER", "mysql"),
		DSN:              getEnv("DATABASE_DSN", "root:root@tcp(127.0.0.1:3306)/mealy?charset=utf8mb4&parseTime=True&loc=Local"),
		JWTSecret:        []byte(getEnv("JWT_SECRET", "MealySecretKeyAUTH2024")),
		TokenLifetime:    getDuration("TOKEN_LIFETIME", 5*time.Hour),
		RefreshThreshold: getDuration("REFRESH_THRESHOLD", 30*time.Minute),
		Port:             getEnv("PORT", "8080"),
	}
}

// OpenDB connects to the configured database. MySQL is the production
// driver; SQLite is kept for local runs and tests.
func OpenDB(cfg Config) (*gorm.DB, error) {
	gormCfg := &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Warn),
		TranslateError: true,
	}

	if cfg.DBDriver == "sqlite" {
		return gorm.Open(sqlite.Open(cfg.DSN), gormCfg)
	}
	return gorm.Open(mysql.Open(cfg.DSN), gormCfg)
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}
