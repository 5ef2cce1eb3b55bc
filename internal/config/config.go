package config

import (
	"os"
	"path/filepath"
	"strconv"

	_ "github.com/joho/godotenv/autoload"
	"github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// Config holds the process configuration, loaded from the environment (a
// .env file is picked up automatically).
type Config struct {
	Host string
	Port string

	// DatabaseURL is a postgres DSN. When empty the service falls back to a
	// local sqlite file at DBPath.
	DatabaseURL string
	DBPath      string

	MaxOpenConns int
	MaxIdleConns int

	// StatsSchedule is the cron spec for the periodic stats reporter.
	StatsSchedule string

	Env string
}

func LoadConfig() *Config {
	return &Config{
		Host:          getEnv("HOST", "0.0.0.0"),
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   getEnv("DATABASE_URL", ""),
		DBPath:        getEnv("GLOSSARY_DB_PATH", ".db/glossary.db"),
		MaxOpenConns:  getEnvInt("GLOSSARY_DB_MAX_OPEN", 16),
		MaxIdleConns:  getEnvInt("GLOSSARY_DB_MAX_IDLE", 4),
		StatsSchedule: getEnv("GLOSSARY_STATS_SCHEDULE", "@every 10m"),
		Env:           getEnv("ENV", "dev"),
	}
}

// GetDb opens the database handle shared by all request handling goroutines.
// TranslateError is on so the store sees gorm sentinel errors for constraint
// violations regardless of the dialect.
func GetDb(cnf *Config) *gorm.DB {
	var (
		db  *gorm.DB
		err error
	)

	gormConfig := &gorm.Config{TranslateError: true}

	if cnf.DatabaseURL != "" {
		logrus.Infof("connecting to postgres")
		db, err = gorm.Open(postgres.Open(cnf.DatabaseURL), gormConfig)
	} else {
		logrus.Infof("connecting to sqlite at %s", cnf.DBPath)
		if mkErr := os.MkdirAll(filepath.Dir(cnf.DBPath), os.ModePerm); mkErr != nil {
			logrus.Fatalf("error creating database directory: %v", mkErr)
		}
		// _fk=1 enforces the cascade constraints
		db, err = gorm.Open(sqlite.Open(cnf.DBPath+"?_fk=1"), gormConfig)
	}
	if err != nil {
		logrus.Fatalf("error connecting to database: %v", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		logrus.Fatalf("error getting database handle: %v", err)
	}

	sqlDB.SetMaxOpenConns(cnf.MaxOpenConns)
	sqlDB.SetMaxIdleConns(cnf.MaxIdleConns)

	return db
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	value := os.Getenv(key)
	if value == "" {
		return fallback
	}

	n, err := strconv.Atoi(value)
	if err != nil {
		logrus.Warnf("invalid value for %s: %q, using %d", key, value, fallback)
		return fallback
	}

	return n
}
