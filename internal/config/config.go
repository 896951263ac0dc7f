package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds application configuration. It is loaded once at startup and
// passed by value into components; business logic never reads the environment.
type Config struct {
	AppName     string
	AppVersion  string
	Environment string
	Port        string

	CountriesAPI   string
	ExchangeAPI    string
	RefreshTimeout time.Duration
	CacheDir       string

	DBType        string
	DBHost        string
	DBPort        string
	DBName        string
	DBUser        string
	DBPassword    string
	DBSSLMode     string
	DBMaxIdleConn int
	DBMaxOpenConn int
}

// Load loads configuration from environment variables and an optional .env file.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		AppName:     getenv("APP_SERVICE", "countrysync"),
		AppVersion:  getenv("APP_VERSION", "0.1.0"),
		Environment: getenv("ENVIRONMENT", "development"),
		Port:        getenv("PORT", "8080"),

		CountriesAPI:   getenv("EXTERNAL_COUNTRIES_API", "https://restcountries.com/v2/all"),
		ExchangeAPI:    getenv("EXTERNAL_EXCHANGE_API", "https://open.er-api.com/v6/latest/USD"),
		RefreshTimeout: time.Duration(getenvInt("REFRESH_TIMEOUT_MS", 15000)) * time.Millisecond,
		CacheDir:       getenv("CACHE_DIR", "./cache"),

		DBType:        getenv("DATABASE_TYPE", "postgres"),
		DBHost:        getenv("DATABASE_HOST", "localhost"),
		DBPort:        getenv("DATABASE_PORT", "5432"),
		DBName:        getenv("DATABASE_NAME", "countrysync"),
		DBUser:        getenv("DATABASE_USER", "postgres"),
		DBPassword:    getenv("DATABASE_PASSWORD", ""),
		DBSSLMode:     getenv("DATABASE_SSLMODE", "disable"),
		DBMaxIdleConn: getenvInt("DATABASE_MAX_IDLE_CONN", 5),
		DBMaxOpenConn: getenvInt("DATABASE_MAX_OPEN_CONN", 10),
	}
}

// SummaryImagePath is where the rendered summary image lives under the cache dir.
func (c Config) SummaryImagePath() string {
	return strings.TrimRight(c.CacheDir, "/") + "/summary.png"
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	value := strings.TrimSpace(os.Getenv(key))
	if value == "" {
		return def
	}
	parsed, err := strconv.Atoi(value)
	if err != nil {
		return def
	}
	return parsed
}
