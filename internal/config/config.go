package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the application
type Config struct {
	AppMode  string
	Port     string
	LogLevel string
	Database DatabaseConfig
	JWT      JWTConfig
	Cookie   CookieConfig
	Search   SearchConfig
	Digest   DigestConfig

	// EnvFileLoaded is false when no .env file was found
	EnvFileLoaded bool
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret           string
	RefreshSecret    string
	AccessTokenMins  int
	RefreshTokenDays int
}

// CookieConfig holds refresh token cookie configuration
type CookieConfig struct {
	Secure   bool
	SameSite string
	Domain   string
}

// SearchConfig holds repledge listing configuration
type SearchConfig struct {
	// Strategy is "remote" (server-side search) or "local" (in-memory)
	Strategy string
	Timeout  time.Duration
	// Location drives day boundaries of date filters
	Location *time.Location
}

// DigestConfig holds the daily digest schedule
type DigestConfig struct {
	Enabled  bool
	Schedule string
}

// Load reads configuration from .env file and environment variables
func Load() (*Config, error) {
	// .env is optional in production
	envLoaded := godotenv.Load() == nil

	// trim spaces for Windows compatibility
	appMode := strings.TrimSpace(getEnv("APP_MODE", "dev"))
	if appMode != "dev" && appMode != "prod" {
		return nil, fmt.Errorf("invalid APP_MODE: '%s' (must be 'dev' or 'prod')", appMode)
	}

	search, err := loadSearchConfig()
	if err != nil {
		return nil, err
	}

	config := &Config{
		AppMode:       appMode,
		Port:          getEnv("PORT", "3000"),
		LogLevel:      getEnv("LOG_LEVEL", defaultLogLevel(appMode)),
		Database:      loadDatabaseConfig(appMode),
		JWT:           loadJWTConfig(appMode),
		Cookie:        loadCookieConfig(appMode),
		Search:        search,
		Digest:        loadDigestConfig(),
		EnvFileLoaded: envLoaded,
	}

	return config, nil
}

func defaultLogLevel(mode string) string {
	if mode == "prod" {
		return "info"
	}
	return "debug"
}

// loadDatabaseConfig loads database config based on mode
func loadDatabaseConfig(mode string) DatabaseConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	return DatabaseConfig{
		Host:     getEnv(prefix+"DB_HOST", "localhost"),
		Port:     getEnv(prefix+"DB_PORT", "3306"),
		User:     getEnv(prefix+"DB_USER", "root"),
		Password: getEnv(prefix+"DB_PASS", ""),
		DBName:   getEnv(prefix+"DB_NAME", "goldloan"),
	}
}

// loadJWTConfig loads JWT config based on mode
func loadJWTConfig(mode string) JWTConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	accessMins, _ := strconv.Atoi(getEnv("ACCESS_TOKEN_MINUTES", "15"))
	refreshDays, _ := strconv.Atoi(getEnv("REFRESH_TOKEN_DAYS", "7"))

	return JWTConfig{
		Secret:           getEnv(prefix+"JWT_SECRET", "default_secret"),
		RefreshSecret:    getEnv(prefix+"JWT_REFRESH_SECRET", "default_refresh_secret"),
		AccessTokenMins:  accessMins,
		RefreshTokenDays: refreshDays,
	}
}

// loadCookieConfig loads cookie config based on mode
func loadCookieConfig(mode string) CookieConfig {
	prefix := "DEV_"
	if mode == "prod" {
		prefix = "PROD_"
	}

	secure, _ := strconv.ParseBool(getEnv(prefix+"COOKIE_SECURE", "false"))

	return CookieConfig{
		Secure:   secure,
		SameSite: getEnv("COOKIE_SAMESITE", "lax"),
		Domain:   getEnv("COOKIE_DOMAIN", ""),
	}
}

// loadSearchConfig loads the repledge listing settings
func loadSearchConfig() (SearchConfig, error) {
	strategy := strings.ToLower(strings.TrimSpace(getEnv("SEARCH_STRATEGY", "remote")))
	if strategy != "remote" && strategy != "local" {
		return SearchConfig{}, fmt.Errorf("invalid SEARCH_STRATEGY: '%s' (must be 'remote' or 'local')", strategy)
	}

	secs, err := strconv.Atoi(getEnv("SEARCH_TIMEOUT_SECONDS", "15"))
	if err != nil || secs < 0 {
		return SearchConfig{}, fmt.Errorf("invalid SEARCH_TIMEOUT_SECONDS: '%s'", os.Getenv("SEARCH_TIMEOUT_SECONDS"))
	}

	tz := getEnv("APP_TIMEZONE", "Asia/Bangkok")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return SearchConfig{}, fmt.Errorf("invalid APP_TIMEZONE '%s': %w", tz, err)
	}

	return SearchConfig{
		Strategy: strategy,
		Timeout:  time.Duration(secs) * time.Second,
		Location: loc,
	}, nil
}

// loadDigestConfig loads the digest job settings
func loadDigestConfig() DigestConfig {
	enabled, err := strconv.ParseBool(getEnv("DIGEST_ENABLED", "true"))
	if err != nil {
		enabled = true
	}
	return DigestConfig{
		Enabled:  enabled,
		Schedule: getEnv("DIGEST_CRON", "30 8 * * *"),
	}
}

// getEnv gets environment variable with default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// IsDev returns true if running in development mode
func (c *Config) IsDev() bool {
	return c.AppMode == "dev"
}

// IsProd returns true if running in production mode
func (c *Config) IsProd() bool {
	return c.AppMode == "prod"
}

// Now returns the current time in the configured search location
func (c *Config) Now() time.Time {
	if c.Search.Location == nil {
		return time.Now()
	}
	return time.Now().In(c.Search.Location)
}

// GetAllowedOrigins returns allowed origins for CORS
func (c *Config) GetAllowedOrigins() string {
	origins := getEnv("ALLOWED_ORIGINS", "")
	if origins == "" {
		if c.IsDev() {
			return "*"
		}
		return "https://ledger.goldloan.local"
	}
	return origins
}
