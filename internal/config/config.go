// internal/config/config.go
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for our application
type Config struct {
	App          AppConfig
	Server       ServerConfig
	Database     DatabaseConfig
	Redis        RedisConfig
	Session      SessionConfig
	Security     SecurityConfig
	Gateway      GatewayConfig
	Discount     DiscountConfig
	Registration RegistrationConfig
	Payment      PaymentConfig
	Logging      LoggingConfig
}

// AppConfig contains application-level configuration
type AppConfig struct {
	Name        string
	Version     string
	Environment string
	Debug       bool
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port           string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
	RequestTimeout time.Duration
}

// DatabaseConfig contains the submission journal database configuration
type DatabaseConfig struct {
	Enabled      bool
	Host         string
	Port         string
	Name         string
	User         string
	Password     string
	SSLMode      string
	MaxOpenConns int
	MaxIdleConns int
	MaxLifetime  time.Duration
}

// RedisConfig contains Redis configuration
type RedisConfig struct {
	Host         string
	Port         string
	Password     string
	DB           int
	PoolSize     int
	MinIdleConns int
}

// SessionConfig contains browser session configuration
type SessionConfig struct {
	Store        string // "redis", or "memory" for an embedded in-process Redis
	Secret       string
	CookieName   string
	TTL          time.Duration
	SecureCookie bool
	InFlightTTL  time.Duration
	CatalogTTL   time.Duration
}

// SecurityConfig contains security-related configuration
type SecurityConfig struct {
	RateLimitPerMinute int
	CORSAllowedOrigins []string
	CORSAllowedMethods []string
	CORSAllowedHeaders []string
	TrustedProxies     []string
}

// GatewayConfig contains the remote course/order backend configuration
type GatewayConfig struct {
	URL           string // empty selects the built-in local catalog
	Token         string
	Origin        string
	Timeout       time.Duration
	RetryAttempts uint
	RetryDelay    time.Duration
	RetryMaxDelay time.Duration
}

// DiscountConfig contains the group discount rule
type DiscountConfig struct {
	Rate       float64
	MinCourses int
	MinPersons int
}

// RegistrationConfig contains registrant form configuration
type RegistrationConfig struct {
	EducationLevels []string
}

// PaymentConfig contains bank transfer configuration
type PaymentConfig struct {
	DeadlineDays int
	Bank         BankInfo
}

// BankInfo is the account registrants transfer to
type BankInfo struct {
	BankName      string `json:"bank_name"`
	BankCode      string `json:"bank_code"`
	Branch        string `json:"branch"`
	AccountNumber string `json:"account_number"`
	AccountName   string `json:"account_name"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string
	Format string
}

// Load loads configuration from environment variables and .env file
func Load() (*Config, error) {
	// Load .env file if it exists
	if err := godotenv.Load(); err != nil {
		fmt.Println("No .env file found, using environment variables")
	}

	config := &Config{
		App: AppConfig{
			Name:        getEnv("APP_NAME", "Course Registration Storefront"),
			Version:     getEnv("APP_VERSION", "1.0.0"),
			Environment: getEnv("APP_ENV", "development"),
			Debug:       getEnvAsBool("APP_DEBUG", true),
		},
		Server: ServerConfig{
			Port:           getEnv("APP_PORT", "8080"),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 30*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 30*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
			RequestTimeout: getEnvAsDuration("SERVER_REQUEST_TIMEOUT", 30*time.Second),
		},
		Database: DatabaseConfig{
			Enabled:      getEnvAsBool("DB_ENABLED", false),
			Host:         getEnv("DB_HOST", "localhost"),
			Port:         getEnv("DB_PORT", "5432"),
			Name:         getEnv("DB_NAME", "storefront_db"),
			User:         getEnv("DB_USER", "storefront_user"),
			Password:     getEnv("DB_PASSWORD", "storefront_password"),
			SSLMode:      getEnv("DB_SSL_MODE", "disable"),
			MaxOpenConns: getEnvAsInt("DB_MAX_OPEN_CONNS", 10),
			MaxIdleConns: getEnvAsInt("DB_MAX_IDLE_CONNS", 2),
			MaxLifetime:  getEnvAsDuration("DB_MAX_LIFETIME", 300*time.Second),
		},
		Redis: RedisConfig{
			Host:         getEnv("REDIS_HOST", "localhost"),
			Port:         getEnv("REDIS_PORT", "6379"),
			Password:     getEnv("REDIS_PASSWORD", ""),
			DB:           getEnvAsInt("REDIS_DB", 0),
			PoolSize:     getEnvAsInt("REDIS_POOL_SIZE", 10),
			MinIdleConns: getEnvAsInt("REDIS_MIN_IDLE_CONNS", 2),
		},
		Session: SessionConfig{
			Store:        getEnv("SESSION_STORE", "redis"),
			Secret:       getEnv("SESSION_SECRET", "change-this-session-secret-in-production"),
			CookieName:   getEnv("SESSION_COOKIE_NAME", "storefront_session"),
			TTL:          getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			SecureCookie: getEnvAsBool("SESSION_SECURE_COOKIE", false),
			InFlightTTL:  getEnvAsDuration("SESSION_INFLIGHT_TTL", 2*time.Minute),
			CatalogTTL:   getEnvAsDuration("CATALOG_CACHE_TTL", 30*time.Second),
		},
		Security: SecurityConfig{
			RateLimitPerMinute: getEnvAsInt("RATE_LIMIT_PER_MINUTE", 120),
			CORSAllowedOrigins: getEnvAsSlice("CORS_ALLOWED_ORIGINS", []string{"http://localhost:3000"}),
			CORSAllowedMethods: getEnvAsSlice("CORS_ALLOWED_METHODS", []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}),
			CORSAllowedHeaders: getEnvAsSlice("CORS_ALLOWED_HEADERS", []string{"Origin", "Content-Type", "Accept"}),
			TrustedProxies:     getEnvAsSlice("TRUSTED_PROXIES", []string{}),
		},
		Gateway: GatewayConfig{
			URL:           getEnv("GATEWAY_URL", ""),
			Token:         getEnv("GATEWAY_TOKEN", ""),
			Origin:        getEnv("GATEWAY_ORIGIN", "http://localhost:3000"),
			Timeout:       getEnvAsDuration("GATEWAY_TIMEOUT", 15*time.Second),
			RetryAttempts: uint(getEnvAsInt("GATEWAY_RETRY_ATTEMPTS", 3)),
			RetryDelay:    getEnvAsDuration("GATEWAY_RETRY_DELAY", 200*time.Millisecond),
			RetryMaxDelay: getEnvAsDuration("GATEWAY_RETRY_MAX_DELAY", 2*time.Second),
		},
		Discount: DiscountConfig{
			Rate:       getEnvAsFloat("DISCOUNT_RATE", 0.8),
			MinCourses: getEnvAsInt("DISCOUNT_MIN_COURSES", 2),
			MinPersons: getEnvAsInt("DISCOUNT_MIN_PERSONS", 2),
		},
		Registration: RegistrationConfig{
			EducationLevels: getEnvAsSlice("EDUCATION_LEVELS", []string{
				"Junior high or below",
				"Senior/vocational high",
				"Junior college",
				"Bachelor",
				"Master",
				"Doctorate",
			}),
		},
		Payment: PaymentConfig{
			DeadlineDays: getEnvAsInt("PAYMENT_DEADLINE_DAYS", 1),
			Bank: BankInfo{
				BankName:      getEnv("BANK_NAME", "Taiwan Cooperative Bank"),
				BankCode:      getEnv("BANK_CODE", "006"),
				Branch:        getEnv("BANK_BRANCH", "Taichung Branch"),
				AccountNumber: getEnv("BANK_ACCOUNT_NUMBER", "1234-567-890123"),
				AccountName:   getEnv("BANK_ACCOUNT_NAME", "Vocational Training Center"),
			},
		},
		Logging: LoggingConfig{
			Level:  getEnv("LOG_LEVEL", "debug"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if len(c.Session.Secret) < 32 {
		return fmt.Errorf("SESSION_SECRET must be at least 32 characters long")
	}
	if c.Session.Store != "redis" && c.Session.Store != "memory" {
		return fmt.Errorf("SESSION_STORE must be redis or memory")
	}
	if c.Session.Store == "redis" && c.Redis.Host == "" {
		return fmt.Errorf("REDIS_HOST is required")
	}

	if c.Database.Enabled {
		if c.Database.Host == "" {
			return fmt.Errorf("DB_HOST is required")
		}
		if c.Database.Name == "" {
			return fmt.Errorf("DB_NAME is required")
		}
	}

	if c.Gateway.URL != "" && c.Gateway.Token == "" {
		return fmt.Errorf("GATEWAY_TOKEN is required when GATEWAY_URL is set")
	}
	if c.Gateway.Timeout <= 0 {
		return fmt.Errorf("GATEWAY_TIMEOUT must be positive")
	}

	if c.Discount.Rate <= 0 || c.Discount.Rate > 1 {
		return fmt.Errorf("DISCOUNT_RATE must be in (0, 1]")
	}
	if c.Discount.MinCourses < 1 || c.Discount.MinPersons < 1 {
		return fmt.Errorf("DISCOUNT_MIN_COURSES and DISCOUNT_MIN_PERSONS must be at least 1")
	}

	if len(c.Registration.EducationLevels) == 0 {
		return fmt.Errorf("EDUCATION_LEVELS must not be empty")
	}
	if c.Payment.DeadlineDays < 0 {
		return fmt.Errorf("PAYMENT_DEADLINE_DAYS must not be negative")
	}

	// Validate server port
	if c.Server.Port == "" {
		return fmt.Errorf("APP_PORT is required")
	}

	return nil
}

// IsDevelopment returns true if the application is running in development mode
func (c *Config) IsDevelopment() bool {
	return c.App.Environment == "development"
}

// IsProduction returns true if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// UsesLocalGateway reports whether the built-in local catalog replaces the remote backend
func (c *Config) UsesLocalGateway() bool {
	return c.Gateway.URL == ""
}

// GetDatabaseDSN returns the database connection string
func (c *Config) GetDatabaseDSN() string {
	return fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
		c.Database.Host,
		c.Database.Port,
		c.Database.User,
		c.Database.Password,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

// GetRedisAddr returns the Redis address
func (c *Config) GetRedisAddr() string {
	return fmt.Sprintf("%s:%s", c.Redis.Host, c.Redis.Port)
}

// Helper functions for environment variable parsing

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}

func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func getEnvAsSlice(key string, defaultValue []string) []string {
	if value := os.Getenv(key); value != "" {
		parts := strings.Split(value, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		return parts
	}
	return defaultValue
}
