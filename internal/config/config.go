package config

import (
	"fmt"
	"os"
	"strconv"
)

// Config holds all application configuration.
type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Logger   LoggerConfig
	Auth     AuthConfig
	Payment  PaymentConfig
	SMTP     SMTPConfig
	Policy   PolicyConfig
}

// ServerConfig holds server-related configuration.
type ServerConfig struct {
	Host string
	Port int
}

// DatabaseConfig holds database-related configuration.
type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Database        string
	MaxConnections  int
	MinConnections  int
	MaxConnLifetime int // seconds
}

// LoggerConfig holds logger-related configuration.
type LoggerConfig struct {
	Level  string
	Format string // "json" or "console"
}

// AuthConfig holds the secrets for the two independent cookie schemes.
// Customer and back-office sessions are signed with separate keys so a
// token minted for one scheme can never satisfy the other.
type AuthConfig struct {
	CustomerSecret   string
	BackofficeSecret string
	TokenTTLHours    int
}

// PaymentConfig holds the payment gateway settings. HashKey/HashIV are the
// pre-shared AES key and IV for decrypting gateway callbacks. Stripe is an
// optional outbound gateway for card payments.
type PaymentConfig struct {
	HashKey       string
	HashIV        string
	StripeEnabled bool
	StripeAPIKey  string
}

// SMTPConfig holds the settings for moderation notification mail.
type SMTPConfig struct {
	Enabled          bool
	Host             string
	Port             int
	Username         string
	Password         string
	From             string
	ModeratorAddress string
}

// PolicyConfig holds optional business-policy toggles.
type PolicyConfig struct {
	// EnforceStock rejects cart adds that would exceed available stock.
	// Products without a stock figure always pass.
	EnforceStock bool
	// RequirePurchase restricts reviews to users with a delivered order
	// item for the product.
	RequirePurchase bool
}

// Load loads configuration from environment variables.
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Host: getEnv("SERVER_HOST", "0.0.0.0"),
			Port: getEnvAsInt("SERVER_PORT", 8080),
		},
		Database: DatabaseConfig{
			Host:            getEnv("DB_HOST", "localhost"),
			Port:            getEnvAsInt("DB_PORT", 5432),
			User:            getEnv("DB_USER", "postgres"),
			Password:        getEnv("DB_PASSWORD", ""),
			Database:        getEnv("DB_NAME", "storefront"),
			MaxConnections:  getEnvAsInt("DB_MAX_CONNECTIONS", 25),
			MinConnections:  getEnvAsInt("DB_MIN_CONNECTIONS", 5),
			MaxConnLifetime: getEnvAsInt("DB_MAX_CONN_LIFETIME", 300),
		},
		Logger: LoggerConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Auth: AuthConfig{
			CustomerSecret:   getEnv("AUTH_CUSTOMER_SECRET", ""),
			BackofficeSecret: getEnv("AUTH_BACKOFFICE_SECRET", ""),
			TokenTTLHours:    getEnvAsInt("AUTH_TOKEN_TTL_HOURS", 24),
		},
		Payment: PaymentConfig{
			HashKey:       getEnv("PAYMENT_HASH_KEY", ""),
			HashIV:        getEnv("PAYMENT_HASH_IV", ""),
			StripeEnabled: getEnvAsBool("STRIPE_ENABLED", false),
			StripeAPIKey:  getEnv("STRIPE_API_KEY", ""),
		},
		SMTP: SMTPConfig{
			Enabled:          getEnvAsBool("SMTP_ENABLED", false),
			Host:             getEnv("SMTP_HOST", ""),
			Port:             getEnvAsInt("SMTP_PORT", 587),
			Username:         getEnv("SMTP_USERNAME", ""),
			Password:         getEnv("SMTP_PASSWORD", ""),
			From:             getEnv("SMTP_FROM", ""),
			ModeratorAddress: getEnv("SMTP_MODERATOR_ADDRESS", ""),
		},
		Policy: PolicyConfig{
			EnforceStock:    getEnvAsBool("POLICY_ENFORCE_STOCK", false),
			RequirePurchase: getEnvAsBool("POLICY_REQUIRE_PURCHASE", false),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	if c.Database.Host == "" {
		return fmt.Errorf("database host is required")
	}

	if c.Database.Port < 1 || c.Database.Port > 65535 {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}

	if c.Database.User == "" {
		return fmt.Errorf("database user is required")
	}

	if c.Database.Database == "" {
		return fmt.Errorf("database name is required")
	}

	if c.Database.MaxConnections < 1 {
		return fmt.Errorf("database max connections must be at least 1")
	}

	if c.Database.MinConnections < 1 {
		return fmt.Errorf("database min connections must be at least 1")
	}

	if c.Database.MinConnections > c.Database.MaxConnections {
		return fmt.Errorf("database min connections cannot exceed max connections")
	}

	if len(c.Auth.CustomerSecret) < 32 {
		return fmt.Errorf("customer auth secret must be at least 32 characters")
	}

	if len(c.Auth.BackofficeSecret) < 32 {
		return fmt.Errorf("back-office auth secret must be at least 32 characters")
	}

	if c.Auth.TokenTTLHours < 1 {
		return fmt.Errorf("token TTL must be at least 1 hour")
	}

	switch len(c.Payment.HashKey) {
	case 16, 24, 32:
	default:
		return fmt.Errorf("payment hash key must be 16, 24 or 32 bytes, got %d", len(c.Payment.HashKey))
	}

	if len(c.Payment.HashIV) != 16 {
		return fmt.Errorf("payment hash IV must be 16 bytes, got %d", len(c.Payment.HashIV))
	}

	if c.Payment.StripeEnabled && c.Payment.StripeAPIKey == "" {
		return fmt.Errorf("stripe API key is required when stripe is enabled")
	}

	if c.SMTP.Enabled {
		if c.SMTP.Host == "" {
			return fmt.Errorf("SMTP host is required when SMTP is enabled")
		}
		if c.SMTP.From == "" {
			return fmt.Errorf("SMTP from address is required when SMTP is enabled")
		}
		if c.SMTP.ModeratorAddress == "" {
			return fmt.Errorf("SMTP moderator address is required when SMTP is enabled")
		}
	}

	validLogLevels := map[string]bool{
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}

	if !validLogLevels[c.Logger.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logger.Level)
	}

	if c.Logger.Format != "json" && c.Logger.Format != "console" {
		return fmt.Errorf("invalid log format: %s (must be json or console)", c.Logger.Format)
	}

	return nil
}

// ConnectionString returns the PostgreSQL connection string.
func (c *DatabaseConfig) ConnectionString() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User,
		c.Password,
		c.Host,
		c.Port,
		c.Database,
	)
}

// Address returns the server address.
func (c *ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// getEnv retrieves an environment variable or returns a default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value.
func getEnvAsInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value.
func getEnvAsBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolValue, err := strconv.ParseBool(value); err == nil {
			return boolValue
		}
	}
	return defaultValue
}
