package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// Built-in secrets, usable only in development
const (
	defaultJWTSecret     = "change-me"
	defaultSessionSecret = "change-me-too"
)

// ErrDefaultSecret is returned by Validate when a built-in secret is used outside development
var ErrDefaultSecret = errors.New("built-in secret used outside development")

// Config holds application configuration from environment variables
type Config struct {
	// Application
	AppPort   string
	LogLevel  string
	LogFormat string

	// Database
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Redis (carts, revoked sessions)
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	CartTTL       time.Duration

	// Auth
	JWTSecret     string
	JWTTTL        time.Duration
	AdminEmails   []string
	SessionSecret string // signs the theme cookie

	// Mail; empty SMTPHost disables outgoing mail
	SMTPHost     string
	SMTPPort     int
	SMTPUsername string
	SMTPPassword string
	ShopEmail    string

	// Product images; empty MinioEndpoint disables uploads
	MinioEndpoint  string
	MinioAccessKey string
	MinioSecretKey string
	MinioBucket    string
	MinioUseSSL    bool

	// Storefront
	WhatsAppNumber string

	// OpenTelemetry
	OTELExporterOTLPEndpoint  string
	OTELExporterOTLPHeaders   string // key1=value1,key2=value2
	OTELExporterOTLPInsecure  bool   // true for http://, false for https://
	OTELServiceName           string
	OTELServiceVersion        string
	OTELDeploymentEnvironment string
}

// LoadConfig loads configuration from .env file and environment variables with defaults
func LoadConfig() *Config {
	// .env is optional; only complain when it exists but cannot be parsed
	if err := godotenv.Load(); err != nil {
		if _, ok := err.(*os.PathError); !ok {
			log.Warn().Err(err).Msg("error loading .env file")
		}
	}

	return &Config{
		AppPort:   getEnv("APP_PORT", "8080"),
		LogLevel:  getEnv("LOG_LEVEL", "info"),
		LogFormat: getEnv("LOG_FORMAT", "json"),

		DBHost:     getEnv("DB_HOST", "localhost"),
		DBPort:     getEnv("DB_PORT", "3306"),
		DBUser:     getEnv("DB_USER", "root"),
		DBPassword: getEnv("DB_PASSWORD", "password"),
		DBName:     getEnv("DB_NAME", "storefront"),

		RedisAddr:     getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvInt("REDIS_DB", 0),
		CartTTL:       getEnvDuration("CART_TTL", 7*24*time.Hour),

		JWTSecret:     getEnv("JWT_SECRET", defaultJWTSecret),
		JWTTTL:        getEnvDuration("JWT_TTL", 7*24*time.Hour),
		AdminEmails:   getEnvList("ADMIN_EMAILS"),
		SessionSecret: getEnv("SESSION_SECRET", defaultSessionSecret),

		SMTPHost:     getEnv("SMTP_HOST", ""),
		SMTPPort:     getEnvInt("SMTP_PORT", 587),
		SMTPUsername: getEnv("SMTP_USERNAME", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		ShopEmail:    getEnv("SHOP_EMAIL", "info@paksmartmobile.com"),

		MinioEndpoint:  getEnv("MINIO_ENDPOINT", ""),
		MinioAccessKey: getEnv("MINIO_ACCESS_KEY", ""),
		MinioSecretKey: getEnv("MINIO_SECRET_KEY", ""),
		MinioBucket:    getEnv("MINIO_BUCKET", "product-images"),
		MinioUseSSL:    getEnvBool("MINIO_USE_SSL", false),

		WhatsAppNumber: getEnv("WHATSAPP_NUMBER", "923156305000"),

		OTELExporterOTLPEndpoint:  getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4318"),
		OTELExporterOTLPHeaders:   getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
		OTELExporterOTLPInsecure:  getEnvBool("OTEL_EXPORTER_OTLP_INSECURE", true),
		OTELServiceName:           getEnv("OTEL_SERVICE_NAME", "storefront"),
		OTELServiceVersion:        getEnv("OTEL_SERVICE_VERSION", "1.0.0"),
		OTELDeploymentEnvironment: getEnv("OTEL_DEPLOYMENT_ENVIRONMENT", "development"),
	}
}

// Validate rejects the built-in JWT and session secrets unless the
// deployment environment is development, where it only warns
func (c *Config) Validate() error {
	var defaults []string
	if c.JWTSecret == defaultJWTSecret {
		defaults = append(defaults, "JWT_SECRET")
	}
	if c.SessionSecret == defaultSessionSecret {
		defaults = append(defaults, "SESSION_SECRET")
	}
	if len(defaults) == 0 {
		return nil
	}

	if c.OTELDeploymentEnvironment != "development" {
		return fmt.Errorf("%w: set %s", ErrDefaultSecret, strings.Join(defaults, ", "))
	}
	log.Warn().Strs("keys", defaults).Msg("using built-in secrets; set them before deploying")
	return nil
}

// GetDSN returns the MySQL DSN string
func (c *Config) GetDSN() string {
	return c.DBUser + ":" + c.DBPassword + "@tcp(" + c.DBHost + ":" + c.DBPort + ")/" + c.DBName + "?parseTime=true&charset=utf8mb4&clientFoundRows=true"
}

// GetAppPortInt returns the application port as an integer
func (c *Config) GetAppPortInt() int {
	port, err := strconv.Atoi(c.AppPort)
	if err != nil {
		return 8080
	}
	return port
}

// MailEnabled reports whether SMTP is configured
func (c *Config) MailEnabled() bool {
	return c.SMTPHost != ""
}

// ImagesEnabled reports whether object storage is configured
func (c *Config) ImagesEnabled() bool {
	return c.MinioEndpoint != ""
}

// WhatsAppLink returns the deep link for the shop's messaging number
func (c *Config) WhatsAppLink() string {
	return "https://wa.me/" + c.WhatsAppNumber
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if value == "true" || value == "1" || value == "yes" {
			return true
		}
		return false
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring non-numeric value")
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
		log.Warn().Str("key", key).Str("value", value).Msg("ignoring invalid duration")
	}
	return defaultValue
}

// getEnvList splits a comma separated value, lower-casing and dropping blanks
func getEnvList(key string) []string {
	var out []string
	for _, part := range strings.Split(os.Getenv(key), ",") {
		if p := strings.ToLower(strings.TrimSpace(part)); p != "" {
			out = append(out, p)
		}
	}
	return out
}
