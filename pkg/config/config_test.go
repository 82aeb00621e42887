package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadConfig_Defaults(t *testing.T) {
	cfg := LoadConfig()

	assert.Equal(t, "8080", cfg.AppPort)
	assert.Equal(t, 8080, cfg.GetAppPortInt())
	assert.Equal(t, 7*24*time.Hour, cfg.CartTTL)
	assert.False(t, cfg.MailEnabled())
	assert.False(t, cfg.ImagesEnabled())
	assert.Equal(t, "https://wa.me/923156305000", cfg.WhatsAppLink())
	assert.Empty(t, cfg.AdminEmails)
}

func TestLoadConfig_FromEnv(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CART_TTL", "30m")
	t.Setenv("REDIS_DB", "3")
	t.Setenv("ADMIN_EMAILS", " Owner@Shop.pk, ,ops@shop.pk ")
	t.Setenv("SMTP_HOST", "smtp.shop.pk")
	t.Setenv("MINIO_USE_SSL", "yes")

	cfg := LoadConfig()

	assert.Equal(t, 9090, cfg.GetAppPortInt())
	assert.Equal(t, 30*time.Minute, cfg.CartTTL)
	assert.Equal(t, 3, cfg.RedisDB)
	assert.Equal(t, []string{"owner@shop.pk", "ops@shop.pk"}, cfg.AdminEmails)
	assert.True(t, cfg.MailEnabled())
	assert.True(t, cfg.MinioUseSSL)
}

func TestLoadConfig_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("APP_PORT", "http")
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("SMTP_PORT", "abc")

	cfg := LoadConfig()

	assert.Equal(t, 8080, cfg.GetAppPortInt())
	assert.Equal(t, 7*24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 587, cfg.SMTPPort)
}

func TestGetDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "3306", DBName: "shop"}
	assert.Equal(t, "u:p@tcp(h:3306)/shop?parseTime=true&charset=utf8mb4&clientFoundRows=true", cfg.GetDSN())
}

func TestValidate_DefaultSecrets(t *testing.T) {
	cfg := LoadConfig()
	assert.NoError(t, cfg.Validate(), "development allows built-in secrets")

	t.Setenv("OTEL_DEPLOYMENT_ENVIRONMENT", "production")
	cfg = LoadConfig()
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrDefaultSecret)
	assert.ErrorContains(t, err, "JWT_SECRET, SESSION_SECRET")

	t.Setenv("JWT_SECRET", "a-real-secret")
	t.Setenv("SESSION_SECRET", "another-real-secret")
	cfg = LoadConfig()
	assert.NoError(t, cfg.Validate())
}
