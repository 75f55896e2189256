package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("STORE_DRIVER", "")
	t.Setenv("JWT_TTL", "")
	t.Setenv("BCRYPT_COST", "")
	t.Setenv("TRUSTED_PROXIES", "")

	cfg := Load()
	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.Empty(t, cfg.JWTSecret)
	assert.Greater(t, cfg.HashConcurrency, 0)
	assert.Empty(t, cfg.TrustedProxyList())
}

func TestLoad_FromEnv(t *testing.T) {
	t.Setenv("JWT_SECRET", "s3cret")
	t.Setenv("STORE_DRIVER", "SQLite")
	t.Setenv("SQLITE_PATH", "/tmp/x.db")
	t.Setenv("JWT_TTL", "2h")
	t.Setenv("BCRYPT_COST", "12")
	t.Setenv("MAIL_SEND_ENABLED", "true")
	t.Setenv("CORS_ALLOWED_ORIGINS", " http://a.test , ,http://b.test")
	t.Setenv("TRUSTED_PROXIES", "10.0.0.0/8, 192.0.2.1")

	cfg := Load()
	require.NoError(t, cfg.Validate())
	assert.Equal(t, StoreDriverSQLite, cfg.StoreDriver)
	assert.Equal(t, "/tmp/x.db", cfg.SQLitePath)
	assert.Equal(t, 2*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 12, cfg.BcryptCost)
	assert.True(t, cfg.MailSendEnabled)
	assert.Equal(t, []string{"http://a.test", "http://b.test"}, cfg.CORSOrigins())
	assert.Equal(t, []string{"10.0.0.0/8", "192.0.2.1"}, cfg.TrustedProxyList())
}

func TestLoad_InvalidValuesFallBack(t *testing.T) {
	t.Setenv("JWT_TTL", "forever")
	t.Setenv("BCRYPT_COST", "ten")
	t.Setenv("RATE_LIMIT_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 24*time.Hour, cfg.JWTTTL)
	assert.Equal(t, 10, cfg.BcryptCost)
	assert.True(t, cfg.RateLimitEnabled)
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		return &Config{
			StoreDriver:     StoreDriverPostgres,
			JWTSecret:       "k",
			JWTTTL:          time.Hour,
			BcryptCost:      10,
			HashConcurrency: 1,
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"missing secret", func(c *Config) { c.JWTSecret = "" }, "JWT_SECRET is required"},
		{"bad driver", func(c *Config) { c.StoreDriver = "mongo" }, `unknown STORE_DRIVER "mongo"`},
		{"sqlite without path", func(c *Config) { c.StoreDriver = StoreDriverSQLite; c.SQLitePath = "" }, "SQLITE_PATH is required"},
		{"cost too high", func(c *Config) { c.BcryptCost = 40 }, "BCRYPT_COST must be within"},
		{"zero ttl", func(c *Config) { c.JWTTTL = 0 }, "JWT_TTL must be positive"},
		{"zero concurrency", func(c *Config) { c.HashConcurrency = 0 }, "HASH_CONCURRENCY must be positive"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestPostgresDSN(t *testing.T) {
	cfg := &Config{DBUser: "u", DBPassword: "p", DBHost: "h", DBPort: "5432", DBName: "d", DBSSLMode: "disable"}
	assert.Equal(t, "postgres://u:p@h:5432/d?sslmode=disable", cfg.PostgresDSN())
}
