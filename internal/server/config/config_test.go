package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, "mongo", c.StoreDriver)
	assert.Equal(t, "mongodb://localhost:27017", c.MongoURI)
	assert.Equal(t, "gophauth", c.MongoDatabase)
	assert.Equal(t, DefaultSecretKey, c.SecretKey)
	assert.Equal(t, 1*time.Hour, c.AccessTokenValidityDuration)
	assert.Equal(t, 10, c.BcryptCost)
	assert.Equal(t, "json", c.LogFormat)
	assert.Equal(t, []string{"*"}, c.AllowedOrigins)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	c, err := LoadConfig()
	require.NoError(t, err)
	require.NotNil(t, c, "LoadConfig must not return nil")

	assert.Equal(t, ":3000", c.EndpointAddrHTTP)
	assert.Equal(t, "gophauth", c.TokenIssuer)
}

func TestLoadConfig_Precedence(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := writeTempJSON(t, "", "", map[string]any{
		"endpoint_addr_http": ":7000",
		"store_driver":       "sqlite",
		"database_dsn":       "from-json.db",
		"log_level":          "warn",
	})
	t.Setenv("DATABASE_DSN", "from-env.db")
	t.Setenv("LOG_LEVEL", "debug")
	os.Args = []string{"testbin", "-c", path, "-l", "error"}

	c, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, ":7000", c.EndpointAddrHTTP, "json over defaults")
	assert.Equal(t, "sqlite", c.StoreDriver)
	assert.Equal(t, "from-env.db", c.DatabaseDSN, "env over json")
	assert.Equal(t, "error", c.LogLevel, "flags over env")
}

func TestStoreDSN(t *testing.T) {
	c := Config{StoreDriver: "mongo", MongoURI: "mongodb://m", DatabaseDSN: "postgres://p"}
	assert.Equal(t, "mongodb://m", c.StoreDSN())

	c.StoreDriver = "postgres"
	assert.Equal(t, "postgres://p", c.StoreDSN())
}

func TestValidate(t *testing.T) {
	valid := func() *Config {
		c := &Config{}
		c.LoadDefaults()
		return c
	}

	tests := []struct {
		name    string
		mutate  func(c *Config)
		wantErr string
	}{
		{name: "defaults are fine outside production", mutate: func(c *Config) {}},
		{
			name:    "default secret in production",
			mutate:  func(c *Config) { c.Environment = EnvironmentProduction },
			wantErr: "default secret key",
		},
		{
			name: "custom secret in production",
			mutate: func(c *Config) {
				c.Environment = EnvironmentProduction
				c.SecretKey = "a-real-secret"
			},
		},
		{name: "empty secret", mutate: func(c *Config) { c.SecretKey = "" }, wantErr: "secret key must not be empty"},
		{name: "unknown driver", mutate: func(c *Config) { c.StoreDriver = "redis" }, wantErr: "unknown store driver"},
		{name: "zero ttl", mutate: func(c *Config) { c.AccessTokenValidityDuration = 0 }, wantErr: "validity must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := valid()
			tt.mutate(c)
			err := c.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
