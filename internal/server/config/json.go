package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/dmitrijs2005/gophauth/internal/flagx"
)

// Duration accepts either a Go duration string ("15m") or integer
// nanoseconds in JSON.
type Duration time.Duration

func (d *Duration) UnmarshalJSON(b []byte) error {
	var v any
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	switch value := v.(type) {
	case float64:
		*d = Duration(time.Duration(value))
	case string:
		parsed, err := time.ParseDuration(value)
		if err != nil {
			return err
		}
		*d = Duration(parsed)
	default:
		return fmt.Errorf("invalid duration %s", string(b))
	}
	return nil
}

// JsonConfig is the JSON file shape. Only keys present in the file
// override the current configuration.
type JsonConfig struct {
	EndpointAddrHTTP            *string   `json:"endpoint_addr_http"`
	StoreDriver                 *string   `json:"store_driver"`
	DatabaseDSN                 *string   `json:"database_dsn"`
	MongoURI                    *string   `json:"mongo_uri"`
	MongoDatabase               *string   `json:"mongo_database"`
	SecretKey                   *string   `json:"secret_key"`
	AccessTokenValidityDuration *Duration `json:"access_token_validity_duration"`
	TokenIssuer                 *string   `json:"token_issuer"`
	BcryptCost                  *int      `json:"bcrypt_cost"`
	Environment                 *string   `json:"environment"`
	LogLevel                    *string   `json:"log_level"`
	LogFormat                   *string   `json:"log_format"`
	AllowedOrigins              []string  `json:"allowed_origins"`
}

func setIf[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}

// parseJson loads the file named by -c/-config, if any, onto config. An
// unreadable file or invalid JSON panics.
func parseJson(config *Config) {
	jsonConfigFile := flagx.ConfigPath(os.Args[1:])
	if jsonConfigFile == "" {
		return
	}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	c := &JsonConfig{}
	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	setIf(&config.EndpointAddrHTTP, c.EndpointAddrHTTP)
	setIf(&config.StoreDriver, c.StoreDriver)
	setIf(&config.DatabaseDSN, c.DatabaseDSN)
	setIf(&config.MongoURI, c.MongoURI)
	setIf(&config.MongoDatabase, c.MongoDatabase)
	setIf(&config.SecretKey, c.SecretKey)
	if c.AccessTokenValidityDuration != nil {
		config.AccessTokenValidityDuration = time.Duration(*c.AccessTokenValidityDuration)
	}
	setIf(&config.TokenIssuer, c.TokenIssuer)
	setIf(&config.BcryptCost, c.BcryptCost)
	setIf(&config.Environment, c.Environment)
	setIf(&config.LogLevel, c.LogLevel)
	setIf(&config.LogFormat, c.LogFormat)
	if c.AllowedOrigins != nil {
		config.AllowedOrigins = c.AllowedOrigins
	}
}
