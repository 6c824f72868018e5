package config

import (
	"encoding/json"
	"os"
	"time"

	"github.com/jhontaff/JWT-Authentication/internal/flagx"
)

// JsonConfig is an intermediate DTO used only for reading JSON
// configuration files. After unmarshalling, its fields are copied into
// the runtime Config. The token TTL is expressed in milliseconds, matching
// the deployment configuration format.
type JsonConfig struct {
	EndpointAddr       string `json:"endpoint_addr"`
	DatabaseDSN        string `json:"database_dsn"`
	JWTSecret          string `json:"jwt_secret"`
	TokenTTLMs         int64  `json:"token_ttl_ms"`
	BcryptCost         int    `json:"bcrypt_cost"`
	CORSAllowedOrigins string `json:"cors_allowed_origins"`
}

// parseJson loads configuration values from a JSON file into the provided
// Config instance. The file path comes from the -c or -config flags; if
// neither is set, no file is loaded. An unreadable or invalid file panics:
// a broken config file is a startup failure, not something to limp past.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	if jsonConfigFile == "" {
		return
	}

	c := &JsonConfig{}

	file, err := os.ReadFile(jsonConfigFile)
	if err != nil {
		panic(err)
	}

	if err := json.Unmarshal(file, c); err != nil {
		panic(err)
	}

	if c.EndpointAddr != "" {
		config.EndpointAddr = c.EndpointAddr
	}
	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.JWTSecret != "" {
		config.JWTSecret = c.JWTSecret
	}
	if c.TokenTTLMs > 0 {
		config.TokenTTL = time.Duration(c.TokenTTLMs) * time.Millisecond
	}
	if c.BcryptCost > 0 {
		config.BcryptCost = c.BcryptCost
	}
	if c.CORSAllowedOrigins != "" {
		config.CORSAllowedOrigins = c.CORSAllowedOrigins
	}
}
