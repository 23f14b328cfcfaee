package config

import (
	"encoding/json"
	"os"

	"github.com/dmitrijs2005/socialnet/internal/flagx"
	"github.com/dmitrijs2005/socialnet/internal/timex"
)

// JsonConfig is the on-disk shape of the configuration file. Durations may be
// written as strings such as "5s" or as integer nanoseconds.
type JsonConfig struct {
	DatabaseDSN                  string         `json:"database_dsn"`
	ConnectTimeout               timex.Duration `json:"connect_timeout"`
	PasswordSalt                 string         `json:"password_salt"`
	SeedFile                     string         `json:"seed_file"`
	SecretKey                    string         `json:"secret_key"`
	SessionTokenValidityDuration timex.Duration `json:"session_token_validity_duration"`
}

// parseJson overlays values from the file named by -c or -config onto config.
// Without either flag nothing is loaded. An unreadable or malformed file
// panics. Keys absent from the file keep their current value.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()

	// nothing to load
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

	if c.DatabaseDSN != "" {
		config.DatabaseDSN = c.DatabaseDSN
	}
	if c.ConnectTimeout.Duration != 0 {
		config.ConnectTimeout = c.ConnectTimeout.Duration
	}
	if c.PasswordSalt != "" {
		config.PasswordSalt = c.PasswordSalt
	}
	if c.SeedFile != "" {
		config.SeedFile = c.SeedFile
	}
	if c.SecretKey != "" {
		config.SecretKey = c.SecretKey
	}
	if c.SessionTokenValidityDuration.Duration != 0 {
		config.SessionTokenValidityDuration = c.SessionTokenValidityDuration.Duration
	}
}
