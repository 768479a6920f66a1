package config

import (
	"encoding/json"
	"os"

	"github.com/growthpods/growthpods/internal/flagx"
	"github.com/growthpods/growthpods/internal/timex"
)

// JsonConfig is the DTO for JSON configuration files. Durations use
// timex.Duration, so both "15m" and integer nanoseconds are accepted.
// Empty or absent keys leave the current value untouched.
type JsonConfig struct {
	EndpointAddr  string         `json:"endpoint_addr"`
	DatabaseDSN   string         `json:"database_dsn"`
	RedisURL      string         `json:"redis_url"`
	SecretKey     string         `json:"secret_key"`
	SessionTTL    timex.Duration `json:"session_ttl"`
	ResetTokenTTL timex.Duration `json:"reset_token_ttl"`
	ResetURL      string         `json:"reset_url"`
	MailFrom      string         `json:"mail_from"`
	ResendAPIKey  string         `json:"resend_api_key"`
	CopilotAPIKey string         `json:"copilot_api_key"`
	CopilotModel  string         `json:"copilot_model"`
	LogFormat     string         `json:"log_format"`
}

// parseJson loads configuration values from the JSON file given with -c or
// -config. It panics if the file cannot be read or is not valid JSON.
func parseJson(config *Config) {
	jsonConfigFile := flagx.JsonConfigFlags()
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

	setString(&config.EndpointAddr, c.EndpointAddr)
	setString(&config.DatabaseDSN, c.DatabaseDSN)
	setString(&config.RedisURL, c.RedisURL)
	setString(&config.SecretKey, c.SecretKey)
	setString(&config.ResetURL, c.ResetURL)
	setString(&config.MailFrom, c.MailFrom)
	setString(&config.ResendAPIKey, c.ResendAPIKey)
	setString(&config.CopilotAPIKey, c.CopilotAPIKey)
	setString(&config.CopilotModel, c.CopilotModel)
	setString(&config.LogFormat, c.LogFormat)

	if c.SessionTTL.Duration != 0 {
		config.SessionTTL = c.SessionTTL.Duration
	}
	if c.ResetTokenTTL.Duration != 0 {
		config.ResetTokenTTL = c.ResetTokenTTL.Duration
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
