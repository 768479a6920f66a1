package config

import "os"

// parseEnv reads the API keys that are conventionally supplied through the
// environment rather than on the command line.
func parseEnv(cfg *Config) {
	if v, ok := os.LookupEnv("RESEND_API_KEY"); ok {
		cfg.ResendAPIKey = v
	}
	if v, ok := os.LookupEnv("GEMINI_API_KEY"); ok {
		cfg.CopilotAPIKey = v
	}
}
