package config

import (
	"flag"
	"os"
	"time"

	"github.com/growthpods/growthpods/internal/flagx"
)

// parseFlags populates selected server Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   HTTP bind address (e.g., ":8080")
//	-d string   PostgreSQL DSN
//	-r string   Redis URL
//	-s string   JWT HMAC secret key
//	-t int      session validity, minutes
//	-e int      reset token validity, minutes
//	-u string   password reset link base
//	-m string   mail sender
//	-k string   Resend API key
//	-g string   Gemini API key
//	-o string   Gemini model
//	-l string   log format (json|zap)
//
// Duration flags are accepted as integers in minutes and then converted
// to time.Duration values.
func parseFlags(config *Config) {
	args := flagx.FilterArgs(os.Args[1:], []string{"-a", "-d", "-r", "-s", "-t", "-e", "-u", "-m", "-k", "-g", "-o", "-l"})

	fs := flag.NewFlagSet("main", flag.ContinueOnError)

	fs.StringVar(&config.EndpointAddr, "a", config.EndpointAddr, "address and port to run server")
	fs.StringVar(&config.DatabaseDSN, "d", config.DatabaseDSN, "database DSN")
	fs.StringVar(&config.RedisURL, "r", config.RedisURL, "redis URL")
	fs.StringVar(&config.SecretKey, "s", config.SecretKey, "secret key")

	sessionTTL := fs.Int("t", int(config.SessionTTL.Minutes()), "session validity (in minutes)")
	resetTTL := fs.Int("e", int(config.ResetTokenTTL.Minutes()), "reset token validity (in minutes)")

	fs.StringVar(&config.ResetURL, "u", config.ResetURL, "password reset link")
	fs.StringVar(&config.MailFrom, "m", config.MailFrom, "mail sender")
	fs.StringVar(&config.ResendAPIKey, "k", config.ResendAPIKey, "Resend API key")
	fs.StringVar(&config.CopilotAPIKey, "g", config.CopilotAPIKey, "Gemini API key")
	fs.StringVar(&config.CopilotModel, "o", config.CopilotModel, "Gemini model")
	fs.StringVar(&config.LogFormat, "l", config.LogFormat, "log format (json|zap)")

	if err := fs.Parse(args); err != nil {
		panic(err)
	}

	config.SessionTTL = time.Duration(*sessionTTL) * time.Minute
	config.ResetTokenTTL = time.Duration(*resetTTL) * time.Minute
}
