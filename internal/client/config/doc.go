// Package config loads runtime configuration for the Growth Pods CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional JSON file (see parseJson) selected via flags: -c or -config.
//  3. Command-line flags (see parseFlags), which override earlier values.
//
// Supported flags
//
//	-a string   base URL of the identity service
//	-f string   path of the local SQLite storage file
//	-t int      request timeout (seconds)
//	-i int      online status check interval (seconds)
//	-l string   log level
//
// # JSON schema
//
// Durations use timex.Duration, so values can be either strings like "10s"
// or integer nanoseconds. Keys that are absent keep their previous value:
//
//	{
//	  "server_base_url": "http://127.0.0.1:8080",
//	  "storage_path": "growthpods.db",
//	  "request_timeout": "10s",
//	  "online_check_interval": "3s",
//	  "log_level": "debug"
//	}
package config
