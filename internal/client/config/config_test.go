package config

import (
	"flag"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "http://127.0.0.1:8080", c.ServerBaseURL)
	assert.Equal(t, "growthpods.db", c.StoragePath)
	assert.Equal(t, 10*time.Second, c.RequestTimeout)
	assert.Equal(t, 3*time.Second, c.OnlineCheckInterval)
	assert.Equal(t, "info", c.LogLevel)
}

func TestLoadConfig_Layering(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	path := filepath.Join(t.TempDir(), "client.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"server_base_url":"http://json:1","request_timeout":"3s"}`), 0o600))

	os.Args = []string{"testbin", "-c", path, "-t", "7", "-l", "debug"}

	cfg := LoadConfig()
	require.NotNil(t, cfg)

	want := &Config{
		ServerBaseURL:       "http://json:1",
		StoragePath:         "growthpods.db",
		RequestTimeout:      7 * time.Second,
		OnlineCheckInterval: 3 * time.Second,
		LogLevel:            "debug",
	}
	assert.Empty(t, cmp.Diff(want, cfg))
}

func TestParseFlags(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })

	tests := []struct {
		expected    *Config
		name        string
		args        []string
		expectPanic bool
	}{
		{name: "all flags", args: []string{"cmd", "-a", "http://h:9090", "-f", "x.db", "-t", "4", "-i", "9", "-l", "warn"},
			expected: &Config{ServerBaseURL: "http://h:9090", StoragePath: "x.db", RequestTimeout: 4 * time.Second, OnlineCheckInterval: 9 * time.Second, LogLevel: "warn"}},
		{name: "foreign flags ignored", args: []string{"cmd", "-z", "1", "-a", "http://h"},
			expected: &Config{ServerBaseURL: "http://h"}},
		{name: "incorrect timeout", args: []string{"cmd", "-t", "abc"}, expectPanic: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			flag.CommandLine = flag.NewFlagSet(os.Args[0], flag.PanicOnError)
			os.Args = tt.args

			config := &Config{}
			if tt.expectPanic {
				require.Panics(t, func() { parseFlags(config) })
				return
			}
			require.NotPanics(t, func() { parseFlags(config) })
			assert.Empty(t, cmp.Diff(tt.expected, config))
		})
	}
}
