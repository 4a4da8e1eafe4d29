package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadClientConfigCreatesDefaults(t *testing.T) {
	t.Setenv("COLDMAIL_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "coldmail", "config.toml")

	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, DefaultClientConfig(), cfg)

	_, err = os.Stat(path)
	assert.NoError(t, err, "defaults should be written to disk")
}

func TestLoadClientConfigMergesDefaultsAndEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte("timeout_seconds = 15\n"), 0644))

	t.Setenv("COLDMAIL_BASE_URL", "")
	cfg, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:3000", cfg.BaseURL)
	assert.Equal(t, 15, cfg.TimeoutSeconds)

	t.Setenv("COLDMAIL_BASE_URL", "https://mail.example.com/")
	cfg, err = LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "https://mail.example.com", cfg.BaseURL)
}

func TestClientConfigSet(t *testing.T) {
	tests := []struct {
		name        string
		assignment  string
		expectError bool
		check       func(t *testing.T, cfg *ClientConfig)
	}{
		{
			name:       "base url trims trailing slash",
			assignment: "base_url=http://10.0.0.5:3000/",
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, "http://10.0.0.5:3000", cfg.BaseURL)
			},
		},
		{
			name:       "timeout",
			assignment: "timeout_seconds=45",
			check: func(t *testing.T, cfg *ClientConfig) {
				assert.Equal(t, 45, cfg.TimeoutSeconds)
			},
		},
		{name: "missing equals", assignment: "base_url", expectError: true},
		{name: "unknown key", assignment: "colour=blue", expectError: true},
		{name: "negative timeout", assignment: "timeout_seconds=-1", expectError: true},
		{name: "empty base url", assignment: "base_url=", expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultClientConfig()
			err := cfg.Set(tt.assignment)
			if tt.expectError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			tt.check(t, cfg)
		})
	}
}

func TestSaveClientConfigRoundTrip(t *testing.T) {
	t.Setenv("COLDMAIL_BASE_URL", "")
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := &ClientConfig{BaseURL: "http://api:3000", TimeoutSeconds: 30}

	require.NoError(t, SaveClientConfig(path, cfg))
	loaded, err := LoadClientConfig(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}
