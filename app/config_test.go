package gatedchat

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/putto11262002/gatedchat/core"
)

func Test_LoadConfig_Defaults(t *testing.T) {
	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 8787, config.Port)
	assert.Equal(t, "0.0.0.0", config.Hostname)
	assert.Equal(t, DevMode, config.Mode)
	assert.Equal(t, "VVXchat", config.Auth.AppKey)
	assert.Len(t, config.Auth.TokenSecret, 32)
	assert.Equal(t, 24*time.Hour, config.Auth.TokenTTL)
	assert.Equal(t, int64(8<<20), config.Limits.MaxBodyBytes)
	assert.Equal(t, core.DefaultRooms, config.Rooms)
	assert.Equal(t, core.DefaultTheme, config.Theme)
	assert.Equal(t, []string{"*"}, config.AllowedOrigins)
}

func Test_LoadConfig_File(t *testing.T) {
	dir := t.TempDir()
	yaml := `
port: 9000
auth:
  tokenttl: 1h
rooms:
  - id: lounge
    name: Lounge
    description: After hours
    isAdult: true
theme:
  messageBoxColor: "#000000"
  messageTextColor: "#ffffff"
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0o644))

	config, err := LoadConfig(dir)
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 9000, config.Port)
	assert.Equal(t, time.Hour, config.Auth.TokenTTL)
	assert.Equal(t, []core.Room{
		{ID: "lounge", Name: "Lounge", Description: "After hours", IsAdult: true},
	}, config.Rooms)
	assert.Equal(t, core.ThemePreference{MessageBoxColor: "#000000", MessageTextColor: "#ffffff"}, config.Theme)
}

func Test_LoadConfig_Env(t *testing.T) {
	t.Setenv("PORT", "9100")
	t.Setenv("STATICPLAY_APP_KEY", "from-env")
	t.Setenv("GATEDCHAT_LOG_LEVEL", "debug")
	t.Setenv("GATEDCHAT_AUTH_TOKENTTL", "30m")

	config, err := LoadConfig(t.TempDir())
	require.NoError(t, err)
	require.NoError(t, config.Validate())

	assert.Equal(t, 9100, config.Port)
	assert.Equal(t, "from-env", config.Auth.AppKey)
	assert.Equal(t, "debug", config.Log.Level)
	assert.Equal(t, 30*time.Minute, config.Auth.TokenTTL)
}

func Test_Config_Validate(t *testing.T) {
	valid := func() *Config {
		config := &Config{
			Port:           8787,
			Hostname:       "0.0.0.0",
			Mode:           DevMode,
			Rooms:          core.DefaultRooms,
			Theme:          core.DefaultTheme,
			AllowedOrigins: []string{"*"},
		}
		config.Auth.AppKey = "key"
		config.Auth.TokenSecret = []byte("secret")
		config.Auth.TokenTTL = time.Hour
		config.Limits.MaxBodyBytes = 1 << 20
		config.Log.Level = "info"
		return config
	}

	tests := []struct {
		name   string
		mutate func(*Config)
		ok     bool
	}{
		{name: "valid", mutate: func(c *Config) {}, ok: true},
		{name: "bad port", mutate: func(c *Config) { c.Port = 70000 }},
		{name: "bad mode", mutate: func(c *Config) { c.Mode = "staging" }},
		{name: "no app key", mutate: func(c *Config) { c.Auth.AppKey = "" }},
		{name: "no rooms", mutate: func(c *Config) { c.Rooms = nil }},
		{name: "duplicate rooms", mutate: func(c *Config) {
			c.Rooms = []core.Room{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}
		}},
		{name: "room without name", mutate: func(c *Config) { c.Rooms = []core.Room{{ID: "a"}} }},
		{name: "bad theme", mutate: func(c *Config) { c.Theme.MessageBoxColor = "#fff" }},
		{name: "bad log level", mutate: func(c *Config) { c.Log.Level = "trace" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			config := valid()
			tc.mutate(config)
			err := config.Validate()
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.NotEmpty(t, FormatValidationErrors(err))
		})
	}
}
