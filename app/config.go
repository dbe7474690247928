package gatedchat

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"

	"github.com/putto11262002/gatedchat/core"
)

type Mode string

const (
	DevMode  Mode = "dev"
	ProdMode Mode = "prod"
)

// EnvPrefix prefixes every environment variable read by LoadConfig, e.g. GATEDCHAT_LOG_LEVEL.
const EnvPrefix = "GATEDCHAT"

type Config struct {
	// Port is the Port number to listen on. The default is 8787.
	Port int `validate:"required,port"`
	// Hostname is the Hostname to listen on. The default is 0.0.0.0.
	Hostname string `validate:"required"`
	// Mode is either dev or prod. TLS hardening is only applied in prod.
	Mode Mode `validate:"oneof=dev prod"`
	Auth struct {
		// AppKey is the shared secret every client must present in the x-staticplay-app-key header.
		AppKey string `validate:"required"`
		// TokenSecret is the key used to sign caller tokens.
		// The secret must be a base64 encoded string. The default is a random 32 byte string.
		TokenSecret Base64Encoded `validate:"required"`
		// TokenTTL is how long a caller token stays valid. The default is 24h.
		TokenTTL time.Duration `validate:"gt=0"`
	}
	Limits struct {
		// MaxBodyBytes caps the size of a request body, inline images included. The default is 8 MiB.
		MaxBodyBytes int64 `validate:"gt=0"`
	}
	Log struct {
		Level string `validate:"oneof=debug info warn error"`
	}
	TLS struct {
		Crt string
		Key string
	}
	// Rooms is the fixed list of public rooms. The default is core.DefaultRooms.
	Rooms []core.Room `validate:"required,unique=ID,dive"`
	// Theme is the theme returned to users that never saved one.
	Theme core.ThemePreference
	// AllowedOrigins is a list of origins that are allowed to connect to the server.
	// The default is ["*"].
	AllowedOrigins []string
	valid          bool
}

type Base64Encoded []byte

func (b *Base64Encoded) UnmarshalText(text []byte) error {
	dec, err := base64.StdEncoding.DecodeString(string(text))
	if err != nil {
		return fmt.Errorf("base64 decode: %w", err)
	}
	*b = dec
	return nil
}

// LoadConfig loads the configuration from an optional .env file, an optional
// config.yaml in dir and environment variables, in increasing order of precedence.
// Any invalid configuration will not be loaded, and the error will be caught in the validation step.
func LoadConfig(dir string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(dir)
	v.SetConfigType("yaml")
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// names used by existing deployments
	if err := v.BindEnv("port", EnvPrefix+"_PORT", "PORT"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}
	if err := v.BindEnv("auth.appkey", EnvPrefix+"_AUTH_APPKEY", "STATICPLAY_APP_KEY"); err != nil {
		return nil, fmt.Errorf("bind env: %w", err)
	}

	if err := setDefaults(v); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(",")),
		),
	); err != nil {
		// defer error to validation step
		return config, nil
	}
	return config, nil
}

func setDefaults(v *viper.Viper) error {
	v.SetDefault("port", 8787)
	v.SetDefault("hostname", "0.0.0.0")
	v.SetDefault("mode", string(DevMode))

	v.SetDefault("auth.appkey", "VVXchat")
	// generate a random secret key
	secret := make([]byte, 32)
	if _, err := rand.Read(secret); err != nil {
		return fmt.Errorf("generate secret: %w", err)
	}
	v.SetDefault("auth.tokensecret", base64.StdEncoding.EncodeToString(secret))
	v.SetDefault("auth.tokenttl", "24h")

	v.SetDefault("limits.maxbodybytes", 8<<20)
	v.SetDefault("log.level", "info")
	v.SetDefault("tls.crt", "")
	v.SetDefault("tls.key", "")

	rooms := make([]map[string]any, 0, len(core.DefaultRooms))
	for _, room := range core.DefaultRooms {
		rooms = append(rooms, map[string]any{
			"id":          room.ID,
			"name":        room.Name,
			"description": room.Description,
			"isAdult":     room.IsAdult,
		})
	}
	v.SetDefault("rooms", rooms)
	v.SetDefault("theme.messageboxcolor", core.DefaultTheme.MessageBoxColor)
	v.SetDefault("theme.messagetextcolor", core.DefaultTheme.MessageTextColor)
	v.SetDefault("allowedorigins", []string{"*"})
	return nil
}

func (c *Config) Validate() error {
	if c.valid {
		return nil
	}
	err := validate.Struct(c)
	if err != nil {
		return err
	}
	c.valid = true
	return nil
}
