package config

import (
	"errors"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/go-playground/validator"
	_ "github.com/joho/godotenv/autoload"
	"github.com/knadh/koanf"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
)

const (
	EnvPrefix = "CHECKOUT_"

	// PlaceholderSecretKey is the value shipped in sample env files. A gateway
	// configured with it would sign links the provider rejects, so startup fails.
	PlaceholderSecretKey = "REPLACE_WITH_PROVIDER_SECRET_KEY"

	// LegacyPlaceholderSecretKey is the fallback earlier deployments signed
	// with when BOLD_SECRET_KEY was unset.
	LegacyPlaceholderSecretKey = "TU_LLAVE_SECRETA_REAL_DE_BOLD"

	DefaultBaseURL    = "https://checkout.bold.co/payment/initiate"
	DefaultCurrency   = "USD"
	DefaultRenderMode = "embedded"
)

var (
	ErrMissingSecretKey     = errors.New("provider secret key is not set")
	ErrPlaceholderSecretKey = errors.New("provider secret key is the placeholder value")
)

type Config struct {
	Server   ServerConfig   `koanf:"server"`
	Provider ProviderConfig `koanf:"provider"`
	Logger   LoggerConfig   `koanf:"logger"`
}

type ServerConfig struct {
	Port            string        `koanf:"port" validate:"required"`
	ReadTimeout     time.Duration `koanf:"read_timeout" validate:"required"`
	WriteTimeout    time.Duration `koanf:"write_timeout" validate:"required"`
	IdleTimeout     time.Duration `koanf:"idle_timeout" validate:"required"`
	RequestTimeout  time.Duration `koanf:"request_timeout" validate:"required"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout" validate:"required"`
	MaxBodyBytes    int64         `koanf:"max_body_bytes" validate:"required,gt=0"`
}

// ProviderConfig holds everything needed to sign and address the hosted
// checkout page. It is built once at startup and never mutated.
type ProviderConfig struct {
	SecretKey          string `koanf:"secret_key" validate:"required"`
	PublicKey          string `koanf:"public_key" validate:"required"`
	BaseURL            string `koanf:"base_url" validate:"required,url"`
	Currency           string `koanf:"currency" validate:"required,len=3"`
	RenderMode         string `koanf:"render_mode" validate:"required"`
	ForwardDescription bool   `koanf:"forward_description"`
}

// LogValue keeps the secret key out of log output.
func (p ProviderConfig) LogValue() slog.Value {
	return slog.GroupValue(
		slog.String("public_key", p.PublicKey),
		slog.String("base_url", p.BaseURL),
		slog.String("currency", p.Currency),
		slog.String("render_mode", p.RenderMode),
		slog.Bool("forward_description", p.ForwardDescription),
	)
}

type LoggerConfig struct {
	Level  string `koanf:"level" validate:"omitempty,oneof=debug info warn error"`
	Format string `koanf:"format" validate:"omitempty,oneof=json text"`
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		"server.port":             "8080",
		"server.read_timeout":     "10s",
		"server.write_timeout":    "10s",
		"server.idle_timeout":     "60s",
		"server.request_timeout":  "5s",
		"server.shutdown_timeout": "30s",
		"server.max_body_bytes":   int64(1 << 20),

		"provider.base_url":            DefaultBaseURL,
		"provider.currency":            DefaultCurrency,
		"provider.render_mode":         DefaultRenderMode,
		"provider.forward_description": false,

		"logger.level":  "info",
		"logger.format": "json",
	}
}

func LoadConfig() (*Config, error) {
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelError,
	}))
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		logger.Error("failed to load defaults", "error", err)
		return nil, err
	}

	// BOLD_SECRET_KEY is the name used by earlier deployments of this function.
	err := k.Load(env.Provider("BOLD_", ".", func(s string) string {
		if s == "BOLD_SECRET_KEY" {
			return "provider.secret_key"
		}
		return ""
	}), nil)
	if err != nil {
		logger.Error("failed to load legacy environment variables", "error", err)
		return nil, err
	}

	// Empty variables are skipped so they cannot blank out defaults.
	err = k.Load(env.ProviderWithValue(EnvPrefix, ".", func(s, v string) (string, interface{}) {
		if v == "" {
			return "", nil
		}
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, EnvPrefix)),
			"__",
			".",
		), v
	}), nil)
	if err != nil {
		logger.Error("failed to load environment variables", "error", err)
		return nil, err
	}

	mainConfig := &Config{}

	err = k.Unmarshal("", mainConfig)
	if err != nil {
		logger.Error("could not unmarshal main config", "error", err)
		return nil, err
	}

	if err := mainConfig.Validate(); err != nil {
		logger.Error("config validation failed", "error", err)
		return nil, err
	}

	return mainConfig, nil
}

// Validate refuses configurations that would let the gateway serve traffic
// with a missing or placeholder signing key.
func (c *Config) Validate() error {
	secret := strings.TrimSpace(c.Provider.SecretKey)
	if secret == "" {
		return ErrMissingSecretKey
	}
	if secret == PlaceholderSecretKey || secret == LegacyPlaceholderSecretKey {
		return ErrPlaceholderSecretKey
	}

	return validator.New().Struct(c)
}
