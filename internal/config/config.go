package config

import (
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/viper"
)

const envPrefix = "GOADVICE"

type Config struct {
	Log     LogConfig     `mapstructure:"log"`
	Payment PaymentConfig `mapstructure:"payment"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type PaymentConfig struct {
	Amount int `mapstructure:"amount"`
	// Suppress drops the demo's expected exception at the call boundary.
	Suppress bool `mapstructure:"suppress"`
}

func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Payment: PaymentConfig{
			Amount:   5000,
			Suppress: true,
		},
	}
}

// Load merges defaults, the optional YAML file at path and GOADVICE_* environment
// variables, in that order of precedence from lowest to highest.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v, DefaultConfig())
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		if _, err := os.Stat(path); err != nil {
			return nil, errors.Wrapf(err, "config file='%s'", path)
		}
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, errors.Wrapf(err, "read config file='%s'", path)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return errors.Errorf("log.format='%s' must be text or json", c.Log.Format)
	}
	switch strings.ToLower(c.Log.Level) {
	case "debug", "info", "warn", "error":
	default:
		return errors.Errorf("log.level='%s' must be debug, info, warn or error", c.Log.Level)
	}
	return nil
}

// AutomaticEnv only resolves keys viper already knows about, so every key gets a default.
func setDefaults(v *viper.Viper, cfg *Config) {
	v.SetDefault("log.level", cfg.Log.Level)
	v.SetDefault("log.format", cfg.Log.Format)
	v.SetDefault("payment.amount", cfg.Payment.Amount)
	v.SetDefault("payment.suppress", cfg.Payment.Suppress)
}
