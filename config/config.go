// Package config loads configuration for the solve demo from an optional
// YAML file with CAPTCHA_-prefixed environment overrides.
package config

import (
	"errors"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	// ServiceCredential is the solving-service API key. Required.
	ServiceCredential string `mapstructure:"service_credential"`

	// BrowserWS is the remote browser WebSocket debugger URL, token
	// included if the provider requires one. Required.
	BrowserWS string `mapstructure:"browser_ws"`

	// TargetURL is the page carrying the challenge.
	TargetURL string `mapstructure:"target_url"`

	PollIntervalMs  int `mapstructure:"poll_interval_ms"`
	MaxPollAttempts int `mapstructure:"max_poll_attempts"`
}

// Load reads configuration from path (optional, YAML) and the environment.
// Environment keys use the CAPTCHA_ prefix: CAPTCHA_SERVICE_CREDENTIAL,
// CAPTCHA_BROWSER_WS, and so on.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetDefault("target_url", "https://www.google.com/recaptcha/api2/demo")
	v.SetDefault("poll_interval_ms", 2000)
	v.SetDefault("max_poll_attempts", 30)

	v.SetEnvPrefix("CAPTCHA")
	for _, key := range []string{"service_credential", "browser_ws", "target_url", "poll_interval_ms", "max_poll_attempts"} {
		if err := v.BindEnv(key); err != nil {
			return nil, err
		}
	}

	if path != "" {
		v.SetConfigFile(path)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, err
	}
	if cfg.ServiceCredential == "" {
		return nil, errors.New("config: service_credential is required")
	}
	if cfg.BrowserWS == "" {
		return nil, errors.New("config: browser_ws is required")
	}
	return cfg, nil
}

// PollInterval returns the poll interval as a duration.
func (c *Config) PollInterval() time.Duration {
	return time.Duration(c.PollIntervalMs) * time.Millisecond
}
