package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/goliatone/go-config/cfgx"
)

// ErrConfiguration reports a malformed client configuration.
var ErrConfiguration = errors.New("config: invalid configuration")

// ClientConfig describes one publish endpoint.
type ClientConfig struct {
	ControlURI string `mapstructure:"control_uri" json:"control_uri"`
	ControlIss string `mapstructure:"control_iss" json:"control_iss,omitempty"`
	Key        string `mapstructure:"key" json:"key,omitempty"`
	VerifyIss  string `mapstructure:"verify_iss" json:"verify_iss,omitempty"`
	VerifyKey  string `mapstructure:"verify_key" json:"verify_key,omitempty"`
}

// Validate ensures the entry names an endpoint.
func (c ClientConfig) Validate() error {
	if strings.TrimSpace(c.ControlURI) == "" {
		return fmt.Errorf("%w: control_uri is required", ErrConfiguration)
	}
	return nil
}

// HasAuth reports whether both issuer and key are present.
func (c ClientConfig) HasAuth() bool {
	return c.ControlIss != "" && c.Key != ""
}

// Config captures the publisher configuration: the endpoints plus shared knobs
// applied to every client built from them.
type Config struct {
	Clients  []ClientConfig `mapstructure:"clients" json:"clients"`
	TokenTTL time.Duration  `mapstructure:"token_ttl" json:"token_ttl"`
	Timeout  time.Duration  `mapstructure:"timeout" json:"timeout"`
}

// Defaults returns the baseline configuration.
func Defaults() Config {
	return Config{
		TokenTTL: time.Hour,
		Timeout:  10 * time.Second,
	}
}

// Validate ensures every client entry is usable and durations are sane.
func (c *Config) Validate() error {
	for i, client := range c.Clients {
		if err := client.Validate(); err != nil {
			return fmt.Errorf("clients[%d]: %w", i, err)
		}
	}
	if c.Timeout < 0 {
		return fmt.Errorf("%w: timeout must be >= 0", ErrConfiguration)
	}
	return nil
}

// Load decodes arbitrary input (struct, map, client entry or list of entries)
// using cfgx helpers, falling back to a lightweight decoder for the shapes
// cfgx leaves empty.
func Load(input any, opts ...LoadOption) (Config, error) {
	settings := loadOptions{}
	for _, opt := range opts {
		opt(&settings)
	}

	input, err := normalize(input)
	if err != nil {
		return Config{}, err
	}

	cfg, err := cfgx.Build(input, settings.buildOpts...)
	if err != nil {
		return Config{}, err
	}

	if isZero(cfg) {
		if err := decodeFallback(input, &cfg); err != nil {
			return Config{}, err
		}
	}

	cfg = cfg.withDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// LoadOption lets callers amend cfgx build options.
type LoadOption func(*loadOptions)

type loadOptions struct {
	buildOpts []cfgx.Option[Config]
}

// WithBuildOptions forwards cfgx options (duration hooks, preprocessors, etc.).
func WithBuildOptions(opts ...cfgx.Option[Config]) LoadOption {
	return func(lo *loadOptions) {
		lo.buildOpts = append(lo.buildOpts, opts...)
	}
}

func (c Config) withDefaults() Config {
	defaults := Defaults()

	if c.TokenTTL == 0 {
		c.TokenTTL = defaults.TokenTTL
	}
	if c.Timeout == 0 {
		c.Timeout = defaults.Timeout
	}
	return c
}

func isZero(cfg Config) bool {
	return reflect.DeepEqual(cfg, Config{})
}

func decodeFallback(input any, cfg *Config) error {
	switch v := input.(type) {
	case nil:
		return nil
	case Config:
		*cfg = v
		return nil
	case *Config:
		if v != nil {
			*cfg = *v
		}
		return nil
	case map[string]any:
		return decodeJSON(v, cfg)
	default:
		return fmt.Errorf("%w: unsupported config input type: %T", ErrConfiguration, input)
	}
}

// normalize turns the single-entry and list shapes accepted by the publisher
// into a Config so cfgx only ever sees the full document.
func normalize(input any) (any, error) {
	switch v := input.(type) {
	case ClientConfig:
		return Config{Clients: []ClientConfig{v}}, nil
	case []ClientConfig:
		return Config{Clients: append([]ClientConfig(nil), v...)}, nil
	case map[string]any:
		if _, single := v["control_uri"]; !single {
			return v, nil
		}
		var client ClientConfig
		if err := decodeJSON(v, &client); err != nil {
			return nil, err
		}
		return Config{Clients: []ClientConfig{client}}, nil
	case []map[string]any:
		var clients []ClientConfig
		if err := decodeJSON(v, &clients); err != nil {
			return nil, err
		}
		return Config{Clients: clients}, nil
	case []any:
		var clients []ClientConfig
		if err := decodeJSON(v, &clients); err != nil {
			return nil, err
		}
		return Config{Clients: clients}, nil
	default:
		return input, nil
	}
}

func decodeJSON(input any, out any) error {
	payload, err := json.Marshal(input)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(payload, out); err != nil {
		return fmt.Errorf("%w: %v", ErrConfiguration, err)
	}
	return nil
}
