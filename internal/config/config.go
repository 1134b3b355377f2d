package config

import (
	"fmt"
	"os"

	"github.com/a8m/envsubst"
	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"
)

// Config is the optional usrse configuration file. Everything has a
// sensible default; a missing file is not an error.
type Config struct {
	BaseURL  string             `yaml:"baseurl" validate:"omitempty,url"`
	Limit    int                `yaml:"limit" validate:"gte=0"`
	Delay    float64            `yaml:"delay" validate:"gte=0"`
	Services map[string]Service `yaml:"services" validate:"dive"`
	Watch    Watch              `yaml:"watch"`
}

// Watch holds defaults for watch mode.
type Watch struct {
	Every    string   `yaml:"every"`
	Cron     string   `yaml:"cron"`
	Template string   `yaml:"template"`
	Notify   []string `yaml:"notify"`
}

// Service is a notification service definition. It accepts either a
// plain Shoutrrr URL string or an object with url and params.
type Service struct {
	URL    string            `yaml:"url" validate:"required"`
	Params map[string]string `yaml:"params"`
}

func (s *Service) UnmarshalYAML(unmarshal func(any) error) error {
	var str string
	if err := unmarshal(&str); err == nil {
		s.URL = str
		return nil
	}

	type serviceAlias Service
	var obj serviceAlias
	if err := unmarshal(&obj); err != nil {
		return fmt.Errorf("service: must be a shoutrrr URL string or an object with url/params")
	}
	*s = Service(obj)
	return nil
}

// Load reads, env-expands, parses, and validates a config file.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	data, err = envsubst.Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("expanding env vars: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}
