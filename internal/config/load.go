package config

import (
	"fmt"
	"os"

	"github.com/mitchellh/mapstructure"
	"gopkg.in/yaml.v3"

	"github.com/openfleet/openfleet/internal/cost"
)

// LoadFile reads and parses the configuration from a YAML file.
func LoadFile(path string) (*Config, error) {
	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var rawConfig map[string]interface{}
	if err := yaml.Unmarshal(data, &rawConfig); err != nil {
		return nil, fmt.Errorf("failed to unmarshal yaml: %w", err)
	}

	var cfg Config
	if err := mapstructure.Decode(rawConfig, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// applyDefaults fills unset fields. BMC credentials fall back to
// environment variables before the vendor defaults.
func applyDefaults(cfg *Config) {
	if cfg.Database.Path == "" {
		cfg.Database.Path = "openfleet.db"
	}
	if cfg.Sync.Concurrency == 0 {
		cfg.Sync.Concurrency = 4
	}
	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	if cfg.Log.Format == "" {
		cfg.Log.Format = "console"
	}

	if cfg.BMC.Username == "" {
		cfg.BMC.Username = envOr("BMC_USER", "root")
	}
	if cfg.BMC.Password == "" {
		cfg.BMC.Password = envOr("BMC_PASSWORD", "calvin")
	}

	defaults := cost.DefaultSettings()
	if cfg.Cost.ElectricityCost == 0 {
		cfg.Cost.ElectricityCost = defaults.ElectricityCost
	}
	if cfg.Cost.PUE == 0 {
		cfg.Cost.PUE = defaults.PUE
	}
	if cfg.Cost.Currency == "" {
		cfg.Cost.Currency = defaults.Currency
	}

	if cfg.Snapshot.Region == "" {
		cfg.Snapshot.Region = "us-east-1"
	}

	for i := range cfg.Clusters {
		if cfg.Clusters[i].UserDomainName == "" {
			cfg.Clusters[i].UserDomainName = "Default"
		}
		if cfg.Clusters[i].ProjectDomainName == "" {
			cfg.Clusters[i].ProjectDomainName = "Default"
		}
	}
}

func envOr(envVar, defaultVal string) string {
	if val := os.Getenv(envVar); val != "" {
		return val
	}
	return defaultVal
}
