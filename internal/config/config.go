// Package config loads and validates the openfleet configuration file.
package config

import (
	"github.com/openfleet/openfleet/internal/cost"
)

// Config is the root configuration.
type Config struct {
	Database DatabaseConfig  `yaml:"database" mapstructure:"database"`
	Clusters []ClusterConfig `yaml:"clusters" mapstructure:"clusters"`
	BMC      BMCConfig       `yaml:"bmc" mapstructure:"bmc"`
	Cost     cost.Settings   `yaml:"cost" mapstructure:"cost"`
	Snapshot SnapshotConfig  `yaml:"snapshot" mapstructure:"snapshot"`
	Sync     SyncConfig      `yaml:"sync" mapstructure:"sync"`
	Log      LogConfig       `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig locates the SQLite inventory database.
type DatabaseConfig struct {
	Path string `yaml:"path" mapstructure:"path"`
}

// ClusterConfig holds one cluster's API endpoint and credentials.
type ClusterConfig struct {
	Name              string `yaml:"name" mapstructure:"name"`
	AuthURL           string `yaml:"auth_url" mapstructure:"auth_url"`
	Username          string `yaml:"username" mapstructure:"username"`
	Password          string `yaml:"password" mapstructure:"password"`
	ProjectName       string `yaml:"project_name" mapstructure:"project_name"`
	RegionName        string `yaml:"region_name" mapstructure:"region_name"`
	UserDomainName    string `yaml:"user_domain_name" mapstructure:"user_domain_name"`
	ProjectDomainName string `yaml:"project_domain_name" mapstructure:"project_domain_name"`
	Insecure          bool   `yaml:"insecure" mapstructure:"insecure"`
}

// BMCConfig holds the default out-of-band management credentials used by
// the hardware poller.
type BMCConfig struct {
	Username string `yaml:"username" mapstructure:"username"`
	Password string `yaml:"password" mapstructure:"password"`
}

// SnapshotConfig configures inventory snapshot export to object storage.
type SnapshotConfig struct {
	Enabled   bool   `yaml:"enabled" mapstructure:"enabled"`
	Endpoint  string `yaml:"endpoint" mapstructure:"endpoint"`
	Region    string `yaml:"region" mapstructure:"region"`
	Bucket    string `yaml:"bucket" mapstructure:"bucket"`
	AccessKey string `yaml:"access_key" mapstructure:"access_key"`
	SecretKey string `yaml:"secret_key" mapstructure:"secret_key"`
}

// SyncConfig tunes the orchestrator.
type SyncConfig struct {
	// Concurrency caps how many clusters sync in parallel.
	Concurrency int `yaml:"concurrency" mapstructure:"concurrency"`
}

// LogConfig tunes log output.
type LogConfig struct {
	// Level is the zap level name: debug, info, warn, error.
	Level string `yaml:"level" mapstructure:"level"`
	// Format is "console" or "json".
	Format string `yaml:"format" mapstructure:"format"`
}
