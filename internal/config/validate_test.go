package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	return &Config{
		Clusters: []ClusterConfig{{
			Name:        "dc-east",
			AuthURL:     "https://keystone.example:5000/v3",
			Username:    "admin",
			Password:    "secret",
			ProjectName: "admin",
		}},
	}
}

func TestValidate(t *testing.T) {
	t.Parallel()
	require.NoError(t, validConfig().Validate())
}

func TestValidate_Errors(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "no clusters",
			mutate:  func(c *Config) { c.Clusters = nil },
			wantErr: "at least one cluster",
		},
		{
			name:    "missing name",
			mutate:  func(c *Config) { c.Clusters[0].Name = "" },
			wantErr: "name is required",
		},
		{
			name: "duplicate name",
			mutate: func(c *Config) {
				c.Clusters = append(c.Clusters, c.Clusters[0])
			},
			wantErr: "duplicate name",
		},
		{
			name:    "missing auth url",
			mutate:  func(c *Config) { c.Clusters[0].AuthURL = "" },
			wantErr: "auth_url is required",
		},
		{
			name:    "non-http auth url",
			mutate:  func(c *Config) { c.Clusters[0].AuthURL = "keystone.example:5000" },
			wantErr: "must be an http(s) URL",
		},
		{
			name:    "missing password",
			mutate:  func(c *Config) { c.Clusters[0].Password = "" },
			wantErr: "username and password are required",
		},
		{
			name:    "missing project",
			mutate:  func(c *Config) { c.Clusters[0].ProjectName = "" },
			wantErr: "project_name is required",
		},
		{
			name:    "snapshot without endpoint",
			mutate:  func(c *Config) { c.Snapshot = SnapshotConfig{Enabled: true, Bucket: "b"} },
			wantErr: "endpoint is required",
		},
		{
			name:    "snapshot without bucket",
			mutate:  func(c *Config) { c.Snapshot = SnapshotConfig{Enabled: true, Endpoint: "https://minio:9000"} },
			wantErr: "bucket is required",
		},
		{
			name:    "pue below one",
			mutate:  func(c *Config) { c.Cost.PUE = 0.8 },
			wantErr: "pue must be at least 1.0",
		},
		{
			name:    "bad log format",
			mutate:  func(c *Config) { c.Log.Format = "xml" },
			wantErr: "format must be console or json",
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			cfg := validConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
