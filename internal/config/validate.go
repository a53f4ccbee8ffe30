package config

import (
	"fmt"
	"strings"
)

// Validate checks the configuration for structural errors.
func (c *Config) Validate() error {
	if len(c.Clusters) == 0 {
		return fmt.Errorf("at least one cluster must be configured")
	}

	seen := make(map[string]bool, len(c.Clusters))
	for i, cluster := range c.Clusters {
		if cluster.Name == "" {
			return fmt.Errorf("cluster %d: name is required", i)
		}
		if seen[cluster.Name] {
			return fmt.Errorf("cluster %q: duplicate name", cluster.Name)
		}
		seen[cluster.Name] = true

		if cluster.AuthURL == "" {
			return fmt.Errorf("cluster %q: auth_url is required", cluster.Name)
		}
		if !strings.HasPrefix(cluster.AuthURL, "http://") && !strings.HasPrefix(cluster.AuthURL, "https://") {
			return fmt.Errorf("cluster %q: auth_url must be an http(s) URL", cluster.Name)
		}
		if cluster.Username == "" || cluster.Password == "" {
			return fmt.Errorf("cluster %q: username and password are required", cluster.Name)
		}
		if cluster.ProjectName == "" {
			return fmt.Errorf("cluster %q: project_name is required", cluster.Name)
		}
	}

	if c.Snapshot.Enabled {
		if c.Snapshot.Endpoint == "" {
			return fmt.Errorf("snapshot: endpoint is required when enabled")
		}
		if c.Snapshot.Bucket == "" {
			return fmt.Errorf("snapshot: bucket is required when enabled")
		}
	}

	if c.Cost.PUE < 1 && c.Cost.PUE != 0 {
		return fmt.Errorf("cost: pue must be at least 1.0")
	}

	switch c.Log.Format {
	case "", "console", "json":
	default:
		return fmt.Errorf("log: format must be console or json")
	}

	return nil
}
