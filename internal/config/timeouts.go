package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the API client timing knobs. These values can be
// customized via environment variables.
type Timeouts struct {
	Connect           time.Duration // TCP connect timeout per API call
	Read              time.Duration // Overall request timeout per API call
	RetryMaxAttempts  int           // Maximum attempts per API call
	RetryInitialDelay time.Duration // First backoff delay
	RetryMaxDelay     time.Duration // Backoff delay ceiling
}

// LoadTimeouts loads timing configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - OPENSTACK_CONNECT_TIMEOUT (default: 10s)
//   - OPENSTACK_READ_TIMEOUT (default: 60s)
//   - OPENSTACK_RETRY_MAX_ATTEMPTS (default: 3)
//   - OPENSTACK_RETRY_INITIAL_DELAY (default: 2s)
//   - OPENSTACK_RETRY_MAX_DELAY (default: 10s)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		Connect:           parseDuration("OPENSTACK_CONNECT_TIMEOUT", 10*time.Second),
		Read:              parseDuration("OPENSTACK_READ_TIMEOUT", 60*time.Second),
		RetryMaxAttempts:  parseInt("OPENSTACK_RETRY_MAX_ATTEMPTS", 3),
		RetryInitialDelay: parseDuration("OPENSTACK_RETRY_INITIAL_DELAY", 2*time.Second),
		RetryMaxDelay:     parseDuration("OPENSTACK_RETRY_MAX_DELAY", 10*time.Second),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	i, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return i
}
