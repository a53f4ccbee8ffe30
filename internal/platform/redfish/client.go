// Package redfish checks hardware health over the BMC's Redfish API.
package redfish

import (
	"context"
	"fmt"
	"time"

	"github.com/stmcginnis/gofish"
)

// Health is the global system health reported by the BMC.
type Health string

const (
	HealthOK       Health = "OK"
	HealthWarning  Health = "Warning"
	HealthCritical Health = "Critical"
	HealthUnknown  Health = "Unknown"
)

// Degraded reports whether the health warrants an alert.
func (h Health) Degraded() bool {
	return h == HealthWarning || h == HealthCritical
}

// Credentials are the BMC login credentials.
type Credentials struct {
	Username string
	Password string
}

// HealthChecker reads the system health of one BMC.
type HealthChecker interface {
	SystemHealth(ctx context.Context, address string, creds Credentials) (Health, error)
}

// Client talks Redfish via gofish. BMCs ship self-signed certificates, so
// TLS verification is disabled by default.
type Client struct {
	Timeout  time.Duration
	Insecure bool
}

// NewClient creates a Redfish client with a 10s session timeout.
func NewClient() *Client {
	return &Client{Timeout: 10 * time.Second, Insecure: true}
}

// SystemHealth logs into the BMC at address and returns the rollup health
// of the first computer system it exposes.
func (c *Client) SystemHealth(ctx context.Context, address string, creds Credentials) (Health, error) {
	cfg := gofish.ClientConfig{
		Endpoint:  "https://" + address,
		Username:  creds.Username,
		Password:  creds.Password,
		Insecure:  c.Insecure,
		BasicAuth: false,
	}

	ctx, cancel := context.WithTimeout(ctx, c.Timeout)
	defer cancel()

	conn, err := gofish.ConnectContext(ctx, cfg)
	if err != nil {
		return HealthUnknown, fmt.Errorf("failed to connect to BMC %s: %w", address, err)
	}
	defer conn.Logout()

	systems, err := conn.Service.Systems()
	if err != nil {
		return HealthUnknown, fmt.Errorf("failed to list systems on BMC %s: %w", address, err)
	}
	if len(systems) == 0 {
		return HealthUnknown, fmt.Errorf("BMC %s exposes no systems", address)
	}

	health := Health(systems[0].Status.Health)
	if health == "" {
		health = HealthUnknown
	}
	return health, nil
}
