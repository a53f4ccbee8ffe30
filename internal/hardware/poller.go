// Package hardware polls host BMCs for hardware health and raises alerts
// for degraded systems.
package hardware

import (
	"context"
	"fmt"
	"time"

	"github.com/go-logr/logr"

	"github.com/openfleet/openfleet/internal/platform/redfish"
	"github.com/openfleet/openfleet/internal/store"
)

// Result summarizes one poll run.
type Result struct {
	Polled      int
	Skipped     int
	Unreachable int
	Degraded    int
}

// Poller checks every host with a known BMC address. A BMC that cannot be
// reached never fails the run; its host simply keeps its previous health.
type Poller struct {
	store   store.Store
	checker redfish.HealthChecker
	creds   redfish.Credentials
	log     logr.Logger
	now     func() time.Time
}

// NewPoller creates a poller using the given default BMC credentials.
func NewPoller(st store.Store, checker redfish.HealthChecker, creds redfish.Credentials, log logr.Logger) *Poller {
	return &Poller{store: st, checker: checker, creds: creds, log: log, now: time.Now}
}

// Poll checks all hosts once and persists health plus alerts.
func (p *Poller) Poll(ctx context.Context) (Result, error) {
	hosts, err := p.store.ListHosts(ctx)
	if err != nil {
		return Result{}, fmt.Errorf("failed to list hosts: %w", err)
	}

	var res Result
	for i := range hosts {
		host := hosts[i]
		if host.BMCAddress == "" {
			res.Skipped++
			continue
		}

		health, err := p.checker.SystemHealth(ctx, host.BMCAddress, p.creds)
		if err != nil {
			p.log.V(1).Info("BMC unreachable", "host", host.Hostname, "bmc", host.BMCAddress, "error", err.Error())
			res.Unreachable++
			continue
		}
		res.Polled++

		host.HardwareHealth = string(health)
		if err := p.store.SaveHost(ctx, &host); err != nil {
			return res, fmt.Errorf("failed to save host %s: %w", host.Hostname, err)
		}

		if health.Degraded() {
			res.Degraded++
			if err := p.raiseAlert(ctx, host, health); err != nil {
				return res, err
			}
		}
	}

	p.log.Info("hardware poll finished",
		"polled", res.Polled, "skipped", res.Skipped, "unreachable", res.Unreachable, "degraded", res.Degraded)
	return res, nil
}

func (p *Poller) raiseAlert(ctx context.Context, host store.Host, health redfish.Health) error {
	p.log.Info("hardware health issue", "host", host.Hostname, "health", string(health))

	severity := "warning"
	if health == redfish.HealthCritical {
		severity = "critical"
	}
	hostID := host.ID
	alert := &store.Alert{
		Source:      "Redfish",
		HostID:      &hostID,
		Title:       fmt.Sprintf("System Health: %s", health),
		Description: fmt.Sprintf("Global system status reported as %s", health),
		Severity:    severity,
		Active:      true,
		CreatedAt:   p.now(),
	}
	if err := p.store.CreateAlertIfAbsent(ctx, alert); err != nil {
		return fmt.Errorf("failed to create alert for %s: %w", host.Hostname, err)
	}

	entry := &store.AuditEntry{
		Action:    "hardware_issue_detected",
		Target:    host.Hostname,
		Details:   fmt.Sprintf("Redfish reported health: %s", health),
		CreatedAt: p.now(),
	}
	if err := p.store.AppendAudit(ctx, entry); err != nil {
		return fmt.Errorf("failed to append audit entry for %s: %w", host.Hostname, err)
	}
	return nil
}
