// Package openstack wraps the OpenStack APIs consumed by the inventory
// engine behind a narrow interface.
//
// The [Client] interface exposes exactly the calls a sync cycle needs
// (compute services, hypervisors, servers, flavors, volumes, Ironic nodes,
// diagnostics). [RealClient] implements it with gophercloud, wrapping every
// remote call in bounded-retry logic that retries only transient
// network-class failures, and pacing requests with a rate limiter.
//
// Failures are normalized into [APIError] carrying a closed [FailureKind]
// so callers can match on the kind rather than on SDK error types.
package openstack
