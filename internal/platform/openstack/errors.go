package openstack

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"syscall"

	"github.com/gophercloud/gophercloud/v2"
)

// FailureKind is the closed taxonomy of remote-call failures.
type FailureKind int

const (
	// KindUnknown covers failures outside the named taxonomy. Not retried.
	KindUnknown FailureKind = iota

	// Transient kinds, retried by the bounded policy.
	KindConnectFailure
	KindConnectTimeout
	KindGatewayTimeout
	KindServiceUnavailable

	// Permanent kinds, never retried.
	KindAuthFailed
	KindNotFound
	KindMalformedResponse
)

// Transient reports whether the kind is worth another attempt.
func (k FailureKind) Transient() bool {
	switch k {
	case KindConnectFailure, KindConnectTimeout, KindGatewayTimeout, KindServiceUnavailable:
		return true
	default:
		return false
	}
}

func (k FailureKind) String() string {
	switch k {
	case KindConnectFailure:
		return "connect-failure"
	case KindConnectTimeout:
		return "connect-timeout"
	case KindGatewayTimeout:
		return "gateway-timeout"
	case KindServiceUnavailable:
		return "service-unavailable"
	case KindAuthFailed:
		return "auth-failed"
	case KindNotFound:
		return "not-found"
	case KindMalformedResponse:
		return "malformed-response"
	default:
		return "unknown"
	}
}

// APIError is a remote-call failure tagged with its kind and the call
// it originated from.
type APIError struct {
	Call string
	Kind FailureKind
	Err  error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Call, e.Kind, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// Classify wraps err into an APIError with the kind derived from the
// underlying transport or HTTP status. Already-classified errors pass
// through unchanged.
func Classify(call string, err error) error {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return err
	}
	return &APIError{Call: call, Kind: classifyKind(err), Err: err}
}

func classifyKind(err error) FailureKind {
	switch {
	case gophercloud.ResponseCodeIs(err, http.StatusUnauthorized),
		gophercloud.ResponseCodeIs(err, http.StatusForbidden):
		return KindAuthFailed
	case gophercloud.ResponseCodeIs(err, http.StatusNotFound):
		return KindNotFound
	case gophercloud.ResponseCodeIs(err, http.StatusBadGateway),
		gophercloud.ResponseCodeIs(err, http.StatusServiceUnavailable):
		return KindServiceUnavailable
	case gophercloud.ResponseCodeIs(err, http.StatusGatewayTimeout):
		return KindGatewayTimeout
	}

	var jsonSyntax *json.SyntaxError
	var jsonType *json.UnmarshalTypeError
	if errors.As(err, &jsonSyntax) || errors.As(err, &jsonType) {
		return KindMalformedResponse
	}

	if errors.Is(err, context.DeadlineExceeded) {
		return KindConnectTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindConnectTimeout
	}
	if errors.Is(err, syscall.ECONNREFUSED) || errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, syscall.EPIPE) || errors.Is(err, syscall.EHOSTUNREACH) {
		return KindConnectFailure
	}
	var opErr *net.OpError
	if errors.As(err, &opErr) {
		return KindConnectFailure
	}
	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return KindConnectFailure
	}

	return KindUnknown
}

// KindOf returns the failure kind of err, or KindUnknown for errors that
// did not come from a remote call.
func KindOf(err error) FailureKind {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Kind
	}
	return KindUnknown
}

// IsTransient reports whether err is a retryable remote failure.
func IsTransient(err error) bool {
	return KindOf(err).Transient()
}

// IsNotFound reports whether err is a not-found remote failure.
func IsNotFound(err error) bool {
	return KindOf(err) == KindNotFound
}
