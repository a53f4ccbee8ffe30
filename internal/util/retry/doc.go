// Package retry provides bounded exponential backoff for transient failures.
//
// The [Do] function runs an operation up to a fixed number of attempts,
// sleeping between attempts with exponentially growing, clamped delays.
// Only errors accepted by the configured retryable predicate are retried;
// everything else surfaces immediately. It is used around every OpenStack
// API call the inventory engine makes.
package retry
