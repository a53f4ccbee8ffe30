// Package inventory turns raw OpenStack collections into persisted
// inventory records.
//
// It has two halves. The map builders fetch each collection once per cycle
// and index it by the identifier needed for joining, so synchronization
// never scans linearly. The entity synchronizers then compute the desired
// state of each host and instance and reconcile it against the store:
// create on first observation, update in place afterwards, and never delete
// on absence (a partial fetch must not look like decommissioning).
package inventory
