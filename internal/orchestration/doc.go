// Package orchestration runs inventory sync cycles across clusters.
//
// The orchestrator coordinates the order of a cycle and delegates the actual
// reconciliation to the inventory package. Clusters are independent: a
// failing cluster never affects another cluster's cycle, and at most one
// cycle runs per cluster at a time.
package orchestration
