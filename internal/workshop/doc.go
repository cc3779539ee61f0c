// Package workshop holds the domain model for a workshop instance group:
// instance roles and lifecycle states, name/ordinal conventions, and the
// in-memory state tracker that all polling results are applied to.
//
// The tracker is pure bookkeeping. It performs no I/O and no retries;
// polling cadence and retry policy live in internal/provisioning.
package workshop
