// Package provisioning drives the workshop workflow: create the primary
// instance, seed it, fan out clones on a bounded worker pool, and persist
// credentials for every terminal instance.
//
// The orchestrator owns all polling, backoff, timeout, and retry policy.
// State transitions themselves live in internal/workshop; the Aura API and
// the dump loader are consumed through their interfaces so the whole
// workflow is testable without cloud access.
package provisioning
