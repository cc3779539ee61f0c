package aura

import "context"

// InstanceCreateOpts holds all parameters for creating an Aura instance.
type InstanceCreateOpts struct {
	Name          string
	Memory        string
	Region        string
	CloudProvider string
	Type          string
	Version       string
}

// InstanceInfo is the API's view of one instance.
//
// Credentials (Username, Password) are only returned by create and clone
// calls; status polls return the connection URL and status only.
type InstanceInfo struct {
	ID            string
	Name          string
	Status        string
	ConnectionURL string
	Username      string
	Password      string
}

// Instance status values reported by the Aura API.
const (
	StatusCreating   = "creating"
	StatusRunning    = "running"
	StatusPausing    = "pausing"
	StatusPaused     = "paused"
	StatusResuming   = "resuming"
	StatusDestroying = "destroying"
	StatusFailed     = "failed"
)

// InstanceProvisioner defines the interface for provisioning Aura instances.
type InstanceProvisioner interface {
	// CreateInstance creates a new, empty instance.
	CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*InstanceInfo, error)

	// CloneInstance creates a new instance with the data of the source
	// instance, without re-running any data load.
	CloneInstance(ctx context.Context, sourceInstanceID string, opts InstanceCreateOpts) (*InstanceInfo, error)

	// GetInstance returns the current status of an instance.
	// A deleted instance yields an error satisfying IsNotFound.
	GetInstance(ctx context.Context, instanceID string) (*InstanceInfo, error)

	// DeleteInstance requests asynchronous deletion of an instance.
	// Deleting an already-deleted instance is not an error.
	DeleteInstance(ctx context.Context, instanceID string) error

	// PauseInstance suspends a running instance.
	PauseInstance(ctx context.Context, instanceID string) error
}
