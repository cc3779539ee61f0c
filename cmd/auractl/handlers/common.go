// Package handlers implements the business logic for CLI commands.
//
// Handlers wire the Aura API client, the dump loader, and the credential
// store into the provisioning workflow. External collaborators are
// created through package-level factory variables so tests can swap in
// mocks.
package handlers

import (
	"auractl/internal/bulk"
	"auractl/internal/config"
	"auractl/internal/credstore"
	"auractl/internal/platform/aura"
	"auractl/internal/provisioning"
	"auractl/internal/seed"
)

// GroupOptions are the flags shared by every group-level command. Empty
// or zero values fall back to the defaults file, then to built-ins.
type GroupOptions struct {
	ConfigPath  string
	BaseName    string
	OutputFile  string
	Concurrency int
}

// ShapeOptions override the instance shape from the command line.
type ShapeOptions struct {
	Memory        string
	Region        string
	CloudProvider string
	Type          string
	Version       string
}

// Factory function variables - can be replaced in tests.
var (
	loadCredentials = config.LoadCredentials

	// newAuraClient creates the control-plane client.
	newAuraClient = func(creds config.Credentials) aura.InstanceProvisioner {
		return aura.NewRealClient(creds)
	}

	// newLoader creates the dump loader for seeding the primary.
	newLoader = func() seed.Loader {
		return &seed.DockerLoader{}
	}

	// newWorkflow creates the provisioning workflow.
	newWorkflow = func(client aura.InstanceProvisioner, loader seed.Loader, store *credstore.Store, concurrency int) bulk.Provisioner {
		return provisioning.New(client, loader, store,
			provisioning.WithConcurrency(concurrency))
	}
)

// resolveDefaults merges the defaults file with command-line overrides.
// Flags win over the file, the file wins over built-ins.
func resolveDefaults(opts GroupOptions, shape ShapeOptions) (*config.Defaults, error) {
	cfg, err := config.LoadDefaults(opts.ConfigPath)
	if err != nil {
		return nil, err
	}
	if opts.BaseName != "" {
		cfg.BaseName = opts.BaseName
	}
	if opts.OutputFile != "" {
		cfg.CredentialsFile = opts.OutputFile
	}
	if opts.Concurrency > 0 {
		cfg.Concurrency = opts.Concurrency
	}
	if shape.Memory != "" {
		cfg.Instance.Memory = shape.Memory
	}
	if shape.Region != "" {
		cfg.Instance.Region = shape.Region
	}
	if shape.CloudProvider != "" {
		cfg.Instance.CloudProvider = shape.CloudProvider
	}
	if shape.Type != "" {
		cfg.Instance.Type = shape.Type
	}
	if shape.Version != "" {
		cfg.Instance.Version = shape.Version
	}
	return cfg, nil
}

// buildCoordinator assembles the full stack behind one command: API
// client from environment credentials, credential store at the resolved
// path, and the workflow bound to both.
func buildCoordinator(cfg *config.Defaults) (*bulk.Coordinator, *credstore.Store, error) {
	creds, err := loadCredentials()
	if err != nil {
		return nil, nil, err
	}
	client := newAuraClient(*creds)
	store := credstore.New(cfg.CredentialsFile)
	workflow := newWorkflow(client, newLoader(), store, cfg.Concurrency)
	return bulk.NewCoordinator(workflow, store), store, nil
}
