package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Credentials holds the Aura API credentials, loaded from the environment.
type Credentials struct {
	ClientID     string `envconfig:"AURA_CLIENT_ID" required:"true"`
	ClientSecret string `envconfig:"AURA_CLIENT_SECRET" required:"true"`
	TenantID     string `envconfig:"AURA_TENANT_ID" required:"true"`
}

// LoadCredentials reads Aura credentials from AURA_* environment variables.
func LoadCredentials() (*Credentials, error) {
	var creds Credentials
	if err := envconfig.Process("", &creds); err != nil {
		return nil, fmt.Errorf("failed to load Aura credentials from environment: %w", err)
	}
	return &creds, nil
}

// InstanceSpec describes the shape of the instances to provision.
type InstanceSpec struct {
	Memory        string `yaml:"memory"`
	Region        string `yaml:"region"`
	CloudProvider string `yaml:"cloud_provider"`
	Type          string `yaml:"type"`
	Version       string `yaml:"version"`
}

// DefaultInstanceSpec returns the built-in instance defaults.
func DefaultInstanceSpec() InstanceSpec {
	return InstanceSpec{
		Memory:        "2GB",
		Region:        "europe-west1",
		CloudProvider: "gcp",
		Type:          "enterprise-db",
		Version:       "5",
	}
}

// Defaults is the optional YAML defaults file. Any field left empty (or
// zero) falls back to the built-in default; CLI flags override both.
type Defaults struct {
	BaseName        string       `yaml:"base_name"`
	CredentialsFile string       `yaml:"credentials_file"`
	DumpPath        string       `yaml:"dump_path"`
	Concurrency     int          `yaml:"concurrency"`
	Instance        InstanceSpec `yaml:"instance"`
}

// Built-in operational defaults.
const (
	DefaultBaseName        = "TRAINING"
	DefaultCredentialsFile = "db_credentials.json"
	DefaultDumpPath        = "dumps"
	DefaultConcurrency     = 4
)

// LoadDefaults reads a YAML defaults file and fills in built-in values for
// anything it leaves unset. An empty path returns the built-in defaults.
func LoadDefaults(path string) (*Defaults, error) {
	d := &Defaults{
		BaseName:        DefaultBaseName,
		CredentialsFile: DefaultCredentialsFile,
		DumpPath:        DefaultDumpPath,
		Concurrency:     DefaultConcurrency,
		Instance:        DefaultInstanceSpec(),
	}
	if path == "" {
		return d, nil
	}

	// #nosec G304
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read defaults file: %w", err)
	}
	var file Defaults
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("failed to parse defaults file %s: %w", path, err)
	}
	d.merge(&file)
	return d, nil
}

func (d *Defaults) merge(from *Defaults) {
	if from.BaseName != "" {
		d.BaseName = from.BaseName
	}
	if from.CredentialsFile != "" {
		d.CredentialsFile = from.CredentialsFile
	}
	if from.DumpPath != "" {
		d.DumpPath = from.DumpPath
	}
	if from.Concurrency > 0 {
		d.Concurrency = from.Concurrency
	}
	if from.Instance.Memory != "" {
		d.Instance.Memory = from.Instance.Memory
	}
	if from.Instance.Region != "" {
		d.Instance.Region = from.Instance.Region
	}
	if from.Instance.CloudProvider != "" {
		d.Instance.CloudProvider = from.Instance.CloudProvider
	}
	if from.Instance.Type != "" {
		d.Instance.Type = from.Instance.Type
	}
	if from.Instance.Version != "" {
		d.Instance.Version = from.Instance.Version
	}
}
