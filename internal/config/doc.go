// Package config holds all operator-supplied configuration: Aura API
// credentials from the environment, instance spec defaults (optionally
// overridden by a YAML file and CLI flags), and timeout tuning.
package config
