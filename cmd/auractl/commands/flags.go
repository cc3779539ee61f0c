package commands

import (
	"github.com/spf13/cobra"

	"auractl/cmd/auractl/handlers"
)

// bindGroupFlags binds the flags every group-level command shares.
func bindGroupFlags(cmd *cobra.Command, opts *handlers.GroupOptions) {
	cmd.Flags().StringVarP(&opts.ConfigPath, "config", "c", "", "Path to a YAML defaults file")
	cmd.Flags().StringVarP(&opts.BaseName, "name", "n", "", "Base name for instances in the group (default TRAINING)")
	cmd.Flags().StringVarP(&opts.OutputFile, "output-file", "o", "", "Credentials file to read and write (default db_credentials.json)")
	cmd.Flags().IntVar(&opts.Concurrency, "concurrency", 0, "Maximum concurrent clone/delete operations (default 4)")
}

// bindShapeFlags binds the instance shape overrides.
func bindShapeFlags(cmd *cobra.Command, shape *handlers.ShapeOptions) {
	cmd.Flags().StringVar(&shape.Memory, "memory", "", "Instance memory, e.g. 2GB")
	cmd.Flags().StringVar(&shape.Region, "region", "", "Cloud region, e.g. europe-west1")
	cmd.Flags().StringVar(&shape.CloudProvider, "cloud-provider", "", "Cloud provider: gcp, aws or azure")
	cmd.Flags().StringVar(&shape.Type, "type", "", "Instance type, e.g. enterprise-db")
	cmd.Flags().StringVar(&shape.Version, "version", "", "Neo4j major version, e.g. 5")
}
