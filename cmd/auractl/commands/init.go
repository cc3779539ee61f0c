package commands

import (
	"github.com/spf13/cobra"

	"auractl/cmd/auractl/handlers"
)

// Init returns the init command.
//
// The init command provisions a brand-new workshop group: one primary
// instance loaded with the workshop dump, plus clones of it for the
// remaining attendees.
func Init() *cobra.Command {
	var opts handlers.InitOptions

	cmd := &cobra.Command{
		Use:   "init",
		Short: "Provision a new workshop group of seeded Aura instances",
		Long: `Init provisions a new workshop group on Neo4j Aura.

The first instance ({name}-1) is created empty, loaded with the dump
found under --dump-path, and then used as the clone source for every
further instance. Each attendee gets their own instance with an
identical dataset.

Credentials for every instance are written incrementally to the output
file as instances become ready, so an interrupted run loses nothing.

Aura API credentials are read from AURA_CLIENT_ID, AURA_CLIENT_SECRET
and AURA_TENANT_ID.

Example:
  auractl init --name WS --instances 20 --dump-path ./dumps`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Init(cmd.Context(), opts)
		},
	}

	bindGroupFlags(cmd, &opts.GroupOptions)
	bindShapeFlags(cmd, &opts.Shape)
	cmd.Flags().IntVarP(&opts.Count, "instances", "i", 1, "Total number of instances, primary included")
	cmd.Flags().StringVar(&opts.DumpPath, "dump-path", "", "Directory (or s3:// URL) containing the dump to load")

	return cmd
}
