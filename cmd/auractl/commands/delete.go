package commands

import (
	"github.com/spf13/cobra"

	"auractl/cmd/auractl/handlers"
)

// Delete returns the delete command.
//
// The delete command tears down every instance of a group and removes
// its credential records once the control plane acknowledges each
// deletion.
func Delete() *cobra.Command {
	var opts handlers.DeleteOptions

	cmd := &cobra.Command{
		Use:   "delete",
		Short: "Delete a workshop group and its credential records",
		Long: `Delete tears down every instance of a workshop group.

The group is reconstructed from the credentials file. Each instance is
deleted on Aura and its record removed from the file once the deletion
is acknowledged; records of instances that fail to delete are kept.

With --name only that group is deleted; without it every instance in
the credentials file is targeted. Without --force the full deletion
plan is shown and must be confirmed interactively.

Example:
  auractl delete --name WS

WARNING: This operation is irreversible. All instance data will be lost.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Delete(cmd.Context(), opts)
		},
	}

	bindGroupFlags(cmd, &opts.GroupOptions)
	cmd.Flags().BoolVar(&opts.Force, "force", false, "Skip the interactive confirmation")

	return cmd
}
