package commands

import (
	"github.com/spf13/cobra"

	"auractl/cmd/auractl/handlers"
)

// Add returns the add command.
//
// The add command grows an existing group by cloning its primary. The
// group is reconstructed from the credentials file, so add works from
// any machine holding that file.
func Add() *cobra.Command {
	var opts handlers.AddOptions

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add clones to an existing workshop group",
		Long: `Add grows an existing workshop group by cloning its primary.

The group is reconstructed from the credentials file. New instances
continue the ordinal sequence past the highest recorded ordinal, so
names are never reused even after deletions. Instances a previous
interrupted run left incomplete are resumed first.

The primary must still be running on Aura; a paused or deleted primary
aborts the command before any instance is created.

Example:
  auractl add --name WS --instances 5`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return handlers.Add(cmd.Context(), opts)
		},
	}

	bindGroupFlags(cmd, &opts.GroupOptions)
	bindShapeFlags(cmd, &opts.Shape)
	cmd.Flags().IntVarP(&opts.Count, "instances", "i", 1, "Number of clones to add")

	return cmd
}
