package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"auractl/internal/bulk"
)

// DeleteOptions carries everything the delete command collected.
type DeleteOptions struct {
	GroupOptions
	Force bool
}

// confirmDeletion asks the operator to approve the deletion plan.
// Replaced in tests.
var confirmDeletion = func(scope string, names []string) (bool, error) {
	if !isatty.IsTerminal(os.Stdin.Fd()) && !isatty.IsCygwinTerminal(os.Stdin.Fd()) {
		return false, fmt.Errorf("stdin is not a terminal; pass --force to delete %s without confirmation", scope)
	}

	var confirmed bool
	form := huh.NewForm(huh.NewGroup(
		huh.NewConfirm().
			Title(fmt.Sprintf("Delete %d instances (%s)?", len(names), scope)).
			Description(strings.Join(names, ", ")).
			Affirmative("Delete").
			Negative("Cancel").
			Value(&confirmed),
	))
	if err := form.Run(); err != nil {
		return false, err
	}
	return confirmed, nil
}

// Delete handles the delete command.
//
// It tears down every instance of a group and removes its credential
// records. Without --force the deletion plan is shown and must be
// confirmed interactively.
func Delete(ctx context.Context, opts DeleteOptions) error {
	cfg, err := resolveDefaults(opts.GroupOptions, ShapeOptions{})
	if err != nil {
		return err
	}

	coordinator, store, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	// Without --name the command targets every persisted instance, not
	// the default group name.
	baseName := opts.BaseName
	display := baseName
	if display == "" {
		display = "all persisted instances"
	}

	if !opts.Force {
		plan, err := coordinator.DeletionPlan(baseName)
		if err != nil {
			return err
		}
		if len(plan) == 0 {
			log.Printf("Nothing to do: no matching instances in %s", store.Path())
			return nil
		}
		confirmed, err := confirmDeletion(display, plan)
		if err != nil {
			return err
		}
		if !confirmed {
			log.Printf("Deletion of %s cancelled", display)
			return nil
		}
	}

	summary, err := coordinator.Delete(ctx, baseName, true)
	if errors.Is(err, bulk.ErrNothingToDo) {
		log.Printf("Nothing to do: no matching instances in %s", store.Path())
		return nil
	}
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d instances could not be deleted; their records were kept in %s",
			len(summary.Failed), store.Path())
	}
	return nil
}
