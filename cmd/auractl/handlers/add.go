package handlers

import (
	"context"
	"errors"
	"fmt"
	"log"

	"auractl/internal/bulk"
)

// AddOptions carries everything the add command collected.
type AddOptions struct {
	GroupOptions
	Shape ShapeOptions
	Count int
}

// Add handles the add command.
//
// It grows an existing group by Count clones of its persisted primary.
// The primary must still be running; clones a previous run left
// incomplete are resumed first.
func Add(ctx context.Context, opts AddOptions) error {
	cfg, err := resolveDefaults(opts.GroupOptions, opts.Shape)
	if err != nil {
		return err
	}

	coordinator, store, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	log.Printf("Adding %d instances to group %s", opts.Count, cfg.BaseName)

	summary, err := coordinator.Add(ctx, cfg.BaseName, opts.Count, cfg.Instance)
	if errors.Is(err, bulk.ErrNothingToDo) {
		log.Printf("Nothing to do: no persisted instances named %s-* in %s; run init first", cfg.BaseName, store.Path())
		return nil
	}
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("add failed: %w", err)
	}

	log.Printf("Credentials written to %s", store.Path())
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d new instances failed; see %s for details",
			len(summary.Failed), len(summary.Ready)+len(summary.Failed)+len(summary.Skipped), store.Path())
	}
	return nil
}
