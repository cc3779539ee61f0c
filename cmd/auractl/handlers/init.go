package handlers

import (
	"context"
	"fmt"
	"log"
)

// InitOptions carries everything the init command collected.
type InitOptions struct {
	GroupOptions
	Shape    ShapeOptions
	Count    int
	DumpPath string
}

// Init handles the init command.
//
// It provisions a brand-new workshop group: one primary instance seeded
// from the dump, plus Count-1 clones of it. A partial run still writes
// every usable credential before returning.
func Init(ctx context.Context, opts InitOptions) error {
	cfg, err := resolveDefaults(opts.GroupOptions, opts.Shape)
	if err != nil {
		return err
	}
	if opts.DumpPath != "" {
		cfg.DumpPath = opts.DumpPath
	}

	coordinator, store, err := buildCoordinator(cfg)
	if err != nil {
		return err
	}

	log.Printf("Initializing group %s with %d instances", cfg.BaseName, opts.Count)

	summary, err := coordinator.Init(ctx, cfg.BaseName, opts.Count, cfg.Instance, cfg.DumpPath)
	if summary != nil {
		printSummary(summary)
	}
	if err != nil {
		return fmt.Errorf("init failed: %w", err)
	}

	log.Printf("Credentials written to %s", store.Path())
	if len(summary.Failed) > 0 {
		return fmt.Errorf("%d of %d instances failed; see %s for details",
			len(summary.Failed), len(summary.Ready)+len(summary.Failed)+len(summary.Skipped), store.Path())
	}
	return nil
}
