package provisioning

import (
	"context"
	"sync"

	"auractl/internal/config"
	"auractl/internal/util/retry"
	"auractl/internal/workshop"
)

// newClones builds and registers fresh clone instances for the given
// ordinals, in ordinal order.
func (o *Orchestrator) newClones(group *workshop.Group, ordinals []int) []*workshop.Instance {
	clones := make([]*workshop.Instance, 0, len(ordinals))
	for _, ordinal := range ordinals {
		inst := &workshop.Instance{
			Name:    workshop.InstanceName(group.BaseName, ordinal),
			Ordinal: ordinal,
			Role:    workshop.RoleClone,
		}
		o.tracker.Register(inst)
		group.Add(inst)
		clones = append(clones, inst)
	}
	return clones
}

// runClones drives clones to a terminal state on a bounded worker pool
// sized to respect API rate limits. Each instance is owned by exactly one
// worker, so no instance state is mutated concurrently, and failures are
// isolated per clone.
func (o *Orchestrator) runClones(ctx context.Context, sourceID string, spec config.InstanceSpec, clones []*workshop.Instance) {
	if len(clones) == 0 {
		return
	}

	o.observer.Printf("cloning %d instances from %s (%d workers)", len(clones), sourceID, o.poolSize(len(clones)))

	jobs := make(chan *workshop.Instance)
	var wg sync.WaitGroup
	for range o.poolSize(len(clones)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range jobs {
				o.provisionClone(ctx, inst, sourceID, spec)
			}
		}()
	}

feed:
	for _, inst := range clones {
		select {
		case jobs <- inst:
		case <-ctx.Done():
			// Stop handing out work; instances never attempted stay in
			// their requested state and are flushed as incomplete.
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}

// provisionClone drives one clone to a terminal state. Its errors are
// recorded on the instance, never propagated: a failed clone must not
// abort its siblings. An instance that already has a cloud ID (left
// incomplete by an interrupted run) skips creation and resumes polling.
func (o *Orchestrator) provisionClone(ctx context.Context, inst *workshop.Instance, sourceID string, spec config.InstanceSpec) {
	if ctx.Err() != nil {
		return
	}

	if inst.ID == "" {
		info, err := o.createInstance(ctx, inst.Name, spec, sourceID)
		if err != nil {
			o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusFailed, Detail: err.Error()})
			o.observer.Printf("clone %s failed: %v", inst.Name, err)
			return
		}
		adoptInfo(inst, info)
	} else {
		o.observer.Printf("resuming incomplete clone %s (%s)", inst.Name, inst.ID)
	}
	o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusCloning})

	if err := o.pollUntil(ctx, inst, workshop.StatusRunning, o.timeouts.InstanceWait); err != nil {
		o.observer.Printf("clone %s failed: %v", inst.Name, err)
		return
	}

	o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusReady})
	o.observer.Printf("clone %s is ready", inst.Name)
}

// runDeletes tears down instances on the same bounded pool.
func (o *Orchestrator) runDeletes(ctx context.Context, instances []*workshop.Instance) {
	if len(instances) == 0 {
		return
	}

	for _, inst := range instances {
		if o.tracker.Get(inst.Name) == nil {
			o.tracker.Register(inst)
		}
	}

	jobs := make(chan *workshop.Instance)
	var wg sync.WaitGroup
	for range o.poolSize(len(instances)) {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for inst := range jobs {
				o.deleteInstance(ctx, inst)
			}
		}()
	}

feed:
	for _, inst := range instances {
		select {
		case jobs <- inst:
		case <-ctx.Done():
			break feed
		}
	}
	close(jobs)
	wg.Wait()
}

// deleteInstance requests deletion and waits for the control plane to
// acknowledge it. An instance that was never created cloud-side (no ID)
// is immediately considered deleted.
func (o *Orchestrator) deleteInstance(ctx context.Context, inst *workshop.Instance) {
	if ctx.Err() != nil {
		return
	}

	if inst.ID == "" {
		o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusDeleting})
		o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusDeleted})
		return
	}

	err := retry.WithExponentialBackoff(ctx, func() error {
		return classify(o.client.DeleteInstance(ctx, inst.ID))
	},
		retry.WithMaxRetries(o.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.timeouts.RetryInitialDelay))
	if err != nil {
		o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusFailed, Detail: err.Error()})
		o.observer.Printf("delete %s failed: %v", inst.Name, err)
		return
	}
	o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusDeleting})

	if err := o.pollUntil(ctx, inst, workshop.StatusDeleted, o.timeouts.DeleteWait); err != nil {
		o.observer.Printf("delete %s not acknowledged: %v", inst.Name, err)
		return
	}
	o.observer.Printf("deleted %s", inst.Name)
}

func (o *Orchestrator) poolSize(pending int) int {
	if pending < o.concurrency {
		return pending
	}
	return o.concurrency
}
