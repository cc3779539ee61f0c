package provisioning

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"auractl/internal/config"
	"auractl/internal/credstore"
	"auractl/internal/platform/aura"
	"auractl/internal/seed"
	"auractl/internal/util/retry"
	"auractl/internal/workshop"
)

// Orchestrator sequences the workshop workflow against the Aura API.
type Orchestrator struct {
	client      aura.InstanceProvisioner
	loader      seed.Loader
	store       *credstore.Store
	tracker     *workshop.Tracker
	observer    Observer
	timeouts    *config.Timeouts
	concurrency int
	runID       string
}

// Option customizes an Orchestrator.
type Option func(*Orchestrator)

// WithObserver replaces the progress observer.
func WithObserver(obs Observer) Option {
	return func(o *Orchestrator) { o.observer = obs }
}

// WithTimeouts replaces the timeout configuration.
func WithTimeouts(t *config.Timeouts) Option {
	return func(o *Orchestrator) { o.timeouts = t }
}

// WithConcurrency sets the clone/delete worker pool size.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// New creates an orchestrator. Each orchestrator carries a fresh run ID
// that tags every record it writes.
func New(client aura.InstanceProvisioner, loader seed.Loader, store *credstore.Store, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		client:      client,
		loader:      loader,
		store:       store,
		tracker:     workshop.NewTracker(),
		observer:    NewConsoleObserver(),
		timeouts:    config.LoadTimeouts(),
		concurrency: config.DefaultConcurrency,
		runID:       uuid.NewString(),
	}
	for _, opt := range opts {
		opt(o)
	}
	o.tracker.SetLogf(o.observer.Printf)
	return o
}

// Tracker exposes the run's state tracker, primarily for tests.
func (o *Orchestrator) Tracker() *workshop.Tracker {
	return o.tracker
}

// InitGroup provisions a new group of count instances: one seeded primary
// and count-1 clones of it. The dump at dumpPath is validated before any
// cloud call. A failed primary or a failed dump load aborts the whole run;
// individual clone failures do not.
func (o *Orchestrator) InitGroup(ctx context.Context, baseName string, count int, spec config.InstanceSpec, dumpPath string) (*Summary, error) {
	if count < 1 {
		return nil, &PreconditionError{Reason: fmt.Sprintf("instance count must be at least 1, got %d", count)}
	}

	localDump, cleanupDump, err := seed.ResolveDumpPath(ctx, dumpPath)
	if err != nil {
		return nil, &PreconditionError{Reason: err.Error()}
	}
	defer cleanupDump()

	group := workshop.NewGroup(baseName)
	summary := newSummary(baseName, o.runID)

	primary := &workshop.Instance{
		Name:    workshop.PrimaryName(baseName),
		Ordinal: 1,
		Role:    workshop.RolePrimary,
	}
	o.tracker.Register(primary)
	group.Add(primary)

	cloneOrdinals := make([]int, 0, count-1)
	for ordinal := 2; ordinal <= count; ordinal++ {
		cloneOrdinals = append(cloneOrdinals, ordinal)
	}

	if err := o.provisionPrimary(ctx, primary, spec, localDump); err != nil {
		summary.skipOrdinals(baseName, cloneOrdinals)
		summary.collect(group.Instances)
		if perr := o.flushRecords(group.Instances); perr != nil {
			o.observer.Printf("warning: %v", perr)
		}
		return summary, err
	}

	o.runClones(ctx, primary.ID, spec, o.newClones(group, cloneOrdinals))

	summary.collect(group.Instances)
	if err := o.flushRecords(group.Instances); err != nil {
		return summary, err
	}
	o.observer.Printf("group %s: %d ready, %d failed, %d skipped",
		baseName, len(summary.Ready), len(summary.Failed), len(summary.Skipped))
	return summary, nil
}

// AddInstances extends an existing group by count clones of its primary.
// The primary must be present in the group and ready on the cloud side;
// otherwise the whole operation fails before any instance is created.
func (o *Orchestrator) AddInstances(ctx context.Context, group *workshop.Group, count int, spec config.InstanceSpec) (*Summary, error) {
	if count < 1 {
		return nil, &PreconditionError{Reason: fmt.Sprintf("instance count must be at least 1, got %d", count)}
	}

	for _, inst := range group.Instances {
		if o.tracker.Get(inst.Name) == nil {
			o.tracker.Register(inst)
		}
	}

	primary := group.Primary()
	if primary == nil || primary.ID == "" {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("primary instance %s not found in credential store; run init first", workshop.PrimaryName(group.BaseName)),
		}
	}
	if primary.Status == workshop.StatusFailed {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("recorded primary %s is marked %s and cannot be a clone source", primary.Name, primary.Status),
		}
	}

	info, err := o.getInstance(ctx, primary.ID)
	if err != nil {
		return nil, &PreconditionError{Reason: fmt.Sprintf("failed to verify primary %s: %v", primary.Name, err)}
	}
	if info.Status != aura.StatusRunning {
		return nil, &PreconditionError{
			Reason: fmt.Sprintf("primary %s is %s, not running; cannot clone from it", primary.Name, info.Status),
		}
	}

	// Pick up clones a previous interrupted run left incomplete before
	// numbering new ones; their ordinals are already taken.
	retries := make([]*workshop.Instance, 0)
	for _, inst := range group.Instances {
		if inst.Role == workshop.RoleClone && !workshop.IsTerminal(inst.Status) {
			retries = append(retries, inst)
		}
	}

	start := group.NextOrdinal()
	ordinals := make([]int, 0, count)
	for ordinal := start; ordinal < start+count; ordinal++ {
		ordinals = append(ordinals, ordinal)
	}

	o.observer.Printf("group %s: adding %d clones of %s starting at ordinal %d (%d incomplete to retry)",
		group.BaseName, count, primary.Name, start, len(retries))

	clones := append(retries, o.newClones(group, ordinals)...)
	o.runClones(ctx, primary.ID, spec, clones)

	summary := newSummary(group.BaseName, o.runID)
	summary.collect(clones)
	if err := o.flushRecords(clones); err != nil {
		return summary, err
	}
	return summary, nil
}

// DeletionPlan returns the names that DeleteGroup would remove, in group
// order. It performs no cloud calls.
func (o *Orchestrator) DeletionPlan(group *workshop.Group) []string {
	names := make([]string, 0, len(group.Instances))
	for _, inst := range group.Instances {
		names = append(names, inst.Name)
	}
	return names
}

// DeleteGroup deletes every instance in the group and removes its
// credential record once deletion is acknowledged. The caller must have
// confirmed the deletion: without force the call fails with
// ErrConfirmationRequired and touches nothing.
func (o *Orchestrator) DeleteGroup(ctx context.Context, group *workshop.Group, force bool) (*Summary, error) {
	if !force {
		return nil, ErrConfirmationRequired
	}

	summary := newSummary(group.BaseName, o.runID)
	o.runDeletes(ctx, group.Instances)

	for _, inst := range group.Instances {
		switch inst.Status {
		case workshop.StatusDeleted:
			summary.Deleted = append(summary.Deleted, inst.Name)
			if _, err := o.store.RemoveAll(func(name string) bool { return name == inst.Name }); err != nil {
				return summary, &PersistenceError{Err: err}
			}
		default:
			summary.Failed = append(summary.Failed, inst.Name)
		}
	}
	o.observer.Printf("group %s: deleted %d instances, %d failed",
		group.BaseName, len(summary.Deleted), len(summary.Failed))
	return summary, nil
}

// provisionPrimary creates the primary, waits until it runs, and loads the
// dump into it. Any failure here is fatal for the run.
func (o *Orchestrator) provisionPrimary(ctx context.Context, primary *workshop.Instance, spec config.InstanceSpec, dumpDir string) error {
	o.observer.Printf("creating primary instance %s", primary.Name)

	info, err := o.createInstance(ctx, primary.Name, spec, "")
	if err != nil {
		o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusFailed, Detail: err.Error()})
		return fmt.Errorf("failed to create primary %s: %w", primary.Name, err)
	}
	adoptInfo(primary, info)
	o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusProvisioning})

	if err := o.pollUntil(ctx, primary, workshop.StatusRunning, o.timeouts.InstanceWait); err != nil {
		return fmt.Errorf("primary %s never became ready: %w", primary.Name, err)
	}

	o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusSeeding})
	o.observer.Printf("loading dump into %s (%s)", primary.Name, primary.ID)

	seedCtx, cancel := context.WithTimeout(ctx, o.timeouts.SeedWait)
	defer cancel()

	result, err := o.loader.Seed(seedCtx, seed.Target{
		InstanceID: primary.ID,
		Password:   primary.Password,
	}, dumpDir, func(line string) {
		o.observer.Printf("seed %s: %s", primary.Name, line)
	})
	if err != nil {
		o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusFailed, Detail: err.Error()})
		return &SeedingError{Instance: primary.Name, Message: err.Error()}
	}
	if !result.Success {
		o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusFailed, Detail: result.Message})
		return &SeedingError{Instance: primary.Name, Message: result.Message}
	}

	o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusSeeded})
	o.tracker.Advance(workshop.Report{Name: primary.Name, Observed: workshop.StatusReady})
	o.observer.Printf("primary %s is ready", primary.Name)
	return nil
}

// createInstance calls the API with retry on transient errors. Fatal API
// errors (auth, quota, invalid input) fail immediately.
func (o *Orchestrator) createInstance(ctx context.Context, name string, spec config.InstanceSpec, sourceID string) (*aura.InstanceInfo, error) {
	opts := aura.InstanceCreateOpts{
		Name:          name,
		Memory:        spec.Memory,
		Region:        spec.Region,
		CloudProvider: spec.CloudProvider,
		Type:          spec.Type,
		Version:       spec.Version,
	}

	var info *aura.InstanceInfo
	err := retry.WithExponentialBackoff(ctx, func() error {
		var err error
		if sourceID == "" {
			info, err = o.client.CreateInstance(ctx, opts)
		} else {
			info, err = o.client.CloneInstance(ctx, sourceID, opts)
		}
		return classify(err)
	},
		retry.WithMaxRetries(o.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.timeouts.RetryInitialDelay))
	if err != nil {
		return nil, err
	}
	return info, nil
}

// getInstance polls the API with retry on transient errors. Not-found is
// returned unretried so deletion polling can observe it.
func (o *Orchestrator) getInstance(ctx context.Context, instanceID string) (*aura.InstanceInfo, error) {
	var info *aura.InstanceInfo
	err := retry.WithExponentialBackoff(ctx, func() error {
		var err error
		info, err = o.client.GetInstance(ctx, instanceID)
		return classify(err)
	},
		retry.WithMaxRetries(o.timeouts.RetryMaxAttempts),
		retry.WithInitialDelay(o.timeouts.RetryInitialDelay))
	if err != nil {
		return nil, err
	}
	return info, nil
}

// classify marks non-transient API errors as fatal so the retry helper
// stops immediately instead of consuming the budget.
func classify(err error) error {
	if err == nil {
		return nil
	}
	if aura.IsTransient(err) {
		return err
	}
	return retry.Fatal(err)
}

// adoptInfo copies API-assigned identity and credentials onto an instance.
func adoptInfo(inst *workshop.Instance, info *aura.InstanceInfo) {
	inst.ID = info.ID
	if info.ConnectionURL != "" {
		inst.ConnectionURL = info.ConnectionURL
	}
	if info.Username != "" {
		inst.Username = info.Username
	}
	if info.Password != "" {
		inst.Password = info.Password
	}
}

// flushRecords persists every instance in its terminal or last-known
// state. Non-terminal instances (interrupted runs) are tagged incomplete
// with the run ID so a later add can detect and retry them.
func (o *Orchestrator) flushRecords(instances []*workshop.Instance) error {
	updates := make(map[string]credstore.Record, len(instances))
	for _, inst := range instances {
		rec := credstore.Record{
			DBID:          inst.ID,
			ConnectionURL: inst.ConnectionURL,
			Username:      inst.Username,
			Password:      inst.Password,
		}
		switch {
		case inst.Status == workshop.StatusReady:
			// Clean record, no marker.
		case inst.Status == workshop.StatusFailed:
			rec.Status = credstore.StatusFailed
			rec.Error = inst.LastError
			rec.RunID = o.runID
		default:
			rec.Status = credstore.StatusIncomplete
			rec.RunID = o.runID
		}
		updates[inst.Name] = rec
	}
	if err := o.store.UpsertAll(updates); err != nil {
		return &PersistenceError{Err: err}
	}
	return nil
}
