package provisioning

import (
	"context"
	"fmt"
	"time"

	"auractl/internal/platform/aura"
	"auractl/internal/workshop"
)

// pollUntil polls the API for one instance until the tracker reaches the
// wanted state. The poll interval starts at the configured base delay and
// backs off exponentially up to the ceiling. Exceeding maxWait marks the
// instance failed and returns an error.
func (o *Orchestrator) pollUntil(ctx context.Context, inst *workshop.Instance, want workshop.Status, maxWait time.Duration) error {
	pollCtx, cancel := context.WithTimeout(ctx, maxWait)
	defer cancel()

	delay := o.timeouts.PollInitialDelay

	for {
		info, err := o.getInstance(pollCtx, inst.ID)
		switch {
		case err == nil:
			if observed := observedStatus(inst.Role, info.Status); observed != "" {
				o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: observed, Detail: info.Status})
			} else {
				o.observer.Printf("%s: status %q has no local transition, still waiting", inst.Name, info.Status)
			}
			adoptInfo(inst, info)
		case aura.IsNotFound(err) && want == workshop.StatusDeleted:
			o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusDeleted})
		default:
			detail := fmt.Sprintf("status poll failed: %v", err)
			o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusFailed, Detail: detail})
			return fmt.Errorf("polling %s: %w", inst.Name, err)
		}

		switch inst.Status {
		case want:
			return nil
		case workshop.StatusFailed:
			return fmt.Errorf("%s reported failure: %s", inst.Name, inst.LastError)
		}

		select {
		case <-pollCtx.Done():
			detail := fmt.Sprintf("gave up waiting for %s after %v", want, maxWait)
			o.tracker.Advance(workshop.Report{Name: inst.Name, Observed: workshop.StatusFailed, Detail: detail})
			return fmt.Errorf("%s: %s: %w", inst.Name, detail, pollCtx.Err())
		case <-time.After(delay):
			delay *= 2
			if delay > o.timeouts.PollMaxDelay {
				delay = o.timeouts.PollMaxDelay
			}
		}
	}
}

// observedStatus maps an Aura API status onto the local state machine for
// the given role. Statuses with no local meaning (pausing, paused,
// resuming) map to "" and advance nothing.
func observedStatus(role workshop.Role, auraStatus string) workshop.Status {
	switch auraStatus {
	case aura.StatusCreating:
		if role == workshop.RoleClone {
			return workshop.StatusCloning
		}
		return workshop.StatusProvisioning
	case aura.StatusRunning:
		return workshop.StatusRunning
	case aura.StatusDestroying, "deleting":
		return workshop.StatusDeleting
	case aura.StatusFailed, "error":
		return workshop.StatusFailed
	}
	return ""
}
