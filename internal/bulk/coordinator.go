// Package bulk executes group-wide operations against a persisted
// workshop group. It reconstructs the group from the credential store,
// since the store is the only state that survives between runs, and
// dispatches to the provisioning workflow.
package bulk

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"auractl/internal/config"
	"auractl/internal/credstore"
	"auractl/internal/provisioning"
	"auractl/internal/workshop"
)

// ErrNothingToDo indicates the requested base name has no persisted
// instances. Callers should present it as an outcome, not a failure.
var ErrNothingToDo = errors.New("no persisted instances match the base name")

// Provisioner is the part of the provisioning workflow the coordinator
// dispatches to.
type Provisioner interface {
	InitGroup(ctx context.Context, baseName string, count int, spec config.InstanceSpec, dumpPath string) (*provisioning.Summary, error)
	AddInstances(ctx context.Context, group *workshop.Group, count int, spec config.InstanceSpec) (*provisioning.Summary, error)
	DeleteGroup(ctx context.Context, group *workshop.Group, force bool) (*provisioning.Summary, error)
	DeletionPlan(group *workshop.Group) []string
}

// Coordinator binds the provisioning workflow to the credential store.
type Coordinator struct {
	provisioner Provisioner
	store       *credstore.Store
}

// NewCoordinator creates a coordinator over the given workflow and store.
func NewCoordinator(p Provisioner, store *credstore.Store) *Coordinator {
	return &Coordinator{provisioner: p, store: store}
}

// LoadGroup reconstructs the group named baseName from the store.
// Records for other groups in the same file are ignored. An empty
// baseName matches every record, including ones whose names do not
// follow the {base}-{ordinal} pattern; that form is only meaningful for
// deletion. Instances come back sorted by ordinal then name; the
// returned group is empty when nothing matches.
func LoadGroup(store *credstore.Store, baseName string) (*workshop.Group, error) {
	records, err := store.LoadAll()
	if err != nil {
		return nil, err
	}

	group := workshop.NewGroup(baseName)
	for name, rec := range records {
		base, ordinal, ok := workshop.ParseInstanceName(name)
		if baseName != "" && (!ok || base != baseName) {
			continue
		}
		if !ok {
			ordinal = 0
		}
		group.Add(&workshop.Instance{
			ID:            rec.DBID,
			Name:          name,
			Ordinal:       ordinal,
			Role:          roleForOrdinal(ordinal),
			Status:        statusFromRecord(rec),
			ConnectionURL: rec.ConnectionURL,
			Username:      rec.Username,
			Password:      rec.Password,
			LastError:     rec.Error,
		})
	}
	sort.Slice(group.Instances, func(i, j int) bool {
		a, b := group.Instances[i], group.Instances[j]
		if a.Ordinal != b.Ordinal {
			return a.Ordinal < b.Ordinal
		}
		return a.Name < b.Name
	})
	return group, nil
}

// Init provisions a brand-new group. A base name that already has
// persisted instances is rejected so two workshops cannot collide on the
// same names.
func (c *Coordinator) Init(ctx context.Context, baseName string, count int, spec config.InstanceSpec, dumpPath string) (*provisioning.Summary, error) {
	group, err := LoadGroup(c.store, baseName)
	if err != nil {
		return nil, err
	}
	if len(group.Instances) > 0 {
		return nil, &provisioning.PreconditionError{
			Reason: fmt.Sprintf("group %s already has %d persisted instances; use add to grow it or delete it first", baseName, len(group.Instances)),
		}
	}
	return c.provisioner.InitGroup(ctx, baseName, count, spec, dumpPath)
}

// Add grows an existing group by count clones.
func (c *Coordinator) Add(ctx context.Context, baseName string, count int, spec config.InstanceSpec) (*provisioning.Summary, error) {
	group, err := LoadGroup(c.store, baseName)
	if err != nil {
		return nil, err
	}
	if len(group.Instances) == 0 {
		return nil, fmt.Errorf("add %s: %w", baseName, ErrNothingToDo)
	}
	return c.provisioner.AddInstances(ctx, group, count, spec)
}

// DeletionPlan lists the instance names a Delete for baseName would
// remove, without touching the cloud.
func (c *Coordinator) DeletionPlan(baseName string) ([]string, error) {
	group, err := LoadGroup(c.store, baseName)
	if err != nil {
		return nil, err
	}
	return c.provisioner.DeletionPlan(group), nil
}

// Delete tears down a whole group. An empty group is only an error when
// the caller expected a confirmation flow; a forced delete of nothing is
// a no-op success.
func (c *Coordinator) Delete(ctx context.Context, baseName string, force bool) (*provisioning.Summary, error) {
	group, err := LoadGroup(c.store, baseName)
	if err != nil {
		return nil, err
	}
	if len(group.Instances) == 0 {
		if force {
			return &provisioning.Summary{BaseName: baseName}, nil
		}
		return nil, fmt.Errorf("delete %s: %w", baseName, ErrNothingToDo)
	}
	return c.provisioner.DeleteGroup(ctx, group, force)
}

func roleForOrdinal(ordinal int) workshop.Role {
	if ordinal == 1 {
		return workshop.RolePrimary
	}
	return workshop.RoleClone
}

// statusFromRecord maps a persisted marker back onto the local state
// machine. A clean record is a ready instance; an incomplete one re-enters
// as requested so a later add can resume it.
func statusFromRecord(rec credstore.Record) workshop.Status {
	switch rec.Status {
	case credstore.StatusFailed:
		return workshop.StatusFailed
	case credstore.StatusIncomplete:
		return workshop.StatusRequested
	default:
		return workshop.StatusReady
	}
}
