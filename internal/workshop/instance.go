package workshop

// Role distinguishes the seed source from its copies.
type Role string

const (
	// RolePrimary is the single instance per group that is seeded with the
	// workshop dataset. All clones are derived from it.
	RolePrimary Role = "primary"
	// RoleClone is an instance created by cloning the primary's data.
	RoleClone Role = "clone"
)

// Status is the lifecycle state of an instance as tracked locally.
type Status string

const (
	StatusRequested    Status = "requested"
	StatusProvisioning Status = "provisioning"
	StatusRunning      Status = "running"
	StatusSeeding      Status = "seeding"
	StatusSeeded       Status = "seeded"
	StatusCloning      Status = "cloning"
	StatusReady        Status = "ready"
	StatusFailed       Status = "failed"
	StatusDeleting     Status = "deleting"
	StatusDeleted      Status = "deleted"
)

// IsTerminal reports whether a status is final for a run. Terminal states
// are never overwritten by polled observations.
func IsTerminal(s Status) bool {
	switch s {
	case StatusReady, StatusFailed, StatusDeleted:
		return true
	}
	return false
}

// Instance is one managed database resource in a workshop group.
type Instance struct {
	ID            string // assigned by the control plane, empty until created
	Name          string
	Ordinal       int
	Role          Role
	Status        Status
	ConnectionURL string
	Username      string
	Password      string
	LastError     string
}

// Group is the named set of instances created, extended, and deleted together.
type Group struct {
	BaseName  string
	Instances []*Instance
}

// NewGroup returns an empty group for the given base name.
func NewGroup(baseName string) *Group {
	return &Group{BaseName: baseName}
}

// Add appends an instance. Insertion order is creation order.
func (g *Group) Add(inst *Instance) {
	g.Instances = append(g.Instances, inst)
}

// Primary returns the group's primary instance, or nil if it has none.
func (g *Group) Primary() *Instance {
	for _, inst := range g.Instances {
		if inst.Role == RolePrimary {
			return inst
		}
	}
	return nil
}

// Lookup returns the instance with the given name, or nil.
func (g *Group) Lookup(name string) *Instance {
	for _, inst := range g.Instances {
		if inst.Name == name {
			return inst
		}
	}
	return nil
}

// NextOrdinal returns the ordinal the next instance should receive.
// Ordinals continue past the highest existing ordinal and are never
// reused within a group, even across runs.
func (g *Group) NextOrdinal() int {
	max := 0
	for _, inst := range g.Instances {
		if inst.Ordinal > max {
			max = inst.Ordinal
		}
	}
	return max + 1
}
