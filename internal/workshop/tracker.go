package workshop

import (
	"fmt"
	"log"
	"sync"
)

// Report is one polled observation about an instance.
type Report struct {
	Name     string
	Observed Status
	Detail   string // error text for failures, informational otherwise
}

// Tracker is the authoritative in-memory state machine for every instance
// in the current group. It applies polled observations through a
// deterministic transition table: observations that would move an instance
// backwards, or that conflict with a terminal state, are ignored and logged.
type Tracker struct {
	mu        sync.Mutex
	instances map[string]*Instance
	logf      func(format string, v ...any)
}

// NewTracker returns an empty tracker. Ignored observations are logged via
// the standard logger unless a custom logf is set with SetLogf.
func NewTracker() *Tracker {
	return &Tracker{
		instances: make(map[string]*Instance),
		logf:      log.Printf,
	}
}

// SetLogf replaces the logger used for ignored observations.
func (t *Tracker) SetLogf(logf func(format string, v ...any)) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.logf = logf
}

// Register adds an instance to the tracker. Registering a name twice is a
// programming error and panics.
func (t *Tracker) Register(inst *Instance) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if _, exists := t.instances[inst.Name]; exists {
		panic(fmt.Sprintf("workshop: instance %q registered twice", inst.Name))
	}
	if inst.Status == "" {
		inst.Status = StatusRequested
	}
	t.instances[inst.Name] = inst
}

// Get returns the tracked instance with the given name, or nil.
func (t *Tracker) Get(name string) *Instance {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.instances[name]
}

// Advance applies one observation and returns the instance's resulting
// state. Unknown instances and invalid transitions leave the state
// unchanged.
func (t *Tracker) Advance(report Report) Status {
	t.mu.Lock()
	defer t.mu.Unlock()

	inst, ok := t.instances[report.Name]
	if !ok {
		t.logf("tracker: observation for unknown instance %q ignored", report.Name)
		return ""
	}

	if inst.Status == report.Observed {
		return inst.Status
	}

	if !validTransition(inst.Role, inst.Status, report.Observed) {
		t.logf("tracker: %s: observed %q in state %q, ignored", inst.Name, report.Observed, inst.Status)
		return inst.Status
	}

	inst.Status = report.Observed
	if report.Observed == StatusFailed {
		inst.LastError = report.Detail
	} else {
		inst.LastError = ""
	}
	return inst.Status
}

// progression is the happy-path state order per role. Polling may skip
// intermediate states (a fast create can be observed directly as running),
// so any forward move along the role's progression is a valid transition.
var progression = map[Role][]Status{
	RolePrimary: {StatusRequested, StatusProvisioning, StatusRunning, StatusSeeding, StatusSeeded, StatusReady},
	RoleClone:   {StatusRequested, StatusProvisioning, StatusCloning, StatusRunning, StatusReady},
}

func validTransition(role Role, from, to Status) bool {
	// Deletion path: instances with in-flight provisioning work may not
	// start deleting; settled ones (ready, failed, or never attempted)
	// may. Only a deleting instance may be acknowledged as deleted.
	switch to {
	case StatusDeleting:
		return from == StatusReady || from == StatusFailed || from == StatusRequested
	case StatusDeleted:
		return from == StatusDeleting
	case StatusFailed:
		return from != StatusDeleted && from != StatusFailed
	}

	if from == StatusDeleting || IsTerminal(from) {
		return false
	}

	fromRank, okFrom := rank(role, from)
	toRank, okTo := rank(role, to)
	return okFrom && okTo && toRank > fromRank
}

func rank(role Role, s Status) (int, bool) {
	for i, st := range progression[role] {
		if st == s {
			return i, true
		}
	}
	return 0, false
}
