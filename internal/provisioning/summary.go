package provisioning

import (
	"fmt"

	"auractl/internal/workshop"
)

// Summary is the machine-readable outcome of one run: which instances are
// usable, which failed, and which were never attempted. A run with both
// ready and failed instances is a partial success.
type Summary struct {
	BaseName string
	RunID    string
	Ready    []string
	Failed   []string
	Skipped  []string
	Deleted  []string

	// Errors holds the recorded failure per instance name.
	Errors map[string]string
}

func newSummary(baseName, runID string) *Summary {
	return &Summary{
		BaseName: baseName,
		RunID:    runID,
		Errors:   make(map[string]string),
	}
}

// collect buckets instances by their terminal state.
func (s *Summary) collect(instances []*workshop.Instance) {
	for _, inst := range instances {
		switch inst.Status {
		case workshop.StatusReady:
			s.Ready = append(s.Ready, inst.Name)
		case workshop.StatusFailed:
			s.Failed = append(s.Failed, inst.Name)
			s.Errors[inst.Name] = inst.LastError
		default:
			s.Skipped = append(s.Skipped, inst.Name)
		}
	}
}

// skipOrdinals records instances that were never created because the run
// aborted before reaching them.
func (s *Summary) skipOrdinals(baseName string, ordinals []int) {
	for _, ordinal := range ordinals {
		s.Skipped = append(s.Skipped, workshop.InstanceName(baseName, ordinal))
	}
}

// PartialFailure reports whether some, but not all, instances failed.
func (s *Summary) PartialFailure() bool {
	return len(s.Failed) > 0 && len(s.Ready) > 0
}

// String renders a one-line result for logs.
func (s *Summary) String() string {
	return fmt.Sprintf("%s: %d ready, %d failed, %d skipped, %d deleted",
		s.BaseName, len(s.Ready), len(s.Failed), len(s.Skipped), len(s.Deleted))
}
