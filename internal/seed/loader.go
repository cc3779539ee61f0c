// Package seed loads a workshop dump into a running instance.
//
// The load runs `neo4j-admin database upload` inside a disposable docker
// container, the same invocation an operator would run by hand. Progress
// lines from the tool are surfaced as informational notifications; only
// the process exit is authoritative.
package seed

import "context"

// Target identifies the instance receiving the dump.
type Target struct {
	InstanceID string
	Password   string
	// Database is the database to upload into. Defaults to "neo4j".
	Database string
}

// Result is the final outcome of a seeding run.
type Result struct {
	Success bool
	Message string
}

// ProgressFunc receives informational progress lines while a load runs.
// Implementations must not treat any line as a completion signal.
type ProgressFunc func(line string)

// Loader loads a dump into one instance.
type Loader interface {
	// Seed uploads the dump at dumpPath into target. It blocks until the
	// load finishes or ctx is done. The returned Result is only valid
	// when err is nil.
	Seed(ctx context.Context, target Target, dumpPath string, progress ProgressFunc) (*Result, error)
}

// MockLoader is a mock implementation of Loader.
type MockLoader struct {
	SeedFunc func(ctx context.Context, target Target, dumpPath string, progress ProgressFunc) (*Result, error)
}

var _ Loader = (*MockLoader)(nil)

func (m *MockLoader) Seed(ctx context.Context, target Target, dumpPath string, progress ProgressFunc) (*Result, error) {
	if m.SeedFunc != nil {
		return m.SeedFunc(ctx, target, dumpPath, progress)
	}
	return &Result{Success: true, Message: "mock load complete"}, nil
}
