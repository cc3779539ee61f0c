package aura

import "context"

// MockClient is a mock implementation of InstanceProvisioner.
// Each method delegates to the corresponding Func field when set and
// returns a zero value otherwise.
type MockClient struct {
	CreateInstanceFunc func(ctx context.Context, opts InstanceCreateOpts) (*InstanceInfo, error)
	CloneInstanceFunc  func(ctx context.Context, sourceInstanceID string, opts InstanceCreateOpts) (*InstanceInfo, error)
	GetInstanceFunc    func(ctx context.Context, instanceID string) (*InstanceInfo, error)
	DeleteInstanceFunc func(ctx context.Context, instanceID string) error
	PauseInstanceFunc  func(ctx context.Context, instanceID string) error
}

var _ InstanceProvisioner = (*MockClient)(nil)

func (m *MockClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (*InstanceInfo, error) {
	if m.CreateInstanceFunc != nil {
		return m.CreateInstanceFunc(ctx, opts)
	}
	return &InstanceInfo{Name: opts.Name, Status: StatusCreating}, nil
}

func (m *MockClient) CloneInstance(ctx context.Context, sourceInstanceID string, opts InstanceCreateOpts) (*InstanceInfo, error) {
	if m.CloneInstanceFunc != nil {
		return m.CloneInstanceFunc(ctx, sourceInstanceID, opts)
	}
	return &InstanceInfo{Name: opts.Name, Status: StatusCreating}, nil
}

func (m *MockClient) GetInstance(ctx context.Context, instanceID string) (*InstanceInfo, error) {
	if m.GetInstanceFunc != nil {
		return m.GetInstanceFunc(ctx, instanceID)
	}
	return &InstanceInfo{ID: instanceID, Status: StatusRunning}, nil
}

func (m *MockClient) DeleteInstance(ctx context.Context, instanceID string) error {
	if m.DeleteInstanceFunc != nil {
		return m.DeleteInstanceFunc(ctx, instanceID)
	}
	return nil
}

func (m *MockClient) PauseInstance(ctx context.Context, instanceID string) error {
	if m.PauseInstanceFunc != nil {
		return m.PauseInstanceFunc(ctx, instanceID)
	}
	return nil
}
