package workshop

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInstanceName(t *testing.T) {
	t.Parallel()
	assert.Equal(t, "TRAINING-1", InstanceName("TRAINING", 1))
	assert.Equal(t, "WS-12", InstanceName("WS", 12))
	assert.Equal(t, "WS-1", PrimaryName("WS"))
}

func TestParseInstanceName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name    string
		base    string
		ordinal int
		ok      bool
	}{
		{"WS-1", "WS", 1, true},
		{"MS-TRAINING-12", "MS-TRAINING", 12, true},
		{"WS-0", "", 0, false},
		{"WS-", "", 0, false},
		{"-3", "", 0, false},
		{"plain", "", 0, false},
		{"WS-abc", "", 0, false},
	}
	for _, tt := range tests {
		base, ordinal, ok := ParseInstanceName(tt.name)
		assert.Equal(t, tt.ok, ok, tt.name)
		if tt.ok {
			assert.Equal(t, tt.base, base, tt.name)
			assert.Equal(t, tt.ordinal, ordinal, tt.name)
		}
	}
}

func TestGroup_NextOrdinal(t *testing.T) {
	t.Parallel()
	g := NewGroup("WS")
	assert.Equal(t, 1, g.NextOrdinal())

	g.Add(&Instance{Name: "WS-1", Ordinal: 1, Role: RolePrimary})
	g.Add(&Instance{Name: "WS-4", Ordinal: 4, Role: RoleClone})
	g.Add(&Instance{Name: "WS-2", Ordinal: 2, Role: RoleClone})

	// Ordinals continue past the highest ever used; gaps are not refilled.
	assert.Equal(t, 5, g.NextOrdinal())
}

func TestGroup_PrimaryAndLookup(t *testing.T) {
	t.Parallel()
	g := NewGroup("WS")
	assert.Nil(t, g.Primary())

	primary := &Instance{Name: "WS-1", Ordinal: 1, Role: RolePrimary}
	g.Add(primary)
	g.Add(&Instance{Name: "WS-2", Ordinal: 2, Role: RoleClone})

	assert.Same(t, primary, g.Primary())
	assert.Same(t, primary, g.Lookup("WS-1"))
	assert.Nil(t, g.Lookup("WS-9"))
}
