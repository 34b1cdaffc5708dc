package registry

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validActivity(id string) Activity {
	return Activity{
		ID:                   id,
		DisplayName:          "Place Order",
		Category:             CategoryOrdering,
		TaskType:             id,
		ImplementationStatus: StatusCompleted,
		ErrorCodes:           []string{"MESSAGE_REQUIRED", "NO_ITEMS_FOUND"},
		Timeout:              "15s",
	}
}

func TestActivityRegistry_Validate(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(r *ActivityRegistry)
		errContains string
	}{
		{name: "valid", mutate: func(r *ActivityRegistry) {}},
		{
			name:        "empty",
			mutate:      func(r *ActivityRegistry) { r.Activities = nil },
			errContains: "no activities",
		},
		{
			name: "duplicate id",
			mutate: func(r *ActivityRegistry) {
				r.Activities = append(r.Activities, validActivity("place-order"))
			},
			errContains: "duplicate activity ID",
		},
		{
			name: "duplicate task type",
			mutate: func(r *ActivityRegistry) {
				dup := validActivity("place-order-v2")
				dup.TaskType = "place-order"
				r.Activities = append(r.Activities, dup)
			},
			errContains: "duplicate task type",
		},
		{
			name:        "missing display name",
			mutate:      func(r *ActivityRegistry) { r.Activities[0].DisplayName = "" },
			errContains: "DisplayName",
		},
		{
			name:        "unknown status",
			mutate:      func(r *ActivityRegistry) { r.Activities[0].ImplementationStatus = "done" },
			errContains: "unknown status",
		},
		{
			name:        "bad timeout",
			mutate:      func(r *ActivityRegistry) { r.Activities[0].Timeout = "ten seconds" },
			errContains: "invalid timeout",
		},
		{
			name: "unknown error code",
			mutate: func(r *ActivityRegistry) {
				r.Activities[0].ErrorCodes = append(r.Activities[0].ErrorCodes, "TABLE_NOT_FOUND")
			},
			errContains: "unknown error code: TABLE_NOT_FOUND",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := &ActivityRegistry{Version: "1.0.0", Activities: []Activity{validActivity("place-order")}}
			tt.mutate(reg)

			err := reg.Validate()
			if tt.errContains == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
		})
	}
}

func TestActivityRegistry_SaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "configs", "activity-registry.json")
	now := time.Date(2024, 3, 5, 14, 30, 0, 0, time.UTC)

	reg := &ActivityRegistry{Version: "1.0.0"}
	require.NoError(t, reg.Add(validActivity("place-order"), now))
	require.NoError(t, reg.Add(validActivity("get-menu"), now))
	assert.Error(t, reg.Add(validActivity("get-menu"), now))
	require.NoError(t, reg.Save(path))

	loaded, err := LoadRegistry(path)
	require.NoError(t, err)
	assert.Equal(t, "2024-03-05T14:30:00Z", loaded.LastUpdated)
	assert.Equal(t, []string{"get-menu", "place-order"}, loaded.TaskTypes())

	activity, ok := loaded.Find("get-menu")
	require.True(t, ok)
	assert.Equal(t, CategoryOrdering, activity.Category)
}

func TestLoadRegistry_ShippedFile(t *testing.T) {
	reg, err := LoadRegistry(filepath.Join("..", "..", "configs", "activity-registry.json"))
	require.NoError(t, err)
	assert.NoError(t, reg.Validate())
	assert.Equal(t, []string{
		"get-menu", "parse-order", "place-order", "query-elasticsearch",
		"query-postgresql", "send-order-confirmation", "update-order-status",
	}, reg.TaskTypes())
}
