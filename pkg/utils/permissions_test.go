package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGetRequiredPermissions(t *testing.T) {
	tests := []struct {
		action string
		want   []string
	}{
		{"create", []string{"read", "update", "create"}},
		{"update", []string{"read", "update"}},
		{"delete", []string{"read", "delete"}},
		{"read", []string{"read"}},
		{"approve", []string{"approve"}},
	}

	for _, tt := range tests {
		t.Run(tt.action, func(t *testing.T) {
			assert.Equal(t, tt.want, GetRequiredPermissions(tt.action))
		})
	}
}

func TestCheckPermissionWithDependencies(t *testing.T) {
	perms := map[string]map[string]bool{
		"assets": {"read": true, "update": true, "create": true},
		"tickets": {
			"read": true,
		},
	}

	assert.True(t, CheckPermissionWithDependencies(perms, "assets", "create"))
	assert.True(t, CheckPermissionWithDependencies(perms, "assets", "update"))
	assert.True(t, CheckPermissionWithDependencies(perms, "tickets", "read"))

	// Update on tickets needs both read and update.
	assert.False(t, CheckPermissionWithDependencies(perms, "tickets", "update"))
	// Delete on assets needs an explicit delete grant.
	assert.False(t, CheckPermissionWithDependencies(perms, "assets", "delete"))
	// Unknown resource grants nothing.
	assert.False(t, CheckPermissionWithDependencies(perms, "licenses", "read"))
}

func TestBuildPermissionMap(t *testing.T) {
	list := []struct {
		Resource string
		Action   string
	}{
		{"assets", "read"},
		{"assets", "update"},
		{"reservations", "read"},
	}

	m := BuildPermissionMap(list)

	assert.True(t, m["assets"]["read"])
	assert.True(t, m["assets"]["update"])
	assert.True(t, m["reservations"]["read"])
	assert.False(t, m["reservations"]["delete"])
}
