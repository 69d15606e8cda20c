package repositories

import (
	"testing"

	"itms-api/internal/models"

	"github.com/stretchr/testify/assert"
)

func grants(pairs ...[2]string) []*models.Permission {
	perms := make([]*models.Permission, len(pairs))
	for i, pair := range pairs {
		perms[i] = &models.Permission{Resource: pair[0], Action: pair[1]}
	}
	return perms
}

func TestPermissionsAllowDependencyClosure(t *testing.T) {
	tests := []struct {
		name     string
		perms    []*models.Permission
		resource string
		action   string
		want     bool
	}{
		{
			name:     "read standalone",
			perms:    grants([2]string{"assets", "read"}),
			resource: "assets",
			action:   "read",
			want:     true,
		},
		{
			name:     "update with read",
			perms:    grants([2]string{"assets", "read"}, [2]string{"assets", "update"}),
			resource: "assets",
			action:   "update",
			want:     true,
		},
		{
			name:     "bare update grant denied without read",
			perms:    grants([2]string{"assets", "update"}),
			resource: "assets",
			action:   "update",
			want:     false,
		},
		{
			name: "create requires read and update",
			perms: grants(
				[2]string{"assets", "read"},
				[2]string{"assets", "update"},
				[2]string{"assets", "create"},
			),
			resource: "assets",
			action:   "create",
			want:     true,
		},
		{
			name:     "bare create grant denied",
			perms:    grants([2]string{"assets", "create"}),
			resource: "assets",
			action:   "create",
			want:     false,
		},
		{
			name:     "delete requires read",
			perms:    grants([2]string{"assets", "delete"}),
			resource: "assets",
			action:   "delete",
			want:     false,
		},
		{
			name:     "grants do not leak across resources",
			perms:    grants([2]string{"assets", "read"}),
			resource: "help_desk_tickets",
			action:   "read",
			want:     false,
		},
		{
			name:     "no grants at all",
			perms:    nil,
			resource: "assets",
			action:   "read",
			want:     false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, permissionsAllow(tt.perms, tt.resource, tt.action))
		})
	}
}
