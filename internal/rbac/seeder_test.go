package rbac

import (
	"context"
	"fmt"
	"testing"

	"itms-api/internal/models"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePermissionStore struct {
	perms map[string]*models.Permission
}

func newFakePermissionStore() *fakePermissionStore {
	return &fakePermissionStore{perms: make(map[string]*models.Permission)}
}

func (f *fakePermissionStore) Ensure(_ context.Context, resource, action string, description *string) (*models.Permission, error) {
	key := resource + ":" + action
	if perm, ok := f.perms[key]; ok {
		return perm, nil
	}
	perm := &models.Permission{
		ID:          uuid.New(),
		Resource:    resource,
		Action:      action,
		Description: description,
		IsSystem:    true,
	}
	f.perms[key] = perm
	return perm, nil
}

type fakeRoleStore struct {
	roles   map[string]*models.Role
	grants  map[uuid.UUID]map[uuid.UUID]bool
	creates int
}

func newFakeRoleStore() *fakeRoleStore {
	return &fakeRoleStore{
		roles:  make(map[string]*models.Role),
		grants: make(map[uuid.UUID]map[uuid.UUID]bool),
	}
}

func (f *fakeRoleStore) GetByName(_ context.Context, name string, _ *uuid.UUID) (*models.Role, error) {
	if role, ok := f.roles[name]; ok {
		return role, nil
	}
	return nil, errors.ErrNotFound
}

func (f *fakeRoleStore) Create(_ context.Context, role *models.Role) error {
	if _, ok := f.roles[role.Name]; ok {
		return fmt.Errorf("duplicate role %q", role.Name)
	}
	f.roles[role.Name] = role
	f.grants[role.ID] = make(map[uuid.UUID]bool)
	f.creates++
	return nil
}

func (f *fakeRoleStore) AddPermissions(_ context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error {
	set, ok := f.grants[roleID]
	if !ok {
		return fmt.Errorf("unknown role %s", roleID)
	}
	for _, id := range permissionIDs {
		set[id] = true
	}
	return nil
}

func (f *fakeRoleStore) grantCount(name string) int {
	role := f.roles[name]
	return len(f.grants[role.ID])
}

func TestSeederCreatesAllGroups(t *testing.T) {
	perms := newFakePermissionStore()
	roles := newFakeRoleStore()
	seeder := NewSeeder(perms, roles)

	require.NoError(t, seeder.Seed(context.Background()))

	groups := DefaultGroups()
	assert.Len(t, roles.roles, len(groups))
	for _, group := range groups {
		role, ok := roles.roles[group.Name]
		require.True(t, ok, "missing group %q", group.Name)
		assert.Equal(t, "system", role.Type)
		assert.NotZero(t, roles.grantCount(group.Name))
	}
}

func TestSeederIsIdempotent(t *testing.T) {
	perms := newFakePermissionStore()
	roles := newFakeRoleStore()
	seeder := NewSeeder(perms, roles)

	require.NoError(t, seeder.Seed(context.Background()))

	permCount := len(perms.perms)
	createCount := roles.creates
	grantCounts := make(map[string]int)
	for name := range roles.roles {
		grantCounts[name] = roles.grantCount(name)
	}

	// A second run must not create or grant anything new.
	require.NoError(t, seeder.Seed(context.Background()))

	assert.Equal(t, permCount, len(perms.perms))
	assert.Equal(t, createCount, roles.creates)
	for name, count := range grantCounts {
		assert.Equal(t, count, roles.grantCount(name), "grants changed for %q", name)
	}
}

func TestEndUsersCannotDelete(t *testing.T) {
	for _, group := range DefaultGroups() {
		if group.Name != "End Users" {
			continue
		}
		for _, grant := range group.Grants {
			assert.NotContains(t, grant.Actions, ActionDelete)
		}
		return
	}
	t.Fatal("End Users group not defined")
}

// Every seeded grant must be usable under the action dependency rules:
// granting create without update (or read) would seed a permission the
// permission check can never allow.
func TestDefaultGroupsSatisfyActionDependencies(t *testing.T) {
	for _, group := range DefaultGroups() {
		permMap := make(map[string]map[string]bool)
		for _, grant := range group.Grants {
			if permMap[grant.Resource] == nil {
				permMap[grant.Resource] = make(map[string]bool)
			}
			for _, action := range grant.Actions {
				permMap[grant.Resource][action] = true
			}
		}

		for _, grant := range group.Grants {
			for _, action := range grant.Actions {
				assert.True(t, utils.CheckPermissionWithDependencies(permMap, grant.Resource, action),
					"group %q grants %s:%s but its dependencies are missing", group.Name, grant.Resource, action)
			}
		}
	}
}
