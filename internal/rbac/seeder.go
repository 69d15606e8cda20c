package rbac

import (
	"context"
	"fmt"

	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

// PermissionStore is the slice of the permission repository the seeder needs.
type PermissionStore interface {
	Ensure(ctx context.Context, resource, action string, description *string) (*models.Permission, error)
}

// RoleStore is the slice of the role repository the seeder needs.
type RoleStore interface {
	GetByName(ctx context.Context, name string, orgID *uuid.UUID) (*models.Role, error)
	Create(ctx context.Context, role *models.Role) error
	AddPermissions(ctx context.Context, roleID uuid.UUID, permissionIDs []uuid.UUID) error
}

// Seeder materializes the default permission groups as system roles. Running
// it twice produces the same state: permissions are get-or-create, roles are
// looked up before creation, and grants insert with conflict-ignore.
type Seeder struct {
	permissions PermissionStore
	roles       RoleStore
}

func NewSeeder(permissions PermissionStore, roles RoleStore) *Seeder {
	return &Seeder{permissions: permissions, roles: roles}
}

func (s *Seeder) Seed(ctx context.Context) error {
	for _, group := range DefaultGroups() {
		if err := s.seedGroup(ctx, group); err != nil {
			return fmt.Errorf("seed group %q: %w", group.Name, err)
		}
	}
	return nil
}

func (s *Seeder) seedGroup(ctx context.Context, group Group) error {
	role, err := s.roles.GetByName(ctx, group.Name, nil)
	if err == errors.ErrNotFound {
		desc := group.Description
		role = &models.Role{
			ID:          uuid.New(),
			Name:        group.Name,
			Type:        "system",
			Description: &desc,
		}
		if err := s.roles.Create(ctx, role); err != nil {
			return err
		}
		log.Info().Str("role", group.Name).Msg("permission group created")
	} else if err != nil {
		return err
	}

	var permIDs []uuid.UUID
	for _, grant := range group.Grants {
		for _, action := range grant.Actions {
			desc := fmt.Sprintf("Can %s %s", action, grant.Resource)
			perm, err := s.permissions.Ensure(ctx, grant.Resource, action, &desc)
			if err != nil {
				return err
			}
			permIDs = append(permIDs, perm.ID)
		}
	}

	return s.roles.AddPermissions(ctx, role.ID, permIDs)
}
