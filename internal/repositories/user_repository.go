package repositories

import (
	"context"
	"fmt"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"
	"itms-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type UserRepository struct {
	db *database.DB
}

func NewUserRepository(db *database.DB) *UserRepository {
	return &UserRepository{db: db}
}

const userColumns = `id, org_id, email, password_hash, first_name, last_name, full_name,
	phone, employee_id, department, job_title, is_super_admin, status,
	last_login_at, last_login_ip::TEXT, failed_login_attempts, locked_until,
	created_at, updated_at, deleted_at`

func scanUser(row pgx.Row) (*models.User, error) {
	user := &models.User{}
	err := row.Scan(
		&user.ID, &user.OrgID, &user.Email, &user.PasswordHash,
		&user.FirstName, &user.LastName, &user.FullName,
		&user.Phone, &user.EmployeeID, &user.Department, &user.JobTitle,
		&user.IsSuperAdmin, &user.Status,
		&user.LastLoginAt, &user.LastLoginIP,
		&user.FailedLoginAttempts, &user.LockedUntil,
		&user.CreatedAt, &user.UpdatedAt, &user.DeletedAt,
	)
	return user, err
}

func (r *UserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (
			id, org_id, email, password_hash, first_name, last_name,
			phone, employee_id, department, job_title, is_super_admin, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.ID, user.OrgID, user.Email, user.PasswordHash,
		user.FirstName, user.LastName, user.Phone, user.EmployeeID,
		user.Department, user.JobTitle, user.IsSuperAdmin, user.Status,
	).Scan(&user.CreatedAt, &user.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Email already exists", "Failed to create user")
	}

	return nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get user", errors.ErrInternalServer.Status)
	}

	return user, nil
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1 AND deleted_at IS NULL`

	user, err := scanUser(r.db.Pool.QueryRow(ctx, query, email))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get user", errors.ErrInternalServer.Status)
	}

	return user, nil
}

func (r *UserRepository) Update(ctx context.Context, user *models.User) error {
	query := `
		UPDATE users
		SET first_name = COALESCE($1, first_name),
			last_name = COALESCE($2, last_name),
			phone = COALESCE($3, phone),
			employee_id = COALESCE($4, employee_id),
			department = COALESCE($5, department),
			job_title = COALESCE($6, job_title),
			status = COALESCE($7, status),
			updated_at = NOW()
		WHERE id = $8 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		user.FirstName, user.LastName, user.Phone, user.EmployeeID,
		user.Department, user.JobTitle, user.Status, user.ID,
	).Scan(&user.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update user", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *UserRepository) UpdatePassword(ctx context.Context, userID uuid.UUID, passwordHash string) error {
	query := `UPDATE users SET password_hash = $1, updated_at = NOW() WHERE id = $2 AND deleted_at IS NULL`

	result, err := r.db.Pool.Exec(ctx, query, passwordHash, userID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update password", errors.ErrInternalServer.Status)
	}

	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}

	return nil
}

// UpdateLoginInfo records a successful login and resets the lockout counters.
func (r *UserRepository) UpdateLoginInfo(ctx context.Context, userID uuid.UUID, ipAddress string) error {
	query := `
		UPDATE users
		SET last_login_at = NOW(), last_login_ip = $1, failed_login_attempts = 0, locked_until = NULL
		WHERE id = $2
	`

	_, err := r.db.Pool.Exec(ctx, query, ipAddress, userID)
	return err
}

// IncrementFailedLoginAttempts bumps the counter and locks the account for
// 30 minutes once it reaches 5.
func (r *UserRepository) IncrementFailedLoginAttempts(ctx context.Context, userID uuid.UUID) error {
	query := `
		UPDATE users
		SET failed_login_attempts = failed_login_attempts + 1,
			locked_until = CASE
				WHEN failed_login_attempts + 1 >= 5 THEN NOW() + INTERVAL '30 minutes'
				ELSE locked_until
			END
		WHERE id = $1
	`

	_, err := r.db.Pool.Exec(ctx, query, userID)
	return err
}

func (r *UserRepository) List(ctx context.Context, orgID *uuid.UUID, page, limit int) ([]*models.User, int64, error) {
	var users []*models.User
	var total int64

	offset := (page - 1) * limit

	countQuery := `SELECT COUNT(*) FROM users WHERE deleted_at IS NULL`
	countArgs := []interface{}{}

	if orgID != nil {
		countQuery += ` AND org_id = $1`
		countArgs = append(countArgs, *orgID)
	}

	err := r.db.Pool.QueryRow(ctx, countQuery, countArgs...).Scan(&total)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count users", errors.ErrInternalServer.Status)
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE deleted_at IS NULL`
	args := []interface{}{}
	argPos := 1

	if orgID != nil {
		query += fmt.Sprintf(` AND org_id = $%d`, argPos)
		args = append(args, *orgID)
		argPos++
	}

	query += fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, offset)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list users", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan user", errors.ErrInternalServer.Status)
		}
		user.PasswordHash = ""

		roles, err := r.GetUserRoles(ctx, user.ID)
		if err == nil {
			user.Roles = make([]models.Role, len(roles))
			for i, role := range roles {
				user.Roles[i] = *role
			}
		}

		users = append(users, user)
	}

	return users, total, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE users SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete user", errors.ErrInternalServer.Status)
	}

	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}

	return nil
}

func (r *UserRepository) GetUserRoles(ctx context.Context, userID uuid.UUID) ([]*models.Role, error) {
	query := `
		SELECT r.id, r.org_id, r.name, r.type, r.description, r.is_default,
			r.created_at, r.updated_at, r.created_by
		FROM roles r
		INNER JOIN user_roles ur ON r.id = ur.role_id
		WHERE ur.user_id = $1 AND (ur.expires_at IS NULL OR ur.expires_at > NOW())
		ORDER BY r.created_at
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get user roles", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	var roles []*models.Role
	for rows.Next() {
		role := &models.Role{}
		err := rows.Scan(
			&role.ID, &role.OrgID, &role.Name, &role.Type, &role.Description,
			&role.IsDefault, &role.CreatedAt, &role.UpdatedAt, &role.CreatedBy,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan role", errors.ErrInternalServer.Status)
		}
		roles = append(roles, role)
	}

	return roles, nil
}

func (r *UserRepository) GetUserPermissions(ctx context.Context, userID uuid.UUID) ([]*models.Permission, error) {
	query := `
		SELECT DISTINCT p.id, p.resource, p.action, p.description, p.is_system, p.created_at
		FROM permissions p
		INNER JOIN role_permissions rp ON p.id = rp.permission_id
		INNER JOIN user_roles ur ON rp.role_id = ur.role_id
		WHERE ur.user_id = $1 AND (ur.expires_at IS NULL OR ur.expires_at > NOW())
		ORDER BY p.resource, p.action
	`

	rows, err := r.db.Pool.Query(ctx, query, userID)
	if err != nil {
		return []*models.Permission{}, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get user permissions", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	permissions := make([]*models.Permission, 0)
	for rows.Next() {
		perm := &models.Permission{}
		err := rows.Scan(
			&perm.ID, &perm.Resource, &perm.Action, &perm.Description,
			&perm.IsSystem, &perm.CreatedAt,
		)
		if err != nil {
			return []*models.Permission{}, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan permission", errors.ErrInternalServer.Status)
		}
		permissions = append(permissions, perm)
	}

	return permissions, nil
}

// HasPermission checks a resource/action grant, honoring the action
// dependency rules: update requires read, create requires read and update,
// delete requires read. A direct grant without its dependencies is denied.
func (r *UserRepository) HasPermission(ctx context.Context, userID uuid.UUID, resource, action string) (bool, error) {
	permissions, err := r.GetUserPermissions(ctx, userID)
	if err != nil {
		return false, err
	}
	return permissionsAllow(permissions, resource, action), nil
}

func permissionsAllow(permissions []*models.Permission, resource, action string) bool {
	permMap := make(map[string]map[string]bool)
	for _, perm := range permissions {
		if permMap[perm.Resource] == nil {
			permMap[perm.Resource] = make(map[string]bool)
		}
		permMap[perm.Resource][perm.Action] = true
	}

	return utils.CheckPermissionWithDependencies(permMap, resource, action)
}
