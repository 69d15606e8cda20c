package repositories

import (
	"context"
	"fmt"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type OrganizationRepository struct {
	db *database.DB
}

func NewOrganizationRepository(db *database.DB) *OrganizationRepository {
	return &OrganizationRepository{db: db}
}

const organizationColumns = `id, name, slug, website, address_line1, city, country,
	primary_contact_name, primary_contact_email, timezone, status,
	created_at, updated_at, created_by, deleted_at`

func scanOrganization(row pgx.Row) (*models.Organization, error) {
	org := &models.Organization{}
	err := row.Scan(
		&org.ID, &org.Name, &org.Slug, &org.Website,
		&org.AddressLine1, &org.City, &org.Country,
		&org.PrimaryContactName, &org.PrimaryContactEmail,
		&org.Timezone, &org.Status,
		&org.CreatedAt, &org.UpdatedAt, &org.CreatedBy, &org.DeletedAt,
	)
	return org, err
}

func (r *OrganizationRepository) Create(ctx context.Context, org *models.Organization) error {
	// Deleted organizations free up their slugs, so the check only looks at
	// live rows.
	var existingID uuid.UUID
	checkQuery := `SELECT id FROM organizations WHERE slug = $1 AND deleted_at IS NULL`
	err := r.db.Pool.QueryRow(ctx, checkQuery, org.Slug).Scan(&existingID)
	if err == nil {
		return errors.NewError(
			"CONFLICT",
			fmt.Sprintf("An organization with slug '%s' already exists", org.Slug),
			errors.ErrConflict.Status,
		)
	}
	if err != pgx.ErrNoRows {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to check slug availability", errors.ErrInternalServer.Status)
	}

	query := `
		INSERT INTO organizations (
			id, name, slug, website, address_line1, city, country,
			primary_contact_name, primary_contact_email, timezone, status, created_by
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err = r.db.Pool.QueryRow(ctx, query,
		org.ID, org.Name, org.Slug, org.Website, org.AddressLine1,
		org.City, org.Country, org.PrimaryContactName, org.PrimaryContactEmail,
		org.Timezone, org.Status, org.CreatedBy,
	).Scan(&org.CreatedAt, &org.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Organization slug already exists", "Failed to create organization")
	}

	return nil
}

func (r *OrganizationRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE id = $1 AND deleted_at IS NULL`

	org, err := scanOrganization(r.db.Pool.QueryRow(ctx, query, id))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get organization", errors.ErrInternalServer.Status)
	}

	return org, nil
}

func (r *OrganizationRepository) GetBySlug(ctx context.Context, slug string) (*models.Organization, error) {
	query := `SELECT ` + organizationColumns + ` FROM organizations WHERE slug = $1 AND deleted_at IS NULL`

	org, err := scanOrganization(r.db.Pool.QueryRow(ctx, query, slug))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get organization", errors.ErrInternalServer.Status)
	}

	return org, nil
}

func (r *OrganizationRepository) List(ctx context.Context, page, limit int) ([]*models.Organization, int64, error) {
	var total int64
	err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM organizations WHERE deleted_at IS NULL`).Scan(&total)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count organizations", errors.ErrInternalServer.Status)
	}

	query := `SELECT ` + organizationColumns + `
		FROM organizations
		WHERE deleted_at IS NULL
		ORDER BY created_at DESC
		LIMIT $1 OFFSET $2`

	rows, err := r.db.Pool.Query(ctx, query, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list organizations", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	orgs := make([]*models.Organization, 0)
	for rows.Next() {
		org, err := scanOrganization(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan organization", errors.ErrInternalServer.Status)
		}
		orgs = append(orgs, org)
	}

	return orgs, total, nil
}

func (r *OrganizationRepository) Update(ctx context.Context, org *models.Organization) error {
	query := `
		UPDATE organizations
		SET name = COALESCE($1, name),
			website = COALESCE($2, website),
			address_line1 = COALESCE($3, address_line1),
			city = COALESCE($4, city),
			country = COALESCE($5, country),
			primary_contact_name = COALESCE($6, primary_contact_name),
			primary_contact_email = COALESCE($7, primary_contact_email),
			timezone = COALESCE($8, timezone),
			status = COALESCE($9, status),
			updated_at = NOW()
		WHERE id = $10 AND deleted_at IS NULL
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		org.Name, org.Website, org.AddressLine1, org.City, org.Country,
		org.PrimaryContactName, org.PrimaryContactEmail, org.Timezone,
		org.Status, org.ID,
	).Scan(&org.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update organization", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *OrganizationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE organizations SET deleted_at = NOW(), status = 'inactive' WHERE id = $1 AND deleted_at IS NULL`

	result, err := r.db.Pool.Exec(ctx, query, id)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete organization", errors.ErrInternalServer.Status)
	}

	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}

	return nil
}
