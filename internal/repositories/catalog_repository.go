package repositories

import (
	"context"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// CatalogRepository covers the reference data the rest of the system hangs
// off: asset categories, locations and vendors.
type CatalogRepository struct {
	db *database.DB
}

func NewCatalogRepository(db *database.DB) *CatalogRepository {
	return &CatalogRepository{db: db}
}

// referencedError maps a foreign key violation on delete to a 409. Callers
// see it when they try to remove a category, location or vendor that assets
// still point at.
func referencedError(err error, message string) error {
	if isForeignKeyViolation(err) {
		return errors.WrapError(err, errors.ErrConflict.Code, message, errors.ErrConflict.Status)
	}
	return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete record", errors.ErrInternalServer.Status)
}

// Categories

func (r *CatalogRepository) CreateCategory(ctx context.Context, orgID uuid.UUID, cat *models.Category) error {
	query := `
		INSERT INTO asset_categories (id, org_id, name, description, parent_id, created_by)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		cat.ID, orgID, cat.Name, cat.Description, cat.ParentID, cat.CreatedBy,
	).Scan(&cat.CreatedAt, &cat.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Category name already exists", "Failed to create category")
	}

	cat.OrgID = orgID
	return nil
}

func (r *CatalogRepository) GetCategory(ctx context.Context, orgID, id uuid.UUID) (*models.Category, error) {
	cat := &models.Category{}
	query := `
		SELECT id, org_id, name, description, parent_id, created_at, updated_at, created_by
		FROM asset_categories
		WHERE id = $1 AND org_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, id, orgID).Scan(
		&cat.ID, &cat.OrgID, &cat.Name, &cat.Description, &cat.ParentID,
		&cat.CreatedAt, &cat.UpdatedAt, &cat.CreatedBy,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get category", errors.ErrInternalServer.Status)
	}

	return cat, nil
}

func (r *CatalogRepository) ListCategories(ctx context.Context, orgID uuid.UUID) ([]*models.Category, error) {
	query := `
		SELECT id, org_id, name, description, parent_id, created_at, updated_at, created_by
		FROM asset_categories
		WHERE org_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list categories", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	categories := make([]*models.Category, 0)
	for rows.Next() {
		cat := &models.Category{}
		err := rows.Scan(
			&cat.ID, &cat.OrgID, &cat.Name, &cat.Description, &cat.ParentID,
			&cat.CreatedAt, &cat.UpdatedAt, &cat.CreatedBy,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan category", errors.ErrInternalServer.Status)
		}
		categories = append(categories, cat)
	}

	return categories, nil
}

func (r *CatalogRepository) UpdateCategory(ctx context.Context, orgID uuid.UUID, cat *models.Category) error {
	query := `
		UPDATE asset_categories
		SET name = COALESCE($1, name),
			description = COALESCE($2, description),
			parent_id = COALESCE($3, parent_id),
			updated_at = NOW()
		WHERE id = $4 AND org_id = $5
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		cat.Name, cat.Description, cat.ParentID, cat.ID, orgID,
	).Scan(&cat.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "Category name already exists", "Failed to update category")
	}

	return nil
}

func (r *CatalogRepository) DeleteCategory(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM asset_categories WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "Category is still referenced by assets")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// Locations

func (r *CatalogRepository) CreateLocation(ctx context.Context, orgID uuid.UUID, loc *models.Location) error {
	query := `
		INSERT INTO locations (id, org_id, name, building, floor, room, address, city, country, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		loc.ID, orgID, loc.Name, loc.Building, loc.Floor, loc.Room,
		loc.Address, loc.City, loc.Country, loc.CreatedBy,
	).Scan(&loc.CreatedAt, &loc.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Location name already exists", "Failed to create location")
	}

	loc.OrgID = orgID
	return nil
}

func (r *CatalogRepository) GetLocation(ctx context.Context, orgID, id uuid.UUID) (*models.Location, error) {
	loc := &models.Location{}
	query := `
		SELECT id, org_id, name, building, floor, room, address, city, country,
			created_at, updated_at, created_by
		FROM locations
		WHERE id = $1 AND org_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, id, orgID).Scan(
		&loc.ID, &loc.OrgID, &loc.Name, &loc.Building, &loc.Floor, &loc.Room,
		&loc.Address, &loc.City, &loc.Country,
		&loc.CreatedAt, &loc.UpdatedAt, &loc.CreatedBy,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get location", errors.ErrInternalServer.Status)
	}

	return loc, nil
}

func (r *CatalogRepository) ListLocations(ctx context.Context, orgID uuid.UUID) ([]*models.Location, error) {
	query := `
		SELECT id, org_id, name, building, floor, room, address, city, country,
			created_at, updated_at, created_by
		FROM locations
		WHERE org_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list locations", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	locations := make([]*models.Location, 0)
	for rows.Next() {
		loc := &models.Location{}
		err := rows.Scan(
			&loc.ID, &loc.OrgID, &loc.Name, &loc.Building, &loc.Floor, &loc.Room,
			&loc.Address, &loc.City, &loc.Country,
			&loc.CreatedAt, &loc.UpdatedAt, &loc.CreatedBy,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan location", errors.ErrInternalServer.Status)
		}
		locations = append(locations, loc)
	}

	return locations, nil
}

func (r *CatalogRepository) UpdateLocation(ctx context.Context, orgID uuid.UUID, loc *models.Location) error {
	query := `
		UPDATE locations
		SET name = COALESCE($1, name),
			building = COALESCE($2, building),
			floor = COALESCE($3, floor),
			room = COALESCE($4, room),
			address = COALESCE($5, address),
			city = COALESCE($6, city),
			country = COALESCE($7, country),
			updated_at = NOW()
		WHERE id = $8 AND org_id = $9
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		loc.Name, loc.Building, loc.Floor, loc.Room,
		loc.Address, loc.City, loc.Country, loc.ID, orgID,
	).Scan(&loc.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "Location name already exists", "Failed to update location")
	}

	return nil
}

func (r *CatalogRepository) DeleteLocation(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM locations WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "Location is still referenced by assets")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// Vendors

func (r *CatalogRepository) CreateVendor(ctx context.Context, orgID uuid.UUID, vendor *models.Vendor) error {
	query := `
		INSERT INTO vendors (id, org_id, name, contact_name, contact_email, contact_phone, website, notes, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vendor.ID, orgID, vendor.Name, vendor.ContactName, vendor.ContactEmail,
		vendor.ContactPhone, vendor.Website, vendor.Notes, vendor.CreatedBy,
	).Scan(&vendor.CreatedAt, &vendor.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Vendor name already exists", "Failed to create vendor")
	}

	vendor.OrgID = orgID
	return nil
}

func (r *CatalogRepository) GetVendor(ctx context.Context, orgID, id uuid.UUID) (*models.Vendor, error) {
	vendor := &models.Vendor{}
	query := `
		SELECT id, org_id, name, contact_name, contact_email, contact_phone, website, notes,
			created_at, updated_at, created_by
		FROM vendors
		WHERE id = $1 AND org_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, id, orgID).Scan(
		&vendor.ID, &vendor.OrgID, &vendor.Name, &vendor.ContactName,
		&vendor.ContactEmail, &vendor.ContactPhone, &vendor.Website, &vendor.Notes,
		&vendor.CreatedAt, &vendor.UpdatedAt, &vendor.CreatedBy,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get vendor", errors.ErrInternalServer.Status)
	}

	return vendor, nil
}

func (r *CatalogRepository) ListVendors(ctx context.Context, orgID uuid.UUID) ([]*models.Vendor, error) {
	query := `
		SELECT id, org_id, name, contact_name, contact_email, contact_phone, website, notes,
			created_at, updated_at, created_by
		FROM vendors
		WHERE org_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list vendors", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	vendors := make([]*models.Vendor, 0)
	for rows.Next() {
		vendor := &models.Vendor{}
		err := rows.Scan(
			&vendor.ID, &vendor.OrgID, &vendor.Name, &vendor.ContactName,
			&vendor.ContactEmail, &vendor.ContactPhone, &vendor.Website, &vendor.Notes,
			&vendor.CreatedAt, &vendor.UpdatedAt, &vendor.CreatedBy,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan vendor", errors.ErrInternalServer.Status)
		}
		vendors = append(vendors, vendor)
	}

	return vendors, nil
}

func (r *CatalogRepository) UpdateVendor(ctx context.Context, orgID uuid.UUID, vendor *models.Vendor) error {
	query := `
		UPDATE vendors
		SET name = COALESCE($1, name),
			contact_name = COALESCE($2, contact_name),
			contact_email = COALESCE($3, contact_email),
			contact_phone = COALESCE($4, contact_phone),
			website = COALESCE($5, website),
			notes = COALESCE($6, notes),
			updated_at = NOW()
		WHERE id = $7 AND org_id = $8
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vendor.Name, vendor.ContactName, vendor.ContactEmail, vendor.ContactPhone,
		vendor.Website, vendor.Notes, vendor.ID, orgID,
	).Scan(&vendor.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "Vendor name already exists", "Failed to update vendor")
	}

	return nil
}

func (r *CatalogRepository) DeleteVendor(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM vendors WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "Vendor is still referenced by assets or licenses")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}
