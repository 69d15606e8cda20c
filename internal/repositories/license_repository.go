package repositories

import (
	"context"
	"time"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type LicenseRepository struct {
	db *database.DB
}

func NewLicenseRepository(db *database.DB) *LicenseRepository {
	return &LicenseRepository{db: db}
}

const licenseColumns = `id, org_id, name, version, vendor_id, license_key, license_type,
	purchase_date, expiry_date, cost, max_installations, current_installations,
	notes, created_at, updated_at`

func scanLicense(row pgx.Row) (*models.SoftwareLicense, error) {
	lic := &models.SoftwareLicense{}
	err := row.Scan(
		&lic.ID, &lic.OrgID, &lic.Name, &lic.Version, &lic.VendorID,
		&lic.LicenseKey, &lic.LicenseType, &lic.PurchaseDate, &lic.ExpiryDate,
		&lic.Cost, &lic.MaxInstallations, &lic.CurrentInstallations,
		&lic.Notes, &lic.CreatedAt, &lic.UpdatedAt,
	)
	return lic, err
}

func (r *LicenseRepository) Create(ctx context.Context, orgID uuid.UUID, lic *models.SoftwareLicense) error {
	query := `
		INSERT INTO software_licenses (
			id, org_id, name, version, vendor_id, license_key, license_type,
			purchase_date, expiry_date, cost, max_installations, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING current_installations, created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		lic.ID, orgID, lic.Name, lic.Version, lic.VendorID, lic.LicenseKey,
		lic.LicenseType, lic.PurchaseDate, lic.ExpiryDate, lic.Cost,
		lic.MaxInstallations, lic.Notes,
	).Scan(&lic.CurrentInstallations, &lic.CreatedAt, &lic.UpdatedAt)

	if err != nil {
		return conflictOn(err, "License already exists", "Failed to create license")
	}

	lic.OrgID = orgID
	return nil
}

func (r *LicenseRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.SoftwareLicense, error) {
	query := `SELECT ` + licenseColumns + ` FROM software_licenses WHERE id = $1 AND org_id = $2`

	lic, err := scanLicense(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get license", errors.ErrInternalServer.Status)
	}

	return lic, nil
}

func (r *LicenseRepository) List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]*models.SoftwareLicense, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM software_licenses WHERE org_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count licenses", errors.ErrInternalServer.Status)
	}

	query := `SELECT ` + licenseColumns + `
		FROM software_licenses
		WHERE org_id = $1
		ORDER BY name
		LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, orgID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list licenses", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	licenses := make([]*models.SoftwareLicense, 0)
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan license", errors.ErrInternalServer.Status)
		}
		licenses = append(licenses, lic)
	}

	return licenses, total, nil
}

func (r *LicenseRepository) Update(ctx context.Context, orgID uuid.UUID, lic *models.SoftwareLicense, maxInstallations *int) error {
	query := `
		UPDATE software_licenses
		SET name = COALESCE($1, name),
			version = COALESCE($2, version),
			vendor_id = COALESCE($3, vendor_id),
			license_key = COALESCE($4, license_key),
			license_type = COALESCE($5, license_type),
			purchase_date = COALESCE($6, purchase_date),
			expiry_date = COALESCE($7, expiry_date),
			cost = COALESCE($8, cost),
			max_installations = COALESCE($9, max_installations),
			notes = COALESCE($10, notes),
			updated_at = NOW()
		WHERE id = $11 AND org_id = $12
			AND COALESCE($9, max_installations) >= current_installations
		RETURNING max_installations, current_installations, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		lic.Name, lic.Version, lic.VendorID, lic.LicenseKey, lic.LicenseType,
		lic.PurchaseDate, lic.ExpiryDate, lic.Cost, maxInstallations,
		lic.Notes, lic.ID, orgID,
	).Scan(&lic.MaxInstallations, &lic.CurrentInstallations, &lic.UpdatedAt)

	if err == pgx.ErrNoRows {
		// Either the license is missing or the new cap would undercut the
		// current installation count. Disambiguate with a lookup.
		if _, lookupErr := r.GetByID(ctx, orgID, lic.ID); lookupErr != nil {
			return lookupErr
		}
		return errors.NewError(errors.ErrLicenseExhausted.Code,
			"max_installations cannot be lower than current installations",
			errors.ErrLicenseExhausted.Status)
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update license", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *LicenseRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM software_licenses WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "License still has installations")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// InstallOnAsset records an installation against the license, holding a row
// lock while it checks the seat cap so concurrent installs cannot overshoot
// max_installations.
func (r *LicenseRepository) InstallOnAsset(ctx context.Context, orgID, licenseID uuid.UUID, install *models.SoftwareInstallation) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to begin transaction", errors.ErrInternalServer.Status)
	}
	defer tx.Rollback(ctx)

	var maxInstalls, currentInstalls int
	err = tx.QueryRow(ctx, `
		SELECT max_installations, current_installations
		FROM software_licenses
		WHERE id = $1 AND org_id = $2
		FOR UPDATE
	`, licenseID, orgID).Scan(&maxInstalls, &currentInstalls)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to lock license", errors.ErrInternalServer.Status)
	}

	if currentInstalls >= maxInstalls {
		return errors.ErrLicenseExhausted
	}

	err = tx.QueryRow(ctx, `
		INSERT INTO software_installations (id, license_id, asset_id, installed_by_id, notes)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING installed_at
	`, install.ID, licenseID, install.AssetID, install.InstalledByID, install.Notes,
	).Scan(&install.InstalledAt)

	if err != nil {
		if isUniqueViolation(err) {
			return errors.WrapError(err, errors.ErrConflict.Code,
				"License is already installed on this asset", errors.ErrConflict.Status)
		}
		if isForeignKeyViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code, "Asset does not exist", errors.ErrBadRequest.Status)
		}
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to record installation", errors.ErrInternalServer.Status)
	}

	_, err = tx.Exec(ctx, `
		UPDATE software_licenses
		SET current_installations = current_installations + 1, updated_at = NOW()
		WHERE id = $1
	`, licenseID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update installation count", errors.ErrInternalServer.Status)
	}

	install.LicenseID = licenseID
	return tx.Commit(ctx)
}

// RemoveInstallation deletes the installation and releases the seat in the
// same transaction.
func (r *LicenseRepository) RemoveInstallation(ctx context.Context, orgID, licenseID, installationID uuid.UUID) error {
	tx, err := r.db.Begin(ctx)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to begin transaction", errors.ErrInternalServer.Status)
	}
	defer tx.Rollback(ctx)

	result, err := tx.Exec(ctx, `
		DELETE FROM software_installations si
		USING software_licenses sl
		WHERE si.id = $1 AND si.license_id = $2
			AND sl.id = si.license_id AND sl.org_id = $3
	`, installationID, licenseID, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to remove installation", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}

	_, err = tx.Exec(ctx, `
		UPDATE software_licenses
		SET current_installations = GREATEST(current_installations - 1, 0), updated_at = NOW()
		WHERE id = $1
	`, licenseID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update installation count", errors.ErrInternalServer.Status)
	}

	return tx.Commit(ctx)
}

func (r *LicenseRepository) ListInstallations(ctx context.Context, orgID, licenseID uuid.UUID) ([]*models.SoftwareInstallation, error) {
	query := `
		SELECT si.id, si.license_id, si.asset_id, si.installed_by_id, si.installed_at, si.notes,
			a.name AS asset_name, sl.name AS license_name
		FROM software_installations si
		INNER JOIN software_licenses sl ON si.license_id = sl.id
		LEFT JOIN assets a ON si.asset_id = a.id
		WHERE si.license_id = $1 AND sl.org_id = $2
		ORDER BY si.installed_at DESC
	`

	rows, err := r.db.Pool.Query(ctx, query, licenseID, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list installations", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	installs := make([]*models.SoftwareInstallation, 0)
	for rows.Next() {
		install := &models.SoftwareInstallation{}
		err := rows.Scan(
			&install.ID, &install.LicenseID, &install.AssetID,
			&install.InstalledByID, &install.InstalledAt, &install.Notes,
			&install.AssetName, &install.LicenseName,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan installation", errors.ErrInternalServer.Status)
		}
		installs = append(installs, install)
	}

	return installs, nil
}

// ListExpiringBefore returns licenses with an expiry date inside the window.
// The scheduler uses it for the expiry scan, the dashboard for its summary.
func (r *LicenseRepository) ListExpiringBefore(ctx context.Context, orgID *uuid.UUID, cutoff time.Time) ([]*models.SoftwareLicense, error) {
	query := `SELECT ` + licenseColumns + `
		FROM software_licenses
		WHERE expiry_date IS NOT NULL AND expiry_date <= $1
			AND ($2::uuid IS NULL OR org_id = $2)
		ORDER BY expiry_date`

	rows, err := r.db.Pool.Query(ctx, query, cutoff, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list expiring licenses", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	licenses := make([]*models.SoftwareLicense, 0)
	for rows.Next() {
		lic, err := scanLicense(rows)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan license", errors.ErrInternalServer.Status)
		}
		licenses = append(licenses, lic)
	}

	return licenses, nil
}

// CountAtCapacity feeds the dashboard summary.
func (r *LicenseRepository) CountAtCapacity(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM software_licenses
		WHERE org_id = $1 AND current_installations >= max_installations
	`, orgID).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count licenses at capacity", errors.ErrInternalServer.Status)
	}
	return count, nil
}
