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

type AssetRepository struct {
	db *database.DB
}

func NewAssetRepository(db *database.DB) *AssetRepository {
	return &AssetRepository{db: db}
}

const assetSelect = `
	SELECT a.id, a.org_id, a.asset_tag, a.name, a.category_id, a.serial_number,
		a.model, a.manufacturer, a.condition, a.vendor_id,
		a.purchase_date, a.purchase_cost, a.warranty_expiry,
		a.location_id, a.assigned_to_id, a.status, a.notes,
		a.created_at, a.updated_at,
		c.name AS category_name, l.name AS location_name, u.full_name AS assigned_to_name
	FROM assets a
	LEFT JOIN asset_categories c ON a.category_id = c.id
	LEFT JOIN locations l ON a.location_id = l.id
	LEFT JOIN users u ON a.assigned_to_id = u.id`

func scanAsset(row pgx.Row) (*models.Asset, error) {
	asset := &models.Asset{}
	err := row.Scan(
		&asset.ID, &asset.OrgID, &asset.AssetTag, &asset.Name,
		&asset.CategoryID, &asset.SerialNumber, &asset.Model, &asset.Manufacturer,
		&asset.Condition, &asset.VendorID,
		&asset.PurchaseDate, &asset.PurchaseCost, &asset.WarrantyExpiry,
		&asset.LocationID, &asset.AssignedToID, &asset.Status, &asset.Notes,
		&asset.CreatedAt, &asset.UpdatedAt,
		&asset.CategoryName, &asset.LocationName, &asset.AssignedToName,
	)
	return asset, err
}

func (r *AssetRepository) Create(ctx context.Context, orgID uuid.UUID, asset *models.Asset) error {
	query := `
		INSERT INTO assets (
			id, org_id, asset_tag, name, category_id, serial_number,
			model, manufacturer, condition, vendor_id,
			purchase_date, purchase_cost, warranty_expiry,
			location_id, assigned_to_id, status, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		asset.ID, orgID, asset.AssetTag, asset.Name, asset.CategoryID,
		asset.SerialNumber, asset.Model, asset.Manufacturer, asset.Condition,
		asset.VendorID, asset.PurchaseDate, asset.PurchaseCost, asset.WarrantyExpiry,
		asset.LocationID, asset.AssignedToID, asset.Status, asset.Notes,
	).Scan(&asset.CreatedAt, &asset.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Asset tag already exists", "Failed to create asset")
	}

	asset.OrgID = orgID
	return nil
}

func (r *AssetRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.Asset, error) {
	query := assetSelect + ` WHERE a.id = $1 AND a.org_id = $2`

	asset, err := scanAsset(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get asset", errors.ErrInternalServer.Status)
	}

	return asset, nil
}

func (r *AssetRepository) List(ctx context.Context, orgID uuid.UUID, filter *models.AssetFilter, page, limit int) ([]*models.Asset, int64, error) {
	where := ` WHERE a.org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if filter != nil {
		if filter.Status != nil {
			where += fmt.Sprintf(` AND a.status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
		if filter.CategoryID != nil {
			where += fmt.Sprintf(` AND a.category_id = $%d`, argPos)
			args = append(args, *filter.CategoryID)
			argPos++
		}
		if filter.LocationID != nil {
			where += fmt.Sprintf(` AND a.location_id = $%d`, argPos)
			args = append(args, *filter.LocationID)
			argPos++
		}
		if filter.Search != nil && *filter.Search != "" {
			where += fmt.Sprintf(` AND (a.asset_tag ILIKE $%d OR a.name ILIKE $%d OR a.serial_number ILIKE $%d)`, argPos, argPos, argPos)
			args = append(args, "%"+*filter.Search+"%")
			argPos++
		}
	}

	var total int64
	countQuery := `SELECT COUNT(*) FROM assets a` + where
	if err := r.db.Pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count assets", errors.ErrInternalServer.Status)
	}

	query := assetSelect + where +
		fmt.Sprintf(` ORDER BY a.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list assets", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	assets := make([]*models.Asset, 0)
	for rows.Next() {
		asset, err := scanAsset(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan asset", errors.ErrInternalServer.Status)
		}
		assets = append(assets, asset)
	}

	return assets, total, nil
}

func (r *AssetRepository) Update(ctx context.Context, orgID uuid.UUID, asset *models.Asset) error {
	query := `
		UPDATE assets
		SET name = COALESCE($1, name),
			category_id = COALESCE($2, category_id),
			serial_number = COALESCE($3, serial_number),
			model = COALESCE($4, model),
			manufacturer = COALESCE($5, manufacturer),
			condition = COALESCE($6, condition),
			vendor_id = COALESCE($7, vendor_id),
			purchase_date = COALESCE($8, purchase_date),
			purchase_cost = COALESCE($9, purchase_cost),
			warranty_expiry = COALESCE($10, warranty_expiry),
			location_id = COALESCE($11, location_id),
			assigned_to_id = COALESCE($12, assigned_to_id),
			status = COALESCE($13, status),
			notes = COALESCE($14, notes),
			updated_at = NOW()
		WHERE id = $15 AND org_id = $16
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		asset.Name, asset.CategoryID, asset.SerialNumber, asset.Model,
		asset.Manufacturer, asset.Condition, asset.VendorID,
		asset.PurchaseDate, asset.PurchaseCost, asset.WarrantyExpiry,
		asset.LocationID, asset.AssignedToID, asset.Status, asset.Notes,
		asset.ID, orgID,
	).Scan(&asset.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update asset", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *AssetRepository) UpdateStatus(ctx context.Context, orgID, id uuid.UUID, status string) error {
	query := `UPDATE assets SET status = $1, updated_at = NOW() WHERE id = $2 AND org_id = $3`

	result, err := r.db.Pool.Exec(ctx, query, status, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update asset status", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *AssetRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM assets WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "Asset is still referenced by other records")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// CountByStatus feeds the dashboard summary.
func (r *AssetRepository) CountByStatus(ctx context.Context, orgID uuid.UUID) (map[string]int64, error) {
	query := `SELECT status, COUNT(*) FROM assets WHERE org_id = $1 GROUP BY status`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count assets by status", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	counts := make(map[string]int64)
	for rows.Next() {
		var status string
		var count int64
		if err := rows.Scan(&status, &count); err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan asset count", errors.ErrInternalServer.Status)
		}
		counts[status] = count
	}

	return counts, nil
}
