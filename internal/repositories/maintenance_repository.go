package repositories

import (
	"context"
	"fmt"
	"time"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type MaintenanceRepository struct {
	db *database.DB
}

func NewMaintenanceRepository(db *database.DB) *MaintenanceRepository {
	return &MaintenanceRepository{db: db}
}

const maintenanceSelect = `
	SELECT m.id, m.org_id, m.asset_id, m.maintenance_type, m.description,
		m.performed_by_id, m.performed_date, m.cost, m.vendor_id, m.notes,
		m.created_at, m.updated_at, a.name AS asset_name
	FROM maintenance_records m
	LEFT JOIN assets a ON m.asset_id = a.id`

func scanMaintenanceRecord(row pgx.Row) (*models.MaintenanceRecord, error) {
	rec := &models.MaintenanceRecord{}
	err := row.Scan(
		&rec.ID, &rec.OrgID, &rec.AssetID, &rec.MaintenanceType, &rec.Description,
		&rec.PerformedByID, &rec.PerformedDate, &rec.Cost, &rec.VendorID, &rec.Notes,
		&rec.CreatedAt, &rec.UpdatedAt, &rec.AssetName,
	)
	return rec, err
}

func (r *MaintenanceRepository) Create(ctx context.Context, orgID uuid.UUID, rec *models.MaintenanceRecord) error {
	query := `
		INSERT INTO maintenance_records (
			id, org_id, asset_id, maintenance_type, description,
			performed_by_id, performed_date, cost, vendor_id, notes
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.ID, orgID, rec.AssetID, rec.MaintenanceType, rec.Description,
		rec.PerformedByID, rec.PerformedDate, rec.Cost, rec.VendorID, rec.Notes,
	).Scan(&rec.CreatedAt, &rec.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code, "Asset does not exist", errors.ErrBadRequest.Status)
		}
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to create maintenance record", errors.ErrInternalServer.Status)
	}

	rec.OrgID = orgID
	return nil
}

func (r *MaintenanceRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.MaintenanceRecord, error) {
	query := maintenanceSelect + ` WHERE m.id = $1 AND m.org_id = $2`

	rec, err := scanMaintenanceRecord(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get maintenance record", errors.ErrInternalServer.Status)
	}

	return rec, nil
}

func (r *MaintenanceRepository) List(ctx context.Context, orgID uuid.UUID, assetID *uuid.UUID, page, limit int) ([]*models.MaintenanceRecord, int64, error) {
	where := ` WHERE m.org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if assetID != nil {
		where += fmt.Sprintf(` AND m.asset_id = $%d`, argPos)
		args = append(args, *assetID)
		argPos++
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM maintenance_records m`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count maintenance records", errors.ErrInternalServer.Status)
	}

	query := maintenanceSelect + where +
		fmt.Sprintf(` ORDER BY m.performed_date DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list maintenance records", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	records := make([]*models.MaintenanceRecord, 0)
	for rows.Next() {
		rec, err := scanMaintenanceRecord(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan maintenance record", errors.ErrInternalServer.Status)
		}
		records = append(records, rec)
	}

	return records, total, nil
}

// Update applies partial changes. performedDate is passed separately so a
// nil value leaves the stored date untouched.
func (r *MaintenanceRepository) Update(ctx context.Context, orgID uuid.UUID, rec *models.MaintenanceRecord, performedDate *time.Time) error {
	query := `
		UPDATE maintenance_records
		SET maintenance_type = COALESCE(NULLIF($1, ''), maintenance_type),
			description = COALESCE(NULLIF($2, ''), description),
			performed_by_id = COALESCE($3, performed_by_id),
			performed_date = COALESCE($4, performed_date),
			cost = COALESCE($5, cost),
			vendor_id = COALESCE($6, vendor_id),
			notes = COALESCE($7, notes),
			updated_at = NOW()
		WHERE id = $8 AND org_id = $9
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		rec.MaintenanceType, rec.Description, rec.PerformedByID, performedDate,
		rec.Cost, rec.VendorID, rec.Notes, rec.ID, orgID,
	).Scan(&rec.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update maintenance record", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *MaintenanceRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM maintenance_records WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete maintenance record", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}
