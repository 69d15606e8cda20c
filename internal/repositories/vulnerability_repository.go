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

type VulnerabilityRepository struct {
	db *database.DB
}

func NewVulnerabilityRepository(db *database.DB) *VulnerabilityRepository {
	return &VulnerabilityRepository{db: db}
}

const vulnerabilityColumns = `id, org_id, vulnerability_number, title, description, cve_id,
	risk_level, status, discovery_method, discovered_by_id, assignee_id,
	discovered_at, target_fix_date, fixed_at, remediation_notes,
	verification_notes, created_at, updated_at`

func scanVulnerability(row pgx.Row) (*models.VulnerabilityAssessment, error) {
	vuln := &models.VulnerabilityAssessment{}
	err := row.Scan(
		&vuln.ID, &vuln.OrgID, &vuln.VulnerabilityNumber, &vuln.Title, &vuln.Description,
		&vuln.CVEID, &vuln.RiskLevel, &vuln.Status,
		&vuln.DiscoveryMethod, &vuln.DiscoveredByID, &vuln.AssigneeID,
		&vuln.DiscoveredAt, &vuln.TargetFixDate, &vuln.FixedAt,
		&vuln.RemediationNotes, &vuln.VerificationNotes,
		&vuln.CreatedAt, &vuln.UpdatedAt,
	)
	return vuln, err
}

func (r *VulnerabilityRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM vulnerability_assessments WHERE vulnerability_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check vulnerability number", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

func (r *VulnerabilityRepository) Create(ctx context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment) error {
	query := `
		INSERT INTO vulnerability_assessments (
			id, org_id, vulnerability_number, title, description, cve_id,
			risk_level, status, discovery_method, discovered_by_id, assignee_id,
			discovered_at, target_fix_date
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vuln.ID, orgID, vuln.VulnerabilityNumber, vuln.Title, vuln.Description, vuln.CVEID,
		vuln.RiskLevel, vuln.Status, vuln.DiscoveryMethod, vuln.DiscoveredByID, vuln.AssigneeID,
		vuln.DiscoveredAt, vuln.TargetFixDate,
	).Scan(&vuln.CreatedAt, &vuln.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Vulnerability number already exists", "Failed to create vulnerability")
	}

	vuln.OrgID = orgID

	if len(vuln.AffectedAssetIDs) > 0 {
		if err := r.SetAffectedAssets(ctx, orgID, vuln.ID, vuln.AffectedAssetIDs); err != nil {
			return err
		}
	}

	return nil
}

func (r *VulnerabilityRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.VulnerabilityAssessment, error) {
	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerability_assessments WHERE id = $1 AND org_id = $2`

	vuln, err := scanVulnerability(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get vulnerability", errors.ErrInternalServer.Status)
	}

	assetIDs, err := r.listAffectedAssets(ctx, id)
	if err != nil {
		return nil, err
	}
	vuln.AffectedAssetIDs = assetIDs

	return vuln, nil
}

func (r *VulnerabilityRepository) List(ctx context.Context, orgID uuid.UUID, filter *models.VulnerabilityFilter, page, limit int) ([]*models.VulnerabilityAssessment, int64, error) {
	where := ` WHERE org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if filter != nil {
		if filter.Status != nil {
			where += fmt.Sprintf(` AND status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
		if filter.RiskLevel != nil {
			where += fmt.Sprintf(` AND risk_level = $%d`, argPos)
			args = append(args, *filter.RiskLevel)
			argPos++
		}
		if filter.CVEID != nil {
			where += fmt.Sprintf(` AND cve_id = $%d`, argPos)
			args = append(args, *filter.CVEID)
			argPos++
		}
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM vulnerability_assessments`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count vulnerabilities", errors.ErrInternalServer.Status)
	}

	query := `SELECT ` + vulnerabilityColumns + ` FROM vulnerability_assessments` + where +
		fmt.Sprintf(` ORDER BY discovered_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list vulnerabilities", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	vulns := make([]*models.VulnerabilityAssessment, 0)
	for rows.Next() {
		vuln, err := scanVulnerability(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan vulnerability", errors.ErrInternalServer.Status)
		}
		vulns = append(vulns, vuln)
	}

	return vulns, total, nil
}

// Update stamps fixed_at on the first transition to fixed or mitigated,
// mirroring the incident resolution rule.
func (r *VulnerabilityRepository) Update(ctx context.Context, orgID uuid.UUID, vuln *models.VulnerabilityAssessment, status *string) error {
	query := `
		UPDATE vulnerability_assessments
		SET title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			cve_id = COALESCE($3, cve_id),
			risk_level = COALESCE(NULLIF($4, ''), risk_level),
			status = COALESCE($5, status),
			discovery_method = COALESCE($6, discovery_method),
			assignee_id = COALESCE($7, assignee_id),
			target_fix_date = COALESCE($8, target_fix_date),
			remediation_notes = COALESCE($9, remediation_notes),
			verification_notes = COALESCE($10, verification_notes),
			fixed_at = CASE
				WHEN fixed_at IS NULL AND COALESCE($5, status) IN ('fixed', 'mitigated') THEN NOW()
				ELSE fixed_at
			END,
			updated_at = NOW()
		WHERE id = $11 AND org_id = $12
		RETURNING status, fixed_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		vuln.Title, vuln.Description, vuln.CVEID, vuln.RiskLevel, status,
		vuln.DiscoveryMethod, vuln.AssigneeID, vuln.TargetFixDate,
		vuln.RemediationNotes, vuln.VerificationNotes, vuln.ID, orgID,
	).Scan(&vuln.Status, &vuln.FixedAt, &vuln.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update vulnerability", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *VulnerabilityRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM vulnerability_assessments WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete vulnerability", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// SetAffectedAssets replaces the affected-asset links. Assets from other
// orgs are filtered out by the join against the assets table.
func (r *VulnerabilityRepository) SetAffectedAssets(ctx context.Context, orgID, vulnID uuid.UUID, assetIDs []uuid.UUID) error {
	if _, err := r.db.Pool.Exec(ctx,
		`DELETE FROM vulnerability_affected_assets WHERE vulnerability_id = $1`, vulnID); err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to clear affected assets", errors.ErrInternalServer.Status)
	}

	for _, assetID := range assetIDs {
		_, err := r.db.Pool.Exec(ctx, `
			INSERT INTO vulnerability_affected_assets (vulnerability_id, asset_id)
			SELECT $1, id FROM assets WHERE id = $2 AND org_id = $3
			ON CONFLICT DO NOTHING
		`, vulnID, assetID, orgID)
		if err != nil {
			return errors.WrapError(err, "INTERNAL_ERROR", "Failed to link affected asset", errors.ErrInternalServer.Status)
		}
	}

	return nil
}

func (r *VulnerabilityRepository) listAffectedAssets(ctx context.Context, vulnID uuid.UUID) ([]uuid.UUID, error) {
	rows, err := r.db.Pool.Query(ctx,
		`SELECT asset_id FROM vulnerability_affected_assets WHERE vulnerability_id = $1 ORDER BY asset_id`, vulnID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list affected assets", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	var assetIDs []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan affected asset", errors.ErrInternalServer.Status)
		}
		assetIDs = append(assetIDs, id)
	}

	return assetIDs, nil
}

// CountOpen feeds the dashboard summary.
func (r *VulnerabilityRepository) CountOpen(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM vulnerability_assessments
		WHERE org_id = $1 AND status NOT IN ('fixed', 'mitigated', 'accepted')
	`, orgID).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count open vulnerabilities", errors.ErrInternalServer.Status)
	}
	return count, nil
}
