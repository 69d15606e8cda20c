package repositories

import (
	"context"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type ComplianceRepository struct {
	db *database.DB
}

func NewComplianceRepository(db *database.DB) *ComplianceRepository {
	return &ComplianceRepository{db: db}
}

// Frameworks

func (r *ComplianceRepository) CreateFramework(ctx context.Context, orgID uuid.UUID, fw *models.ComplianceFramework) error {
	query := `
		INSERT INTO compliance_frameworks (
			id, org_id, name, version, description, effective_date,
			review_frequency, responsible_person_id
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		fw.ID, orgID, fw.Name, fw.Version, fw.Description,
		fw.EffectiveDate, fw.ReviewFrequency, fw.ResponsiblePersonID,
	).Scan(&fw.CreatedAt, &fw.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Framework name already exists", "Failed to create framework")
	}

	fw.OrgID = orgID
	return nil
}

func (r *ComplianceRepository) GetFramework(ctx context.Context, orgID, id uuid.UUID) (*models.ComplianceFramework, error) {
	fw := &models.ComplianceFramework{}
	query := `
		SELECT id, org_id, name, version, description, effective_date,
			review_frequency, responsible_person_id, created_at, updated_at
		FROM compliance_frameworks
		WHERE id = $1 AND org_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, id, orgID).Scan(
		&fw.ID, &fw.OrgID, &fw.Name, &fw.Version, &fw.Description,
		&fw.EffectiveDate, &fw.ReviewFrequency, &fw.ResponsiblePersonID,
		&fw.CreatedAt, &fw.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get framework", errors.ErrInternalServer.Status)
	}

	return fw, nil
}

func (r *ComplianceRepository) ListFrameworks(ctx context.Context, orgID uuid.UUID) ([]*models.ComplianceFramework, error) {
	query := `
		SELECT id, org_id, name, version, description, effective_date,
			review_frequency, responsible_person_id, created_at, updated_at
		FROM compliance_frameworks
		WHERE org_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list frameworks", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	frameworks := make([]*models.ComplianceFramework, 0)
	for rows.Next() {
		fw := &models.ComplianceFramework{}
		err := rows.Scan(
			&fw.ID, &fw.OrgID, &fw.Name, &fw.Version, &fw.Description,
			&fw.EffectiveDate, &fw.ReviewFrequency, &fw.ResponsiblePersonID,
			&fw.CreatedAt, &fw.UpdatedAt,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan framework", errors.ErrInternalServer.Status)
		}
		frameworks = append(frameworks, fw)
	}

	return frameworks, nil
}

func (r *ComplianceRepository) UpdateFramework(ctx context.Context, orgID uuid.UUID, fw *models.ComplianceFramework) error {
	query := `
		UPDATE compliance_frameworks
		SET name = COALESCE(NULLIF($1, ''), name),
			version = COALESCE($2, version),
			description = COALESCE($3, description),
			effective_date = COALESCE($4, effective_date),
			review_frequency = COALESCE($5, review_frequency),
			responsible_person_id = COALESCE($6, responsible_person_id),
			updated_at = NOW()
		WHERE id = $7 AND org_id = $8
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		fw.Name, fw.Version, fw.Description, fw.EffectiveDate,
		fw.ReviewFrequency, fw.ResponsiblePersonID, fw.ID, orgID,
	).Scan(&fw.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "Framework name already exists", "Failed to update framework")
	}

	return nil
}

func (r *ComplianceRepository) DeleteFramework(ctx context.Context, orgID, id uuid.UUID) error {
	// Requirements cascade with the framework.
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM compliance_frameworks WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete framework", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// Requirements

const requirementColumns = `id, framework_id, control_id, title, description, status,
	last_assessed_at, next_assessment, assessment_notes, remediation_plan,
	created_at, updated_at`

func scanRequirement(row pgx.Row) (*models.ComplianceRequirement, error) {
	req := &models.ComplianceRequirement{}
	err := row.Scan(
		&req.ID, &req.FrameworkID, &req.ControlID, &req.Title, &req.Description,
		&req.Status, &req.LastAssessedAt, &req.NextAssessment,
		&req.AssessmentNotes, &req.RemediationPlan,
		&req.CreatedAt, &req.UpdatedAt,
	)
	return req, err
}

func (r *ComplianceRepository) CreateRequirement(ctx context.Context, req *models.ComplianceRequirement) error {
	query := `
		INSERT INTO compliance_requirements (id, framework_id, control_id, title, description, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		req.ID, req.FrameworkID, req.ControlID, req.Title, req.Description, req.Status,
	).Scan(&req.CreatedAt, &req.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code, "Framework does not exist", errors.ErrBadRequest.Status)
		}
		return conflictOn(err, "Control ID already exists in this framework", "Failed to create requirement")
	}

	return nil
}

func (r *ComplianceRepository) GetRequirement(ctx context.Context, frameworkID, id uuid.UUID) (*models.ComplianceRequirement, error) {
	query := `SELECT ` + requirementColumns + `
		FROM compliance_requirements
		WHERE id = $1 AND framework_id = $2`

	req, err := scanRequirement(r.db.Pool.QueryRow(ctx, query, id, frameworkID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get requirement", errors.ErrInternalServer.Status)
	}

	return req, nil
}

func (r *ComplianceRepository) ListRequirements(ctx context.Context, frameworkID uuid.UUID) ([]*models.ComplianceRequirement, error) {
	query := `SELECT ` + requirementColumns + `
		FROM compliance_requirements
		WHERE framework_id = $1
		ORDER BY control_id`

	rows, err := r.db.Pool.Query(ctx, query, frameworkID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list requirements", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	requirements := make([]*models.ComplianceRequirement, 0)
	for rows.Next() {
		req, err := scanRequirement(rows)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan requirement", errors.ErrInternalServer.Status)
		}
		requirements = append(requirements, req)
	}

	return requirements, nil
}

func (r *ComplianceRepository) UpdateRequirement(ctx context.Context, frameworkID uuid.UUID, req *models.ComplianceRequirement) error {
	query := `
		UPDATE compliance_requirements
		SET title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE($2, description),
			status = COALESCE(NULLIF($3, ''), status),
			last_assessed_at = COALESCE($4, last_assessed_at),
			next_assessment = COALESCE($5, next_assessment),
			assessment_notes = COALESCE($6, assessment_notes),
			remediation_plan = COALESCE($7, remediation_plan),
			updated_at = NOW()
		WHERE id = $8 AND framework_id = $9
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		req.Title, req.Description, req.Status, req.LastAssessedAt,
		req.NextAssessment, req.AssessmentNotes, req.RemediationPlan,
		req.ID, frameworkID,
	).Scan(&req.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update requirement", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *ComplianceRepository) DeleteRequirement(ctx context.Context, frameworkID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM compliance_requirements WHERE id = $1 AND framework_id = $2`, id, frameworkID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete requirement", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}
