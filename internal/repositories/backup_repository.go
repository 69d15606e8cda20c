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

type BackupRepository struct {
	db *database.DB
}

func NewBackupRepository(db *database.DB) *BackupRepository {
	return &BackupRepository{db: db}
}

// Policies

func (r *BackupRepository) CreatePolicy(ctx context.Context, orgID uuid.UUID, policy *models.BackupPolicy) error {
	query := `
		INSERT INTO backup_policies (id, org_id, name, backup_type, frequency, retention_days, location, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		policy.ID, orgID, policy.Name, policy.BackupType, policy.Frequency,
		policy.RetentionDays, policy.Location, policy.IsActive,
	).Scan(&policy.CreatedAt, &policy.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Backup policy name already exists", "Failed to create backup policy")
	}

	policy.OrgID = orgID
	return nil
}

func (r *BackupRepository) GetPolicy(ctx context.Context, orgID, id uuid.UUID) (*models.BackupPolicy, error) {
	policy := &models.BackupPolicy{}
	query := `
		SELECT id, org_id, name, backup_type, frequency, retention_days, location, is_active,
			created_at, updated_at
		FROM backup_policies
		WHERE id = $1 AND org_id = $2
	`

	err := r.db.Pool.QueryRow(ctx, query, id, orgID).Scan(
		&policy.ID, &policy.OrgID, &policy.Name, &policy.BackupType,
		&policy.Frequency, &policy.RetentionDays, &policy.Location,
		&policy.IsActive, &policy.CreatedAt, &policy.UpdatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get backup policy", errors.ErrInternalServer.Status)
	}

	return policy, nil
}

func (r *BackupRepository) ListPolicies(ctx context.Context, orgID uuid.UUID) ([]*models.BackupPolicy, error) {
	query := `
		SELECT id, org_id, name, backup_type, frequency, retention_days, location, is_active,
			created_at, updated_at
		FROM backup_policies
		WHERE org_id = $1
		ORDER BY name
	`

	rows, err := r.db.Pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list backup policies", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	policies := make([]*models.BackupPolicy, 0)
	for rows.Next() {
		policy := &models.BackupPolicy{}
		err := rows.Scan(
			&policy.ID, &policy.OrgID, &policy.Name, &policy.BackupType,
			&policy.Frequency, &policy.RetentionDays, &policy.Location,
			&policy.IsActive, &policy.CreatedAt, &policy.UpdatedAt,
		)
		if err != nil {
			return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan backup policy", errors.ErrInternalServer.Status)
		}
		policies = append(policies, policy)
	}

	return policies, nil
}

func (r *BackupRepository) UpdatePolicy(ctx context.Context, orgID uuid.UUID, policy *models.BackupPolicy, isActive *bool) error {
	query := `
		UPDATE backup_policies
		SET name = COALESCE(NULLIF($1, ''), name),
			backup_type = COALESCE(NULLIF($2, ''), backup_type),
			frequency = COALESCE(NULLIF($3, ''), frequency),
			retention_days = COALESCE(NULLIF($4, 0), retention_days),
			location = COALESCE($5, location),
			is_active = COALESCE($6, is_active),
			updated_at = NOW()
		WHERE id = $7 AND org_id = $8
		RETURNING is_active, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		policy.Name, policy.BackupType, policy.Frequency, policy.RetentionDays,
		policy.Location, isActive, policy.ID, orgID,
	).Scan(&policy.IsActive, &policy.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "Backup policy name already exists", "Failed to update backup policy")
	}

	return nil
}

func (r *BackupRepository) DeletePolicy(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM backup_policies WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return referencedError(err, "Backup policy still has jobs")
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// Jobs

const backupJobSelect = `
	SELECT j.id, j.org_id, j.job_number, j.policy_id, j.asset_id, j.status,
		j.started_at, j.completed_at, j.size_bytes, j.verification_status,
		j.error_message, j.created_at, j.updated_at, p.name AS policy_name
	FROM backup_jobs j
	LEFT JOIN backup_policies p ON j.policy_id = p.id`

func scanBackupJob(row pgx.Row) (*models.BackupJob, error) {
	job := &models.BackupJob{}
	err := row.Scan(
		&job.ID, &job.OrgID, &job.JobNumber, &job.PolicyID, &job.AssetID,
		&job.Status, &job.StartedAt, &job.CompletedAt, &job.SizeBytes,
		&job.VerificationStatus, &job.ErrorMessage,
		&job.CreatedAt, &job.UpdatedAt, &job.PolicyName,
	)
	return job, err
}

func (r *BackupRepository) JobNumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM backup_jobs WHERE job_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check job number", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

func (r *BackupRepository) CreateJob(ctx context.Context, orgID uuid.UUID, job *models.BackupJob) error {
	query := `
		INSERT INTO backup_jobs (id, org_id, job_number, policy_id, asset_id, status)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		job.ID, orgID, job.JobNumber, job.PolicyID, job.AssetID, job.Status,
	).Scan(&job.CreatedAt, &job.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code, "Backup policy does not exist", errors.ErrBadRequest.Status)
		}
		return conflictOn(err, "Job number already exists", "Failed to create backup job")
	}

	job.OrgID = orgID
	return nil
}

func (r *BackupRepository) GetJob(ctx context.Context, orgID, id uuid.UUID) (*models.BackupJob, error) {
	query := backupJobSelect + ` WHERE j.id = $1 AND j.org_id = $2`

	job, err := scanBackupJob(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get backup job", errors.ErrInternalServer.Status)
	}

	return job, nil
}

func (r *BackupRepository) ListJobs(ctx context.Context, orgID uuid.UUID, policyID *uuid.UUID, status *string, page, limit int) ([]*models.BackupJob, int64, error) {
	where := ` WHERE j.org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if policyID != nil {
		where += fmt.Sprintf(` AND j.policy_id = $%d`, argPos)
		args = append(args, *policyID)
		argPos++
	}
	if status != nil {
		where += fmt.Sprintf(` AND j.status = $%d`, argPos)
		args = append(args, *status)
		argPos++
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM backup_jobs j`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count backup jobs", errors.ErrInternalServer.Status)
	}

	query := backupJobSelect + where +
		fmt.Sprintf(` ORDER BY j.created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list backup jobs", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	jobs := make([]*models.BackupJob, 0)
	for rows.Next() {
		job, err := scanBackupJob(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan backup job", errors.ErrInternalServer.Status)
		}
		jobs = append(jobs, job)
	}

	return jobs, total, nil
}

func (r *BackupRepository) UpdateJob(ctx context.Context, orgID uuid.UUID, job *models.BackupJob, status *string) error {
	query := `
		UPDATE backup_jobs
		SET status = COALESCE($1, status),
			started_at = COALESCE($2, started_at),
			completed_at = COALESCE($3, completed_at),
			size_bytes = COALESCE($4, size_bytes),
			verification_status = COALESCE($5, verification_status),
			error_message = COALESCE($6, error_message),
			updated_at = NOW()
		WHERE id = $7 AND org_id = $8
		RETURNING status, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		status, job.StartedAt, job.CompletedAt, job.SizeBytes,
		job.VerificationStatus, job.ErrorMessage, job.ID, orgID,
	).Scan(&job.Status, &job.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update backup job", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *BackupRepository) DeleteJob(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM backup_jobs WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete backup job", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// SuccessRate returns the share of completed jobs among finished ones over
// the last 30 days, for the dashboard. Zero finished jobs yields zero.
func (r *BackupRepository) SuccessRate(ctx context.Context, orgID uuid.UUID) (float64, error) {
	var rate float64
	query := `
		SELECT COALESCE(
			COUNT(*) FILTER (WHERE status = 'completed')::FLOAT / NULLIF(COUNT(*), 0),
			0
		)
		FROM backup_jobs
		WHERE org_id = $1
			AND status IN ('completed', 'failed')
			AND created_at > NOW() - INTERVAL '30 days'
	`

	if err := r.db.Pool.QueryRow(ctx, query, orgID).Scan(&rate); err != nil {
		return 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to compute backup success rate", errors.ErrInternalServer.Status)
	}
	return rate, nil
}
