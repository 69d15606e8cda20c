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

type IncidentRepository struct {
	db *database.DB
}

func NewIncidentRepository(db *database.DB) *IncidentRepository {
	return &IncidentRepository{db: db}
}

const incidentColumns = `id, org_id, incident_number, title, description, incident_type,
	severity, status, reported_by_id, assignee_id, discovered_at,
	resolved_at, resolution_notes, lessons_learned, created_at, updated_at`

func scanIncident(row pgx.Row) (*models.SecurityIncident, error) {
	inc := &models.SecurityIncident{}
	err := row.Scan(
		&inc.ID, &inc.OrgID, &inc.IncidentNumber, &inc.Title, &inc.Description,
		&inc.IncidentType, &inc.Severity, &inc.Status,
		&inc.ReportedByID, &inc.AssigneeID, &inc.DiscoveredAt,
		&inc.ResolvedAt, &inc.ResolutionNotes, &inc.LessonsLearned,
		&inc.CreatedAt, &inc.UpdatedAt,
	)
	return inc, err
}

func (r *IncidentRepository) NumberExists(ctx context.Context, number string) (bool, error) {
	var exists bool
	err := r.db.Pool.QueryRow(ctx,
		`SELECT EXISTS(SELECT 1 FROM security_incidents WHERE incident_number = $1)`, number).Scan(&exists)
	if err != nil {
		return false, errors.WrapError(err, "INTERNAL_ERROR", "Failed to check incident number", errors.ErrInternalServer.Status)
	}
	return exists, nil
}

func (r *IncidentRepository) Create(ctx context.Context, orgID uuid.UUID, inc *models.SecurityIncident) error {
	query := `
		INSERT INTO security_incidents (
			id, org_id, incident_number, title, description, incident_type,
			severity, status, reported_by_id, assignee_id, discovered_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		inc.ID, orgID, inc.IncidentNumber, inc.Title, inc.Description,
		inc.IncidentType, inc.Severity, inc.Status,
		inc.ReportedByID, inc.AssigneeID, inc.DiscoveredAt,
	).Scan(&inc.CreatedAt, &inc.UpdatedAt)

	if err != nil {
		return conflictOn(err, "Incident number already exists", "Failed to create incident")
	}

	inc.OrgID = orgID
	return nil
}

func (r *IncidentRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.SecurityIncident, error) {
	query := `SELECT ` + incidentColumns + ` FROM security_incidents WHERE id = $1 AND org_id = $2`

	inc, err := scanIncident(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get incident", errors.ErrInternalServer.Status)
	}

	return inc, nil
}

func (r *IncidentRepository) List(ctx context.Context, orgID uuid.UUID, filter *models.IncidentFilter, page, limit int) ([]*models.SecurityIncident, int64, error) {
	where := ` WHERE org_id = $1`
	args := []interface{}{orgID}
	argPos := 2

	if filter != nil {
		if filter.Status != nil {
			where += fmt.Sprintf(` AND status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
		if filter.Severity != nil {
			where += fmt.Sprintf(` AND severity = $%d`, argPos)
			args = append(args, *filter.Severity)
			argPos++
		}
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM security_incidents`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count incidents", errors.ErrInternalServer.Status)
	}

	query := `SELECT ` + incidentColumns + ` FROM security_incidents` + where +
		fmt.Sprintf(` ORDER BY discovered_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list incidents", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	incidents := make([]*models.SecurityIncident, 0)
	for rows.Next() {
		inc, err := scanIncident(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan incident", errors.ErrInternalServer.Status)
		}
		incidents = append(incidents, inc)
	}

	return incidents, total, nil
}

// Update stamps resolved_at on the first transition to resolved or closed,
// same rule the help desk follows.
func (r *IncidentRepository) Update(ctx context.Context, orgID uuid.UUID, inc *models.SecurityIncident, status *string) error {
	query := `
		UPDATE security_incidents
		SET title = COALESCE(NULLIF($1, ''), title),
			description = COALESCE(NULLIF($2, ''), description),
			incident_type = COALESCE(NULLIF($3, ''), incident_type),
			severity = COALESCE(NULLIF($4, ''), severity),
			status = COALESCE($5, status),
			assignee_id = COALESCE($6, assignee_id),
			resolution_notes = COALESCE($7, resolution_notes),
			lessons_learned = COALESCE($8, lessons_learned),
			resolved_at = CASE
				WHEN resolved_at IS NULL AND COALESCE($5, status) IN ('resolved', 'closed') THEN NOW()
				ELSE resolved_at
			END,
			updated_at = NOW()
		WHERE id = $9 AND org_id = $10
		RETURNING status, resolved_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		inc.Title, inc.Description, inc.IncidentType, inc.Severity, status,
		inc.AssigneeID, inc.ResolutionNotes, inc.LessonsLearned, inc.ID, orgID,
	).Scan(&inc.Status, &inc.ResolvedAt, &inc.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to update incident", errors.ErrInternalServer.Status)
	}

	return nil
}

func (r *IncidentRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM security_incidents WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete incident", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

// CountActive feeds the dashboard summary.
func (r *IncidentRepository) CountActive(ctx context.Context, orgID uuid.UUID) (int64, error) {
	var count int64
	err := r.db.Pool.QueryRow(ctx, `
		SELECT COUNT(*) FROM security_incidents
		WHERE org_id = $1 AND status NOT IN ('resolved', 'closed')
	`, orgID).Scan(&count)
	if err != nil {
		return 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count active incidents", errors.ErrInternalServer.Status)
	}
	return count, nil
}
