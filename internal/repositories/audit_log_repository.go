package repositories

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type AuditLogRepository struct {
	db *database.DB
}

func NewAuditLogRepository(db *database.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

func (r *AuditLogRepository) Create(ctx context.Context, entry *models.AuditLog) error {
	query := `
		INSERT INTO audit_logs (
			user_id, org_id, ip_address, user_agent, action,
			resource_type, resource_id, status, metadata, error_message
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, created_at
	`

	metadataJSON, _ := json.Marshal(entry.Metadata)

	err := r.db.Pool.QueryRow(ctx, query,
		entry.UserID, entry.OrgID, entry.IPAddress, entry.UserAgent,
		entry.Action, entry.ResourceType, entry.ResourceID,
		entry.Status, metadataJSON, entry.ErrorMessage,
	).Scan(&entry.ID, &entry.CreatedAt)

	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to create audit log", errors.ErrInternalServer.Status)
	}

	return nil
}

type AuditLogFilter struct {
	UserID       *uuid.UUID
	Action       *string
	ResourceType *string
	Status       *string
}

func (r *AuditLogRepository) List(ctx context.Context, orgID *uuid.UUID, filter *AuditLogFilter, page, limit int) ([]*models.AuditLog, int64, error) {
	where := ` WHERE 1=1`
	args := []interface{}{}
	argPos := 1

	if orgID != nil {
		where += fmt.Sprintf(` AND org_id = $%d`, argPos)
		args = append(args, *orgID)
		argPos++
	}
	if filter != nil {
		if filter.UserID != nil {
			where += fmt.Sprintf(` AND user_id = $%d`, argPos)
			args = append(args, *filter.UserID)
			argPos++
		}
		if filter.Action != nil {
			where += fmt.Sprintf(` AND action = $%d`, argPos)
			args = append(args, *filter.Action)
			argPos++
		}
		if filter.ResourceType != nil {
			where += fmt.Sprintf(` AND resource_type = $%d`, argPos)
			args = append(args, *filter.ResourceType)
			argPos++
		}
		if filter.Status != nil {
			where += fmt.Sprintf(` AND status = $%d`, argPos)
			args = append(args, *filter.Status)
			argPos++
		}
	}

	var total int64
	if err := r.db.Pool.QueryRow(ctx, `SELECT COUNT(*) FROM audit_logs`+where, args...).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count audit logs", errors.ErrInternalServer.Status)
	}

	query := `
		SELECT id, user_id, org_id, ip_address::TEXT, user_agent, action,
			resource_type, resource_id, status, metadata, error_message, created_at
		FROM audit_logs` + where +
		fmt.Sprintf(` ORDER BY created_at DESC LIMIT $%d OFFSET $%d`, argPos, argPos+1)
	args = append(args, limit, (page-1)*limit)

	rows, err := r.db.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list audit logs", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	logs := make([]*models.AuditLog, 0)
	for rows.Next() {
		entry := &models.AuditLog{}
		var metadataJSON []byte
		err := rows.Scan(
			&entry.ID, &entry.UserID, &entry.OrgID, &entry.IPAddress,
			&entry.UserAgent, &entry.Action, &entry.ResourceType,
			&entry.ResourceID, &entry.Status, &metadataJSON,
			&entry.ErrorMessage, &entry.CreatedAt,
		)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan audit log", errors.ErrInternalServer.Status)
		}
		if len(metadataJSON) > 0 {
			json.Unmarshal(metadataJSON, &entry.Metadata)
		}
		logs = append(logs, entry)
	}

	return logs, total, nil
}

func (r *AuditLogRepository) GetByID(ctx context.Context, id int64) (*models.AuditLog, error) {
	entry := &models.AuditLog{}
	var metadataJSON []byte

	query := `
		SELECT id, user_id, org_id, ip_address::TEXT, user_agent, action,
			resource_type, resource_id, status, metadata, error_message, created_at
		FROM audit_logs
		WHERE id = $1
	`

	err := r.db.Pool.QueryRow(ctx, query, id).Scan(
		&entry.ID, &entry.UserID, &entry.OrgID, &entry.IPAddress,
		&entry.UserAgent, &entry.Action, &entry.ResourceType,
		&entry.ResourceID, &entry.Status, &metadataJSON,
		&entry.ErrorMessage, &entry.CreatedAt,
	)

	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get audit log", errors.ErrInternalServer.Status)
	}

	if len(metadataJSON) > 0 {
		json.Unmarshal(metadataJSON, &entry.Metadata)
	}

	return entry, nil
}

// DeleteOlderThan enforces the audit retention window.
func (r *AuditLogRepository) DeleteOlderThan(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := r.db.Pool.Exec(ctx, `DELETE FROM audit_logs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected(), nil
}
