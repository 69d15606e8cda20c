package models

import (
	"time"

	"github.com/google/uuid"
)

// Backup policy types and frequencies
const (
	BackupTypeFull         = "full"
	BackupTypeIncremental  = "incremental"
	BackupTypeDifferential = "differential"
	BackupTypeSnapshot     = "snapshot"

	BackupJobStatusScheduled = "scheduled"
	BackupJobStatusRunning   = "running"
	BackupJobStatusCompleted = "completed"
	BackupJobStatusFailed    = "failed"
	BackupJobStatusCancelled = "cancelled"
)

// BackupPolicy models
type BackupPolicy struct {
	ID            uuid.UUID `json:"id"`
	OrgID         uuid.UUID `json:"org_id"`
	Name          string    `json:"name"`
	BackupType    string    `json:"backup_type"`
	Frequency     string    `json:"frequency"`
	RetentionDays int       `json:"retention_days"`
	Location      *string   `json:"location,omitempty"`
	IsActive      bool      `json:"is_active"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type CreateBackupPolicyRequest struct {
	Name          string  `json:"name" binding:"required"`
	BackupType    string  `json:"backup_type" binding:"required,oneof=full incremental differential snapshot"`
	Frequency     string  `json:"frequency" binding:"required,oneof=hourly daily weekly monthly quarterly yearly"`
	RetentionDays int     `json:"retention_days" binding:"required,min=1"`
	Location      *string `json:"location"`
	IsActive      *bool   `json:"is_active"`
}

type UpdateBackupPolicyRequest struct {
	Name          *string `json:"name"`
	BackupType    *string `json:"backup_type" binding:"omitempty,oneof=full incremental differential snapshot"`
	Frequency     *string `json:"frequency" binding:"omitempty,oneof=hourly daily weekly monthly quarterly yearly"`
	RetentionDays *int    `json:"retention_days" binding:"omitempty,min=1"`
	Location      *string `json:"location"`
	IsActive      *bool   `json:"is_active"`
}

// BackupJob models
type BackupJob struct {
	ID                 uuid.UUID  `json:"id"`
	OrgID              uuid.UUID  `json:"org_id"`
	JobNumber          string     `json:"job_number"`
	PolicyID           uuid.UUID  `json:"policy_id"`
	AssetID            *uuid.UUID `json:"asset_id,omitempty"`
	Status             string     `json:"status"`
	StartedAt          *time.Time `json:"started_at,omitempty"`
	CompletedAt        *time.Time `json:"completed_at,omitempty"`
	SizeBytes          *int64     `json:"size_bytes,omitempty"`
	VerificationStatus *string    `json:"verification_status,omitempty"`
	ErrorMessage       *string    `json:"error_message,omitempty"`
	CreatedAt          time.Time  `json:"created_at"`
	UpdatedAt          time.Time  `json:"updated_at"`
	// Joined fields for display
	PolicyName *string `json:"policy_name,omitempty"`
}

// DurationSeconds derives run time from the start and completion stamps.
func (j *BackupJob) DurationSeconds() *int64 {
	if j.StartedAt == nil || j.CompletedAt == nil {
		return nil
	}
	d := int64(j.CompletedAt.Sub(*j.StartedAt).Seconds())
	return &d
}

type CreateBackupJobRequest struct {
	PolicyID uuid.UUID  `json:"policy_id" binding:"required"`
	AssetID  *uuid.UUID `json:"asset_id"`
}

type UpdateBackupJobRequest struct {
	Status             *string    `json:"status" binding:"omitempty,oneof=scheduled running completed failed cancelled"`
	StartedAt          *time.Time `json:"started_at"`
	CompletedAt        *time.Time `json:"completed_at"`
	SizeBytes          *int64     `json:"size_bytes"`
	VerificationStatus *string    `json:"verification_status"`
	ErrorMessage       *string    `json:"error_message"`
}
