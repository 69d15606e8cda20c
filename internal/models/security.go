package models

import (
	"time"

	"github.com/google/uuid"
)

// Incident severities and statuses
const (
	IncidentSeverityLow      = "low"
	IncidentSeverityMedium   = "medium"
	IncidentSeverityHigh     = "high"
	IncidentSeverityCritical = "critical"

	IncidentStatusReported      = "reported"
	IncidentStatusInvestigating = "investigating"
	IncidentStatusContained     = "contained"
	IncidentStatusResolved      = "resolved"
	IncidentStatusClosed        = "closed"
)

// SecurityIncident models
type SecurityIncident struct {
	ID              uuid.UUID  `json:"id"`
	OrgID           uuid.UUID  `json:"org_id"`
	IncidentNumber  string     `json:"incident_number"`
	Title           string     `json:"title"`
	Description     string     `json:"description"`
	IncidentType    string     `json:"incident_type"`
	Severity        string     `json:"severity"`
	Status          string     `json:"status"`
	ReportedByID    uuid.UUID  `json:"reported_by_id"`
	AssigneeID      *uuid.UUID `json:"assignee_id,omitempty"`
	DiscoveredAt    time.Time  `json:"discovered_at"`
	ResolvedAt      *time.Time `json:"resolved_at,omitempty"`
	ResolutionNotes *string    `json:"resolution_notes,omitempty"`
	LessonsLearned  *string    `json:"lessons_learned,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateIncidentRequest struct {
	Title        string     `json:"title" binding:"required"`
	Description  string     `json:"description" binding:"required"`
	IncidentType string     `json:"incident_type" binding:"required"`
	Severity     string     `json:"severity" binding:"required,oneof=low medium high critical"`
	AssigneeID   *uuid.UUID `json:"assignee_id"`
	DiscoveredAt *time.Time `json:"discovered_at"`
}

type UpdateIncidentRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	IncidentType    *string    `json:"incident_type"`
	Severity        *string    `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	Status          *string    `json:"status" binding:"omitempty,oneof=reported investigating contained resolved closed"`
	AssigneeID      *uuid.UUID `json:"assignee_id"`
	ResolutionNotes *string    `json:"resolution_notes"`
	LessonsLearned  *string    `json:"lessons_learned"`
}

// IncidentFilter narrows incident listings
type IncidentFilter struct {
	Status   *string `form:"status"`
	Severity *string `form:"severity"`
}

// Vulnerability risk levels and statuses
const (
	RiskLevelInfo     = "info"
	RiskLevelLow      = "low"
	RiskLevelMedium   = "medium"
	RiskLevelHigh     = "high"
	RiskLevelCritical = "critical"

	VulnerabilityStatusIdentified = "identified"
	VulnerabilityStatusConfirmed  = "confirmed"
	VulnerabilityStatusInProgress = "in_progress"
	VulnerabilityStatusFixed      = "fixed"
	VulnerabilityStatusMitigated  = "mitigated"
	VulnerabilityStatusAccepted   = "accepted"
)

// VulnerabilityAssessment tracks a finding from discovery to fix. Affected
// assets are held in a join table and loaded on single-record reads.
type VulnerabilityAssessment struct {
	ID                  uuid.UUID   `json:"id"`
	OrgID               uuid.UUID   `json:"org_id"`
	VulnerabilityNumber string      `json:"vulnerability_number"`
	Title               string      `json:"title"`
	Description         string      `json:"description"`
	CVEID               *string     `json:"cve_id,omitempty"`
	RiskLevel           string      `json:"risk_level"`
	Status              string      `json:"status"`
	DiscoveryMethod     *string     `json:"discovery_method,omitempty"`
	DiscoveredByID      uuid.UUID   `json:"discovered_by_id"`
	AssigneeID          *uuid.UUID  `json:"assignee_id,omitempty"`
	DiscoveredAt        time.Time   `json:"discovered_at"`
	TargetFixDate       *time.Time  `json:"target_fix_date,omitempty"`
	FixedAt             *time.Time  `json:"fixed_at,omitempty"`
	RemediationNotes    *string     `json:"remediation_notes,omitempty"`
	VerificationNotes   *string     `json:"verification_notes,omitempty"`
	AffectedAssetIDs    []uuid.UUID `json:"affected_asset_ids,omitempty"`
	CreatedAt           time.Time   `json:"created_at"`
	UpdatedAt           time.Time   `json:"updated_at"`
}

type CreateVulnerabilityRequest struct {
	Title            string      `json:"title" binding:"required"`
	Description      string      `json:"description" binding:"required"`
	CVEID            *string     `json:"cve_id"`
	RiskLevel        string      `json:"risk_level" binding:"required,oneof=info low medium high critical"`
	DiscoveryMethod  *string     `json:"discovery_method"`
	AssigneeID       *uuid.UUID  `json:"assignee_id"`
	DiscoveredAt     *time.Time  `json:"discovered_at"`
	TargetFixDate    *time.Time  `json:"target_fix_date"`
	AffectedAssetIDs []uuid.UUID `json:"affected_asset_ids"`
}

type UpdateVulnerabilityRequest struct {
	Title             *string     `json:"title"`
	Description       *string     `json:"description"`
	CVEID             *string     `json:"cve_id"`
	RiskLevel         *string     `json:"risk_level" binding:"omitempty,oneof=info low medium high critical"`
	Status            *string     `json:"status" binding:"omitempty,oneof=identified confirmed in_progress fixed mitigated accepted"`
	DiscoveryMethod   *string     `json:"discovery_method"`
	AssigneeID        *uuid.UUID  `json:"assignee_id"`
	TargetFixDate     *time.Time  `json:"target_fix_date"`
	RemediationNotes  *string     `json:"remediation_notes"`
	VerificationNotes *string     `json:"verification_notes"`
	AffectedAssetIDs  []uuid.UUID `json:"affected_asset_ids"`
}

// VulnerabilityFilter narrows vulnerability listings
type VulnerabilityFilter struct {
	Status    *string `form:"status"`
	RiskLevel *string `form:"risk_level"`
	CVEID     *string `form:"cve_id"`
}
