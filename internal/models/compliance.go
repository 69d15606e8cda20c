package models

import (
	"time"

	"github.com/google/uuid"
)

// Compliance requirement statuses
const (
	ComplianceStatusCompliant          = "compliant"
	ComplianceStatusNonCompliant       = "non_compliant"
	ComplianceStatusPartiallyCompliant = "partially_compliant"
	ComplianceStatusNotAssessed        = "not_assessed"
)

// ComplianceFramework models
type ComplianceFramework struct {
	ID                  uuid.UUID  `json:"id"`
	OrgID               uuid.UUID  `json:"org_id"`
	Name                string     `json:"name"`
	Version             *string    `json:"version,omitempty"`
	Description         *string    `json:"description,omitempty"`
	EffectiveDate       *time.Time `json:"effective_date,omitempty"`
	ReviewFrequency     *string    `json:"review_frequency,omitempty"`
	ResponsiblePersonID *uuid.UUID `json:"responsible_person_id,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

type CreateComplianceFrameworkRequest struct {
	Name                string     `json:"name" binding:"required"`
	Version             *string    `json:"version"`
	Description         *string    `json:"description"`
	EffectiveDate       *time.Time `json:"effective_date"`
	ReviewFrequency     *string    `json:"review_frequency"`
	ResponsiblePersonID *uuid.UUID `json:"responsible_person_id"`
}

type UpdateComplianceFrameworkRequest struct {
	Name                *string    `json:"name"`
	Version             *string    `json:"version"`
	Description         *string    `json:"description"`
	EffectiveDate       *time.Time `json:"effective_date"`
	ReviewFrequency     *string    `json:"review_frequency"`
	ResponsiblePersonID *uuid.UUID `json:"responsible_person_id"`
}

// ComplianceRequirement models. ControlID is unique within a framework.
type ComplianceRequirement struct {
	ID              uuid.UUID  `json:"id"`
	FrameworkID     uuid.UUID  `json:"framework_id"`
	ControlID       string     `json:"control_id"`
	Title           string     `json:"title"`
	Description     *string    `json:"description,omitempty"`
	Status          string     `json:"status"`
	LastAssessedAt  *time.Time `json:"last_assessed_at,omitempty"`
	NextAssessment  *time.Time `json:"next_assessment,omitempty"`
	AssessmentNotes *string    `json:"assessment_notes,omitempty"`
	RemediationPlan *string    `json:"remediation_plan,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
}

type CreateComplianceRequirementRequest struct {
	ControlID   string  `json:"control_id" binding:"required"`
	Title       string  `json:"title" binding:"required"`
	Description *string `json:"description"`
	Status      *string `json:"status" binding:"omitempty,oneof=compliant non_compliant partially_compliant not_assessed"`
}

type UpdateComplianceRequirementRequest struct {
	Title           *string    `json:"title"`
	Description     *string    `json:"description"`
	Status          *string    `json:"status" binding:"omitempty,oneof=compliant non_compliant partially_compliant not_assessed"`
	LastAssessedAt  *time.Time `json:"last_assessed_at"`
	NextAssessment  *time.Time `json:"next_assessment"`
	AssessmentNotes *string    `json:"assessment_notes"`
	RemediationPlan *string    `json:"remediation_plan"`
}
