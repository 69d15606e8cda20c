package models

import (
	"time"

	"github.com/google/uuid"
)

// Organization models
type Organization struct {
	ID                  uuid.UUID  `json:"id"`
	Name                string     `json:"name"`
	Slug                string     `json:"slug"`
	Website             *string    `json:"website,omitempty"`
	AddressLine1        *string    `json:"address_line1,omitempty"`
	City                *string    `json:"city,omitempty"`
	Country             *string    `json:"country,omitempty"`
	PrimaryContactName  *string    `json:"primary_contact_name,omitempty"`
	PrimaryContactEmail *string    `json:"primary_contact_email,omitempty"`
	Timezone            string     `json:"timezone"`
	Status              string     `json:"status"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	CreatedBy           *uuid.UUID `json:"created_by,omitempty"`
}

type CreateOrganizationRequest struct {
	Name string `json:"name" binding:"required"`
	// Slug is generated internally from name, not exposed in the API
	Website             *string `json:"website"`
	AddressLine1        *string `json:"address_line1"`
	City                *string `json:"city"`
	Country             *string `json:"country"`
	PrimaryContactName  *string `json:"primary_contact_name"`
	PrimaryContactEmail *string `json:"primary_contact_email"`
	Timezone            *string `json:"timezone"`
}

type UpdateOrganizationRequest struct {
	Name                *string `json:"name"`
	Website             *string `json:"website"`
	AddressLine1        *string `json:"address_line1"`
	City                *string `json:"city"`
	Country             *string `json:"country"`
	PrimaryContactName  *string `json:"primary_contact_name"`
	PrimaryContactEmail *string `json:"primary_contact_email"`
	Timezone            *string `json:"timezone"`
	Status              *string `json:"status"`
}

// User models
type User struct {
	ID                  uuid.UUID  `json:"id"`
	OrgID               *uuid.UUID `json:"org_id,omitempty"`
	Email               string     `json:"email"`
	PasswordHash        string     `json:"-"` // Never return in JSON
	FirstName           *string    `json:"first_name,omitempty"`
	LastName            *string    `json:"last_name,omitempty"`
	FullName            string     `json:"full_name"`
	Phone               *string    `json:"phone,omitempty"`
	EmployeeID          *string    `json:"employee_id,omitempty"`
	Department          *string    `json:"department,omitempty"`
	JobTitle            *string    `json:"job_title,omitempty"`
	IsSuperAdmin        bool       `json:"is_super_admin"`
	Status              string     `json:"status"`
	LastLoginAt         *time.Time `json:"last_login_at,omitempty"`
	LastLoginIP         *string    `json:"last_login_ip,omitempty"`
	FailedLoginAttempts int        `json:"failed_login_attempts"`
	LockedUntil         *time.Time `json:"locked_until,omitempty"`
	Roles               []Role     `json:"roles,omitempty"` // Fetched separately
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
	DeletedAt           *time.Time `json:"deleted_at,omitempty"`
}

type CreateUserRequest struct {
	Email      string     `json:"email" binding:"required,email"`
	Password   string     `json:"password" binding:"required,min=8"`
	FirstName  *string    `json:"first_name"`
	LastName   *string    `json:"last_name"`
	Phone      *string    `json:"phone"`
	EmployeeID *string    `json:"employee_id"`
	Department *string    `json:"department"`
	JobTitle   *string    `json:"job_title"`
	OrgID      *uuid.UUID `json:"org_id,omitempty"`   // Super admin only
	RoleID     *uuid.UUID `json:"role_id,omitempty"`  // Optional role assignment on creation
	RoleName   *string    `json:"role_name,omitempty"`
}

type UpdateUserRequest struct {
	FirstName  *string `json:"first_name"`
	LastName   *string `json:"last_name"`
	Phone      *string `json:"phone"`
	EmployeeID *string `json:"employee_id"`
	Department *string `json:"department"`
	JobTitle   *string `json:"job_title"`
	Status     *string `json:"status"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type LoginResponse struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token"`
	TokenType    string       `json:"token_type"`
	ExpiresIn    int          `json:"expires_in"`
	User         *User        `json:"user"`
	Permissions  []Permission `json:"permissions,omitempty"`
}

// Role models
type Role struct {
	ID          uuid.UUID  `json:"id"`
	OrgID       *uuid.UUID `json:"org_id,omitempty"`
	Name        string     `json:"name"`
	Type        string     `json:"type"`
	Description *string    `json:"description,omitempty"`
	IsDefault   bool       `json:"is_default"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
	CreatedBy   *uuid.UUID `json:"created_by,omitempty"`
}

type CreateRoleRequest struct {
	Name          string      `json:"name" binding:"required"`
	Description   *string     `json:"description"`
	IsDefault     *bool       `json:"is_default"`
	OrgID         *uuid.UUID  `json:"org_id,omitempty"` // Super admin may target an org
	PermissionIDs []uuid.UUID `json:"permission_ids,omitempty"`
}

type UpdateRoleRequest struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	IsDefault   *bool   `json:"is_default"`
}

// Permission models
type Permission struct {
	ID          uuid.UUID `json:"id"`
	Resource    string    `json:"resource"`
	Action      string    `json:"action"`
	Description *string   `json:"description,omitempty"`
	IsSystem    bool      `json:"is_system"`
	CreatedAt   time.Time `json:"created_at"`
}

// UserRole models
type UserRole struct {
	UserID     uuid.UUID  `json:"user_id"`
	RoleID     uuid.UUID  `json:"role_id"`
	AssignedBy uuid.UUID  `json:"assigned_by"`
	AssignedAt time.Time  `json:"assigned_at"`
	ExpiresAt  *time.Time `json:"expires_at,omitempty"`
}

type AssignRoleRequest struct {
	RoleID    uuid.UUID  `json:"role_id" binding:"required"`
	ExpiresAt *time.Time `json:"expires_at,omitempty"`
}

// RefreshToken models
type RefreshToken struct {
	ID            uuid.UUID              `json:"id"`
	UserID        uuid.UUID              `json:"user_id"`
	TokenHash     string                 `json:"-"`
	DeviceInfo    map[string]interface{} `json:"device_info"`
	IPAddress     *string                `json:"ip_address,omitempty"`
	UserAgent     *string                `json:"user_agent,omitempty"`
	ExpiresAt     time.Time              `json:"expires_at"`
	CreatedAt     time.Time              `json:"created_at"`
	LastUsedAt    time.Time              `json:"last_used_at"`
	RevokedAt     *time.Time             `json:"revoked_at,omitempty"`
	RevokedBy     *uuid.UUID             `json:"revoked_by,omitempty"`
	RevokedReason *string                `json:"revoked_reason,omitempty"`
}

type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token"`
}

// AuditLog models
type AuditLog struct {
	ID           int64                  `json:"id"`
	UserID       *uuid.UUID             `json:"user_id,omitempty"`
	OrgID        *uuid.UUID             `json:"org_id,omitempty"`
	IPAddress    *string                `json:"ip_address,omitempty"`
	UserAgent    *string                `json:"user_agent,omitempty"`
	Action       string                 `json:"action"`
	ResourceType *string                `json:"resource_type,omitempty"`
	ResourceID   *string                `json:"resource_id,omitempty"`
	Status       string                 `json:"status"`
	Metadata     map[string]interface{} `json:"metadata"`
	ErrorMessage *string                `json:"error_message,omitempty"`
	CreatedAt    time.Time              `json:"created_at"`
}

// Common response models
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
	Code    string `json:"code,omitempty"`
}

type PaginationParams struct {
	Page  int `form:"page" binding:"min=1"`
	Limit int `form:"limit" binding:"min=1,max=100"`
}

type PaginatedResponse struct {
	Data       interface{} `json:"data"`
	Page       int         `json:"page"`
	Limit      int         `json:"limit"`
	Total      int64       `json:"total"`
	TotalPages int         `json:"total_pages"`
}
