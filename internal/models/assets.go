package models

import (
	"time"

	"github.com/google/uuid"
)

// Asset statuses
const (
	AssetStatusActive      = "active"
	AssetStatusInactive    = "inactive"
	AssetStatusMaintenance = "maintenance"
	AssetStatusRetired     = "retired"
	AssetStatusDisposed    = "disposed"
)

// Asset models
type Asset struct {
	ID             uuid.UUID  `json:"id"`
	OrgID          uuid.UUID  `json:"org_id"`
	AssetTag       string     `json:"asset_tag"`
	Name           string     `json:"name"`
	CategoryID     *uuid.UUID `json:"category_id,omitempty"`
	SerialNumber   *string    `json:"serial_number,omitempty"`
	Model          *string    `json:"model,omitempty"`
	Manufacturer   *string    `json:"manufacturer,omitempty"`
	Condition      *string    `json:"condition,omitempty"`
	VendorID       *uuid.UUID `json:"vendor_id,omitempty"`
	PurchaseDate   *time.Time `json:"purchase_date,omitempty"`
	PurchaseCost   *float64   `json:"purchase_cost,omitempty"`
	WarrantyExpiry *time.Time `json:"warranty_expiry,omitempty"`
	LocationID     *uuid.UUID `json:"location_id,omitempty"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id,omitempty"`
	Status         string     `json:"status"`
	Notes          *string    `json:"notes,omitempty"`
	CreatedAt      time.Time  `json:"created_at"`
	UpdatedAt      time.Time  `json:"updated_at"`
	// Joined fields for display
	CategoryName   *string `json:"category_name,omitempty"`
	LocationName   *string `json:"location_name,omitempty"`
	AssignedToName *string `json:"assigned_to_name,omitempty"`
}

type CreateAssetRequest struct {
	AssetTag       string     `json:"asset_tag" binding:"required"`
	Name           string     `json:"name" binding:"required"`
	CategoryID     *uuid.UUID `json:"category_id"`
	SerialNumber   *string    `json:"serial_number"`
	Model          *string    `json:"model"`
	Manufacturer   *string    `json:"manufacturer"`
	Condition      *string    `json:"condition"`
	VendorID       *uuid.UUID `json:"vendor_id"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	PurchaseCost   *float64   `json:"purchase_cost"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	LocationID     *uuid.UUID `json:"location_id"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id"`
	Status         *string    `json:"status" binding:"omitempty,oneof=active inactive maintenance retired disposed"`
	Notes          *string    `json:"notes"`
}

type UpdateAssetRequest struct {
	Name           *string    `json:"name"`
	CategoryID     *uuid.UUID `json:"category_id"`
	SerialNumber   *string    `json:"serial_number"`
	Model          *string    `json:"model"`
	Manufacturer   *string    `json:"manufacturer"`
	Condition      *string    `json:"condition"`
	VendorID       *uuid.UUID `json:"vendor_id"`
	PurchaseDate   *time.Time `json:"purchase_date"`
	PurchaseCost   *float64   `json:"purchase_cost"`
	WarrantyExpiry *time.Time `json:"warranty_expiry"`
	LocationID     *uuid.UUID `json:"location_id"`
	AssignedToID   *uuid.UUID `json:"assigned_to_id"`
	Status         *string    `json:"status" binding:"omitempty,oneof=active inactive maintenance retired disposed"`
	Notes          *string    `json:"notes"`
}

// AssetFilter narrows asset listings
type AssetFilter struct {
	Status     *string    `form:"status"`
	CategoryID *uuid.UUID `form:"category_id"`
	LocationID *uuid.UUID `form:"location_id"`
	Search     *string    `form:"search"` // Matches tag, name, serial number
}

// Maintenance types
const (
	MaintenanceTypePreventive = "preventive"
	MaintenanceTypeCorrective = "corrective"
	MaintenanceTypeEmergency  = "emergency"
)

// MaintenanceRecord models
type MaintenanceRecord struct {
	ID              uuid.UUID  `json:"id"`
	OrgID           uuid.UUID  `json:"org_id"`
	AssetID         uuid.UUID  `json:"asset_id"`
	MaintenanceType string     `json:"maintenance_type"`
	Description     string     `json:"description"`
	PerformedByID   *uuid.UUID `json:"performed_by_id,omitempty"`
	PerformedDate   time.Time  `json:"performed_date"`
	Cost            *float64   `json:"cost,omitempty"`
	VendorID        *uuid.UUID `json:"vendor_id,omitempty"`
	Notes           *string    `json:"notes,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	// Joined fields for display
	AssetName *string `json:"asset_name,omitempty"`
}

type CreateMaintenanceRecordRequest struct {
	AssetID         uuid.UUID  `json:"asset_id" binding:"required"`
	MaintenanceType string     `json:"maintenance_type" binding:"required,oneof=preventive corrective emergency"`
	Description     string     `json:"description" binding:"required"`
	PerformedByID   *uuid.UUID `json:"performed_by_id"`
	PerformedDate   *time.Time `json:"performed_date"`
	Cost            *float64   `json:"cost"`
	VendorID        *uuid.UUID `json:"vendor_id"`
	Notes           *string    `json:"notes"`
}

type UpdateMaintenanceRecordRequest struct {
	MaintenanceType *string    `json:"maintenance_type" binding:"omitempty,oneof=preventive corrective emergency"`
	Description     *string    `json:"description"`
	PerformedByID   *uuid.UUID `json:"performed_by_id"`
	PerformedDate   *time.Time `json:"performed_date"`
	Cost            *float64   `json:"cost"`
	VendorID        *uuid.UUID `json:"vendor_id"`
	Notes           *string    `json:"notes"`
}
