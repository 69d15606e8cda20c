package models

import (
	"time"

	"github.com/google/uuid"
)

// License types
const (
	LicenseTypePerpetual    = "perpetual"
	LicenseTypeSubscription = "subscription"
	LicenseTypeVolume       = "volume"
	LicenseTypeOEM          = "oem"
	LicenseTypeTrial        = "trial"
)

// SoftwareLicense models
type SoftwareLicense struct {
	ID                   uuid.UUID  `json:"id"`
	OrgID                uuid.UUID  `json:"org_id"`
	Name                 string     `json:"name"`
	Version              *string    `json:"version,omitempty"`
	VendorID             *uuid.UUID `json:"vendor_id,omitempty"`
	LicenseKey           *string    `json:"license_key,omitempty"`
	LicenseType          string     `json:"license_type"`
	PurchaseDate         *time.Time `json:"purchase_date,omitempty"`
	ExpiryDate           *time.Time `json:"expiry_date,omitempty"`
	Cost                 *float64   `json:"cost,omitempty"`
	MaxInstallations     int        `json:"max_installations"`
	CurrentInstallations int        `json:"current_installations"`
	Notes                *string    `json:"notes,omitempty"`
	CreatedAt            time.Time  `json:"created_at"`
	UpdatedAt            time.Time  `json:"updated_at"`
}

// AvailableInstallations returns the number of seats still free.
func (l *SoftwareLicense) AvailableInstallations() int {
	return l.MaxInstallations - l.CurrentInstallations
}

type CreateSoftwareLicenseRequest struct {
	Name             string     `json:"name" binding:"required"`
	Version          *string    `json:"version"`
	VendorID         *uuid.UUID `json:"vendor_id"`
	LicenseKey       *string    `json:"license_key"`
	LicenseType      string     `json:"license_type" binding:"required,oneof=perpetual subscription volume oem trial"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Cost             *float64   `json:"cost"`
	MaxInstallations int        `json:"max_installations" binding:"required,min=1"`
	Notes            *string    `json:"notes"`
}

type UpdateSoftwareLicenseRequest struct {
	Name             *string    `json:"name"`
	Version          *string    `json:"version"`
	VendorID         *uuid.UUID `json:"vendor_id"`
	LicenseKey       *string    `json:"license_key"`
	LicenseType      *string    `json:"license_type" binding:"omitempty,oneof=perpetual subscription volume oem trial"`
	PurchaseDate     *time.Time `json:"purchase_date"`
	ExpiryDate       *time.Time `json:"expiry_date"`
	Cost             *float64   `json:"cost"`
	MaxInstallations *int       `json:"max_installations" binding:"omitempty,min=1"`
	Notes            *string    `json:"notes"`
}

// SoftwareInstallation models
type SoftwareInstallation struct {
	ID            uuid.UUID  `json:"id"`
	LicenseID     uuid.UUID  `json:"license_id"`
	AssetID       uuid.UUID  `json:"asset_id"`
	InstalledByID *uuid.UUID `json:"installed_by_id,omitempty"`
	InstalledAt   time.Time  `json:"installed_at"`
	Notes         *string    `json:"notes,omitempty"`
	// Joined fields for display
	AssetName   *string `json:"asset_name,omitempty"`
	LicenseName *string `json:"license_name,omitempty"`
}

type CreateInstallationRequest struct {
	AssetID uuid.UUID `json:"asset_id" binding:"required"`
	Notes   *string   `json:"notes"`
}
