package models

import (
	"time"

	"github.com/google/uuid"
)

// Network device statuses
const (
	DeviceStatusOnline      = "online"
	DeviceStatusOffline     = "offline"
	DeviceStatusMaintenance = "maintenance"
	DeviceStatusWarning     = "warning"
	DeviceStatusCritical    = "critical"
)

// NetworkDevice models. Each device is backed by exactly one asset.
type NetworkDevice struct {
	ID              uuid.UUID  `json:"id"`
	OrgID           uuid.UUID  `json:"org_id"`
	AssetID         uuid.UUID  `json:"asset_id"`
	DeviceType      string     `json:"device_type"`
	IPAddress       *string    `json:"ip_address,omitempty"`
	MACAddress      *string    `json:"mac_address,omitempty"`
	SubnetMask      *string    `json:"subnet_mask,omitempty"`
	Gateway         *string    `json:"gateway,omitempty"`
	VLANID          *int       `json:"vlan_id,omitempty"`
	PortCount       *int       `json:"port_count,omitempty"`
	FirmwareVersion *string    `json:"firmware_version,omitempty"`
	Status          string     `json:"status"`
	LastPingAt      *time.Time `json:"last_ping_at,omitempty"`
	UptimeSeconds   *int64     `json:"uptime_seconds,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
	UpdatedAt       time.Time  `json:"updated_at"`
	// Joined fields for display
	AssetName *string `json:"asset_name,omitempty"`
}

type CreateNetworkDeviceRequest struct {
	AssetID         uuid.UUID `json:"asset_id" binding:"required"`
	DeviceType      string    `json:"device_type" binding:"required"`
	IPAddress       *string   `json:"ip_address"`
	MACAddress      *string   `json:"mac_address"`
	SubnetMask      *string   `json:"subnet_mask"`
	Gateway         *string   `json:"gateway"`
	VLANID          *int      `json:"vlan_id"`
	PortCount       *int      `json:"port_count"`
	FirmwareVersion *string   `json:"firmware_version"`
	Status          *string   `json:"status" binding:"omitempty,oneof=online offline maintenance warning critical"`
}

type UpdateNetworkDeviceRequest struct {
	DeviceType      *string    `json:"device_type"`
	IPAddress       *string    `json:"ip_address"`
	MACAddress      *string    `json:"mac_address"`
	SubnetMask      *string    `json:"subnet_mask"`
	Gateway         *string    `json:"gateway"`
	VLANID          *int       `json:"vlan_id"`
	PortCount       *int       `json:"port_count"`
	FirmwareVersion *string    `json:"firmware_version"`
	Status          *string    `json:"status" binding:"omitempty,oneof=online offline maintenance warning critical"`
	LastPingAt      *time.Time `json:"last_ping_at"`
	UptimeSeconds   *int64     `json:"uptime_seconds"`
}
