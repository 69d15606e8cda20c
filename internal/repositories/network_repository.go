package repositories

import (
	"context"
	"time"

	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/pkg/errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

type NetworkRepository struct {
	db *database.DB
}

func NewNetworkRepository(db *database.DB) *NetworkRepository {
	return &NetworkRepository{db: db}
}

const networkDeviceSelect = `
	SELECT d.id, d.org_id, d.asset_id, d.device_type,
		d.ip_address::TEXT, d.mac_address, d.subnet_mask, d.gateway,
		d.vlan_id, d.port_count, d.firmware_version, d.status,
		d.last_ping_at, d.uptime_seconds, d.created_at, d.updated_at,
		a.name AS asset_name
	FROM network_devices d
	LEFT JOIN assets a ON d.asset_id = a.id`

func scanNetworkDevice(row pgx.Row) (*models.NetworkDevice, error) {
	dev := &models.NetworkDevice{}
	err := row.Scan(
		&dev.ID, &dev.OrgID, &dev.AssetID, &dev.DeviceType,
		&dev.IPAddress, &dev.MACAddress, &dev.SubnetMask, &dev.Gateway,
		&dev.VLANID, &dev.PortCount, &dev.FirmwareVersion, &dev.Status,
		&dev.LastPingAt, &dev.UptimeSeconds, &dev.CreatedAt, &dev.UpdatedAt,
		&dev.AssetName,
	)
	return dev, err
}

func (r *NetworkRepository) Create(ctx context.Context, orgID uuid.UUID, dev *models.NetworkDevice) error {
	query := `
		INSERT INTO network_devices (
			id, org_id, asset_id, device_type, ip_address, mac_address,
			subnet_mask, gateway, vlan_id, port_count, firmware_version, status
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
		RETURNING created_at, updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		dev.ID, orgID, dev.AssetID, dev.DeviceType, dev.IPAddress, dev.MACAddress,
		dev.SubnetMask, dev.Gateway, dev.VLANID, dev.PortCount,
		dev.FirmwareVersion, dev.Status,
	).Scan(&dev.CreatedAt, &dev.UpdatedAt)

	if err != nil {
		if isForeignKeyViolation(err) {
			return errors.WrapError(err, errors.ErrBadRequest.Code, "Asset does not exist", errors.ErrBadRequest.Status)
		}
		// Both the one-device-per-asset rule and the per-org IP uniqueness
		// land here.
		return conflictOn(err, "Asset already has a network device or IP address is in use", "Failed to create network device")
	}

	dev.OrgID = orgID
	return nil
}

func (r *NetworkRepository) GetByID(ctx context.Context, orgID, id uuid.UUID) (*models.NetworkDevice, error) {
	query := networkDeviceSelect + ` WHERE d.id = $1 AND d.org_id = $2`

	dev, err := scanNetworkDevice(r.db.Pool.QueryRow(ctx, query, id, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get network device", errors.ErrInternalServer.Status)
	}

	return dev, nil
}

func (r *NetworkRepository) GetByAssetID(ctx context.Context, orgID, assetID uuid.UUID) (*models.NetworkDevice, error) {
	query := networkDeviceSelect + ` WHERE d.asset_id = $1 AND d.org_id = $2`

	dev, err := scanNetworkDevice(r.db.Pool.QueryRow(ctx, query, assetID, orgID))
	if err == pgx.ErrNoRows {
		return nil, errors.ErrNotFound
	}
	if err != nil {
		return nil, errors.WrapError(err, "INTERNAL_ERROR", "Failed to get network device", errors.ErrInternalServer.Status)
	}

	return dev, nil
}

func (r *NetworkRepository) List(ctx context.Context, orgID uuid.UUID, page, limit int) ([]*models.NetworkDevice, int64, error) {
	var total int64
	if err := r.db.Pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM network_devices WHERE org_id = $1`, orgID).Scan(&total); err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to count network devices", errors.ErrInternalServer.Status)
	}

	query := networkDeviceSelect + ` WHERE d.org_id = $1 ORDER BY d.created_at DESC LIMIT $2 OFFSET $3`

	rows, err := r.db.Pool.Query(ctx, query, orgID, limit, (page-1)*limit)
	if err != nil {
		return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to list network devices", errors.ErrInternalServer.Status)
	}
	defer rows.Close()

	devices := make([]*models.NetworkDevice, 0)
	for rows.Next() {
		dev, err := scanNetworkDevice(rows)
		if err != nil {
			return nil, 0, errors.WrapError(err, "INTERNAL_ERROR", "Failed to scan network device", errors.ErrInternalServer.Status)
		}
		devices = append(devices, dev)
	}

	return devices, total, nil
}

func (r *NetworkRepository) Update(ctx context.Context, orgID uuid.UUID, dev *models.NetworkDevice) error {
	query := `
		UPDATE network_devices
		SET device_type = COALESCE(NULLIF($1, ''), device_type),
			ip_address = COALESCE($2, ip_address),
			mac_address = COALESCE($3, mac_address),
			subnet_mask = COALESCE($4, subnet_mask),
			gateway = COALESCE($5, gateway),
			vlan_id = COALESCE($6, vlan_id),
			port_count = COALESCE($7, port_count),
			firmware_version = COALESCE($8, firmware_version),
			status = COALESCE(NULLIF($9, ''), status),
			last_ping_at = COALESCE($10, last_ping_at),
			uptime_seconds = COALESCE($11, uptime_seconds),
			updated_at = NOW()
		WHERE id = $12 AND org_id = $13
		RETURNING updated_at
	`

	err := r.db.Pool.QueryRow(ctx, query,
		dev.DeviceType, dev.IPAddress, dev.MACAddress, dev.SubnetMask,
		dev.Gateway, dev.VLANID, dev.PortCount, dev.FirmwareVersion,
		dev.Status, dev.LastPingAt, dev.UptimeSeconds, dev.ID, orgID,
	).Scan(&dev.UpdatedAt)

	if err == pgx.ErrNoRows {
		return errors.ErrNotFound
	}
	if err != nil {
		return conflictOn(err, "IP address is already in use", "Failed to update network device")
	}

	return nil
}

// RecordPing updates the liveness fields without touching configuration.
func (r *NetworkRepository) RecordPing(ctx context.Context, orgID, id uuid.UUID, status string, pingedAt time.Time, uptimeSeconds *int64) error {
	query := `
		UPDATE network_devices
		SET status = $1, last_ping_at = $2,
			uptime_seconds = COALESCE($3, uptime_seconds),
			updated_at = NOW()
		WHERE id = $4 AND org_id = $5
	`

	result, err := r.db.Pool.Exec(ctx, query, status, pingedAt, uptimeSeconds, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to record ping", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}

func (r *NetworkRepository) Delete(ctx context.Context, orgID, id uuid.UUID) error {
	result, err := r.db.Pool.Exec(ctx,
		`DELETE FROM network_devices WHERE id = $1 AND org_id = $2`, id, orgID)
	if err != nil {
		return errors.WrapError(err, "INTERNAL_ERROR", "Failed to delete network device", errors.ErrInternalServer.Status)
	}
	if result.RowsAffected() == 0 {
		return errors.ErrNotFound
	}
	return nil
}
