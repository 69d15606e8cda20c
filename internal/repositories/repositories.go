package repositories

import (
	"itms-api/internal/database"
)

// Repositories holds all repository instances
type Repositories struct {
	User          *UserRepository
	Organization  *OrganizationRepository
	Role          *RoleRepository
	Permission    *PermissionRepository
	RefreshToken  *RefreshTokenRepository
	AuditLog      *AuditLogRepository
	Catalog       *CatalogRepository
	Asset         *AssetRepository
	Maintenance   *MaintenanceRepository
	License       *LicenseRepository
	Ticket        *TicketRepository
	Reservation   *ReservationRepository
	Incident      *IncidentRepository
	Vulnerability *VulnerabilityRepository
	Network       *NetworkRepository
	Backup        *BackupRepository
	Compliance    *ComplianceRepository
}

// NewRepositories creates and returns all repository instances
func NewRepositories(db *database.DB) *Repositories {
	return &Repositories{
		User:          NewUserRepository(db),
		Organization:  NewOrganizationRepository(db),
		Role:          NewRoleRepository(db),
		Permission:    NewPermissionRepository(db),
		RefreshToken:  NewRefreshTokenRepository(db),
		AuditLog:      NewAuditLogRepository(db),
		Catalog:       NewCatalogRepository(db),
		Asset:         NewAssetRepository(db),
		Maintenance:   NewMaintenanceRepository(db),
		License:       NewLicenseRepository(db),
		Ticket:        NewTicketRepository(db),
		Reservation:   NewReservationRepository(db),
		Incident:      NewIncidentRepository(db),
		Vulnerability: NewVulnerabilityRepository(db),
		Network:       NewNetworkRepository(db),
		Backup:        NewBackupRepository(db),
		Compliance:    NewComplianceRepository(db),
	}
}
