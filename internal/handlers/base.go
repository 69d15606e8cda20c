package handlers

import (
	"itms-api/internal/middleware"
	"itms-api/internal/services"
)

// Handlers holds all handler instances
type Handlers struct {
	Auth          *AuthHandler
	User          *UserHandler
	Role          *RoleHandler
	Permission    *PermissionHandler
	Organization  *OrganizationHandler
	AuditLog      *AuditLogHandler
	Catalog       *CatalogHandler
	Asset         *AssetHandler
	Maintenance   *MaintenanceHandler
	License       *LicenseHandler
	Ticket        *TicketHandler
	Reservation   *ReservationHandler
	Incident      *IncidentHandler
	Vulnerability *VulnerabilityHandler
	Network       *NetworkHandler
	Backup        *BackupHandler
	Compliance    *ComplianceHandler
	Dashboard     *DashboardHandler
	Health        *HealthHandler
}

// NewHandlers creates and returns all handler instances
func NewHandlers(svcs *services.Services, authMW *middleware.AuthMiddleware) *Handlers {
	repos := svcs.GetRepositories()

	return &Handlers{
		Auth:          NewAuthHandler(svcs.Auth, authMW, repos.User, repos.Organization),
		User:          NewUserHandler(repos.User, repos.Role, repos.Organization),
		Role:          NewRoleHandler(repos.Role),
		Permission:    NewPermissionHandler(repos.Permission),
		Organization:  NewOrganizationHandler(repos.Organization),
		AuditLog:      NewAuditLogHandler(repos.AuditLog),
		Catalog:       NewCatalogHandler(repos.Catalog),
		Asset:         NewAssetHandler(repos.Asset),
		Maintenance:   NewMaintenanceHandler(repos.Maintenance),
		License:       NewLicenseHandler(repos.License),
		Ticket:        NewTicketHandler(repos.Ticket, repos.User, svcs.Mailer),
		Reservation:   NewReservationHandler(repos.Reservation, repos.User, svcs.Mailer),
		Incident:      NewIncidentHandler(repos.Incident),
		Vulnerability: NewVulnerabilityHandler(repos.Vulnerability),
		Network:       NewNetworkHandler(repos.Network),
		Backup:        NewBackupHandler(repos.Backup),
		Compliance:    NewComplianceHandler(repos.Compliance),
		Dashboard:     NewDashboardHandler(svcs.Dashboard),
		Health:        NewHealthHandler(svcs.Health),
	}
}
