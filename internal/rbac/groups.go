package rbac

// Resource names used in permissions and route guards.
const (
	ResourceUsers           = "users"
	ResourceRoles           = "roles"
	ResourceOrganizations   = "organizations"
	ResourceAssets          = "assets"
	ResourceCategories      = "asset_categories"
	ResourceLocations       = "locations"
	ResourceVendors         = "vendors"
	ResourceMaintenance     = "maintenance_records"
	ResourceLicenses        = "software_licenses"
	ResourceTickets         = "help_desk_tickets"
	ResourceReservations    = "reservations"
	ResourceIncidents       = "security_incidents"
	ResourceVulnerabilities = "vulnerability_assessments"
	ResourceNetwork         = "network_devices"
	ResourceBackups         = "backups"
	ResourceCompliance      = "compliance"
	ResourceAuditLogs       = "audit_logs"
	ResourceDashboard       = "dashboard"
)

const (
	ActionCreate = "create"
	ActionRead   = "read"
	ActionUpdate = "update"
	ActionDelete = "delete"
)

// Grant pairs a resource with the actions a group gets on it.
type Grant struct {
	Resource string
	Actions  []string
}

// Group is a seeded permission group. Groups are system roles shared across
// organizations.
type Group struct {
	Name        string
	Description string
	Grants      []Grant
}

func fullAccess(resources ...string) []Grant {
	grants := make([]Grant, len(resources))
	for i, res := range resources {
		grants[i] = Grant{Resource: res, Actions: []string{ActionCreate, ActionRead, ActionUpdate, ActionDelete}}
	}
	return grants
}

func readOnly(resources ...string) []Grant {
	grants := make([]Grant, len(resources))
	for i, res := range resources {
		grants[i] = Grant{Resource: res, Actions: []string{ActionRead}}
	}
	return grants
}

var allResources = []string{
	ResourceUsers, ResourceRoles, ResourceOrganizations,
	ResourceAssets, ResourceCategories, ResourceLocations, ResourceVendors,
	ResourceMaintenance, ResourceLicenses, ResourceTickets, ResourceReservations,
	ResourceIncidents, ResourceVulnerabilities, ResourceNetwork, ResourceBackups,
	ResourceCompliance, ResourceAuditLogs, ResourceDashboard,
}

// DefaultGroups is the full seeded group set. Seeding is additive and can be
// re-run at any time.
func DefaultGroups() []Group {
	return []Group{
		{
			Name:        "IT Administrators",
			Description: "Full access to every module",
			Grants:      fullAccess(allResources...),
		},
		{
			Name:        "Asset Managers",
			Description: "Manage the asset inventory, reference data, licensing and reservations",
			Grants: append(
				fullAccess(ResourceAssets, ResourceCategories, ResourceLocations,
					ResourceVendors, ResourceMaintenance, ResourceLicenses, ResourceReservations),
				readOnly(ResourceUsers, ResourceDashboard)...,
			),
		},
		{
			Name:        "Security Officers",
			Description: "Handle security incidents, vulnerabilities, compliance and audit review",
			Grants: append(
				fullAccess(ResourceIncidents, ResourceVulnerabilities, ResourceCompliance),
				readOnly(ResourceAssets, ResourceAuditLogs, ResourceDashboard)...,
			),
		},
		{
			Name:        "Network Engineers",
			Description: "Manage network devices and their backing assets",
			Grants: append(
				fullAccess(ResourceNetwork),
				readOnly(ResourceAssets, ResourceDashboard)...,
			),
		},
		{
			Name:        "Helpdesk Staff",
			Description: "Work the help desk queue",
			Grants: append(
				fullAccess(ResourceTickets),
				readOnly(ResourceAssets, ResourceUsers, ResourceDashboard)...,
			),
		},
		{
			Name:        "Backup Operators",
			Description: "Run backup policies and jobs",
			Grants: append(
				fullAccess(ResourceBackups),
				readOnly(ResourceAssets, ResourceDashboard)...,
			),
		},
		{
			Name:        "Report Viewers",
			Description: "Read-only access across all modules",
			Grants:      readOnly(allResources...),
		},
		{
			Name:        "End Users",
			Description: "Raise tickets and request reservations",
			// create depends on read and update, so those are granted too.
			Grants: []Grant{
				{Resource: ResourceTickets, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceReservations, Actions: []string{ActionCreate, ActionRead, ActionUpdate}},
				{Resource: ResourceAssets, Actions: []string{ActionRead}},
			},
		},
	}
}
