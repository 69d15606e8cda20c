package models

// DashboardSummary aggregates org-wide counts for the overview endpoint.
type DashboardSummary struct {
	AssetsByStatus        map[string]int64 `json:"assets_by_status"`
	OpenTicketsByPriority map[string]int64 `json:"open_tickets_by_priority"`
	UpcomingReservations  int64            `json:"upcoming_reservations"`
	LicensesNearExpiry    int64            `json:"licenses_near_expiry"`
	LicensesAtCapacity    int64            `json:"licenses_at_capacity"`
	ActiveIncidents       int64            `json:"active_incidents"`
	OpenVulnerabilities   int64            `json:"open_vulnerabilities"`
	BackupSuccessRate     float64          `json:"backup_success_rate"`
}
