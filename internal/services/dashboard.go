package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"itms-api/internal/models"
	"itms-api/internal/repositories"
	"itms-api/pkg/memorydb"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
)

const dashboardCacheTTL = 60 * time.Second

// DashboardService aggregates org-wide counts, with a short Redis cache in
// front so the overview endpoint does not hammer the database.
type DashboardService struct {
	repos *repositories.Repositories
	redis *memorydb.RedisClient
}

func NewDashboardService(repos *repositories.Repositories, redis *memorydb.RedisClient) *DashboardService {
	return &DashboardService{repos: repos, redis: redis}
}

func dashboardCacheKey(orgID uuid.UUID) string {
	return fmt.Sprintf("dashboard:summary:%s", orgID)
}

func (s *DashboardService) Summary(ctx context.Context, orgID uuid.UUID) (*models.DashboardSummary, error) {
	if s.redis == nil {
		return s.build(ctx, orgID)
	}

	key := dashboardCacheKey(orgID)

	if cached, err := s.redis.Get(ctx, key); err == nil {
		summary := &models.DashboardSummary{}
		if err := json.Unmarshal([]byte(cached), summary); err == nil {
			return summary, nil
		}
	} else if !memorydb.IsNil(err) {
		log.Warn().Err(err).Msg("dashboard cache read failed")
	}

	summary, err := s.build(ctx, orgID)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(summary); err == nil {
		if err := s.redis.Set(ctx, key, data, dashboardCacheTTL); err != nil {
			log.Warn().Err(err).Msg("dashboard cache write failed")
		}
	}

	return summary, nil
}

func (s *DashboardService) build(ctx context.Context, orgID uuid.UUID) (*models.DashboardSummary, error) {
	assetsByStatus, err := s.repos.Asset.CountByStatus(ctx, orgID)
	if err != nil {
		return nil, err
	}

	ticketsByPriority, err := s.repos.Ticket.CountOpenByPriority(ctx, orgID)
	if err != nil {
		return nil, err
	}

	upcoming, err := s.repos.Reservation.CountUpcoming(ctx, orgID)
	if err != nil {
		return nil, err
	}

	expiring, err := s.repos.License.ListExpiringBefore(ctx, &orgID, time.Now().AddDate(0, 0, 30))
	if err != nil {
		return nil, err
	}

	atCapacity, err := s.repos.License.CountAtCapacity(ctx, orgID)
	if err != nil {
		return nil, err
	}

	activeIncidents, err := s.repos.Incident.CountActive(ctx, orgID)
	if err != nil {
		return nil, err
	}

	openVulnerabilities, err := s.repos.Vulnerability.CountOpen(ctx, orgID)
	if err != nil {
		return nil, err
	}

	successRate, err := s.repos.Backup.SuccessRate(ctx, orgID)
	if err != nil {
		return nil, err
	}

	return &models.DashboardSummary{
		AssetsByStatus:        assetsByStatus,
		OpenTicketsByPriority: ticketsByPriority,
		UpcomingReservations:  upcoming,
		LicensesNearExpiry:    int64(len(expiring)),
		LicensesAtCapacity:    atCapacity,
		ActiveIncidents:       activeIncidents,
		OpenVulnerabilities:   openVulnerabilities,
		BackupSuccessRate:     successRate,
	}, nil
}
