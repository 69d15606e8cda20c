package services

import (
	"context"
	"time"

	"itms-api/internal/repositories"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog/log"
)

const auditRetentionDays = 90

// Scheduler runs the periodic maintenance jobs: token cleanup, audit log
// retention, reservation completion and the license expiry scan.
type Scheduler struct {
	cron   *cron.Cron
	repos  *repositories.Repositories
	health *HealthService
}

func NewScheduler(repos *repositories.Repositories, health *HealthService) *Scheduler {
	return &Scheduler{
		cron:   cron.New(),
		repos:  repos,
		health: health,
	}
}

func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func(context.Context)
	}{
		{"@every 5m", "health_probe", s.probeHealth},
		{"@hourly", "refresh_token_cleanup", s.cleanupTokens},
		{"@every 10m", "reservation_completion", s.completeReservations},
		{"@daily", "audit_log_retention", s.purgeAuditLogs},
		{"@daily", "license_expiry_scan", s.scanExpiringLicenses},
	}

	for _, job := range jobs {
		job := job
		_, err := s.cron.AddFunc(job.spec, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
			defer cancel()
			job.run(ctx)
		})
		if err != nil {
			return err
		}
		log.Info().Str("job", job.name).Str("schedule", job.spec).Msg("scheduled job registered")
	}

	s.cron.Start()
	return nil
}

// Stop halts the cron loop and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) probeHealth(ctx context.Context) {
	if !s.health.Healthy(ctx) {
		log.Warn().Msg("health probe found unhealthy dependencies")
	}
}

func (s *Scheduler) cleanupTokens(ctx context.Context) {
	removed, err := s.repos.RefreshToken.CleanupExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("refresh token cleanup failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Msg("expired refresh tokens removed")
	}
}

func (s *Scheduler) completeReservations(ctx context.Context) {
	completed, err := s.repos.Reservation.CompleteExpired(ctx)
	if err != nil {
		log.Error().Err(err).Msg("reservation completion sweep failed")
		return
	}
	if completed > 0 {
		log.Info().Int64("completed", completed).Msg("past reservations marked completed")
	}
}

func (s *Scheduler) purgeAuditLogs(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, -auditRetentionDays)
	removed, err := s.repos.AuditLog.DeleteOlderThan(ctx, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("audit log purge failed")
		return
	}
	if removed > 0 {
		log.Info().Int64("removed", removed).Time("cutoff", cutoff).Msg("old audit logs purged")
	}
}

func (s *Scheduler) scanExpiringLicenses(ctx context.Context) {
	cutoff := time.Now().AddDate(0, 0, 30)
	expiring, err := s.repos.License.ListExpiringBefore(ctx, nil, cutoff)
	if err != nil {
		log.Error().Err(err).Msg("license expiry scan failed")
		return
	}

	for _, lic := range expiring {
		log.Warn().
			Str("license", lic.Name).
			Str("org_id", lic.OrgID.String()).
			Time("expiry", *lic.ExpiryDate).
			Msg("license expiring soon")
	}
}
