package services

import (
	"itms-api/config"
	"itms-api/internal/auth"
	"itms-api/internal/database"
	"itms-api/internal/repositories"
	"itms-api/pkg/memorydb"
)

// Services holds every service instance the API needs.
type Services struct {
	repos     *repositories.Repositories
	Health    *HealthService
	Auth      *AuthService
	Dashboard *DashboardService
	Mailer    *Mailer
	Scheduler *Scheduler
}

func NewServices(
	cfg *config.Config,
	db *database.DB,
	redis *memorydb.RedisClient,
	repos *repositories.Repositories,
	tokenService *auth.TokenService,
) *Services {
	health := NewHealthService(db, redis)

	return &Services{
		repos:     repos,
		Health:    health,
		Auth:      NewAuthService(repos.User, repos.RefreshToken, tokenService, cfg),
		Dashboard: NewDashboardService(repos, redis),
		Mailer:    NewMailer(cfg),
		Scheduler: NewScheduler(repos, health),
	}
}

// GetRepositories returns the repositories instance
func (s *Services) GetRepositories() *repositories.Repositories {
	return s.repos
}

// Close gracefully shuts down background work.
func (s *Services) Close() {
	if s.Scheduler != nil {
		s.Scheduler.Stop()
	}
}
