package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"itms-api/config"
	"itms-api/internal/auth"
	"itms-api/internal/database"
	"itms-api/internal/handlers"
	"itms-api/internal/middleware"
	"itms-api/internal/rbac"
	"itms-api/internal/repositories"
	"itms-api/internal/services"
	"itms-api/pkg/logger"
	"itms-api/pkg/memorydb"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

func main() {
	// Load .env file
	envPaths := []string{
		"../../.env", // From cmd/api/ to itms-api/.env
		".env",       // Current directory
	}

	envLoaded := false
	for _, path := range envPaths {
		if err := godotenv.Load(path); err == nil {
			envLoaded = true
			break
		}
	}

	cfg := config.Load()
	logger.Setup(cfg.App.Environment, cfg.App.LogLevel)

	if !envLoaded {
		log.Info().Msg("no .env file found, using environment variables")
	}

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	ctx := context.Background()

	var redisClient *memorydb.RedisClient
	if cfg.Redis.Addr != "" {
		redisClient, err = memorydb.NewRedisClient(ctx, cfg)
		if err != nil {
			log.Warn().Err(err).Msg("redis unavailable, dashboard caching disabled")
			redisClient = nil
		}
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	repos := repositories.NewRepositories(db)
	tokenService := auth.NewTokenService(cfg)

	svcs := services.NewServices(cfg, db, redisClient, repos, tokenService)
	defer svcs.Close()

	authMW := middleware.NewAuthMiddleware(tokenService)
	permMW := middleware.NewPermissionMiddleware(repos.User)
	auditMW := middleware.NewAuditMiddleware(repos.AuditLog)

	h := handlers.NewHandlers(svcs, authMW)

	router := setupRouter(cfg, h, authMW, permMW, auditMW)

	if err := svcs.Scheduler.Start(); err != nil {
		log.Fatal().Err(err).Msg("failed to start scheduler")
	}

	srv := &http.Server{
		Addr:         fmt.Sprintf("%s:%s", cfg.Server.Host, cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeout) * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info().Msg("shutting down server")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}

func setupRouter(
	cfg *config.Config,
	h *handlers.Handlers,
	authMW *middleware.AuthMiddleware,
	permMW *middleware.PermissionMiddleware,
	auditMW *middleware.AuditMiddleware,
) *gin.Engine {
	if cfg.App.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	router.Use(middleware.RequestLogger())
	router.Use(gin.Recovery())
	router.Use(middleware.CORSMiddleware())
	router.Use(middleware.ErrorMiddleware())

	router.GET("/health", h.Health.Live)
	router.GET("/health/ready", h.Health.Check)

	v1 := router.Group("/api/v1")
	{
		authRoutes := v1.Group("/auth")
		{
			authRoutes.POST("/login", h.Auth.Login)
			authRoutes.POST("/refresh", h.Auth.RefreshToken)
			authRoutes.POST("/logout", authMW.RequireAuth(), h.Auth.Logout)
			authRoutes.GET("/me", authMW.RequireAuth(), h.Auth.Me)
		}

		protected := v1.Group("")
		protected.Use(authMW.RequireAuth())
		{
			users := protected.Group("/users")
			users.Use(auditMW.Record(rbac.ResourceUsers))
			{
				users.POST("", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionCreate), h.User.Create)
				users.GET("", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionRead), h.User.List)
				users.GET("/:id", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionRead), h.User.Get)
				users.PUT("/:id", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionUpdate), h.User.Update)
				users.DELETE("/:id", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionDelete), h.User.Delete)
				users.POST("/:id/roles", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionUpdate), h.User.AssignRole)
				users.DELETE("/:id/roles/:role_id", permMW.RequirePermission(rbac.ResourceUsers, rbac.ActionUpdate), h.User.RemoveRole)
			}

			orgs := protected.Group("/organizations")
			orgs.Use(auditMW.Record(rbac.ResourceOrganizations))
			{
				orgs.POST("", authMW.RequireSuperAdmin(), h.Organization.Create)
				orgs.GET("", authMW.RequireSuperAdmin(), h.Organization.List)
				orgs.GET("/:id", permMW.RequirePermission(rbac.ResourceOrganizations, rbac.ActionRead), h.Organization.Get)
				orgs.PUT("/:id", permMW.RequirePermission(rbac.ResourceOrganizations, rbac.ActionUpdate), h.Organization.Update)
				orgs.DELETE("/:id", authMW.RequireSuperAdmin(), h.Organization.Delete)
			}

			roles := protected.Group("/roles")
			roles.Use(auditMW.Record(rbac.ResourceRoles))
			{
				roles.POST("", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionCreate), h.Role.Create)
				roles.GET("", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionRead), h.Role.List)
				roles.GET("/:id", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionRead), h.Role.Get)
				roles.PUT("/:id", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionUpdate), h.Role.Update)
				roles.DELETE("/:id", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionDelete), h.Role.Delete)
				roles.POST("/:id/permissions", permMW.RequirePermission(rbac.ResourceRoles, rbac.ActionUpdate), h.Role.AssignPermissions)
			}

			protected.GET("/permissions", h.Permission.List)

			auditLogs := protected.Group("/audit-logs")
			{
				auditLogs.GET("", permMW.RequirePermission(rbac.ResourceAuditLogs, rbac.ActionRead), h.AuditLog.List)
				auditLogs.GET("/:id", permMW.RequirePermission(rbac.ResourceAuditLogs, rbac.ActionRead), h.AuditLog.Get)
			}

			categories := protected.Group("/categories")
			categories.Use(auditMW.Record(rbac.ResourceCategories))
			{
				categories.POST("", permMW.RequirePermission(rbac.ResourceCategories, rbac.ActionCreate), h.Catalog.CreateCategory)
				categories.GET("", permMW.RequirePermission(rbac.ResourceCategories, rbac.ActionRead), h.Catalog.ListCategories)
				categories.GET("/:id", permMW.RequirePermission(rbac.ResourceCategories, rbac.ActionRead), h.Catalog.GetCategory)
				categories.PUT("/:id", permMW.RequirePermission(rbac.ResourceCategories, rbac.ActionUpdate), h.Catalog.UpdateCategory)
				categories.DELETE("/:id", permMW.RequirePermission(rbac.ResourceCategories, rbac.ActionDelete), h.Catalog.DeleteCategory)
			}

			locations := protected.Group("/locations")
			locations.Use(auditMW.Record(rbac.ResourceLocations))
			{
				locations.POST("", permMW.RequirePermission(rbac.ResourceLocations, rbac.ActionCreate), h.Catalog.CreateLocation)
				locations.GET("", permMW.RequirePermission(rbac.ResourceLocations, rbac.ActionRead), h.Catalog.ListLocations)
				locations.GET("/:id", permMW.RequirePermission(rbac.ResourceLocations, rbac.ActionRead), h.Catalog.GetLocation)
				locations.PUT("/:id", permMW.RequirePermission(rbac.ResourceLocations, rbac.ActionUpdate), h.Catalog.UpdateLocation)
				locations.DELETE("/:id", permMW.RequirePermission(rbac.ResourceLocations, rbac.ActionDelete), h.Catalog.DeleteLocation)
			}

			vendors := protected.Group("/vendors")
			vendors.Use(auditMW.Record(rbac.ResourceVendors))
			{
				vendors.POST("", permMW.RequirePermission(rbac.ResourceVendors, rbac.ActionCreate), h.Catalog.CreateVendor)
				vendors.GET("", permMW.RequirePermission(rbac.ResourceVendors, rbac.ActionRead), h.Catalog.ListVendors)
				vendors.GET("/:id", permMW.RequirePermission(rbac.ResourceVendors, rbac.ActionRead), h.Catalog.GetVendor)
				vendors.PUT("/:id", permMW.RequirePermission(rbac.ResourceVendors, rbac.ActionUpdate), h.Catalog.UpdateVendor)
				vendors.DELETE("/:id", permMW.RequirePermission(rbac.ResourceVendors, rbac.ActionDelete), h.Catalog.DeleteVendor)
			}

			assets := protected.Group("/assets")
			assets.Use(auditMW.Record(rbac.ResourceAssets))
			{
				assets.POST("", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionCreate), h.Asset.Create)
				assets.GET("", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionRead), h.Asset.List)
				assets.GET("/:id", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionRead), h.Asset.Get)
				assets.PUT("/:id", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionUpdate), h.Asset.Update)
				assets.PUT("/:id/status", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionUpdate), h.Asset.UpdateStatus)
				assets.DELETE("/:id", permMW.RequirePermission(rbac.ResourceAssets, rbac.ActionDelete), h.Asset.Delete)
				assets.GET("/:id/network-device", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionRead), h.Network.GetByAsset)
			}

			maintenance := protected.Group("/maintenance-records")
			maintenance.Use(auditMW.Record(rbac.ResourceMaintenance))
			{
				maintenance.POST("", permMW.RequirePermission(rbac.ResourceMaintenance, rbac.ActionCreate), h.Maintenance.Create)
				maintenance.GET("", permMW.RequirePermission(rbac.ResourceMaintenance, rbac.ActionRead), h.Maintenance.List)
				maintenance.GET("/:id", permMW.RequirePermission(rbac.ResourceMaintenance, rbac.ActionRead), h.Maintenance.Get)
				maintenance.PUT("/:id", permMW.RequirePermission(rbac.ResourceMaintenance, rbac.ActionUpdate), h.Maintenance.Update)
				maintenance.DELETE("/:id", permMW.RequirePermission(rbac.ResourceMaintenance, rbac.ActionDelete), h.Maintenance.Delete)
			}

			licenses := protected.Group("/licenses")
			licenses.Use(auditMW.Record(rbac.ResourceLicenses))
			{
				licenses.POST("", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionCreate), h.License.Create)
				licenses.GET("", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionRead), h.License.List)
				licenses.GET("/:id", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionRead), h.License.Get)
				licenses.PUT("/:id", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionUpdate), h.License.Update)
				licenses.DELETE("/:id", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionDelete), h.License.Delete)
				licenses.GET("/:id/installations", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionRead), h.License.ListInstallations)
				licenses.POST("/:id/installations", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionUpdate), h.License.Install)
				licenses.DELETE("/:id/installations/:installation_id", permMW.RequirePermission(rbac.ResourceLicenses, rbac.ActionUpdate), h.License.Uninstall)
			}

			tickets := protected.Group("/tickets")
			tickets.Use(auditMW.Record(rbac.ResourceTickets))
			{
				tickets.POST("", permMW.RequirePermission(rbac.ResourceTickets, rbac.ActionCreate), h.Ticket.Create)
				tickets.GET("", permMW.RequirePermission(rbac.ResourceTickets, rbac.ActionRead), h.Ticket.List)
				tickets.GET("/:id", permMW.RequirePermission(rbac.ResourceTickets, rbac.ActionRead), h.Ticket.Get)
				tickets.PUT("/:id", permMW.RequirePermission(rbac.ResourceTickets, rbac.ActionUpdate), h.Ticket.Update)
				tickets.DELETE("/:id", permMW.RequirePermission(rbac.ResourceTickets, rbac.ActionDelete), h.Ticket.Delete)
			}

			reservations := protected.Group("/reservations")
			reservations.Use(auditMW.Record(rbac.ResourceReservations))
			{
				reservations.POST("", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionCreate), h.Reservation.Create)
				reservations.GET("", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionRead), h.Reservation.List)
				reservations.GET("/:id", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionRead), h.Reservation.Get)
				reservations.PUT("/:id", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionUpdate), h.Reservation.Update)
				reservations.POST("/:id/approve", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionUpdate), h.Reservation.Approve)
				reservations.POST("/:id/reject", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionUpdate), h.Reservation.Reject)
				reservations.POST("/:id/cancel", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionUpdate), h.Reservation.Cancel)
				reservations.DELETE("/:id", permMW.RequirePermission(rbac.ResourceReservations, rbac.ActionDelete), h.Reservation.Delete)
			}

			incidents := protected.Group("/security-incidents")
			incidents.Use(auditMW.Record(rbac.ResourceIncidents))
			{
				incidents.POST("", permMW.RequirePermission(rbac.ResourceIncidents, rbac.ActionCreate), h.Incident.Create)
				incidents.GET("", permMW.RequirePermission(rbac.ResourceIncidents, rbac.ActionRead), h.Incident.List)
				incidents.GET("/:id", permMW.RequirePermission(rbac.ResourceIncidents, rbac.ActionRead), h.Incident.Get)
				incidents.PUT("/:id", permMW.RequirePermission(rbac.ResourceIncidents, rbac.ActionUpdate), h.Incident.Update)
				incidents.DELETE("/:id", permMW.RequirePermission(rbac.ResourceIncidents, rbac.ActionDelete), h.Incident.Delete)
			}

			vulnerabilities := protected.Group("/vulnerability-assessments")
			vulnerabilities.Use(auditMW.Record(rbac.ResourceVulnerabilities))
			{
				vulnerabilities.POST("", permMW.RequirePermission(rbac.ResourceVulnerabilities, rbac.ActionCreate), h.Vulnerability.Create)
				vulnerabilities.GET("", permMW.RequirePermission(rbac.ResourceVulnerabilities, rbac.ActionRead), h.Vulnerability.List)
				vulnerabilities.GET("/:id", permMW.RequirePermission(rbac.ResourceVulnerabilities, rbac.ActionRead), h.Vulnerability.Get)
				vulnerabilities.PUT("/:id", permMW.RequirePermission(rbac.ResourceVulnerabilities, rbac.ActionUpdate), h.Vulnerability.Update)
				vulnerabilities.DELETE("/:id", permMW.RequirePermission(rbac.ResourceVulnerabilities, rbac.ActionDelete), h.Vulnerability.Delete)
			}

			network := protected.Group("/network-devices")
			network.Use(auditMW.Record(rbac.ResourceNetwork))
			{
				network.POST("", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionCreate), h.Network.Create)
				network.GET("", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionRead), h.Network.List)
				network.GET("/:id", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionRead), h.Network.Get)
				network.PUT("/:id", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionUpdate), h.Network.Update)
				network.POST("/:id/ping", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionUpdate), h.Network.RecordPing)
				network.DELETE("/:id", permMW.RequirePermission(rbac.ResourceNetwork, rbac.ActionDelete), h.Network.Delete)
			}

			backupPolicies := protected.Group("/backup-policies")
			backupPolicies.Use(auditMW.Record(rbac.ResourceBackups))
			{
				backupPolicies.POST("", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionCreate), h.Backup.CreatePolicy)
				backupPolicies.GET("", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionRead), h.Backup.ListPolicies)
				backupPolicies.GET("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionRead), h.Backup.GetPolicy)
				backupPolicies.PUT("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionUpdate), h.Backup.UpdatePolicy)
				backupPolicies.DELETE("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionDelete), h.Backup.DeletePolicy)
			}

			backupJobs := protected.Group("/backup-jobs")
			backupJobs.Use(auditMW.Record(rbac.ResourceBackups))
			{
				backupJobs.POST("", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionCreate), h.Backup.CreateJob)
				backupJobs.GET("", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionRead), h.Backup.ListJobs)
				backupJobs.GET("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionRead), h.Backup.GetJob)
				backupJobs.PUT("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionUpdate), h.Backup.UpdateJob)
				backupJobs.DELETE("/:id", permMW.RequirePermission(rbac.ResourceBackups, rbac.ActionDelete), h.Backup.DeleteJob)
			}

			frameworks := protected.Group("/compliance-frameworks")
			frameworks.Use(auditMW.Record(rbac.ResourceCompliance))
			{
				frameworks.POST("", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionCreate), h.Compliance.CreateFramework)
				frameworks.GET("", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionRead), h.Compliance.ListFrameworks)
				frameworks.GET("/:id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionRead), h.Compliance.GetFramework)
				frameworks.PUT("/:id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionUpdate), h.Compliance.UpdateFramework)
				frameworks.DELETE("/:id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionDelete), h.Compliance.DeleteFramework)
				frameworks.POST("/:id/requirements", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionCreate), h.Compliance.CreateRequirement)
				frameworks.GET("/:id/requirements", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionRead), h.Compliance.ListRequirements)
				frameworks.GET("/:id/requirements/:requirement_id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionRead), h.Compliance.GetRequirement)
				frameworks.PUT("/:id/requirements/:requirement_id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionUpdate), h.Compliance.UpdateRequirement)
				frameworks.DELETE("/:id/requirements/:requirement_id", permMW.RequirePermission(rbac.ResourceCompliance, rbac.ActionDelete), h.Compliance.DeleteRequirement)
			}

			protected.GET("/dashboard", permMW.RequirePermission(rbac.ResourceDashboard, rbac.ActionRead), h.Dashboard.Summary)
		}

		admin := v1.Group("/admin")
		admin.Use(authMW.RequireAuth())
		admin.Use(authMW.RequireSuperAdmin())
		{
			admin.GET("/users", h.User.List)
			admin.GET("/organizations", h.Organization.List)
			admin.GET("/audit-logs", h.AuditLog.List)
		}
	}

	return router
}
