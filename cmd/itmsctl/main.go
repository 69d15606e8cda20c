package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"itms-api/config"
	"itms-api/internal/database"
	"itms-api/internal/models"
	"itms-api/internal/rbac"
	"itms-api/internal/repositories"
	"itms-api/pkg/logger"
	"itms-api/pkg/utils"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

// itmsctl runs administrative tasks against the database directly,
// bypassing the API. Used during deployment and initial setup.
func main() {
	logger.Setup("development", "info")

	if len(os.Args) < 2 {
		usage()
		os.Exit(2)
	}

	_ = godotenv.Load(".env")
	cfg := config.Load()

	db, err := database.NewDB(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	repos := repositories.NewRepositories(db)
	ctx := context.Background()

	switch os.Args[1] {
	case "setup-permissions":
		runSetupPermissions(ctx, repos)
	case "create-superuser":
		runCreateSuperuser(ctx, repos, os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		usage()
		os.Exit(2)
	}
}

func usage() {
	fmt.Fprintln(os.Stderr, `usage: itmsctl <command> [flags]

commands:
  setup-permissions    seed the default permission groups (safe to re-run)
  create-superuser     create a super admin account
                         -email, -password, -name`)
}

func runSetupPermissions(ctx context.Context, repos *repositories.Repositories) {
	seeder := rbac.NewSeeder(repos.Permission, repos.Role)
	if err := seeder.Seed(ctx); err != nil {
		log.Fatal().Err(err).Msg("permission seeding failed")
	}
	log.Info().Msg("permission groups seeded")
}

func runCreateSuperuser(ctx context.Context, repos *repositories.Repositories, args []string) {
	fs := flag.NewFlagSet("create-superuser", flag.ExitOnError)
	email := fs.String("email", "", "login email (required)")
	password := fs.String("password", "", "password (required, min 8 chars)")
	name := fs.String("name", "Administrator", "display name")
	fs.Parse(args)

	if *email == "" || len(*password) < 8 {
		fs.Usage()
		os.Exit(2)
	}

	if existing, err := repos.User.GetByEmail(ctx, *email); err == nil && existing != nil {
		log.Fatal().Str("email", *email).Msg("user already exists")
	}

	hash, err := utils.HashPassword(*password)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to hash password")
	}

	user := &models.User{
		ID:           uuid.New(),
		Email:        *email,
		PasswordHash: hash,
		FullName:     *name,
		IsSuperAdmin: true,
		Status:       "active",
	}

	if err := repos.User.Create(ctx, user); err != nil {
		log.Fatal().Err(err).Msg("failed to create user")
	}

	log.Info().Str("email", user.Email).Str("id", user.ID.String()).Msg("superuser created")
}
