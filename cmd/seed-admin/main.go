package main

import (
	"context"
	"flag"
	"os"

	"github.com/joho/godotenv"

	"github.com/mohib357/mamstar-plan/internal/users"
	"github.com/mohib357/mamstar-plan/pkg/config"
	"github.com/mohib357/mamstar-plan/pkg/db"
	"github.com/mohib357/mamstar-plan/pkg/logger"
	"github.com/mohib357/mamstar-plan/pkg/migrate"
	"github.com/mohib357/mamstar-plan/pkg/security"
)

const (
	envSeedPassword = "MAMSTAR_SEED_ADMIN_PASSWORD"
	tempPasswordLen = 16
)

func main() {
	ctx := context.Background()
	logg := logger.New(logger.Options{ServiceName: "mamstar-seed-admin"})

	_ = godotenv.Load()

	email := flag.String("email", "admin@mamstar.com", "admin email")
	username := flag.String("username", "admin", "admin username")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		logg.Error(ctx, "failed to load config", err)
		os.Exit(1)
	}

	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		logg.Error(ctx, "failed to bootstrap database", err)
		os.Exit(1)
	}
	defer dbClient.Close()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		logg.Error(ctx, "failed to run dev migrations", err)
		os.Exit(1)
	}

	password := os.Getenv(envSeedPassword)
	generated := password == ""
	if generated {
		password, err = security.GenerateTempPassword(tempPasswordLen)
		if err != nil {
			logg.Error(ctx, "failed to generate password", err)
			os.Exit(1)
		}
	}

	user, created, err := users.SeedAdmin(ctx, dbClient, cfg.Password, users.SeedAdminRequest{
		Username: *username,
		Email:    *email,
		Password: password,
	})
	if err != nil {
		logg.Error(ctx, "failed to seed admin", err)
		os.Exit(1)
	}

	ctx = logg.WithFields(ctx, map[string]any{"email": user.Email, "user_id": user.ID.String()})
	if !created {
		logg.Info(ctx, "admin already exists")
		return
	}
	if generated {
		ctx = logg.WithField(ctx, "temp_password", password)
	}
	logg.Info(ctx, "admin created")
}
