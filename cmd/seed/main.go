package main

import (
	"context"
	"fmt"
	"os"

	"github.com/agrofix/agrofix-backend/internal/seed"
	"github.com/agrofix/agrofix-backend/internal/storage/backend"
	"github.com/agrofix/agrofix-backend/pkg/config"
	"github.com/agrofix/agrofix-backend/pkg/logger"
	"github.com/agrofix/agrofix-backend/pkg/security"
	"github.com/joho/godotenv"
)

func main() {
	logg := logger.New(logger.Options{ServiceName: "seed"})

	_ = godotenv.Load()

	cfg, err := config.Load()
	requireResource(context.Background(), logg, "config", err)

	logg = logger.New(logger.Options{
		ServiceName: "seed",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})
	ctx := logg.WithField(context.Background(), "env", cfg.App.Env)

	if cfg.Storage.Driver == config.StorageDriverMemory {
		fmt.Fprintln(os.Stderr, "seeding the memory driver has no lasting effect; set AGROFIX_SEED_SAMPLE_DATA=true on the api instead")
		os.Exit(1)
	}

	store, err := backend.Open(ctx, cfg, logg)
	requireResource(ctx, logg, "storage", err)
	defer store.Close()

	seeder, err := seed.New(store, security.NewPasswordHasher(cfg.Password), cfg.Seed, logg)
	requireResource(ctx, logg, "seeder", err)

	res, err := seeder.Run(ctx)
	requireResource(ctx, logg, "seed run", err)

	fmt.Printf("products created: %d\norder created: %t\nadmin created: %t\n", res.ProductsCreated, res.OrderCreated, res.AdminCreated)
	if res.GeneratedPassword != "" {
		fmt.Printf("admin password (shown once): %s\n", res.GeneratedPassword)
	}
}

func requireResource(ctx context.Context, logg *logger.Logger, resource string, err error) {
	if err == nil {
		return
	}
	logg.Error(ctx, fmt.Sprintf("resource not working: %s", resource), err)
	os.Exit(1)
}
