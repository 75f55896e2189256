package main

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/joho/godotenv"

	"github.com/oksasatya/learnpath-auth/config"
	"github.com/oksasatya/learnpath-auth/internal/application"
	"github.com/oksasatya/learnpath-auth/internal/domain/entity"
	"github.com/oksasatya/learnpath-auth/internal/infrastructure/store"
	"github.com/oksasatya/learnpath-auth/pkg/helpers"
)

// seed creates the first admin account through the regular registration
// path, so the account obeys the same normalization and hashing rules.
func main() {
	_ = godotenv.Load()
	cfg := config.Load()
	logger := helpers.NewLogger(cfg.AppName+"-seed", cfg.Env)

	if cfg.SeedAdminPassword == "" {
		log.Fatal("SEED_ADMIN_PASSWORD is required")
	}

	ctx := context.Background()
	st, err := store.Open(ctx, cfg, logger)
	if err != nil {
		log.Fatalf("failed to open credential store: %v", err)
	}
	defer st.Close()

	hasher := helpers.NewPasswordHasher(cfg.BcryptCost, 1)
	svc := application.NewAuthService(st.Users, hasher, nil, nil, logger)

	res, err := svc.Register(ctx, application.RegisterInput{
		FullName: cfg.SeedAdminName,
		Email:    cfg.SeedAdminEmail,
		Password: cfg.SeedAdminPassword,
		Role:     entity.RoleAdmin.String(),
	})
	switch {
	case errors.Is(err, application.ErrEmailExists):
		fmt.Printf("admin already present: email=%s\n", entity.NormalizeEmail(cfg.SeedAdminEmail))
	case err != nil:
		log.Fatalf("failed to seed admin: %v", err)
	default:
		fmt.Printf("seeded admin: id=%s email=%s\n", res.UserID, entity.NormalizeEmail(cfg.SeedAdminEmail))
	}
}
