package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"

	"holidaytracker/internal/auth"
	"holidaytracker/internal/cache"
	"holidaytracker/internal/config"
	"holidaytracker/internal/db"
	apperrors "holidaytracker/internal/errors"
	"holidaytracker/internal/logging"
	"holidaytracker/internal/model"
	"holidaytracker/internal/repository"
	"holidaytracker/internal/service"
)

// sampleHolidays are created for a demo user that has none yet.
var sampleHolidays = []model.HolidayInput{
	{Name: "Winter break", StartDate: "2025-12-24", EndDate: "2026-01-02", Description: strPtr("Family visit")},
	{Name: "Spring city trip", StartDate: "2026-04-10", EndDate: "2026-04-13"},
	{Name: "Summer at the lake", StartDate: "2026-07-18", EndDate: "2026-08-01", Description: strPtr("Cabin booked")},
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		logrus.Fatalf("load config: %v", err)
	}
	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("Starting seed script...")

	store, err := db.OpenStore(cfg, logger)
	if err != nil {
		logger.Fatalf("Failed to open store: %v", err)
	}
	defer store.Close()

	email := envOr("SEED_EMAIL", "demo@example.com")
	password := envOr("SEED_PASSWORD", "demo1234")

	hasher := auth.NewArgon2Hasher(auth.Argon2Params{
		Memory:      cfg.Argon2Memory,
		Iterations:  cfg.Argon2Iterations,
		Parallelism: uint8(cfg.Argon2Parallelism),
	})
	jwtService := auth.NewJWTService(auth.TokenConfig{Secret: cfg.JWTSecret, TTL: cfg.JWTTTL, Issuer: cfg.JWTIssuer})
	authService := service.NewAuthService(store.Users, hasher, jwtService)
	// writes must retire lists a running server has cached
	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	holidayService := service.NewHolidayService(store.Holidays, serviceCache(cacheClient), cfg.CacheTTL, logger)

	ctx := context.Background()
	user, err := ensureUser(ctx, authService, store.Users, email, password)
	if err != nil {
		logger.Fatalf("Failed to seed user: %v", err)
	}

	seeded, err := seedHolidays(ctx, holidayService, user.ID, sampleHolidays)
	if err != nil {
		logger.Fatalf("Failed to seed holidays: %v", err)
	}

	logger.WithFields(logrus.Fields{
		"email":    email,
		"user_id":  user.ID,
		"holidays": seeded,
	}).Info("Seed completed successfully!")
}

// ensureUser registers the demo user, or reuses it when the email is taken.
func ensureUser(ctx context.Context, authService service.AuthService, users repository.UserRepository, email, password string) (*model.User, error) {
	name := "Demo User"
	res, err := authService.Register(ctx, email, &name, password)
	if err == nil {
		return res.User, nil
	}
	if !errors.Is(err, apperrors.ErrUserAlreadyExists) {
		return nil, err
	}
	user, err := users.FindByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("load existing user %s: %w", email, err)
	}
	return user, nil
}

// seedHolidays creates the samples unless the user already has holidays.
func seedHolidays(ctx context.Context, svc service.HolidayService, userID uint, samples []model.HolidayInput) (int, error) {
	existing, err := svc.List(ctx, userID)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}
	for i, in := range samples {
		if _, err := svc.Create(ctx, userID, in); err != nil {
			return i, fmt.Errorf("create %q: %w", in.Name, err)
		}
	}
	return len(samples), nil
}

func serviceCache(c *cache.Client) service.Cache {
	if c == nil {
		return service.NoCache
	}
	return c
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func strPtr(s string) *string { return &s }
