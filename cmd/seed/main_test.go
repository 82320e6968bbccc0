package main

import (
	"context"
	"io"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaytracker/internal/auth"
	"holidaytracker/internal/cache"
	"holidaytracker/internal/repository"
	"holidaytracker/internal/service"
)

func TestSeedIsIdempotent(t *testing.T) {
	ctx := context.Background()
	fs, err := repository.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	store := repository.NewFileBackedStore(fs)

	log := logrus.New()
	log.SetOutput(io.Discard)
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1})
	jwtService := auth.NewJWTService(auth.TokenConfig{Secret: "s", TTL: time.Hour})
	authService := service.NewAuthService(store.Users, hasher, jwtService)
	holidayService := service.NewHolidayService(store.Holidays, service.NoCache, 0, log)

	first, err := ensureUser(ctx, authService, store.Users, "demo@example.com", "demo1234")
	require.NoError(t, err)
	n, err := seedHolidays(ctx, holidayService, first.ID, sampleHolidays)
	require.NoError(t, err)
	assert.Equal(t, len(sampleHolidays), n)

	second, err := ensureUser(ctx, authService, store.Users, "demo@example.com", "demo1234")
	require.NoError(t, err)
	assert.Equal(t, first.ID, second.ID)
	n, err = seedHolidays(ctx, holidayService, second.ID, sampleHolidays)
	require.NoError(t, err)
	assert.Zero(t, n)

	list, err := holidayService.List(ctx, first.ID)
	require.NoError(t, err)
	require.Len(t, list, len(sampleHolidays))
	assert.Equal(t, "Winter break", list[0].Name)
}

func TestSeedRetiresListsCachedByServer(t *testing.T) {
	ctx := context.Background()
	fs, err := repository.NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	store := repository.NewFileBackedStore(fs)

	mr := miniredis.RunT(t)
	cacheClient := cache.NewFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	t.Cleanup(func() { _ = cacheClient.Close() })

	log := logrus.New()
	log.SetOutput(io.Discard)
	hasher := auth.NewArgon2Hasher(auth.Argon2Params{Memory: 1024, Iterations: 1, Parallelism: 1})
	authService := service.NewAuthService(store.Users, hasher, auth.NewJWTService(auth.TokenConfig{Secret: "s", TTL: time.Hour}))
	user, err := ensureUser(ctx, authService, store.Users, "demo@example.com", "demo1234")
	require.NoError(t, err)

	server := service.NewHolidayService(store.Holidays, serviceCache(cacheClient), time.Minute, log)
	cached, err := server.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Empty(t, cached)

	seeder := service.NewHolidayService(store.Holidays, serviceCache(cacheClient), time.Minute, log)
	_, err = seedHolidays(ctx, seeder, user.ID, sampleHolidays)
	require.NoError(t, err)

	list, err := server.List(ctx, user.ID)
	require.NoError(t, err)
	assert.Len(t, list, len(sampleHolidays))
}

func TestServiceCache_NilClientDisablesCaching(t *testing.T) {
	assert.Equal(t, service.NoCache, serviceCache(nil))
}
