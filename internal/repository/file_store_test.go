package repository

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"holidaytracker/internal/model"
)

func TestFileStore_CreatesDocumentOnOpen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "data.json")

	_, err := NewFileStore(path)
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, `{"users":[],"holidays":[],"sequences":{"users":0,"holidays":0}}`, string(raw))
	assert.True(t, strings.Contains(string(raw), "\n  \"users\""), "document is pretty printed")
}

func TestFileStore_IDsNotReusedAfterDelete(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	fs, err := NewFileStore(path)
	require.NoError(t, err)

	user := &model.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, fs.Users().Create(ctx, user))

	first := &model.Holiday{Name: "one", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 2), UserID: user.ID}
	second := &model.Holiday{Name: "two", StartDate: date(2025, 2, 1), EndDate: date(2025, 2, 2), UserID: user.ID}
	require.NoError(t, fs.Holidays().Create(ctx, first))
	require.NoError(t, fs.Holidays().Create(ctx, second))
	assert.Equal(t, uint(1), first.ID)
	assert.Equal(t, uint(2), second.ID)

	require.NoError(t, fs.Holidays().Delete(ctx, second.ID, user.ID))
	require.NoError(t, fs.Close())

	reopened, err := NewFileStore(path)
	require.NoError(t, err)
	third := &model.Holiday{Name: "three", StartDate: date(2025, 3, 1), EndDate: date(2025, 3, 2), UserID: user.ID}
	require.NoError(t, reopened.Holidays().Create(ctx, third))
	assert.Equal(t, uint(3), third.ID)
}

func TestFileStore_ReadsDocumentWithoutSequences(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "data.json")
	legacy := `{
  "users": [
    {"id": 4, "email": "old@example.com", "password": "$2a$10$abc", "createdAt": "2024-05-01T10:00:00.000Z", "updatedAt": "2024-05-01T10:00:00.000Z"}
  ],
  "holidays": [
    {"id": 7, "name": "Trip", "startDate": "2025-12-24", "endDate": "2025-12-25", "userId": 4, "createdAt": "2024-05-01T10:00:00.000Z", "updatedAt": "2024-05-01T10:00:00.000Z"}
  ]
}`
	require.NoError(t, os.WriteFile(path, []byte(legacy), 0o600))

	fs, err := NewFileStore(path)
	require.NoError(t, err)

	user, err := fs.Users().FindByEmail(ctx, "old@example.com")
	require.NoError(t, err)
	assert.Equal(t, uint(4), user.ID)
	assert.Equal(t, "$2a$10$abc", user.PasswordHash)

	holiday, err := fs.Holidays().FindByIDAndUser(ctx, 7, 4)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 12, 24, 0, 0, 0, 0, time.UTC), holiday.StartDate)

	next := &model.User{Email: "new@example.com", PasswordHash: "x"}
	require.NoError(t, fs.Users().Create(ctx, next))
	assert.Equal(t, uint(5), next.ID)
}

func TestFileStore_RejectsCorruptDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o600))

	_, err := NewFileStore(path)
	assert.Error(t, err)
}

func TestFileStore_ClosedStoreRefusesOperations(t *testing.T) {
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	require.NoError(t, fs.Close())

	_, err = fs.Users().FindByID(context.Background(), 1)
	assert.ErrorIs(t, err, ErrStoreClosed)
	assert.ErrorIs(t, fs.Ping(context.Background()), ErrStoreClosed)
}

func TestFileStore_UpdateKeepsCreatedAt(t *testing.T) {
	ctx := context.Background()
	fs, err := NewFileStore(filepath.Join(t.TempDir(), "data.json"))
	require.NoError(t, err)
	created := time.Date(2025, 1, 1, 9, 0, 0, 0, time.UTC)
	fs.now = func() time.Time { return created }

	user := &model.User{Email: "a@example.com", PasswordHash: "x"}
	require.NoError(t, fs.Users().Create(ctx, user))
	h := &model.Holiday{Name: "one", StartDate: date(2025, 1, 1), EndDate: date(2025, 1, 2), UserID: user.ID}
	require.NoError(t, fs.Holidays().Create(ctx, h))

	h.CreatedAt = time.Time{}
	h.UpdatedAt = created.Add(time.Hour)
	require.NoError(t, fs.Holidays().Update(ctx, h))

	got, err := fs.Holidays().FindByIDAndUser(ctx, h.ID, user.ID)
	require.NoError(t, err)
	assert.Equal(t, created, got.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), got.UpdatedAt)
}
