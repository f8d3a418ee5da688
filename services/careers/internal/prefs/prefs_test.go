package prefs

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"abletech/services/careers/internal/models"
	"abletech/services/careers/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type theme struct {
	Mode string `json:"mode"`
}

func TestRepositoryRoundTrip(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()
	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	repo := NewRepository[theme](backend, "theme", 1, WithClock[theme](func() time.Time { return at }))

	_, ok, err := repo.Get(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, repo.Set(ctx, "Sam@Example.com", theme{Mode: "high-contrast"}))

	got, ok, err := repo.Get(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "high-contrast", got.Mode)

	raw, _, _ := backend.Load(ctx, "sam@example.com", "theme")
	assert.JSONEq(t, `{"version":1,"data":{"mode":"high-contrast"},"updatedAt":"2024-01-02T03:04:05Z"}`, string(raw))

	require.NoError(t, repo.Clear(ctx, "sam@example.com"))
	_, ok, err = repo.Get(ctx, "sam@example.com")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestVersionMismatchWithoutMigration(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	require.NoError(t, NewRepository[theme](backend, "theme", 1).Set(ctx, "sam@example.com", theme{Mode: "dark"}))

	_, ok, err := NewRepository[theme](backend, "theme", 2).Get(ctx, "sam@example.com")
	assert.ErrorIs(t, err, ErrVersionMismatch)
	assert.False(t, ok)
}

func TestMigrationUpgradesAndRewrites(t *testing.T) {
	ctx := context.Background()
	backend := NewMemoryBackend()

	v1, err := json.Marshal(envelope{
		Version: 1,
		Data:    json.RawMessage(`{"hasDisability":true,"disabilityCategory":"Vision impairment"}`),
	})
	require.NoError(t, err)
	require.NoError(t, backend.Save(ctx, "sam@example.com", DisabilityInfoKey, v1))

	repo := NewDisabilityInfo(backend)
	info, ok, err := repo.Get(ctx, "sam@example.com")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, models.DisabilityInfo{HasDisability: true, DisabilityCategories: []string{"Vision impairment"}}, info)

	raw, _, _ := backend.Load(ctx, "sam@example.com", DisabilityInfoKey)
	var env envelope
	require.NoError(t, json.Unmarshal(raw, &env))
	assert.Equal(t, DisabilityInfoVersion, env.Version)
}

func TestStoreBackend(t *testing.T) {
	ctx := context.Background()
	s, err := store.Open(ctx, filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	repo := NewDisabilityInfo(StoreBackend{Store: s})
	_, ok, err := repo.Get(ctx, "kim@example.com")
	require.NoError(t, err)
	assert.False(t, ok)

	want := models.DisabilityInfo{HasDisability: true, DisabilityCategories: []string{"Hearing impairment"}}
	require.NoError(t, repo.Set(ctx, "kim@example.com", want))

	got, ok, err := repo.Get(ctx, "kim@example.com")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}
