package store

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"autoparts/internal/model"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var sampleState = State{
	Vehicle: model.VehicleSelection{Brand: "Renault", Model: "Clio", Generation: "IV", FuelType: "Diesel", FuelTypeID: 1000},
	Product: model.ProductSelection{Product: model.CategoryEngineOil, SubProduct: "Appoint"},
}

func exerciseBackend(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	_, err := b.Load(ctx)
	require.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, b.Save(ctx, sampleState))
	got, err := b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, sampleState, got)

	require.NoError(t, b.Save(ctx, State{}))
	got, err = b.Load(ctx)
	require.NoError(t, err)
	assert.Equal(t, State{}, got)
}

func TestMemoryBackend(t *testing.T) {
	exerciseBackend(t, NewMemoryBackend())
}

func TestSQLiteBackend(t *testing.T) {
	b, err := OpenSQLite(filepath.Join(t.TempDir(), "autoparts.db"), "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	exerciseBackend(t, b)
}

func TestSQLiteBackendNamespacesAreIndependent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoparts.db")
	a, err := OpenSQLite(path, "kiosk-a")
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	b, err := OpenSQLite(path, "kiosk-b")
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	require.NoError(t, a.Save(context.Background(), sampleState))

	_, err = b.Load(context.Background())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileBackend(t *testing.T) {
	b := NewFileBackend(filepath.Join(t.TempDir(), "nested"), "")
	assert.Equal(t, "selection-root.json", filepath.Base(b.Path()))

	exerciseBackend(t, b)
}

func TestFileBackendCorruptFile(t *testing.T) {
	dir := t.TempDir()
	b := NewFileBackend(dir, "root")
	require.NoError(t, os.WriteFile(b.Path(), []byte("{not json"), 0644))

	_, err := b.Load(context.Background())
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotFound)
}

func TestRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	b := NewRedisBackend(client, "kiosk-7")
	exerciseBackend(t, b)
	assert.True(t, mr.Exists("autoparts:selection:kiosk-7"))
}

func TestOpenRedis(t *testing.T) {
	mr := miniredis.RunT(t)

	b, client, err := OpenRedis(context.Background(), "redis://"+mr.Addr()+"/0", "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })

	require.NoError(t, b.Save(context.Background(), sampleState))
	assert.True(t, mr.Exists("autoparts:selection:root"))
}

func TestOpenRedisBadURL(t *testing.T) {
	_, _, err := OpenRedis(context.Background(), "not-a-url", "")
	assert.Error(t, err)
}

func TestStoreOverSQLiteSurvivesRestart(t *testing.T) {
	path := filepath.Join(t.TempDir(), "autoparts.db")
	b, err := OpenSQLite(path, "")
	require.NoError(t, err)

	s := New(context.Background(), b, nil)
	require.NoError(t, s.SetVehicle("Renault", "Clio", "IV", "Diesel", 1000))
	closeStore(t, s)
	require.NoError(t, b.Close())

	reopened, err := OpenSQLite(path, "")
	require.NoError(t, err)
	t.Cleanup(func() { _ = reopened.Close() })

	restored := newTestStore(t, reopened)
	assert.Equal(t, sampleState.Vehicle, restored.Vehicle())
}
