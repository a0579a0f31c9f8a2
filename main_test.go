package main

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"autoparts/cmd"
	"autoparts/internal/model"
	"autoparts/internal/store"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig(t *testing.T, backend string) *cmd.Config {
	t.Helper()
	dir := t.TempDir()
	return &cmd.Config{
		APIBaseURL: "http://127.0.0.1:1",
		Store:      backend,
		StorePath:  dir,
		Namespace:  store.DefaultNamespace,
		LogLevel:   "debug",
		LogFile:    filepath.Join(dir, "autoparts.log"),
		ImageCache: 4,
	}
}

func TestRunFlushesSelectionWhenUIFails(t *testing.T) {
	config := testConfig(t, cmd.StoreFile)

	err := run(config, func(m tea.Model) error {
		// enter on the home screen picks the first category
		_, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
		return errors.New("terminal lost")
	})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "terminal lost")

	state, err := store.NewFileBackend(config.StorePath, config.Namespace).Load(context.Background())
	require.NoError(t, err)
	assert.Equal(t, model.CategoryWipers, state.Product.Product)
}

func TestOpenBackend(t *testing.T) {
	for _, name := range []string{cmd.StoreFile, cmd.StoreMemory} {
		t.Run(name, func(t *testing.T) {
			backend, closer, err := openBackend(context.Background(), testConfig(t, name))
			require.NoError(t, err)
			assert.NotNil(t, backend)
			assert.NoError(t, closer.Close())
		})
	}

	t.Run(cmd.StoreSQLite, func(t *testing.T) {
		config := testConfig(t, cmd.StoreSQLite)
		config.StorePath = filepath.Join(config.StorePath, "autoparts.db")

		backend, closer, err := openBackend(context.Background(), config)

		require.NoError(t, err)
		_, err = backend.Load(context.Background())
		assert.ErrorIs(t, err, store.ErrNotFound)
		assert.NoError(t, closer.Close())
	})
}
