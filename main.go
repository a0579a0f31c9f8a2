package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"autoparts/cmd"
	"autoparts/internal/catalog"
	"autoparts/internal/flow"
	"autoparts/internal/logging"
	"autoparts/internal/store"
	"autoparts/internal/ui"

	tea "github.com/charmbracelet/bubbletea"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	config, err := cmd.ParseFlags(version)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if err := run(config, runProgram); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// run owns every resource, so its defers (store flush included) complete
// before main decides the exit code.
func run(config *cmd.Config, runUI func(tea.Model) error) error {
	logOut, err := logging.OpenFile(config.LogFile)
	if err != nil {
		return err
	}
	defer logOut.Close()
	log := logging.New(logging.Options{
		Level:   logging.ParseLevel(config.LogLevel),
		Output:  logOut,
		Console: config.LogFile == "-",
	})

	ctx := context.Background()
	backend, closeBackend, err := openBackend(ctx, config)
	if err != nil {
		return fmt.Errorf("failed to open selection store: %w", err)
	}
	defer closeBackend.Close()

	selections := store.New(ctx, backend, log)
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
		defer cancel()
		if err := selections.Close(shutdownCtx); err != nil {
			log.Error(ctx, "selection store did not flush", err)
		}
	}()

	client := catalog.NewClient(catalog.Options{
		BaseURL:        config.APIBaseURL,
		AssetBaseURL:   config.AssetBaseURL,
		Timeout:        config.HTTPTimeout,
		RateLimit:      config.RateLimit,
		ImageCacheSize: config.ImageCache,
		Logger:         log,
	})
	ctrl := flow.NewController(selections, log)

	ctx = log.WithFields(ctx, map[string]any{"version": version, "store": config.Store})
	log.Info(ctx, "starting")

	if err := runUI(ui.New(ctrl, client, client, log)); err != nil {
		log.Error(ctx, "app stopped", err)
		return fmt.Errorf("running app: %w", err)
	}
	return nil
}

func runProgram(m tea.Model) error {
	_, err := tea.NewProgram(m, tea.WithAltScreen()).Run()
	return err
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// openBackend builds the configured persistence backend and whatever must be
// closed after the store has flushed.
func openBackend(ctx context.Context, config *cmd.Config) (store.Backend, io.Closer, error) {
	switch config.Store {
	case cmd.StoreSQLite:
		b, err := store.OpenSQLite(config.StorePath, config.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return b, b, nil
	case cmd.StoreFile:
		return store.NewFileBackend(config.StorePath, config.Namespace), nopCloser{}, nil
	case cmd.StoreRedis:
		b, client, err := store.OpenRedis(ctx, config.RedisURL, config.Namespace)
		if err != nil {
			return nil, nil, err
		}
		return b, client, nil
	default:
		return store.NewMemoryBackend(), nopCloser{}, nil
	}
}
