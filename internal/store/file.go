package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// FileBackend keeps the selection record in a JSON file.
type FileBackend struct {
	path string
}

// NewFileBackend stores the namespace under dir.
func NewFileBackend(dir, namespace string) *FileBackend {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &FileBackend{path: filepath.Join(dir, "selection-"+namespace+".json")}
}

// Path returns the file the record lives in.
func (b *FileBackend) Path() string {
	return b.path
}

func (b *FileBackend) Load(ctx context.Context) (State, error) {
	data, err := os.ReadFile(b.path)
	if errors.Is(err, os.ErrNotExist) {
		return State{}, ErrNotFound
	}
	if err != nil {
		return State{}, fmt.Errorf("failed to read selection file: %w", err)
	}

	var state State
	if err := json.Unmarshal(data, &state); err != nil {
		return State{}, fmt.Errorf("failed to decode selection file: %w", err)
	}
	return state, nil
}

func (b *FileBackend) Save(ctx context.Context, state State) error {
	if err := os.MkdirAll(filepath.Dir(b.path), 0755); err != nil {
		return fmt.Errorf("failed to create selection dir: %w", err)
	}

	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal selection: %w", err)
	}

	tmp := b.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0644); err != nil {
		return fmt.Errorf("failed to write selection: %w", err)
	}
	if err := os.Rename(tmp, b.path); err != nil {
		return fmt.Errorf("failed to replace selection: %w", err)
	}
	return nil
}
