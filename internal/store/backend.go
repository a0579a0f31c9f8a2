package store

import (
	"context"
	"sync"

	"autoparts/internal/model"
)

// DefaultNamespace is the key the selection record is saved under.
const DefaultNamespace = "root"

// State is the persisted record: both selections together.
type State struct {
	Vehicle model.VehicleSelection `json:"vehicle"`
	Product model.ProductSelection `json:"product"`
}

// Backend loads and saves the selection record.
type Backend interface {
	Load(ctx context.Context) (State, error)
	Save(ctx context.Context, state State) error
}

// MemoryBackend keeps the record in process memory.
type MemoryBackend struct {
	mu    sync.Mutex
	state *State
	saves int
	err   error
}

// NewMemoryBackend returns an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{}
}

func (b *MemoryBackend) Load(ctx context.Context) (State, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == nil {
		return State{}, ErrNotFound
	}
	return *b.state, nil
}

func (b *MemoryBackend) Save(ctx context.Context, state State) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.err != nil {
		return b.err
	}
	b.state = &state
	b.saves++
	return nil
}

// FailWith makes subsequent saves return err. nil restores normal behaviour.
func (b *MemoryBackend) FailWith(err error) {
	b.mu.Lock()
	b.err = err
	b.mu.Unlock()
}

// Saves returns how many saves succeeded.
func (b *MemoryBackend) Saves() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.saves
}
