package store

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"sync"
	"time"

	"autoparts/internal/logging"
	"autoparts/internal/model"

	"github.com/go-playground/validator/v10"
)

const saveTimeout = 5 * time.Second

// Store owns the vehicle and product selections. Mutations apply in memory
// immediately; persistence happens on a background writer that callers never
// wait for.
type Store struct {
	mu       sync.RWMutex
	state    State
	closed   bool
	backend  Backend
	log      *logging.Logger
	validate *validator.Validate

	pending chan State
	done    chan struct{}
}

type vehicleInput struct {
	Brand      string `json:"brand" validate:"required"`
	Model      string `json:"model" validate:"required"`
	Generation string `json:"generation" validate:"required"`
	FuelType   string `json:"fuelType" validate:"required"`
	FuelTypeID int64  `json:"fuelTypeId" validate:"required,gt=0"`
}

// New restores the selections from backend and starts the writer. A failed
// load is logged and the store starts empty.
func New(ctx context.Context, backend Backend, log *logging.Logger) *Store {
	if log == nil {
		log = logging.Nop()
	}

	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			return field.Name
		}
		return name
	})

	s := &Store{
		backend:  backend,
		log:      log,
		validate: v,
		pending:  make(chan State, 1),
		done:     make(chan struct{}),
	}

	state, err := backend.Load(ctx)
	switch {
	case errors.Is(err, ErrNotFound):
	case err != nil:
		log.Error(ctx, "failed to restore selection state", err)
	default:
		s.state = sanitize(state)
	}

	go s.run()
	return s
}

// sanitize drops restored records that break the selection invariants.
func sanitize(state State) State {
	if !state.Vehicle.IsComplete() {
		state.Vehicle = model.VehicleSelection{}
	}
	if !state.Product.Product.Valid() {
		state.Product = model.ProductSelection{}
	}
	return state
}

// Snapshot returns a copy of both selections.
func (s *Store) Snapshot() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state
}

// Vehicle returns the current vehicle selection.
func (s *Store) Vehicle() model.VehicleSelection {
	return s.Snapshot().Vehicle
}

// Product returns the current product selection.
func (s *Store) Product() model.ProductSelection {
	return s.Snapshot().Product
}

// SetVehicle replaces the vehicle selection. Every argument must be set;
// otherwise a *ValidationError is returned and nothing changes.
func (s *Store) SetVehicle(brand, vehicleModel, generation, fuelType string, fuelTypeID int64) error {
	in := vehicleInput{
		Brand:      strings.TrimSpace(brand),
		Model:      strings.TrimSpace(vehicleModel),
		Generation: strings.TrimSpace(generation),
		FuelType:   strings.TrimSpace(fuelType),
		FuelTypeID: fuelTypeID,
	}
	if err := s.validate.Struct(in); err != nil {
		var verrs validator.ValidationErrors
		if !errors.As(err, &verrs) {
			return err
		}
		fields := make([]string, 0, len(verrs))
		for _, fe := range verrs {
			fields = append(fields, fe.Field())
		}
		verr := &ValidationError{Fields: fields}
		s.log.Error(context.Background(), "rejected partial vehicle selection", verr)
		return verr
	}

	s.mutate(func(st *State) {
		st.Vehicle = model.VehicleSelection{
			Brand:      in.Brand,
			Model:      in.Model,
			Generation: in.Generation,
			FuelType:   in.FuelType,
			FuelTypeID: in.FuelTypeID,
		}
	})
	return nil
}

// ClearVehicle forgets the vehicle.
func (s *Store) ClearVehicle() {
	s.mutate(func(st *State) {
		st.Vehicle = model.VehicleSelection{}
	})
}

// SetCategory selects a category and clears any sub-product.
func (s *Store) SetCategory(category model.ProductCategory) error {
	if !category.Valid() {
		return ErrUnknownCategory
	}
	s.mutate(func(st *State) {
		st.Product = model.ProductSelection{Product: category}
	})
	return nil
}

// SetSubProduct records a sub-option of the current category. Without a
// category it does nothing and returns false.
func (s *Store) SetSubProduct(label string) bool {
	label = strings.TrimSpace(label)
	applied := false
	s.mutate(func(st *State) {
		if st.Product.Product == "" || label == "" {
			return
		}
		st.Product.SubProduct = label
		applied = true
	})
	if !applied {
		s.log.Warn(context.Background(), "ignored sub-product without a category")
	}
	return applied
}

// ClearProduct forgets the category and sub-product.
func (s *Store) ClearProduct() {
	s.mutate(func(st *State) {
		st.Product = model.ProductSelection{}
	})
}

// Close stops the writer after the last pending save.
func (s *Store) Close(ctx context.Context) error {
	s.mu.Lock()
	if !s.closed {
		s.closed = true
		close(s.pending)
	}
	s.mu.Unlock()

	select {
	case <-s.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (s *Store) mutate(fn func(st *State)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	before := s.state
	fn(&s.state)
	if s.state == before || s.closed {
		return
	}
	s.enqueue(s.state)
}

// enqueue keeps only the newest unsaved state. Caller holds mu.
func (s *Store) enqueue(state State) {
	for {
		select {
		case s.pending <- state:
			return
		default:
		}
		select {
		case <-s.pending:
		default:
		}
	}
}

func (s *Store) run() {
	defer close(s.done)
	for state := range s.pending {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		if err := s.backend.Save(ctx, state); err != nil {
			s.log.Error(ctx, "failed to persist selection state", err)
		}
		cancel()
	}
}
