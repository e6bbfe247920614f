package itinerary

import (
	"sync"

	"github.com/rs/zerolog"
)

// Trip bundles a store with the reorder engine that writes to it.
type Trip struct {
	Name    string
	Store   *Store
	Reorder *ReorderEngine
}

// TripsConfig holds configuration for the per-owner trip registry.
type TripsConfig struct {
	// Logger for trip creation and store mutations.
	Logger zerolog.Logger

	// Name is the trip display name (default: DefaultTripName).
	Name string

	// Days returns the day set for new trips (default: DefaultDays).
	Days func() []Day

	// Seed returns the initial activities for new trips (default: DefaultActivities).
	Seed func() map[string][]Activity

	// NewID generates activity identifiers (optional).
	NewID func() string
}

// Trips keeps one in-memory trip per owner. Nothing is persisted.
type Trips struct {
	cfg TripsConfig

	mu    sync.Mutex
	trips map[string]*Trip
}

// NewTrips creates an empty registry.
func NewTrips(cfg TripsConfig) *Trips {
	if cfg.Name == "" {
		cfg.Name = DefaultTripName
	}
	if cfg.Days == nil {
		cfg.Days = DefaultDays
	}
	if cfg.Seed == nil {
		cfg.Seed = DefaultActivities
	}
	return &Trips{
		cfg:   cfg,
		trips: make(map[string]*Trip),
	}
}

// For returns the owner's trip, creating and seeding it on first access.
func (t *Trips) For(ownerID string) (*Trip, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if trip, ok := t.trips[ownerID]; ok {
		return trip, nil
	}

	logger := t.cfg.Logger.With().Str("owner_id", ownerID).Logger()
	store := NewStore(StoreConfig{Logger: logger, NewID: t.cfg.NewID})
	if err := store.Initialize(t.cfg.Days(), t.cfg.Seed()); err != nil {
		return nil, err
	}

	trip := &Trip{
		Name:    t.cfg.Name,
		Store:   store,
		Reorder: NewReorderEngine(store, logger),
	}
	t.trips[ownerID] = trip

	logger.Info().Msg("trip created from seed")
	return trip, nil
}

// Release forgets the owner's trip. The next For seeds a fresh one.
func (t *Trips) Release(ownerID string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.trips, ownerID)
}

// Count returns the number of live trips.
func (t *Trips) Count() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.trips)
}
