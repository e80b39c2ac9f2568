// Package wishlist keeps a visitor's liked tours and destinations and mirrors
// them to durable key-value storage.
package wishlist

import (
	"context"
	"encoding/json"
	"errors"
	"slices"

	"github.com/rs/zerolog"

	"github.com/wanderlust-tours/wanderlust/internal/kv"
)

// Storage keys the collections are persisted under
const (
	TourKey        = "tourWishlist"
	DestinationKey = "destinationWishlist"
)

// Tour is a snapshot of a tour taken when it was liked
type Tour struct {
	ID           int     `json:"id"`
	Title        string  `json:"title"`
	Location     string  `json:"location,omitempty"`
	Image        string  `json:"image,omitempty"`
	Price        float64 `json:"price"`
	DurationDays int     `json:"duration_days,omitempty"`
	Rating       float64 `json:"rating,omitempty"`
}

// Destination is a snapshot of a destination taken when it was liked
type Destination struct {
	ID          int    `json:"id"`
	Name        string `json:"name"`
	Country     string `json:"country,omitempty"`
	Image       string `json:"image,omitempty"`
	Description string `json:"description,omitempty"`
}

// Observer is notified after every mutation that changed a collection
type Observer func(collection, op string)

// Store holds both collections in insertion order, unique by id. In-memory
// state is authoritative; persistence failures are logged only.
type Store struct {
	storage      kv.Storage
	logger       zerolog.Logger
	observer     Observer
	tours        []Tour
	destinations []Destination
}

// Option configures a Store
type Option func(*Store)

// WithObserver registers fn to be called after each effective mutation
func WithObserver(fn Observer) Option {
	return func(s *Store) {
		s.observer = fn
	}
}

// Load creates a store initialized from storage. Missing or unreadable data
// yields empty collections.
func Load(ctx context.Context, storage kv.Storage, logger zerolog.Logger, opts ...Option) *Store {
	s := &Store{
		storage: storage,
		logger:  logger,
	}
	for _, opt := range opts {
		opt(s)
	}

	s.tours = loadCollection[Tour](ctx, storage, TourKey, logger)
	s.destinations = loadCollection[Destination](ctx, storage, DestinationKey, logger)
	return s
}

func loadCollection[T any](ctx context.Context, storage kv.Storage, key string, logger zerolog.Logger) []T {
	data, err := storage.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, kv.ErrNotFound) {
			logger.Warn().Err(err).Str("key", key).Msg("Failed to read wishlist, starting empty")
		}
		return []T{}
	}

	var items []T
	if err := json.Unmarshal(data, &items); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("Stored wishlist is corrupt, starting empty")
		return []T{}
	}
	if items == nil {
		items = []T{}
	}
	return items
}

// Tours returns the liked tours in insertion order
func (s *Store) Tours() []Tour {
	return slices.Clone(s.tours)
}

// Destinations returns the liked destinations in insertion order
func (s *Store) Destinations() []Destination {
	return slices.Clone(s.destinations)
}

// AddTour appends tour unless its id is already present. It reports whether
// the tour was inserted.
func (s *Store) AddTour(ctx context.Context, tour Tour) bool {
	if s.IsTourPresent(tour.ID) {
		return false
	}
	s.tours = append(s.tours, tour)
	s.save(ctx, TourKey, s.tours)
	s.notify("tours", "add")
	return true
}

// RemoveTour deletes the tour with id and returns it
func (s *Store) RemoveTour(ctx context.Context, id int) (Tour, bool) {
	i := slices.IndexFunc(s.tours, func(t Tour) bool { return t.ID == id })
	if i < 0 {
		return Tour{}, false
	}
	removed := s.tours[i]
	s.tours = slices.Delete(s.tours, i, i+1)
	s.save(ctx, TourKey, s.tours)
	s.notify("tours", "remove")
	return removed, true
}

// IsTourPresent reports whether a tour with id is liked
func (s *Store) IsTourPresent(id int) bool {
	return slices.ContainsFunc(s.tours, func(t Tour) bool { return t.ID == id })
}

// AddDestination appends destination unless its id is already present
func (s *Store) AddDestination(ctx context.Context, destination Destination) bool {
	if s.IsDestinationPresent(destination.ID) {
		return false
	}
	s.destinations = append(s.destinations, destination)
	s.save(ctx, DestinationKey, s.destinations)
	s.notify("destinations", "add")
	return true
}

// RemoveDestination deletes the destination with id and returns it
func (s *Store) RemoveDestination(ctx context.Context, id int) (Destination, bool) {
	i := slices.IndexFunc(s.destinations, func(d Destination) bool { return d.ID == id })
	if i < 0 {
		return Destination{}, false
	}
	removed := s.destinations[i]
	s.destinations = slices.Delete(s.destinations, i, i+1)
	s.save(ctx, DestinationKey, s.destinations)
	s.notify("destinations", "remove")
	return removed, true
}

// IsDestinationPresent reports whether a destination with id is liked
func (s *Store) IsDestinationPresent(id int) bool {
	return slices.ContainsFunc(s.destinations, func(d Destination) bool { return d.ID == id })
}

// save replaces the stored collection under key with items
func (s *Store) save(ctx context.Context, key string, items any) {
	data, err := json.Marshal(items)
	if err != nil {
		s.logger.Error().Err(err).Str("key", key).Msg("Failed to encode wishlist")
		return
	}
	if err := s.storage.Set(ctx, key, data); err != nil {
		s.logger.Warn().Err(err).Str("key", key).Msg("Failed to persist wishlist")
	}
}

func (s *Store) notify(collection, op string) {
	if s.observer != nil {
		s.observer(collection, op)
	}
}
