package wishlist

import (
	"context"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wanderlust-tours/wanderlust/internal/kv"
)

// countingStorage records writes on top of a memory store
type countingStorage struct {
	*kv.MemoryStore
	writes map[string]int
	failOn string
}

func newCountingStorage() *countingStorage {
	return &countingStorage{MemoryStore: kv.NewMemoryStore(), writes: map[string]int{}}
}

func (c *countingStorage) Set(ctx context.Context, key string, value []byte) error {
	c.writes[key]++
	if key == c.failOn {
		return errors.New("quota exceeded")
	}
	return c.MemoryStore.Set(ctx, key, value)
}

func tourIDs(tours []Tour) []int {
	ids := make([]int, len(tours))
	for i, t := range tours {
		ids[i] = t.ID
	}
	return ids
}

func TestTourScenario(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemoryStore(), zerolog.Nop())

	require.Empty(t, s.Tours())

	assert.True(t, s.AddTour(ctx, Tour{ID: 5, Title: "Fjord cruise"}))
	assert.Equal(t, []int{5}, tourIDs(s.Tours()))

	assert.True(t, s.AddTour(ctx, Tour{ID: 7, Title: "Desert trek"}))
	assert.Equal(t, []int{5, 7}, tourIDs(s.Tours()))

	removed, ok := s.RemoveTour(ctx, 5)
	require.True(t, ok)
	assert.Equal(t, "Fjord cruise", removed.Title)
	assert.Equal(t, []int{7}, tourIDs(s.Tours()))

	assert.False(t, s.IsTourPresent(5))
	assert.True(t, s.IsTourPresent(7))
}

func TestAddTourDeduplicates(t *testing.T) {
	ctx := context.Background()
	storage := newCountingStorage()
	s := Load(ctx, storage, zerolog.Nop())

	assert.True(t, s.AddTour(ctx, Tour{ID: 1, Title: "first"}))
	assert.True(t, s.IsTourPresent(1))

	assert.False(t, s.AddTour(ctx, Tour{ID: 1, Title: "changed"}))
	assert.True(t, s.IsTourPresent(1))
	assert.Len(t, s.Tours(), 1)
	assert.Equal(t, "first", s.Tours()[0].Title)
	assert.Equal(t, 1, storage.writes[TourKey])
}

func TestRemoveMissingIsNoop(t *testing.T) {
	ctx := context.Background()
	storage := newCountingStorage()
	s := Load(ctx, storage, zerolog.Nop())
	s.AddTour(ctx, Tour{ID: 3})
	before, err := storage.Get(ctx, TourKey)
	require.NoError(t, err)

	_, ok := s.RemoveTour(ctx, 99)
	assert.False(t, ok)
	_, ok = s.RemoveDestination(ctx, 99)
	assert.False(t, ok)

	after, err := storage.Get(ctx, TourKey)
	require.NoError(t, err)
	assert.Equal(t, before, after)
	assert.Equal(t, 1, storage.writes[TourKey])
	assert.Zero(t, storage.writes[DestinationKey])
}

func TestRemovePreservesOrder(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemoryStore(), zerolog.Nop())
	for _, id := range []int{4, 8, 15, 16, 23} {
		s.AddTour(ctx, Tour{ID: id})
	}
	s.RemoveTour(ctx, 15)
	assert.Equal(t, []int{4, 8, 16, 23}, tourIDs(s.Tours()))
}

func TestRoundTripThroughStorage(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStore()

	s := Load(ctx, storage, zerolog.Nop())
	s.AddTour(ctx, Tour{ID: 9, Title: "Volcano hike", Price: 120.5, DurationDays: 2})
	s.AddTour(ctx, Tour{ID: 2, Title: "Reef dive"})
	s.AddDestination(ctx, Destination{ID: 11, Name: "Iceland", Country: "IS"})
	s.AddDestination(ctx, Destination{ID: 6, Name: "Bali"})

	reloaded := Load(ctx, storage, zerolog.Nop())
	assert.Equal(t, s.Tours(), reloaded.Tours())
	assert.Equal(t, s.Destinations(), reloaded.Destinations())
}

func TestCorruptStorageStartsEmpty(t *testing.T) {
	ctx := context.Background()
	storage := kv.NewMemoryStore()
	require.NoError(t, storage.Set(ctx, TourKey, []byte("{not json")))
	require.NoError(t, storage.Set(ctx, DestinationKey, []byte("null")))

	s := Load(ctx, storage, zerolog.Nop())
	assert.Empty(t, s.Tours())
	assert.Empty(t, s.Destinations())

	// the store stays usable and overwrites the corrupt value
	assert.True(t, s.AddTour(ctx, Tour{ID: 1}))
	data, err := storage.Get(ctx, TourKey)
	require.NoError(t, err)
	assert.JSONEq(t, `[{"id":1,"title":"","price":0}]`, string(data))
}

func TestWriteFailureKeepsInMemoryState(t *testing.T) {
	ctx := context.Background()
	storage := newCountingStorage()
	storage.failOn = DestinationKey
	s := Load(ctx, storage, zerolog.Nop())

	assert.True(t, s.AddDestination(ctx, Destination{ID: 2, Name: "Kyoto"}))
	assert.True(t, s.IsDestinationPresent(2))
	assert.Equal(t, 1, storage.writes[DestinationKey])

	_, err := storage.Get(ctx, DestinationKey)
	assert.ErrorIs(t, err, kv.ErrNotFound)
}

func TestDestinationOperations(t *testing.T) {
	ctx := context.Background()
	s := Load(ctx, kv.NewMemoryStore(), zerolog.Nop())

	assert.True(t, s.AddDestination(ctx, Destination{ID: 1, Name: "Lisbon"}))
	assert.False(t, s.AddDestination(ctx, Destination{ID: 1, Name: "Lisbon"}))
	assert.True(t, s.AddDestination(ctx, Destination{ID: 2, Name: "Porto"}))
	assert.Len(t, s.Destinations(), 2)

	removed, ok := s.RemoveDestination(ctx, 1)
	require.True(t, ok)
	assert.Equal(t, "Lisbon", removed.Name)
	assert.False(t, s.IsDestinationPresent(1))
	assert.True(t, s.IsDestinationPresent(2))
}

func TestObserverSeesEffectiveMutationsOnly(t *testing.T) {
	ctx := context.Background()
	var events []string
	s := Load(ctx, kv.NewMemoryStore(), zerolog.Nop(), WithObserver(func(collection, op string) {
		events = append(events, collection+":"+op)
	}))

	s.AddTour(ctx, Tour{ID: 1})
	s.AddTour(ctx, Tour{ID: 1})
	s.RemoveTour(ctx, 1)
	s.RemoveTour(ctx, 1)
	s.AddDestination(ctx, Destination{ID: 1})

	assert.Equal(t, []string{"tours:add", "tours:remove", "destinations:add"}, events)
}

func TestScopedStoragesAreIsolated(t *testing.T) {
	ctx := context.Background()
	backend := kv.NewMemoryStore()

	alice := Load(ctx, kv.Scoped(backend, kv.VisitorNamespace("alice")), zerolog.Nop())
	alice.AddTour(ctx, Tour{ID: 1})

	bob := Load(ctx, kv.Scoped(backend, kv.VisitorNamespace("bob")), zerolog.Nop())
	assert.Empty(t, bob.Tours())

	again := Load(ctx, kv.Scoped(backend, kv.VisitorNamespace("alice")), zerolog.Nop())
	assert.True(t, again.IsTourPresent(1))
}
