package catalog

import (
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/rs/zerolog/log"
)

const (
	imageCacheSize = 512
	imageCacheTTL  = 12 * time.Hour
)

// Store holds the last successfully hydrated exercise snapshot. Readers
// always get the full previous snapshot while a refresh is underway;
// Replace swaps the slice atomically under the lock.
type Store struct {
	mu        sync.RWMutex
	exercises []Exercise
	updatedAt time.Time

	// images caches per-name remote image lookups so repeated
	// recommendations for the same exercise avoid a network round trip.
	images *expirable.LRU[string, string]
}

// NewStore creates a store pre-populated with the static seed list so
// filtering works before the first hydration completes.
func NewStore() *Store {
	return &Store{
		exercises: SeedExercises(),
		updatedAt: time.Now().UTC(),
		images:    expirable.NewLRU[string, string](imageCacheSize, nil, imageCacheTTL),
	}
}

// Snapshot returns a copy of the current exercise list. The copy keeps a
// filtering call isolated from any Replace that lands mid-request.
func (s *Store) Snapshot() []Exercise {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Exercise, len(s.exercises))
	copy(out, s.exercises)
	return out
}

// Replace installs a freshly hydrated list. Empty lists are ignored so a
// failed refresh never wipes out the last good snapshot.
func (s *Store) Replace(exercises []Exercise) {
	if len(exercises) == 0 {
		log.Warn().Msg("Ignoring empty catalog refresh, keeping previous snapshot")
		return
	}
	s.mu.Lock()
	s.exercises = exercises
	s.updatedAt = time.Now().UTC()
	s.mu.Unlock()
	log.Info().Int("exercises", len(exercises)).Msg("Catalog snapshot replaced")
}

// Len reports the current snapshot size.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.exercises)
}

// UpdatedAt reports when the current snapshot was installed.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}

// CachedImage looks up a previously resolved image URL for an exercise name.
func (s *Store) CachedImage(name string) (string, bool) {
	return s.images.Get(name)
}

// CacheImage remembers a resolved image URL.
func (s *Store) CacheImage(name, url string) {
	s.images.Add(name, url)
}
