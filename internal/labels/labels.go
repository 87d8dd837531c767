// Package labels remembers recently entered prompt labels so the console can
// offer them as completions.
package labels

import (
	"strings"
	"sync"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/datasync/keymarker/internal/log"
)

const (
	// DefaultTTL is how long a prompt kind's labels survive without use.
	DefaultTTL = 2 * time.Hour
	// DefaultMax is how many labels are kept per prompt kind.
	DefaultMax = 8

	cleanupInterval = 30 * time.Minute
)

// Store holds recent labels per prompt kind, newest first.
type Store struct {
	mu    sync.Mutex
	cache *gocache.Cache
	ttl   time.Duration
	max   int
}

// NewStore creates a store. Non-positive ttl or max use the defaults.
func NewStore(ttl time.Duration, max int) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if max <= 0 {
		max = DefaultMax
	}
	return &Store{
		cache: gocache.New(ttl, cleanupInterval),
		ttl:   ttl,
		max:   max,
	}
}

// Remember records label for kind, moving an existing case-insensitive match
// to the front. Blank labels are ignored.
func (s *Store) Remember(kind, label string) {
	label = strings.TrimSpace(label)
	if label == "" {
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current := s.getLocked(kind)
	next := make([]string, 0, min(len(current)+1, s.max))
	next = append(next, label)
	for _, existing := range current {
		if len(next) == s.max {
			break
		}
		if strings.EqualFold(existing, label) {
			continue
		}
		next = append(next, existing)
	}
	s.cache.Set(kind, next, s.ttl)
	log.Debug(log.CatCache, "Remembered label", "kind", kind, "label", label, "count", len(next))
}

// Recent returns kind's labels newest first. Reading refreshes the TTL.
func (s *Store) Recent(kind string) []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	labels := s.getLocked(kind)
	if len(labels) == 0 {
		return nil
	}
	s.cache.Set(kind, labels, s.ttl)
	return append([]string(nil), labels...)
}

// Forget drops every label for kind.
func (s *Store) Forget(kind string) {
	s.cache.Delete(kind)
}

// Flush drops all labels.
func (s *Store) Flush() {
	s.cache.Flush()
}

func (s *Store) getLocked(kind string) []string {
	value, found := s.cache.Get(kind)
	if !found {
		return nil
	}
	labels, ok := value.([]string)
	if !ok {
		log.Error(log.CatCache, "wrong type assertion when getting labels", "kind", kind)
		return nil
	}
	return labels
}
