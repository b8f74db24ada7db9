package core

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/jo-hoe/adscan/internal/backend/extraction"
)

// ImageReport describes the outcome of one uploaded image.
type ImageReport struct {
	Filename string `json:"filename"`
	OK       bool   `json:"ok"`
	Entries  int    `json:"entries"`
	Message  string `json:"message"`
}

// ExtractResult is the outcome of one extract request: the flattened rows
// of all images, one report per image and the rendered workbook.
type ExtractResult struct {
	ID        string
	CreatedAt time.Time
	Records   []extraction.FlatRecord
	Reports   []ImageReport
	Workbook  []byte
}

// ResultStore keeps finished extract results in memory so the workbook
// stays downloadable for a while. Entries expire after the configured TTL
// and are swept lazily on the next access. Nothing is persisted.
type ResultStore struct {
	ttl time.Duration
	now func() time.Time

	mu      sync.Mutex
	results map[string]*ExtractResult
}

// NewResultStore creates a store whose entries expire after ttl. A non
// positive ttl falls back to one hour.
func NewResultStore(ttl time.Duration) *ResultStore {
	if ttl <= 0 {
		ttl = time.Hour
	}
	return &ResultStore{
		ttl:     ttl,
		now:     time.Now,
		results: make(map[string]*ExtractResult),
	}
}

// Put stores the result under a fresh ID and returns that ID.
func (s *ResultStore) Put(result *ExtractResult) string {
	id := uuid.NewString()
	now := s.now()
	result.ID = id
	result.CreatedAt = now

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(now)
	s.results[id] = result
	return id
}

// Get returns the result stored under id, or false when the id is unknown
// or the entry expired.
func (s *ResultStore) Get(id string) (*ExtractResult, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	result, ok := s.results[id]
	return result, ok
}

// Len reports the number of unexpired results.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sweepLocked(s.now())
	return len(s.results)
}

func (s *ResultStore) sweepLocked(now time.Time) {
	for id, result := range s.results {
		if now.Sub(result.CreatedAt) > s.ttl {
			delete(s.results, id)
		}
	}
}
