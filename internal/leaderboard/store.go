// Package leaderboard holds the in-memory user ranking for the process
// lifetime. Nothing is persisted.
package leaderboard

import (
	"sort"
	"sync"
)

// DefaultLimit is the number of entries GetTop returns when no limit
// is given
const DefaultLimit = 10

// Entry is one leaderboard row
type Entry struct {
	Username string `json:"username"`
	Score    int    `json:"score"`
}

type record struct {
	score int
	seq   int
}

// Store is a mutex-guarded username → score map. Construct one per
// process and inject it; tests create isolated instances.
type Store struct {
	mu      sync.RWMutex
	records map[string]*record
	nextSeq int
}

func NewStore() *Store {
	return &Store{
		records: make(map[string]*record),
	}
}

// Upsert records a score for a user, overwriting any previous value,
// and returns the stored entry. A user keeps its original insertion
// position across updates.
func (s *Store) Upsert(username string, score int) Entry {
	s.mu.Lock()
	defer s.mu.Unlock()

	if rec, ok := s.records[username]; ok {
		rec.score = score
	} else {
		s.records[username] = &record{score: score, seq: s.nextSeq}
		s.nextSeq++
	}
	return Entry{Username: username, Score: score}
}

// GetScore returns a user's score, or 0 if the user is not ranked
func (s *Store) GetScore(username string) int {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if rec, ok := s.records[username]; ok {
		return rec.score
	}
	return 0
}

// GetTop returns up to limit entries sorted by score descending.
// Equal scores keep their insertion order. A limit of zero or less
// falls back to DefaultLimit.
func (s *Store) GetTop(limit int) []Entry {
	if limit <= 0 {
		limit = DefaultLimit
	}

	s.mu.RLock()
	type ranked struct {
		Entry
		seq int
	}
	all := make([]ranked, 0, len(s.records))
	for username, rec := range s.records {
		all = append(all, ranked{
			Entry: Entry{Username: username, Score: rec.score},
			seq:   rec.seq,
		})
	}
	s.mu.RUnlock()

	sort.Slice(all, func(i, j int) bool {
		if all[i].Score != all[j].Score {
			return all[i].Score > all[j].Score
		}
		return all[i].seq < all[j].seq
	})

	if limit > len(all) {
		limit = len(all)
	}
	top := make([]Entry, limit)
	for i := range top {
		top[i] = all[i].Entry
	}
	return top
}

// Size returns the number of ranked users
func (s *Store) Size() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Clear empties the leaderboard
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records = make(map[string]*record)
	s.nextSeq = 0
}
