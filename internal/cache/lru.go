// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package cache

import (
	"sync"
	"time"
)

// lruEntry is a node of the recency list.
type lruEntry struct {
	key       string
	value     []byte
	prev      *lruEntry
	next      *lruEntry
	expiresAt time.Time
}

// LRUStore is a thread-safe least recently used cache with TTL support.
//
// A doubly-linked list keeps recency order and a map gives O(1) lookups.
// Expired entries are dropped lazily on access or by CleanupExpired.
type LRUStore struct {
	mu sync.Mutex

	capacity int
	ttl      time.Duration

	items map[string]*lruEntry

	// head.next is the most recently used, tail.prev the least recently used
	head *lruEntry
	tail *lruEntry

	now func() time.Time

	hits   int64
	misses int64
}

// NewLRUStore creates an LRU store with the given capacity and default TTL.
func NewLRUStore(capacity int, ttl time.Duration) *LRUStore {
	if capacity <= 0 {
		capacity = 1024
	}
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}

	s := &LRUStore{
		capacity: capacity,
		ttl:      ttl,
		items:    make(map[string]*lruEntry, capacity),
		head:     &lruEntry{},
		tail:     &lruEntry{},
		now:      time.Now,
	}
	s.head.next = s.tail
	s.tail.prev = s.head
	return s
}

// Name implements Store.
func (s *LRUStore) Name() string { return BackendMemory }

// Get implements Store. Found entries become the most recently used.
func (s *LRUStore) Get(key string) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	entry, ok := s.items[key]
	if !ok {
		s.misses++
		return nil, false
	}
	if s.now().After(entry.expiresAt) {
		s.removeEntry(entry)
		s.misses++
		return nil, false
	}

	s.moveToFront(entry)
	s.hits++
	out := make([]byte, len(entry.value))
	copy(out, entry.value)
	return out, true
}

// Set implements Store. The least recently used entry is evicted at capacity.
func (s *LRUStore) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	stored := make([]byte, len(value))
	copy(stored, value)

	s.mu.Lock()
	defer s.mu.Unlock()

	expiresAt := s.now().Add(ttl)
	if entry, ok := s.items[key]; ok {
		entry.value = stored
		entry.expiresAt = expiresAt
		s.moveToFront(entry)
		return
	}

	entry := &lruEntry{key: key, value: stored, expiresAt: expiresAt}
	s.addToFront(entry)
	s.items[key] = entry

	for len(s.items) > s.capacity {
		s.evictOldest()
	}
}

// Delete implements Store.
func (s *LRUStore) Delete(key string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.items[key]; ok {
		s.removeEntry(entry)
	}
}

// Close implements Store.
func (s *LRUStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = make(map[string]*lruEntry)
	s.head.next = s.tail
	s.tail.prev = s.head
	return nil
}

// Len returns the number of entries, expired ones included.
func (s *LRUStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

// CleanupExpired removes expired entries and returns how many were dropped.
func (s *LRUStore) CleanupExpired() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	now := s.now()
	removed := 0
	for entry := s.tail.prev; entry != s.head; {
		prev := entry.prev
		if now.After(entry.expiresAt) {
			s.removeEntry(entry)
			removed++
		}
		entry = prev
	}
	return removed
}

// Sweep implements Sweeper.
func (s *LRUStore) Sweep() int { return s.CleanupExpired() }

// Stats returns hit/miss counters and the current size.
func (s *LRUStore) Stats() (hits, misses int64, size int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.hits, s.misses, len(s.items)
}

// Internal methods (must be called with lock held)

func (s *LRUStore) addToFront(entry *lruEntry) {
	entry.prev = s.head
	entry.next = s.head.next
	s.head.next.prev = entry
	s.head.next = entry
}

func (s *LRUStore) moveToFront(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	s.addToFront(entry)
}

func (s *LRUStore) removeEntry(entry *lruEntry) {
	entry.prev.next = entry.next
	entry.next.prev = entry.prev
	delete(s.items, entry.key)
}

func (s *LRUStore) evictOldest() {
	oldest := s.tail.prev
	if oldest == s.head {
		return
	}
	s.removeEntry(oldest)
}
