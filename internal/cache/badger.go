// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package cache

import (
	"errors"
	"fmt"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/tomtom215/artpass/internal/logging"
)

// responseKeyPrefix namespaces cached upstream bodies.
const responseKeyPrefix = "resp:"

const (
	gcDiscardRatio = 0.5
	maxGCRounds    = 8
)

// BadgerStore implements Store on top of BadgerDB. Entry expiry uses
// Badger's native TTL so expired keys disappear at the next compaction.
type BadgerStore struct {
	db  *badger.DB
	ttl time.Duration
}

// OpenBadgerStore opens (or creates) a Badger database. With inMemory set
// the path is ignored and nothing touches the disk.
func OpenBadgerStore(path string, inMemory bool, ttl time.Duration) (*BadgerStore, error) {
	var opts badger.Options
	if inMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if path == "" {
			return nil, errors.New("badger cache requires a path unless in_memory is set")
		}
		opts = badger.DefaultOptions(path)
	}
	opts = opts.WithLogger(nil)

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger cache: %w", err)
	}
	return NewBadgerStore(db, ttl), nil
}

// NewBadgerStore wraps an already opened database.
func NewBadgerStore(db *badger.DB, ttl time.Duration) *BadgerStore {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &BadgerStore{db: db, ttl: ttl}
}

// Name implements Store.
func (s *BadgerStore) Name() string { return BackendBadger }

// Get implements Store.
func (s *BadgerStore) Get(key string) ([]byte, bool) {
	var out []byte
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(responseKeyPrefix + key))
		if err != nil {
			return err
		}
		out, err = item.ValueCopy(nil)
		return err
	})
	if err != nil {
		if !errors.Is(err, badger.ErrKeyNotFound) {
			logging.Warn().Err(err).Str("key", key).Msg("badger cache read failed")
		}
		return nil, false
	}
	return out, true
}

// Set implements Store.
func (s *BadgerStore) Set(key string, value []byte, ttl time.Duration) {
	if ttl <= 0 {
		ttl = s.ttl
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		e := badger.NewEntry([]byte(responseKeyPrefix+key), value).WithTTL(ttl)
		return txn.SetEntry(e)
	})
	if err != nil {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache write failed")
	}
}

// Delete implements Store.
func (s *BadgerStore) Delete(key string) {
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(responseKeyPrefix + key))
	})
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		logging.Warn().Err(err).Str("key", key).Msg("badger cache delete failed")
	}
}

// Sweep implements Sweeper by running value log GC until Badger reports
// nothing left to rewrite. It returns the number of rewritten log files.
func (s *BadgerStore) Sweep() int {
	rewritten := 0
	for rewritten < maxGCRounds {
		err := s.db.RunValueLogGC(gcDiscardRatio)
		if err == nil {
			rewritten++
			continue
		}
		if !errors.Is(err, badger.ErrNoRewrite) && !errors.Is(err, badger.ErrGCInMemoryMode) {
			logging.Warn().Err(err).Msg("badger value log GC failed")
		}
		break
	}
	return rewritten
}

// Close implements Store.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}
