// ArtPass - Taipei Cultural Event Discovery and Venue Maps
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/artpass

package supervisor

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
)

// stubService is a controllable suture.Service for tree tests.
type stubService struct {
	name       string
	startCount atomic.Int32
	stopCount  atomic.Int32
	failCount  atomic.Int32

	mu       sync.Mutex
	maxFails int32
	err      error
}

func newStubService(name string) *stubService {
	return &stubService{name: name}
}

func (s *stubService) Serve(ctx context.Context) error {
	s.startCount.Add(1)
	defer s.stopCount.Add(1)

	s.mu.Lock()
	err := s.err
	maxFails := s.maxFails
	s.mu.Unlock()

	if maxFails > 0 && s.failCount.Add(1) <= maxFails {
		return errors.New("simulated failure")
	}
	if err != nil {
		return err
	}

	<-ctx.Done()
	return ctx.Err()
}

func (s *stubService) setError(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.err = err
}

func (s *stubService) setFailCount(n int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.maxFails = int32(n)
}

func (s *stubService) String() string { return s.name }
