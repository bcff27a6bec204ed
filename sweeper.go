package main

import (
	"log"
	"sync"
	"time"
)

// TokenSweeper periodically deletes persisted refresh tokens whose signed
// payload is expired, plus anything that no longer parses at all.
type TokenSweeper struct {
	store    TokenStore
	interval time.Duration

	mu sync.Mutex // excludes overlapping passes (ticker vs. admin trigger)
}

func newTokenSweeper(store TokenStore, interval time.Duration) *TokenSweeper {
	return &TokenSweeper{store: store, interval: interval}
}

// Run sweeps on a fixed period until stop is closed.
func (s *TokenSweeper) Run(stop <-chan struct{}) {
	ticker := time.NewTicker(s.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			s.RemoveExpiredTokens()
		case <-stop:
			return
		}
	}
}

// RemoveExpiredTokens performs one synchronous sweep over a snapshot of the
// store and returns the number of records removed. Each record's outcome is
// independent: a record that fails to delete does not abort the rest.
func (s *TokenSweeper) RemoveExpiredTokens() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	tokens, err := s.store.All()
	if err != nil {
		log.Printf("token sweep: listing failed: %v", err)
		return 0
	}
	removed := 0
	for _, t := range tokens {
		if !isTokenExpired(t.Value) {
			continue
		}
		if err := s.store.Delete(t.Value); err != nil {
			continue
		}
		removed++
	}
	if removed > 0 {
		log.Printf("token sweep: removed %d expired tokens", removed)
	}
	return removed
}
