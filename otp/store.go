// Package otp manages short-lived one-time codes for password reset and email
// verification. The in-memory store is safe for a single process only; a
// multi-instance deployment must swap in a shared backend behind the Store
// interface.
package otp

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Purposes namespace the codes so a reset code can never verify an email.
const (
	PurposeReset        = "reset"
	PurposeVerification = "verification"
)

// TTL is the validity window for a stored code.
const TTL = 10 * time.Minute

// Store holds purpose-scoped one-time codes.
type Store interface {
	Store(purpose, identifier, code string)
	Retrieve(purpose, identifier string) (string, bool)
	Consume(purpose, identifier string)
	Sweep() int
}

// Generate produces a 6-digit numeric code.
func Generate() string {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		// crypto/rand only fails on a broken platform; fall back to the clock
		n = big.NewInt(time.Now().UnixNano() % 1000000)
	}
	return fmt.Sprintf("%06d", n.Int64())
}

type entry struct {
	code      string
	expiresAt time.Time
	gen       uint64
}

type memoryStore struct {
	mu      sync.Mutex
	entries map[string]entry
	lastGen uint64

	// now is swapped in tests to simulate clock advance
	now func() time.Time
}

// NewMemoryStore returns a process-local Store with timer-driven expiry.
func NewMemoryStore() Store {
	return &memoryStore{
		entries: make(map[string]entry),
		now:     time.Now,
	}
}

func key(purpose, identifier string) string {
	return purpose + "_" + strings.ToLower(strings.TrimSpace(identifier))
}

// Store saves a code under {purpose}_{identifier} with a fresh TTL. A new code
// for the same key silently supersedes any prior unconsumed one; the old
// timer's delayed cleanup is a no-op thanks to the generation check.
func (s *memoryStore) Store(purpose, identifier, code string) {
	k := key(purpose, identifier)

	s.mu.Lock()
	s.lastGen++
	gen := s.lastGen
	s.entries[k] = entry{code: code, expiresAt: s.now().Add(TTL), gen: gen}
	s.mu.Unlock()

	time.AfterFunc(TTL, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		if e, ok := s.entries[k]; ok && e.gen == gen {
			delete(s.entries, k)
		}
	})
}

// Retrieve returns the stored code only when present and unexpired. A
// found-but-expired entry is deleted on the spot.
func (s *memoryStore) Retrieve(purpose, identifier string) (string, bool) {
	k := key(purpose, identifier)

	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.entries[k]
	if !ok {
		return "", false
	}
	if !s.now().Before(e.expiresAt) {
		delete(s.entries, k)
		return "", false
	}
	return e.code, true
}

// Consume deletes the entry after a successful verification. Single-use.
func (s *memoryStore) Consume(purpose, identifier string) {
	k := key(purpose, identifier)

	s.mu.Lock()
	delete(s.entries, k)
	s.mu.Unlock()
}

// Sweep removes expired entries and returns how many were dropped. Called by
// the cron job as a backstop for timers lost across restarts.
func (s *memoryStore) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for k, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, k)
			removed++
		}
	}
	if removed > 0 {
		zap.S().Infow("swept expired one-time codes", "removed", removed)
	}
	return removed
}
