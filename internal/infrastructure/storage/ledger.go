package storage

import (
	"sync"

	"NewsPublisher/internal/ports"
)

// MemoryLedger keeps successfully published links for the lifetime of the process.
type MemoryLedger struct {
	mu    sync.RWMutex
	links map[string]struct{}
}

var _ ports.Ledger = (*MemoryLedger)(nil)

// NewMemoryLedger builds an empty ledger.
func NewMemoryLedger() *MemoryLedger {
	return &MemoryLedger{links: map[string]struct{}{}}
}

// Contains reports whether link was recorded before.
func (l *MemoryLedger) Contains(link string) bool {
	l.mu.RLock()
	defer l.mu.RUnlock()
	_, ok := l.links[link]
	return ok
}

// Record marks link as published. Recording twice is a no-op.
func (l *MemoryLedger) Record(link string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.links[link] = struct{}{}
}

// Len returns the number of recorded links.
func (l *MemoryLedger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return len(l.links)
}
