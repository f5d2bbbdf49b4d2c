package authz_test

import (
	"context"
	"sync"

	"github.com/questlog/questlog/internal/authz"
)

// countingLookup serves owners from a map and counts invocations.
type countingLookup struct {
	mu     sync.Mutex
	owners map[int64]int64
	err    error
	calls  int
}

func newLookup(owners map[int64]int64) *countingLookup {
	return &countingLookup{owners: owners}
}

func (l *countingLookup) OwnerID(_ context.Context, id int64) (int64, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls++
	if l.err != nil {
		return 0, l.err
	}
	owner, ok := l.owners[id]
	if !ok {
		return 0, authz.ErrResourceNotFound
	}
	return owner, nil
}

func (l *countingLookup) Calls() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.calls
}

type decisionLog struct {
	mu      sync.Mutex
	entries []string
}

func (d *decisionLog) RecordDecision(kind, outcome string) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.entries = append(d.entries, kind+":"+outcome)
}
