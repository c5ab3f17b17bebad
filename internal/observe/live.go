package observe

import (
	"context"
	"sync"

	"github.com/tgienger/gtd/internal/db"
)

type State int

const (
	Idle State = iota
	Requerying
)

func (s State) String() string {
	if s == Requerying {
		return "requerying"
	}
	return "idle"
}

// LiveQuery holds the latest results of one fixed query
type LiveQuery[T any] struct {
	bridge *Bridge
	name   string
	deps   map[db.Kind]bool
	run    func(ctx context.Context) ([]*T, error)

	mu        sync.RWMutex
	state     State
	results   []*T
	err       error
	version   uint64
	nextObs   int
	observers map[int]func([]*T)
}

// Track registers a live query reading the given kinds and loads it once
func Track[T any](b *Bridge, name string, deps []db.Kind, run func(ctx context.Context) ([]*T, error)) *LiveQuery[T] {
	q := &LiveQuery[T]{
		bridge:    b,
		name:      name,
		deps:      make(map[db.Kind]bool, len(deps)),
		run:       run,
		observers: make(map[int]func([]*T)),
	}
	for _, k := range deps {
		q.deps[k] = true
	}

	b.add(q)
	q.Refresh(b.ctx)
	return q
}

// TrackQuery tracks a store query. It always depends on the mapper's kind.
func TrackQuery[T any](b *Bridge, store *db.Store, name string, m db.Mapper[T], query db.Query, deps ...db.Kind) *LiveQuery[T] {
	deps = append([]db.Kind{m.Kind()}, deps...)
	return Track(b, name, deps, func(ctx context.Context) ([]*T, error) {
		return db.Fetch(ctx, store, m, query)
	})
}

func (q *LiveQuery[T]) Name() string {
	return q.name
}

func (q *LiveQuery[T]) dependsOn(kinds map[db.Kind]bool) bool {
	for k := range kinds {
		if q.deps[k] {
			return true
		}
	}
	return false
}

// Refresh reruns the query and publishes the outcome. A failure publishes
// an empty result and goes to the bridge's error handler.
func (q *LiveQuery[T]) Refresh(ctx context.Context) {
	q.mu.Lock()
	q.state = Requerying
	q.mu.Unlock()

	rows, err := q.run(ctx)
	if err != nil {
		rows = []*T{}
		q.bridge.l.Warn("requery failed", "query", q.name, "error", err)
	}

	q.mu.Lock()
	q.results = rows
	q.err = err
	q.version++
	q.state = Idle
	observers := make([]func([]*T), 0, len(q.observers))
	for _, fn := range q.observers {
		observers = append(observers, fn)
	}
	q.mu.Unlock()

	if err != nil {
		q.bridge.onError(q.name, err)
	}
	for _, fn := range observers {
		fn(rows)
	}
}

func (q *LiveQuery[T]) Results() []*T {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.results
}

// Err is the error of the last run, nil if it succeeded
func (q *LiveQuery[T]) Err() error {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.err
}

func (q *LiveQuery[T]) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Version counts completed runs
func (q *LiveQuery[T]) Version() uint64 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.version
}

// Observe calls fn after every run with the new results
func (q *LiveQuery[T]) Observe(fn func([]*T)) func() {
	q.mu.Lock()
	defer q.mu.Unlock()

	id := q.nextObs
	q.nextObs++
	q.observers[id] = fn
	return func() {
		q.mu.Lock()
		defer q.mu.Unlock()
		delete(q.observers, id)
	}
}
