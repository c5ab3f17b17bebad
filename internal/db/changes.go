package db

import (
	"slices"
	"sync"

	"github.com/google/uuid"
)

// Kind names a table of entities
type Kind string

const (
	KindTask    Kind = "task"
	KindProject Kind = "project"
	KindArea    Kind = "area"
	KindTag     Kind = "tag"
)

// ChangeSet lists the rows touched by one committed transaction
type ChangeSet struct {
	Inserted map[Kind][]uuid.UUID
	Updated  map[Kind][]uuid.UUID
	Deleted  map[Kind][]uuid.UUID
}

func newChangeSet() ChangeSet {
	return ChangeSet{
		Inserted: map[Kind][]uuid.UUID{},
		Updated:  map[Kind][]uuid.UUID{},
		Deleted:  map[Kind][]uuid.UUID{},
	}
}

func (c ChangeSet) add(o op, kind Kind, id uuid.UUID) {
	switch o {
	case opInsert:
		c.Inserted[kind] = append(c.Inserted[kind], id)
	case opUpdate:
		c.Updated[kind] = append(c.Updated[kind], id)
	case opDelete:
		c.Deleted[kind] = append(c.Deleted[kind], id)
	}
}

// Kinds returns every kind with at least one change
func (c ChangeSet) Kinds() map[Kind]bool {
	kinds := make(map[Kind]bool)
	for _, m := range []map[Kind][]uuid.UUID{c.Inserted, c.Updated, c.Deleted} {
		for k, ids := range m {
			if len(ids) > 0 {
				kinds[k] = true
			}
		}
	}
	return kinds
}

// Touches reports whether any of kinds changed
func (c ChangeSet) Touches(kinds ...Kind) bool {
	changed := c.Kinds()
	for _, k := range kinds {
		if changed[k] {
			return true
		}
	}
	return false
}

func (c ChangeSet) IsEmpty() bool {
	return len(c.Kinds()) == 0
}

// Feed fans committed change sets out to subscribers, in commit order
type Feed struct {
	mu   sync.Mutex
	next int
	subs map[int]func(ChangeSet)
}

func NewFeed() *Feed {
	return &Feed{subs: make(map[int]func(ChangeSet))}
}

// Subscribe registers fn and returns a function removing it
func (f *Feed) Subscribe(fn func(ChangeSet)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()

	id := f.next
	f.next++
	f.subs[id] = fn

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.subs, id)
	}
}

// Publish calls every subscriber synchronously on the caller's goroutine
func (f *Feed) Publish(cs ChangeSet) {
	f.mu.Lock()
	ids := make([]int, 0, len(f.subs))
	for id := range f.subs {
		ids = append(ids, id)
	}
	fns := make([]func(ChangeSet), 0, len(ids))
	slices.Sort(ids)
	for _, id := range ids {
		fns = append(fns, f.subs[id])
	}
	f.mu.Unlock()

	for _, fn := range fns {
		fn(cs)
	}
}
