package db

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Mapper moves one entity type between memory and its table
type Mapper[T any] interface {
	Kind() Kind
	ID(e *T) uuid.UUID
	Clone(e *T) *T
	Select(ctx context.Context, db Executor, q Query) ([]*T, error)
	Insert(ctx context.Context, db Executor, e *T) error
	Update(ctx context.Context, db Executor, e *T) error
	Delete(ctx context.Context, db Executor, e *T) error
}

type op int

const (
	opNone op = iota
	opInsert
	opUpdate
	opDelete
)

func (o op) String() string {
	switch o {
	case opInsert:
		return "insert"
	case opUpdate:
		return "update"
	case opDelete:
		return "delete"
	}
	return "none"
}

type changeKey struct {
	kind Kind
	id   uuid.UUID
}

type change struct {
	key     changeKey
	op      op
	target  any // the staged entity pointer
	apply   func(ctx context.Context, db Executor, o op) error
	restore func() // nil when there is nothing to put back
}

// Session is a unit of work. Callers stage entities before mutating them,
// then Save writes every staged entity's current state in one transaction.
// A Session is not safe for concurrent use.
type Session struct {
	store   *Store
	pending []*change
	index   map[changeKey]*change
}

func (s *Store) NewSession() *Session {
	return &Session{
		store: s,
		index: make(map[changeKey]*change),
	}
}

func (s *Session) Store() *Store {
	return s.store
}

// Insert stages e as a new row
func Insert[T any](s *Session, m Mapper[T], e *T) {
	stage(s, m, e, opInsert)
}

// Edit stages e for update and snapshots it for Rollback. Call it before
// changing any field.
func Edit[T any](s *Session, m Mapper[T], e *T) {
	stage(s, m, e, opUpdate)
}

// Remove stages e for deletion
func Remove[T any](s *Session, m Mapper[T], e *T) {
	stage(s, m, e, opDelete)
}

func stage[T any](s *Session, m Mapper[T], e *T, o op) {
	key := changeKey{kind: m.Kind(), id: m.ID(e)}

	if c, ok := s.index[key]; ok {
		c.op = merge(c.op, o)
		// a fresh copy of a staged row replaces the one Save writes
		if c.target != any(e) {
			c.target = e
			c.apply = applier(m, e)
			if o != opInsert {
				prev, restore := c.restore, restorer(m, e)
				c.restore = func() {
					if prev != nil {
						prev()
					}
					restore()
				}
			}
		}
		return
	}

	c := &change{
		key:    key,
		op:     o,
		target: e,
		apply:  applier(m, e),
	}
	if o != opInsert {
		c.restore = restorer(m, e)
	}

	s.pending = append(s.pending, c)
	s.index[key] = c
}

func applier[T any](m Mapper[T], e *T) func(ctx context.Context, db Executor, o op) error {
	return func(ctx context.Context, db Executor, o op) error {
		switch o {
		case opInsert:
			return m.Insert(ctx, db, e)
		case opUpdate:
			return m.Update(ctx, db, e)
		case opDelete:
			return m.Delete(ctx, db, e)
		}
		return nil
	}
}

// restorer snapshots e and puts the snapshot back when called
func restorer[T any](m Mapper[T], e *T) func() {
	snapshot := m.Clone(e)
	return func() { *e = *m.Clone(snapshot) }
}

// merge folds a new staging of an already staged entity into one operation
func merge(prev, next op) op {
	switch prev {
	case opNone:
		if next == opInsert {
			return opInsert
		}
		return opNone
	case opInsert:
		if next == opDelete {
			return opNone
		}
		return opInsert
	case opUpdate:
		if next == opDelete {
			return opDelete
		}
		return opUpdate
	}
	return prev
}

// HasChanges reports whether Save has anything to write
func (s *Session) HasChanges() bool {
	for _, c := range s.pending {
		if c.op != opNone {
			return true
		}
	}
	return false
}

// Save commits all pending changes atomically and publishes the resulting
// change set. Without pending changes it does nothing. On failure the
// changes stay pending.
func (s *Session) Save(ctx context.Context) error {
	if !s.HasChanges() {
		return nil
	}

	start := time.Now()
	cs := newChangeSet()
	err := s.store.WithinTransaction(ctx, func(ctx context.Context) error {
		db := s.store.DB(ctx)
		for _, c := range s.pending {
			if c.op == opNone {
				continue
			}
			if err := c.apply(ctx, db, c.op); err != nil {
				return fmt.Errorf("%s %s %s: %w", c.op, c.key.kind, c.key.id, err)
			}
			cs.add(c.op, c.key.kind, c.key.id)
		}
		return nil
	})
	trackCommit(cs, start, err)
	if err != nil {
		s.store.l.Error("failed save", "error", err, "pending", len(s.pending))
		return err
	}

	s.store.l.Debug("saved", "changes", len(s.pending), "took", time.Since(start))
	s.reset()
	s.store.feed.Publish(cs)
	return nil
}

// Rollback discards pending changes and puts staged entities back the way
// they were when first staged
func (s *Session) Rollback() {
	for i := len(s.pending) - 1; i >= 0; i-- {
		if r := s.pending[i].restore; r != nil {
			r()
		}
	}
	s.reset()
}

func (s *Session) reset() {
	s.pending = nil
	s.index = make(map[changeKey]*change)
}
