// Package repository holds the validated operations over tasks, projects,
// areas and tags. Every repository in one process shares a single
// db.Session and is meant to be called from one goroutine.
package repository

import (
	"context"
	"errors"
	"time"

	"github.com/tgienger/gtd/internal/apperr"
	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/logging"
	"github.com/tgienger/gtd/internal/reminder"
)

var ErrNotFound = errors.New("not found")

// Base is the generic fetch/save/delete over one entity kind
type Base[T any] struct {
	session *db.Session
	mapper  db.Mapper[T]
	entity  apperr.Entity
}

func NewBase[T any](session *db.Session, mapper db.Mapper[T], entity apperr.Entity) *Base[T] {
	return &Base[T]{session: session, mapper: mapper, entity: entity}
}

// Fetch runs q and returns the matching entities
func (b *Base[T]) Fetch(ctx context.Context, q db.Query) ([]*T, error) {
	rows, err := db.Fetch(ctx, b.session.Store(), b.mapper, q)
	if err != nil {
		return nil, apperr.FetchFailed(b.entity, err)
	}
	return rows, nil
}

// Save commits pending changes. On failure they stay pending for a retry.
func (b *Base[T]) Save(ctx context.Context) error {
	if err := b.session.Save(ctx); err != nil {
		return apperr.SaveFailed(b.entity, err)
	}
	return nil
}

// Delete removes e and saves
func (b *Base[T]) Delete(ctx context.Context, e *T) error {
	db.Remove(b.session, b.mapper, e)
	return b.Save(ctx)
}

func (b *Base[T]) get(ctx context.Context, q db.Query) (*T, error) {
	rows, err := b.Fetch(ctx, q)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.FetchFailed(b.entity, ErrNotFound)
	}
	return rows[0], nil
}

// commit saves pending changes; on failure it puts every staged entity back
// and returns the error built by fail
func (b *Base[T]) commit(ctx context.Context, fail func(apperr.Entity, error) error) error {
	if err := b.session.Save(ctx); err != nil {
		b.session.Rollback()
		return fail(b.entity, err)
	}
	return nil
}

type options struct {
	now       func() time.Time
	scheduler reminder.Scheduler
	logger    logging.Logger
}

type Option func(*options)

// WithClock replaces time.Now
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithScheduler sets the reminder scheduler used by the task repository
func WithScheduler(s reminder.Scheduler) Option {
	return func(o *options) { o.scheduler = s }
}

func WithLogger(l logging.Logger) Option {
	return func(o *options) { o.logger = l }
}

func newOptions(opts []Option) options {
	o := options{
		now:       time.Now,
		scheduler: reminder.Nop{},
		logger:    logging.Discard(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// timestamp returns the clock's current time at storage precision
func (o options) timestamp() time.Time {
	return millis(o.now())
}

func millis(t time.Time) time.Time {
	return time.UnixMilli(t.UnixMilli())
}

func millisPtr(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := millis(*t)
	return &v
}
