// Package db is the persistence layer: a sqlite store with a unit of work
// that commits staged entity changes in one transaction and announces each
// commit on a change feed.
package db

import (
	"context"
	"database/sql"
	"errors"
	"time"

	txStdLib "github.com/Thiht/transactor/stdlib"

	"github.com/tgienger/gtd/internal/logging"
)

// Executor is satisfied by both *sql.DB and *sql.Tx
type Executor interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type transactor interface {
	WithinTransaction(ctx context.Context, fn func(context.Context) error) error
}

// Store wraps the database connection
type Store struct {
	conn     *sql.DB
	tx       transactor
	dbGetter func(context.Context) Executor
	feed     *Feed
	l        logging.Logger
}

func NewStore(conn *sql.DB, logger logging.Logger) *Store {
	tx, dbGetter := txStdLib.NewTransactor(conn, txStdLib.NestedTransactionsSavepoints)
	return &Store{
		conn: conn,
		tx:   tx,
		dbGetter: func(ctx context.Context) Executor {
			return dbGetter(ctx)
		},
		feed: NewFeed(),
		l:    logger,
	}
}

// DB returns the transaction bound to ctx, or the plain connection
func (s *Store) DB(ctx context.Context) Executor {
	return s.dbGetter(ctx)
}

// WithinTransaction runs fn in a transaction, or a savepoint when nested
func (s *Store) WithinTransaction(ctx context.Context, fn func(context.Context) error) error {
	return s.tx.WithinTransaction(ctx, fn)
}

// Feed announces every committed session save
func (s *Store) Feed() *Feed {
	return s.feed
}

func (s *Store) Logger() logging.Logger {
	return s.l
}

func (s *Store) Close() error {
	return s.conn.Close()
}

// Setting retrieves a setting value by key, "" when unset
func (s *Store) Setting(ctx context.Context, key string) (string, error) {
	var value string
	err := s.DB(ctx).QueryRowContext(ctx, "SELECT value FROM settings WHERE key = ?", key).Scan(&value)
	if errors.Is(err, sql.ErrNoRows) {
		return "", nil
	}
	return value, err
}

// SetSetting sets a setting value
func (s *Store) SetSetting(ctx context.Context, key, value string) error {
	_, err := s.DB(ctx).ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value
	`, key, value)
	return err
}

// Fetch runs q through m against the store
func Fetch[T any](ctx context.Context, s *Store, m Mapper[T], q Query) ([]*T, error) {
	start := time.Now()
	s.l.Debug("fetch", "kind", m.Kind(), "where", q.Where, "args", q.Args, "order", q.OrderBy)
	rows, err := m.Select(ctx, s.DB(ctx), q)
	trackQuery(m.Kind(), start, err)
	return rows, err
}
