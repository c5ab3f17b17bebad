// Package observe keeps query results in step with committed store changes.
// Each tracked query declares the entity kinds it reads; after a commit only
// the queries reading a changed kind are run again.
package observe

import (
	"context"
	"sync"

	"github.com/tgienger/gtd/internal/db"
	"github.com/tgienger/gtd/internal/logging"
)

type tracked interface {
	Name() string
	dependsOn(kinds map[db.Kind]bool) bool
	Refresh(ctx context.Context)
}

type Bridge struct {
	ctx        context.Context
	dispatcher Dispatcher
	onError    func(query string, err error)
	l          logging.Logger

	mu          sync.Mutex
	queries     []tracked
	unsubscribe func()
}

type Option func(*Bridge)

// WithDispatcher sets where requeries run. The default is Inline.
func WithDispatcher(d Dispatcher) Option {
	return func(b *Bridge) { b.dispatcher = d }
}

// WithErrorHandler is called once for every failed requery
func WithErrorHandler(fn func(query string, err error)) Option {
	return func(b *Bridge) { b.onError = fn }
}

func WithLogger(l logging.Logger) Option {
	return func(b *Bridge) { b.l = l }
}

// WithContext sets the context requeries run with
func WithContext(ctx context.Context) Option {
	return func(b *Bridge) { b.ctx = ctx }
}

// NewBridge subscribes to the store's change feed
func NewBridge(store *db.Store, opts ...Option) *Bridge {
	b := &Bridge{
		ctx:        context.Background(),
		dispatcher: Inline{},
		onError:    func(string, error) {},
		l:          logging.Discard(),
	}
	for _, opt := range opts {
		opt(b)
	}

	b.unsubscribe = store.Feed().Subscribe(func(cs db.ChangeSet) {
		b.dispatcher.Dispatch(func() { b.apply(cs) })
	})
	return b
}

// Close stops listening for commits
func (b *Bridge) Close() {
	b.unsubscribe()
}

func (b *Bridge) add(q tracked) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.queries = append(b.queries, q)
}

// apply requeries every tracked query that reads a kind in cs
func (b *Bridge) apply(cs db.ChangeSet) {
	kinds := cs.Kinds()

	b.mu.Lock()
	queries := make([]tracked, 0, len(b.queries))
	for _, q := range b.queries {
		if q.dependsOn(kinds) {
			queries = append(queries, q)
		}
	}
	b.mu.Unlock()

	b.l.Debug("commit observed", "kinds", kinds, "requeries", len(queries))
	for _, q := range queries {
		q.Refresh(b.ctx)
	}
}
