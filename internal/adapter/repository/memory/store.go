// Package memory keeps every billing table in process memory. Transactions are
// serialized and only become visible on commit.
package memory

import (
	"context"
	"errors"
	"maps"
	"sort"
	"sync"
	"time"

	"github.com/iho/gobilling/internal/domain"
	"github.com/iho/gobilling/internal/usecase"
)

var (
	// ErrTxDone is returned when a finished transaction is committed again.
	ErrTxDone = errors.New("memory: transaction already finished")
	// ErrNoTx is returned when a write is attempted outside a writable
	// transaction of this store.
	ErrNoTx = errors.New("memory: write requires a transaction from this store")
)

// tables is one version of every table. A version is never modified after it
// has been committed.
type tables struct {
	accounts     map[string]domain.Account
	charges      map[string]domain.Charge
	transactions map[string]domain.Transaction
	invoices     map[string]domain.Invoice
	cards        map[string]domain.CreditCard
	outbox       map[string]domain.OutboxEvent
}

func (t *tables) clone() *tables {
	return &tables{
		accounts:     maps.Clone(t.accounts),
		charges:      maps.Clone(t.charges),
		transactions: maps.Clone(t.transactions),
		invoices:     maps.Clone(t.invoices),
		cards:        maps.Clone(t.cards),
		outbox:       maps.Clone(t.outbox),
	}
}

// Store holds the committed version of all tables. A transaction writes to a
// private copy that replaces the committed version on Commit, so reads outside
// a transaction only ever see committed data. Writers hold the single slot in
// sem until they finish.
type Store struct {
	sem chan struct{}

	mu        sync.RWMutex
	committed *tables
}

// New creates an empty Store.
func New() *Store {
	return &Store{
		sem: make(chan struct{}, 1),
		committed: &tables{
			accounts:     make(map[string]domain.Account),
			charges:      make(map[string]domain.Charge),
			transactions: make(map[string]domain.Transaction),
			invoices:     make(map[string]domain.Invoice),
			cards:        make(map[string]domain.CreditCard),
			outbox:       make(map[string]domain.OutboxEvent),
		},
	}
}

// Ping always succeeds.
func (s *Store) Ping(_ context.Context) error {
	return nil
}

func (s *Store) snapshot() *tables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.committed
}

// TxManager implements usecase.TransactionManager over a Store.
type TxManager struct {
	store *Store
}

// NewTxManager creates a new TxManager.
func NewTxManager(store *Store) *TxManager {
	return &TxManager{store: store}
}

// Begin waits for the writer slot or for ctx to end.
func (m *TxManager) Begin(ctx context.Context) (usecase.Transaction, error) {
	return m.store.begin(ctx)
}

// BeginSnapshot starts a read-only transaction over the committed version. It
// does not wait for writers.
func (m *TxManager) BeginSnapshot(ctx context.Context) (usecase.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return &Tx{store: m.store, data: m.store.snapshot(), readOnly: true}, nil
}

func (s *Store) begin(ctx context.Context) (*Tx, error) {
	select {
	case s.sem <- struct{}{}:
		return &Tx{store: s, data: s.snapshot().clone()}, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// autocommit runs fn in its own transaction.
func (s *Store) autocommit(ctx context.Context, fn func(data *tables) error) error {
	t, err := s.begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = t.Rollback(ctx) }()

	if err := fn(t.data); err != nil {
		return err
	}
	return t.Commit(ctx)
}

// Tx is a serialized transaction over a private copy of the tables.
type Tx struct {
	store    *Store
	data     *tables
	readOnly bool
	done     bool
}

// Commit publishes the changes and releases the writer slot.
func (t *Tx) Commit(_ context.Context) error {
	if t.done {
		return ErrTxDone
	}
	t.done = true
	if t.readOnly {
		return nil
	}

	t.store.mu.Lock()
	t.store.committed = t.data
	t.store.mu.Unlock()

	t.data = nil
	<-t.store.sem
	return nil
}

// Rollback discards the changes and releases the writer slot. It is a no-op on
// a finished transaction.
func (t *Tx) Rollback(_ context.Context) error {
	if t.done {
		return nil
	}
	t.done = true
	t.data = nil
	if !t.readOnly {
		<-t.store.sem
	}
	return nil
}

// txFrom returns the writable transaction behind tx.
func (s *Store) txFrom(tx usecase.Transaction) (*Tx, error) {
	t, ok := tx.(*Tx)
	if !ok || t == nil || t.store != s || t.done || t.readOnly {
		return nil, ErrNoTx
	}
	return t, nil
}

// read returns the tables a query sees: the transaction's own copy, or the
// committed version when tx is nil.
func (s *Store) read(tx usecase.Transaction) (*tables, error) {
	if tx == nil {
		return s.snapshot(), nil
	}
	t, ok := tx.(*Tx)
	if !ok || t == nil || t.store != s || t.done {
		return nil, ErrNoTx
	}
	return t.data, nil
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}

func sortByCreated[T any](items []T, key func(T) (time.Time, string)) {
	sort.Slice(items, func(i, j int) bool {
		ti, idi := key(items[i])
		tj, idj := key(items[j])
		if ti.Equal(tj) {
			return idi < idj
		}
		return ti.Before(tj)
	})
}

func cloneStringPtr(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
