// Package history records whole-project snapshots so that every committed
// mutation can be undone and redone.
package history

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/store"
)

// DefaultLimit is the undo depth used when none is configured
const DefaultLimit = 100

// ErrNoChange may be returned by a mutation that found nothing to do, such
// as a toggle of an id that no longer exists. Perform then returns nil and
// records nothing.
var ErrNoChange = errors.New("no change")

// Mutation derives the next snapshot from a private copy of the current one
type Mutation func(models.Snapshot) (models.Snapshot, error)

// Persister writes a committed snapshot to durable storage
type Persister interface {
	Persist(ctx context.Context, s models.Snapshot) error
}

// Manager owns the undo and redo stacks. It is the only writer of the
// store after startup.
type Manager struct {
	mu     sync.Mutex
	store  *store.Store
	saver  Persister
	undo   []models.Snapshot
	redo   []models.Snapshot
	limit  int
	logger *slog.Logger
}

// Option configures a Manager
type Option func(*Manager)

// WithLimit bounds the undo stack; the oldest entries are dropped first.
// Zero or less means unbounded.
func WithLimit(n int) Option {
	return func(m *Manager) { m.limit = n }
}

// WithLogger sets the logger
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// NewManager returns a manager with empty stacks
func NewManager(s *store.Store, saver Persister, opts ...Option) *Manager {
	m := &Manager{
		store:  s,
		saver:  saver,
		limit:  DefaultLimit,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Perform applies a mutation as one undoable step. A mutation error leaves
// the store and both stacks untouched. A persistence error is returned
// after the commit; the in-memory state and history still stand.
func (m *Manager) Perform(ctx context.Context, name string, mutate Mutation) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	before := m.store.Snapshot()
	after, err := mutate(before.Clone())
	if errors.Is(err, ErrNoChange) {
		return nil
	}
	if err != nil {
		m.logger.Debug("mutation rejected", "op", name, "error", err)
		return err
	}

	m.pushUndo(before)
	m.redo = nil
	m.store.Replace(after)
	m.logger.Debug("performed", "op", name, "undo", len(m.undo))

	return m.persist(ctx, name)
}

// Undo restores the previous snapshot. It reports false when there is
// nothing to undo.
func (m *Manager) Undo(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.undo) == 0 {
		return false, nil
	}
	prev := m.undo[len(m.undo)-1]
	m.undo = m.undo[:len(m.undo)-1]
	m.redo = append(m.redo, m.store.Snapshot())
	m.store.Replace(prev)

	return true, m.persist(ctx, "undo")
}

// Redo re-applies the most recently undone snapshot. It reports false when
// there is nothing to redo.
func (m *Manager) Redo(ctx context.Context) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if len(m.redo) == 0 {
		return false, nil
	}
	next := m.redo[len(m.redo)-1]
	m.redo = m.redo[:len(m.redo)-1]
	m.pushUndo(m.store.Snapshot())
	m.store.Replace(next)

	return true, m.persist(ctx, "redo")
}

// NewProject empties every collection as one undoable step. Without
// confirmation it does nothing.
func (m *Manager) NewProject(ctx context.Context, confirmed bool) error {
	if !confirmed {
		return nil
	}
	return m.Perform(ctx, "new project", func(models.Snapshot) (models.Snapshot, error) {
		return models.NewSnapshot(), nil
	})
}

// CanUndo reports whether Undo would change anything
func (m *Manager) CanUndo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo) > 0
}

// CanRedo reports whether Redo would change anything
func (m *Manager) CanRedo() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.redo) > 0
}

// Depth returns the sizes of the undo and redo stacks
func (m *Manager) Depth() (undo, redo int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.undo), len(m.redo)
}

func (m *Manager) pushUndo(s models.Snapshot) {
	m.undo = append(m.undo, s)
	if m.limit > 0 && len(m.undo) > m.limit {
		drop := len(m.undo) - m.limit
		m.undo = append(m.undo[:0:0], m.undo[drop:]...)
	}
}

func (m *Manager) persist(ctx context.Context, name string) error {
	if m.saver == nil {
		return nil
	}
	if err := m.saver.Persist(ctx, m.store.Snapshot()); err != nil {
		m.logger.Warn("committed change not saved", "op", name, "error", err)
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}
