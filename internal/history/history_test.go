package history

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/store"
)

type recordingSaver struct {
	saved []models.Snapshot
	err   error
}

func (r *recordingSaver) Persist(_ context.Context, s models.Snapshot) error {
	if r.err != nil {
		return r.err
	}
	r.saved = append(r.saved, s)
	return nil
}

func addTask(text string, id int64) Mutation {
	return func(s models.Snapshot) (models.Snapshot, error) {
		tasks, _, err := store.AddTask(s.Tasks, id, text, "")
		if err != nil {
			return s, err
		}
		s.Tasks = tasks
		return s, nil
	}
}

func newManager(opts ...Option) (*Manager, *store.Store, *recordingSaver) {
	st := store.New()
	saver := &recordingSaver{}
	return NewManager(st, saver, opts...), st, saver
}

func TestUndoRedoInverse(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager()

	states := []models.Snapshot{st.Snapshot()}
	for i := 1; i <= 5; i++ {
		require.NoError(t, m.Perform(ctx, "add", addTask(fmt.Sprintf("task %d", i), int64(i))))
		states = append(states, st.Snapshot())
	}

	for i := 5; i >= 1; i-- {
		ok, err := m.Undo(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, states[i-1], st.Snapshot())
	}
	ok, err := m.Undo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	for i := 1; i <= 5; i++ {
		ok, err := m.Redo(ctx)
		require.NoError(t, err)
		require.True(t, ok)
		assert.Equal(t, states[i], st.Snapshot())
	}
	ok, err = m.Redo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestPerformClearsRedo(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager()

	require.NoError(t, m.Perform(ctx, "add", addTask("one", 1)))
	require.NoError(t, m.Perform(ctx, "add", addTask("two", 2)))
	_, err := m.Undo(ctx)
	require.NoError(t, err)
	assert.True(t, m.CanRedo())

	require.NoError(t, m.Perform(ctx, "add", addTask("three", 3)))
	assert.False(t, m.CanRedo())

	ok, err := m.Redo(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	tasks := st.Snapshot().Tasks
	require.Len(t, tasks, 2)
	assert.Equal(t, "three", tasks[1].Text)
}

func TestRejectedMutationPushesNothing(t *testing.T) {
	ctx := context.Background()
	m, st, saver := newManager()

	err := m.Perform(ctx, "add", addTask("   ", 1))
	assert.ErrorIs(t, err, store.ErrValidation)

	undo, redo := m.Depth()
	assert.Zero(t, undo)
	assert.Zero(t, redo)
	assert.Empty(t, st.Snapshot().Tasks)
	assert.Empty(t, saver.saved)
}

func TestNoChangeIsSilent(t *testing.T) {
	m, _, saver := newManager()
	err := m.Perform(context.Background(), "toggle", func(s models.Snapshot) (models.Snapshot, error) {
		return s, ErrNoChange
	})
	require.NoError(t, err)
	assert.False(t, m.CanUndo())
	assert.Empty(t, saver.saved)
}

func TestMutationCannotAliasHistory(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager()
	require.NoError(t, m.Perform(ctx, "add", addTask("original", 1)))

	require.NoError(t, m.Perform(ctx, "rename in place", func(s models.Snapshot) (models.Snapshot, error) {
		s.Tasks[0].Text = "renamed"
		return s, nil
	}))
	assert.Equal(t, "renamed", st.Snapshot().Tasks[0].Text)

	_, err := m.Undo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "original", st.Snapshot().Tasks[0].Text)
}

func TestLimitDropsOldest(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager(WithLimit(2))

	for i := 1; i <= 4; i++ {
		require.NoError(t, m.Perform(ctx, "add", addTask(fmt.Sprintf("task %d", i), int64(i))))
	}
	undo, _ := m.Depth()
	assert.Equal(t, 2, undo)

	for m.CanUndo() {
		_, err := m.Undo(ctx)
		require.NoError(t, err)
	}
	// the two oldest steps fell off, so undo bottoms out at two tasks
	assert.Len(t, st.Snapshot().Tasks, 2)
}

func TestStorageFailureKeepsCommit(t *testing.T) {
	ctx := context.Background()
	st := store.New()
	saver := &recordingSaver{err: &persist.StorageError{Op: "write", Key: persist.ProjectKey, Err: errors.New("full")}}
	m := NewManager(st, saver)

	err := m.Perform(ctx, "add", addTask("kept", 1))
	assert.ErrorIs(t, err, persist.ErrStorageUnavailable)
	assert.Len(t, st.Snapshot().Tasks, 1)
	assert.True(t, m.CanUndo())

	ok, err := m.Undo(ctx)
	assert.True(t, ok)
	assert.ErrorIs(t, err, persist.ErrStorageUnavailable)
	assert.Empty(t, st.Snapshot().Tasks)
	assert.True(t, m.CanRedo())
}

func TestUndoRedoPersist(t *testing.T) {
	ctx := context.Background()
	m, _, saver := newManager()

	require.NoError(t, m.Perform(ctx, "add", addTask("one", 1)))
	_, err := m.Undo(ctx)
	require.NoError(t, err)
	_, err = m.Redo(ctx)
	require.NoError(t, err)

	require.Len(t, saver.saved, 3)
	assert.Len(t, saver.saved[0].Tasks, 1)
	assert.Empty(t, saver.saved[1].Tasks)
	assert.Len(t, saver.saved[2].Tasks, 1)
}

func TestNewProject(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager()
	require.NoError(t, m.Perform(ctx, "add", addTask("one", 1)))

	require.NoError(t, m.NewProject(ctx, false))
	assert.Len(t, st.Snapshot().Tasks, 1)

	require.NoError(t, m.NewProject(ctx, true))
	assert.True(t, st.Snapshot().IsEmpty())

	_, err := m.Undo(ctx)
	require.NoError(t, err)
	assert.Len(t, st.Snapshot().Tasks, 1)
}

func TestSubscribersSeeEveryCommit(t *testing.T) {
	ctx := context.Background()
	m, st, _ := newManager()

	var counts []int
	st.Subscribe(func(s models.Snapshot) { counts = append(counts, len(s.Tasks)) })

	require.NoError(t, m.Perform(ctx, "add", addTask("one", 1)))
	_, err := m.Undo(ctx)
	require.NoError(t, err)
	_, err = m.Redo(ctx)
	require.NoError(t, err)

	assert.Equal(t, []int{1, 0, 1}, counts)
}
