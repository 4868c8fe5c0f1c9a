package persist

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/tgienger/planboard/internal/codec"
	"github.com/tgienger/planboard/internal/db"
	"github.com/tgienger/planboard/internal/models"
)

// memKV is an in-memory KV whose writes can be made to fail
type memKV struct {
	mu       sync.Mutex
	values   map[string]string
	failSets int // upcoming Set calls that fail; negative fails forever
	failGets bool
	setCalls int
}

func newMemKV() *memKV {
	return &memKV{values: map[string]string{}}
}

func (m *memKV) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.failGets {
		return "", false, errors.New("disk unplugged")
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memKV) Set(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setCalls++
	if m.failSets != 0 {
		if m.failSets > 0 {
			m.failSets--
		}
		return errors.New("quota exceeded")
	}
	m.values[key] = value
	return nil
}

func (m *memKV) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.values, key)
	return nil
}

func snapshotWithTask(text string) models.Snapshot {
	s := models.NewSnapshot()
	s.Tasks = []models.Task{{ID: 1, Text: text, SubTasks: []models.SubTask{}}}
	s.Milestones = []models.Milestone{{ID: 2, Title: "m", DueDate: time.Date(2025, 5, 5, 0, 0, 0, 0, time.UTC)}}
	return s
}

func TestPersistLoad(t *testing.T) {
	ctx := context.Background()
	g := NewGateway(newMemKV(), nil)

	_, ok, err := g.Load(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	want := snapshotWithTask("first")
	require.NoError(t, g.Persist(ctx, want))
	require.NoError(t, g.Persist(ctx, snapshotWithTask("second")))

	got, ok, err := g.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "second", got.Tasks[0].Text)
	assert.Equal(t, want.Milestones, got.Milestones)
}

func TestPersist_WithSQLite(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenFile(":memory:")
	require.NoError(t, err)
	defer database.Close()

	g := NewGateway(database, nil)
	want := snapshotWithTask("sqlite")
	require.NoError(t, g.Persist(ctx, want))

	got, ok, err := g.Load(ctx)
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, want, got)
}

func TestPersist_RetriesTransientFailures(t *testing.T) {
	kv := newMemKV()
	kv.failSets = 1
	g := NewGateway(kv, nil)

	require.NoError(t, g.Persist(context.Background(), snapshotWithTask("eventually")))
	assert.Equal(t, 2, kv.setCalls)
}

func TestPersist_ReportsStorageUnavailable(t *testing.T) {
	kv := newMemKV()
	kv.failSets = -1
	g := NewGateway(kv, nil)

	err := g.Persist(context.Background(), snapshotWithTask("lost"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrStorageUnavailable)

	var storageErr *StorageError
	require.True(t, errors.As(err, &storageErr))
	assert.Equal(t, ProjectKey, storageErr.Key)
}

func TestLoad_ReadFailure(t *testing.T) {
	kv := newMemKV()
	kv.failGets = true
	_, _, err := NewGateway(kv, nil).Load(context.Background())
	assert.ErrorIs(t, err, ErrStorageUnavailable)
}

func TestLoad_DecodeFailureIsSurfaced(t *testing.T) {
	kv := newMemKV()
	kv.values[ProjectKey] = `{"tasks": [`
	_, ok, err := NewGateway(kv, nil).Load(context.Background())
	assert.False(t, ok)
	assert.ErrorIs(t, err, codec.ErrDecode)
}

func TestLoad_LegacyKeys(t *testing.T) {
	kv := newMemKV()
	kv.values[codec.KeyTasks] = `[{"id": 1, "text": "old", "completed": true, "subTasks": []}]`
	kv.values[codec.KeyEvents] = `[{"id": 2, "title": "e", "start": "2022-01-01T10:00:00.000Z", "end": "2022-01-01T11:00:00.000Z"}]`

	got, ok, err := NewGateway(kv, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old", got.Tasks[0].Text)
	assert.Equal(t, time.Date(2022, 1, 1, 10, 0, 0, 0, time.UTC), got.Events[0].Start)
	assert.Empty(t, got.Ideas)

	// the legacy layout is rewritten once under the composite key
	assert.Contains(t, kv.values, ProjectKey)
	assert.NotContains(t, kv.values, codec.KeyTasks)
	assert.NotContains(t, kv.values, codec.KeyEvents)

	again, ok, err := NewGateway(kv, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, got, again)
}

func TestLoad_LegacyKeysKeptWhenMigrationFails(t *testing.T) {
	kv := newMemKV()
	kv.values[codec.KeyTasks] = `[{"id": 1, "text": "old", "subTasks": []}]`
	kv.failSets = -1

	got, ok, err := NewGateway(kv, nil).Load(context.Background())
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, "old", got.Tasks[0].Text)
	assert.Contains(t, kv.values, codec.KeyTasks)
	assert.NotContains(t, kv.values, ProjectKey)
}

func TestLoad_LegacyMigrationWithSQLite(t *testing.T) {
	ctx := context.Background()
	database, err := db.OpenFile(":memory:")
	require.NoError(t, err)
	defer database.Close()
	require.NoError(t, database.Set(ctx, codec.KeyIdeas, `[{"id": 3, "title": "i", "description": "", "tags": ["x"]}]`))

	_, ok, err := NewGateway(database, nil).Load(ctx)
	require.NoError(t, err)
	require.True(t, ok)

	_, found, err := database.Get(ctx, codec.KeyIdeas)
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = database.Get(ctx, ProjectKey)
	require.NoError(t, err)
	assert.True(t, found)
}

func TestLoad_CompositeKeyWins(t *testing.T) {
	kv := newMemKV()
	kv.values[codec.KeyTasks] = `[{"id": 1, "text": "legacy"}]`
	kv.values[ProjectKey] = `{"tasks": [{"id": 2, "text": "current"}]}`

	got, _, err := NewGateway(kv, nil).Load(context.Background())
	require.NoError(t, err)
	require.Len(t, got.Tasks, 1)
	assert.Equal(t, "current", got.Tasks[0].Text)
}

func TestDefaultExportFilename(t *testing.T) {
	at := time.Date(2025, 2, 7, 8, 9, 10, 0, time.Local)
	name := DefaultExportFilename(at)

	assert.Equal(t, "project-2025-02-07-08-09-10.json", name)
	assert.Regexp(t, regexp.MustCompile(`^project-\d{4}-\d{2}-\d{2}-\d{2}-\d{2}-\d{2}\.json$`), name)
	assert.False(t, strings.ContainsAny(name, `:/\*?"<>|`))
}

func TestSaveAsFilename(t *testing.T) {
	cases := map[string]string{
		"roadmap":          "roadmap.json",
		"roadmap.json":     "roadmap.json",
		"  q3: plan  ":     "q3- plan.json",
		"../../etc/passwd": "-..-etc-passwd.json",
	}
	for in, want := range cases {
		got, err := SaveAsFilename(in)
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	for _, bad := range []string{"", "   ", "..", ".json"} {
		_, err := SaveAsFilename(bad)
		assert.ErrorIs(t, err, ErrInvalidFilename, bad)
	}
}

func TestExportImport(t *testing.T) {
	path := filepath.Join(t.TempDir(), "exports", "p.json")
	want := snapshotWithTask("exported")

	require.NoError(t, ExportToFile(want, path))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \"tasks\": [")

	got, err := ImportFile(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}

func TestImportFile_Errors(t *testing.T) {
	dir := t.TempDir()

	_, err := ImportFile(filepath.Join(dir, "missing.json"))
	assert.Error(t, err)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("not json"), 0600))
	_, err = ImportFile(bad)
	assert.ErrorIs(t, err, codec.ErrDecode)
	assert.Contains(t, err.Error(), "bad.json")
}
