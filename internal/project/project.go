// Package project is the application core: every user facing operation on
// a project goes through a Service, which commits it via the history
// manager so it can be undone.
package project

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/tgienger/planboard/internal/history"
	"github.com/tgienger/planboard/internal/models"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/store"
)

// Service composes the live store, its history and the durable gateway
type Service struct {
	store   *store.Store
	history *history.Manager
	gateway *persist.Gateway
	ids     *store.IDGenerator
	now     func() time.Time
	logger  *slog.Logger
}

// New returns a service over already constructed parts. A nil logger means
// slog.Default().
func New(st *store.Store, hist *history.Manager, gw *persist.Gateway, ids *store.IDGenerator, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if ids == nil {
		ids = store.NewIDGenerator(nil)
	}
	return &Service{
		store:   st,
		history: hist,
		gateway: gw,
		ids:     ids,
		now:     time.Now,
		logger:  logger,
	}
}

// SetClock replaces the clock used for export filenames
func (s *Service) SetClock(now func() time.Time) {
	s.now = now
}

// Open loads the durable snapshot into the store. History is untouched.
// When nothing was ever saved the store keeps its empty project.
func (s *Service) Open(ctx context.Context) error {
	snap, ok, err := s.gateway.Load(ctx)
	if err != nil {
		return fmt.Errorf("open project: %w", err)
	}
	if !ok {
		s.logger.Info("no saved project, starting empty")
		return nil
	}
	s.ids.Observe(maxID(snap))
	s.store.Replace(snap)
	s.logger.Info("project loaded", "tasks", len(snap.Tasks), "events", len(snap.Events))
	return nil
}

// Snapshot returns an independent copy of the live project
func (s *Service) Snapshot() models.Snapshot {
	return s.store.Snapshot()
}

// Subscribe registers fn for change notifications
func (s *Service) Subscribe(fn store.ChangeFunc) func() {
	return s.store.Subscribe(fn)
}

// Undo reverts the last committed change
func (s *Service) Undo(ctx context.Context) (bool, error) {
	return s.history.Undo(ctx)
}

// Redo re-applies the last undone change
func (s *Service) Redo(ctx context.Context) (bool, error) {
	return s.history.Redo(ctx)
}

// CanUndo reports whether there is anything to undo
func (s *Service) CanUndo() bool { return s.history.CanUndo() }

// CanRedo reports whether there is anything to redo
func (s *Service) CanRedo() bool { return s.history.CanRedo() }

// NewProject clears every collection once the caller has confirmed
func (s *Service) NewProject(ctx context.Context, confirmed bool) error {
	return s.history.NewProject(ctx, confirmed)
}

// Save persists the project and exports it to a timestamped file in dir.
// It returns the path written.
func (s *Service) Save(ctx context.Context, dir string) (string, error) {
	snap := s.store.Snapshot()
	if err := s.gateway.Persist(ctx, snap); err != nil {
		return "", err
	}
	path := filepath.Join(dir, persist.DefaultExportFilename(s.now()))
	if err := persist.ExportToFile(snap, path); err != nil {
		return "", err
	}
	s.logger.Info("project saved", "path", path)
	return path, nil
}

// SaveAs exports the project to dir under a user supplied name
func (s *Service) SaveAs(_ context.Context, dir, name string) (string, error) {
	filename, err := persist.SaveAsFilename(name)
	if err != nil {
		return "", err
	}
	path := filepath.Join(dir, filename)
	if err := persist.ExportToFile(s.store.Snapshot(), path); err != nil {
		return "", err
	}
	s.logger.Info("project exported", "path", path)
	return path, nil
}

// LoadFile replaces the project with the contents of an exported file. The
// replacement is undoable. A file that fails to parse changes nothing.
func (s *Service) LoadFile(ctx context.Context, path string) error {
	snap, err := persist.ImportFile(path)
	if err != nil {
		return err
	}
	s.ids.Observe(maxID(snap))
	s.logger.Info("project imported", "path", path)
	return s.history.Perform(ctx, "load file", func(models.Snapshot) (models.Snapshot, error) {
		return snap, nil
	})
}

// Export writes the project to path without touching durable storage
func (s *Service) Export(path string) error {
	return persist.ExportToFile(s.store.Snapshot(), path)
}

func maxID(snap models.Snapshot) int64 {
	var hi int64
	see := func(id int64) {
		if id > hi {
			hi = id
		}
	}
	seeTasks := func(tasks []models.Task) {
		for _, t := range tasks {
			see(t.ID)
			for _, st := range t.SubTasks {
				see(st.ID)
			}
		}
	}

	seeTasks(snap.Tasks)
	for _, e := range snap.Events {
		see(e.ID)
	}
	for _, m := range snap.Milestones {
		see(m.ID)
	}
	for _, te := range snap.TimeEntries {
		see(te.ID)
	}
	for _, b := range snap.Bugs {
		see(b.ID)
	}
	for _, g := range snap.Goals {
		see(g.ID)
		seeTasks(g.Tasks)
	}
	for _, i := range snap.Ideas {
		see(i.ID)
	}
	for _, c := range snap.CollaborationInvites {
		see(c.ID)
	}
	return hi
}
