package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"github.com/tgienger/planboard/internal/config"
	"github.com/tgienger/planboard/internal/db"
	"github.com/tgienger/planboard/internal/db/badgerkv"
	"github.com/tgienger/planboard/internal/history"
	"github.com/tgienger/planboard/internal/logging"
	"github.com/tgienger/planboard/internal/persist"
	"github.com/tgienger/planboard/internal/project"
	"github.com/tgienger/planboard/internal/store"
)

// Session is an opened project with everything it depends on
type Session struct {
	Config   *config.Config
	Service  *project.Service
	Settings persist.KV
	Logger   *slog.Logger

	closers []io.Closer
}

// Close releases storage and the log file
func (s *Session) Close() error {
	var errs []error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// globalFlags are the persistent flags shared by every command
type globalFlags struct {
	configPath string
	dataDir    string
	backend    string
}

// loadConfig reads the config file and layers flag overrides on top
func loadConfig(flags globalFlags) (*config.Config, error) {
	path := flags.configPath
	if path == "" {
		p, err := config.DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	cfg, err := config.Load(path)
	if err != nil {
		return nil, NewCLIError("invalid configuration", "Fix "+path+" or the PLANBOARD_* environment", err)
	}
	if flags.dataDir != "" {
		cfg.DataDir = flags.dataDir
	}
	if flags.backend != "" {
		cfg.Backend = flags.backend
	}
	if err := cfg.Validate(); err != nil {
		return nil, NewCLIError("invalid flags", "--backend takes sqlite or badger", err)
	}
	return cfg, nil
}

// openKV opens the configured storage backend
func openKV(cfg *config.Config, logger *slog.Logger) (persist.KV, io.Closer, error) {
	switch cfg.Backend {
	case config.BackendBadger:
		kv, err := badgerkv.Open(badgerkv.Config{
			Path:       filepath.Join(cfg.DataDir, "badger"),
			SyncWrites: true,
			Logger:     logger,
		})
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	default:
		kv, err := db.Open(cfg.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return kv, kv, nil
	}
}

// openSession wires storage, history and the project service, then restores
// the stored project
func openSession(ctx context.Context, flags globalFlags) (*Session, error) {
	cfg, err := loadConfig(flags)
	if err != nil {
		return nil, err
	}

	logger, logFile, err := logging.NewFile(cfg.LogPath(), logging.Options{Level: cfg.Log.Level, Format: cfg.Log.Format})
	if err != nil {
		return nil, NewCLIError("cannot open log file", "Check permissions on "+cfg.DataDir, err)
	}
	sess := &Session{Config: cfg, Logger: logger, closers: []io.Closer{logFile}}

	kv, kvCloser, err := openKV(cfg, logger)
	if err != nil {
		sess.Close()
		return nil, NewCLIError(fmt.Sprintf("cannot open %s storage", cfg.Backend), "Check that "+cfg.DataDir+" is writable and not in use", err)
	}
	sess.closers = append(sess.closers, kvCloser)
	sess.Settings = kv

	st := store.New()
	gw := persist.NewGateway(kv, logger)
	hist := history.NewManager(st, gw, history.WithLimit(cfg.History.Limit), history.WithLogger(logger))
	sess.Service = project.New(st, hist, gw, store.NewIDGenerator(nil), logger)

	if err := sess.Service.Open(ctx); err != nil {
		sess.Close()
		return nil, MapError(err)
	}
	logger.Info("session opened", "backend", cfg.Backend, "data_dir", cfg.DataDir)
	return sess, nil
}
