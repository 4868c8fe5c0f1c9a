// Package persist moves encoded snapshots between memory, the durable
// key/value store, and exported JSON files.
package persist

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/felixgeelhaar/fortify/retry"
	"github.com/tgienger/planboard/internal/codec"
	"github.com/tgienger/planboard/internal/models"
)

// ProjectKey is the composite durable key holding the whole snapshot
const ProjectKey = "projectData"

// ErrStorageUnavailable is matched by every StorageError
var ErrStorageUnavailable = errors.New("storage unavailable")

// StorageError reports a durable store that could not be read or written
type StorageError struct {
	Op  string
	Key string
	Err error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s %s: %v", e.Op, e.Key, e.Err)
}

func (e *StorageError) Unwrap() []error {
	return []error{ErrStorageUnavailable, e.Err}
}

// KV is the durable key/value store. Set must replace the value atomically.
type KV interface {
	Get(ctx context.Context, key string) (string, bool, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// Gateway persists snapshots to a KV store
type Gateway struct {
	kv          KV
	retryConfig retry.Config
	logger      *slog.Logger
}

// NewGateway wraps a KV store. A nil logger means slog.Default().
func NewGateway(kv KV, logger *slog.Logger) *Gateway {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gateway{
		kv: kv,
		retryConfig: retry.Config{
			MaxAttempts:   3,
			InitialDelay:  10 * time.Millisecond,
			BackoffPolicy: retry.BackoffExponential,
		},
		logger: logger,
	}
}

// Persist encodes the snapshot and overwrites the composite key
func (g *Gateway) Persist(ctx context.Context, s models.Snapshot) error {
	data, err := codec.Encode(s)
	if err != nil {
		return fmt.Errorf("encode %s: %w", ProjectKey, err)
	}

	retryer := retry.New[struct{}](g.retryConfig)
	_, err = retryer.Do(ctx, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, g.kv.Set(ctx, ProjectKey, string(data))
	})
	if err != nil {
		g.logger.Error("persist failed", "key", ProjectKey, "error", err)
		return &StorageError{Op: "write", Key: ProjectKey, Err: err}
	}

	g.logger.Debug("persisted snapshot", "key", ProjectKey, "bytes", len(data))
	return nil
}

// Load reads the composite key, falling back to the legacy per-collection
// keys. ok is false when nothing was ever stored.
func (g *Gateway) Load(ctx context.Context) (models.Snapshot, bool, error) {
	value, found, err := g.get(ctx, ProjectKey)
	if err != nil {
		return models.Snapshot{}, false, err
	}
	if found {
		s, err := codec.Decode([]byte(value))
		if err != nil {
			return models.Snapshot{}, false, fmt.Errorf("load %s: %w", ProjectKey, err)
		}
		return s, true, nil
	}

	legacy := make(map[string]string)
	for _, key := range codec.CollectionKeys {
		value, found, err := g.get(ctx, key)
		if err != nil {
			return models.Snapshot{}, false, err
		}
		if found {
			legacy[key] = value
		}
	}
	if len(legacy) == 0 {
		return models.Snapshot{}, false, nil
	}

	g.logger.Info("loading legacy per-collection keys", "count", len(legacy))
	s, err := codec.DecodeCollections(legacy)
	if err != nil {
		return models.Snapshot{}, false, fmt.Errorf("load legacy collections: %w", err)
	}
	g.migrate(ctx, s, legacy)
	return s, true, nil
}

// migrate rewrites legacy collections under the composite key and removes
// the old keys. On failure the legacy keys stay and the next Load retries.
func (g *Gateway) migrate(ctx context.Context, s models.Snapshot, legacy map[string]string) {
	if err := g.Persist(ctx, s); err != nil {
		g.logger.Warn("legacy migration skipped", "error", err)
		return
	}
	for key := range legacy {
		if err := g.kv.Delete(ctx, key); err != nil {
			g.logger.Warn("remove legacy key", "key", key, "error", err)
		}
	}
	g.logger.Info("migrated legacy collections", "key", ProjectKey)
}

type lookup struct {
	value string
	found bool
}

func (g *Gateway) get(ctx context.Context, key string) (string, bool, error) {
	retryer := retry.New[lookup](g.retryConfig)
	res, err := retryer.Do(ctx, func(ctx context.Context) (lookup, error) {
		value, found, err := g.kv.Get(ctx, key)
		return lookup{value: value, found: found}, err
	})
	if err != nil {
		return "", false, &StorageError{Op: "read", Key: key, Err: err}
	}
	return res.value, res.found, nil
}
