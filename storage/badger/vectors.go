package badger

import (
	"context"
	"errors"
	"log/slog"
	"sort"

	"github.com/dgraph-io/badger/v4"
	"github.com/poiesic/phrasetrack/storage"
)

// VectorCache implements storage.VectorCache for BadgerDB.
type VectorCache struct {
	backend *Backend
	owned   bool
	logger  *slog.Logger
}

var _ storage.VectorCache = (*VectorCache)(nil)

// NewVectorCache creates a vector cache on top of an open backend.
// The backend stays owned by the caller.
func NewVectorCache(backend *Backend) storage.VectorCache {
	return newVectorCache(backend, false)
}

// OpenVectorCache opens a backend at path and returns a cache that closes
// the backend on Close.
func OpenVectorCache(path string) (storage.VectorCache, error) {
	backend, err := OpenBackend(path, false)
	if err != nil {
		return nil, err
	}
	return newVectorCache(backend, true), nil
}

func newVectorCache(backend *Backend, owned bool) *VectorCache {
	return &VectorCache{
		backend: backend,
		owned:   owned,
		logger:  slog.Default().With("component", "vector-cache"),
	}
}

// GetVectors returns the cached vectors of the given texts.
func (c *VectorCache) GetVectors(ctx context.Context, model string, texts []string) (map[string][]float32, error) {
	if c.backend.IsClosed() {
		return nil, storage.ErrStorageClosed
	}
	out := make(map[string][]float32, len(texts))
	err := c.backend.WithTx(func(tx *badger.Txn) error {
		for _, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			entry, err := readVectorEntry(tx, makeVectorKey(model, text))
			if err != nil {
				return err
			}
			// hash collisions are treated as misses
			if entry == nil || entry.Text != text {
				continue
			}
			out[text] = entry.Vector
		}
		return nil
	}, false)
	if err != nil {
		return nil, err
	}

	c.logger.Debug("vector cache lookup", "model", model, "requested", len(texts), "hits", len(out))
	return out, nil
}

// PutVectors stores vectors for the given model.
func (c *VectorCache) PutVectors(ctx context.Context, model string, vectors map[string][]float32) error {
	if c.backend.IsClosed() {
		return storage.ErrStorageClosed
	}

	// deterministic write order
	texts := make([]string, 0, len(vectors))
	for text := range vectors {
		texts = append(texts, text)
	}
	sort.Strings(texts)

	err := c.backend.WriteBatch(func(wb *badger.WriteBatch) error {
		for _, text := range texts {
			if err := ctx.Err(); err != nil {
				return err
			}
			value := storage.MarshalVectorEntry(&storage.VectorEntry{Text: text, Vector: vectors[text]})
			if err := wb.Set(makeVectorKey(model, text), value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	c.logger.Debug("vector cache store", "model", model, "count", len(texts))
	return nil
}

// CountVectors returns the number of vectors cached for a model.
func (c *VectorCache) CountVectors(ctx context.Context, model string) (int, error) {
	if c.backend.IsClosed() {
		return 0, storage.ErrStorageClosed
	}
	return c.backend.CountPrefix(makeVectorModelPrefix(model))
}

// PurgeModel removes every vector cached for a model.
func (c *VectorCache) PurgeModel(ctx context.Context, model string) (int, error) {
	count, err := c.CountVectors(ctx, model)
	if err != nil {
		return 0, err
	}
	if err := c.backend.DropPrefix(makeVectorModelPrefix(model)); err != nil {
		return 0, err
	}
	c.logger.Info("purged cached vectors", "model", model, "count", count)
	return count, nil
}

// Close closes the backend if the cache opened it.
func (c *VectorCache) Close() error {
	if !c.owned || c.backend.IsClosed() {
		return nil
	}
	return c.backend.Close()
}

// readVectorEntry returns nil, nil when the key is absent.
func readVectorEntry(tx *badger.Txn, key []byte) (*storage.VectorEntry, error) {
	item, err := tx.Get(key)
	if err != nil {
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil, nil
		}
		return nil, err
	}

	var entry *storage.VectorEntry
	err = item.Value(func(val []byte) error {
		var unmarshalErr error
		entry, unmarshalErr = storage.UnmarshalVectorEntry(val)
		return unmarshalErr
	})
	return entry, err
}
