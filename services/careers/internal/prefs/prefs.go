// Package prefs stores typed, versioned per-user preferences. Values are kept
// as a JSON envelope carrying the schema version they were written with, so a
// later release can upgrade or reject them explicitly.
package prefs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"abletech/services/careers/internal/store"
)

var ErrVersionMismatch = errors.New("stored preference has an unsupported version")

// Backend persists raw envelopes by owner and key. Load reports ok=false
// when nothing is stored.
type Backend interface {
	Load(ctx context.Context, owner, key string) (value []byte, ok bool, err error)
	Save(ctx context.Context, owner, key string, value []byte) error
	Remove(ctx context.Context, owner, key string) error
}

type envelope struct {
	Version   int             `json:"version"`
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updatedAt"`
}

// Migration upgrades the payload written by an older version to the current
// one.
type Migration func(data json.RawMessage) (json.RawMessage, error)

type Repository[T any] struct {
	backend    Backend
	key        string
	version    int
	migrations map[int]Migration
	now        func() time.Time
}

type Option[T any] func(*Repository[T])

// WithMigration registers the upgrade for envelopes written at version from.
func WithMigration[T any](from int, m Migration) Option[T] {
	return func(r *Repository[T]) { r.migrations[from] = m }
}

func WithClock[T any](now func() time.Time) Option[T] {
	return func(r *Repository[T]) { r.now = now }
}

func NewRepository[T any](backend Backend, key string, version int, opts ...Option[T]) *Repository[T] {
	r := &Repository[T]{
		backend:    backend,
		key:        key,
		version:    version,
		migrations: make(map[int]Migration),
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Repository[T]) Key() string { return r.key }

// Get returns the owner's value. ok is false when nothing is stored.
// Envelopes from another version are upgraded through the registered
// migration and written back; without one Get fails with ErrVersionMismatch.
func (r *Repository[T]) Get(ctx context.Context, owner string) (T, bool, error) {
	var zero T
	raw, ok, err := r.backend.Load(ctx, normalizeOwner(owner), r.key)
	if err != nil || !ok {
		return zero, false, err
	}

	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return zero, false, fmt.Errorf("decode %s envelope: %w", r.key, err)
	}

	data := env.Data
	if env.Version != r.version {
		migrate, found := r.migrations[env.Version]
		if !found {
			return zero, false, fmt.Errorf("%w: %s is v%d, want v%d", ErrVersionMismatch, r.key, env.Version, r.version)
		}
		if data, err = migrate(env.Data); err != nil {
			return zero, false, fmt.Errorf("migrate %s from v%d: %w", r.key, env.Version, err)
		}
	}

	var value T
	if err := json.Unmarshal(data, &value); err != nil {
		return zero, false, fmt.Errorf("decode %s: %w", r.key, err)
	}

	if env.Version != r.version {
		if err := r.Set(ctx, owner, value); err != nil {
			return zero, false, err
		}
	}
	return value, true, nil
}

func (r *Repository[T]) Set(ctx context.Context, owner string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", r.key, err)
	}
	raw, err := json.Marshal(envelope{Version: r.version, Data: data, UpdatedAt: r.now().UTC()})
	if err != nil {
		return err
	}
	return r.backend.Save(ctx, normalizeOwner(owner), r.key, raw)
}

func (r *Repository[T]) Clear(ctx context.Context, owner string) error {
	return r.backend.Remove(ctx, normalizeOwner(owner), r.key)
}

func normalizeOwner(owner string) string {
	return strings.ToLower(strings.TrimSpace(owner))
}

// StoreBackend keeps envelopes in the SQLite preferences table.
type StoreBackend struct {
	Store *store.Store
}

func (b StoreBackend) Load(ctx context.Context, owner, key string) ([]byte, bool, error) {
	raw, err := b.Store.GetPreference(ctx, owner, key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return raw, true, nil
}

func (b StoreBackend) Save(ctx context.Context, owner, key string, value []byte) error {
	return b.Store.PutPreference(ctx, owner, key, value)
}

func (b StoreBackend) Remove(ctx context.Context, owner, key string) error {
	return b.Store.DeletePreference(ctx, owner, key)
}

// MemoryBackend is a process-local Backend.
type MemoryBackend struct {
	mu     sync.RWMutex
	values map[string][]byte
}

func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{values: make(map[string][]byte)}
}

func (b *MemoryBackend) Load(_ context.Context, owner, key string) ([]byte, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	v, ok := b.values[owner+"\x00"+key]
	return v, ok, nil
}

func (b *MemoryBackend) Save(_ context.Context, owner, key string, value []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.values[owner+"\x00"+key] = append([]byte(nil), value...)
	return nil
}

func (b *MemoryBackend) Remove(_ context.Context, owner, key string) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.values, owner+"\x00"+key)
	return nil
}
