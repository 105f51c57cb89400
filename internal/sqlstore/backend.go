// Package sqlstore implements the mapper registry and the per-entity
// mappers over a relational backend (SQLite by default, Postgres via pgx).
//
// The Backend owns the single shared connection. Mappers are constructed
// on every resolve and keep no state besides their Backend binding.
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"sort"
	"sync"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Compile-time interface check: Backend must implement types.Backend.
var _ types.Backend = (*Backend)(nil)

// sqlOpen is swapped in tests.
var sqlOpen = sql.Open

// mapperFunc constructs the mapper for one entity type bound to b.
type mapperFunc func(b *Backend) types.Mapper

// mapperConstructors is the static registration table. Adding a persistable
// entity type means adding one entry here and its table to the schema.
var mapperConstructors = map[string]mapperFunc{
	types.StudentType:  func(b *Backend) types.Mapper { return &studentsMapper{backend: b} },
	types.CourseType:   func(b *Backend) types.Mapper { return &coursesMapper{backend: b} },
	types.LanguageType: func(b *Backend) types.Mapper { return &languagesMapper{backend: b} },
}

// Backend resolves entity types to mappers bound to one connection.
type Backend struct {
	mu       sync.RWMutex
	attached bool
	config   types.Config
	dialect  dialect
	db       *sql.DB

	// begin starts the transaction each mapper write runs in.
	begin func(ctx context.Context) (txn, error)
}

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
func NewBackend() *Backend {
	return &Backend{}
}

// Attach opens the connection described by config and creates the tables
// that do not exist yet. Creates DataDir for the sqlite backend.
// Returns ErrAlreadyAttached if already attached.
func (b *Backend) Attach(config types.Config) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.attached {
		return types.ErrAlreadyAttached
	}
	if err := config.Validate(); err != nil {
		return err
	}

	d, dsn, err := dialectFor(config)
	if err != nil {
		return err
	}
	if d.name == types.BackendSQLite {
		dataDir := config.DataDir
		if dataDir == "" {
			dataDir = "."
		}
		if err := os.MkdirAll(dataDir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	db, err := sqlOpen(d.driver, dsn)
	if err != nil {
		return fmt.Errorf("open %s: %w", d.name, err)
	}
	// One shared connection, no pooling.
	db.SetMaxOpenConns(1)

	ctx := context.Background()
	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return fmt.Errorf("ping %s: %w", d.name, err)
	}
	for _, stmt := range d.schema {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			_ = db.Close()
			return fmt.Errorf("execute ddl: %w", err)
		}
	}

	b.db = db
	b.config = config
	b.dialect = d
	if b.begin == nil {
		b.begin = b.beginTx
	}
	b.attached = true
	return nil
}

// Detach closes the connection. After Detach, resolving a mapper or using
// a previously resolved one returns ErrDetached. Detach is idempotent.
func (b *Backend) Detach() error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.attached {
		return nil
	}
	b.attached = false
	if b.db != nil {
		err := b.db.Close()
		b.db = nil
		if err != nil {
			return err
		}
	}
	return nil
}

// MapperFor returns the mapper for the concrete type of e.
// Returns ErrUnmappedType if e's type is not registered.
func (b *Backend) MapperFor(e types.Entity) (types.Mapper, error) {
	if e == nil {
		return nil, types.ErrInvalidData
	}
	return b.Mapper(e.EntityType())
}

// Mapper returns the mapper registered under typeName.
// Returns ErrUnmappedType if typeName is not registered and ErrDetached if
// the backend is not attached.
func (b *Backend) Mapper(typeName string) (types.Mapper, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	if !b.attached {
		return nil, types.ErrDetached
	}
	newMapper, ok := mapperConstructors[typeName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", types.ErrUnmappedType, typeName)
	}
	return newMapper(b), nil
}

// TypeNames lists the registered entity type names in sorted order.
func (b *Backend) TypeNames() []string {
	names := make([]string, 0, len(mapperConstructors))
	for name := range mapperConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// acquire read-locks the backend for the duration of one mapper operation.
// The returned func releases the lock.
func (b *Backend) acquire() (func(), error) {
	b.mu.RLock()
	if !b.attached {
		b.mu.RUnlock()
		return nil, types.ErrDetached
	}
	return b.mu.RUnlock, nil
}
