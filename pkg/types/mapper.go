package types

import "context"

// Mapper translates one entity type to and from rows of a single table.
// A Mapper holds no state besides its connection binding; callers may
// resolve a fresh one for every operation.
type Mapper interface {
	// All returns every entity in the table ordered by id.
	All(ctx context.Context) ([]Entity, error)

	// FindByID returns the entity with the given id.
	// Returns ErrNotFound if no row matches.
	FindByID(ctx context.Context, id int64) (Entity, error)

	// Insert writes a new row from the entity's fields and returns the
	// backend-assigned id. The entity itself is not modified.
	// Returns ErrExecFailed if the statement is rejected and ErrCommitFailed
	// if the write cannot be finalized.
	Insert(ctx context.Context, e Entity) (int64, error)

	// Update rewrites the row for e. Returns ErrUnboundEntity if e has no
	// id, ErrNotFound if no row matches and ErrUpdateFailed if the write
	// cannot be finalized.
	Update(ctx context.Context, e Entity) error

	// Delete removes the row for e. Returns ErrUnboundEntity if e has no
	// id, ErrNotFound if no row matches and ErrDeleteFailed if the write
	// cannot be finalized.
	Delete(ctx context.Context, e Entity) error
}

// Registry resolves the Mapper responsible for an entity type.
type Registry interface {
	// MapperFor returns the Mapper for the concrete type of e.
	// Returns ErrUnmappedType if no mapper is registered for it.
	MapperFor(e Entity) (Mapper, error)

	// Mapper returns the Mapper registered under typeName. Used when no
	// instance is available yet, e.g. to list every row of a type.
	// Returns ErrUnmappedType if the name is not registered.
	Mapper(typeName string) (Mapper, error)
}

// Backend is a Registry bound to a storage connection. Callers attach to a
// backend, resolve mappers, and detach when done.
type Backend interface {
	Registry

	// Attach opens the connection described by config and prepares the
	// tables. Returns ErrAlreadyAttached if called while attached.
	Attach(config Config) error

	// Detach releases the connection. Idempotent. After Detach, resolving
	// or using a mapper returns ErrDetached.
	Detach() error
}
