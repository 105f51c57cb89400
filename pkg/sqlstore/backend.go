// Package sqlstore provides the public API for the SQL mapper registry.
// This package exposes the factory function for creating backends while
// keeping the mappers internal.
package sqlstore

import (
	"github.com/mesh-intelligence/registrar/internal/sqlstore"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// NewBackend creates a new backend instance.
// The backend is not attached; call Attach with a Config to initialize.
//
// Example:
//
//	backend := sqlstore.NewBackend()
//	err := backend.Attach(types.Config{
//	    Backend: types.BackendSQLite,
//	    DataDir: ".registrar-db",
//	})
//	defer backend.Detach()
func NewBackend() types.Backend {
	return sqlstore.NewBackend()
}
