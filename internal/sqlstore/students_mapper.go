package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Compile-time interface check: studentsMapper must implement Mapper.
var _ types.Mapper = (*studentsMapper)(nil)

// studentsMapper maps *types.Student to rows of the students table.
type studentsMapper struct {
	backend *Backend
}

// All returns every student ordered by id.
func (m *studentsMapper) All(ctx context.Context) ([]types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := m.backend.db.QueryContext(ctx, "SELECT id, name FROM "+studentsTable+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []types.Entity{}
	for rows.Next() {
		var s types.Student
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			return nil, fmt.Errorf("scanning student: %w", err)
		}
		result = append(result, &s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing students: %w", err)
	}
	return result, nil
}

// FindByID returns the student with the given id.
func (m *studentsMapper) FindByID(ctx context.Context, id int64) (types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	row := m.backend.db.QueryRowContext(ctx,
		m.backend.dialect.rebind("SELECT id, name FROM "+studentsTable+" WHERE id = ?"), id)
	var s types.Student
	if err := row.Scan(&s.ID, &s.Name); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("student %d: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting student %d: %w", id, err)
	}
	return &s, nil
}

// Insert writes a new student row and returns its id.
func (m *studentsMapper) Insert(ctx context.Context, e types.Entity) (int64, error) {
	s, ok := e.(*types.Student)
	if !ok {
		return 0, types.ErrInvalidData
	}
	release, err := m.backend.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.backend.insertRow(ctx,
		"INSERT INTO "+studentsTable+" (name) VALUES (?) RETURNING id", s.Name)
	if err != nil {
		return 0, fmt.Errorf("inserting student: %w", err)
	}
	return id, nil
}

// Update rewrites the name of an existing student.
func (m *studentsMapper) Update(ctx context.Context, e types.Entity) error {
	s, ok := e.(*types.Student)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(s) {
		return types.ErrUnboundEntity
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrUpdateFailed,
		"UPDATE "+studentsTable+" SET name = ? WHERE id = ?", s.Name, s.ID); err != nil {
		return fmt.Errorf("updating student %d: %w", s.ID, err)
	}
	return nil
}

// Delete removes an existing student.
func (m *studentsMapper) Delete(ctx context.Context, e types.Entity) error {
	s, ok := e.(*types.Student)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(s) {
		return types.ErrUnboundEntity
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrDeleteFailed,
		"DELETE FROM "+studentsTable+" WHERE id = ?", s.ID); err != nil {
		return fmt.Errorf("deleting student %d: %w", s.ID, err)
	}
	return nil
}
