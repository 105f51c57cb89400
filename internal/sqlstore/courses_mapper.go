package sqlstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Compile-time interface check: coursesMapper must implement Mapper.
var _ types.Mapper = (*coursesMapper)(nil)

// coursesMapper maps *types.Course to rows of the courses table. Enrolled
// students and observers are not persisted.
type coursesMapper struct {
	backend *Backend
}

const courseColumns = "id, name, kind, language"

type rowScanner interface {
	Scan(dest ...any) error
}

func scanCourse(row rowScanner) (*types.Course, error) {
	c := &types.Course{}
	if err := row.Scan(&c.ID, &c.Name, &c.Kind, &c.Language); err != nil {
		return nil, err
	}
	return c, nil
}

// All returns every course ordered by id.
func (m *coursesMapper) All(ctx context.Context) ([]types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	rows, err := m.backend.db.QueryContext(ctx, "SELECT "+courseColumns+" FROM "+coursesTable+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	result := []types.Entity{}
	for rows.Next() {
		c, err := scanCourse(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning course: %w", err)
		}
		result = append(result, c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing courses: %w", err)
	}
	return result, nil
}

// FindByID returns the course with the given id.
func (m *coursesMapper) FindByID(ctx context.Context, id int64) (types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	row := m.backend.db.QueryRowContext(ctx,
		m.backend.dialect.rebind("SELECT "+courseColumns+" FROM "+coursesTable+" WHERE id = ?"), id)
	c, err := scanCourse(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("course %d: %w", id, types.ErrNotFound)
		}
		return nil, fmt.Errorf("getting course %d: %w", id, err)
	}
	return c, nil
}

// Insert writes a new course row and returns its id.
func (m *coursesMapper) Insert(ctx context.Context, e types.Entity) (int64, error) {
	c, ok := e.(*types.Course)
	if !ok {
		return 0, types.ErrInvalidData
	}
	release, err := m.backend.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.backend.insertRow(ctx,
		"INSERT INTO "+coursesTable+" (name, kind, language) VALUES (?, ?, ?) RETURNING id",
		c.Name, c.Kind, c.Language)
	if err != nil {
		return 0, fmt.Errorf("inserting course: %w", err)
	}
	return id, nil
}

// Update rewrites the scalar fields of an existing course.
func (m *coursesMapper) Update(ctx context.Context, e types.Entity) error {
	c, ok := e.(*types.Course)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(c) {
		return types.ErrUnboundEntity
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrUpdateFailed,
		"UPDATE "+coursesTable+" SET name = ?, kind = ?, language = ? WHERE id = ?",
		c.Name, c.Kind, c.Language, c.ID); err != nil {
		return fmt.Errorf("updating course %d: %w", c.ID, err)
	}
	return nil
}

// Delete removes an existing course.
func (m *coursesMapper) Delete(ctx context.Context, e types.Entity) error {
	c, ok := e.(*types.Course)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(c) {
		return types.ErrUnboundEntity
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrDeleteFailed,
		"DELETE FROM "+coursesTable+" WHERE id = ?", c.ID); err != nil {
		return fmt.Errorf("deleting course %d: %w", c.ID, err)
	}
	return nil
}
