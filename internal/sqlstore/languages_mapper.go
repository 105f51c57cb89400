package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

// Compile-time interface check: languagesMapper must implement Mapper.
var _ types.Mapper = (*languagesMapper)(nil)

// languagesMapper maps *types.Language to rows of the languages table.
// CoursesCount is derived on load from the courses table, matching
// courses.language against the language name and its ancestors' names.
type languagesMapper struct {
	backend *Backend
}

// All returns every language ordered by id.
func (m *languagesMapper) All(ctx context.Context) ([]types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	langs, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	result := make([]types.Entity, len(langs))
	for i, l := range langs {
		result[i] = l
	}
	return result, nil
}

// FindByID returns the language with the given id.
func (m *languagesMapper) FindByID(ctx context.Context, id int64) (types.Entity, error) {
	release, err := m.backend.acquire()
	if err != nil {
		return nil, err
	}
	defer release()

	langs, err := m.load(ctx)
	if err != nil {
		return nil, err
	}
	for _, l := range langs {
		if l.ID == id {
			return l, nil
		}
	}
	return nil, fmt.Errorf("language %d: %w", id, types.ErrNotFound)
}

// Insert writes a new language row and returns its id.
func (m *languagesMapper) Insert(ctx context.Context, e types.Entity) (int64, error) {
	l, ok := e.(*types.Language)
	if !ok {
		return 0, types.ErrInvalidData
	}
	release, err := m.backend.acquire()
	if err != nil {
		return 0, err
	}
	defer release()

	id, err := m.backend.insertRow(ctx,
		"INSERT INTO "+languagesTable+" (name, parent_id) VALUES (?, ?) RETURNING id",
		l.Name, nullID(l.ParentID))
	if err != nil {
		return 0, fmt.Errorf("inserting language: %w", err)
	}
	return id, nil
}

// Update rewrites the name and parent of an existing language. A language
// cannot be its own parent.
func (m *languagesMapper) Update(ctx context.Context, e types.Entity) error {
	l, ok := e.(*types.Language)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(l) {
		return types.ErrUnboundEntity
	}
	if l.ParentID == l.ID {
		return fmt.Errorf("language %d is its own parent: %w", l.ID, types.ErrInvalidData)
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrUpdateFailed,
		"UPDATE "+languagesTable+" SET name = ?, parent_id = ? WHERE id = ?",
		l.Name, nullID(l.ParentID), l.ID); err != nil {
		return fmt.Errorf("updating language %d: %w", l.ID, err)
	}
	return nil
}

// Delete removes an existing language. Children keep their parent_id and
// count as roots from then on.
func (m *languagesMapper) Delete(ctx context.Context, e types.Entity) error {
	l, ok := e.(*types.Language)
	if !ok {
		return types.ErrInvalidData
	}
	if !types.IsBound(l) {
		return types.ErrUnboundEntity
	}
	release, err := m.backend.acquire()
	if err != nil {
		return err
	}
	defer release()

	if err := m.backend.execWrite(ctx, types.ErrDeleteFailed,
		"DELETE FROM "+languagesTable+" WHERE id = ?", l.ID); err != nil {
		return fmt.Errorf("deleting language %d: %w", l.ID, err)
	}
	return nil
}

// load reads every language and fills in CoursesCount. The caller holds
// the backend read lock.
func (m *languagesMapper) load(ctx context.Context) ([]*types.Language, error) {
	langs, err := m.queryLanguages(ctx)
	if err != nil {
		return nil, err
	}
	counts, err := m.courseCounts(ctx)
	if err != nil {
		return nil, err
	}

	byID := make(map[int64]*types.Language, len(langs))
	for _, l := range langs {
		byID[l.ID] = l
	}
	for _, l := range langs {
		visited := make(map[int64]bool)
		for cur := l; cur != nil && !visited[cur.ID]; cur = byID[cur.ParentID] {
			visited[cur.ID] = true
			l.CoursesCount += counts[cur.Name]
		}
	}
	return langs, nil
}

func (m *languagesMapper) queryLanguages(ctx context.Context) ([]*types.Language, error) {
	rows, err := m.backend.db.QueryContext(ctx,
		"SELECT id, name, parent_id FROM "+languagesTable+" ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	defer func() { _ = rows.Close() }()

	langs := []*types.Language{}
	for rows.Next() {
		var (
			l      types.Language
			parent sql.NullInt64
		)
		if err := rows.Scan(&l.ID, &l.Name, &parent); err != nil {
			return nil, fmt.Errorf("scanning language: %w", err)
		}
		l.ParentID = parent.Int64
		langs = append(langs, &l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing languages: %w", err)
	}
	return langs, nil
}

// courseCounts returns the number of courses per language name.
func (m *languagesMapper) courseCounts(ctx context.Context) (map[string]int, error) {
	rows, err := m.backend.db.QueryContext(ctx,
		"SELECT language, COUNT(*) FROM "+coursesTable+" GROUP BY language")
	if err != nil {
		return nil, fmt.Errorf("counting courses: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var (
			name string
			n    int
		)
		if err := rows.Scan(&name, &n); err != nil {
			return nil, fmt.Errorf("scanning course count: %w", err)
		}
		counts[name] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("counting courses: %w", err)
	}
	return counts, nil
}

// nullID stores a zero id as NULL.
func nullID(id int64) sql.NullInt64 {
	return sql.NullInt64{Int64: id, Valid: id != 0}
}
