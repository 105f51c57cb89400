package types

import (
	"context"
	"strings"
)

// Student is a persistable person enrolled in courses. Courses is kept in
// memory only; the students table stores scalar fields.
type Student struct {
	ID      int64     `json:"id"`
	Name    string    `json:"name"`
	Courses []*Course `json:"-"`
}

// Compile-time interface check.
var _ Trackable = (*Student)(nil)

// NewStudent returns an unsaved student.
// Returns ErrInvalidName if name is blank.
func NewStudent(name string) (*Student, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	return &Student{Name: name}, nil
}

func (s *Student) EntityType() string   { return StudentType }
func (s *Student) EntityID() int64      { return s.ID }
func (s *Student) SetEntityID(id int64) { s.ID = id }

func (s *Student) MarkNew(ctx context.Context)     { MarkNew(ctx, s) }
func (s *Student) MarkDirty(ctx context.Context)   { MarkDirty(ctx, s) }
func (s *Student) MarkRemoved(ctx context.Context) { MarkRemoved(ctx, s) }

// Rename changes the student's name in memory. The caller marks the
// student dirty to persist it.
func (s *Student) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	s.Name = name
	return nil
}
