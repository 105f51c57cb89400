package types

import (
	"context"
	"strings"

	"github.com/mesh-intelligence/registrar/pkg/notify"
)

// Course kinds.
const (
	CourseOnline  = "online"
	CourseOffline = "offline"
)

var validCourseKinds = map[string]bool{
	CourseOnline:  true,
	CourseOffline: true,
}

// Course is a persistable course. Enrolling a student notifies every
// observer attached to the course. Students is kept in memory only.
type Course struct {
	ID       int64      `json:"id"`
	Name     string     `json:"name"`
	Kind     string     `json:"kind"`
	Language string     `json:"language"`
	Students []*Student `json:"-"`

	notify.Subject[*Course] `json:"-"`
}

// Compile-time interface check.
var _ Trackable = (*Course)(nil)

// NewCourse returns an unsaved course.
// Returns ErrInvalidName for a blank name and ErrInvalidKind for a kind
// other than online or offline.
func NewCourse(name, kind, language string) (*Course, error) {
	if strings.TrimSpace(name) == "" {
		return nil, ErrInvalidName
	}
	if !validCourseKinds[kind] {
		return nil, ErrInvalidKind
	}
	return &Course{Name: name, Kind: kind, Language: language}, nil
}

func (c *Course) EntityType() string   { return CourseType }
func (c *Course) EntityID() int64      { return c.ID }
func (c *Course) SetEntityID(id int64) { c.ID = id }

func (c *Course) MarkNew(ctx context.Context)     { MarkNew(ctx, c) }
func (c *Course) MarkDirty(ctx context.Context)   { MarkDirty(ctx, c) }
func (c *Course) MarkRemoved(ctx context.Context) { MarkRemoved(ctx, c) }

// AddStudent enrolls s in the course, records the course on s, and
// notifies the course observers. Observer failures are returned after the
// enrollment has been applied.
func (c *Course) AddStudent(s *Student) error {
	c.Students = append(c.Students, s)
	s.Courses = append(s.Courses, c)
	return c.Notify(c)
}

// Clone returns an unsaved copy of the course's scalar fields. The copy
// has no id, no students and no observers.
func (c *Course) Clone() *Course {
	return &Course{Name: c.Name, Kind: c.Kind, Language: c.Language}
}

// Rename changes the course's name in memory. The caller marks the course
// dirty (or new, for a clone) to persist it.
func (c *Course) Rename(name string) error {
	if strings.TrimSpace(name) == "" {
		return ErrInvalidName
	}
	c.Name = name
	return nil
}

// Student returns the i-th enrolled student.
func (c *Course) Student(i int) *Student {
	return c.Students[i]
}

// LastStudent returns the most recently enrolled student, or nil.
func (c *Course) LastStudent() *Student {
	if len(c.Students) == 0 {
		return nil
	}
	return c.Students[len(c.Students)-1]
}
