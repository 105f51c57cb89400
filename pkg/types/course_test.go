package types

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type enrollmentObserver struct {
	seen []string
	err  error
}

func (o *enrollmentObserver) Update(c *Course) error {
	o.seen = append(o.seen, c.LastStudent().Name)
	return o.err
}

func TestNewCourse(t *testing.T) {
	tests := []struct {
		name     string
		course   string
		kind     string
		language string
		wantErr  error
	}{
		{name: "online course", course: "Go basics", kind: CourseOnline, language: "go"},
		{name: "offline course", course: "SQL", kind: CourseOffline},
		{name: "blank name", course: "  ", kind: CourseOnline, wantErr: ErrInvalidName},
		{name: "unknown kind", course: "Rust", kind: "hybrid", wantErr: ErrInvalidKind},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := NewCourse(tt.course, tt.kind, tt.language)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, c)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.course, c.Name)
			assert.Equal(t, tt.kind, c.Kind)
			assert.Equal(t, tt.language, c.Language)
			assert.Zero(t, c.ID)
		})
	}
}

func TestCourseAddStudentNotifies(t *testing.T) {
	c, err := NewCourse("Go basics", CourseOnline, "go")
	require.NoError(t, err)
	obs := &enrollmentObserver{}
	c.Attach(obs)

	alice, _ := NewStudent("Alice")
	bob, _ := NewStudent("Bob")
	require.NoError(t, c.AddStudent(alice))
	require.NoError(t, c.AddStudent(bob))

	assert.Equal(t, []string{"Alice", "Bob"}, obs.seen)
	assert.Same(t, bob, c.Student(1))
	assert.Equal(t, []*Course{c}, alice.Courses)
}

func TestCourseAddStudentObserverFailure(t *testing.T) {
	c, _ := NewCourse("Go basics", CourseOnline, "go")
	errNotify := errors.New("sms gateway down")
	c.Attach(&enrollmentObserver{err: errNotify})

	alice, _ := NewStudent("Alice")
	err := c.AddStudent(alice)
	assert.ErrorIs(t, err, errNotify)
	assert.Len(t, c.Students, 1, "enrollment is applied even when an observer fails")
}

func TestCourseLastStudentEmpty(t *testing.T) {
	c, _ := NewCourse("Go basics", CourseOnline, "")
	assert.Nil(t, c.LastStudent())
}

func TestCourseClone(t *testing.T) {
	orig, err := NewCourse("Go basics", CourseOnline, "go")
	require.NoError(t, err)
	orig.ID = 4
	obs := &enrollmentObserver{}
	orig.Attach(obs)
	require.NoError(t, orig.AddStudent(&Student{ID: 1, Name: "Alice"}))

	clone := orig.Clone()
	require.NoError(t, clone.Rename("copy_Go basics"))

	assert.Zero(t, clone.ID)
	assert.False(t, IsBound(clone))
	assert.Equal(t, "copy_Go basics", clone.Name)
	assert.Equal(t, CourseOnline, clone.Kind)
	assert.Equal(t, "go", clone.Language)
	assert.Empty(t, clone.Students)
	assert.Zero(t, clone.Len(), "observers are not copied")

	require.NoError(t, clone.AddStudent(&Student{ID: 2, Name: "Bob"}))
	assert.Len(t, orig.Students, 1, "the original is unaffected")
	assert.Equal(t, []string{"Alice"}, obs.seen)
	assert.Equal(t, "Go basics", orig.Name)
}

func TestCourseRename(t *testing.T) {
	c := &Course{Name: "Go"}
	assert.ErrorIs(t, c.Rename(" "), ErrInvalidName)
	assert.Equal(t, "Go", c.Name)
	require.NoError(t, c.Rename("Go 2"))
	assert.Equal(t, "Go 2", c.Name)
}
