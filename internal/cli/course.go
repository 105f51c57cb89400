package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/registrar/internal/notifier"
	"github.com/mesh-intelligence/registrar/pkg/types"
)

// courseFlags holds the flags of "course add".
type courseFlags struct {
	kind     string
	language string
}

func newCourseCmd(a *app) *cobra.Command {
	var cf courseFlags

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a course",
		Example: `  registrar course add "Intro to Go" --kind online --language go
  registrar course add Pottery --kind offline`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCourseAdd(cmd, args, cf)
		},
	}
	add.Flags().StringVar(&cf.kind, "kind", types.CourseOnline, "course kind (online, offline)")
	add.Flags().StringVar(&cf.language, "language", "", "language taught in the course")

	cmd := &cobra.Command{
		Use:   "course",
		Short: "Manage courses",
	}
	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "List all courses",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.runCourseList,
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a course",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runCourseGet,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a course",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runCourseDelete,
		},
		&cobra.Command{
			Use:   "copy ID NEW_NAME",
			Short: "Create a new course from an existing one",
			Long: `Copy creates a new course with the kind and language of course ID.
Students and enrollments are not copied.`,
			Args: usageArgs(cobra.ExactArgs(2)),
			RunE: a.runCourseCopy,
		},
		&cobra.Command{
			Use:   "enroll COURSE_ID STUDENT_ID...",
			Short: "Enroll students in a course and notify them",
			Long: `Enroll loads the course and the students and enrolls each student in
turn. Every enrollment is announced on the sms and email channels.
Enrollments are not stored.`,
			Args: usageArgs(cobra.MinimumNArgs(2)),
			RunE: a.runCourseEnroll,
		},
	)
	return cmd
}

func (a *app) runCourseAdd(cmd *cobra.Command, args []string, cf courseFlags) (err error) {
	course, err := types.NewCourse(args[0], cf.kind, cf.language)
	if err != nil {
		return fmt.Errorf("add course: %w", err)
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	course.MarkNew(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("add course: %w", err)
	}
	return a.printCourse(cmd, "Created", course)
}

func (a *app) runCourseList(cmd *cobra.Command, _ []string) (err error) {
	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	courses, err := all[*types.Course](s, types.CourseType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, courses)
	}
	if len(courses) == 0 {
		fmt.Fprintln(out, "No courses found.")
		return nil
	}
	rows := make([][]string, len(courses))
	for i, c := range courses {
		rows[i] = []string{strconv.FormatInt(c.ID, 10), truncate(c.Name, 40), c.Kind, c.Language}
	}
	if err := writeTable(out, []string{"ID", "NAME", "KIND", "LANGUAGE"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Total: %d course(s)\n", len(courses))
	return nil
}

func (a *app) runCourseGet(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	course, err := find[*types.Course](s, types.CourseType, id)
	if err != nil {
		return err
	}
	return a.printCourse(cmd, "", course)
}

func (a *app) runCourseDelete(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	course, err := find[*types.Course](s, types.CourseType, id)
	if err != nil {
		return err
	}

	course.MarkRemoved(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("delete course %d: %w", id, err)
	}
	return a.printCourse(cmd, "Deleted", course)
}

func (a *app) runCourseCopy(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	src, err := find[*types.Course](s, types.CourseType, id)
	if err != nil {
		return err
	}
	course := src.Clone()
	if err := course.Rename(args[1]); err != nil {
		return fmt.Errorf("copy course %d: %w", id, err)
	}

	course.MarkNew(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("copy course %d: %w", id, err)
	}
	return a.printCourse(cmd, "Copied", course)
}

func (a *app) runCourseEnroll(cmd *cobra.Command, args []string) (err error) {
	courseID, err := parseID(args[0])
	if err != nil {
		return err
	}
	studentIDs := make([]int64, len(args)-1)
	for i, arg := range args[1:] {
		if studentIDs[i], err = parseID(arg); err != nil {
			return err
		}
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	course, err := find[*types.Course](s, types.CourseType, courseID)
	if err != nil {
		return err
	}
	students := make([]*types.Student, len(studentIDs))
	for i, id := range studentIDs {
		if students[i], err = find[*types.Student](s, types.StudentType, id); err != nil {
			return err
		}
	}

	course.Attach(notifier.NewSMS(a.logs))
	course.Attach(notifier.NewEmail(a.logs))
	for _, st := range students {
		if err := course.AddStudent(st); err != nil {
			return fmt.Errorf("enroll student %d in course %d: %w", st.ID, course.ID, err)
		}
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, struct {
			Course   *types.Course    `json:"course"`
			Students []*types.Student `json:"students"`
		}{course, course.Students})
	}
	_, err = fmt.Fprintf(out, "Enrolled %d student(s) in course %d: %s\n", len(students), course.ID, course.Name)
	return err
}

// printCourse writes the course as JSON, or as one descriptive line in
// text mode.
func (a *app) printCourse(cmd *cobra.Command, verb string, c *types.Course) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, c)
	}
	line := fmt.Sprintf("%d: %s (%s", c.ID, c.Name, c.Kind)
	if c.Language != "" {
		line += ", " + c.Language
	}
	line += ")"
	if verb != "" {
		line = verb + " course " + line
	}
	_, err := fmt.Fprintln(out, line)
	return err
}
