package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

func newStudentCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "student",
		Short: "Manage students",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "add NAME",
			Short: "Create a student",
			Example: `  registrar student add Alice
  registrar student add "Bob Smith" --json`,
			Args: usageArgs(cobra.ExactArgs(1)),
			RunE: a.runStudentAdd,
		},
		&cobra.Command{
			Use:   "list",
			Short: "List all students",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.runStudentList,
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a student",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runStudentGet,
		},
		&cobra.Command{
			Use:   "rename ID NAME",
			Short: "Rename a student",
			Args:  usageArgs(cobra.ExactArgs(2)),
			RunE:  a.runStudentRename,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a student",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runStudentDelete,
		},
	)
	return cmd
}

func (a *app) runStudentAdd(cmd *cobra.Command, args []string) (err error) {
	student, err := types.NewStudent(args[0])
	if err != nil {
		return fmt.Errorf("add student: %w", err)
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	student.MarkNew(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("add student: %w", err)
	}
	return a.printStudent(cmd, "Created", student)
}

func (a *app) runStudentList(cmd *cobra.Command, _ []string) (err error) {
	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	students, err := all[*types.Student](s, types.StudentType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, students)
	}
	if len(students) == 0 {
		fmt.Fprintln(out, "No students found.")
		return nil
	}
	rows := make([][]string, len(students))
	for i, st := range students {
		rows[i] = []string{strconv.FormatInt(st.ID, 10), truncate(st.Name, 40)}
	}
	if err := writeTable(out, []string{"ID", "NAME"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Total: %d student(s)\n", len(students))
	return nil
}

func (a *app) runStudentGet(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	student, err := find[*types.Student](s, types.StudentType, id)
	if err != nil {
		return err
	}
	return a.printStudent(cmd, "", student)
}

func (a *app) runStudentRename(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	student, err := find[*types.Student](s, types.StudentType, id)
	if err != nil {
		return err
	}
	if err := student.Rename(args[1]); err != nil {
		return fmt.Errorf("rename student %d: %w", id, err)
	}

	student.MarkDirty(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("rename student %d: %w", id, err)
	}
	return a.printStudent(cmd, "Renamed", student)
}

func (a *app) runStudentDelete(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	student, err := find[*types.Student](s, types.StudentType, id)
	if err != nil {
		return err
	}

	student.MarkRemoved(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("delete student %d: %w", id, err)
	}
	return a.printStudent(cmd, "Deleted", student)
}

// printStudent writes the student as JSON, or as "<verb> student <id>: <name>"
// in text mode. An empty verb prints only "<id>: <name>".
func (a *app) printStudent(cmd *cobra.Command, verb string, st *types.Student) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, st)
	}
	if verb == "" {
		_, err := fmt.Fprintf(out, "%d: %s\n", st.ID, st.Name)
		return err
	}
	_, err := fmt.Fprintf(out, "%s student %d: %s\n", verb, st.ID, st.Name)
	return err
}
