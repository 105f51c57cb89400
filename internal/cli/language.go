package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/mesh-intelligence/registrar/pkg/types"
)

func newLanguageCmd(a *app) *cobra.Command {
	var parentID int64

	add := &cobra.Command{
		Use:   "add NAME",
		Short: "Create a language",
		Example: `  registrar language add c
  registrar language add go --parent 1`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runLanguageAdd(cmd, args, parentID)
		},
	}
	add.Flags().Int64Var(&parentID, "parent", 0, "id of the parent language")

	cmd := &cobra.Command{
		Use:   "language",
		Short: "Manage languages",
		Long: `Languages group courses by the course language name. The course count
of a language includes the courses of its ancestors.`,
	}
	cmd.AddCommand(
		add,
		&cobra.Command{
			Use:   "list",
			Short: "List all languages",
			Args:  usageArgs(cobra.NoArgs),
			RunE:  a.runLanguageList,
		},
		&cobra.Command{
			Use:   "get ID",
			Short: "Show a language",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runLanguageGet,
		},
		&cobra.Command{
			Use:   "delete ID",
			Short: "Delete a language",
			Args:  usageArgs(cobra.ExactArgs(1)),
			RunE:  a.runLanguageDelete,
		},
	)
	return cmd
}

func (a *app) runLanguageAdd(cmd *cobra.Command, args []string, parentID int64) (err error) {
	if parentID < 0 {
		return fmt.Errorf("%w: invalid parent id %d", errUsage, parentID)
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	var parent *types.Language
	if parentID != 0 {
		if parent, err = find[*types.Language](s, types.LanguageType, parentID); err != nil {
			return err
		}
	}
	lang, err := types.NewLanguage(args[0], parent)
	if err != nil {
		return fmt.Errorf("add language: %w", err)
	}

	lang.MarkNew(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("add language: %w", err)
	}
	return a.printLanguage(cmd, "Created", lang)
}

func (a *app) runLanguageList(cmd *cobra.Command, _ []string) (err error) {
	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	langs, err := all[*types.Language](s, types.LanguageType)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, langs)
	}
	if len(langs) == 0 {
		fmt.Fprintln(out, "No languages found.")
		return nil
	}
	rows := make([][]string, len(langs))
	for i, l := range langs {
		parent := "-"
		if l.ParentID != 0 {
			parent = strconv.FormatInt(l.ParentID, 10)
		}
		rows[i] = []string{strconv.FormatInt(l.ID, 10), truncate(l.Name, 40), parent, strconv.Itoa(l.CoursesCount)}
	}
	if err := writeTable(out, []string{"ID", "NAME", "PARENT", "COURSES"}, rows); err != nil {
		return err
	}
	fmt.Fprintf(out, "Total: %d language(s)\n", len(langs))
	return nil
}

func (a *app) runLanguageGet(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	lang, err := find[*types.Language](s, types.LanguageType, id)
	if err != nil {
		return err
	}
	return a.printLanguage(cmd, "", lang)
}

func (a *app) runLanguageDelete(cmd *cobra.Command, args []string) (err error) {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}

	s, err := a.openStore(cmd)
	if err != nil {
		return err
	}
	defer s.closeInto(&err)

	lang, err := find[*types.Language](s, types.LanguageType, id)
	if err != nil {
		return err
	}

	lang.MarkRemoved(s.ctx)
	if err := s.commit(); err != nil {
		return fmt.Errorf("delete language %d: %w", id, err)
	}
	return a.printLanguage(cmd, "Deleted", lang)
}

func (a *app) printLanguage(cmd *cobra.Command, verb string, l *types.Language) error {
	out := cmd.OutOrStdout()
	if a.flags.jsonMode {
		return writeJSON(out, l)
	}
	line := fmt.Sprintf("%d: %s (%d course(s))", l.ID, l.Name, l.CoursesCount)
	if verb != "" {
		line = verb + " language " + line
	}
	_, err := fmt.Fprintln(out, line)
	return err
}
