package main

import (
	"errors"
	"fmt"
	"io"
	"sort"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/parser"
)

var errCheckFailed = errors.New("one or more lessons failed the check")

func newCheckCmd() *cobra.Command {
	var fields bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Extract every lesson from the workbook without generating files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			driver, err := lessonplan.NewDriver(cfg, lessonplan.Deps{Logger: logger})
			if err != nil {
				return err
			}

			wb, err := parser.Open(cfg.Input, logger)
			if err != nil {
				return fmt.Errorf("open workbook %s: %w", cfg.Input, err)
			}
			defer wb.Close()

			checks := driver.Check(wb)
			printChecks(cmd.OutOrStdout(), checks, fields)
			for _, c := range checks {
				if c.Err != nil {
					return errCheckFailed
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&fields, "fields", false, "Print the template fields of every lesson")
	return cmd
}

func printChecks(w io.Writer, checks []lessonplan.LessonCheck, fields bool) {
	bold := color.New(color.Bold)
	red := color.New(color.FgRed)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 80
	tbl.Wrap = true
	tbl.AddRow(bold.Sprint("Lesson"), bold.Sprint("Name"), bold.Sprint("Duration"),
		bold.Sprint("Airwork"), bold.Sprint("Briefing"), bold.Sprint("Status"))
	for _, c := range checks {
		if c.Err != nil {
			tbl.AddRow(c.Lesson, "", "", "", "", red.Sprint(c.Err.Error()))
			continue
		}
		tbl.AddRow(c.Lesson, c.Content.Name, c.Content.Duration,
			len(c.Content.Airwork), len(c.Content.Briefing), "ok")
	}
	tbl.RightAlign(0)
	_, _ = fmt.Fprintln(w, tbl)

	if !fields {
		return
	}
	for _, c := range checks {
		if c.Err != nil {
			continue
		}
		_, _ = bold.Fprintf(w, "\nLesson %d\n", c.Lesson)
		ft := uitable.New()
		ft.Separator = "  "
		ft.MaxColWidth = 80
		for _, key := range sortedKeys(c.Fields) {
			ft.AddRow(key, fmt.Sprint(c.Fields[key]))
		}
		_, _ = fmt.Fprintln(w, ft)
	}
}

func sortedKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
