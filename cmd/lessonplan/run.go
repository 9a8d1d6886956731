package main

import (
	"fmt"
	"io"
	"strconv"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"
	"github.com/spf13/cobra"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan"
)

func newRunCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Generate the lesson sheets and the merged lesson plan",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			driver, err := lessonplan.NewDriver(cfg, lessonplan.Deps{
				Logger: logger,
				Out:    cmd.OutOrStdout(),
			})
			if err != nil {
				return err
			}

			report, err := driver.Run(cmd.Context())
			if report != nil {
				printReport(cmd.OutOrStdout(), report)
			}
			return err
		},
	}
}

// printReport writes a per-lesson summary table.
func printReport(w io.Writer, report *lessonplan.RunReport) {
	if len(report.Lessons) == 0 {
		return
	}
	bold := color.New(color.Bold)

	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.AddRow(bold.Sprint("Lesson"), bold.Sprint("Name"), bold.Sprint("Pages"), bold.Sprint("Subscripts"))
	for _, l := range report.Lessons {
		pages := "-"
		if l.Pages > 0 {
			pages = strconv.Itoa(l.Pages)
		}
		tbl.AddRow(l.Lesson, l.Name, pages, l.Restyled)
	}
	tbl.RightAlign(0)

	_, _ = fmt.Fprintln(w, tbl)
	if report.Succeeded() {
		_, _ = color.New(color.FgGreen).Fprintf(w, "Run %s finished: %d lessons\n", report.RunID, len(report.Lessons))
	}
}
