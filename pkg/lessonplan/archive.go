package lessonplan

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"go.uber.org/zap"
)

// tempPDFPattern matches the per-lesson PDFs moved into the archive folder.
var tempPDFPattern = regexp.MustCompile(`^` + tempPrefix + `\d+\.pdf$`)

// merge joins the PDFs of the join range into the merged archive document.
func (d *Driver) merge(ctx context.Context, report *RunReport) error {
	if !d.cfg.ShouldMerge() {
		return nil
	}
	var inputs []string
	for n := d.cfg.FirstJoin; n <= d.cfg.LastJoin; n++ {
		inputs = append(inputs, d.cfg.PDFPath(n))
	}
	output := d.cfg.MergedPath()
	if err := d.merger.Merge(ctx, inputs, output); err != nil {
		return err
	}
	report.Merged = output
	fmt.Fprintf(d.out, "Document: %s ready\n\n", filepath.Base(output))
	return nil
}

// cleanup removes the intermediate .docx files when configured to.
func (d *Driver) cleanup(report *RunReport) error {
	if !d.cfg.RemoveWordFiles {
		fmt.Fprintf(d.out, "Temporary word files remain in %s\n", d.cfg.dir())
		return nil
	}
	fmt.Fprintln(d.out, "Cleaning up...")
	files, err := filepath.Glob(filepath.Join(d.cfg.dir(), tempPrefix+"*.docx"))
	if err != nil {
		return err
	}
	for _, f := range files {
		if err := os.Remove(f); err != nil {
			return err
		}
		report.Removed = append(report.Removed, f)
	}
	fmt.Fprintln(d.out, "Temporary word files have been successfully removed")
	return nil
}

// archive moves every per-lesson PDF into the version folder, creating it
// when absent.
func (d *Driver) archive(report *RunReport) error {
	dest := d.cfg.ArchiveDir()
	if err := os.MkdirAll(dest, 0755); err != nil {
		return err
	}

	entries, err := os.ReadDir(d.cfg.dir())
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() || !tempPDFPattern.MatchString(e.Name()) {
			continue
		}
		src := filepath.Join(d.cfg.dir(), e.Name())
		dst := filepath.Join(dest, e.Name())
		if err := os.Rename(src, dst); err != nil {
			return err
		}
		report.Archived = append(report.Archived, dst)
		d.logger.Debug("moved pdf", zap.String("file", e.Name()), zap.String("dir", dest))
	}
	report.ArchiveDir = dest

	abs, err := filepath.Abs(dest)
	if err != nil {
		abs = dest
	}
	fmt.Fprintf(d.out, "The individual lesson plans has been successfully backed up to: %s\n", abs)
	return nil
}
