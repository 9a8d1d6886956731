package lessonplan

// LessonResult describes one lesson that went through the whole pipeline.
type LessonResult struct {
	Lesson   int    `json:"lesson"`
	Name     string `json:"name"`
	Document string `json:"document"`
	PDF      string `json:"pdf"`
	// Pages is 0 when the PDF could not be inspected.
	Pages int `json:"pages,omitempty"`
	// Restyled counts the abbreviations set in subscript.
	Restyled int `json:"restyled"`
}

// RunReport is the outcome of a batch run. A failed run still lists the
// lessons that completed before the failure.
type RunReport struct {
	RunID   string         `json:"run_id"`
	Version string         `json:"version"`
	Lessons []LessonResult `json:"lessons"`
	// Merged is the merged archive PDF, empty when no merge was done.
	Merged string `json:"merged,omitempty"`
	// Removed lists the intermediate documents deleted during cleanup.
	Removed []string `json:"removed,omitempty"`
	// ArchiveDir is the folder holding the per-lesson PDFs after the run.
	ArchiveDir string `json:"archive_dir,omitempty"`
	// Archived lists the PDFs moved into ArchiveDir.
	Archived []string `json:"archived,omitempty"`
	// Failure is the error that stopped the run, nil on success.
	Failure *LessonError `json:"-"`
}

// Succeeded reports whether the run completed without error.
func (r *RunReport) Succeeded() bool {
	return r.Failure == nil
}
