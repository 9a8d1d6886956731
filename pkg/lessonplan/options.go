// Package lessonplan turns the lesson planning workbook into per-lesson
// briefing sheets and one merged archive PDF.
package lessonplan

import (
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/pdf"
)

// Defaults of the batch run.
const (
	DefaultVersion  = "RFK/2.0"
	DefaultInput    = "DB LektionsPlaner.xlsx"
	DefaultTemplate = "LektionsSkabelon.docx"
	DefaultFirst    = 1
	DefaultLast     = 3
)

// File naming of the outputs.
const (
	tempPrefix    = "temp_lesson_"
	mergedPrefix  = "lesson-plan-"
	archivePrefix = "version_"
)

// Config configures a batch run.
type Config struct {
	// Version is the official version tag printed on the sheets, e.g. "RFK/2.0".
	Version string `mapstructure:"version"`
	// Input is the planning workbook.
	Input string `mapstructure:"input"`
	// Template is the .docx template rendered for each lesson.
	Template string `mapstructure:"template"`
	// FirstLesson and LastLesson bound the lessons processed (inclusive).
	FirstLesson int `mapstructure:"first_lesson"`
	LastLesson  int `mapstructure:"last_lesson"`
	// FirstJoin and LastJoin bound the lessons merged into the archive PDF.
	// Zero means the matching lesson bound.
	FirstJoin int `mapstructure:"first_join"`
	LastJoin  int `mapstructure:"last_join"`
	// RemoveWordFiles deletes the intermediate .docx files after conversion.
	RemoveWordFiles bool `mapstructure:"remove_word_files"`
	// Debug enables debug logging.
	Debug bool `mapstructure:"debug"`
	// OutputDir receives all generated files.
	OutputDir string `mapstructure:"output_dir"`
	// Office is the LibreOffice binary used for PDF conversion.
	Office string `mapstructure:"office"`
	// MergeBackend selects how PDFs are merged: pdfunite or pdfcpu.
	MergeBackend pdf.Backend `mapstructure:"merge_backend"`
	// Vocabulary overrides the abbreviations restyled with subscripts.
	Vocabulary []string `mapstructure:"vocabulary"`
}

// DefaultConfig returns the default batch configuration.
func DefaultConfig() Config {
	return Config{
		Version:         DefaultVersion,
		Input:           DefaultInput,
		Template:        DefaultTemplate,
		FirstLesson:     DefaultFirst,
		LastLesson:      DefaultLast,
		FirstJoin:       DefaultFirst,
		LastJoin:        DefaultLast,
		RemoveWordFiles: true,
		OutputDir:       ".",
		Office:          pdf.DefaultOffice,
		MergeBackend:    pdf.BackendPdfunite,
	}
}

// Normalize fills a zero join bound from the lesson range.
func (c Config) Normalize() Config {
	if c.FirstJoin == 0 {
		c.FirstJoin = c.FirstLesson
	}
	if c.LastJoin == 0 {
		c.LastJoin = c.LastLesson
	}
	return c
}

// Validate checks the configuration for values the run cannot work with.
func (c Config) Validate() error {
	switch {
	case strings.TrimSpace(c.Version) == "":
		return fmt.Errorf("%w: version is empty", ErrInvalidConfig)
	case c.Input == "":
		return fmt.Errorf("%w: input workbook is empty", ErrInvalidConfig)
	case c.Template == "":
		return fmt.Errorf("%w: template is empty", ErrInvalidConfig)
	case c.FirstLesson < 1:
		return fmt.Errorf("%w: first lesson %d must be at least 1", ErrInvalidConfig, c.FirstLesson)
	case c.LastLesson < c.FirstLesson:
		return fmt.Errorf("%w: last lesson %d is before first lesson %d", ErrInvalidConfig, c.LastLesson, c.FirstLesson)
	case c.LastJoin < c.FirstJoin:
		return fmt.Errorf("%w: last join %d is before first join %d", ErrInvalidConfig, c.LastJoin, c.FirstJoin)
	case c.FirstJoin < c.FirstLesson || c.LastJoin > c.LastLesson:
		return fmt.Errorf("%w: join range %d-%d is outside lesson range %d-%d",
			ErrInvalidConfig, c.FirstJoin, c.LastJoin, c.FirstLesson, c.LastLesson)
	}
	switch c.MergeBackend {
	case pdf.BackendPdfunite, pdf.BackendPdfcpu, "":
	default:
		return fmt.Errorf("%w: unknown merge backend %q", ErrInvalidConfig, c.MergeBackend)
	}
	return nil
}

// VersionSuffix returns the part of the version after the first slash
// ("2.0" for "RFK/2.0"), or the whole version when it has no slash.
func (c Config) VersionSuffix() string {
	parts := strings.Split(c.Version, "/")
	if len(parts) < 2 {
		return c.Version
	}
	return parts[1]
}

func (c Config) dir() string {
	if c.OutputDir == "" {
		return "."
	}
	return c.OutputDir
}

// DocumentPath returns the intermediate .docx path of a lesson.
func (c Config) DocumentPath(lesson int) string {
	return filepath.Join(c.dir(), tempPrefix+strconv.Itoa(lesson)+".docx")
}

// PDFPath returns the intermediate .pdf path of a lesson.
func (c Config) PDFPath(lesson int) string {
	return filepath.Join(c.dir(), tempPrefix+strconv.Itoa(lesson)+".pdf")
}

// MergedPath returns the path of the merged archive PDF.
func (c Config) MergedPath() string {
	return filepath.Join(c.dir(), mergedPrefix+c.VersionSuffix()+".pdf")
}

// ArchiveDir returns the folder the per-lesson PDFs are moved into.
// A slash in the version makes it a nested folder, e.g. version_RFK/2.0.
func (c Config) ArchiveDir() string {
	return filepath.Join(c.dir(), archivePrefix+c.Version)
}

// ShouldMerge reports whether the join range covers more than one lesson.
func (c Config) ShouldMerge() bool {
	return c.LastJoin > c.FirstJoin
}
