package lessonplan

import (
	"errors"
	"fmt"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/parser"
)

// ErrFileNotFound indicates an input file does not exist.
var ErrFileNotFound = errors.New("file not found")

// ErrInvalidConfig indicates the run configuration cannot be used.
var ErrInvalidConfig = errors.New("invalid configuration")

// ErrCapacityExceeded indicates a lesson has more rows than the form holds.
// Use errors.As with *parser.CapacityError for the sheet name and limit.
var ErrCapacityExceeded = parser.ErrCapacityExceeded

// Stage names a step of the per-lesson pipeline or the final archive steps.
type Stage string

const (
	StageExtract Stage = "extract"
	StageRender  Stage = "render"
	StagePersist Stage = "persist"
	StageConvert Stage = "convert"
	StageMerge   Stage = "merge"
	StageCleanup Stage = "cleanup"
	StageArchive Stage = "archive"
)

// LessonError represents an error while processing a lesson.
// Lesson is 0 for the merge, cleanup and archive stages.
type LessonError struct {
	Lesson int
	Stage  Stage
	Err    error
}

func (e *LessonError) Error() string {
	if e.Lesson == 0 {
		return fmt.Sprintf("%s: %v", e.Stage, e.Err)
	}
	return fmt.Sprintf("lesson %d (%s): %v", e.Lesson, e.Stage, e.Err)
}

func (e *LessonError) Unwrap() error {
	return e.Err
}

// NewLessonError creates a new LessonError.
func NewLessonError(lesson int, stage Stage, err error) *LessonError {
	return &LessonError{
		Lesson: lesson,
		Stage:  stage,
		Err:    err,
	}
}
