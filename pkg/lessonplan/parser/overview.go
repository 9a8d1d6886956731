package parser

import (
	"fmt"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
)

const (
	// OverviewSheet is the name of the sheet holding one summary row per lesson.
	OverviewSheet = "Oversigt"
	// OverviewRowOffset maps a lesson number to its overview row: lesson 26 is on row 33.
	OverviewRowOffset = 7
)

// Context field names written by the overview extractor.
const (
	FieldLessonNumber   = "lesson_number"
	FieldLessonName     = "lesson_name"
	FieldLessonDuration = "lesson_duration"
)

// Overview holds the summary fields of one lesson.
type Overview struct {
	Number   string
	Name     string
	Dual     string
	Solo     string
	Duration string
}

// ReadOverview reads the summary row of a lesson from the overview sheet.
// Columns: A number, B name, C dual duration, D solo duration.
func ReadOverview(wb *Workbook, lesson int) (*Overview, error) {
	sheet, err := wb.Sheet(OverviewSheet)
	if err != nil {
		return nil, err
	}
	row := lesson + OverviewRowOffset

	number, err := sheet.String(fmt.Sprintf("A%d", row))
	if err != nil {
		return nil, err
	}
	name, err := sheet.String(fmt.Sprintf("B%d", row))
	if err != nil {
		return nil, err
	}
	dual, err := sheet.Duration(fmt.Sprintf("C%d", row))
	if err != nil {
		return nil, err
	}
	solo, err := sheet.Duration(fmt.Sprintf("D%d", row))
	if err != nil {
		return nil, err
	}

	return &Overview{
		Number:   number,
		Name:     name,
		Dual:     dual,
		Solo:     solo,
		Duration: DurationLabel(dual, solo),
	}, nil
}

// DurationLabel combines the dual and solo estimates into one label.
func DurationLabel(dual, solo string) string {
	switch {
	case dual != "" && solo != "":
		return "Est. Dual: " + dual + ", solo: " + solo
	case dual != "":
		return "Est. Dual: " + dual
	case solo != "":
		return "Est. Solo: " + solo
	default:
		return ""
	}
}

// Bind writes the overview fields into the context.
func (o *Overview) Bind(ctx *models.Context) {
	ctx.Set(FieldLessonNumber, o.Number)
	ctx.Set(FieldLessonName, o.Name)
	ctx.Set(FieldLessonDuration, o.Duration)
}
