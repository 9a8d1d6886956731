package parser

import (
	"fmt"
	"html"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	// DetailRowOffset is the first row of airwork and briefing data on a lesson sheet.
	DetailRowOffset = 5
	// BriefingHeader is the bold label placed above the briefing topics.
	BriefingHeader = "Briefing topics:"
)

// Column layout of a lesson sheet. Airwork rows are counted on their text
// column and briefing rows on their id column.
const (
	colAirworkValue  = 0 // A
	colAirworkText   = 1 // B
	colBriefingTopic = 3 // D
	colBriefingText  = 4 // E
)

// DetailSheetName returns the name of the detail sheet of a lesson.
func DetailSheetName(lesson int) string {
	return fmt.Sprintf("Lesson %d", lesson)
}

// Details holds the airwork and briefing rows of one lesson and their form slots.
type Details struct {
	Sheet    string
	Airwork  []models.AirworkRow
	Briefing []models.BriefingRow
	Slots    []models.Slot
}

// ReadDetails reads the detail sheet of a lesson, checks that its rows fit on
// the form and lays them out as numbered slots.
func ReadDetails(wb *Workbook, lesson int) (*Details, error) {
	sheet, err := wb.Sheet(DetailSheetName(lesson))
	if err != nil {
		return nil, err
	}

	airworkCount, briefingCount, err := CountRows(sheet)
	if err != nil {
		return nil, err
	}
	wb.logger.Debug("counted detail rows",
		zap.String("sheet", sheet.Name()),
		zap.Int("airwork", airworkCount),
		zap.Int("briefing", briefingCount))

	if err := CheckCapacity(sheet.Name(), airworkCount, briefingCount); err != nil {
		return nil, err
	}

	d := &Details{Sheet: sheet.Name()}

	for row := DetailRowOffset; row < DetailRowOffset+airworkCount; row++ {
		value, err := sheet.Number(cellName(colAirworkValue, row))
		if err != nil {
			return nil, err
		}
		text, err := sheet.Text(cellName(colAirworkText, row))
		if err != nil {
			return nil, err
		}
		d.Airwork = append(d.Airwork, models.AirworkRow{Row: row, Value: value, Text: text})
	}

	for row := DetailRowOffset; row < DetailRowOffset+briefingCount; row++ {
		topic, err := sheet.String(cellName(colBriefingTopic, row))
		if err != nil {
			return nil, err
		}
		text, err := sheet.Text(cellName(colBriefingText, row))
		if err != nil {
			return nil, err
		}
		d.Briefing = append(d.Briefing, models.BriefingRow{Row: row, Topic: topic, Text: text})
	}

	d.Slots = LayoutSlots(d.Airwork, d.Briefing)
	return d, nil
}

// CountRows counts the rows from DetailRowOffset to the last row that have an
// airwork text and those that have a briefing id. The counts are independent.
func CountRows(sheet *Sheet) (airwork, briefing int, err error) {
	last, err := sheet.LastRow()
	if err != nil {
		return 0, 0, err
	}
	for row := DetailRowOffset; row <= last; row++ {
		text, err := sheet.raw(cellName(colAirworkText, row))
		if err != nil {
			return 0, 0, err
		}
		if text != "" {
			airwork++
		}
		topic, err := sheet.raw(cellName(colBriefingTopic, row))
		if err != nil {
			return 0, 0, err
		}
		if topic != "" {
			briefing++
		}
	}
	return airwork, briefing, nil
}

// MaxRows returns how many content rows fit on the form. Briefing topics
// need one extra line for their header.
func MaxRows(briefing int) int {
	if briefing > 0 {
		return models.FormCapacity - 1
	}
	return models.FormCapacity
}

// CheckCapacity fails with a *CapacityError when the rows do not fit on the form.
func CheckCapacity(sheet string, airwork, briefing int) error {
	if airwork+briefing > MaxRows(briefing) {
		return &CapacityError{
			Sheet:    sheet,
			Limit:    models.FormCapacity,
			Airwork:  airwork,
			Briefing: briefing,
		}
	}
	return nil
}

// LayoutSlots places airwork rows from the top of the form and briefing
// topics at the bottom, below a bold header line.
func LayoutSlots(airwork []models.AirworkRow, briefing []models.BriefingRow) []models.Slot {
	slots := make([]models.Slot, 0, len(airwork)+len(briefing)+1)

	for i, a := range airwork {
		slots = append(slots, models.Slot{
			Position: i + 1,
			Number:   fmt.Sprintf("%.2f", a.Value),
			Text:     html.EscapeString(a.Text),
		})
	}

	if len(briefing) == 0 {
		return slots
	}

	bookmark := models.FormCapacity - len(briefing)
	slots = append(slots, models.Slot{
		Position: bookmark,
		Text:     models.NewRichText().Add(BriefingHeader, models.TextStyle{Bold: true}),
	})
	for _, b := range briefing {
		bookmark++
		slots = append(slots, models.Slot{
			Position: bookmark,
			Number:   b.Topic,
			Text:     html.EscapeString(b.Text),
		})
	}
	return slots
}

// Bind writes the slots into the context as N{pos}/T{pos} fields.
func (d *Details) Bind(ctx *models.Context) {
	ctx.BindSlots(d.Slots)
}

// cellName builds an A1 reference from a 0-based column and 1-based row.
func cellName(col, row int) string {
	name, _ := excelize.CoordinatesToCellName(col+1, row)
	return name
}
