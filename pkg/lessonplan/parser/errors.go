package parser

import (
	"errors"
	"fmt"
)

// ErrSheetNotFound indicates the workbook has no sheet with the requested name.
var ErrSheetNotFound = errors.New("sheet not found")

// ErrEmptyCell indicates a cell expected to hold a value is empty.
var ErrEmptyCell = errors.New("cell is empty")

// ErrCapacityExceeded indicates a lesson has more rows than the form can hold.
var ErrCapacityExceeded = errors.New("lesson exceeds form capacity")

// CellError reports a cell that is missing or cannot be converted.
type CellError struct {
	Sheet string
	Cell  string
	Want  string // "number", "text"
	Value string
	Err   error
}

func (e *CellError) Error() string {
	if e.Value == "" {
		return fmt.Sprintf("cell %s!%s: expected %s: %v", e.Sheet, e.Cell, e.Want, e.Err)
	}
	return fmt.Sprintf("cell %s!%s: expected %s, got %q: %v", e.Sheet, e.Cell, e.Want, e.Value, e.Err)
}

func (e *CellError) Unwrap() error {
	return e.Err
}

// CapacityError reports a detail sheet whose rows do not fit on the form.
// Its message is the user-facing text printed before the run stops.
type CapacityError struct {
	Sheet    string
	Limit    int
	Airwork  int
	Briefing int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("Tabellerne i %s indeholder mere end %d rækker - det er der desværre ikke plads til i Word dokumentet.",
		e.Sheet, e.Limit)
}

func (e *CapacityError) Unwrap() error {
	return ErrCapacityExceeded
}
