// Package models defines data structures for lesson plan generation.
package models

// Lesson holds everything extracted from the workbook for one lesson.
type Lesson struct {
	// Number is the lesson number as written on the overview sheet.
	Number string `json:"number"`
	// Name is the lesson title.
	Name string `json:"name"`
	// Duration is the combined estimate label, e.g. "Est. Dual: 1:00, solo: 0:30".
	Duration string `json:"duration,omitempty"`
	// Airwork lists the flight exercises in sheet order.
	Airwork []AirworkRow `json:"airwork,omitempty"`
	// Briefing lists the ground briefing topics in sheet order.
	Briefing []BriefingRow `json:"briefing,omitempty"`
}

// AirworkRow represents one flight exercise on a detail sheet.
type AirworkRow struct {
	// Row is the sheet row index (1-based).
	Row int `json:"row"`
	// Value is the exercise number (column A).
	Value float64 `json:"value"`
	// Text is the exercise description (column B).
	Text string `json:"text"`
}

// BriefingRow represents one ground briefing topic on a detail sheet.
type BriefingRow struct {
	// Row is the sheet row index (1-based).
	Row int `json:"row"`
	// Topic is the topic identifier (column D).
	Topic string `json:"topic"`
	// Text is the topic description (column E).
	Text string `json:"text"`
}
