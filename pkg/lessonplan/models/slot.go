package models

import "strconv"

// FormCapacity is the number of numbered lines available on the lesson form.
const FormCapacity = 22

// Slot is one numbered line of the lesson form.
type Slot struct {
	// Position is the 1-based line on the form.
	Position int `json:"position"`
	// Number is rendered into the N{Position} field. Empty for header lines.
	Number string `json:"number,omitempty"`
	// Text is rendered into the T{Position} field: a string or *RichText.
	Text any `json:"text"`
}

// NumberKey returns the template field name holding the slot number.
func (s Slot) NumberKey() string {
	return "N" + strconv.Itoa(s.Position)
}

// TextKey returns the template field name holding the slot text.
func (s Slot) TextKey() string {
	return "T" + strconv.Itoa(s.Position)
}
