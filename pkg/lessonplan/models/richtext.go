package models

import "strings"

// TextStyle holds inline character formatting.
type TextStyle struct {
	Bold      bool   `json:"bold,omitempty"`
	Italic    bool   `json:"italic,omitempty"`
	Underline bool   `json:"underline,omitempty"`
	Color     string `json:"color,omitempty"`
	// Size is the font size in half-points (Word's unit), 0 keeps the default.
	Size int    `json:"size,omitempty"`
	Font string `json:"font,omitempty"`
}

// IsZero reports whether no formatting is set.
func (s TextStyle) IsZero() bool {
	return s == TextStyle{}
}

// RichRun is a piece of text sharing one style.
type RichRun struct {
	Text  string    `json:"text"`
	Style TextStyle `json:"style"`
}

// RichText is styled text for template fields that must carry formatting.
type RichText struct {
	Runs []RichRun `json:"runs"`
}

// NewRichText returns an empty RichText.
func NewRichText() *RichText {
	return &RichText{}
}

// Add appends text with the given style and returns r for chaining.
func (r *RichText) Add(text string, style TextStyle) *RichText {
	r.Runs = append(r.Runs, RichRun{Text: text, Style: style})
	return r
}

// String returns the plain text without formatting.
func (r *RichText) String() string {
	var sb strings.Builder
	for _, run := range r.Runs {
		sb.WriteString(run.Text)
	}
	return sb.String()
}
