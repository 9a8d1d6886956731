// Package parser reads lesson data from the planning workbook.
package parser

import (
	"fmt"
	"math"
	"strings"
)

// SecondsPerDay is the number of seconds in one Excel serial day.
// Excel stores times and durations as fractions of a day: 0.5 is 12:00.
const SecondsPerDay = 86400

// SerialToClock converts an Excel serial value to hours and minutes within the day.
// Whole days are dropped, so 1.0625 and 0.0625 both give 1:30.
func SerialToClock(serial float64) (hours, minutes int) {
	secs := int64(math.Round(serial * SecondsPerDay))
	secs %= SecondsPerDay
	if secs < 0 {
		secs += SecondsPerDay
	}
	return int(secs / 3600), int(secs/60) % 60
}

// FormatClock formats hours and minutes as H:MM.
func FormatClock(hours, minutes int) string {
	return fmt.Sprintf("%d:%02d", hours, minutes)
}

// builtinDateFormats lists the built-in number format ids that display dates or times.
var builtinDateFormats = map[int]bool{
	14: true, 15: true, 16: true, 17: true, 18: true, 19: true, 20: true, 21: true, 22: true,
	45: true, 46: true, 47: true,
}

// isDateFormat reports whether a custom number format code displays a date or time.
// Quoted literals, escaped characters and bracketed sections other than elapsed
// time markers ([h], [mm], [ss]) are ignored.
func isDateFormat(code string) bool {
	var sb strings.Builder
	inQuote := false
	for i := 0; i < len(code); i++ {
		ch := code[i]
		switch {
		case inQuote:
			if ch == '"' {
				inQuote = false
			}
		case ch == '"':
			inQuote = true
		case ch == '\\' || ch == '_' || ch == '*':
			i++
		case ch == '[':
			end := strings.IndexByte(code[i:], ']')
			if end < 0 {
				return false
			}
			inner := strings.ToLower(code[i+1 : i+end])
			if strings.Trim(inner, "hms") == "" && inner != "" {
				return true
			}
			i += end
		default:
			sb.WriteByte(ch)
		}
	}
	plain := strings.ToLower(sb.String())
	if strings.Contains(plain, "general") {
		return false
	}
	return strings.ContainsAny(plain, "ymdhs")
}
