// Package restyle re-applies subscript formatting to airspeed abbreviations
// in rendered lesson documents.
//
// Template fields carry plain text, so "VREF" arrives in the document as four
// normal characters. The pass finds known abbreviations in table paragraphs
// and splits each into a normal lead letter and a subscript remainder.
package restyle

import (
	"strings"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/docx"
	"go.uber.org/zap"
)

// DefaultVocabulary lists the abbreviations to restyle. When two tokens match
// at the same position the one listed first wins.
var DefaultVocabulary = []string{
	"VX", "VY", "VA", "VR", "VS", "VS0", "VS1", "VNO", "VNE", "VFE", "VREF", "VGLIDE",
}

// boundaryChars may follow a token. A token at the end of the text also matches.
const boundaryChars = " ,.?"

// Segment is a piece of paragraph text. Either Literal is set, or Lead and Sub
// hold a matched token split after its first character.
type Segment struct {
	Literal string
	Lead    string
	Sub     string
}

// IsToken reports whether the segment is a matched token.
func (s Segment) IsToken() bool {
	return s.Lead != ""
}

// Text returns the visible text of the segment.
func (s Segment) Text() string {
	return s.Literal + s.Lead + s.Sub
}

// Scan splits text into literal segments and matched tokens.
//
// From the cursor, every token's first occurrence that is followed by a
// boundary character (or the end of the text) is a candidate; the earliest
// candidate wins, and ties go to the token listed first.
func Scan(text string, vocab []string) []Segment {
	var segments []Segment
	cursor := 0
	for cursor < len(text) {
		start, token := -1, ""
		for _, tok := range vocab {
			idx := findBounded(text, tok, cursor)
			if idx >= 0 && (start < 0 || idx < start) {
				start, token = idx, tok
			}
		}
		if start < 0 {
			break
		}
		if start > cursor {
			segments = append(segments, Segment{Literal: text[cursor:start]})
		}
		segments = append(segments, Segment{Lead: token[:1], Sub: token[1:]})
		cursor = start + len(token)
	}
	if cursor < len(text) {
		segments = append(segments, Segment{Literal: text[cursor:]})
	}
	return segments
}

// findBounded returns the first index at or after from where tok occurs and
// is followed by a boundary character or the end of text, or -1.
func findBounded(text, tok string, from int) int {
	if tok == "" {
		return -1
	}
	for from <= len(text)-len(tok) {
		idx := strings.Index(text[from:], tok)
		if idx < 0 {
			return -1
		}
		idx += from
		end := idx + len(tok)
		if end == len(text) || strings.IndexByte(boundaryChars, text[end]) >= 0 {
			return idx
		}
		from = idx + 1
	}
	return -1
}

// Pass restyles documents with a fixed vocabulary.
type Pass struct {
	vocab  []string
	logger *zap.Logger
}

// New creates a Pass. A nil or empty vocabulary uses DefaultVocabulary.
func New(vocab []string, logger *zap.Logger) *Pass {
	if len(vocab) == 0 {
		vocab = DefaultVocabulary
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pass{vocab: vocab, logger: logger}
}

// Stats counts what a pass did to a document.
type Stats struct {
	Paragraphs int // table paragraphs visited
	Skipped    int // left untouched because they carry formatting
	Tokens     int // abbreviations restyled
}

// Document restyles every paragraph of every table cell in doc.
func (p *Pass) Document(doc *docx.Document) Stats {
	var stats Stats
	for _, table := range doc.Tables() {
		for _, row := range table.Rows() {
			for _, cell := range row.Cells() {
				for _, para := range cell.Paragraphs() {
					stats.Paragraphs++
					n, ok := p.Paragraph(para)
					if !ok {
						stats.Skipped++
						continue
					}
					stats.Tokens += n
				}
			}
		}
	}
	return stats
}

// Paragraph rebuilds one paragraph with subscript tokens. Paragraphs whose
// runs carry formatting, such as the bold briefing header, are left as they
// are and ok is false. Each group of adjacent text runs is rebuilt where it
// stands, so hyperlinks, fields and tracked changes between them keep their
// place. A token split by such content is not matched. It returns the
// number of tokens restyled.
func (p *Pass) Paragraph(para *docx.Paragraph) (tokens int, ok bool) {
	if hasFormatting(para) {
		return 0, false
	}

	for _, g := range para.TextGroups() {
		text := g.Text()
		segments := Scan(text, p.vocab)
		p.logger.Debug("restyle run group", zap.String("text", text), zap.Int("segments", len(segments)))

		g.Clear()
		for _, seg := range segments {
			if !seg.IsToken() {
				g.AddRun(seg.Literal)
				continue
			}
			g.AddRun(seg.Lead)
			g.AddRun(seg.Sub).SetSubscript()
			tokens++
		}
	}
	return tokens, true
}

// hasFormatting reports whether any run of the paragraph sets inline formatting.
func hasFormatting(para *docx.Paragraph) bool {
	for _, r := range para.Runs() {
		if r.HasFormatting() {
			return true
		}
	}
	return false
}
