package docx

import (
	"encoding/xml"
	"strconv"
	"strings"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
)

// Table is a w:tbl element.
type Table struct {
	node *Node
}

// Rows returns the table rows.
func (t *Table) Rows() []*Row {
	var rows []*Row
	for _, n := range t.node.ChildrenNamed("tr") {
		rows = append(rows, &Row{node: n})
	}
	return rows
}

// Row is a w:tr element.
type Row struct {
	node *Node
}

// Cells returns the cells of the row.
func (r *Row) Cells() []*Cell {
	var cells []*Cell
	for _, n := range r.node.ChildrenNamed("tc") {
		cells = append(cells, &Cell{node: n})
	}
	return cells
}

// Cell is a w:tc element.
type Cell struct {
	node *Node
}

// Paragraphs returns the paragraphs directly inside the cell.
func (c *Cell) Paragraphs() []*Paragraph {
	var ps []*Paragraph
	for _, n := range c.node.ChildrenNamed("p") {
		ps = append(ps, &Paragraph{node: n})
	}
	return ps
}

// Paragraph is a w:p element.
type Paragraph struct {
	node *Node
}

// Runs returns the runs directly inside the paragraph.
func (p *Paragraph) Runs() []*Run {
	var runs []*Run
	for _, n := range p.node.ChildrenNamed("r") {
		runs = append(runs, &Run{node: n})
	}
	return runs
}

// Text returns the concatenated text of the paragraph's runs.
func (p *Paragraph) Text() string {
	var sb strings.Builder
	for _, r := range p.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// TextGroups returns the maximal sequences of adjacent runs that hold only
// text. Any other paragraph content ends a group: hyperlinks, tracked
// changes, simple fields, bookmarks and runs holding fields or drawings.
func (p *Paragraph) TextGroups() []*RunGroup {
	var groups []*RunGroup
	var cur *RunGroup
	for i, n := range p.node.Children {
		switch {
		case n.kind == kindText && strings.TrimSpace(n.Text) == "",
			n.kind == kindComment, n.kind == kindProcInst:
			continue
		case n.IsElement("r") && isPlainTextRun(n):
			if cur == nil {
				cur = &RunGroup{parent: p.node, at: i}
				groups = append(groups, cur)
			}
			cur.runs = append(cur.runs, n)
		default:
			cur = nil
		}
	}
	return groups
}

// RunGroup is a sequence of adjacent text runs inside a paragraph.
type RunGroup struct {
	parent *Node
	runs   []*Node
	at     int
}

// Runs returns the runs of the group.
func (g *RunGroup) Runs() []*Run {
	runs := make([]*Run, len(g.runs))
	for i, n := range g.runs {
		runs[i] = &Run{node: n}
	}
	return runs
}

// Text returns the concatenated text of the group.
func (g *RunGroup) Text() string {
	var sb strings.Builder
	for _, r := range g.Runs() {
		sb.WriteString(r.Text())
	}
	return sb.String()
}

// Clear removes the runs of the group. Runs added afterwards take their place.
func (g *RunGroup) Clear() {
	if len(g.runs) > 0 {
		g.at = g.parent.IndexOf(g.runs[0])
	}
	for _, n := range g.runs {
		g.parent.Remove(n)
	}
	g.runs = nil
}

// AddRun inserts a run holding text after the last run of the group.
func (g *RunGroup) AddRun(text string) *Run {
	r := &Run{node: newElement("r")}
	r.SetText(text)
	at := g.at
	if n := len(g.runs); n > 0 {
		at = g.parent.IndexOf(g.runs[n-1]) + 1
	}
	g.parent.InsertAt(at, r.node)
	g.runs = append(g.runs, r.node)
	return r
}

// XML returns the serialized paragraph element.
func (p *Paragraph) XML() string {
	var sb strings.Builder
	_ = writeXML(&sb, &Node{Children: []*Node{p.node}})
	return sb.String()
}

// Run is a w:r element.
type Run struct {
	node *Node
}

// Text returns the run text. Tabs and breaks are returned as \t and \n.
func (r *Run) Text() string {
	var sb strings.Builder
	for _, c := range r.node.Children {
		if c.kind != kindElement {
			continue
		}
		switch c.Name.Local {
		case "t":
			sb.WriteString(innerText(c))
		case "tab":
			sb.WriteByte('\t')
		case "br", "cr":
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}

// SetText replaces the run content, keeping its properties.
func (r *Run) SetText(text string) {
	kept := r.node.Children[:0]
	for _, c := range r.node.Children {
		if c.kind == kindElement && isTextContent(c.Name.Local) {
			continue
		}
		kept = append(kept, c)
	}
	r.node.Children = kept

	var chunk strings.Builder
	flush := func() {
		if chunk.Len() == 0 {
			return
		}
		t := newElement("t", xml.Attr{Name: xml.Name{Space: "xml", Local: "space"}, Value: "preserve"})
		t.Append(newText(chunk.String()))
		r.node.Append(t)
		chunk.Reset()
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flush()
			r.node.Append(newElement("tab"))
		case '\n':
			flush()
			r.node.Append(newElement("br"))
		default:
			chunk.WriteRune(ch)
		}
	}
	flush()
}

// isTextContent reports whether a run child holds visible text.
func isTextContent(local string) bool {
	switch local {
	case "t", "tab", "br", "cr":
		return true
	}
	return false
}

// isPlainTextRun reports whether a run holds only properties and text.
func isPlainTextRun(n *Node) bool {
	for _, c := range n.Children {
		if c.kind != kindElement {
			continue
		}
		switch c.Name.Local {
		case "rPr", "t", "tab", "br", "cr", "lastRenderedPageBreak", "softHyphen", "noBreakHyphen":
		default:
			return false
		}
	}
	return true
}

// formattingProps are run properties that count as inline formatting.
var formattingProps = map[string]bool{
	"b":      true,
	"bCs":    true,
	"i":      true,
	"iCs":    true,
	"u":      true,
	"color":  true,
	"sz":     true,
	"szCs":   true,
	"rFonts": true,
}

// HasFormatting reports whether the run sets bold, italic, underline,
// color, size or font.
func (r *Run) HasFormatting() bool {
	rPr := r.node.Child("rPr")
	if rPr == nil {
		return false
	}
	for _, c := range rPr.Children {
		if c.kind == kindElement && formattingProps[c.Name.Local] {
			return true
		}
	}
	return false
}

// SetStyle replaces the run properties with the given formatting.
func (r *Run) SetStyle(s models.TextStyle) {
	if old := r.node.Child("rPr"); old != nil {
		r.node.Remove(old)
	}
	if s.IsZero() {
		return
	}
	r.node.InsertAt(0, styleProps(s))
}

// styleProps builds a w:rPr element. Children follow the schema order.
func styleProps(s models.TextStyle) *Node {
	rPr := newElement("rPr")
	if s.Font != "" {
		rPr.Append(newElement("rFonts", wAttr("ascii", s.Font), wAttr("hAnsi", s.Font), wAttr("cs", s.Font)))
	}
	if s.Bold {
		rPr.Append(newElement("b"))
	}
	if s.Italic {
		rPr.Append(newElement("i"))
	}
	if s.Color != "" {
		rPr.Append(newElement("color", wAttr("val", s.Color)))
	}
	if s.Size > 0 {
		rPr.Append(newElement("sz", wAttr("val", strconv.Itoa(s.Size))))
	}
	if s.Underline {
		rPr.Append(newElement("u", wAttr("val", "single")))
	}
	return rPr
}

// propsAfterVertAlign are rPr children that the schema places after w:vertAlign.
var propsAfterVertAlign = map[string]bool{
	"rtl": true, "cs": true, "em": true, "lang": true,
	"eastAsianLayout": true, "specVanish": true, "oMath": true,
}

// SetSubscript sets the run's vertical alignment to subscript.
func (r *Run) SetSubscript() {
	rPr := r.node.Child("rPr")
	if rPr == nil {
		rPr = newElement("rPr")
		r.node.InsertAt(0, rPr)
	}
	if va := rPr.Child("vertAlign"); va != nil {
		va.Attr = []xml.Attr{wAttr("val", "subscript")}
		return
	}
	va := newElement("vertAlign", wAttr("val", "subscript"))
	for i, c := range rPr.Children {
		if c.kind == kindElement && propsAfterVertAlign[c.Name.Local] {
			rPr.InsertAt(i, va)
			return
		}
	}
	rPr.Append(va)
}

// IsSubscript reports whether the run is subscript.
func (r *Run) IsSubscript() bool {
	rPr := r.node.Child("rPr")
	if rPr == nil {
		return false
	}
	va := rPr.Child("vertAlign")
	if va == nil {
		return false
	}
	v, _ := va.AttrValue("val")
	return v == "subscript"
}
