package docx

import (
	"fmt"
	"html"
	"regexp"
	"sort"
	"strings"

	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
)

// fieldPattern matches "{{ name }}" and the rich text form "{{r name }}".
var fieldPattern = regexp.MustCompile(`\{\{(?:(r)\s+|\s*)([A-Za-z_][A-Za-z0-9_]*)\s*\}\}`)

// segment is a piece of rendered paragraph text.
type segment struct {
	text  string
	rich  *models.RichText
	plain bool // inherits the template run properties
}

// Render substitutes template fields in every paragraph of the body,
// headers and footers.
//
// String values are markup-escaped text: entities such as &amp; are decoded
// before the text is placed in a run. *models.RichText values become runs
// with their own formatting. Fields missing from the map render empty.
// It returns the number of fields substituted.
func (d *Document) Render(fields map[string]any) (int, error) {
	total := 0
	for _, p := range d.Paragraphs() {
		n, err := p.render(fields)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

// render substitutes the fields of one paragraph. A field may be split over
// several runs. Each run touched by a field is replaced in place: it keeps
// its own properties and holds the fields that start in it, so runs of other
// kinds (fields, drawings) stay where they were relative to the text.
func (p *Paragraph) render(fields map[string]any) (int, error) {
	var runs []*Node
	var bounds []int // offset of each run in full, then len(full)
	var sb strings.Builder
	for _, n := range p.node.ChildrenNamed("r") {
		if !isPlainTextRun(n) {
			continue
		}
		runs = append(runs, n)
		bounds = append(bounds, sb.Len())
		sb.WriteString((&Run{node: n}).Text())
	}
	full := sb.String()
	bounds = append(bounds, len(full))

	matches := fieldPattern.FindAllStringSubmatchIndex(full, -1)
	if len(matches) == 0 {
		return 0, nil
	}

	// owner returns the run holding the byte at off.
	owner := func(off int) int {
		return sort.Search(len(runs), func(i int) bool { return bounds[i+1] > off })
	}
	placed := make([][]segment, len(runs))
	touched := make([]bool, len(runs))
	literal := func(from, to int) {
		for from < to {
			i := owner(from)
			end := min(to, bounds[i+1])
			placed[i] = append(placed[i], segment{text: full[from:end], plain: true})
			from = end
		}
	}

	last := 0
	for _, m := range matches {
		literal(last, m[0])
		name := full[m[4]:m[5]]
		seg, err := fieldSegment(name, fields[name])
		if err != nil {
			return 0, err
		}
		i := owner(m[0])
		placed[i] = append(placed[i], seg)
		for j := i; j < len(runs) && bounds[j] < m[1]; j++ {
			touched[j] = true
		}
		last = m[1]
	}
	literal(last, len(full))

	for i, n := range runs {
		if !touched[i] {
			continue
		}
		at := p.node.IndexOf(n)
		p.node.Remove(n)
		p.node.InsertAt(at, buildRuns(n.Child("rPr"), placed[i])...)
	}
	return len(matches), nil
}

// buildRuns turns segments into runs. Plain text gets props.
func buildRuns(props *Node, segments []segment) []*Node {
	var out []*Node
	for _, seg := range mergePlain(segments) {
		if seg.rich != nil {
			for _, rr := range seg.rich.Runs {
				r := &Run{node: newElement("r")}
				r.SetStyle(rr.Style)
				r.SetText(rr.Text)
				out = append(out, r.node)
			}
			continue
		}
		if seg.text == "" {
			continue
		}
		r := &Run{node: newElement("r")}
		if props != nil {
			r.node.Append(props.Clone())
		}
		r.SetText(seg.text)
		out = append(out, r.node)
	}
	return out
}

// fieldSegment converts a field value to a segment.
func fieldSegment(name string, value any) (segment, error) {
	switch v := value.(type) {
	case nil:
		return segment{plain: true}, nil
	case string:
		return segment{text: html.UnescapeString(v), plain: true}, nil
	case *models.RichText:
		if v == nil {
			return segment{plain: true}, nil
		}
		return segment{rich: v}, nil
	case models.RichText:
		return segment{rich: &v}, nil
	case fmt.Stringer:
		return segment{text: v.String(), plain: true}, nil
	case int, int64, float64, bool:
		return segment{text: fmt.Sprint(v), plain: true}, nil
	default:
		return segment{}, fmt.Errorf("field %q: unsupported value type %T", name, value)
	}
}

// mergePlain joins adjacent plain segments so they become one run.
func mergePlain(segments []segment) []segment {
	var out []segment
	for _, s := range segments {
		if n := len(out); n > 0 && s.plain && out[n-1].plain {
			out[n-1].text += s.text
			continue
		}
		out = append(out, s)
	}
	return out
}
