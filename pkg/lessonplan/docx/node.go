// Package docx reads, edits and writes WordprocessingML (.docx) packages.
//
// XML parts are held as node trees built from raw tokens, so namespace
// prefixes and attributes survive a read/write round trip unchanged.
package docx

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"strings"
)

// Namespace prefix used by WordprocessingML elements.
const prefixW = "w"

type nodeKind int

const (
	kindElement nodeKind = iota
	kindText
	kindProcInst
	kindComment
	kindDirective
)

// Node is an element or character data in an XML part.
type Node struct {
	kind     nodeKind
	Name     xml.Name // Space holds the prefix, not the namespace URI
	Attr     []xml.Attr
	Children []*Node
	Text     string // character data, or the raw body of non-element tokens
	target   string // processing instruction target
}

// newElement creates a w: element.
func newElement(local string, attrs ...xml.Attr) *Node {
	return &Node{kind: kindElement, Name: xml.Name{Space: prefixW, Local: local}, Attr: attrs}
}

func newText(s string) *Node {
	return &Node{kind: kindText, Text: s}
}

func wAttr(local, value string) xml.Attr {
	return xml.Attr{Name: xml.Name{Space: prefixW, Local: local}, Value: value}
}

// IsElement reports whether n is an element with the given local name.
func (n *Node) IsElement(local string) bool {
	return n.kind == kindElement && n.Name.Local == local
}

// Child returns the first child element with the given local name.
func (n *Node) Child(local string) *Node {
	for _, c := range n.Children {
		if c.IsElement(local) {
			return c
		}
	}
	return nil
}

// ChildrenNamed returns the child elements with the given local name.
func (n *Node) ChildrenNamed(local string) []*Node {
	var out []*Node
	for _, c := range n.Children {
		if c.IsElement(local) {
			out = append(out, c)
		}
	}
	return out
}

// AttrValue returns the value of an attribute by local name.
func (n *Node) AttrValue(local string) (string, bool) {
	for _, a := range n.Attr {
		if a.Name.Local == local {
			return a.Value, true
		}
	}
	return "", false
}

// Append adds children at the end.
func (n *Node) Append(children ...*Node) {
	n.Children = append(n.Children, children...)
}

// Remove deletes a direct child. It reports whether the child was found.
func (n *Node) Remove(child *Node) bool {
	for i, c := range n.Children {
		if c == child {
			n.Children = append(n.Children[:i], n.Children[i+1:]...)
			return true
		}
	}
	return false
}

// InsertAt inserts children before index i.
func (n *Node) InsertAt(i int, children ...*Node) {
	if i >= len(n.Children) {
		n.Append(children...)
		return
	}
	rest := append([]*Node{}, n.Children[i:]...)
	n.Children = append(append(n.Children[:i], children...), rest...)
}

// IndexOf returns the position of a direct child, or -1.
func (n *Node) IndexOf(child *Node) int {
	for i, c := range n.Children {
		if c == child {
			return i
		}
	}
	return -1
}

// Clone returns a deep copy.
func (n *Node) Clone() *Node {
	c := *n
	c.Attr = append([]xml.Attr(nil), n.Attr...)
	c.Children = make([]*Node, len(n.Children))
	for i, child := range n.Children {
		c.Children[i] = child.Clone()
	}
	return &c
}

// Walk visits n and its descendants depth-first. Returning false skips the children.
func (n *Node) Walk(fn func(*Node) bool) {
	if !fn(n) {
		return
	}
	for _, c := range n.Children {
		c.Walk(fn)
	}
}

// parseXML builds a node tree from an XML part. The returned root is a
// synthetic container holding the prolog and the document element.
func parseXML(data []byte) (*Node, error) {
	decoder := xml.NewDecoder(bytes.NewReader(data))
	root := &Node{kind: kindElement}
	stack := []*Node{root}

	for {
		token, err := decoder.RawToken()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		parent := stack[len(stack)-1]
		switch t := token.(type) {
		case xml.StartElement:
			el := &Node{kind: kindElement, Name: t.Name, Attr: append([]xml.Attr(nil), t.Attr...)}
			parent.Append(el)
			stack = append(stack, el)
		case xml.EndElement:
			if len(stack) == 1 {
				return nil, fmt.Errorf("unexpected end element %s", qname(t.Name))
			}
			top := stack[len(stack)-1]
			if top.Name != t.Name {
				return nil, fmt.Errorf("element %s closed by %s", qname(top.Name), qname(t.Name))
			}
			stack = stack[:len(stack)-1]
		case xml.CharData:
			parent.Append(newText(string(t)))
		case xml.ProcInst:
			parent.Append(&Node{kind: kindProcInst, target: t.Target, Text: string(t.Inst)})
		case xml.Comment:
			parent.Append(&Node{kind: kindComment, Text: string(t)})
		case xml.Directive:
			parent.Append(&Node{kind: kindDirective, Text: string(t)})
		}
	}

	if len(stack) != 1 {
		return nil, fmt.Errorf("unclosed element %s", qname(stack[len(stack)-1].Name))
	}
	return root, nil
}

// writeXML serializes a tree produced by parseXML.
func writeXML(w io.Writer, root *Node) error {
	var buf bytes.Buffer
	for _, c := range root.Children {
		if err := writeNode(&buf, c); err != nil {
			return err
		}
	}
	_, err := w.Write(buf.Bytes())
	return err
}

func writeNode(buf *bytes.Buffer, n *Node) error {
	switch n.kind {
	case kindText:
		escape(buf, n.Text, false)
	case kindProcInst:
		buf.WriteString("<?" + n.target)
		if n.Text != "" {
			buf.WriteString(" " + n.Text)
		}
		buf.WriteString("?>")
	case kindComment:
		buf.WriteString("<!--" + n.Text + "-->")
	case kindDirective:
		buf.WriteString("<!" + n.Text + ">")
	case kindElement:
		buf.WriteString("<" + qname(n.Name))
		for _, a := range n.Attr {
			buf.WriteString(" " + qname(a.Name) + `="`)
			escape(buf, a.Value, true)
			buf.WriteByte('"')
		}
		if len(n.Children) == 0 {
			buf.WriteString("/>")
			return nil
		}
		buf.WriteByte('>')
		for _, c := range n.Children {
			if err := writeNode(buf, c); err != nil {
				return err
			}
		}
		buf.WriteString("</" + qname(n.Name) + ">")
	}
	return nil
}

// escape writes s with markup characters replaced. Whitespace is kept
// literal in character data so indentation stays ignorable.
func escape(buf *bytes.Buffer, s string, attr bool) {
	for _, r := range s {
		switch r {
		case '&':
			buf.WriteString("&amp;")
		case '<':
			buf.WriteString("&lt;")
		case '>':
			buf.WriteString("&gt;")
		case '"':
			if attr {
				buf.WriteString("&quot;")
			} else {
				buf.WriteRune(r)
			}
		case '\n', '\r', '\t':
			if attr {
				fmt.Fprintf(buf, "&#x%X;", r)
			} else {
				buf.WriteRune(r)
			}
		default:
			buf.WriteRune(r)
		}
	}
}

func qname(name xml.Name) string {
	if name.Space == "" {
		return name.Local
	}
	return name.Space + ":" + name.Local
}

// innerText concatenates the character data below n.
func innerText(n *Node) string {
	var sb strings.Builder
	n.Walk(func(c *Node) bool {
		if c.kind == kindText {
			sb.WriteString(c.Text)
		}
		return true
	})
	return sb.String()
}
