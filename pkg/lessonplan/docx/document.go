package docx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"strings"
	"time"
)

// MainPart is the archive path of the main document part.
const MainPart = "word/document.xml"

// ErrNotDocx indicates the archive has no main document part.
var ErrNotDocx = errors.New("word/document.xml not found in archive")

// part is one entry of the package archive.
type part struct {
	name     string
	data     []byte
	modified time.Time
}

// Document is an opened .docx package. The main document, headers and
// footers are parsed; every other part is carried through unchanged.
type Document struct {
	parts []*part
	trees map[string]*Node
}

// Open reads a .docx file.
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	doc, err := Read(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", filename, err)
	}
	return doc, nil
}

// Read parses a .docx package from r.
func Read(r io.ReaderAt, size int64) (*Document, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}

	doc := &Document{trees: make(map[string]*Node)}
	for _, f := range zr.File {
		data, err := readZipFile(f)
		if err != nil {
			return nil, err
		}
		doc.parts = append(doc.parts, &part{name: f.Name, data: data, modified: f.Modified})

		if isParsedPart(f.Name) {
			tree, err := parseXML(data)
			if err != nil {
				return nil, fmt.Errorf("parse %s: %w", f.Name, err)
			}
			doc.trees[f.Name] = tree
		}
	}

	if doc.trees[MainPart] == nil {
		return nil, ErrNotDocx
	}
	return doc, nil
}

// readZipFile reads the content of one archive entry.
func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", f.Name, err)
	}
	defer rc.Close()
	return io.ReadAll(rc)
}

// isParsedPart reports whether a part may contain template fields.
func isParsedPart(name string) bool {
	if name == MainPart {
		return true
	}
	dir, file := path.Split(name)
	if dir != "word/" || !strings.HasSuffix(file, ".xml") {
		return false
	}
	return strings.HasPrefix(file, "header") || strings.HasPrefix(file, "footer")
}

// NewDocument builds a minimal package around the given w:body content.
func NewDocument(bodyXML string) (*Document, error) {
	const contentTypes = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">` +
		`<Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>` +
		`<Default Extension="xml" ContentType="application/xml"/>` +
		`<Override PartName="/word/document.xml" ContentType="application/vnd.openxmlformats-officedocument.wordprocessingml.document.main+xml"/>` +
		`</Types>`
	const rels = `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		`<Relationship Id="rId1" Type="http://schemas.openxmlformats.org/officeDocument/2006/relationships/officeDocument" Target="word/document.xml"/>` +
		`</Relationships>`
	main := `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">` +
		`<w:body>` + bodyXML + `</w:body></w:document>`

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, p := range []struct{ name, data string }{
		{"[Content_Types].xml", contentTypes},
		{"_rels/.rels", rels},
		{MainPart, main},
	} {
		w, err := zw.Create(p.name)
		if err != nil {
			return nil, err
		}
		if _, err := io.WriteString(w, p.data); err != nil {
			return nil, err
		}
	}
	if err := zw.Close(); err != nil {
		return nil, err
	}
	return Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
}

// Body returns the w:body element of the main document.
func (d *Document) Body() *Node {
	root := d.trees[MainPart]
	for _, c := range root.Children {
		if c.IsElement("document") {
			return c.Child("body")
		}
	}
	return nil
}

// Tables returns the top-level tables of the document body.
func (d *Document) Tables() []*Table {
	body := d.Body()
	if body == nil {
		return nil
	}
	var tables []*Table
	for _, n := range body.ChildrenNamed("tbl") {
		tables = append(tables, &Table{node: n})
	}
	return tables
}

// Paragraphs returns every paragraph of the parsed parts, including those in
// tables, headers and footers, in document order.
func (d *Document) Paragraphs() []*Paragraph {
	var out []*Paragraph
	for _, name := range d.parsedNames() {
		d.trees[name].Walk(func(n *Node) bool {
			if n.IsElement("p") {
				out = append(out, &Paragraph{node: n})
			}
			return true
		})
	}
	return out
}

// Text returns the visible text of the main document, one line per paragraph.
func (d *Document) Text() string {
	var lines []string
	d.trees[MainPart].Walk(func(n *Node) bool {
		if n.IsElement("p") {
			lines = append(lines, (&Paragraph{node: n}).Text())
			return false
		}
		return true
	})
	return strings.Join(lines, "\n")
}

// parsedNames returns the parsed part names in archive order.
func (d *Document) parsedNames() []string {
	var names []string
	for _, p := range d.parts {
		if _, ok := d.trees[p.name]; ok {
			names = append(names, p.name)
		}
	}
	return names
}

// Write serializes the package to w.
func (d *Document) Write(w io.Writer) error {
	zw := zip.NewWriter(w)
	for _, p := range d.parts {
		data := p.data
		if tree, ok := d.trees[p.name]; ok {
			var buf bytes.Buffer
			if err := writeXML(&buf, tree); err != nil {
				return fmt.Errorf("serialize %s: %w", p.name, err)
			}
			data = buf.Bytes()
		}

		fw, err := zw.CreateHeader(&zip.FileHeader{
			Name:     p.name,
			Method:   zip.Deflate,
			Modified: p.modified,
		})
		if err != nil {
			return err
		}
		if _, err := fw.Write(data); err != nil {
			return err
		}
	}
	return zw.Close()
}

// Save writes the package to a file.
func (d *Document) Save(filename string) error {
	var buf bytes.Buffer
	if err := d.Write(&buf); err != nil {
		return err
	}
	return os.WriteFile(filename, buf.Bytes(), 0644)
}
