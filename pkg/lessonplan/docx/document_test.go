package docx

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tableBody = `<w:tbl><w:tblPr><w:tblW w:w="5000" w:type="pct"/></w:tblPr>` +
	`<w:tr><w:tc><w:p><w:r><w:t>1.00</w:t></w:r></w:p></w:tc>` +
	`<w:tc><w:p><w:pPr><w:jc w:val="left"/></w:pPr><w:r><w:t xml:space="preserve">Climb &amp; turn </w:t></w:r></w:p></w:tc></w:tr>` +
	`</w:tbl>` +
	`<w:p><w:r><w:t>Footer line</w:t></w:r></w:p>`

// partData returns the bytes of one archive entry of a written document.
func partData(t *testing.T, doc *Document, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, doc.Write(&buf))
	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != name {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		data, err := io.ReadAll(rc)
		require.NoError(t, err)
		return data
	}
	t.Fatalf("part %s not found", name)
	return nil
}

func TestDocumentStructure(t *testing.T) {
	doc, err := NewDocument(tableBody)
	require.NoError(t, err)

	tables := doc.Tables()
	require.Len(t, tables, 1)
	rows := tables[0].Rows()
	require.Len(t, rows, 1)
	cells := rows[0].Cells()
	require.Len(t, cells, 2)

	paras := cells[1].Paragraphs()
	require.Len(t, paras, 1)
	assert.Equal(t, "Climb & turn ", paras[0].Text())

	assert.Equal(t, "1.00\nClimb & turn \nFooter line", doc.Text())
	assert.Len(t, doc.Paragraphs(), 3)
}

func TestDocumentRoundTrip(t *testing.T) {
	doc, err := NewDocument(tableBody)
	require.NoError(t, err)

	first := partData(t, doc, MainPart)
	assert.Contains(t, string(first), `<w:t xml:space="preserve">Climb &amp; turn </w:t>`)
	assert.Contains(t, string(first), `<w:tblW w:w="5000" w:type="pct"/>`)
	assert.Contains(t, string(first), `xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"`)

	path := filepath.Join(t.TempDir(), "out.docx")
	require.NoError(t, doc.Save(path))

	reopened, err := Open(path)
	require.NoError(t, err)
	assert.Equal(t, doc.Text(), reopened.Text())
	assert.Equal(t, first, partData(t, reopened, MainPart))
	assert.NotEmpty(t, partData(t, reopened, "[Content_Types].xml"))
}

func TestReadRejectsNonDocx(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("hello.txt")
	require.NoError(t, err)
	_, err = w.Write([]byte("hi"))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	_, err = Read(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.ErrorIs(t, err, ErrNotDocx)

	_, err = Read(bytes.NewReader([]byte("not a zip")), 9)
	assert.Error(t, err)
}

func TestParseXMLErrors(t *testing.T) {
	_, err := parseXML([]byte(`<w:p><w:r></w:p>`))
	assert.Error(t, err)

	_, err = parseXML([]byte(`<w:p><w:r>`))
	assert.Error(t, err)
}

func TestWriteXMLEscaping(t *testing.T) {
	root, err := parseXML([]byte(`<?xml version="1.0"?>` + "\n" +
		`<a x="1 &quot;2&quot; &amp; 3"><!-- note --><b>x &lt; y &amp;&amp; "q"</b></a>`))
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, writeXML(&buf, root))
	assert.Equal(t, `<?xml version="1.0"?>`+"\n"+
		`<a x="1 &quot;2&quot; &amp; 3"><!-- note --><b>x &lt; y &amp;&amp; "q"</b></a>`, buf.String())
}
