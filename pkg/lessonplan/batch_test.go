package lessonplan

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/docx"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/parser"
	"github.com/xuri/excelize/v2"
)

// fakeConverter writes a placeholder PDF and keeps the document it was given.
type fakeConverter struct {
	err  error
	docs map[string]*docx.Document
}

func (f *fakeConverter) Convert(_ context.Context, src, dst string) error {
	if f.err != nil {
		return f.err
	}
	doc, err := docx.Open(src)
	if err != nil {
		return err
	}
	if f.docs == nil {
		f.docs = make(map[string]*docx.Document)
	}
	f.docs[filepath.Base(src)] = doc
	return os.WriteFile(dst, []byte("%PDF-1.4\n"), 0644)
}

type fakeMerger struct {
	inputs []string
	output string
}

func (f *fakeMerger) Merge(_ context.Context, inputs []string, output string) error {
	f.inputs, f.output = inputs, output
	return os.WriteFile(output, []byte("%PDF-1.4\n"), 0644)
}

type lessonRow struct {
	name      string
	dual      float64 // hours, 0 for none
	airwork   []string
	briefings []string
}

var testLessons = []lessonRow{
	{name: "Circuits", dual: 1, airwork: []string{"Climb at VY."}, briefings: []string{"Radio & R/T"}},
	{name: "Stalls", airwork: []string{"Stall at VS1, recover", "Steep turns"}},
	{name: "Approaches", dual: 0.5, airwork: []string{"Approach at VREF"}},
}

// writeWorkbook saves a planning workbook holding lessons into dir.
func writeWorkbook(t *testing.T, dir string, lessons []lessonRow) string {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	require.NoError(t, f.SetSheetName("Sheet1", parser.OverviewSheet))
	timeStyle, err := f.NewStyle(&excelize.Style{NumFmt: 20})
	require.NoError(t, err)

	for i, l := range lessons {
		n := i + 1
		row := n + parser.OverviewRowOffset
		require.NoError(t, f.SetCellValue(parser.OverviewSheet, fmt.Sprintf("A%d", row), n))
		require.NoError(t, f.SetCellValue(parser.OverviewSheet, fmt.Sprintf("B%d", row), l.name))
		if l.dual > 0 {
			cell := fmt.Sprintf("C%d", row)
			require.NoError(t, f.SetCellFloat(parser.OverviewSheet, cell, l.dual/24, -1, 64))
			require.NoError(t, f.SetCellStyle(parser.OverviewSheet, cell, cell, timeStyle))
		}

		sheet := parser.DetailSheetName(n)
		_, err := f.NewSheet(sheet)
		require.NoError(t, err)
		for j, text := range l.airwork {
			r := parser.DetailRowOffset + j
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("A%d", r), float64(j+1)))
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("B%d", r), text))
		}
		for j, text := range l.briefings {
			r := parser.DetailRowOffset + j
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("D%d", r), fmt.Sprintf("B%d", j+1)))
			require.NoError(t, f.SetCellValue(sheet, fmt.Sprintf("E%d", r), text))
		}
	}

	path := filepath.Join(dir, "lessons.xlsx")
	require.NoError(t, f.SaveAs(path))
	return path
}

// writeTemplate saves a lesson template with slots 1, 2, 21 and 22.
func writeTemplate(t *testing.T, dir string) string {
	t.Helper()
	var body strings.Builder
	body.WriteString(`<w:p><w:r><w:t>{{ lesson_number }} {{ lesson_name }} ({{ version }})</w:t></w:r></w:p>`)
	body.WriteString(`<w:p><w:r><w:t>{{ lesson_duration }}</w:t></w:r></w:p>`)
	body.WriteString(`<w:tbl>`)
	for _, k := range []int{1, 2, 21, 22} {
		fmt.Fprintf(&body, `<w:tr><w:tc><w:p><w:r><w:t>{{ N%d }}</w:t></w:r></w:p></w:tc>`+
			`<w:tc><w:p><w:r><w:t>{{r T%d }}</w:t></w:r></w:p></w:tc></w:tr>`, k, k)
	}
	body.WriteString(`</w:tbl>`)

	doc, err := docx.NewDocument(body.String())
	require.NoError(t, err)
	path := filepath.Join(dir, "template.docx")
	require.NoError(t, doc.Save(path))
	return path
}

func testConfig(t *testing.T, lessons []lessonRow) Config {
	t.Helper()
	dir := t.TempDir()
	cfg := DefaultConfig()
	cfg.Input = writeWorkbook(t, dir, lessons)
	cfg.Template = writeTemplate(t, dir)
	cfg.OutputDir = dir
	cfg.FirstLesson, cfg.LastLesson = 1, len(lessons)
	cfg.FirstJoin, cfg.LastJoin = 0, 0
	return cfg
}

func newTestDriver(t *testing.T, cfg Config, conv *fakeConverter, merger *fakeMerger, out *bytes.Buffer) *Driver {
	t.Helper()
	deps := Deps{
		Converter: conv,
		Merger:    merger,
		Pages:     func(string) (int, error) { return 1, nil },
	}
	if out != nil {
		deps.Out = out
	}
	d, err := NewDriver(cfg, deps)
	require.NoError(t, err)
	return d
}

func cellRuns(doc *docx.Document, row, col int) []string {
	var texts []string
	for _, r := range doc.Tables()[0].Rows()[row].Cells()[col].Paragraphs()[0].Runs() {
		text := r.Text()
		if r.IsSubscript() {
			text = "_" + text
		}
		texts = append(texts, text)
	}
	return texts
}

func TestRunEndToEnd(t *testing.T) {
	cfg := testConfig(t, testLessons)
	conv, merger := &fakeConverter{}, &fakeMerger{}
	var out bytes.Buffer

	report, err := newTestDriver(t, cfg, conv, merger, &out).Run(context.Background())
	require.NoError(t, err)
	require.True(t, report.Succeeded())
	assert.NotEmpty(t, report.RunID)

	dir := cfg.OutputDir
	require.Len(t, report.Lessons, 3)
	for i, l := range report.Lessons {
		assert.Equal(t, i+1, l.Lesson)
		assert.Equal(t, testLessons[i].name, l.Name)
		assert.Equal(t, 1, l.Pages)
	}
	assert.Equal(t, 1, report.Lessons[0].Restyled)

	assert.Equal(t, []string{
		filepath.Join(dir, "temp_lesson_1.pdf"),
		filepath.Join(dir, "temp_lesson_2.pdf"),
		filepath.Join(dir, "temp_lesson_3.pdf"),
	}, merger.inputs)
	assert.Equal(t, filepath.Join(dir, "lesson-plan-2.0.pdf"), report.Merged)
	assert.FileExists(t, report.Merged)

	archive := filepath.Join(dir, "version_RFK", "2.0")
	assert.Equal(t, archive, report.ArchiveDir)
	for n := 1; n <= 3; n++ {
		assert.NoFileExists(t, filepath.Join(dir, fmt.Sprintf("temp_lesson_%d.docx", n)))
		assert.NoFileExists(t, filepath.Join(dir, fmt.Sprintf("temp_lesson_%d.pdf", n)))
		assert.FileExists(t, filepath.Join(archive, fmt.Sprintf("temp_lesson_%d.pdf", n)))
	}
	assert.Len(t, report.Removed, 3)
	assert.Len(t, report.Archived, 3)

	status := out.String()
	assert.Contains(t, status, "Document: lesson-plan-2.0.pdf ready\n\n")
	assert.Contains(t, status, "Cleaning up...\nTemporary word files have been successfully removed\n")
	assert.Contains(t, status, "The individual lesson plans has been successfully backed up to: ")
}

func TestRunRendersLessons(t *testing.T) {
	cfg := testConfig(t, testLessons)
	conv := &fakeConverter{}

	_, err := newTestDriver(t, cfg, conv, &fakeMerger{}, nil).Run(context.Background())
	require.NoError(t, err)

	first := conv.docs["temp_lesson_1.docx"]
	require.NotNil(t, first)
	text := first.Text()
	assert.Contains(t, text, "1 Circuits (RFK/2.0)")
	assert.Contains(t, text, "Est. Dual: 1:00")
	assert.Equal(t, []string{"1.00"}, cellRuns(first, 0, 0))
	assert.Equal(t, []string{"Climb at ", "V", "_Y", "."}, cellRuns(first, 0, 1))
	assert.Equal(t, []string{"Briefing topics:"}, cellRuns(first, 2, 1))
	assert.True(t, first.Tables()[0].Rows()[2].Cells()[1].Paragraphs()[0].Runs()[0].HasFormatting())
	assert.Equal(t, []string{"B1"}, cellRuns(first, 3, 0))
	assert.Equal(t, []string{"Radio & R/T"}, cellRuns(first, 3, 1))

	second := conv.docs["temp_lesson_2.docx"]
	require.NotNil(t, second)
	assert.NotContains(t, second.Text(), "Circuits")
	assert.NotContains(t, second.Text(), "Briefing topics:")
	assert.NotContains(t, second.Text(), "Est.")
	assert.Equal(t, []string{"Stall at ", "V", "_S1", ", recover"}, cellRuns(second, 0, 1))
	assert.Equal(t, []string{"Steep turns"}, cellRuns(second, 1, 1))

	third := conv.docs["temp_lesson_3.docx"]
	require.NotNil(t, third)
	assert.Contains(t, third.Text(), "Est. Dual: 0:30")
	assert.Equal(t, []string{"Approach at ", "V", "_REF"}, cellRuns(third, 0, 1))
}

func TestRunCapacityStopsBeforeOutput(t *testing.T) {
	lessons := append([]lessonRow(nil), testLessons...)
	var rows []string
	for i := 0; i < 23; i++ {
		rows = append(rows, fmt.Sprintf("exercise %d", i+1))
	}
	lessons[1] = lessonRow{name: "Overfull", airwork: rows}

	cfg := testConfig(t, lessons)
	conv, merger := &fakeConverter{}, &fakeMerger{}
	report, err := newTestDriver(t, cfg, conv, merger, nil).Run(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrCapacityExceeded)
	var capErr *parser.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Contains(t, capErr.Error(), "Lesson 2")
	assert.Contains(t, capErr.Error(), "22")

	require.NotNil(t, report)
	assert.False(t, report.Succeeded())
	assert.Equal(t, 2, report.Failure.Lesson)
	assert.Equal(t, StageExtract, report.Failure.Stage)
	assert.Len(t, report.Lessons, 1)

	dir := cfg.OutputDir
	assert.FileExists(t, filepath.Join(dir, "temp_lesson_1.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "temp_lesson_2.docx"))
	assert.NoFileExists(t, filepath.Join(dir, "temp_lesson_2.pdf"))
	assert.NoFileExists(t, filepath.Join(dir, "temp_lesson_3.docx"))
	assert.Nil(t, merger.inputs)
	assert.NoDirExists(t, filepath.Join(dir, "version_RFK"))
}

func TestRunConvertFailure(t *testing.T) {
	cfg := testConfig(t, testLessons)
	failure := errors.New("soffice crashed")

	report, err := newTestDriver(t, cfg, &fakeConverter{err: failure}, &fakeMerger{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, failure)
	assert.Equal(t, StageConvert, report.Failure.Stage)
	assert.Equal(t, 1, report.Failure.Lesson)
	assert.Empty(t, report.Lessons)
}

func TestRunMissingInput(t *testing.T) {
	cfg := testConfig(t, testLessons)
	cfg.Input = filepath.Join(cfg.OutputDir, "missing.xlsx")

	_, err := newTestDriver(t, cfg, &fakeConverter{}, &fakeMerger{}, nil).Run(context.Background())
	assert.ErrorIs(t, err, ErrFileNotFound)
	assert.Contains(t, err.Error(), "missing.xlsx")
}

func TestRunKeepsWordFiles(t *testing.T) {
	cfg := testConfig(t, testLessons)
	cfg.RemoveWordFiles = false
	var out bytes.Buffer

	report, err := newTestDriver(t, cfg, &fakeConverter{}, &fakeMerger{}, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Removed)
	for n := 1; n <= 3; n++ {
		assert.FileExists(t, cfg.DocumentPath(n))
	}
	assert.Contains(t, out.String(), "Temporary word files remain in")
	assert.NotContains(t, out.String(), "Cleaning up...")
}

func TestRunJoinRange(t *testing.T) {
	cfg := testConfig(t, testLessons)
	cfg.FirstJoin, cfg.LastJoin = 2, 3
	merger := &fakeMerger{}

	_, err := newTestDriver(t, cfg, &fakeConverter{}, merger, nil).Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{cfg.PDFPath(2), cfg.PDFPath(3)}, merger.inputs)
}

func TestRunSingleJoinSkipsMerge(t *testing.T) {
	cfg := testConfig(t, testLessons)
	cfg.FirstJoin, cfg.LastJoin = 2, 2
	merger := &fakeMerger{}
	var out bytes.Buffer

	report, err := newTestDriver(t, cfg, &fakeConverter{}, merger, &out).Run(context.Background())
	require.NoError(t, err)
	assert.Empty(t, report.Merged)
	assert.Nil(t, merger.inputs)
	assert.NotContains(t, out.String(), "Document:")
	assert.Len(t, report.Archived, 3)
}

func TestLessonResetsContext(t *testing.T) {
	cfg := testConfig(t, testLessons)
	wb, err := parser.Open(cfg.Input, nil)
	require.NoError(t, err)
	defer wb.Close()

	d := newTestDriver(t, cfg, &fakeConverter{}, &fakeMerger{}, nil)
	lctx := models.NewContext(cfg.Version)
	for n := 1; n <= 3; n++ {
		_, _, err := d.lesson(context.Background(), wb, n, lctx)
		require.NoError(t, err)
		assert.Equal(t, []string{models.VersionKey}, lctx.Keys(), "after lesson %d", n)
	}

	failing := newTestDriver(t, cfg, &fakeConverter{err: assert.AnError}, &fakeMerger{}, nil)
	_, stage, err := failing.lesson(context.Background(), wb, 1, lctx)
	assert.ErrorIs(t, err, assert.AnError)
	assert.Equal(t, StageConvert, stage)
	assert.Equal(t, []string{models.VersionKey}, lctx.Keys())
}

func TestCheck(t *testing.T) {
	lessons := append([]lessonRow(nil), testLessons...)
	var rows []string
	for i := 0; i < 21; i++ {
		rows = append(rows, "exercise")
	}
	lessons[0].airwork = rows

	cfg := testConfig(t, lessons)
	wb, err := parser.Open(cfg.Input, nil)
	require.NoError(t, err)
	defer wb.Close()

	checks := newTestDriver(t, cfg, &fakeConverter{}, &fakeMerger{}, nil).Check(wb)
	require.Len(t, checks, 3)

	assert.ErrorIs(t, checks[0].Err, ErrCapacityExceeded)
	assert.Nil(t, checks[0].Content)

	require.NoError(t, checks[1].Err)
	assert.Equal(t, "Stalls", checks[1].Content.Name)
	assert.Len(t, checks[1].Content.Airwork, 2)
	assert.Equal(t, "Steep turns", checks[1].Fields["T2"])

	require.NoError(t, checks[2].Err)
	assert.NotContains(t, checks[2].Fields, "T2")
	assert.Equal(t, "RFK/2.0", checks[2].Fields[models.VersionKey])
}

func TestNewDriverRejectsInvalidConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.LastJoin = 10
	_, err := NewDriver(cfg, Deps{})
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
