package lessonplan

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/docx"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/models"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/parser"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/pdf"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/restyle"
	"go.uber.org/zap"
)

// Deps are the collaborators of a Driver. Zero values get production defaults.
type Deps struct {
	// Converter turns rendered documents into PDFs (default: LibreOffice).
	Converter pdf.Converter
	// Merger joins the lesson PDFs (default: Config.MergeBackend).
	Merger pdf.Merger
	// Pages counts PDF pages for the report (default: pdf.PageCount).
	Pages func(path string) (int, error)
	// Logger receives debug and progress logs (default: no-op).
	Logger *zap.Logger
	// Out receives the human-readable status lines (default: discarded).
	Out io.Writer
}

// Driver runs the batch: every lesson in order through extract, render,
// restyle, save and convert, then merge, cleanup and archive.
type Driver struct {
	cfg     Config
	conv    pdf.Converter
	merger  pdf.Merger
	pages   func(string) (int, error)
	restyle *restyle.Pass
	logger  *zap.Logger
	out     io.Writer
}

// NewDriver validates cfg and creates a Driver.
func NewDriver(cfg Config, deps Deps) (*Driver, error) {
	cfg = cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := deps.Out
	if out == nil {
		out = io.Discard
	}
	conv := deps.Converter
	if conv == nil {
		conv = pdf.NewOffice(cfg.Office, logger)
	}
	merger := deps.Merger
	if merger == nil {
		m, err := pdf.NewMerger(cfg.MergeBackend, logger)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
		}
		merger = m
	}
	pages := deps.Pages
	if pages == nil {
		pages = pdf.PageCount
	}

	return &Driver{
		cfg:     cfg,
		conv:    conv,
		merger:  merger,
		pages:   pages,
		restyle: restyle.New(cfg.Vocabulary, logger),
		logger:  logger,
		out:     out,
	}, nil
}

// Run opens the configured workbook and processes it.
func (d *Driver) Run(ctx context.Context) (*RunReport, error) {
	for _, path := range []string{d.cfg.Input, d.cfg.Template} {
		if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFileNotFound, path)
		}
	}

	wb, err := parser.Open(d.cfg.Input, d.logger)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", d.cfg.Input, err)
	}
	defer wb.Close()

	return d.RunWorkbook(ctx, wb)
}

// RunWorkbook processes an opened workbook. The first error stops the run;
// the returned report lists the lessons finished before it and the error is
// also returned.
func (d *Driver) RunWorkbook(ctx context.Context, wb *parser.Workbook) (*RunReport, error) {
	report := &RunReport{
		RunID:   uuid.NewString(),
		Version: d.cfg.Version,
	}
	logger := d.logger.With(zap.String("run_id", report.RunID))
	logger.Info("run started",
		zap.String("version", d.cfg.Version),
		zap.Int("first_lesson", d.cfg.FirstLesson),
		zap.Int("last_lesson", d.cfg.LastLesson))

	fail := func(lesson int, stage Stage, err error) (*RunReport, error) {
		report.Failure = NewLessonError(lesson, stage, err)
		logger.Info("run failed", zap.Int("lesson", lesson), zap.String("stage", string(stage)), zap.Error(err))
		return report, report.Failure
	}

	lctx := models.NewContext(d.cfg.Version)
	for n := d.cfg.FirstLesson; n <= d.cfg.LastLesson; n++ {
		if err := ctx.Err(); err != nil {
			return fail(n, StageExtract, err)
		}
		result, stage, err := d.lesson(ctx, wb, n, lctx)
		if err != nil {
			return fail(n, stage, err)
		}
		report.Lessons = append(report.Lessons, *result)
		logger.Info("lesson done", zap.Int("lesson", n), zap.String("pdf", result.PDF))
	}

	if err := d.merge(ctx, report); err != nil {
		return fail(0, StageMerge, err)
	}
	if err := d.cleanup(report); err != nil {
		return fail(0, StageCleanup, err)
	}
	if err := d.archive(report); err != nil {
		return fail(0, StageArchive, err)
	}

	logger.Info("run finished", zap.Int("lessons", len(report.Lessons)))
	return report, nil
}

// lesson runs one lesson through the pipeline. The context is reset to the
// version tag before returning, so no field leaks into the next lesson.
func (d *Driver) lesson(ctx context.Context, wb *parser.Workbook, n int, lctx *models.Context) (*LessonResult, Stage, error) {
	defer lctx.Reset()

	lesson, err := parser.BuildContext(wb, n, lctx)
	if err != nil {
		return nil, StageExtract, err
	}

	tpl, err := docx.Open(d.cfg.Template)
	if err != nil {
		return nil, StageRender, err
	}
	fields, err := tpl.Render(lctx.Fields())
	if err != nil {
		return nil, StageRender, err
	}
	d.logger.Debug("rendered template", zap.Int("lesson", n), zap.Int("fields", fields))

	stats := d.restyle.Document(tpl)
	d.logger.Debug("restyled document",
		zap.Int("lesson", n),
		zap.Int("paragraphs", stats.Paragraphs),
		zap.Int("skipped", stats.Skipped),
		zap.Int("tokens", stats.Tokens))

	docPath := d.cfg.DocumentPath(n)
	if err := tpl.Save(docPath); err != nil {
		return nil, StagePersist, err
	}

	pdfPath := d.cfg.PDFPath(n)
	if err := d.conv.Convert(ctx, docPath, pdfPath); err != nil {
		return nil, StageConvert, err
	}

	pages, err := d.pages(pdfPath)
	if err != nil {
		d.logger.Warn("could not count pages", zap.String("pdf", pdfPath), zap.Error(err))
		pages = 0
	}

	return &LessonResult{
		Lesson:   n,
		Name:     lesson.Name,
		Document: docPath,
		PDF:      pdfPath,
		Pages:    pages,
		Restyled: stats.Tokens,
	}, "", nil
}

// LessonCheck is the extraction outcome of one lesson in a dry run.
type LessonCheck struct {
	Lesson  int
	Content *models.Lesson
	Fields  map[string]any
	Err     error
}

// Check extracts every configured lesson without rendering anything, so
// capacity and cell problems show up before a real run. Unlike a run it
// does not stop at the first failing lesson.
func (d *Driver) Check(wb *parser.Workbook) []LessonCheck {
	var checks []LessonCheck
	lctx := models.NewContext(d.cfg.Version)
	for n := d.cfg.FirstLesson; n <= d.cfg.LastLesson; n++ {
		lesson, err := parser.BuildContext(wb, n, lctx)
		checks = append(checks, LessonCheck{
			Lesson:  n,
			Content: lesson,
			Fields:  lctx.Fields(),
			Err:     err,
		})
		lctx.Reset()
	}
	return checks
}
