package pdf

import (
	"context"
	"errors"
	"fmt"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"go.uber.org/zap"
)

// Merger joins PDF files, in order, into one output file.
type Merger interface {
	Merge(ctx context.Context, inputs []string, output string) error
}

// Backend names a Merger implementation.
type Backend string

const (
	// BackendPdfunite runs the poppler pdfunite tool from PATH.
	BackendPdfunite Backend = "pdfunite"
	// BackendPdfcpu merges in-process with pdfcpu.
	BackendPdfcpu Backend = "pdfcpu"
)

// ErrNoInputs indicates a merge was requested without input files.
var ErrNoInputs = errors.New("no input files to merge")

// NewMerger returns the Merger for a backend.
func NewMerger(b Backend, logger *zap.Logger) (Merger, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	switch b {
	case BackendPdfunite, "":
		return &Pdfunite{exec: osExecutor{}, logger: logger}, nil
	case BackendPdfcpu:
		return &Pdfcpu{logger: logger}, nil
	default:
		return nil, fmt.Errorf("unknown merge backend %q (must be pdfunite or pdfcpu)", b)
	}
}

// Pdfunite merges with the external pdfunite command.
type Pdfunite struct {
	exec   executor
	logger *zap.Logger
}

func (p *Pdfunite) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}
	bin, err := lookup(p.exec, string(BackendPdfunite))
	if err != nil {
		return err
	}
	args := append(append([]string{}, inputs...), output)
	if err := p.exec.Run(ctx, bin, args...); err != nil {
		return fmt.Errorf("merge into %s: %w", output, err)
	}
	p.logger.Debug("merged pdfs", zap.Strings("inputs", inputs), zap.String("output", output))
	return nil
}

// Pdfcpu merges in-process.
type Pdfcpu struct {
	logger *zap.Logger
}

func (p *Pdfcpu) Merge(ctx context.Context, inputs []string, output string) error {
	if len(inputs) == 0 {
		return ErrNoInputs
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	conf := model.NewDefaultConfiguration()
	if err := api.MergeCreateFile(inputs, output, false, conf); err != nil {
		return fmt.Errorf("pdfcpu merge into %s: %w", output, err)
	}
	p.logger.Debug("merged pdfs", zap.Strings("inputs", inputs), zap.String("output", output))
	return nil
}

// PageCount returns the number of pages of a PDF file.
func PageCount(path string) (int, error) {
	n, err := api.PageCountFile(path)
	if err != nil {
		return 0, fmt.Errorf("pdfcpu page count %s: %w", path, err)
	}
	return n, nil
}
