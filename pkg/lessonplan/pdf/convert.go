package pdf

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Converter turns a document file into a PDF at dst.
type Converter interface {
	Convert(ctx context.Context, src, dst string) error
}

// DefaultOffice is the LibreOffice binary used for conversion.
const DefaultOffice = "soffice"

// Office converts documents with a headless LibreOffice.
type Office struct {
	bin    string
	exec   executor
	logger *zap.Logger
}

// NewOffice returns an Office converter. An empty bin uses DefaultOffice.
func NewOffice(bin string, logger *zap.Logger) *Office {
	if bin == "" {
		bin = DefaultOffice
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Office{bin: bin, exec: osExecutor{}, logger: logger}
}

// Convert writes dst next to src first (LibreOffice names the output after
// the input) and moves it when dst has a different name or directory.
func (o *Office) Convert(ctx context.Context, src, dst string) error {
	bin, err := lookup(o.exec, o.bin)
	if err != nil {
		return err
	}

	outDir := filepath.Dir(dst)
	if err := os.MkdirAll(outDir, 0755); err != nil {
		return err
	}
	if err := o.exec.Run(ctx, bin, "--headless", "--convert-to", "pdf", "--outdir", outDir, src); err != nil {
		return fmt.Errorf("convert %s: %w", src, err)
	}

	produced := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(src), filepath.Ext(src))+".pdf")
	if produced != dst {
		if err := os.Rename(produced, dst); err != nil {
			return fmt.Errorf("convert %s: %w", src, err)
		}
	}
	o.logger.Debug("converted document", zap.String("src", src), zap.String("dst", dst))
	return nil
}
