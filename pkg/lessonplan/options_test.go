package lessonplan

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/pdf"
)

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		modify  func(*Config)
		wantErr bool
	}{
		{"defaults", func(c *Config) {}, false},
		{"empty version", func(c *Config) { c.Version = " " }, true},
		{"empty input", func(c *Config) { c.Input = "" }, true},
		{"empty template", func(c *Config) { c.Template = "" }, true},
		{"first lesson zero", func(c *Config) { c.FirstLesson = 0 }, true},
		{"last before first", func(c *Config) { c.FirstLesson, c.LastLesson = 3, 2 }, true},
		{"join reversed", func(c *Config) { c.FirstJoin, c.LastJoin = 3, 1 }, true},
		{"join outside lessons", func(c *Config) { c.LastJoin = 4 }, true},
		{"single join lesson", func(c *Config) { c.FirstJoin, c.LastJoin = 2, 2 }, false},
		{"pdfcpu backend", func(c *Config) { c.MergeBackend = pdf.BackendPdfcpu }, false},
		{"unknown backend", func(c *Config) { c.MergeBackend = "qpdf" }, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.modify(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfigNormalize(t *testing.T) {
	cfg := Config{FirstLesson: 4, LastLesson: 9}
	cfg = cfg.Normalize()
	assert.Equal(t, 4, cfg.FirstJoin)
	assert.Equal(t, 9, cfg.LastJoin)

	cfg = Config{FirstLesson: 4, LastLesson: 9, FirstJoin: 5, LastJoin: 6}.Normalize()
	assert.Equal(t, 5, cfg.FirstJoin)
	assert.Equal(t, 6, cfg.LastJoin)
}

func TestVersionSuffix(t *testing.T) {
	tests := []struct {
		version string
		want    string
	}{
		{"RFK/2.0", "2.0"},
		{"RFK/2.0/draft", "2.0"},
		{"3.1", "3.1"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Config{Version: tt.version}.VersionSuffix())
	}
}

func TestConfigPaths(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OutputDir = "out"

	assert.Equal(t, filepath.Join("out", "temp_lesson_7.docx"), cfg.DocumentPath(7))
	assert.Equal(t, filepath.Join("out", "temp_lesson_7.pdf"), cfg.PDFPath(7))
	assert.Equal(t, filepath.Join("out", "lesson-plan-2.0.pdf"), cfg.MergedPath())
	assert.Equal(t, filepath.Join("out", "version_RFK", "2.0"), cfg.ArchiveDir())

	cfg.OutputDir = ""
	assert.Equal(t, "temp_lesson_1.pdf", cfg.PDFPath(1))
}

func TestShouldMerge(t *testing.T) {
	assert.True(t, Config{FirstJoin: 1, LastJoin: 3}.ShouldMerge())
	assert.True(t, Config{FirstJoin: 1, LastJoin: 2}.ShouldMerge())
	assert.False(t, Config{FirstJoin: 2, LastJoin: 2}.ShouldMerge())
}

func TestLessonError(t *testing.T) {
	err := NewLessonError(2, StageConvert, assert.AnError)
	assert.Equal(t, "lesson 2 (convert): "+assert.AnError.Error(), err.Error())
	assert.ErrorIs(t, err, assert.AnError)

	err = NewLessonError(0, StageMerge, assert.AnError)
	assert.Equal(t, "merge: "+assert.AnError.Error(), err.Error())
}
