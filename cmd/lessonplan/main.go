// Package main provides the CLI entry point for lessonplan-go.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan"
	"github.com/ukaji3/lessonplan-go/pkg/lessonplan/parser"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// version is set at build time via ldflags.
var version = "dev"

var (
	cfgFile string
	logger  *zap.Logger
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		printError(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "lessonplan",
		Short: "Generate lesson briefing sheets from the planning workbook",
		Long: `lessonplan reads the lesson planning workbook, renders one briefing sheet
per lesson from a Word template, converts the sheets to PDF, merges them
into one lesson plan and archives the per-lesson PDFs.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if err := initConfig(); err != nil {
				return err
			}
			var err error
			logger, err = loggerConfig(viper.GetBool("debug")).Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if logger != nil {
				_ = logger.Sync()
			}
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "config file (default: ./lessonplan.yaml or ~/.config/lessonplan/lessonplan.yaml)")
	flags.String("tag", lessonplan.DefaultVersion, "Official version tag printed on the sheets")
	flags.String("input", lessonplan.DefaultInput, "Planning workbook (.xlsx)")
	flags.String("template", lessonplan.DefaultTemplate, "Lesson sheet template (.docx)")
	flags.Int("first", lessonplan.DefaultFirst, "First lesson to process")
	flags.Int("last", lessonplan.DefaultLast, "Last lesson to process")
	flags.Int("first-join", 0, "First lesson merged into the lesson plan (default: --first)")
	flags.Int("last-join", 0, "Last lesson merged into the lesson plan (default: --last)")
	flags.Bool("remove-word-files", true, "Remove the temporary .docx files after conversion")
	flags.Bool("debug", false, "Enable debug logging")
	flags.String("output-dir", ".", "Directory for generated files")
	flags.String("office", "soffice", "LibreOffice binary used for PDF conversion")
	flags.String("merge-backend", "pdfunite", "PDF merge backend: pdfunite or pdfcpu")

	for key, flag := range map[string]string{
		"version":           "tag",
		"input":             "input",
		"template":          "template",
		"first_lesson":      "first",
		"last_lesson":       "last",
		"first_join":        "first-join",
		"last_join":         "last-join",
		"remove_word_files": "remove-word-files",
		"debug":             "debug",
		"output_dir":        "output-dir",
		"office":            "office",
		"merge_backend":     "merge-backend",
	} {
		_ = viper.BindPFlag(key, flags.Lookup(flag))
	}

	rootCmd.AddCommand(newRunCmd(), newCheckCmd(), newVersionCmd())
	return rootCmd
}

// loggerConfig returns the JSON logger configuration. Without debug only
// warnings are logged and no stacktraces are attached, so a failed run shows
// the message from printError and little else.
func loggerConfig(debug bool) zap.Config {
	config := zap.NewProductionConfig()
	config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	config.DisableStacktrace = !debug
	if debug {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config
}

// initConfig reads the config file and LESSONPLAN_* environment variables.
func initConfig() error {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("lessonplan")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "lessonplan"))
		}
	}

	viper.SetEnvPrefix("LESSONPLAN")
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if cfgFile != "" || !errors.As(err, &notFound) {
			return fmt.Errorf("read config: %w", err)
		}
		return nil
	}
	fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	return nil
}

// loadConfig builds the batch configuration from flags, environment and config file.
func loadConfig() (lessonplan.Config, error) {
	cfg := lessonplan.DefaultConfig()
	if err := viper.Unmarshal(&cfg); err != nil {
		return cfg, fmt.Errorf("%w: %v", lessonplan.ErrInvalidConfig, err)
	}
	return cfg.Normalize(), nil
}

// printError prints err to w. Capacity errors are printed as their
// message alone, since that is the text meant for the user.
func printError(w io.Writer, err error) {
	red := color.New(color.FgRed)
	var capErr *parser.CapacityError
	if errors.As(err, &capErr) {
		_, _ = red.Fprintln(w, capErr.Error())
		return
	}
	_, _ = red.Fprintf(w, "Error: %v\n", err)
}
