// Package config manages application configuration from environment variables and flags.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

const envPrefix = "MDPAD_"

// Config holds runtime configuration for the editor and the export CLI.
type Config struct {
	// InputFile is the markdown file to edit or export. Empty means the
	// editor starts on the embedded sample document.
	InputFile string
	// PDFOutput overrides where the editor writes PDF exports. Empty derives
	// the path from the input file, or falls back to markdown-export.pdf in
	// the working directory.
	PDFOutput string
	// Style is the chroma color scheme for highlighted fences.
	Style string
	// AllowHTML passes raw HTML blocks through instead of escaping them.
	AllowHTML bool
	// Highlight enables syntax coloring of fenced code blocks.
	Highlight bool
	// EngineTimeout bounds the one-time PDF engine warm-up.
	EngineTimeout time.Duration
	// LogFile receives slog output from the editor (the terminal belongs to
	// the UI). Empty selects a default under the user state directory.
	LogFile string
	Verbose bool
}

// Default returns ready-to-use defaults prior to env/flag overrides.
func Default() Config {
	return Config{
		Style:         "github",
		AllowHTML:     true,
		Highlight:     true,
		EngineTimeout: 30 * time.Second,
	}
}

// RegisterFlags attaches configuration flags to the provided FlagSet.
func RegisterFlags(fs *pflag.FlagSet, cfg *Config) {
	fs.StringVar(&cfg.Style, "style", cfg.Style, "chroma color scheme for highlighted code fences")
	fs.BoolVar(&cfg.AllowHTML, "raw-html", cfg.AllowHTML, "pass raw HTML blocks through instead of escaping them")
	fs.BoolVar(&cfg.Highlight, "highlight", cfg.Highlight, "syntax-color fenced code blocks by language tag")
	fs.StringVar(&cfg.PDFOutput, "pdf-out", cfg.PDFOutput, "output path for PDF exports (default: derived from the input file)")
	fs.DurationVar(&cfg.EngineTimeout, "engine-timeout", cfg.EngineTimeout, "time allowed for the PDF engine to warm up")
	fs.StringVar(&cfg.LogFile, "log-file", cfg.LogFile, "log file path (default: under the user state directory)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", cfg.Verbose, "enable verbose logging")
}

// ApplyEnvOverrides reads supported environment variables and overrides cfg in place.
func ApplyEnvOverrides(cfg *Config) {
	applyStringEnv("STYLE", func(v string) { cfg.Style = v })
	applyBoolEnv("RAW_HTML", func(v bool) { cfg.AllowHTML = v })
	applyBoolEnv("HIGHLIGHT", func(v bool) { cfg.Highlight = v })
	applyStringEnv("PDF_OUT", func(v string) { cfg.PDFOutput = v })
	applyDurationEnv("ENGINE_TIMEOUT", func(v time.Duration) { cfg.EngineTimeout = v })
	applyStringEnv("LOG_FILE", func(v string) { cfg.LogFile = v })
	applyBoolEnv("VERBOSE", func(v bool) { cfg.Verbose = v })
}

func applyStringEnv(key string, apply func(string)) {
	if raw, ok := lookupNonEmpty(key); ok {
		apply(raw)
	}
}

func applyBoolEnv(key string, apply func(bool)) {
	if raw, ok := lookupNonEmpty(key); ok {
		if value, err := strconv.ParseBool(raw); err == nil {
			apply(value)
		}
	}
}

func applyDurationEnv(key string, apply func(time.Duration)) {
	if raw, ok := lookupNonEmpty(key); ok {
		if value, err := time.ParseDuration(raw); err == nil && value > 0 {
			apply(value)
		}
	}
}

func lookupNonEmpty(key string) (string, bool) {
	raw, ok := os.LookupEnv(envPrefix + key)
	if !ok {
		return "", false
	}
	value := strings.TrimSpace(raw)
	if value == "" {
		return "", false
	}
	return value, true
}

// Finalize validates and normalizes paths.
func Finalize(cfg *Config) error {
	if strings.TrimSpace(cfg.Style) == "" {
		cfg.Style = "github"
	}
	if cfg.EngineTimeout <= 0 {
		return fmt.Errorf("invalid engine timeout: %v", cfg.EngineTimeout)
	}

	if cfg.InputFile != "" {
		abs, err := filepath.Abs(cfg.InputFile)
		if err != nil {
			return fmt.Errorf("resolve input file: %w", err)
		}
		cfg.InputFile = abs
	}

	if cfg.LogFile == "" {
		cfg.LogFile = defaultLogFile()
	}
	abs, err := filepath.Abs(cfg.LogFile)
	if err != nil {
		return fmt.Errorf("resolve log file: %w", err)
	}
	cfg.LogFile = abs

	return nil
}

func defaultLogFile() string {
	if state := os.Getenv("XDG_STATE_HOME"); state != "" {
		return filepath.Join(state, "mdpad", "mdpad.log")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(os.TempDir(), "mdpad.log")
	}
	return filepath.Join(home, ".local", "state", "mdpad", "mdpad.log")
}
