// Package main provides the mdpad batch export CLI.
package main

import (
	"context"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/euforicio/mdpad/internal/buildinfo"
	"github.com/euforicio/mdpad/internal/config"
	"github.com/euforicio/mdpad/internal/exporter"
	"github.com/euforicio/mdpad/internal/renderer"
)

func main() {
	cfg := config.Default()
	config.ApplyEnvOverrides(&cfg)

	flags := pflag.NewFlagSet("mdpad-export", pflag.ExitOnError)
	format := flags.StringP("format", "f", "pdf", "export format: pdf, html, txt, markdown")
	out := flags.StringP("out", "o", "", "output file (default: stdout, or markdown-export.pdf for pdf)")
	flags.StringVar(&cfg.Style, "style", cfg.Style, "chroma color scheme for highlighted code fences")
	flags.BoolVar(&cfg.AllowHTML, "raw-html", cfg.AllowHTML, "pass raw HTML blocks through instead of escaping them")
	flags.DurationVar(&cfg.EngineTimeout, "engine-timeout", cfg.EngineTimeout, "time allowed for the PDF engine to warm up")
	versionFlag := flags.Bool("version", false, "Print version information and exit")

	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("flag parsing failed", slog.Any("err", err))
		os.Exit(1)
	}
	if *versionFlag {
		println(buildinfo.Summary())
		os.Exit(0)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
	slog.SetDefault(logger)

	if flags.NArg() != 1 {
		logger.Error("usage: mdpad-export [flags] <file.md>")
		os.Exit(1)
	}
	if !exporter.IsValidFormat(*format) {
		logger.Error("unsupported format", slog.String("format", *format))
		os.Exit(1)
	}
	exportFormat := exporter.Format(strings.ToLower(strings.TrimSpace(*format)))

	raw, err := os.ReadFile(flags.Arg(0)) //nolint:gosec // user-supplied input path
	if err != nil {
		logger.Error("read input", slog.Any("err", err))
		os.Exit(1)
	}

	rendererSvc := renderer.NewService(logger, renderer.Mode{
		AllowHTML: cfg.AllowHTML,
		Highlight: true,
		// Standalone HTML documents get heading permalinks.
		Anchors: exportFormat == exporter.FormatHTML,
		Style:   cfg.Style,
	})

	exp, err := exporter.New(logger, rendererSvc, exporter.NewPDFEngine(logger))
	if err != nil {
		logger.Error("init exporter failed", slog.Any("err", err))
		os.Exit(1)
	}

	dest, cleanup, err := openOutput(*out, exportFormat)
	if err != nil {
		logger.Error("open output", slog.Any("err", err))
		os.Exit(1)
	}
	defer cleanup()

	ctx := context.Background()
	if exportFormat == exporter.FormatPDF {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.EngineTimeout)
		defer cancel()
	}

	if err := exp.ExportDocument(ctx, raw, exporter.DocumentOptions{
		Writer: dest,
		Format: exportFormat,
	}); err != nil {
		logger.Error("export failed", slog.Any("err", err))
		os.Exit(1)
	}
}

// openOutput resolves the destination writer. PDF never goes to stdout; it
// defaults to markdown-export.pdf in the working directory.
func openOutput(out string, format exporter.Format) (*os.File, func(), error) {
	if out == "" {
		if format != exporter.FormatPDF {
			return os.Stdout, func() {}, nil
		}
		out = exporter.DefaultPDFName
	}
	f, err := os.Create(out) //nolint:gosec // user-supplied output path
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil //nolint:errcheck,gosec
}
