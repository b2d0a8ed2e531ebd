// Package main provides the mdpad interactive editor entrypoint.
package main

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/pflag"

	"github.com/euforicio/mdpad/assets"
	"github.com/euforicio/mdpad/internal/buildinfo"
	"github.com/euforicio/mdpad/internal/clipboard"
	"github.com/euforicio/mdpad/internal/config"
	"github.com/euforicio/mdpad/internal/document"
	"github.com/euforicio/mdpad/internal/editor"
	"github.com/euforicio/mdpad/internal/exporter"
	"github.com/euforicio/mdpad/internal/preview"
	"github.com/euforicio/mdpad/internal/renderer"
)

func main() {
	// Hidden re-exec mode: own the clipboard selection on behalf of a copy
	// that already returned to the user.
	if len(os.Args) > 1 && os.Args[1] == clipboard.ServeArg {
		payload, err := io.ReadAll(os.Stdin)
		if err == nil {
			err = clipboard.Serve(payload)
		}
		if err != nil {
			os.Exit(1)
		}
		return
	}

	cfg := config.Default()
	config.ApplyEnvOverrides(&cfg)

	flags := pflag.NewFlagSet("mdpad", pflag.ExitOnError)
	config.RegisterFlags(flags, &cfg)
	versionFlag := flags.Bool("version", false, "Print version information and exit")
	if err := flags.Parse(os.Args[1:]); err != nil {
		slog.Error("parse flags", slog.Any("err", err))
		os.Exit(1)
	}
	if *versionFlag {
		println(buildinfo.Summary())
		os.Exit(0)
	}
	if flags.NArg() > 0 {
		cfg.InputFile = flags.Arg(0)
	}
	if err := config.Finalize(&cfg); err != nil {
		slog.Error("invalid configuration", slog.Any("err", err))
		os.Exit(1)
	}

	logger, logClose, err := openLogger(cfg)
	if err != nil {
		slog.Error("open log file", slog.Any("err", err))
		os.Exit(1)
	}
	defer logClose()
	slog.SetDefault(logger)
	logger.Info("starting mdpad", slog.String("version", buildinfo.Summary()))

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	docSvc, err := document.NewService(ctx, cfg.InputFile, logger)
	if err != nil {
		cancel()
		logger.Error("document service init failed", slog.Any("err", err))
		//nolint:gocritic // exitAfterDefer: cancel() explicitly called before os.Exit
		os.Exit(1)
	}
	defer func() {
		if err := docSvc.Close(); err != nil {
			logger.Error("close document service", slog.Any("err", err))
		}
	}()

	initial, err := initialText(docSvc)
	if err != nil {
		cancel()
		logger.Error("load document failed", slog.Any("err", err))
		os.Exit(1)
	}

	rendererSvc := renderer.NewService(logger, renderer.Mode{
		AllowHTML: cfg.AllowHTML,
		Highlight: cfg.Highlight,
		Style:     cfg.Style,
	})

	model := editor.New(editor.Options{
		Renderer:      rendererSvc,
		Preview:       preview.New(logger),
		Clipboard:     clipboard.System{},
		Engine:        exporter.NewPDFEngine(logger),
		Document:      docSvc,
		Logger:        logger,
		EngineTimeout: cfg.EngineTimeout,
		PDFOutput:     pdfOutputPath(cfg),
		Initial:       initial,
	})

	program := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := program.Run(); err != nil {
		if errors.Is(err, tea.ErrProgramKilled) || errors.Is(err, context.Canceled) {
			logger.Info("shutdown complete")
			return
		}
		logger.Error("editor error", slog.Any("err", err))
		os.Exit(1)
	}
}

// initialText loads the backing file, or falls back to the embedded sample
// for a scratch buffer. A missing file is a new document, not an error.
func initialText(docSvc *document.Service) (string, error) {
	if docSvc.Path() == "" {
		return assets.Sample(), nil
	}
	text, err := docSvc.Load()
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return "", nil
		}
		return "", err
	}
	return text, nil
}

func pdfOutputPath(cfg config.Config) string {
	if cfg.PDFOutput != "" {
		return cfg.PDFOutput
	}
	if cfg.InputFile != "" {
		return filepath.Join(filepath.Dir(cfg.InputFile), exporter.DefaultPDFName)
	}
	return exporter.DefaultPDFName
}

func openLogger(cfg config.Config) (*slog.Logger, func(), error) {
	if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil { //nolint:gosec // standard directory permissions
		return nil, nil, err
	}
	f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644) //nolint:gosec // log file from configuration
	if err != nil {
		return nil, nil, err
	}

	level := slog.LevelWarn
	if cfg.Verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	logger = logger.With("app", "mdpad")
	return logger, func() { f.Close() }, nil //nolint:errcheck,gosec
}
