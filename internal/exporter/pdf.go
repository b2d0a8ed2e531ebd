package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	pdf "github.com/stephenafamo/goldmark-pdf"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting/v2"
	meta "github.com/yuin/goldmark-meta"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
)

// DefaultLoadTimeout bounds the one-time PDF engine warm-up. The engine
// resolves fonts over the network on first use, which can hang on an offline
// machine; a bounded load turns that into a typed failure instead of an
// open-ended wait.
const DefaultLoadTimeout = 30 * time.Second

// ErrEngineNotLoaded is returned by Export when Load has not completed
// successfully.
var ErrEngineNotLoaded = errors.New("pdf engine not loaded")

// PDFEngine converts markdown to PDF via the goldmark-pdf renderer. Load is a
// one-shot warm-up conversion that pulls in the engine's fonts; it runs at
// most once regardless of how many callers wait on it.
type PDFEngine struct {
	logger   *slog.Logger
	loadOnce sync.Once
	loadErr  error
	loaded   bool
}

// NewPDFEngine constructs the engine. If logger is nil, the default slog
// logger is used.
func NewPDFEngine(logger *slog.Logger) *PDFEngine {
	if logger == nil {
		logger = slog.Default()
	}
	return &PDFEngine{logger: logger.With("component", "pdf_engine")}
}

// Load performs the warm-up conversion under ctx. A cancelled or expired ctx
// surfaces as a load failure; subsequent calls return the recorded result
// without retrying.
func (e *PDFEngine) Load(ctx context.Context) error {
	e.loadOnce.Do(func() {
		start := time.Now()
		done := make(chan error, 1)
		go func() {
			done <- e.convert([]byte("# warm-up\n\nready\n"), io.Discard)
		}()

		select {
		case err := <-done:
			if err != nil {
				e.loadErr = fmt.Errorf("pdf engine load: %w", err)
				return
			}
			e.loaded = true
			e.logger.Info("pdf engine ready", slog.Duration("took", time.Since(start)))
		case <-ctx.Done():
			e.loadErr = fmt.Errorf("pdf engine load: %w", ctx.Err())
		}
	})
	return e.loadErr
}

// Export converts raw markdown and writes PDF bytes to w. It fails fast when
// the engine has not loaded.
func (e *PDFEngine) Export(ctx context.Context, raw []byte, w io.Writer) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if !e.loaded {
		if e.loadErr != nil {
			return e.loadErr
		}
		return ErrEngineNotLoaded
	}
	return e.convert(raw, w)
}

func (e *PDFEngine) convert(raw []byte, w io.Writer) error {
	md := goldmark.New(
		goldmark.WithExtensions(
			extension.GFM,
			extension.Table,
			extension.Strikethrough,
			extension.TaskList,
			meta.Meta,
			highlighting.NewHighlighting(
				highlighting.WithStyle("monokai"),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRenderer(pdf.New()),
	)
	return md.Convert(raw, w)
}
