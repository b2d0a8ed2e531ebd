// Package exporter turns markdown documents into distributable artifacts:
// PDF, standalone HTML, plain text, or raw markdown.
package exporter

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/euforicio/mdpad/internal/renderer"
)

// DefaultPDFName is the file name used for PDF exports when the document has
// no backing file to derive a name from.
const DefaultPDFName = "markdown-export.pdf"

// Format represents an export format.
type Format string

// Supported export formats.
const (
	FormatHTML      Format = "html"
	FormatMarkdown  Format = "markdown"
	FormatPlainText Format = "txt"
	FormatPDF       Format = "pdf"
)

// ValidFormats returns the list of supported export formats.
func ValidFormats() []Format {
	return []Format{FormatHTML, FormatMarkdown, FormatPlainText, FormatPDF}
}

// IsValidFormat checks if the given format is valid.
func IsValidFormat(format string) bool {
	f := Format(strings.ToLower(strings.TrimSpace(format)))
	for _, valid := range ValidFormats() {
		if f == valid {
			return true
		}
	}
	return false
}

// FileExtension returns the file extension for the given format.
func FileExtension(format Format) string {
	switch format {
	case FormatHTML:
		return ".html"
	case FormatMarkdown:
		return ".md"
	case FormatPlainText:
		return ".txt"
	case FormatPDF:
		return ".pdf"
	default:
		return ""
	}
}

// Engine is the PDF engine dependency, injected rather than reached for
// globally. Load must complete successfully before Export is usable; Export
// converts raw markdown and writes the PDF bytes to w.
type Engine interface {
	Load(ctx context.Context) error
	Export(ctx context.Context, raw []byte, w io.Writer) error
}

// Exporter renders markdown documents into export formats. The PDF path is
// delegated to the injected Engine; the other formats share the HTML renderer.
type Exporter struct {
	renderer  *renderer.Service
	engine    Engine
	templates *templateRenderer
	logger    *slog.Logger
}

// New constructs an exporter. The renderer is required; engine may be nil if
// PDF export is never used.
func New(logger *slog.Logger, rendererSvc *renderer.Service, engine Engine) (*Exporter, error) {
	if logger == nil {
		logger = slog.Default()
	}
	if rendererSvc == nil {
		return nil, errors.New("renderer service is required")
	}

	tmpl, err := newTemplateRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	return &Exporter{
		renderer:  rendererSvc,
		engine:    engine,
		templates: tmpl,
		logger:    logger.With("component", "exporter"),
	}, nil
}

// DocumentOptions configures a single document export.
type DocumentOptions struct {
	Writer io.Writer
	Format Format
}

// ExportDocument writes the document in the requested format.
func (e *Exporter) ExportDocument(ctx context.Context, raw []byte, opts DocumentOptions) error {
	if opts.Writer == nil {
		return errors.New("writer is required")
	}
	if !IsValidFormat(string(opts.Format)) {
		return fmt.Errorf("unsupported format: %s (allowed: html, pdf, markdown, txt)", opts.Format)
	}

	switch opts.Format {
	case FormatHTML:
		return e.exportHTML(ctx, raw, opts.Writer)
	case FormatMarkdown:
		return e.exportMarkdown(raw, opts.Writer)
	case FormatPlainText:
		return e.exportPlainText(ctx, raw, opts.Writer)
	case FormatPDF:
		return e.exportPDF(ctx, raw, opts.Writer)
	default:
		return fmt.Errorf("unsupported format: %s", opts.Format)
	}
}

func (e *Exporter) exportHTML(ctx context.Context, raw []byte, w io.Writer) error {
	doc, err := e.renderer.Render(ctx, raw)
	if err != nil {
		return fmt.Errorf("render html: %w", err)
	}
	return e.templates.renderStandalone(w, doc)
}

func (e *Exporter) exportMarkdown(raw []byte, w io.Writer) error {
	_, err := w.Write(raw)
	return err
}

func (e *Exporter) exportPlainText(ctx context.Context, raw []byte, w io.Writer) error {
	text, err := e.renderer.PlainText(ctx, raw)
	if err != nil {
		return fmt.Errorf("render text: %w", err)
	}
	_, err = w.Write([]byte(text))
	return err
}

func (e *Exporter) exportPDF(ctx context.Context, raw []byte, w io.Writer) error {
	if e.engine == nil {
		return errors.New("pdf engine not configured")
	}
	if err := e.engine.Load(ctx); err != nil {
		return fmt.Errorf("pdf engine not ready: %w", err)
	}
	if err := e.engine.Export(ctx, raw, w); err != nil {
		return fmt.Errorf("convert markdown to PDF: %w", err)
	}
	return nil
}
