// Package transform provides custom rendering hooks for markdown elements.
package transform

import (
	"bytes"

	highlighting "github.com/yuin/goldmark-highlighting/v2"
	"github.com/yuin/goldmark/util"
)

// PlainFenceWrapper returns a wrapper renderer for fenced code blocks that the
// highlighter did not color (no language tag, or an unrecognized one). Those
// blocks get the same inline pre treatment as highlighted ones so the output
// stays self-contained; highlighted blocks keep chroma's own wrappers.
func PlainFenceWrapper(preStyle string) highlighting.WrapperRenderer {
	return func(w util.BufWriter, ctx highlighting.CodeBlockContext, entering bool) {
		if ctx.Highlighted() {
			// Chroma emits its own pre/span wrappers with inline styles.
			return
		}

		if entering {
			_, _ = w.WriteString(`<pre style="` + preStyle + `"><code`)
			if lang, ok := ctx.Language(); ok && len(bytes.TrimSpace(lang)) > 0 {
				_, _ = w.WriteString(` class="language-`)
				_, _ = w.Write(util.EscapeHTML(lang))
				_, _ = w.WriteString(`"`)
			}
			_, _ = w.WriteString(">")
			return
		}
		_, _ = w.WriteString("</code></pre>\n")
	}
}
