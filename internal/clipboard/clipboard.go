// Package clipboard writes editor output to the system clipboard. Rich writes
// carry both a text/html and a text/plain representation so pasting into
// rich-text applications keeps formatting while plain-text targets get clean
// text. Callers fall back to WriteText when the rich path is rejected.
package clipboard

import (
	"errors"

	atotto "github.com/atotto/clipboard"
)

// ErrRichUnsupported reports that the environment cannot take a multi-format
// clipboard write. Callers should fall back to WriteText.
var ErrRichUnsupported = errors.New("clipboard: multi-format write not supported in this environment")

// Writer is the clipboard surface the editor depends on.
type Writer interface {
	// WriteRich places an HTML and a plain-text representation of the same
	// content on the clipboard atomically.
	WriteRich(html, plain string) error
	// WriteText places plain text on the clipboard.
	WriteText(plain string) error
}

// System is the platform clipboard.
type System struct{}

// WriteText writes plain text via the portable clipboard backend.
func (System) WriteText(plain string) error {
	return atotto.WriteAll(plain)
}
