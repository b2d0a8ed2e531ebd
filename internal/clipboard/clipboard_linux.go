//go:build linux

package clipboard

import (
	"bytes"
	"encoding/json"
	"os"
	"os/exec"
	"syscall"

	"github.com/euforicio/mdpad/internal/clipboard/internal/wayland"
)

// ServeArg is the hidden argv mode under which the editor binary re-executes
// itself as a detached clipboard owner process.
const ServeArg = "__clipboard-serve"

// WriteRich copies content as both text/html and text/plain. On Wayland it
// spawns a background owner process that serves both formats until another
// application takes the selection. Without a Wayland display the rich write
// is rejected with ErrRichUnsupported.
func (System) WriteRich(html, plain string) error {
	if os.Getenv("WAYLAND_DISPLAY") == "" {
		return ErrRichUnsupported
	}
	return spawnOwner(html, plain)
}

type richPayload struct {
	HTML  string
	Plain string
}

func spawnOwner(html, plain string) error {
	payload, err := json.Marshal(richPayload{HTML: html, Plain: plain})
	if err != nil {
		return err
	}

	// Re-exec this binary detached from our process group so the owner
	// survives editor exit; clipboard contents outlive the editor.
	cmd := exec.Command(os.Args[0], ServeArg)
	cmd.Stdin = bytes.NewReader(payload)
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
	return cmd.Start()
}

// Serve runs the clipboard owner loop for the ServeArg mode. It reads the
// HTML+plain payload from stdin and blocks until selection ownership is lost.
func Serve(stdin []byte) error {
	var payload richPayload
	if err := json.Unmarshal(stdin, &payload); err != nil {
		return err
	}
	formats := map[string][]byte{
		"text/html":                []byte(payload.HTML),
		"text/plain;charset=utf-8": []byte(payload.Plain),
		"text/plain":               []byte(payload.Plain),
		"UTF8_STRING":              []byte(payload.Plain),
		"STRING":                   []byte(payload.Plain),
	}
	return wayland.Serve(formats)
}
