// Package assets embeds bundled editor content.
package assets

import (
	_ "embed"
)

//go:embed sample.md
var sample string

// Sample returns the markdown document shown when the editor starts without
// a file argument.
func Sample() string {
	return sample
}
