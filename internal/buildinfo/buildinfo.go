// Package buildinfo provides build version and metadata information.
package buildinfo

// Version metadata is injected at build time via ldflags.
var (
	Version = "dev"
	Commit  = ""
	Date    = ""
)

// Summary returns a human-readable version summary string.
func Summary() string {
	out := Version
	if out == "" {
		out = "dev"
	}
	switch {
	case Commit != "" && Date != "":
		return out + " (" + Commit + " " + Date + ")"
	case Commit != "":
		return out + " (" + Commit + ")"
	case Date != "":
		return out + " (" + Date + ")"
	}
	return out
}
