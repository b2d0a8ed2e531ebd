//go:build !linux

package clipboard

// ServeArg matches the linux build so main can reference it unconditionally.
const ServeArg = "__clipboard-serve"

// WriteRich is rejected on platforms without a multi-format backend; callers
// fall back to WriteText.
func (System) WriteRich(html, plain string) error {
	return ErrRichUnsupported
}

// Serve is a no-op on platforms without a clipboard owner process.
func Serve(stdin []byte) error {
	return nil
}
