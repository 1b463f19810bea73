//go:build !linux

package button

// Open opens a joystick device.
func Open(path string) (Source, error) {
	return nil, ErrUnsupported
}
