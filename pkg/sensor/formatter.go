package sensor

import "unicode/utf8"

// Formatter accumulates text into a fixed-capacity buffer.
// Text beyond the capacity is dropped, never splitting a UTF-8 sequence.
type Formatter struct {
	data   []byte
	cursor int
	full   bool
}

// NewFormatter creates a Formatter with the capacity of size bytes.
func NewFormatter(size int) *Formatter {
	return &Formatter{data: make([]byte, size)}
}

// Write implements io.Writer. It never fails and reports the full length
// of p as written, so fmt.Fprintf keeps going when the buffer is full.
func (f *Formatter) Write(p []byte) (int, error) {
	if f.full {
		return len(p), nil
	}
	n := len(f.data) - f.cursor
	if len(p) <= n {
		f.cursor += copy(f.data[f.cursor:], p)
		return len(p), nil
	}
	for n > 0 && !utf8.RuneStart(p[n]) {
		n--
	}
	f.cursor += copy(f.data[f.cursor:], p[:n])
	f.full = true
	return len(p), nil
}

// String returns the accumulated text.
func (f *Formatter) String() string {
	return string(f.data[:f.cursor])
}

// Len returns the number of bytes accumulated.
func (f *Formatter) Len() int {
	return f.cursor
}

// Cap returns the capacity.
func (f *Formatter) Cap() int {
	return len(f.data)
}

// Full indicates no more text can be accumulated.
func (f *Formatter) Full() bool {
	return f.full || f.cursor == len(f.data)
}

// Reset clears the text.
func (f *Formatter) Reset() {
	f.cursor, f.full = 0, false
}
