package link

import (
	"errors"
	"fmt"
)

// PacketReader reads packets in bytes.
type PacketReader interface {
	ReadPacket() ([]byte, error)
}

// PacketWriter writes packets in bytes.
type PacketWriter interface {
	WritePacket([]byte) error
}

// PacketReadWriter reads/writes packets in bytes.
type PacketReadWriter interface {
	PacketReader
	PacketWriter
}

// Frame size bounds.
const (
	// MaxFrameSize is the largest frame read or written on a link.
	MaxFrameSize = 128
	// MaxReplySize bounds inline replies so they fit a single minimum
	// size link packet.
	MaxReplySize = 64
)

var (
	// ErrDisconnected indicates the link endpoint is torn down.
	ErrDisconnected = errors.New("disconnected")
	// ErrBufferOverflow indicates a frame exceeds what the link can carry.
	ErrBufferOverflow = errors.New("buffer overflow")
	// ErrFrameTooLarge indicates a received frame exceeds MaxFrameSize.
	ErrFrameTooLarge = errors.New("frame too large")
)

// FrameError reports a malformed frame received on a byte stream link.
// The link stays usable, and the next ReadPacket returns the next frame.
type FrameError struct {
	Data []byte
	Err  error
}

// Error implements error.
func (e *FrameError) Error() string {
	return fmt.Sprintf("malformed frame [% x]: %v", e.Data, e.Err)
}

// Unwrap returns the underlying cause.
func (e *FrameError) Unwrap() error {
	return e.Err
}

// CheckFrame panics if frame is larger than limit.
// Frames are produced from a fixed schema, so an oversized frame is a
// programming error rather than a runtime condition.
func CheckFrame(frame []byte, limit int) {
	if len(frame) > limit {
		panic(fmt.Errorf("%w: %d bytes exceeds %d", ErrBufferOverflow, len(frame), limit))
	}
}
