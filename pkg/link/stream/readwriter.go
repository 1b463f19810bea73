package stream

import (
	"bufio"
	"io"

	"github.com/robotalks/sensorlink/pkg/link"
)

// Delimiter separates frames on the stream.
const Delimiter = 0x00

// maxEncodedSize is the COBS encoded size of a link.MaxFrameSize frame.
const maxEncodedSize = link.MaxFrameSize + link.MaxFrameSize/254 + 1

// ReadWriter implements PacketReadWriter over a raw byte stream.
// Each packet is COBS encoded and enclosed by Delimiter on both sides,
// so the reader resynchronizes on the next frame after garbage.
type ReadWriter struct {
	io.ReadWriter
	r *bufio.Reader
}

// New creates a ReadWriter with io.ReadWriter.
func New(s io.ReadWriter) *ReadWriter {
	return &ReadWriter{ReadWriter: s, r: bufio.NewReaderSize(s, 2*maxEncodedSize)}
}

// ReadPacket implements PacketReader.
// A frame which can't be decoded, or is larger than link.MaxFrameSize,
// fails with *link.FrameError and is skipped.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	var frame []byte
	var tooLarge bool
	for {
		b, err := p.r.ReadByte()
		if err != nil {
			if err == io.EOF && (len(frame) > 0 || tooLarge) {
				err = io.ErrUnexpectedEOF
			}
			return nil, err
		}
		if b != Delimiter {
			if len(frame) < maxEncodedSize {
				frame = append(frame, b)
			} else {
				tooLarge = true
			}
			continue
		}
		switch {
		case tooLarge:
			return nil, &link.FrameError{Data: frame, Err: link.ErrFrameTooLarge}
		case len(frame) == 0:
			continue
		}
		pkt, err := Decode(frame)
		if err == nil && len(pkt) > link.MaxFrameSize {
			err = link.ErrFrameTooLarge
		}
		if err != nil {
			return nil, &link.FrameError{Data: frame, Err: err}
		}
		return pkt, nil
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	if len(pkt) > link.MaxFrameSize {
		return link.ErrBufferOverflow
	}
	encoded := Encode(pkt)
	buf := make([]byte, 0, len(encoded)+2)
	buf = append(buf, Delimiter)
	buf = append(buf, encoded...)
	buf = append(buf, Delimiter)
	_, err := p.Write(buf)
	return err
}

// Close closes the underlying stream if it's an io.Closer.
func (p *ReadWriter) Close() error {
	if closer, ok := p.ReadWriter.(io.Closer); ok {
		return closer.Close()
	}
	return nil
}
