package link

import (
	"sync"
)

// Pipe is one end of an in-memory packet link.
type Pipe struct {
	// MaxPacketSize makes WritePacket fail with ErrBufferOverflow on larger
	// packets, like a link driver would. Zero means unlimited.
	MaxPacketSize int

	rx     <-chan []byte
	tx     chan<- []byte
	closed chan struct{}
	once   *sync.Once
}

// NewPipe creates both ends of an in-memory packet link.
// capacity is the number of packets buffered in each direction.
func NewPipe(capacity int) (*Pipe, *Pipe) {
	a2b, b2a := make(chan []byte, capacity), make(chan []byte, capacity)
	closed, once := make(chan struct{}), &sync.Once{}
	return &Pipe{rx: b2a, tx: a2b, closed: closed, once: once},
		&Pipe{rx: a2b, tx: b2a, closed: closed, once: once}
}

// ReadPacket implements PacketReader.
// Packets already delivered are still readable after Close.
func (p *Pipe) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.rx:
		return pkt, nil
	default:
	}
	select {
	case pkt := <-p.rx:
		return pkt, nil
	case <-p.closed:
		select {
		case pkt := <-p.rx:
			return pkt, nil
		default:
			return nil, ErrDisconnected
		}
	}
}

// WritePacket implements PacketWriter.
func (p *Pipe) WritePacket(pkt []byte) error {
	if p.MaxPacketSize > 0 && len(pkt) > p.MaxPacketSize {
		return ErrBufferOverflow
	}
	select {
	case <-p.closed:
		return ErrDisconnected
	default:
	}
	cp := make([]byte, len(pkt))
	copy(cp, pkt)
	select {
	case p.tx <- cp:
		return nil
	case <-p.closed:
		return ErrDisconnected
	}
}

// Close disconnects both ends.
func (p *Pipe) Close() error {
	p.once.Do(func() { close(p.closed) })
	return nil
}

// Done is closed when the pipe is disconnected.
func (p *Pipe) Done() <-chan struct{} {
	return p.closed
}

// Packets returns the chan of received packets, for use in select.
func (p *Pipe) Packets() <-chan []byte {
	return p.rx
}
