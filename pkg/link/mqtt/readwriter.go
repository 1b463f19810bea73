package mqtt

import (
	"sync"

	"github.com/robotalks/sensorlink/pkg/link"
)

// ReadWriter implements PacketReadWriter over a pair of topics.
// Each MQTT message is one packet.
type ReadWriter struct {
	Queue    *Queue
	SubTopic string
	PubTopic string

	packetCh  chan []byte
	done      chan struct{}
	closeOnce sync.Once
	sub       *Subscription
	ownsQueue bool
}

// NewPacketReadWriter creates the ReadWriter.
func NewPacketReadWriter(q *Queue) *ReadWriter {
	return &ReadWriter{
		Queue:    q,
		packetCh: make(chan []byte, 1),
		done:     make(chan struct{}),
	}
}

// WithTopics specifies the topics.
func (p *ReadWriter) WithTopics(sub, pub string) *ReadWriter {
	p.SubTopic, p.PubTopic = sub, pub
	return p
}

// ForHost sets topics using default convention for the host:
// SubTopic = device/tx
// PubTopic = device/rx
func (p *ReadWriter) ForHost(deviceID string) *ReadWriter {
	return p.WithTopics(deviceID+"/tx", deviceID+"/rx")
}

// ForSensor sets topics using default convention for the sensor:
// SubTopic = device/rx
// PubTopic = device/tx
func (p *ReadWriter) ForSensor(deviceID string) *ReadWriter {
	return p.WithTopics(deviceID+"/rx", deviceID+"/tx")
}

// Open subscribes SubTopic.
func (p *ReadWriter) Open() error {
	p.sub = p.Queue.Sub(p.SubTopic, Handler(p.handleMsg))
	p.sub.Token.Wait()
	return p.sub.Token.Error()
}

// ReadPacket implements PacketReader.
func (p *ReadWriter) ReadPacket() ([]byte, error) {
	select {
	case pkt := <-p.packetCh:
		return pkt, nil
	case <-p.done:
		return nil, link.ErrDisconnected
	}
}

// WritePacket implements PacketWriter.
func (p *ReadWriter) WritePacket(pkt []byte) error {
	select {
	case <-p.done:
		return link.ErrDisconnected
	default:
	}
	token := p.Queue.Pub(p.PubTopic, pkt)
	token.Wait()
	return token.Error()
}

// Close implements io.Closer.
func (p *ReadWriter) Close() (err error) {
	p.closeOnce.Do(func() {
		close(p.done)
		if p.sub != nil {
			err = p.sub.Close()
		}
		if p.ownsQueue {
			p.Queue.Close()
		}
	})
	return
}

func (p *ReadWriter) handleMsg(_ string, payload []byte) {
	select {
	case p.packetCh <- payload:
	case <-p.done:
	}
}
