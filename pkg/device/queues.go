package device

import (
	"context"

	"github.com/robotalks/sensorlink/pkg/msgs"
)

// DefaultQueueSize is the default capacity of each queue.
const DefaultQueueSize = 128

// Queues are the bounded queues between the transport and the
// application logic. Both are FIFO, and enqueuing on a full queue blocks
// the producer instead of dropping the message.
type Queues struct {
	// Outgoing carries messages to the host.
	Outgoing chan msgs.SensorMessage
	// Incoming carries messages from the host which are not answered
	// by the transport.
	Incoming chan msgs.HostMessage
}

// NewQueues creates Queues with size as the capacity of each queue.
func NewQueues(size int) *Queues {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Queues{
		Outgoing: make(chan msgs.SensorMessage, size),
		Incoming: make(chan msgs.HostMessage, size),
	}
}

// Produce enqueues a message to the host.
func (q *Queues) Produce(ctx context.Context, msg msgs.SensorMessage) error {
	select {
	case q.Outgoing <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Consume dequeues the next message from the host.
func (q *Queues) Consume(ctx context.Context) (msgs.HostMessage, error) {
	select {
	case msg := <-q.Incoming:
		return msg, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}
