package device

import (
	"context"
	"errors"
	"fmt"
	"unicode/utf8"

	"github.com/golang/glog"

	"github.com/robotalks/sensorlink/pkg/link"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

// DefaultName is the default identity name of the sensor.
const DefaultName = "Minimal USB device"

// CodecErrorHandler is called when a malformed frame is received.
type CodecErrorHandler interface {
	HandleCodecError(context.Context, *msgs.CodecError)
}

// HandleCodecErrorFunc is func type of CodecErrorHandler.
type HandleCodecErrorFunc func(context.Context, *msgs.CodecError)

// HandleCodecError implements CodecErrorHandler.
func (f HandleCodecErrorFunc) HandleCodecError(ctx context.Context, err *msgs.CodecError) {
	f(ctx, err)
}

// Transport serves a link for one session.
type Transport struct {
	Queues       *Queues
	ErrorHandler CodecErrorHandler

	id   *msgs.ID
	me   []byte
	pong []byte
}

// NewTransport creates a Transport replying WhoAreYou with id.
func NewTransport(id *msgs.ID, queues *Queues) *Transport {
	t := &Transport{
		Queues: queues,
		id:     id,
		me:     msgs.Encode(id),
		pong:   msgs.Encode(&msgs.Pong{}),
	}
	link.CheckFrame(t.me, link.MaxReplySize)
	link.CheckFrame(t.pong, link.MaxReplySize)
	return t
}

// ID returns the identity of the sensor.
func (t *Transport) ID() *msgs.ID {
	return t.id
}

// Run is the multiplex loop. It deserializes packets from rw, and
// serializes messages from Queues.Outgoing into rw, until the link fails
// or ctx is done. Malformed frames are reported and skipped.
func (t *Transport) Run(ctx context.Context, rw link.PacketReadWriter) error {
	pktCh, badCh, errCh := make(chan []byte), make(chan *link.FrameError), make(chan error, 1)
	subCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	go link.ReadLoop(subCtx, rw, pktCh, badCh, errCh)
	for {
		select {
		case pkt := <-pktCh:
			if err := t.handlePacket(ctx, rw, pkt); err != nil {
				return err
			}
		case bad := <-badCh:
			t.reportCodecError(ctx, &msgs.CodecError{Data: bad.Data, Err: bad.Err})
		case msg := <-t.Queues.Outgoing:
			glog.V(2).Infof("got message, forwarding it: %s", msgs.NameOf(msg))
			if err := t.write(rw, msgs.Encode(msg), link.MaxFrameSize); err != nil {
				return err
			}
		case err := <-errCh:
			return fmt.Errorf("read: %w", err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

func (t *Transport) handlePacket(ctx context.Context, rw link.PacketWriter, pkt []byte) error {
	var msg msgs.HostMessage
	var err error
	if len(pkt) > link.MaxFrameSize {
		err = &msgs.CodecError{Data: pkt, Err: link.ErrFrameTooLarge}
	} else {
		msg, err = msgs.DecodeHostMessage(pkt)
	}
	if err != nil {
		t.reportCodecError(ctx, err.(*msgs.CodecError))
		return nil
	}
	glog.V(2).Infof("received message: %x", pkt)
	switch msg.(type) {
	case *msgs.WhoAreYou:
		glog.V(2).Info("got WhoAreYou, identifying")
		return t.write(rw, t.me, link.MaxReplySize)
	case *msgs.Ping:
		glog.V(2).Info("got ping, sending pong")
		return t.write(rw, t.pong, link.MaxReplySize)
	}
	glog.V(2).Infof("got %s", msgs.NameOf(msg))
	select {
	case t.Queues.Incoming <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (t *Transport) reportCodecError(ctx context.Context, err *msgs.CodecError) {
	text := "non-ascii"
	if utf8.Valid(err.Data) {
		text = string(err.Data)
	}
	glog.Warningf("Invalid bytes: %x (%q). Error: %v", err.Data, text, err.Err)
	if h := t.ErrorHandler; h != nil {
		h.HandleCodecError(ctx, err)
	}
}

// write sends a frame. A frame which doesn't fit the link is fatal,
// any other failure ends the session.
func (t *Transport) write(rw link.PacketWriter, frame []byte, limit int) error {
	link.CheckFrame(frame, limit)
	err := rw.WritePacket(frame)
	if errors.Is(err, link.ErrBufferOverflow) {
		panic(fmt.Errorf("write %d bytes: %w", len(frame), err))
	}
	if err != nil {
		return fmt.Errorf("write: %w", err)
	}
	return nil
}
