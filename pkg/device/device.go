package device

import (
	"context"
	"io"
	"sync"

	"github.com/golang/glog"

	"github.com/robotalks/sensorlink/pkg/link"
)

// State is the connection state of the sensor.
type State int

const (
	// WaitingForConnection means no link is connected.
	WaitingForConnection State = iota
	// Connected means a session is running on a connected link.
	Connected
)

// String implements fmt.Stringer.
func (s State) String() string {
	switch s {
	case WaitingForConnection:
		return "WaitingForConnection"
	case Connected:
		return "Connected"
	}
	return "Unknown"
}

// StateNotifier is called when the connection state changed.
type StateNotifier interface {
	StateChanged(context.Context, State)
}

// StateChangedFunc is func type of StateNotifier.
type StateChangedFunc func(context.Context, State)

// StateChanged implements StateNotifier.
func (f StateChangedFunc) StateChanged(ctx context.Context, state State) {
	f(ctx, state)
}

// Connector waits for the link to become connected.
// The returned link is closed when the session ends, if it's an io.Closer.
type Connector interface {
	Accept(context.Context) (link.PacketReadWriter, error)
}

// Links is a Connector handing out links sent on the chan.
type Links chan link.PacketReadWriter

// Accept implements Connector.
func (c Links) Accept(ctx context.Context) (link.PacketReadWriter, error) {
	select {
	case rw, ok := <-c:
		if !ok {
			return nil, io.EOF
		}
		return rw, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Device runs Transport sessions one after another.
type Device struct {
	Connector Connector
	Transport *Transport
	Notifier  StateNotifier

	state State
	lock  sync.RWMutex
}

// New creates a Device.
func New(connector Connector, transport *Transport) *Device {
	return &Device{Connector: connector, Transport: transport}
}

// State gets the current state.
func (d *Device) State() State {
	d.lock.RLock()
	defer d.lock.RUnlock()
	return d.state
}

// Run implements Runnable.
// A failed session returns the device to WaitingForConnection.
func (d *Device) Run(ctx context.Context) error {
	for {
		rw, err := d.Connector.Accept(ctx)
		if err != nil {
			return err
		}
		d.setState(ctx, Connected)
		glog.Info("Connected")
		err = d.Transport.Run(ctx, rw)
		if closer, ok := rw.(io.Closer); ok {
			closer.Close()
		}
		d.setState(ctx, WaitingForConnection)
		glog.Infof("Disconnected: %v", err)
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
}

func (d *Device) setState(ctx context.Context, state State) {
	d.lock.Lock()
	d.state = state
	d.lock.Unlock()
	if n := d.Notifier; n != nil {
		n.StateChanged(ctx, state)
	}
}
