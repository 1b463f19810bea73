package mqtt

import (
	"context"
	"sync"

	"github.com/robotalks/sensorlink/pkg/link"
)

// Connector implements the sensor side connector using MQTT.
// A link is handed out whenever the broker connection is up, and torn
// down when the connection is lost.
type Connector struct {
	Queue    *Queue
	DeviceID string

	connectOnce sync.Once
	lock        sync.Mutex
	// upCh is closed while the broker is connected.
	upCh    chan struct{}
	up      bool
	current *ReadWriter
}

// NewConnector creates a Connector.
func NewConnector(brokerURL, deviceID string) (*Connector, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	if opts.ClientID == "" {
		opts.SetClientID("sensorlink:" + deviceID)
	}
	return newConnector(NewQueue(opts, topicPrefix), deviceID), nil
}

func newConnector(q *Queue, deviceID string) *Connector {
	c := &Connector{Queue: q, DeviceID: deviceID, upCh: make(chan struct{})}
	q.OnConnect = func(*Queue) { c.connected() }
	q.OnDisconnect = func(*Queue) { c.disconnected() }
	return c
}

// Accept waits until the broker is connected and returns the link.
// It returns right away while the broker stays connected, so a session
// ended by a link failure is followed by a new one.
func (c *Connector) Accept(ctx context.Context) (link.PacketReadWriter, error) {
	c.connectOnce.Do(func() { c.Queue.Connect() })
	for {
		c.lock.Lock()
		upCh := c.upCh
		c.lock.Unlock()
		select {
		case <-upCh:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
		rw := NewPacketReadWriter(c.Queue).ForSensor(c.DeviceID)
		if err := rw.Open(); err != nil {
			return nil, err
		}
		c.lock.Lock()
		if !c.up {
			// Lost the broker while subscribing.
			c.lock.Unlock()
			rw.Close()
			continue
		}
		prev := c.current
		c.current = rw
		c.lock.Unlock()
		if prev != nil {
			prev.Close()
		}
		return rw, nil
	}
}

// Close disconnects from the broker.
func (c *Connector) Close() error {
	c.disconnected()
	return c.Queue.Close()
}

func (c *Connector) connected() {
	c.lock.Lock()
	defer c.lock.Unlock()
	if !c.up {
		c.up = true
		close(c.upCh)
	}
}

func (c *Connector) disconnected() {
	c.lock.Lock()
	if c.up {
		c.up = false
		c.upCh = make(chan struct{})
	}
	rw := c.current
	c.current = nil
	c.lock.Unlock()
	if rw != nil {
		rw.Close()
	}
}

// Dial connects to the broker and returns the host side link of deviceID.
// Closing the link disconnects from the broker.
func Dial(brokerURL, deviceID string) (*ReadWriter, error) {
	opts, topicPrefix, err := ClientOptionsFromURL(brokerURL)
	if err != nil {
		return nil, err
	}
	q := NewQueue(opts, topicPrefix)
	token := q.Connect()
	token.Wait()
	if err := token.Error(); err != nil {
		return nil, err
	}
	rw := NewPacketReadWriter(q).ForHost(deviceID)
	rw.ownsQueue = true
	if err := rw.Open(); err != nil {
		q.Close()
		return nil, err
	}
	return rw, nil
}
