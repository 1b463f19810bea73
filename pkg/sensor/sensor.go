// Package sensor is the application logic of the sensor: it consumes the
// host messages the transport doesn't answer, and produces replies and
// announcements for the host.
package sensor

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/golang/glog"

	"github.com/robotalks/sensorlink/pkg/device"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

// StatusSize is the capacity of the status line.
const StatusSize = 96

// Display shows the status line.
type Display interface {
	Show(text string)
}

// ShowFunc is func type of Display.
type ShowFunc func(string)

// Show implements Display.
func (f ShowFunc) Show(text string) {
	f(text)
}

// LogDisplay shows the status in the log.
var LogDisplay = ShowFunc(func(text string) {
	glog.Info(text)
})

// Sensor processes messages from the host.
type Sensor struct {
	Queues  *device.Queues
	ID      *msgs.ID
	Store   ConfigStore
	Display Display

	counter  int
	triggers atomic.Int64
	status   *Formatter
	pressCh  chan struct{}
}

// New creates a Sensor with an in-memory config store.
func New(queues *device.Queues, id *msgs.ID) *Sensor {
	return &Sensor{
		Queues:  queues,
		ID:      id,
		Store:   &MemoryStore{},
		Display: LogDisplay,
		status:  NewFormatter(StatusSize),
		pressCh: make(chan struct{}, 1),
	}
}

// Press simulates the start input. Presses are coalesced while one is
// being processed.
func (s *Sensor) Press() {
	select {
	case s.pressCh <- struct{}{}:
	default:
	}
}

// Triggers returns the number of Trigger messages processed.
// It is safe to call while Run is running.
func (s *Sensor) Triggers() int {
	return int(s.triggers.Load())
}

// Run implements Runnable.
func (s *Sensor) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-s.pressCh:
			if err := s.pressed(ctx); err != nil {
				return err
			}
		case msg := <-s.Queues.Incoming:
			if err := s.HandleMessage(ctx, msg); err != nil {
				return err
			}
		}
	}
}

// HandleMessage processes one message from the host.
// Only a canceled ctx fails it.
func (s *Sensor) HandleMessage(ctx context.Context, msg msgs.HostMessage) error {
	switch m := msg.(type) {
	case *msgs.Trigger:
		triggers := s.triggers.Add(1)
		config, err := s.Store.Load()
		if err != nil {
			glog.Errorf("load config: %v", err)
			config = DefaultConfig
		}
		glog.Infof("trigger %d: sampling %d samples", triggers, config.Samples)
		s.show("Triggers: %d", triggers)
	case *msgs.SetConfig:
		if err := s.Store.Save(m.ConfigPayload); err != nil {
			glog.Errorf("save config %s: %v", m.ConfigPayload, err)
			return nil
		}
		glog.Infof("config saved: %s", m.ConfigPayload)
		return s.Queues.Produce(ctx, &msgs.ConfigOK{})
	case *msgs.GetConfig:
		config, err := s.Store.Load()
		if err != nil {
			glog.Errorf("load config: %v", err)
			return nil
		}
		return s.Queues.Produce(ctx, &msgs.Config{ConfigPayload: config})
	case *msgs.Reset:
		if err := s.Store.Save(DefaultConfig); err != nil {
			glog.Errorf("reset config: %v", err)
			return nil
		}
		s.counter = 0
		s.triggers.Store(0)
		glog.Info("reset")
		s.show("Reset")
	default:
		glog.Warningf("unexpected message %s", msgs.NameOf(msg))
	}
	return nil
}

func (s *Sensor) pressed(ctx context.Context) error {
	glog.V(2).Infof("doing things %d", s.counter)
	s.show("Counter: %d", s.counter)
	s.counter++
	id := *s.ID
	return s.Queues.Produce(ctx, &id)
}

func (s *Sensor) show(format string, args ...interface{}) {
	s.status.Reset()
	fmt.Fprintf(s.status, format, args...)
	if d := s.Display; d != nil {
		d.Show(s.status.String())
	}
}
