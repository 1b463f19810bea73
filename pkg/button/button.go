// Package button turns a physical input device into the start input of
// the sensor.
package button

import (
	"context"
	"errors"
	"io"

	"github.com/golang/glog"

	fx "github.com/robotalks/sensorlink/pkg/framework"
)

// ErrUnsupported is returned by Open on systems without input devices.
var ErrUnsupported = errors.New("input devices not supported")

// Event is a state change of a button.
type Event struct {
	Index   int
	Pressed bool
	// Init marks the initial state reported when the device is opened.
	Init bool
}

// Source reads button events.
type Source interface {
	io.Closer
	// ReadEvent blocks until the next button event.
	ReadEvent() (Event, error)
}

// Watcher calls Press when the button is pressed.
type Watcher struct {
	Source Source
	Index  int
	Press  func()
}

// Run implements Runnable.
// The Source is closed when Run returns.
func (w *Watcher) Run(ctx context.Context) error {
	return fx.RunWithContextCloser(ctx, w.Source, func() error {
		for {
			ev, err := w.Source.ReadEvent()
			if err != nil {
				return err
			}
			if ev.Init || ev.Index != w.Index || !ev.Pressed {
				continue
			}
			glog.V(2).Infof("button %d pressed", ev.Index)
			w.Press()
		}
	})
}
