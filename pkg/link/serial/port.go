// Package serial provides packet links over serial ports, e.g. a USB CDC
// ACM tty. Serial ports carry a raw byte stream, so packets are framed by
// package stream.
package serial

import (
	"context"
	"fmt"
	"runtime"
	"time"

	"github.com/golang/glog"
	tarm "github.com/tarm/serial"
	bugst "go.bug.st/serial"

	"github.com/robotalks/sensorlink/pkg/link"
	"github.com/robotalks/sensorlink/pkg/link/stream"
)

// DefaultBaud is the default baud rate. USB CDC ignores it.
const DefaultBaud = 115200

// DefaultDevice is the default tty of the sensor on the host.
func DefaultDevice() string {
	if runtime.GOOS == "windows" {
		return "COM1"
	}
	return "/dev/ttyACM1"
}

// Config holds serial port configuration.
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string
	Baud   int
}

// DefaultConfig returns a default configuration for device.
func DefaultConfig(device string) *Config {
	return &Config{Device: device, Baud: DefaultBaud}
}

// Open opens a serial port as a packet link.
func Open(cfg *Config) (*stream.ReadWriter, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}
	baud := cfg.Baud
	if baud <= 0 {
		baud = DefaultBaud
	}
	port, err := tarm.OpenPort(&tarm.Config{Name: cfg.Device, Baud: baud})
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}
	return stream.New(port), nil
}

// ListPorts enumerates the serial ports available on the system.
func ListPorts() ([]string, error) {
	return bugst.GetPortsList()
}

// Connector implements the sensor side connector on a serial port
// (e.g. a USB gadget tty). The port is (re)opened for every session.
type Connector struct {
	Config        *Config
	RetryInterval time.Duration
}

// DefaultRetryInterval is the default interval between attempts to open the port.
const DefaultRetryInterval = time.Second

// NewConnector creates a Connector.
func NewConnector(cfg *Config) *Connector {
	return &Connector{Config: cfg, RetryInterval: DefaultRetryInterval}
}

// Accept waits until the port can be opened.
func (c *Connector) Accept(ctx context.Context) (link.PacketReadWriter, error) {
	interval := c.RetryInterval
	if interval <= 0 {
		interval = DefaultRetryInterval
	}
	for {
		rw, err := Open(c.Config)
		if err == nil {
			return rw, nil
		}
		glog.V(2).Infof("open %s: %v", c.Config.Device, err)
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case <-time.After(interval):
		}
	}
}
