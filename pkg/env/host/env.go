// Package host sets up the operator side from flags and environment.
package host

import (
	"flag"
	"fmt"
	"os"

	"github.com/robotalks/sensorlink/pkg/env"
	"github.com/robotalks/sensorlink/pkg/host"
	"github.com/robotalks/sensorlink/pkg/link"
	"github.com/robotalks/sensorlink/pkg/link/mqtt"
	"github.com/robotalks/sensorlink/pkg/link/serial"
	"github.com/robotalks/sensorlink/pkg/link/websocket"
)

// Link is an opened host side link.
type Link interface {
	link.PacketReadWriter
	Close() error
}

// Config provides options to connect to a sensor.
type Config struct {
	// LinkURL specifies the link to the sensor, see env.ParseLink.
	LinkURL string
	// Baud overrides the baud rate of serial links if not 0.
	Baud        int
	Interactive bool
	QueueSize   int
}

var defaultConfig = Config{
	LinkURL:   "serial://" + serial.DefaultDevice(),
	QueueSize: host.DefaultQueueSize,
}

func init() {
	if val := os.Getenv("SENSORLINK_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.IntVar(&defaultConfig.Baud, "baud", defaultConfig.Baud, "Baud rate of serial links.")
	flag.BoolVar(&defaultConfig.Interactive, "i", defaultConfig.Interactive, "Interactive shell.")
	flag.IntVar(&defaultConfig.QueueSize, "queue-size", defaultConfig.QueueSize, "Capacity of the command queue.")
}

// Default gets the default config.
func Default() *Config {
	return &defaultConfig
}

// NewConfig creates a Config with default configurations.
func NewConfig() *Config {
	conf := defaultConfig
	return &conf
}

// Dial opens the link to the sensor.
func (c *Config) Dial() (Link, *env.Link, error) {
	l, err := env.ParseLink(c.LinkURL)
	if err != nil {
		return nil, nil, err
	}
	rw, err := c.dial(l)
	if err != nil {
		return nil, l, err
	}
	return rw, l, nil
}

func (c *Config) dial(l *env.Link) (Link, error) {
	switch l.Scheme() {
	case env.SchemeSerial:
		cfg, err := l.SerialConfig()
		if err != nil {
			return nil, err
		}
		if c.Baud > 0 {
			cfg.Baud = c.Baud
		}
		return serial.Open(cfg)
	case env.SchemeWebsocket:
		return websocket.Dial(l.URL.String())
	case env.SchemeMQTT:
		return mqtt.Dial(l.MQTT())
	}
	return nil, fmt.Errorf("%w: %q", env.ErrUnknownScheme, l.Scheme())
}

// NewBridge creates the Bridge over an opened link.
func (c *Config) NewBridge(rw Link) *host.Bridge {
	b := host.NewBridge(rw, os.Stdout)
	if c.QueueSize > 0 {
		b.QueueSize = c.QueueSize
	}
	return b
}

// NewInput creates the operator input.
func (c *Config) NewInput(b *host.Bridge) host.Input {
	if c.Interactive {
		in := host.NewShellInput()
		b.Out = in
		return in
	}
	return &host.LineInput{Reader: os.Stdin, Out: os.Stdout}
}
