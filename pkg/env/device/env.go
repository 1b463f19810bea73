// Package device sets up the sensor side from flags and environment.
package device

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/robotalks/sensorlink/pkg/button"
	"github.com/robotalks/sensorlink/pkg/device"
	"github.com/robotalks/sensorlink/pkg/env"
	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/link/mqtt"
	"github.com/robotalks/sensorlink/pkg/link/serial"
	"github.com/robotalks/sensorlink/pkg/link/websocket"
	"github.com/robotalks/sensorlink/pkg/msgs"
	"github.com/robotalks/sensorlink/pkg/sensor"
)

// Config provides options to setup the sensor.
type Config struct {
	// LinkURL specifies the link to the host, see env.ParseLink.
	LinkURL string
	// Name is the identity name, truncated to msgs.NameSize bytes.
	Name       string
	QueueSize  int
	ConfigFile string
	// PressInterval simulates pressing the start input periodically.
	PressInterval time.Duration
	// ButtonDevice is the input device used as the start input,
	// e.g. /dev/input/js0.
	ButtonDevice string
	ButtonIndex  int
}

var defaultConfig = Config{
	LinkURL:   "ws://localhost:8080/sensor",
	Name:      device.DefaultName,
	QueueSize: device.DefaultQueueSize,
}

func init() {
	if val := os.Getenv("SENSORLINK_LINK"); val != "" {
		defaultConfig.LinkURL = val
	}
	if val := os.Getenv("SENSORLINK_NAME"); val != "" {
		defaultConfig.Name = val
	}
	if val := os.Getenv("SENSORLINK_QUEUE_SIZE"); val != "" {
		if size, err := strconv.Atoi(val); err == nil {
			defaultConfig.QueueSize = size
		}
	}
	if val := os.Getenv("SENSORLINK_CONFIG_FILE"); val != "" {
		defaultConfig.ConfigFile = val
	}
}

// SetupFlags sets up command line flags.
func SetupFlags() {
	flag.StringVar(&defaultConfig.LinkURL, "link", defaultConfig.LinkURL, "Link URL to the host.")
	flag.StringVar(&defaultConfig.Name, "name", defaultConfig.Name, "Device name.")
	flag.IntVar(&defaultConfig.QueueSize, "queue-size", defaultConfig.QueueSize, "Capacity of incoming and outgoing queues.")
	flag.StringVar(&defaultConfig.ConfigFile, "config-file", defaultConfig.ConfigFile, "File persisting the configuration, in memory if empty.")
	flag.StringVar(&defaultConfig.ButtonDevice, "button", defaultConfig.ButtonDevice, "Input device used as the start input.")
	flag.IntVar(&defaultConfig.ButtonIndex, "button-index", defaultConfig.ButtonIndex, "Index of the start button on the input device.")
	flag.DurationVar(&defaultConfig.PressInterval, "press-interval", defaultConfig.PressInterval, "Interval of simulated start presses, disabled if 0.")
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

// Env is the assembled sensor.
type Env struct {
	Config    *Config
	Link      *env.Link
	Queues    *device.Queues
	Device    *device.Device
	Sensor    *sensor.Sensor
	Runnables []fx.Runnable
}

// NewConnector creates the device side Connector for the link.
// Some connectors need extra Runnables to serve.
func (c *Config) NewConnector(l *env.Link) (device.Connector, []fx.Runnable, error) {
	switch l.Scheme() {
	case env.SchemeSerial:
		cfg, err := l.SerialConfig()
		if err != nil {
			return nil, nil, err
		}
		return serial.NewConnector(cfg), nil, nil
	case env.SchemeWebsocket:
		ln := websocket.NewListener(l.URL.Host, l.URL.Path)
		return ln, []fx.Runnable{fx.NamedRun("websocket", ln)}, nil
	case env.SchemeMQTT:
		brokerURL, deviceID := l.MQTT()
		conn, err := mqtt.NewConnector(brokerURL, deviceID)
		if err != nil {
			return nil, nil, err
		}
		return conn, []fx.Runnable{fx.NamedRun("mqtt", closeOnDone(conn))}, nil
	}
	return nil, nil, fmt.Errorf("%w: %q", env.ErrUnknownScheme, l.Scheme())
}

// NewEnv assembles the sensor.
func (c *Config) NewEnv() (*Env, error) {
	l, err := env.ParseLink(c.LinkURL)
	if err != nil {
		return nil, err
	}
	connector, runnables, err := c.NewConnector(l)
	if err != nil {
		return nil, fmt.Errorf("create connector for %s: %w", c.LinkURL, err)
	}
	if c.QueueSize <= 0 {
		return nil, fmt.Errorf("invalid queue size %d", c.QueueSize)
	}
	id := msgs.NewID(c.Name, msgs.ConfigVersion)
	queues := device.NewQueues(c.QueueSize)
	s := sensor.New(queues, id)
	if c.ConfigFile != "" {
		s.Store = &sensor.FileStore{Path: c.ConfigFile}
	}
	e := &Env{
		Config: c,
		Link:   l,
		Queues: queues,
		Device: device.New(connector, device.NewTransport(id, queues)),
		Sensor: s,
	}
	e.Runnables = append(runnables,
		fx.NamedRun("device", e.Device),
		fx.NamedRun("sensor", e.Sensor))
	if c.ButtonDevice != "" {
		src, err := button.Open(c.ButtonDevice)
		if err != nil {
			return nil, fmt.Errorf("open button %s: %w", c.ButtonDevice, err)
		}
		w := &button.Watcher{Source: src, Index: c.ButtonIndex, Press: s.Press}
		e.Runnables = append(e.Runnables, fx.NamedRun("button", w))
	}
	if c.PressInterval > 0 {
		e.Runnables = append(e.Runnables, fx.NamedRun("press", fx.RunnableFunc(e.pressLoop)))
	}
	return e, nil
}

// MustNewEnv creates Env and fails on error.
func (c *Config) MustNewEnv() *Env {
	e, err := c.NewEnv()
	if err != nil {
		log.Fatalln(err)
	}
	return e
}

func (e *Env) pressLoop(ctx context.Context) error {
	ticker := time.NewTicker(e.Config.PressInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			e.Sensor.Press()
		}
	}
}

func closeOnDone(closer io.Closer) fx.Runnable {
	return fx.RunnableFunc(func(ctx context.Context) error {
		<-ctx.Done()
		closer.Close()
		return ctx.Err()
	})
}
