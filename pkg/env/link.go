// Package env resolves link URLs shared by the device and host
// configurations.
package env

import (
	"errors"
	"fmt"
	"net/url"
	"strconv"

	"github.com/robotalks/sensorlink/pkg/link/serial"
)

// Supported link URL schemes.
const (
	SchemeSerial    = "serial"
	SchemeWebsocket = "ws"
	SchemeMQTT      = "mqtt"
)

// ErrUnknownScheme indicates the link URL scheme is not supported.
var ErrUnknownScheme = errors.New("unknown link scheme")

// Link is a parsed link URL, e.g.
//
//	serial:///dev/ttyACM1?baud=115200
//	ws://localhost:8080/sensor
//	mqtt://localhost:1883/sensorlink/?device=desk
//
// A URL without scheme is a serial device path.
type Link struct {
	URL *url.URL
}

// ParseLink parses a link URL.
func ParseLink(rawURL string) (*Link, error) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return nil, fmt.Errorf("invalid link URL: %w", err)
	}
	if u.Scheme == "" || len(u.Scheme) == 1 {
		// Bare device paths, including windows drive letters.
		u = &url.URL{Scheme: SchemeSerial, Path: rawURL}
	}
	switch u.Scheme {
	case SchemeSerial, SchemeWebsocket, SchemeMQTT:
		return &Link{URL: u}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownScheme, u.Scheme)
}

// Scheme returns the URL scheme.
func (l *Link) Scheme() string {
	return l.URL.Scheme
}

// String returns a readable form, the device path for serial links.
func (l *Link) String() string {
	if l.URL.Scheme == SchemeSerial {
		return l.URL.Host + l.URL.Path
	}
	return l.URL.String()
}

// SerialConfig returns the serial port config of a serial link.
func (l *Link) SerialConfig() (*serial.Config, error) {
	cfg := serial.DefaultConfig(l.URL.Host + l.URL.Path)
	if cfg.Device == "" {
		return nil, fmt.Errorf("serial device required")
	}
	if val := l.URL.Query().Get("baud"); val != "" {
		baud, err := strconv.Atoi(val)
		if err != nil || baud <= 0 {
			return nil, fmt.Errorf("invalid baud rate %q", val)
		}
		cfg.Baud = baud
	}
	return cfg, nil
}

// MQTT returns the broker URL and the device ID of an MQTT link.
// The device ID defaults to the machine ID.
func (l *Link) MQTT() (brokerURL, deviceID string) {
	u := *l.URL
	query := u.Query()
	deviceID = query.Get("device")
	query.Del("device")
	u.RawQuery = query.Encode()
	if deviceID == "" {
		deviceID = MachineID()
	}
	return u.String(), deviceID
}
