package msgs

import (
	"bytes"
	"fmt"
)

// ConfigVersion is the protocol/config version reported by the sensor.
const ConfigVersion uint16 = 1

// NameSize is the fixed size of the identity name.
const NameSize = 24

// ConfigPayload is the configuration persisted on the sensor.
type ConfigPayload struct {
	Samples uint32 `json:"samples" yaml:"samples"`
}

func (c ConfigPayload) marshal(e *encoder) {
	e.uvarint(uint64(c.Samples))
}

func (c *ConfigPayload) unmarshal(d *decoder) (err error) {
	c.Samples, err = d.uint32()
	return
}

// String implements fmt.Stringer.
func (c ConfigPayload) String() string {
	return fmt.Sprintf("{samples: %d}", c.Samples)
}

// noPayload is embedded by unit variants.
type noPayload struct{}

func (noPayload) marshal(*encoder)         {}
func (noPayload) unmarshal(*decoder) error { return nil }

// Trigger requests a sampling action.
type Trigger struct{ noPayload }

// NewMessage implements Message.
func (m *Trigger) NewMessage() Message { return &Trigger{} }

// TypeID implements Message.
func (m *Trigger) TypeID() uint32 { return TriggerTypeID }

func (m *Trigger) hostMessage() {}

// WhoAreYou requests an identification (ID).
type WhoAreYou struct{ noPayload }

// NewMessage implements Message.
func (m *WhoAreYou) NewMessage() Message { return &WhoAreYou{} }

// TypeID implements Message.
func (m *WhoAreYou) TypeID() uint32 { return WhoAreYouTypeID }

func (m *WhoAreYou) hostMessage() {}

// Ping requests a Pong.
type Ping struct{ noPayload }

// NewMessage implements Message.
func (m *Ping) NewMessage() Message { return &Ping{} }

// TypeID implements Message.
func (m *Ping) TypeID() uint32 { return PingTypeID }

func (m *Ping) hostMessage() {}

// SetConfig requests the sensor to persist the configuration.
type SetConfig struct {
	ConfigPayload
}

// NewMessage implements Message.
func (m *SetConfig) NewMessage() Message { return &SetConfig{} }

// TypeID implements Message.
func (m *SetConfig) TypeID() uint32 { return SetConfigTypeID }

func (m *SetConfig) hostMessage() {}

// GetConfig requests the current configuration (Config).
type GetConfig struct{ noPayload }

// NewMessage implements Message.
func (m *GetConfig) NewMessage() Message { return &GetConfig{} }

// TypeID implements Message.
func (m *GetConfig) TypeID() uint32 { return GetConfigTypeID }

func (m *GetConfig) hostMessage() {}

// Reset requests a reset, for example to enter config mode.
type Reset struct{ noPayload }

// NewMessage implements Message.
func (m *Reset) NewMessage() Message { return &Reset{} }

// TypeID implements Message.
func (m *Reset) TypeID() uint32 { return ResetTypeID }

func (m *Reset) hostMessage() {}

// ID identifies the sensor to the host, in reply to WhoAreYou.
type ID struct {
	Name    [NameSize]byte
	Version uint16
}

// NewID creates an ID with name zero-padded (or truncated) to NameSize.
func NewID(name string, version uint16) *ID {
	m := &ID{Version: version}
	copy(m.Name[:], name)
	return m
}

// NewMessage implements Message.
func (m *ID) NewMessage() Message { return &ID{} }

// TypeID implements Message.
func (m *ID) TypeID() uint32 { return IDTypeID }

func (m *ID) sensorMessage() {}

// DisplayName returns Name without the zero padding.
func (m *ID) DisplayName() string {
	return string(bytes.TrimRight(m.Name[:], "\x00"))
}

func (m *ID) marshal(e *encoder) {
	e.raw(m.Name[:])
	e.uvarint(uint64(m.Version))
}

func (m *ID) unmarshal(d *decoder) (err error) {
	if err = d.fixed(m.Name[:]); err != nil {
		return
	}
	m.Version, err = d.uint16()
	return
}

// Pong replies a Ping.
type Pong struct{ noPayload }

// NewMessage implements Message.
func (m *Pong) NewMessage() Message { return &Pong{} }

// TypeID implements Message.
func (m *Pong) TypeID() uint32 { return PongTypeID }

func (m *Pong) sensorMessage() {}

// Config is the current configuration snapshot.
type Config struct {
	ConfigPayload
}

// NewMessage implements Message.
func (m *Config) NewMessage() Message { return &Config{} }

// TypeID implements Message.
func (m *Config) TypeID() uint32 { return ConfigTypeID }

func (m *Config) sensorMessage() {}

// ConfigOK indicates the configuration was persisted.
type ConfigOK struct{ noPayload }

// NewMessage implements Message.
func (m *ConfigOK) NewMessage() Message { return &ConfigOK{} }

// TypeID implements Message.
func (m *ConfigOK) TypeID() uint32 { return ConfigOKTypeID }

func (m *ConfigOK) sensorMessage() {}

// TypeIDs of host to sensor messages.
// The order is part of the wire format.
const (
	TriggerTypeID uint32 = iota
	WhoAreYouTypeID
	PingTypeID
	SetConfigTypeID
	GetConfigTypeID
	ResetTypeID
)

// TypeIDs of sensor to host messages.
const (
	IDTypeID uint32 = iota
	PongTypeID
	ConfigTypeID
	ConfigOKTypeID
)

// HostMessageTypes maps type IDs to host to sensor messages.
var HostMessageTypes = map[uint32]HostMessage{
	TriggerTypeID:   (*Trigger)(nil),
	WhoAreYouTypeID: (*WhoAreYou)(nil),
	PingTypeID:      (*Ping)(nil),
	SetConfigTypeID: (*SetConfig)(nil),
	GetConfigTypeID: (*GetConfig)(nil),
	ResetTypeID:     (*Reset)(nil),
}

// SensorMessageTypes maps type IDs to sensor to host messages.
var SensorMessageTypes = map[uint32]SensorMessage{
	IDTypeID:       (*ID)(nil),
	PongTypeID:     (*Pong)(nil),
	ConfigTypeID:   (*Config)(nil),
	ConfigOKTypeID: (*ConfigOK)(nil),
}
