package msgs

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/golang/protobuf/proto"
)

// Message is the common interface of all messages on the link.
type Message interface {
	// NewMessage creates an empty message of the same type.
	NewMessage() Message
	// TypeID is the discriminant written on the wire.
	TypeID() uint32

	marshal(*encoder)
	unmarshal(*decoder) error
}

// HostMessage is a message sent from the host to the sensor.
type HostMessage interface {
	Message
	hostMessage()
}

// SensorMessage is a message sent from the sensor to the host.
type SensorMessage interface {
	Message
	sensorMessage()
}

var (
	// ErrTruncated indicates the frame ends before the message is complete.
	ErrTruncated = errors.New("truncated frame")
	// ErrTrailingData indicates extra bytes after a complete message.
	ErrTrailingData = errors.New("trailing data")
	// ErrOverflow indicates an integer doesn't fit its declared width.
	ErrOverflow = errors.New("integer overflow")
)

// ErrUnknownType indicates unknown type id.
type ErrUnknownType struct {
	TypeID uint32
}

// Error implements error.
func (e *ErrUnknownType) Error() string {
	return fmt.Sprintf("unknown type: %x", e.TypeID)
}

// CodecError is returned when a frame can't be decoded.
// Data is the raw frame for diagnosis.
type CodecError struct {
	Data []byte
	Err  error
}

// Error implements error.
func (e *CodecError) Error() string {
	return fmt.Sprintf("invalid frame [% x]: %v", e.Data, e.Err)
}

// Unwrap returns the underlying cause.
func (e *CodecError) Unwrap() error {
	return e.Err
}

// maxVarintLen64 is the longest varint encoding of a uint64.
const maxVarintLen64 = 10

// Encode encodes the message into a frame.
func Encode(msg Message) []byte {
	e := &encoder{buf: make([]byte, 0, 32)}
	e.uvarint(uint64(msg.TypeID()))
	msg.marshal(e)
	return e.buf
}

// DecodeHostMessage decodes a frame sent by the host.
func DecodeHostMessage(data []byte) (HostMessage, error) {
	d := &decoder{data: data}
	typeID, err := d.uint32()
	if err != nil {
		return nil, &CodecError{Data: data, Err: err}
	}
	msgType, ok := HostMessageTypes[typeID]
	if !ok {
		return nil, &CodecError{Data: data, Err: &ErrUnknownType{TypeID: typeID}}
	}
	msg := msgType.NewMessage()
	if err = d.finish(msg); err != nil {
		return nil, &CodecError{Data: data, Err: err}
	}
	return msg.(HostMessage), nil
}

// DecodeSensorMessage decodes a frame sent by the sensor.
func DecodeSensorMessage(data []byte) (SensorMessage, error) {
	d := &decoder{data: data}
	typeID, err := d.uint32()
	if err != nil {
		return nil, &CodecError{Data: data, Err: err}
	}
	msgType, ok := SensorMessageTypes[typeID]
	if !ok {
		return nil, &CodecError{Data: data, Err: &ErrUnknownType{TypeID: typeID}}
	}
	msg := msgType.NewMessage()
	if err = d.finish(msg); err != nil {
		return nil, &CodecError{Data: data, Err: err}
	}
	return msg.(SensorMessage), nil
}

// NameOf returns the variant name of a message.
func NameOf(msg Message) string {
	return reflect.Indirect(reflect.ValueOf(msg)).Type().Name()
}

type encoder struct {
	buf []byte
}

func (e *encoder) uvarint(x uint64) {
	e.buf = append(e.buf, proto.EncodeVarint(x)...)
}

func (e *encoder) raw(b []byte) {
	e.buf = append(e.buf, b...)
}

type decoder struct {
	data []byte
	off  int
}

func (d *decoder) uvarint(max uint64) (uint64, error) {
	rest := d.data[d.off:]
	x, n := proto.DecodeVarint(rest)
	if n == 0 {
		if len(rest) < maxVarintLen64 {
			return 0, ErrTruncated
		}
		return 0, ErrOverflow
	}
	if x > max {
		return 0, ErrOverflow
	}
	d.off += n
	return x, nil
}

func (d *decoder) uint16() (uint16, error) {
	x, err := d.uvarint(0xffff)
	return uint16(x), err
}

func (d *decoder) uint32() (uint32, error) {
	x, err := d.uvarint(0xffffffff)
	return uint32(x), err
}

func (d *decoder) fixed(b []byte) error {
	if len(d.data)-d.off < len(b) {
		return ErrTruncated
	}
	d.off += copy(b, d.data[d.off:])
	return nil
}

func (d *decoder) finish(msg Message) error {
	if err := msg.unmarshal(d); err != nil {
		return err
	}
	if d.off != len(d.data) {
		return ErrTrailingData
	}
	return nil
}
