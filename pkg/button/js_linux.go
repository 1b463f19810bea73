//go:build linux

package button

import (
	"bytes"
	"encoding/binary"
	"os"
	"syscall"
	"unsafe"
)

const (
	iocGNAME uint = 0x80ff6a13

	evINIT uint8 = 0x80
	evBTN  uint8 = 0x01
)

type jsEvent struct {
	Time   uint32
	Value  int16
	Type   uint8
	Number uint8
}

type joystick struct {
	file *os.File
	name string
}

// Open opens a joystick device, e.g. /dev/input/js0.
func Open(path string) (Source, error) {
	f, err := os.OpenFile(path, os.O_RDONLY, 0666)
	if err != nil {
		return nil, err
	}
	js := &joystick{file: f}
	var buf [256]byte
	if errno := js.ioctl(iocGNAME, unsafe.Pointer(&buf)); errno != 0 {
		f.Close()
		return nil, errno
	}
	if pos := bytes.IndexByte(buf[:], 0); pos >= 0 {
		js.name = string(buf[:pos])
	} else {
		js.name = string(buf[:])
	}
	return js, nil
}

// Name returns the name reported by the driver.
func (js *joystick) Name() string {
	return js.name
}

// Close implements Source.
func (js *joystick) Close() error {
	return js.file.Close()
}

// ReadEvent implements Source. Axis events are skipped.
func (js *joystick) ReadEvent() (Event, error) {
	for {
		var ev jsEvent
		if err := binary.Read(js.file, binary.LittleEndian, &ev); err != nil {
			return Event{}, err
		}
		if ev.Type&evBTN == 0 {
			continue
		}
		return Event{
			Index:   int(ev.Number),
			Pressed: ev.Value != 0,
			Init:    ev.Type&evINIT != 0,
		}, nil
	}
}

func (js *joystick) ioctl(req uint, ptr unsafe.Pointer) syscall.Errno {
	_, _, err := syscall.Syscall(syscall.SYS_IOCTL, uintptr(js.file.Fd()), uintptr(req), uintptr(ptr))
	return err
}
