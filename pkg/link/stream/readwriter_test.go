package stream

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sensorlink/pkg/link"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

func expectFrameError(t *testing.T, rw *ReadWriter, cause error) {
	_, err := rw.ReadPacket()
	var frameErr *link.FrameError
	require.True(t, errors.As(err, &frameErr), "%v", err)
	require.True(t, errors.Is(err, cause), "%v", err)
}

func TestWriteThenRead(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.NoError(t, rw.WritePacket([]byte{0x02}))
	require.NoError(t, rw.WritePacket(nil))
	require.NoError(t, rw.WritePacket([]byte{0x03, 0x00, 0x2a}))
	require.Equal(t, []byte{
		0, 0x02, 0x02, 0,
		0, 0x01, 0,
		0, 0x02, 0x03, 0x02, 0x2a, 0,
	}, buf.Bytes())

	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Empty(t, pkt)
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x03, 0x00, 0x2a}, pkt)
	_, err = rw.ReadPacket()
	require.Equal(t, io.EOF, err)
}

func TestReadTruncated(t *testing.T) {
	rw := New(bytes.NewBuffer([]byte{0, 0x03, 1}))
	_, err := rw.ReadPacket()
	require.Equal(t, io.ErrUnexpectedEOF, err)
}

func TestGarbageThenFrame(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	buf.Write([]byte{0x09, 0x01, 0x02})
	require.NoError(t, rw.WritePacket(msgs.Encode(&msgs.WhoAreYou{})))

	expectFrameError(t, rw, ErrInvalidEncoding)
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	msg, err := msgs.DecodeHostMessage(pkt)
	require.NoError(t, err)
	require.Equal(t, &msgs.WhoAreYou{}, msg)
}

func TestFrameBounds(t *testing.T) {
	var buf bytes.Buffer
	rw := New(&buf)
	require.Equal(t, link.ErrBufferOverflow, rw.WritePacket(make([]byte, link.MaxFrameSize+1)))
	require.Zero(t, buf.Len())

	buf.Write(bytes.Repeat([]byte{0xff}, 300))
	require.NoError(t, rw.WritePacket([]byte{0x02}))
	expectFrameError(t, rw, link.ErrFrameTooLarge)
	pkt, err := rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, pkt)

	full := bytes.Repeat([]byte{0x5a}, link.MaxFrameSize)
	require.NoError(t, rw.WritePacket(full))
	pkt, err = rw.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, full, pkt)
}

func TestCOBS(t *testing.T) {
	cases := []struct {
		raw     []byte
		encoded []byte
	}{
		{nil, []byte{0x01}},
		{[]byte{0x00}, []byte{0x01, 0x01}},
		{[]byte{0x00, 0x00}, []byte{0x01, 0x01, 0x01}},
		{[]byte{0x11, 0x22, 0x00, 0x33}, []byte{0x03, 0x11, 0x22, 0x02, 0x33}},
		{[]byte{0x11, 0x00}, []byte{0x02, 0x11, 0x01}},
	}
	for _, c := range cases {
		require.Equal(t, c.encoded, Encode(c.raw))
		decoded, err := Decode(c.encoded)
		require.NoError(t, err)
		require.Equal(t, len(c.raw), len(decoded))
	}

	long := bytes.Repeat([]byte{0x01}, 300)
	encoded := Encode(long)
	require.NotContains(t, encoded, byte(Delimiter))
	require.Equal(t, byte(0xff), encoded[0])
	decoded, err := Decode(encoded)
	require.NoError(t, err)
	require.Equal(t, long, decoded)

	_, err = Decode([]byte{0x05, 0x01})
	require.Equal(t, ErrInvalidEncoding, err)
}
