package websocket

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestListenerAcceptAndExchange(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	l := NewListener(ln.Addr().String(), "/link")
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.Serve(ctx, ln)
	}()

	host, err := Dial("ws://" + ln.Addr().String() + "/link")
	require.NoError(t, err)
	defer host.Close()

	acceptCtx, acceptCancel := context.WithTimeout(ctx, time.Second)
	defer acceptCancel()
	sensor, err := l.Accept(acceptCtx)
	require.NoError(t, err)

	require.NoError(t, host.WritePacket([]byte{0x02}))
	pkt, err := sensor.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x02}, pkt)

	require.NoError(t, sensor.WritePacket([]byte{0x01}))
	pkt, err = host.ReadPacket()
	require.NoError(t, err)
	require.Equal(t, []byte{0x01}, pkt)

	require.NoError(t, sensor.(*Session).Close())
	_, err = host.ReadPacket()
	require.Error(t, err)

	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("listener didn't stop")
	}
}

func TestAcceptCanceled(t *testing.T) {
	l := NewListener("127.0.0.1:0", "")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := l.Accept(ctx)
	require.Equal(t, context.Canceled, err)
}
