package button

import (
	"context"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type fakeSource struct {
	events chan Event
	closed chan struct{}
}

func newFakeSource() *fakeSource {
	return &fakeSource{events: make(chan Event, 8), closed: make(chan struct{})}
}

func (s *fakeSource) ReadEvent() (Event, error) {
	select {
	case ev := <-s.events:
		return ev, nil
	case <-s.closed:
		return Event{}, io.EOF
	}
}

func (s *fakeSource) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}

func TestWatcherPresses(t *testing.T) {
	src := newFakeSource()
	pressCh := make(chan struct{}, 8)
	w := &Watcher{Source: src, Index: 1, Press: func() { pressCh <- struct{}{} }}
	src.events <- Event{Index: 1, Pressed: true, Init: true}
	src.events <- Event{Index: 0, Pressed: true}
	src.events <- Event{Index: 1, Pressed: false}
	src.events <- Event{Index: 1, Pressed: true}

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- w.Run(ctx)
	}()
	select {
	case <-pressCh:
	case <-time.After(time.Second):
		t.Fatal("expect press timeout")
	}
	cancel()
	select {
	case err := <-errCh:
		require.Equal(t, context.Canceled, err)
	case <-time.After(time.Second):
		t.Fatal("watcher didn't stop")
	}
	require.Empty(t, pressCh)
}

func TestWatcherSourceClosed(t *testing.T) {
	src := newFakeSource()
	src.Close()
	w := &Watcher{Source: src, Press: func() { t.Fatal("unexpected press") }}
	require.Equal(t, io.EOF, w.Run(context.Background()))
}
