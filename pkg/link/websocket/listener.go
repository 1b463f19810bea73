package websocket

import (
	"context"
	"net"
	"net/http"
	"sync"

	"github.com/golang/glog"
	"golang.org/x/net/websocket"

	"github.com/robotalks/sensorlink/pkg/link"
)

// Listener serves websocket connections on the sensor side and hands
// them out one at a time as packet links.
type Listener struct {
	Addr string
	Path string

	sessionCh chan *Session
	server    *http.Server
	closed    chan struct{}
}

// Session is an accepted connection. The connection is held open until
// Close is called.
type Session struct {
	*ReadWriter

	done chan struct{}
	once sync.Once
}

// Close implements io.Closer.
func (s *Session) Close() error {
	s.once.Do(func() { close(s.done) })
	return s.ReadWriter.Close()
}

// NewListener creates a Listener.
func NewListener(addr, path string) *Listener {
	if path == "" {
		path = "/"
	}
	l := &Listener{
		Addr:      addr,
		Path:      path,
		sessionCh: make(chan *Session),
		closed:    make(chan struct{}),
	}
	mux := http.NewServeMux()
	mux.Handle(path, websocket.Handler(l.serve))
	l.server = &http.Server{Addr: addr, Handler: mux}
	return l
}

// Run implements Runnable.
func (l *Listener) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", l.Addr)
	if err != nil {
		return err
	}
	return l.Serve(ctx, ln)
}

// Serve accepts connections on ln until ctx is done.
func (l *Listener) Serve(ctx context.Context, ln net.Listener) error {
	glog.Infof("listening on ws://%s%s", ln.Addr(), l.Path)
	defer close(l.closed)
	errCh := make(chan error, 1)
	go func() {
		errCh <- l.server.Serve(ln)
	}()
	select {
	case <-ctx.Done():
		l.server.Close()
		<-errCh
		return ctx.Err()
	case err := <-errCh:
		return err
	}
}

// Accept waits for the next connection.
func (l *Listener) Accept(ctx context.Context) (link.PacketReadWriter, error) {
	select {
	case s := <-l.sessionCh:
		return s, nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

func (l *Listener) serve(conn *websocket.Conn) {
	s := &Session{ReadWriter: New(conn), done: make(chan struct{})}
	select {
	case l.sessionCh <- s:
	case <-l.closed:
		return
	}
	select {
	case <-s.done:
	case <-l.closed:
	}
}
