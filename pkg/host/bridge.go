package host

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/golang/glog"

	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/link"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

// DefaultQueueSize is the capacity of the command queue between
// operator input and the link.
const DefaultQueueSize = 32

// DefaultDrainTimeout is how long replies are still presented after
// input ends.
const DefaultDrainTimeout = 500 * time.Millisecond

// Bridge forwards operator commands to the device and presents the
// replies.
type Bridge struct {
	Link      link.PacketReadWriter
	Out       io.Writer
	QueueSize int
	// DrainTimeout keeps presenting replies after input ends, until no
	// packet arrives for this long. Zero stops right away.
	DrainTimeout time.Duration
}

// NewBridge creates a Bridge with the default queue size.
func NewBridge(rw link.PacketReadWriter, out io.Writer) *Bridge {
	return &Bridge{
		Link:         rw,
		Out:          out,
		QueueSize:    DefaultQueueSize,
		DrainTimeout: DefaultDrainTimeout,
	}
}

// Run multiplexes commands from input and packets from the link until
// input ends and replies are drained, the link fails or ctx is done.
// The input is always stopped and joined before Run returns.
func (b *Bridge) Run(ctx context.Context, input Input) error {
	size := b.QueueSize
	if size <= 0 {
		size = DefaultQueueSize
	}
	cmds := make(chan msgs.HostMessage, size)
	inputCtx, cancelInput := context.WithCancel(ctx)
	inputErrCh := make(chan error, 1)
	go func() {
		defer close(cmds)
		inputErrCh <- input.Run(inputCtx, cmds)
	}()

	loopCtx, cancelLoop := context.WithCancel(ctx)
	pktCh, badCh := make(chan []byte), make(chan *link.FrameError)
	readErrCh := make(chan error, 1)
	go link.ReadLoop(loopCtx, b.Link, pktCh, badCh, readErrCh)

	err := b.loop(ctx, cmds, pktCh, badCh, readErrCh)
	cancelLoop()
	cancelInput()
	inputErr := <-inputErrCh
	if inputErr == context.Canceled {
		inputErr = nil
	}
	if err == context.Canceled {
		err = nil
	}
	return (&fx.AggregatedError{}).Add(err, inputErr).Aggregate()
}

func (b *Bridge) loop(ctx context.Context, cmds <-chan msgs.HostMessage, pktCh <-chan []byte, badCh <-chan *link.FrameError, readErrCh <-chan error) error {
	var drain *time.Timer
	var drainCh <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-drainCh:
			return nil
		case msg, ok := <-cmds:
			if !ok {
				glog.V(2).Info("input closed")
				if b.DrainTimeout <= 0 {
					return nil
				}
				cmds = nil
				drain = time.NewTimer(b.DrainTimeout)
				defer drain.Stop()
				drainCh = drain.C
				continue
			}
			if err := b.Link.WritePacket(msgs.Encode(msg)); err != nil {
				fmt.Fprintf(b.Out, "Failed to send %s: %v\n", msgs.NameOf(msg), err)
				return fmt.Errorf("write: %w", err)
			}
			glog.V(3).Infof("sent %s", msgs.NameOf(msg))
		case pkt := <-pktCh:
			msg, err := msgs.DecodeSensorMessage(pkt)
			if err != nil {
				fmt.Fprintf(b.Out, "Found invalid bytes, skipping processing: %v\n", err)
				continue
			}
			Present(b.Out, msg)
			if drain != nil {
				drain.Reset(b.DrainTimeout)
			}
		case bad := <-badCh:
			fmt.Fprintf(b.Out, "Found invalid bytes, skipping processing: %v\n", bad)
		case err := <-readErrCh:
			if cmds == nil {
				return nil
			}
			fmt.Fprintf(b.Out, "Failed to read: %v\n", err)
			return fmt.Errorf("read: %w", err)
		}
	}
}
