package link

import (
	"context"
	"errors"
)

// ReadLoop reads packets from r until it fails or ctx is done.
// Packets go to pktCh and malformed frames to badCh. The first other
// error is sent to errCh, which should be buffered.
func ReadLoop(ctx context.Context, r PacketReader, pktCh chan<- []byte, badCh chan<- *FrameError, errCh chan<- error) {
	for {
		pkt, err := r.ReadPacket()
		var frameErr *FrameError
		if errors.As(err, &frameErr) {
			select {
			case badCh <- frameErr:
				continue
			case <-ctx.Done():
				return
			}
		}
		if err != nil {
			errCh <- err
			return
		}
		select {
		case pktCh <- pkt:
		case <-ctx.Done():
			return
		}
	}
}
