package host

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

// Input acquires operator commands and sends them on cmds until the
// input ends or ctx is done. Run blocks, and is run on its own goroutine
// by the Bridge.
type Input interface {
	Run(ctx context.Context, cmds chan<- msgs.HostMessage) error
}

// InputFunc is func type of Input.
type InputFunc func(context.Context, chan<- msgs.HostMessage) error

// Run implements Input.
func (f InputFunc) Run(ctx context.Context, cmds chan<- msgs.HostMessage) error {
	return f(ctx, cmds)
}

// LineInput reads one command per line.
type LineInput struct {
	Reader io.Reader
	// Out receives hints for invalid input.
	Out io.Writer
}

// Run implements Input.
// If Reader is an io.Closer, it's closed when ctx is done to unblock reading.
func (in *LineInput) Run(ctx context.Context, cmds chan<- msgs.HostMessage) error {
	fn := func() error { return in.scan(ctx, cmds) }
	if closer, ok := in.Reader.(io.Closer); ok {
		return fx.RunWithContextCloser(ctx, closer, fn)
	}
	return fx.RunWithContext(ctx, fn)
}

func (in *LineInput) scan(ctx context.Context, cmds chan<- msgs.HostMessage) error {
	scanner := bufio.NewScanner(in.Reader)
	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}
		msg, err := ParseCommand(line)
		if err != nil {
			fmt.Fprintf(in.Out, "Invalid input: %q. %s\n", line, Hint)
			continue
		}
		if err = Submit(ctx, cmds, msg); err != nil {
			return err
		}
	}
	if err := scanner.Err(); err != nil {
		fmt.Fprintf(in.Out, "Failed to read line: %v\n", err)
		return nil
	}
	fmt.Fprintln(in.Out, "Input closed.")
	return nil
}

// Submit sends a command on cmds, blocking while the queue is full.
func Submit(ctx context.Context, cmds chan<- msgs.HostMessage, msg msgs.HostMessage) error {
	select {
	case cmds <- msg:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
