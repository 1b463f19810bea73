package serial

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestOpenMissingDevice(t *testing.T) {
	_, err := Open(DefaultConfig("/nonexistent/tty-sensorlink"))
	require.Error(t, err)
	_, err = Open(nil)
	require.Error(t, err)
}

func TestAcceptRetriesUntilCanceled(t *testing.T) {
	c := NewConnector(DefaultConfig("/nonexistent/tty-sensorlink"))
	c.RetryInterval = 10 * time.Millisecond
	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := c.Accept(ctx)
	require.Equal(t, context.DeadlineExceeded, err)
}
