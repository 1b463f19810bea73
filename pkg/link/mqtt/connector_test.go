package mqtt

import (
	"context"
	"testing"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/stretchr/testify/require"
)

type connectingBroker struct {
	fakeBroker
	connects int
}

func (b *connectingBroker) Connect() paho.Token {
	b.lock.Lock()
	b.connects++
	b.lock.Unlock()
	return &paho.DummyToken{}
}

func (b *connectingBroker) Disconnect(quiesce uint) {}

func TestConnectorAcceptsAgainWhileConnected(t *testing.T) {
	broker := &connectingBroker{}
	q := &Queue{Client: broker, TopicPrefix: "sensors/"}
	c := newConnector(q, "dev1")

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := c.Accept(ctx)
	require.Equal(t, context.DeadlineExceeded, err)

	q.OnConnectHandler(broker)
	first, err := c.Accept(context.Background())
	require.NoError(t, err)

	// The session ends on its own while the broker stays up.
	require.NoError(t, first.(*ReadWriter).Close())
	ctx, cancel = context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	second, err := c.Accept(ctx)
	require.NoError(t, err)
	require.NotNil(t, second)
	require.Equal(t, 1, broker.connects)

	c.lock.Lock()
	require.True(t, c.current == second)
	c.lock.Unlock()

	q.ConnectionLostHandler(broker, nil)
	c.lock.Lock()
	require.Nil(t, c.current)
	c.lock.Unlock()
	ctx, cancel = context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = c.Accept(ctx)
	require.Equal(t, context.DeadlineExceeded, err)

	q.OnConnectHandler(broker)
	third, err := c.Accept(context.Background())
	require.NoError(t, err)
	require.NotNil(t, third)
	require.NoError(t, c.Close())
}
