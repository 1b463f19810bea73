package sensor

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sensorlink/pkg/device"
	"github.com/robotalks/sensorlink/pkg/msgs"
)

type failingStore struct{}

func (failingStore) Load() (msgs.ConfigPayload, error) { return msgs.ConfigPayload{}, errors.New("broken") }
func (failingStore) Save(msgs.ConfigPayload) error    { return errors.New("broken") }

func newTestSensor() (*Sensor, *[]string) {
	var shown []string
	s := New(device.NewQueues(4), msgs.NewID(device.DefaultName, msgs.ConfigVersion))
	s.Display = ShowFunc(func(text string) { shown = append(shown, text) })
	return s, &shown
}

func expectOutgoing(t *testing.T, s *Sensor, expected msgs.SensorMessage) {
	select {
	case msg := <-s.Queues.Outgoing:
		require.Equal(t, expected, msg)
	case <-time.After(time.Second):
		t.Fatalf("expect %s timeout", msgs.NameOf(expected))
	}
}

func TestSetAndGetConfig(t *testing.T) {
	s, _ := newTestSensor()
	ctx := context.Background()
	require.NoError(t, s.HandleMessage(ctx, &msgs.GetConfig{}))
	expectOutgoing(t, s, &msgs.Config{ConfigPayload: DefaultConfig})

	require.NoError(t, s.HandleMessage(ctx, &msgs.SetConfig{ConfigPayload: msgs.ConfigPayload{Samples: 42}}))
	expectOutgoing(t, s, &msgs.ConfigOK{})
	require.NoError(t, s.HandleMessage(ctx, &msgs.GetConfig{}))
	expectOutgoing(t, s, &msgs.Config{ConfigPayload: msgs.ConfigPayload{Samples: 42}})

	require.NoError(t, s.HandleMessage(ctx, &msgs.Reset{}))
	require.NoError(t, s.HandleMessage(ctx, &msgs.GetConfig{}))
	expectOutgoing(t, s, &msgs.Config{ConfigPayload: DefaultConfig})
	require.Empty(t, s.Queues.Outgoing)
}

func TestStoreFailureProducesNoReply(t *testing.T) {
	s, _ := newTestSensor()
	s.Store = failingStore{}
	ctx := context.Background()
	require.NoError(t, s.HandleMessage(ctx, &msgs.SetConfig{ConfigPayload: msgs.ConfigPayload{Samples: 42}}))
	require.NoError(t, s.HandleMessage(ctx, &msgs.GetConfig{}))
	require.NoError(t, s.HandleMessage(ctx, &msgs.Trigger{}))
	require.Empty(t, s.Queues.Outgoing)
}

func TestTriggerUpdatesStatus(t *testing.T) {
	s, shown := newTestSensor()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		require.NoError(t, s.HandleMessage(ctx, &msgs.Trigger{}))
	}
	require.Equal(t, 3, s.Triggers())
	require.Equal(t, []string{"Triggers: 1", "Triggers: 2", "Triggers: 3"}, *shown)
	require.Empty(t, s.Queues.Outgoing)
}

func TestPressAnnouncesID(t *testing.T) {
	s, shown := newTestSensor()
	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() {
		errCh <- s.Run(ctx)
	}()
	s.Press()
	expectOutgoing(t, s, msgs.NewID(device.DefaultName, msgs.ConfigVersion))
	s.Press()
	expectOutgoing(t, s, msgs.NewID(device.DefaultName, msgs.ConfigVersion))
	cancel()
	require.Equal(t, context.Canceled, <-errCh)
	require.Equal(t, []string{"Counter: 0", "Counter: 1"}, *shown)
}

func TestRunConsumesIncoming(t *testing.T) {
	s, _ := newTestSensor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	s.Queues.Incoming <- &msgs.SetConfig{ConfigPayload: msgs.ConfigPayload{Samples: 42}}
	expectOutgoing(t, s, &msgs.ConfigOK{})
}

func TestTriggersWhileRunning(t *testing.T) {
	s, _ := newTestSensor()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)
	for i := 0; i < 5; i++ {
		s.Queues.Incoming <- &msgs.Trigger{}
		require.LessOrEqual(t, s.Triggers(), i+1)
	}
	require.Eventually(t, func() bool { return s.Triggers() == 5 }, time.Second, time.Millisecond)
	s.Queues.Incoming <- &msgs.Reset{}
	require.Eventually(t, func() bool { return s.Triggers() == 0 }, time.Second, time.Millisecond)
}

func TestFileStore(t *testing.T) {
	store := &FileStore{Path: filepath.Join(t.TempDir(), "config.json")}
	config, err := store.Load()
	require.NoError(t, err)
	require.Equal(t, DefaultConfig, config)

	require.NoError(t, store.Save(msgs.ConfigPayload{Samples: 42}))
	config, err = store.Load()
	require.NoError(t, err)
	require.Equal(t, msgs.ConfigPayload{Samples: 42}, config)
}
