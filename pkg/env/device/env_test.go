package device

import (
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sensorlink/pkg/env"
	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/link/serial"
	"github.com/robotalks/sensorlink/pkg/link/websocket"
	"github.com/robotalks/sensorlink/pkg/sensor"
)

func runnableNames(runnables []fx.Runnable) []string {
	var names []string
	for _, r := range runnables {
		names = append(names, r.(fx.Named).Name())
	}
	return names
}

func TestNewEnvWebsocket(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "ws://localhost:0/sensor"
	conf.PressInterval = time.Second
	e, err := conf.NewEnv()
	require.NoError(t, err)
	require.IsType(t, &websocket.Listener{}, e.Device.Connector)
	require.Equal(t, []string{"websocket", "device", "sensor", "press"}, runnableNames(e.Runnables))
	require.Equal(t, "Minimal USB device", e.Sensor.ID.DisplayName())
}

func TestNewEnvSerial(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "serial:///dev/ttyGS0?baud=9600"
	conf.Name = "a very long device name exceeding the limit"
	conf.ConfigFile = filepath.Join(t.TempDir(), "config.json")
	e, err := conf.NewEnv()
	require.NoError(t, err)
	conn, ok := e.Device.Connector.(*serial.Connector)
	require.True(t, ok)
	require.Equal(t, "/dev/ttyGS0", conn.Config.Device)
	require.Equal(t, 9600, conn.Config.Baud)
	require.Equal(t, "a very long device name ", e.Sensor.ID.DisplayName())
	require.IsType(t, &sensor.FileStore{}, e.Sensor.Store)
	require.Equal(t, []string{"device", "sensor"}, runnableNames(e.Runnables))
}

func TestNewEnvInvalid(t *testing.T) {
	conf := NewConfig()
	conf.LinkURL = "tcp://localhost:1234"
	_, err := conf.NewEnv()
	require.True(t, errors.Is(err, env.ErrUnknownScheme))

	conf = NewConfig()
	conf.LinkURL = "serial:///dev/ttyGS0"
	conf.QueueSize = 0
	_, err = conf.NewEnv()
	require.Error(t, err)
}
