package host

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/robotalks/sensorlink/pkg/msgs"
)

func TestPresent(t *testing.T) {
	cases := []struct {
		msg      msgs.SensorMessage
		expected string
	}{
		{msgs.NewID("Minimal USB device", 1), "Device name: Minimal USB device (version: 1)\n"},
		{&msgs.Pong{}, "Received Pong\n"},
		{&msgs.Config{ConfigPayload: msgs.ConfigPayload{Samples: 42}}, "Got config: {samples: 42}\n"},
		{&msgs.ConfigOK{}, "Received config OK\n"},
	}
	for _, c := range cases {
		var out bytes.Buffer
		Present(&out, c.msg)
		require.Equal(t, c.expected, out.String())
	}
}
