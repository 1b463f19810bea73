package host

import (
	"fmt"
	"io"

	"github.com/robotalks/sensorlink/pkg/msgs"
)

// Present prints a message from the sensor for the operator.
func Present(w io.Writer, msg msgs.SensorMessage) {
	switch m := msg.(type) {
	case *msgs.ID:
		fmt.Fprintf(w, "Device name: %s (version: %d)\n", m.DisplayName(), m.Version)
	case *msgs.Pong:
		fmt.Fprintln(w, "Received Pong")
	case *msgs.Config:
		fmt.Fprintf(w, "Got config: %s\n", m.ConfigPayload)
	case *msgs.ConfigOK:
		fmt.Fprintln(w, "Received config OK")
	default:
		fmt.Fprintf(w, "Received %s\n", msgs.NameOf(msg))
	}
}
