package env

import (
	"os"

	"github.com/denisbrodbeck/machineid"
	"github.com/golang/glog"
)

// MachineID retrieves the unique ID identifying the machine.
// The hostname is used when the machine has no ID.
func MachineID() string {
	id, err := machineid.ProtectedID("sensorlink")
	if err == nil {
		return id
	}
	glog.Warningf("machine id: %v", err)
	if name, err := os.Hostname(); err == nil {
		return name
	}
	return "sensor"
}
