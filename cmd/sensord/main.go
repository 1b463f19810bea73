package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"log"

	"github.com/golang/glog"

	"github.com/robotalks/sensorlink/pkg/device"
	env "github.com/robotalks/sensorlink/pkg/env/device"
	fx "github.com/robotalks/sensorlink/pkg/framework"
)

func init() {
	env.SetupFlags()
}

func main() {
	flag.Parse()
	defer glog.Flush()

	e := env.NewConfig().MustNewEnv()
	glog.Infof("sensor %q on %s", e.Sensor.ID.DisplayName(), e.Link.URL)
	e.Device.Notifier = device.StateChangedFunc(func(_ context.Context, state device.State) {
		glog.V(1).Infof("state: %s", state)
	})
	err := fx.NewRunner().
		HandleSignals().
		Go(e.Runnables...).
		Wait()
	if err != nil {
		log.Fatalln(err)
	}
}
