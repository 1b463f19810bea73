package main

//go-build: CGO_ENABLED=0

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"gopkg.in/yaml.v3"

	env "github.com/robotalks/sensorlink/pkg/env/host"
	fx "github.com/robotalks/sensorlink/pkg/framework"
	"github.com/robotalks/sensorlink/pkg/link/serial"
)

const usage = `Usage: %s [flags] COMMAND

Commands:
  ports           list available serial ports
  connect [LINK]  connect to the sensor, default %s

Flags:
`

func init() {
	env.SetupFlags()
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), usage, os.Args[0], env.Default().LinkURL)
		flag.PrintDefaults()
	}
}

func listPorts() error {
	ports, err := serial.ListPorts()
	if err != nil {
		return err
	}
	if len(ports) == 0 {
		ports = []string{}
	}
	enc := yaml.NewEncoder(os.Stdout)
	defer enc.Close()
	return enc.Encode(map[string][]string{"ports": ports})
}

func connect(args []string) error {
	conf := env.NewConfig()
	if len(args) > 0 {
		conf.LinkURL = args[0]
	}
	rw, l, err := conf.Dial()
	if err != nil {
		return fmt.Errorf("connect %s: %w", conf.LinkURL, err)
	}
	defer rw.Close()
	fmt.Printf("Connection established on '%s'.\n", l)

	bridge := conf.NewBridge(rw)
	input := conf.NewInput(bridge)
	return fx.NewRunner().
		HandleSignals().
		Go(fx.NamedRun("bridge", fx.RunnableFunc(func(ctx context.Context) error {
			return bridge.Run(ctx, input)
		}))).
		Wait()
}

func main() {
	flag.Parse()

	args := flag.Args()
	if len(args) == 0 {
		args = []string{"connect"}
	}
	var err error
	switch args[0] {
	case "ports":
		err = listPorts()
	case "connect":
		err = connect(args[1:])
	default:
		flag.Usage()
		os.Exit(2)
	}
	if err != nil {
		log.Fatalln(err)
	}
}
