//go:build !tinygo

package main

import (
	"flag"
	"os"
	"strings"

	"adcctl-go/drivers/stm32adc/adcsim"
	"adcctl-go/drivers/stm32adc/i2cbridge"
	"adcctl-go/services/adc/platform"
	"adcctl-go/services/config"
)

func board() boardSetup {
	name := flag.String("board", "f303-dual", "embedded config: "+strings.Join(config.Boards(), ", "))
	file := flag.String("config", "", "read the board document from this JSON file instead")
	bridge := flag.Bool("bridge", false, "reach the simulated blocks through the I2C bridge")
	port := flag.String("serial", "", "drive a remote board through a bridge on this serial port")
	baud := flag.Int("baud", 115200, "serial baud rate")
	flag.Parse()

	if *file != "" {
		raw, err := os.ReadFile(*file)
		if err != nil {
			println(err.Error())
			os.Exit(1)
		}
		config.EmbeddedConfigLookup = func(string) ([]byte, bool) { return raw, true }
	}

	if *port != "" {
		link, err := i2cbridge.OpenSerial(*port, *baud)
		if err != nil {
			println(err.Error())
			os.Exit(1)
		}
		return boardSetup{name: *name, plat: platform.NewRemote(link, platform.BridgeAddr)}
	}

	var sim *platform.Sim
	if *bridge {
		sim = platform.NewBridgedSim(adcsim.DefaultOptions())
	} else {
		sim = platform.NewSim(adcsim.DefaultOptions())
	}
	tg := i2cbridge.NewTarget(platform.BridgeAddr)
	sim.Serve(tg)
	return boardSetup{name: *name, plat: sim, target: tg}
}
