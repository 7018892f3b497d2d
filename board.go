package main

import (
	"adcctl-go/services/adc"

	"tinygo.org/x/drivers"
)

// boardSetup is what the build-specific board() hands to main.
type boardSetup struct {
	name   string // embedded config document
	plat   adc.Platform
	target drivers.I2C // local blocks served by the bridge; nil for none
}
