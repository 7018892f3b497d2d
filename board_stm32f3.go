//go:build tinygo && stm32f3

package main

import (
	"time"

	"adcctl-go/services/adc/platform"
)

func board() boardSetup {
	// Allow USB CDC to enumerate before we print.
	time.Sleep(2 * time.Second)
	return boardSetup{name: "f303-dual", plat: platform.MCU{}}
}
