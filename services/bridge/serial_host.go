//go:build !tinygo

package bridge

import (
	"io"

	"adcctl-go/drivers/stm32adc/i2cbridge"
)

func init() {
	SerialDial = func(port string, baud int) (io.ReadWriteCloser, error) {
		return i2cbridge.OpenPort(port, baud, 0)
	}
}
