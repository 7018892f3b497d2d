//go:build !tinygo

package i2cbridge

import (
	"io"
	"time"

	"adcctl-go/errcode"

	"github.com/tarm/serial"
)

// OpenPort opens a host serial port for either end of a Link. A zero
// timeout blocks reads until data arrives, which is what a serving end needs.
func OpenPort(name string, baud int, timeout time.Duration) (io.ReadWriteCloser, error) {
	p, err := serial.OpenPort(&serial.Config{
		Name:        name,
		Baud:        baud,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, &errcode.E{C: errcode.Error, Op: "i2cbridge serial", Msg: name, Err: err}
	}
	return p, nil
}

// OpenSerial opens the requesting end of a Link on a host serial port.
// Replies that take longer than the read timeout fail the transaction.
func OpenSerial(name string, baud int) (*Link, error) {
	p, err := OpenPort(name, baud, 500*time.Millisecond)
	if err != nil {
		return nil, err
	}
	return NewLink(p), nil
}
