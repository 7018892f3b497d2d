package i2cbridge

import (
	"encoding/binary"
	"errors"
	"io"
	"sync"

	"adcctl-go/errcode"

	"tinygo.org/x/drivers"
)

// Link carries I2C transactions over a byte stream, typically a UART to a
// controller that replays them on its own bus. Request:
// [sync, addr LE16, len(w), len(r), w...]. Response: [status, r...].
type Link struct {
	mu  sync.Mutex
	rw  io.ReadWriter
	buf [linkHeader + 255]byte
}

const (
	linkSync   = 0xA5
	linkHeader = 5
)

// Response status bytes.
const (
	statusOK byte = iota
	statusUnknown
	statusPayload
	statusError
)

var _ drivers.I2C = (*Link)(nil)

// NewLink frames transactions onto rw.
func NewLink(rw io.ReadWriter) *Link { return &Link{rw: rw} }

// Close closes the stream if it can be closed.
func (l *Link) Close() error {
	if c, ok := l.rw.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (l *Link) Tx(addr uint16, w, r []byte) error {
	const op = "i2cbridge link"
	if len(w) > 255 || len(r) > 255 {
		return errcode.New(errcode.InvalidParams, op, "transaction too long")
	}
	l.mu.Lock()
	defer l.mu.Unlock()

	b := l.buf[:linkHeader+len(w)]
	b[0] = linkSync
	binary.LittleEndian.PutUint16(b[1:], addr)
	b[3] = byte(len(w))
	b[4] = byte(len(r))
	copy(b[linkHeader:], w)
	if _, err := l.rw.Write(b); err != nil {
		return &errcode.E{C: errcode.Error, Op: op, Err: err}
	}

	st := l.buf[:1]
	if _, err := io.ReadFull(l.rw, st); err != nil {
		return &errcode.E{C: errcode.Error, Op: op, Err: err}
	}
	if st[0] != statusOK {
		return errcode.New(statusCode(st[0]), op, "remote")
	}
	if _, err := io.ReadFull(l.rw, r); err != nil {
		return &errcode.E{C: errcode.Error, Op: op, Err: err}
	}
	return nil
}

func statusCode(s byte) errcode.Code {
	switch s {
	case statusUnknown:
		return errcode.UnknownInstance
	case statusPayload:
		return errcode.InvalidPayload
	}
	return errcode.Error
}

func statusOf(err error) byte {
	switch errcode.Of(err) {
	case errcode.OK:
		return statusOK
	case errcode.UnknownInstance:
		return statusUnknown
	case errcode.InvalidPayload:
		return statusPayload
	}
	return statusError
}

// ServeLink answers Link requests read from rw by replaying them on dev,
// until the stream ends. A clean end of stream returns nil.
func ServeLink(rw io.ReadWriter, dev drivers.I2C) error {
	var hdr [linkHeader]byte
	var w, r [255]byte
	var out [1 + 255]byte
	for {
		if _, err := io.ReadFull(rw, hdr[:1]); err != nil {
			if errors.Is(err, io.EOF) {
				return nil
			}
			return err
		}
		if hdr[0] != linkSync {
			continue
		}
		if _, err := io.ReadFull(rw, hdr[1:]); err != nil {
			return err
		}
		addr := binary.LittleEndian.Uint16(hdr[1:])
		wn, rn := int(hdr[3]), int(hdr[4])
		if _, err := io.ReadFull(rw, w[:wn]); err != nil {
			return err
		}
		clear(r[:rn])
		err := dev.Tx(addr, w[:wn], r[:rn])
		out[0] = statusOf(err)
		n := 1
		if err == nil {
			n += copy(out[1:], r[:rn])
		}
		if _, err := rw.Write(out[:n]); err != nil {
			return err
		}
	}
}
