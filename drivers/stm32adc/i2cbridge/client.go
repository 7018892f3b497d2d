package i2cbridge

import (
	"encoding/binary"

	"adcctl-go/drivers/stm32adc/regs"

	"tinygo.org/x/drivers"
)

// Client is a register file reached over I2C. Transport errors latch: the
// first one is kept in Err, and reads made after it return every bit of the
// mask set, so waits run into their budget and configuration is refused
// instead of acting on stale zeros.
type Client struct {
	bus   drivers.I2C
	addr  uint16
	block uint8
	err   error

	// Fixed buffers to avoid per-call heap allocations.
	w [FrameLen]byte
	r [4]byte
}

// NewClient binds register block `block` of the bridge at addr.
func NewClient(bus drivers.I2C, addr uint16, block uint8) *Client {
	return &Client{bus: bus, addr: addr, block: block}
}

// Err returns the first transport error since the last ClearErr.
func (c *Client) Err() error { return c.err }

func (c *Client) ClearErr() { c.err = nil }

func (c *Client) tx(f Frame, read bool) bool {
	f.Block = c.block
	f.Put(c.w[:])
	var r []byte
	if read {
		r = c.r[:]
	}
	if err := c.bus.Tx(c.addr, c.w[:], r); err != nil {
		if c.err == nil {
			c.err = err
		}
		return false
	}
	return true
}

func (c *Client) ReadField(reg regs.Reg, mask uint32) uint32 {
	if c.err != nil || !c.tx(Frame{Op: OpRead, Reg: reg, Mask: mask}, true) {
		return mask
	}
	return binary.LittleEndian.Uint32(c.r[:]) & mask
}

func (c *Client) WriteField(reg regs.Reg, mask, value uint32) {
	c.tx(Frame{Op: OpWrite, Reg: reg, Mask: mask, Value: value}, false)
}

func (c *Client) ReadModifyWrite(reg regs.Reg, mask, value uint32) {
	c.tx(Frame{Op: OpRMW, Reg: reg, Mask: mask, Value: value}, false)
}
