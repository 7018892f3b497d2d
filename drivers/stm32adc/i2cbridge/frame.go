// Package i2cbridge carries ADC register accesses over I2C to a companion
// controller that owns the register block. Each access is one I2C
// transaction; read-modify-write is applied on the far side so it stays
// atomic for the peripheral.
package i2cbridge

import (
	"encoding/binary"

	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// Op selects the register primitive.
type Op uint8

const (
	OpRead Op = iota + 1
	OpWrite
	OpRMW
)

// FrameLen is the encoded size of a request:
// [op, block, offset, mask LE32, value LE32].
const FrameLen = 11

// Frame is one register access request.
type Frame struct {
	Op    Op
	Block uint8 // register block selector on the far side
	Reg   regs.Reg
	Mask  uint32
	Value uint32
}

// Put encodes f into b, which must hold FrameLen bytes.
func (f Frame) Put(b []byte) {
	b[0] = byte(f.Op)
	b[1] = f.Block
	b[2] = byte(f.Reg)
	binary.LittleEndian.PutUint32(b[3:7], f.Mask)
	binary.LittleEndian.PutUint32(b[7:11], f.Value)
}

// Parse decodes a request.
func Parse(b []byte) (Frame, error) {
	if len(b) != FrameLen {
		return Frame{}, errcode.New(errcode.InvalidPayload, "i2cbridge", "frame length")
	}
	f := Frame{
		Op:    Op(b[0]),
		Block: b[1],
		Reg:   regs.Reg(b[2]),
		Mask:  binary.LittleEndian.Uint32(b[3:7]),
		Value: binary.LittleEndian.Uint32(b[7:11]),
	}
	if f.Op < OpRead || f.Op > OpRMW {
		return Frame{}, errcode.New(errcode.InvalidPayload, "i2cbridge", "unknown op")
	}
	return f, nil
}
