package i2cbridge

import (
	"encoding/binary"

	"adcctl-go/drivers/stm32adc/regs"
	"adcctl-go/errcode"
)

// RegisterFile is the far-side view of one register block.
type RegisterFile interface {
	ReadField(reg regs.Reg, mask uint32) uint32
	WriteField(reg regs.Reg, mask, value uint32)
	ReadModifyWrite(reg regs.Reg, mask, value uint32)
}

// Target serves bridge frames against local register blocks. It implements
// drivers.I2C, so a Client can be looped straight onto it.
type Target struct {
	Addr   uint16
	blocks map[uint8]RegisterFile
}

// NewTarget answers at addr.
func NewTarget(addr uint16) *Target {
	return &Target{Addr: addr, blocks: make(map[uint8]RegisterFile)}
}

// Serve exposes rf as block id.
func (t *Target) Serve(id uint8, rf RegisterFile) { t.blocks[id] = rf }

func (t *Target) Tx(addr uint16, w, r []byte) error {
	const op = "i2cbridge"
	if addr != t.Addr {
		return errcode.New(errcode.UnknownInstance, op, "no device at address")
	}
	f, err := Parse(w)
	if err != nil {
		return err
	}
	rf, ok := t.blocks[f.Block]
	if !ok {
		return errcode.New(errcode.UnknownInstance, op, "no such block")
	}
	switch f.Op {
	case OpRead:
		if len(r) != 4 {
			return errcode.New(errcode.InvalidPayload, op, "read length")
		}
		binary.LittleEndian.PutUint32(r, rf.ReadField(f.Reg, f.Mask))
	case OpWrite:
		rf.WriteField(f.Reg, f.Mask, f.Value)
	case OpRMW:
		rf.ReadModifyWrite(f.Reg, f.Mask, f.Value)
	}
	return nil
}
