package nes

// CPU emulates the NES's custom 6502 (RICOH 2A03), cycle by cycle: every
// Step call advances exactly one clock and leaves the address/data/RW
// bus lines set for the system harness to service.
//
// Grounded on original_source/src/cpu/cpu.hpp's cpu_state and
// original_source/src/cpu/instructions.cpp's step(). Addressing modes
// and instruction shapes are function values (cpu_addressing.go,
// cpu_instructions.go) dispatched through a 256-entry table
// (cpu_dispatch.go) rather than the reference's template
// instantiation, per spec.md's redesign note preferring function-value
// dispatch over compile-time polymorphism.
const CPUFrequency = 1789773

// StatusRegister is the 6502 processor status byte as a structured
// record. Bit 5 always reads back set; the break flag only ever exists
// transiently in the byte pushed to the stack, so it isn't stored here.
type StatusRegister struct {
	Carry            bool
	Zero             bool
	InterruptDisable bool
	Decimal          bool
	Overflow         bool
	Negative         bool
}

func (p *StatusRegister) Set(value byte) {
	p.Carry = value&0x01 != 0
	p.Zero = value&0x02 != 0
	p.InterruptDisable = value&0x04 != 0
	p.Decimal = value&0x08 != 0
	p.Overflow = value&0x40 != 0
	p.Negative = value&0x80 != 0
}

func (p StatusRegister) Byte(breakFlag bool) byte {
	var v byte
	if p.Carry {
		v |= 0x01
	}
	if p.Zero {
		v |= 0x02
	}
	if p.InterruptDisable {
		v |= 0x04
	}
	if p.Decimal {
		v |= 0x08
	}
	if breakFlag {
		v |= 0x10
	}
	v |= 0x20
	if p.Overflow {
		v |= 0x40
	}
	if p.Negative {
		v |= 0x80
	}
	return v
}

const (
	stackPage    uint16 = 0x0100
	nmiVector    uint16 = 0xfffa
	resetVector  uint16 = 0xfffc
	brkIRQVector uint16 = 0xfffe
)

// CPUState is the whole register file plus the bus lines sampled by the
// system harness after each Step. LastNMI records the previous NMI
// line level for edge detection; original_source keeps the equivalent
// as a function-local static inside its step(), which it flags itself
// as likely wrong since it isn't scoped per-CPU-instance. Moving it
// onto CPUState is this port's fix for that gap.
type CPUState struct {
	AddressBus uint16
	DataBus    byte
	RW         DataDir

	Reset bool
	NMI   bool
	IRQ   bool

	PC uint16
	A  byte
	X  byte
	Y  byte
	S  byte
	P  StatusRegister

	InstructionRegister byte
	Sync                bool

	ResetPending bool
	NMIPending   bool
	IRQPending   bool
	LastNMI      bool

	CycleCount uint64
}

// NewCPUState returns a CPU with reset pending, matching
// original_source's cpu_state{.reset_pending = true} construction.
func NewCPUState() *CPUState {
	cpu := &CPUState{RW: Read}
	cpu.P.Set(0x34)
	cpu.ResetPending = true
	return cpu
}

func (c *CPUState) push(value byte) {
	c.AddressBus = stackPage | uint16(c.S)
	c.DataBus = value
	c.RW = Write
	c.S--
}

func (c *CPUState) preparePull() {
	c.S++
	c.AddressBus = stackPage | uint16(c.S)
	c.RW = Read
}
