package nes

// CPUBus routes the 6502's 16-bit address space to WRAM, the PPU's
// register window, the APU/controller I/O page, and the cartridge.
//
// The PPU register window ($2000-$3FFF) is staged rather than resolved
// synchronously: SetAddress asserts the address (and, for a write, the
// value) onto the PPU's register-select lines, and the actual register
// side effect only happens inside the PPU's own Step, the next time it
// runs. Read then returns whatever the PPU last placed on its CPU data
// bus. This mirrors real hardware and produces the $2002-read/NMI-
// suppression race spec.md §4.4 calls out; System.RunCPUCycle is the
// caller responsible for stepping the PPU between SetAddress and Read.
// Every other address range resolves immediately, since nothing else on
// this bus depends on intra-cycle PPU timing.
//
// Grounded on jyane-jnes/nes/cpubus.go for the overall shape and on
// original_source/src/memory.hpp's cpu_memory_map (the set_address /
// read / write split, and the exact decode boundaries: $4014 handled
// by the harness, $4016/$4017 reads going to the controller ports while a
// $4017 write goes to the APU, $4018-$401F CPU test mode rejected as a fatal
// error rather than silently ignored).
//
// CPU memory map:
//
//	0x0000-0x07FF WRAM
//	0x0800-0x1FFF WRAM mirrors
//	0x2000-0x3FFF PPU registers (mirrored every 8 bytes)
//	0x4000-0x4013 APU register file
//	0x4014        OAM DMA (handled by the system harness, not this bus)
//	0x4015        APU status
//	0x4016        Controller 1 (write: shared latch, read: port 1 data)
//	0x4017        APU frame counter (write) / Controller 2 data (read)
//	0x4018-0x401F CPU test mode (unimplemented on real hardware too)
//	0x4020-0x5FFF Cartridge expansion (unused by NROM)
//	0x6000-0x7FFF Cartridge PRG-RAM
//	0x8000-0xFFFF Cartridge PRG-ROM
type CPUBus struct {
	WRAM       *RAM
	PPU        *PPU
	APU        *APU
	Cartridge  *Cartridge
	Controller *ControllerPort

	address uint16
}

func NewCPUBus(wram *RAM, ppu *PPU, apu *APU, cartridge *Cartridge, controller *ControllerPort) *CPUBus {
	return &CPUBus{WRAM: wram, PPU: ppu, APU: apu, Cartridge: cartridge, Controller: controller}
}

// SetAddress latches the address used by the subsequent Read or Write,
// staging a PPU register access immediately when it falls in the PPU's
// window. Grounded on memory.hpp's cpu_memory_map::set_address.
func (b *CPUBus) SetAddress(address uint16) {
	b.address = address
	if address >= 0x2000 && address < 0x4000 {
		b.PPU.StageRegisterRead(address)
	}
}

// Read resolves the address latched by SetAddress. For the PPU window
// this returns the PPU's CPU data bus as of its last Step; the caller
// must step the PPU between SetAddress and Read for that to reflect
// this cycle's access, per spec.md §2's per-cycle sequence.
func (b *CPUBus) Read() byte {
	address := b.address
	switch {
	case address < 0x2000:
		return b.WRAM.read(address % 0x0800)
	case address < 0x4000:
		return b.PPU.CPUDataBus
	case address == 0x4014:
		fatalf("cpubus: $4014 must be intercepted by the OAM-DMA harness, not read through CPUBus")
	case address == 0x4016:
		return b.Controller.Read(address)
	case address == 0x4017:
		return b.Controller.Read(address)
	case address < 0x4018:
		return b.APU.Read(address)
	case address < 0x4020:
		fatalf("cpubus: CPU test-mode register read is unimplemented: address=0x%04x", address)
	default:
		return b.Cartridge.readCPU(address)
	}
	panic("unreachable")
}

// Write resolves a write against the address latched by SetAddress. For
// the PPU window this only stages the access; the register side effect
// happens inside the PPU's own Step, not here.
func (b *CPUBus) Write(value byte) {
	address := b.address
	switch {
	case address < 0x2000:
		b.WRAM.write(address%0x0800, value)
	case address < 0x4000:
		b.PPU.StageRegisterWrite(address, value)
	case address == 0x4014:
		fatalf("cpubus: $4014 must be intercepted by the OAM-DMA harness, not written through CPUBus")
	case address == 0x4016:
		b.Controller.Write(value)
	case address < 0x4018:
		b.APU.Write(address, value)
	case address < 0x4020:
		fatalf("cpubus: CPU test-mode register write is unimplemented: address=0x%04x, value=0x%02x", address, value)
	default:
		b.Cartridge.writeCPU(address, value)
	}
}
