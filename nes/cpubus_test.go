package nes

import "testing"

func newTestCPUBus(t *testing.T) (*CPUBus, *PPU) {
	t.Helper()
	cart := NewCartridge(make([]byte, prgROMUnit), make([]byte, chrROMUnit), nil, MirrorHorizontal)
	ppuBus := NewPPUBus(NewRAM(), cart)
	ppu := NewPPU(ppuBus)
	bus := NewCPUBus(NewRAM(), ppu, NewAPU(), cart, NewControllerPort())
	return bus, ppu
}

// TestCPUBusRegisterReadIsStagedUntilPPUSteps exercises spec.md §4.4's
// staged-access model directly: SetAddress must only assert the access
// onto the PPU, not resolve it; the side effect (here, PPUSTATUS's
// vblank-clear-on-read) and the readable value only appear once the PPU
// has stepped, matching the ordering System.RunCPUCycle relies on to
// produce the $2002-read race.
func TestCPUBusRegisterReadIsStagedUntilPPUSteps(t *testing.T) {
	bus, ppu := newTestCPUBus(t)
	ppu.Status.VerticalBlankStarted = true

	bus.SetAddress(0x2002) // PPUSTATUS
	if !ppu.Status.VerticalBlankStarted {
		t.Fatalf("SetAddress resolved the register access before the PPU stepped")
	}

	ppu.Step()

	if got := bus.Read(); got&0x80 == 0 {
		t.Fatalf("PPUSTATUS bit 7 = 0 after Step, want 1 (vblank was set)")
	}
	if ppu.Status.VerticalBlankStarted {
		t.Fatalf("reading PPUSTATUS did not clear VerticalBlankStarted")
	}
}

// TestCPUBusRegisterWriteIsStagedUntilPPUSteps is the write-side
// counterpart: a PPUCTRL write must not take effect until the PPU
// steps.
func TestCPUBusRegisterWriteIsStagedUntilPPUSteps(t *testing.T) {
	bus, ppu := newTestCPUBus(t)

	bus.SetAddress(0x2000) // PPUCTRL
	bus.Write(0x80)        // bit 7: generate NMI on vblank
	if ppu.Ctrl.GenerateVBlankNMI {
		t.Fatalf("PPUCTRL write resolved before the PPU stepped")
	}

	ppu.Step()

	if !ppu.Ctrl.GenerateVBlankNMI {
		t.Fatalf("PPUCTRL write never took effect after Step")
	}
}
