package nes

// OAMDMA models the $4014 OAM-DMA transfer: 256 sequential CPU-bus reads
// from page*0x100 interleaved with writes to PPU $2004, preceded by one
// dummy cycle (two on an odd CPU cycle) while the DMA unit waits for a
// free bus cycle.
//
// Grounded on original_source/src/oam_dma.hpp. The reference drives a
// cpu_state's address_bus/rw directly; this port instead exposes Step,
// which the system harness calls once per CPU cycle and which reports
// the bus cycle (address + direction) the DMA unit wants that cycle,
// leaving the harness to actually move the byte between CPU and PPU.
type OAMDMA struct {
	active bool
	source uint16
	cyclesPending uint16
}

// Start begins a transfer from page*0x100. evenCycle is whether the CPU
// cycle on which $4014 was written was even-numbered; this sets the
// one-cycle alignment stall (513 vs 514 total cycles).
func (d *OAMDMA) Start(page byte, evenCycle bool) {
	d.active = true
	d.source = uint16(page) << 8
	if evenCycle {
		d.cyclesPending = 513
	} else {
		d.cyclesPending = 514
	}
}

// Active reports whether a transfer is in progress; while true the system
// harness must stall the CPU's own bus activity and let DMA drive the bus.
func (d *OAMDMA) Active() bool {
	return d.active
}

// DMACycle describes what the OAM-DMA unit wants to do on the current CPU
// cycle.
type DMACycle struct {
	Dir     DataDir
	Address uint16
}

// Step advances the transfer by one CPU cycle and returns the bus cycle
// the DMA unit wants. The caller must only call Step while Active is
// true.
func (d *OAMDMA) Step() DMACycle {
	if d.cyclesPending > 512 {
		d.cyclesPending--
		return DMACycle{Dir: Read, Address: 0x0000}
	}

	var cycle DMACycle
	if d.cyclesPending%2 == 0 {
		cycle = DMACycle{Dir: Read, Address: d.source}
		d.source++
	} else {
		cycle = DMACycle{Dir: Write, Address: 0x2004}
	}

	d.cyclesPending--
	if d.cyclesPending == 0 {
		d.active = false
	}
	return cycle
}
