package nes

// System is the complete console: CPU, PPU, APU, their buses, the
// cartridge, the controller port, and the OAM-DMA engine, wired together
// exactly as original_source/src/nes.cpp's nes class does.
//
// run_cpu_cycle there: step the CPU (or let OAM-DMA drive the bus
// instead), service the resulting bus cycle, step the PPU three times
// (it runs at 3x the CPU clock), copy the PPU's NMI line into the CPU,
// step the APU once, and copy the APU's IRQ line into the CPU.
// run_single_frame loops run_cpu_cycle until the PPU reports a
// completed frame.
type System struct {
	CPU     *CPUState
	cpuExec instructionExecutionState

	CPUBus *CPUBus
	PPU    *PPU
	PPUBus *PPUBus
	APU    *APU

	Cartridge  *Cartridge
	Controller *ControllerPort
	DMA        OAMDMA

	dmaLatch byte
}

// NewSystem wires a complete console around the given cartridge.
func NewSystem(cartridge *Cartridge) *System {
	ppuBus := NewPPUBus(NewRAM(), cartridge)
	ppu := NewPPU(ppuBus)
	apu := NewAPU()
	controller := NewControllerPort()
	cpuBus := NewCPUBus(NewRAM(), ppu, apu, cartridge, controller)

	return &System{
		CPU:        NewCPUState(),
		CPUBus:     cpuBus,
		PPU:        ppu,
		PPUBus:     ppuBus,
		APU:        apu,
		Cartridge:  cartridge,
		Controller: controller,
	}
}

// SetControllerCallback installs the pull-style controller poll callback.
func (s *System) SetControllerCallback(cb ControllerCallback) {
	s.Controller.ReadController = cb
}

// FrameBuffer returns the 256x240 palette-index frame buffer most
// recently completed by the PPU.
func (s *System) FrameBuffer() *[256 * 240]byte {
	return &s.PPU.FrameBuffer
}

// DrainSamples returns every audio sample produced since the last call.
func (s *System) DrainSamples() []float32 {
	return s.APU.DrainSamples()
}

// RunCPUCycle advances the whole system by exactly one CPU clock (three
// PPU dots, one APU clock), grounded on nes.cpp's run_cpu_cycle.
//
// A CPU-side access to the PPU's register window is staged onto the PPU
// via CPUBus.SetAddress/Write below, then only resolved (for a read,
// via CPUBus.Read) after the three-dot loop has run, per spec.md §2's
// per-cycle sequence ("step the PPU three times" before "complete the
// read from the bus") and §4.4's staged-register-access model. That
// ordering, not just a same-cycle function call, is what produces the
// $2002-read/NMI-suppression race real hardware exhibits.
func (s *System) RunCPUCycle() {
	dmaActive := s.DMA.Active()

	if dmaActive {
		cycle := s.DMA.Step()
		if cycle.Dir == Read {
			s.CPUBus.SetAddress(cycle.Address)
			s.dmaLatch = s.CPUBus.Read()
		} else {
			s.PPU.WriteRegister(cycle.Address, s.dmaLatch)
		}
	} else {
		s.CPU.Step(&s.cpuExec)

		if s.CPU.RW == Write {
			if s.CPU.AddressBus == 0x4014 {
				s.DMA.Start(s.CPU.DataBus, s.CPU.CycleCount%2 == 0)
			} else {
				s.CPUBus.SetAddress(s.CPU.AddressBus)
				s.CPUBus.Write(s.CPU.DataBus)
			}
		} else {
			s.CPUBus.SetAddress(s.CPU.AddressBus)
		}
	}

	for i := 0; i < 3; i++ {
		s.PPU.Step()
	}
	s.CPU.NMI = s.PPU.NMI

	if !dmaActive && s.CPU.RW == Read {
		s.CPU.DataBus = s.CPUBus.Read()
	}

	s.APU.Step()
	s.CPU.IRQ = s.APU.Interrupt()
}

// RunSingleFrame runs CPU cycles until the PPU reports a completed
// frame, matching nes.cpp's run_single_frame. The PPU sets FrameComplete
// on entering vertical blank (and clears it at the pre-render line);
// RunSingleFrame clears it itself once observed, so the next call waits
// for the next frame.
func (s *System) RunSingleFrame() {
	for !s.PPU.FrameComplete {
		s.RunCPUCycle()
	}
	s.PPU.FrameComplete = false
}
