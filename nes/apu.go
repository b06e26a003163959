package nes

// frameSequencer drives the quarter/half-frame clocks that step envelope,
// sweep, and length-counter sub-units, plus the frame-IRQ line.
//
// Grounded verbatim on original_source/src/apu/apu.hpp's frame_counter:
// the four-step sequence ticks its flags at 7457/14913/22371/29828-29830
// CPU cycles, the five-step sequence at 7457/14913/22371/37281-37282
// (29829 clocks nothing in five-step mode).
type frameSequencer struct {
	fiveStepMode     bool
	interruptInhibit bool
	frameInterrupt   bool
	cycleCount       uint32
}

func (f *frameSequencer) handleRegisterWrite(value byte) {
	f.fiveStepMode = value&0x80 != 0
	f.interruptInhibit = value&0x40 != 0
	f.clearFrameInterrupt()
}

func (f *frameSequencer) step() {
	f.cycleCount++
	limit := uint32(29830)
	if f.fiveStepMode {
		limit = 37282
	}
	if f.cycleCount >= limit {
		f.cycleCount = 0
	}

	if !f.interruptInhibit && !f.fiveStepMode && f.cycleCount == 29828 {
		f.frameInterrupt = true
	} else if f.cycleCount == 1 {
		f.frameInterrupt = false
	}
}

func (f *frameSequencer) apuClock() bool { return f.cycleCount%2 == 1 }

func (f *frameSequencer) halfFrameClock() bool {
	return f.cycleCount == 14913 ||
		(!f.fiveStepMode && f.cycleCount == 29829) ||
		(f.fiveStepMode && f.cycleCount == 37281)
}

func (f *frameSequencer) quarterFrameClock() bool {
	return f.halfFrameClock() || f.cycleCount == 7457 || f.cycleCount == 22371
}

func (f *frameSequencer) clearFrameInterrupt() { f.frameInterrupt = false }

// SampleRate is the fixed output sample rate of the sample ring buffer.
const SampleRate = 44100

const cyclesPerSample = 1789773 / (SampleRate * 2)

// APU is the audio processing unit: a frame sequencer driving two pulse
// channels and a triangle channel, a non-linear mixer, and the
// high-pass/low-pass filter chain that band-limits the 2x-oversampled
// mix before it's decimated into a ring buffer of output samples.
//
// Grounded on original_source/src/apu/apu.hpp's audio_processing_unit.
// Noise and DMC are out of scope (spec.md §1 Non-goals) and are wired as
// constant-zero mixer inputs, matching the reference's own TODO stubs.
type APU struct {
	frameSequencer frameSequencer
	pulse1         pulseChannel
	pulse2         pulseChannel
	triangle       triangleChannel

	cpuCycleCount uint32
	hpf           *highPassFilter
	lpf           antialiasingFilter
	writeSample   bool

	sampleBuffer []float32
	writePos     int
	readPos      int
}

func NewAPU() *APU {
	a := &APU{
		hpf:          newHighPassFilter(SampleRate, 37),
		sampleBuffer: make([]float32, SampleRate),
	}
	a.pulse1.sweep.onesComplement = true
	return a
}

func (a *APU) Read(address uint16) byte {
	if address != 0x4015 {
		return 0
	}
	frameInterrupt := a.frameSequencer.frameInterrupt
	a.frameSequencer.clearFrameInterrupt()

	var v byte
	if a.pulse1.enabled() {
		v |= 0x01
	}
	if a.pulse2.enabled() {
		v |= 0x02
	}
	if a.triangle.enabled() {
		v |= 0x04
	}
	if frameInterrupt {
		v |= 0x40
	}
	return v
}

func (a *APU) Write(address uint16, value byte) {
	address %= 0x4000
	switch {
	case address < 0x04:
		a.writePulseRegister(&a.pulse1, address%4, value)
	case address < 0x08:
		a.writePulseRegister(&a.pulse2, address%4, value)
	case address < 0x0c:
		a.writeTriangleRegister(address%4, value)
	case address < 0x10:
		// noise: out of scope
	case address < 0x14:
		// DMC: out of scope
	case address == 0x15:
		if value&0x01 != 0 {
			a.pulse1.enable()
		} else {
			a.pulse1.disable()
		}
		if value&0x02 != 0 {
			a.pulse2.enable()
		} else {
			a.pulse2.disable()
		}
		if value&0x04 != 0 {
			a.triangle.enable()
		} else {
			a.triangle.disable()
		}
	case address == 0x17:
		a.frameSequencer.handleRegisterWrite(value)
	}
}

func (a *APU) writePulseRegister(p *pulseChannel, register uint16, value byte) {
	switch register {
	case 0:
		p.writeDutyEnvelope(value)
	case 1:
		p.writeSweep(value)
	case 2:
		p.writeTimerLow(value)
	case 3:
		p.writeTimerHigh(value)
	}
}

func (a *APU) writeTriangleRegister(register uint16, value byte) {
	switch register {
	case 0:
		a.triangle.writeLinearCounterSetup(value)
	case 2:
		a.triangle.writeTimerLow(value)
	case 3:
		a.triangle.writeTimerHigh(value)
	}
}

// Interrupt reports whether the frame sequencer's IRQ line is asserted.
func (a *APU) Interrupt() bool {
	return a.frameSequencer.frameInterrupt
}

// mix applies the NES's non-linear DAC summation formula, grounded on
// apu.hpp's mix(). Noise and DMC inputs are always zero in this port.
func mix(pulse1, pulse2, triangle, noise, dmc uint8) float32 {
	var pulseOut float64
	if pulse1 != 0 || pulse2 != 0 {
		pulseOut = 95.88 / ((8128.0 / (float64(pulse1) + float64(pulse2))) + 100.0)
	}
	var tndOut float64
	if triangle != 0 || noise != 0 || dmc != 0 {
		tndOut = 159.79 / ((1.0 / ((float64(triangle) / 8227.0) + (float64(noise) / 12241.0) + (float64(dmc) / 22638.0))) + 100.0)
	}
	return float32(pulseOut + tndOut)
}

// Step advances every sub-unit by one CPU cycle. Every cyclesPerSample+1
// cycles it feeds one mixed sample through the high-pass/low-pass chain
// (2x oversampling), and every second such filtered sample is written to
// the output ring buffer.
func (a *APU) Step() {
	a.frameSequencer.step()
	a.triangle.step()

	if a.frameSequencer.apuClock() {
		a.pulse1.step()
		a.pulse2.step()
	}

	if a.frameSequencer.quarterFrameClock() {
		a.pulse1.quarterFrameStep()
		a.pulse2.quarterFrameStep()
		a.triangle.quarterFrameStep()
	}

	if a.frameSequencer.halfFrameClock() {
		a.pulse1.halfFrameStep()
		a.pulse2.halfFrameStep()
		a.triangle.halfFrameStep()
	}

	a.cpuCycleCount++
	if a.cpuCycleCount > cyclesPerSample {
		a.cpuCycleCount = 0

		a.lpf.pushBack(a.hpf.process(mix(a.pulse1.output(), a.pulse2.output(), a.triangle.output(), 0, 0)))

		if a.writeSample {
			a.sampleBuffer[a.writePos] = a.lpf.calculateFilteredSample()
			a.writePos++
			if a.writePos == len(a.sampleBuffer) {
				a.writePos = 0
			}
		}
		a.writeSample = !a.writeSample
	}
}

// DrainSamples copies every sample produced since the last call into a
// freshly allocated slice, for a host audio callback to consume.
func (a *APU) DrainSamples() []float32 {
	if a.writePos == a.readPos {
		return nil
	}
	var out []float32
	if a.writePos > a.readPos {
		out = append(out, a.sampleBuffer[a.readPos:a.writePos]...)
	} else {
		out = append(out, a.sampleBuffer[a.readPos:]...)
		out = append(out, a.sampleBuffer[:a.writePos]...)
	}
	a.readPos = a.writePos
	return out
}
