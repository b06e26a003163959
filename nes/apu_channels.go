package nes

// Pulse/triangle channel sub-units: envelope, sweep, length counter, and
// the two channel generators built from them plus a BitTimer.
//
// Grounded on original_source/src/apu/apu.hpp's envelope_generator,
// sweep_generator, length_counter, pulse_channel, triangle_channel.

var lengthTable = [32]uint8{
	10, 254, 20, 2, 40, 4, 80, 6, 160, 8, 60, 10, 14, 12, 26, 14,
	12, 16, 24, 18, 48, 20, 96, 22, 192, 24, 72, 26, 16, 28, 32, 30,
}

// lengthCounter gates channel output; it counts down once per half-frame
// clock unless halted, and silences the channel at zero.
type lengthCounter struct {
	enabled bool
	halt    bool
	length  uint8
}

func (l *lengthCounter) step() {
	if l.length != 0 && !l.halt {
		l.length--
	}
}

func (l *lengthCounter) setLength(tableIndex uint8) {
	if l.enabled {
		l.length = lengthTable[tableIndex%32]
	}
}

func (l *lengthCounter) enable()  { l.enabled = true }
func (l *lengthCounter) disable() { l.enabled = false; l.length = 0 }

// envelopeGenerator produces either a constant volume or a sawtooth decay
// envelope, stepped once per quarter frame.
type envelopeGenerator struct {
	maxVolume      uint8
	constantVolume bool
	loop           bool

	decayTimer BitTimer
	start      bool
	decayLevel uint8
}

func (e *envelopeGenerator) handleRegisterWrite(value byte) {
	e.loop = value&0x20 != 0
	e.constantVolume = value&0x10 != 0
	e.maxVolume = value & 0x0f
	e.decayTimer.Reload = uint16(value & 0x0f)
}

func (e *envelopeGenerator) step() {
	if e.start {
		e.start = false
		e.decayLevel = 15
		e.decayTimer.DoReload()
		return
	}
	if e.decayTimer.Clock() {
		if e.decayLevel == 0 {
			if e.loop {
				e.decayLevel = 15
			}
		} else {
			e.decayLevel--
		}
	}
	e.decayTimer.Step()
}

func (e *envelopeGenerator) restart() { e.start = true }

func (e *envelopeGenerator) volume() uint8 {
	if e.constantVolume {
		return e.maxVolume
	}
	return e.decayLevel
}

// sweepGenerator periodically re-tunes a pulse channel's timer period.
type sweepGenerator struct {
	shiftCount uint8
	negate     bool
	enabled    bool

	reload       bool
	sweepTimer   BitTimer
	targetPeriod uint16

	onesComplement bool // true for pulse 1, false for pulse 2
}

func (s *sweepGenerator) handleRegisterWrite(value byte) {
	s.shiftCount = value & 0x07
	s.negate = value&0x08 != 0
	s.enabled = value&0x80 != 0
	s.reload = true
	s.sweepTimer.Reload = uint16((value >> 4) & 0x07)
}

func (s *sweepGenerator) step(currentPeriod uint16) uint16 {
	clocked := s.sweepTimer.Clock()
	if clocked || s.reload {
		s.sweepTimer.DoReload()
		s.reload = false
	} else {
		s.sweepTimer.Step()
	}

	change := int32(currentPeriod) >> s.shiftCount
	if s.negate {
		if s.onesComplement {
			change = -change - 1
		} else {
			change = -change
		}
	}
	s.targetPeriod = uint16(int32(currentPeriod) + change)

	if s.enabled && clocked && !s.mute(currentPeriod) {
		return s.targetPeriod
	}
	return currentPeriod
}

func (s *sweepGenerator) mute(currentPeriod uint16) bool {
	return currentPeriod < 8 || s.targetPeriod > 0x7ff
}

var pulseDutySequences = [4][8]bool{
	{true, false, false, false, false, false, false, false},
	{true, true, false, false, false, false, false, false},
	{true, true, true, true, false, false, false, false},
	{true, true, true, true, true, true, false, false},
}

// pulseChannel is one of the two square-wave generators.
type pulseChannel struct {
	envelope envelopeGenerator
	sweep    sweepGenerator

	sequenceTimer BitTimer
	dutyCycle     uint8
	sequencePos   uint8

	lengthCounter lengthCounter
}

func (p *pulseChannel) writeDutyEnvelope(value byte) {
	p.dutyCycle = (value >> 6) & 0x03
	p.envelope.handleRegisterWrite(value & 0x3f)
	if value&0x20 != 0 {
		p.lengthCounter.halt = true
	} else {
		p.lengthCounter.halt = false
	}
}

func (p *pulseChannel) writeSweep(value byte) {
	p.sweep.handleRegisterWrite(value)
}

func (p *pulseChannel) writeTimerLow(value byte) {
	p.sequenceTimer.Reload = (p.sequenceTimer.Reload &^ 0xff) | uint16(value)
}

func (p *pulseChannel) writeTimerHigh(value byte) {
	p.sequenceTimer.Reload = (p.sequenceTimer.Reload &^ 0x0700) | (uint16(value&0x07) << 8)
	p.envelope.restart()
	p.lengthCounter.setLength(value >> 3)
	p.sequencePos = 0
}

func (p *pulseChannel) step() {
	p.sequenceTimer.Step()
	if p.sequenceTimer.Clock() {
		p.sequencePos = (p.sequencePos + 1) % 8
	}
}

func (p *pulseChannel) quarterFrameStep() { p.envelope.step() }

func (p *pulseChannel) halfFrameStep() {
	p.sequenceTimer.Reload = p.sweep.step(p.sequenceTimer.Reload)
	p.lengthCounter.step()
}

func (p *pulseChannel) output() uint8 {
	if p.sweep.mute(p.sequenceTimer.Reload) || !pulseDutySequences[p.dutyCycle][p.sequencePos] ||
		p.sequenceTimer.Reload < 8 || p.lengthCounter.length == 0 {
		return 0
	}
	return p.envelope.volume()
}

func (p *pulseChannel) enable()       { p.lengthCounter.enable() }
func (p *pulseChannel) disable()      { p.lengthCounter.disable() }
func (p *pulseChannel) enabled() bool { return p.lengthCounter.length > 0 }

var triangleSequence = [32]uint8{
	15, 14, 13, 12, 11, 10, 9, 8, 7, 6, 5, 4, 3, 2, 1, 0,
	0, 1, 2, 3, 4, 5, 6, 7, 8, 9, 10, 11, 12, 13, 14, 15,
}

// triangleChannel is the triangle-wave generator; it has no volume
// control, only a linear counter gating whether it advances.
type triangleChannel struct {
	sequenceTimer BitTimer
	sequencePos   uint8

	lengthCounter lengthCounter

	linearCounterReloadValue uint8
	linearCounter            uint8
	linearCounterReload      bool
	control                  bool
}

func (t *triangleChannel) writeLinearCounterSetup(value byte) {
	t.linearCounterReloadValue = value & 0x7f
	t.control = value&0x80 != 0
	t.lengthCounter.halt = t.control
}

func (t *triangleChannel) writeTimerLow(value byte) {
	t.sequenceTimer.Reload = (t.sequenceTimer.Reload &^ 0xff) | uint16(value)
}

func (t *triangleChannel) writeTimerHigh(value byte) {
	t.sequenceTimer.Reload = (t.sequenceTimer.Reload &^ 0x0700) | (uint16(value&0x07) << 8)
	t.lengthCounter.setLength(value >> 3)
	t.linearCounterReload = true
}

func (t *triangleChannel) step() {
	t.sequenceTimer.Step()
	if t.sequenceTimer.Clock() && t.lengthCounter.length != 0 && t.linearCounter != 0 {
		t.sequencePos = (t.sequencePos + 1) % 32
	}
}

func (t *triangleChannel) quarterFrameStep() {
	if t.linearCounterReload {
		t.linearCounter = t.linearCounterReloadValue
	} else if t.linearCounter != 0 {
		t.linearCounter--
	}
	if !t.control {
		t.linearCounterReload = false
	}
}

func (t *triangleChannel) halfFrameStep() { t.lengthCounter.step() }

func (t *triangleChannel) output() uint8 { return triangleSequence[t.sequencePos] }

func (t *triangleChannel) enable()       { t.lengthCounter.enable() }
func (t *triangleChannel) disable()      { t.lengthCounter.disable() }
func (t *triangleChannel) enabled() bool { return t.lengthCounter.length > 0 }
