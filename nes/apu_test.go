package nes

import "testing"

// TestLengthCounterTableLookup checks a handful of lengthTable entries
// against the standard APU length table, and that setLength is a no-op
// while the channel is disabled.
func TestLengthCounterTableLookup(t *testing.T) {
	var l lengthCounter
	l.setLength(0) // disabled: must not load
	if l.length != 0 {
		t.Fatalf("length loaded while disabled: %d", l.length)
	}

	l.enable()
	l.setLength(0)
	if l.length != 10 {
		t.Fatalf("length[0] = %d, want 10", l.length)
	}
	l.setLength(1)
	if l.length != 254 {
		t.Fatalf("length[1] = %d, want 254", l.length)
	}
	l.setLength(31)
	if l.length != 30 {
		t.Fatalf("length[31] = %d, want 30", l.length)
	}
}

func TestLengthCounterHaltDoesNotDecrement(t *testing.T) {
	l := lengthCounter{enabled: true, halt: true, length: 5}
	l.step()
	if l.length != 5 {
		t.Fatalf("halted length counter decremented to %d", l.length)
	}
}

// TestSweepNegateOnesComplement checks pulse 1's sweep uses the
// one's-complement form (-change-1) while pulse 2 uses plain two's
// complement, per the hardware's documented pulse-channel asymmetry.
func TestSweepNegateOnesComplement(t *testing.T) {
	onesComplement := sweepGenerator{shiftCount: 1, negate: true, onesComplement: true}
	onesComplement.targetPeriod = 0
	period := uint16(100)
	change := int32(period) >> onesComplement.shiftCount
	wantOnes := uint16(int32(period) - change - 1)

	twosComplement := sweepGenerator{shiftCount: 1, negate: true, onesComplement: false}
	wantTwos := uint16(int32(period) - change)

	if wantOnes == wantTwos {
		t.Fatalf("test setup produced identical targets, can't distinguish behavior")
	}

	onesComplement.sweepTimer.Reload = 0
	twosComplement.sweepTimer.Reload = 0
	onesComplement.step(period)
	twosComplement.step(period)

	if onesComplement.targetPeriod != wantOnes {
		t.Fatalf("pulse1 (ones complement) targetPeriod = %d, want %d", onesComplement.targetPeriod, wantOnes)
	}
	if twosComplement.targetPeriod != wantTwos {
		t.Fatalf("pulse2 (twos complement) targetPeriod = %d, want %d", twosComplement.targetPeriod, wantTwos)
	}
}

func TestEnvelopeConstantVolume(t *testing.T) {
	var e envelopeGenerator
	e.handleRegisterWrite(0x1a) // constant volume, volume 10
	if !e.constantVolume || e.volume() != 10 {
		t.Fatalf("constant volume = %d (constantVolume=%v), want 10 (true)", e.volume(), e.constantVolume)
	}
}

func TestEnvelopeDecay(t *testing.T) {
	var e envelopeGenerator
	e.handleRegisterWrite(0x00) // decay envelope, period 0
	e.restart()
	e.step() // restart cycle: decayLevel = 15
	if e.volume() != 15 {
		t.Fatalf("decay level after restart = %d, want 15", e.volume())
	}
}

// TestMixSilentWhenAllZero checks the non-linear mixer returns silence
// for an all-zero input, matching the DAC formula's 0/0 guard.
func TestMixSilentWhenAllZero(t *testing.T) {
	if got := mix(0, 0, 0, 0, 0); got != 0 {
		t.Fatalf("mix(0,0,0,0,0) = %v, want 0", got)
	}
}

// TestMixMonotonicWithPulse checks the mixer increases output as pulse
// amplitude increases, a basic sanity check on the DAC approximation.
func TestMixMonotonicWithPulse(t *testing.T) {
	low := mix(1, 0, 0, 0, 0)
	high := mix(15, 0, 0, 0, 0)
	if !(high > low) {
		t.Fatalf("mix(15,...) = %v, not greater than mix(1,...) = %v", high, low)
	}
}

// TestPulseChannelSilentBelowMinPeriod checks the hardware quirk where a
// pulse channel mutes itself once its period drops under 8, independent
// of the sweep unit's own mute condition.
func TestPulseChannelSilentBelowMinPeriod(t *testing.T) {
	var p pulseChannel
	p.lengthCounter.enabled = true
	p.lengthCounter.setLength(0)
	p.envelope.handleRegisterWrite(0x0f)
	p.dutyCycle = 2
	p.sequencePos = 0
	p.sequenceTimer.Reload = 2 // below the 8-cycle floor
	if got := p.output(); got != 0 {
		t.Fatalf("output with period<8 = %d, want 0", got)
	}
}

// TestAPUFrameSequencerQuarterAndHalfFrames checks the four-step
// sequence's quarter/half-frame clock cycle counts.
func TestAPUFrameSequencerQuarterAndHalfFrames(t *testing.T) {
	var f frameSequencer
	quarterAt := map[uint32]bool{}
	halfAt := map[uint32]bool{}
	for i := uint32(0); i < 29830; i++ {
		f.step()
		if f.quarterFrameClock() {
			quarterAt[f.cycleCount] = true
		}
		if f.halfFrameClock() {
			halfAt[f.cycleCount] = true
		}
	}
	for _, c := range []uint32{7457, 14913, 22371, 29829} {
		if !quarterAt[c] {
			t.Errorf("expected quarter-frame clock at cycle %d", c)
		}
	}
	for _, c := range []uint32{14913, 29829} {
		if !halfAt[c] {
			t.Errorf("expected half-frame clock at cycle %d", c)
		}
	}
}

func TestAPUFrameIRQSetsAndClearsOnRead(t *testing.T) {
	a := NewAPU()
	for i := 0; i < 29829; i++ {
		a.Step()
	}
	if !a.Interrupt() {
		t.Fatalf("frame IRQ not asserted after a full four-step sequence")
	}
	a.Read(0x4015)
	if a.Interrupt() {
		t.Fatalf("frame IRQ still asserted after status read")
	}
}

func TestAPUFrameIRQInhibited(t *testing.T) {
	a := NewAPU()
	a.Write(0x17, 0x40) // interrupt inhibit
	for i := 0; i < 29830; i++ {
		a.Step()
	}
	if a.Interrupt() {
		t.Fatalf("frame IRQ asserted despite inhibit bit")
	}
}
