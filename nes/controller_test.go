package nes

import "testing"

// TestControllerLatchAndShift exercises the standard $4016 protocol:
// write 1 then 0 to latch the current button snapshot, then read eight
// bits off, A first, matching ButtonState's wire order.
func TestControllerLatchAndShift(t *testing.T) {
	port := NewControllerPort()
	port.ReadController = func() ControllerStates {
		return ControllerStates{Joy1: ButtonState{A: true, Start: true, Right: true}}
	}

	port.Write(1)
	port.Write(0)

	want := []byte{1, 0, 0, 1, 0, 0, 0, 1} // A, B, Select, Start, Up, Down, Left, Right
	for i, w := range want {
		if got := port.Read(0x4016); got != w {
			t.Fatalf("bit %d = %d, want %d", i, got, w)
		}
	}
}

// TestControllerHeldLatchRepolls checks that leaving the latch high makes
// every read re-poll and re-load bit 0 of a fresh snapshot, rather than
// shifting through a stale one.
func TestControllerHeldLatchRepolls(t *testing.T) {
	port := NewControllerPort()
	pressed := false
	port.ReadController = func() ControllerStates {
		return ControllerStates{Joy1: ButtonState{A: pressed}}
	}

	port.Write(1) // latch held high

	if got := port.Read(0x4016); got != 0 {
		t.Fatalf("first read = %d, want 0", got)
	}
	pressed = true
	if got := port.Read(0x4016); got != 1 {
		t.Fatalf("second read after state change = %d, want 1", got)
	}
}

// TestControllerIndependentPorts checks joy1/joy2 shift independently.
func TestControllerIndependentPorts(t *testing.T) {
	port := NewControllerPort()
	port.ReadController = func() ControllerStates {
		return ControllerStates{
			Joy1: ButtonState{A: true},
			Joy2: ButtonState{B: true},
		}
	}
	port.Write(1)
	port.Write(0)

	if got := port.Read(0x4016); got != 1 {
		t.Fatalf("joy1 bit0 = %d, want 1 (A)", got)
	}
	if got := port.Read(0x4017); got != 0 {
		t.Fatalf("joy2 bit0 = %d, want 0 (B not A)", got)
	}
	if got := port.Read(0x4017); got != 1 {
		t.Fatalf("joy2 bit1 = %d, want 1 (B)", got)
	}
}
