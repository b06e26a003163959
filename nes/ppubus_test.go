package nes

import "testing"

func newTestPPUBus(t *testing.T, mirroring Mirroring) *PPUBus {
	t.Helper()
	cart := NewCartridge(make([]byte, prgROMUnit), make([]byte, chrROMUnit), nil, mirroring)
	return NewPPUBus(NewRAM(), cart)
}

// TestPPUBusHorizontalMirroring exercises spec.md §8's testable property
// directly: under horizontal mirroring, a nametable address and
// a^0x0400 must read back identically.
func TestPPUBusHorizontalMirroring(t *testing.T) {
	b := newTestPPUBus(t, MirrorHorizontal)
	b.Write(0x2000, 0x11)
	b.Write(0x2800, 0x22)

	if got := b.Read(0x2000 ^ 0x0400); got != 0x11 {
		t.Fatalf("Read(0x2000^0x0400) = 0x%02x, want 0x11 (mirrors 0x2000)", got)
	}
	if got := b.Read(0x2800 ^ 0x0400); got != 0x22 {
		t.Fatalf("Read(0x2800^0x0400) = 0x%02x, want 0x22 (mirrors 0x2800)", got)
	}
	// The two base tables must land in genuinely distinct VRAM bytes, not
	// collapse onto the same one: otherwise writing 0x2800 would have
	// clobbered 0x2000's value above.
	if got := b.Read(0x2000); got != 0x11 {
		t.Fatalf("Read(0x2000) = 0x%02x, want 0x11 (distinct from the 0x2800 bank)", got)
	}
}

// TestPPUBusVerticalMirroring is the same property for vertical
// mirroring, where the masked bit is 0x0800 instead.
func TestPPUBusVerticalMirroring(t *testing.T) {
	b := newTestPPUBus(t, MirrorVertical)
	b.Write(0x2000, 0x33)
	b.Write(0x2400, 0x44)

	if got := b.Read(0x2000 ^ 0x0800); got != 0x33 {
		t.Fatalf("Read(0x2000^0x0800) = 0x%02x, want 0x33 (mirrors 0x2000)", got)
	}
	if got := b.Read(0x2400 ^ 0x0800); got != 0x44 {
		t.Fatalf("Read(0x2400^0x0800) = 0x%02x, want 0x44 (mirrors 0x2400)", got)
	}
	if got := b.Read(0x2400); got != 0x44 {
		t.Fatalf("Read(0x2400) = 0x%02x, want 0x44 (distinct from the 0x2000 bank)", got)
	}
}

// TestPPUBusNametableMirrorsAbove3000 checks that $3000-$3EFF mirrors
// $2000-$2EFF, independent of nametable mirroring mode.
func TestPPUBusNametableMirrorsAbove3000(t *testing.T) {
	b := newTestPPUBus(t, MirrorHorizontal)
	b.Write(0x2001, 0x55)
	if got := b.Read(0x3001); got != 0x55 {
		t.Fatalf("Read(0x3001) = 0x%02x, want 0x55 (mirror of 0x2001)", got)
	}
}
