package nes

import "testing"

func newTestPPU(t *testing.T) *PPU {
	t.Helper()
	cart := NewCartridge(make([]byte, prgROMUnit), make([]byte, chrROMUnit), nil, MirrorHorizontal)
	bus := NewPPUBus(NewRAM(), cart)
	return NewPPU(bus)
}

// TestPPURenderPixelBackground checks that a fully-loaded background
// shift-register pair and a known palette entry land in the frame buffer
// at the pixel renderPixel is currently pointed at.
func TestPPURenderPixelBackground(t *testing.T) {
	p := newTestPPU(t)
	p.Mask.ShowBackground = true
	p.backgroundPattern.Upper = 0x8000
	p.backgroundPattern.Lower = 0x8000 // bgBits = 0b11 = 3
	p.Bus.Palette[3] = 0x16

	p.Scanline = 0
	p.Dot = 1
	p.currentPixel = 0
	p.renderPixel()

	if got := p.FrameBuffer[0]; got != 0x16 {
		t.Fatalf("FrameBuffer[0] = 0x%02x, want 0x16", got)
	}
}

// TestPPURenderPixelBackgroundDisabled checks that renderPixel leaves the
// backdrop color (palette index 0) when background rendering is off.
func TestPPURenderPixelBackgroundDisabled(t *testing.T) {
	p := newTestPPU(t)
	p.Mask.ShowBackground = false
	p.backgroundPattern.Upper = 0x8000
	p.backgroundPattern.Lower = 0x8000
	p.Bus.Palette[0] = 0x0f
	p.Bus.Palette[3] = 0x16

	p.Scanline = 0
	p.Dot = 1
	p.renderPixel()

	if got := p.FrameBuffer[0]; got != 0x0f {
		t.Fatalf("FrameBuffer[0] = 0x%02x, want backdrop 0x0f", got)
	}
}

// TestPPUSpriteZeroHit checks that an opaque sprite-zero pixel overlapping
// an opaque background pixel sets the sprite-zero-hit status flag, and
// that it does not fire when the background pixel is transparent.
func TestPPUSpriteZeroHit(t *testing.T) {
	p := newTestPPU(t)
	p.Mask.ShowBackground = true
	p.Mask.ShowSprites = true
	p.backgroundPattern.Upper = 0x8000
	p.backgroundPattern.Lower = 0x8000

	p.slots[0].IsSpriteZero = true
	p.slots[0].XCounter = 0
	p.slots[0].Pattern.Upper = 0x80
	p.slots[0].Pattern.Lower = 0x80

	p.Scanline = 0
	p.Dot = 10
	p.renderPixel()

	if !p.Status.SpriteZeroHit {
		t.Fatalf("sprite-zero hit not set for overlapping opaque pixels")
	}
}

func TestPPUSpriteZeroHitRequiresOpaqueBackground(t *testing.T) {
	p := newTestPPU(t)
	p.Mask.ShowBackground = true
	p.Mask.ShowSprites = true
	// backgroundPattern left zeroed: background is transparent everywhere.

	p.slots[0].IsSpriteZero = true
	p.slots[0].XCounter = 0
	p.slots[0].Pattern.Upper = 0x80
	p.slots[0].Pattern.Lower = 0x80

	p.Scanline = 0
	p.Dot = 10
	p.renderPixel()

	if p.Status.SpriteZeroHit {
		t.Fatalf("sprite-zero hit set despite transparent background")
	}
}

// TestPPUEvaluateSpritesOverflow checks that more than 8 sprites on a
// scanline set the overflow flag and only the first 8 land in secondary OAM.
func TestPPUEvaluateSpritesOverflow(t *testing.T) {
	p := newTestPPU(t)
	for i := range p.OAM {
		p.OAM[i] = SpriteInfo{Y: 0, TileIndex: 0, Attributes: 0, X: uint8(i)}
	}

	p.Scanline = 0
	p.Dot = 1
	p.evaluateSprites()
	p.Dot = 65
	p.evaluateSprites()

	if !p.Status.SpriteOverflow {
		t.Fatalf("sprite overflow not set with 64 sprites on one scanline")
	}
	if p.secondaryOAMCount != 8 {
		t.Fatalf("secondaryOAMCount = %d, want 8", p.secondaryOAMCount)
	}
}

// TestPPUVBlankSetsNMIWhenEnabled checks that entering vblank (scanline
// 241, dot 1) raises NMI only when PPUCTRL's NMI-enable bit is set.
func TestPPUVBlankSetsNMIWhenEnabled(t *testing.T) {
	p := newTestPPU(t)
	p.Ctrl.GenerateVBlankNMI = true
	p.Scanline = 241
	p.Dot = 1
	p.Step()

	if !p.NMI {
		t.Fatalf("NMI not raised entering vblank with NMI enabled")
	}
	if !p.FrameComplete {
		t.Fatalf("FrameComplete not set entering vblank")
	}
}
