package nes

// Bit-packed PPU register records. Each is a structured view over its
// byte form; callers never touch a raw integer directly.
//
// Grounded on original_source/src/ppu.hpp's ppu_control_register,
// ppu_status_register, ppu_mask_register, and vram_address_register.

type spriteHeight uint8

const (
	sprite8x8 spriteHeight = iota
	sprite8x16
)

// PPUCtrl is $2000, write-only.
type PPUCtrl struct {
	NametableBaseAddress           uint16
	VRAMAddressIncrement           uint8
	SpritePatternTableAddress      uint16
	BackgroundPatternTableAddress  uint16
	SpriteSize                    spriteHeight
	ExtMaster                     bool
	GenerateVBlankNMI             bool
}

func (c *PPUCtrl) Set(value byte) {
	c.NametableBaseAddress = 0x2000 + uint16(value&0x03)*0x0400
	if value&0x04 != 0 {
		c.VRAMAddressIncrement = 32
	} else {
		c.VRAMAddressIncrement = 1
	}
	if value&0x08 != 0 {
		c.SpritePatternTableAddress = 0x1000
	} else {
		c.SpritePatternTableAddress = 0x0000
	}
	if value&0x10 != 0 {
		c.BackgroundPatternTableAddress = 0x1000
	} else {
		c.BackgroundPatternTableAddress = 0x0000
	}
	if value&0x20 != 0 {
		c.SpriteSize = sprite8x16
	} else {
		c.SpriteSize = sprite8x8
	}
	c.ExtMaster = value&0x40 != 0
	c.GenerateVBlankNMI = value&0x80 != 0
}

// PPUMask is $2001, write-only.
type PPUMask struct {
	Greyscale              bool
	ShowBackgroundOnLeft   bool
	ShowSpritesOnLeft      bool
	ShowBackground         bool
	ShowSprites            bool
	EmphasizeRed           bool
	EmphasizeGreen         bool
	EmphasizeBlue          bool
}

func (m *PPUMask) Set(value byte) {
	m.Greyscale = value&0x01 != 0
	m.ShowBackgroundOnLeft = value&0x02 != 0
	m.ShowSpritesOnLeft = value&0x04 != 0
	m.ShowBackground = value&0x08 != 0
	m.ShowSprites = value&0x10 != 0
	m.EmphasizeRed = value&0x20 != 0
	m.EmphasizeGreen = value&0x40 != 0
	m.EmphasizeBlue = value&0x80 != 0
}

func (m *PPUMask) RenderingEnabled() bool {
	return m.ShowBackground || m.ShowSprites
}

// PPUStatus is $2002, read-only from the CPU's perspective.
type PPUStatus struct {
	SpriteOverflow       bool
	SpriteZeroHit        bool
	VerticalBlankStarted bool
}

func (s PPUStatus) Byte() byte {
	var v byte
	if s.SpriteOverflow {
		v |= 0x20
	}
	if s.SpriteZeroHit {
		v |= 0x40
	}
	if s.VerticalBlankStarted {
		v |= 0x80
	}
	return v
}

// VRAMAddress is the 15-bit "v"/"t" loopy register: {fine_y:3,
// nametable:2, coarse_y:5, coarse_x:5}.
type VRAMAddress struct {
	CoarseX        uint8
	CoarseY        uint8
	NametableSelect uint8
	FineY          uint8
}

func (v *VRAMAddress) Set(value uint16) {
	v.CoarseX = uint8(value & 0x1f)
	v.CoarseY = uint8((value >> 5) & 0x1f)
	v.NametableSelect = uint8((value >> 10) & 0x03)
	v.FineY = uint8((value >> 12) & 0x07)
}

func (v VRAMAddress) Word() uint16 {
	return (uint16(v.FineY) << 12) | (uint16(v.NametableSelect) << 10) |
		(uint16(v.CoarseY) << 5) | uint16(v.CoarseX)
}

func (v *VRAMAddress) Add(increment uint16) {
	v.Set(v.Word() + increment)
}

// SpriteAttributes is the third byte of an OAM entry.
type SpriteAttributes uint8

func (a SpriteAttributes) Palette() uint8          { return uint8(a) & 0x03 }
func (a SpriteAttributes) HasPriority() bool        { return uint8(a)&0x20 == 0 }
func (a SpriteAttributes) FlipHorizontally() bool    { return uint8(a)&0x40 != 0 }
func (a SpriteAttributes) FlipVertically() bool      { return uint8(a)&0x80 != 0 }

// SpriteInfo is one 4-byte primary/secondary OAM entry.
type SpriteInfo struct {
	Y          uint8
	TileIndex  uint8
	Attributes SpriteAttributes
	X          uint8
}

// SpriteSlot is one of the eight per-scanline sprite-rendering pipelines.
type SpriteSlot struct {
	Pattern      ShiftRegister8
	Attributes   SpriteAttributes
	XCounter     uint8
	IsSpriteZero bool
}
