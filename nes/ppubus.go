package nes

// PPUBus routes the PPU's 14-bit address space to cartridge CHR data and
// to the 2 KiB of nametable VRAM, folding the four logical nametables
// down via the cartridge's mirroring mode, plus the 32-byte palette RAM.
//
// Grounded on jyane-jnes/nes/ppubus.go (overall routing shape) and
// original_source/src/memory.cpp's ppu_memory_map::read/write (per-mode
// mirroring mask) / the nesdev PPU memory map.
type PPUBus struct {
	VRAM      *RAM
	Cartridge *Cartridge
	Palette   [32]byte
}

func NewPPUBus(vram *RAM, cartridge *Cartridge) *PPUBus {
	return &PPUBus{VRAM: vram, Cartridge: cartridge}
}

// mirrorAddress folds a nametable address ($2000-$2FFF) down to a 0-2047
// index into the 2 KiB of VRAM, per spec.md §4.5: horizontal mirroring
// masks out bit 0x0400, vertical masks out bit 0x0800 ($2000≡$2400 and
// $2800≡$2C00 under horizontal; $2000≡$2800 and $2400≡$2C00 under
// vertical). Vertical's surviving bits (0x0000-0x03ff intra-table offset
// plus bit 0x0400) already sit contiguously below 2048 and need no
// further adjustment. Horizontal's surviving bank-select bit (0x0800)
// does not: masking out bit 0x0400 alone leaves two live bands,
// 0x0000-0x03ff and 0x0800-0x0bff, that collide if reduced into 2048
// bytes by a plain subtract-and-mod (as jyane-jnes's and this port's
// first revision did) because 0x0800 is itself an exact multiple of the
// 2048-byte VRAM size. The surviving bit is shifted down into the gap
// bit 0x0400 left behind instead, producing a dense two-bank index.
func (b *PPUBus) mirrorAddress(address uint16) uint16 {
	offset := (address - 0x2000) & 0x0fff
	switch b.Cartridge.Mirroring {
	case MirrorHorizontal:
		return (offset & 0x03ff) | ((offset & 0x0800) >> 1)
	default: // MirrorVertical
		return offset & 0x07ff
	}
}

func (b *PPUBus) mirrorPaletteAddress(address uint16) uint16 {
	address &= 0x1f
	// $3F10/$3F14/$3F18/$3F1C mirror the corresponding backdrop entries.
	if address >= 0x10 && address%4 == 0 {
		address -= 0x10
	}
	return address
}

func (b *PPUBus) Read(address uint16) byte {
	address &= 0x3fff
	switch {
	case address < 0x2000:
		return b.Cartridge.readCHR(address)
	case address < 0x3000:
		return b.VRAM.read(b.mirrorAddress(address))
	case address < 0x3f00:
		return b.VRAM.read(b.mirrorAddress(address - 0x1000))
	default:
		return b.Palette[b.mirrorPaletteAddress(address)]
	}
}

func (b *PPUBus) Write(address uint16, value byte) {
	address &= 0x3fff
	switch {
	case address < 0x2000:
		// NROM carries CHR-ROM only; this port doesn't implement CHR-RAM.
		fatalf("ppubus: write to pattern tables unsupported (no CHR-RAM): address=0x%04x", address)
	case address < 0x3000:
		b.VRAM.write(b.mirrorAddress(address), value)
	case address < 0x3f00:
		b.VRAM.write(b.mirrorAddress(address-0x1000), value)
	default:
		b.Palette[b.mirrorPaletteAddress(address)] = value
	}
}
