package nes

import "github.com/golang/glog"

// Mirroring selects how the PPU bus folds its four logical nametables down
// into the 2 KiB of nametable VRAM.
type Mirroring uint8

const (
	MirrorHorizontal Mirroring = iota
	MirrorVertical
)

const (
	prgROMUnit = 0x4000 // 16 KiB
	chrROMUnit = 0x2000 // 8 KiB
	prgRAMSize = 0x2000 // 8 KiB
)

// Cartridge owns the three byte buffers that make up a game image plus its
// nametable-mirroring mode. ROM file parsing (iNES headers, mapper
// detection) happens outside the core; Cartridge is handed already-split,
// already-validated buffers by the loader.
//
// Grounded on jyane-jnes/nes/cartridge.go (buffer ownership, mirroring
// flag) and original_source/src/cartridge.hpp (the PRG-RAM window and the
// "PRG-ROM length must be a positive multiple of 0x4000" invariant).
type Cartridge struct {
	PRGROM []byte
	PRGRAM []byte
	CHRROM []byte

	Mirroring Mirroring
}

// NewCartridge validates size invariants and returns a cartridge. PRG-RAM
// defaults to 8 KiB when the caller passes nil, matching the "optional 8
// KiB PRG-RAM" contract in spec.md §6.
func NewCartridge(prgROM, chrROM, prgRAM []byte, mirroring Mirroring) *Cartridge {
	if len(prgROM) == 0 || len(prgROM)%prgROMUnit != 0 {
		fatalf("cartridge: PRG-ROM length %d is not a positive multiple of 0x4000", len(prgROM))
	}
	if len(chrROM)%chrROMUnit != 0 {
		fatalf("cartridge: CHR-ROM length %d is not a multiple of 0x2000", len(chrROM))
	}
	if prgRAM == nil {
		prgRAM = make([]byte, prgRAMSize)
	}
	glog.V(1).Infof("cartridge: %d KiB PRG-ROM, %d KiB CHR-ROM, mirroring=%d", len(prgROM)/1024, len(chrROM)/1024, mirroring)
	return &Cartridge{PRGROM: prgROM, PRGRAM: prgRAM, CHRROM: chrROM, Mirroring: mirroring}
}

// readCPU and writeCPU implement the mapper-0 (NROM) CPU-side address
// decode shared by every mapper in scope: [0x6000,0x8000) is PRG-RAM
// modulo its length, [0x8000,0x10000) is PRG-ROM modulo its length.
func (c *Cartridge) readCPU(address uint16) byte {
	if address < 0x8000 {
		return c.PRGRAM[int(address-0x6000)%len(c.PRGRAM)]
	}
	return c.PRGROM[int(address-0x8000)%len(c.PRGROM)]
}

func (c *Cartridge) writeCPU(address uint16, value byte) {
	if address < 0x8000 {
		c.PRGRAM[int(address-0x6000)%len(c.PRGRAM)] = value
		return
	}
	// NROM has no bank-select registers; PRG-ROM is read-only.
}

// readCHR returns a CHR-ROM byte for a 13-bit pattern-table address.
func (c *Cartridge) readCHR(address uint16) byte {
	return c.CHRROM[int(address)%len(c.CHRROM)]
}
