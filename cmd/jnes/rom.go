package main

import (
	"fmt"

	"github.com/nullbyte80/famicore/nes"
)

const (
	inesMagic0 = 'N'
	inesMagic1 = 'E'
	inesMagic2 = 'S'
	inesMagic3 = 0x1a

	headerSize  = 16
	prgROMUnit  = 0x4000
	chrROMUnit  = 0x2000
	trainerSize = 512
)

// loadCartridge parses an iNES (.nes) file header and builds a
// nes.Cartridge. This lives outside the core per spec.md §6 ("ROM file
// loading, header parsing" are external-collaborator concerns); only
// mapper 0 (NROM) is supported, matching the core's scope.
//
// Grounded on jyane-jnes/nes/cartridge.go's original NewCartridge, which
// did this parsing inside the core; here it's pulled up into the host so
// the core package never touches file formats.
func loadCartridge(data []byte) (*nes.Cartridge, error) {
	if len(data) < headerSize {
		return nil, fmt.Errorf("rom: file too short to contain an iNES header")
	}
	if data[0] != inesMagic0 || data[1] != inesMagic1 || data[2] != inesMagic2 || data[3] != inesMagic3 {
		return nil, fmt.Errorf("rom: missing iNES magic bytes")
	}

	prgROMBanks := int(data[4])
	chrROMBanks := int(data[5])
	flags6 := data[6]
	flags7 := data[7]

	mapperID := (flags7 & 0xf0) | (flags6 >> 4)
	if mapperID != 0 {
		return nil, fmt.Errorf("rom: mapper %d is unsupported; only mapper 0 (NROM) is implemented", mapperID)
	}

	mirroring := nes.MirrorHorizontal
	if flags6&0x01 != 0 {
		mirroring = nes.MirrorVertical
	}

	offset := headerSize
	if flags6&0x04 != 0 {
		offset += trainerSize
	}

	prgSize := prgROMBanks * prgROMUnit
	if offset+prgSize > len(data) {
		return nil, fmt.Errorf("rom: PRG-ROM extends past end of file")
	}
	prgROM := data[offset : offset+prgSize]
	offset += prgSize

	chrSize := chrROMBanks * chrROMUnit
	var chrROM []byte
	if chrSize > 0 {
		if offset+chrSize > len(data) {
			return nil, fmt.Errorf("rom: CHR-ROM extends past end of file")
		}
		chrROM = data[offset : offset+chrSize]
	}

	return nes.NewCartridge(prgROM, chrROM, nil, mirroring), nil
}
