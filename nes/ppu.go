package nes

// PPU is the scanline/dot-accurate picture processing unit: a background
// tile-fetch pipeline, an 8-slot sprite pipeline, and the CPU-visible
// register file, all driven one dot at a time by Step.
//
// Grounded on original_source/src/ppu.hpp/ppu.cpp for the register file,
// the background pipeline, and the v/t scroll-register update logic,
// replacing jyane-jnes/nes/ppu.go's simplified full-frame-at-once
// renderer. original_source declares evaluate_sprites/fetch_sprite_data
// but never defines or calls either (confirmed by inspection); sprite
// evaluation here is authored fresh from spec.md §4.9's textual
// description, since the spec requires it where the reference does not.
type PPU struct {
	Bus *PPUBus

	Ctrl   PPUCtrl
	Mask   PPUMask
	Status PPUStatus

	OAMAddr byte
	OAM     [64]SpriteInfo

	secondaryOAM      [8]SpriteInfo
	secondaryOAMCount int
	slots             [8]SpriteSlot

	V, T       VRAMAddress
	FineX      uint8
	firstWrite bool

	backgroundPattern      ShiftRegister16
	backgroundPalette      ShiftRegister8
	backgroundPaletteLatch uint8

	nametableEntry byte
	attributeEntry byte
	lowBGPattern   byte
	highBGPattern  byte

	Scanline uint16
	Dot      uint16
	OddFrame bool

	internalDataLatch  byte
	internalReadBuffer byte

	FrameBuffer   [256 * 240]byte
	currentPixel  int
	FrameComplete bool

	NMI bool

	// CPUDataBus is the byte the CPU's register-window reads/writes ride
	// on. A write stages its value here immediately; a read's result
	// isn't placed here until handleRegisterAccess resolves it on the
	// next Step. Grounded on ppu.hpp's cpu_data_bus.
	CPUDataBus byte

	registerAccessAddress uint16
	registerAccessPending bool
	registerAccessDir     DataDir
}

func NewPPU(bus *PPUBus) *PPU {
	p := &PPU{Bus: bus, firstWrite: true}
	for i := range p.OAM {
		p.OAM[i] = SpriteInfo{Y: 0xff, TileIndex: 0xff, Attributes: 0xff, X: 0xff}
	}
	return p
}

func (p *PPU) renderingEnabled() bool    { return p.Mask.RenderingEnabled() }
func (p *PPU) inVisibleScanline() bool   { return p.Scanline < 240 }
func (p *PPU) inPreRenderScanline() bool { return p.Scanline == 261 }

// StageRegisterRead asserts a CPU read onto the register-select lines,
// to be resolved by handleRegisterAccess the next time Step runs.
// Grounded on memory.hpp's cpu_memory_map::set_address, which stages
// every address in this window as a read regardless of the CPU's
// actual direction; CPUBus.Write immediately restages it as a write
// when that turns out to be the real direction, matching
// set_address/write's sequencing in the reference.
func (p *PPU) StageRegisterRead(address uint16) {
	p.registerAccessAddress = address
	p.registerAccessDir = Read
	p.registerAccessPending = true
}

// StageRegisterWrite asserts a CPU write and its value onto the
// register-select lines, to be resolved by handleRegisterAccess the
// next time Step runs. Grounded on memory.hpp's cpu_memory_map::write.
func (p *PPU) StageRegisterWrite(address uint16, value byte) {
	p.registerAccessAddress = address
	p.CPUDataBus = value
	p.registerAccessDir = Write
	p.registerAccessPending = true
}

// handleRegisterAccess resolves a staged CPU register access, if any,
// clearing it so it fires exactly once. Grounded on ppu.cpp's
// handle_register_access, called at the top of every Step the way the
// reference calls it at the top of step().
func (p *PPU) handleRegisterAccess() {
	if !p.registerAccessPending {
		return
	}
	p.registerAccessPending = false

	switch p.registerAccessDir {
	case Read:
		p.CPUDataBus = p.ReadRegister(p.registerAccessAddress)
	case Write:
		p.WriteRegister(p.registerAccessAddress, p.CPUDataBus)
	}
}

// ReadRegister services a CPU read of $2000-$3FFF (mirrored every 8
// bytes). Grounded on ppu.cpp's handle_register_access, read branch.
func (p *PPU) ReadRegister(address uint16) byte {
	switch address % 8 {
	case 2: // PPUSTATUS
		p.firstWrite = true
		value := p.Status.Byte()
		p.internalDataLatch = value
		p.Status.VerticalBlankStarted = false
		return value
	case 4: // OAMDATA
		value := p.oamByte(p.OAMAddr)
		p.internalDataLatch = value
		return value
	case 7: // PPUDATA
		var value byte
		if p.V.Word() < 0x3f00 {
			value = p.internalReadBuffer
		} else {
			value = p.Bus.Read(p.V.Word())
		}
		p.internalReadBuffer = p.Bus.Read(p.V.Word())
		p.V.Add(uint16(p.Ctrl.VRAMAddressIncrement))
		return value
	default: // write-only registers read back the latch
		return p.internalDataLatch
	}
}

// WriteRegister services a CPU write to $2000-$3FFF. Grounded on
// ppu.cpp's handle_register_access, write branch.
func (p *PPU) WriteRegister(address uint16, value byte) {
	p.internalDataLatch = value

	switch address % 8 {
	case 0: // PPUCTRL
		p.T.NametableSelect = value & 0x03
		p.Ctrl.Set(value)
	case 1: // PPUMASK
		p.Mask.Set(value)
	case 2: // PPUSTATUS is read-only
	case 3: // OAMADDR
		p.OAMAddr = value
	case 4: // OAMDATA
		p.setOAMByte(p.OAMAddr, value)
		p.OAMAddr++
	case 5: // PPUSCROLL
		if p.firstWrite {
			p.T.CoarseX = (value >> 3) & 0x1f
			p.FineX = value & 0x07
		} else {
			p.T.CoarseY = (value >> 3) & 0x1f
			p.T.FineY = value & 0x07
		}
		p.firstWrite = !p.firstWrite
	case 6: // PPUADDR
		if p.firstWrite {
			p.T.FineY = (value >> 4) & 0x03
			p.T.NametableSelect = (value >> 2) & 0x03
			p.T.CoarseY = (p.T.CoarseY & 0x07) | ((value << 3) & 0x18)
		} else {
			p.T.CoarseX = value & 0x1f
			p.T.CoarseY = (p.T.CoarseY & 0xf8) | ((value >> 5) & 0x07)
			p.V = p.T
		}
		p.firstWrite = !p.firstWrite
	case 7: // PPUDATA
		p.Bus.Write(p.V.Word(), value)
		p.V.Add(uint16(p.Ctrl.VRAMAddressIncrement))
	}
}

func (p *PPU) oamByte(index byte) byte {
	entry := p.OAM[index/4]
	switch index % 4 {
	case 0:
		return entry.Y
	case 1:
		return entry.TileIndex
	case 2:
		return byte(entry.Attributes)
	default:
		return entry.X
	}
}

func (p *PPU) setOAMByte(index, value byte) {
	entry := &p.OAM[index/4]
	switch index % 4 {
	case 0:
		entry.Y = value
	case 1:
		entry.TileIndex = value
	case 2:
		entry.Attributes = SpriteAttributes(value)
	default:
		entry.X = value
	}
}

// WriteOAMDMA installs the OAM-DMA payload directly, one byte per primary
// OAM field, starting at OAMAddr as nesdev documents.
func (p *PPU) WriteOAMDMA(data [256]byte) {
	for i, b := range data {
		p.setOAMByte(p.OAMAddr+byte(i), b)
	}
}

func (p *PPU) spriteHeight() int {
	if p.Ctrl.SpriteSize == sprite8x16 {
		return 16
	}
	return 8
}

// evaluateSprites runs once per visible scanline at dot 1 (clear) and dot
// 65 (scan), per spec.md §4.9.
func (p *PPU) evaluateSprites() {
	if p.Dot == 1 {
		for i := range p.secondaryOAM {
			p.secondaryOAM[i] = SpriteInfo{Y: 0xff, TileIndex: 0xff, Attributes: 0xff, X: 0xff}
			p.slots[i].IsSpriteZero = false
		}
		p.secondaryOAMCount = 0
		return
	}
	if p.Dot != 65 {
		return
	}

	target := int(p.Scanline) + 1
	height := p.spriteHeight()
	count := 0
	for i := range p.OAM {
		sprite := p.OAM[i]
		if target >= int(sprite.Y) && target < int(sprite.Y)+height {
			if count < 8 {
				p.secondaryOAM[count] = sprite
				if i == 0 {
					p.slots[count].IsSpriteZero = true
				}
				count++
			} else {
				p.Status.SpriteOverflow = true
			}
		}
	}
	p.secondaryOAMCount = count
}

// fetchSpriteData loads the sprite pipeline's shift registers, attribute
// latches, and x-counters from secondary OAM across dots 257..320.
func (p *PPU) fetchSpriteData() {
	if p.Dot < 257 || p.Dot > 320 {
		return
	}
	if (p.Dot-257)%8 != 7 {
		return
	}
	slotIndex := int(p.Dot-257) / 8
	slot := &p.slots[slotIndex]

	if slotIndex >= p.secondaryOAMCount {
		slot.Attributes = 0
		slot.XCounter = 0xff
		slot.Pattern = ShiftRegister8{}
		return
	}

	sprite := p.secondaryOAM[slotIndex]
	row := uint16(p.Scanline) - uint16(sprite.Y)
	if sprite.Attributes.FlipVertically() {
		row = uint16(p.spriteHeight()-1) - row
	}

	var base uint16
	var tile uint16
	if p.Ctrl.SpriteSize == sprite8x16 {
		base = uint16(sprite.TileIndex&0x01) * 0x1000
		tile = uint16(sprite.TileIndex &^ 0x01)
		if row >= 8 {
			tile++
			row -= 8
		}
	} else {
		base = p.Ctrl.SpritePatternTableAddress
		tile = uint16(sprite.TileIndex)
	}

	address := base | (tile << 4) | row
	low := p.Bus.Read(address)
	high := p.Bus.Read(address | 0x08)
	if sprite.Attributes.FlipHorizontally() {
		low = reverseBits(low)
		high = reverseBits(high)
	}

	slot.Pattern.Reload(high, low)
	slot.Attributes = sprite.Attributes
	slot.XCounter = sprite.X
}

func reverseBits(b byte) byte {
	var r byte
	for i := 0; i < 8; i++ {
		r <<= 1
		r |= b & 0x01
		b >>= 1
	}
	return r
}

// stepSprites shifts the active sprite pipeline during visible dots, per
// spec.md §4.9's note: a slot's pattern shifts only once its x-counter is
// already zero, otherwise the counter decrements.
func (p *PPU) stepSprites() {
	if !p.inVisibleScanline() || p.Dot < 1 || p.Dot > 256 {
		return
	}
	for i := range p.slots {
		slot := &p.slots[i]
		if slot.XCounter > 0 {
			slot.XCounter--
		} else {
			slot.Pattern.Shift(0)
		}
	}
}

func (p *PPU) reloadShiftRegs() {
	if !p.inVisibleScanline() && !p.inPreRenderScanline() {
		return
	}
	if ((p.Dot > 8 && p.Dot < 258) || p.Dot > 320) && p.Dot%8 == 1 {
		p.backgroundPattern.Reload(p.highBGPattern, p.lowBGPattern)
		p.backgroundPaletteLatch = p.attributeEntry & 0x03
	}
}

func (p *PPU) renderPixel() {
	if !p.inVisibleScanline() || p.Dot == 0 || p.Dot > 256 {
		return
	}

	bgBits := p.backgroundPattern.At(p.FineX)
	bgPalette := p.backgroundPalette.At(p.FineX)
	bgOpaque := p.Mask.ShowBackground && bgBits != 0

	spriteOpaque := false
	var spriteBits, spritePalette uint8
	var spritePriority, spriteZero bool
	if p.Mask.ShowSprites {
		for i := range p.slots {
			slot := &p.slots[i]
			if slot.XCounter != 0 {
				continue
			}
			bits := slot.Pattern.At(0)
			if bits == 0 {
				continue
			}
			spriteOpaque = true
			spriteBits = bits
			spritePalette = slot.Attributes.Palette()
			spritePriority = slot.Attributes.HasPriority()
			spriteZero = slot.IsSpriteZero
			break
		}
	}

	if spriteZero && bgOpaque && spriteOpaque && p.Dot < 256 {
		p.Status.SpriteZeroHit = true
	}

	useSprite := spriteOpaque && (!bgOpaque || spritePriority)

	var paletteAddress uint16
	switch {
	case useSprite:
		paletteAddress = 0x10 | (uint16(spritePalette) << 2) | uint16(spriteBits)
	case bgOpaque:
		paletteAddress = (uint16(bgPalette) << 2) | uint16(bgBits)
	default:
		paletteAddress = 0
	}

	color := p.Bus.Palette[paletteAddress&0x1f]
	if p.currentPixel < len(p.FrameBuffer) {
		p.FrameBuffer[p.currentPixel] = color
	}
	p.currentPixel++
	if p.currentPixel >= len(p.FrameBuffer) {
		p.currentPixel = 0
	}
}

func (p *PPU) fetchBackgroundData() {
	if !(p.inVisibleScanline() || p.inPreRenderScanline()) {
		return
	}
	if p.Dot == 0 || (p.Dot > 256 && p.Dot < 321) {
		return
	}

	switch p.Dot % 8 {
	case 1:
		address := 0x2000 | uint16(p.V.CoarseX) | (uint16(p.V.CoarseY) << 5) | (uint16(p.V.NametableSelect) << 10)
		p.nametableEntry = p.Bus.Read(address)
	case 3:
		address := 0x23c0 | (uint16(p.V.NametableSelect) << 10) | ((uint16(p.V.CoarseY) / 4 << 3) & 0x38) | ((uint16(p.V.CoarseX) / 4) & 0x07)
		p.attributeEntry = p.Bus.Read(address)
		if (p.V.CoarseX/2)%2 != 0 {
			p.attributeEntry >>= 2
		}
		if (p.V.CoarseY/2)%2 != 0 {
			p.attributeEntry >>= 4
		}
	case 5:
		address := p.Ctrl.BackgroundPatternTableAddress | ((uint16(p.nametableEntry) << 4) & 0x0ff0) | uint16(p.V.FineY&0x07)
		p.lowBGPattern = p.Bus.Read(address)
	case 7:
		address := p.Ctrl.BackgroundPatternTableAddress | ((uint16(p.nametableEntry) << 4) & 0x0ff0) | uint16(p.V.FineY&0x07) | 0x08
		p.highBGPattern = p.Bus.Read(address)
	}
}

func (p *PPU) updateVRAMAddress() {
	if !(p.inVisibleScanline() || p.inPreRenderScanline()) {
		return
	}
	if p.Dot == 0 {
		return
	}

	switch {
	case (p.Dot < 256 || p.Dot > 320) && p.Dot%8 == 0:
		p.V.CoarseX++
		if p.V.CoarseX == 32 {
			p.V.CoarseX = 0
			p.V.NametableSelect ^= 0x01
		}
	case p.Dot == 256:
		p.V.FineY++
		if p.V.FineY == 8 {
			p.V.FineY = 0
			p.V.CoarseY++
			if p.V.CoarseY == 30 {
				p.V.CoarseY = 0
				p.V.NametableSelect ^= 0x02
			}
		}
	case p.Dot == 257:
		p.V.CoarseX = p.T.CoarseX
		p.V.NametableSelect = (p.V.NametableSelect & 0x02) | (p.T.NametableSelect & 0x01)
	}

	if p.inPreRenderScanline() && p.Dot >= 280 && p.Dot <= 304 {
		p.V.CoarseY = p.T.CoarseY
		p.V.FineY = p.T.FineY
		p.V.NametableSelect = (p.V.NametableSelect & 0x01) | (p.T.NametableSelect & 0x02)
	}
}

func (p *PPU) shiftBackgroundRegisters() {
	if !(p.inVisibleScanline() || p.inPreRenderScanline()) {
		return
	}
	if p.Dot > 0 && p.Dot < 337 {
		p.backgroundPattern.Shift(0)
		p.backgroundPalette.Shift(p.backgroundPaletteLatch)
	}
}

// Step advances the PPU by one dot. Grounded on ppu.cpp's step(), with
// sprite evaluation/fetch/shift inserted per spec.md §4.9.
func (p *PPU) Step() {
	p.handleRegisterAccess()

	if p.renderingEnabled() {
		p.reloadShiftRegs()
		p.renderPixel()
		p.fetchBackgroundData()
		if p.inVisibleScanline() {
			p.evaluateSprites()
			p.fetchSpriteData()
		}
		p.updateVRAMAddress()
	}

	p.shiftBackgroundRegisters()
	if p.renderingEnabled() && p.inVisibleScanline() {
		p.stepSprites()
	}

	if p.Scanline == 241 && p.Dot == 1 {
		p.Status.VerticalBlankStarted = true
		p.FrameComplete = true
	} else if p.Scanline == 261 && p.Dot == 1 {
		p.Status.VerticalBlankStarted = false
		p.Status.SpriteZeroHit = false
		p.Status.SpriteOverflow = false
		p.FrameComplete = false
	}

	p.NMI = p.Ctrl.GenerateVBlankNMI && p.Status.VerticalBlankStarted

	p.Dot++
	if p.Dot > 340 {
		p.Dot = 0
		p.Scanline++
		if p.Scanline > 261 {
			p.Scanline = 0
			p.OddFrame = !p.OddFrame
			if p.OddFrame && p.renderingEnabled() {
				// Skip the idle cycle on odd frames to keep the
				// PPU/CPU clock ratio exact across a frame.
				p.Dot = 1
			}
		}
	}
}
