package amiga

// Chipset register offsets within $DFF000-$DFF1FF, named after their
// real hardware mnemonics. Only the subset this emulator's components
// implement is listed; unlisted offsets read as the floating-bus pattern
// and drop writes (spec §4.B).
const (
	regDMACONR = 0x002
	regVPOSR   = 0x004
	regVHPOSR  = 0x006

	regDSKSYNC = 0x07E
	regCOP1LCH = 0x080
	regCOP1LCL = 0x082
	regCOP2LCH = 0x084
	regCOP2LCL = 0x086
	regCOPJMP1 = 0x088
	regCOPJMP2 = 0x08A
	regDIWSTRT = 0x08E
	regDIWSTOP = 0x090
	regDMACON  = 0x096
	regINTENA  = 0x09A
	regINTREQ  = 0x09C

	regBLTCON0 = 0x040
	regBLTCON1 = 0x042
	regBLTAFWM = 0x044
	regBLTALWM = 0x046
	regBLTCPTH = 0x048
	regBLTCPTL = 0x04A
	regBLTBPTH = 0x04C
	regBLTBPTL = 0x04E
	regBLTAPTH = 0x050
	regBLTAPTL = 0x052
	regBLTDPTH = 0x054
	regBLTDPTL = 0x056
	regBLTSIZE = 0x058
	regBLTCMOD = 0x060
	regBLTBMOD = 0x062
	regBLTAMOD = 0x064
	regBLTDMOD = 0x066

	regBPL1PTH = 0x0E0
	regBPL6PTL = 0x0F6
	regBPLCON0 = 0x100
	regBPLCON1 = 0x102
	regBPL1MOD = 0x108
	regBPL2MOD = 0x10A

	regSPR0PTH = 0x120
	regSPR7PTL = regSPR0PTH + 8*4 - 2

	regAUD0LCH = 0x0A0
	regAUD1LCH = 0x0B0
	regAUD2LCH = 0x0C0
	regAUD3LCH = 0x0D0

	regCOLOR00 = 0x180
)

const dmaconBBUSY = 1 << 14

// ChipsetRegisters is the sole ChipsetTarget the memory map talks to; it
// fans register pokes/peeks out to Agnus, Copper, Blitter, Denise, and
// Paula, playing the role the teacher's IO port switch (emu/io.go) plays
// for the Genesis's Z80/PSG/controller ports.
type ChipsetRegisters struct {
	Agnus   *Agnus
	Copper  *Copper
	Blitter *Blitter
	Denise  *Denise
	Paula   *Paula
	IRQ     *IRQController

	audLC          [4]uint32 // latched high word of the pointer, per channel
	bltPtrHi       [4]uint32
	cop1Hi, cop2Hi uint32
	bplPtrHi       [6]uint32
	sprPtrHi       [8]uint32
	bplMod         [2]uint16
	diwstrt        uint16
	diwstop        uint16
}

// PokeReg implements ChipsetTarget.
func (c *ChipsetRegisters) PokeReg(offset uint32, val uint16) {
	switch offset {
	case regDMACON:
		c.pokeDMACON(val)
	case regINTENA:
		c.pokeINTENA(val)
	case regINTREQ:
		c.pokeINTREQ(val)
	case regCOP1LCH:
		c.cop1Hi = uint32(val) << 16
	case regCOP1LCL:
		if c.Copper != nil {
			c.Copper.SetListPointer(false, c.cop1Hi|uint32(val))
		}
	case regCOP2LCH:
		c.cop2Hi = uint32(val) << 16
	case regCOP2LCL:
		if c.Copper != nil {
			c.Copper.SetListPointer(true, c.cop2Hi|uint32(val))
		}
	case regCOPJMP1:
		if c.Copper != nil {
			c.Copper.Strobe(false)
		}
	case regCOPJMP2:
		if c.Copper != nil {
			c.Copper.Strobe(true)
		}
	case regDIWSTRT:
		c.diwstrt = val
		c.applyDIW()
	case regDIWSTOP:
		c.diwstop = val
		c.applyDIW()
	case regBPLCON0:
		c.pokeBPLCON0(val)
	case regBPLCON1:
		c.pokeBPLCON1(val)
	case regBPL1MOD:
		c.pokeBPLMOD(val, true)
	case regBPL2MOD:
		c.pokeBPLMOD(val, false)
	case regDSKSYNC:
		// The disk sync word is fixed at DiskController construction time;
		// this emulator does not support reprogramming it mid-session.
	case regBLTCON0:
		c.pokeBLTCON0(val)
	case regBLTCON1:
		c.pokeBLTCON1(val)
	case regBLTAFWM:
		if c.Blitter != nil {
			c.Blitter.SetWordMasks(val, c.Blitter.lastWordMask)
		}
	case regBLTALWM:
		if c.Blitter != nil {
			c.Blitter.SetWordMasks(c.Blitter.firstWordMask, val)
		}
	case regBLTSIZE:
		c.pokeBLTSIZE(val)
	case regBLTAMOD:
		if c.Blitter != nil {
			c.Blitter.SetModulo(ChanA, int16(val))
		}
	case regBLTBMOD:
		if c.Blitter != nil {
			c.Blitter.SetModulo(ChanB, int16(val))
		}
	case regBLTCMOD:
		if c.Blitter != nil {
			c.Blitter.SetModulo(ChanC, int16(val))
		}
	case regBLTDMOD:
		if c.Blitter != nil {
			c.Blitter.SetModulo(ChanD, int16(val))
		}
	default:
		c.pokePointerPair(offset, val)
		c.pokeAudio(offset, val)
		c.pokeColor(offset, val)
	}
}

// PeekReg implements ChipsetTarget. Most chipset registers are
// write-only on real hardware; only the handful of status registers are
// readable.
func (c *ChipsetRegisters) PeekReg(offset uint32) (uint16, bool) {
	switch offset {
	case regDMACONR:
		return c.readDMACONR(), true
	case regVPOSR:
		if c.Agnus != nil {
			v, _ := c.Agnus.Beam.Position()
			return uint16(v >> 8), true
		}
	case regVHPOSR:
		if c.Agnus != nil {
			v, h := c.Agnus.Beam.Position()
			return uint16(v<<8) | uint16(h), true
		}
	}
	return 0, false
}

func (c *ChipsetRegisters) readDMACONR() uint16 {
	var v uint16
	if c.Blitter != nil && c.Blitter.Busy {
		v |= dmaconBBUSY
	}
	return v
}

// pokeDMACON applies the DMACON set/clear-bit-15 convention: bit 15
// selects whether the mask bits below it set or clear the addressed
// channels' enable flags.
func (c *ChipsetRegisters) pokeDMACON(val uint16) {
	if c.Agnus == nil {
		return
	}
	set := val&0x8000 != 0
	apply := func(mask uint16, ch Channel) {
		if val&mask != 0 {
			c.Agnus.SetEnable(ch, set)
		}
	}
	apply(1<<0, ChanDisk)
	apply(1<<1, ChanAudio0)
	apply(1<<2, ChanAudio1)
	apply(1<<3, ChanAudio2)
	apply(1<<4, ChanAudio3)
	if val&(1<<5) != 0 {
		for s := 0; s < 8; s++ {
			c.Agnus.SetEnable(ChanSprite0+Channel(s), set)
		}
	}
	apply(1<<6, ChanBlitter)
	apply(1<<7, ChanCopper)
	apply(1<<8, ChanBitplane1)
}

func (c *ChipsetRegisters) pokeINTENA(val uint16) {
	if c.IRQ == nil {
		return
	}
	set := val&0x8000 != 0
	if val&(1<<14) != 0 {
		c.IRQ.SetMasterEnable(set)
	}
	for src := IRQSource(0); src < irqSourceCount; src++ {
		if val&(1<<uint(src)) != 0 {
			c.IRQ.SetEnable(src, set)
		}
	}
}

func (c *ChipsetRegisters) pokeINTREQ(val uint16) {
	if c.IRQ == nil {
		return
	}
	set := val&0x8000 != 0
	for src := IRQSource(0); src < irqSourceCount; src++ {
		if val&(1<<uint(src)) != 0 {
			if set {
				c.IRQ.Raise(src)
			} else {
				c.IRQ.Clear(src)
			}
		}
	}
}

func (c *ChipsetRegisters) applyDIW() {
	if c.Agnus == nil {
		return
	}
	hstrt := int(c.diwstrt & 0xFF)
	vstrt := int(c.diwstrt >> 8)
	hstop := int(c.diwstop&0xFF) + 0x100
	vstop := int(c.diwstop >> 8)
	if c.diwstop>>8 < 0x80 {
		vstop += 0x100
	}
	c.Agnus.SetDisplayWindow(hstrt, hstop, vstrt, vstop)
}

func (c *ChipsetRegisters) pokeBPLCON0(val uint16) {
	if c.Agnus != nil {
		c.Agnus.SetHires(val&0x8000 != 0)
		c.Agnus.SetBitplaneCount(int(val>>12) & 0x7)
	}
	if c.Denise != nil {
		c.Denise.SetHires(val&0x8000 != 0)
		c.Denise.SetPlaneCount(int(val>>12) & 0x7)
		c.Denise.SetHAM(val&0x0800 != 0)
		c.Denise.SetDualPlayfield(val&0x0400 != 0, val&0x0040 != 0)
	}
}

func (c *ChipsetRegisters) pokeBPLCON1(val uint16) {
	if c.Denise != nil {
		c.Denise.SetScroll(int(val&0xF), int((val>>4)&0xF))
	}
}

func (c *ChipsetRegisters) pokeBPLMOD(val uint16, odd bool) {
	if c.Agnus == nil {
		return
	}
	c.bplMod[boolIndex(odd)] = val
	c.Agnus.SetPlaneModulo(c.bplMod[0], c.bplMod[1])
}

func boolIndex(odd bool) int {
	if odd {
		return 0
	}
	return 1
}

func (c *ChipsetRegisters) pokeBLTCON0(val uint16) {
	if c.Blitter == nil {
		return
	}
	c.Blitter.SetMinterm(uint8(val))
	c.Blitter.SetShift(uint8(val>>12), c.Blitter.shiftB)
	c.Blitter.SetSourceEnable(ChanA, val&(1<<11) != 0)
	c.Blitter.SetSourceEnable(ChanC, val&(1<<9) != 0)
}

func (c *ChipsetRegisters) pokeBLTCON1(val uint16) {
	if c.Blitter == nil {
		return
	}
	c.Blitter.SetShift(c.Blitter.shiftA, uint8(val>>12))
	c.Blitter.SetSourceEnable(ChanB, val&(1<<10) != 0)
	c.Blitter.SetFillMode(val&(1<<3) != 0, val&(1<<2) != 0, val&(1<<0) != 0)
}

func (c *ChipsetRegisters) pokeBLTSIZE(val uint16) {
	if c.Blitter == nil {
		return
	}
	height := int(val >> 6)
	width := int(val & 0x3F)
	if width == 0 {
		width = 64
	}
	c.Blitter.SetSize(height, width)
}

// pokePointerPair handles the *PTH/*PTL register pairs for the bitplane,
// sprite, and blitter channel pointers, each split across two consecutive
// word registers.
func (c *ChipsetRegisters) pokePointerPair(offset uint32, val uint16) {
	switch {
	case offset >= regBPL1PTH && offset <= regBPL6PTL:
		plane := int(offset-regBPL1PTH) / 4
		hi := (offset-regBPL1PTH)%4 == 0
		if hi {
			c.bplPtrHi[plane] = uint32(val) << 16
		} else if c.Agnus != nil {
			c.Agnus.SetPlanePointer(plane, c.bplPtrHi[plane]|uint32(val))
		}
	case offset >= regSPR0PTH && offset <= regSPR7PTL:
		sprite := int(offset-regSPR0PTH) / 4
		hi := (offset-regSPR0PTH)%4 == 0
		if hi {
			c.sprPtrHi[sprite] = uint32(val) << 16
		} else if c.Agnus != nil {
			c.Agnus.SetSpritePointer(sprite, c.sprPtrHi[sprite]|uint32(val))
		}
	case offset >= regBLTCPTH && offset <= regBLTDPTL:
		ch, hi := blitterPointerChannel(offset)
		if hi {
			c.bltPtrHi[ch] = uint32(val) << 16
		} else if c.Blitter != nil {
			c.Blitter.SetPointer(ch, c.bltPtrHi[ch]|uint32(val))
		}
	}
}

func blitterPointerChannel(offset uint32) (BlitterChannel, bool) {
	switch offset {
	case regBLTCPTH:
		return ChanC, true
	case regBLTCPTL:
		return ChanC, false
	case regBLTBPTH:
		return ChanB, true
	case regBLTBPTL:
		return ChanB, false
	case regBLTAPTH:
		return ChanA, true
	case regBLTAPTL:
		return ChanA, false
	case regBLTDPTH:
		return ChanD, true
	case regBLTDPTL:
		return ChanD, false
	}
	return ChanA, false
}

func (c *ChipsetRegisters) pokeAudio(offset uint32, val uint16) {
	if c.Paula == nil {
		return
	}
	bases := [4]uint32{regAUD0LCH, regAUD1LCH, regAUD2LCH, regAUD3LCH}
	for ch, base := range bases {
		switch offset {
		case base:
			c.audLC[ch] = uint32(val) << 16
		case base + 2:
			c.Paula.Channels[ch].SetPointer(c.audLC[ch] | uint32(val))
		case base + 4:
			c.Paula.Channels[ch].SetLength(val)
		case base + 6:
			c.Paula.Channels[ch].SetPeriod(val)
		case base + 8:
			c.Paula.Channels[ch].SetVolume(uint8(val))
		}
	}
}

func (c *ChipsetRegisters) pokeColor(offset uint32, val uint16) {
	if c.Denise == nil || offset < regCOLOR00 || offset > regCOLOR00+31*2 {
		return
	}
	idx := int(offset-regCOLOR00) / 2
	c.Denise.SetColor(idx, RGB12{
		R: uint8(val>>8) & 0xF,
		G: uint8(val>>4) & 0xF,
		B: uint8(val) & 0xF,
	})
}
