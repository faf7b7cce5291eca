package amiga

import m68k "github.com/user-none/go-chip-m68k"

// CopperInstr is a decoded Copper instruction, one of MOVE/WAIT/SKIP
// (spec §4.E).
type CopperInstr struct {
	IsWait     bool
	IsSkip     bool
	RegOffset  uint32 // MOVE target
	Immediate  uint16 // MOVE value
	WaitV      int    // WAIT/SKIP target beam position
	WaitH      int
	VMask      int // WAIT/SKIP comparison masks
	HMask      int
	BlitterFF  bool // WAIT also waits for blitter-finished flag
}

// allowedRegs gates which chipset registers a Copper MOVE may target.
// MOVE to any other register is silently ignored (spec §4.E failure mode),
// optionally recorded when DebugTrace is set.
type allowedRegs func(offset uint32) bool

// Copper is Agnus's embedded micro-sequencer (spec §4.E). It executes
// against the beam position it is handed each DMA slot; it does not own
// the beam.
type Copper struct {
	mem   *MemoryMap
	beam  *Beam
	allow allowedRegs

	list1, list2 uint32
	pc           uint32
	useList2     bool

	waiting  bool
	waitV    int
	waitH    int
	vMask    int
	hMask    int

	DebugTrace bool
	IllegalMoves []uint32 // recorded RegOffsets rejected, only if DebugTrace

	// PokeReg fires when a MOVE targets an allowed register.
	PokeReg func(offset uint32, val uint16)
}

// NewCopper creates a Copper bound to mem/beam. allow decides which
// registers a MOVE may target; a nil allow permits every register.
func NewCopper(mem *MemoryMap, beam *Beam, allow allowedRegs) *Copper {
	return &Copper{mem: mem, beam: beam, allow: allow}
}

// Strobe selects which of the two pointer registers COPJMP restarts from.
func (c *Copper) Strobe(useList2 bool) {
	c.useList2 = useList2
	if useList2 {
		c.pc = c.list2
	} else {
		c.pc = c.list1
	}
	c.waiting = false
}

// SetListPointer sets COP1LC/COP2LC.
func (c *Copper) SetListPointer(list2 bool, addr uint32) {
	if list2 {
		c.list2 = addr
	} else {
		c.list1 = addr
	}
}

func (c *Copper) fetchWord() uint16 {
	if c.mem == nil {
		return 0
	}
	hi := uint16(readSized(c.mem.chipRAM, c.pc, m68k.Byte))
	lo := uint16(readSized(c.mem.chipRAM, c.pc+1, m68k.Byte))
	c.pc += 2
	return hi<<8 | lo
}

// DMASlot is called by Agnus when a color-clock is allocated to the
// Copper channel. It executes at most one instruction step: if waiting, it
// checks whether the beam has reached the target; otherwise it fetches and
// executes the next instruction.
func (c *Copper) DMASlot(v, h int) {
	if c.waiting {
		if beamAtLeast(v, h, c.waitV, c.waitH, c.vMask, c.hMask) {
			c.waiting = false
		} else {
			return
		}
	}

	first := c.fetchWord()
	second := c.fetchWord()

	if first&1 == 0 {
		// MOVE: first word is the register offset (bit0=0), second is data.
		offset := uint32(first) &^ 1
		if c.allow == nil || c.allow(offset) {
			if c.PokeReg != nil {
				c.PokeReg(offset, second)
			}
		} else if c.DebugTrace {
			c.IllegalMoves = append(c.IllegalMoves, offset)
		}
		return
	}

	// WAIT or SKIP: first/second encode target VP/HP and masks the same
	// way real Copper WAIT/SKIP words do.
	targetV := int((first >> 8) & 0xFF)
	targetH := int(first & 0xFE)
	vMask := int((second >> 8) & 0x7F)
	hMask := int(second & 0xFE)
	isSkip := second&1 != 0

	if isSkip {
		if beamAtLeast(v, h, targetV, targetH, vMask, hMask) {
			// SKIP: drop the next instruction word pair unexecuted.
			c.fetchWord()
			c.fetchWord()
		}
		return
	}

	// WAIT: a target strictly in the past dispatches immediately (spec
	// §4.E failure mode).
	if beamAtLeast(v, h, targetV, targetH, vMask, hMask) {
		return
	}
	c.waiting = true
	c.waitV, c.waitH, c.vMask, c.hMask = targetV, targetH, vMask, hMask
}

// beamAtLeast reports whether (v,h) is >= (targetV,targetH) under the
// given comparison masks, matching real Copper WAIT semantics: only the
// masked bits of v/h participate in the comparison, and a later line
// satisfies the wait whatever its h.
func beamAtLeast(v, h, targetV, targetH, vMask, hMask int) bool {
	if mv, tv := v&vMask, targetV&vMask; mv != tv {
		return mv > tv
	}
	return (h & hMask) >= (targetH & hMask)
}
