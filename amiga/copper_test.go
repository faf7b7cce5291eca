package amiga

import "testing"

func TestCopper_MoveDispatchesPokeReg(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 4096), nil, nil, nil)
	beam := NewBeam(FormatPAL, NewWheel())
	c := NewCopper(mem, beam, nil)

	var gotOffset uint32
	var gotVal uint16
	c.PokeReg = func(offset uint32, val uint16) { gotOffset, gotVal = offset, val }

	writeCopperWord(mem, 0, 0x0180) // MOVE target COLOR00
	writeCopperWord(mem, 2, 0x0F00) // value

	c.DMASlot(0, 0)

	if gotOffset != 0x0180 || gotVal != 0x0F00 {
		t.Fatalf("got offset=%#x val=%#x, want offset=0x180 val=0xF00", gotOffset, gotVal)
	}
}

func TestCopper_MoveToDisallowedRegisterIsDropped(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 4096), nil, nil, nil)
	beam := NewBeam(FormatPAL, NewWheel())
	c := NewCopper(mem, beam, func(offset uint32) bool { return offset != 0x0180 })
	c.DebugTrace = true

	called := false
	c.PokeReg = func(offset uint32, val uint16) { called = true }

	writeCopperWord(mem, 0, 0x0180)
	writeCopperWord(mem, 2, 0x1234)
	c.DMASlot(0, 0)

	if called {
		t.Fatal("expected PokeReg not called for a disallowed target")
	}
	if len(c.IllegalMoves) != 1 || c.IllegalMoves[0] != 0x0180 {
		t.Fatalf("got IllegalMoves=%v, want [0x180]", c.IllegalMoves)
	}
}

func TestCopper_WaitBlocksUntilBeamReachesTarget(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 4096), nil, nil, nil)
	beam := NewBeam(FormatPAL, NewWheel())
	c := NewCopper(mem, beam, nil)

	// WAIT for v=10,h=0, no skip bit, full vertical mask, horizontal mask 0.
	writeCopperWord(mem, 0, uint16(10)<<8|0x01)
	writeCopperWord(mem, 2, uint16(0x7F)<<8|0x00)

	called := false
	c.PokeReg = func(offset uint32, val uint16) { called = true }

	c.DMASlot(5, 0)
	if !c.waiting {
		t.Fatal("expected Copper to be waiting before the target line")
	}

	// The instruction following the WAIT, fetched and executed in the same
	// DMASlot call that clears the wait.
	writeCopperWord(mem, 4, 0x0180)
	writeCopperWord(mem, 6, 0x0001)

	c.DMASlot(10, 0)
	if c.waiting {
		t.Fatal("expected the wait to clear once the beam reaches the target")
	}
	if !called {
		t.Fatal("expected the instruction following the wait to execute")
	}
}

func TestCopper_SkipDropsNextInstructionWhenConditionMet(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 4096), nil, nil, nil)
	beam := NewBeam(FormatPAL, NewWheel())
	c := NewCopper(mem, beam, nil)

	// SKIP condition v>=0,h>=0 (always true), skip bit set.
	writeCopperWord(mem, 0, 0x0001)
	writeCopperWord(mem, 2, 0x0001)
	// The instruction that should be skipped.
	writeCopperWord(mem, 4, 0x0180)
	writeCopperWord(mem, 6, 0xFFFF)
	// The instruction after that, which should execute.
	writeCopperWord(mem, 8, 0x0182)
	writeCopperWord(mem, 10, 0x1111)

	var gotOffset uint32
	c.PokeReg = func(offset uint32, val uint16) { gotOffset = offset }

	c.DMASlot(0, 0) // executes the SKIP, drops the instruction at offset 4
	c.DMASlot(0, 0) // executes the instruction at offset 8

	if gotOffset != 0x182 {
		t.Fatalf("got offset %#x, want 0x182 (the skipped-over one dropped)", gotOffset)
	}
}

func writeCopperWord(mem *MemoryMap, addr uint32, val uint16) {
	mem.chipRAM[addr] = byte(val >> 8)
	mem.chipRAM[addr+1] = byte(val)
}
