package amiga

import (
	"testing"

	m68k "github.com/user-none/go-chip-m68k"
)

type mockChipset struct {
	pokes []struct {
		off uint32
		val uint16
	}
	peek uint16
	ok   bool
}

func (c *mockChipset) PokeReg(offset uint32, val uint16) {
	c.pokes = append(c.pokes, struct {
		off uint32
		val uint16
	}{offset, val})
}

func (c *mockChipset) PeekReg(offset uint32) (uint16, bool) { return c.peek, c.ok }

func TestMemoryMap_Decode(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 512*1024), make([]byte, 512*1024), make([]byte, 1024*1024), make([]byte, 256*1024))

	cases := []struct {
		addr uint32
		want MemRegion
	}{
		{0x000000, RegionChipRAM},
		{0x200000, RegionFastRAM},
		{0xC00000, RegionSlowRAM},
		{0xDFF000, RegionChipset},
		{0xDFF1FE, RegionChipset},
		{0xF80000, RegionROM},
		{0xA00000, RegionUnmapped},
	}
	for _, c := range cases {
		if got := mem.Decode(c.addr); got != c.want {
			t.Errorf("Decode(%#x) = %v, want %v", c.addr, got, c.want)
		}
	}
}

func TestMemoryMap_ChipRAM_ReadWriteRoundTrip(t *testing.T) {
	mem := NewMemoryMap(make([]byte, 1024), nil, nil, nil)
	mem.WriteCycle(0, m68k.Long, 0x100, 0xDEADBEEF)
	if got := mem.ReadCycle(0, m68k.Long, 0x100); got != 0xDEADBEEF {
		t.Fatalf("got %#x, want 0xDEADBEEF", got)
	}
	if got := mem.ReadCycle(0, m68k.Word, 0x102); got != 0xBEEF {
		t.Fatalf("got %#x, want 0xBEEF", got)
	}
}

func TestMemoryMap_UnmappedReadReturnsFloatingBus(t *testing.T) {
	mem := NewMemoryMap(nil, nil, nil, nil)
	mem.FloatingBus = 0x1234
	if got := mem.ReadCycle(0, m68k.Word, 0xA00000); got != 0x1234 {
		t.Fatalf("got %#x, want 0x1234", got)
	}
}

func TestMemoryMap_RomWritesAreDropped(t *testing.T) {
	rom := []byte{0xAA, 0xBB}
	mem := NewMemoryMap(nil, nil, nil, rom)
	mem.WriteCycle(0, m68k.Byte, 0xF80000, 0xFF)
	if rom[0] != 0xAA {
		t.Fatalf("ROM byte mutated: %#x", rom[0])
	}
}

func TestMemoryMap_ChipsetDispatch(t *testing.T) {
	mem := NewMemoryMap(nil, nil, nil, nil)
	target := &mockChipset{peek: 0x55AA, ok: true}
	mem.SetChipset(target)

	mem.WriteCycle(0, m68k.Word, 0xDFF096, 0x8000) // DMACON set bit
	if len(target.pokes) != 1 || target.pokes[0].off != 0x096 || target.pokes[0].val != 0x8000 {
		t.Fatalf("unexpected poke record: %+v", target.pokes)
	}

	if got := mem.ReadCycle(0, m68k.Word, 0xDFF096); got != 0x55AA {
		t.Fatalf("got %#x, want 0x55AA", got)
	}

	target.ok = false
	mem.FloatingBus = 0xFFFF
	if got := mem.ReadCycle(0, m68k.Word, 0xDFF096); got != 0xFFFF {
		t.Fatalf("got %#x, want floating bus 0xFFFF", got)
	}
}

func TestMemoryMap_ChipsetByteWriteIgnoresOddBit(t *testing.T) {
	mem := NewMemoryMap(nil, nil, nil, nil)
	target := &mockChipset{}
	mem.SetChipset(target)
	mem.WriteCycle(0, m68k.Byte, 0xDFF097, 0x12)
	if len(target.pokes) != 1 || target.pokes[0].off != 0x096 {
		t.Fatalf("expected offset rounded down to 0x096, got %+v", target.pokes)
	}
}
