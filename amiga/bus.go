package amiga

import (
	m68k "github.com/user-none/go-chip-m68k"
)

// MemRegion identifies which backing store a physical address decodes to.
type MemRegion int

const (
	RegionChipRAM MemRegion = iota
	RegionSlowRAM
	RegionFastRAM
	RegionROM
	RegionChipset
	RegionUnmapped
)

// ChipsetTarget is implemented by any coprocessor that owns a slice of the
// chipset register space ($DFF000-$DFF1FF) and wants writes dispatched to
// it. Reads of write-only registers return the floating-bus pattern.
type ChipsetTarget interface {
	PokeReg(offset uint32, val uint16)
	PeekReg(offset uint32) (val uint16, ok bool)
}

// MemoryMap is the banked address decoder of spec §4.B. It implements
// m68k.Bus and m68k.CycleBus so it can be handed directly to m68k.New,
// grounded on emu/mem.go's GenesisBus address-range dispatch.
type MemoryMap struct {
	chipRAM []byte
	slowRAM []byte
	fastRAM []byte
	rom     []byte

	chipset ChipsetTarget

	// FloatingBus is returned (masked to the access size) for unmapped
	// reads, per spec §4.B "configured pattern".
	FloatingBus uint16
}

// NewMemoryMap allocates the four RAM/ROM regions. Sizes of zero are legal
// (e.g. no slow RAM fitted) and always read as unmapped.
func NewMemoryMap(chipRAM, slowRAM, fastRAM, rom []byte) *MemoryMap {
	return &MemoryMap{chipRAM: chipRAM, slowRAM: slowRAM, fastRAM: fastRAM, rom: rom}
}

// SetChipset attaches the component responsible for $DFF000-$DFF1FF pokes.
func (m *MemoryMap) SetChipset(c ChipsetTarget) { m.chipset = c }

// Decode classifies a 24-bit address, per spec §4.B.
func (m *MemoryMap) Decode(addr uint32) MemRegion {
	addr &= 0xFFFFFF
	switch {
	case addr < 0x200000 && len(m.chipRAM) > 0 && int(addr) < len(m.chipRAM):
		return RegionChipRAM
	case addr >= 0xC00000 && addr < 0xD80000 && len(m.slowRAM) > 0:
		return RegionSlowRAM
	case addr >= 0x200000 && addr < 0xA00000 && len(m.fastRAM) > 0:
		return RegionFastRAM
	case addr >= 0xF80000 && len(m.rom) > 0:
		return RegionROM
	case addr >= 0xDFF000 && addr < 0xE00000:
		return RegionChipset
	default:
		return RegionUnmapped
	}
}

// Read implements m68k.Bus.
func (m *MemoryMap) Read(op m68k.Size, addr uint32) uint32 {
	return m.ReadCycle(0, op, addr)
}

// Write implements m68k.Bus.
func (m *MemoryMap) Write(op m68k.Size, addr uint32, val uint32) {
	m.WriteCycle(0, op, addr, val)
}

// Reset implements m68k.Bus. The memory map itself holds no transient
// device state beyond RAM contents, which a hardware reset does not clear.
func (m *MemoryMap) Reset() {}

// ReadCycle implements m68k.CycleBus.
func (m *MemoryMap) ReadCycle(cycle uint64, op m68k.Size, addr uint32) uint32 {
	addr &= 0xFFFFFF
	switch m.Decode(addr) {
	case RegionChipRAM:
		return readSized(m.chipRAM, addr, op)
	case RegionSlowRAM:
		return readSized(m.slowRAM, addr-0xC00000, op)
	case RegionFastRAM:
		return readSized(m.fastRAM, addr-0x200000, op)
	case RegionROM:
		return readSized(m.rom, addr-0xF80000, op)
	case RegionChipset:
		return m.readChipset(addr, op)
	default:
		return uint32(m.FloatingBus) & op.Mask()
	}
}

// WriteCycle implements m68k.CycleBus.
func (m *MemoryMap) WriteCycle(cycle uint64, op m68k.Size, addr uint32, val uint32) {
	addr &= 0xFFFFFF
	switch m.Decode(addr) {
	case RegionChipRAM:
		writeSized(m.chipRAM, addr, op, val)
	case RegionSlowRAM:
		writeSized(m.slowRAM, addr-0xC00000, op, val)
	case RegionFastRAM:
		writeSized(m.fastRAM, addr-0x200000, op, val)
	case RegionROM:
		// ROM is read-only; writes are dropped.
	case RegionChipset:
		m.writeChipset(addr, op, val)
	default:
		// unmapped write: no effect
	}
}

// readChipset dispatches a chipset-register read into the owning
// component's PeekReg, per spec §4.B "Chipset register writes dispatch
// into the responsible component's poke<REG> endpoint" (symmetric for
// reads).
func (m *MemoryMap) readChipset(addr uint32, op m68k.Size) uint32 {
	if m.chipset == nil {
		return uint32(m.FloatingBus) & op.Mask()
	}
	off := addr - 0xDFF000
	val, ok := m.chipset.PeekReg(off &^ 1)
	if !ok {
		return uint32(m.FloatingBus) & op.Mask()
	}
	return uint32(val) & op.Mask()
}

func (m *MemoryMap) writeChipset(addr uint32, op m68k.Size, val uint32) {
	if m.chipset == nil {
		return
	}
	off := addr - 0xDFF000
	// Chipset registers are word-wide; byte writes replicate to both lanes
	// the way real Agnus/Denise/Paula register decoders do (address bit 0
	// is ignored, only even offsets are addressable).
	v := uint16(val)
	if op == m68k.Byte {
		v = uint16(val&0xFF) * 0x0101
	}
	m.chipset.PokeReg(off&^1, v)
}

func readSized(mem []byte, addr uint32, op m68k.Size) uint32 {
	if mem == nil {
		return 0
	}
	n := uint32(len(mem))
	switch op {
	case m68k.Byte:
		if addr >= n {
			return 0
		}
		return uint32(mem[addr])
	case m68k.Word:
		if addr+1 >= n {
			return 0
		}
		return uint32(mem[addr])<<8 | uint32(mem[addr+1])
	default: // Long
		if addr+3 >= n {
			return 0
		}
		return uint32(mem[addr])<<24 | uint32(mem[addr+1])<<16 |
			uint32(mem[addr+2])<<8 | uint32(mem[addr+3])
	}
}

func writeSized(mem []byte, addr uint32, op m68k.Size, val uint32) {
	if mem == nil {
		return
	}
	n := uint32(len(mem))
	switch op {
	case m68k.Byte:
		if addr < n {
			mem[addr] = byte(val)
		}
	case m68k.Word:
		if addr+1 < n {
			mem[addr] = byte(val >> 8)
			mem[addr+1] = byte(val)
		}
	default: // Long
		if addr+3 < n {
			mem[addr] = byte(val >> 24)
			mem[addr+1] = byte(val >> 16)
			mem[addr+2] = byte(val >> 8)
			mem[addr+3] = byte(val)
		}
	}
}
