package amiga

import (
	"testing"

	m68k "github.com/user-none/go-chip-m68k"
)

func newTestMachine(t *testing.T) *Machine {
	t.Helper()
	cfg := NewConfig()
	return NewMachine(cfg, nil)
}

func TestChipsetRegisters_DMACONEnablesChannel(t *testing.T) {
	m := newTestMachine(t)
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF096, 0x8000|1<<6) // set bit, blitter DMA
	if !m.Agnus.Enabled(ChanBlitter) {
		t.Fatal("expected ChanBlitter enabled after DMACON set-bit write")
	}
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF096, 1<<6) // clear bit (bit 15 unset), blitter DMA
	if m.Agnus.Enabled(ChanBlitter) {
		t.Fatal("expected ChanBlitter disabled after DMACON clear-bit write")
	}
}

func TestChipsetRegisters_ColorRegisterWrite(t *testing.T) {
	m := newTestMachine(t)
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF180, 0x0F0) // COLOR00 = 0x0F0 -> R=0 G=F B=0
	got := m.Denise.palette[0]
	want := RGB12{R: 0x0, G: 0xF, B: 0x0}
	if got != want {
		t.Fatalf("got %+v, want %+v", got, want)
	}
}

func TestChipsetRegisters_CopperListPointer(t *testing.T) {
	m := newTestMachine(t)
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF080, 0x0001) // COP1LCH
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF082, 0x2340) // COP1LCL
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF088, 0)      // COPJMP1 strobe

	if got := m.Regs.Copper.pc; got != 0x00012340 {
		t.Fatalf("got copper pc %#x, want 0x00012340", got)
	}
}

func TestChipsetRegisters_INTENAAndINTREQ(t *testing.T) {
	m := newTestMachine(t)
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF09A, 0x8000|1<<14|1<<IRQVERTB) // INTENA: master + VERTB
	m.Mem.WriteCycle(0, m68k.Word, 0xDFF09C, 0x8000|1<<IRQVERTB)       // INTREQ: raise VERTB
	if !m.IRQ.Pending(IRQVERTB) {
		t.Fatal("expected IRQVERTB pending after INTENA+INTREQ writes")
	}
}

func TestChipsetRegisters_DMACONRReflectsBlitterBusy(t *testing.T) {
	m := newTestMachine(t)
	m.Regs.Blitter.Busy = true
	if got := m.Mem.ReadCycle(0, m68k.Word, 0xDFF002); got&dmaconBBUSY == 0 {
		t.Fatalf("got %#x, want BBUSY bit set", got)
	}
}
