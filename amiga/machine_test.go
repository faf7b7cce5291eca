package amiga

import (
	"testing"

	emucore "github.com/user-none/eblitui/api"
)

func TestMachine_RunFrameNoopBeforePowerOn(t *testing.T) {
	m := newTestMachine(t)
	m.RunFrame() // must not panic, no CPU cycles consumed
	if m.CPU.Cycles() != 0 {
		t.Fatalf("got %d CPU cycles, want 0 while powered off", m.CPU.Cycles())
	}
}

func TestMachine_PowerOnCommandStartsCPU(t *testing.T) {
	m := newTestMachine(t)
	m.apply(Command{Kind: CmdPowerOn})
	if !m.poweredOn {
		t.Fatal("expected poweredOn after CmdPowerOn")
	}
}

func TestMachine_SuspendPreventsRunFrame(t *testing.T) {
	m := newTestMachine(t)
	m.apply(Command{Kind: CmdPowerOn})
	m.Suspend()

	before := m.CPU.Cycles()
	m.RunFrame()
	if m.CPU.Cycles() != before {
		t.Fatal("expected no CPU progress while suspended")
	}

	m.Resume()
	m.RunFrame()
	if m.CPU.Cycles() == before {
		t.Fatal("expected CPU progress to resume after Resume")
	}
}

func TestMachine_InsertAndEjectDisk(t *testing.T) {
	m := newTestMachine(t)
	result := make(chan error, 1)
	m.apply(Command{Kind: CmdInsertDisk, Drive: 0, Image: []byte{0x01, 0x02, 0x03, 0x04}, Result: result})
	if err := <-result; err != nil {
		t.Fatalf("insert: %v", err)
	}
	if len(m.drives[0]) != 2 {
		t.Fatalf("got %d words loaded, want 2", len(m.drives[0]))
	}

	result2 := make(chan error, 1)
	m.apply(Command{Kind: CmdEjectDisk, Drive: 0, Result: result2})
	if err := <-result2; err != nil {
		t.Fatalf("eject: %v", err)
	}
	if m.drives[0] != nil {
		t.Fatal("expected drive 0 empty after eject")
	}
}

func TestMachine_EjectEmptyDriveReturnsError(t *testing.T) {
	m := newTestMachine(t)
	result := make(chan error, 1)
	m.apply(Command{Kind: CmdEjectDisk, Drive: 1, Result: result})
	if err := <-result; err != ErrNoDiskInDrive {
		t.Fatalf("got %v, want ErrNoDiskInDrive", err)
	}
}

func TestMachine_InsertDiskUnknownDriveReturnsError(t *testing.T) {
	m := newTestMachine(t)
	result := make(chan error, 1)
	m.apply(Command{Kind: CmdInsertDisk, Drive: 99, Image: []byte{1, 2}, Result: result})
	if err := <-result; err != ErrUnknownDrive {
		t.Fatalf("got %v, want ErrUnknownDrive", err)
	}
}

func TestMachine_SetRegionUpdatesTimingAndBudget(t *testing.T) {
	m := newTestMachine(t)
	before := m.m68kCyclesPerFrame

	m.SetRegion(emucore.RegionNTSC)
	if m.m68kCyclesPerFrame == before {
		t.Fatal("expected the per-frame cycle budget to change with region")
	}
	if m.GetTiming().FPS != 60 {
		t.Fatalf("got FPS %d, want 60 for NTSC", m.GetTiming().FPS)
	}
}

// TestMachine_TickLineFiresOncePerLineNotPerTick guards against Agnus's
// whole-line DMA schedule being re-walked on every color clock instead of
// once at each line boundary: with a one-slot bitplane schedule, a full
// line's worth of ticks must deliver exactly one fetch, not lineLength.
func TestMachine_TickLineFiresOncePerLineNotPerTick(t *testing.T) {
	m := newTestMachine(t)
	m.Agnus.SetEnable(ChanBitplane1, true)
	m.Agnus.SetBitplaneCount(1)
	m.Agnus.SetDisplayWindow(0, 8, 0, 300)
	m.Agnus.SetPlanePointer(0, 0)

	fetches := 0
	m.Agnus.OnPlaneWord = func(plane int, word uint16) { fetches++ }

	for i := 0; i < m.Beam.lineLength(); i++ {
		m.tickColorClock()
	}

	if fetches != 1 {
		t.Fatalf("got %d bitplane fetches over one line, want 1 (schedule must be serviced once per line, not once per color clock)", fetches)
	}
}

// TestMachine_TODTicksViaEventWheel guards against the TOD counter being
// wired up but never actually ticked: driving exactly one tenth-second's
// worth of color clocks through tickColorClock must advance it by one,
// via the event wheel's SlotTOD channel rather than a direct call site.
func TestMachine_TODTicksViaEventWheel(t *testing.T) {
	m := newTestMachine(t)
	m.TOD.Start()
	before := m.TOD.Count()

	n := int(m.TOD.ticksPerTenth)
	for i := 0; i < n; i++ {
		m.tickColorClock()
	}

	if m.TOD.Count() != before+1 {
		t.Fatalf("got TOD count %d after one tenth-second of color clocks, want %d", m.TOD.Count(), before+1)
	}
}

func TestMachine_ReadMemoryStopsAtChipRAMBoundary(t *testing.T) {
	m := newTestMachine(t)
	buf := make([]byte, 16)
	n := m.ReadMemory(uint32(len(m.Mem.chipRAM)-4), buf)
	if n != 4 {
		t.Fatalf("got %d bytes read, want 4 (clamped to chip RAM end)", n)
	}
}
