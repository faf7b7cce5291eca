package amiga

import "testing"

func TestDiskController_SyncsOnExactWordMatch(t *testing.T) {
	irq := NewIRQController(nil)
	irq.SetMasterEnable(true)
	irq.SetEnable(IRQDSKSYN, true)

	d := NewDiskController(irq, 0x4489, false, 0)
	d.LoadTrack([]uint16{0x0000, 0x4489, 0x1234})

	d.DMASlot()
	if d.Synced() {
		t.Fatal("expected not synced before the sync word appears")
	}
	if irq.Pending(IRQDSKSYN) {
		t.Fatal("expected no DSKSYN before the sync word appears")
	}

	d.DMASlot()
	if !d.Synced() {
		t.Fatal("expected synced after the sync word")
	}
	if !irq.Pending(IRQDSKSYN) {
		t.Fatal("expected DSKSYN raised on the sync word")
	}
}

func TestDiskController_DeliversWordsOnlyAfterSync(t *testing.T) {
	d := NewDiskController(NewIRQController(nil), 0x4489, false, 0)
	d.LoadTrack([]uint16{0x4489, 0xAAAA, 0xBBBB})

	var got []uint16
	d.OnWord = func(word uint16) { got = append(got, word) }

	d.DMASlot() // the sync word itself, not delivered
	d.DMASlot()
	d.DMASlot()

	if len(got) != 2 || got[0] != 0xAAAA || got[1] != 0xBBBB {
		t.Fatalf("got %v, want [0xAAAA 0xBBBB]", got)
	}
}

func TestDiskController_AutoSyncFiresAfterTimeout(t *testing.T) {
	d := NewDiskController(NewIRQController(nil), 0x4489, true, 2)
	d.LoadTrack([]uint16{0x0000, 0x0001, 0x0002, 0x0003})

	d.DMASlot()
	if d.Synced() {
		t.Fatal("expected not synced before the timeout")
	}
	d.DMASlot()
	if !d.Synced() {
		t.Fatal("expected auto-sync to fire once sinceLastSync reaches the timeout")
	}
}

func TestDiskController_DMASlotPastEndOfTrackIsNoop(t *testing.T) {
	d := NewDiskController(NewIRQController(nil), 0x4489, false, 0)
	d.LoadTrack([]uint16{0x4489})
	d.DMASlot()
	d.DMASlot() // past end, should not panic or advance
	if d.pos != 1 {
		t.Fatalf("got pos %d, want 1 (unchanged past end of track)", d.pos)
	}
}
