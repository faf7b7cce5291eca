package amiga

import "testing"

func TestTODCounter_FiresOnMatch(t *testing.T) {
	irq := NewIRQController(nil)
	irq.SetMasterEnable(true)
	irq.SetEnable(IRQPORTS, true)

	tod := NewTODCounter(irq, IRQPORTS)
	tod.SetAlarm(5)
	tod.Start()

	for i := 0; i < 5; i++ {
		if irq.Pending(IRQPORTS) {
			t.Fatalf("IRQPORTS pending too early, at tick %d", i)
		}
		tod.Tick()
	}
	if !irq.Pending(IRQPORTS) {
		t.Fatal("expected IRQPORTS pending after reaching the alarm value")
	}
}

func TestTODCounter_StoppedCounterDoesNotAdvance(t *testing.T) {
	tod := NewTODCounter(NewIRQController(nil), IRQPORTS)
	tod.SetCount(10)
	tod.Tick()
	if tod.Count() != 10 {
		t.Fatalf("got count %d, want 10 (stopped)", tod.Count())
	}
}

func TestTODCounter_BugFiresOneTickEarly(t *testing.T) {
	irq := NewIRQController(nil)
	irq.SetMasterEnable(true)
	irq.SetEnable(IRQVERTB, true)

	tod := NewTODCounter(irq, IRQVERTB)
	tod.TODBugEnabled = true
	tod.SetAlarm(5)
	tod.Start()

	for i := 0; i < 4; i++ {
		tod.Tick()
	}
	if !irq.Pending(IRQVERTB) {
		t.Fatal("expected the bugged counter to fire one tick before count==alarm")
	}
}

// TestTODCounter_BindWheelReschedulesItself guards against the counter's
// wheel binding being a one-shot: after bindWheel, advancing the wheel past
// two full periods must tick the counter twice, not once.
func TestTODCounter_BindWheelReschedulesItself(t *testing.T) {
	tod := NewTODCounter(NewIRQController(nil), IRQPORTS)
	tod.Start()

	w := NewWheel()
	tod.bindWheel(w, 100)

	w.Advance(100)
	if tod.Count() != 1 {
		t.Fatalf("got count %d after first period, want 1", tod.Count())
	}
	w.Advance(200)
	if tod.Count() != 2 {
		t.Fatalf("got count %d after second period, want 2 (handler must rearm itself)", tod.Count())
	}
}

func TestTODCounter_WrapsAt24Bits(t *testing.T) {
	tod := NewTODCounter(NewIRQController(nil), IRQPORTS)
	tod.SetCount(0xFFFFFF)
	tod.Start()
	tod.Tick()
	if tod.Count() != 0 {
		t.Fatalf("got count %#x, want wraparound to 0", tod.Count())
	}
}
