package amiga

// TODCounter is a CIA-style 24-bit time-of-day counter that raises an
// interrupt on a configured match value (spec §4.H context; §9 "TOD
// bug"), grounded on emu/vdp.go's hIntCounter reload-on-match idiom.
type TODCounter struct {
	count uint32
	alarm uint32
	mask  uint32 // 0xFFFFFF, all three TOD bytes participate

	running bool

	// TODBugEnabled fires the match one TOD tick early, matching known
	// guest software's dependence on a historical silicon defect (spec §9;
	// see DESIGN.md's Open Question decision on the exact magnitude).
	TODBugEnabled bool

	IRQ    *IRQController
	irqSrc IRQSource

	// wheel/ticksPerTenth drive Tick from the event wheel's SlotTOD channel
	// at the CIA's native 1/10s rate instead of a caller having to remember
	// to call Tick itself (spec §4.A, §4.H).
	wheel         *Wheel
	ticksPerTenth uint64
}

// NewTODCounter creates a counter raising src through irq on match.
func NewTODCounter(irq *IRQController, src IRQSource) *TODCounter {
	return &TODCounter{mask: 0xFFFFFF, IRQ: irq, irqSrc: src}
}

// SetAlarm sets the 24-bit match value (a write to the ALARM registers).
func (t *TODCounter) SetAlarm(v uint32) { t.alarm = v & t.mask }

// Start/Stop gate counting, as a CIA TODIN-latch write would.
func (t *TODCounter) Start() { t.running = true }
func (t *TODCounter) Stop()  { t.running = false }

// SetCount writes the counter directly (a CIA TOD register write while
// stopped latches a new value).
func (t *TODCounter) SetCount(v uint32) { t.count = v & t.mask }

// Count returns the current 24-bit value.
func (t *TODCounter) Count() uint32 { return t.count }

// Tick advances the counter by one tenth-of-a-second tick (the CIA TOD's
// native rate), firing the interrupt on the tick where the counter reaches
// alarm. With TODBugEnabled, the match is evaluated one tick before the
// counter would naturally reach alarm, i.e. against count+1 instead of
// count.
func (t *TODCounter) Tick() {
	if !t.running {
		return
	}
	t.count = (t.count + 1) & t.mask
	check := t.count
	if t.TODBugEnabled {
		check = (t.count + 1) & t.mask
	}
	if check == t.alarm {
		if t.IRQ != nil {
			t.IRQ.Raise(t.irqSrc)
		}
	}
}

// bindWheel arms the counter to tick itself once per ticksPerTenth color
// clocks via the event wheel's SlotTOD channel, starting at cycle
// ticksPerTenth (called once from NewMachine).
func (t *TODCounter) bindWheel(w *Wheel, ticksPerTenth uint64) {
	t.wheel = w
	t.ticksPerTenth = ticksPerTenth
	w.Bind(SlotTOD, t)
	if ticksPerTenth > 0 {
		w.Schedule(SlotTOD, ticksPerTenth, 0, 0)
	}
}

// ServiceEvent implements Handler, ticking the counter at its documented
// 1/10s rate and rearming itself on SlotTOD (spec §4.A dispatch, §4.H).
func (t *TODCounter) ServiceEvent(cycle uint64, kind EventKind, data uint32) {
	t.Tick()
	if t.wheel != nil && t.ticksPerTenth > 0 {
		t.wheel.ScheduleRel(SlotTOD, cycle, t.ticksPerTenth, 0, 0)
	}
}
