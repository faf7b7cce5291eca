package amiga

import m68k "github.com/user-none/go-chip-m68k"

// Channel identifies a DMA-slot competitor, ordered by arbitration
// priority (highest first), per spec §4.D.
type Channel int

const (
	ChanRefresh Channel = iota
	ChanDisk
	ChanAudio0
	ChanAudio1
	ChanAudio2
	ChanAudio3
	ChanSprite0
	ChanSprite1
	ChanSprite2
	ChanSprite3
	ChanSprite4
	ChanSprite5
	ChanSprite6
	ChanSprite7
	ChanBitplane1
	ChanBitplane2
	ChanBitplane3
	ChanBitplane4
	ChanBitplane5
	ChanBitplane6
	ChanCopper
	ChanBlitter
	ChanCPU
	ChanNone Channel = -1
)

// Action is what a DMA-owning channel does with its slot.
type Action int

const (
	ActionIdle Action = iota
	ActionFetchBitplane
	ActionFetchSpriteData
	ActionFetchSpriteDataB
	ActionFetchSpritePointer
	ActionRefresh
	ActionFetchAudio
	ActionFetchDisk
	ActionCopper
	ActionBlitter
)

// slotAssignment is one entry of the precomputed per-line fetch table
// (spec §3 "DMA slot table").
type slotAssignment struct {
	channel Channel
	action  Action
	plane   int // for ActionFetchBitplane/Sprite*, the plane/sprite index
}

// Fidelity holds the configurable knobs spec §9 leaves as open questions.
type Fidelity struct {
	// DropPointerWrites: if true, a mid-line write to a bitplane pointer
	// register drops that plane's remaining fetch for the current line
	// (spec §4.D "pointer drops"). Defaults to false: never drop.
	DropPointerWrites bool
}

// Agnus is the DMA arbiter and beam driver of spec §4.D. It owns the Beam,
// the per-channel enable flags and pointers, the display-window
// flip-flops, and the precomputed per-line fetch schedule.
type Agnus struct {
	Beam  *Beam
	wheel *Wheel
	mem   *MemoryMap

	// Per-channel DMA enables. Index by Channel.
	enabled [ChanCPU + 1]bool

	// Bitplane/sprite pointers: base address plus per-line increment.
	planePtr [6]uint32
	planeMod [2]uint16 // odd, even modulo (added after each line, per plane parity)
	planeCount int

	spritePtr [8]uint32

	// Display-window flip-flops (spec §3 "Bitplane state" / §4.D).
	diwHstrt, diwHstop int
	diwVstrt, diwVstop int
	hFlop              bool
	vFlop              bool
	hFlopOnThisLine    int
	hFlopOffThisLine   int
	lineBlank          bool

	fetchStart, fetchStop int // color-clock quantum-snapped fetch window
	hires                 bool

	schedule []slotAssignment // len == Beam.lineLength(), rebuilt on demand
	dirty    bool

	// inLineService and droppedThisLine implement Fidelity.DropPointerWrites:
	// a pointer write landing while TickLine's h-loop is still walking the
	// current line (e.g. a Copper MOVE firing from inside that same loop)
	// marks the plane dropped for the remainder of the line.
	inLineService   bool
	droppedThisLine [6]bool

	Fidelity Fidelity

	// Copper and Blitter are embedded coprocessors sharing Agnus's DMA
	// slots (spec §2 "D: DMA Arbiter (Agnus) ... with embedded Copper and
	// Blitter").
	Copper  *Copper
	Blitter *Blitter
	Paula   *Paula

	// Denise is notified of the first-bitplane-fetch event for pipeline
	// timing (spec §4.D step 2 "raise the first-bitplane event").
	OnFirstBitplaneFetch func(v, h int)
	// OnPlaneWord delivers a fetched bitplane word to Denise.
	OnPlaneWord func(plane int, word uint16)
	// OnSpriteWord delivers a fetched sprite data/pointer word to Denise/Paula.
	OnSpriteWord func(sprite int, isB bool, word uint16)

	IRQ *IRQController
}

// NewAgnus creates an Agnus bound to wheel/mem, driving beam.
func NewAgnus(beam *Beam, wheel *Wheel, mem *MemoryMap) *Agnus {
	a := &Agnus{Beam: beam, wheel: wheel, mem: mem, dirty: true}
	a.schedule = make([]slotAssignment, beam.lineLength())
	return a
}

// SetEnable arms or disarms a DMA channel.
func (a *Agnus) SetEnable(ch Channel, on bool) {
	a.enabled[ch] = on
	a.dirty = true
}

// Enabled reports a channel's current DMA enable state.
func (a *Agnus) Enabled(ch Channel) bool { return a.enabled[ch] }

// SetBitplaneCount sets the active number of bitplanes (0-6), forcing a
// fetch-table rebuild (spec §3 "recomputed ... when bitplane count
// changes").
func (a *Agnus) SetBitplaneCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > 6 {
		n = 6
	}
	a.planeCount = n
	a.dirty = true
}

// SetHires toggles hi-res mode, which halves the fetch quantum (spec §4.D
// step 1: "8 color-clocks lores / 4 hires").
func (a *Agnus) SetHires(on bool) {
	a.hires = on
	a.dirty = true
}

// SetDisplayWindow sets the diwstrt/diwstop registers (spec §4.D step 1).
func (a *Agnus) SetDisplayWindow(hstrt, hstop, vstrt, vstop int) {
	a.diwHstrt, a.diwHstop = hstrt, hstop
	a.diwVstrt, a.diwVstop = vstrt, vstop
	a.dirty = true
}

// quantum returns the fetch-start/stop snapping granularity.
func (a *Agnus) quantum() int {
	if a.hires {
		return 4
	}
	return 8
}

func snap(v, q int) int { return (v / q) * q }

// buildSchedule implements spec §4.D's per-line schedule construction
// algorithm. Grounded on emu/vdp_dma.go's per-mode throughput table and
// emu/vdp_window.go's window-boundary evaluation, generalized into a
// ranked multi-channel table instead of a single 68K-vs-VDP arbiter.
func (a *Agnus) buildSchedule() {
	q := a.quantum()
	a.fetchStart = snap(a.diwHstrt, q)
	a.fetchStop = snap(a.diwHstop, q)

	for i := range a.schedule {
		a.schedule[i] = slotAssignment{channel: ChanNone, action: ActionIdle}
	}

	// Step 1: refresh gets fixed high-priority slots regardless of display
	// window (spec §4.D arbitration order: refresh is highest priority).
	if a.enabled[ChanRefresh] {
		for h := 0; h < len(a.schedule); h += 32 {
			a.schedule[h] = slotAssignment{channel: ChanRefresh, action: ActionRefresh}
		}
	}

	// Step 2: enumerate bitplane fetches in canonical order across the
	// display window when the vertical flip-flop is active for this line.
	if a.enabled[ChanBitplane1] && a.planeCount > 0 {
		firstFetch := true
		for h := a.fetchStart; h < a.fetchStop && h < len(a.schedule); h += q {
			plane := (h - a.fetchStart) / q % a.planeCount
			if a.schedule[h].channel == ChanNone {
				a.schedule[h] = slotAssignment{
					channel: ChanBitplane1 + Channel(plane),
					action:  ActionFetchBitplane,
					plane:   plane,
				}
				if firstFetch && a.OnFirstBitplaneFetch != nil {
					firstFetch = false
				}
			}
		}
	}

	// Step 3: sprite fetches occupy the sixteen slots immediately before
	// the display window, two consecutive words (data A, then data B) per
	// sprite (spec §4.G step 4a).
	for s := 0; s < 8; s++ {
		ch := ChanSprite0 + Channel(s)
		if !a.enabled[ch] {
			continue
		}
		h := a.fetchStart - 16 + s*2
		if h >= 0 && h+1 < len(a.schedule) && a.schedule[h].channel == ChanNone && a.schedule[h+1].channel == ChanNone {
			a.schedule[h] = slotAssignment{channel: ch, action: ActionFetchSpriteData, plane: s}
			a.schedule[h+1] = slotAssignment{channel: ch, action: ActionFetchSpriteDataB, plane: s}
		}
	}

	// Step 4: fill remaining idle slots with lower-priority channels in
	// fixed order: disk, audio, Copper, Blitter, CPU.
	audioChans := [4]Channel{ChanAudio0, ChanAudio1, ChanAudio2, ChanAudio3}
	for h := range a.schedule {
		if a.schedule[h].channel != ChanNone {
			continue
		}
		switch {
		case a.enabled[ChanDisk] && h%2 == 0:
			a.schedule[h] = slotAssignment{channel: ChanDisk, action: ActionFetchDisk}
		case anyAudioDue(a, audioChans, h):
			a.schedule[h] = slotAssignment{channel: audioChans[h%4], action: ActionFetchAudio}
		case a.enabled[ChanCopper]:
			a.schedule[h] = slotAssignment{channel: ChanCopper, action: ActionCopper}
		case a.enabled[ChanBlitter]:
			a.schedule[h] = slotAssignment{channel: ChanBlitter, action: ActionBlitter}
		default:
			a.schedule[h] = slotAssignment{channel: ChanCPU, action: ActionIdle}
		}
	}

	a.dirty = false
}

func anyAudioDue(a *Agnus, chans [4]Channel, h int) bool {
	return a.enabled[chans[h%4]]
}

// TickLine advances Agnus by one full line: rebuilds the fetch schedule if
// dirty, walks every color-clock delivering DMA to the winning channel,
// updates the display-window flip-flops, and reports whether the line was
// fully blank (spec §4.D "A line is blank ...").
func (a *Agnus) TickLine() {
	if a.dirty {
		a.buildSchedule()
	}

	v, _ := a.Beam.Position()
	a.vFlop = v >= a.diwVstrt && v < a.diwVstop
	a.hFlop = false
	a.hFlopOnThisLine = -1
	a.hFlopOffThisLine = -1
	firstFired := false

	a.inLineService = true
	a.droppedThisLine = [6]bool{}

	for h := 0; h < len(a.schedule); h++ {
		if h == a.diwHstrt {
			a.hFlop = true
			a.hFlopOnThisLine = h
		}
		if h == a.diwHstop {
			a.hFlop = false
			a.hFlopOffThisLine = h
		}

		slot := a.schedule[h]
		if a.vFlop && a.hFlop && slot.action == ActionFetchBitplane && !a.droppedThisLine[slot.plane] {
			word := a.fetchWord(a.planePtr[slot.plane])
			a.planePtr[slot.plane] += 2
			if !firstFired {
				firstFired = true
				if a.OnFirstBitplaneFetch != nil {
					a.OnFirstBitplaneFetch(v, h)
				}
			}
			if a.OnPlaneWord != nil {
				a.OnPlaneWord(slot.plane, word)
			}
		}
		// Sprite fetches occupy fixed pre-window slots and run on any active
		// display line regardless of the horizontal flip-flop, which only
		// opens once the display window itself starts (spec §4.G step 4a).
		if a.vFlop {
			switch slot.action {
			case ActionFetchSpriteData:
				word := a.fetchWord(a.spritePtr[slot.plane])
				a.spritePtr[slot.plane] += 2
				if a.OnSpriteWord != nil {
					a.OnSpriteWord(slot.plane, false, word)
				}
			case ActionFetchSpriteDataB:
				word := a.fetchWord(a.spritePtr[slot.plane])
				a.spritePtr[slot.plane] += 2
				if a.OnSpriteWord != nil {
					a.OnSpriteWord(slot.plane, true, word)
				}
			}
		}
		switch slot.action {
		case ActionCopper:
			if a.Copper != nil {
				a.Copper.DMASlot(v, h)
			}
		case ActionBlitter:
			if a.Blitter != nil {
				a.Blitter.DMASlot()
			}
		case ActionFetchAudio:
			if a.Paula != nil {
				a.Paula.AudioDMASlot(slot.plane)
			}
		case ActionFetchDisk:
			if a.Paula != nil {
				a.Paula.DiskDMASlot()
			}
		}
	}

	a.inLineService = false

	a.lineBlank = !a.vFlop || a.hFlopOnThisLine < 0

	// End-of-line modulo application for enabled bitplanes (spec §3
	// "modulus registers for odd/even planes").
	if a.planeCount > 0 {
		for p := 0; p < a.planeCount; p++ {
			if p%2 == 0 {
				a.planePtr[p] += uint32(int16(a.planeMod[0]))
			} else {
				a.planePtr[p] += uint32(int16(a.planeMod[1]))
			}
		}
	}
}

func (a *Agnus) fetchWord(addr uint32) uint16 {
	if a.mem == nil {
		return 0
	}
	return uint16(a.mem.ReadCycle(0, m68k.Word, addr&0xFFFFFF))
}

// LineBlank reports whether the just-ticked line was fully border (spec
// §4.D / §4.G "A line is blank ...").
func (a *Agnus) LineBlank() bool { return a.lineBlank }

// WindowEdges returns the h-positions where hFlop turned on/off during the
// just-ticked line, or -1 if it never did (spec §4.D "record hFlopOn/
// hFlopOff").
func (a *Agnus) WindowEdges() (on, off int) { return a.hFlopOnThisLine, a.hFlopOffThisLine }

// SetPlanePointer sets a bitplane's DMA pointer. The pointer always takes
// its new value immediately; when Fidelity.DropPointerWrites is set and the
// write lands while this same line's fetch schedule is still being walked
// by TickLine (e.g. a Copper MOVE executing from inside that same h-loop),
// the plane's remaining bitplane fetches for the current line are skipped
// entirely rather than resuming from the new pointer mid-line, matching the
// one channel the documented knob is known to affect (spec §4.D step 4,
// §9). A write between lines, the common case, always takes effect for the
// next line's fetches regardless of the flag.
func (a *Agnus) SetPlanePointer(plane int, addr uint32) {
	a.planePtr[plane] = addr
	if a.inLineService && a.Fidelity.DropPointerWrites && plane >= 0 && plane < len(a.droppedThisLine) {
		a.droppedThisLine[plane] = true
	}
}

// SetPlaneModulo sets the odd/even per-line increment added after each
// line's fetches (spec §3 "modulus registers for odd/even planes").
func (a *Agnus) SetPlaneModulo(oddMod, evenMod uint16) {
	a.planeMod[0] = oddMod
	a.planeMod[1] = evenMod
}

// SetSpritePointer sets sprite s's DMA pointer.
func (a *Agnus) SetSpritePointer(s int, addr uint32) { a.spritePtr[s] = addr }
