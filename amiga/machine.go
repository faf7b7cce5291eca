package amiga

import (
	emucore "github.com/user-none/eblitui/api"
)

// Compile-time interface checks (spec §6 external interfaces).
var (
	_ emucore.Emulator        = (*Machine)(nil)
	_ emucore.SaveStater      = (*Machine)(nil)
	_ emucore.MemoryInspector = (*Machine)(nil)
	_ emucore.MemoryMapper    = (*Machine)(nil)
	_ Handler                 = (*Machine)(nil)
	_ Handler                 = (*TODCounter)(nil)
)

// Machine owns every hardware component and drives the event wheel one
// frame at a time, grounded on emu/emulator.go's top-level Emulator
// struct, generalized from a fixed CPU/VDP/PSG/YM2612/IO quintet to the
// list of components spec §2 names (Event Wheel, Memory Map, CPU
// Interface, Beam, Agnus/Copper/Blitter, Denise, Paula, CIA TOD).
type Machine struct {
	Wheel  *Wheel
	Mem    *MemoryMap
	CPU    *CPUInterface
	Beam   *Beam
	Agnus  *Agnus
	Denise *Denise
	Paula  *Paula
	IRQ    *IRQController
	TOD    *TODCounter
	Regs   *ChipsetRegisters

	Frames *FrameBuffers

	Config   *Config
	Commands *CommandQueue

	drives [4][]uint16 // loaded track data per drive, nil if empty

	// chSamples holds each Paula DMA channel's raw samples emitted so far
	// this frame; audioBuffer is the mixed interleaved-stereo result,
	// grounded on emu/audio.go's per-source-buffer-then-mix pattern.
	chSamples   [4][]int8
	audioBuffer []int16

	m68kCyclesPerFrame int

	// cycle is the running color-clock count fed to Wheel.Advance each tick
	// (spec §4.A: the event wheel is the scheduler of record, not an ad hoc
	// per-tick check).
	cycle uint64

	// suspendCount implements the nested suspend/resume protocol of spec
	// §5; RunFrame is a no-op while it is positive.
	suspendCount int

	poweredOn bool
	paused    bool

	region emucore.Region
}

// NewMachine assembles a complete machine from chip/slow/fast RAM sizes
// and a ROM image, wiring every component's cross-references exactly
// once (spec §4 data flow: A dispatches to owners; D arbitrates; G/H
// consume DMA words; the frame buffer is the only cross-thread surface).
func NewMachine(cfg *Config, rom []byte) *Machine {
	chipRAM := make([]byte, cfg.Get(OptionChipRAMSize).Bytes)
	slowRAM := make([]byte, cfg.Get(OptionSlowRAMSize).Bytes)
	fastRAM := make([]byte, cfg.Get(OptionFastRAMSize).Bytes)

	mem := NewMemoryMap(chipRAM, slowRAM, fastRAM, rom)
	wheel := NewWheel()
	format := cfg.Get(OptionVideoFormat).Format
	beam := NewBeam(format, wheel)

	cpu := NewCPUInterface(mem)
	irq := NewIRQController(cpu)

	agnus := NewAgnus(beam, wheel, mem)
	agnus.Fidelity.DropPointerWrites = cfg.Get(OptionPointerDropChannels).PointerDrop != PointerDropNone
	agnus.IRQ = irq

	copper := NewCopper(mem, beam, allowedChipsetMove)
	blitter := NewBlitter(mem)
	blitter.OnComplete = func() { irq.Raise(IRQBLIT) }
	agnus.Copper = copper
	agnus.Blitter = blitter

	denise := NewDenise(maxRasterWidth - 32)
	denise.DebugBorders = cfg.Get(OptionDebugBorders).Bool
	frames := NewFrameBuffers(denise.visibleWidth, int(beam.timing.LongLines))
	denise.BindFrameBuffers(frames)

	agnus.OnFirstBitplaneFetch = func(v, h int) { denise.BeginOfLine(h) }
	agnus.OnPlaneWord = func(plane int, word uint16) { denise.LatchPlaneWord(plane, word) }
	agnus.OnSpriteWord = func(sprite int, isB bool, word uint16) {
		if isB {
			denise.SetSpriteDataB(sprite, word, false)
		} else {
			denise.ArmSprite(sprite, word, 0)
		}
	}

	paula := NewPaula(mem, irq, 0x4489, true, 4096)
	agnus.Paula = paula

	tod := NewTODCounter(irq, IRQPORTS)
	tod.TODBugEnabled = cfg.Get(OptionTODBugEnabled).Bool

	regs := &ChipsetRegisters{Agnus: agnus, Copper: copper, Blitter: blitter, Denise: denise, Paula: paula, IRQ: irq}
	mem.SetChipset(regs)

	m := &Machine{
		Wheel: wheel, Mem: mem, CPU: cpu, Beam: beam,
		Agnus: agnus, Denise: denise, Paula: paula, IRQ: irq, TOD: tod, Regs: regs,
		Frames:      frames,
		Config:      cfg,
		Commands:    NewCommandQueue(256),
		region:      regionFor(format),
		audioBuffer: make([]int16, 0, 2048),
	}
	m.m68kCyclesPerFrame = beam.lineLength() * beam.timing.LongLines

	// Channels 0 and 3 are hard-panned left, 1 and 2 hard-panned right,
	// per the hardware's fixed LRRL wiring (spec §4.H).
	for i, ch := range paula.Channels {
		i := i
		ch.OnSample = func(s int8) { m.chSamples[i] = append(m.chSamples[i], s) }
	}

	// Bind the line-boundary service and the TOD tick onto the event wheel
	// (spec §4.A): both are real Wheel.Schedule/Advance-driven events, not
	// ad hoc per-tick checks.
	wheel.Bind(SlotBitplaneFetch, m)

	// Prime line 0: the boundary handler services the line that just
	// finished, so the very first line needs one upfront TickLine to
	// schedule its own DMA before any wheel event fires.
	agnus.TickLine()
	wheel.Schedule(SlotBitplaneFetch, uint64(beam.lineLength()), 0, 0)

	// TOD ticks at its native 1/10s rate regardless of PAL/NTSC frame rate.
	colorClocksPerSecond := uint64(m.m68kCyclesPerFrame) * uint64(fpsFor(format))
	tod.bindWheel(wheel, colorClocksPerSecond/10)

	return m
}

// allowedChipsetMove gates Copper MOVE instructions to the writable
// chipset register window, per spec §4.E's failure mode for illegal
// targets. $DFF000-$DFF1FF minus the read-only status registers.
func allowedChipsetMove(offset uint32) bool {
	if offset == regDMACONR || offset == regVPOSR || offset == regVHPOSR {
		return false
	}
	return offset < 0x200
}

func regionFor(f VideoFormat) emucore.Region {
	if f == FormatNTSC {
		return emucore.RegionNTSC
	}
	return emucore.RegionPAL
}

// RunFrame implements emucore.Emulator: advances the beam/event wheel one
// full frame, dispatching DMA/rendering/audio work at each color-clock,
// then draining the host command queue at the resulting event boundary
// (spec §5 "drained at frame boundaries").
func (m *Machine) RunFrame() {
	for i := range m.chSamples {
		m.chSamples[i] = m.chSamples[i][:0]
	}

	if m.suspendCount > 0 || m.paused || !m.poweredOn {
		m.Commands.Drain(m.apply)
		return
	}

	budget := m.m68kCyclesPerFrame
	for budget > 0 {
		consumed := m.CPU.StepCycles(1)
		if consumed == 0 {
			break
		}
		for i := 0; i < consumed; i++ {
			m.tickColorClock()
		}
		budget -= consumed
	}

	m.mixAudio()
	m.Commands.Drain(m.apply)
}

// mixAudio downmixes the four DMA channels' accumulated samples into
// interleaved 16-bit stereo, hard-panning channels 0/3 left and 1/2
// right, grounded on emu/audio.go's index-paired-with-leftover mixing of
// two independent per-source sample streams.
func (m *Machine) mixAudio() {
	m.audioBuffer = m.audioBuffer[:0]
	left := mixMono(m.chSamples[0], m.chSamples[3])
	right := mixMono(m.chSamples[1], m.chSamples[2])
	n := len(left)
	if len(right) < n {
		n = len(right)
	}
	for i := 0; i < n; i++ {
		m.audioBuffer = append(m.audioBuffer, left[i], right[i])
	}
}

// mixMono sums two int8 DMA sample streams (scaled to the int16 output
// range) into one, matching whichever stream ran longer this frame.
func mixMono(a, b []int8) []int16 {
	n := len(a)
	if len(b) > n {
		n = len(b)
	}
	out := make([]int16, n)
	for i := 0; i < n; i++ {
		var av, bv int32
		if i < len(a) {
			av = int32(a[i]) << 8
		}
		if i < len(b) {
			bv = int32(b[i]) << 8
		}
		out[i] = int16(clampInt32(av+bv, -32768, 32767))
	}
	return out
}

func clampInt32(v, lo, hi int32) int32 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (m *Machine) tickColorClock() {
	m.cycle++
	edge := m.Beam.Tick()

	m.Paula.TickSamples()

	if edge.VSync {
		m.IRQ.Raise(IRQVERTB)
	}
	if edge.EndOfFrame {
		m.Denise.PrepareForNextFrame()
	}

	// Dispatches every wheel event due at this cycle: the SlotBitplaneFetch
	// line-boundary handler (below) and SlotTOD's 1/10s counter tick.
	m.Wheel.Advance(m.cycle)
}

// ServiceEvent implements Handler for SlotBitplaneFetch: at each line
// boundary, finish the line that just ended (Denise's end-of-line pixel
// bookkeeping) and service Agnus's whole-line DMA schedule for the line
// that is starting, then rearm for the next boundary (spec §4.A dispatch,
// §4.D "Agnus ... schedule").
func (m *Machine) ServiceEvent(cycle uint64, kind EventKind, data uint32) {
	v, _ := m.Beam.Position()
	hOn, hOff := m.Agnus.WindowEdges()
	m.Denise.EndOfLine(v-1, hOn, hOff, m.Agnus.LineBlank())
	m.Agnus.TickLine()
	m.Wheel.ScheduleRel(SlotBitplaneFetch, cycle, uint64(m.Beam.lineLength()), 0, 0)
}

// GetFramebuffer implements emucore.Emulator, returning the stable
// long-field buffer as packed RGBA bytes.
func (m *Machine) GetFramebuffer() []byte {
	long, _ := m.Frames.Stable()
	out := make([]byte, len(long)*4)
	for i, px := range long {
		out[i*4+0] = px.R
		out[i*4+1] = px.G
		out[i*4+2] = px.B
		out[i*4+3] = px.A
	}
	return out
}

// GetFramebufferStride implements emucore.Emulator.
func (m *Machine) GetFramebufferStride() int { return m.Frames.width * 4 }

// GetActiveHeight implements emucore.Emulator.
func (m *Machine) GetActiveHeight() int { return m.Frames.height }

// GetAudioSamples implements emucore.Emulator, returning the interleaved
// stereo buffer mixAudio produced during the most recent RunFrame.
func (m *Machine) GetAudioSamples() []int16 {
	return m.audioBuffer
}

// SetInput implements emucore.Emulator by routing to mouse/joystick
// command submission; buttons is interpreted the same way the host
// encodes MOUSE_BUTTON/JOYSTICK_BUTTON commands.
func (m *Machine) SetInput(player int, buttons uint32) {
	_ = m.Commands.Submit(Command{Kind: CmdJoystickButton, Button: player, Pressed: buttons != 0})
}

// GetRegion implements emucore.Emulator.
func (m *Machine) GetRegion() emucore.Region { return m.region }

// SetRegion implements emucore.Emulator.
func (m *Machine) SetRegion(region emucore.Region) {
	m.region = region
	format := FormatPAL
	if region == emucore.RegionNTSC {
		format = FormatNTSC
	}
	m.Beam.format = format
	m.Beam.timing = timingFor(format)
	m.m68kCyclesPerFrame = m.Beam.lineLength() * m.Beam.timing.LongLines
}

// GetTiming implements emucore.Emulator.
func (m *Machine) GetTiming() emucore.Timing {
	return emucore.Timing{FPS: fpsFor(m.Beam.format), Scanlines: m.Beam.timing.LongLines}
}

func fpsFor(f VideoFormat) int {
	if f == FormatNTSC {
		return 60
	}
	return 50
}

// SetOption implements emucore.Emulator's string-keyed option surface,
// bridging to the typed Config for the handful of options the host UI
// exposes as strings.
func (m *Machine) SetOption(key string, value string) {
	switch key {
	case "debug_borders":
		m.Denise.DebugBorders = value == "true"
	case "tod_bug":
		m.TOD.TODBugEnabled = value == "true"
	}
}

// Close implements emucore.Emulator.
func (m *Machine) Close() {}

// ReadMemory implements emucore.MemoryInspector, presenting chip RAM as
// the flat address space RetroAchievements-style tooling walks, grounded
// on emu/emulator.go's ReadMemory range dispatch.
func (m *Machine) ReadMemory(addr uint32, buf []byte) uint32 {
	var count uint32
	for i := range buf {
		cur := int(addr) + i
		if cur < 0 || cur >= len(m.Mem.chipRAM) {
			return count
		}
		buf[i] = m.Mem.chipRAM[cur]
		count++
	}
	return count
}

// MemoryMap implements emucore.MemoryMapper. Slow and fast RAM are
// exposed as additional system-RAM regions since the interface has no
// slot for them; chip RAM is listed first to match its role as the
// primary address space.
func (m *Machine) MemoryMap() []emucore.MemoryRegion {
	regions := []emucore.MemoryRegion{{Type: emucore.MemorySystemRAM, Size: len(m.Mem.chipRAM)}}
	if len(m.Mem.slowRAM) > 0 {
		regions = append(regions, emucore.MemoryRegion{Type: emucore.MemorySystemRAM, Size: len(m.Mem.slowRAM)})
	}
	if len(m.Mem.fastRAM) > 0 {
		regions = append(regions, emucore.MemoryRegion{Type: emucore.MemorySystemRAM, Size: len(m.Mem.fastRAM)})
	}
	return regions
}

// ReadRegion implements emucore.MemoryMapper, returning a copy of chip
// RAM for MemorySystemRAM. This machine has no battery-backed storage
// (floppy images are the persistence surface instead), so MemorySaveRAM
// always returns nil.
func (m *Machine) ReadRegion(regionType int) []byte {
	if regionType != emucore.MemorySystemRAM {
		return nil
	}
	out := make([]byte, len(m.Mem.chipRAM))
	copy(out, m.Mem.chipRAM)
	return out
}

// WriteRegion implements emucore.MemoryMapper.
func (m *Machine) WriteRegion(regionType int, data []byte) {
	if regionType != emucore.MemorySystemRAM {
		return
	}
	copy(m.Mem.chipRAM, data)
}

// Suspend increments the nested suspend counter (spec §5 suspend/resume
// protocol); RunFrame becomes a no-op (beyond draining commands) once
// positive.
func (m *Machine) Suspend() { m.suspendCount++ }

// Resume decrements the suspend counter.
func (m *Machine) Resume() {
	if m.suspendCount > 0 {
		m.suspendCount--
	}
}

// apply executes one drained command against machine state.
func (m *Machine) apply(cmd Command) {
	var err error
	switch cmd.Kind {
	case CmdPowerOn:
		m.poweredOn = true
		m.CPU.Reset()
	case CmdPowerOff:
		m.poweredOn = false
	case CmdReset, CmdHardReset:
		m.CPU.Reset()
	case CmdPause:
		m.paused = true
	case CmdRun:
		m.paused = false
	case CmdInsertDisk:
		err = m.insertDisk(cmd.Drive, cmd.Image)
	case CmdEjectDisk:
		err = m.ejectDisk(cmd.Drive)
	}
	if cmd.Result != nil {
		cmd.Result <- err
	}
}

func (m *Machine) insertDisk(drive int, image []byte) error {
	if drive < 0 || drive >= len(m.drives) {
		return ErrUnknownDrive
	}
	words := make([]uint16, len(image)/2)
	for i := range words {
		words[i] = uint16(image[i*2])<<8 | uint16(image[i*2+1])
	}
	m.drives[drive] = words
	return nil
}

func (m *Machine) ejectDisk(drive int) error {
	if drive < 0 || drive >= len(m.drives) {
		return ErrUnknownDrive
	}
	if m.drives[drive] == nil {
		return ErrNoDiskInDrive
	}
	m.drives[drive] = nil
	return nil
}
