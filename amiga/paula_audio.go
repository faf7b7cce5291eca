package amiga

// AudioState is one of the five states an audio DMA channel's state
// machine occupies (spec §4.H).
type AudioState int

const (
	AudioIdle AudioState = iota
	AudioDMALatchLength
	AudioDMALatchDataA
	AudioPlayHigh
	AudioPlayLow
)

// AudioChannel is one of Paula's four independent DMA audio channels.
// Channel 0 can modulate channel 1's volume/period; channel 2 can
// modulate channel 3, per the hardware's fixed pairing (spec §4.H).
type AudioChannel struct {
	state AudioState

	ptr, base uint32
	length uint16 // in words
	period uint16
	volume uint8 // 0-64

	dataA, dataB uint16
	remaining    uint16

	periodCounter uint16

	// Modulating source channel, set on channels 1 and 3 by
	// AttachModulation; nil when the channel is not modulated.
	modVolume *AudioChannel
	modPeriod *AudioChannel

	OnSample func(sample int8)
	IRQ      *IRQController
	irqSrc   IRQSource

	mem *MemoryMap
}

// NewAudioChannel creates a channel bound to mem. DMASlot raises src on
// the interrupt controller at the end of every step except the one that
// reloads the pointer at the end of a block.
func NewAudioChannel(mem *MemoryMap, irq *IRQController, src IRQSource) *AudioChannel {
	return &AudioChannel{mem: mem, IRQ: irq, irqSrc: src}
}

// SetPointer/SetLength/SetPeriod/SetVolume mirror AUDxLC/AUDxLEN/AUDxPER/
// AUDxVOL register writes.
func (a *AudioChannel) SetPointer(addr uint32) { a.ptr, a.base = addr, addr }
func (a *AudioChannel) SetLength(words uint16) { a.length = words }
func (a *AudioChannel) SetPeriod(p uint16)     { a.period = p }
func (a *AudioChannel) SetVolume(v uint8) {
	if v > 64 {
		v = 64
	}
	a.volume = v
}

// AttachModulation wires this channel (0 or 2) to modulate target (1 or
// 3)'s effective volume and period when target is in modulation mode.
func (a *AudioChannel) AttachModulation(target *AudioChannel) {
	target.modVolume = a
	target.modPeriod = a
}

// DMASlot advances the state machine by one DMA slot (spec §4.H "State
// transitions are driven by audio DMA slot events and channel period
// timers").
func (a *AudioChannel) DMASlot() {
	switch a.state {
	case AudioIdle:
		a.ptr = a.base
		a.remaining = a.length
		a.state = AudioDMALatchLength
	case AudioDMALatchLength:
		a.dataA = a.fetchWord()
		a.remaining--
		a.state = AudioDMALatchDataA
	case AudioDMALatchDataA:
		a.dataB = a.fetchWord()
		if a.remaining > 0 {
			a.remaining--
		} else {
			a.remaining = a.length
		}
		a.state = AudioPlayHigh
	case AudioPlayHigh, AudioPlayLow:
		if a.remaining == 0 {
			a.ptr = a.base
			a.remaining = a.length
			a.state = AudioDMALatchLength
			return
		}
		a.dataA = a.fetchWord()
		a.remaining--
		if a.state == AudioPlayHigh {
			a.state = AudioPlayLow
		} else {
			a.state = AudioPlayHigh
		}
	}
	if a.IRQ != nil {
		a.IRQ.Raise(a.irqSrc)
	}
}

// TickSample advances the channel's period counter by one color clock,
// emitting a sample through OnSample whenever the counter underflows,
// applying any attached modulation to the effective volume.
func (a *AudioChannel) TickSample() {
	period := a.period
	if a.modPeriod != nil {
		period = a.modPeriod.currentSample()
	}
	if period == 0 {
		return
	}
	if a.periodCounter == 0 {
		a.periodCounter = period
		vol := a.volume
		if a.modVolume != nil {
			vol = uint8(a.modVolume.currentSample())
		}
		sample := scaleSample(int8(uint8(a.dataB)), vol)
		if a.OnSample != nil {
			a.OnSample(sample)
		}
	}
	a.periodCounter--
}

func (a *AudioChannel) currentSample() uint16 { return a.dataB }

func scaleSample(raw int8, vol uint8) int8 {
	return int8((int32(raw) * int32(vol)) / 64)
}

func (a *AudioChannel) fetchWord() uint16 {
	if a.mem == nil {
		return 0
	}
	w := uint16(a.mem.ReadCycle(0, wordSize, a.ptr&0xFFFFFF))
	a.ptr += 2
	return w
}
