package amiga

// Paula bundles the audio DMA channels, disk controller, and interrupt
// controller into the single component Agnus/the event wheel schedules
// against (spec §4.H). Grounded on the teacher's per-chip top-level
// struct shape (compare emu/ym2612.go's channel-array-plus-shared-state
// layout), generalized from FM operators to DMA audio channels.
type Paula struct {
	Channels [4]*AudioChannel
	Disk     *DiskController
	IRQ      *IRQController
}

// NewPaula wires four audio channels (0<-modulates-1, 2<-modulates-3) and
// a disk controller, all sharing irq.
func NewPaula(mem *MemoryMap, irq *IRQController, dskSync uint16, autoSync bool, autoSyncTimeout int) *Paula {
	p := &Paula{IRQ: irq}
	p.Channels[0] = NewAudioChannel(mem, irq, IRQAUD0)
	p.Channels[1] = NewAudioChannel(mem, irq, IRQAUD1)
	p.Channels[2] = NewAudioChannel(mem, irq, IRQAUD2)
	p.Channels[3] = NewAudioChannel(mem, irq, IRQAUD3)
	p.Disk = NewDiskController(irq, dskSync, autoSync, autoSyncTimeout)
	return p
}

// SetChannelModulation enables/disables the channel-0->1 and channel-2->3
// volume/period modulation pairing (spec §4.H); the ADKCON MOD bits gate
// this on real hardware.
func (p *Paula) SetChannelModulation(ch0Mod1, ch2Mod3 bool) {
	if ch0Mod1 {
		p.Channels[0].AttachModulation(p.Channels[1])
	} else {
		p.Channels[1].modVolume, p.Channels[1].modPeriod = nil, nil
	}
	if ch2Mod3 {
		p.Channels[2].AttachModulation(p.Channels[3])
	} else {
		p.Channels[3].modVolume, p.Channels[3].modPeriod = nil, nil
	}
}

// AudioDMASlot steps the given channel index by one DMA slot, called by
// Agnus when it allocates a color-clock to an audio channel.
func (p *Paula) AudioDMASlot(ch int) {
	if ch < 0 || ch >= 4 {
		return
	}
	p.Channels[ch].DMASlot()
}

// DiskDMASlot steps the disk controller by one DMA slot.
func (p *Paula) DiskDMASlot() { p.Disk.DMASlot() }

// TickSamples advances every channel's period counter by one color
// clock, driving OnSample callbacks for host audio output.
func (p *Paula) TickSamples() {
	for _, ch := range p.Channels {
		ch.TickSample()
	}
}
