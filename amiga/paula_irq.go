package amiga

// IRQSource enumerates the interrupt request bits Paula aggregates (spec
// §4.H "Interrupt request register aggregates bits from all components"),
// ordered low-to-high by INTREQ/INTENA bit position.
type IRQSource int

const (
	IRQTBE IRQSource = iota
	IRQDSKBLK
	IRQSOFT
	IRQPORTS
	IRQCOPER
	IRQVERTB
	IRQBLIT
	IRQAUD0
	IRQAUD1
	IRQAUD2
	IRQAUD3
	IRQRBF
	IRQDSKSYN
	IRQEXTER
	irqSourceCount
)

// ipl maps each source to the CPU priority level it contributes when the
// real chipset's INTREQ->IPL priority encoder is consulted, grounded on
// the standard hardware's fixed level grouping (levels 1-6).
var ipl = [irqSourceCount]int{
	IRQTBE:    1,
	IRQDSKBLK: 1,
	IRQSOFT:   1,
	IRQPORTS:  2,
	IRQCOPER:  3,
	IRQVERTB:  3,
	IRQBLIT:   3,
	IRQAUD0:   4,
	IRQAUD1:   4,
	IRQAUD2:   4,
	IRQAUD3:   4,
	IRQRBF:    5,
	IRQDSKSYN: 5,
	IRQEXTER:  6,
}

// IRQController implements Paula's interrupt request register: an
// INTREQ/INTENA bit pair per source, a master-enable bit, and a priority
// encoder producing the single IPL level delivered to the CPU (spec
// §4.H).
type IRQController struct {
	req    [irqSourceCount]bool
	enable [irqSourceCount]bool
	master bool

	cpu *CPUInterface
}

// NewIRQController creates a controller wired to raise interrupts on cpu.
func NewIRQController(cpu *CPUInterface) *IRQController {
	return &IRQController{cpu: cpu}
}

// SetMasterEnable toggles INTENA bit 14, the global gate.
func (c *IRQController) SetMasterEnable(on bool) {
	c.master = on
	c.recompute()
}

// SetEnable sets/clears one source's INTENA bit.
func (c *IRQController) SetEnable(src IRQSource, on bool) {
	c.enable[src] = on
	c.recompute()
}

// Raise sets one source's INTREQ bit (called by the owning component when
// its condition fires, e.g. Blitter.OnComplete, vertical blank, audio
// channel underrun).
func (c *IRQController) Raise(src IRQSource) {
	c.req[src] = true
	c.recompute()
}

// Clear acknowledges (clears) one source's INTREQ bit, as a CPU write to
// INTREQ would.
func (c *IRQController) Clear(src IRQSource) {
	c.req[src] = false
	c.recompute()
}

// Pending reports whether src's request is both set and enabled.
func (c *IRQController) Pending(src IRQSource) bool {
	return c.master && c.req[src] && c.enable[src]
}

// Level returns the current IPL (0 = none, 1-6 = active priority level),
// the highest level among pending sources.
func (c *IRQController) Level() int {
	if !c.master {
		return 0
	}
	level := 0
	for s := IRQSource(0); s < irqSourceCount; s++ {
		if c.req[s] && c.enable[s] && ipl[s] > level {
			level = ipl[s]
		}
	}
	return level
}

func (c *IRQController) recompute() {
	if c.cpu == nil {
		return
	}
	c.cpu.RequestInterrupt(uint8(c.Level()), nil)
}
