package amiga

import (
	m68k "github.com/user-none/go-chip-m68k"
)

// CPUInterface drives the external 68k core against the memory map, one
// scheduled step at a time (spec §4.J / §6 "CPU bus contract"). Instruction
// decoding and execution themselves are out of scope (spec §1); this is
// only the clock-synchronized handoff between the event wheel and the
// go-chip-m68k core, grounded on emu/emulator.go's CPU-budget loop.
type CPUInterface struct {
	core *m68k.CPU
	bus  *MemoryMap
}

// NewCPUInterface wires a fresh 68k core to bus and performs a hardware
// reset (loading SSP/PC from address 0/4, exactly as m68k.New does).
func NewCPUInterface(bus *MemoryMap) *CPUInterface {
	return &CPUInterface{core: m68k.New(bus), bus: bus}
}

// StepCycles runs the CPU for at most budget cycles, returning cycles
// actually consumed (0 if halted on a double bus fault).
func (c *CPUInterface) StepCycles(budget int) int { return c.core.StepCycles(budget) }

// Cycles returns the CPU's total elapsed cycle count.
func (c *CPUInterface) Cycles() uint64 { return c.core.Cycles() }

// RequestInterrupt raises an interrupt at the given priority level (1-7).
// A nil vector requests autovectoring.
func (c *CPUInterface) RequestInterrupt(level uint8, vector *uint8) {
	c.core.RequestInterrupt(level, vector)
}

// Registers returns a snapshot of the core's registers for inspection.
// No pending-interrupt-level accessor is exposed here; go-chip-m68k
// resolves the pending level internally on its next Step.
func (c *CPUInterface) Registers() m68k.Registers { return c.core.Registers() }

// Halted reports whether the CPU stopped on a double bus fault.
func (c *CPUInterface) Halted() bool { return c.core.Halted() }

// Reset performs a hardware reset of the CPU core.
func (c *CPUInterface) Reset() { c.core.Reset() }

// SerializeSize returns the number of bytes CPUInterface.Serialize writes.
func (c *CPUInterface) SerializeSize() int { return m68k.SerializeSize }

// Serialize writes the CPU core's architectural state to buf.
func (c *CPUInterface) Serialize(buf []byte) error { return c.core.Serialize(buf) }

// Deserialize restores the CPU core's architectural state from buf.
func (c *CPUInterface) Deserialize(buf []byte) error { return c.core.Deserialize(buf) }
