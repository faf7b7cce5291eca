package amiga

// VideoFormat selects the two supported line/frame geometries, mirroring
// the teacher's NTSC/PAL RegionTiming split (emu/region.go) but for the
// chipset's own beam geometry rather than a host console's.
type VideoFormat int

const (
	FormatPAL VideoFormat = iota
	FormatNTSC
)

// BeamTiming holds the line/frame geometry for a video format.
type BeamTiming struct {
	LineLength  int // color-clocks per line
	LongLines   int // scanlines in a long frame (or every frame, non-interlace)
	ShortLines  int // scanlines in a short field when interlace is active
}

var palTiming = BeamTiming{LineLength: 227, LongLines: 313, ShortLines: 312}
var ntscTiming = BeamTiming{LineLength: 227, LongLines: 262, ShortLines: 262}

func timingFor(f VideoFormat) BeamTiming {
	if f == FormatNTSC {
		return ntscTiming
	}
	return palTiming
}

// Beam tracks the raster position (v, h) described in spec §3. h resets at
// end-of-line; v resets at end-of-frame. In interlace mode alternating
// fields use LongLines/ShortLines so the vertical period toggles.
type Beam struct {
	format    VideoFormat
	timing    BeamTiming
	interlace bool
	longFrame bool // which field is currently active

	V, H int

	wheel *Wheel
}

// NewBeam creates a beam counter for the given format, bound to wheel for
// HSYNC/VSYNC edge events. It does not arm any event itself; callers
// (Agnus) drive Tick per color-clock and read the edge return values.
func NewBeam(format VideoFormat, wheel *Wheel) *Beam {
	b := &Beam{format: format, timing: timingFor(format), wheel: wheel, longFrame: true}
	return b
}

// SetInterlace toggles interlace mode.
func (b *Beam) SetInterlace(on bool) { b.interlace = on }

// lineLength returns line length for the current field, snapping the same
// value in both fields (PAL/NTSC amiga lines are constant width; only the
// vertical count toggles for interlace).
func (b *Beam) lineLength() int { return b.timing.LineLength }

func (b *Beam) linesThisFrame() int {
	if b.interlace && !b.longFrame {
		return b.timing.ShortLines
	}
	return b.timing.LongLines
}

// BeamEdge describes which boundary(ies) a Tick crossed.
type BeamEdge struct {
	HSync      bool
	EndOfLine  bool
	VSync      bool
	EndOfFrame bool
}

// Tick advances the beam by exactly one color-clock, per spec §4.C.
// HSYNC/end-of-line/VSYNC/end-of-frame edges are reported for the caller
// to translate into event-wheel dispatch or interrupt requests.
func (b *Beam) Tick() BeamEdge {
	var e BeamEdge
	b.H++
	if b.H == 1 {
		e.HSync = true
	}
	if b.H >= b.lineLength() {
		b.H = 0
		e.EndOfLine = true
		b.V++
		if b.V == 1 {
			e.VSync = true
		}
		if b.V >= b.linesThisFrame() {
			b.V = 0
			e.EndOfFrame = true
			if b.interlace {
				b.longFrame = !b.longFrame
			}
		}
	}
	return e
}

// Position returns the current (v, h) pair.
func (b *Beam) Position() (v, h int) { return b.V, b.H }

// LongFrame reports whether the field currently being scanned is the long
// field (only meaningful with interlace enabled).
func (b *Beam) LongFrame() bool { return b.longFrame }
