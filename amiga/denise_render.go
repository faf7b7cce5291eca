package amiga

// BeginOfLine resets currentPixel to the first allowed pixel position
// derived from the first bitplane-fetch event of the line (spec §4.G
// step 1). firstFetchH is the h position Agnus reported through
// OnFirstBitplaneFetch.
func (d *Denise) BeginOfLine(firstFetchH int) {
	d.currentPixel = firstFetchH * 2
	if d.currentPixel < 0 {
		d.currentPixel = 0
	}
	d.oddP.consumed = 0
	d.evenP.consumed = 0
	// HAM rule invariant: the running color resets to index 0's palette
	// value at the first visible pixel of each line.
	d.running = d.palette[0]
}

// bitAt extracts bit `step` (0 = MSB) from a plane's currently latched
// word.
func bitAt(word uint16, step int) int {
	if step < 0 || step > 15 {
		return 0
	}
	return int((word >> uint(15-step)) & 1)
}

// bitIndex returns the plane-data bit number (15 = MSB, the first pixel)
// to sample for the given
// parity's consumed-count, honoring its scroll offset. In hires mode one
// screen pixel advances the bit index by 1; in lores mode one *lores*
// pixel (2 screen pixels) advances it by 1, so consumed is expressed in
// hires-equivalent screen-pixel units and divided by the resolution
// factor to get the underlying bit index (spec §4.G step 3, and the
// scroll-quartet decision recorded in DESIGN.md).
func (p *parityState) bitIndex(hires bool) int {
	factor := 2
	if hires {
		factor = 1
	}
	return 15 - p.scroll - p.consumed/factor
}

// assembleIndex reads one bit from each of the six planes at the current
// consumption position and assembles either a single-playfield 0-63 index
// or resolves dual-playfield priority into a 0-63 index (spec §4.G step 3).
func (d *Denise) assembleIndex() uint8 {
	var bits [6]int
	for p := 0; p < d.planeCnt && p < 6; p++ {
		var parity *parityState
		if p%2 == 0 {
			parity = &d.oddP
		} else {
			parity = &d.evenP
		}
		bits[p] = bitAt(d.planes[p].data, 15-parity.bitIndex(d.hires))
	}

	if !d.dualPF {
		return uint8(bits[0] | bits[1]<<1 | bits[2]<<2 | bits[3]<<3 | bits[4]<<4 | bits[5]<<5)
	}

	pf1 := bits[0] | bits[2]<<1 | bits[4]<<2
	pf2 := bits[1] | bits[3]<<1 | bits[5]<<2
	pf1NonZero := pf1 != 0
	pf2NonZero := pf2 != 0
	if pf2NonZero {
		pf2 |= 0b1000
	}
	switch {
	case d.pf2Pri && pf2NonZero:
		return uint8(pf2)
	case pf1NonZero:
		return uint8(pf1)
	default:
		return uint8(pf2)
	}
}

// drawResolution processes n bit-extractions (one per plane pair-state
// step), each producing pixelsPerBit screen pixels, per spec §4.G step 3.
func (d *Denise) drawResolution(n, pixelsPerBit int) {
	for i := 0; i < n; i++ {
		idx := d.assembleIndex()
		for rep := 0; rep < pixelsPerBit; rep++ {
			d.writePixel(idx)
			d.oddP.consumed++
			d.evenP.consumed++
		}
	}
}

func (d *Denise) writePixel(idx uint8) {
	if d.currentPixel < 0 || d.currentPixel >= len(d.rasterline) {
		panic(BeamOutOfRange{Pixel: d.currentPixel})
	}
	d.rasterline[d.currentPixel] = idx
	d.currentPixel++
}

// DrawLores processes n lores pixel-pairs (2n screen pixels), each bit
// extraction shared across both screen pixels (spec S4).
func (d *Denise) DrawLores(n int) { d.drawResolution(n, 2) }

// DrawHires processes n screen pixels, one bit extraction each.
func (d *Denise) DrawHires(n int) { d.drawResolution(n, 1) }

// BeamOutOfRange signals a computed raster position outside the scratch
// buffer, an emulator-internal bug per spec §4.G failure modes.
type BeamOutOfRange struct{ Pixel int }

func (e BeamOutOfRange) Error() string { return "amiga: raster write out of range" }

// EndOfLine implements spec §4.G step 4: sprite overlay, border painting,
// index resolution to RGBA, copy into the frame buffer, and tail-carry.
// hFlopOn/hFlopOff are Agnus's WindowEdges for this line; blank tells
// whether the line was fully border.
func (d *Denise) EndOfLine(v int, hFlopOn, hFlopOff int, blank bool) {
	d.overlaySprites(v)
	d.paintBorders(hFlopOn, hFlopOff, blank)
	d.resolveAndStore(v)
	d.carryTail()
}

// paintBorders implements step 4b.
func (d *Denise) paintBorders(hFlopOn, hFlopOff int, blank bool) {
	idx := uint8(borderIndex)
	if d.DebugBorders {
		idx = debugBorderIndex
	}
	if blank {
		for i := range d.rasterline[:d.visibleWidth] {
			d.rasterline[i] = idx
		}
		return
	}
	if hFlopOn > 0 {
		left := 2 * hFlopOn
		if left > d.visibleWidth {
			left = d.visibleWidth
		}
		for i := 0; i < left; i++ {
			d.rasterline[i] = idx
		}
	}
	if hFlopOff >= 0 {
		right := 2 * hFlopOff
		if right < 0 {
			right = 0
		}
		for i := right; i < d.visibleWidth; i++ {
			d.rasterline[i] = idx
		}
	}
}

// carryTail copies the tail beyond the visible right edge to the head of
// the buffer for the next line (spec §3 "carrying sub-pixel phase").
func (d *Denise) carryTail() {
	tail := d.rasterline[d.visibleWidth:]
	copy(d.rasterline[:len(tail)], tail)
}
