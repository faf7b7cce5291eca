package amiga

// resolveAndStore implements spec §4.G step 4c: resolve each raster index
// to RGBA (HAM decode when hamMode is set, sprite indices 16-31 read from
// the second half of the palette, straight lookup otherwise), applying any
// mid-line color-table writes recorded in colorChanges, then hands the
// resolved line to the frame buffer (scenario S8).
func (d *Denise) resolveAndStore(v int) {
	if d.frameFields == nil {
		d.colorChanges = d.colorChanges[:0]
		return
	}

	changeAt := 0
	line := make([]RGBA32, d.visibleWidth)

	running := d.running
	for x := 0; x < d.visibleWidth; x++ {
		for changeAt < len(d.colorChanges) && d.colorChanges[changeAt].pixel == x {
			ch := d.colorChanges[changeAt]
			d.SetColor(ch.index, ch.value)
			changeAt++
		}

		idx := d.rasterline[x]
		// Sprite overlay indices (16-31, written by overlaySprites) are
		// mutually rare with HAM in practice; real hardware still runs
		// sprites over a HAM playfield, but resolving that interaction is
		// not modeled here: in HAM mode a sprite index is decoded as a HAM
		// control code like any other index below 64.
		if d.hamMode && idx < 64 {
			running = hamStep(running, idx, d.palette)
			line[x] = resolveRGBA(running)
			continue
		}
		running = d.palette[idx&0x1F]
		line[x] = d.rgba[idx&0x1F]
	}
	d.running = running
	d.colorChanges = d.colorChanges[:0]

	d.frameFields.PutLine(v, false, line)
}

// hamStep applies one HAM control-code step (spec §4.G step 4c): the
// low 4 bits of idx select a base palette entry when the top 2 control
// bits are 00, otherwise they replace one 4-bit component (R/G/B) of the
// running color while leaving the others held.
func hamStep(running RGB12, idx uint8, palette [32]RGB12) RGB12 {
	control := idx >> 4
	value := idx & 0xF
	switch control {
	case 0b00:
		return palette[idx&0xF]
	case 0b01: // modify blue
		running.B = value
	case 0b10: // modify red
		running.R = value
	case 0b11: // modify green
		running.G = value
	}
	return running
}

// PrepareForNextFrame implements spec §4.G step 5: swap the stable/working
// frame buffers. It does not touch HAM or scroll state; BeginOfLine resets
// the running HAM color and the consumption counters at each line.
func (d *Denise) PrepareForNextFrame() {
	if d.frameFields != nil {
		d.frameFields.Swap()
	}
}

// BindFrameBuffers attaches the frame buffer sink Denise writes resolved
// lines into.
func (d *Denise) BindFrameBuffers(fb *FrameBuffers) { d.frameFields = fb }
