package amiga

// maxRasterWidth is the length of the scratch raster buffer (spec §3
// "Raster line buffer": lineWidthInPixels + scrollMax). 4x the visible
// hires width comfortably covers scroll plus the tail-carry region.
const maxRasterWidth = 456 + 32

// borderIndex and debugBorderIndex are the color-table indices painted
// for border/blank pixels (spec §4.G step 4b). debugBorderIndex is only
// used when Machine.DebugBorders is enabled (SPEC_FULL supplemented
// feature, grounded on the original's Denise::DEBUG_PIXEL sentinel).
const (
	borderIndex      = 0
	debugBorderIndex = 0xFF
)

// planeChan holds one bitplane's currently-fetched word (spec §3
// "Bitplane state ... up to six plane data latches").
type planeChan struct {
	data uint16
}

// parityState tracks the shared scroll/consumption state for the three
// odd (1,3,5) or three even (2,4,6) bitplanes (spec §3 "scroll quartet").
type parityState struct {
	scroll   int // 0-15, from BPLCON1
	consumed int // hires-equivalent steps taken so far this line
}

// SpriteState is one sprite's DMA-fed state (spec §3 "Sprite state").
type SpriteState struct {
	HStart   int
	DataA    uint16
	DataB    uint16
	Armed    bool
	Attached bool
}

// Denise is the display synthesizer of spec §4.G.
type Denise struct {
	planes   [6]planeChan
	oddP     parityState
	evenP    parityState
	hires    bool
	dualPF   bool
	pf2Pri   bool
	planeCnt int

	sprites [8]SpriteState

	rasterline   [maxRasterWidth]uint8
	currentPixel int
	visibleWidth int

	// HAM state (spec §4.G step 4c).
	hamMode bool
	running RGB12

	palette [32]RGB12
	rgba    [32]RGBA32

	// Colour writes may be recorded with sub-line timing (spec §3 "Color
	// table"); mid-line changes are applied by callers via SetColorAt.
	colorChanges []colorChange

	DebugBorders bool

	frameFields *FrameBuffers
}

// RGB12 is a 12-bit chipset color register value.
type RGB12 struct{ R, G, B uint8 } // each 0-15

// RGBA32 is a resolved 32-bit display color.
type RGBA32 struct{ R, G, B, A uint8 }

type colorChange struct {
	pixel int
	index int
	value RGB12
}

// NewDenise creates a Denise pipeline with default (visible-width) raster
// geometry.
func NewDenise(visibleWidth int) *Denise {
	return &Denise{visibleWidth: visibleWidth}
}

// SetHires toggles hi-res mode (affects how many screen pixels one shifted
// bit spans, spec §4.G step 3).
func (d *Denise) SetHires(on bool) { d.hires = on }

// SetPlaneCount sets 0-6 active bitplanes.
func (d *Denise) SetPlaneCount(n int) {
	if n < 0 {
		n = 0
	}
	if n > 6 {
		n = 6
	}
	d.planeCnt = n
}

// SetDualPlayfield toggles dual-playfield mode and its priority bit (spec
// §4.G step 3 "Dual-playfield mode").
func (d *Denise) SetDualPlayfield(on, pf2Priority bool) {
	d.dualPF = on
	d.pf2Pri = pf2Priority
}

// SetHAM toggles hold-and-modify mode.
func (d *Denise) SetHAM(on bool) { d.hamMode = on }

// SetScroll sets the fine-scroll offsets for odd (planes 1,3,5) and even
// (planes 2,4,6) bitplanes, per the BPLCON1 nibble split (spec §3 "scroll
// quartet", §9 open question — see DESIGN.md).
func (d *Denise) SetScroll(oddScroll, evenScroll int) {
	d.oddP.scroll = oddScroll & 0xF
	d.evenP.scroll = evenScroll & 0xF
}

// wordFetchSpan is the number of bit-extractions one DMA fetch slot's worth
// of elapsed time draws. Agnus allocates one bitplane fetch every 8 (lores)
// or 4 (hires) color clocks, each color clock spanning 2 screen pixels
// (paintBorders' fixed "2*h" mapping) regardless of resolution; dividing
// that fixed 2*quantum span of screen pixels by the resolution's
// pixels-per-extraction (2 lores, 1 hires) always lands on 8.
const wordFetchSpan = 8

// LatchPlaneWord stores a freshly DMA-fetched word into plane (0-5), called
// from Agnus's OnPlaneWord callback once per fetch slot (spec §4.G step 2).
// Each call also draws the fixed-size span of pixels one fetch slot covers
// using whatever bits are currently latched across all active planes (spec
// §4.G step 3), so pixels are produced as Agnus's DMA actually supplies the
// data rather than only at end-of-line.
func (d *Denise) LatchPlaneWord(plane int, word uint16) {
	if plane < 0 || plane >= 6 {
		return
	}
	d.planes[plane].data = word
	if d.planeCnt == 0 {
		return
	}
	if d.hires {
		d.DrawHires(wordFetchSpan)
	} else {
		d.DrawLores(wordFetchSpan)
	}
}

// SetColor sets palette entry idx (0-31) immediately.
func (d *Denise) SetColor(idx int, c RGB12) {
	d.palette[idx&0x1F] = c
	d.rgba[idx&0x1F] = resolveRGBA(c)
}

// SetColorAt records a mid-line palette change to be applied when the
// raster reaches pixel (spec §3 "Writes may be recorded with sub-line
// timing").
func (d *Denise) SetColorAt(pixel, idx int, c RGB12) {
	d.colorChanges = append(d.colorChanges, colorChange{pixel: pixel, index: idx, value: c})
}

func resolveRGBA(c RGB12) RGBA32 {
	scale := func(v uint8) uint8 { return v<<4 | v }
	return RGBA32{R: scale(c.R), G: scale(c.G), B: scale(c.B), A: 0xFF}
}

// ArmSprite marks a sprite armed (write to data-A latch, spec §3 "an
// 'armed' bit set on write to data A").
func (d *Denise) ArmSprite(n int, dataA uint16, hstart int) {
	d.sprites[n].DataA = dataA
	d.sprites[n].HStart = hstart
	d.sprites[n].Armed = true
}

// SetSpriteDataB writes the sprite's second data word.
func (d *Denise) SetSpriteDataB(n int, dataB uint16, attached bool) {
	d.sprites[n].DataB = dataB
	d.sprites[n].Attached = attached
}
