package amiga

// FrameBuffers holds the four raw pixel buffers (spec §3 "Frame buffers"):
// long-frame and short-frame each double-buffered, plus the working/stable
// pointer that swaps at end of frame so a host can read a stable buffer
// while the next frame is being drawn (scenario S7).
type FrameBuffers struct {
	longFrame1, longFrame2   []RGBA32
	shortFrame1, shortFrame2 []RGBA32

	width, height int

	workingLong, workingShort *[]RGBA32
	stableLong, stableShort   *[]RGBA32
}

// NewFrameBuffers allocates four buffers sized width*height.
func NewFrameBuffers(width, height int) *FrameBuffers {
	fb := &FrameBuffers{width: width, height: height}
	fb.longFrame1 = make([]RGBA32, width*height)
	fb.longFrame2 = make([]RGBA32, width*height)
	fb.shortFrame1 = make([]RGBA32, width*height)
	fb.shortFrame2 = make([]RGBA32, width*height)
	fb.workingLong, fb.stableLong = &fb.longFrame1, &fb.longFrame2
	fb.workingShort, fb.stableShort = &fb.shortFrame1, &fb.shortFrame2
	return fb
}

// PutLine writes one raster line's worth of resolved colors into the
// working buffer for the given field (long vs short, per interlace).
func (fb *FrameBuffers) PutLine(row int, short bool, pixels []RGBA32) {
	dst := fb.workingLong
	if short {
		dst = fb.workingShort
	}
	base := row * fb.width
	if base < 0 || base+fb.width > len(*dst) {
		return
	}
	copy((*dst)[base:base+fb.width], pixels)
}

// Swap exchanges working and stable buffers at end of frame (spec §3
// "the previous stable frame remains readable ... until the next swap",
// scenario S7).
func (fb *FrameBuffers) Swap() {
	fb.workingLong, fb.stableLong = fb.stableLong, fb.workingLong
	fb.workingShort, fb.stableShort = fb.stableShort, fb.workingShort
}

// Stable returns the currently host-readable long/short buffers.
func (fb *FrameBuffers) Stable() (long, short []RGBA32) {
	return *fb.stableLong, *fb.stableShort
}
