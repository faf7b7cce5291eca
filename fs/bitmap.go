package fs

// Bitmap is the allocation bitmap decoded from one or more BITMAP/
// BITMAP_EXT blocks: one bit per block starting at block 2, bit set
// meaning free, per spec §4.I. Within each 32-bit word, bit k covers block
// 2+32*word+k, and the word's bytes are stored in reverse order on disk:
// the byte offsets [3,1,-1,-3] move host byte 0 to disk byte 3, byte 1 to
// 2, byte 2 to 1 and byte 3 to 0, i.e. the big-endian longword layout.
// This is implemented as a fixed per-word permutation table rather than
// derived arithmetically.
type Bitmap struct {
	free []bool // index by block number
}

// bytePermutation reorders the 4 bytes of a 32-bit bitmap word between
// host bit-order and the on-disk byte layout spec §4.I describes.
var bytePermutation = [4]int{3, 2, 1, 0}

// NewBitmap creates a bitmap sized for numBlocks, with every entry
// initially free.
func NewBitmap(numBlocks int) *Bitmap {
	bm := &Bitmap{free: make([]bool, numBlocks)}
	for i := range bm.free {
		bm.free[i] = true
	}
	return bm
}

// Free reports whether block n is marked free. Blocks 0 and 1 (boot)
// are never represented; asking about them returns false.
func (bm *Bitmap) Free(n int) bool {
	if n < 2 || n >= len(bm.free) {
		return false
	}
	return bm.free[n]
}

// SetFree marks block n free or allocated.
func (bm *Bitmap) SetFree(n int, free bool) {
	if n < 0 || n >= len(bm.free) {
		return
	}
	bm.free[n] = free
}

// AllocateAny returns the lowest-numbered free block at or above 2 and
// marks it allocated, or -1 if the bitmap is exhausted.
func (bm *Bitmap) AllocateAny() int {
	for n := 2; n < len(bm.free); n++ {
		if bm.free[n] {
			bm.free[n] = false
			return n
		}
	}
	return -1
}

// Encode packs the bitmap into buf starting at block 2 (the first 32-bit
// word holds blocks 2-33), applying the on-disk byte permutation per word.
func (bm *Bitmap) Encode(buf []byte) {
	for i := range buf {
		buf[i] = 0
	}
	for n := 2; n < len(bm.free); n++ {
		if !bm.free[n] {
			continue
		}
		bitIdx := n - 2
		wordIdx := bitIdx / 32
		bitInWord := bitIdx % 32
		byteInWord := bitInWord / 8
		bitInByte := uint(bitInWord % 8)
		diskByte := bytePermutation[byteInWord]
		pos := wordIdx*4 + diskByte
		if pos < len(buf) {
			buf[pos] |= 1 << bitInByte
		}
	}
}

// Decode reads a bitmap of numBlocks entries out of buf, reversing
// Encode's byte permutation.
func Decode(buf []byte, numBlocks int) *Bitmap {
	bm := &Bitmap{free: make([]bool, numBlocks)}
	for n := 2; n < numBlocks; n++ {
		bitIdx := n - 2
		wordIdx := bitIdx / 32
		bitInWord := bitIdx % 32
		byteInWord := bitInWord / 8
		bitInByte := uint(bitInWord % 8)
		diskByte := bytePermutation[byteInWord]
		pos := wordIdx*4 + diskByte
		if pos >= len(buf) {
			continue
		}
		bm.free[n] = buf[pos]&(1<<bitInByte) != 0
	}
	return bm
}
