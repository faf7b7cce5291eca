package fs

import "fmt"

// Standard raw image sizes, per spec §6.
const (
	SizeDD = 901120  // 80 cyls x 2 heads x 11 sectors x 512
	SizeHD = 1802240
)

// Image is a mounted disk image: a flat byte buffer plus the derived
// bitmap-block registry needed to disambiguate BITMAP/BITMAP_EXT blocks
// from data during type detection, grounded on emu/vdp.go's flat-buffer-
// plus-derived-index pattern (VRAM bytes plus the sprite attribute
// cache derived from them).
type Image struct {
	Data []byte
	Dos  DosType

	bitmapBlocks map[int]bool
	extBlocks    map[int]bool

	cache *BlockCache

	bitmap *Bitmap // lazily decoded/created, see Bitmap/CommitBitmap
}

// NewImage wraps an existing raw byte buffer (typically loaded from a
// file or archive member) as a mountable image. Its length must be
// SizeDD or SizeHD; anything else returns ErrWrongCapacity.
func NewImage(data []byte, dos DosType) (*Image, error) {
	if len(data) != SizeDD && len(data) != SizeHD {
		return nil, ErrWrongCapacity
	}
	if len(data)%BlockSize != 0 {
		return nil, ErrWrongBlockSize
	}
	img := &Image{Data: data, Dos: dos, bitmapBlocks: map[int]bool{}, extBlocks: map[int]bool{}}
	img.cache = NewBlockCache(img, 64)
	img.indexBitmapChain()
	return img, nil
}

// NumBlocks returns the image's block count.
func (img *Image) NumBlocks() int { return len(img.Data) / BlockSize }

// Block returns a view over block n. Panics if n is out of range,
// matching a slice-index-out-of-range failure mode: callers are expected
// to bounds-check against NumBlocks first, per spec §4.I's "out-of-range
// pointers" being an integrity-check finding rather than a runtime error.
func (img *Image) Block(n int) Block {
	off := n * BlockSize
	return Block{Num: n, Data: img.Data[off : off+BlockSize]}
}

// TypeOf classifies block n using the image's bitmap-chain registry.
func (img *Image) TypeOf(n int) BlockType {
	return DetectType(img.Block(n), img.Dos, img.bitmapBlocks[n], img.extBlocks[n])
}

// indexBitmapChain walks the root's bitmap pointer list and extension
// chain to populate bitmapBlocks/extBlocks, since spec §4.I's block-type
// rule for BITMAP/BITMAP_EXT depends on registry membership rather than
// block content.
func (img *Image) indexBitmapChain() {
	if img.NumBlocks() == 0 {
		return
	}
	root := img.Block(RootBlockNum(img.NumBlocks()))
	first := int(root.u32(offBitmapPtr))
	if first > 0 && first < img.NumBlocks() {
		img.bitmapBlocks[first] = true
	}
	ext := int32(root.u32(extensionBlockField))
	for ext > 0 && int(ext) < img.NumBlocks() && !img.extBlocks[int(ext)] {
		img.extBlocks[int(ext)] = true
		extBlk := img.Block(int(ext))
		ext = int32(extBlk.u32(extensionBlockField))
	}
}

// RootBlockNum is the conventional root-block location for a DD/HD
// image: the middle block, per spec §8 scenario S1's "block 880".
func RootBlockNum(numBlocks int) int { return numBlocks / 2 }

// Format writes a blank filesystem: a DOS boot block and an empty root
// block, per spec §4.I / §6 and §8 scenario S1 ("block 880's checksum
// matches; all other blocks are zero"). The allocation bitmap block is
// created lazily on first allocation rather than eagerly here, since S1
// asserts a freshly formatted image has no other nonzero block.
func Format(size int, dos DosType, bootable bool) (*Image, error) {
	if size != SizeDD && size != SizeHD {
		return nil, ErrWrongCapacity
	}
	data := make([]byte, size)
	img := &Image{Data: data, Dos: dos, bitmapBlocks: map[int]bool{}, extBlocks: map[int]bool{}}

	writeBootBlock(img, dos, bootable)

	rootNum := RootBlockNum(img.NumBlocks())
	writeRootBlock(img, rootNum, "Workbench")
	writeChecksummedRoot(img.Block(rootNum))

	img.cache = NewBlockCache(img, 64)
	return img, nil
}

func writeBootBlock(img *Image, dos DosType, bootable bool) {
	b0 := img.Block(0)
	copy(b0.Data[0:3], "DOS")
	if dos == DosFFS {
		b0.Data[3] = 1
	} else {
		b0.Data[3] = 0
	}
	if bootable {
		var bootstrap []byte
		if dos == DosFFS {
			bootstrap = FFSBootstrap
		} else {
			bootstrap = OFSBootstrap
		}
		copy(b0.Data[4:], bootstrap)
	}
}

// writeRootBlock lays out a fresh, empty root block: type, hash-table
// size, bitmap-valid flag, secondary type, and volume label. The
// checksum is written by the caller; the bitmap pointer is added later by
// CommitBitmap, which rewrites the checksum.
func writeRootBlock(img *Image, num int, label string) {
	b := img.Block(num)
	b.putU32(0, typeHeader)
	b.putU32(offHashTableSz, hashTableSize)
	b.putU32(offBitmapValid, 0xFFFFFFFF)
	b.putU32(secTypeOffset, secTypeRoot)
	writeName(b, nameOffset, label)
}

func writeChecksummedRoot(b Block) { WriteChecksum(b, offChecksum) }

func writeName(b Block, off int, name string) {
	if len(name) > 30 {
		name = name[:30]
	}
	b.Data[off] = byte(len(name))
	copy(b.Data[off+1:], name)
}

func readName(b Block, off int) string {
	n := int(b.Data[off])
	if n > 30 {
		n = 30
	}
	return string(b.Data[off+1 : off+1+n])
}

// Bitmap returns the image's decoded allocation bitmap, decoding it from
// the root's bitmap-pointer chain on first use, or synthesizing a fresh
// one (with boot/root blocks pre-marked allocated) if the root has no
// bitmap block yet.
func (img *Image) Bitmap() *Bitmap {
	if img.bitmap != nil {
		return img.bitmap
	}
	root := img.Block(RootBlockNum(img.NumBlocks()))
	first := int(root.u32(offBitmapPtr))
	if first <= 0 || first >= img.NumBlocks() {
		bm := NewBitmap(img.NumBlocks())
		bm.SetFree(0, false)
		bm.SetFree(1, false)
		bm.SetFree(RootBlockNum(img.NumBlocks()), false)
		img.bitmap = bm
		return bm
	}
	img.bitmap = Decode(img.Block(first).Data[4:], img.NumBlocks())
	return img.bitmap
}

// CommitBitmap writes the current in-memory bitmap back to disk,
// allocating a bitmap block on first commit and recording its number in
// the root, per spec §4.I "the first bitmap block is referenced by the
// root".
func (img *Image) CommitBitmap() {
	if img.bitmap == nil {
		return
	}
	root := img.Block(RootBlockNum(img.NumBlocks()))
	num := int(root.u32(offBitmapPtr))
	if num <= 0 || num >= img.NumBlocks() {
		num = img.bitmap.AllocateAny()
		if num < 0 {
			return
		}
		root.putU32(offBitmapPtr, uint32(num))
		WriteChecksum(root, offChecksum)
	}
	img.bitmapBlocks[num] = true
	b := img.Block(num)
	img.bitmap.Encode(b.Data[4:])
	WriteChecksum(b, bitmapChecksumOff)
	if img.cache != nil {
		img.cache.Invalidate(num)
	}
}

func (img *Image) String() string {
	return fmt.Sprintf("fs.Image{blocks=%d dos=%v}", img.NumBlocks(), img.Dos)
}
