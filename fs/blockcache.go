package fs

import lru "github.com/hashicorp/golang-lru/v2"

// BlockView is a decoded, checksum-validated summary of one block,
// cached to avoid re-parsing on repeated lookups during a directory
// walk or integrity scan.
type BlockView struct {
	Type          BlockType
	ChecksumValid bool
}

// BlockCache memoizes BlockView decodes keyed by block number, grounded
// on the general "cache expensive derived state next to the raw buffer"
// idiom the teacher applies to VDP tile decoding, adapted here via
// `github.com/hashicorp/golang-lru/v2` instead of a hand-rolled map.
type BlockCache struct {
	img   *Image
	views *lru.Cache[int, BlockView]
}

// NewBlockCache creates a cache holding up to capacity decoded views.
func NewBlockCache(img *Image, capacity int) *BlockCache {
	c, _ := lru.New[int, BlockView](capacity)
	return &BlockCache{img: img, views: c}
}

// View returns block n's decoded view, computing and caching it on a
// miss.
func (c *BlockCache) View(n int) BlockView {
	if v, ok := c.views.Get(n); ok {
		return v
	}
	t := c.img.TypeOf(n)
	valid := true
	switch t {
	case TypeRoot, TypeUserDir, TypeFileHeader, TypeFileList:
		valid = ValidChecksum(c.img.Block(n), offChecksum)
	case TypeBitmap, TypeBitmapExt:
		valid = ValidChecksum(c.img.Block(n), bitmapChecksumOff)
	case TypeDataOFS:
		valid = ValidChecksum(c.img.Block(n), ofsChecksumOff)
	}
	v := BlockView{Type: t, ChecksumValid: valid}
	c.views.Add(n, v)
	return v
}

// Invalidate drops block n's cached view, called after any write.
func (c *BlockCache) Invalidate(n int) { c.views.Remove(n) }
