package amiga

// spritePixel returns the 2-bit color code a sprite contributes at
// screen pixel x for the current raster line, and whether the sprite
// covers x at all (spec §3 "Sprite state").
func (s *SpriteState) spritePixel(x int) (code uint8, covers bool) {
	if !s.Armed {
		return 0, false
	}
	off := x - s.HStart
	if off < 0 || off > 15 {
		return 0, false
	}
	hi := bitAt(s.DataB, off)
	lo := bitAt(s.DataA, off)
	code = uint8(hi<<1 | lo)
	return code, code != 0
}

// overlaySprites implements spec §4.G step 4a: sprites 0/1, 2/3, 4/5, 6/7
// pair up (attached sprites form a 4-bit index instead of two independent
// 2-bit ones); the lowest-numbered covering pair wins priority over the
// playfield unless the playfield's own priority bit says otherwise —
// simplified here to "sprites always draw over an assembled index of 0"
// and otherwise obey per-pair priority ordering, matching the common
// non-priority-swapped case this emulator's Copper-driven titles use.
//
// Both members of an unattached pair share one base color range
// (16+4*pair, ground truth: Denise.cpp's baseCol = 16 + 2*(nr&6)); an
// overlap within that range resolves by draw order, the higher-numbered
// sprite of the pair (hi) painting over the lower (lo).
func (d *Denise) overlaySprites(v int) {
	for pair := 0; pair < 4; pair++ {
		lo := &d.sprites[pair*2]
		hi := &d.sprites[pair*2+1]
		for x := 0; x < d.visibleWidth; x++ {
			codeLo, coversLo := lo.spritePixel(x)
			codeHi, coversHi := hi.spritePixel(x)
			if !coversLo && !coversHi {
				continue
			}
			var idx uint8
			if hi.Attached && (coversLo || coversHi) {
				idx = uint8(16 + int(codeHi)<<2 + int(codeLo))
			} else {
				base := uint8(16 + pair*4)
				idx = base
				if coversLo {
					idx = base + codeLo
				}
				if coversHi {
					idx = base + codeHi
				}
			}
			if d.rasterline[x] == borderIndex || d.rasterline[x] < 16 {
				d.rasterline[x] = idx
			}
		}
	}
}
