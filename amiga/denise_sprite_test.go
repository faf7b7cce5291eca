package amiga

import "testing"

func TestSpriteState_PixelUnarmedNeverCovers(t *testing.T) {
	s := &SpriteState{Armed: false, DataA: 0xFFFF, DataB: 0xFFFF, HStart: 0}
	_, covers := s.spritePixel(5)
	if covers {
		t.Fatal("expected an unarmed sprite to never cover a pixel")
	}
}

func TestSpriteState_PixelOutsideSixteenPixelSpanDoesNotCover(t *testing.T) {
	s := &SpriteState{Armed: true, DataA: 0xFFFF, DataB: 0xFFFF, HStart: 100}
	if _, covers := s.spritePixel(99); covers {
		t.Fatal("expected no coverage just before HStart")
	}
	if _, covers := s.spritePixel(116); covers {
		t.Fatal("expected no coverage past HStart+15")
	}
}

func TestSpriteState_PixelDecodesTwoBitCode(t *testing.T) {
	// bit 0 (MSB) set in both DataA and DataB -> code 0b11 = 3 at x=HStart.
	s := &SpriteState{Armed: true, DataA: 0x8000, DataB: 0x8000, HStart: 10}
	code, covers := s.spritePixel(10)
	if !covers {
		t.Fatal("expected coverage at the sprite's first pixel")
	}
	if code != 3 {
		t.Fatalf("got code %d, want 3", code)
	}
}

func TestDenise_OverlaySpritesWritesOverBorder(t *testing.T) {
	d := NewDenise(320)
	for i := range d.rasterline {
		d.rasterline[i] = borderIndex
	}
	d.ArmSprite(0, 0x8000, 20) // sprite pair 0/1, low sprite armed
	d.SetSpriteDataB(0, 0x8000, false)

	d.overlaySprites(0)

	if d.rasterline[20] == borderIndex {
		t.Fatal("expected the sprite pixel to overwrite the border index")
	}
}

// TestDenise_OverlaySpritesUnattachedPairSharesBaseColor guards against a
// base-color split between an unattached pair's two sprites: both must
// resolve into the same 4-color range (16+4*pair), with the higher-numbered
// sprite of the pair winning on overlap by draw order, matching the
// original's baseCol = 16 + 2*(nr&6).
func TestDenise_OverlaySpritesUnattachedPairSharesBaseColor(t *testing.T) {
	d := NewDenise(320)
	for i := range d.rasterline {
		d.rasterline[i] = borderIndex
	}
	// Sprite 0 (lo) and sprite 1 (hi) of pair 0, unattached, both covering
	// pixel 20 with distinct nonzero codes.
	d.ArmSprite(0, 0x8000, 20)     // lo: code 0b01 = 1
	d.SetSpriteDataB(0, 0, false)
	d.ArmSprite(1, 0x8000, 20)     // hi: code 0b11 = 3
	d.SetSpriteDataB(1, 0x8000, false)

	d.overlaySprites(0)

	want := uint8(16 + 0*4 + 3) // base for pair 0 plus hi's code, hi wins overlap
	if d.rasterline[20] != want {
		t.Fatalf("got %d, want %d (hi sprite overwrites lo within the pair's shared base)", d.rasterline[20], want)
	}
}

func TestDenise_OverlaySpritesLeavesNonBorderPlayfieldAlone(t *testing.T) {
	d := NewDenise(320)
	for i := range d.rasterline {
		d.rasterline[i] = 20 // a non-border, non-low playfield index
	}
	d.ArmSprite(0, 0x8000, 20)
	d.SetSpriteDataB(0, 0x8000, false)

	d.overlaySprites(0)

	if d.rasterline[20] != 20 {
		t.Fatalf("got %d, want unchanged 20 (sprites only draw over border/low playfield indices)", d.rasterline[20])
	}
}
