package amiga

import "testing"

func TestBeam_LineWraparoundSignalsEndOfLine(t *testing.T) {
	b := NewBeam(FormatPAL, NewWheel())
	var edge BeamEdge
	for i := 0; i < palTiming.LineLength; i++ {
		edge = b.Tick()
	}
	if !edge.EndOfLine {
		t.Fatal("expected EndOfLine on the last tick of the line")
	}
	if v, h := b.Position(); v != 1 || h != 0 {
		t.Fatalf("got v=%d h=%d, want v=1 h=0", v, h)
	}
}

func TestBeam_FirstLineIsVSync(t *testing.T) {
	b := NewBeam(FormatPAL, NewWheel())
	var sawVSync bool
	for i := 0; i < palTiming.LineLength; i++ {
		if b.Tick().VSync {
			sawVSync = true
		}
	}
	if !sawVSync {
		t.Fatal("expected VSync on the first line boundary")
	}
}

func TestBeam_FrameWraparoundNTSC(t *testing.T) {
	b := NewBeam(FormatNTSC, NewWheel())
	var sawEndOfFrame bool
	total := ntscTiming.LineLength * ntscTiming.LongLines
	for i := 0; i < total; i++ {
		if b.Tick().EndOfFrame {
			sawEndOfFrame = true
		}
	}
	if !sawEndOfFrame {
		t.Fatal("expected EndOfFrame after a full NTSC frame's color clocks")
	}
	if v, h := b.Position(); v != 0 || h != 0 {
		t.Fatalf("got v=%d h=%d, want v=0 h=0 after wraparound", v, h)
	}
}

func TestBeam_InterlaceTogglesFieldLength(t *testing.T) {
	b := NewBeam(FormatPAL, NewWheel())
	b.SetInterlace(true)
	if !b.LongFrame() {
		t.Fatal("expected the first field to be the long field")
	}

	total := palTiming.LineLength * palTiming.LongLines
	for i := 0; i < total; i++ {
		b.Tick()
	}
	if b.LongFrame() {
		t.Fatal("expected the field to toggle to short after one long field")
	}
}
