package fs

// OFSBootstrap and FFSBootstrap are the fixed byte sequences written
// into the boot block payload (offset 4 onward) in "make bootable" mode,
// per spec §6. Only the documented identifying prefix is reproduced;
// the remainder of the historical bootstrap loader is out of scope
// since nothing in this filesystem model executes boot code.
var (
	OFSBootstrap = []byte{0x43, 0xFA, 0x00, 0x18, 0x4E, 0xAE, 0xFF, 0xA0, 0x4A, 0x80, 0x67, 0x0A}
	FFSBootstrap = []byte{0xE3, 0x3D, 0x0E, 0x72, 0x00, 0x00, 0x03, 0xE9, 0x00, 0x00, 0x00, 0x08}
)

// IsBootable reports whether the boot block at data[0:4] carries the
// "DOS" signature and a recognized filesystem type byte (0 = OFS, 1 = FFS).
func IsBootable(data []byte) (DosType, bool) {
	if len(data) < 4 || string(data[0:3]) != "DOS" {
		return DosOFS, false
	}
	switch data[3] {
	case 0:
		return DosOFS, true
	case 1:
		return DosFFS, true
	default:
		return DosOFS, false
	}
}
